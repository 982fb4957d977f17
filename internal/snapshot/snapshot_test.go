package snapshot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/tradewars/resolver/pkg/types"
	"go.uber.org/zap"
)

// fakeRPC serves canned getBalance and getTokenAccountsByOwner responses.
func fakeRPC(t *testing.T, lamports int64, holdings map[string]string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode rpc request: %v", err)
		}

		switch req.Method {
		case "getBalance":
			fmt.Fprintf(w, `{"result":{"value":%d}}`, lamports)
		case "getTokenAccountsByOwner":
			var accounts []map[string]any
			for mint, balance := range holdings {
				accounts = append(accounts, map[string]any{
					"account": map[string]any{
						"data": map[string]any{
							"parsed": map[string]any{
								"info": map[string]any{
									"mint": mint,
									"tokenAmount": map[string]any{
										"uiAmountString": balance,
									},
								},
							},
						},
					},
				})
			}
			resp := map[string]any{"result": map[string]any{"value": accounts}}
			json.NewEncoder(w).Encode(resp)
		default:
			t.Errorf("unexpected rpc method %q", req.Method)
		}
	}))
}

func fakePriceAPI(price string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"solana":{"usd":%s}}`, price)
	}))
}

func newTestService(t *testing.T, rpcURL, priceURL string) *Service {
	t.Helper()

	rpc := NewRPCClient(rpcURL, time.Second, zap.NewNop())
	prices := NewPriceSource(&PriceConfig{
		BaseURL:        priceURL,
		DefaultSOLUSD:  143.36,
		CacheTTL:       time.Minute,
		RequestTimeout: time.Second,
		Logger:         zap.NewNop(),
	})

	svc, err := NewService(&Config{RPC: rpc, Prices: prices, Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func findAsset(t *testing.T, snap *types.Snapshot, mint string) types.SnapshotAsset {
	t.Helper()

	for _, a := range snap.Assets {
		if a.Mint == mint {
			return a
		}
	}
	t.Fatalf("asset %s not in snapshot", mint)
	return types.SnapshotAsset{}
}

func TestTake(t *testing.T) {
	rpc := fakeRPC(t, 2_000_000_000, map[string]string{
		types.MintUSDC: "250.5",
	})
	defer rpc.Close()

	priceAPI := fakePriceAPI("150")
	defer priceAPI.Close()

	svc := newTestService(t, rpc.URL, priceAPI.URL)

	snap, err := svc.Take(context.Background(), "wallet123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sol := findAsset(t, snap, types.MintSOL)
	if !sol.Balance.Equal(decimal.NewFromInt(2)) {
		t.Errorf("expected 2 SOL, got %s", sol.Balance)
	}
	if !sol.USDValue.Equal(decimal.NewFromInt(300)) {
		t.Errorf("expected SOL value 300, got %s", sol.USDValue)
	}

	usdc := findAsset(t, snap, types.MintUSDC)
	if usdc.Symbol != "USDC" {
		t.Errorf("expected symbol USDC, got %s", usdc.Symbol)
	}
	if !usdc.USDValue.Equal(decimal.RequireFromString("250.5")) {
		t.Errorf("expected stablecoin priced 1:1, got %s", usdc.USDValue)
	}

	if !snap.TotalValue.Equal(decimal.RequireFromString("550.5")) {
		t.Errorf("expected total 550.5, got %s", snap.TotalValue)
	}
}

func TestTake_UntrackedTokenKeptWithZeroValue(t *testing.T) {
	rpc := fakeRPC(t, 0, map[string]string{
		"BonkMint1111111111111111111111111111111111": "1000000",
	})
	defer rpc.Close()

	priceAPI := fakePriceAPI("150")
	defer priceAPI.Close()

	svc := newTestService(t, rpc.URL, priceAPI.URL)

	snap, err := svc.Take(context.Background(), "wallet123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	unknown := findAsset(t, snap, "BonkMint1111111111111111111111111111111111")
	if unknown.Symbol != "UNKNOWN" {
		t.Errorf("expected UNKNOWN symbol, got %s", unknown.Symbol)
	}
	if !unknown.USDValue.IsZero() {
		t.Errorf("expected zero value for untracked token, got %s", unknown.USDValue)
	}
	if !unknown.Balance.Equal(decimal.NewFromInt(1000000)) {
		t.Errorf("expected balance kept, got %s", unknown.Balance)
	}
}

func TestTakeAtCompetitionStart(t *testing.T) {
	rpc := fakeRPC(t, 1_000_000_000, nil)
	defer rpc.Close()

	priceAPI := fakePriceAPI("150")
	defer priceAPI.Close()

	svc := newTestService(t, rpc.URL, priceAPI.URL)

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	snap, err := svc.TakeAtCompetitionStart(context.Background(), "wallet123", start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := start.Add(-time.Second)
	if !snap.TakenAt.Equal(want) {
		t.Errorf("expected snapshot stamped %s, got %s", want, snap.TakenAt)
	}
}

func TestSOLPriceUSD_FallsBackToDefault(t *testing.T) {
	priceAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer priceAPI.Close()

	prices := NewPriceSource(&PriceConfig{
		BaseURL:        priceAPI.URL,
		DefaultSOLUSD:  143.36,
		CacheTTL:       time.Minute,
		RequestTimeout: time.Second,
		Logger:         zap.NewNop(),
	})

	price := prices.SOLPriceUSD(context.Background())
	if !price.Equal(decimal.RequireFromString("143.36")) {
		t.Errorf("expected default 143.36, got %s", price)
	}
}

type mapCache struct {
	values map[string]interface{}
	sets   int
}

func newMapCache() *mapCache { return &mapCache{values: make(map[string]interface{})} }

func (m *mapCache) Get(key string) (interface{}, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mapCache) Set(key string, value interface{}, ttl time.Duration) bool {
	m.values[key] = value
	m.sets++
	return true
}

func (m *mapCache) Delete(key string) { delete(m.values, key) }
func (m *mapCache) Close()            {}

func TestSOLPriceUSD_Cached(t *testing.T) {
	var hits int
	priceAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"solana":{"usd":150}}`)
	}))
	defer priceAPI.Close()

	prices := NewPriceSource(&PriceConfig{
		BaseURL:        priceAPI.URL,
		DefaultSOLUSD:  143.36,
		CacheTTL:       time.Minute,
		Cache:          newMapCache(),
		RequestTimeout: time.Second,
		Logger:         zap.NewNop(),
	})

	first := prices.SOLPriceUSD(context.Background())
	second := prices.SOLPriceUSD(context.Background())

	if !first.Equal(second) {
		t.Errorf("expected identical cached price, got %s then %s", first, second)
	}
	if hits != 1 {
		t.Errorf("expected one upstream call, got %d", hits)
	}
}
