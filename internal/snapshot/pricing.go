package snapshot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/tradewars/resolver/pkg/cache"
	"go.uber.org/zap"
)

// PriceSource returns best-effort USD prices for snapshot valuation.
// Stablecoins are pegged at 1.0; SOL comes from the market-data API with
// a fixed default when the lookup fails. Prices are cached so pricing a
// whole competition's wallets costs one upstream call.
type PriceSource struct {
	baseURL    string
	defaultSOL decimal.Decimal
	cacheTTL   time.Duration
	priceCache cache.Cache
	httpClient *http.Client
	logger     *zap.Logger
}

// PriceConfig holds price source configuration.
type PriceConfig struct {
	BaseURL        string
	DefaultSOLUSD  float64
	CacheTTL       time.Duration
	Cache          cache.Cache
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

// NewPriceSource creates a new price source.
func NewPriceSource(cfg *PriceConfig) *PriceSource {
	return &PriceSource{
		baseURL:    cfg.BaseURL,
		defaultSOL: decimal.NewFromFloat(cfg.DefaultSOLUSD),
		cacheTTL:   cfg.CacheTTL,
		priceCache: cfg.Cache,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: cfg.Logger,
	}
}

const solPriceCacheKey = "price:solana:usd"

// SOLPriceUSD returns the current SOL/USD price, from cache when fresh,
// falling back to the configured default on any lookup failure.
func (p *PriceSource) SOLPriceUSD(ctx context.Context) decimal.Decimal {
	if p.priceCache != nil {
		if cached, ok := p.priceCache.Get(solPriceCacheKey); ok {
			if price, ok := cached.(decimal.Decimal); ok {
				return price
			}
		}
	}

	price, err := p.fetchSOLPrice(ctx)
	if err != nil {
		p.logger.Warn("sol-price-lookup-failed-using-default",
			zap.String("default", p.defaultSOL.String()),
			zap.Error(err))
		return p.defaultSOL
	}

	if p.priceCache != nil {
		p.priceCache.Set(solPriceCacheKey, price, p.cacheTTL)
	}

	return price
}

func (p *PriceSource) fetchSOLPrice(ctx context.Context) (decimal.Decimal, error) {
	requestURL := fmt.Sprintf("%s/simple/price?ids=solana&vs_currencies=usd", p.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("read response body: %w", err)
	}

	var priceResp struct {
		Solana struct {
			USD float64 `json:"usd"`
		} `json:"solana"`
	}
	err = json.Unmarshal(body, &priceResp)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unmarshal response: %w", err)
	}

	if priceResp.Solana.USD <= 0 {
		return decimal.Zero, fmt.Errorf("no price in response")
	}

	return decimal.NewFromFloat(priceResp.Solana.USD), nil
}
