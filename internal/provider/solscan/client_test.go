package solscan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tradewars/resolver/internal/provider"
	"go.uber.org/zap"
)

func TestFetchPage_RequestShape(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer server.Close()

	c := NewClient(&Config{
		BaseURL:        server.URL,
		APIKey:         "secret-key",
		PageSize:       40,
		RequestTimeout: time.Second,
		Logger:         zap.NewNop(),
	})

	_, err := c.FetchPage(context.Background(), "wallet123", "cursor-sig")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/account/transactions" {
		t.Errorf("expected /account/transactions, got %s", gotPath)
	}
	if gotAuth != "Bearer secret-key" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if got := gotQuery["address"]; len(got) != 1 || got[0] != "wallet123" {
		t.Errorf("expected address=wallet123, got %v", got)
	}
	if got := gotQuery["limit"]; len(got) != 1 || got[0] != "40" {
		t.Errorf("expected limit=40, got %v", got)
	}
	if got := gotQuery["before"]; len(got) != 1 || got[0] != "cursor-sig" {
		t.Errorf("expected before=cursor-sig, got %v", got)
	}
}

func TestFetchPage_NoCursorOnFirstPage(t *testing.T) {
	var gotQuery map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer server.Close()

	c := NewClient(&Config{
		BaseURL:        server.URL,
		APIKey:         "k",
		PageSize:       40,
		RequestTimeout: time.Second,
		Logger:         zap.NewNop(),
	})

	_, err := c.FetchPage(context.Background(), "wallet123", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, present := gotQuery["before"]; present {
		t.Error("expected no before param on first page")
	}
}

func TestFetchPage_ParsesRecords(t *testing.T) {
	body := `{
		"success": true,
		"data": [
			{
				"tx_hash": "sig1",
				"block_time": 1748800000,
				"status": 1,
				"signer": "wallet123",
				"parsed_instructions": [
					{
						"program": "system",
						"type": "transfer",
						"data": {"source": "wallet123", "destination": "other", "lamports": 2000000000}
					}
				]
			},
			{
				"tx_hash": "sig2",
				"block_time": 1748790000,
				"status": 0,
				"signer": "wallet123",
				"parsed_instructions": []
			}
		]
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	c := NewClient(&Config{
		BaseURL:        server.URL,
		APIKey:         "k",
		PageSize:       40,
		RequestTimeout: time.Second,
		Logger:         zap.NewNop(),
	})

	records, err := c.FetchPage(context.Background(), "wallet123", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Signature() != "sig1" {
		t.Errorf("expected sig1 first, got %s", records[0].Signature())
	}
	if !records[1].BlockTime().Equal(time.Unix(1748790000, 0)) {
		t.Errorf("unexpected block time %s", records[1].BlockTime())
	}

	// The failed transaction is kept as a record for cursor continuity
	// but normalizes to nothing.
	if got := c.Normalize(records[1], "wallet123"); got != nil {
		t.Errorf("expected failed record to normalize to nil, got %d transfers", len(got))
	}
}

func TestFetchPage_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient(&Config{
		BaseURL:        server.URL,
		APIKey:         "k",
		PageSize:       40,
		RequestTimeout: time.Second,
		Logger:         zap.NewNop(),
	})

	_, err := c.FetchPage(context.Background(), "wallet123", "")
	if err == nil {
		t.Fatal("expected error on 429")
	}

	if !provider.IsRateLimited(err) {
		t.Errorf("expected rate-limit classification, got %v", err)
	}
	if !provider.IsTransient(err) {
		t.Errorf("expected transient classification, got %v", err)
	}
}

func TestFetchPage_APIErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"errors":{"message":"invalid address"}}`))
	}))
	defer server.Close()

	c := NewClient(&Config{
		BaseURL:        server.URL,
		APIKey:         "k",
		PageSize:       40,
		RequestTimeout: time.Second,
		Logger:         zap.NewNop(),
	})

	_, err := c.FetchPage(context.Background(), "wallet123", "")
	if err == nil {
		t.Fatal("expected error from API error envelope")
	}

	if !strings.Contains(err.Error(), "invalid address") {
		t.Errorf("expected API message in error, got %v", err)
	}
	if provider.IsTransient(err) {
		t.Errorf("envelope errors are terminal, got transient for %v", err)
	}
}
