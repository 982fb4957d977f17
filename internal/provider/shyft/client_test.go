package shyft

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
	var gotPath, gotKey string
	var gotQuery map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"success":true,"message":"ok","result":[]}`))
	}))
	defer server.Close()

	c := NewClient(&Config{
		BaseURL:        server.URL,
		APIKey:         "shyft-key",
		Network:        "mainnet-beta",
		PageSize:       10,
		RequestTimeout: time.Second,
		Logger:         zap.NewNop(),
	})

	_, err := c.FetchPage(context.Background(), "wallet123", "cursor-sig")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/wallet/parsed_transaction_history" {
		t.Errorf("expected parsed_transaction_history path, got %s", gotPath)
	}
	if gotKey != "shyft-key" {
		t.Errorf("expected x-api-key header, got %q", gotKey)
	}
	if got := gotQuery["network"]; len(got) != 1 || got[0] != "mainnet-beta" {
		t.Errorf("expected network=mainnet-beta, got %v", got)
	}
	if got := gotQuery["account"]; len(got) != 1 || got[0] != "wallet123" {
		t.Errorf("expected account=wallet123, got %v", got)
	}
	if got := gotQuery["tx_num"]; len(got) != 1 || got[0] != "10" {
		t.Errorf("expected tx_num=10, got %v", got)
	}
	if got := gotQuery["before_signature"]; len(got) != 1 || got[0] != "cursor-sig" {
		t.Errorf("expected before_signature=cursor-sig, got %v", got)
	}
}

func TestFetchPage_ParsesRecords(t *testing.T) {
	body := `{
		"success": true,
		"message": "ok",
		"result": [
			{
				"timestamp": "2025-06-01T12:00:00Z",
				"status": "Success",
				"signatures": ["sig-a", "sig-b"],
				"actions": [
					{
						"type": "TOKEN_TRANSFER",
						"info": {
							"sender": "wallet123",
							"receiver": "other",
							"amount": 42.5,
							"token_address": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
						}
					}
				]
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
		Network:        "mainnet-beta",
		PageSize:       10,
		RequestTimeout: time.Second,
		Logger:         zap.NewNop(),
	})

	records, err := c.FetchPage(context.Background(), "wallet123", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Signature() != "sig-a" {
		t.Errorf("expected first signature as cursor, got %s", records[0].Signature())
	}

	transfers := c.Normalize(records[0], "wallet123")
	if len(transfers) != 1 {
		t.Fatalf("expected 1 transfer, got %d", len(transfers))
	}
}

func TestFetchPage_FailureEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"api key expired","result":[]}`))
	}))
	defer server.Close()

	c := NewClient(&Config{
		BaseURL:        server.URL,
		APIKey:         "k",
		Network:        "mainnet-beta",
		PageSize:       10,
		RequestTimeout: time.Second,
		Logger:         zap.NewNop(),
	})

	_, err := c.FetchPage(context.Background(), "wallet123", "")
	if err == nil {
		t.Fatal("expected error when success=false")
	}

	if !strings.Contains(err.Error(), "api key expired") {
		t.Errorf("expected API message in error, got %v", err)
	}
}

func TestFetchPage_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(&Config{
		BaseURL:        server.URL,
		APIKey:         "k",
		Network:        "mainnet-beta",
		PageSize:       10,
		RequestTimeout: time.Second,
		Logger:         zap.NewNop(),
	})

	_, err := c.FetchPage(context.Background(), "wallet123", "")
	if err == nil {
		t.Fatal("expected error on 502")
	}

	if !provider.IsTransient(err) {
		t.Errorf("expected transient classification for 502, got %v", err)
	}
}
