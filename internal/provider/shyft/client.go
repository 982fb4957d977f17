// Package shyft implements the secondary transaction provider against the
// Shyft parsed transaction history API.
package shyft

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/tradewars/resolver/internal/provider"
	"go.uber.org/zap"
)

const providerName = "shyft"

// Client is an HTTP client for the Shyft wallet transaction history
// endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	network    string
	pageSize   int
	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds Shyft client configuration.
type Config struct {
	BaseURL        string
	APIKey         string
	Network        string
	PageSize       int
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

// NewClient creates a new Shyft client.
func NewClient(cfg *Config) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		network:  cfg.Network,
		pageSize: cfg.PageSize,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: cfg.Logger,
	}
}

// Name implements provider.Client.
func (c *Client) Name() string { return providerName }

// PageSize implements provider.Client.
func (c *Client) PageSize() int { return c.pageSize }

// historyResponse is the Shyft envelope.
type historyResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Result  []Record `json:"result"`
}

// FetchPage fetches one page of parsed transactions, newest first. The
// cursor is the first signature of the oldest transaction of the previous
// page, passed as before_signature.
func (c *Client) FetchPage(ctx context.Context, wallet string, cursor string) ([]provider.Record, error) {
	endpoint := fmt.Sprintf("%s/wallet/parsed_transaction_history", c.baseURL)

	params := url.Values{}
	params.Add("network", c.network)
	params.Add("account", wallet)
	params.Add("tx_num", strconv.Itoa(c.pageSize))
	if cursor != "" {
		params.Add("before_signature", cursor)
	}

	requestURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	c.logger.Debug("fetching-shyft-page",
		zap.String("wallet", wallet),
		zap.String("cursor", cursor))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	provider.RequestDurationSeconds.WithLabelValues(providerName).Observe(time.Since(start).Seconds())
	if err != nil {
		provider.RequestsTotal.WithLabelValues(providerName, "transport_error").Inc()
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		provider.RequestsTotal.WithLabelValues(providerName, "http_error").Inc()
		return nil, &provider.APIError{Provider: providerName, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		provider.RequestsTotal.WithLabelValues(providerName, "transport_error").Inc()
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var histResp historyResponse
	err = json.Unmarshal(body, &histResp)
	if err != nil {
		provider.RequestsTotal.WithLabelValues(providerName, "decode_error").Inc()
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if !histResp.Success {
		provider.RequestsTotal.WithLabelValues(providerName, "api_error").Inc()
		return nil, fmt.Errorf("shyft API error: %s", histResp.Message)
	}

	provider.RequestsTotal.WithLabelValues(providerName, "ok").Inc()
	provider.RecordsFetchedTotal.WithLabelValues(providerName).Add(float64(len(histResp.Result)))

	records := make([]provider.Record, len(histResp.Result))
	for i := range histResp.Result {
		records[i] = &histResp.Result[i]
	}

	c.logger.Debug("fetched-shyft-page",
		zap.String("wallet", wallet),
		zap.Int("records", len(records)))

	return records, nil
}
