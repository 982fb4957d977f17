// Package solscan implements the primary transaction provider against the
// Solscan pro API v2.
package solscan

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

const providerName = "solscan"

// Client is an HTTP client for the Solscan account/transactions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds Solscan client configuration.
type Config struct {
	BaseURL        string
	APIKey         string
	PageSize       int
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

// NewClient creates a new Solscan client.
func NewClient(cfg *Config) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
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

// transactionsResponse is the Solscan envelope.
type transactionsResponse struct {
	Success bool     `json:"success"`
	Data    []Record `json:"data"`
	Errors  *struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchPage fetches one page of transactions, newest first. The cursor is
// the tx hash of the oldest record of the previous page.
func (c *Client) FetchPage(ctx context.Context, wallet string, cursor string) ([]provider.Record, error) {
	endpoint := fmt.Sprintf("%s/account/transactions", c.baseURL)

	params := url.Values{}
	params.Add("address", wallet)
	params.Add("limit", strconv.Itoa(c.pageSize))
	if cursor != "" {
		params.Add("before", cursor)
	}

	requestURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug("fetching-solscan-page",
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

	var txResp transactionsResponse
	err = json.Unmarshal(body, &txResp)
	if err != nil {
		provider.RequestsTotal.WithLabelValues(providerName, "decode_error").Inc()
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if txResp.Errors != nil {
		provider.RequestsTotal.WithLabelValues(providerName, "api_error").Inc()
		return nil, fmt.Errorf("solscan API error: %s", txResp.Errors.Message)
	}

	provider.RequestsTotal.WithLabelValues(providerName, "ok").Inc()
	provider.RecordsFetchedTotal.WithLabelValues(providerName).Add(float64(len(txResp.Data)))

	records := make([]provider.Record, len(txResp.Data))
	for i := range txResp.Data {
		records[i] = &txResp.Data[i]
	}

	c.logger.Debug("fetched-solscan-page",
		zap.String("wallet", wallet),
		zap.Int("records", len(records)))

	return records, nil
}
