// Package fetcher collects a wallet's canonical transfers for a
// competition window, paging through the primary provider and falling
// back to the secondary when the primary yields nothing usable.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tradewars/resolver/internal/provider"
	"github.com/tradewars/resolver/pkg/types"
	"go.uber.org/zap"
)

// Config holds fetcher configuration. Retry knobs are injected so tests
// can run with zero delays.
type Config struct {
	Primary   provider.Client
	Secondary provider.Client

	MaxRetries     int           // attempts per page request
	BaseDelay      time.Duration // backoff = BaseDelay * attempt
	RateLimitDelay time.Duration // fixed cooldown after HTTP 429
	MaxPages       int           // hard cap on pages per wallet
	Logger         *zap.Logger
}

// Fetcher pages wallet transaction history and accumulates in-window
// canonical transfers.
type Fetcher struct {
	primary        provider.Client
	secondary      provider.Client
	maxRetries     int
	baseDelay      time.Duration
	rateLimitDelay time.Duration
	maxPages       int
	logger         *zap.Logger
}

// New creates a new Fetcher.
func New(cfg *Config) (*Fetcher, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Primary == nil {
		return nil, errors.New("primary provider cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.MaxRetries < 1 {
		return nil, fmt.Errorf("max retries must be at least 1, got %d", cfg.MaxRetries)
	}

	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 250
	}

	return &Fetcher{
		primary:        cfg.Primary,
		secondary:      cfg.Secondary,
		maxRetries:     cfg.MaxRetries,
		baseDelay:      cfg.BaseDelay,
		rateLimitDelay: cfg.RateLimitDelay,
		maxPages:       maxPages,
		logger:         cfg.Logger,
	}, nil
}

// FetchTransfers returns every in-window transfer for the wallet. It never
// returns an error: if both providers fail entirely the result is empty,
// so one participant's data outage cannot abort a whole resolution. The
// returned order is provider order; aggregation does not depend on it.
func (f *Fetcher) FetchTransfers(ctx context.Context, wallet string, window Window) []types.Transfer {
	transfers, err := f.fetchFrom(ctx, f.primary, wallet, window)
	if len(transfers) > 0 {
		// A mid-pagination outage truncates the ledger but the pages
		// already collected are real in-window data; keep them rather
		// than discarding for an all-or-nothing fallback.
		if err != nil {
			f.logger.Warn("primary-provider-truncated",
				zap.String("provider", f.primary.Name()),
				zap.String("wallet", wallet),
				zap.Int("transfers", len(transfers)),
				zap.Error(err))
		}
		return transfers
	}

	if err != nil {
		f.logger.Warn("primary-provider-failed",
			zap.String("provider", f.primary.Name()),
			zap.String("wallet", wallet),
			zap.Error(err))
	} else {
		f.logger.Info("primary-provider-empty",
			zap.String("provider", f.primary.Name()),
			zap.String("wallet", wallet))
	}

	if f.secondary == nil {
		return nil
	}

	FallbacksTotal.Inc()

	transfers, err = f.fetchFrom(ctx, f.secondary, wallet, window)
	if err != nil {
		f.logger.Warn("secondary-provider-failed",
			zap.String("provider", f.secondary.Name()),
			zap.String("wallet", wallet),
			zap.Int("transfers", len(transfers)),
			zap.Error(err))
	}

	return transfers
}

// fetchFrom pages one provider until the history is exhausted or the
// oldest record predates the window. Each page's cursor is the signature
// of the previous page's oldest record, so block times decrease strictly
// and no gap can form.
func (f *Fetcher) fetchFrom(ctx context.Context, client provider.Client, wallet string, window Window) ([]types.Transfer, error) {
	var (
		transfers []types.Transfer
		cursor    string
	)

	start := time.Now()
	defer func() {
		FetchDurationSeconds.WithLabelValues(client.Name()).Observe(time.Since(start).Seconds())
	}()

	for page := 0; page < f.maxPages; page++ {
		records, err := f.fetchPageWithRetry(ctx, client, wallet, cursor)
		if err != nil {
			return transfers, fmt.Errorf("fetch page %d: %w", page, err)
		}

		if len(records) == 0 {
			break
		}

		PagesFetchedTotal.WithLabelValues(client.Name()).Inc()

		for _, rec := range records {
			if !window.Contains(rec.BlockTime()) {
				continue
			}
			transfers = append(transfers, client.Normalize(rec, wallet)...)
		}

		oldest := records[len(records)-1]
		if oldest.BlockTime().Before(window.Start) {
			break
		}

		if len(records) < client.PageSize() {
			break
		}

		cursor = oldest.Signature()
	}

	TransfersCollectedTotal.WithLabelValues(client.Name()).Add(float64(len(transfers)))

	f.logger.Debug("wallet-transfers-collected",
		zap.String("provider", client.Name()),
		zap.String("wallet", wallet),
		zap.Int("transfers", len(transfers)))

	return transfers, nil
}

// fetchPageWithRetry retries transient failures with linear backoff and a
// fixed cooldown for rate limits. Terminal errors abort immediately.
func (f *Fetcher) fetchPageWithRetry(ctx context.Context, client provider.Client, wallet string, cursor string) ([]provider.Record, error) {
	var lastErr error

	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		records, err := client.FetchPage(ctx, wallet, cursor)
		if err == nil {
			return records, nil
		}

		lastErr = err

		if !provider.IsTransient(err) {
			return nil, err
		}

		RetriesTotal.WithLabelValues(client.Name()).Inc()

		if attempt == f.maxRetries {
			break
		}

		delay := f.baseDelay * time.Duration(attempt)
		if provider.IsRateLimited(err) {
			delay = f.rateLimitDelay
		}

		f.logger.Debug("retrying-page-fetch",
			zap.String("provider", client.Name()),
			zap.String("wallet", wallet),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, lastErr
}
