// Package resolver decides the winner of a finished competition from the
// participants' on-chain transfer ledgers.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradewars/resolver/internal/fetcher"
	"github.com/tradewars/resolver/internal/profit"
	"github.com/tradewars/resolver/internal/storage"
	"github.com/tradewars/resolver/pkg/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TransferFetcher collects a wallet's in-window transfers. Satisfied by
// fetcher.Fetcher; tests substitute fakes.
type TransferFetcher interface {
	FetchTransfers(ctx context.Context, wallet string, window fetcher.Window) []types.Transfer
}

// Config holds resolver configuration.
type Config struct {
	Store       storage.Store
	Fetcher     TransferFetcher
	Concurrency int           // max participants resolved in parallel
	Timeout     time.Duration // overall deadline for one Resolve call, 0 = none
	Logger      *zap.Logger
}

// Resolver runs the full resolution pipeline for a competition.
type Resolver struct {
	store       storage.Store
	fetcher     TransferFetcher
	concurrency int
	timeout     time.Duration
	logger      *zap.Logger
}

// New creates a new Resolver.
func New(cfg *Config) (*Resolver, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Store == nil {
		return nil, errors.New("store cannot be nil")
	}
	if cfg.Fetcher == nil {
		return nil, errors.New("fetcher cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Resolver{
		store:       cfg.Store,
		fetcher:     cfg.Fetcher,
		concurrency: concurrency,
		timeout:     cfg.Timeout,
		logger:      cfg.Logger,
	}, nil
}

// Resolve determines the winner of the competition and persists the
// winner fields exactly once. Preconditions are checked before any
// provider I/O so an under-filled competition costs no network calls.
func (r *Resolver) Resolve(ctx context.Context, competitionID int64) (*types.WinnerDetermination, error) {
	start := time.Now()

	comp, err := r.store.GetCompetition(ctx, competitionID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, types.NewResolutionError(types.ErrCodeCompetitionNotFound, competitionID,
			"competition does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("load competition %d: %w", competitionID, err)
	}

	if len(comp.Participants) == 0 {
		return nil, types.NewResolutionError(types.ErrCodeNoParticipants, competitionID,
			"no players registered in this competition")
	}

	if min := comp.MinParticipants(); len(comp.Participants) < min {
		return nil, types.NewResolutionError(types.ErrCodeUnderfilled, competitionID,
			"%d of %d players registered, need at least %d",
			len(comp.Participants), comp.MaxPlayers, min)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	results, err := r.collectProfits(ctx, comp)
	if err != nil {
		return nil, err
	}

	anyActivity := false
	for i := range results {
		if results[i].Profit.HasActivity() {
			anyActivity = true
			break
		}
	}

	// A field of all-zero ledgers means the window produced no signal at
	// all; declaring a zero-profit winner would be arbitrary.
	if !anyActivity {
		ResolutionsTotal.WithLabelValues("no_usable_data").Inc()
		return nil, types.NewResolutionError(types.ErrCodeNoUsableData, competitionID,
			"no usable transaction data for any participant")
	}

	winnerIdx := pickWinner(results)

	det := &types.WinnerDetermination{
		ID:            uuid.NewString(),
		CompetitionID: competitionID,
		WinnerWallet:  results[winnerIdx].WalletAddress,
		PerPlayer:     results,
		ResolvedAt:    time.Now().UTC(),
	}
	det.PrizePool, det.PlatformFee, det.WinnerPrize = ComputePrize(comp.EntryFee, len(comp.Participants))

	err = r.store.SetWinner(ctx, det)
	if err != nil {
		return nil, fmt.Errorf("persist winner for competition %d: %w", competitionID, err)
	}

	err = r.store.SaveDetermination(ctx, det)
	if err != nil {
		// The winner write already landed; the audit record is best effort.
		r.logger.Error("determination-save-failed",
			zap.Int64("competition-id", competitionID),
			zap.Error(err))
	}

	ResolutionsTotal.WithLabelValues("ok").Inc()
	ResolutionDurationSeconds.Observe(time.Since(start).Seconds())

	r.logger.Info("competition-resolved",
		zap.Int64("competition-id", competitionID),
		zap.String("winner", det.WinnerWallet),
		zap.String("winner-prize", det.WinnerPrize.String()),
		zap.Duration("took", time.Since(start)))

	return det, nil
}

// collectProfits runs fetch-normalize-aggregate for every participant,
// bounded by the concurrency cap. Participants are independent; order of
// completion does not matter, results land at the participant's index.
func (r *Resolver) collectProfits(ctx context.Context, comp *types.Competition) ([]types.PlayerResult, error) {
	window := fetcher.Window{Start: comp.StartTime, End: comp.EndTime}
	results := make([]types.PlayerResult, len(comp.Participants))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i := range comp.Participants {
		i := i
		g.Go(func() error {
			player := comp.Participants[i]

			transfers := r.fetcher.FetchTransfers(gctx, player.WalletAddress, window)
			totals := profit.Aggregate(transfers)

			r.logger.Debug("participant-profit",
				zap.Int64("competition-id", comp.ID),
				zap.String("wallet", player.WalletAddress),
				zap.String("total", totals.Total.String()),
				zap.Int("transfers", totals.TransferCount))

			results[i] = types.PlayerResult{
				WalletAddress: player.WalletAddress,
				Username:      player.Username,
				Profit:        totals,
			}

			return gctx.Err()
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, fmt.Errorf("collect profits for competition %d: %w", comp.ID, err)
	}

	return results, nil
}

// pickWinner returns the index of the highest total among participants
// with at least one transfer. A wallet with zero transfers has no signal,
// not a zero profit, so it cannot outrank an active wallet that traded at
// a loss. The caller guarantees at least one participant has activity.
// Ties go to the earliest registration, which is the participant with the
// lowest index.
func pickWinner(results []types.PlayerResult) int {
	winner := -1
	for i := range results {
		if !results[i].Profit.HasActivity() {
			continue
		}
		if winner == -1 || results[i].Profit.Total.GreaterThan(results[winner].Profit.Total) {
			winner = i
		}
	}

	return winner
}

// ComputePrize returns the prize pool, platform fee and winner prize for
// a competition. The platform skims a flat single entry fee, not a
// percentage.
func ComputePrize(entryFee decimal.Decimal, participants int) (pool, fee, prize decimal.Decimal) {
	pool = entryFee.Mul(decimal.NewFromInt(int64(participants)))
	fee = entryFee
	prize = pool.Sub(fee)

	return pool, fee, prize
}
