// Package snapshot captures priced point-in-time asset inventories for
// wallets. Snapshots support display and audit only; winner selection is
// decided from the transfer ledger, because a balance delta cannot tell
// trading profit apart from deposits and withdrawals.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tradewars/resolver/pkg/types"
	"go.uber.org/zap"
)

// Service takes wallet valuation snapshots.
type Service struct {
	rpc    *RPCClient
	prices *PriceSource
	logger *zap.Logger
}

// Config holds snapshot service configuration.
type Config struct {
	RPC    *RPCClient
	Prices *PriceSource
	Logger *zap.Logger
}

// NewService creates a new snapshot service.
func NewService(cfg *Config) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RPC == nil {
		return nil, errors.New("rpc client cannot be nil")
	}
	if cfg.Prices == nil {
		return nil, errors.New("price source cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Service{
		rpc:    cfg.RPC,
		prices: cfg.Prices,
		logger: cfg.Logger,
	}, nil
}

// Take captures the wallet's current holdings with best-effort USD
// values. Stablecoins are priced 1.0; untracked tokens are recorded with
// zero value rather than dropped, so the audit trail stays complete.
func (s *Service) Take(ctx context.Context, wallet string) (*types.Snapshot, error) {
	solBalance, err := s.rpc.GetBalance(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("fetch native balance: %w", err)
	}

	holdings, err := s.rpc.GetTokenHoldings(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("fetch token holdings: %w", err)
	}

	solPrice := s.prices.SOLPriceUSD(ctx)

	snap := &types.Snapshot{
		WalletAddress: wallet,
		TakenAt:       time.Now().UTC(),
	}

	snap.Assets = append(snap.Assets, types.SnapshotAsset{
		Mint:     types.MintSOL,
		Symbol:   string(types.AssetSOL),
		Balance:  solBalance,
		USDValue: solBalance.Mul(solPrice).Round(2),
	})

	for _, holding := range holdings {
		asset := types.SnapshotAsset{
			Mint:    holding.Mint,
			Symbol:  "UNKNOWN",
			Balance: holding.Balance,
		}

		if tracked, ok := types.AssetForMint(holding.Mint); ok {
			asset.Symbol = string(tracked)
			switch {
			case tracked.IsStablecoin():
				asset.USDValue = holding.Balance.Round(2)
			case tracked == types.AssetSOL:
				asset.USDValue = holding.Balance.Mul(solPrice).Round(2)
			}
		}

		snap.Assets = append(snap.Assets, asset)
	}

	total := decimal.Zero
	for i := range snap.Assets {
		total = total.Add(snap.Assets[i].USDValue)
	}
	snap.TotalValue = total.Round(2)

	s.logger.Debug("snapshot-taken",
		zap.String("wallet", wallet),
		zap.Int("assets", len(snap.Assets)),
		zap.String("total-value", snap.TotalValue.String()))

	return snap, nil
}

// TakeAtCompetitionStart is the start-of-competition convention: the
// snapshot is stamped one second before the window opens so in-window
// activity never overlaps it.
func (s *Service) TakeAtCompetitionStart(ctx context.Context, wallet string, startTime time.Time) (*types.Snapshot, error) {
	snap, err := s.Take(ctx, wallet)
	if err != nil {
		return nil, err
	}

	snap.TakenAt = startTime.Add(-1 * time.Second)

	return snap, nil
}
