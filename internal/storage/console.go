package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/tradewars/resolver/pkg/types"
	"go.uber.org/zap"
)

// ConsoleStore implements Store in memory and pretty-prints resolution
// results to the console. Used for local runs without a database; seed it
// with competitions before resolving.
type ConsoleStore struct {
	logger *zap.Logger

	mu           sync.RWMutex
	competitions map[int64]*types.Competition
}

// NewConsoleStore creates a new console store.
func NewConsoleStore(logger *zap.Logger) *ConsoleStore {
	logger.Info("console-store-initialized")
	return &ConsoleStore{
		logger:       logger,
		competitions: make(map[int64]*types.Competition),
	}
}

// Seed registers a competition in memory.
func (c *ConsoleStore) Seed(comp *types.Competition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.competitions[comp.ID] = comp
}

// GetCompetition returns a seeded competition.
func (c *ConsoleStore) GetCompetition(ctx context.Context, id int64) (*types.Competition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	comp, ok := c.competitions[id]
	if !ok {
		return nil, ErrNotFound
	}

	cp := *comp
	return &cp, nil
}

// SetWinner records the winner on the seeded competition.
func (c *ConsoleStore) SetWinner(ctx context.Context, det *types.WinnerDetermination) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	comp, ok := c.competitions[det.CompetitionID]
	if !ok {
		return ErrNotFound
	}

	if comp.Winner != nil {
		return ErrWinnerAlreadySet
	}

	winner := det.WinnerWallet
	comp.Winner = &winner
	comp.WinningAmount = det.WinnerPrize
	comp.Status = types.StatusEnded

	return nil
}

// SaveDetermination pretty-prints the resolution result to console.
func (c *ConsoleStore) SaveDetermination(ctx context.Context, det *types.WinnerDetermination) error {
	fmt.Println("\n" + "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("🏆 COMPETITION %d RESOLVED\n", det.CompetitionID)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("Winner:       %s\n", det.WinnerWallet)
	fmt.Printf("Resolved at:  %s\n", det.ResolvedAt.Format("2006-01-02 15:04:05"))
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("💰 PRIZE\n")
	fmt.Printf("  Prize Pool:    %s\n", det.PrizePool.StringFixed(2))
	fmt.Printf("  Platform Fee:  %s\n", det.PlatformFee.StringFixed(2))
	fmt.Printf("  Winner Prize:  %s\n", det.WinnerPrize.StringFixed(2))
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("📊 PER-PLAYER PROFIT\n")
	for i := range det.PerPlayer {
		res := &det.PerPlayer[i]
		fmt.Printf("  %-44s  total=%s  transfers=%d\n",
			res.WalletAddress,
			res.Profit.Total.StringFixed(8),
			res.Profit.TransferCount)
	}
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	return nil
}

// SaveSnapshot logs the snapshot; nothing persists past the process.
func (c *ConsoleStore) SaveSnapshot(ctx context.Context, competitionID int64, snap *types.Snapshot) error {
	c.logger.Info("snapshot-taken",
		zap.Int64("competition-id", competitionID),
		zap.String("wallet", snap.WalletAddress),
		zap.String("total-value", snap.TotalValue.StringFixed(2)),
		zap.Int("assets", len(snap.Assets)))

	return nil
}

// Close is a no-op for console storage.
func (c *ConsoleStore) Close() error {
	c.logger.Info("closing-console-store")
	return nil
}
