package storage

import (
	"context"
	"errors"

	"github.com/tradewars/resolver/pkg/types"
)

// ErrNotFound is returned when a competition does not exist.
var ErrNotFound = errors.New("competition not found")

// ErrWinnerAlreadySet is returned when a second winner write is attempted
// for the same competition. The winner fields are written exactly once.
var ErrWinnerAlreadySet = errors.New("winner already set")

// Store is the persistence boundary of the resolver. Competition and
// Player records are owned by the platform; the resolver reads them and
// writes back only the winner fields plus its own determination audit
// trail.
type Store interface {
	// GetCompetition loads a competition with its participants.
	GetCompetition(ctx context.Context, id int64) (*types.Competition, error)

	// SetWinner writes the winner wallet and winning amount exactly once.
	SetWinner(ctx context.Context, det *types.WinnerDetermination) error

	// SaveDetermination persists the full resolution result for audit.
	SaveDetermination(ctx context.Context, det *types.WinnerDetermination) error

	// SaveSnapshot persists a wallet valuation snapshot for display.
	SaveSnapshot(ctx context.Context, competitionID int64, snap *types.Snapshot) error

	// Close closes the storage connection.
	Close() error
}
