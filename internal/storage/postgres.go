package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/tradewars/resolver/pkg/types"
	"go.uber.org/zap"
)

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStore creates a new PostgreSQL store.
func NewPostgresStore(cfg *PostgresConfig) (*PostgresStore, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-store-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStore{
		db:     db,
		logger: cfg.Logger,
	}, nil
}

// GetCompetition loads a competition and its participants in registration
// order. Registration order matters: it is the tie-break for equal profit.
func (p *PostgresStore) GetCompetition(ctx context.Context, id int64) (*types.Competition, error) {
	query := `
		SELECT id, status, max_players, current_players, entry_fee,
		       start_time, end_time, winner, winning_amount, payout_claimed
		FROM competitions
		WHERE id = $1
	`

	var (
		comp          types.Competition
		entryFee      string
		winningAmount string
		winner        sql.NullString
	)

	err := p.db.QueryRowContext(ctx, query, id).Scan(
		&comp.ID,
		&comp.Status,
		&comp.MaxPlayers,
		&comp.CurrentPlayers,
		&entryFee,
		&comp.StartTime,
		&comp.EndTime,
		&winner,
		&winningAmount,
		&comp.PayoutClaimed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query competition: %w", err)
	}

	comp.EntryFee, err = decimal.NewFromString(entryFee)
	if err != nil {
		return nil, fmt.Errorf("parse entry fee: %w", err)
	}

	comp.WinningAmount, err = decimal.NewFromString(winningAmount)
	if err != nil {
		return nil, fmt.Errorf("parse winning amount: %w", err)
	}

	if winner.Valid {
		comp.Winner = &winner.String
	}

	participants, err := p.listParticipants(ctx, id)
	if err != nil {
		return nil, err
	}
	comp.Participants = participants

	return &comp, nil
}

func (p *PostgresStore) listParticipants(ctx context.Context, competitionID int64) ([]types.Player, error) {
	query := `
		SELECT pl.wallet_address, pl.username
		FROM competition_participants cp
		JOIN players pl ON pl.wallet_address = cp.wallet_address
		WHERE cp.competition_id = $1
		ORDER BY cp.registered_at ASC
	`

	rows, err := p.db.QueryContext(ctx, query, competitionID)
	if err != nil {
		return nil, fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()

	var players []types.Player
	for rows.Next() {
		var pl types.Player
		err = rows.Scan(&pl.WalletAddress, &pl.Username)
		if err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		players = append(players, pl)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}

	return players, nil
}

// SetWinner writes the winner fields; the WHERE winner IS NULL guard makes
// the write once-only.
func (p *PostgresStore) SetWinner(ctx context.Context, det *types.WinnerDetermination) error {
	query := `
		UPDATE competitions
		SET winner = $1, winning_amount = $2, status = $3
		WHERE id = $4 AND winner IS NULL
	`

	res, err := p.db.ExecContext(ctx, query,
		det.WinnerWallet,
		det.WinnerPrize.String(),
		types.StatusEnded,
		det.CompetitionID,
	)
	if err != nil {
		return fmt.Errorf("update winner: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return ErrWinnerAlreadySet
	}

	p.logger.Info("winner-persisted",
		zap.Int64("competition-id", det.CompetitionID),
		zap.String("winner", det.WinnerWallet))

	return nil
}

// SaveDetermination stores the full resolution result for audit.
func (p *PostgresStore) SaveDetermination(ctx context.Context, det *types.WinnerDetermination) error {
	perPlayer, err := json.Marshal(det.PerPlayer)
	if err != nil {
		return fmt.Errorf("marshal per-player results: %w", err)
	}

	query := `
		INSERT INTO winner_determinations (
			id, competition_id, winner_wallet, per_player,
			prize_pool, platform_fee, winner_prize, resolved_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = p.db.ExecContext(ctx, query,
		det.ID,
		det.CompetitionID,
		det.WinnerWallet,
		perPlayer,
		det.PrizePool.String(),
		det.PlatformFee.String(),
		det.WinnerPrize.String(),
		det.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("insert determination: %w", err)
	}

	p.logger.Debug("determination-stored",
		zap.String("determination-id", det.ID),
		zap.Int64("competition-id", det.CompetitionID))

	return nil
}

// SaveSnapshot stores a wallet valuation snapshot.
func (p *PostgresStore) SaveSnapshot(ctx context.Context, competitionID int64, snap *types.Snapshot) error {
	assets, err := json.Marshal(snap.Assets)
	if err != nil {
		return fmt.Errorf("marshal snapshot assets: %w", err)
	}

	query := `
		INSERT INTO wallet_snapshots (
			competition_id, wallet_address, taken_at, assets, total_value
		) VALUES ($1, $2, $3, $4, $5)
	`

	_, err = p.db.ExecContext(ctx, query,
		competitionID,
		snap.WalletAddress,
		snap.TakenAt,
		assets,
		snap.TotalValue.String(),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (p *PostgresStore) Close() error {
	p.logger.Info("closing-postgres-store")
	return p.db.Close()
}
