package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompetitionStatus tracks the lifecycle of a competition.
type CompetitionStatus string

const (
	StatusUpcoming CompetitionStatus = "upcoming"
	StatusActive   CompetitionStatus = "active"
	StatusEnded    CompetitionStatus = "ended"
)

// Player is a registered trader. The wallet address is the immutable
// identity key for resolution; everything else is display metadata owned
// by the platform.
type Player struct {
	WalletAddress string `json:"wallet_address"`
	Username      string `json:"username,omitempty"`
}

// Competition is a time-boxed contest among registered wallets. It is
// created and owned by the platform; the resolver only reads it and writes
// the winner fields exactly once after resolution.
type Competition struct {
	ID             int64             `json:"id"`
	Status         CompetitionStatus `json:"status"`
	MaxPlayers     int               `json:"max_players"`
	CurrentPlayers int               `json:"current_players"`
	EntryFee       decimal.Decimal   `json:"entry_fee"`
	StartTime      time.Time         `json:"start_time"`
	EndTime        time.Time         `json:"end_time"`
	Participants   []Player          `json:"participants"`
	Winner         *string           `json:"winner,omitempty"` // wallet address
	WinningAmount  decimal.Decimal   `json:"winning_amount"`
	PayoutClaimed  bool              `json:"payout_claimed"`
}

// MinParticipants is the fill level required before a competition may be
// resolved: at least half of max_players, rounded up.
func (c *Competition) MinParticipants() int {
	return (c.MaxPlayers + 1) / 2
}
