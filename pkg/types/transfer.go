package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction of a transfer relative to the subject wallet.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// Transfer is the canonical, provider-independent record of one asset
// movement relative to a subject wallet. A Transfer only exists for a
// successful transaction; failed transactions contribute nothing.
type Transfer struct {
	Asset     Asset           `json:"asset"`
	Amount    decimal.Decimal `json:"amount"` // always non-negative
	Direction Direction       `json:"direction"`

	// Provenance, kept for logging and audit. Not used by aggregation.
	Signature string    `json:"signature,omitempty"`
	BlockTime time.Time `json:"block_time,omitempty"`
	Provider  string    `json:"provider,omitempty"`
}
