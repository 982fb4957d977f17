package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetTotals holds per-asset buy/sell flow for one wallet over one window.
type AssetTotals struct {
	Buys  decimal.Decimal `json:"buys"`
	Sells decimal.Decimal `json:"sells"`
	Net   decimal.Decimal `json:"net"` // sells - buys
}

// ProfitTotals is the aggregate of a wallet's transfer ledger.
//
// Total sums SOL, USDC and USDT sells minus buys as if 1:1. No price
// conversion is applied: this conflates units and is preserved on purpose
// as the platform's documented profit metric.
type ProfitTotals struct {
	PerAsset      map[Asset]AssetTotals `json:"per_asset"`
	Total         decimal.Decimal       `json:"total"`
	TransferCount int                   `json:"transfer_count"`
}

// HasActivity reports whether any transfer at all fed the totals. A wallet
// with zero transfers is "no data", not "zero profit", for winner selection.
func (p *ProfitTotals) HasActivity() bool {
	return p.TransferCount > 0
}

// PlayerResult pairs one participant with their aggregated profit.
type PlayerResult struct {
	WalletAddress string       `json:"wallet_address"`
	Username      string       `json:"username,omitempty"`
	Profit        ProfitTotals `json:"profit"`
}

// WinnerDetermination is the outcome of one resolution run.
type WinnerDetermination struct {
	ID            string          `json:"id"`
	CompetitionID int64           `json:"competition_id"`
	WinnerWallet  string          `json:"winner_wallet"`
	PerPlayer     []PlayerResult  `json:"per_player"`
	PrizePool     decimal.Decimal `json:"prize_pool"`
	PlatformFee   decimal.Decimal `json:"platform_fee"`
	WinnerPrize   decimal.Decimal `json:"winner_prize"`
	ResolvedAt    time.Time       `json:"resolved_at"`
}

// Snapshot is a priced point-in-time asset inventory for a wallet. It is
// stored for display and audit; winner selection never reads it because a
// balance delta cannot distinguish trading profit from deposits.
type Snapshot struct {
	WalletAddress string          `json:"wallet_address"`
	TakenAt       time.Time       `json:"taken_at"`
	Assets        []SnapshotAsset `json:"assets"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// SnapshotAsset is one priced holding inside a Snapshot.
type SnapshotAsset struct {
	Mint     string          `json:"mint"`
	Symbol   string          `json:"symbol"`
	Balance  decimal.Decimal `json:"balance"`
	USDValue decimal.Decimal `json:"usd_value"`
}
