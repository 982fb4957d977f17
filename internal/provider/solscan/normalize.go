package solscan

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tradewars/resolver/internal/provider"
	"github.com/tradewars/resolver/pkg/types"
)

const lamportsPerSOL = 1_000_000_000

// Record is one Solscan transaction. status 1 means success.
type Record struct {
	TxHash             string        `json:"tx_hash"`
	BlockTimeUnix      int64         `json:"block_time"`
	Status             int           `json:"status"`
	Signer             string        `json:"signer"`
	Fee                int64         `json:"fee"`
	ParsedInstructions []Instruction `json:"parsed_instructions"`
}

// Instruction is one parsed instruction inside a Solscan transaction.
type Instruction struct {
	Program string          `json:"program"`
	Type    string          `json:"type"`
	Data    InstructionData `json:"data"`
}

// InstructionData is the union of the instruction payloads the normalizer
// understands. Solscan leaves unused fields absent.
type InstructionData struct {
	// system transfer
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Lamports    int64  `json:"lamports"`

	// SPL transferChecked
	Mint             string      `json:"mint"`
	SourceOwner      string      `json:"sourceOwner"`
	DestinationOwner string      `json:"destinationOwner"`
	TokenAmount      TokenAmount `json:"tokenAmount"`

	// swap
	SwapIn  *SwapLeg `json:"swap_in"`
	SwapOut *SwapLeg `json:"swap_out"`
}

// TokenAmount is an SPL amount with decimals applied.
type TokenAmount struct {
	UIAmount float64 `json:"uiAmount"`
}

// SwapLeg is one side of a swap instruction.
type SwapLeg struct {
	Mint     string  `json:"mint"`
	UIAmount float64 `json:"ui_amount"`
}

// Signature implements provider.Record.
func (r *Record) Signature() string { return r.TxHash }

// BlockTime implements provider.Record.
func (r *Record) BlockTime() time.Time { return time.Unix(r.BlockTimeUnix, 0).UTC() }

func (r *Record) successful() bool { return r.Status == 1 }

// Normalize converts one Solscan transaction into canonical transfers for
// the subject wallet. Failed transactions and unrecognized tokens yield
// nothing.
func (c *Client) Normalize(rec provider.Record, wallet string) []types.Transfer {
	record, ok := rec.(*Record)
	if !ok || !record.successful() {
		return nil
	}

	var transfers []types.Transfer

	for i := range record.ParsedInstructions {
		instr := &record.ParsedInstructions[i]

		switch {
		case instr.Program == "system" && instr.Type == "transfer":
			transfers = appendNativeTransfer(transfers, record, instr, wallet)

		case instr.Type == "transferChecked":
			transfers = appendTokenTransfer(transfers, record, instr, wallet)

		case instr.Type == "swap":
			transfers = appendSwapLegs(transfers, record, instr)
		}
	}

	return transfers
}

func appendNativeTransfer(transfers []types.Transfer, record *Record, instr *Instruction, wallet string) []types.Transfer {
	if instr.Data.Source != wallet && instr.Data.Destination != wallet {
		return transfers
	}

	direction := types.DirectionBuy
	if instr.Data.Source == wallet {
		direction = types.DirectionSell
	}

	amount := decimal.NewFromInt(instr.Data.Lamports).Div(decimal.NewFromInt(lamportsPerSOL))

	return append(transfers, types.Transfer{
		Asset:     types.AssetSOL,
		Amount:    amount,
		Direction: direction,
		Signature: record.TxHash,
		BlockTime: record.BlockTime(),
		Provider:  providerName,
	})
}

func appendTokenTransfer(transfers []types.Transfer, record *Record, instr *Instruction, wallet string) []types.Transfer {
	asset, tracked := types.AssetForMint(instr.Data.Mint)
	if !tracked {
		return transfers
	}

	if instr.Data.SourceOwner != wallet && instr.Data.DestinationOwner != wallet {
		return transfers
	}

	direction := types.DirectionBuy
	if instr.Data.SourceOwner == wallet {
		direction = types.DirectionSell
	}

	return append(transfers, types.Transfer{
		Asset:     asset,
		Amount:    decimal.NewFromFloat(instr.Data.TokenAmount.UIAmount),
		Direction: direction,
		Signature: record.TxHash,
		BlockTime: record.BlockTime(),
		Provider:  providerName,
	})
}

// appendSwapLegs registers the "in" leg as a sell and the "out" leg as a
// buy, regardless of counterparty: any tracked asset received via swap
// counts as acquired by the subject wallet.
func appendSwapLegs(transfers []types.Transfer, record *Record, instr *Instruction) []types.Transfer {
	if leg := instr.Data.SwapIn; leg != nil {
		if asset, tracked := types.AssetForMint(leg.Mint); tracked {
			transfers = append(transfers, types.Transfer{
				Asset:     asset,
				Amount:    decimal.NewFromFloat(leg.UIAmount),
				Direction: types.DirectionSell,
				Signature: record.TxHash,
				BlockTime: record.BlockTime(),
				Provider:  providerName,
			})
		}
	}

	if leg := instr.Data.SwapOut; leg != nil {
		if asset, tracked := types.AssetForMint(leg.Mint); tracked {
			transfers = append(transfers, types.Transfer{
				Asset:     asset,
				Amount:    decimal.NewFromFloat(leg.UIAmount),
				Direction: types.DirectionBuy,
				Signature: record.TxHash,
				BlockTime: record.BlockTime(),
				Provider:  providerName,
			})
		}
	}

	return transfers
}
