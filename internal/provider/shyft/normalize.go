package shyft

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tradewars/resolver/internal/provider"
	"github.com/tradewars/resolver/pkg/types"
)

// Record is one Shyft parsed transaction. Timestamps are ISO-8601 strings
// and status is "Success" or "Fail".
type Record struct {
	Timestamp  string   `json:"timestamp"`
	Status     string   `json:"status"`
	Signatures []string `json:"signatures"`
	Actions    []Action `json:"actions"`
}

// Action is one parsed action inside a Shyft transaction.
type Action struct {
	Type string     `json:"type"`
	Info ActionInfo `json:"info"`
}

// ActionInfo is the union of the action payloads the normalizer
// understands.
type ActionInfo struct {
	// SOL_TRANSFER and TOKEN_TRANSFER
	Sender       string  `json:"sender"`
	Receiver     string  `json:"receiver"`
	Amount       float64 `json:"amount"`
	TokenAddress string  `json:"token_address"`

	// SWAP
	Swapper       string        `json:"swapper"`
	TokensSwapped TokensSwapped `json:"tokens_swapped"`
}

// TokensSwapped carries the two legs of a SWAP action.
type TokensSwapped struct {
	In  SwapToken `json:"in"`
	Out SwapToken `json:"out"`
}

// SwapToken is one leg of a swap.
type SwapToken struct {
	TokenAddress string  `json:"token_address"`
	Amount       float64 `json:"amount"`
}

// Signature implements provider.Record.
func (r *Record) Signature() string {
	if len(r.Signatures) == 0 {
		return ""
	}
	return r.Signatures[0]
}

// BlockTime implements provider.Record. A malformed timestamp yields the
// zero time, which the window filter rejects.
func (r *Record) BlockTime() time.Time {
	ts, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}

func (r *Record) successful() bool { return r.Status == "Success" }

// Normalize converts one Shyft transaction into canonical transfers for
// the subject wallet.
func (c *Client) Normalize(rec provider.Record, wallet string) []types.Transfer {
	record, ok := rec.(*Record)
	if !ok || !record.successful() {
		return nil
	}

	var transfers []types.Transfer

	for i := range record.Actions {
		action := &record.Actions[i]

		switch action.Type {
		case "SOL_TRANSFER":
			transfers = c.appendNative(transfers, record, action, wallet)

		case "TOKEN_TRANSFER":
			transfers = c.appendToken(transfers, record, action, wallet)

		case "SWAP":
			transfers = c.appendSwap(transfers, record, action)
		}
	}

	return transfers
}

func (c *Client) appendNative(transfers []types.Transfer, record *Record, action *Action, wallet string) []types.Transfer {
	if action.Info.Sender != wallet && action.Info.Receiver != wallet {
		return transfers
	}

	direction := types.DirectionBuy
	if action.Info.Sender == wallet {
		direction = types.DirectionSell
	}

	return append(transfers, types.Transfer{
		Asset:     types.AssetSOL,
		Amount:    decimal.NewFromFloat(action.Info.Amount),
		Direction: direction,
		Signature: record.Signature(),
		BlockTime: record.BlockTime(),
		Provider:  providerName,
	})
}

func (c *Client) appendToken(transfers []types.Transfer, record *Record, action *Action, wallet string) []types.Transfer {
	asset, tracked := types.AssetForMint(action.Info.TokenAddress)
	if !tracked {
		return transfers
	}

	if action.Info.Sender != wallet && action.Info.Receiver != wallet {
		return transfers
	}

	direction := types.DirectionBuy
	if action.Info.Sender == wallet {
		direction = types.DirectionSell
	}

	return append(transfers, types.Transfer{
		Asset:     asset,
		Amount:    decimal.NewFromFloat(action.Info.Amount),
		Direction: direction,
		Signature: record.Signature(),
		BlockTime: record.BlockTime(),
		Provider:  providerName,
	})
}

// appendSwap treats the "in" leg as a sell and the "out" leg as a buy for
// the subject wallet, matching the direct-transfer semantics.
func (c *Client) appendSwap(transfers []types.Transfer, record *Record, action *Action) []types.Transfer {
	if asset, tracked := types.AssetForMint(action.Info.TokensSwapped.In.TokenAddress); tracked {
		transfers = append(transfers, types.Transfer{
			Asset:     asset,
			Amount:    decimal.NewFromFloat(action.Info.TokensSwapped.In.Amount),
			Direction: types.DirectionSell,
			Signature: record.Signature(),
			BlockTime: record.BlockTime(),
			Provider:  providerName,
		})
	}

	if asset, tracked := types.AssetForMint(action.Info.TokensSwapped.Out.TokenAddress); tracked {
		transfers = append(transfers, types.Transfer{
			Asset:     asset,
			Amount:    decimal.NewFromFloat(action.Info.TokensSwapped.Out.Amount),
			Direction: types.DirectionBuy,
			Signature: record.Signature(),
			BlockTime: record.BlockTime(),
			Provider:  providerName,
		})
	}

	return transfers
}
