// Package profit folds a wallet's transfer ledger into per-asset buy/sell
// totals and the cross-asset profit scalar used for ranking.
package profit

import (
	"github.com/shopspring/decimal"
	"github.com/tradewars/resolver/pkg/types"
)

// Precision is the fixed number of fractional digits every total is
// rounded to, so drift cannot accumulate across many small transfers.
const Precision = 8

// Aggregate folds transfers into ProfitTotals. The fold is commutative
// and associative: any permutation of the same transfers produces the
// same totals, so transfers may arrive from either provider in any order.
//
// Total sums all three assets 1:1 with no price conversion. That
// conflates units; it is the platform's documented profit metric, not a
// bug.
func Aggregate(transfers []types.Transfer) types.ProfitTotals {
	type flow struct {
		buys  decimal.Decimal
		sells decimal.Decimal
	}

	flows := make(map[types.Asset]*flow, len(types.TrackedAssets))
	for _, asset := range types.TrackedAssets {
		flows[asset] = &flow{}
	}

	for i := range transfers {
		t := &transfers[i]

		f, ok := flows[t.Asset]
		if !ok {
			continue
		}

		switch t.Direction {
		case types.DirectionBuy:
			f.buys = f.buys.Add(t.Amount)
		case types.DirectionSell:
			f.sells = f.sells.Add(t.Amount)
		}
	}

	totals := types.ProfitTotals{
		PerAsset:      make(map[types.Asset]types.AssetTotals, len(flows)),
		TransferCount: len(transfers),
	}

	var total decimal.Decimal
	for _, asset := range types.TrackedAssets {
		f := flows[asset]
		buys := f.buys.Round(Precision)
		sells := f.sells.Round(Precision)

		totals.PerAsset[asset] = types.AssetTotals{
			Buys:  buys,
			Sells: sells,
			Net:   sells.Sub(buys).Round(Precision),
		}

		total = total.Add(f.sells).Sub(f.buys)
	}

	totals.Total = total.Round(Precision)

	return totals
}
