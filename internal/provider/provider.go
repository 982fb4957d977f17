package provider

import (
	"context"
	"time"

	"github.com/tradewars/resolver/pkg/types"
)

// Record is one provider transaction, opaque to everything except the
// provider's own normalizer. The pager only needs the signature (for
// cursor derivation) and the confirmation time (for window checks).
type Record interface {
	Signature() string
	BlockTime() time.Time
}

// Client fetches paged transaction history for a wallet from one external
// indexer and normalizes its provider-specific records into canonical
// transfers. Implementations: solscan (primary), shyft (secondary).
type Client interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// PageSize is the provider-defined batch size per page request.
	PageSize() int

	// FetchPage returns one page of records in strictly decreasing
	// block-time order. An empty cursor requests the most recent page;
	// otherwise cursor is the signature of the oldest record of the
	// previous page ("before" semantics for both providers).
	FetchPage(ctx context.Context, wallet string, cursor string) ([]Record, error)

	// Normalize converts one raw record into zero or more canonical
	// transfers relative to the subject wallet. Failed transactions and
	// untracked tokens normalize to nothing.
	Normalize(rec Record, wallet string) []types.Transfer
}
