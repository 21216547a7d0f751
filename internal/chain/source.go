// Package chain supplies populated option quotes to the pricing core.
//
// The core itself is data-source agnostic; everything here exists so
// the strategy tools can point one narrow interface at either live
// market data or synthetic chains and feed the result straight into
// batch evaluation. Quotes leave this package already populated with
// spot, strike, year-fraction expiry, rate, and market price; input
// cleaning beyond that is the caller's responsibility.
package chain

import (
	"context"
	"time"

	"github.com/contactkeval/option-quant/internal/pricing"
)

// Source supplies option-chain market data.
type Source interface {
	// Chain returns one quote per listed contract for the given
	// underlying and expiry, with market prices as of asOf.
	Chain(ctx context.Context, underlying string, expiry, asOf time.Time) ([]pricing.OptionQuote, error)

	// Spot returns the underlying price as of a date.
	Spot(ctx context.Context, underlying string, asOf time.Time) (float64, error)

	// Secondary returns the configured fallback source, if any.
	Secondary() Source
}
