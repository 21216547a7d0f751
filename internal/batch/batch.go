// Package batch fans the pricing core out across a quote dataset.
//
// Every core call is a pure function of its row, so rows evaluate
// independently with zero coordination; the only shared state is the
// pre-sized result slice, written at disjoint indices.
package batch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/contactkeval/option-quant/internal/logger"
	"github.com/contactkeval/option-quant/internal/pricing"
)

// Row is the full evaluation of one quote. IV is nil when the quote
// carried no market price to invert. Err holds the first core error
// for the row; the remaining fields are zero when it is set.
type Row struct {
	Quote  pricing.OptionQuote   `json:"quote"`
	Price  pricing.PricingResult `json:"price"`
	Greeks pricing.GreeksResult  `json:"greeks"`
	IV     *pricing.IVResult     `json:"iv,omitempty"`
	Err    string                `json:"error,omitempty"`
}

// Options controls one Evaluate run.
type Options struct {
	// Parallelism bounds concurrent rows; <= 0 means GOMAXPROCS.
	Parallelism int

	// IV parameterizes the solver. Zero value means defaults.
	IV pricing.IVParams
}

// Evaluate prices every quote, computes its Greeks, and, where a
// market price is present, solves for implied volatility. Rows whose
// quote has a market price but no volatility are priced at the
// recovered implied volatility, which is how chain snapshots (market
// price known, vol unknown) flow through the core.
//
// Results preserve input order. Per-row failures land in Row.Err; the
// returned error is non-nil only when ctx is cancelled.
func Evaluate(ctx context.Context, quotes []pricing.OptionQuote, opts Options) ([]Row, error) {
	par := opts.Parallelism
	if par <= 0 {
		par = runtime.GOMAXPROCS(0)
	}
	params := opts.IV
	if params.MaxIter == 0 {
		params = pricing.DefaultIVParams()
	}

	logger.Debugf("evaluating %d quotes with parallelism %d", len(quotes), par)

	rows := make([]Row, len(quotes))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(par)

	for i := range quotes {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows[i] = evalOne(quotes[i], params)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

func evalOne(q pricing.OptionQuote, params pricing.IVParams) Row {
	row := Row{Quote: q}

	if q.MarketPrice > 0 {
		iv, err := pricing.ImpliedVolatilityWithParams(q, params)
		if err != nil {
			row.Err = err.Error()
			return row
		}
		row.IV = &iv
		if q.Volatility == 0 && iv.Converged {
			q.Volatility = iv.ImpliedVol
		}
	}

	price, err := pricing.Price(q)
	if err != nil {
		row.Err = err.Error()
		return row
	}
	row.Price = price

	greeks, err := pricing.Greeks(q)
	if err != nil {
		row.Err = err.Error()
		return row
	}
	row.Greeks = greeks

	return row
}
