package pricing

import (
	"fmt"
	"math"
)

// Solver parameter defaults. The upstream research notes never pinned
// these down, so they are fixed here and overridable via IVParams.
const (
	defaultSigmaLo   = 1e-6 // search floor; never price below it
	defaultSigmaHi   = 5.0  // 500% annualized vol upper bound
	defaultPriceTol  = 1e-6 // convergence, in price units
	defaultVolTol    = 1e-6 // convergence, in volatility units
	defaultVegaFloor = 1e-8 // below this, Newton divides by noise
	defaultMaxIter   = 100
)

// IVParams tunes the implied-volatility solver. Zero values are not
// meaningful; start from DefaultIVParams and adjust.
type IVParams struct {
	SigmaLo   float64 // lower bracket bound
	SigmaHi   float64 // upper bracket bound
	PriceTol  float64 // |price(σ) − market| convergence threshold
	VolTol    float64 // |σ_{k+1} − σ_k| convergence threshold
	VegaFloor float64 // |Vega| below which the iteration bisects
	MaxIter   int
}

// DefaultIVParams returns the documented solver defaults.
func DefaultIVParams() IVParams {
	return IVParams{
		SigmaLo:   defaultSigmaLo,
		SigmaHi:   defaultSigmaHi,
		PriceTol:  defaultPriceTol,
		VolTol:    defaultVolTol,
		VegaFloor: defaultVegaFloor,
		MaxIter:   defaultMaxIter,
	}
}

// IVResult reports the outcome of one implied-volatility inversion.
// Converged=false is not an error: near-the-money short-dated options
// can be numerically stiff, and whether the last iterate is an
// acceptable approximation is the caller's call.
type IVResult struct {
	ImpliedVol float64 `json:"implied_volatility"`
	Iterations int     `json:"iterations_used"`
	Converged  bool    `json:"converged"`
}

// ImpliedVolatility inverts the Black-Scholes price of q to recover
// the volatility that reproduces q.MarketPrice, using DefaultIVParams.
// q.Volatility is ignored; it is the unknown being solved for.
func ImpliedVolatility(q OptionQuote) (IVResult, error) {
	return ImpliedVolatilityWithParams(q, DefaultIVParams())
}

// ImpliedVolatilityWithParams runs a hybrid Newton-Raphson iteration
// safeguarded by bisection over the bracket [SigmaLo, SigmaHi].
//
// Newton converges quadratically when Vega is healthy; whenever the
// derivative flattens out (deep ITM/OTM, near-zero time) or a Newton
// step would leave the bracket, the iteration falls back to bisecting
// the bracket for that step, which cannot diverge because the price is
// monotone in volatility.
//
// Returns ErrInvalidInput for a non-positive or sub-intrinsic market
// price or an expired quote, and ErrNoBracket when the market price is
// not attainable at any volatility inside the bracket. Running out of
// iterations is reported through IVResult.Converged, not an error.
func ImpliedVolatilityWithParams(q OptionQuote, p IVParams) (IVResult, error) {
	if q.Spot <= 0 {
		return IVResult{}, fmt.Errorf("%w: spot must be positive, got %g", ErrInvalidInput, q.Spot)
	}
	if q.Strike <= 0 {
		return IVResult{}, fmt.Errorf("%w: strike must be positive, got %g", ErrInvalidInput, q.Strike)
	}
	if !q.Type.Valid() {
		return IVResult{}, fmt.Errorf("%w: unknown option type %q", ErrInvalidInput, q.Type)
	}
	if q.TimeToExpiry <= 0 {
		return IVResult{}, fmt.Errorf("%w: cannot invert an expired option (T=%g)", ErrInvalidInput, q.TimeToExpiry)
	}
	if q.MarketPrice <= 0 {
		return IVResult{}, fmt.Errorf("%w: market price must be positive, got %g", ErrInvalidInput, q.MarketPrice)
	}
	if floor := q.discountedIntrinsic(); q.MarketPrice < floor {
		return IVResult{}, fmt.Errorf("%w: market price %g below intrinsic value %g (arbitrage-violating quote)",
			ErrInvalidInput, q.MarketPrice, floor)
	}

	// Establish the bracket. Price is non-decreasing in σ, so the
	// market price is reachable iff it lies between the two bounds.
	lo, hi := p.SigmaLo, p.SigmaHi
	if q.MarketPrice <= bsPrice(q, lo) {
		return IVResult{}, fmt.Errorf("%w: price %g at or below floor price at σ=%g", ErrNoBracket, q.MarketPrice, lo)
	}
	if q.MarketPrice >= bsPrice(q, hi) {
		return IVResult{}, fmt.Errorf("%w: price %g at or above price at σ=%g", ErrNoBracket, q.MarketPrice, hi)
	}

	sigma := clamp(seedVolatility(q), lo, hi)

	for i := 1; i <= p.MaxIter; i++ {
		diff := bsPrice(q, sigma) - q.MarketPrice
		if math.Abs(diff) < p.PriceTol {
			return IVResult{ImpliedVol: sigma, Iterations: i, Converged: true}, nil
		}

		// Tighten the bracket around the root with the sign of the
		// residual before choosing the next candidate.
		if diff > 0 {
			hi = sigma
		} else {
			lo = sigma
		}

		next := 0.5 * (lo + hi)
		if vega := bsVega(q, sigma); math.Abs(vega) >= p.VegaFloor {
			step := sigma - diff/vega
			if step > lo && step < hi {
				next = step
			}
		}

		if math.Abs(next-sigma) < p.VolTol {
			return IVResult{ImpliedVol: next, Iterations: i, Converged: true}, nil
		}
		sigma = next
	}

	return IVResult{ImpliedVol: sigma, Iterations: p.MaxIter, Converged: false}, nil
}

// seedVolatility estimates a Newton starting point from the log
// forward moneyness, the standard closed-form first guess. For quotes
// near the forward the term degenerates, so it floors at a plain 20%.
func seedVolatility(q OptionQuote) float64 {
	forward := q.Spot / discountFactor(q.Rate, q.TimeToExpiry)
	m := 2 * math.Abs(math.Log(forward/q.Strike)) / q.TimeToExpiry
	if m < 0.16 {
		return 0.20
	}
	return 0.5 * math.Sqrt(m)
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}
