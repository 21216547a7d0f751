// Package pricing implements the numerical core shared by the option
// strategy tools: closed-form European option pricing, Greeks, and
// implied-volatility inversion.
//
// Design goals:
//   - Pure functions of their inputs, no package-level mutable state
//   - Validation up front, never silently corrected inputs
//   - Degenerate inputs (expired option, zero volatility) reduce to
//     intrinsic value instead of dividing by zero
//
// Every call is independent, so callers may evaluate large datasets
// concurrently without coordination.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Sentinel errors returned by the package. Callers match them with
// errors.Is; the wrapped message carries the offending value.
var (
	// ErrInvalidInput marks structurally invalid parameters:
	// non-positive spot or strike, negative time, negative volatility,
	// or a sub-intrinsic market price handed to the IV solver.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoBracket is returned by ImpliedVolatility when the observed
	// market price is outside the price range achievable within the
	// volatility search bound. It signals a stale or bad quote, not a
	// solver defect.
	ErrNoBracket = errors.New("market price outside achievable range")
)

// OptionType identifies the side of a European option.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// Valid reports whether t is one of the two known option types.
func (t OptionType) Valid() bool { return t == Call || t == Put }

// OptionQuote describes one priced instrument observation. It is an
// immutable value; nothing in this package retains or mutates it.
//
// Volatility is required for forward pricing (Price, Greeks) and
// ignored by the IV solver, which treats it as the unknown.
// MarketPrice is required only as IV solver input.
type OptionQuote struct {
	Spot         float64    `json:"spot"`
	Strike       float64    `json:"strike"`
	TimeToExpiry float64    `json:"time_to_expiry"` // years
	Rate         float64    `json:"risk_free_rate"` // continuously compounded
	Volatility   float64    `json:"volatility,omitempty"`
	Type         OptionType `json:"option_type"`
	MarketPrice  float64    `json:"market_price,omitempty"`
}

// validate checks the fields shared by forward pricing and Greeks.
func (q OptionQuote) validate() error {
	if q.Spot <= 0 {
		return fmt.Errorf("%w: spot must be positive, got %g", ErrInvalidInput, q.Spot)
	}
	if q.Strike <= 0 {
		return fmt.Errorf("%w: strike must be positive, got %g", ErrInvalidInput, q.Strike)
	}
	if q.TimeToExpiry < 0 {
		return fmt.Errorf("%w: time to expiry must not be negative, got %g", ErrInvalidInput, q.TimeToExpiry)
	}
	if q.Volatility < 0 {
		return fmt.Errorf("%w: volatility must not be negative, got %g", ErrInvalidInput, q.Volatility)
	}
	if !q.Type.Valid() {
		return fmt.Errorf("%w: unknown option type %q", ErrInvalidInput, q.Type)
	}
	return nil
}

// expired reports whether the closed form degenerates to intrinsic
// value: at expiry or at zero volatility d1/d2 are undefined.
func (q OptionQuote) expired() bool {
	return q.TimeToExpiry == 0 || q.Volatility == 0
}

// Intrinsic returns the immediate-exercise payoff of the quote.
func (q OptionQuote) Intrinsic() float64 {
	if q.Type == Put {
		return math.Max(q.Strike-q.Spot, 0)
	}
	return math.Max(q.Spot-q.Strike, 0)
}

// discountedIntrinsic is the arbitrage floor for a European option
// price: max(S - K*e^(-rT), 0) for calls, max(K*e^(-rT) - S, 0) for
// puts. A market price below it cannot be inverted to a volatility.
func (q OptionQuote) discountedIntrinsic() float64 {
	disc := q.Strike * discountFactor(q.Rate, q.TimeToExpiry)
	if q.Type == Put {
		return math.Max(disc-q.Spot, 0)
	}
	return math.Max(q.Spot-disc, 0)
}

// TimeToExpiryYears converts a wall-clock expiry into the year
// fraction the pricing formulas expect. Past expiries clamp to 0.
func TimeToExpiryYears(now, expiry time.Time) float64 {
	secs := expiry.Sub(now).Seconds()
	if secs <= 0 {
		return 0
	}
	return secs / (24 * 3600) / 365
}
