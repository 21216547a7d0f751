package pricing

import (
	"fmt"
	"math"
)

// StrikeForDelta inverts the delta formula to recover the strike at
// which an option of the given type would carry the target delta.
// Strategy tools use it to place legs at, say, the 25-delta wing of a
// condor without scanning the whole chain.
//
// Solving Φ(d1) = delta for K gives
//
//	K = S / exp(Φ⁻¹(delta)·σ·√T − T·(r + σ²/2))
//
// Put deltas are negative; they are shifted by +1 into the call
// convention first. After the shift delta must lie strictly in (0, 1).
func StrikeForDelta(typ OptionType, spot, delta, sigma, t, r float64) (float64, error) {
	if spot <= 0 {
		return 0, fmt.Errorf("%w: spot must be positive, got %g", ErrInvalidInput, spot)
	}
	if sigma <= 0 {
		return 0, fmt.Errorf("%w: volatility must be positive, got %g", ErrInvalidInput, sigma)
	}
	if t <= 0 {
		return 0, fmt.Errorf("%w: time to expiry must be positive, got %g", ErrInvalidInput, t)
	}
	if !typ.Valid() {
		return 0, fmt.Errorf("%w: unknown option type %q", ErrInvalidInput, typ)
	}
	if typ == Put {
		delta += 1
	}
	if delta <= 0 || delta >= 1 {
		return 0, fmt.Errorf("%w: delta out of range after call-convention shift, got %g", ErrInvalidInput, delta)
	}

	exponent := stdNormal.Quantile(delta)*sigma*math.Sqrt(t) - t*(r+0.5*sigma*sigma)
	return spot / math.Exp(exponent), nil
}
