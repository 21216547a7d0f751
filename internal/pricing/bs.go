package pricing

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// stdNormal is the standard normal distribution used for Φ, φ and the
// quantile function. distuv.Normal is stateless, so sharing one value
// across goroutines is safe.
var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

func normCDF(x float64) float64 { return stdNormal.CDF(x) }
func normPDF(x float64) float64 { return stdNormal.Prob(x) }

// PricingResult holds the theoretical value of one option.
type PricingResult struct {
	Price float64 `json:"price"`
}

// Price computes the theoretical European option value of q using the
// Black-Scholes closed form:
//
//	d1 = (ln(S/K) + (r + σ²/2)·T) / (σ·√T)
//	d2 = d1 − σ·√T
//	call = S·Φ(d1) − K·e^(−rT)·Φ(d2)
//	put  = K·e^(−rT)·Φ(−d2) − S·Φ(−d1)
//
// When T = 0 or σ = 0 the formula is undefined (division by zero in
// d1); the price then reduces to intrinsic value.
//
// Returns ErrInvalidInput when spot ≤ 0, strike ≤ 0, T < 0 or σ < 0.
func Price(q OptionQuote) (PricingResult, error) {
	if err := q.validate(); err != nil {
		return PricingResult{}, err
	}
	if q.expired() {
		return PricingResult{Price: q.Intrinsic()}, nil
	}
	return PricingResult{Price: bsPrice(q, q.Volatility)}, nil
}

// bsPrice evaluates the closed form at an explicit volatility. Inputs
// must already be validated and non-degenerate (T > 0, sigma > 0); the
// IV solver calls this in its inner loop with solver-controlled sigma.
func bsPrice(q OptionQuote, sigma float64) float64 {
	d1, d2 := dPlusMinus(q, sigma)
	disc := q.Strike * discountFactor(q.Rate, q.TimeToExpiry)
	if q.Type == Put {
		return disc*normCDF(-d2) - q.Spot*normCDF(-d1)
	}
	return q.Spot*normCDF(d1) - disc*normCDF(d2)
}

// dPlusMinus computes the standardized moneyness terms d1 and d2.
// These are recomputed per call, never cached, since callers may vary
// any single field across repeated invocations.
func dPlusMinus(q OptionQuote, sigma float64) (d1, d2 float64) {
	sqrtT := math.Sqrt(q.TimeToExpiry)
	d1 = (math.Log(q.Spot/q.Strike) + (q.Rate+0.5*sigma*sigma)*q.TimeToExpiry) / (sigma * sqrtT)
	d2 = d1 - sigma*sqrtT
	return d1, d2
}

func discountFactor(rate, t float64) float64 {
	return math.Exp(-rate * t)
}

// bsVega is the derivative of the closed-form price with respect to
// volatility, per unit of volatility. It is the Newton denominator in
// the IV solver; same preconditions as bsPrice.
func bsVega(q OptionQuote, sigma float64) float64 {
	d1, _ := dPlusMinus(q, sigma)
	return q.Spot * normPDF(d1) * math.Sqrt(q.TimeToExpiry)
}
