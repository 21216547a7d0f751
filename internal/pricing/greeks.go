package pricing

import "math"

// GreeksResult holds the five first/second-order sensitivities of an
// option. Delta, Theta and Rho differ between calls and puts and are
// reported as a pair; Gamma and Vega are type-independent.
//
// Conventions, which the IV solver depends on and callers must not
// rescale before feeding values back into this package:
//   - Vega is per unit of volatility (divide by 100 for a
//     per-percentage-point convention)
//   - Theta is per year (divide by 365 for daily decay)
//   - Rho is per unit of rate
type GreeksResult struct {
	DeltaCall float64 `json:"delta_call"`
	DeltaPut  float64 `json:"delta_put"`
	Gamma     float64 `json:"gamma"`
	Vega      float64 `json:"vega"`
	ThetaCall float64 `json:"theta_call"`
	ThetaPut  float64 `json:"theta_put"`
	RhoCall   float64 `json:"rho_call"`
	RhoPut    float64 `json:"rho_put"`
}

// GreekValues is one side of a GreeksResult, as consumed per leg by
// the strategy tools.
type GreekValues struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
}

// ForType picks the call or put side of g.
func (g GreeksResult) ForType(t OptionType) GreekValues {
	v := GreekValues{Gamma: g.Gamma, Vega: g.Vega}
	if t == Put {
		v.Delta = g.DeltaPut
		v.Theta = g.ThetaPut
		v.Rho = g.RhoPut
		return v
	}
	v.Delta = g.DeltaCall
	v.Theta = g.ThetaCall
	v.Rho = g.RhoCall
	return v
}

// Greeks computes all sensitivities of q in one pass, sharing the
// d1/d2 terms with the pricing formula. Input validation matches
// Price.
//
// At T = 0 or σ = 0 the sensitivities take their limiting values:
// Delta becomes the step function of moneyness (0.5 exactly at the
// money) and everything else is 0, since an expired option has no
// remaining time decay or volatility exposure.
func Greeks(q OptionQuote) (GreeksResult, error) {
	if err := q.validate(); err != nil {
		return GreeksResult{}, err
	}
	if q.expired() {
		return expiredGreeks(q), nil
	}

	d1, d2 := dPlusMinus(q, q.Volatility)
	sqrtT := math.Sqrt(q.TimeToExpiry)
	pdfD1 := normPDF(d1)
	disc := q.Strike * discountFactor(q.Rate, q.TimeToExpiry)

	// Shared time-decay term: -S·φ(d1)·σ / (2√T).
	decay := -q.Spot * pdfD1 * q.Volatility / (2 * sqrtT)

	return GreeksResult{
		DeltaCall: normCDF(d1),
		DeltaPut:  normCDF(d1) - 1,
		Gamma:     pdfD1 / (q.Spot * q.Volatility * sqrtT),
		Vega:      q.Spot * pdfD1 * sqrtT,
		ThetaCall: decay - q.Rate*disc*normCDF(d2),
		ThetaPut:  decay + q.Rate*disc*normCDF(-d2),
		RhoCall:   q.TimeToExpiry * disc * normCDF(d2),
		RhoPut:    -q.TimeToExpiry * disc * normCDF(-d2),
	}, nil
}

func expiredGreeks(q OptionQuote) GreeksResult {
	var deltaCall float64
	switch {
	case q.Spot > q.Strike:
		deltaCall = 1
	case q.Spot == q.Strike:
		deltaCall = 0.5
	}
	return GreeksResult{DeltaCall: deltaCall, DeltaPut: deltaCall - 1}
}
