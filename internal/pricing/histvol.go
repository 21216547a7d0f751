package pricing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// HistoricalVolatility computes the annualized realized volatility of
// a close-price series: the sample standard deviation of simple
// period-over-period returns, scaled by √periodsPerYear (252 for
// daily equity closes, 365 for crypto, 12 for monthly).
//
// The closes must be ordered oldest to newest. Returns ErrInvalidInput
// for fewer than two closes, a non-positive close, or a non-positive
// annualization factor.
func HistoricalVolatility(closes []float64, periodsPerYear float64) (float64, error) {
	// Two returns minimum, or the sample standard deviation is undefined.
	if len(closes) < 3 {
		return 0, fmt.Errorf("%w: need at least three closes, got %d", ErrInvalidInput, len(closes))
	}
	if periodsPerYear <= 0 {
		return 0, fmt.Errorf("%w: periods per year must be positive, got %g", ErrInvalidInput, periodsPerYear)
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 0; i < len(closes)-1; i++ {
		if closes[i] <= 0 {
			return 0, fmt.Errorf("%w: close must be positive, got %g at index %d", ErrInvalidInput, closes[i], i)
		}
		returns = append(returns, closes[i+1]/closes[i]-1)
	}
	if last := closes[len(closes)-1]; last <= 0 {
		return 0, fmt.Errorf("%w: close must be positive, got %g at index %d", ErrInvalidInput, last, len(closes)-1)
	}

	return stat.StdDev(returns, nil) * math.Sqrt(periodsPerYear), nil
}
