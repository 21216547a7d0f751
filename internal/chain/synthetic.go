package chain

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/contactkeval/option-quant/internal/pricing"
)

// syntheticSource implements Source by generating a plausible chain:
// a random spot, a strike ladder around it, and market prices from the
// closed form under a smile, so every generated quote is invertible.
type syntheticSource struct {
	rate      float64
	rng       *rand.Rand
	secondary Source
}

// NewSyntheticSource returns a Source generating synthetic chains
// priced with the given risk-free rate.
func NewSyntheticSource(rate float64) Source {
	return &syntheticSource{
		rate: rate,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewSeededSyntheticSource is NewSyntheticSource with a fixed RNG
// seed, for reproducible runs.
func NewSeededSyntheticSource(rate float64, seed int64) Source {
	return &syntheticSource{
		rate: rate,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (s *syntheticSource) Secondary() Source { return s.secondary }

func (s *syntheticSource) Spot(ctx context.Context, underlying string, asOf time.Time) (float64, error) {
	return 50 + math.Round(s.rng.Float64()*4000)/10, nil
}

func (s *syntheticSource) Chain(ctx context.Context, underlying string, expiry, asOf time.Time) ([]pricing.OptionQuote, error) {
	t := pricing.TimeToExpiryYears(asOf, expiry)
	if t <= 0 {
		return nil, fmt.Errorf("expiry %s not after as-of date %s",
			expiry.Format("2006-01-02"), asOf.Format("2006-01-02"))
	}

	spot, err := s.Spot(ctx, underlying, asOf)
	if err != nil {
		return nil, err
	}

	interval := strikeInterval(spot)
	atm := math.Round(spot/interval) * interval

	var out []pricing.OptionQuote
	for i := -5; i <= 5; i++ {
		strike := atm + float64(i)*interval
		if strike <= 0 {
			continue
		}
		sigma := s.smileVol(strike / spot)
		for _, typ := range []pricing.OptionType{pricing.Call, pricing.Put} {
			q := pricing.OptionQuote{
				Spot:         spot,
				Strike:       strike,
				TimeToExpiry: t,
				Rate:         s.rate,
				Volatility:   sigma,
				Type:         typ,
			}
			res, err := pricing.Price(q)
			if err != nil {
				return nil, err
			}
			q.MarketPrice = res.Price
			q.Volatility = 0 // unknown to the consumer; the IV solver recovers it
			out = append(out, q)
		}
	}
	return out, nil
}

// smileVol produces a skewed smile around 20% base vol, with light
// noise so repeated chains differ.
func (s *syntheticSource) smileVol(moneyness float64) float64 {
	m := moneyness - 1
	sigma := 0.20 + 0.8*m*m - 0.15*m + s.rng.Float64()*0.01
	return math.Max(sigma, 0.05)
}

func strikeInterval(spot float64) float64 {
	switch {
	case spot < 100:
		return 2.5
	case spot < 1000:
		return 5
	default:
		return 50
	}
}
