package pricing

import (
	"errors"
	"math"
	"testing"
)

// Reference scenario from standard Black-Scholes tables:
// spot=100, strike=100, T=1, r=5%, sigma=20%.
var refQuote = OptionQuote{
	Spot:         100,
	Strike:       100,
	TimeToExpiry: 1,
	Rate:         0.05,
	Volatility:   0.20,
	Type:         Call,
}

func TestPriceReferenceScenario(t *testing.T) {
	call, err := Price(refQuote)
	if err != nil {
		t.Fatalf("pricing call: %v", err)
	}
	if math.Abs(call.Price-10.4506) > 1e-3 {
		t.Fatalf("expected call price ~10.4506, got %f", call.Price)
	}

	putQuote := refQuote
	putQuote.Type = Put
	put, err := Price(putQuote)
	if err != nil {
		t.Fatalf("pricing put: %v", err)
	}
	if math.Abs(put.Price-5.5735) > 1e-3 {
		t.Fatalf("expected put price ~5.5735, got %f", put.Price)
	}
}

func TestPutCallParity(t *testing.T) {
	spots := []float64{80, 100, 120}
	sigmas := []float64{0.1, 0.25, 0.6}
	expirations := []float64{0.1, 0.5, 2}

	for _, s := range spots {
		for _, sigma := range sigmas {
			for _, exp := range expirations {
				q := OptionQuote{Spot: s, Strike: 100, TimeToExpiry: exp, Rate: 0.03, Volatility: sigma, Type: Call}
				call, err := Price(q)
				if err != nil {
					t.Fatalf("pricing call: %v", err)
				}
				q.Type = Put
				put, err := Price(q)
				if err != nil {
					t.Fatalf("pricing put: %v", err)
				}

				lhs := call.Price - put.Price
				rhs := s - 100*math.Exp(-0.03*exp)
				if math.Abs(lhs-rhs) > 1e-9 {
					t.Fatalf("put-call parity violated at S=%g sigma=%g T=%g: LHS=%f RHS=%f",
						s, sigma, exp, lhs, rhs)
				}
			}
		}
	}
}

// T=0 must give exactly intrinsic value, independent of sigma.
func TestPriceIntrinsicAtExpiry(t *testing.T) {
	for _, sigma := range []float64{0, 0.2, 3} {
		call := OptionQuote{Spot: 110, Strike: 100, TimeToExpiry: 0, Rate: 0.05, Volatility: sigma, Type: Call}
		res, err := Price(call)
		if err != nil {
			t.Fatalf("pricing expired call: %v", err)
		}
		if res.Price != 10 {
			t.Fatalf("expected intrinsic 10, got %f (sigma=%g)", res.Price, sigma)
		}

		put := call
		put.Type = Put
		res, err = Price(put)
		if err != nil {
			t.Fatalf("pricing expired put: %v", err)
		}
		if res.Price != 0 {
			t.Fatalf("expected intrinsic 0, got %f (sigma=%g)", res.Price, sigma)
		}
	}
}

func TestPriceIntrinsicAtZeroVol(t *testing.T) {
	q := OptionQuote{Spot: 90, Strike: 100, TimeToExpiry: 1, Rate: 0.05, Volatility: 0, Type: Put}
	res, err := Price(q)
	if err != nil {
		t.Fatalf("pricing zero-vol put: %v", err)
	}
	if res.Price != 10 {
		t.Fatalf("expected intrinsic 10, got %f", res.Price)
	}
}

// Price must be non-decreasing in volatility; the IV solver's bracket
// depends on it.
func TestPriceMonotoneInVol(t *testing.T) {
	sigmas := []float64{0.01, 0.05, 0.15, 0.3, 0.6, 1.2, 2.5, 4.5}
	for _, typ := range []OptionType{Call, Put} {
		for _, strike := range []float64{70, 100, 140} {
			prev := -1.0
			for _, sigma := range sigmas {
				q := OptionQuote{Spot: 100, Strike: strike, TimeToExpiry: 0.75, Rate: 0.02, Volatility: sigma, Type: typ}
				res, err := Price(q)
				if err != nil {
					t.Fatalf("pricing: %v", err)
				}
				if res.Price < prev {
					t.Fatalf("price decreased in vol: %s K=%g sigma=%g price=%f prev=%f",
						typ, strike, sigma, res.Price, prev)
				}
				prev = res.Price
			}
		}
	}
}

func TestPriceValidation(t *testing.T) {
	cases := []struct {
		name string
		q    OptionQuote
	}{
		{"zero spot", OptionQuote{Spot: 0, Strike: 100, TimeToExpiry: 1, Volatility: 0.2, Type: Call}},
		{"negative strike", OptionQuote{Spot: 100, Strike: -5, TimeToExpiry: 1, Volatility: 0.2, Type: Call}},
		{"negative time", OptionQuote{Spot: 100, Strike: 100, TimeToExpiry: -0.1, Volatility: 0.2, Type: Put}},
		{"negative vol", OptionQuote{Spot: 100, Strike: 100, TimeToExpiry: 1, Volatility: -0.2, Type: Call}},
		{"unknown type", OptionQuote{Spot: 100, Strike: 100, TimeToExpiry: 1, Volatility: 0.2, Type: "straddle"}},
	}
	for _, tc := range cases {
		if _, err := Price(tc.q); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}
