package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/contactkeval/option-quant/internal/logger"
	"github.com/contactkeval/option-quant/internal/pricing"
)

// massiveSource implements Source against Massive's snapshot APIs.
//
// Monetary fields arrive as JSON numbers; they are decoded into
// decimal.Decimal first and converted once, so a quote's market price
// is not shaped by intermediate float parsing.
type massiveSource struct {
	apiKey    string
	rate      float64
	client    *resty.Client
	secondary Source
}

// chainContract models one contract in a chain snapshot response.
type chainContract struct {
	Details struct {
		ContractType string          `json:"contract_type"`
		ExpiryDate   string          `json:"expiration_date"`
		StrikePrice  decimal.Decimal `json:"strike_price"`
		Ticker       string          `json:"ticker"`
	} `json:"details"`
	Day struct {
		Close decimal.Decimal `json:"close"`
	} `json:"day"`
}

// chainSnapshotResp models the paginated snapshot response.
type chainSnapshotResp struct {
	Results   []chainContract `json:"results"`
	Status    string          `json:"status"`
	RequestID string          `json:"request_id"`
	NextURL   string          `json:"next_url"`
}

// dailyOpenCloseResp models the daily open/close endpoint.
type dailyOpenCloseResp struct {
	Status string          `json:"status"`
	Symbol string          `json:"symbol"`
	Open   decimal.Decimal `json:"open"`
	Close  decimal.Decimal `json:"close"`
}

// MassiveOption configures a massiveSource.
type MassiveOption func(*massiveSource)

// WithBaseURL points the source at a non-default endpoint, used by
// tests to target a local server.
func WithBaseURL(u string) MassiveOption {
	return func(m *massiveSource) { m.client.SetBaseURL(u) }
}

// WithSecondary chains a fallback source consulted when a request
// fails.
func WithSecondary(s Source) MassiveOption {
	return func(m *massiveSource) { m.secondary = s }
}

// NewMassiveSource constructs a Massive-backed chain source. Requests
// retry on rate limiting with backoff before surfacing an error.
func NewMassiveSource(apiKey string, rate float64, opts ...MassiveOption) Source {
	logger.Infof("initializing Massive chain source")

	client := resty.New().
		SetBaseURL("https://api.massive.com").
		SetTimeout(60 * time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "option-quant/1.0").
		SetAuthToken(apiKey).
		SetRetryCount(3).
		SetRetryWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return r != nil && r.StatusCode() == 429
		})

	m := &massiveSource{apiKey: apiKey, rate: rate, client: client}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *massiveSource) Secondary() Source { return m.secondary }

func (m *massiveSource) Chain(ctx context.Context, underlying string, expiry, asOf time.Time) ([]pricing.OptionQuote, error) {
	quotes, err := m.fetchChain(ctx, underlying, expiry, asOf)
	if err != nil && m.secondary != nil {
		logger.Debugf("chain fetch failed (%v), delegating to secondary source", err)
		return m.secondary.Chain(ctx, underlying, expiry, asOf)
	}
	return quotes, err
}

func (m *massiveSource) fetchChain(ctx context.Context, underlying string, expiry, asOf time.Time) ([]pricing.OptionQuote, error) {
	t := pricing.TimeToExpiryYears(asOf, expiry)

	spot, err := m.Spot(ctx, underlying, asOf)
	if err != nil {
		return nil, err
	}

	var out []pricing.OptionQuote
	reqURL := "/v3/snapshot/options/" + underlying

	// First page carries the filters; follow-ups come from next_url.
	params := map[string]string{
		"expiration_date": expiry.Format("2006-01-02"),
		"limit":           "250",
	}

	for reqURL != "" {
		logger.Debugf("chain snapshot request: %s", reqURL)

		var body chainSnapshotResp
		resp, err := m.client.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetResult(&body).
			Get(reqURL)
		if err != nil {
			return nil, fmt.Errorf("massive chain request: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("massive returned status %d: %s", resp.StatusCode(), resp.String())
		}

		logger.Tracef("received %d contracts", len(body.Results))

		for _, c := range body.Results {
			typ := pricing.OptionType(c.Details.ContractType)
			if !typ.Valid() {
				continue
			}
			if c.Day.Close.IsZero() {
				logger.Tracef("skipping %s: no traded close", c.Details.Ticker)
				continue
			}
			out = append(out, pricing.OptionQuote{
				Spot:         spot,
				Strike:       c.Details.StrikePrice.InexactFloat64(),
				TimeToExpiry: t,
				Rate:         m.rate,
				Type:         typ,
				MarketPrice:  c.Day.Close.InexactFloat64(),
			})
		}

		reqURL = body.NextURL
		params = nil // next_url embeds the cursor and filters
	}

	return out, nil
}

func (m *massiveSource) Spot(ctx context.Context, underlying string, asOf time.Time) (float64, error) {
	var body dailyOpenCloseResp
	resp, err := m.client.R().
		SetContext(ctx).
		SetQueryParam("adjusted", "true").
		SetResult(&body).
		Get(fmt.Sprintf("/v1/open-close/%s/%s", underlying, asOf.Format("2006-01-02")))
	if err == nil && resp.IsError() {
		err = fmt.Errorf("massive returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if err != nil {
		if m.secondary != nil {
			logger.Debugf("spot fetch failed (%v), delegating to secondary source", err)
			return m.secondary.Spot(ctx, underlying, asOf)
		}
		return 0, fmt.Errorf("massive spot request: %w", err)
	}
	return body.Close.InexactFloat64(), nil
}
