// Package quote turns raw market data into the five Black-Scholes inputs
// and prices one option contract.
//
// A Quoter owns no state beyond its data provider; every Quote call builds
// its inputs fresh from provider snapshots and discards them. The pipeline
// is the composition root for the leaf packages: volatility and spot from
// price history, a continuous rate from the Treasury curve, and a real
// listed contract from the option chain.
package quote

import (
	"fmt"
	"math"
	"time"

	"github.com/contactkeval/option-pricer/internal/chain"
	"github.com/contactkeval/option-pricer/internal/data"
	"github.com/contactkeval/option-pricer/internal/logger"
	"github.com/contactkeval/option-pricer/internal/pricing"
	"github.com/contactkeval/option-pricer/internal/ratecurve"
	"github.com/contactkeval/option-pricer/internal/volatility"
)

// Request describes one pricing run.
type Request struct {
	Ticker      string                // e.g. "AAPL"
	TargetYears float64               // desired horizon, e.g. 0.5 for six months
	Rule        chain.StrikeRule      // strike selection policy, default ATM
	Pct         float64               // moneyness for the pct rules
	Compounding ratecurve.Compounding // yield convention, default annual
	AsOf        time.Time             // valuation date, default today UTC

	LookbackDays int                // volatility window in calendar days, default 365
	TradingDays  int                // annualization factor, default 252
	Tenors       map[string]float64 // tenor label mapping, default Treasury labels
}

// Result carries the resolved contract, the five model inputs, and both
// closed-form prices.
type Result struct {
	Ticker     string    `json:"ticker"`
	AsOf       time.Time `json:"as_of"`
	Expiration time.Time `json:"expiration"`

	Spot       float64 `json:"spot"`
	Strike     float64 `json:"strike"`
	Years      float64 `json:"years_to_expiry"`
	Rate       float64 `json:"risk_free_rate"`
	Volatility float64 `json:"volatility"`

	Call float64 `json:"call"`
	Put  float64 `json:"put"`
	Vega float64 `json:"vega"` // price sensitivity to a 1.00 vol move, same for call and put

	// Market mids when the provider has them; zero otherwise.
	MarketCall float64 `json:"market_call,omitempty"`
	MarketPut  float64 `json:"market_put,omitempty"`
}

type Quoter struct {
	prov data.Provider
}

func NewQuoter(prov data.Provider) *Quoter {
	return &Quoter{prov: prov}
}

// Quote executes the full pipeline for one request.
//
// The rate is interpolated at the actual maturity of the chosen expiration,
// not the requested horizon, so the discount factor matches the contract
// being priced.
func (q *Quoter) Quote(req Request) (*Result, error) {
	req = withDefaults(req)

	if req.Ticker == "" {
		return nil, fmt.Errorf("quote: ticker is required")
	}
	if req.TargetYears <= 0 {
		return nil, fmt.Errorf("quote: target horizon must be > 0 years, got %g", req.TargetYears)
	}

	// volatility & spot from price history
	bars, err := q.prov.GetDailyBars(req.Ticker, req.AsOf.AddDate(0, 0, -req.LookbackDays), req.AsOf)
	if err != nil {
		return nil, fmt.Errorf("quote: fetch price history: %w", err)
	}

	sigma, err := volatility.Annualized(data.Closes(bars), req.TradingDays)
	if err != nil {
		return nil, fmt.Errorf("quote: estimate volatility for %s: %w", req.Ticker, err)
	}
	logger.Infof("%s hist vol = %.2f%%", req.Ticker, sigma*100)

	spot, err := q.prov.GetSpotPrice(req.Ticker, req.AsOf)
	if err != nil {
		return nil, fmt.Errorf("quote: fetch spot: %w", err)
	}

	// expiration closest to the requested horizon
	expiries, err := q.prov.GetExpirations(req.Ticker, req.AsOf, req.AsOf.AddDate(3, 0, 0))
	if err != nil {
		return nil, fmt.Errorf("quote: fetch expirations: %w", err)
	}
	expiry, err := chain.ChooseExpiration(req.AsOf, req.TargetYears, expiries)
	if err != nil {
		return nil, fmt.Errorf("quote: choose expiration: %w", err)
	}

	years := expiry.Sub(req.AsOf).Hours() / 24.0 / 365.0
	if years <= 0 {
		return nil, fmt.Errorf("quote: nearest expiration %s is not in the future",
			expiry.Format("2006-01-02"))
	}
	logger.Debugf("%s horizon %.3fy snapped to %s (%.3fy)",
		req.Ticker, req.TargetYears, expiry.Format("2006-01-02"), years)

	// risk-free rate from the Treasury curve at the actual maturity
	rows, err := q.prov.GetTreasuryYields(req.AsOf.Year())
	if err != nil {
		return nil, fmt.Errorf("quote: fetch treasury table: %w", err)
	}
	curve, err := ratecurve.FromTable(rows, req.AsOf, req.Tenors)
	if err != nil {
		return nil, fmt.Errorf("quote: build rate curve: %w", err)
	}
	rate, err := curve.ContinuousRate(years, req.Compounding)
	if err != nil {
		return nil, fmt.Errorf("quote: convert rate: %w", err)
	}
	logger.Debugf("r(%.3fy) = %.4f continuous", years, rate)

	// strike from the ladder
	strikes, err := q.prov.GetStrikes(req.Ticker, expiry)
	if err != nil {
		return nil, fmt.Errorf("quote: fetch strikes: %w", err)
	}
	strike, err := chain.ChooseStrike(strikes, spot, req.Rule, req.Pct)
	if err != nil {
		return nil, fmt.Errorf("quote: choose strike: %w", err)
	}

	inputs := pricing.Inputs{S: spot, K: strike, T: years, R: rate, Sigma: sigma}
	call, put, err := pricing.Price(inputs)
	if err != nil {
		return nil, fmt.Errorf("quote: price %s %s %g: %w",
			req.Ticker, expiry.Format("2006-01-02"), strike, err)
	}

	res := &Result{
		Ticker:     req.Ticker,
		AsOf:       req.AsOf,
		Expiration: expiry,
		Spot:       spot,
		Strike:     strike,
		Years:      years,
		Rate:       rate,
		Volatility: sigma,
		Call:       call,
		Put:        put,
		Vega:       pricing.Vega(inputs),
	}

	// market mids are best-effort color, never fatal
	if mid, err := q.prov.GetOptionMidPrice(req.Ticker, strike, expiry, "call"); err == nil && !math.IsNaN(mid) {
		res.MarketCall = mid
	}
	if mid, err := q.prov.GetOptionMidPrice(req.Ticker, strike, expiry, "put"); err == nil && !math.IsNaN(mid) {
		res.MarketPut = mid
	}

	logger.Infof("%s %s K=%.2f call=%.4f put=%.4f",
		req.Ticker, expiry.Format("2006-01-02"), strike, call, put)
	return res, nil
}

func withDefaults(req Request) Request {
	if req.Rule == "" {
		req.Rule = chain.ATM
	}
	if req.Compounding == "" {
		req.Compounding = ratecurve.Annual
	}
	if req.AsOf.IsZero() {
		req.AsOf = time.Now().UTC().Truncate(24 * time.Hour)
	}
	if req.LookbackDays <= 0 {
		req.LookbackDays = 365
	}
	if req.TradingDays <= 0 {
		req.TradingDays = volatility.DefaultTradingDays
	}
	if req.Tenors == nil {
		req.Tenors = ratecurve.DefaultTenors()
	}
	return req
}
