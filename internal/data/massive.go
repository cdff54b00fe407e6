// Package data provides market data provider implementations.
//
// This file contains a Massive-backed Provider implementation that retrieves
// bars, option expirations, strike ladders, and option quotes via Massive
// HTTP APIs.
//
// Design notes:
//   - Uses raw HTTP calls instead of the official Massive SDK
//   - Supports pagination, rate-limiting retries, and fallback providers
//   - Logging is intentionally verbose at Debug/Trace levels for diagnostics
package data

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/contactkeval/option-pricer/internal/logger"
	"github.com/contactkeval/option-pricer/internal/ratecurve"
)

// massiveDataProvider implements the Provider interface using Massive APIs.
type massiveDataProvider struct {
	// APIKey used for authenticating requests with Massive.
	APIKey string

	// Client is the HTTP client used to make API requests.
	Client *http.Client

	// BaseURL is the root endpoint for Massive APIs
	// (e.g., https://api.massive.com).
	BaseURL string

	// secondary is an optional fallback provider.
	secondary Provider
}

// massiveContract represents a single option contract
// returned by Massive's contracts reference endpoint.
type massiveContract struct {
	CFI               string  `json:"cfi"`
	ContractType      string  `json:"contract_type"`
	ExerciseStyle     string  `json:"exercise_style"`
	ExpiryDate        string  `json:"expiration_date"`
	PrimaryExchange   string  `json:"primary_exchange"`
	SharesPerContract int     `json:"shares_per_contract"`
	StrikePrice       float64 `json:"strike_price"`
	Ticker            string  `json:"ticker"`
	UnderlyingTicker  string  `json:"underlying_ticker"`
}

// massiveContractsResp models the paginated response
// returned by Massive's option contracts API.
type massiveContractsResp struct {
	Results   []massiveContract `json:"results"`
	Status    string            `json:"status"`
	RequestID string            `json:"request_id"`
	NextURL   string            `json:"next_url"`
}

// NewMassiveDataProvider constructs a Massive-backed data provider.
//
// It initializes an HTTP client with sensible defaults for:
//   - timeouts
//   - connection pooling
//   - HTTP/2 support
//   - gzip decompression
func NewMassiveDataProvider(apiKey string) *massiveDataProvider {
	logger.Infof("initializing Massive data provider")

	return &massiveDataProvider{
		APIKey: apiKey,
		Client: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 30 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
				DisableCompression:    false, // must be false to enable gzip auto-decompression
				ForceAttemptHTTP2:     true,
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
			},
		},
		BaseURL: "https://api.massive.com",
	}
}

// Secondary returns the configured secondary Provider, if any.
func (massiveDataProv *massiveDataProvider) Secondary() Provider {
	return massiveDataProv.secondary
}

// getContracts retrieves option contracts matching the supplied filters.
//
// Parameters:
//   - underlying: underlying ticker symbol
//   - strike: specific strike (0 means all strikes)
//   - expiryDate: specific expiry (zero value enables range query)
//   - fromDate: expiry range start
//   - toDate: expiry range end
func (massiveDataProv *massiveDataProvider) getContracts(
	underlying string,
	strike float64,
	expiryDate, fromDate, toDate time.Time,
) ([]massiveContract, error) {

	logger.Tracef(
		"fetching option contracts: %s strike=%.2f",
		underlying,
		strike,
	)

	out := []massiveContract{}

	// Build base URL
	url, err := url.Parse(massiveDataProv.BaseURL + "/v3/reference/options/contracts")
	if err != nil {
		return nil, err
	}

	// Query parameters
	query := url.Query()
	query.Set("underlying_ticker", underlying)

	if strike > 0.0 {
		query.Set("strike_price", fmt.Sprintf("%.8g", strike))
	}

	if expiryDate.IsZero() {
		query.Set("expiration_date.lte", toDate.Format("2006-01-02"))
		query.Set("expiration_date.gte", fromDate.Format("2006-01-02"))
	} else {
		query.Set("expiration_date", expiryDate.Format("2006-01-02"))
	}

	query.Set("limit", "1000")
	query.Set("apiKey", massiveDataProv.APIKey)

	url.RawQuery = query.Encode()
	reqURL := url.String()

	// Handle pagination
	for reqURL != "" {
		logger.Debugf("contracts request URL: %s", reqURL)

		req, err := http.NewRequest("GET", reqURL, nil)
		if err != nil {
			return nil, err
		}

		req.Header.Set("Authorization", "Bearer "+massiveDataProv.APIKey)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "massive-client/1.0")

		resp, err := massiveDataProv.processGetRequest(req)
		if err != nil {
			return nil, err
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		if len(body) == 0 {
			return nil, fmt.Errorf("empty response body")
		}

		if resp.StatusCode != http.StatusOK {
			var dbg struct {
				Message string `json:"message"`
			}
			_ = json.Unmarshal(body, &dbg)

			logger.Errorf(
				"massive contracts API error status=%d message=%s",
				resp.StatusCode,
				dbg.Message,
			)
			return nil, fmt.Errorf(
				"massive returned status %d: %s",
				resp.StatusCode,
				dbg.Message,
			)
		}

		var massiveResp massiveContractsResp
		if err := json.Unmarshal(body, &massiveResp); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}

		logger.Tracef("received %d contracts", len(massiveResp.Results))

		out = append(out, massiveResp.Results...)
		reqURL = massiveResp.NextURL
	}

	return out, nil
}

// GetDailyBars retrieves daily OHLCV bars for the given symbol and range.
func (massiveDataProv *massiveDataProvider) GetDailyBars(
	underlying string,
	fromDate, toDate time.Time,
) ([]Bar, error) {

	maxLimit := 50000

	logger.Debugf(
		"fetching bars: %s from=%s to=%s",
		underlying,
		fromDate.Format("2006-01-02"),
		toDate.Format("2006-01-02"),
	)

	url := fmt.Sprintf(
		"%s/v2/aggs/ticker/%s/range/1/day/%s/%s?adjusted=true&sort=asc&limit=%d&apiKey=%s",
		massiveDataProv.BaseURL,
		underlying,
		fromDate.Format("2006-01-02"),
		toDate.Format("2006-01-02"),
		maxLimit,
		massiveDataProv.APIKey,
	)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		logger.Errorf("bars request errored=%v", err)
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("x-api-key", massiveDataProv.APIKey)

	resp, err := massiveDataProv.processGetRequest(req)
	if err != nil {
		logger.Errorf("bars request failed")
		return nil, fmt.Errorf("massive api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf(
			"massive daily bars status=%d body=%s",
			resp.StatusCode,
			string(bodyBytes),
		)
	}

	// Massive/POLYGON style response model
	var body struct {
		Ticker   string `json:"ticker"`
		Adjusted bool   `json:"adjusted"`
		Results  []struct {
			Open      float64 `json:"o"`
			Close     float64 `json:"c"`
			High      float64 `json:"h"`
			Low       float64 `json:"l"`
			VWAP      float64 `json:"vw"` // volume-weighted average price
			Volume    float64 `json:"v"`  // trading volume of the symbol in the given time period
			Trades    int64   `json:"n"`  // number of transactions in the aggregate window
			Timestamp int64   `json:"t"`  // epoch millis
		} `json:"results"`
		Status string `json:"status"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing massive response: %w", err)
	}

	logger.Tracef("bars received: %d records", len(body.Results))

	out := make([]Bar, 0, len(body.Results))
	for _, r := range body.Results {
		out = append(out, Bar{
			Date:  time.UnixMilli(r.Timestamp).UTC(),
			Open:  r.Open,
			High:  r.High,
			Low:   r.Low,
			Close: r.Close,
			Vol:   r.Volume,
		})
	}

	return out, nil
}

// GetSpotPrice returns the most recent daily close on or before asOf.
func (massiveDataProv *massiveDataProvider) GetSpotPrice(
	underlying string,
	asOf time.Time,
) (float64, error) {

	// a one-week window covers weekends and market holidays
	bars, err := massiveDataProv.GetDailyBars(underlying, asOf.AddDate(0, 0, -7), asOf)
	if err != nil {
		return 0, fmt.Errorf("fetch spot bars: %w", err)
	}
	if len(bars) == 0 {
		return 0, fmt.Errorf("no spot bars for %s on or before %s",
			underlying, asOf.Format("2006-01-02"))
	}

	spot := bars[len(bars)-1].Close
	logger.Debugf("spot %s = %.2f", underlying, spot)
	return spot, nil
}

// GetExpirations returns the sorted unique option expiration dates listed
// for the underlying with expiry inside [fromDate, toDate].
func (massiveDataProv *massiveDataProvider) GetExpirations(
	underlying string,
	fromDate, toDate time.Time,
) ([]time.Time, error) {

	logger.Infof(
		"resolving expirations for %s [%s .. %s]",
		underlying,
		fromDate.Format("2006-01-02"),
		toDate.Format("2006-01-02"),
	)

	contracts, err := massiveDataProv.getContracts(underlying, 0, time.Time{}, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("fetch contracts: %w", err)
	}

	expiryMap := map[string]time.Time{}
	for _, c := range contracts {
		t, err := time.Parse("2006-01-02", c.ExpiryDate)
		if err != nil {
			continue // skip malformed expiry dates
		}
		expiryMap[c.ExpiryDate] = t
	}

	expiries := make([]time.Time, 0, len(expiryMap))
	for _, dt := range expiryMap {
		expiries = append(expiries, dt)
	}

	sort.Slice(expiries, func(i, j int) bool {
		return expiries[i].Before(expiries[j])
	})

	logger.Infof("resolved %d unique expirations", len(expiries))
	return expiries, nil
}

// GetStrikes returns the sorted strike ladder for one underlying+expiry
// pair, the union of the call and put sides.
func (massiveDataProv *massiveDataProvider) GetStrikes(
	underlying string,
	expiryDate time.Time,
) ([]float64, error) {

	contracts, err := massiveDataProv.getContracts(underlying, 0, expiryDate, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("fetch contracts: %w", err)
	}

	seen := map[float64]bool{}
	strikes := make([]float64, 0, len(contracts))
	for _, c := range contracts {
		if seen[c.StrikePrice] {
			continue
		}
		seen[c.StrikePrice] = true
		strikes = append(strikes, c.StrikePrice)
	}

	sort.Float64s(strikes)
	logger.Debugf("%s %s ladder has %d strikes",
		underlying, expiryDate.Format("2006-01-02"), len(strikes))
	return strikes, nil
}

// GetOptionMidPrice retrieves the market mid (or last) price for a single
// option via the snapshot endpoint. Requires a plan with snapshot access.
func (massiveDataProv *massiveDataProvider) GetOptionMidPrice(
	underlying string,
	strike float64,
	expiryDate time.Time,
	optType string,
) (float64, error) {

	symbol := OptionSymbolFromParts(underlying, expiryDate, optType, strike)
	url := fmt.Sprintf("%s/v3/snapshot/options/%s?apiKey=%s",
		massiveDataProv.BaseURL, symbol, massiveDataProv.APIKey)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := massiveDataProv.processGetRequest(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("massive options snapshot status %d", resp.StatusCode)
	}

	var res struct {
		Min struct {
			Ask float64 `json:"ask"`
			Bid float64 `json:"bid"`
		} `json:"min"`
		Last struct {
			Price float64 `json:"price"`
		} `json:"last"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return 0, err
	}

	if res.Min.Ask > 0 && res.Min.Bid > 0 {
		return (res.Min.Ask + res.Min.Bid) / 2.0, nil
	}
	if res.Last.Price > 0 {
		return res.Last.Price, nil
	}
	return 0, fmt.Errorf("no usable option price for %s", symbol)
}

// GetTreasuryYields fetches the Daily Treasury Par Yield Curve table for a
// calendar year. The Treasury endpoint needs no API key; the provider's
// HTTP client is reused for its pooling and timeouts.
func (massiveDataProv *massiveDataProvider) GetTreasuryYields(year int) ([]ratecurve.Row, error) {
	return FetchTreasuryYields(massiveDataProv.Client, year)
}

// processGetRequest executes an HTTP GET request with rate-limit handling.
//
// Behavior:
//   - Retries indefinitely on HTTP 429
//   - Sleeps until the next minute boundary
//   - Returns immediately on success (<400)
//   - Returns an error for other status codes
func (massiveDataProv *massiveDataProvider) processGetRequest(
	req *http.Request,
) (*http.Response, error) {

	for {
		resp, err := massiveDataProv.Client.Do(req)
		if err != nil {
			return nil, err
		}

		// Success
		if resp.StatusCode < 400 {
			return resp, nil
		}

		// Handle per-minute rate limit (commonly 429)
		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()

			// Sleep until the next minute boundary
			now := time.Now()
			sleepDuration := time.Until(
				now.Truncate(time.Minute).Add(time.Minute),
			)

			logger.Infof("rate limit hit, sleeping for %s", sleepDuration)
			time.Sleep(sleepDuration)
			continue
		}

		return resp, fmt.Errorf(
			"unexpected status code: %d",
			resp.StatusCode,
		)
	}
}
