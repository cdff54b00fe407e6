package data

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/contactkeval/option-pricer/internal/ratecurve"
)

// synthDataProvider implements Data Provider generating synthetic data.
// It lets the CLI run end-to-end without an API key.
type synthDataProvider struct {
	secondary Provider
}

func NewSyntheticProvider() Provider { return &synthDataProvider{} }

func (synthDataProv *synthDataProvider) Secondary() Provider {
	return synthDataProv.secondary
}

// GetDailyBars generates a weekday random walk starting near $100.
func (synthDataProv *synthDataProvider) GetDailyBars(underlying string, fromDate, toDate time.Time) ([]Bar, error) {
	cur := fromDate
	price := 100.0 + float64(rand.Intn(200))
	var out []Bar
	for !cur.After(toDate) {
		if cur.Weekday() != time.Saturday && cur.Weekday() != time.Sunday {
			delta := rand.NormFloat64() * 0.01 * price
			open := price
			close := price + delta
			high := math.Max(open, close) + math.Abs(rand.NormFloat64()*0.3)
			low := math.Min(open, close) - math.Abs(rand.NormFloat64()*0.3)
			out = append(out, Bar{Date: cur, Open: open, High: high, Low: low, Close: close, Vol: float64(1000 + rand.Intn(5000))})
			price = close
		}
		cur = cur.AddDate(0, 0, 1)
	}
	return out, nil
}

func (synthDataProv *synthDataProvider) GetSpotPrice(underlying string, asOf time.Time) (float64, error) {
	bars, err := synthDataProv.GetDailyBars(underlying, asOf.AddDate(0, 0, -7), asOf)
	if err != nil || len(bars) == 0 {
		return 0, fmt.Errorf("no synthetic bars for %s", underlying)
	}
	return bars[len(bars)-1].Close, nil
}

// GetExpirations lists the third Friday of every month in range, the
// standard monthly listed-option cycle.
func (synthDataProv *synthDataProvider) GetExpirations(underlying string, fromDate, toDate time.Time) ([]time.Time, error) {
	var out []time.Time
	cur := time.Date(fromDate.Year(), fromDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(toDate) {
		exp := thirdFriday(cur.Year(), cur.Month())
		if !exp.Before(fromDate) && !exp.After(toDate) {
			out = append(out, exp)
		}
		cur = cur.AddDate(0, 1, 0)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

// GetStrikes lays a $5 ladder of 21 strikes centered on the spot price.
func (synthDataProv *synthDataProvider) GetStrikes(underlying string, expiryDate time.Time) ([]float64, error) {
	spot, err := synthDataProv.GetSpotPrice(underlying, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	interval := 5.0
	center := math.Round(spot/interval) * interval
	out := make([]float64, 0, 21)
	for k := center - 10*interval; k <= center+10*interval; k += interval {
		if k > 0 {
			out = append(out, k)
		}
	}
	return out, nil
}

func (synthDataProv *synthDataProvider) GetOptionMidPrice(underlying string, strike float64, expiryDate time.Time, optType string) (float64, error) {
	if synthDataProv.secondary != nil {
		return synthDataProv.secondary.GetOptionMidPrice(underlying, strike, expiryDate, optType)
	}
	return 0, fmt.Errorf("no option market data in synthetic provider")
}

// GetTreasuryYields returns a single plausible yield row dated today.
func (synthDataProv *synthDataProvider) GetTreasuryYields(year int) ([]ratecurve.Row, error) {
	return []ratecurve.Row{{
		Date: time.Now().UTC().Truncate(24 * time.Hour),
		Yields: map[string]float64{
			"1 Mo": 5.40, "3 Mo": 5.30, "6 Mo": 5.10, "1 Yr": 4.80,
			"2 Yr": 4.40, "5 Yr": 4.20, "10 Yr": 4.10, "30 Yr": 4.30,
		},
	}}, nil
}

// thirdFriday returns the third Friday of a month.
func thirdFriday(year int, month time.Month) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(time.Friday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset+14)
}
