package ratecurve

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrNoData indicates the yield table holds no row usable for the
// requested as-of date.
var ErrNoData = errors.New("ratecurve: no yield rows on or before as-of date")

// Row is one dated row of the Daily Treasury Par Yield Curve table.
// Yields maps tenor labels (e.g. "3 Mo", "10 Yr") to percentage yields as
// published, i.e. 4.25 means 4.25%.
type Row struct {
	Date   time.Time
	Yields map[string]float64
}

// DefaultTenors returns the standard label-to-years mapping for the
// Treasury daily yield curve. The mapping is a fresh copy per call so a
// caller can amend it without affecting others; any recognized mapping can
// be passed to FromTable in its place.
func DefaultTenors() map[string]float64 {
	return map[string]float64{
		"1 Mo":  1.0 / 12.0,
		"2 Mo":  2.0 / 12.0,
		"3 Mo":  3.0 / 12.0,
		"4 Mo":  4.0 / 12.0,
		"6 Mo":  6.0 / 12.0,
		"1 Yr":  1.0,
		"2 Yr":  2.0,
		"3 Yr":  3.0,
		"5 Yr":  5.0,
		"7 Yr":  7.0,
		"10 Yr": 10.0,
		"20 Yr": 20.0,
		"30 Yr": 30.0,
	}
}

// FromTable builds a Curve from the latest table row dated on or before
// asof.
//
// A row label resolves to a maturity through the tenors mapping first, then
// through TenorYears for labels the mapping does not carry (a table that
// gains a tenor keeps working without a mapping update). Labels that
// resolve to no positive maturity, and missing or NaN cells, are skipped.
// Percentages are converted to decimals before interpolation. Fails with
// ErrNoData when every row is dated after asof, and with
// ErrInsufficientData when the selected row yields fewer than two usable
// points.
func FromTable(rows []Row, asof time.Time, tenors map[string]float64) (*Curve, error) {
	var best *Row
	for i := range rows {
		r := &rows[i]
		if r.Date.After(asof) {
			continue
		}
		if best == nil || r.Date.After(best.Date) {
			best = r
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: asof=%s", ErrNoData, asof.Format("2006-01-02"))
	}

	points := make([]TenorPoint, 0, len(best.Yields))
	for label, pct := range best.Yields {
		if math.IsNaN(pct) {
			continue
		}
		years, ok := tenors[label]
		if !ok {
			years = TenorYears(label)
		}
		if years <= 0 {
			continue
		}
		points = append(points, TenorPoint{Years: years, Yield: pct / 100.0})
	}

	return New(points)
}
