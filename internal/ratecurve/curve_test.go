package ratecurve

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testCurve(t *testing.T) *Curve {
	t.Helper()
	c, err := New([]TenorPoint{
		{Years: 10.0, Yield: 0.041},
		{Years: 0.25, Yield: 0.0525},
		{Years: 2.0, Yield: 0.044},
		{Years: 1.0, Yield: 0.048},
	})
	if err != nil {
		t.Fatalf("failed to build curve: %v", err)
	}
	return c
}

func TestInterpolateExactTenor(t *testing.T) {
	c := testCurve(t)

	// exact tenor hits return the node yield with zero interpolation error
	for _, p := range c.Points() {
		if got := c.Interpolate(p.Years); got != p.Yield {
			t.Fatalf("exact tenor %v: got %v want %v", p.Years, got, p.Yield)
		}
	}
}

func TestInterpolateClamp(t *testing.T) {
	c := testCurve(t)

	for _, years := range []float64{0.0001, 0.1, 0.25} {
		if got := c.Interpolate(years); got != 0.0525 {
			t.Fatalf("below-range clamp at %v: got %v want 0.0525", years, got)
		}
	}
	for _, years := range []float64{10.0, 15, 30, 100} {
		if got := c.Interpolate(years); got != 0.041 {
			t.Fatalf("above-range clamp at %v: got %v want 0.041", years, got)
		}
	}
}

func TestInterpolateBetweenTenors(t *testing.T) {
	c := testCurve(t)

	// midpoint of (0.25, 5.25%) and (1.0, 4.80%) weighted at T=0.5
	require.InDelta(t, 0.051, c.Interpolate(0.5), 1e-12)
}

func TestInterpolateMonotonic(t *testing.T) {
	c, err := New([]TenorPoint{{Years: 1, Yield: 0.03}, {Years: 5, Yield: 0.05}})
	if err != nil {
		t.Fatalf("failed to build curve: %v", err)
	}

	prev := c.Interpolate(1)
	for years := 1.0; years <= 5.0; years += 0.05 {
		cur := c.Interpolate(years)
		if cur < prev {
			t.Fatalf("interpolation not monotonic at %v: %v < %v", years, cur, prev)
		}
		prev = cur
	}
}

func TestNewDuplicateMaturityLastWins(t *testing.T) {
	c, err := New([]TenorPoint{
		{Years: 1, Yield: 0.04},
		{Years: 5, Yield: 0.05},
		{Years: 1, Yield: 0.042}, // re-published node supersedes
	})
	if err != nil {
		t.Fatalf("failed to build curve: %v", err)
	}
	if got := c.Interpolate(1); got != 0.042 {
		t.Fatalf("duplicate maturity: got %v want 0.042", got)
	}
}

func TestNewInsufficientData(t *testing.T) {
	cases := [][]TenorPoint{
		nil,
		{{Years: 1, Yield: 0.05}},
		{{Years: 1, Yield: 0.05}, {Years: 1, Yield: 0.051}}, // dedup leaves one
	}
	for _, points := range cases {
		if _, err := New(points); !errors.Is(err, ErrInsufficientData) {
			t.Fatalf("expected ErrInsufficientData for %v, got %v", points, err)
		}
	}
}

func TestToContinuousRate(t *testing.T) {
	r, err := ToContinuousRate(0.05, Annual)
	require.NoError(t, err)
	require.InDelta(t, math.Log(1.05), r, 1e-12)
	require.InDelta(t, 0.04879016416943205, r, 1e-12)

	r, err = ToContinuousRate(0.05, Semiannual)
	require.NoError(t, err)
	require.InDelta(t, 2*math.Log(1.025), r, 1e-12)
	require.InDelta(t, 0.04938522518074283, r, 1e-12)
}

func TestToContinuousRateErrors(t *testing.T) {
	if _, err := ToContinuousRate(-0.9999991, Annual); !errors.Is(err, ErrInvalidYield) {
		t.Fatalf("expected ErrInvalidYield, got %v", err)
	}
	if _, err := ToContinuousRate(0.05, Compounding("quarterly")); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestFromTable(t *testing.T) {
	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d
	}

	rows := []Row{
		{Date: day("2026-08-25"), Yields: map[string]float64{"3 Mo": 5.30, "1 Yr": 4.90, "10 Yr": 4.20}},
		{Date: day("2026-08-26"), Yields: map[string]float64{"3 Mo": 5.25, "1 Yr": 4.80, "10 Yr": 4.10, "Bogus": 9.99}},
		{Date: day("2026-08-28"), Yields: map[string]float64{"3 Mo": 5.10, "1 Yr": 4.70, "10 Yr": 4.00}},
	}

	// latest row on or before the as-of date wins; percent becomes decimal
	c, err := FromTable(rows, day("2026-08-27"), DefaultTenors())
	require.NoError(t, err)
	require.InDelta(t, 0.0525, c.Interpolate(0.25), 1e-12)
	require.InDelta(t, 0.0410, c.Interpolate(10), 1e-12)

	// unrecognized labels and NaN cells are skipped
	rows[1].Yields["1 Yr"] = math.NaN()
	c, err = FromTable(rows[:2], day("2026-08-27"), DefaultTenors())
	require.NoError(t, err)
	require.Len(t, c.Points(), 2)
}

func TestFromTableTenorFallback(t *testing.T) {
	asof := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	// "6M" is not a Treasury table label; it resolves through the tenor
	// parser instead of being dropped
	rows := []Row{{
		Date:   asof,
		Yields: map[string]float64{"3 Mo": 5.0, "6M": 5.0, "1 Yr": 5.0},
	}}

	c, err := FromTable(rows, asof, DefaultTenors())
	require.NoError(t, err)
	require.Len(t, c.Points(), 3)
	require.InDelta(t, 0.05, c.Interpolate(0.5), 1e-12)
}

func TestFromTableNoData(t *testing.T) {
	rows := []Row{{Date: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), Yields: map[string]float64{"1 Yr": 4.7, "2 Yr": 4.4}}}
	if _, err := FromTable(rows, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), DefaultTenors()); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestTenorYears(t *testing.T) {
	cases := map[string]float64{
		"1 Mo":  1.0 / 12.0,
		"6 Mo":  0.5,
		"10 Yr": 10,
		"3M":    0.25,
		"2W":    14.0 / 365.0,
		"90D":   90.0 / 365.0,
		"5":     5,
		"junk":  0,
	}
	for label, want := range cases {
		require.InDelta(t, want, TenorYears(label), 1e-12, "label %q", label)
	}
}
