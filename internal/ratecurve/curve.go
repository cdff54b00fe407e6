// Package ratecurve derives a Black-Scholes risk-free rate from a discrete
// set of Treasury tenor points.
//
// A Curve is built once per pricing request from an as-of snapshot of the
// Treasury table and is not mutated afterwards. Interpolation is linear in
// maturity space with flat extrapolation beyond both ends of the curve —
// requests below the shortest tenor or above the longest return the
// boundary yield unchanged.
package ratecurve

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrInsufficientData indicates fewer than two usable tenor points.
	ErrInsufficientData = errors.New("ratecurve: not enough tenor points to interpolate")

	// ErrInvalidYield indicates a yield outside the domain of the
	// log-based rate conversion.
	ErrInvalidYield = errors.New("ratecurve: yield too low to convert safely")

	// ErrInvalidParameter indicates an unrecognized compounding assumption.
	ErrInvalidParameter = errors.New("ratecurve: invalid parameter")
)

// Compounding names the coupon convention assumed when converting a nominal
// yield to a continuously-compounded rate.
type Compounding string

const (
	Annual     Compounding = "annual"     // one coupon per year
	Semiannual Compounding = "semiannual" // Treasury-note style, two per year
)

// TenorPoint is one node of a yield curve: a maturity in years and the
// nominal yield observed at that maturity, as a decimal (0.05 for 5%).
type TenorPoint struct {
	Years float64
	Yield float64
}

// Curve holds tenor points sorted ascending by maturity.
type Curve struct {
	points []TenorPoint
}

// New builds a Curve from the given points.
//
// Points are sorted ascending by maturity. Duplicate maturities resolve
// last-wins in input order, so a re-published tenor supersedes the earlier
// value. Fails with ErrInsufficientData when fewer than two distinct
// maturities remain.
func New(points []TenorPoint) (*Curve, error) {
	// last-wins dedup keyed on maturity
	byYears := make(map[float64]float64, len(points))
	for _, p := range points {
		byYears[p.Years] = p.Yield
	}

	out := make([]TenorPoint, 0, len(byYears))
	for years, yield := range byYears {
		out = append(out, TenorPoint{Years: years, Yield: yield})
	}

	if len(out) < 2 {
		return nil, fmt.Errorf("%w: have %d, need 2", ErrInsufficientData, len(out))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Years < out[j].Years })
	return &Curve{points: out}, nil
}

// Points returns a copy of the curve's nodes, ascending by maturity.
func (c *Curve) Points() []TenorPoint {
	out := make([]TenorPoint, len(c.points))
	copy(out, c.points)
	return out
}

// Interpolate returns the nominal yield (decimal) for an arbitrary maturity.
//
// Maturities at or below the shortest tenor clamp to its yield; at or above
// the longest tenor clamp to that yield. Strictly between two adjacent
// tenors the yield is linear in maturity. An exact tenor hit returns that
// tenor's yield without interpolation error.
func (c *Curve) Interpolate(years float64) float64 {
	pts := c.points

	if years <= pts[0].Years {
		return pts[0].Yield
	}
	if years >= pts[len(pts)-1].Years {
		return pts[len(pts)-1].Yield
	}

	for i := 0; i < len(pts)-1; i++ {
		t0, t1 := pts[i], pts[i+1]
		if years >= t0.Years && years <= t1.Years {
			w := (years - t0.Years) / (t1.Years - t0.Years)
			return t0.Yield + w*(t1.Yield-t0.Yield)
		}
	}

	// unreachable: the clamps above bound years inside the node range
	return pts[len(pts)-1].Yield
}

// ContinuousRate interpolates the yield at the given maturity and converts
// it to a continuously-compounded rate under the compounding assumption.
func (c *Curve) ContinuousRate(years float64, comp Compounding) (float64, error) {
	return ToContinuousRate(c.Interpolate(years), comp)
}

// ToContinuousRate converts a nominal decimal yield y to a
// continuously-compounded rate.
//
//	annual:     r = ln(1 + y)
//	semiannual: r = 2·ln(1 + y/2)
//
// Fails with ErrInvalidYield when y < -0.999999 (the logarithm would be
// undefined or unstable) and ErrInvalidParameter for an unrecognized
// compounding name.
func ToContinuousRate(y float64, comp Compounding) (float64, error) {
	if y < -0.999999 {
		return 0, fmt.Errorf("%w: y=%g", ErrInvalidYield, y)
	}

	switch comp {
	case Annual:
		return math.Log(1.0 + y), nil
	case Semiannual:
		return 2.0 * math.Log(1.0+y/2.0), nil
	default:
		return 0, fmt.Errorf("%w: compounding %q must be %q or %q",
			ErrInvalidParameter, comp, Annual, Semiannual)
	}
}
