package pricing

import (
	"errors"
	"math"
)

const sqrt2Pi = 2.5066282746310002

// ErrInvalidInputs indicates pricing inputs outside the model's domain
// (non-positive spot, strike, expiry, or volatility).
var ErrInvalidInputs = errors.New("pricing: invalid inputs")

// Inputs holds the five scalars of the Black-Scholes closed form.
//
//   - S: spot price of the underlying asset
//   - K: strike price of the option
//   - T: time to expiry in years
//   - R: continuously-compounded risk-free rate (annual, as a decimal)
//   - Sigma: volatility of the underlying asset (annual, as a decimal)
type Inputs struct {
	S     float64
	K     float64
	T     float64
	R     float64
	Sigma float64
}

// Validate reports whether the inputs are inside the model's domain.
// The formula divides by Sigma·√T, so zero volatility or zero expiry is
// rejected here rather than allowed to produce NaN/Inf downstream. NaN and
// infinite inputs are rejected too: comparisons against NaN are always
// false, so the sign checks alone would wave them through.
func (in Inputs) Validate() error {
	for _, v := range []float64{in.S, in.K, in.T, in.R, in.Sigma} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidInputs
		}
	}
	if in.S <= 0 || in.K <= 0 || in.T <= 0 || in.Sigma <= 0 {
		return ErrInvalidInputs
	}
	return nil
}

// Price calculates the prices of a European call and put using the
// Black-Scholes model.
//
//	d1 = (ln(S/K) + (r + σ²/2)·T) / (σ·√T)
//	d2 = d1 − σ·√T
//	call = S·Φ(d1) − K·e^(−rT)·Φ(d2)
//	put  = K·e^(−rT)·Φ(−d2) − S·Φ(−d1)
//
// Both prices are derived from one d1/d2 evaluation so that the call and
// put of the same contract never diverge by independent rounding.
//
// Returns ErrInvalidInputs for inputs outside the model's domain. For valid
// inputs both prices are finite; no flooring or normalization is applied —
// a deep out-of-the-money price may be numerically tiny.
func Price(in Inputs) (call, put float64, err error) {
	if err := in.Validate(); err != nil {
		return 0, 0, err
	}

	sqrtT := math.Sqrt(in.T)
	d1 := (math.Log(in.S/in.K) + (in.R+0.5*in.Sigma*in.Sigma)*in.T) / (in.Sigma * sqrtT)
	d2 := d1 - in.Sigma*sqrtT

	disc := in.K * math.Exp(-in.R*in.T)
	call = in.S*normCDF(d1) - disc*normCDF(d2)
	put = disc*normCDF(-d2) - in.S*normCDF(-d1)
	return call, put, nil
}

// Vega calculates the sensitivity of the option price to a change in
// volatility. Same vega for the call and the put.
// Returns 0 for inputs outside the model's domain.
func Vega(in Inputs) float64 {
	if in.Validate() != nil {
		return 0
	}

	sqrtT := math.Sqrt(in.T)
	d1 := (math.Log(in.S/in.K) + (in.R+0.5*in.Sigma*in.Sigma)*in.T) / (in.Sigma * sqrtT)
	return in.S * normPDF(d1) * sqrtT
}

// normPDF calculates the probability density function of the standard
// normal distribution: exp(-0.5·x²) / sqrt(2π)
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / sqrt2Pi
}

// normCDF computes the cumulative distribution function of the standard
// normal distribution for a given value x using the error function.
func normCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}
