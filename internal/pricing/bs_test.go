package pricing

import (
	"errors"
	"math"
	"testing"
)

// Classic reference case: S=100, K=100, r=5%, sigma=20%, T=1y.
func TestPriceReferenceCase(t *testing.T) {
	call, put, err := Price(Inputs{S: 100, K: 100, T: 1, R: 0.05, Sigma: 0.20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(call-10.450583572185565) > 1e-9 {
		t.Fatalf("call price mismatch: got %v", call)
	}
	if math.Abs(put-5.573526022256971) > 1e-9 {
		t.Fatalf("put price mismatch: got %v", put)
	}
}

// Put-call parity: C - P = S - K*e^{-rT} must hold for any valid inputs.
func TestPricePutCallParity(t *testing.T) {
	cases := []Inputs{
		{S: 100, K: 100, T: 1, R: 0.05, Sigma: 0.20},
		{S: 150.55, K: 145, T: 45.0 / 365.0, R: 0.03, Sigma: 0.25},
		{S: 42, K: 80, T: 2.5, R: 0.01, Sigma: 0.6},
		{S: 3100, K: 2900, T: 0.08, R: 0.049, Sigma: 0.18},
	}

	for _, in := range cases {
		call, put, err := Price(in)
		if err != nil {
			t.Fatalf("unexpected error for %+v: %v", in, err)
		}

		lhs := call - put
		rhs := in.S - in.K*math.Exp(-in.R*in.T)
		if math.Abs(lhs-rhs) > 1e-9 {
			t.Fatalf("parity violated for %+v: LHS=%v RHS=%v", in, lhs, rhs)
		}
	}
}

// ATM with no drift: as T approaches zero both prices collapse to zero.
func TestPriceNearExpiryATM(t *testing.T) {
	for _, T := range []float64{1e-4, 1e-6, 1e-9} {
		call, put, err := Price(Inputs{S: 100, K: 100, T: T, R: 0, Sigma: 0.20})
		if err != nil {
			t.Fatalf("unexpected error at T=%v: %v", T, err)
		}
		if call > 1.0 || put > 1.0 {
			t.Fatalf("prices did not collapse at T=%v: call=%v put=%v", T, call, put)
		}
		if call < 0 || put < 0 {
			t.Fatalf("negative price at T=%v: call=%v put=%v", T, call, put)
		}
	}
}

func TestPriceFinite(t *testing.T) {
	call, put, err := Price(Inputs{S: 500, K: 5, T: 10, R: 0.08, Sigma: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.IsNaN(call) || math.IsInf(call, 0) || math.IsNaN(put) || math.IsInf(put, 0) {
		t.Fatalf("non-finite output: call=%v put=%v", call, put)
	}
}

// Degenerate inputs fail fast instead of propagating NaN.
func TestPriceInvalidInputs(t *testing.T) {
	bad := []Inputs{
		{S: 0, K: 100, T: 1, R: 0.05, Sigma: 0.2},
		{S: 100, K: 0, T: 1, R: 0.05, Sigma: 0.2},
		{S: 100, K: 100, T: 0, R: 0.05, Sigma: 0.2},
		{S: 100, K: 100, T: -1, R: 0.05, Sigma: 0.2},
		{S: 100, K: 100, T: 1, R: 0.05, Sigma: 0},
		{S: 100, K: 100, T: 1, R: 0.05, Sigma: -0.2},
		// NaN compares false against everything, so these need their own
		// rejection rather than falling through the sign checks
		{S: math.NaN(), K: 100, T: 1, R: 0.05, Sigma: 0.2},
		{S: 100, K: 100, T: 1, R: math.NaN(), Sigma: 0.2},
		{S: 100, K: 100, T: 1, R: 0.05, Sigma: math.NaN()},
		{S: 100, K: 100, T: math.Inf(1), R: 0.05, Sigma: 0.2},
	}

	for _, in := range bad {
		call, put, err := Price(in)
		if !errors.Is(err, ErrInvalidInputs) {
			t.Fatalf("expected ErrInvalidInputs for %+v, got call=%v put=%v err=%v", in, call, put, err)
		}
	}
}

func TestVega(t *testing.T) {
	in := Inputs{S: 100, K: 100, T: 1, R: 0.05, Sigma: 0.20}

	// Finite-difference check against the analytic vega.
	eps := 1e-5
	up, _, err := Price(Inputs{S: in.S, K: in.K, T: in.T, R: in.R, Sigma: in.Sigma + eps})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	down, _, err := Price(Inputs{S: in.S, K: in.K, T: in.T, R: in.R, Sigma: in.Sigma - eps})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	numeric := (up - down) / (2 * eps)
	if math.Abs(Vega(in)-numeric) > 1e-4 {
		t.Fatalf("vega mismatch: analytic=%v numeric=%v", Vega(in), numeric)
	}

	if Vega(Inputs{S: 100, K: 100, T: 0, R: 0, Sigma: 0.2}) != 0 {
		t.Fatalf("expected zero vega for degenerate inputs")
	}
}
