package chain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

func TestChooseExpiration(t *testing.T) {
	today := day(t, "2024-01-01")

	// T=0.5y puts the target at 2024-07-02 (183 days): the June monthly is
	// 11 days away, the July monthly 17.
	expirations := []time.Time{day(t, "2024-07-19"), day(t, "2024-06-21")}

	got, err := ChooseExpiration(today, 0.5, expirations)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(day(t, "2024-06-21")) {
		t.Fatalf("expected 2024-06-21, got %s", got.Format("2006-01-02"))
	}
}

func TestChooseExpirationTieBreaksEarlier(t *testing.T) {
	today := day(t, "2024-01-01")

	// target = 2024-01-11; both candidates are 2 days away
	expirations := []time.Time{day(t, "2024-01-13"), day(t, "2024-01-09")}

	for i := 0; i < 2; i++ {
		got, err := ChooseExpiration(today, 10.0/365.0, expirations)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Equal(day(t, "2024-01-09")) {
			t.Fatalf("tie did not resolve to earlier date, got %s", got.Format("2006-01-02"))
		}
		// input order must not matter
		expirations[0], expirations[1] = expirations[1], expirations[0]
	}
}

func TestChooseExpirationEmpty(t *testing.T) {
	if _, err := ChooseExpiration(time.Now(), 0.5, nil); !errors.Is(err, ErrNoExpirations) {
		t.Fatalf("expected ErrNoExpirations, got %v", err)
	}
}

func TestChooseStrike(t *testing.T) {
	strikes := []float64{90, 95, 100, 105, 110}

	cases := []struct {
		name string
		spot float64
		rule StrikeRule
		pct  float64
		want float64
	}{
		{"atm exact", 100, ATM, 0, 100},
		{"atm nearest", 101.2, ATM, 0, 100},
		{"atm tie lower", 102.5, ATM, 0, 100},
		{"otm", 100, OTMPct, 0.05, 105},
		{"otm between", 100, OTMPct, 0.03, 105},
		{"otm clamp", 100, OTMPct, 0.50, 110},
		{"itm", 100, ITMPct, 0.05, 95},
		{"itm between", 100, ITMPct, 0.03, 95},
		{"itm clamp", 100, ITMPct, 0.12, 90},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ChooseStrike(strikes, tc.spot, tc.rule, tc.pct)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestChooseStrikeUnsortedInput(t *testing.T) {
	got, err := ChooseStrike([]float64{110, 90, 105, 100, 95}, 100, ATM, 0)
	require.NoError(t, err)
	require.Equal(t, 100.0, got)
}

func TestChooseStrikeErrors(t *testing.T) {
	if _, err := ChooseStrike(nil, 100, ATM, 0); !errors.Is(err, ErrNoStrikes) {
		t.Fatalf("expected ErrNoStrikes, got %v", err)
	}
	if _, err := ChooseStrike([]float64{100}, 100, OTMPct, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter for pct=0, got %v", err)
	}
	if _, err := ChooseStrike([]float64{100}, 100, ITMPct, -0.05); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter for negative pct, got %v", err)
	}
	if _, err := ChooseStrike([]float64{100}, 100, StrikeRule("DELTA"), 0.3); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter for unknown rule, got %v", err)
	}
}
