// Package chain maps a desired time horizon and moneyness rule onto real
// listed option contracts: the closest expiration to a target date, and a
// strike from the ladder under a named rule.
package chain

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

var (
	// ErrNoExpirations indicates an empty expiration set.
	ErrNoExpirations = errors.New("chain: no option expirations available")

	// ErrNoStrikes indicates an empty strike ladder.
	ErrNoStrikes = errors.New("chain: no strikes available")

	// ErrInvalidParameter indicates an unknown strike rule or an
	// out-of-domain pct.
	ErrInvalidParameter = errors.New("chain: invalid parameter")
)

// StrikeRule names the strike selection policy for a call option.
type StrikeRule string

const (
	ATM    StrikeRule = "ATM"     // strike closest to spot
	OTMPct StrikeRule = "OTM_PCT" // out of the money by pct: nearest strike >= spot*(1+pct)
	ITMPct StrikeRule = "ITM_PCT" // in the money by pct: nearest strike <= spot*(1-pct)
)

// ChooseExpiration maps a target time horizon onto the nearest listed
// expiration.
//
// The target date is today plus round(targetYears*365) calendar days. The
// result is the expiration minimizing absolute day distance to the target;
// candidates are sorted ascending first, so a tie resolves deterministically
// to the earlier date regardless of input order. Fails with
// ErrNoExpirations on an empty set.
func ChooseExpiration(today time.Time, targetYears float64, expirations []time.Time) (time.Time, error) {
	if len(expirations) == 0 {
		return time.Time{}, ErrNoExpirations
	}

	target := today.AddDate(0, 0, int(math.Round(targetYears*365)))

	sorted := make([]time.Time, len(expirations))
	copy(sorted, expirations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	best := sorted[0]
	bestDist := absDays(best, target)
	for _, e := range sorted[1:] {
		if d := absDays(e, target); d < bestDist {
			best, bestDist = e, d
		}
	}
	return best, nil
}

// ChooseStrike picks a strike from the ladder for a call option.
//
//   - ATM: strike closest to spot, lower strike on an exact tie.
//   - OTMPct: smallest strike >= spot*(1+pct); clamps to the largest
//     strike when the ladder tops out below the target.
//   - ITMPct: largest strike <= spot*(1-pct); clamps to the smallest
//     strike when the ladder bottoms out above the target.
//
// The pct rules require pct > 0. Fails with ErrNoStrikes on an empty
// ladder and ErrInvalidParameter for a bad pct or unknown rule.
func ChooseStrike(strikes []float64, spot float64, rule StrikeRule, pct float64) (float64, error) {
	if len(strikes) == 0 {
		return 0, ErrNoStrikes
	}

	sorted := make([]float64, len(strikes))
	copy(sorted, strikes)
	sort.Float64s(sorted)

	switch rule {
	case ATM:
		return closest(sorted, spot), nil

	case OTMPct:
		if pct <= 0 {
			return 0, fmt.Errorf("%w: pct must be > 0 for %s, got %g", ErrInvalidParameter, rule, pct)
		}
		target := spot * (1.0 + pct)
		i := sort.SearchFloat64s(sorted, target)
		if i == len(sorted) {
			return sorted[len(sorted)-1], nil // clamp
		}
		return sorted[i], nil

	case ITMPct:
		if pct <= 0 {
			return 0, fmt.Errorf("%w: pct must be > 0 for %s, got %g", ErrInvalidParameter, rule, pct)
		}
		target := spot * (1.0 - pct)
		// first strike strictly greater than target; the one before it is
		// the largest <= target
		i := sort.Search(len(sorted), func(i int) bool { return sorted[i] > target })
		if i == 0 {
			return sorted[0], nil // clamp
		}
		return sorted[i-1], nil

	default:
		return 0, fmt.Errorf("%w: unknown strike rule %q", ErrInvalidParameter, rule)
	}
}

// closest finds the closest value in a sorted slice to the target using
// binary search. Prefers the lower value on an exact tie.
func closest(sorted []float64, target float64) float64 {
	n := len(sorted)

	i := sort.Search(n, func(i int) bool {
		return sorted[i] >= target
	})

	if i == 0 {
		return sorted[0]
	}
	if i == n {
		return sorted[n-1]
	}

	before := sorted[i-1]
	after := sorted[i]

	if math.Abs(before-target) <= math.Abs(after-target) {
		return before
	}
	return after
}

func absDays(a, b time.Time) int {
	d := int(a.Sub(b).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}
