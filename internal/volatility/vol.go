// Package volatility estimates annualized volatility from a historical
// closing-price series.
package volatility

import (
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// DefaultTradingDays is the annualization factor for US equity sessions.
const DefaultTradingDays = 252

// ErrInsufficientData indicates too few usable prices to form a return
// sample.
var ErrInsufficientData = errors.New("volatility: need at least 2 usable log returns")

// Annualized computes annualized volatility from a chronological series of
// closing prices.
//
// Daily log returns ln(P[i]/P[i-1]) are taken over consecutive pairs;
// returns that come out NaN (a missing or non-positive price in the feed)
// are dropped. The sample standard deviation of the remaining returns is
// scaled by sqrt(tradingDays); pass DefaultTradingDays for daily closes.
// Equal-weighted, no outlier filtering.
//
// Fails with ErrInsufficientData when fewer than two usable returns remain:
// the sample standard deviation of a single return is undefined, so that
// case is an error here rather than a NaN handed downstream.
func Annualized(closes []float64, tradingDays int) (float64, error) {
	rets := make([]float64, 0, len(closes))
	for i := 1; i < len(closes); i++ {
		r := math.Log(closes[i] / closes[i-1])
		if math.IsNaN(r) {
			continue
		}
		rets = append(rets, r)
	}

	if len(rets) < 2 {
		return 0, fmt.Errorf("%w: have %d usable returns from %d closes",
			ErrInsufficientData, len(rets), len(closes))
	}

	sd, err := stats.StandardDeviationSample(rets)
	if err != nil {
		return 0, fmt.Errorf("volatility: sample stddev: %w", err)
	}

	return sd * math.Sqrt(float64(tradingDays)), nil
}
