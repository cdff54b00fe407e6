package data

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/contactkeval/option-pricer/internal/ratecurve"
)

// Provider supplies the raw market data a quote is built from: price
// history, spot, the listed option chain, and the Treasury yield table.
type Provider interface {
	Secondary() Provider
	GetDailyBars(underlying string, fromDate, toDate time.Time) ([]Bar, error)
	GetSpotPrice(underlying string, asOf time.Time) (float64, error)
	GetExpirations(underlying string, fromDate, toDate time.Time) ([]time.Time, error)
	GetStrikes(underlying string, expiryDate time.Time) ([]float64, error)
	GetOptionMidPrice(underlying string, strike float64, expiryDate time.Time, optType string) (float64, error)
	GetTreasuryYields(year int) ([]ratecurve.Row, error)
}

// Bar simplified OHLC
type Bar struct {
	Date  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
	Vol   float64
}

// GetLocalFileDataProvider returns a CSV-directory provider with a Massive
// provider chained as secondary when an API key is configured.
func GetLocalFileDataProvider(dir string) Provider {
	var secondary Provider
	if apiKey := os.Getenv("POLYGON_API_KEY"); apiKey != "" {
		secondary = NewMassiveDataProvider(apiKey)
	}
	return NewLocalFileDataProvider(dir, secondary)
}

func GetMassiveDataProvider() Provider {
	return NewMassiveDataProvider(os.Getenv("POLYGON_API_KEY"))
}

// --------------------------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------------------------

// OptionSymbolFromParts: improved OCC-like formatter (best-effort)
func OptionSymbolFromParts(underlying string, expiryDate time.Time, optionType string, strike float64) string {
	// OCC: <root><YYMMDD><C|P><strike*1000 padded to 8 digits>
	expDt := expiryDate.UTC().Format("060102")
	optType := "C"
	if strings.ToLower(optionType) == "put" || strings.ToLower(optionType) == "p" {
		optType = "P"
	}
	strikeInt := int(math.Round(strike * 1000))
	strFmt := fmt.Sprintf("%08d", strikeInt)
	return fmt.Sprintf("O:%s%s%s%s", strings.ToUpper(underlying), expDt, optType, strFmt)
}

// Closes extracts the closing prices of a bar series in order.
func Closes(bars []Bar) []float64 {
	out := make([]float64, 0, len(bars))
	for _, b := range bars {
		out = append(out, b.Close)
	}
	return out
}
