package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/contactkeval/option-pricer/internal/quote"
	"github.com/contactkeval/option-pricer/internal/testutil"
)

func testResult() *quote.Result {
	return &quote.Result{
		Ticker:     "AAPL",
		AsOf:       time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Expiration: time.Date(2026, 6, 19, 0, 0, 0, 0, time.UTC),
		Spot:       98,
		Strike:     100,
		Years:      0.25,
		Rate:       0.05,
		Volatility: 0.2,
		Call:       5.5,
		Put:        4.25,
		Vega:       19.25,
	}
}

func TestWriteJSONGolden(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, testResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.CompareBytesWithGolden(t, "quote_json", buf.Bytes())
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, testResult())

	out := buf.String()
	for _, want := range []string{"AAPL", "2026-06-19", "98.00", "100.00", "5.5000", "4.2500", "19.2500", "20.00%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}

	// market rows only appear when the provider had mids
	if strings.Contains(out, "Market call") {
		t.Fatalf("unexpected market row in output:\n%s", out)
	}
}
