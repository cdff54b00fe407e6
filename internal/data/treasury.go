package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/contactkeval/option-pricer/internal/logger"
	"github.com/contactkeval/option-pricer/internal/ratecurve"
)

// treasuryCSVURL is the CSV download of the Daily Treasury Par Yield Curve
// table for one calendar year. Public, no API key.
const treasuryCSVURL = "https://home.treasury.gov/resource-center/data-chart-center/interest-rates/daily-treasury-rates.csv/%d/all?type=daily_treasury_yield_curve&field_tdr_date_value=%d&_format=csv"

// FetchTreasuryYields downloads and parses the Treasury yield table for the
// given year. Rows come back in table order; yields stay in percent units
// as published (ratecurve.FromTable converts to decimals).
func FetchTreasuryYields(client *http.Client, year int) ([]ratecurve.Row, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	url := fmt.Sprintf(treasuryCSVURL, year, year)
	logger.Debugf("treasury table request URL: %s", url)

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch treasury table: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("treasury table status %d", resp.StatusCode)
	}

	rows, err := ParseTreasuryCSV(resp.Body)
	if err != nil {
		return nil, err
	}

	logger.Infof("treasury table for %d: %d rows", year, len(rows))
	return rows, nil
}

// ParseTreasuryCSV parses the Treasury daily yield curve CSV.
//
// The first row is a header of tenor labels keyed by a "Date" column; dates
// are published as MM/DD/YYYY. Cells that are empty or "N/A" are omitted
// from the row's yield map, and rows with an unparsable date are skipped.
func ParseTreasuryCSV(r io.Reader) ([]ratecurve.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // the table occasionally gains or loses tenors

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read treasury csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("treasury csv has no data rows")
	}

	header := records[0]
	dateCol := -1
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), "date") {
			dateCol = i
			break
		}
	}
	if dateCol < 0 {
		return nil, fmt.Errorf("treasury csv has no Date column")
	}

	out := make([]ratecurve.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if dateCol >= len(rec) {
			continue
		}

		date, err := time.Parse("01/02/2006", strings.TrimSpace(rec[dateCol]))
		if err != nil {
			continue // skip malformed dates
		}

		yields := make(map[string]float64, len(header)-1)
		for i, cell := range rec {
			if i == dateCol || i >= len(header) {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell == "" || strings.EqualFold(cell, "N/A") {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				continue
			}
			yields[strings.TrimSpace(header[i])] = v
		}

		out = append(out, ratecurve.Row{Date: date, Yields: yields})
	}

	return out, nil
}
