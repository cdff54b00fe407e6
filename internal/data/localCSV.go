package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/contactkeval/option-pricer/internal/logger"
	"github.com/contactkeval/option-pricer/internal/ratecurve"
)

// localFileDataProvider implements Data Provider from local CSV files.
//
// Expected layout under dir:
//
//	<TICKER>_bars.csv         date,open,high,low,close,volume
//	<TICKER>_expirations.csv  date
//	<TICKER>_strikes.csv      expiry,strike
//	treasury_<YEAR>.csv       Treasury daily yield curve CSV as published
type localFileDataProvider struct {
	dir       string
	secondary Provider
}

// NewLocalFileDataProvider convenience constructor.
func NewLocalFileDataProvider(dir string, secondary Provider) *localFileDataProvider {
	return &localFileDataProvider{dir: dir, secondary: secondary}
}

func (localFileDataProv *localFileDataProvider) Secondary() Provider {
	return localFileDataProv.secondary
}

func (localFileDataProv *localFileDataProvider) GetDailyBars(underlying string, fromDate, toDate time.Time) ([]Bar, error) {
	records, err := localFileDataProv.readCSV(strings.ToUpper(underlying) + "_bars.csv")
	if err != nil {
		if localFileDataProv.secondary != nil {
			return localFileDataProv.secondary.GetDailyBars(underlying, fromDate, toDate)
		}
		return nil, err
	}

	var out []Bar
	for _, row := range records {
		if len(row) < 6 {
			continue
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(row[0]))
		if err != nil {
			continue
		}
		if date.Before(fromDate) || date.After(toDate) {
			continue
		}

		open, err1 := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		high, err2 := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		low, err3 := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		close, err4 := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
		vol, err5 := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			continue
		}

		out = append(out, Bar{Date: date, Open: open, High: high, Low: low, Close: close, Vol: vol})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (localFileDataProv *localFileDataProvider) GetSpotPrice(underlying string, asOf time.Time) (float64, error) {
	bars, err := localFileDataProv.GetDailyBars(underlying, asOf.AddDate(0, 0, -7), asOf)
	if err == nil && len(bars) > 0 {
		return bars[len(bars)-1].Close, nil
	}
	if localFileDataProv.secondary != nil {
		return localFileDataProv.secondary.GetSpotPrice(underlying, asOf)
	}
	return 0, fmt.Errorf("no local bars for %s on or before %s", underlying, asOf.Format("2006-01-02"))
}

func (localFileDataProv *localFileDataProvider) GetExpirations(underlying string, fromDate, toDate time.Time) ([]time.Time, error) {
	records, err := localFileDataProv.readCSV(strings.ToUpper(underlying) + "_expirations.csv")
	if err != nil {
		if localFileDataProv.secondary != nil {
			return localFileDataProv.secondary.GetExpirations(underlying, fromDate, toDate)
		}
		return nil, err
	}

	var out []time.Time
	for _, row := range records {
		if len(row) < 1 {
			continue
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(row[0]))
		if err != nil {
			continue
		}
		if date.Before(fromDate) || date.After(toDate) {
			continue
		}
		out = append(out, date)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func (localFileDataProv *localFileDataProvider) GetStrikes(underlying string, expiryDate time.Time) ([]float64, error) {
	records, err := localFileDataProv.readCSV(strings.ToUpper(underlying) + "_strikes.csv")
	if err != nil {
		if localFileDataProv.secondary != nil {
			return localFileDataProv.secondary.GetStrikes(underlying, expiryDate)
		}
		return nil, err
	}

	expKey := expiryDate.Format("2006-01-02")
	var out []float64
	for _, row := range records {
		if len(row) < 2 {
			continue
		}
		if strings.TrimSpace(row[0]) != expKey {
			continue
		}
		strike, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			continue
		}
		out = append(out, strike)
	}

	sort.Float64s(out)
	return out, nil
}

func (localFileDataProv *localFileDataProvider) GetOptionMidPrice(underlying string, strike float64, expiryDate time.Time, optType string) (float64, error) {
	if localFileDataProv.secondary != nil {
		return localFileDataProv.secondary.GetOptionMidPrice(underlying, strike, expiryDate, optType)
	}
	return 0, fmt.Errorf("GetOptionMidPrice not implemented for localFileDataProvider")
}

func (localFileDataProv *localFileDataProvider) GetTreasuryYields(year int) ([]ratecurve.Row, error) {
	f, err := os.Open(filepath.Join(localFileDataProv.dir, fmt.Sprintf("treasury_%d.csv", year)))
	if err != nil {
		if localFileDataProv.secondary != nil {
			return localFileDataProv.secondary.GetTreasuryYields(year)
		}
		return nil, fmt.Errorf("open treasury file: %w", err)
	}
	defer f.Close()

	return ParseTreasuryCSV(f)
}

// readCSV loads one file from the data directory.
func (localFileDataProv *localFileDataProvider) readCSV(name string) ([][]string, error) {
	f, err := os.Open(filepath.Join(localFileDataProv.dir, name))
	if err != nil {
		logger.Tracef("open local file: %v", err)
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		logger.Errorf("read csv %s: %v", name, err)
		return nil, err
	}
	return records, nil
}
