// Package report renders a quote result for humans and for pipelines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"

	"github.com/contactkeval/option-pricer/internal/quote"
)

// WriteTable renders the result as an aligned two-column summary.
func WriteTable(w io.Writer, res *quote.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetColumnSeparator("")

	table.Append([]string{"Ticker", res.Ticker})
	table.Append([]string{"As of", res.AsOf.Format("2006-01-02")})
	table.Append([]string{"Expiration", res.Expiration.Format("2006-01-02")})
	table.Append([]string{"Spot", fmt.Sprintf("%.2f", res.Spot)})
	table.Append([]string{"Strike", fmt.Sprintf("%.2f", res.Strike)})
	table.Append([]string{"T (years)", fmt.Sprintf("%.4f", res.Years)})
	table.Append([]string{"Risk-free rate", fmt.Sprintf("%.4f%%", res.Rate*100)})
	table.Append([]string{"Volatility", fmt.Sprintf("%.2f%%", res.Volatility*100)})
	table.Append([]string{"Call", fmt.Sprintf("%.4f", res.Call)})
	table.Append([]string{"Put", fmt.Sprintf("%.4f", res.Put)})
	table.Append([]string{"Vega", fmt.Sprintf("%.4f", res.Vega)})

	if res.MarketCall > 0 {
		table.Append([]string{"Market call mid", fmt.Sprintf("%.4f", res.MarketCall)})
	}
	if res.MarketPut > 0 {
		table.Append([]string{"Market put mid", fmt.Sprintf("%.4f", res.MarketPut)})
	}

	table.Render()
}

// WriteJSON writes the result as indented JSON to w.
func WriteJSON(w io.Writer, res *quote.Result) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// SaveJSON writes the result to <outdir>/quote.json.
func SaveJSON(res *quote.Result, outdir string) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "quote.json"), b, 0644)
}
