// Package report lays batch evaluation results out for spreadsheet
// and downstream consumption. The core is agnostic to output format;
// these sinks are the only place numbers get rounded for display.
package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/contactkeval/option-quant/internal/batch"
)

// WriteJSON writes the full result rows to results.json in outdir.
func WriteJSON(rows []batch.Row, outdir string) error {
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "results.json"), b, 0644)
}

// csvHeaders is the stable column order of results.csv.
var csvHeaders = []string{
	"option_type", "spot", "strike", "time_to_expiry", "risk_free_rate",
	"market_price", "price", "implied_vol", "iv_converged", "iv_iterations",
	"delta", "gamma", "vega", "theta", "rho", "error",
}

// WriteCSV writes one row per quote to results.csv in outdir. Numeric
// columns are rounded to six decimal places through decimal so the
// output is free of float formatting artifacts.
func WriteCSV(rows []batch.Row, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, "results.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeaders); err != nil {
		return err
	}

	for _, row := range rows {
		iv, converged, iters := "", "", ""
		if row.IV != nil {
			iv = cell(row.IV.ImpliedVol)
			if row.IV.Converged {
				converged = "true"
			} else {
				converged = "false"
			}
			iters = decimal.NewFromInt(int64(row.IV.Iterations)).String()
		}
		g := row.Greeks.ForType(row.Quote.Type)
		rec := []string{
			string(row.Quote.Type),
			cell(row.Quote.Spot),
			cell(row.Quote.Strike),
			cell(row.Quote.TimeToExpiry),
			cell(row.Quote.Rate),
			cell(row.Quote.MarketPrice),
			cell(row.Price.Price),
			iv,
			converged,
			iters,
			cell(g.Delta),
			cell(g.Gamma),
			cell(g.Vega),
			cell(g.Theta),
			cell(g.Rho),
			row.Err,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func cell(v float64) string {
	return decimal.NewFromFloat(v).Round(6).String()
}
