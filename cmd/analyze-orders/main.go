package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cardlotlabs/lotsales_backend/models"
	"github.com/cardlotlabs/lotsales_backend/models/reports"
)

// Offline analysis: reads an order spreadsheet and prints the report using
// the built-in default cost table. No server, no database.
func main() {
	path := flag.String("file", "", "Path to the .xlsx order export to analyze.")
	paidStart := flag.String("paid-start", "", "Optional: paid-window start (YYYY-MM-DD).")
	paidEnd := flag.String("paid-end", "", "Optional: paid-window end (YYYY-MM-DD).")
	payoutStart := flag.String("payout-start", "", "Optional: payout-window start (YYYY-MM-DD).")
	payoutEnd := flag.String("payout-end", "", "Optional: payout-window end (YYYY-MM-DD).")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze-orders -file orders.xlsx")
		os.Exit(2)
	}

	f, err := os.Open(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open %s: %v\n", *path, err)
		os.Exit(1)
	}
	defer f.Close()

	raw, err := models.ReadOrderSheet(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read spreadsheet: %v\n", err)
		os.Exit(1)
	}
	rows := models.BuildRows(raw)
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "no data rows in sheet")
		return
	}

	pricing := models.NewPricingContext()
	ps, pe := parseDay(*paidStart), parseDay(*paidEnd)
	ys, ye := parseDay(*payoutStart), parseDay(*payoutEnd)

	paidRows := models.FilterByRange(rows, models.DatePaid, ps, pe)
	payoutRows := models.FilterByRange(rows, models.DatePayout, ys, ye)
	combined := models.FilterByRange(paidRows, models.DatePayout, ys, ye)

	in := reports.Input{
		AllRows:      rows,
		PaidRows:     paidRows,
		PayoutRows:   payoutRows,
		CombinedRows: combined,
		Pricing:      pricing,
		TopGroups: models.TopNByGroup(payoutRows, func(r *models.Row) decimal.Decimal {
			return r.PayoutCny
		}, 10),
	}

	fmt.Print(reports.BuildAnalysisReport(in).Text())
}

func parseDay(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid date %q (want YYYY-MM-DD)\n", s)
		os.Exit(2)
	}
	return &t
}
