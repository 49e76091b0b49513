package reports

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cardlotlabs/lotsales_backend/models"
)

// Input carries everything the synthesizer consumes. All fields are computed
// upstream; building a report never touches storage or package state.
type Input struct {
	// AllRows is the full ingested batch, unfiltered.
	AllRows []models.Row
	// PaidRows is windowed on the paid axis only (GMV ledger).
	PaidRows []models.Row
	// PayoutRows is windowed on the payout axis only (payout/profit ledger).
	PayoutRows []models.Row
	// CombinedRows intersects both windows (the record-list view).
	CombinedRows []models.Row
	Pricing      *models.PricingContext
	// TopGroups ranks title groups by payout over PayoutRows.
	TopGroups []models.GroupTotal
}

type Overview struct {
	OrderCount     int             `json:"orderCount"`
	PaidOrderCount int             `json:"paidOrderCount"`
	TotalGmvUsd    decimal.Decimal `json:"totalGmvUsd"`
	TotalPayoutCny decimal.Decimal `json:"totalPayoutCny"`
	TotalCostCny   decimal.Decimal `json:"totalCostCny"`
	TotalProfitCny decimal.Decimal `json:"totalProfitCny"`
	MarginPercent  decimal.Decimal `json:"marginPercent"`
	StatusLine     string          `json:"statusLine"`
}

// BuildOverview totals the two ledgers on their own axes: GMV over the paid
// window, payout/cost/profit over the payout window. The two windows are
// never intersected here.
func BuildOverview(in Input) Overview {
	o := Overview{
		OrderCount:     len(in.AllRows),
		PaidOrderCount: len(in.PaidRows),
	}

	for i := range in.PaidRows {
		o.TotalGmvUsd = o.TotalGmvUsd.Add(in.PaidRows[i].GmvUsd)
	}
	for i := range in.PayoutRows {
		r := &in.PayoutRows[i]
		o.TotalPayoutCny = o.TotalPayoutCny.Add(r.PayoutCny)
		if r.PayoutCny.IsPositive() {
			o.TotalCostCny = o.TotalCostCny.Add(in.Pricing.TotalCost(r))
		}
		o.TotalProfitCny = o.TotalProfitCny.Add(in.Pricing.Profit(r))
	}
	if o.TotalPayoutCny.IsPositive() {
		o.MarginPercent = o.TotalProfitCny.
			Div(o.TotalPayoutCny).
			Mul(decimal.NewFromInt(100)).
			Round(1)
	}

	o.StatusLine = statusDistributionLine(in.AllRows)
	return o
}

// statusDistributionLine reports the top 3 payout statuses by row count.
// Equal counts order alphabetically for determinism.
func statusDistributionLine(rows []models.Row) string {
	counts := map[string]int{}
	for i := range rows {
		s := rows[i].PayoutStatus
		if s == "" {
			s = "(none)"
		}
		counts[s]++
	}
	if len(counts) == 0 {
		return "no records"
	}

	type statusCount struct {
		status string
		count  int
	}
	ranked := make([]statusCount, 0, len(counts))
	for s, c := range counts {
		ranked = append(ranked, statusCount{s, c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].status < ranked[j].status
	})
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	parts := make([]string, 0, len(ranked))
	for _, rc := range ranked {
		parts = append(parts, fmt.Sprintf("%s: %d", rc.status, rc.count))
	}
	return strings.Join(parts, ", ")
}
