package reports

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cardlotlabs/lotsales_backend/models"
)

// Fixed narrative thresholds. These are presentation rules, not configuration.
const (
	lowMarginPercent     = 15
	otherRatePercentWarn = 5
	concentrationWarn    = 40 // top group share of payout, percent
	delayTailDays        = 30
	implausibleLotSize   = 2000
	trendWindowDays      = 7
	marginLeaderMinCny   = 100
)

type AnalysisReport struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Overview    Overview  `json:"overview"`
	Highlights  []string  `json:"highlights"`
	Risks       []string  `json:"risks"`
	Actions     []string  `json:"actions"`
}

// BuildAnalysisReport derives the narrative report from the current filtered
// record sets. Pure function of its input; calling it twice on the same input
// yields the same report apart from GeneratedAt.
func BuildAnalysisReport(in Input) *AnalysisReport {
	r := &AnalysisReport{
		GeneratedAt: time.Now(),
		Overview:    BuildOverview(in),
	}
	r.Highlights = buildHighlights(in, r.Overview)
	r.Risks = buildRisks(in, r.Overview)
	r.Actions = buildActions(in, r.Overview)
	return r
}

func buildHighlights(in Input, o Overview) []string {
	var out []string

	if len(in.TopGroups) > 0 && in.TopGroups[0].Total.IsPositive() {
		out = append(out, fmt.Sprintf("Top payout group: %s (¥%s)",
			in.TopGroups[0].TitleGroup, in.TopGroups[0].Total.Round(2)))
	}

	if group, margin, ok := marginLeader(in); ok {
		out = append(out, fmt.Sprintf("Margin leader: %s at %s%% (groups under ¥%d payout excluded)",
			group, margin.Round(1), marginLeaderMinCny))
	}

	payouts := positivePayouts(in.PayoutRows)
	if len(payouts) > 0 {
		out = append(out, fmt.Sprintf("Per-order payout: median ¥%s, p90 ¥%s over %d paid-out orders",
			median(payouts).Round(2), percentileNearestRank(payouts, 90).Round(2), len(payouts)))
	}

	if line, ok := trendLine(in.PayoutRows); ok {
		out = append(out, line)
	}

	return out
}

func buildRisks(in Input, o Overview) []string {
	var out []string

	if o.TotalPayoutCny.IsPositive() && o.MarginPercent.LessThan(decimal.NewFromInt(lowMarginPercent)) {
		out = append(out, fmt.Sprintf("Overall margin %s%% is below %d%%",
			o.MarginPercent, lowMarginPercent))
	}

	if line, ok := negativeProfitLine(in); ok {
		out = append(out, line)
	}

	if rate := otherRatePercent(in.AllRows); rate.GreaterThanOrEqual(decimal.NewFromInt(otherRatePercentWarn)) {
		out = append(out, fmt.Sprintf("Unclassified rate %s%% (titles falling through to %q)",
			rate.Round(1), models.TitleGroupOther))
	}

	if line, ok := anomalyLine(in.AllRows); ok {
		out = append(out, line)
	}

	if line, ok := delayLine(in.AllRows); ok {
		out = append(out, line)
	}

	if share, ok := concentrationShare(in); ok && share.GreaterThanOrEqual(decimal.NewFromInt(concentrationWarn)) {
		out = append(out, fmt.Sprintf("Concentration: %s carries %s%% of payout",
			in.TopGroups[0].TitleGroup, share.Round(1)))
	}

	return out
}

func buildActions(in Input, o Overview) []string {
	var out []string

	if rate := otherRatePercent(in.AllRows); rate.GreaterThanOrEqual(decimal.NewFromInt(otherRatePercentWarn)) {
		out = append(out, "Extend the title classification rules: too many titles land in the fallback group")
	}
	if o.TotalPayoutCny.IsPositive() && o.MarginPercent.LessThan(decimal.NewFromInt(lowMarginPercent)) {
		out = append(out, "Review category unit costs and loss-making listings to recover margin")
	}
	if _, ok := negativeProfitLine(in); ok {
		out = append(out, "Audit cost overrides on negative-profit orders; several orders realize below cost")
	}
	if share, ok := concentrationShare(in); ok && share.GreaterThanOrEqual(decimal.NewFromInt(concentrationWarn)) {
		out = append(out, "Diversify listings: payout depends heavily on a single title group")
	}
	if tail := delayTailCount(in.AllRows); tail > 0 {
		out = append(out, fmt.Sprintf("Chase pending settlements: %d orders took over %d days from payment to payout", tail, delayTailDays))
	}

	if len(out) == 0 {
		out = append(out, "No action required; metrics are within thresholds")
	}
	return out
}

// Text renders the report as the copyable plain-text narrative.
func (r *AnalysisReport) Text() string {
	var b strings.Builder

	b.WriteString("SALES REPORT\n")
	fmt.Fprintf(&b, "Orders: %d (paid window: %d)\n", r.Overview.OrderCount, r.Overview.PaidOrderCount)
	fmt.Fprintf(&b, "GMV: $%s | Payout: ¥%s | Cost: ¥%s | Profit: ¥%s (margin %s%%)\n",
		r.Overview.TotalGmvUsd.Round(2),
		r.Overview.TotalPayoutCny.Round(2),
		r.Overview.TotalCostCny.Round(2),
		r.Overview.TotalProfitCny.Round(2),
		r.Overview.MarginPercent)
	fmt.Fprintf(&b, "Status: %s\n", r.Overview.StatusLine)

	writeSection(&b, "HIGHLIGHTS", r.Highlights)
	writeSection(&b, "RISKS", r.Risks)
	writeSection(&b, "SUGGESTED ACTIONS", r.Actions)

	return b.String()
}

func writeSection(b *strings.Builder, title string, lines []string) {
	b.WriteString("\n" + title + "\n")
	if len(lines) == 0 {
		b.WriteString("- none\n")
		return
	}
	for _, line := range lines {
		b.WriteString("- " + line + "\n")
	}
}

func positivePayouts(rows []models.Row) []decimal.Decimal {
	var out []decimal.Decimal
	for i := range rows {
		if rows[i].PayoutCny.IsPositive() {
			out = append(out, rows[i].PayoutCny)
		}
	}
	return out
}

// median uses the even/odd split-average definition.
func median(values []decimal.Decimal) decimal.Decimal {
	n := len(values)
	if n == 0 {
		return decimal.Zero
	}
	sorted := sortedCopy(values)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return sorted[n/2-1].Add(sorted[n/2]).Div(decimal.NewFromInt(2))
}

// percentileNearestRank implements the nearest-rank method:
// rank = ceil(p*n/100), 1-based into the sorted values.
func percentileNearestRank(values []decimal.Decimal, p int) decimal.Decimal {
	n := len(values)
	if n == 0 {
		return decimal.Zero
	}
	sorted := sortedCopy(values)
	rank := (p*n + 99) / 100
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return sorted[rank-1]
}

func sortedCopy(values []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	copy(out, values)
	sort.Slice(out, func(i, j int) bool { return out[i].LessThan(out[j]) })
	return out
}

func marginLeader(in Input) (string, decimal.Decimal, bool) {
	payout := map[string]decimal.Decimal{}
	profit := map[string]decimal.Decimal{}
	for i := range in.PayoutRows {
		r := &in.PayoutRows[i]
		g := r.TitleGroup
		payout[g] = payout[g].Add(r.PayoutCny)
		profit[g] = profit[g].Add(in.Pricing.Profit(r))
	}

	groups := make([]string, 0, len(payout))
	for g := range payout {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	var bestGroup string
	var bestMargin decimal.Decimal
	found := false
	for _, g := range groups {
		if payout[g].LessThan(decimal.NewFromInt(marginLeaderMinCny)) {
			continue
		}
		margin := profit[g].Div(payout[g]).Mul(decimal.NewFromInt(100))
		if !found || margin.GreaterThan(bestMargin) {
			bestGroup, bestMargin, found = g, margin, true
		}
	}
	return bestGroup, bestMargin, found
}

// trendLine compares payout over the last trend window against the window
// before it, anchored at the latest payout date in the set.
func trendLine(rows []models.Row) (string, bool) {
	var latest *time.Time
	for i := range rows {
		t := rows[i].PayoutAt
		if t != nil && (latest == nil || t.After(*latest)) {
			latest = t
		}
	}
	if latest == nil {
		return "", false
	}

	anchor := time.Date(latest.Year(), latest.Month(), latest.Day(), 0, 0, 0, 0, time.UTC)
	recentStart := anchor.AddDate(0, 0, -(trendWindowDays - 1))
	priorStart := recentStart.AddDate(0, 0, -trendWindowDays)

	var recent, prior decimal.Decimal
	for i := range rows {
		t := rows[i].PayoutAt
		if t == nil {
			continue
		}
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		switch {
		case !day.Before(recentStart):
			recent = recent.Add(rows[i].PayoutCny)
		case !day.Before(priorStart):
			prior = prior.Add(rows[i].PayoutCny)
		}
	}

	if !prior.IsPositive() {
		return fmt.Sprintf("Last %d days payout ¥%s (no prior window to compare)",
			trendWindowDays, recent.Round(2)), true
	}
	delta := recent.Sub(prior).Div(prior).Mul(decimal.NewFromInt(100))
	direction := "up"
	if delta.IsNegative() {
		direction = "down"
		delta = delta.Neg()
	}
	return fmt.Sprintf("Short-term trend: payout %s %s%% vs the prior %d days (¥%s vs ¥%s)",
		direction, delta.Round(1), trendWindowDays, recent.Round(2), prior.Round(2)), true
}

func negativeProfitLine(in Input) (string, bool) {
	type loss struct {
		name   string
		profit decimal.Decimal
	}
	var losses []loss
	for i := range in.PayoutRows {
		r := &in.PayoutRows[i]
		p := in.Pricing.Profit(r)
		if p.IsNegative() {
			losses = append(losses, loss{r.Name, p})
		}
	}
	if len(losses) == 0 {
		return "", false
	}
	sort.Slice(losses, func(i, j int) bool {
		if !losses[i].profit.Equal(losses[j].profit) {
			return losses[i].profit.LessThan(losses[j].profit)
		}
		return losses[i].name < losses[j].name
	})

	shown := losses
	if len(shown) > 3 {
		shown = shown[:3]
	}
	parts := make([]string, 0, len(shown))
	for _, l := range shown {
		parts = append(parts, fmt.Sprintf("%q (¥%s)", l.name, l.profit.Round(2)))
	}
	return fmt.Sprintf("%d negative-profit orders, worst: %s",
		len(losses), strings.Join(parts, ", ")), true
}

func otherRatePercent(rows []models.Row) decimal.Decimal {
	if len(rows) == 0 {
		return decimal.Zero
	}
	other := 0
	for i := range rows {
		if rows[i].TitleGroup == models.TitleGroupOther {
			other++
		}
	}
	return decimal.NewFromInt(int64(other * 100)).Div(decimal.NewFromInt(int64(len(rows))))
}

func anomalyLine(rows []models.Row) (string, bool) {
	paidNoGmv := 0
	payoutNoDate := 0
	hugeLots := 0
	for i := range rows {
		r := &rows[i]
		if r.PaidAt != nil && r.GmvUsd.IsZero() {
			paidNoGmv++
		}
		if r.PayoutCny.IsPositive() && r.PayoutAt == nil {
			payoutNoDate++
		}
		if r.LotCount() >= implausibleLotSize {
			hugeLots++
		}
	}

	var parts []string
	if paidNoGmv > 0 {
		parts = append(parts, fmt.Sprintf("%d paid rows with zero GMV", paidNoGmv))
	}
	if payoutNoDate > 0 {
		parts = append(parts, fmt.Sprintf("%d payout amounts without payout date", payoutNoDate))
	}
	if hugeLots > 0 {
		parts = append(parts, fmt.Sprintf("%d titles with lot size >= %d", hugeLots, implausibleLotSize))
	}
	if len(parts) == 0 {
		return "", false
	}
	return "Data quality: " + strings.Join(parts, "; "), true
}

func settlementDelaysDays(rows []models.Row) []decimal.Decimal {
	var out []decimal.Decimal
	for i := range rows {
		r := &rows[i]
		if r.PaidAt == nil || r.PayoutAt == nil {
			continue
		}
		days := int64(r.PayoutAt.Sub(*r.PaidAt).Hours() / 24)
		if days < 0 {
			continue
		}
		out = append(out, decimal.NewFromInt(days))
	}
	return out
}

func delayLine(rows []models.Row) (string, bool) {
	delays := settlementDelaysDays(rows)
	if len(delays) == 0 {
		return "", false
	}
	tail := delayTailCount(rows)
	line := fmt.Sprintf("Payment-to-payout delay: median %s days, p90 %s days",
		median(delays), percentileNearestRank(delays, 90))
	if tail > 0 {
		line += fmt.Sprintf(", %d orders over %d days", tail, delayTailDays)
	}
	return line, true
}

func delayTailCount(rows []models.Row) int {
	tailBound := decimal.NewFromInt(delayTailDays)
	count := 0
	for _, d := range settlementDelaysDays(rows) {
		if d.GreaterThan(tailBound) {
			count++
		}
	}
	return count
}

func concentrationShare(in Input) (decimal.Decimal, bool) {
	if len(in.TopGroups) == 0 {
		return decimal.Zero, false
	}
	// TopGroups may be truncated to N; the denominator comes from the whole
	// payout-window ledger.
	var total decimal.Decimal
	for i := range in.PayoutRows {
		total = total.Add(in.PayoutRows[i].PayoutCny)
	}
	if !total.IsPositive() {
		return decimal.Zero, false
	}
	return in.TopGroups[0].Total.Div(total).Mul(decimal.NewFromInt(100)), true
}
