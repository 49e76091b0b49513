package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DateDimension selects which of the two independent time axes a window
// applies to. "Money booked" (paid) and "money received" (payout) are
// different business events; filtering by one axis must never consult the
// other.
type DateDimension int

const (
	DatePaid DateDimension = iota
	DatePayout
)

func (d DateDimension) Of(r *Row) *time.Time {
	if d == DatePayout {
		return r.PayoutAt
	}
	return r.PaidAt
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// FilterByRange keeps rows whose selected date falls inside [start, end],
// end extended to end-of-day. Rows missing the selected date are excluded
// whenever any bound is set; with no bounds everything passes.
func FilterByRange(rows []Row, dim DateDimension, start, end *time.Time) []Row {
	if start == nil && end == nil {
		out := make([]Row, len(rows))
		copy(out, rows)
		return out
	}

	var out []Row
	for i := range rows {
		t := dim.Of(&rows[i])
		if t == nil {
			continue
		}
		if start != nil && t.Before(*start) {
			continue
		}
		if end != nil && t.After(endOfDay(*end)) {
			continue
		}
		out = append(out, rows[i])
	}
	return out
}

type SeriesPoint struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// DailySeries produces one point per calendar day across [start, end], bounds
// defaulting to the min/max observed dates on the selected dimension. Days
// with no matching rows emit a zero point: the series is dense so chart
// rendering never has to interpolate gaps.
func DailySeries(rows []Row, dim DateDimension, value func(*Row) decimal.Decimal, start, end *time.Time) []SeriesPoint {
	sums := map[string]decimal.Decimal{}
	var minDay, maxDay time.Time
	seen := false

	for i := range rows {
		t := dim.Of(&rows[i])
		if t == nil {
			continue
		}
		day := t.Format("2006-01-02")
		sums[day] = sums[day].Add(value(&rows[i]))
		dayStart := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		if !seen || dayStart.Before(minDay) {
			minDay = dayStart
		}
		if !seen || dayStart.After(maxDay) {
			maxDay = dayStart
		}
		seen = true
	}

	from, to := minDay, maxDay
	if start != nil {
		from = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	}
	if end != nil {
		to = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	}
	if (start == nil || end == nil) && !seen {
		// No observed dates to resolve the missing bound from.
		return []SeriesPoint{}
	}
	if to.Before(from) {
		return []SeriesPoint{}
	}

	var series []SeriesPoint
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		series = append(series, SeriesPoint{Date: key, Value: sums[key]})
	}
	return series
}

type GroupTotal struct {
	TitleGroup string          `json:"titleGroup"`
	Total      decimal.Decimal `json:"total"`
}

// TopNByGroup sums value per title group and returns the top n groups in
// descending order of sum. Equal sums tie-break ascending by label so the
// ranking does not depend on map iteration order.
func TopNByGroup(rows []Row, value func(*Row) decimal.Decimal, n int) []GroupTotal {
	if n <= 0 {
		n = 10
	}

	sums := map[string]decimal.Decimal{}
	for i := range rows {
		g := rows[i].TitleGroup
		sums[g] = sums[g].Add(value(&rows[i]))
	}

	totals := make([]GroupTotal, 0, len(sums))
	for g, v := range sums {
		totals = append(totals, GroupTotal{TitleGroup: g, Total: v})
	}
	sort.Slice(totals, func(i, j int) bool {
		if !totals[i].Total.Equal(totals[j].Total) {
			return totals[i].Total.GreaterThan(totals[j].Total)
		}
		return totals[i].TitleGroup < totals[j].TitleGroup
	})

	if len(totals) > n {
		totals = totals[:n]
	}
	return totals
}
