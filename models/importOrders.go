package models

import (
	"errors"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/cardlotlabs/lotsales_backend/utils"
)

// Semantic fields resolved from spreadsheet headers. Export tools disagree on
// header spelling, so resolution is case/whitespace/punctuation-insensitive:
// exact normalized match first, substring match as fallback.
const (
	fieldSku      = "sku"
	fieldName     = "name"
	fieldCategory = "category"
	fieldStatus   = "status"
	fieldQty      = "qty"
	fieldGmv      = "gmv"
	fieldPayout   = "payout"
	fieldPaidAt   = "paidAt"
	fieldPayoutAt = "payoutAt"
)

type headerSpec struct {
	field   string
	aliases []string
}

// Order matters: earlier specs claim headers first, so "payout date" resolves
// to the payout timestamp before the payout amount's substring fallback can
// take it.
var headerSpecs = []headerSpec{
	{fieldPaidAt, []string{"paidat", "paiddate", "paidtime", "paymentdate", "paymenttime", "orderdate"}},
	{fieldPayoutAt, []string{"payoutat", "payoutdate", "payouttime", "settledat", "settlementdate"}},
	{fieldSku, []string{"sku", "itemid", "productid", "listingid"}},
	{fieldName, []string{"name", "title", "itemname", "itemtitle", "productname", "listingtitle"}},
	{fieldCategory, []string{"category", "categoryname", "genre"}},
	{fieldStatus, []string{"payoutstatus", "status", "paymentstatus", "settlementstatus"}},
	{fieldQty, []string{"soldqty", "qty", "quantity", "sold", "units"}},
	{fieldGmv, []string{"grossmerchandisevalueusd", "gmvusd", "gmv", "grossamount", "salesamount", "orderamount"}},
	{fieldPayout, []string{"payoutamountcny", "payoutcny", "payoutamount", "payout", "proceeds", "settlementamount"}},
}

func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// resolveHeaders maps each semantic field to the source header that carries
// it. Headers are considered in sorted order so resolution does not depend on
// map iteration order.
func resolveHeaders(headers []string) map[string]string {
	normalized := make(map[string]string, len(headers)) // normalized -> original
	keys := make([]string, 0, len(headers))
	for _, h := range headers {
		n := normalizeHeader(h)
		if n == "" {
			continue
		}
		if _, ok := normalized[n]; !ok {
			normalized[n] = h
			keys = append(keys, n)
		}
	}
	sort.Strings(keys)

	claimed := map[string]bool{}
	resolved := map[string]string{}

	for _, spec := range headerSpecs {
		// exact pass
		for _, alias := range spec.aliases {
			if orig, ok := normalized[alias]; ok && !claimed[alias] {
				resolved[spec.field] = orig
				claimed[alias] = true
				break
			}
		}
	}
	for _, spec := range headerSpecs {
		if _, done := resolved[spec.field]; done {
			continue
		}
		// substring fallback
		for _, alias := range spec.aliases {
			for _, key := range keys {
				if claimed[key] {
					continue
				}
				if strings.Contains(key, alias) {
					resolved[spec.field] = normalized[key]
					claimed[key] = true
					break
				}
			}
			if _, done := resolved[spec.field]; done {
				break
			}
		}
	}
	return resolved
}

var textTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04",
	"2006-01-02",
	"2006/01/02",
	"2006/1/2",
	"01-02-06",
	"01/02/2006",
	"1/2/2006 15:04",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// excelSerialEpoch: spreadsheet serial dates count days from 1899-12-30
// (the offset that absorbs the 1900 leap-year bug).
var excelSerialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

func fromExcelSerial(serial float64) *time.Time {
	if serial <= 0 || math.IsNaN(serial) || math.IsInf(serial, 0) {
		return nil
	}
	days := math.Floor(serial)
	frac := serial - days
	t := excelSerialEpoch.AddDate(0, 0, int(days)).
		Add(time.Duration(math.Round(frac * 24 * float64(time.Hour))))
	return &t
}

// ParseCellTime coerces a spreadsheet cell to a timestamp. Accepts a native
// time value, an Excel serial-date number (also as a numeric string), or a
// free-text date. Anything unparseable is "absent", never an error.
func ParseCellTime(v any) *time.Time {
	switch tv := v.(type) {
	case nil:
		return nil
	case time.Time:
		if tv.IsZero() {
			return nil
		}
		t := tv.UTC()
		return &t
	case *time.Time:
		if tv == nil || tv.IsZero() {
			return nil
		}
		t := tv.UTC()
		return &t
	case float64:
		return fromExcelSerial(tv)
	case int:
		return fromExcelSerial(float64(tv))
	case int64:
		return fromExcelSerial(float64(tv))
	case string:
		s := strings.TrimSpace(tv)
		if s == "" {
			return nil
		}
		for _, layout := range textTimeLayouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return &t
			}
		}
		if serial, err := strconv.ParseFloat(s, 64); err == nil {
			// Guard against plain years ("2024") masquerading as serials:
			// real serial exports sit well past the year range.
			if serial >= 10000 {
				return fromExcelSerial(serial)
			}
		}
		return nil
	default:
		return nil
	}
}

func cellString(rec map[string]any, header string) string {
	if header == "" {
		return ""
	}
	v, ok := rec[header]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func cellAny(rec map[string]any, header string) any {
	if header == "" {
		return nil
	}
	return rec[header]
}

// Monetary row fields are defined non-negative; a parsed negative means the
// cell was garbage, not a refund.
func clampMoney(v any) decimal.Decimal {
	d := utils.ParseMoney(v)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// BuildRows converts raw ingestion records (one untyped map per sheet row)
// into normalized Rows. Title classification happens exactly here, once per
// row; TitleGroup is immutable afterwards.
func BuildRows(raw []map[string]any) []Row {
	if len(raw) == 0 {
		return nil
	}

	headerSet := map[string]bool{}
	var headers []string
	for _, rec := range raw {
		for h := range rec {
			if !headerSet[h] {
				headerSet[h] = true
				headers = append(headers, h)
			}
		}
	}
	sort.Strings(headers)
	resolved := resolveHeaders(headers)

	rows := make([]Row, 0, len(raw))
	for _, rec := range raw {
		name := cellString(rec, resolved[fieldName])
		row := Row{
			Sku:          cellString(rec, resolved[fieldSku]),
			Name:         name,
			Category:     cellString(rec, resolved[fieldCategory]),
			PayoutStatus: cellString(rec, resolved[fieldStatus]),
			SoldQty:      utils.ParseQuantity(cellAny(rec, resolved[fieldQty])),
			GmvUsd:       clampMoney(cellAny(rec, resolved[fieldGmv])),
			PayoutCny:    clampMoney(cellAny(rec, resolved[fieldPayout])),
			PaidAt:       ParseCellTime(cellAny(rec, resolved[fieldPaidAt])),
			PayoutAt:     ParseCellTime(cellAny(rec, resolved[fieldPayoutAt])),
			TitleGroup:   ClassifyTitle(name),
		}
		rows = append(rows, row)
	}
	return rows
}

// ReadOrderSheet reads the first worksheet of an .xlsx stream into raw
// ingestion records. The first row is the header row. An unreadable file is
// the one ingestion failure surfaced to the caller.
func ReadOrderSheet(r io.Reader) ([]map[string]any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(cells) < 2 {
		return nil, errors.New("sheet has no data rows")
	}

	headers := cells[0]
	records := make([]map[string]any, 0, len(cells)-1)
	for _, rowCells := range cells[1:] {
		rec := make(map[string]any, len(headers))
		empty := true
		for i, h := range headers {
			if h == "" {
				continue
			}
			var val string
			if i < len(rowCells) {
				val = rowCells[i]
			}
			if strings.TrimSpace(val) != "" {
				empty = false
			}
			rec[h] = val
		}
		if !empty {
			records = append(records, rec)
		}
	}
	return records, nil
}
