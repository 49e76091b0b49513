package models

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func TestBuildRowsHeaderVariants(t *testing.T) {
	// Exact normalized matches across punctuation/case variants.
	raw := []map[string]any{
		{
			"Item ID":             "SKU-1",
			"Listing Title":       "100 Lot Master Ball Holo",
			"Category":            "Cards",
			"Payout Status":       "Paid",
			"Sold Qty":            "1",
			"GMV (USD)":           "$120.00",
			"Payout Amount (CNY)": "¥1,200.50",
			"Paid Date":           "2024-03-05",
			"Payout Date":         "2024-03-20",
		},
	}
	rows := BuildRows(raw)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.Sku != "SKU-1" || r.Name != "100 Lot Master Ball Holo" {
		t.Fatalf("identity fields not resolved: %+v", r)
	}
	if r.PayoutStatus != "Paid" || r.Category != "Cards" {
		t.Fatalf("status/category not resolved: %+v", r)
	}
	if !r.GmvUsd.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected GMV 120, got %s", r.GmvUsd)
	}
	if !r.PayoutCny.Equal(decimal.NewFromFloat(1200.50)) {
		t.Fatalf("expected payout 1200.50, got %s", r.PayoutCny)
	}
	if r.PaidAt == nil || r.PaidAt.Format("2006-01-02") != "2024-03-05" {
		t.Fatalf("paid date not parsed: %v", r.PaidAt)
	}
	if r.PayoutAt == nil || r.PayoutAt.Format("2006-01-02") != "2024-03-20" {
		t.Fatalf("payout date not parsed: %v", r.PayoutAt)
	}
	if r.TitleGroup != "Master Ball" {
		t.Fatalf("title group not assigned at ingestion: %q", r.TitleGroup)
	}
}

func TestBuildRowsSubstringFallback(t *testing.T) {
	raw := []map[string]any{
		{
			"Product SKU Code":     "SKU-2",
			"Order Item Title Text": "50 Lot RR cards",
			"Total Order Amount":   "300",
		},
	}
	rows := BuildRows(raw)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Sku != "SKU-2" {
		t.Fatalf("substring header match failed for sku: %+v", rows[0])
	}
	if rows[0].Name != "50 Lot RR cards" {
		t.Fatalf("substring header match failed for title: %+v", rows[0])
	}
	if !rows[0].GmvUsd.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("substring header match failed for amount: %s", rows[0].GmvUsd)
	}
}

func TestBuildRowsNoisyValues(t *testing.T) {
	raw := []map[string]any{
		{
			"Title":         "untitled",
			"Sold Qty":      "not a number",
			"GMV":           "n/a",
			"Payout Amount": "-50",
			"Paid Date":     "someday soon",
			"Payout Date":   "",
		},
	}
	rows := BuildRows(raw)
	r := rows[0]
	if !r.SoldQty.IsZero() || !r.GmvUsd.IsZero() {
		t.Fatalf("unparseable numerics must coerce to zero: qty=%s gmv=%s", r.SoldQty, r.GmvUsd)
	}
	if !r.PayoutCny.IsZero() {
		t.Fatalf("negative payout must clamp to zero, got %s", r.PayoutCny)
	}
	if r.PaidAt != nil || r.PayoutAt != nil {
		t.Fatalf("unparseable dates must resolve to absent: %v %v", r.PaidAt, r.PayoutAt)
	}
	if r.TitleGroup != TitleGroupOther {
		t.Fatalf("expected fallback group, got %q", r.TitleGroup)
	}
}

func TestParseCellTimeFormats(t *testing.T) {
	native := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		in       any
		expected string
	}{
		{native, "2024-03-05"},
		{"2024-03-05", "2024-03-05"},
		{"2024/03/05 10:30", "2024-03-05"},
		{"2024-03-05T10:30:00Z", "2024-03-05"},
		// Excel serial date: 45357 days after 1899-12-30.
		{45357.0, "2024-03-06"},
		{"45357", "2024-03-06"},
	}
	for _, tc := range cases {
		got := ParseCellTime(tc.in)
		if got == nil {
			t.Fatalf("ParseCellTime(%v) returned nil", tc.in)
		}
		if got.Format("2006-01-02") != tc.expected {
			t.Fatalf("ParseCellTime(%v) expected %s, got %s", tc.in, tc.expected, got.Format("2006-01-02"))
		}
	}

	absent := []any{nil, "", "soon", 0.0, -3.5, time.Time{}}
	for _, in := range absent {
		if got := ParseCellTime(in); got != nil {
			t.Fatalf("ParseCellTime(%v) expected absent, got %v", in, got)
		}
	}
}

func TestReadOrderSheet(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	headers := []string{"SKU", "Title", "Payout Amount", "Paid Date"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	values := [][]any{
		{"SKU-1", "100 Lot Master Ball Holo", "500", "2024-03-05"},
		{"SKU-2", "mystery bundle", "", ""},
	}
	for rowIdx, row := range values {
		for i, v := range row {
			cell, _ := excelize.CoordinatesToCellName(i+1, rowIdx+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	raw, err := ReadOrderSheet(&buf)
	if err != nil {
		t.Fatalf("ReadOrderSheet error: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("expected 2 records, got %d", len(raw))
	}
	rows := BuildRows(raw)
	if rows[0].TitleGroup != "Master Ball" || rows[1].TitleGroup != TitleGroupOther {
		t.Fatalf("ingested groups wrong: %q, %q", rows[0].TitleGroup, rows[1].TitleGroup)
	}
	if !rows[0].PayoutCny.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected payout 500, got %s", rows[0].PayoutCny)
	}
}

func TestReadOrderSheetRejectsGarbage(t *testing.T) {
	if _, err := ReadOrderSheet(bytes.NewReader([]byte("not a workbook"))); err == nil {
		t.Fatal("expected an error for a non-xlsx stream")
	}
}
