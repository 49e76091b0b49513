package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Row is one normalized order line produced by spreadsheet ingestion.
// Monetary fields are zero when the source cell was absent or unparseable;
// timestamps are nil in the same situation.
type Row struct {
	Sku          string          `json:"sku"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	PayoutStatus string          `json:"payoutStatus"`
	SoldQty      decimal.Decimal `json:"soldQty"`
	GmvUsd       decimal.Decimal `json:"grossMerchandiseValueUsd"`
	PayoutCny    decimal.Decimal `json:"payoutAmountCny"`
	PaidAt       *time.Time      `json:"paidAt,omitempty"`
	PayoutAt     *time.Time      `json:"payoutAt,omitempty"`

	// TitleGroup is assigned once at ingestion time, derived purely from Name.
	// Re-classifying the same title must always yield the same label, otherwise
	// stored cost overrides stop re-attaching across re-imports.
	TitleGroup string `json:"titleGroup"`
}

// LotCount is derived on demand, never stored on the row.
func (r *Row) LotCount() int {
	return ExtractLotCount(r.Name)
}

// Key is the stable record identifier used for per-record cost overrides.
func (r *Row) Key() string {
	return RecordKey(r.Sku, r.Name, r.PaidAt, r.PayoutAt)
}
