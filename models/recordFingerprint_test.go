package models

import (
	"testing"
	"time"
)

func ts(s string) *time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestRecordKeyStability(t *testing.T) {
	paid := ts("2024-03-05 10:30:00")
	payout := ts("2024-03-20 00:00:00")

	first := RecordKey("SKU-1", "100 Lot Master Ball Holo", paid, payout)
	for i := 0; i < 10; i++ {
		if got := RecordKey("SKU-1", "100 Lot Master Ball Holo", paid, payout); got != first {
			t.Fatalf("RecordKey changed between calls: %s then %s", first, got)
		}
	}
	if len(first) != 16 {
		t.Fatalf("expected 16-char hex key, got %q", first)
	}
}

// Internal whitespace normalization is part of the identity: re-exports that
// only differ in spacing must keep the same key.
func TestRecordKeyNormalization(t *testing.T) {
	paid := ts("2024-03-05 10:30:00")

	a := RecordKey("SKU-1", "100 Lot   Master Ball", paid, nil)
	b := RecordKey(" SKU-1 ", "100 Lot Master\tBall", paid, nil)
	if a != b {
		t.Fatalf("normalized-equal records produced different keys: %s vs %s", a, b)
	}
}

func TestRecordKeyDistinguishesFields(t *testing.T) {
	paid := ts("2024-03-05 10:30:00")
	payout := ts("2024-03-20 00:00:00")

	base := RecordKey("SKU-1", "title", paid, payout)
	variants := []string{
		RecordKey("SKU-2", "title", paid, payout),
		RecordKey("SKU-1", "other title", paid, payout),
		RecordKey("SKU-1", "title", ts("2024-03-06 10:30:00"), payout),
		RecordKey("SKU-1", "title", paid, nil),
		RecordKey("SKU-1", "title", nil, payout),
	}
	for i, v := range variants {
		if v == base {
			t.Fatalf("variant %d produced the same key as base: %s", i, v)
		}
	}
}

// An unchanged dataset re-ingested through BuildRows must yield identical
// keys, so stored overrides resolve again.
func TestRecordKeySurvivesReingestion(t *testing.T) {
	raw := []map[string]any{
		{
			"SKU":           "SKU-9",
			"Title":         "50 Lot RR cards",
			"Paid Date":     "2024-03-05",
			"Payout Date":   "2024-03-20",
			"Payout Amount": "120",
		},
	}

	first := BuildRows(raw)
	second := BuildRows(raw)
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected 1 row per ingestion, got %d and %d", len(first), len(second))
	}
	if first[0].Key() != second[0].Key() {
		t.Fatalf("re-ingestion changed record key: %s vs %s", first[0].Key(), second[0].Key())
	}
}
