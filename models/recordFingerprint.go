package models

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"
)

const fingerprintTimeLayout = "2006-01-02T15:04:05.000Z"

func isoMillisOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(fingerprintTimeLayout)
}

// RecordKey fingerprints a record as FNV-1a 64 over the four identity fields,
// hex encoded. Two rows are "the same logical order" iff sku, title and both
// timestamps match exactly after normalization, so re-ingesting an unchanged
// dataset reattaches previously stored cost overrides.
//
// This is best-effort identity, not a unique key: colliding rows silently
// share an override target. That trade-off is accepted; a stronger hash would
// not change it and a row index would break continuity across re-imports.
func RecordKey(sku, name string, paidAt, payoutAt *time.Time) string {
	h := fnv.New64a()
	h.Write([]byte(strings.TrimSpace(sku)))
	h.Write([]byte{'|'})
	h.Write([]byte(NormalizeTitle(name)))
	h.Write([]byte{'|'})
	h.Write([]byte(isoMillisOrEmpty(paidAt)))
	h.Write([]byte{'|'})
	h.Write([]byte(isoMillisOrEmpty(payoutAt)))
	return fmt.Sprintf("%016x", h.Sum64())
}
