package models

import (
	"math"
	"strconv"
	"strings"
)

var (
	lotLeadPattern  = mustCompileFold(`(-?\d+(?:\.\d{1,2})?)\s*lot\b`)
	lotTrailPattern = mustCompileFold(`\blot\s*(-?\d+(?:\.\d{1,2})?)\b`)
)

const (
	lotScaleMin = 10
	lotScaleMax = 5000
)

// ExtractLotCount recovers the lot multiplier from a listing title.
// "100 Lot Master Ball" and "Lot 100" both yield 100; a title with no lot
// mention yields 1.
//
// Some source sheets encode "150 Lot" as "1.50 Lot" (a formatting slip on
// export). A matched numeral with a decimal point and a value below 10 is
// therefore rescaled by 100; the rescale is kept only when the result lands
// in [10, 5000], since values >= 10 are assumed to be intentional fractions
// and anything outside that band is not a plausible lot size.
func ExtractLotCount(title string) int {
	t := NormalizeTitle(title)

	m := lotLeadPattern.FindStringSubmatch(t)
	if m == nil {
		m = lotTrailPattern.FindStringSubmatch(t)
	}
	if m == nil {
		return 1
	}

	raw := m[1]
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 1
	}

	if strings.Contains(raw, ".") && v < 10 {
		scaled := math.Round(v * 100)
		if scaled >= lotScaleMin && scaled <= lotScaleMax {
			return int(scaled)
		}
	}

	n := int(math.Round(v))
	if n < 1 {
		// A tiny fraction that failed rescale rounds to zero; the contract is
		// a positive multiplier.
		return 1
	}
	return n
}
