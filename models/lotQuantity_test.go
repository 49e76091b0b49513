package models

import "testing"

func TestExtractLotCount(t *testing.T) {
	cases := []struct {
		title    string
		expected int
	}{
		{"100 Lot Master Ball Holo", 100},
		{"137 Lot Bundle", 137},
		{"Lot 42", 42},
		{"Lot 100", 100},
		{"100 lot mixed rarities", 100},
		{"  100   Lot\twith messy   spacing ", 100},
		// Decimal-typo correction: "1.50" is "150" mangled by export formatting.
		{"1.50 Lot", 150},
		{"0.5 Lot", 50},
		// Scaled value outside [10,5000] rejects the correction.
		{"0.02 Lot", 1},
		// Value >= 10 with decimals is an intentional fraction; plain rounding.
		{"12.5 Lot", 13},
		{"plain title, no lot", 1},
		{"pilot program cards", 1},
		{"-3 Lot", 1},
		{"0 Lot", 1},
	}

	for _, tc := range cases {
		if got := ExtractLotCount(tc.title); got != tc.expected {
			t.Fatalf("ExtractLotCount(%q) expected %d, got %d", tc.title, tc.expected, got)
		}
	}
}

func TestExtractLotCountDeterministic(t *testing.T) {
	title := "1.50 Lot RR cards"
	first := ExtractLotCount(title)
	for i := 0; i < 50; i++ {
		if got := ExtractLotCount(title); got != first {
			t.Fatalf("ExtractLotCount(%q) changed between calls: %d then %d", title, first, got)
		}
	}
}
