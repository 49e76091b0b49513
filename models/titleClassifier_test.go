package models

import "testing"

func TestClassifyTitle(t *testing.T) {
	cases := []struct {
		title    string
		expected string
	}{
		// "Master Ball" is ordered before "Ball Holo": a title containing both
		// must classify as the more specific category.
		{"Master Ball Holo", "Master Ball"},
		{"100 Lot Master Ball Holo", "Master Ball"},
		{"Ball Holo collection 50 Lot", "Ball Holo"},
		{"PSA 10 Charizard", "Graded"},
		{"Sealed booster box", "Sealed"},
		{"Vintage base set commons", "Vintage"},
		{"Shiny collection lot", "Shiny"},
		{"SAR 20 Lot", "SAR"},
		{"CHR bundle", "CHR/CSR"},
		{"SR cards 30 Lot", "SR"},
		{"UR HR mixed", "UR/HR"},
		{"AR 15 Lot", "AR"},
		{"Full Art trainers", "Full Art"},
		{"RR RRR 200 Lot", "RR/RRR Mix"},
		{"RR Only pack", "RR Only"},
		{"RRR bundle 80 Lot", "RRR Only"},
		{"VMAX 25 Lot", "VMAX Only"},
		{"VSTAR collection", "V/VSTAR"},
		{"ex cards 40 Lot", "ex/GX"},
		{"Trainer supporter lot", "Trainer"},
		{"Energy 100 Lot", "Energy"},
		{"Promo cards", "Promo"},
		{"Bulk commons 500 Lot", "Bulk"},
		{"mystery bundle", TitleGroupOther},
		{"", TitleGroupOther},
	}

	for _, tc := range cases {
		if got := ClassifyTitle(tc.title); got != tc.expected {
			t.Fatalf("ClassifyTitle(%q) expected %q, got %q", tc.title, tc.expected, got)
		}
	}
}

// The RR/RRR/VMAX "Only" composites must reject titles carrying any other
// rarity marker; the aggregated guard covers markers handled by no earlier
// rule too.
func TestClassifyOnlyCompositesExclusionGuard(t *testing.T) {
	cases := []struct {
		title    string
		expected string
	}{
		// SAR has its own rule ordered earlier.
		{"RR SAR 50 Lot", "SAR"},
		// "gold" has no category of its own; the guard still blocks "RR Only".
		{"RR gold cards", TitleGroupOther},
		{"RRR secret bundle", TitleGroupOther},
		{"RR VMAX bundle", TitleGroupOther},
	}

	for _, tc := range cases {
		if got := ClassifyTitle(tc.title); got != tc.expected {
			t.Fatalf("ClassifyTitle(%q) expected %q, got %q", tc.title, tc.expected, got)
		}
	}
}

// The two rule-set revisions disagree on the extended markers; the legacy
// configuration must not guard on them.
func TestClassifierConfigVariants(t *testing.T) {
	legacy := NewTitleClassifier(LegacyClassifierConfig())

	if got := legacy.Classify("RR gold cards"); got != "RR Only" {
		t.Fatalf("legacy Classify(\"RR gold cards\") expected \"RR Only\", got %q", got)
	}
	if got := ClassifyTitle("RR gold cards"); got != TitleGroupOther {
		t.Fatalf("default Classify(\"RR gold cards\") expected %q, got %q", TitleGroupOther, got)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	titles := []string{
		"Master Ball Holo", "RR Only pack", "mystery bundle", "VMAX 25 Lot", "",
	}
	for _, title := range titles {
		first := ClassifyTitle(title)
		for i := 0; i < 20; i++ {
			if got := ClassifyTitle(title); got != first {
				t.Fatalf("ClassifyTitle(%q) changed between calls: %q then %q", title, first, got)
			}
		}
	}
}

func TestClassifyTotality(t *testing.T) {
	titles := []string{
		"", " ", "random words here", "12345", "!!??", "ローダー付き", "cards cards cards",
	}
	for _, title := range titles {
		if got := ClassifyTitle(title); got == "" {
			t.Fatalf("ClassifyTitle(%q) returned empty label", title)
		}
	}
}

func TestClassifierLabelsClosedSet(t *testing.T) {
	c := NewTitleClassifier(DefaultClassifierConfig())
	labels := c.Labels()
	if labels[len(labels)-1] != TitleGroupOther {
		t.Fatalf("expected fallback label last, got %q", labels[len(labels)-1])
	}
	seen := map[string]bool{}
	for _, l := range labels {
		if seen[l] {
			t.Fatalf("duplicate label %q", l)
		}
		seen[l] = true
	}
	if len(labels) < 15 || len(labels) > 24 {
		t.Fatalf("taxonomy size %d outside expected range", len(labels))
	}
}
