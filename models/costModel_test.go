package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func testRow(name string, payout float64) *Row {
	r := &Row{
		Sku:        "SKU-1",
		Name:       name,
		PayoutCny:  decimal.NewFromFloat(payout),
		TitleGroup: ClassifyTitle(name),
	}
	return r
}

func TestEffectiveUnitCostPrecedence(t *testing.T) {
	r := testRow("100 Lot Master Ball Holo", 500)
	p := NewPricingContext()

	// Category default applies first.
	want := decimal.NewFromFloat(0.7)
	if got := p.EffectiveUnitCost(r); !got.Equal(want) {
		t.Fatalf("expected category default %s, got %s", want, got)
	}

	// An override wins over the default.
	p.Overrides[r.Key()] = decimal.NewFromFloat(1.2)
	if got := p.EffectiveUnitCost(r); !got.Equal(decimal.NewFromFloat(1.2)) {
		t.Fatalf("expected override 1.2, got %s", got)
	}

	// Removing the override falls back to the default.
	delete(p.Overrides, r.Key())
	if got := p.EffectiveUnitCost(r); !got.Equal(want) {
		t.Fatalf("expected default %s after override removal, got %s", want, got)
	}

	// A category absent from the table costs zero.
	delete(p.CategoryCosts, r.TitleGroup)
	if got := p.EffectiveUnitCost(r); !got.IsZero() {
		t.Fatalf("expected zero cost for unknown category, got %s", got)
	}
}

func TestProfitZeroFloorOnMissingPayout(t *testing.T) {
	r := testRow("100 Lot Master Ball Holo", 0)
	p := NewPricingContext()

	if got := p.Profit(r); !got.IsZero() {
		t.Fatalf("expected zero profit with no payout, got %s", got)
	}
	if got := p.DefaultProfit(r); !got.IsZero() {
		t.Fatalf("expected zero default profit with no payout, got %s", got)
	}
}

func TestDefaultProfitIgnoresOverride(t *testing.T) {
	r := testRow("100 Lot Master Ball Holo", 500)
	p := NewPricingContext()
	p.Overrides[r.Key()] = decimal.NewFromFloat(2)

	// profit = 500 - 2*100; defaultProfit = 500 - 0.7*100
	if got := p.Profit(r); !got.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected profit 300 with override, got %s", got)
	}
	if got := p.DefaultProfit(r); !got.Equal(decimal.NewFromInt(430)) {
		t.Fatalf("expected default profit 430, got %s", got)
	}
}

// The end-to-end scenario: classification, lot extraction and costing agree.
func TestCostModelScenario(t *testing.T) {
	p := NewPricingContext()

	a := testRow("100 Lot Master Ball Holo", 500)
	if a.TitleGroup != "Master Ball" {
		t.Fatalf("expected group Master Ball, got %q", a.TitleGroup)
	}
	if got := a.LotCount(); got != 100 {
		t.Fatalf("expected lot 100, got %d", got)
	}
	if got := p.TotalCost(a); !got.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected total cost 70, got %s", got)
	}
	if got := p.Profit(a); !got.Equal(decimal.NewFromInt(430)) {
		t.Fatalf("expected profit 430, got %s", got)
	}

	b := testRow("RR Only pack", 0)
	if got := p.Profit(b); !got.IsZero() {
		t.Fatalf("expected zero profit with zero payout, got %s", got)
	}

	c := testRow("mystery bundle", 80)
	if c.TitleGroup != TitleGroupOther {
		t.Fatalf("expected fallback group, got %q", c.TitleGroup)
	}
	// "Other" defaults to zero cost: payout passes through as profit.
	if got := p.Profit(c); !got.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("expected profit 80 for unpriced fallback group, got %s", got)
	}
}

func TestDefaultCategoryCostsCoverTaxonomy(t *testing.T) {
	costs := DefaultCategoryCosts()
	for _, label := range NewTitleClassifier(DefaultClassifierConfig()).Labels() {
		if _, ok := costs[label]; !ok {
			t.Fatalf("built-in cost table missing label %q", label)
		}
	}
}
