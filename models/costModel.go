package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategoryCost is a user edit to the per-category cost-per-lot-unit table.
// Stored rows are merged OVER the built-in defaults on load; deleting a row
// reverts the category to its default.
type CategoryCost struct {
	Category    string          `gorm:"primaryKey;size:64" json:"category"`
	CostPerUnit decimal.Decimal `gorm:"type:decimal(20,6)" json:"costPerUnit"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// RecordCostOverride pins the unit cost of one logical order, keyed by the
// record fingerprint. Sparse; absence means "use the category default".
type RecordCostOverride struct {
	RecordKey   string          `gorm:"primaryKey;size:16" json:"recordKey"`
	CostPerUnit decimal.Decimal `gorm:"type:decimal(20,6)" json:"costPerUnit"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// DefaultCategoryCosts is the built-in cost-per-lot-unit table (CNY).
// "Other" ships at zero: unclassified lots contribute payout as pure profit
// until someone prices them, which the report flags.
func DefaultCategoryCosts() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"Master Ball": decimal.NewFromFloat(0.7),
		"Ball Holo":   decimal.NewFromFloat(0.5),
		"Graded":      decimal.NewFromFloat(15),
		"Sealed":      decimal.NewFromFloat(30),
		"Vintage":     decimal.NewFromFloat(5),
		"Shiny":       decimal.NewFromFloat(1.2),
		"SAR":         decimal.NewFromFloat(6),
		"CHR/CSR":     decimal.NewFromFloat(1.5),
		"SR":          decimal.NewFromFloat(4),
		"UR/HR":       decimal.NewFromFloat(8),
		"AR":          decimal.NewFromFloat(1.8),
		"Full Art":    decimal.NewFromFloat(3),
		"RR/RRR Mix":  decimal.NewFromFloat(0.35),
		"RR Only":     decimal.NewFromFloat(0.25),
		"RRR Only":    decimal.NewFromFloat(0.4),
		"VMAX Only":   decimal.NewFromFloat(1),
		"V/VSTAR":     decimal.NewFromFloat(0.8),
		"ex/GX":       decimal.NewFromFloat(0.6),
		"Trainer":     decimal.NewFromFloat(0.2),
		"Energy":      decimal.NewFromFloat(0.1),
		"Promo":       decimal.NewFromFloat(0.9),
		"Bulk":        decimal.NewFromFloat(0.05),
		TitleGroupOther: decimal.Zero,
	}
}

// PricingContext is the explicit parameter every costing function takes.
// Costing stays a pure function of (row, context); nothing reads package
// state, which keeps the model testable without a DB or HTTP harness.
type PricingContext struct {
	CategoryCosts map[string]decimal.Decimal
	Overrides     map[string]decimal.Decimal
}

// NewPricingContext returns a context holding only the built-in defaults.
func NewPricingContext() *PricingContext {
	return &PricingContext{
		CategoryCosts: DefaultCategoryCosts(),
		Overrides:     map[string]decimal.Decimal{},
	}
}

// LoadPricingContext merges stored category edits over the built-in defaults
// and loads the sparse override table.
func LoadPricingContext(ctx context.Context, db *gorm.DB) (*PricingContext, error) {
	p := NewPricingContext()

	var categories []CategoryCost
	if err := db.WithContext(ctx).Find(&categories).Error; err != nil {
		return nil, err
	}
	for _, c := range categories {
		p.CategoryCosts[c.Category] = c.CostPerUnit
	}

	var overrides []RecordCostOverride
	if err := db.WithContext(ctx).Find(&overrides).Error; err != nil {
		return nil, err
	}
	for _, o := range overrides {
		p.Overrides[o.RecordKey] = o.CostPerUnit
	}

	return p, nil
}

// EffectiveUnitCost resolves override -> category default -> zero.
func (p *PricingContext) EffectiveUnitCost(r *Row) decimal.Decimal {
	if v, ok := p.Overrides[r.Key()]; ok {
		return v
	}
	if v, ok := p.CategoryCosts[r.TitleGroup]; ok {
		return v
	}
	return decimal.Zero
}

func (p *PricingContext) TotalCost(r *Row) decimal.Decimal {
	return p.EffectiveUnitCost(r).Mul(decimal.NewFromInt(int64(r.LotCount())))
}

// Profit is payout minus total cost, floored at zero payout: a record with no
// recorded payout is "not yet realized", not a loss.
func (p *PricingContext) Profit(r *Row) decimal.Decimal {
	if !r.PayoutCny.IsPositive() {
		return decimal.Zero
	}
	return r.PayoutCny.Sub(p.TotalCost(r))
}

// DefaultProfit ignores any override; the delta against Profit measures the
// financial impact an override introduces.
func (p *PricingContext) DefaultProfit(r *Row) decimal.Decimal {
	if !r.PayoutCny.IsPositive() {
		return decimal.Zero
	}
	unit := decimal.Zero
	if v, ok := p.CategoryCosts[r.TitleGroup]; ok {
		unit = v
	}
	return r.PayoutCny.Sub(unit.Mul(decimal.NewFromInt(int64(r.LotCount()))))
}

func UpsertCategoryCost(ctx context.Context, db *gorm.DB, category string, cost decimal.Decimal) error {
	record := CategoryCost{Category: category, CostPerUnit: cost, UpdatedAt: time.Now()}
	return db.WithContext(ctx).Save(&record).Error
}

func DeleteCategoryCost(ctx context.Context, db *gorm.DB, category string) error {
	return db.WithContext(ctx).Delete(&CategoryCost{}, "category = ?", category).Error
}

func UpsertRecordOverride(ctx context.Context, db *gorm.DB, recordKey string, cost decimal.Decimal) error {
	record := RecordCostOverride{RecordKey: recordKey, CostPerUnit: cost, UpdatedAt: time.Now()}
	return db.WithContext(ctx).Save(&record).Error
}

func DeleteRecordOverride(ctx context.Context, db *gorm.DB, recordKey string) error {
	return db.WithContext(ctx).Delete(&RecordCostOverride{}, "record_key = ?", recordKey).Error
}
