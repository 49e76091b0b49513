package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/cardlotlabs/lotsales_backend/config"
	"github.com/cardlotlabs/lotsales_backend/models"
	"github.com/cardlotlabs/lotsales_backend/models/reports"
	"github.com/cardlotlabs/lotsales_backend/utils"
)

const dateParamLayout = "2006-01-02"

// windows carries the two independent date ranges. Each aggregate view uses
// only its own axis; the record-list view intersects both.
type windows struct {
	paidStart, paidEnd     *time.Time
	payoutStart, payoutEnd *time.Time
}

func parseDateParam(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateParamLayout, raw, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%s must be YYYY-MM-DD", name)
	}
	return &t, nil
}

func windowsFromQuery(c *gin.Context) (windows, error) {
	var w windows
	var err error
	if w.paidStart, err = parseDateParam(c, "paidStart"); err != nil {
		return w, err
	}
	if w.paidEnd, err = parseDateParam(c, "paidEnd"); err != nil {
		return w, err
	}
	if w.payoutStart, err = parseDateParam(c, "payoutStart"); err != nil {
		return w, err
	}
	if w.payoutEnd, err = parseDateParam(c, "payoutEnd"); err != nil {
		return w, err
	}
	return w, nil
}

func (w windows) paid(rows []models.Row) []models.Row {
	return models.FilterByRange(rows, models.DatePaid, w.paidStart, w.paidEnd)
}

func (w windows) payout(rows []models.Row) []models.Row {
	return models.FilterByRange(rows, models.DatePayout, w.payoutStart, w.payoutEnd)
}

func (w windows) combined(rows []models.Row) []models.Row {
	return w.payout(w.paid(rows))
}

func reportInput(ds *Dataset, w windows, pricing *models.PricingContext) reports.Input {
	payoutRows := w.payout(ds.Rows)
	return reports.Input{
		AllRows:      ds.Rows,
		PaidRows:     w.paid(ds.Rows),
		PayoutRows:   payoutRows,
		CombinedRows: w.combined(ds.Rows),
		Pricing:      pricing,
		TopGroups: models.TopNByGroup(payoutRows, func(r *models.Row) decimal.Decimal {
			return r.PayoutCny
		}, 10),
	}
}

func requireDataset(c *gin.Context) (*Dataset, windows, bool) {
	ds := state.Dataset()
	if ds == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no dataset loaded; upload a spreadsheet first"})
		return nil, windows{}, false
	}
	w, err := windowsFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, windows{}, false
	}
	return ds, w, true
}

func summaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ds, w, ok := requireDataset(c)
		if !ok {
			return
		}
		in := reportInput(ds, w, state.Pricing())
		c.JSON(http.StatusOK, gin.H{
			"overview":  reports.BuildOverview(in),
			"topGroups": in.TopGroups,
		})
	}
}

func dailySeriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ds, w, ok := requireDataset(c)
		if !ok {
			return
		}
		pricing := state.Pricing()

		dim := models.DatePaid
		start, end := w.paidStart, w.paidEnd
		if c.DefaultQuery("dimension", "paid") == "payout" {
			dim = models.DatePayout
			start, end = w.payoutStart, w.payoutEnd
		}

		var value func(*models.Row) decimal.Decimal
		metric := c.DefaultQuery("metric", "gmv")
		switch metric {
		case "gmv":
			value = func(r *models.Row) decimal.Decimal { return r.GmvUsd }
		case "payout":
			value = func(r *models.Row) decimal.Decimal { return r.PayoutCny }
		case "profit":
			value = func(r *models.Row) decimal.Decimal { return pricing.Profit(r) }
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "metric must be gmv, payout or profit"})
			return
		}

		series := models.DailySeries(models.FilterByRange(ds.Rows, dim, start, end), dim, value, start, end)
		c.JSON(http.StatusOK, gin.H{"metric": metric, "points": series})
	}
}

func topGroupsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ds, w, ok := requireDataset(c)
		if !ok {
			return
		}
		pricing := state.Pricing()

		var value func(*models.Row) decimal.Decimal
		metric := c.DefaultQuery("metric", "payout")
		switch metric {
		case "payout":
			value = func(r *models.Row) decimal.Decimal { return r.PayoutCny }
		case "profit":
			value = func(r *models.Row) decimal.Decimal { return pricing.Profit(r) }
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "metric must be payout or profit"})
			return
		}

		n := config.IntFromEnv("TOP_GROUPS_DEFAULT_N", 10)
		if raw := c.Query("n"); raw != "" {
			if _, err := fmt.Sscanf(raw, "%d", &n); err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a positive integer"})
				return
			}
		}

		groups := models.TopNByGroup(w.payout(ds.Rows), value, n)
		c.JSON(http.StatusOK, gin.H{"metric": metric, "groups": groups})
	}
}

// recordView is one record-list line with its derived quantities. Derived
// values are computed on response, never stored on the row.
type recordView struct {
	models.Row
	RecordKey         string          `json:"recordKey"`
	LotCount          int             `json:"lotCount"`
	EffectiveUnitCost decimal.Decimal `json:"effectiveUnitCost"`
	TotalCost         decimal.Decimal `json:"totalCost"`
	Profit            decimal.Decimal `json:"profit"`
	DefaultProfit     decimal.Decimal `json:"defaultProfit"`
	HasOverride       bool            `json:"hasOverride"`
}

func recordsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ds, w, ok := requireDataset(c)
		if !ok {
			return
		}
		pricing := state.Pricing()

		rows := w.combined(ds.Rows)
		if group := c.Query("titleGroup"); group != "" {
			var filtered []models.Row
			for i := range rows {
				if rows[i].TitleGroup == group {
					filtered = append(filtered, rows[i])
				}
			}
			rows = filtered
		}
		if status := c.Query("payoutStatus"); status != "" {
			var filtered []models.Row
			for i := range rows {
				if rows[i].PayoutStatus == status {
					filtered = append(filtered, rows[i])
				}
			}
			rows = filtered
		}

		views := make([]recordView, 0, len(rows))
		for i := range rows {
			r := &rows[i]
			key := r.Key()
			_, hasOverride := pricing.Overrides[key]
			views = append(views, recordView{
				Row:               *r,
				RecordKey:         key,
				LotCount:          r.LotCount(),
				EffectiveUnitCost: pricing.EffectiveUnitCost(r),
				TotalCost:         pricing.TotalCost(r),
				Profit:            pricing.Profit(r),
				DefaultProfit:     pricing.DefaultProfit(r),
				HasOverride:       hasOverride,
			})
		}
		c.JSON(http.StatusOK, gin.H{"records": views, "count": len(views)})
	}
}

func reportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ds, w, ok := requireDataset(c)
		if !ok {
			return
		}
		report := reports.BuildAnalysisReport(reportInput(ds, w, state.Pricing()))
		c.JSON(http.StatusOK, gin.H{
			"report": report,
			"text":   report.Text(),
		})
	}
}

type costUpdateRequest struct {
	CostPerUnit float64 `json:"costPerUnit" binding:"gte=0"`
}

func bindCostUpdate(c *gin.Context) (decimal.Decimal, bool) {
	var req costUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
			return decimal.Zero, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(req.CostPerUnit), true
}

func putCategoryCostHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		cost, ok := bindCostUpdate(c)
		if !ok {
			return
		}
		category := c.Param("category")
		if err := models.UpsertCategoryCost(c.Request.Context(), config.GetDB(), category, cost); err != nil {
			config.LogError(config.GetLogger(), "analytics_api.go", "putCategoryCostHandler", "upsert", category, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save category cost"})
			return
		}
		if err := reloadPricing(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "saved but failed to reload pricing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"category": category, "costPerUnit": cost})
	}
}

func deleteCategoryCostHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		category := c.Param("category")
		if err := models.DeleteCategoryCost(c.Request.Context(), config.GetDB(), category); err != nil {
			config.LogError(config.GetLogger(), "analytics_api.go", "deleteCategoryCostHandler", "delete", category, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete category cost"})
			return
		}
		if err := reloadPricing(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "deleted but failed to reload pricing"})
			return
		}
		// The category falls back to its built-in default cost.
		c.JSON(http.StatusOK, gin.H{"category": category})
	}
}

func putRecordOverrideHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		cost, ok := bindCostUpdate(c)
		if !ok {
			return
		}
		key := c.Param("recordKey")
		if err := models.UpsertRecordOverride(c.Request.Context(), config.GetDB(), key, cost); err != nil {
			config.LogError(config.GetLogger(), "analytics_api.go", "putRecordOverrideHandler", "upsert", key, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save override"})
			return
		}
		if err := reloadPricing(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "saved but failed to reload pricing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"recordKey": key, "costPerUnit": cost})
	}
}

func deleteRecordOverrideHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("recordKey")
		if err := models.DeleteRecordOverride(c.Request.Context(), config.GetDB(), key); err != nil {
			config.LogError(config.GetLogger(), "analytics_api.go", "deleteRecordOverrideHandler", "delete", key, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete override"})
			return
		}
		if err := reloadPricing(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "deleted but failed to reload pricing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"recordKey": key})
	}
}
