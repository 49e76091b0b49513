package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/cardlotlabs/lotsales_backend/config"
	"github.com/cardlotlabs/lotsales_backend/models"
)

const maxUploadSizeBytes int64 = 20 * 1024 * 1024

// uploadOrdersHandler ingests an order spreadsheet and replaces the current
// in-memory dataset. The response reports the classification histogram and
// how many stored cost overrides re-attached to the new batch, which is the
// user-visible proof that re-importing an unchanged file keeps their edits.
func uploadOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file type: only .xlsx files are allowed"})
			return
		}
		if fileHeader.Size > maxUploadSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 20MB limit"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			config.LogError(logger, "uploads.go", "uploadOrdersHandler", "open multipart file", fileHeader.Filename, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not open uploaded file"})
			return
		}
		defer file.Close()

		raw, err := models.ReadOrderSheet(file)
		if err != nil {
			// The one ingestion failure that is surfaced to the user.
			config.LogError(logger, "uploads.go", "uploadOrdersHandler", "read order sheet", fileHeader.Filename, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("could not read spreadsheet: %v", err)})
			return
		}

		rows := models.BuildRows(raw)
		batch := &Dataset{
			ID:       uuid.NewString(),
			FileName: fileHeader.Filename,
			LoadedAt: time.Now(),
			Rows:     rows,
		}
		state.SetDataset(batch)

		pricing := state.Pricing()
		reattached := 0
		histogram := map[string]int{}
		for i := range rows {
			histogram[rows[i].TitleGroup]++
			if _, ok := pricing.Overrides[rows[i].Key()]; ok {
				reattached++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"batchId":             batch.ID,
			"fileName":            batch.FileName,
			"rows":                len(rows),
			"titleGroups":         histogram,
			"overridesReattached": reattached,
		})
	}
}

// exportOrdersHandler writes the current record-list view (both windows
// intersected) back out as .xlsx, with the derived columns alongside the
// source fields.
func exportOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ds := state.Dataset()
		if ds == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no dataset loaded"})
			return
		}

		win, err := windowsFromQuery(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		rows := win.combined(ds.Rows)
		pricing := state.Pricing()

		f := excelize.NewFile()
		sheet := "Sheet1"
		if _, err := f.NewSheet(sheet); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		headers := []string{"SKU", "Title", "TitleGroup", "PayoutStatus", "SoldQty",
			"LotCount", "GmvUsd", "PayoutCny", "UnitCost", "TotalCost", "Profit", "PaidAt", "PayoutAt"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		for i := range rows {
			r := &rows[i]
			values := []any{
				r.Sku, r.Name, r.TitleGroup, r.PayoutStatus, r.SoldQty.InexactFloat64(),
				r.LotCount(),
				r.GmvUsd.InexactFloat64(),
				r.PayoutCny.InexactFloat64(),
				pricing.EffectiveUnitCost(r).InexactFloat64(),
				pricing.TotalCost(r).InexactFloat64(),
				pricing.Profit(r).InexactFloat64(),
				formatTimeCell(r.PaidAt),
				formatTimeCell(r.PayoutAt),
			}
			for j, v := range values {
				cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
				f.SetCellValue(sheet, cell, v)
			}
		}

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		if err := f.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write file"})
		}
	}
}

func formatTimeCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
