package handler

import (
	"github.com/gin-gonic/gin"
	appreport "github.com/legumemart/backend/internal/application/report"
)

// ReportHandler serves the read-only reports
type ReportHandler struct {
	BaseHandler
	reports *appreport.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *appreport.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) filter(c *gin.Context) (appreport.ReportFilter, bool) {
	var filter appreport.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return filter, false
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		h.BadRequest(c, "to must not be before from")
		return filter, false
	}
	return filter, true
}

// StockValue reports the value of stock on hand
func (h *ReportHandler) StockValue(c *gin.Context) {
	filter, ok := h.filter(c)
	if !ok {
		return
	}
	result, err := h.reports.StockValue(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// PurchaseSummary totals purchases per item and supplier
func (h *ReportHandler) PurchaseSummary(c *gin.Context) {
	filter, ok := h.filter(c)
	if !ok {
		return
	}
	result, err := h.reports.PurchaseSummary(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// PackagingEfficiency summarizes completed batches
func (h *ReportHandler) PackagingEfficiency(c *gin.Context) {
	filter, ok := h.filter(c)
	if !ok {
		return
	}
	result, err := h.reports.PackagingEfficiency(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
