package handler

import (
	"github.com/gin-gonic/gin"
	appinv "github.com/legumemart/backend/internal/application/inventory"
	"github.com/legumemart/backend/internal/interfaces/http/middleware"
)

// PurchaseHandler serves supplier purchases
type PurchaseHandler struct {
	BaseHandler
	purchases *appinv.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchases *appinv.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases}
}

// Create records a purchase and raises the item's stock
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req appinv.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	purchase, err := h.purchases.Create(c.Request.Context(), req, middleware.GetOperatorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, purchase)
}

// List returns a page of purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	var filter appinv.PurchaseListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	purchases, total, err := h.purchases.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, purchases, total, page, pageSize)
}

// GetByID returns one purchase
func (h *PurchaseHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	purchase, err := h.purchases.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchase)
}

// Update amends payment and descriptive fields
func (h *PurchaseHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req appinv.UpdatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	purchase, err := h.purchases.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchase)
}
