package handler

import (
	"github.com/gin-gonic/gin"
	appinv "github.com/legumemart/backend/internal/application/inventory"
	"github.com/legumemart/backend/internal/interfaces/http/middleware"
)

// PackagingHandler serves the packaging batch workflow
type PackagingHandler struct {
	BaseHandler
	batches *appinv.PackagingService
}

// NewPackagingHandler creates a new PackagingHandler
func NewPackagingHandler(batches *appinv.PackagingService) *PackagingHandler {
	return &PackagingHandler{batches: batches}
}

// Open starts a batch and deducts the bulk weight taken
func (h *PackagingHandler) Open(c *gin.Context) {
	var req appinv.OpenBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	batch, err := h.batches.Open(c.Request.Context(), req, middleware.GetOperatorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, batch)
}

// List returns a page of batches
func (h *PackagingHandler) List(c *gin.Context) {
	var filter appinv.BatchListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	batches, total, err := h.batches.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, batches, total, page, pageSize)
}

// GetByID returns one batch with its lines
func (h *PackagingHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	batch, err := h.batches.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// Update sets the actual weight or notes of an in-progress batch
func (h *PackagingHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req appinv.UpdateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	batch, err := h.batches.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// AddItem adds a packaged product line
func (h *PackagingHandler) AddItem(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req appinv.AddPackagedItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	batch, err := h.batches.AddItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, batch)
}

// UpdateItem edits a packaged product line
func (h *PackagingHandler) UpdateItem(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.parseID(c, "itemId")
	if !ok {
		return
	}
	var req appinv.UpdatePackagedItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	batch, err := h.batches.UpdateItem(c.Request.Context(), id, lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// RemoveItem drops a packaged product line
func (h *PackagingHandler) RemoveItem(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.parseID(c, "itemId")
	if !ok {
		return
	}
	batch, err := h.batches.RemoveItem(c.Request.Context(), id, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// Complete finalizes a batch
func (h *PackagingHandler) Complete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	batch, err := h.batches.Complete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// Cancel abandons a batch and returns the weight taken to stock. The body
// is optional.
func (h *PackagingHandler) Cancel(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req appinv.CancelBatchRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}
	batch, err := h.batches.Cancel(c.Request.Context(), id, req, middleware.GetOperatorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}
