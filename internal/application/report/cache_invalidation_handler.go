package report

import (
	"context"

	"github.com/legumemart/backend/internal/domain/inventory"
	"github.com/legumemart/backend/internal/domain/partner"
	"github.com/legumemart/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CacheInvalidationHandler drops cached reports whenever the stock pipeline
// changes data a report reads
type CacheInvalidationHandler struct {
	cache  ReportCache
	logger *zap.Logger
}

// NewCacheInvalidationHandler creates a new CacheInvalidationHandler
func NewCacheInvalidationHandler(cache ReportCache, logger *zap.Logger) *CacheInvalidationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheInvalidationHandler{cache: cache, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *CacheInvalidationHandler) EventTypes() []string {
	return []string{
		inventory.EventTypeInventoryItemCreated,
		inventory.EventTypeInventoryItemUpdated,
		inventory.EventTypeInventoryItemDeactivated,
		inventory.EventTypeStockMoved,
		inventory.EventTypeAverageCostChanged,
		inventory.EventTypePurchaseRecorded,
		inventory.EventTypePurchaseAmended,
		inventory.EventTypePackagingBatchCompleted,
		inventory.EventTypePackagingBatchCancelled,
		partner.EventTypeSupplierUpdated,
	}
}

// Handle clears every cached report
func (h *CacheInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.cache.DeletePrefix(ctx, CacheKeyPrefix); err != nil {
		h.logger.Warn("failed to invalidate report cache",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return err
	}
	h.logger.Debug("report cache invalidated", zap.String("event_type", event.EventType()))
	return nil
}

var _ shared.EventHandler = (*CacheInvalidationHandler)(nil)
