package inventory

import (
	"context"
	"fmt"

	"github.com/legumemart/backend/internal/domain/inventory"
	"github.com/legumemart/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockHandler handles LowStockReached events and forwards an alert
// to the configured notifier
type LowStockHandler struct {
	logger   *zap.Logger
	notifier StockAlertNotifier
}

// StockAlertNotifier is the interface for sending stock alerts
type StockAlertNotifier interface {
	// SendAlert sends a stock alert notification
	SendAlert(ctx context.Context, alert StockAlert) error
}

// StockAlert represents a stock level alert
type StockAlert struct {
	InventoryItemID string `json:"inventory_item_id"`
	Name            string `json:"name"`
	CurrentStock    string `json:"current_stock"`
	ReorderLevel    string `json:"reorder_level"`
	AlertType       string `json:"alert_type"` // "low_stock", "out_of_stock"
	Source          string `json:"source"`     // "movement", "scan"
}

// Alert types
const (
	AlertTypeLowStock   = "low_stock"
	AlertTypeOutOfStock = "out_of_stock"
)

// NewLowStockHandler creates a new handler for low stock events
func NewLowStockHandler(logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{
		logger: logger,
	}
}

// WithNotifier sets the notifier for sending alerts
func (h *LowStockHandler) WithNotifier(notifier StockAlertNotifier) *LowStockHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{inventory.EventTypeLowStockReached}
}

// Handle processes a LowStockReachedEvent
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	lowStock, ok := event.(*inventory.LowStockReachedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", inventory.EventTypeLowStockReached),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeLowStockReached, event.EventType())
	}

	alert := newStockAlert(lowStock.AggregateID().String(), lowStock.Name, lowStock.CurrentStock.String(),
		lowStock.ReorderLevel.String(), lowStock.CurrentStock.IsZero(), "movement")

	h.logger.Warn("stock at or below reorder level",
		zap.String("inventory_item_id", alert.InventoryItemID),
		zap.String("name", alert.Name),
		zap.String("current_stock", alert.CurrentStock),
		zap.String("reorder_level", alert.ReorderLevel),
	)

	h.send(ctx, alert)
	return nil
}

// Notify sends an alert for an item found by the periodic low stock scan
func (h *LowStockHandler) Notify(ctx context.Context, item ItemResponse) {
	h.send(ctx, newStockAlert(item.ID.String(), item.Name, item.CurrentStock.String(),
		item.ReorderLevel.String(), item.CurrentStock.IsZero(), "scan"))
}

func (h *LowStockHandler) send(ctx context.Context, alert StockAlert) {
	if h.notifier == nil {
		return
	}
	// A notification failure must not fail the event handling
	if err := h.notifier.SendAlert(ctx, alert); err != nil {
		h.logger.Error("failed to send stock alert notification",
			zap.String("inventory_item_id", alert.InventoryItemID),
			zap.Error(err),
		)
	}
}

func newStockAlert(itemID, name, current, reorder string, empty bool, source string) StockAlert {
	alertType := AlertTypeLowStock
	if empty {
		alertType = AlertTypeOutOfStock
	}
	return StockAlert{
		InventoryItemID: itemID,
		Name:            name,
		CurrentStock:    current,
		ReorderLevel:    reorder,
		AlertType:       alertType,
		Source:          source,
	}
}

// Ensure LowStockHandler implements shared.EventHandler
var _ shared.EventHandler = (*LowStockHandler)(nil)

// LoggingStockAlertNotifier is a notifier that only logs alerts
type LoggingStockAlertNotifier struct {
	logger *zap.Logger
}

// NewLoggingStockAlertNotifier creates a new logging notifier
func NewLoggingStockAlertNotifier(logger *zap.Logger) *LoggingStockAlertNotifier {
	return &LoggingStockAlertNotifier{
		logger: logger,
	}
}

// SendAlert logs the stock alert
func (n *LoggingStockAlertNotifier) SendAlert(ctx context.Context, alert StockAlert) error {
	n.logger.Warn("STOCK ALERT",
		zap.String("type", alert.AlertType),
		zap.String("inventory_item_id", alert.InventoryItemID),
		zap.String("name", alert.Name),
		zap.String("current_stock", alert.CurrentStock),
		zap.String("reorder_level", alert.ReorderLevel),
		zap.String("source", alert.Source),
	)
	return nil
}

var _ StockAlertNotifier = (*LoggingStockAlertNotifier)(nil)
