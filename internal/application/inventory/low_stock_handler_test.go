package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/domain/inventory"
	"github.com/legumemart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// MockStockAlertNotifier is a mock notifier for testing
type MockStockAlertNotifier struct {
	mu     sync.Mutex
	alerts []StockAlert
	err    error
}

func NewMockStockAlertNotifier() *MockStockAlertNotifier {
	return &MockStockAlertNotifier{
		alerts: make([]StockAlert, 0),
	}
}

func (n *MockStockAlertNotifier) SendAlert(ctx context.Context, alert StockAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
	return n.err
}

func (n *MockStockAlertNotifier) GetAlerts() []StockAlert {
	n.mu.Lock()
	defer n.mu.Unlock()
	result := make([]StockAlert, len(n.alerts))
	copy(result, n.alerts)
	return result
}

func (n *MockStockAlertNotifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = make([]StockAlert, 0)
	n.err = nil
}

func lowStockEvent(itemID uuid.UUID, current, reorder int64) *inventory.LowStockReachedEvent {
	return &inventory.LowStockReachedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(inventory.EventTypeLowStockReached, inventory.AggregateTypeInventoryItem, itemID),
		Name:            "Red Beans",
		CurrentStock:    decimal.NewFromInt(current),
		ReorderLevel:    decimal.NewFromInt(reorder),
	}
}

func TestLowStockHandler_Handle(t *testing.T) {
	logger := zaptest.NewLogger(t)
	notifier := NewMockStockAlertNotifier()

	handler := NewLowStockHandler(logger).WithNotifier(notifier)
	itemID := uuid.New()

	t.Run("handles low stock event", func(t *testing.T) {
		notifier.Reset()

		err := handler.Handle(context.Background(), lowStockEvent(itemID, 4000, 5000))
		require.NoError(t, err)

		alerts := notifier.GetAlerts()
		require.Len(t, alerts, 1)
		assert.Equal(t, AlertTypeLowStock, alerts[0].AlertType)
		assert.Equal(t, itemID.String(), alerts[0].InventoryItemID)
		assert.Equal(t, "Red Beans", alerts[0].Name)
		assert.Equal(t, "4000", alerts[0].CurrentStock)
		assert.Equal(t, "5000", alerts[0].ReorderLevel)
		assert.Equal(t, "movement", alerts[0].Source)
	})

	t.Run("handles out of stock event", func(t *testing.T) {
		notifier.Reset()

		err := handler.Handle(context.Background(), lowStockEvent(itemID, 0, 5000))
		require.NoError(t, err)

		alerts := notifier.GetAlerts()
		require.Len(t, alerts, 1)
		assert.Equal(t, AlertTypeOutOfStock, alerts[0].AlertType)
	})

	t.Run("notifier failure does not fail handling", func(t *testing.T) {
		notifier.Reset()
		notifier.err = errors.New("sms gateway down")

		err := handler.Handle(context.Background(), lowStockEvent(itemID, 10, 5000))
		assert.NoError(t, err)
	})

	t.Run("returns error for wrong event type", func(t *testing.T) {
		wrongEvent := &inventory.InventoryItemDeactivatedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(inventory.EventTypeInventoryItemDeactivated, inventory.AggregateTypeInventoryItem, itemID),
		}

		err := handler.Handle(context.Background(), wrongEvent)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected event type")
	})
}

func TestLowStockHandler_Notify(t *testing.T) {
	notifier := NewMockStockAlertNotifier()
	handler := NewLowStockHandler(zap.NewNop()).WithNotifier(notifier)

	handler.Notify(context.Background(), ItemResponse{
		ID:           uuid.New(),
		Name:         "Soya Beans",
		CurrentStock: decimal.NewFromInt(200),
		ReorderLevel: decimal.NewFromInt(1000),
	})

	alerts := notifier.GetAlerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, "scan", alerts[0].Source)
	assert.Equal(t, AlertTypeLowStock, alerts[0].AlertType)
}

func TestLowStockHandler_EventTypes(t *testing.T) {
	handler := NewLowStockHandler(zap.NewNop())

	eventTypes := handler.EventTypes()
	assert.Len(t, eventTypes, 1)
	assert.Equal(t, inventory.EventTypeLowStockReached, eventTypes[0])
}

func TestLoggingStockAlertNotifier_SendAlert(t *testing.T) {
	notifier := NewLoggingStockAlertNotifier(zaptest.NewLogger(t))

	alert := StockAlert{
		InventoryItemID: uuid.New().String(),
		Name:            "Red Beans",
		CurrentStock:    "5",
		ReorderLevel:    "10",
		AlertType:       AlertTypeLowStock,
		Source:          "scan",
	}

	err := notifier.SendAlert(context.Background(), alert)
	assert.NoError(t, err)
}
