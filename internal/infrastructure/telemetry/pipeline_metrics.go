package telemetry

import (
	"context"
	"errors"

	"github.com/legumemart/backend/internal/domain/inventory"
	"github.com/legumemart/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics turns stock pipeline events into counters. It subscribes to
// the event bus, so services stay unaware of metrics.
type PipelineMetrics struct {
	movements      metric.Int64Counter
	movedQuantity  metric.Float64Counter
	purchases      metric.Int64Counter
	purchaseSpend  metric.Float64Counter
	batches        metric.Int64Counter
	batchWeight    metric.Float64Counter
	lowStockAlerts metric.Int64Counter
}

// NewPipelineMetrics registers the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	var m PipelineMetrics
	var err, e error

	m.movements, e = meter.Int64Counter("legume_stock_movements_total",
		metric.WithDescription("Inventory transactions recorded"), metric.WithUnit("{transactions}"))
	err = errors.Join(err, e)
	m.movedQuantity, e = meter.Float64Counter("legume_stock_moved_base_units_total",
		metric.WithDescription("Absolute stock moved, in base units"), metric.WithUnit("{base_units}"))
	err = errors.Join(err, e)
	m.purchases, e = meter.Int64Counter("legume_purchases_total",
		metric.WithDescription("Supplier purchases recorded"), metric.WithUnit("{purchases}"))
	err = errors.Join(err, e)
	m.purchaseSpend, e = meter.Float64Counter("legume_purchase_spend_total",
		metric.WithDescription("Total cost of recorded purchases"), metric.WithUnit("{currency}"))
	err = errors.Join(err, e)
	m.batches, e = meter.Int64Counter("legume_packaging_batches_total",
		metric.WithDescription("Packaging batches by lifecycle transition"), metric.WithUnit("{batches}"))
	err = errors.Join(err, e)
	m.batchWeight, e = meter.Float64Counter("legume_packaging_weight_taken_total",
		metric.WithDescription("Bulk weight taken by packaging batches, in base units"), metric.WithUnit("{base_units}"))
	err = errors.Join(err, e)
	m.lowStockAlerts, e = meter.Int64Counter("legume_low_stock_alerts_total",
		metric.WithDescription("Items crossing down to their reorder level"), metric.WithUnit("{alerts}"))
	err = errors.Join(err, e)

	if err != nil {
		return nil, err
	}
	return &m, nil
}

// EventTypes implements shared.EventHandler
func (m *PipelineMetrics) EventTypes() []string {
	return []string{
		inventory.EventTypeStockMoved,
		inventory.EventTypePurchaseRecorded,
		inventory.EventTypePackagingBatchOpened,
		inventory.EventTypePackagingBatchCompleted,
		inventory.EventTypePackagingBatchCancelled,
		inventory.EventTypeLowStockReached,
	}
}

// Handle implements shared.EventHandler
func (m *PipelineMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *inventory.StockMovedEvent:
		attrs := metric.WithAttributes(attribute.String("transaction_type", e.TransactionType.String()))
		m.movements.Add(ctx, 1, attrs)
		m.movedQuantity.Add(ctx, e.QuantityInBaseUnit.Abs().InexactFloat64(), attrs)
	case *inventory.PurchaseRecordedEvent:
		m.purchases.Add(ctx, 1)
		m.purchaseSpend.Add(ctx, e.TotalCost.InexactFloat64())
	case *inventory.PackagingBatchEvent:
		attrs := metric.WithAttributes(attribute.String("status", string(e.Status)))
		m.batches.Add(ctx, 1, attrs)
		if e.EventType() == inventory.EventTypePackagingBatchOpened {
			m.batchWeight.Add(ctx, e.WeightTaken.InexactFloat64())
		}
	case *inventory.LowStockReachedEvent:
		m.lowStockAlerts.Add(ctx, 1)
	}
	return nil
}

var _ shared.EventHandler = (*PipelineMetrics)(nil)
