package inventory

import (
	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeInventoryItem  = "InventoryItem"
	AggregateTypePurchase       = "InventoryPurchase"
	AggregateTypePackagingBatch = "PackagingBatch"
)

// Event type constants
const (
	EventTypeInventoryItemCreated     = "InventoryItemCreated"
	EventTypeInventoryItemUpdated     = "InventoryItemUpdated"
	EventTypeInventoryItemDeactivated = "InventoryItemDeactivated"
	EventTypeStockMoved               = "StockMoved"
	EventTypeAverageCostChanged       = "AverageCostChanged"
	EventTypeLowStockReached          = "LowStockReached"
	EventTypePurchaseRecorded         = "PurchaseRecorded"
	EventTypePurchaseAmended          = "PurchaseAmended"
	EventTypePackagingBatchOpened     = "PackagingBatchOpened"
	EventTypePackagingBatchCompleted  = "PackagingBatchCompleted"
	EventTypePackagingBatchCancelled  = "PackagingBatchCancelled"
)

// InventoryItemCreatedEvent is raised when an item is registered
type InventoryItemCreatedEvent struct {
	shared.BaseDomainEvent
	Name     string `json:"name"`
	Category string `json:"category"`
	Unit     Unit   `json:"unit"`
}

// NewInventoryItemCreatedEvent creates a new InventoryItemCreatedEvent
func NewInventoryItemCreatedEvent(item *InventoryItem) *InventoryItemCreatedEvent {
	return &InventoryItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryItemCreated, AggregateTypeInventoryItem, item.ID),
		Name:            item.Name,
		Category:        item.Category,
		Unit:            item.Unit,
	}
}

// InventoryItemUpdatedEvent is raised when descriptive fields change or the
// item is reactivated
type InventoryItemUpdatedEvent struct {
	shared.BaseDomainEvent
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	IsActive     bool            `json:"is_active"`
}

// NewInventoryItemUpdatedEvent creates a new InventoryItemUpdatedEvent
func NewInventoryItemUpdatedEvent(item *InventoryItem) *InventoryItemUpdatedEvent {
	return &InventoryItemUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryItemUpdated, AggregateTypeInventoryItem, item.ID),
		Name:            item.Name,
		Category:        item.Category,
		ReorderLevel:    item.ReorderLevel,
		IsActive:        item.IsActive,
	}
}

// InventoryItemDeactivatedEvent is raised on soft delete
type InventoryItemDeactivatedEvent struct {
	shared.BaseDomainEvent
}

// NewInventoryItemDeactivatedEvent creates a new InventoryItemDeactivatedEvent
func NewInventoryItemDeactivatedEvent(item *InventoryItem) *InventoryItemDeactivatedEvent {
	return &InventoryItemDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryItemDeactivated, AggregateTypeInventoryItem, item.ID),
	}
}

// StockMovedEvent is raised for every applied inventory transaction
type StockMovedEvent struct {
	shared.BaseDomainEvent
	TransactionID      uuid.UUID       `json:"transaction_id"`
	TransactionType    TransactionType `json:"transaction_type"`
	QuantityInBaseUnit decimal.Decimal `json:"quantity_in_base_unit"`
	PreviousStock      decimal.Decimal `json:"previous_stock"`
	NewStock           decimal.Decimal `json:"new_stock"`
	ReferenceKind      ReferenceKind   `json:"reference_kind"`
	ReferenceID        uuid.UUID       `json:"reference_id"`
}

// NewStockMovedEvent creates a new StockMovedEvent
func NewStockMovedEvent(item *InventoryItem, tx *InventoryTransaction) *StockMovedEvent {
	return &StockMovedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeStockMoved, AggregateTypeInventoryItem, item.ID),
		TransactionID:      tx.ID,
		TransactionType:    tx.Type,
		QuantityInBaseUnit: tx.QuantityInBaseUnit,
		PreviousStock:      tx.PreviousStock,
		NewStock:           tx.NewStock,
		ReferenceKind:      tx.Reference.Kind(),
		ReferenceID:        tx.Reference.DocumentID(),
	}
}

// AverageCostChangedEvent is raised when a purchase moves the average cost
type AverageCostChangedEvent struct {
	shared.BaseDomainEvent
	OldCost decimal.Decimal `json:"old_cost"`
	NewCost decimal.Decimal `json:"new_cost"`
}

// NewAverageCostChangedEvent creates a new AverageCostChangedEvent
func NewAverageCostChangedEvent(item *InventoryItem, oldCost decimal.Decimal) *AverageCostChangedEvent {
	return &AverageCostChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAverageCostChanged, AggregateTypeInventoryItem, item.ID),
		OldCost:         oldCost,
		NewCost:         item.AverageCost,
	}
}

// LowStockReachedEvent is raised when stock crosses down to the reorder level
type LowStockReachedEvent struct {
	shared.BaseDomainEvent
	Name         string          `json:"name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

// NewLowStockReachedEvent creates a new LowStockReachedEvent
func NewLowStockReachedEvent(item *InventoryItem) *LowStockReachedEvent {
	return &LowStockReachedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLowStockReached, AggregateTypeInventoryItem, item.ID),
		Name:            item.Name,
		CurrentStock:    item.CurrentStock,
		ReorderLevel:    item.ReorderLevel,
	}
}

// PurchaseRecordedEvent is raised when a purchase is created
type PurchaseRecordedEvent struct {
	shared.BaseDomainEvent
	PurchaseNumber  string          `json:"purchase_number"`
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	TotalCost       decimal.Decimal `json:"total_cost"`
}

// NewPurchaseRecordedEvent creates a new PurchaseRecordedEvent
func NewPurchaseRecordedEvent(p *Purchase) *PurchaseRecordedEvent {
	return &PurchaseRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseRecorded, AggregateTypePurchase, p.ID),
		PurchaseNumber:  p.PurchaseNumber,
		InventoryItemID: p.InventoryItemID,
		TotalCost:       p.TotalCost,
	}
}

// PurchaseAmendedEvent is raised when non-quantity purchase fields change
type PurchaseAmendedEvent struct {
	shared.BaseDomainEvent
	PaymentStatus PaymentStatus `json:"payment_status"`
}

// NewPurchaseAmendedEvent creates a new PurchaseAmendedEvent
func NewPurchaseAmendedEvent(p *Purchase) *PurchaseAmendedEvent {
	return &PurchaseAmendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseAmended, AggregateTypePurchase, p.ID),
		PaymentStatus:   p.PaymentStatus,
	}
}

// PackagingBatchEvent is raised on batch lifecycle transitions
type PackagingBatchEvent struct {
	shared.BaseDomainEvent
	BatchNumber     string          `json:"batch_number"`
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	Status          BatchStatus     `json:"status"`
	WeightTaken     decimal.Decimal `json:"weight_taken"`
}

func newPackagingBatchEvent(eventType string, b *PackagingBatch) *PackagingBatchEvent {
	return &PackagingBatchEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypePackagingBatch, b.ID),
		BatchNumber:     b.BatchNumber,
		InventoryItemID: b.InventoryItemID,
		Status:          b.Status,
		WeightTaken:     b.WeightTaken,
	}
}
