package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/domain/inventory"
	"github.com/legumemart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InventoryItemModel is the persistence model for the InventoryItem aggregate root.
type InventoryItemModel struct {
	AggregateModel
	Name         string          `gorm:"type:varchar(100);not null;index"`
	Category     string          `gorm:"type:varchar(100);not null;default:'';index"`
	Unit         string          `gorm:"type:varchar(10);not null"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	ReorderLevel decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	AverageCost  decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0"`
	TotalValue   decimal.Decimal `gorm:"type:decimal(30,10);not null;default:0"`
	IsActive     bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the persistence model to a domain InventoryItem entity.
func (m *InventoryItemModel) ToDomain() *inventory.InventoryItem {
	return &inventory.InventoryItem{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Category:          m.Category,
		Unit:              inventory.Unit(m.Unit),
		CurrentStock:      m.CurrentStock,
		ReorderLevel:      m.ReorderLevel,
		AverageCost:       m.AverageCost,
		TotalValue:        m.TotalValue,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain InventoryItem entity.
func (m *InventoryItemModel) FromDomain(i *inventory.InventoryItem) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.Name = i.Name
	m.Category = i.Category
	m.Unit = string(i.Unit)
	m.CurrentStock = i.CurrentStock
	m.ReorderLevel = i.ReorderLevel
	m.AverageCost = i.AverageCost
	m.TotalValue = i.TotalValue
	m.IsActive = i.IsActive
}

// InventoryItemModelFromDomain creates a new persistence model from a domain InventoryItem entity.
func InventoryItemModelFromDomain(i *inventory.InventoryItem) *InventoryItemModel {
	m := &InventoryItemModel{}
	m.FromDomain(i)
	return m
}

// InventoryTransactionModel is the persistence model for the append-only
// InventoryTransaction log. The polymorphic reference is stored as a
// (reference_type, reference_id) pair.
type InventoryTransactionModel struct {
	BaseModel
	InventoryItemID    uuid.UUID           `gorm:"type:uuid;not null;index:idx_inv_tx_item_created,priority:1"`
	Type               string              `gorm:"type:varchar(30);not null;index"`
	Quantity           decimal.Decimal     `gorm:"type:decimal(20,4);not null"`
	Unit               string              `gorm:"type:varchar(10);not null"`
	QuantityInBaseUnit decimal.Decimal     `gorm:"type:decimal(20,4);not null"`
	PreviousStock      decimal.Decimal     `gorm:"type:decimal(20,4);not null"`
	NewStock           decimal.Decimal     `gorm:"type:decimal(20,4);not null"`
	UnitCost           decimal.NullDecimal `gorm:"type:decimal(20,6)"`
	ReferenceType      string              `gorm:"type:varchar(30);not null;index:idx_inv_tx_reference,priority:1"`
	ReferenceID        *uuid.UUID          `gorm:"type:uuid;index:idx_inv_tx_reference,priority:2"`
	Notes              string              `gorm:"type:text"`
	RecordedBy         *uuid.UUID          `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (InventoryTransactionModel) TableName() string {
	return "inventory_transactions"
}

// ToDomain converts the persistence model to a domain InventoryTransaction.
func (m *InventoryTransactionModel) ToDomain() (*inventory.InventoryTransaction, error) {
	ref, err := inventory.RestoreReference(m.ReferenceType, m.ReferenceID)
	if err != nil {
		return nil, fmt.Errorf("inventory transaction %s: %w", m.ID, err)
	}
	return &inventory.InventoryTransaction{
		BaseEntity:         shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		InventoryItemID:    m.InventoryItemID,
		Type:               inventory.TransactionType(m.Type),
		Quantity:           m.Quantity,
		Unit:               inventory.Unit(m.Unit),
		QuantityInBaseUnit: m.QuantityInBaseUnit,
		PreviousStock:      m.PreviousStock,
		NewStock:           m.NewStock,
		UnitCost:           m.UnitCost,
		Reference:          ref,
		Notes:              m.Notes,
		RecordedBy:         m.RecordedBy,
	}, nil
}

// FromDomain populates the persistence model from a domain InventoryTransaction.
func (m *InventoryTransactionModel) FromDomain(t *inventory.InventoryTransaction) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.InventoryItemID = t.InventoryItemID
	m.Type = string(t.Type)
	m.Quantity = t.Quantity
	m.Unit = string(t.Unit)
	m.QuantityInBaseUnit = t.QuantityInBaseUnit
	m.PreviousStock = t.PreviousStock
	m.NewStock = t.NewStock
	m.UnitCost = t.UnitCost
	m.ReferenceType = string(t.Reference.Kind())
	m.ReferenceID = nil
	if id := t.Reference.DocumentID(); id != uuid.Nil {
		m.ReferenceID = &id
	}
	m.Notes = t.Notes
	m.RecordedBy = t.RecordedBy
}

// InventoryTransactionModelFromDomain creates a new persistence model from a domain InventoryTransaction.
func InventoryTransactionModelFromDomain(t *inventory.InventoryTransaction) *InventoryTransactionModel {
	m := &InventoryTransactionModel{}
	m.FromDomain(t)
	return m
}
