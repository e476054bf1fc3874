package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// PackagingBatchModel is the persistence model for the PackagingBatch aggregate root.
type PackagingBatchModel struct {
	AggregateModel
	BatchNumber         string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	InventoryItemID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	WeightTaken         decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	ActualWeight        decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	WeightVariance      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	TotalPackagedWeight decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	WasteWeight         decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	Status              string          `gorm:"type:varchar(20);not null;default:'in_progress';index"`
	Notes               string          `gorm:"type:text"`
	ProcessedBy         *uuid.UUID      `gorm:"type:uuid"`
	CompletedAt         *time.Time
	CancelledAt         *time.Time
	// Associations
	Items []PackagedItemModel `gorm:"foreignKey:BatchID;references:ID"`
}

// TableName returns the table name for GORM
func (PackagingBatchModel) TableName() string {
	return "packaging_batches"
}

// ToDomain converts the persistence model to a domain PackagingBatch.
// Derived weights are read as stored; they were computed by the domain on save.
func (m *PackagingBatchModel) ToDomain() *inventory.PackagingBatch {
	b := &inventory.PackagingBatch{
		BaseAggregateRoot:   m.ToDomainAggregateRoot(),
		BatchNumber:         m.BatchNumber,
		InventoryItemID:     m.InventoryItemID,
		WeightTaken:         m.WeightTaken,
		ActualWeight:        m.ActualWeight,
		WeightVariance:      m.WeightVariance,
		PackagedItems:       make([]inventory.PackagedItem, len(m.Items)),
		TotalPackagedWeight: m.TotalPackagedWeight,
		WasteWeight:         m.WasteWeight,
		Status:              inventory.BatchStatus(m.Status),
		Notes:               m.Notes,
		ProcessedBy:         m.ProcessedBy,
		CompletedAt:         m.CompletedAt,
		CancelledAt:         m.CancelledAt,
	}
	for i := range m.Items {
		b.PackagedItems[i] = m.Items[i].ToDomain()
	}
	return b
}

// FromDomain populates the persistence model from a domain PackagingBatch.
func (m *PackagingBatchModel) FromDomain(b *inventory.PackagingBatch) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.BatchNumber = b.BatchNumber
	m.InventoryItemID = b.InventoryItemID
	m.WeightTaken = b.WeightTaken
	m.ActualWeight = b.ActualWeight
	m.WeightVariance = b.WeightVariance
	m.TotalPackagedWeight = b.TotalPackagedWeight
	m.WasteWeight = b.WasteWeight
	m.Status = string(b.Status)
	m.Notes = b.Notes
	m.ProcessedBy = b.ProcessedBy
	m.CompletedAt = b.CompletedAt
	m.CancelledAt = b.CancelledAt
	m.Items = make([]PackagedItemModel, len(b.PackagedItems))
	for i := range b.PackagedItems {
		m.Items[i] = PackagedItemModelFromDomain(b.ID, i, &b.PackagedItems[i])
	}
}

// PackagingBatchModelFromDomain creates a new persistence model from a domain PackagingBatch.
func PackagingBatchModelFromDomain(b *inventory.PackagingBatch) *PackagingBatchModel {
	m := &PackagingBatchModel{}
	m.FromDomain(b)
	return m
}

// PackagedItemModel is one retail product line of a packaging batch.
// Position keeps the lines in the order they were added.
type PackagedItemModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	BatchID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position     int             `gorm:"not null"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName  string          `gorm:"type:varchar(200);not null"`
	Quantity     int             `gorm:"not null"`
	UnitWeight   decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	TotalWeight  decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(20,4);not null"`
}

// TableName returns the table name for GORM
func (PackagedItemModel) TableName() string {
	return "packaged_items"
}

// ToDomain converts the persistence model to a domain PackagedItem.
func (m *PackagedItemModel) ToDomain() inventory.PackagedItem {
	return inventory.PackagedItem{
		ID:           m.ID,
		ProductID:    m.ProductID,
		ProductName:  m.ProductName,
		Quantity:     m.Quantity,
		UnitWeight:   m.UnitWeight,
		TotalWeight:  m.TotalWeight,
		SellingPrice: m.SellingPrice,
	}
}

// PackagedItemModelFromDomain creates a persistence model for a batch line.
func PackagedItemModelFromDomain(batchID uuid.UUID, position int, p *inventory.PackagedItem) PackagedItemModel {
	return PackagedItemModel{
		ID:           p.ID,
		BatchID:      batchID,
		Position:     position,
		ProductID:    p.ProductID,
		ProductName:  p.ProductName,
		Quantity:     p.Quantity,
		UnitWeight:   p.UnitWeight,
		TotalWeight:  p.TotalWeight,
		SellingPrice: p.SellingPrice,
	}
}
