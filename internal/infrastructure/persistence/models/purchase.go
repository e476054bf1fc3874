package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// PurchaseModel is the persistence model for the Purchase aggregate root.
type PurchaseModel struct {
	AggregateModel
	PurchaseNumber  string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierID      *uuid.UUID      `gorm:"type:uuid;index"`
	Quantity        decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Unit            string          `gorm:"type:varchar(10);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	TotalCost       decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Location        string          `gorm:"type:varchar(100)"`
	PurchaseDate    time.Time       `gorm:"not null;index"`
	QualityGrade    string          `gorm:"type:varchar(10);not null;default:'ungraded'"`
	PaymentMethod   string          `gorm:"type:varchar(20);not null;default:'cash'"`
	PaymentStatus   string          `gorm:"type:varchar(20);not null;default:'paid';index"`
	Notes           string          `gorm:"type:text"`
	RecordedBy      *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (PurchaseModel) TableName() string {
	return "inventory_purchases"
}

// ToDomain converts the persistence model to a domain Purchase entity.
func (m *PurchaseModel) ToDomain() *inventory.Purchase {
	return &inventory.Purchase{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		PurchaseNumber:    m.PurchaseNumber,
		InventoryItemID:   m.InventoryItemID,
		SupplierID:        m.SupplierID,
		Quantity:          m.Quantity,
		Unit:              inventory.Unit(m.Unit),
		UnitPrice:         m.UnitPrice,
		TotalCost:         m.TotalCost,
		Location:          m.Location,
		PurchaseDate:      m.PurchaseDate,
		QualityGrade:      inventory.QualityGrade(m.QualityGrade),
		PaymentMethod:     inventory.PaymentMethod(m.PaymentMethod),
		PaymentStatus:     inventory.PaymentStatus(m.PaymentStatus),
		Notes:             m.Notes,
		RecordedBy:        m.RecordedBy,
	}
}

// FromDomain populates the persistence model from a domain Purchase entity.
func (m *PurchaseModel) FromDomain(p *inventory.Purchase) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.PurchaseNumber = p.PurchaseNumber
	m.InventoryItemID = p.InventoryItemID
	m.SupplierID = p.SupplierID
	m.Quantity = p.Quantity
	m.Unit = string(p.Unit)
	m.UnitPrice = p.UnitPrice
	m.TotalCost = p.TotalCost
	m.Location = p.Location
	m.PurchaseDate = p.PurchaseDate
	m.QualityGrade = string(p.QualityGrade)
	m.PaymentMethod = string(p.PaymentMethod)
	m.PaymentStatus = string(p.PaymentStatus)
	m.Notes = p.Notes
	m.RecordedBy = p.RecordedBy
}

// PurchaseModelFromDomain creates a new persistence model from a domain Purchase entity.
func PurchaseModelFromDomain(p *inventory.Purchase) *PurchaseModel {
	m := &PurchaseModel{}
	m.FromDomain(p)
	return m
}
