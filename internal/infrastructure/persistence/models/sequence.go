package models

import "time"

// DocumentSequenceModel holds the last number issued for a scope such as
// PUR2603 or PKG260314
type DocumentSequenceModel struct {
	Scope     string    `gorm:"type:varchar(20);primary_key"`
	Value     int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}

// All returns every model, in dependency order, for auto-migration in tests
// and local sqlite runs
func All() []any {
	return []any{
		&SupplierModel{},
		&ProductModel{},
		&InventoryItemModel{},
		&InventoryTransactionModel{},
		&PurchaseModel{},
		&PackagingBatchModel{},
		&PackagedItemModel{},
		&DocumentSequenceModel{},
	}
}
