package inventory

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of inventory transaction
type TransactionType string

const (
	// TransactionTypePurchase is stock bought from a supplier
	TransactionTypePurchase TransactionType = "purchase"
	// TransactionTypePackaging is bulk stock pulled for a packaging batch
	TransactionTypePackaging TransactionType = "packaging"
	// TransactionTypeAdjustmentAdd is a positive correction, also used to return cancelled batch weight
	TransactionTypeAdjustmentAdd TransactionType = "adjustment_add"
	// TransactionTypeAdjustmentRemove is a negative correction
	TransactionTypeAdjustmentRemove TransactionType = "adjustment_remove"
	// TransactionTypeWaste is spoiled or lost stock
	TransactionTypeWaste TransactionType = "waste"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypePurchase,
		TransactionTypePackaging,
		TransactionTypeAdjustmentAdd,
		TransactionTypeAdjustmentRemove,
		TransactionTypeWaste:
		return true
	}
	return false
}

// IsIncrease returns true if this transaction type adds stock
func (t TransactionType) IsIncrease() bool {
	return t == TransactionTypePurchase || t == TransactionTypeAdjustmentAdd
}

// IsManual returns true for the types an operator may record directly
func (t TransactionType) IsManual() bool {
	switch t {
	case TransactionTypeAdjustmentAdd, TransactionTypeAdjustmentRemove, TransactionTypeWaste:
		return true
	}
	return false
}

// Sign returns +1 for increasing types and -1 otherwise
func (t TransactionType) Sign() decimal.Decimal {
	if t.IsIncrease() {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(-1)
}

// ReferenceKind tags the document a transaction points at
type ReferenceKind string

const (
	ReferenceKindPurchase       ReferenceKind = "purchase"
	ReferenceKindPackagingBatch ReferenceKind = "packaging_batch"
	ReferenceKindManual         ReferenceKind = "manual"
)

// Reference is the sealed set of documents that can cause a stock movement.
// Implementations: PurchaseRef, PackagingBatchRef, ManualRef.
type Reference interface {
	Kind() ReferenceKind
	// DocumentID returns the referenced document, or uuid.Nil for manual entries
	DocumentID() uuid.UUID
	isReference()
}

// PurchaseRef points at the purchase that produced a movement
type PurchaseRef struct {
	PurchaseID uuid.UUID
}

func (PurchaseRef) Kind() ReferenceKind { return ReferenceKindPurchase }
func (r PurchaseRef) DocumentID() uuid.UUID { return r.PurchaseID }
func (PurchaseRef) isReference() {}

// PackagingBatchRef points at the batch that consumed or returned stock
type PackagingBatchRef struct {
	BatchID uuid.UUID
}

func (PackagingBatchRef) Kind() ReferenceKind { return ReferenceKindPackagingBatch }
func (r PackagingBatchRef) DocumentID() uuid.UUID { return r.BatchID }
func (PackagingBatchRef) isReference() {}

// ManualRef marks an operator-entered adjustment
type ManualRef struct{}

func (ManualRef) Kind() ReferenceKind { return ReferenceKindManual }
func (ManualRef) DocumentID() uuid.UUID { return uuid.Nil }
func (ManualRef) isReference() {}

// RestoreReference rebuilds a Reference from its stored kind and id
func RestoreReference(kind string, id *uuid.UUID) (Reference, error) {
	switch ReferenceKind(kind) {
	case ReferenceKindPurchase:
		if id == nil {
			return nil, fmt.Errorf("purchase reference without id")
		}
		return PurchaseRef{PurchaseID: *id}, nil
	case ReferenceKindPackagingBatch:
		if id == nil {
			return nil, fmt.Errorf("packaging batch reference without id")
		}
		return PackagingBatchRef{BatchID: *id}, nil
	case ReferenceKindManual:
		return ManualRef{}, nil
	}
	return nil, fmt.Errorf("unknown reference kind %q", kind)
}

// InventoryTransaction is the immutable audit record of one stock movement.
// PreviousStock and NewStock are base-unit snapshots taken when it was applied.
type InventoryTransaction struct {
	shared.BaseEntity
	InventoryItemID    uuid.UUID
	Type               TransactionType
	Quantity           decimal.Decimal // as entered
	Unit               Unit            // as entered
	QuantityInBaseUnit decimal.Decimal
	PreviousStock      decimal.Decimal
	NewStock           decimal.Decimal
	UnitCost           decimal.NullDecimal // per base unit, purchases only
	Reference          Reference
	Notes              string
	RecordedBy         *uuid.UUID
}

// SignedQuantity returns the base-unit delta applied to stock
func (t *InventoryTransaction) SignedQuantity() decimal.Decimal {
	return t.QuantityInBaseUnit.Mul(t.Type.Sign())
}

// Movement is a request to change an item's stock through the transaction log
type Movement struct {
	Type       TransactionType
	Quantity   decimal.Decimal
	Unit       Unit
	UnitCost   decimal.NullDecimal // per base unit
	Reference  Reference
	Notes      string
	RecordedBy *uuid.UUID
}

// Validate checks the movement independently of the target item
func (m Movement) Validate() error {
	if !m.Type.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("invalid transaction type %q", m.Type))
	}
	if !m.Unit.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("invalid unit %q", m.Unit))
	}
	if !m.Quantity.IsPositive() {
		return shared.NewValidationError("quantity must be positive")
	}
	if m.UnitCost.Valid && m.UnitCost.Decimal.IsNegative() {
		return shared.NewValidationError("unit cost cannot be negative")
	}
	if m.Reference == nil {
		return shared.NewValidationError("transaction reference is required")
	}
	return nil
}

// InsufficientStockError is returned when a movement would drive stock negative.
// Current and Requested are base-unit quantities.
type InsufficientStockError struct {
	ItemID    uuid.UUID
	Current   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: current %s, requested %s", e.Current.String(), e.Requested.String())
}

// Unwrap lets callers match shared.ErrInsufficientStock
func (e *InsufficientStockError) Unwrap() error {
	return shared.ErrInsufficientStock
}

// LedgerReplay is the result of replaying an item's transaction log
type LedgerReplay struct {
	TransactionCount int
	ReplayedStock    decimal.Decimal
	RecordedStock    decimal.Decimal
	Consistent       bool
	// BrokenAt is the ID of the first transaction whose snapshots do not chain
	BrokenAt *uuid.UUID
}

// ReplayLedger replays transactions (oldest first) from zero and compares the
// result with the item's recorded stock
func ReplayLedger(recordedStock decimal.Decimal, transactions []InventoryTransaction) LedgerReplay {
	result := LedgerReplay{
		TransactionCount: len(transactions),
		ReplayedStock:    decimal.Zero,
		RecordedStock:    recordedStock,
		Consistent:       true,
	}
	for i := range transactions {
		tx := &transactions[i]
		if !tx.PreviousStock.Equal(result.ReplayedStock) ||
			!tx.NewStock.Equal(tx.PreviousStock.Add(tx.SignedQuantity())) ||
			tx.NewStock.IsNegative() {
			if result.BrokenAt == nil {
				id := tx.ID
				result.BrokenAt = &id
			}
			result.Consistent = false
		}
		result.ReplayedStock = result.ReplayedStock.Add(tx.SignedQuantity())
	}
	if !result.ReplayedStock.Equal(recordedStock) {
		result.Consistent = false
	}
	return result
}

// TransactionFilter narrows transaction log queries
type TransactionFilter struct {
	shared.Filter
	InventoryItemID *uuid.UUID
	Type            TransactionType
	ReferenceKind   ReferenceKind
	ReferenceID     *uuid.UUID
	Period          shared.DateRange
}
