package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// QualityGrade is the supplier lot grade assigned on receipt
type QualityGrade string

const (
	QualityGradeA        QualityGrade = "A"
	QualityGradeB        QualityGrade = "B"
	QualityGradeC        QualityGrade = "C"
	QualityGradeUngraded QualityGrade = "ungraded"
)

// IsValid returns true if the grade is known
func (g QualityGrade) IsValid() bool {
	switch g {
	case QualityGradeA, QualityGradeB, QualityGradeC, QualityGradeUngraded:
		return true
	}
	return false
}

// PaymentMethod is how the supplier was paid. All methods are offline.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodMobileMoney  PaymentMethod = "mobile_money"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// IsValid returns true if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodMobileMoney, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// PaymentStatus tracks settlement with the supplier
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
)

// IsValid returns true if the payment status is known
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusPartial:
		return true
	}
	return false
}

// Purchase is a commercial purchase of bulk stock from a supplier.
// It produces exactly one purchase transaction when recorded; quantity,
// unit, price and item are fixed from then on.
type Purchase struct {
	shared.BaseAggregateRoot
	PurchaseNumber  string
	InventoryItemID uuid.UUID
	SupplierID      *uuid.UUID
	Quantity        decimal.Decimal
	Unit            Unit
	UnitPrice       decimal.Decimal // per display unit
	TotalCost       decimal.Decimal
	Location        string
	PurchaseDate    time.Time
	QualityGrade    QualityGrade
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	Notes           string
	RecordedBy      *uuid.UUID
}

// PurchaseInput holds the fields needed to record a purchase
type PurchaseInput struct {
	InventoryItemID uuid.UUID
	SupplierID      *uuid.UUID
	Quantity        decimal.Decimal
	Unit            Unit
	UnitPrice       decimal.Decimal
	TotalCost       *decimal.Decimal
	Location        string
	PurchaseDate    *time.Time
	QualityGrade    QualityGrade
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	Notes           string
	RecordedBy      *uuid.UUID
}

// NewPurchase validates input and applies defaults. The purchase number is
// assigned by the caller from the monthly sequence.
func NewPurchase(purchaseNumber string, in PurchaseInput, now time.Time) (*Purchase, error) {
	if purchaseNumber == "" {
		return nil, shared.NewValidationError("purchase number is required")
	}
	if in.InventoryItemID == uuid.Nil {
		return nil, shared.NewValidationError("inventory item is required")
	}
	if !in.Quantity.IsPositive() {
		return nil, shared.NewValidationError("quantity must be positive")
	}
	if !in.Unit.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("invalid unit %q", in.Unit))
	}
	if in.UnitPrice.IsNegative() {
		return nil, shared.NewValidationError("unit price cannot be negative")
	}

	p := &Purchase{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PurchaseNumber:    purchaseNumber,
		InventoryItemID:   in.InventoryItemID,
		SupplierID:        in.SupplierID,
		Quantity:          in.Quantity,
		Unit:              in.Unit,
		UnitPrice:         in.UnitPrice,
		TotalCost:         in.Quantity.Mul(in.UnitPrice),
		Location:          strings.TrimSpace(in.Location),
		PurchaseDate:      now,
		QualityGrade:      QualityGradeUngraded,
		PaymentMethod:     PaymentMethodCash,
		PaymentStatus:     PaymentStatusPaid,
		Notes:             in.Notes,
		RecordedBy:        in.RecordedBy,
	}
	if in.TotalCost != nil {
		if in.TotalCost.IsNegative() {
			return nil, shared.NewValidationError("total cost cannot be negative")
		}
		p.TotalCost = *in.TotalCost
	}
	if in.PurchaseDate != nil {
		p.PurchaseDate = *in.PurchaseDate
	}
	if in.QualityGrade != "" {
		if !in.QualityGrade.IsValid() {
			return nil, shared.NewValidationError(fmt.Sprintf("invalid quality grade %q", in.QualityGrade))
		}
		p.QualityGrade = in.QualityGrade
	}
	if in.PaymentMethod != "" {
		if !in.PaymentMethod.IsValid() {
			return nil, shared.NewValidationError(fmt.Sprintf("invalid payment method %q", in.PaymentMethod))
		}
		p.PaymentMethod = in.PaymentMethod
	}
	if in.PaymentStatus != "" {
		if !in.PaymentStatus.IsValid() {
			return nil, shared.NewValidationError(fmt.Sprintf("invalid payment status %q", in.PaymentStatus))
		}
		p.PaymentStatus = in.PaymentStatus
	}

	p.AddDomainEvent(NewPurchaseRecordedEvent(p))
	return p, nil
}

// UnitCostPerBaseUnit converts the display-unit price to a cost per base unit
func (p *Purchase) UnitCostPerBaseUnit() decimal.Decimal {
	return p.UnitPrice.Div(p.Unit.Factor())
}

// StockMovement builds the purchase movement for the transaction log
func (p *Purchase) StockMovement() Movement {
	return Movement{
		Type:       TransactionTypePurchase,
		Quantity:   p.Quantity,
		Unit:       p.Unit,
		UnitCost:   decimal.NewNullDecimal(p.UnitCostPerBaseUnit()),
		Reference:  PurchaseRef{PurchaseID: p.ID},
		Notes:      p.Notes,
		RecordedBy: p.RecordedBy,
	}
}

// PurchaseAmendment is a post-creation edit. The quantity fields exist so a
// request carrying them can be refused instead of silently dropped.
type PurchaseAmendment struct {
	Notes         *string
	PaymentStatus *PaymentStatus
	PaymentMethod *PaymentMethod
	QualityGrade  *QualityGrade
	Location      *string

	InventoryItemID *uuid.UUID
	Quantity        *decimal.Decimal
	Unit            *Unit
	UnitPrice       *decimal.Decimal
	TotalCost       *decimal.Decimal
}

func (a PurchaseAmendment) immutableFields() []string {
	var fields []string
	if a.InventoryItemID != nil {
		fields = append(fields, "inventory_item_id")
	}
	if a.Quantity != nil {
		fields = append(fields, "quantity")
	}
	if a.Unit != nil {
		fields = append(fields, "unit")
	}
	if a.UnitPrice != nil {
		fields = append(fields, "unit_price")
	}
	if a.TotalCost != nil {
		fields = append(fields, "total_cost")
	}
	return fields
}

// Amend applies non-quantity edits. Nothing changes if any field is rejected.
func (p *Purchase) Amend(a PurchaseAmendment) error {
	if fields := a.immutableFields(); len(fields) > 0 {
		return shared.NewInvalidStateError(fmt.Sprintf(
			"cannot change %s after the purchase has been applied to stock", strings.Join(fields, ", ")))
	}
	if a.PaymentStatus != nil && !a.PaymentStatus.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("invalid payment status %q", *a.PaymentStatus))
	}
	if a.PaymentMethod != nil && !a.PaymentMethod.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("invalid payment method %q", *a.PaymentMethod))
	}
	if a.QualityGrade != nil && !a.QualityGrade.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("invalid quality grade %q", *a.QualityGrade))
	}

	if a.Notes != nil {
		p.Notes = *a.Notes
	}
	if a.PaymentStatus != nil {
		p.PaymentStatus = *a.PaymentStatus
	}
	if a.PaymentMethod != nil {
		p.PaymentMethod = *a.PaymentMethod
	}
	if a.QualityGrade != nil {
		p.QualityGrade = *a.QualityGrade
	}
	if a.Location != nil {
		p.Location = strings.TrimSpace(*a.Location)
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewPurchaseAmendedEvent(p))
	return nil
}

// PurchaseFilter narrows purchase queries
type PurchaseFilter struct {
	shared.Filter
	InventoryItemID *uuid.UUID
	SupplierID      *uuid.UUID
	PaymentStatus   PaymentStatus
	Period          shared.DateRange
}
