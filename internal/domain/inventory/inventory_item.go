package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	// MaxItemNameLength bounds InventoryItem.Name
	MaxItemNameLength = 100
	// AverageCostPrecision is the number of decimal places kept on AverageCost
	AverageCostPrecision = 6
)

// InventoryItem is a trackable bulk commodity (e.g. loose groundnuts by weight).
// It is the aggregate root for stock movements: CurrentStock is only ever
// changed through ApplyMovement, which also yields the audit transaction.
type InventoryItem struct {
	shared.BaseAggregateRoot
	Name         string
	Category     string
	Unit         Unit            // display unit
	CurrentStock decimal.Decimal // base units
	ReorderLevel decimal.Decimal // base units
	AverageCost  decimal.Decimal // per base unit
	TotalValue   decimal.Decimal
	IsActive     bool
}

// NewInventoryItem creates an active item with zero stock
func NewInventoryItem(name, category string, unit Unit, reorderLevel, initialCost decimal.Decimal) (*InventoryItem, error) {
	name = strings.TrimSpace(name)
	if err := validateItemName(name); err != nil {
		return nil, err
	}
	if !unit.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("invalid unit %q", unit))
	}
	if reorderLevel.IsNegative() {
		return nil, shared.NewValidationError("reorder level cannot be negative")
	}
	if initialCost.IsNegative() {
		return nil, shared.NewValidationError("initial cost cannot be negative")
	}

	item := &InventoryItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Category:          strings.TrimSpace(category),
		Unit:              unit,
		CurrentStock:      decimal.Zero,
		ReorderLevel:      reorderLevel,
		AverageCost:       initialCost,
		IsActive:          true,
	}
	item.recomputeTotalValue()
	item.AddDomainEvent(NewInventoryItemCreatedEvent(item))
	return item, nil
}

func validateItemName(name string) error {
	if name == "" {
		return shared.NewValidationError("name is required")
	}
	if len([]rune(name)) > MaxItemNameLength {
		return shared.NewValidationError(fmt.Sprintf("name cannot exceed %d characters", MaxItemNameLength))
	}
	return nil
}

// ItemDetails carries descriptive edits. Nil fields are left unchanged.
// There is deliberately no stock field.
type ItemDetails struct {
	Name         *string
	Category     *string
	Unit         *Unit
	ReorderLevel *decimal.Decimal
}

// UpdateDetails applies descriptive edits
func (i *InventoryItem) UpdateDetails(d ItemDetails) error {
	if d.Name != nil {
		name := strings.TrimSpace(*d.Name)
		if err := validateItemName(name); err != nil {
			return err
		}
		i.Name = name
	}
	if d.Category != nil {
		i.Category = strings.TrimSpace(*d.Category)
	}
	if d.Unit != nil {
		if !d.Unit.IsValid() {
			return shared.NewValidationError(fmt.Sprintf("invalid unit %q", *d.Unit))
		}
		if !d.Unit.CompatibleWith(i.Unit) {
			return shared.NewValidationError(fmt.Sprintf("cannot change unit from %s to %s: stock is kept in %s",
				i.Unit, *d.Unit, i.Unit.BaseUnit()))
		}
		i.Unit = *d.Unit
	}
	if d.ReorderLevel != nil {
		if d.ReorderLevel.IsNegative() {
			return shared.NewValidationError("reorder level cannot be negative")
		}
		i.ReorderLevel = *d.ReorderLevel
	}
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	i.AddDomainEvent(NewInventoryItemUpdatedEvent(i))
	return nil
}

// Deactivate soft-deletes the item. Its transaction history is kept.
func (i *InventoryItem) Deactivate() {
	if !i.IsActive {
		return
	}
	i.IsActive = false
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	i.AddDomainEvent(NewInventoryItemDeactivatedEvent(i))
}

// Activate reverses Deactivate
func (i *InventoryItem) Activate() {
	if i.IsActive {
		return
	}
	i.IsActive = true
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	i.AddDomainEvent(NewInventoryItemUpdatedEvent(i))
}

// EnsureActive rejects new purchases or batches against a deactivated item
func (i *InventoryItem) EnsureActive() error {
	if !i.IsActive {
		return shared.NewInvalidStateError(fmt.Sprintf("inventory item %s is inactive", i.Name))
	}
	return nil
}

// IsLowStock reports whether stock has fallen to the reorder level
func (i *InventoryItem) IsLowStock() bool {
	return i.CurrentStock.LessThanOrEqual(i.ReorderLevel)
}

// CanSupply reports whether baseQuantity can be taken from stock
func (i *InventoryItem) CanSupply(baseQuantity decimal.Decimal) bool {
	return i.CurrentStock.GreaterThanOrEqual(baseQuantity)
}

// FormattedStock renders CurrentStock for display
func (i *InventoryItem) FormattedStock() string {
	return FormatQuantity(i.CurrentStock, i.Unit)
}

// ApplyMovement converts, signs and guards a stock movement, then updates
// stock, average cost and total value. On any error the item is unchanged.
// The returned transaction must be persisted together with the item.
func (i *InventoryItem) ApplyMovement(m Movement) (*InventoryTransaction, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if !m.Unit.CompatibleWith(i.Unit) {
		return nil, shared.NewValidationError(fmt.Sprintf("unit %s is not compatible with item unit %s", m.Unit, i.Unit))
	}

	baseQuantity, err := ToBaseUnit(m.Quantity, m.Unit)
	if err != nil {
		return nil, err
	}

	previousStock := i.CurrentStock
	newStock := previousStock.Add(baseQuantity.Mul(m.Type.Sign()))
	if newStock.IsNegative() {
		return nil, &InsufficientStockError{
			ItemID:    i.ID,
			Current:   previousStock,
			Requested: baseQuantity,
		}
	}

	wasLow := i.IsLowStock()
	oldCost := i.AverageCost

	i.CurrentStock = newStock
	if m.Type == TransactionTypePurchase && m.UnitCost.Valid {
		i.AverageCost = weightedAverageCost(oldCost, previousStock, m.UnitCost.Decimal, baseQuantity, newStock)
	}
	i.recomputeTotalValue()
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	tx := &InventoryTransaction{
		BaseEntity:         shared.NewBaseEntity(),
		InventoryItemID:    i.ID,
		Type:               m.Type,
		Quantity:           m.Quantity,
		Unit:               m.Unit,
		QuantityInBaseUnit: baseQuantity,
		PreviousStock:      previousStock,
		NewStock:           newStock,
		Reference:          m.Reference,
		Notes:              m.Notes,
		RecordedBy:         m.RecordedBy,
	}
	if m.Type == TransactionTypePurchase {
		tx.UnitCost = m.UnitCost
	}

	i.AddDomainEvent(NewStockMovedEvent(i, tx))
	if !oldCost.Equal(i.AverageCost) {
		i.AddDomainEvent(NewAverageCostChangedEvent(i, oldCost))
	}
	if !wasLow && i.IsLowStock() {
		i.AddDomainEvent(NewLowStockReachedEvent(i))
	}
	return tx, nil
}

// weightedAverageCost blends the existing average with a purchase.
// When the resulting stock is zero the purchase cost is taken as-is.
func weightedAverageCost(oldCost, previousStock, unitCost, quantity, newStock decimal.Decimal) decimal.Decimal {
	if newStock.IsZero() {
		return unitCost
	}
	totalValue := oldCost.Mul(previousStock).Add(unitCost.Mul(quantity))
	return totalValue.DivRound(newStock, AverageCostPrecision)
}

func (i *InventoryItem) recomputeTotalValue() {
	i.TotalValue = i.CurrentStock.Mul(i.AverageCost)
}

// ItemFilter narrows inventory item queries
type ItemFilter struct {
	shared.Filter
	IsActive *bool
	Category string
	// LowStock keeps only items with current_stock <= reorder_level, evaluated at query time
	LowStock bool
	IDs      []uuid.UUID
}
