package inventory

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, actual.Equal(dec(expected)), "expected %s, got %s %v", expected, actual, msgAndArgs)
}

func createTestItem(t *testing.T, unit Unit, reorderLevel string) *InventoryItem {
	t.Helper()
	item, err := NewInventoryItem("Groundnuts (loose)", "legumes", unit, dec(reorderLevel), decimal.Zero)
	require.NoError(t, err)
	item.ClearDomainEvents()
	return item
}

func stockItem(t *testing.T, item *InventoryItem, grams string) {
	t.Helper()
	_, err := item.ApplyMovement(Movement{
		Type:      TransactionTypeAdjustmentAdd,
		Quantity:  dec(grams),
		Unit:      item.Unit.BaseUnit(),
		Reference: ManualRef{},
	})
	require.NoError(t, err)
	item.ClearDomainEvents()
}

func TestNewInventoryItem(t *testing.T) {
	t.Run("creates active item with zero stock", func(t *testing.T) {
		item, err := NewInventoryItem("  Soya beans ", "legumes", UnitKilogram, dec("5000"), dec("0.8"))

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, item.ID)
		assert.Equal(t, "Soya beans", item.Name)
		assert.True(t, item.CurrentStock.IsZero())
		assertDecimal(t, "0.8", item.AverageCost)
		assert.True(t, item.TotalValue.IsZero())
		assert.True(t, item.IsActive)
		assert.Equal(t, 1, item.Version)
		require.Len(t, item.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeInventoryItemCreated, item.GetDomainEvents()[0].EventType())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewInventoryItem("  ", "", UnitGram, decimal.Zero, decimal.Zero)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})

	t.Run("fails with name too long", func(t *testing.T) {
		_, err := NewInventoryItem(strings.Repeat("n", MaxItemNameLength+1), "", UnitGram, decimal.Zero, decimal.Zero)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("fails with negative reorder level", func(t *testing.T) {
		_, err := NewInventoryItem("Beans", "", UnitGram, dec("-1"), decimal.Zero)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})

	t.Run("fails with invalid unit", func(t *testing.T) {
		_, err := NewInventoryItem("Beans", "", Unit("sack"), decimal.Zero, decimal.Zero)
		require.Error(t, err)
	})
}

func TestInventoryItem_ApplyMovement_Purchase(t *testing.T) {
	t.Run("2kg at 500 per kg into an empty gram item", func(t *testing.T) {
		item := createTestItem(t, UnitGram, "0")
		purchaseID := uuid.New()

		tx, err := item.ApplyMovement(Movement{
			Type:      TransactionTypePurchase,
			Quantity:  dec("2"),
			Unit:      UnitKilogram,
			UnitCost:  decimal.NewNullDecimal(dec("500").Div(UnitKilogram.Factor())),
			Reference: PurchaseRef{PurchaseID: purchaseID},
		})

		require.NoError(t, err)
		assertDecimal(t, "2000", item.CurrentStock)
		assertDecimal(t, "0.5", item.AverageCost)
		assertDecimal(t, "1000", item.TotalValue)

		assert.Equal(t, TransactionTypePurchase, tx.Type)
		assertDecimal(t, "2000", tx.QuantityInBaseUnit)
		assertDecimal(t, "2", tx.Quantity)
		assert.Equal(t, UnitKilogram, tx.Unit)
		assertDecimal(t, "0", tx.PreviousStock)
		assertDecimal(t, "2000", tx.NewStock)
		assert.True(t, tx.UnitCost.Valid)
		assert.Equal(t, ReferenceKindPurchase, tx.Reference.Kind())
		assert.Equal(t, purchaseID, tx.Reference.DocumentID())
	})

	t.Run("blends average cost across purchases", func(t *testing.T) {
		item := createTestItem(t, UnitGram, "0")

		_, err := item.ApplyMovement(Movement{
			Type: TransactionTypePurchase, Quantity: dec("1000"), Unit: UnitGram,
			UnitCost: decimal.NewNullDecimal(dec("0.4")), Reference: PurchaseRef{PurchaseID: uuid.New()},
		})
		require.NoError(t, err)
		_, err = item.ApplyMovement(Movement{
			Type: TransactionTypePurchase, Quantity: dec("3000"), Unit: UnitGram,
			UnitCost: decimal.NewNullDecimal(dec("0.6")), Reference: PurchaseRef{PurchaseID: uuid.New()},
		})
		require.NoError(t, err)

		// (0.4*1000 + 0.6*3000) / 4000 = 0.55
		assertDecimal(t, "0.55", item.AverageCost)
		assertDecimal(t, "2200", item.TotalValue)
	})

	t.Run("rounds repeating averages to fixed precision", func(t *testing.T) {
		item := createTestItem(t, UnitGram, "0")
		stockItem(t, item, "2000")

		_, err := item.ApplyMovement(Movement{
			Type: TransactionTypePurchase, Quantity: dec("1000"), Unit: UnitGram,
			UnitCost: decimal.NewNullDecimal(dec("1")), Reference: PurchaseRef{PurchaseID: uuid.New()},
		})
		require.NoError(t, err)

		// 1000 / 3000
		assertDecimal(t, "0.333333", item.AverageCost)
		assert.True(t, item.TotalValue.Equal(item.CurrentStock.Mul(item.AverageCost)))
	})

	t.Run("purchase without unit cost keeps average", func(t *testing.T) {
		item, err := NewInventoryItem("Beans", "", UnitGram, decimal.Zero, dec("0.3"))
		require.NoError(t, err)

		tx, err := item.ApplyMovement(Movement{
			Type: TransactionTypePurchase, Quantity: dec("100"), Unit: UnitGram,
			Reference: PurchaseRef{PurchaseID: uuid.New()},
		})
		require.NoError(t, err)
		assertDecimal(t, "0.3", item.AverageCost)
		assertDecimal(t, "30", item.TotalValue)
		assert.False(t, tx.UnitCost.Valid)
	})

	t.Run("emits stock and cost events", func(t *testing.T) {
		item := createTestItem(t, UnitGram, "0")
		_, err := item.ApplyMovement(Movement{
			Type: TransactionTypePurchase, Quantity: dec("100"), Unit: UnitGram,
			UnitCost: decimal.NewNullDecimal(dec("1")), Reference: PurchaseRef{PurchaseID: uuid.New()},
		})
		require.NoError(t, err)

		var types []string
		for _, e := range item.GetDomainEvents() {
			types = append(types, e.EventType())
		}
		assert.Equal(t, []string{EventTypeStockMoved, EventTypeAverageCostChanged}, types)
	})
}

func TestInventoryItem_ApplyMovement_Decrease(t *testing.T) {
	t.Run("insufficient stock leaves item untouched", func(t *testing.T) {
		item := createTestItem(t, UnitGram, "0")
		stockItem(t, item, "5000")
		version := item.Version

		tx, err := item.ApplyMovement(Movement{
			Type: TransactionTypeAdjustmentRemove, Quantity: dec("6000"), Unit: UnitGram, Reference: ManualRef{},
		})

		require.Error(t, err)
		assert.Nil(t, tx)
		var stockErr *InsufficientStockError
		require.True(t, errors.As(err, &stockErr))
		assertDecimal(t, "5000", stockErr.Current)
		assertDecimal(t, "6000", stockErr.Requested)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
		assert.True(t, shared.IsCode(err, shared.CodeInsufficientStock))

		assertDecimal(t, "5000", item.CurrentStock)
		assert.Equal(t, version, item.Version)
		assert.Empty(t, item.GetDomainEvents())
	})

	t.Run("taking exactly the current stock succeeds", func(t *testing.T) {
		item := createTestItem(t, UnitGram, "0")
		stockItem(t, item, "3000")

		tx, err := item.ApplyMovement(Movement{
			Type: TransactionTypePackaging, Quantity: dec("3000"), Unit: UnitGram,
			Reference: PackagingBatchRef{BatchID: uuid.New()},
		})
		require.NoError(t, err)
		assert.True(t, item.CurrentStock.IsZero())
		assertDecimal(t, "0", tx.NewStock)
	})

	t.Run("one gram over the current stock fails", func(t *testing.T) {
		item := createTestItem(t, UnitGram, "0")
		stockItem(t, item, "3000")

		_, err := item.ApplyMovement(Movement{
			Type: TransactionTypePackaging, Quantity: dec("3001"), Unit: UnitGram,
			Reference: PackagingBatchRef{BatchID: uuid.New()},
		})
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
	})

	t.Run("waste converts display units", func(t *testing.T) {
		item := createTestItem(t, UnitKilogram, "0")
		stockItem(t, item, "5000")

		tx, err := item.ApplyMovement(Movement{
			Type: TransactionTypeWaste, Quantity: dec("1.5"), Unit: UnitKilogram, Reference: ManualRef{},
		})
		require.NoError(t, err)
		assertDecimal(t, "3500", item.CurrentStock)
		assertDecimal(t, "1500", tx.QuantityInBaseUnit)
		assertDecimal(t, "-1500", tx.SignedQuantity())
	})

	t.Run("decrease keeps average cost and recomputes value", func(t *testing.T) {
		item, err := NewInventoryItem("Beans", "", UnitGram, decimal.Zero, dec("0.5"))
		require.NoError(t, err)
		stockItem(t, item, "2000")

		_, err = item.ApplyMovement(Movement{
			Type: TransactionTypeAdjustmentRemove, Quantity: dec("500"), Unit: UnitGram, Reference: ManualRef{},
		})
		require.NoError(t, err)
		assertDecimal(t, "0.5", item.AverageCost)
		assertDecimal(t, "750", item.TotalValue)
	})

	t.Run("crossing the reorder level emits low stock once", func(t *testing.T) {
		item := createTestItem(t, UnitGram, "1000")
		stockItem(t, item, "5000")

		_, err := item.ApplyMovement(Movement{
			Type: TransactionTypeAdjustmentRemove, Quantity: dec("4500"), Unit: UnitGram, Reference: ManualRef{},
		})
		require.NoError(t, err)
		assert.True(t, item.IsLowStock())

		events := item.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeLowStockReached, events[1].EventType())

		item.ClearDomainEvents()
		_, err = item.ApplyMovement(Movement{
			Type: TransactionTypeWaste, Quantity: dec("100"), Unit: UnitGram, Reference: ManualRef{},
		})
		require.NoError(t, err)
		require.Len(t, item.GetDomainEvents(), 1)
	})
}

func TestInventoryItem_ApplyMovement_Validation(t *testing.T) {
	item := createTestItem(t, UnitGram, "0")

	tests := []struct {
		name     string
		movement Movement
	}{
		{"zero quantity", Movement{Type: TransactionTypeAdjustmentAdd, Quantity: decimal.Zero, Unit: UnitGram, Reference: ManualRef{}}},
		{"negative quantity", Movement{Type: TransactionTypeAdjustmentAdd, Quantity: dec("-5"), Unit: UnitGram, Reference: ManualRef{}}},
		{"unknown type", Movement{Type: TransactionType("gift"), Quantity: dec("5"), Unit: UnitGram, Reference: ManualRef{}}},
		{"incompatible unit", Movement{Type: TransactionTypeAdjustmentAdd, Quantity: dec("5"), Unit: UnitLiter, Reference: ManualRef{}}},
		{"missing reference", Movement{Type: TransactionTypeAdjustmentAdd, Quantity: dec("5"), Unit: UnitGram}},
		{"negative unit cost", Movement{Type: TransactionTypePurchase, Quantity: dec("5"), Unit: UnitGram,
			UnitCost: decimal.NewNullDecimal(dec("-1")), Reference: PurchaseRef{PurchaseID: uuid.New()}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := item.ApplyMovement(tt.movement)
			require.Error(t, err)
			assert.True(t, shared.IsCode(err, shared.CodeValidation))
			assert.True(t, item.CurrentStock.IsZero())
		})
	}
}

func TestInventoryItem_UpdateDetails(t *testing.T) {
	t.Run("updates descriptive fields", func(t *testing.T) {
		item := createTestItem(t, UnitGram, "0")
		name := "Groundnuts (Chalimbana)"
		category := "nuts"
		unit := UnitKilogram
		level := dec("2500")

		err := item.UpdateDetails(ItemDetails{Name: &name, Category: &category, Unit: &unit, ReorderLevel: &level})

		require.NoError(t, err)
		assert.Equal(t, name, item.Name)
		assert.Equal(t, "nuts", item.Category)
		assert.Equal(t, UnitKilogram, item.Unit)
		assertDecimal(t, "2500", item.ReorderLevel)

		events := item.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeInventoryItemUpdated, events[0].EventType())
	})

	t.Run("rejects unit with a different base", func(t *testing.T) {
		item := createTestItem(t, UnitGram, "0")
		unit := UnitLiter

		err := item.UpdateDetails(ItemDetails{Unit: &unit})
		require.Error(t, err)
		assert.Equal(t, UnitGram, item.Unit)
	})

	t.Run("rejects negative reorder level", func(t *testing.T) {
		item := createTestItem(t, UnitGram, "0")
		level := dec("-10")
		assert.Error(t, item.UpdateDetails(ItemDetails{ReorderLevel: &level}))
	})
}

func TestInventoryItem_Lifecycle(t *testing.T) {
	item := createTestItem(t, UnitGram, "0")
	stockItem(t, item, "100")

	item.Deactivate()
	assert.False(t, item.IsActive)
	assert.True(t, shared.IsCode(item.EnsureActive(), shared.CodeInvalidState))
	require.Len(t, item.GetDomainEvents(), 1)
	assertDecimal(t, "100", item.CurrentStock)

	item.Deactivate()
	assert.Len(t, item.GetDomainEvents(), 1)

	item.Activate()
	assert.NoError(t, item.EnsureActive())
	require.Len(t, item.GetDomainEvents(), 2)
	assert.Equal(t, EventTypeInventoryItemUpdated, item.GetDomainEvents()[1].EventType())
}

func TestInventoryItem_TotalValueInvariant(t *testing.T) {
	item := createTestItem(t, UnitGram, "0")
	movements := []Movement{
		{Type: TransactionTypePurchase, Quantity: dec("3"), Unit: UnitKilogram, UnitCost: decimal.NewNullDecimal(dec("0.45")), Reference: PurchaseRef{PurchaseID: uuid.New()}},
		{Type: TransactionTypePackaging, Quantity: dec("1200"), Unit: UnitGram, Reference: PackagingBatchRef{BatchID: uuid.New()}},
		{Type: TransactionTypePurchase, Quantity: dec("700"), Unit: UnitGram, UnitCost: decimal.NewNullDecimal(dec("0.52")), Reference: PurchaseRef{PurchaseID: uuid.New()}},
		{Type: TransactionTypeWaste, Quantity: dec("35"), Unit: UnitGram, Reference: ManualRef{}},
		{Type: TransactionTypeAdjustmentAdd, Quantity: dec("1200"), Unit: UnitGram, Reference: PackagingBatchRef{BatchID: uuid.New()}},
	}

	var log []InventoryTransaction
	for _, m := range movements {
		tx, err := item.ApplyMovement(m)
		require.NoError(t, err)
		assert.True(t, item.TotalValue.Equal(item.CurrentStock.Mul(item.AverageCost)))
		assert.False(t, item.CurrentStock.IsNegative())
		log = append(log, *tx)
	}

	replay := ReplayLedger(item.CurrentStock, log)
	assert.True(t, replay.Consistent)
	assertDecimal(t, "3665", replay.ReplayedStock)
}
