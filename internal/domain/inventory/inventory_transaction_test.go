package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionType(t *testing.T) {
	increasing := []TransactionType{TransactionTypePurchase, TransactionTypeAdjustmentAdd}
	decreasing := []TransactionType{TransactionTypePackaging, TransactionTypeAdjustmentRemove, TransactionTypeWaste}

	for _, tt := range increasing {
		assert.True(t, tt.IsValid())
		assert.True(t, tt.IsIncrease(), tt)
		assert.Equal(t, int64(1), tt.Sign().IntPart())
	}
	for _, tt := range decreasing {
		assert.True(t, tt.IsValid())
		assert.False(t, tt.IsIncrease(), tt)
		assert.Equal(t, int64(-1), tt.Sign().IntPart())
	}

	assert.False(t, TransactionTypePurchase.IsManual())
	assert.False(t, TransactionTypePackaging.IsManual())
	assert.True(t, TransactionTypeWaste.IsManual())
	assert.False(t, TransactionType("transfer").IsValid())
}

func TestRestoreReference(t *testing.T) {
	id := uuid.New()

	ref, err := RestoreReference("purchase", &id)
	require.NoError(t, err)
	assert.Equal(t, PurchaseRef{PurchaseID: id}, ref)

	ref, err = RestoreReference("packaging_batch", &id)
	require.NoError(t, err)
	assert.Equal(t, PackagingBatchRef{BatchID: id}, ref)

	ref, err = RestoreReference("manual", nil)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, ref.DocumentID())

	_, err = RestoreReference("purchase", nil)
	assert.Error(t, err)
	_, err = RestoreReference("invoice", &id)
	assert.Error(t, err)
}

func TestReplayLedger(t *testing.T) {
	item := createTestItem(t, UnitGram, "0")
	var log []InventoryTransaction
	for _, m := range []Movement{
		{Type: TransactionTypeAdjustmentAdd, Quantity: dec("5000"), Unit: UnitGram, Reference: ManualRef{}},
		{Type: TransactionTypePackaging, Quantity: dec("3000"), Unit: UnitGram, Reference: PackagingBatchRef{BatchID: uuid.New()}},
		{Type: TransactionTypeAdjustmentAdd, Quantity: dec("3000"), Unit: UnitGram, Reference: PackagingBatchRef{BatchID: uuid.New()}},
	} {
		tx, err := item.ApplyMovement(m)
		require.NoError(t, err)
		log = append(log, *tx)
	}

	t.Run("consistent log", func(t *testing.T) {
		result := ReplayLedger(item.CurrentStock, log)
		assert.True(t, result.Consistent)
		assert.Equal(t, 3, result.TransactionCount)
		assertDecimal(t, "5000", result.ReplayedStock)
		assert.Nil(t, result.BrokenAt)
	})

	t.Run("cached stock drift", func(t *testing.T) {
		result := ReplayLedger(dec("4999"), log)
		assert.False(t, result.Consistent)
		assert.Nil(t, result.BrokenAt)
	})

	t.Run("broken snapshot chain", func(t *testing.T) {
		tampered := append([]InventoryTransaction(nil), log...)
		tampered[1].PreviousStock = dec("4000")

		result := ReplayLedger(item.CurrentStock, tampered)
		assert.False(t, result.Consistent)
		require.NotNil(t, result.BrokenAt)
		assert.Equal(t, tampered[1].ID, *result.BrokenAt)
	})

	t.Run("empty log", func(t *testing.T) {
		result := ReplayLedger(dec("0"), nil)
		assert.True(t, result.Consistent)
	})
}

func TestInsufficientStockError(t *testing.T) {
	err := &InsufficientStockError{ItemID: uuid.New(), Current: dec("5000"), Requested: dec("6000")}
	assert.Equal(t, "insufficient stock: current 5000, requested 6000", err.Error())
	assert.Equal(t, shared.CodeInsufficientStock, shared.ErrorCode(err))
}
