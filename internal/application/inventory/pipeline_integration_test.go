package inventory_test

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"github.com/google/uuid"
	appinv "github.com/legumemart/backend/internal/application/inventory"
	"github.com/legumemart/backend/internal/domain/catalog"
	"github.com/legumemart/backend/internal/domain/inventory"
	"github.com/legumemart/backend/internal/domain/partner"
	"github.com/legumemart/backend/internal/domain/shared"
	"github.com/legumemart/backend/internal/infrastructure/persistence"
	"github.com/legumemart/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type pipeline struct {
	db        *gorm.DB
	items     *appinv.ItemService
	purchases *appinv.PurchaseService
	batches   *appinv.PackagingService
	products  *persistence.GormProductRepository
	suppliers *persistence.GormSupplierRepository
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	scope := persistence.NewGormTransactionScope(db)
	opts := appinv.Options{Logger: zaptest.NewLogger(t)}
	products := persistence.NewGormProductRepository(db)
	suppliers := persistence.NewGormSupplierRepository(db)

	return &pipeline{
		db: db,
		items: appinv.NewItemService(
			persistence.NewGormInventoryItemRepository(db),
			persistence.NewGormInventoryTransactionRepository(db),
			scope, opts,
		),
		purchases: appinv.NewPurchaseService(persistence.NewGormPurchaseRepository(db), suppliers, scope, opts),
		batches:   appinv.NewPackagingService(persistence.NewGormPackagingBatchRepository(db), products, scope, opts),
		products:  products,
		suppliers: suppliers,
	}
}

func (p *pipeline) createItem(t *testing.T, name, unit string, reorder int64) *appinv.ItemResponse {
	t.Helper()
	item, err := p.items.Create(context.Background(), appinv.CreateItemRequest{
		Name:         name,
		Category:     "Nuts",
		Unit:         unit,
		ReorderLevel: decimal.NewFromInt(reorder),
	})
	require.NoError(t, err)
	return item
}

func (p *pipeline) createProduct(t *testing.T, name, price string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, decimal.RequireFromString(price))
	require.NoError(t, err)
	require.NoError(t, p.products.Save(context.Background(), product))
	return product
}

func (p *pipeline) purchase(t *testing.T, itemID uuid.UUID, quantity, unit, price string) *appinv.PurchaseResponse {
	t.Helper()
	resp, err := p.purchases.Create(context.Background(), appinv.CreatePurchaseRequest{
		InventoryItemID: itemID,
		Quantity:        decimal.RequireFromString(quantity),
		Unit:            unit,
		UnitPrice:       decimal.RequireFromString(price),
	}, nil)
	require.NoError(t, err)
	return resp
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), append([]any{"expected %s, got %s", expected, actual.String()}, msgAndArgs...)...)
}

func assertLedgerConsistent(t *testing.T, p *pipeline, itemID uuid.UUID) {
	t.Helper()
	verification, err := p.items.VerifyLedger(context.Background(), itemID)
	require.NoError(t, err)
	assert.True(t, verification.Consistent, "ledger replay %s vs recorded %s", verification.ReplayedStock, verification.RecordedStock)
	assert.Nil(t, verification.BrokenAt)
}

func TestPipeline_PurchasesBlendAverageCost(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()
	item := p.createItem(t, "Groundnuts", "kg", 10000)

	supplier, err := partner.NewSupplier("Mama Achieng", "Kisumu", "+254700000001", "")
	require.NoError(t, err)
	require.NoError(t, p.suppliers.Save(ctx, supplier))

	first, err := p.purchases.Create(ctx, appinv.CreatePurchaseRequest{
		InventoryItemID: item.ID,
		SupplierID:      &supplier.ID,
		Quantity:        decimal.NewFromInt(20),
		Unit:            "kg",
		UnitPrice:       decimal.RequireFromString("2.40"),
		PaymentStatus:   "paid",
	}, nil)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^PUR\d{4}00001$`), first.PurchaseNumber)
	assertDecimal(t, "48", first.TotalCost)
	require.NotNil(t, first.Item)
	assertDecimal(t, "20000", first.Item.CurrentStock)
	assertDecimal(t, "0.0024", first.Item.AverageCost)

	second := p.purchase(t, item.ID, "10000", "g", "0.003")
	assert.Regexp(t, regexp.MustCompile(`^PUR\d{4}00002$`), second.PurchaseNumber)

	current, err := p.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assertDecimal(t, "30000", current.CurrentStock)
	assertDecimal(t, "0.0026", current.AverageCost)
	assertDecimal(t, "78", current.TotalValue)
	assert.Equal(t, "30.00 kg", current.FormattedStock)

	txs, total, err := p.items.ListTransactions(ctx, item.ID, appinv.TransactionListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, txs, 2)
	assert.Equal(t, "purchase", txs[0].Type)
	assert.Equal(t, "purchase", txs[0].ReferenceType)
	require.NotNil(t, txs[0].UnitCost)

	assertLedgerConsistent(t, p, item.ID)
}

func TestPipeline_PurchaseRejections(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()
	item := p.createItem(t, "Beans", "kg", 0)

	t.Run("unknown supplier", func(t *testing.T) {
		unknown := uuid.New()
		_, err := p.purchases.Create(ctx, appinv.CreatePurchaseRequest{
			InventoryItemID: item.ID,
			SupplierID:      &unknown,
			Quantity:        decimal.NewFromInt(1),
			Unit:            "kg",
			UnitPrice:       decimal.NewFromInt(1),
		}, nil)
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := p.purchases.Create(ctx, appinv.CreatePurchaseRequest{
			InventoryItemID: uuid.New(),
			Quantity:        decimal.NewFromInt(1),
			Unit:            "kg",
			UnitPrice:       decimal.NewFromInt(1),
		}, nil)
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	})

	t.Run("incompatible unit", func(t *testing.T) {
		_, err := p.purchases.Create(ctx, appinv.CreatePurchaseRequest{
			InventoryItemID: item.ID,
			Quantity:        decimal.NewFromInt(1),
			Unit:            "liter",
			UnitPrice:       decimal.NewFromInt(1),
		}, nil)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})

	t.Run("inactive item", func(t *testing.T) {
		_, err := p.items.Deactivate(ctx, item.ID)
		require.NoError(t, err)
		t.Cleanup(func() { _, _ = p.items.Activate(ctx, item.ID) })

		_, err = p.purchases.Create(ctx, appinv.CreatePurchaseRequest{
			InventoryItemID: item.ID,
			Quantity:        decimal.NewFromInt(1),
			Unit:            "kg",
			UnitPrice:       decimal.NewFromInt(1),
		}, nil)
		require.Error(t, err)
	})

	current, err := p.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, current.CurrentStock.IsZero())

	_, total, err := p.purchases.List(ctx, appinv.PurchaseListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPipeline_PurchaseAmendment(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()
	item := p.createItem(t, "Cowpeas", "kg", 0)
	created := p.purchase(t, item.ID, "5", "kg", "1.20")

	paid := "paid"
	notes := "settled at market"
	updated, err := p.purchases.Update(ctx, created.ID, appinv.UpdatePurchaseRequest{
		PaymentStatus: &paid,
		Notes:         &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", updated.PaymentStatus)
	assert.Equal(t, notes, updated.Notes)

	quantity := decimal.NewFromInt(50)
	_, err = p.purchases.Update(ctx, created.ID, appinv.UpdatePurchaseRequest{Quantity: &quantity})
	assert.True(t, shared.IsCode(err, shared.CodeInvalidState))

	stored, err := p.purchases.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assertDecimal(t, "5", stored.Quantity)
	assert.Equal(t, "paid", stored.PaymentStatus)

	current, err := p.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assertDecimal(t, "5000", current.CurrentStock)
}

func TestPipeline_Adjustments(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()
	item := p.createItem(t, "Green grams", "kg", 2000)
	p.purchase(t, item.ID, "3", "kg", "2")

	operator := uuid.New()
	waste, err := p.items.Adjust(ctx, item.ID, appinv.AdjustStockRequest{
		Type:     "waste",
		Quantity: decimal.NewFromInt(500),
		Unit:     "g",
		Notes:    "weevils",
	}, &operator)
	require.NoError(t, err)
	assertDecimal(t, "2500", waste.Item.CurrentStock)
	assertDecimal(t, "3000", waste.Transaction.PreviousStock)
	assertDecimal(t, "2500", waste.Transaction.NewStock)
	assert.Equal(t, "manual", waste.Transaction.ReferenceType)
	assert.Equal(t, &operator, waste.Transaction.RecordedBy)

	// unit defaults to the item's unit
	added, err := p.items.Adjust(ctx, item.ID, appinv.AdjustStockRequest{
		Type:     "adjustment_add",
		Quantity: decimal.RequireFromString("0.5"),
	}, nil)
	require.NoError(t, err)
	assertDecimal(t, "3000", added.Item.CurrentStock)
	assertDecimal(t, "2", added.Item.AverageCost.Mul(decimal.NewFromInt(1000)))

	_, err = p.items.Adjust(ctx, item.ID, appinv.AdjustStockRequest{
		Type:     "adjustment_remove",
		Quantity: decimal.NewFromInt(4),
		Unit:     "kg",
	}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)

	_, err = p.items.Adjust(ctx, item.ID, appinv.AdjustStockRequest{
		Type:     "purchase",
		Quantity: decimal.NewFromInt(1),
	}, nil)
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	current, err := p.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assertDecimal(t, "3000", current.CurrentStock)
	assert.Equal(t, 4, current.Version)

	lowStock, err := p.items.ListLowStock(ctx)
	require.NoError(t, err)
	assert.Empty(t, lowStock)

	assertLedgerConsistent(t, p, item.ID)
}

func TestPipeline_ItemUpdateRefusesStock(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()
	item := p.createItem(t, "Soya", "kg", 0)

	stock := decimal.NewFromInt(100)
	_, err := p.items.Update(ctx, item.ID, appinv.UpdateItemRequest{CurrentStock: &stock})
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	name := "Soya beans"
	reorder := decimal.NewFromInt(5000)
	updated, err := p.items.Update(ctx, item.ID, appinv.UpdateItemRequest{Name: &name, ReorderLevel: &reorder})
	require.NoError(t, err)
	assert.Equal(t, "Soya beans", updated.Name)
	assert.True(t, updated.IsLowStock)

	lowStock, err := p.items.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, lowStock, 1)
	assert.Equal(t, item.ID, lowStock[0].ID)
}

func TestPipeline_CompleteBatch(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()
	item := p.createItem(t, "Groundnuts", "kg", 0)
	p.purchase(t, item.ID, "30", "kg", "2.60")

	bag500 := p.createProduct(t, "Groundnuts 500g", "1.50")
	bag250 := p.createProduct(t, "Groundnuts 250g", "0.80")

	batch, err := p.batches.Open(ctx, appinv.OpenBatchRequest{
		InventoryItemID: item.ID,
		WeightTaken:     decimal.NewFromInt(12000),
	}, nil)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^PKG\d{6}-001$`), batch.BatchNumber)
	assert.Equal(t, "in_progress", batch.Status)

	afterOpen, err := p.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assertDecimal(t, "18000", afterOpen.CurrentStock)

	batch, err = p.batches.AddItem(ctx, batch.ID, appinv.AddPackagedItemRequest{
		ProductID:  bag500.ID,
		Quantity:   20,
		UnitWeight: decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	assertDecimal(t, "1.5", batch.PackagedItems[0].SellingPrice)

	batch, err = p.batches.AddItem(ctx, batch.ID, appinv.AddPackagedItemRequest{
		ProductID:  bag250.ID,
		Quantity:   5,
		UnitWeight: decimal.NewFromInt(250),
	})
	require.NoError(t, err)

	six := 6
	batch, err = p.batches.UpdateItem(ctx, batch.ID, batch.PackagedItems[1].ID, appinv.UpdatePackagedItemRequest{Quantity: &six})
	require.NoError(t, err)

	actual := decimal.NewFromInt(11800)
	batch, err = p.batches.Update(ctx, batch.ID, appinv.UpdateBatchRequest{ActualWeight: &actual})
	require.NoError(t, err)
	assertDecimal(t, "11500", batch.TotalPackagedWeight)
	assertDecimal(t, "300", batch.WasteWeight)
	assertDecimal(t, "200", batch.WeightVariance)
	assert.Equal(t, 97, batch.Efficiency)

	completed, err := p.batches.Complete(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	_, err = p.batches.Complete(ctx, batch.ID)
	assert.True(t, shared.IsCode(err, shared.CodeInvalidState))

	_, err = p.batches.Cancel(ctx, batch.ID, appinv.CancelBatchRequest{}, nil)
	assert.True(t, shared.IsCode(err, shared.CodeInvalidState))

	_, err = p.batches.AddItem(ctx, batch.ID, appinv.AddPackagedItemRequest{
		ProductID:  bag500.ID,
		Quantity:   1,
		UnitWeight: decimal.NewFromInt(500),
	})
	assert.True(t, shared.IsCode(err, shared.CodeInvalidState))

	credited500, err := p.products.FindByID(ctx, bag500.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, credited500.Stock)
	credited250, err := p.products.FindByID(ctx, bag250.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, credited250.Stock)

	// completion moves no bulk stock
	afterComplete, err := p.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assertDecimal(t, "18000", afterComplete.CurrentStock)

	stored, err := p.batches.GetByID(ctx, batch.ID)
	require.NoError(t, err)
	require.Len(t, stored.PackagedItems, 2)
	assert.Equal(t, "Groundnuts 500g", stored.PackagedItems[0].ProductName)

	assertLedgerConsistent(t, p, item.ID)
}

func TestPipeline_CancelBatchReturnsWeightTaken(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()
	item := p.createItem(t, "Lentils", "kg", 0)
	p.purchase(t, item.ID, "10", "kg", "3")
	product := p.createProduct(t, "Lentils 1kg", "4")

	batch, err := p.batches.Open(ctx, appinv.OpenBatchRequest{
		InventoryItemID: item.ID,
		WeightTaken:     decimal.NewFromInt(4000),
		Notes:           "morning shift",
	}, nil)
	require.NoError(t, err)

	_, err = p.batches.AddItem(ctx, batch.ID, appinv.AddPackagedItemRequest{
		ProductID:  product.ID,
		Quantity:   3,
		UnitWeight: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	actual := decimal.NewFromInt(3900)
	_, err = p.batches.Update(ctx, batch.ID, appinv.UpdateBatchRequest{ActualWeight: &actual})
	require.NoError(t, err)

	cancelled, err := p.batches.Cancel(ctx, batch.ID, appinv.CancelBatchRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Contains(t, cancelled.Notes, "morning shift")
	assert.Contains(t, cancelled.Notes, "Cancelled: no reason given")

	current, err := p.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assertDecimal(t, "10000", current.CurrentStock)

	untouched, err := p.products.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Zero(t, untouched.Stock)

	_, err = p.batches.Complete(ctx, batch.ID)
	assert.True(t, shared.IsCode(err, shared.CodeInvalidState))

	txs, _, err := p.items.ListTransactions(ctx, item.ID, appinv.TransactionListFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, "adjustment_add", txs[0].Type)
	assert.Equal(t, "packaging_batch", txs[0].ReferenceType)
	assert.Equal(t, &batch.ID, txs[0].ReferenceID)

	assertLedgerConsistent(t, p, item.ID)
}

func TestPipeline_OpenBatchRejections(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()
	item := p.createItem(t, "Pigeon peas", "kg", 0)
	p.purchase(t, item.ID, "2", "kg", "1")

	_, err := p.batches.Open(ctx, appinv.OpenBatchRequest{
		InventoryItemID: item.ID,
		WeightTaken:     decimal.NewFromInt(2001),
	}, nil)
	var stockErr *inventory.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assertDecimal(t, "2000", stockErr.Current)
	assertDecimal(t, "2001", stockErr.Requested)

	_, err = p.batches.Open(ctx, appinv.OpenBatchRequest{
		InventoryItemID: item.ID,
		WeightTaken:     decimal.Zero,
	}, nil)
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	_, total, err := p.batches.List(ctx, appinv.BatchListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)

	// an empty batch cannot be completed
	batch, err := p.batches.Open(ctx, appinv.OpenBatchRequest{
		InventoryItemID: item.ID,
		WeightTaken:     decimal.NewFromInt(2000),
	}, nil)
	require.NoError(t, err)
	_, err = p.batches.Complete(ctx, batch.ID)
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	current, err := p.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, current.CurrentStock.IsZero())
	assertLedgerConsistent(t, p, item.ID)
}

func TestPipeline_ConcurrentAdjustmentsKeepLedgerConsistent(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()
	item := p.createItem(t, "Maize", "kg", 0)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.items.Adjust(ctx, item.ID, appinv.AdjustStockRequest{
				Type:     "adjustment_add",
				Quantity: decimal.NewFromInt(250),
				Unit:     "g",
			}, nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	current, err := p.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assertDecimal(t, "2000", current.CurrentStock)
	assert.Equal(t, workers+1, current.Version)
	assertLedgerConsistent(t, p, item.ID)
}
