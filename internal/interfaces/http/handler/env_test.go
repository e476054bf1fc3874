package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appinv "github.com/legumemart/backend/internal/application/inventory"
	"github.com/legumemart/backend/internal/application/partner"
	appreport "github.com/legumemart/backend/internal/application/report"
	"github.com/legumemart/backend/internal/domain/catalog"
	"github.com/legumemart/backend/internal/infrastructure/cache"
	"github.com/legumemart/backend/internal/infrastructure/persistence"
	"github.com/legumemart/backend/internal/infrastructure/persistence/models"
	"github.com/legumemart/backend/internal/interfaces/http/dto"
	"github.com/legumemart/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// testEnv wires the real services over an in-memory SQLite database
type testEnv struct {
	router   *gin.Engine
	db       *gorm.DB
	products *persistence.GormProductRepository
}

func newTestEnv(t *testing.T) *testEnv {
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

	log := zaptest.NewLogger(t)
	scope := persistence.NewGormTransactionScope(db)
	opts := appinv.Options{Logger: log}
	products := persistence.NewGormProductRepository(db)
	suppliers := persistence.NewGormSupplierRepository(db)

	items := NewItemHandler(appinv.NewItemService(
		persistence.NewGormInventoryItemRepository(db),
		persistence.NewGormInventoryTransactionRepository(db),
		scope, opts,
	))
	purchases := NewPurchaseHandler(appinv.NewPurchaseService(persistence.NewGormPurchaseRepository(db), suppliers, scope, opts))
	batches := NewPackagingHandler(appinv.NewPackagingService(persistence.NewGormPackagingBatchRepository(db), products, scope, opts))
	supplierHandler := NewSupplierHandler(partner.NewSupplierService(suppliers))
	reports := NewReportHandler(appreport.NewReportService(
		persistence.NewGormReportRepository(db), cache.NewInMemoryReportCache(), time.Minute, log,
	))
	system := NewSystemHandler("legume-test", "test", sqlDB, nil)

	router := gin.New()
	router.Use(middleware.RequestID())
	api := router.Group("/api/v1")
	api.GET("/health", system.Health)

	inv := api.Group("/inventory")
	inv.POST("/items", items.Create)
	inv.GET("/items", items.List)
	inv.GET("/items/:id", items.GetByID)
	inv.PUT("/items/:id", items.Update)
	inv.DELETE("/items/:id", items.Deactivate)
	inv.POST("/items/:id/activate", items.Activate)
	inv.POST("/items/:id/adjustments", items.Adjust)
	inv.GET("/items/:id/transactions", items.ListTransactions)
	inv.GET("/items/:id/ledger/verify", items.VerifyLedger)
	inv.POST("/purchases", purchases.Create)
	inv.GET("/purchases", purchases.List)
	inv.GET("/purchases/:id", purchases.GetByID)
	inv.PATCH("/purchases/:id", purchases.Update)

	pkg := api.Group("/packaging")
	pkg.POST("/batches", batches.Open)
	pkg.GET("/batches", batches.List)
	pkg.GET("/batches/:id", batches.GetByID)
	pkg.PATCH("/batches/:id", batches.Update)
	pkg.POST("/batches/:id/items", batches.AddItem)
	pkg.PATCH("/batches/:id/items/:itemId", batches.UpdateItem)
	pkg.DELETE("/batches/:id/items/:itemId", batches.RemoveItem)
	pkg.POST("/batches/:id/complete", batches.Complete)
	pkg.POST("/batches/:id/cancel", batches.Cancel)

	api.POST("/suppliers", supplierHandler.Create)
	api.GET("/suppliers", supplierHandler.List)
	api.GET("/suppliers/:id", supplierHandler.GetByID)
	api.PUT("/suppliers/:id", supplierHandler.Update)
	api.DELETE("/suppliers/:id", supplierHandler.Deactivate)

	api.GET("/reports/stock-value", reports.StockValue)
	api.GET("/reports/purchases", reports.PurchaseSummary)
	api.GET("/reports/packaging-efficiency", reports.PackagingEfficiency)

	return &testEnv{router: router, db: db, products: products}
}

// apiResponse mirrors dto.Response with a raw data payload
type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (int, apiResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

// data decodes a response payload into a generic map
func data(t *testing.T, resp apiResponse) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	return out
}

func assertAmount(t *testing.T, expected string, actual any) {
	t.Helper()
	got, err := decimal.NewFromString(fmt.Sprint(actual))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString(expected).Equal(got), "expected %s, got %s", expected, got)
}

func (e *testEnv) createItem(t *testing.T, name, unit string) string {
	t.Helper()
	code, resp := e.do(t, http.MethodPost, "/api/v1/inventory/items", map[string]any{
		"name":          name,
		"category":      "Beans",
		"unit":          unit,
		"reorder_level": "500",
	})
	require.Equal(t, http.StatusCreated, code, resp.Error)
	return data(t, resp)["id"].(string)
}

func (e *testEnv) purchase(t *testing.T, itemID, quantity, unit, price string) map[string]any {
	t.Helper()
	code, resp := e.do(t, http.MethodPost, "/api/v1/inventory/purchases", map[string]any{
		"inventory_item_id": itemID,
		"quantity":          quantity,
		"unit":              unit,
		"unit_price":        price,
	})
	require.Equal(t, http.StatusCreated, code, resp.Error)
	return data(t, resp)
}

func (e *testEnv) createProduct(t *testing.T, name, price string) string {
	t.Helper()
	product, err := catalog.NewProduct(name, decimal.RequireFromString(price))
	require.NoError(t, err)
	require.NoError(t, e.products.Save(context.Background(), product))
	return product.ID.String()
}
