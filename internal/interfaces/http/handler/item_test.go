package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemHandler_CreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	id := env.createItem(t, "Red kidney beans", "kg")

	code, resp := env.do(t, http.MethodGet, "/api/v1/inventory/items/"+id, nil)
	require.Equal(t, http.StatusOK, code)
	item := data(t, resp)
	assert.Equal(t, "Red kidney beans", item["name"])
	assert.Equal(t, "kg", item["unit"])
	assert.Equal(t, "g", item["base_unit"])
	assertAmount(t, "0", item["current_stock"])
	assert.Equal(t, true, item["is_active"])
}

func TestItemHandler_CreateValidation(t *testing.T) {
	env := newTestEnv(t)

	code, resp := env.do(t, http.MethodPost, "/api/v1/inventory/items", map[string]any{
		"name": "Cowpeas",
		"unit": "sack",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	details, ok := resp.Error.Details.([]any)
	require.True(t, ok)
	require.Len(t, details, 1)
	assert.Equal(t, "unit", details[0].(map[string]any)["field"])
}

func TestItemHandler_MalformedBody(t *testing.T) {
	env := newTestEnv(t)
	code, resp := env.do(t, http.MethodPost, "/api/v1/inventory/items", "not an object")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
}

func TestItemHandler_NotFound(t *testing.T) {
	env := newTestEnv(t)

	code, resp := env.do(t, http.MethodGet, "/api/v1/inventory/items/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)

	code, _ = env.do(t, http.MethodGet, "/api/v1/inventory/items/42", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestItemHandler_UpdateRefusesStock(t *testing.T) {
	env := newTestEnv(t)
	id := env.createItem(t, "Green grams", "kg")

	code, resp := env.do(t, http.MethodPut, "/api/v1/inventory/items/"+id, map[string]any{
		"name":          "Green grams (ndengu)",
		"current_stock": "9000",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

	code, resp = env.do(t, http.MethodPut, "/api/v1/inventory/items/"+id, map[string]any{
		"name": "Green grams (ndengu)",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Green grams (ndengu)", data(t, resp)["name"])
}

func TestItemHandler_DeactivateAndActivate(t *testing.T) {
	env := newTestEnv(t)
	id := env.createItem(t, "Soya", "kg")

	code, resp := env.do(t, http.MethodDelete, "/api/v1/inventory/items/"+id, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, data(t, resp)["is_active"])

	code, resp = env.do(t, http.MethodPost, "/api/v1/inventory/purchases", map[string]any{
		"inventory_item_id": id,
		"quantity":          "1",
		"unit":              "kg",
		"unit_price":        "90",
	})
	assert.Equal(t, http.StatusBadRequest, code, "inactive items refuse purchases")
	assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)

	code, resp = env.do(t, http.MethodPost, "/api/v1/inventory/items/"+id+"/activate", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, data(t, resp)["is_active"])
}

func TestItemHandler_AdjustAndLedger(t *testing.T) {
	env := newTestEnv(t)
	id := env.createItem(t, "Lentils", "kg")
	env.purchase(t, id, "2", "kg", "120")

	code, resp := env.do(t, http.MethodPost, "/api/v1/inventory/items/"+id+"/adjustments", map[string]any{
		"type":     "waste",
		"quantity": "250",
		"unit":     "g",
		"notes":    "weevils",
	})
	require.Equal(t, http.StatusCreated, code, resp.Error)
	result := data(t, resp)
	assertAmount(t, "1750", result["item"].(map[string]any)["current_stock"])
	tx := result["transaction"].(map[string]any)
	assert.Equal(t, "waste", tx["type"])
	assertAmount(t, "2000", tx["previous_stock"])
	assertAmount(t, "1750", tx["new_stock"])

	code, resp = env.do(t, http.MethodPost, "/api/v1/inventory/items/"+id+"/adjustments", map[string]any{
		"type":     "adjustment_remove",
		"quantity": "5",
	})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, dto.ErrCodeInsufficientStock, resp.Error.Code)
	details := resp.Error.Details.(map[string]any)
	assert.Equal(t, "1750", details["current"])
	assert.Equal(t, "5000", details["requested"])

	code, resp = env.do(t, http.MethodGet, "/api/v1/inventory/items/"+id+"/transactions?page_size=1", nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.PageSize)

	code, resp = env.do(t, http.MethodGet, "/api/v1/inventory/items/"+id+"/ledger/verify", nil)
	require.Equal(t, http.StatusOK, code)
	verification := data(t, resp)
	assert.Equal(t, true, verification["consistent"])
	assert.EqualValues(t, 2, verification["transaction_count"])
}

func TestItemHandler_AdjustRejectsSystemType(t *testing.T) {
	env := newTestEnv(t)
	id := env.createItem(t, "Chickpeas", "kg")

	code, resp := env.do(t, http.MethodPost, "/api/v1/inventory/items/"+id+"/adjustments", map[string]any{
		"type":     "purchase",
		"quantity": "1",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
}

func TestItemHandler_ListFilters(t *testing.T) {
	env := newTestEnv(t)
	env.createItem(t, "Black beans", "kg")
	env.createItem(t, "Pigeon peas", "kg")
	stocked := env.createItem(t, "Yellow beans", "kg")
	env.purchase(t, stocked, "1", "kg", "100")

	code, resp := env.do(t, http.MethodGet, "/api/v1/inventory/items?search=yellow", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), resp.Meta.Total)

	// reorder level is 500 g, so only the stocked item is above it
	code, resp = env.do(t, http.MethodGet, "/api/v1/inventory/items?low_stock=true", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(2), resp.Meta.Total)

	code, resp = env.do(t, http.MethodGet, "/api/v1/inventory/items?page_size=500", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
}
