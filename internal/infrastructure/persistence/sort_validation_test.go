package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name     string
		orderBy  string
		orderDir string
		want     string
	}{
		{"whitelisted column ascending", "current_stock", "asc", "current_stock ASC"},
		{"padded input", "  name ", " ASC ", "name ASC"},
		{"empty falls back", "", "", "name DESC"},
		{"unknown column", "password", "desc", "name DESC"},
		{"column is case sensitive", "NAME", "asc", "name ASC"},
		{"injected column", "name; DROP TABLE inventory_items;--", "asc", "name ASC"},
		{"injected direction", "category", "ASC; DELETE FROM products", "category DESC"},
		{"subquery", "(SELECT 1)", "asc", "name ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderClause(tt.orderBy, tt.orderDir, inventoryItemSort, "name"))
		})
	}
}

func TestSortWhitelists(t *testing.T) {
	whitelists := map[string]sortColumns{
		"items":        inventoryItemSort,
		"transactions": inventoryTransactionSort,
		"purchases":    purchaseSort,
		"batches":      packagingBatchSort,
		"suppliers":    supplierSort,
	}
	for name, w := range whitelists {
		for _, c := range []string{"id", "created_at", "updated_at"} {
			assert.True(t, w[c], "%s should allow %s", name, c)
		}
	}

	assert.Equal(t, "batch_number", packagingBatchSort.sortColumn("batch_number", "created_at"))
	assert.Equal(t, "created_at", packagingBatchSort.sortColumn("purchase_number", "created_at"))
	assert.Equal(t, "purchase_date", purchaseSort.sortColumn("weight_taken", "purchase_date"))
}
