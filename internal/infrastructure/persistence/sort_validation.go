package persistence

import (
	"strings"
)

// sortColumns whitelists the columns a listing may be ordered by
type sortColumns map[string]bool

// columns returns a whitelist holding id, created_at, updated_at and extra
func columns(extra ...string) sortColumns {
	set := sortColumns{"id": true, "created_at": true, "updated_at": true}
	for _, c := range extra {
		set[c] = true
	}
	return set
}

var (
	inventoryItemSort        = columns("name", "category", "current_stock", "reorder_level", "average_cost", "total_value")
	inventoryTransactionSort = columns("type", "quantity_in_base_unit")
	purchaseSort             = columns("purchase_number", "purchase_date", "total_cost", "payment_status")
	packagingBatchSort       = columns("batch_number", "status", "weight_taken", "completed_at")
	supplierSort             = columns("name", "district")
)

// sortDirection normalizes dir to ASC or DESC, defaulting to DESC
func sortDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// sortColumn returns field when whitelisted, fallback otherwise
func (c sortColumns) sortColumn(field, fallback string) string {
	field = strings.TrimSpace(field)
	if c[field] {
		return field
	}
	return fallback
}

// orderClause builds an ORDER BY clause that never carries caller text
func orderClause(orderBy, orderDir string, allowed sortColumns, fallback string) string {
	return allowed.sortColumn(orderBy, fallback) + " " + sortDirection(orderDir)
}
