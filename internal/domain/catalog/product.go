package catalog

import (
	"strings"

	"github.com/legumemart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a sellable retail SKU, e.g. a 500 g bag of groundnuts.
// The catalog is managed elsewhere; the inventory pipeline only reads
// products and credits their stock when a packaging batch completes.
type Product struct {
	shared.BaseAggregateRoot
	Name     string
	Price    decimal.Decimal
	Stock    int
	IsActive bool
}

// NewProduct creates an active product with no stock
func NewProduct(name string, price decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("product price cannot be negative")
	}
	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Price:             price,
		IsActive:          true,
	}, nil
}
