package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository is the slice of the catalog the stock pipeline depends on
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// IncrementStock adds quantity to the product's stock in a single
	// conditional update (stock = stock + ?)
	IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error
}
