package inventory

import (
	"context"

	"github.com/google/uuid"
)

// InventoryItemRepository defines the interface for inventory item persistence
type InventoryItemRepository interface {
	// FindByID finds an inventory item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)

	// FindAll finds items matching the filter
	FindAll(ctx context.Context, filter ItemFilter) ([]InventoryItem, error)

	// Count counts items matching the filter
	Count(ctx context.Context, filter ItemFilter) (int64, error)

	// Create inserts a new item
	Create(ctx context.Context, item *InventoryItem) error

	// SaveWithLock persists a change only if the stored version is still
	// item.Version-1, otherwise it returns shared.ErrConcurrencyConflict.
	// Every mutating item method bumps Version exactly once.
	SaveWithLock(ctx context.Context, item *InventoryItem) error
}

// InventoryTransactionRepository is append-only: no update or delete
type InventoryTransactionRepository interface {
	// Create appends a transaction
	Create(ctx context.Context, tx *InventoryTransaction) error

	// FindByID finds a transaction by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryTransaction, error)

	// FindAll finds transactions matching the filter, newest first
	FindAll(ctx context.Context, filter TransactionFilter) ([]InventoryTransaction, error)

	// Count counts transactions matching the filter
	Count(ctx context.Context, filter TransactionFilter) (int64, error)

	// ListByItem returns the full log for an item, oldest first
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]InventoryTransaction, error)
}

// PurchaseRepository defines the interface for purchase persistence
type PurchaseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Purchase, error)
	FindAll(ctx context.Context, filter PurchaseFilter) ([]Purchase, error)
	Count(ctx context.Context, filter PurchaseFilter) (int64, error)
	Save(ctx context.Context, p *Purchase) error
}

// PackagingBatchRepository defines the interface for packaging batch persistence.
// Packaged items are saved with their batch.
type PackagingBatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PackagingBatch, error)
	FindAll(ctx context.Context, filter BatchFilter) ([]PackagingBatch, error)
	Count(ctx context.Context, filter BatchFilter) (int64, error)

	// Save inserts a new batch, or updates one whose stored status is still
	// in_progress. Updating a batch that another request already completed or
	// cancelled fails with an INVALID_STATE error, so a terminal transition
	// is applied at most once.
	Save(ctx context.Context, b *PackagingBatch) error
}

// SequenceGenerator hands out monotonically increasing numbers per scope.
// Next must be atomic: two callers never receive the same value for a scope.
type SequenceGenerator interface {
	Next(ctx context.Context, scope string) (int64, error)
}
