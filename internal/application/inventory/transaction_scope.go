package inventory

import (
	"context"

	"github.com/legumemart/backend/internal/domain/catalog"
	"github.com/legumemart/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the stock pipeline repositories.
// When a function is executed within a transaction scope, all repository operations
// will be part of the same database transaction and will be committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a transaction.
// All repositories returned share the same underlying database transaction.
//
//   - ItemRepo: the InventoryItem aggregate. Stock changes are saved with SaveWithLock.
//   - TransactionRepo: append-only log of stock movements.
//   - PurchaseRepo, BatchRepo: the documents that cause movements.
//   - ProductRepo: the catalog collaborator credited when a batch completes.
//   - Sequences: document number counters, incremented inside the transaction
//     so a rolled back document does not leave a gap.
type TransactionalRepositories interface {
	ItemRepo() inventory.InventoryItemRepository
	TransactionRepo() inventory.InventoryTransactionRepository
	PurchaseRepo() inventory.PurchaseRepository
	BatchRepo() inventory.PackagingBatchRepository
	ProductRepo() catalog.ProductRepository
	Sequences() inventory.SequenceGenerator
}
