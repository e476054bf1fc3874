package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/domain/inventory"
	"github.com/legumemart/backend/internal/domain/shared"
	"github.com/legumemart/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultMaxRetryAttempts bounds how often a scope is re-run after losing a
// version race on an inventory item
const DefaultMaxRetryAttempts = 3

// movementFor builds the movement once the item has been loaded, so callers
// can check item state (active, unit) against the same row they will update
type movementFor func(item *inventory.InventoryItem) (inventory.Movement, error)

// recordTransaction is the only path that changes an item's stock.
// It must run inside a TransactionScope: the transaction row and the
// version-checked item update commit or roll back together.
func recordTransaction(
	ctx context.Context,
	repos TransactionalRepositories,
	itemID uuid.UUID,
	build movementFor,
) (*inventory.InventoryItem, *inventory.InventoryTransaction, error) {
	item, err := repos.ItemRepo().FindByID(ctx, itemID)
	if err != nil {
		return nil, nil, itemLookupError(err)
	}

	movement, err := build(item)
	if err != nil {
		return nil, nil, err
	}
	tx, err := item.ApplyMovement(movement)
	if err != nil {
		return nil, nil, err
	}

	if err := repos.TransactionRepo().Create(ctx, tx); err != nil {
		return nil, nil, fmt.Errorf("create inventory transaction: %w", err)
	}
	if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
		return nil, nil, err
	}
	return item, tx, nil
}

func itemLookupError(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError("inventory item")
	}
	return err
}

// stockRetrier re-runs a whole transaction scope when the item update loses
// an optimistic lock race. Business errors are returned on the first attempt.
type stockRetrier struct {
	scope       TransactionScope
	maxAttempts int
	logger      *zap.Logger
}

func newStockRetrier(scope TransactionScope, maxAttempts int, logger *zap.Logger) stockRetrier {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxRetryAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return stockRetrier{scope: scope, maxAttempts: maxAttempts, logger: logger}
}

// execute runs fn in a fresh scope per attempt. fn must reload everything it
// reads, since a retried attempt sees the other writer's committed state.
func (r stockRetrier) execute(ctx context.Context, operation string, fn func(repos TransactionalRepositories) error) error {
	var err error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err = r.scope.Execute(ctx, fn)
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		telemetry.AddEvent(trace.SpanFromContext(ctx), "stock_conflict_retry",
			"operation", operation,
			telemetry.SpanAttrAttempt, attempt,
		)
		r.logger.Warn("stock update conflict, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", r.maxAttempts),
		)
	}
	return err
}
