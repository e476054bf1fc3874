package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/domain/inventory"
	"github.com/legumemart/backend/internal/domain/shared"
	"github.com/legumemart/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// lowStockScanLimit caps one scheduled low stock scan
const lowStockScanLimit = 500

// ItemService handles the inventory item ledger and manual adjustments
type ItemService struct {
	itemRepo        inventory.InventoryItemRepository
	transactionRepo inventory.InventoryTransactionRepository
	retrier         stockRetrier
	opts            Options
}

// NewItemService creates a new ItemService
func NewItemService(
	itemRepo inventory.InventoryItemRepository,
	transactionRepo inventory.InventoryTransactionRepository,
	scope TransactionScope,
	opts Options,
) *ItemService {
	opts = opts.withDefaults()
	return &ItemService{
		itemRepo:        itemRepo,
		transactionRepo: transactionRepo,
		retrier:         newStockRetrier(scope, opts.MaxRetryAttempts, opts.Logger),
		opts:            opts,
	}
}

// Create registers a new item with zero stock
func (s *ItemService) Create(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	unit, err := inventory.ParseUnit(req.Unit)
	if err != nil {
		return nil, err
	}
	if req.ReorderLevel.IsNegative() {
		return nil, shared.NewValidationError("reorder level cannot be negative")
	}

	item, err := inventory.NewInventoryItem(req.Name, req.Category, unit, req.ReorderLevel, req.InitialCost)
	if err != nil {
		return nil, err
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	var events eventCollector
	events.collect(item)
	events.publish(ctx, s.opts.Publisher, s.opts.Logger)

	resp := ToItemResponse(item)
	return &resp, nil
}

// GetByID retrieves an inventory item by ID
func (s *ItemService) GetByID(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, itemLookupError(err)
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// List retrieves items with filtering and pagination
func (s *ItemService) List(ctx context.Context, filter ItemListFilter) ([]ItemResponse, int64, error) {
	domainFilter := inventory.ItemFilter{
		Filter:   pageDefaults(filter.Page, filter.PageSize),
		IsActive: filter.IsActive,
		Category: filter.Category,
		LowStock: filter.LowStock,
	}
	domainFilter.Search = filter.Search
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}

	items, err := s.itemRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToItemResponses(items), total, nil
}

// Update edits descriptive fields. Stock can only change through transactions.
func (s *ItemService) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	if req.CurrentStock != nil {
		return nil, shared.NewValidationError("current_stock cannot be set directly, record an adjustment instead")
	}

	details := inventory.ItemDetails{
		Name:         req.Name,
		Category:     req.Category,
		ReorderLevel: req.ReorderLevel,
	}
	if req.Unit != nil {
		unit, err := inventory.ParseUnit(*req.Unit)
		if err != nil {
			return nil, err
		}
		details.Unit = &unit
	}

	return s.mutate(ctx, "update_item", id, func(item *inventory.InventoryItem) error {
		return item.UpdateDetails(details)
	})
}

// Deactivate soft-deletes an item. Its transaction history stays queryable.
func (s *ItemService) Deactivate(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	return s.mutate(ctx, "deactivate_item", id, func(item *inventory.InventoryItem) error {
		item.Deactivate()
		return nil
	})
}

// Activate restores a deactivated item
func (s *ItemService) Activate(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	return s.mutate(ctx, "activate_item", id, func(item *inventory.InventoryItem) error {
		item.Activate()
		return nil
	})
}

func (s *ItemService) mutate(ctx context.Context, operation string, id uuid.UUID, change func(*inventory.InventoryItem) error) (*ItemResponse, error) {
	var (
		result *inventory.InventoryItem
		events eventCollector
	)
	err := s.retrier.execute(ctx, operation, func(repos TransactionalRepositories) error {
		events.reset()
		item, err := repos.ItemRepo().FindByID(ctx, id)
		if err != nil {
			return itemLookupError(err)
		}
		version := item.Version
		if err := change(item); err != nil {
			return err
		}
		if item.Version != version {
			if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
				return err
			}
		}
		events.collect(item)
		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	events.publish(ctx, s.opts.Publisher, s.opts.Logger)

	resp := ToItemResponse(result)
	return &resp, nil
}

// Adjust records a manual adjustment or waste entry against an item
func (s *ItemService) Adjust(ctx context.Context, id uuid.UUID, req AdjustStockRequest, operatorID *uuid.UUID) (_ *AdjustmentResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "inventory", "adjust",
		telemetry.SpanAttrItemID, id,
		telemetry.SpanAttrTransactionType, req.Type,
		telemetry.SpanAttrQuantity, req.Quantity,
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	txType := inventory.TransactionType(req.Type)
	if !txType.IsManual() {
		return nil, shared.NewValidationError("adjustment type must be adjustment_add, adjustment_remove or waste")
	}
	var unit inventory.Unit
	if req.Unit != "" {
		parsed, err := inventory.ParseUnit(req.Unit)
		if err != nil {
			return nil, err
		}
		unit = parsed
	}

	var (
		item   *inventory.InventoryItem
		tx     *inventory.InventoryTransaction
		events eventCollector
	)
	err = s.retrier.execute(ctx, "adjust_stock", func(repos TransactionalRepositories) error {
		events.reset()
		var err error
		item, tx, err = recordTransaction(ctx, repos, id, func(it *inventory.InventoryItem) (inventory.Movement, error) {
			movementUnit := unit
			if movementUnit == "" {
				movementUnit = it.Unit
			}
			return inventory.Movement{
				Type:       txType,
				Quantity:   req.Quantity,
				Unit:       movementUnit,
				Reference:  inventory.ManualRef{},
				Notes:      req.Notes,
				RecordedBy: operatorID,
			}, nil
		})
		if err != nil {
			return err
		}
		events.collect(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	events.publish(ctx, s.opts.Publisher, s.opts.Logger)

	return &AdjustmentResponse{
		Item:        ToItemResponse(item),
		Transaction: ToTransactionResponse(tx),
	}, nil
}

// ListTransactions returns an item's transaction log, newest first
func (s *ItemService) ListTransactions(ctx context.Context, itemID uuid.UUID, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		return nil, 0, itemLookupError(err)
	}

	domainFilter := inventory.TransactionFilter{
		Filter:          pageDefaults(filter.Page, filter.PageSize),
		InventoryItemID: &itemID,
		Type:            inventory.TransactionType(filter.Type),
		Period:          dateRange(filter.From, filter.To),
	}
	txs, err := s.transactionRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.transactionRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToTransactionResponses(txs), total, nil
}

// VerifyLedger replays an item's full log and compares it with the cached stock
func (s *ItemService) VerifyLedger(ctx context.Context, itemID uuid.UUID) (*LedgerVerificationResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, itemLookupError(err)
	}
	txs, err := s.transactionRepo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	replay := inventory.ReplayLedger(item.CurrentStock, txs)
	if !replay.Consistent {
		s.opts.Logger.Error("inventory ledger does not replay to cached stock",
			zap.String("inventory_item_id", itemID.String()),
			zap.String("recorded_stock", replay.RecordedStock.String()),
			zap.String("replayed_stock", replay.ReplayedStock.String()),
		)
	}
	return &LedgerVerificationResponse{
		InventoryItemID:  itemID,
		TransactionCount: replay.TransactionCount,
		ReplayedStock:    replay.ReplayedStock,
		RecordedStock:    replay.RecordedStock,
		Consistent:       replay.Consistent,
		BrokenAt:         replay.BrokenAt,
	}, nil
}

// ListLowStock returns active items at or below their reorder level
func (s *ItemService) ListLowStock(ctx context.Context) ([]ItemResponse, error) {
	active := true
	filter := inventory.ItemFilter{
		Filter:   shared.Filter{Page: 1, PageSize: lowStockScanLimit, OrderBy: "name", OrderDir: "asc"},
		IsActive: &active,
		LowStock: true,
	}
	items, err := s.itemRepo.FindAll(ctx, filter)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return ToItemResponses(items), nil
}
