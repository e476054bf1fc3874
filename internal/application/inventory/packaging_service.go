package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/domain/catalog"
	"github.com/legumemart/backend/internal/domain/inventory"
	"github.com/legumemart/backend/internal/domain/shared"
	"github.com/legumemart/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PackagingService runs the packaging batch workflow: open (deduct bulk
// stock), edit lines while in progress, then complete (credit products) or
// cancel (return the weight taken)
type PackagingService struct {
	batchRepo   inventory.PackagingBatchRepository
	productRepo catalog.ProductRepository
	scope       TransactionScope
	retrier     stockRetrier
	opts        Options
}

// NewPackagingService creates a new PackagingService
func NewPackagingService(
	batchRepo inventory.PackagingBatchRepository,
	productRepo catalog.ProductRepository,
	scope TransactionScope,
	opts Options,
) *PackagingService {
	opts = opts.withDefaults()
	return &PackagingService{
		batchRepo:   batchRepo,
		productRepo: productRepo,
		scope:       scope,
		retrier:     newStockRetrier(scope, opts.MaxRetryAttempts, opts.Logger),
		opts:        opts,
	}
}

// Open starts a batch and deducts WeightTaken (base units) from the item
func (s *PackagingService) Open(ctx context.Context, req OpenBatchRequest, operatorID *uuid.UUID) (_ *BatchResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "packaging", "open",
		telemetry.SpanAttrItemID, req.InventoryItemID,
		telemetry.SpanAttrQuantity, req.WeightTaken,
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	if !req.WeightTaken.IsPositive() {
		return nil, shared.NewValidationError("weight taken must be positive")
	}

	var (
		batch  *inventory.PackagingBatch
		events eventCollector
	)
	err = s.retrier.execute(ctx, "open_batch", func(repos TransactionalRepositories) error {
		events.reset()

		current, err := repos.ItemRepo().FindByID(ctx, req.InventoryItemID)
		if err != nil {
			return itemLookupError(err)
		}
		if err := current.EnsureActive(); err != nil {
			return err
		}
		if !current.CanSupply(req.WeightTaken) {
			return &inventory.InsufficientStockError{
				ItemID:    current.ID,
				Current:   current.CurrentStock,
				Requested: req.WeightTaken,
			}
		}

		now := s.opts.now()
		seq, err := s.opts.sequences(repos).Next(ctx, inventory.BatchSequenceScope(now))
		if err != nil {
			return err
		}
		number, err := inventory.BatchNumber(now, seq)
		if err != nil {
			return err
		}

		batch, err = inventory.NewPackagingBatch(number, current.ID, req.WeightTaken, req.Notes, operatorID)
		if err != nil {
			return err
		}
		if err := repos.BatchRepo().Save(ctx, batch); err != nil {
			return err
		}

		item, _, err := recordTransaction(ctx, repos, current.ID, func(it *inventory.InventoryItem) (inventory.Movement, error) {
			return batch.StockMovement(it.Unit.BaseUnit()), nil
		})
		if err != nil {
			return err
		}
		events.collect(batch, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	events.publish(ctx, s.opts.Publisher, s.opts.Logger)

	telemetry.SetAttributes(span, telemetry.SpanAttrBatchNumber, batch.BatchNumber)

	s.opts.Logger.Info("packaging batch opened",
		zap.String("batch_number", batch.BatchNumber),
		zap.String("inventory_item_id", batch.InventoryItemID.String()),
		zap.String("weight_taken", batch.WeightTaken.String()),
	)

	resp := ToBatchResponse(batch)
	return &resp, nil
}

// GetByID retrieves a batch with its packaged items
func (s *PackagingService) GetByID(ctx context.Context, id uuid.UUID) (*BatchResponse, error) {
	b, err := s.findBatch(ctx, s.batchRepo, id)
	if err != nil {
		return nil, err
	}
	resp := ToBatchResponse(b)
	return &resp, nil
}

// List retrieves batches, newest first
func (s *PackagingService) List(ctx context.Context, filter BatchListFilter) ([]BatchResponse, int64, error) {
	itemID, err := parseOptionalUUID(filter.InventoryItemID)
	if err != nil {
		return nil, 0, err
	}
	domainFilter := inventory.BatchFilter{
		Filter:          pageDefaults(filter.Page, filter.PageSize),
		Status:          inventory.BatchStatus(filter.Status),
		InventoryItemID: itemID,
		Period:          dateRange(filter.From, filter.To),
	}

	batches, err := s.batchRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.batchRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]BatchResponse, len(batches))
	for i := range batches {
		responses[i] = ToBatchResponse(&batches[i])
	}
	return responses, total, nil
}

// Update corrects the measured weight and/or notes of an in-progress batch
func (s *PackagingService) Update(ctx context.Context, id uuid.UUID, req UpdateBatchRequest) (*BatchResponse, error) {
	if req.ActualWeight == nil && req.Notes == nil {
		return nil, shared.NewValidationError("nothing to update")
	}
	return s.edit(ctx, id, func(b *inventory.PackagingBatch) error {
		if req.ActualWeight != nil {
			if err := b.SetActualWeight(*req.ActualWeight); err != nil {
				return err
			}
		}
		if req.Notes != nil {
			return b.UpdateNotes(*req.Notes)
		}
		return nil
	})
}

// AddItem adds a packaged product line. The selling price defaults to the
// product's current price.
func (s *PackagingService) AddItem(ctx context.Context, batchID uuid.UUID, req AddPackagedItemRequest) (*BatchResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("product")
		}
		return nil, err
	}
	price := product.Price
	if req.SellingPrice != nil {
		price = *req.SellingPrice
	}

	return s.edit(ctx, batchID, func(b *inventory.PackagingBatch) error {
		_, err := b.AddPackagedItem(inventory.PackagedItemInput{
			ProductID:    product.ID,
			ProductName:  product.Name,
			Quantity:     req.Quantity,
			UnitWeight:   req.UnitWeight,
			SellingPrice: price,
		})
		return err
	})
}

// UpdateItem edits a packaged product line
func (s *PackagingService) UpdateItem(ctx context.Context, batchID, lineID uuid.UUID, req UpdatePackagedItemRequest) (*BatchResponse, error) {
	return s.edit(ctx, batchID, func(b *inventory.PackagingBatch) error {
		_, err := b.UpdatePackagedItem(lineID, inventory.PackagedItemChange{
			Quantity:     req.Quantity,
			UnitWeight:   req.UnitWeight,
			SellingPrice: req.SellingPrice,
		})
		return err
	})
}

// RemoveItem drops a packaged product line
func (s *PackagingService) RemoveItem(ctx context.Context, batchID, lineID uuid.UUID) (*BatchResponse, error) {
	return s.edit(ctx, batchID, func(b *inventory.PackagingBatch) error {
		return b.RemovePackagedItem(lineID)
	})
}

// edit applies an in-progress change. Concurrent edits are last write wins;
// the repository still refuses to touch a batch that has left in_progress.
func (s *PackagingService) edit(ctx context.Context, id uuid.UUID, change func(*inventory.PackagingBatch) error) (*BatchResponse, error) {
	b, err := s.findBatch(ctx, s.batchRepo, id)
	if err != nil {
		return nil, err
	}
	if err := change(b); err != nil {
		return nil, err
	}
	if err := s.batchRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	resp := ToBatchResponse(b)
	return &resp, nil
}

// Complete closes the batch and credits each product's stock by its packaged
// quantity. A second call fails with INVALID_STATE and credits nothing.
func (s *PackagingService) Complete(ctx context.Context, id uuid.UUID) (_ *BatchResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "packaging", "complete", telemetry.SpanAttrBatchID, id)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	var (
		batch  *inventory.PackagingBatch
		events eventCollector
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		events.reset()
		b, err := s.findBatch(ctx, repos.BatchRepo(), id)
		if err != nil {
			return err
		}
		if err := b.Complete(); err != nil {
			return err
		}
		// The status-guarded save comes first so a racing completion fails
		// before any product is credited.
		if err := repos.BatchRepo().Save(ctx, b); err != nil {
			return err
		}
		for productID, quantity := range b.ProductCredits() {
			if err := repos.ProductRepo().IncrementStock(ctx, productID, quantity); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewNotFoundError("product")
				}
				return err
			}
		}
		events.collect(b)
		batch = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	events.publish(ctx, s.opts.Publisher, s.opts.Logger)

	s.opts.Logger.Info("packaging batch completed",
		zap.String("batch_number", batch.BatchNumber),
		zap.String("total_packaged_weight", batch.TotalPackagedWeight.String()),
		zap.Int("efficiency", batch.Efficiency()),
	)

	resp := ToBatchResponse(batch)
	return &resp, nil
}

// Cancel closes the batch and returns exactly WeightTaken to the item
func (s *PackagingService) Cancel(ctx context.Context, id uuid.UUID, req CancelBatchRequest, operatorID *uuid.UUID) (_ *BatchResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "packaging", "cancel", telemetry.SpanAttrBatchID, id)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	var (
		batch  *inventory.PackagingBatch
		events eventCollector
	)
	err = s.retrier.execute(ctx, "cancel_batch", func(repos TransactionalRepositories) error {
		events.reset()
		b, err := s.findBatch(ctx, repos.BatchRepo(), id)
		if err != nil {
			return err
		}
		if err := b.Cancel(req.Reason); err != nil {
			return err
		}
		if err := repos.BatchRepo().Save(ctx, b); err != nil {
			return err
		}

		item, _, err := recordTransaction(ctx, repos, b.InventoryItemID, func(it *inventory.InventoryItem) (inventory.Movement, error) {
			return b.ReturnMovement(it.Unit.BaseUnit(), inventory.CancelReason(req.Reason), operatorID), nil
		})
		if err != nil {
			return err
		}
		events.collect(b, item)
		batch = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	events.publish(ctx, s.opts.Publisher, s.opts.Logger)

	resp := ToBatchResponse(batch)
	return &resp, nil
}

func (s *PackagingService) findBatch(ctx context.Context, repo inventory.PackagingBatchRepository, id uuid.UUID) (*inventory.PackagingBatch, error) {
	b, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("packaging batch")
		}
		return nil, err
	}
	return b, nil
}
