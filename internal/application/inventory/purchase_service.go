package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/domain/inventory"
	"github.com/legumemart/backend/internal/domain/partner"
	"github.com/legumemart/backend/internal/domain/shared"
	"github.com/legumemart/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PurchaseService records supplier purchases and applies them to stock
type PurchaseService struct {
	purchaseRepo inventory.PurchaseRepository
	supplierRepo partner.SupplierRepository
	retrier      stockRetrier
	opts         Options
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(
	purchaseRepo inventory.PurchaseRepository,
	supplierRepo partner.SupplierRepository,
	scope TransactionScope,
	opts Options,
) *PurchaseService {
	opts = opts.withDefaults()
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		supplierRepo: supplierRepo,
		retrier:      newStockRetrier(scope, opts.MaxRetryAttempts, opts.Logger),
		opts:         opts,
	}
}

// Create records a purchase. The purchase row, its number and the purchase
// transaction that raises stock and average cost commit together.
func (s *PurchaseService) Create(ctx context.Context, req CreatePurchaseRequest, operatorID *uuid.UUID) (_ *PurchaseResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase", "create",
		telemetry.SpanAttrItemID, req.InventoryItemID,
		telemetry.SpanAttrQuantity, req.Quantity,
		telemetry.SpanAttrUnit, req.Unit,
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	unit, err := inventory.ParseUnit(req.Unit)
	if err != nil {
		return nil, err
	}
	if req.SupplierID != nil {
		if _, err := s.supplierRepo.FindByID(ctx, *req.SupplierID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewNotFoundError("supplier")
			}
			return nil, err
		}
	}

	input := inventory.PurchaseInput{
		InventoryItemID: req.InventoryItemID,
		SupplierID:      req.SupplierID,
		Quantity:        req.Quantity,
		Unit:            unit,
		UnitPrice:       req.UnitPrice,
		TotalCost:       req.TotalCost,
		Location:        req.Location,
		PurchaseDate:    req.PurchaseDate,
		QualityGrade:    inventory.QualityGrade(req.QualityGrade),
		PaymentMethod:   inventory.PaymentMethod(req.PaymentMethod),
		PaymentStatus:   inventory.PaymentStatus(req.PaymentStatus),
		Notes:           req.Notes,
		RecordedBy:      operatorID,
	}

	var (
		purchase *inventory.Purchase
		item     *inventory.InventoryItem
		events   eventCollector
	)
	err = s.retrier.execute(ctx, "create_purchase", func(repos TransactionalRepositories) error {
		events.reset()

		current, err := repos.ItemRepo().FindByID(ctx, req.InventoryItemID)
		if err != nil {
			return itemLookupError(err)
		}
		if err := current.EnsureActive(); err != nil {
			return err
		}
		if !unit.CompatibleWith(current.Unit) {
			return shared.NewValidationError("purchase unit " + unit.String() + " does not match item unit " + current.Unit.String())
		}

		now := s.opts.now()
		seq, err := s.opts.sequences(repos).Next(ctx, inventory.PurchaseSequenceScope(now))
		if err != nil {
			return err
		}
		number, err := inventory.PurchaseNumber(now, seq)
		if err != nil {
			return err
		}

		purchase, err = inventory.NewPurchase(number, input, now)
		if err != nil {
			return err
		}
		if err := repos.PurchaseRepo().Save(ctx, purchase); err != nil {
			return err
		}

		item, _, err = recordTransaction(ctx, repos, purchase.InventoryItemID, func(*inventory.InventoryItem) (inventory.Movement, error) {
			return purchase.StockMovement(), nil
		})
		if err != nil {
			return err
		}
		events.collect(purchase, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	events.publish(ctx, s.opts.Publisher, s.opts.Logger)
	telemetry.SetAttributes(span, telemetry.SpanAttrPurchaseNumber, purchase.PurchaseNumber)

	s.opts.Logger.Info("purchase recorded",
		zap.String("purchase_number", purchase.PurchaseNumber),
		zap.String("inventory_item_id", item.ID.String()),
		zap.String("new_stock", item.CurrentStock.String()),
	)

	resp := ToPurchaseResponse(purchase)
	itemResp := ToItemResponse(item)
	resp.Item = &itemResp
	return &resp, nil
}

// GetByID retrieves a purchase by ID
func (s *PurchaseService) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseResponse, error) {
	p, err := s.findPurchase(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseResponse(p)
	return &resp, nil
}

// List retrieves purchases, newest purchase date first
func (s *PurchaseService) List(ctx context.Context, filter PurchaseListFilter) ([]PurchaseResponse, int64, error) {
	itemID, err := parseOptionalUUID(filter.InventoryItemID)
	if err != nil {
		return nil, 0, err
	}
	supplierID, err := parseOptionalUUID(filter.SupplierID)
	if err != nil {
		return nil, 0, err
	}

	domainFilter := inventory.PurchaseFilter{
		Filter:          pageDefaults(filter.Page, filter.PageSize),
		InventoryItemID: itemID,
		SupplierID:      supplierID,
		PaymentStatus:   inventory.PaymentStatus(filter.PaymentStatus),
		Period:          dateRange(filter.From, filter.To),
	}
	domainFilter.OrderBy = "purchase_date"

	purchases, err := s.purchaseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.purchaseRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PurchaseResponse, len(purchases))
	for i := range purchases {
		responses[i] = ToPurchaseResponse(&purchases[i])
	}
	return responses, total, nil
}

// Update amends the non-quantity fields of a purchase
func (s *PurchaseService) Update(ctx context.Context, id uuid.UUID, req UpdatePurchaseRequest) (*PurchaseResponse, error) {
	p, err := s.findPurchase(ctx, id)
	if err != nil {
		return nil, err
	}

	amendment := inventory.PurchaseAmendment{
		Notes:           req.Notes,
		Location:        req.Location,
		InventoryItemID: req.InventoryItemID,
		Quantity:        req.Quantity,
		UnitPrice:       req.UnitPrice,
		TotalCost:       req.TotalCost,
	}
	if req.PaymentStatus != nil {
		status := inventory.PaymentStatus(*req.PaymentStatus)
		amendment.PaymentStatus = &status
	}
	if req.PaymentMethod != nil {
		method := inventory.PaymentMethod(*req.PaymentMethod)
		amendment.PaymentMethod = &method
	}
	if req.QualityGrade != nil {
		grade := inventory.QualityGrade(*req.QualityGrade)
		amendment.QualityGrade = &grade
	}
	if req.Unit != nil {
		unit := inventory.Unit(*req.Unit)
		amendment.Unit = &unit
	}

	if err := p.Amend(amendment); err != nil {
		return nil, err
	}
	if err := s.purchaseRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	var events eventCollector
	events.collect(p)
	events.publish(ctx, s.opts.Publisher, s.opts.Logger)

	resp := ToPurchaseResponse(p)
	return &resp, nil
}

func (s *PurchaseService) findPurchase(ctx context.Context, id uuid.UUID) (*inventory.Purchase, error) {
	p, err := s.purchaseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("purchase")
		}
		return nil, err
	}
	return p, nil
}
