package partner

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/domain/partner"
	"github.com/legumemart/backend/internal/domain/shared"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	publisher    shared.EventPublisher
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
	}
}

// WithPublisher sets the publisher for supplier events
func (s *SupplierService) WithPublisher(publisher shared.EventPublisher) *SupplierService {
	s.publisher = publisher
	return s
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(req.Name, req.District, req.Phone, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	s.publish(ctx, supplier)

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves a list of suppliers with filtering and pagination
func (s *SupplierService) List(ctx context.Context, filter SupplierListFilter) ([]SupplierResponse, int64, error) {
	domainFilter := partner.SupplierFilter{
		Filter: shared.Filter{
			Page:     1,
			PageSize: 20,
			OrderBy:  "name",
			OrderDir: "asc",
			Search:   filter.Search,
		},
		IsActive: filter.IsActive,
		District: filter.District,
	}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}

	suppliers, err := s.supplierRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSupplierResponses(suppliers), total, nil
}

// Update updates a supplier
func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.Update(partner.SupplierDetails{
		Name:     req.Name,
		District: req.District,
		Phone:    req.Phone,
		Notes:    req.Notes,
	}); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	s.publish(ctx, supplier)

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Deactivate hides a supplier from new purchases. Existing purchases keep
// their reference.
func (s *SupplierService) Deactivate(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !supplier.IsActive {
		response := ToSupplierResponse(supplier)
		return &response, nil
	}
	supplier.Deactivate()
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	s.publish(ctx, supplier)

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// NamesByID resolves supplier names for reports; unknown IDs are skipped
func (s *SupplierService) NamesByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	suppliers, err := s.supplierRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, supplier := range suppliers {
		names[supplier.ID] = supplier.Name
	}
	return names, nil
}

func (s *SupplierService) find(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("supplier")
		}
		return nil, err
	}
	return supplier, nil
}

func (s *SupplierService) publish(ctx context.Context, supplier *partner.Supplier) {
	events := supplier.GetDomainEvents()
	supplier.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	// Delivery failures are logged by the bus; the supplier is already saved.
	_ = s.publisher.Publish(ctx, events...)
}
