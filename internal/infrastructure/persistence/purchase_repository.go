package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/domain/inventory"
	"github.com/legumemart/backend/internal/domain/shared"
	"github.com/legumemart/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPurchaseRepository implements PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// FindByID finds a purchase by its ID
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Purchase, error) {
	var model models.PurchaseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds purchases matching the filter
func (r *GormPurchaseRepository) FindAll(ctx context.Context, filter inventory.PurchaseFilter) ([]inventory.Purchase, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PurchaseModel{}), filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, purchaseSort, "purchase_date"))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	var rows []models.PurchaseModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	purchases := make([]inventory.Purchase, len(rows))
	for i := range rows {
		purchases[i] = *rows[i].ToDomain()
	}
	return purchases, nil
}

// Count counts purchases matching the filter
func (r *GormPurchaseRepository) Count(ctx context.Context, filter inventory.PurchaseFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PurchaseModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save inserts a freshly recorded purchase (version 1) or applies an
// amendment guarded by the previous version.
func (r *GormPurchaseRepository) Save(ctx context.Context, p *inventory.Purchase) error {
	model := models.PurchaseModelFromDomain(p)
	if p.Version <= 1 {
		return r.db.WithContext(ctx).Create(model).Error
	}

	result := r.db.WithContext(ctx).
		Model(&models.PurchaseModel{}).
		Where("id = ? AND version = ?", p.ID, p.Version-1).
		Updates(map[string]any{
			"location":       p.Location,
			"quality_grade":  string(p.QualityGrade),
			"payment_method": string(p.PaymentMethod),
			"payment_status": string(p.PaymentStatus),
			"notes":          p.Notes,
			"version":        p.Version,
			"updated_at":     p.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func (r *GormPurchaseRepository) applyFilter(query *gorm.DB, filter inventory.PurchaseFilter) *gorm.DB {
	if filter.InventoryItemID != nil {
		query = query.Where("inventory_item_id = ?", *filter.InventoryItemID)
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", string(filter.PaymentStatus))
	}
	if filter.Search != "" {
		query = query.Where("LOWER(purchase_number) LIKE ?", likePattern(filter.Search))
	}
	return applyPeriod(query, "purchase_date", filter.Period)
}

// Ensure GormPurchaseRepository implements PurchaseRepository
var _ inventory.PurchaseRepository = (*GormPurchaseRepository)(nil)
