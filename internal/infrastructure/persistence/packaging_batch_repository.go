package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/domain/inventory"
	"github.com/legumemart/backend/internal/domain/shared"
	"github.com/legumemart/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPackagingBatchRepository implements PackagingBatchRepository using GORM
type GormPackagingBatchRepository struct {
	db *gorm.DB
}

// NewGormPackagingBatchRepository creates a new GormPackagingBatchRepository
func NewGormPackagingBatchRepository(db *gorm.DB) *GormPackagingBatchRepository {
	return &GormPackagingBatchRepository{db: db}
}

func preloadPackagedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByID finds a batch with its packaged items
func (r *GormPackagingBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.PackagingBatch, error) {
	var model models.PackagingBatchModel
	if err := r.db.WithContext(ctx).
		Preload("Items", preloadPackagedItems).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds batches matching the filter
func (r *GormPackagingBatchRepository) FindAll(ctx context.Context, filter inventory.BatchFilter) ([]inventory.PackagingBatch, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PackagingBatchModel{}), filter)
	query = query.Preload("Items", preloadPackagedItems).
		Order(orderClause(filter.OrderBy, filter.OrderDir, packagingBatchSort, "created_at"))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	var rows []models.PackagingBatchModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	batches := make([]inventory.PackagingBatch, len(rows))
	for i := range rows {
		batches[i] = *rows[i].ToDomain()
	}
	return batches, nil
}

// Count counts batches matching the filter
func (r *GormPackagingBatchRepository) Count(ctx context.Context, filter inventory.BatchFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PackagingBatchModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save inserts a new batch or updates one still in progress, then replaces
// its packaged item lines. The status guard makes a concurrent complete or
// cancel lose cleanly instead of being applied twice.
func (r *GormPackagingBatchRepository) Save(ctx context.Context, b *inventory.PackagingBatch) error {
	model := models.PackagingBatchModelFromDomain(b)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PackagingBatchModel{}).
			Where("id = ? AND status = ?", b.ID, string(inventory.BatchStatusInProgress)).
			Updates(map[string]any{
				"actual_weight":         model.ActualWeight,
				"weight_variance":       model.WeightVariance,
				"total_packaged_weight": model.TotalPackagedWeight,
				"waste_weight":          model.WasteWeight,
				"status":                model.Status,
				"notes":                 model.Notes,
				"completed_at":          model.CompletedAt,
				"cancelled_at":          model.CancelledAt,
				"version":               model.Version,
				"updated_at":            model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			var existing int64
			if err := tx.Model(&models.PackagingBatchModel{}).Where("id = ?", b.ID).Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				return shared.NewInvalidStateError(fmt.Sprintf("packaging batch %s is no longer in progress", b.BatchNumber))
			}
			if err := tx.Omit("Items").Create(model).Error; err != nil {
				return err
			}
		} else if err := tx.Where("batch_id = ?", b.ID).Delete(&models.PackagedItemModel{}).Error; err != nil {
			return err
		}

		if len(model.Items) > 0 {
			if err := tx.Create(&model.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormPackagingBatchRepository) applyFilter(query *gorm.DB, filter inventory.BatchFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.InventoryItemID != nil {
		query = query.Where("inventory_item_id = ?", *filter.InventoryItemID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(batch_number) LIKE ?", likePattern(filter.Search))
	}
	return applyPeriod(query, "created_at", filter.Period)
}

// Ensure GormPackagingBatchRepository implements PackagingBatchRepository
var _ inventory.PackagingBatchRepository = (*GormPackagingBatchRepository)(nil)
