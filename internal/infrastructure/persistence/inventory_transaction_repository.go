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

// GormInventoryTransactionRepository implements InventoryTransactionRepository using GORM.
// The log is append-only, so there is no update or delete.
type GormInventoryTransactionRepository struct {
	db *gorm.DB
}

// NewGormInventoryTransactionRepository creates a new GormInventoryTransactionRepository
func NewGormInventoryTransactionRepository(db *gorm.DB) *GormInventoryTransactionRepository {
	return &GormInventoryTransactionRepository{db: db}
}

// Create appends a transaction
func (r *GormInventoryTransactionRepository) Create(ctx context.Context, tx *inventory.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(models.InventoryTransactionModelFromDomain(tx)).Error
}

// FindByID finds a transaction by its ID
func (r *GormInventoryTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryTransaction, error) {
	var model models.InventoryTransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAll finds transactions matching the filter, newest first unless asked otherwise
func (r *GormInventoryTransactionRepository) FindAll(ctx context.Context, filter inventory.TransactionFilter) ([]inventory.InventoryTransaction, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InventoryTransactionModel{}), filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, inventoryTransactionSort, "created_at"))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	var rows []models.InventoryTransactionModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return transactionsToDomain(rows)
}

// Count counts transactions matching the filter
func (r *GormInventoryTransactionRepository) Count(ctx context.Context, filter inventory.TransactionFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InventoryTransactionModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListByItem returns the full log for an item, oldest first
func (r *GormInventoryTransactionRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]inventory.InventoryTransaction, error) {
	var rows []models.InventoryTransactionModel
	if err := r.db.WithContext(ctx).
		Where("inventory_item_id = ?", itemID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return transactionsToDomain(rows)
}

func (r *GormInventoryTransactionRepository) applyFilter(query *gorm.DB, filter inventory.TransactionFilter) *gorm.DB {
	if filter.InventoryItemID != nil {
		query = query.Where("inventory_item_id = ?", *filter.InventoryItemID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}
	if filter.ReferenceKind != "" {
		query = query.Where("reference_type = ?", string(filter.ReferenceKind))
	}
	if filter.ReferenceID != nil {
		query = query.Where("reference_id = ?", *filter.ReferenceID)
	}
	return applyPeriod(query, "created_at", filter.Period)
}

func transactionsToDomain(rows []models.InventoryTransactionModel) ([]inventory.InventoryTransaction, error) {
	txs := make([]inventory.InventoryTransaction, 0, len(rows))
	for i := range rows {
		tx, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		txs = append(txs, *tx)
	}
	return txs, nil
}

// applyPeriod bounds column by an inclusive date range
func applyPeriod(query *gorm.DB, column string, period shared.DateRange) *gorm.DB {
	if period.From != nil {
		query = query.Where(column+" >= ?", *period.From)
	}
	if period.To != nil {
		query = query.Where(column+" <= ?", *period.To)
	}
	return query
}

// Ensure GormInventoryTransactionRepository implements InventoryTransactionRepository
var _ inventory.InventoryTransactionRepository = (*GormInventoryTransactionRepository)(nil)
