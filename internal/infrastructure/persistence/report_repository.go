package persistence

import (
	"context"

	"github.com/legumemart/backend/internal/domain/inventory"
	"github.com/legumemart/backend/internal/domain/report"
	"github.com/legumemart/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormReportRepository projects the rows report builders aggregate.
// Sums are left to the domain so decimal totals stay exact on every driver.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// StockValueRows returns active items created within the period
func (r *GormReportRepository) StockValueRows(ctx context.Context, period shared.DateRange) ([]report.StockValueRow, error) {
	var rows []report.StockValueRow
	query := r.db.WithContext(ctx).
		Table("inventory_items ii").
		Select("ii.category AS category, ii.current_stock AS current_stock, ii.reorder_level AS reorder_level, ii.total_value AS total_value").
		Where("ii.is_active = ?", true)
	query = applyPeriod(query, "ii.created_at", period)
	if err := query.Order("ii.name ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// PurchaseRows returns purchases dated within the period, with item and
// supplier names resolved
func (r *GormReportRepository) PurchaseRows(ctx context.Context, period shared.DateRange) ([]report.PurchaseRow, error) {
	var rows []report.PurchaseRow
	query := r.db.WithContext(ctx).
		Table("inventory_purchases p").
		Select(`p.inventory_item_id AS inventory_item_id,
			ii.name AS item_name,
			p.supplier_id AS supplier_id,
			COALESCE(s.name, '') AS supplier_name,
			p.quantity AS quantity,
			p.unit AS unit,
			p.total_cost AS total_cost`).
		Joins("JOIN inventory_items ii ON ii.id = p.inventory_item_id").
		Joins("LEFT JOIN suppliers s ON s.id = p.supplier_id")
	query = applyPeriod(query, "p.purchase_date", period)
	if err := query.Order("p.purchase_date ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CompletedBatchRows returns completed batches created within the period
func (r *GormReportRepository) CompletedBatchRows(ctx context.Context, period shared.DateRange) ([]report.BatchRow, error) {
	var rows []report.BatchRow
	query := r.db.WithContext(ctx).
		Table("packaging_batches pb").
		Select(`pb.inventory_item_id AS inventory_item_id,
			ii.name AS item_name,
			pb.actual_weight AS actual_weight,
			pb.total_packaged_weight AS total_packaged_weight,
			pb.waste_weight AS waste_weight`).
		Joins("JOIN inventory_items ii ON ii.id = pb.inventory_item_id").
		Where("pb.status = ?", string(inventory.BatchStatusCompleted))
	query = applyPeriod(query, "pb.created_at", period)
	if err := query.Order("pb.created_at ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Ensure GormReportRepository implements report.Repository
var _ report.Repository = (*GormReportRepository)(nil)
