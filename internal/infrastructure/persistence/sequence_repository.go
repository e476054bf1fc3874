package persistence

import (
	"context"
	"time"

	"github.com/legumemart/backend/internal/domain/inventory"
	"github.com/legumemart/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSequenceGenerator issues document numbers from the document_sequences
// table. Run inside the caller's transaction, the upserted row stays locked
// until commit, so two writers never see the same value for a scope.
type GormSequenceGenerator struct {
	db *gorm.DB
}

// NewGormSequenceGenerator creates a new GormSequenceGenerator
func NewGormSequenceGenerator(db *gorm.DB) *GormSequenceGenerator {
	return &GormSequenceGenerator{db: db}
}

// Next increments and returns the counter for scope, starting at 1
func (g *GormSequenceGenerator) Next(ctx context.Context, scope string) (int64, error) {
	now := time.Now()
	row := models.DocumentSequenceModel{Scope: scope, Value: 1, UpdatedAt: now}
	db := g.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "scope"}},
		DoUpdates: clause.Assignments(map[string]any{
			"value":      gorm.Expr("document_sequences.value + 1"),
			"updated_at": now,
		}),
	}).Create(&row).Error; err != nil {
		return 0, err
	}

	var current models.DocumentSequenceModel
	if err := db.First(&current, "scope = ?", scope).Error; err != nil {
		return 0, err
	}
	return current.Value, nil
}

// Ensure GormSequenceGenerator implements SequenceGenerator
var _ inventory.SequenceGenerator = (*GormSequenceGenerator)(nil)
