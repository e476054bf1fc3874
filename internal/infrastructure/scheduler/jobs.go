package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	appinv "github.com/legumemart/backend/internal/application/inventory"
	"go.uber.org/zap"
)

// Job names
const (
	JobLowStockScan = "low_stock_scan"
	JobLedgerAudit  = "ledger_audit"
)

// auditPageSize is how many items the ledger audit loads per page
const auditPageSize = 100

// LowStockSource lists active items at or below their reorder level
type LowStockSource interface {
	ListLowStock(ctx context.Context) ([]appinv.ItemResponse, error)
}

// LowStockNotifier receives one call per low item
type LowStockNotifier interface {
	Notify(ctx context.Context, item appinv.ItemResponse)
}

// LedgerSource pages through items and replays their transaction logs
type LedgerSource interface {
	List(ctx context.Context, filter appinv.ItemListFilter) ([]appinv.ItemResponse, int64, error)
	VerifyLedger(ctx context.Context, itemID uuid.UUID) (*appinv.LedgerVerificationResponse, error)
}

// LowStockScan alerts on every low item. Low stock is evaluated at query
// time, so the scan also catches items whose reorder level was raised.
func LowStockScan(source LowStockSource, notifier LowStockNotifier, logger *zap.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		items, err := source.ListLowStock(ctx)
		if err != nil {
			return fmt.Errorf("list low stock items: %w", err)
		}
		for _, item := range items {
			notifier.Notify(ctx, item)
		}
		logger.Info("low stock scan finished", zap.Int("low_stock_items", len(items)))
		return nil
	}
}

// AuditResult summarizes one ledger audit run
type AuditResult struct {
	Checked      int
	Inconsistent []string
}

// LedgerAudit replays every item's transaction log against its cached stock.
// Drift is logged per item and reported as an error so the run is marked failed.
func LedgerAudit(source LedgerSource, logger *zap.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		result, err := RunLedgerAudit(ctx, source)
		if err != nil {
			return err
		}
		logger.Info("ledger audit finished",
			zap.Int("checked", result.Checked),
			zap.Int("inconsistent", len(result.Inconsistent)),
		)
		if len(result.Inconsistent) > 0 {
			return fmt.Errorf("%d inventory ledgers do not replay to their stock: %v", len(result.Inconsistent), result.Inconsistent)
		}
		return nil
	}
}

// RunLedgerAudit walks every item, active or not, and verifies its ledger
func RunLedgerAudit(ctx context.Context, source LedgerSource) (AuditResult, error) {
	var result AuditResult
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		items, total, err := source.List(ctx, appinv.ItemListFilter{
			Page:     page,
			PageSize: auditPageSize,
			OrderBy:  "created_at",
			OrderDir: "asc",
		})
		if err != nil {
			return result, fmt.Errorf("list items: %w", err)
		}
		for _, item := range items {
			verification, err := source.VerifyLedger(ctx, item.ID)
			if err != nil {
				return result, fmt.Errorf("verify ledger of %s: %w", item.ID, err)
			}
			result.Checked++
			if !verification.Consistent {
				result.Inconsistent = append(result.Inconsistent, item.ID.String())
			}
		}
		if len(items) == 0 || int64(page*auditPageSize) >= total {
			return result, nil
		}
	}
}
