package report

import (
	"context"
	"fmt"
	"time"

	"github.com/legumemart/backend/internal/domain/report"
	"github.com/legumemart/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Report names, also used as cache key segments
const (
	ReportStockValue          = "stock-value"
	ReportPurchaseSummary     = "purchases"
	ReportPackagingEfficiency = "packaging-efficiency"
)

// CacheKeyPrefix prefixes every cached report
const CacheKeyPrefix = "report:"

// ReportCache stores computed reports. Get returns false on a miss.
type ReportCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// ReportFilter bounds a report by creation or purchase date
type ReportFilter struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

func (f ReportFilter) period() shared.DateRange {
	r := shared.DateRange{From: f.From}
	if f.To != nil {
		end := f.To.AddDate(0, 0, 1).Add(-time.Nanosecond)
		r.To = &end
	}
	return r
}

func (f ReportFilter) cacheKey(name string) string {
	return fmt.Sprintf("%s%s:%s:%s", CacheKeyPrefix, name, dayKey(f.From), dayKey(f.To))
}

func dayKey(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("20060102")
}

// ReportService provides the read-side roll-ups over the stock pipeline
type ReportService struct {
	repo   report.Repository
	cache  ReportCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewReportService creates a new ReportService. A nil cache disables caching.
func NewReportService(repo report.Repository, cache ReportCache, ttl time.Duration, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// StockValue summarizes the value of active items
func (s *ReportService) StockValue(ctx context.Context, filter ReportFilter) (*report.StockValueReport, error) {
	var result report.StockValueReport
	err := s.cached(ctx, filter.cacheKey(ReportStockValue), &result, func() (any, error) {
		rows, err := s.repo.StockValueRows(ctx, filter.period())
		if err != nil {
			return nil, err
		}
		result = report.BuildStockValueReport(rows)
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// PurchaseSummary summarizes purchase spending by item and supplier
func (s *ReportService) PurchaseSummary(ctx context.Context, filter ReportFilter) (*report.PurchaseSummaryReport, error) {
	var result report.PurchaseSummaryReport
	err := s.cached(ctx, filter.cacheKey(ReportPurchaseSummary), &result, func() (any, error) {
		rows, err := s.repo.PurchaseRows(ctx, filter.period())
		if err != nil {
			return nil, err
		}
		result = report.BuildPurchaseSummary(rows)
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// PackagingEfficiency summarizes completed packaging batches
func (s *ReportService) PackagingEfficiency(ctx context.Context, filter ReportFilter) (*report.PackagingEfficiencyReport, error) {
	var result report.PackagingEfficiencyReport
	err := s.cached(ctx, filter.cacheKey(ReportPackagingEfficiency), &result, func() (any, error) {
		rows, err := s.repo.CompletedBatchRows(ctx, filter.period())
		if err != nil {
			return nil, err
		}
		result = report.BuildPackagingEfficiency(rows)
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// cached reads key into dest, or computes and stores it. Cache errors are
// logged and fall through to computing the report.
func (s *ReportService) cached(ctx context.Context, key string, dest any, compute func() (any, error)) error {
	if s.cache != nil {
		hit, err := s.cache.Get(ctx, key, dest)
		if err != nil {
			s.logger.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
		} else if hit {
			return nil
		}
	}

	value, err := compute()
	if err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
			s.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}
