package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	appinv "github.com/legumemart/backend/internal/application/inventory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestScheduler_Register(t *testing.T) {
	s := New(Config{}, zaptest.NewLogger(t))

	require.NoError(t, s.Register(JobLowStockScan, "0 7 * * *", func(context.Context) error { return nil }))

	err := s.Register(JobLowStockScan, "0 8 * * *", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrInvalidConfig)

	err = s.Register(JobLedgerAudit, "every tuesday", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrInvalidConfig)

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, JobLowStockScan, jobs[0].Name)
	assert.Equal(t, JobStatusPending, jobs[0].Status)
}

func TestScheduler_TriggerRecordsOutcome(t *testing.T) {
	s := New(Config{JobTimeout: time.Second}, zaptest.NewLogger(t))

	var calls int
	require.NoError(t, s.Register("ok", "@daily", func(ctx context.Context) error {
		calls++
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return nil
	}))
	require.NoError(t, s.Register("broken", "@daily", func(context.Context) error {
		return errors.New("boom")
	}))

	require.NoError(t, s.Trigger(context.Background(), "ok"))
	assert.Equal(t, 1, calls)

	err := s.Trigger(context.Background(), "broken")
	assert.EqualError(t, err, "boom")

	err = s.Trigger(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUnknownJob)

	jobs := s.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "broken", jobs[0].Name)
	assert.Equal(t, JobStatusFailed, jobs[0].Status)
	assert.Equal(t, "boom", jobs[0].Error)
	assert.Equal(t, "ok", jobs[1].Name)
	assert.Equal(t, JobStatusSuccess, jobs[1].Status)
	assert.NotNil(t, jobs[1].LastRunAt)
	assert.NotNil(t, jobs[1].CompletedAt)
}

func TestScheduler_StartStop(t *testing.T) {
	// cron logs from its own goroutine after Stop returns
	s := New(Config{Location: time.UTC}, zap.NewNop())
	require.NoError(t, s.Register(JobLowStockScan, "0 7 * * *", func(context.Context) error { return nil }))

	require.NoError(t, s.Start())
	assert.ErrorIs(t, s.Start(), ErrAlreadyRunning)

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	require.NotNil(t, jobs[0].NextRunAt)
	assert.Equal(t, 7, jobs[0].NextRunAt.UTC().Hour())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []appinv.ItemResponse
}

func (n *recordingNotifier) Notify(ctx context.Context, item appinv.ItemResponse) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, item)
}

type stubLowStockSource struct {
	items []appinv.ItemResponse
	err   error
}

func (s stubLowStockSource) ListLowStock(context.Context) ([]appinv.ItemResponse, error) {
	return s.items, s.err
}

func TestLowStockScan(t *testing.T) {
	low := []appinv.ItemResponse{
		{ID: uuid.New(), Name: "Groundnuts", CurrentStock: decimal.NewFromInt(500), ReorderLevel: decimal.NewFromInt(1000)},
		{ID: uuid.New(), Name: "Beans", CurrentStock: decimal.Zero, ReorderLevel: decimal.NewFromInt(200)},
	}

	t.Run("notifies each low item", func(t *testing.T) {
		notifier := &recordingNotifier{}
		err := LowStockScan(stubLowStockSource{items: low}, notifier, zaptest.NewLogger(t))(context.Background())
		require.NoError(t, err)
		require.Len(t, notifier.items, 2)
		assert.Equal(t, "Groundnuts", notifier.items[0].Name)
	})

	t.Run("source errors fail the run", func(t *testing.T) {
		notifier := &recordingNotifier{}
		err := LowStockScan(stubLowStockSource{err: errors.New("db down")}, notifier, zaptest.NewLogger(t))(context.Background())
		require.Error(t, err)
		assert.Empty(t, notifier.items)
	})
}

// MockLedgerSource is a mock implementation of LedgerSource
type MockLedgerSource struct {
	mock.Mock
}

func (m *MockLedgerSource) List(ctx context.Context, filter appinv.ItemListFilter) ([]appinv.ItemResponse, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]appinv.ItemResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerSource) VerifyLedger(ctx context.Context, itemID uuid.UUID) (*appinv.LedgerVerificationResponse, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appinv.LedgerVerificationResponse), args.Error(1)
}

func itemsWithIDs(n int) []appinv.ItemResponse {
	items := make([]appinv.ItemResponse, n)
	for i := range items {
		items[i] = appinv.ItemResponse{ID: uuid.New()}
	}
	return items
}

func TestRunLedgerAudit_PagesThroughItems(t *testing.T) {
	source := new(MockLedgerSource)
	firstPage := itemsWithIDs(auditPageSize)
	secondPage := itemsWithIDs(3)
	total := int64(auditPageSize + 3)

	source.On("List", mock.Anything, mock.MatchedBy(func(f appinv.ItemListFilter) bool { return f.Page == 1 })).
		Return(firstPage, total, nil)
	source.On("List", mock.Anything, mock.MatchedBy(func(f appinv.ItemListFilter) bool { return f.Page == 2 })).
		Return(secondPage, total, nil)

	drifted := secondPage[1].ID
	source.On("VerifyLedger", mock.Anything, mock.MatchedBy(func(id uuid.UUID) bool { return id != drifted })).
		Return(&appinv.LedgerVerificationResponse{Consistent: true}, nil)
	source.On("VerifyLedger", mock.Anything, drifted).
		Return(&appinv.LedgerVerificationResponse{Consistent: false}, nil)

	result, err := RunLedgerAudit(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, auditPageSize+3, result.Checked)
	assert.Equal(t, []string{drifted.String()}, result.Inconsistent)
	source.AssertExpectations(t)

	err = LedgerAudit(source, zaptest.NewLogger(t))(context.Background())
	require.Error(t, err)
}

func TestRunLedgerAudit_EmptyInventory(t *testing.T) {
	source := new(MockLedgerSource)
	source.On("List", mock.Anything, mock.Anything).Return([]appinv.ItemResponse{}, int64(0), nil).Once()

	result, err := RunLedgerAudit(context.Background(), source)
	require.NoError(t, err)
	assert.Zero(t, result.Checked)
	source.AssertNotCalled(t, "VerifyLedger", mock.Anything, mock.Anything)
}
