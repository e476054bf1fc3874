package shared

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	wrapped := fmt.Errorf("saving purchase: %w", ErrConcurrencyConflict)

	assert.Equal(t, CodeConcurrencyConflict, ErrorCode(wrapped))
	assert.True(t, IsCode(wrapped, CodeConcurrencyConflict))
	assert.Equal(t, CodeNotFound, ErrorCode(NewNotFoundError("packaging batch")))
	assert.Equal(t, "packaging batch not found", NewNotFoundError("packaging batch").Error())
	assert.Empty(t, ErrorCode(errors.New("plain")))
	assert.Empty(t, ErrorCode(nil))
}

func TestFilterOffset(t *testing.T) {
	f := DefaultFilter()
	assert.Equal(t, 0, f.Offset())
	f.Page = 3
	assert.Equal(t, 40, f.Offset())
	f.Page = 0
	assert.Equal(t, 0, f.Offset())
}

func TestDateRangeContains(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	assert.True(t, DateRange{}.Contains(from))
	assert.True(t, DateRange{From: &from, To: &to}.Contains(from))
	assert.False(t, DateRange{From: &from}.Contains(from.Add(-time.Second)))
	assert.False(t, DateRange{To: &to}.Contains(to.Add(time.Second)))
}

func TestBaseAggregateRoot(t *testing.T) {
	root := NewBaseAggregateRoot()
	assert.Equal(t, 1, root.GetVersion())
	root.IncrementVersion()
	assert.Equal(t, 2, root.GetVersion())

	root.AddDomainEvent(&BaseDomainEvent{})
	assert.Len(t, root.GetDomainEvents(), 1)
	root.ClearDomainEvents()
	assert.Empty(t, root.GetDomainEvents())
}
