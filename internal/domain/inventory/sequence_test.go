package inventory

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseNumber(t *testing.T) {
	at := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

	number, err := PurchaseNumber(at, 42)
	require.NoError(t, err)
	assert.Equal(t, "PUR260300042", number)
	assert.Regexp(t, regexp.MustCompile(`^PUR\d{2}\d{2}\d{5}$`), number)
	assert.Equal(t, "PUR2603", PurchaseSequenceScope(at))

	_, err = PurchaseNumber(at, 0)
	assert.Error(t, err)
	_, err = PurchaseNumber(at, MaxPurchaseSequence+1)
	assert.Error(t, err)
}

func TestBatchNumber(t *testing.T) {
	at := time.Date(2026, time.March, 4, 9, 30, 0, 0, time.UTC)

	number, err := BatchNumber(at, 7)
	require.NoError(t, err)
	assert.Equal(t, "PKG260304-007", number)
	assert.Regexp(t, regexp.MustCompile(`^PKG\d{2}\d{2}\d{2}-\d{3}$`), number)

	nextDay := at.AddDate(0, 0, 1)
	assert.NotEqual(t, BatchSequenceScope(at), BatchSequenceScope(nextDay))

	_, err = BatchNumber(at, 1000)
	assert.Error(t, err)
}
