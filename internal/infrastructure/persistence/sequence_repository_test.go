package persistence

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormSequenceGenerator(t *testing.T) {
	db := newTestDB(t)
	gen := NewGormSequenceGenerator(db)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := gen.Next(ctx, "PUR2603")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := gen.Next(ctx, "PKG260304")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got, "scopes count independently")

	t.Run("rolled back numbers are reissued", func(t *testing.T) {
		_ = db.Transaction(func(tx *gorm.DB) error {
			n, err := NewGormSequenceGenerator(tx).Next(ctx, "PUR2604")
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)
			return assert.AnError
		})

		n, err := gen.Next(ctx, "PUR2604")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("concurrent transactions never share a number", func(t *testing.T) {
		const workers = 8
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			seen = make(map[int64]bool)
		)
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := db.Transaction(func(tx *gorm.DB) error {
					n, err := NewGormSequenceGenerator(tx).Next(ctx, "PKG260305")
					if err != nil {
						return err
					}
					mu.Lock()
					seen[n] = true
					mu.Unlock()
					return nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		assert.Len(t, seen, workers)
	})
}
