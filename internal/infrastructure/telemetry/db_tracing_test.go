package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func openTracedDB(t *testing.T, cfg DBTracingConfig) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, RegisterDBTracing(db, cfg, zap.NewNop()))
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	recorder := useRecorder(t)
	db := openTracedDB(t, DefaultDBTracingConfig())

	require.NoError(t, db.WithContext(context.Background()).Create(&tracedRow{Name: "bulk"}).Error)
	assert.Empty(t, recorder.Ended())
}

func TestRegisterDBTracing_AnnotatesStatements(t *testing.T) {
	recorder := useRecorder(t)
	db := openTracedDB(t, DBTracingConfig{Enabled: true, SlowQueryThresh: time.Hour, DBSystem: "sqlite"})

	ctx, span := StartServiceSpan(context.Background(), "test", "insert")
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Name: "groundnuts"}).Error)
	span.End()

	var found bool
	for _, s := range recorder.Ended() {
		attrs := attrMap(s.Attributes())
		if v, ok := attrs["db.sql.table"]; ok && v.AsString() == "traced_rows" {
			found = true
			assert.Equal(t, int64(1), attrs["db.rows_affected"].AsInt64())
			_, slow := attrs["db.slow_query"]
			assert.False(t, slow)
			assert.Equal(t, span.SpanContext().TraceID(), s.SpanContext().TraceID())
		}
	}
	assert.True(t, found, "expected a statement span for traced_rows")
}

func TestRegisterDBTracing_MarksSlowQueries(t *testing.T) {
	recorder := useRecorder(t)
	db := openTracedDB(t, DBTracingConfig{Enabled: true, SlowQueryThresh: time.Nanosecond, DBSystem: "sqlite"})

	var rows []tracedRow
	require.NoError(t, db.WithContext(context.Background()).Find(&rows).Error)

	var slow bool
	for _, s := range recorder.Ended() {
		if v, ok := attrMap(s.Attributes())["db.slow_query"]; ok && v.AsBool() {
			slow = true
		}
	}
	assert.True(t, slow)
}
