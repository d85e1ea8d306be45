package logger

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level string) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), 0.05, level), logs
}

func TestNewGormLogger_Levels(t *testing.T) {
	l, _ := newObservedGormLogger("debug")
	assert.Equal(t, gormlogger.Info, l.LogLevel)
	assert.Equal(t, 50*time.Millisecond, l.SlowThreshold)

	l, _ = newObservedGormLogger("error")
	assert.Equal(t, gormlogger.Error, l.LogLevel)

	l, _ = newObservedGormLogger("")
	assert.Equal(t, gormlogger.Warn, l.LogLevel)
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-9")
	stmt := func() (string, int64) { return `SELECT * FROM "user"`, 2 }

	t.Run("error", func(t *testing.T) {
		l, logs := newObservedGormLogger("warn")
		l.Trace(ctx, time.Now(), stmt, errors.New("disk I/O error"))
		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "gorm query error", entry.Message)
		assert.Equal(t, "req-9", entry.ContextMap()["request_id"])
	})

	t.Run("record not found is not an error", func(t *testing.T) {
		l, logs := newObservedGormLogger("warn")
		l.Trace(ctx, time.Now(), stmt, gorm.ErrRecordNotFound)
		assert.Equal(t, 0, logs.Len())
	})

	t.Run("slow query", func(t *testing.T) {
		l, logs := newObservedGormLogger("warn")
		l.Trace(ctx, time.Now().Add(-time.Second), stmt, nil)
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "gorm slow query", logs.All()[0].Message)
	})

	t.Run("info logs every statement", func(t *testing.T) {
		l, logs := newObservedGormLogger("info")
		l.Trace(ctx, time.Now(), stmt, nil)
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "gorm query", logs.All()[0].Message)
	})

	t.Run("silent", func(t *testing.T) {
		l, logs := newObservedGormLogger("silent")
		l.Trace(ctx, time.Now(), stmt, errors.New("boom"))
		assert.Equal(t, 0, logs.Len())
	})

	t.Run("long statement truncated", func(t *testing.T) {
		l, logs := newObservedGormLogger("info")
		long := func() (string, int64) { return strings.Repeat("x", maxSQLLength+10), 0 }
		l.Trace(ctx, time.Now(), long, nil)
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, true, logs.All()[0].ContextMap()["sql_truncated"])
	})
}

func TestGormLogger_LogMode(t *testing.T) {
	l, _ := newObservedGormLogger("warn")
	silent := l.LogMode(gormlogger.Silent).(*GormLogger)
	assert.Equal(t, gormlogger.Silent, silent.LogLevel)
	assert.Equal(t, gormlogger.Warn, l.LogLevel)
}
