package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestOperationFromSQL(t *testing.T) {
	assert.Equal(t, "SELECT", operationFromSQL("  select amount from earnings"))
	assert.Equal(t, "SELECT", operationFromSQL("WITH x AS (SELECT 1) SELECT * FROM x"))
	assert.Equal(t, "UNKNOWN", operationFromSQL(""))
}

func TestGormLoggerDowngradesExpectedErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	drift := errors.New("no such table: earnings")
	l := NewGormLogger(GormLoggerConfig{
		Level:         gormlogger.Warn,
		SlowThreshold: time.Second,
		ExpectedError: func(err error) bool { return errors.Is(err, drift) },
	})

	sql := func() (string, int64) { return "SELECT amount FROM earnings", 0 }
	l.Trace(context.Background(), time.Now(), sql, drift)
	l.Trace(context.Background(), time.Now(), sql, errors.New("connection refused"))

	entries := logs.FilterMessage("gorm.query").All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	}
}
