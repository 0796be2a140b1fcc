package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	gormlogger "gorm.io/gorm/logger"
)

func TestGetRequestID(t *testing.T) {
	t.Run("returns the request ID stored in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), RequestIDKey, "req-123")
		assert.Equal(t, "req-123", GetRequestID(ctx))
	})

	t.Run("returns empty for a bare context", func(t *testing.T) {
		assert.Equal(t, "", GetRequestID(context.Background()))
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("unknown"))
}
