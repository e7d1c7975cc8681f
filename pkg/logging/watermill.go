// pkg/logging/watermill.go
package logging

import (
	"github.com/ThreeDotsLabs/watermill"
	"go.uber.org/zap"
)

// NewWatermillAdapter wraps a zap logger in the LoggerAdapter contract the
// watermill router and transports expect, so the whole process logs through
// one pipeline.
func NewWatermillAdapter(l *zap.Logger) watermill.LoggerAdapter {
	if l == nil {
		panic("logging: zap logger cannot be nil")
	}
	return &zapAdapter{base: l}
}

type zapAdapter struct {
	base *zap.Logger
}

func (a *zapAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.base.Error(msg, append(fieldsToZap(fields), zap.Error(err))...)
}

func (a *zapAdapter) Info(msg string, fields watermill.LogFields) {
	a.base.Info(msg, fieldsToZap(fields)...)
}

func (a *zapAdapter) Debug(msg string, fields watermill.LogFields) {
	a.base.Debug(msg, fieldsToZap(fields)...)
}

// Trace has no zap counterpart; it maps to Debug.
func (a *zapAdapter) Trace(msg string, fields watermill.LogFields) {
	a.base.Debug(msg, fieldsToZap(fields)...)
}

func (a *zapAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &zapAdapter{base: a.base.With(fieldsToZap(fields)...)}
}

func fieldsToZap(fields watermill.LogFields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	zf := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	return zf
}
