package errutil

import (
	"github.com/samber/oops"
	"go.uber.org/zap"
)

// LogError logs err with its oops code and context when present.
func LogError(l *zap.Logger, msg string, err error) {
	if l == nil || err == nil {
		return
	}
	o, ok := oops.AsOops(err)
	if !ok {
		l.Error(msg, zap.Error(err))
		return
	}
	fields := []zap.Field{zap.String("error", o.Error())}
	if code := o.Code(); code != nil && code != "" {
		fields = append(fields, zap.Any("code", code))
	}
	if ctx := o.Context(); len(ctx) > 0 {
		fields = append(fields, zap.Any("context", ctx))
	}
	l.Error(msg, fields...)
}
