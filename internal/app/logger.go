package app

import (
	"go.uber.org/zap"

	"go-gin-taskhub/internal/core/config"
	"go-gin-taskhub/internal/core/logger"
)

// NewLogger builds the process logger from the log section. JSON output is
// forced in production.
func NewLogger(cfg *config.Config) (*zap.Logger, func()) {
	lc := cfg.Log
	l, cleanup := logger.New(logger.Options{
		Level:       lc.Level,
		JSON:        lc.JSON || cfg.App.Production(),
		AddCaller:   lc.AddCaller,
		Development: !cfg.App.Production(),
		Rotate: logger.FileRotate{
			Enable:     lc.Rotate.Enable,
			Filename:   lc.Rotate.Filename,
			MaxSizeMB:  lc.Rotate.MaxSizeMB,
			MaxBackups: lc.Rotate.MaxBackups,
			MaxAgeDays: lc.Rotate.MaxAgeDays,
			Compress:   lc.Rotate.Compress,
		},
	})
	return l.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env)), cleanup
}
