package logger

import (
	"go.uber.org/zap"
)

// New builds the application logger for the given environment
func New(env string, debug bool) (*zap.Logger, error) {
	if env == "production" {
		cfg := zap.NewProductionConfig()
		if debug {
			cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		}
		return cfg.Build()
	}

	return zap.NewDevelopment()
}
