package logger

import (
	"go.uber.org/zap"
)

// New builds the application logger. Development mode gets the
// human-readable console encoder, everything else gets production JSON.
func New(appEnv string) (*zap.Logger, error) {
	if appEnv == "development" {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}
