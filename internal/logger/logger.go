// Package logger provides the shared zap logger and request logging middleware.
package logger

import (
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/config"
	"go.uber.org/zap"
)

// New builds the process-wide logger. Production uses the JSON encoder,
// everything else the human-readable development encoder.
func New(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
