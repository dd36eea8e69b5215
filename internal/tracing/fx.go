package tracing

import (
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("tracing",
	fx.Provide(newConfig),
	fx.Invoke(setup),
)

func newConfig(cfg config.Config) Config {
	return Config{
		Enabled:          cfg.TracingEnabled,
		Environment:      cfg.Environment,
		ExporterEndpoint: cfg.TracingEndpoint,
		ExporterProtocol: cfg.TracingProtocol,
		SamplingRatio:    cfg.TracingSampleRatio,
	}
}

func setup(lc fx.Lifecycle, cfg Config, log *zap.Logger) error {
	_, err := NewProvider(lc, cfg, log.Named("tracing"))
	return err
}
