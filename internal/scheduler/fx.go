package scheduler

import (
	"context"

	"github.com/baovietz98/smart-rental-capstone-sub000/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("scheduler",
	fx.Provide(newConfig),
	fx.Provide(NewWorker),
	fx.Invoke(runWorker),
)

func newConfig(cfg config.Config) Config {
	return Config{
		Enabled:      cfg.OverdueEnabled,
		BatchSize:    cfg.OverdueBatchSize,
		PollInterval: cfg.OverduePollInterval,
	}
}

func runWorker(lc fx.Lifecycle, worker *Worker) {
	if !worker.cfg.Enabled {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				worker.RunForever(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
