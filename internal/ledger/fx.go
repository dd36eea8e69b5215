package ledger

import (
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/ledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.service",
	fx.Provide(service.NewService),
)
