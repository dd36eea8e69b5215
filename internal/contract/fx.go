package contract

import (
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/contract/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("contract",
	fx.Provide(repository.Provide),
)
