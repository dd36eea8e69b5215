package utility

import (
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/utility/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("utility",
	fx.Provide(repository.Provide),
)
