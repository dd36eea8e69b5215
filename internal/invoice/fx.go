package invoice

import (
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/invoice/repository"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
