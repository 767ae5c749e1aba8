package stock

import (
	"github.com/Syaif05/superapp-admin-web/internal/stock/repository"
	"github.com/Syaif05/superapp-admin-web/internal/stock/service"
	"go.uber.org/fx"
)

var Module = fx.Module("stock.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
