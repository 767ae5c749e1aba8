package product

import (
	"github.com/Syaif05/superapp-admin-web/internal/product/repository"
	"github.com/Syaif05/superapp-admin-web/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
