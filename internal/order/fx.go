package order

import (
	"github.com/Syaif05/superapp-admin-web/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(service.New),
)
