package link

import (
	"github.com/Syaif05/superapp-admin-web/internal/link/repository"
	"github.com/Syaif05/superapp-admin-web/internal/link/service"
	"go.uber.org/fx"
)

var Module = fx.Module("link.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
