package history

import (
	"github.com/Syaif05/superapp-admin-web/internal/history/repository"
	"github.com/Syaif05/superapp-admin-web/internal/history/service"
	"go.uber.org/fx"
)

var Module = fx.Module("history.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
