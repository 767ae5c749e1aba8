package providers

import (
	"github.com/Syaif05/superapp-admin-web/internal/providers/email"
	"github.com/Syaif05/superapp-admin-web/internal/providers/fetcher"
	"github.com/Syaif05/superapp-admin-web/internal/providers/google"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	google.Module,
	email.Module,
	fetcher.Module,
)
