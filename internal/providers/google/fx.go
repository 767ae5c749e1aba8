package google

import (
	"context"

	"github.com/Syaif05/superapp-admin-web/internal/config"
	orderdomain "github.com/Syaif05/superapp-admin-web/internal/order/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
}

type Result struct {
	fx.Out

	Directory orderdomain.DirectoryService
	Drive     orderdomain.DriveService
}

func Provide(p Params) (Result, error) {
	log := p.Log.Named("providers.google")

	if !p.Config.Google.Configured() {
		log.Warn("google credentials not configured, workspace integrations disabled")
		return Result{
			Directory: &noopDirectory{log: log},
			Drive:     &noopDrive{log: log},
		}, nil
	}

	ctx := context.Background()
	directory, err := newDirectoryService(ctx, p.Config.Google)
	if err != nil {
		return Result{}, err
	}
	driveSvc, err := newDriveService(ctx, p.Config.Google)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Directory: &directoryService{svc: directory, log: log},
		Drive:     &driveService{svc: driveSvc, log: log},
	}, nil
}

var Module = fx.Module("providers.google",
	fx.Provide(Provide),
)
