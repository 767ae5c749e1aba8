package main

import (
	"github.com/Syaif05/superapp-admin-web/internal/clock"
	"github.com/Syaif05/superapp-admin-web/internal/config"
	"github.com/Syaif05/superapp-admin-web/internal/migration"
	"github.com/Syaif05/superapp-admin-web/internal/observability"
	"github.com/Syaif05/superapp-admin-web/internal/server"
	"github.com/Syaif05/superapp-admin-web/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
