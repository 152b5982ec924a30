package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/wellnesthq/wellnest/internal/clock"
	"github.com/wellnesthq/wellnest/internal/config"
	"github.com/wellnesthq/wellnest/internal/logger"
	"github.com/wellnesthq/wellnest/internal/migration"
	"github.com/wellnesthq/wellnest/internal/server"
	"github.com/wellnesthq/wellnest/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
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
