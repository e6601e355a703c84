package fx

import (
	"brawl-tracker/internal/config"
	"brawl-tracker/internal/database"
	"brawl-tracker/internal/logger"
	"brawl-tracker/internal/repository"
	"brawl-tracker/internal/server"
	"brawl-tracker/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewBattleRepository),
	// svc
	fx.Provide(service.NewBattleService),
	fx.Provide(service.NewStatsService),
	// server
	fx.Provide(server.NewBattleServer),
)
