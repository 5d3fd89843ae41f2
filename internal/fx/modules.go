package fx

import (
	"go.uber.org/fx"

	"royale-meta/internal/api"
	"royale-meta/internal/classifier"
	"royale-meta/internal/config"
	"royale-meta/internal/database"
	"royale-meta/internal/format"
	"royale-meta/internal/logger"
	"royale-meta/internal/repository"
	"royale-meta/internal/server"
	"royale-meta/internal/service"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// api client + normalization
	fx.Provide(api.NewCRClient),
	fx.Provide(format.NewSource),
	classifier.Module,
	// repos
	fx.Provide(repository.NewRunRepository),
	// svc
	fx.Provide(service.NewMetaService),
	// server
	fx.Provide(server.NewMetaServer),
)
