//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"chd/internal"
	"chd/internal/controllers"
	"chd/internal/persistence"
	"chd/internal/providers"
	"chd/internal/services"
	"chd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewMetricsProvider,

		persistence.NewZstdCompressor,
		services.NewProgressionService,
		persistence.NewFileManager,
		persistence.NewScheduler,
		controllers.NewWebhookController,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
