//go:build wireinject
// +build wireinject

package di

import (
	"emd/internal"
	"emd/internal/controllers"
	"emd/internal/providers"
	"emd/internal/services"
	"emd/internal/snapshot"
	"emd/internal/structures"
	"emd/internal/upstream"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		upstream.NewClient,
		wire.Bind(new(upstream.ClientInterface), new(*upstream.Client)),
		upstream.NewRetryingFetcher,

		services.NewQueryService,
		services.NewSearchService,
		services.NewAccountService,

		snapshot.NewZstdCompressor,
		snapshot.NewFileManager,
		snapshot.NewScheduler,

		controllers.NewDashboardController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
