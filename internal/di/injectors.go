//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"brs/internal"
	"brs/internal/archive"
	"brs/internal/archiver"
	"brs/internal/controllers"
	"brs/internal/providers"
	"brs/internal/services"
	"brs/internal/storage"
	"brs/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewCacheProvider,
		providers.NewMetricsProvider,

		storage.NewSurrealStore,
		storage.NewBlobStore,
		archive.NewGzipCodec,
		services.NewBillingService,
		archiver.NewArchiver,
		archiver.NewScheduler,
		controllers.NewBillingController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
