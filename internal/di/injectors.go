//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"guildstore/internal"
	"guildstore/internal/controllers"
	"guildstore/internal/document"
	"guildstore/internal/handlers"
	"guildstore/internal/providers"
	"guildstore/internal/registry"
	"guildstore/internal/repository"
	"guildstore/internal/scheduler"
	"guildstore/internal/services"
	"guildstore/internal/structures"
)

var storageSet = wire.NewSet(
	providers.NewConfigProvider,
	providers.NewLogProvider,
	registry.NewTracker,
	handlers.NewDefaultRegistry,
	wire.Bind(new(providers.KeyTrackerInterface), new(*registry.Tracker)),
	wire.Bind(new(providers.TypeListerInterface), new(*registry.Registry)),
	providers.NewMetricsProvider,

	document.NewStore,
	wire.Bind(new(document.StoreInterface), new(*document.Store)),
	internal.NewRepository,
	wire.Bind(new(document.SnapshotSource), new(*repository.Repository)),
	document.NewZstdCompressor,
	document.NewBackupManager,

	providers.NewInstrumentedCacheProvider,
	services.NewIntelService,
	scheduler.NewScheduler,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		storageSet,
		wire.Bind(new(controllers.RepositoryStatus), new(*repository.Repository)),
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

func InitToolkit(cfg *structures.CliFlags) (*internal.Toolkit, error) {

	wire.Build(
		storageSet,
		internal.NewToolkit,
	)

	return nil, nil
}
