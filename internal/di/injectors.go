//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"falci/internal"
	"falci/internal/controllers"
	"falci/internal/providers"
	"falci/internal/scheduler"
	"falci/internal/services"
	"falci/internal/storage"
	"falci/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewTokenProvider,
		providers.NewAnthropicProvider,

		storage.NewKVStore,
		storage.NewStoreAdapter,

		services.NewCredentialService,
		services.NewInferenceService,
		services.NewHistoryService,
		services.NewSessionRegistry,
		scheduler.NewScheduler,

		controllers.NewAuthController,
		controllers.NewReadingController,
		controllers.NewHistoryController,
		controllers.NewChatController,
		controllers.NewProfileController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewHandler,
		internal.NewApp,
	)

	return nil, nil, nil
}
