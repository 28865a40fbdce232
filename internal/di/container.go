// Package di provides dependency injection configuration for the Filmarkiv server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/filmarkiv/filmarkiv-server/internal/config"
	"github.com/filmarkiv/filmarkiv-server/internal/di/providers"
	"github.com/filmarkiv/filmarkiv-server/internal/logger"
	"github.com/filmarkiv/filmarkiv-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// Configuration is read from the process arguments and environment.
func NewContainer() *do.RootScope {
	injector := do.New()
	do.Provide(injector, providers.ProvideConfig)
	register(injector)
	return injector
}

// NewContainerWithConfig creates a container around an already loaded configuration.
func NewContainerWithConfig(cfg *config.Config) *do.RootScope {
	injector := do.New()
	do.ProvideValue(injector, cfg)
	register(injector)
	return injector
}

func register(injector do.Injector) {
	// Core infrastructure
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Business services
	do.Provide(injector, providers.ProvideMovieService)
	do.Provide(injector, providers.ProvideMessageService)
	do.Provide(injector, providers.ProvideMessageLimiter)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)
	do.Provide(injector, providers.ProvideMDNSService)
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector do.Injector) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SearchServiceHandle](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*service.MovieService](injector)
	_ = do.MustInvoke[*service.MessageService](injector)
	_ = do.MustInvoke[*providers.MessageLimiterHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)
	if _, err := do.Invoke[*providers.MDNSServiceHandle](injector); err != nil {
		return err
	}

	providers.SyncSearchIndex(injector)

	return nil
}
