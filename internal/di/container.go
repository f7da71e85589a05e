// Package di provides dependency injection configuration for the Flow Grid server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/flowgrid/flowgrid-server/internal/config"
	"github.com/flowgrid/flowgrid-server/internal/di/providers"
	"github.com/flowgrid/flowgrid-server/internal/logger"
	"github.com/flowgrid/flowgrid-server/internal/media/images"
	"github.com/flowgrid/flowgrid-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Storage layer
	do.Provide(injector, providers.ProvideImageStorage)
	do.Provide(injector, providers.ProvideImageProcessor)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// Business services
	do.Provide(injector, providers.ProvideBookingRateLimiter)
	do.Provide(injector, providers.ProvideFestivalService)
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideImportService)
	do.Provide(injector, providers.ProvideBookingService)
	do.Provide(injector, providers.ProvideScheduleService)
	do.Provide(injector, providers.ProvideTeacherService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap eagerly initializes all services so startup failures
// surface immediately instead of on first request.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*images.Storage](injector)
	_ = do.MustInvoke[*images.Processor](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)

	// Business services
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)
	_ = do.MustInvoke[*service.FestivalService](injector)
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.ImportService](injector)
	_ = do.MustInvoke[*service.BookingService](injector)
	_ = do.MustInvoke[*service.ScheduleService](injector)
	_ = do.MustInvoke[*service.TeacherService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Rebuild the search index from the store if it came up empty.
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
