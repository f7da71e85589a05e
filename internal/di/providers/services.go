package providers

import (
	"github.com/samber/do/v2"

	"github.com/flowgrid/flowgrid-server/internal/config"
	"github.com/flowgrid/flowgrid-server/internal/logger"
	"github.com/flowgrid/flowgrid-server/internal/media/images"
	"github.com/flowgrid/flowgrid-server/internal/ratelimit"
	"github.com/flowgrid/flowgrid-server/internal/service"
)

// RateLimiterHandle wraps the booking rate limiter with shutdown
// capability so its cleanup goroutine stops with the server.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideBookingRateLimiter provides the per-IP booking rate limiter.
func ProvideBookingRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	limiter := ratelimit.NewPerMinute(cfg.Booking.RatePerMinute, cfg.Booking.RateBurst)
	return &RateLimiterHandle{KeyedRateLimiter: limiter}, nil
}

// ProvideFestivalService provides the festival service.
func ProvideFestivalService(i do.Injector) (*service.FestivalService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFestivalService(storeHandle.Store, log.Logger), nil
}

// ProvideSessionService provides the session service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, log.Logger), nil
}

// ProvideImportService provides the schedule import service.
func ProvideImportService(i do.Injector) (*service.ImportService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewImportService(storeHandle.Store, cfg.Import, log.Logger), nil
}

// ProvideBookingService provides the attendee booking service.
func ProvideBookingService(i do.Injector) (*service.BookingService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	limiterHandle := do.MustInvoke[*RateLimiterHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookingService(storeHandle.Store, limiterHandle.KeyedRateLimiter, log.Logger), nil
}

// ProvideScheduleService provides the public schedule service.
func ProvideScheduleService(i do.Injector) (*service.ScheduleService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewScheduleService(storeHandle.Store, indexHandle.SearchIndex, log.Logger), nil
}

// ProvideTeacherService provides the teacher service.
func ProvideTeacherService(i do.Injector) (*service.TeacherService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storage := do.MustInvoke[*images.Storage](i)
	processor := do.MustInvoke[*images.Processor](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTeacherService(storeHandle.Store, storage, processor, log.Logger), nil
}
