package api

import "github.com/flowgrid/flowgrid-server/internal/service"

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Festival *service.FestivalService
	Session  *service.SessionService
	Import   *service.ImportService
	Booking  *service.BookingService
	Schedule *service.ScheduleService
	Teacher  *service.TeacherService
}
