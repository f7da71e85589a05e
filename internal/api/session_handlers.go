package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flowgrid/flowgrid-server/internal/domain"
	"github.com/flowgrid/flowgrid-server/internal/service"
)

func (s *Server) registerSessionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createSession",
		Method:      http.MethodPost,
		Path:        "/api/v1/festivals/{festivalID}/sessions",
		Summary:     "Create session",
		Description: "Adds a session to a festival",
		Tags:        []string{"Sessions"},
	}, s.handleCreateSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSessions",
		Method:      http.MethodGet,
		Path:        "/api/v1/festivals/{festivalID}/sessions",
		Summary:     "List sessions",
		Description: "Returns a festival's sessions in schedule order",
		Tags:        []string{"Sessions"},
	}, s.handleListSessions)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorderSessions",
		Method:      http.MethodPut,
		Path:        "/api/v1/festivals/{festivalID}/sessions/order",
		Summary:     "Reorder sessions",
		Description: "Rewrites session display order to match the given ID sequence",
		Tags:        []string{"Sessions"},
	}, s.handleReorderSessions)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSession",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}",
		Summary:     "Get session",
		Description: "Returns a session by ID",
		Tags:        []string{"Sessions"},
	}, s.handleGetSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSession",
		Method:      http.MethodPut,
		Path:        "/api/v1/sessions/{id}",
		Summary:     "Update session",
		Description: "Overwrites a session's fields",
		Tags:        []string{"Sessions"},
	}, s.handleUpdateSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteSession",
		Method:      http.MethodDelete,
		Path:        "/api/v1/sessions/{id}",
		Summary:     "Delete session",
		Description: "Deletes a session without bookings",
		Tags:        []string{"Sessions"},
	}, s.handleDeleteSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSessionBookings",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}/bookings",
		Summary:     "List session bookings",
		Description: "Returns a session's bookings for the organizer view",
		Tags:        []string{"Sessions"},
	}, s.handleListSessionBookings)
}

// === DTOs ===

// SessionRequest is the request body for creating or updating a session.
type SessionRequest struct {
	Title           string   `json:"title" validate:"required,min=1,max=200" doc:"Session title"`
	Day             string   `json:"day" validate:"required,max=32" doc:"Weekday name or ISO date"`
	StartTime       string   `json:"start_time" validate:"required" doc:"Start time (HH:MM, 24h)"`
	EndTime         string   `json:"end_time" validate:"required" doc:"End time (HH:MM, 24h)"`
	Level           string   `json:"level,omitempty" validate:"max=64" doc:"Difficulty level"`
	Capacity        *int     `json:"capacity,omitempty" validate:"omitempty,gte=0" doc:"Room capacity, empty for unlimited"`
	Types           []string `json:"types,omitempty" doc:"Session type tags"`
	CardType        string   `json:"card_type,omitempty" validate:"omitempty,oneof=minimal photo detailed" doc:"Public card rendering"`
	Teachers        []string `json:"teachers,omitempty" doc:"Teacher names"`
	Location        string   `json:"location,omitempty" validate:"max=200" doc:"Room or venue"`
	Description     string   `json:"description,omitempty" validate:"max=20000" doc:"Session description"`
	Prerequisites   string   `json:"prerequisites,omitempty" validate:"max=2000" doc:"Prerequisites"`
	BookingEnabled  bool     `json:"booking_enabled" required:"false" doc:"Whether attendees can book spots"`
	BookingCapacity *int     `json:"booking_capacity,omitempty" validate:"omitempty,gte=0" doc:"Bookable spots, empty to use capacity"`
}

// SessionResponse contains session data in API responses.
type SessionResponse struct {
	ID              string          `json:"id" doc:"Session ID"`
	FestivalID      string          `json:"festival_id" doc:"Owning festival ID"`
	Title           string          `json:"title" doc:"Session title"`
	Day             string          `json:"day" doc:"Weekday name or ISO date"`
	StartTime       string          `json:"start_time" doc:"Start time (HH:MM)"`
	EndTime         string          `json:"end_time" doc:"End time (HH:MM)"`
	Level           string          `json:"level,omitempty" doc:"Difficulty level"`
	Capacity        *int            `json:"capacity,omitempty" doc:"Room capacity"`
	Types           []string        `json:"types,omitempty" doc:"Session type tags"`
	CardType        domain.CardType `json:"card_type" doc:"Public card rendering"`
	Teachers        []string        `json:"teachers,omitempty" doc:"Teacher names"`
	Location        string          `json:"location,omitempty" doc:"Room or venue"`
	Description     string          `json:"description,omitempty" doc:"Session description"`
	Prerequisites   string          `json:"prerequisites,omitempty" doc:"Prerequisites"`
	DisplayOrder    int             `json:"display_order" doc:"Order within the timeslot"`
	BookingEnabled  bool            `json:"booking_enabled" doc:"Whether attendees can book spots"`
	BookingCapacity *int            `json:"booking_capacity,omitempty" doc:"Bookable spots"`
	BookingCount    int             `json:"booking_count" doc:"Current number of bookings"`
	CreatedAt       time.Time       `json:"created_at" doc:"Creation time"`
	UpdatedAt       time.Time       `json:"updated_at" doc:"Last update time"`
}

// CreateSessionInput wraps the create session request for Huma.
type CreateSessionInput struct {
	FestivalID string `path:"festivalID" doc:"Festival ID"`
	Body       SessionRequest
}

// SessionOutput wraps a single session response for Huma.
type SessionOutput struct {
	Body SessionResponse
}

// ListSessionsInput contains parameters for listing sessions.
type ListSessionsInput struct {
	FestivalID string `path:"festivalID" doc:"Festival ID"`
}

// ListSessionsOutput wraps the session list response for Huma.
type ListSessionsOutput struct {
	Body struct {
		Sessions []SessionResponse `json:"sessions" doc:"Sessions in schedule order"`
	}
}

// ReorderSessionsInput wraps the reorder request for Huma.
type ReorderSessionsInput struct {
	FestivalID string `path:"festivalID" doc:"Festival ID"`
	Body       struct {
		SessionIDs []string `json:"session_ids" validate:"required,min=1" doc:"Session IDs in the new display order"`
	}
}

// SessionIDInput contains parameters for single-session operations.
type SessionIDInput struct {
	ID string `path:"id" doc:"Session ID"`
}

// UpdateSessionInput wraps the update session request for Huma.
type UpdateSessionInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body SessionRequest
}

// BookingResponse contains booking data for the organizer view.
type BookingResponse struct {
	ID        string    `json:"id" doc:"Booking ID"`
	SessionID string    `json:"session_id" doc:"Booked session ID"`
	Name      string    `json:"name" doc:"Attendee name"`
	Email     string    `json:"email" doc:"Attendee email"`
	CreatedAt time.Time `json:"created_at" doc:"Booking time"`
}

// ListSessionBookingsOutput wraps the booking list response for Huma.
type ListSessionBookingsOutput struct {
	Body struct {
		Bookings []BookingResponse `json:"bookings" doc:"Bookings, oldest first"`
	}
}

func sessionResponse(sess *domain.Session) SessionResponse {
	return SessionResponse{
		ID:              sess.ID,
		FestivalID:      sess.FestivalID,
		Title:           sess.Title,
		Day:             sess.Day,
		StartTime:       sess.StartTime,
		EndTime:         sess.EndTime,
		Level:           sess.Level,
		Capacity:        sess.Capacity,
		Types:           sess.Types,
		CardType:        sess.CardType,
		Teachers:        sess.Teachers,
		Location:        sess.Location,
		Description:     sess.Description,
		Prerequisites:   sess.Prerequisites,
		DisplayOrder:    sess.DisplayOrder,
		BookingEnabled:  sess.BookingEnabled,
		BookingCapacity: sess.BookingCapacity,
		BookingCount:    sess.BookingCount,
		CreatedAt:       sess.CreatedAt,
		UpdatedAt:       sess.UpdatedAt,
	}
}

func sessionInput(req SessionRequest) service.SessionInput {
	return service.SessionInput{
		Title:           req.Title,
		Day:             req.Day,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Level:           req.Level,
		Capacity:        req.Capacity,
		Types:           req.Types,
		CardType:        req.CardType,
		Teachers:        req.Teachers,
		Location:        req.Location,
		Description:     req.Description,
		Prerequisites:   req.Prerequisites,
		BookingEnabled:  req.BookingEnabled,
		BookingCapacity: req.BookingCapacity,
	}
}

// === Handlers ===

func (s *Server) handleCreateSession(ctx context.Context, input *CreateSessionInput) (*SessionOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	sess, err := s.services.Session.Create(ctx, input.FestivalID, sessionInput(input.Body))
	if err != nil {
		return nil, err
	}
	return &SessionOutput{Body: sessionResponse(sess)}, nil
}

func (s *Server) handleListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error) {
	sessions, err := s.services.Session.ListByFestival(ctx, input.FestivalID)
	if err != nil {
		return nil, err
	}

	out := &ListSessionsOutput{}
	out.Body.Sessions = make([]SessionResponse, len(sessions))
	for i, sess := range sessions {
		out.Body.Sessions[i] = sessionResponse(sess)
	}
	return out, nil
}

func (s *Server) handleReorderSessions(ctx context.Context, input *ReorderSessionsInput) (*DeleteOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	if err := s.services.Session.Reorder(ctx, input.FestivalID, input.Body.SessionIDs); err != nil {
		return nil, err
	}
	return &DeleteOutput{}, nil
}

func (s *Server) handleGetSession(ctx context.Context, input *SessionIDInput) (*SessionOutput, error) {
	sess, err := s.services.Session.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &SessionOutput{Body: sessionResponse(sess)}, nil
}

func (s *Server) handleUpdateSession(ctx context.Context, input *UpdateSessionInput) (*SessionOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	sess, err := s.services.Session.Update(ctx, input.ID, sessionInput(input.Body))
	if err != nil {
		return nil, err
	}
	return &SessionOutput{Body: sessionResponse(sess)}, nil
}

func (s *Server) handleDeleteSession(ctx context.Context, input *SessionIDInput) (*DeleteOutput, error) {
	if err := s.services.Session.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return &DeleteOutput{}, nil
}

func (s *Server) handleListSessionBookings(ctx context.Context, input *SessionIDInput) (*ListSessionBookingsOutput, error) {
	bookings, err := s.services.Booking.ListBySession(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := &ListSessionBookingsOutput{}
	out.Body.Bookings = make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		out.Body.Bookings[i] = BookingResponse{
			ID:        b.ID,
			SessionID: b.SessionID,
			Name:      b.Name,
			Email:     b.Email,
			CreatedAt: b.CreatedAt,
		}
	}
	return out, nil
}
