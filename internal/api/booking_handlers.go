package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flowgrid/flowgrid-server/internal/service"
)

func (s *Server) registerBookingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createBooking",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{sessionID}/bookings",
		Summary:     "Book a session",
		Description: "Reserves a spot on a bookable session, returning the cancel code once",
		Tags:        []string{"Bookings"},
	}, s.handleCreateBooking)

	huma.Register(s.api, huma.Operation{
		OperationID: "cancelBooking",
		Method:      http.MethodDelete,
		Path:        "/api/v1/bookings/{cancelCode}",
		Summary:     "Cancel a booking",
		Description: "Releases a booking by its cancel code",
		Tags:        []string{"Bookings"},
	}, s.handleCancelBooking)
}

// === DTOs ===

// CreateBookingRequest is the request body for booking a session.
type CreateBookingRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200" doc:"Attendee name"`
	Email string `json:"email" validate:"required,email,max=254" doc:"Attendee email"`
}

// CreateBookingInput wraps the booking request for Huma.
type CreateBookingInput struct {
	SessionID string `path:"sessionID" doc:"Session ID"`
	Body      CreateBookingRequest
}

// CreateBookingOutput wraps the booking response for Huma. This is
// the only place the cancel code ever appears.
type CreateBookingOutput struct {
	Body struct {
		ID         string    `json:"id" doc:"Booking ID"`
		SessionID  string    `json:"session_id" doc:"Booked session ID"`
		CancelCode string    `json:"cancel_code" doc:"Code needed to cancel this booking"`
		CreatedAt  time.Time `json:"created_at" doc:"Booking time"`
	}
}

// CancelBookingInput contains parameters for cancelling a booking.
type CancelBookingInput struct {
	CancelCode string `path:"cancelCode" doc:"Cancel code from the booking confirmation"`
}

// === Handlers ===

func (s *Server) handleCreateBooking(ctx context.Context, input *CreateBookingInput) (*CreateBookingOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	booking, err := s.services.Booking.Book(ctx, input.SessionID, service.BookingInput{
		Name:  input.Body.Name,
		Email: input.Body.Email,
	}, clientIPFrom(ctx))
	if err != nil {
		return nil, err
	}

	out := &CreateBookingOutput{}
	out.Body.ID = booking.ID
	out.Body.SessionID = booking.SessionID
	out.Body.CancelCode = booking.CancelCode
	out.Body.CreatedAt = booking.CreatedAt
	return out, nil
}

func (s *Server) handleCancelBooking(ctx context.Context, input *CancelBookingInput) (*DeleteOutput, error) {
	if err := s.services.Booking.Cancel(ctx, input.CancelCode); err != nil {
		return nil, err
	}
	return &DeleteOutput{}, nil
}
