package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/flowgrid/flowgrid-server/internal/domain"
	domainerrors "github.com/flowgrid/flowgrid-server/internal/errors"
	"github.com/flowgrid/flowgrid-server/internal/id"
	"github.com/flowgrid/flowgrid-server/internal/ratelimit"
	"github.com/flowgrid/flowgrid-server/internal/store"
)

// cancelCodeAlphabet avoids ambiguous characters since attendees type
// cancel codes by hand.
const (
	cancelCodeAlphabet = "23456789abcdefghjkmnpqrstuvwxyz"
	cancelCodeLength   = 10
)

// BookingService handles attendee bookings on the public schedule.
// There are no attendee accounts; a booking is held by its cancel code.
type BookingService struct {
	store   store.Store
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// NewBookingService creates a new booking service.
func NewBookingService(store store.Store, limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) *BookingService {
	return &BookingService{
		store:   store,
		limiter: limiter,
		logger:  logger,
	}
}

// BookingInput carries an attendee's booking request.
type BookingInput struct {
	Name  string
	Email string
}

// Book reserves a spot on a session. The rate limit key is the caller's
// IP, supplied by the HTTP layer.
func (s *BookingService) Book(ctx context.Context, sessionID string, in BookingInput, rateKey string) (*domain.Booking, error) {
	if !s.limiter.Allow(rateKey) {
		return nil, domainerrors.RateLimited("too many booking requests, try again in a minute")
	}

	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.BookingEnabled {
		return nil, domainerrors.BookingClosed("this session does not take bookings")
	}
	if sess.IsFull() {
		return nil, domainerrors.Conflict("this session is fully booked")
	}

	code, err := gonanoid.Generate(cancelCodeAlphabet, cancelCodeLength)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to generate cancel code")
	}

	booking := &domain.Booking{
		ID:         id.MustGenerate(id.PrefixBooking),
		SessionID:  sess.ID,
		FestivalID: sess.FestivalID,
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		CancelCode: code,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.store.CreateBooking(ctx, booking); err != nil {
		if err == store.ErrAlreadyExists {
			return nil, domainerrors.Conflict("this email already holds a booking for this session")
		}
		return nil, err
	}

	s.logger.Info("booking created",
		"booking_id", booking.ID,
		"session_id", sess.ID,
		"festival_id", sess.FestivalID,
	)

	return booking, nil
}

// Cancel releases a booking by its cancel code.
func (s *BookingService) Cancel(ctx context.Context, cancelCode string) error {
	booking, err := s.store.GetBookingByCancelCode(ctx, strings.TrimSpace(cancelCode))
	if err != nil {
		return err
	}

	if err := s.store.DeleteBooking(ctx, booking.ID); err != nil {
		return err
	}

	s.logger.Info("booking cancelled",
		"booking_id", booking.ID,
		"session_id", booking.SessionID,
	)

	return nil
}

// ListBySession returns a session's bookings for the organizer view.
// Cancel codes are stripped; they belong to the attendees.
func (s *BookingService) ListBySession(ctx context.Context, sessionID string) ([]*domain.Booking, error) {
	bookings, err := s.store.ListBookingsBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for _, b := range bookings {
		b.CancelCode = ""
	}
	return bookings, nil
}
