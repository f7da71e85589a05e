package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/flowgrid/flowgrid-server/internal/domain"
	domainerrors "github.com/flowgrid/flowgrid-server/internal/errors"
	"github.com/flowgrid/flowgrid-server/internal/id"
	"github.com/flowgrid/flowgrid-server/internal/normalize"
	"github.com/flowgrid/flowgrid-server/internal/store"
)

// SessionService orchestrates manual session management. Bulk changes
// go through ImportService instead.
type SessionService struct {
	store  store.Store
	logger *slog.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(store store.Store, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:  store,
		logger: logger,
	}
}

// SessionInput carries the mutable session fields.
type SessionInput struct {
	Title           string
	Day             string
	StartTime       string
	EndTime         string
	Level           string
	Capacity        *int
	Types           []string
	CardType        string
	Teachers        []string
	Location        string
	Description     string
	Prerequisites   string
	BookingEnabled  bool
	BookingCapacity *int
}

// Create adds a session to a festival, appended at the end of its
// timeslot's display order.
func (s *SessionService) Create(ctx context.Context, festivalID string, in SessionInput) (*domain.Session, error) {
	if _, err := s.store.GetFestivalByID(ctx, festivalID); err != nil {
		return nil, err
	}

	existing, err := s.store.ListSessionsByFestival(ctx, festivalID)
	if err != nil {
		return nil, err
	}
	nextOrder := 0
	for _, sess := range existing {
		if sess.DisplayOrder > nextOrder {
			nextOrder = sess.DisplayOrder
		}
	}

	sess := &domain.Session{
		ID:           id.MustGenerate(id.PrefixSession),
		FestivalID:   festivalID,
		DisplayOrder: nextOrder + 1,
	}
	if err := applyInput(sess, in); err != nil {
		return nil, err
	}

	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Info("session created",
		"session_id", sess.ID,
		"festival_id", festivalID,
		"title", sess.Title,
	)

	return sess, nil
}

// Get returns a session by ID.
func (s *SessionService) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.store.GetSession(ctx, sessionID)
}

// ListByFestival returns a festival's sessions in schedule order.
func (s *SessionService) ListByFestival(ctx context.Context, festivalID string) ([]*domain.Session, error) {
	return s.store.ListSessionsByFestival(ctx, festivalID)
}

// Update overwrites a session's mutable fields. Booking count and
// display order are not touched.
func (s *SessionService) Update(ctx context.Context, sessionID string, in SessionInput) (*domain.Session, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := applyInput(sess, in); err != nil {
		return nil, err
	}
	sess.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateSession(ctx, sess); err != nil {
		return nil, err
	}

	return sess, nil
}

// Delete removes a session. A session holding bookings cannot be
// deleted manually either; cancel the bookings first.
func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	count, err := s.store.BookingCount(ctx, sessionID)
	if err != nil {
		return err
	}
	if count > 0 {
		return domainerrors.Conflictf("session has %d active bookings", count)
	}

	return s.store.DeleteSession(ctx, sessionID)
}

// Reorder rewrites the display order of a festival's sessions to
// match the given ID sequence.
func (s *SessionService) Reorder(ctx context.Context, festivalID string, orderedIDs []string) error {
	if _, err := s.store.GetFestivalByID(ctx, festivalID); err != nil {
		return err
	}
	return s.store.ReorderSessions(ctx, festivalID, orderedIDs)
}

// applyInput copies validated input onto a session, canonicalizing the
// times and card type.
func applyInput(sess *domain.Session, in SessionInput) error {
	start, err := normalize.Clock(in.StartTime)
	if err != nil {
		return domainerrors.Validationf("start time %q is not a valid HH:MM time", in.StartTime)
	}
	end, err := normalize.Clock(in.EndTime)
	if err != nil {
		return domainerrors.Validationf("end time %q is not a valid HH:MM time", in.EndTime)
	}

	card := domain.DefaultCardType
	if in.CardType != "" {
		parsed, ok := domain.ParseCardType(in.CardType)
		if !ok {
			return domainerrors.Validationf("unknown card type %q", in.CardType)
		}
		card = parsed
	}

	sess.Title = in.Title
	sess.Day = in.Day
	sess.StartTime = start
	sess.EndTime = end
	sess.Level = in.Level
	sess.Capacity = in.Capacity
	sess.Types = in.Types
	sess.CardType = card
	sess.Teachers = in.Teachers
	sess.Location = in.Location
	sess.Description = in.Description
	sess.Prerequisites = in.Prerequisites
	sess.BookingEnabled = in.BookingEnabled
	sess.BookingCapacity = in.BookingCapacity
	return nil
}
