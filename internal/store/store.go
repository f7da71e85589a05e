package store

import (
	"context"

	"github.com/flowgrid/flowgrid-server/internal/domain"
)

// Store is the persistence surface the services build on. The SQLite
// implementation in store/sqlite satisfies it.
type Store interface {
	CreateFestival(ctx context.Context, f *domain.Festival) error
	GetFestivalByID(ctx context.Context, festivalID string) (*domain.Festival, error)
	GetFestivalBySlug(ctx context.Context, slug string) (*domain.Festival, error)
	ListFestivals(ctx context.Context) ([]*domain.Festival, error)
	UpdateFestival(ctx context.Context, f *domain.Festival) error
	DeleteFestival(ctx context.Context, festivalID string) error

	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	ListSessionsByFestival(ctx context.Context, festivalID string) ([]*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, sessionID string) error
	ReorderSessions(ctx context.Context, festivalID string, orderedIDs []string) error
	BookingCount(ctx context.Context, sessionID string) (int, error)

	CreateBooking(ctx context.Context, b *domain.Booking) error
	GetBookingByCancelCode(ctx context.Context, code string) (*domain.Booking, error)
	ListBookingsBySession(ctx context.Context, sessionID string) ([]*domain.Booking, error)
	DeleteBooking(ctx context.Context, bookingID string) error

	CreateTeacher(ctx context.Context, t *domain.Teacher) error
	GetTeacherByID(ctx context.Context, teacherID string) (*domain.Teacher, error)
	GetTeacherByName(ctx context.Context, festivalID, name string) (*domain.Teacher, error)
	ListTeachersByFestival(ctx context.Context, festivalID string) ([]*domain.Teacher, error)
	UpdateTeacher(ctx context.Context, t *domain.Teacher) error
	DeleteTeacher(ctx context.Context, teacherID string) error
}

// SearchIndexer keeps the session search index in sync with writes.
// The store calls it on every session mutation so search never lags
// behind persistence.
type SearchIndexer interface {
	IndexSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, sessionID string) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

// IndexSession is a no-op.
func (NoopSearchIndexer) IndexSession(context.Context, *domain.Session) error { return nil }

// DeleteSession is a no-op.
func (NoopSearchIndexer) DeleteSession(context.Context, string) error { return nil }

// NewNoopSearchIndexer creates a new no-op indexer for testing.
func NewNoopSearchIndexer() SearchIndexer {
	return NoopSearchIndexer{}
}
