package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgrid/flowgrid-server/internal/domain"
	domainerrors "github.com/flowgrid/flowgrid-server/internal/errors"
	"github.com/flowgrid/flowgrid-server/internal/ratelimit"
	"github.com/flowgrid/flowgrid-server/internal/store"
)

func newTestBookingService(t *testing.T, s store.Store) *BookingService {
	t.Helper()
	limiter := ratelimit.NewPerMinute(600, 100)
	t.Cleanup(limiter.Stop)
	return NewBookingService(s, limiter, testLogger())
}

func bookable(sess *domain.Session) {
	sess.BookingEnabled = true
}

func TestBook_CreatesBookingWithCancelCode(t *testing.T) {
	s := newTestStore(t)
	festival := createTestFestival(t, s, true)
	sess := createTestSession(t, s, festival.ID, "sess_1", "Balboa Basics", bookable)
	svc := newTestBookingService(t, s)

	booking, err := svc.Book(context.Background(), sess.ID, BookingInput{
		Name:  "Dana",
		Email: "Dana@Example.com ",
	}, "10.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, sess.ID, booking.SessionID)
	assert.Equal(t, festival.ID, booking.FestivalID)
	assert.Equal(t, "dana@example.com", booking.Email)
	assert.Len(t, booking.CancelCode, cancelCodeLength)
}

func TestBook_BookingDisabled(t *testing.T) {
	s := newTestStore(t)
	festival := createTestFestival(t, s, true)
	sess := createTestSession(t, s, festival.ID, "sess_1", "Balboa Basics")
	svc := newTestBookingService(t, s)

	_, err := svc.Book(context.Background(), sess.ID, BookingInput{Name: "Dana", Email: "dana@example.com"}, "10.0.0.1")
	require.Error(t, err)

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeBookingClosed, derr.Code)
}

func TestBook_SessionFull(t *testing.T) {
	s := newTestStore(t)
	festival := createTestFestival(t, s, true)
	one := 1
	sess := createTestSession(t, s, festival.ID, "sess_1", "Balboa Basics", bookable, func(sess *domain.Session) {
		sess.BookingCapacity = &one
	})
	svc := newTestBookingService(t, s)

	_, err := svc.Book(context.Background(), sess.ID, BookingInput{Name: "Dana", Email: "dana@example.com"}, "10.0.0.1")
	require.NoError(t, err)

	_, err = svc.Book(context.Background(), sess.ID, BookingInput{Name: "Eli", Email: "eli@example.com"}, "10.0.0.2")
	require.Error(t, err)

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeConflict, derr.Code)
}

func TestBook_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	festival := createTestFestival(t, s, true)
	sess := createTestSession(t, s, festival.ID, "sess_1", "Balboa Basics", bookable)
	svc := newTestBookingService(t, s)

	_, err := svc.Book(context.Background(), sess.ID, BookingInput{Name: "Dana", Email: "dana@example.com"}, "10.0.0.1")
	require.NoError(t, err)

	_, err = svc.Book(context.Background(), sess.ID, BookingInput{Name: "Dana", Email: "dana@example.com"}, "10.0.0.1")
	require.Error(t, err)

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeConflict, derr.Code)
}

func TestBook_RateLimited(t *testing.T) {
	s := newTestStore(t)
	festival := createTestFestival(t, s, true)
	sess := createTestSession(t, s, festival.ID, "sess_1", "Balboa Basics", bookable)

	limiter := ratelimit.NewPerMinute(1, 1)
	t.Cleanup(limiter.Stop)
	svc := NewBookingService(s, limiter, testLogger())

	_, err := svc.Book(context.Background(), sess.ID, BookingInput{Name: "Dana", Email: "dana@example.com"}, "10.0.0.1")
	require.NoError(t, err)

	_, err = svc.Book(context.Background(), sess.ID, BookingInput{Name: "Eli", Email: "eli@example.com"}, "10.0.0.1")
	require.Error(t, err)

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeRateLimited, derr.Code)
}

func TestCancel_ReleasesSpot(t *testing.T) {
	s := newTestStore(t)
	festival := createTestFestival(t, s, true)
	sess := createTestSession(t, s, festival.ID, "sess_1", "Balboa Basics", bookable)
	svc := newTestBookingService(t, s)

	booking, err := svc.Book(context.Background(), sess.ID, BookingInput{Name: "Dana", Email: "dana@example.com"}, "10.0.0.1")
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), booking.CancelCode))

	count, err := s.BookingCount(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCancel_UnknownCode(t *testing.T) {
	s := newTestStore(t)
	svc := newTestBookingService(t, s)

	err := svc.Cancel(context.Background(), "no-such-code")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListBySession_StripsCancelCodes(t *testing.T) {
	s := newTestStore(t)
	festival := createTestFestival(t, s, true)
	sess := createTestSession(t, s, festival.ID, "sess_1", "Balboa Basics", bookable)
	svc := newTestBookingService(t, s)

	_, err := svc.Book(context.Background(), sess.ID, BookingInput{Name: "Dana", Email: "dana@example.com"}, "10.0.0.1")
	require.NoError(t, err)

	bookings, err := svc.ListBySession(context.Background(), sess.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Empty(t, bookings[0].CancelCode)
}
