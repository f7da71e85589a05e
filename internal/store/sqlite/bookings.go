package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/flowgrid/flowgrid-server/internal/domain"
	"github.com/flowgrid/flowgrid-server/internal/store"
)

const bookingColumns = `id, session_id, festival_id, name, email, cancel_code, created_at`

func scanBooking(scanner interface{ Scan(dest ...any) error }) (*domain.Booking, error) {
	var b domain.Booking

	var createdAt string

	err := scanner.Scan(
		&b.ID,
		&b.SessionID,
		&b.FestivalID,
		&b.Name,
		&b.Email,
		&b.CancelCode,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// CreateBooking inserts a new booking.
// Returns store.ErrAlreadyExists when the email already holds a spot
// in the session.
func (s *Store) CreateBooking(ctx context.Context, b *domain.Booking) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookings (id, session_id, festival_id, name, email, cancel_code, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		b.SessionID,
		b.FestivalID,
		b.Name,
		b.Email,
		b.CancelCode,
		formatTime(b.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetBookingByCancelCode retrieves a booking by its cancellation code.
// Returns store.ErrNotFound if no booking carries the code.
func (s *Store) GetBookingByCancelCode(ctx context.Context, code string) (*domain.Booking, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE cancel_code = ?`, code)

	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBookingsBySession returns all bookings for a session, oldest first.
func (s *Store) ListBookingsBySession(ctx context.Context, sessionID string) ([]*domain.Booking, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE session_id = ? ORDER BY created_at ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if bookings == nil {
		bookings = []*domain.Booking{}
	}

	return bookings, nil
}

// DeleteBooking removes a booking.
// Returns store.ErrNotFound if the booking does not exist.
func (s *Store) DeleteBooking(ctx context.Context, bookingID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, bookingID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
