package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/flowgrid/flowgrid-server/internal/domain"
	"github.com/flowgrid/flowgrid-server/internal/store"
)

// sessionColumns is the ordered list of columns selected in session
// queries, including the derived booking count. Must match the scan
// order in scanSession. The alias "s" is assumed on the sessions table.
const sessionColumns = `s.id, s.festival_id, s.title, s.day, s.start_time, s.end_time,
	s.level, s.capacity, s.types, s.card_type, s.teachers, s.location,
	s.description, s.prerequisites, s.display_order, s.booking_enabled,
	s.booking_capacity, s.created_at, s.updated_at,
	(SELECT COUNT(*) FROM bookings b WHERE b.session_id = s.id) AS booking_count`

func scanSession(scanner interface{ Scan(dest ...any) error }) (*domain.Session, error) {
	var sess domain.Session

	var (
		capacity        sql.NullInt64
		types           string
		cardType        string
		teachers        string
		bookingEnabled  int
		bookingCapacity sql.NullInt64
		createdAt       string
		updatedAt       string
	)

	err := scanner.Scan(
		&sess.ID,
		&sess.FestivalID,
		&sess.Title,
		&sess.Day,
		&sess.StartTime,
		&sess.EndTime,
		&sess.Level,
		&capacity,
		&types,
		&cardType,
		&teachers,
		&sess.Location,
		&sess.Description,
		&sess.Prerequisites,
		&sess.DisplayOrder,
		&bookingEnabled,
		&bookingCapacity,
		&createdAt,
		&updatedAt,
		&sess.BookingCount,
	)
	if err != nil {
		return nil, err
	}

	sess.Capacity = intPtr(capacity)
	sess.Types = unmarshalList(types)
	sess.Teachers = unmarshalList(teachers)
	sess.BookingEnabled = bookingEnabled != 0
	sess.BookingCapacity = intPtr(bookingCapacity)

	if card, ok := domain.ParseCardType(cardType); ok {
		sess.CardType = card
	} else {
		sess.CardType = domain.DefaultCardType
	}

	sess.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	sess.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &sess, nil
}

// CreateSession inserts a new session and indexes it for search.
func (s *Store) CreateSession(ctx context.Context, sess *domain.Session) error {
	now := time.Now().UTC()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	if sess.UpdatedAt.IsZero() {
		sess.UpdatedAt = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, festival_id, title, day, start_time, end_time,
			level, capacity, types, card_type, teachers, location,
			description, prerequisites, display_order, booking_enabled,
			booking_capacity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID,
		sess.FestivalID,
		sess.Title,
		sess.Day,
		sess.StartTime,
		sess.EndTime,
		sess.Level,
		nullInt(sess.Capacity),
		marshalList(sess.Types),
		string(sess.CardType),
		marshalList(sess.Teachers),
		sess.Location,
		sess.Description,
		sess.Prerequisites,
		sess.DisplayOrder,
		boolInt(sess.BookingEnabled),
		nullInt(sess.BookingCapacity),
		formatTime(sess.CreatedAt),
		formatTime(sess.UpdatedAt),
	)
	if err != nil {
		return err
	}

	s.indexSession(ctx, sess)
	return nil
}

// GetSession retrieves a session by its ID.
// Returns store.ErrNotFound if the session does not exist.
func (s *Store) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions s WHERE s.id = ?`, sessionID)

	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// ListSessionsByFestival returns all sessions for a festival ordered
// by day, start time and display order.
func (s *Store) ListSessionsByFestival(ctx context.Context, festivalID string) ([]*domain.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sessionColumns+` FROM sessions s
		WHERE s.festival_id = ?
		ORDER BY s.day ASC, s.start_time ASC, s.display_order ASC`, festivalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if sessions == nil {
		sessions = []*domain.Session{}
	}

	return sessions, nil
}

// UpdateSession persists all mutable session fields and refreshes the
// search index. Returns store.ErrNotFound if the session does not exist.
func (s *Store) UpdateSession(ctx context.Context, sess *domain.Session) error {
	sess.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions
		SET title = ?, day = ?, start_time = ?, end_time = ?, level = ?,
			capacity = ?, types = ?, card_type = ?, teachers = ?, location = ?,
			description = ?, prerequisites = ?, display_order = ?,
			booking_enabled = ?, booking_capacity = ?, updated_at = ?
		WHERE id = ?`,
		sess.Title,
		sess.Day,
		sess.StartTime,
		sess.EndTime,
		sess.Level,
		nullInt(sess.Capacity),
		marshalList(sess.Types),
		string(sess.CardType),
		marshalList(sess.Teachers),
		sess.Location,
		sess.Description,
		sess.Prerequisites,
		sess.DisplayOrder,
		boolInt(sess.BookingEnabled),
		nullInt(sess.BookingCapacity),
		formatTime(sess.UpdatedAt),
		sess.ID,
	)
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

	s.indexSession(ctx, sess)
	return nil
}

// DeleteSession removes a session and its bookings, and drops it from
// the search index. Returns store.ErrNotFound if it does not exist.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
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

	if err := s.indexer.DeleteSession(ctx, sessionID); err != nil {
		s.logger.Warn("failed to remove session from search index",
			"session_id", sessionID,
			"error", err,
		)
	}
	return nil
}

// ReorderSessions rewrites display_order for the given IDs in a single
// transaction. IDs not belonging to the festival are ignored.
func (s *Store) ReorderSessions(ctx context.Context, festivalID string, orderedIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := formatTime(time.Now().UTC())
	for i, sessionID := range orderedIDs {
		_, err := tx.ExecContext(ctx, `
			UPDATE sessions SET display_order = ?, updated_at = ?
			WHERE id = ? AND festival_id = ?`,
			i+1,
			now,
			sessionID,
			festivalID,
		)
		if err != nil {
			return fmt.Errorf("update display_order: %w", err)
		}
	}

	return tx.Commit()
}

// BookingCount reads the live booking count for a session.
func (s *Store) BookingCount(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE session_id = ?`, sessionID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// indexSession pushes a session into the search index. Index failures
// are logged, never surfaced; search lagging is preferable to a failed
// write.
func (s *Store) indexSession(ctx context.Context, sess *domain.Session) {
	if err := s.indexer.IndexSession(ctx, sess); err != nil {
		s.logger.Warn("failed to index session",
			"session_id", sess.ID,
			"error", err,
		)
	}
}
