package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/flowgrid/flowgrid-server/internal/domain"
	"github.com/flowgrid/flowgrid-server/internal/store"
)

// festivalColumns is the ordered list of columns selected in festival
// queries. Must match the scan order in scanFestival.
const festivalColumns = `id, name, slug, description, start_date, end_date, timezone, published, created_at, updated_at`

func scanFestival(scanner interface{ Scan(dest ...any) error }) (*domain.Festival, error) {
	var f domain.Festival

	var (
		published int
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&f.ID,
		&f.Name,
		&f.Slug,
		&f.Description,
		&f.StartDate,
		&f.EndDate,
		&f.Timezone,
		&published,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	f.Published = published != 0

	f.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	f.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &f, nil
}

// CreateFestival inserts a new festival.
// Returns store.ErrAlreadyExists on duplicate slug.
func (s *Store) CreateFestival(ctx context.Context, f *domain.Festival) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO festivals (id, name, slug, description, start_date, end_date, timezone, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID,
		f.Name,
		f.Slug,
		f.Description,
		f.StartDate,
		f.EndDate,
		f.Timezone,
		boolInt(f.Published),
		formatTime(f.CreatedAt),
		formatTime(f.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetFestivalByID retrieves a festival by its ID.
// Returns store.ErrNotFound if the festival does not exist.
func (s *Store) GetFestivalByID(ctx context.Context, festivalID string) (*domain.Festival, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+festivalColumns+` FROM festivals WHERE id = ?`, festivalID)

	f, err := scanFestival(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// GetFestivalBySlug retrieves a festival by its public slug.
// Returns store.ErrNotFound if the festival does not exist.
func (s *Store) GetFestivalBySlug(ctx context.Context, slug string) (*domain.Festival, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+festivalColumns+` FROM festivals WHERE slug = ?`, slug)

	f, err := scanFestival(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ListFestivals returns all festivals ordered by start date, newest first.
func (s *Store) ListFestivals(ctx context.Context) ([]*domain.Festival, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+festivalColumns+` FROM festivals ORDER BY start_date DESC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var festivals []*domain.Festival
	for rows.Next() {
		f, err := scanFestival(rows)
		if err != nil {
			return nil, err
		}
		festivals = append(festivals, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if festivals == nil {
		festivals = []*domain.Festival{}
	}

	return festivals, nil
}

// UpdateFestival persists all mutable festival fields.
// Returns store.ErrNotFound if the festival does not exist.
func (s *Store) UpdateFestival(ctx context.Context, f *domain.Festival) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE festivals
		SET name = ?, slug = ?, description = ?, start_date = ?, end_date = ?, timezone = ?, published = ?, updated_at = ?
		WHERE id = ?`,
		f.Name,
		f.Slug,
		f.Description,
		f.StartDate,
		f.EndDate,
		f.Timezone,
		boolInt(f.Published),
		formatTime(f.UpdatedAt),
		f.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
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

// DeleteFestival removes a festival. Sessions, bookings and teachers
// cascade via foreign keys.
// Returns store.ErrNotFound if the festival does not exist.
func (s *Store) DeleteFestival(ctx context.Context, festivalID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM festivals WHERE id = ?`, festivalID)
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

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
