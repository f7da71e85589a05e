package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/flowgrid/flowgrid-server/internal/domain"
	"github.com/flowgrid/flowgrid-server/internal/store"
)

const teacherColumns = `id, festival_id, name, bio, photo_hash, blur_hash, created_at, updated_at`

func scanTeacher(scanner interface{ Scan(dest ...any) error }) (*domain.Teacher, error) {
	var t domain.Teacher

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&t.ID,
		&t.FestivalID,
		&t.Name,
		&t.Bio,
		&t.PhotoHash,
		&t.BlurHash,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// CreateTeacher inserts a new teacher profile.
// Returns store.ErrAlreadyExists on duplicate name within a festival.
func (s *Store) CreateTeacher(ctx context.Context, t *domain.Teacher) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO teachers (id, festival_id, name, bio, photo_hash, blur_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.FestivalID,
		t.Name,
		t.Bio,
		t.PhotoHash,
		t.BlurHash,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetTeacherByID retrieves a teacher by ID.
// Returns store.ErrNotFound if the teacher does not exist.
func (s *Store) GetTeacherByID(ctx context.Context, teacherID string) (*domain.Teacher, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+teacherColumns+` FROM teachers WHERE id = ?`, teacherID)

	t, err := scanTeacher(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTeacherByName retrieves a festival's teacher by exact name.
// Returns store.ErrNotFound if no such teacher exists.
func (s *Store) GetTeacherByName(ctx context.Context, festivalID, name string) (*domain.Teacher, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+teacherColumns+` FROM teachers WHERE festival_id = ? AND name = ?`,
		festivalID, name)

	t, err := scanTeacher(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTeachersByFestival returns all teachers for a festival ordered by name.
func (s *Store) ListTeachersByFestival(ctx context.Context, festivalID string) ([]*domain.Teacher, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+teacherColumns+` FROM teachers
		WHERE festival_id = ? ORDER BY name ASC`, festivalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teachers []*domain.Teacher
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if teachers == nil {
		teachers = []*domain.Teacher{}
	}

	return teachers, nil
}

// UpdateTeacher persists all mutable teacher fields.
// Returns store.ErrNotFound if the teacher does not exist.
func (s *Store) UpdateTeacher(ctx context.Context, t *domain.Teacher) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE teachers
		SET name = ?, bio = ?, photo_hash = ?, blur_hash = ?, updated_at = ?
		WHERE id = ?`,
		t.Name,
		t.Bio,
		t.PhotoHash,
		t.BlurHash,
		formatTime(t.UpdatedAt),
		t.ID,
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

// DeleteTeacher removes a teacher profile.
// Returns store.ErrNotFound if the teacher does not exist.
func (s *Store) DeleteTeacher(ctx context.Context, teacherID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM teachers WHERE id = ?`, teacherID)
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
