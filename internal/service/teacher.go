package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/flowgrid/flowgrid-server/internal/domain"
	domainerrors "github.com/flowgrid/flowgrid-server/internal/errors"
	"github.com/flowgrid/flowgrid-server/internal/id"
	"github.com/flowgrid/flowgrid-server/internal/media/images"
	"github.com/flowgrid/flowgrid-server/internal/store"
)

// TeacherService manages festival instructors and their photos.
type TeacherService struct {
	store     store.Store
	storage   *images.Storage
	processor *images.Processor
	logger    *slog.Logger
}

// NewTeacherService creates a new teacher service.
func NewTeacherService(store store.Store, storage *images.Storage, processor *images.Processor, logger *slog.Logger) *TeacherService {
	return &TeacherService{
		store:     store,
		storage:   storage,
		processor: processor,
		logger:    logger,
	}
}

// TeacherInput carries the mutable teacher fields.
type TeacherInput struct {
	Name string
	Bio  string
}

// Create adds a teacher to a festival.
func (s *TeacherService) Create(ctx context.Context, festivalID string, in TeacherInput) (*domain.Teacher, error) {
	if _, err := s.store.GetFestivalByID(ctx, festivalID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domainerrors.Validation("teacher name is required")
	}

	now := time.Now().UTC()
	teacher := &domain.Teacher{
		ID:         id.MustGenerate(id.PrefixTeacher),
		FestivalID: festivalID,
		Name:       name,
		Bio:        in.Bio,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.CreateTeacher(ctx, teacher); err != nil {
		if err == store.ErrAlreadyExists {
			return nil, domainerrors.AlreadyExists("a teacher with this name already exists in this festival")
		}
		return nil, err
	}

	s.logger.Info("teacher created",
		"teacher_id", teacher.ID,
		"festival_id", festivalID,
		"name", teacher.Name,
	)

	return teacher, nil
}

// Get returns a teacher by ID.
func (s *TeacherService) Get(ctx context.Context, teacherID string) (*domain.Teacher, error) {
	return s.store.GetTeacherByID(ctx, teacherID)
}

// ListByFestival returns a festival's teachers.
func (s *TeacherService) ListByFestival(ctx context.Context, festivalID string) ([]*domain.Teacher, error) {
	return s.store.ListTeachersByFestival(ctx, festivalID)
}

// Update overwrites a teacher's name and bio.
func (s *TeacherService) Update(ctx context.Context, teacherID string, in TeacherInput) (*domain.Teacher, error) {
	teacher, err := s.store.GetTeacherByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domainerrors.Validation("teacher name is required")
	}

	teacher.Name = name
	teacher.Bio = in.Bio
	teacher.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateTeacher(ctx, teacher); err != nil {
		if err == store.ErrAlreadyExists {
			return nil, domainerrors.AlreadyExists("a teacher with this name already exists in this festival")
		}
		return nil, err
	}

	return teacher, nil
}

// Delete removes a teacher and their photo.
func (s *TeacherService) Delete(ctx context.Context, teacherID string) error {
	if err := s.store.DeleteTeacher(ctx, teacherID); err != nil {
		return err
	}
	if err := s.processor.Remove(teacherID); err != nil {
		s.logger.Warn("failed to remove teacher photo", "teacher_id", teacherID, "error", err)
	}
	return nil
}

// UploadPhoto processes and stores a teacher photo, updating the
// teacher's photo hash and blurhash placeholder.
func (s *TeacherService) UploadPhoto(ctx context.Context, teacherID string, data []byte) (*domain.Teacher, error) {
	teacher, err := s.store.GetTeacherByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	processed, err := s.processor.Process(teacherID, data)
	if err != nil {
		return nil, domainerrors.Validation("could not decode image, upload a JPEG, PNG, GIF, or WebP file")
	}

	teacher.PhotoHash = processed.Hash
	teacher.BlurHash = processed.BlurHash
	teacher.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateTeacher(ctx, teacher); err != nil {
		return nil, err
	}

	s.logger.Info("teacher photo updated",
		"teacher_id", teacherID,
		"photo_hash", processed.Hash,
	)

	return teacher, nil
}

// Photo returns the stored JPEG bytes for a teacher photo.
func (s *TeacherService) Photo(ctx context.Context, teacherID string) ([]byte, error) {
	teacher, err := s.store.GetTeacherByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if !teacher.HasPhoto() {
		return nil, domainerrors.NotFound("teacher has no photo")
	}
	return s.storage.Get(teacherID)
}

// DeletePhoto removes a teacher's photo and clears the hash fields.
func (s *TeacherService) DeletePhoto(ctx context.Context, teacherID string) (*domain.Teacher, error) {
	teacher, err := s.store.GetTeacherByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	if err := s.processor.Remove(teacherID); err != nil {
		return nil, err
	}

	teacher.PhotoHash = ""
	teacher.BlurHash = ""
	teacher.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateTeacher(ctx, teacher); err != nil {
		return nil, err
	}

	return teacher, nil
}
