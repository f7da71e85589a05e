// Package service orchestrates domain operations over the store,
// search index and media storage.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/flowgrid/flowgrid-server/internal/domain"
	domainerrors "github.com/flowgrid/flowgrid-server/internal/errors"
	"github.com/flowgrid/flowgrid-server/internal/id"
	"github.com/flowgrid/flowgrid-server/internal/store"
)

// FestivalService orchestrates festival lifecycle operations.
type FestivalService struct {
	store  store.Store
	logger *slog.Logger
}

// NewFestivalService creates a new festival service.
func NewFestivalService(store store.Store, logger *slog.Logger) *FestivalService {
	return &FestivalService{
		store:  store,
		logger: logger,
	}
}

// FestivalInput carries the mutable festival fields.
type FestivalInput struct {
	Name        string
	Slug        string
	Description string
	StartDate   string
	EndDate     string
	Timezone    string
	Published   bool
}

// Create makes a new festival. The slug must be unique across all
// festivals; it becomes the public schedule URL segment.
func (s *FestivalService) Create(ctx context.Context, in FestivalInput) (*domain.Festival, error) {
	now := time.Now().UTC()
	f := &domain.Festival{
		ID:          id.MustGenerate(id.PrefixFestival),
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Timezone:    in.Timezone,
		Published:   in.Published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateFestival(ctx, f); err != nil {
		if err == store.ErrAlreadyExists {
			return nil, domainerrors.AlreadyExists("a festival with this slug already exists")
		}
		return nil, err
	}

	s.logger.Info("festival created", "festival_id", f.ID, "slug", f.Slug)

	return f, nil
}

// Get returns a festival by ID.
func (s *FestivalService) Get(ctx context.Context, festivalID string) (*domain.Festival, error) {
	return s.store.GetFestivalByID(ctx, festivalID)
}

// List returns all festivals.
func (s *FestivalService) List(ctx context.Context) ([]*domain.Festival, error) {
	return s.store.ListFestivals(ctx)
}

// Update overwrites a festival's mutable fields.
func (s *FestivalService) Update(ctx context.Context, festivalID string, in FestivalInput) (*domain.Festival, error) {
	f, err := s.store.GetFestivalByID(ctx, festivalID)
	if err != nil {
		return nil, err
	}

	f.Name = in.Name
	f.Slug = in.Slug
	f.Description = in.Description
	f.StartDate = in.StartDate
	f.EndDate = in.EndDate
	f.Timezone = in.Timezone
	f.Published = in.Published
	f.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateFestival(ctx, f); err != nil {
		if err == store.ErrAlreadyExists {
			return nil, domainerrors.AlreadyExists("a festival with this slug already exists")
		}
		return nil, err
	}

	return f, nil
}

// Delete removes a festival and everything under it.
func (s *FestivalService) Delete(ctx context.Context, festivalID string) error {
	if err := s.store.DeleteFestival(ctx, festivalID); err != nil {
		return err
	}
	s.logger.Info("festival deleted", "festival_id", festivalID)
	return nil
}
