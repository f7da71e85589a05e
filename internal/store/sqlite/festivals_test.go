package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/flowgrid/flowgrid-server/internal/domain"
	"github.com/flowgrid/flowgrid-server/internal/store"
)

func TestFestivalCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	f := seedFestival(t, s)

	got, err := s.GetFestivalByID(ctx, f.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.Name != f.Name || got.Published {
		t.Errorf("got %+v", got)
	}

	bySlug, err := s.GetFestivalBySlug(ctx, f.Slug)
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if bySlug.ID != f.ID {
		t.Errorf("slug lookup returned %q", bySlug.ID)
	}

	got.Published = true
	got.Description = "## Welcome\nThree days of swing."
	got.UpdatedAt = time.Now().UTC()
	if err := s.UpdateFestival(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err = s.GetFestivalByID(ctx, f.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if !got.Published || got.Description == "" {
		t.Errorf("update lost fields: %+v", got)
	}

	if err := s.DeleteFestival(ctx, f.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetFestivalByID(ctx, f.ID); err != store.ErrNotFound {
		t.Errorf("get after delete: %v", err)
	}
}

func TestCreateFestival_DuplicateSlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	f := seedFestival(t, s)

	dup := *f
	dup.ID = "fest_test2"
	if err := s.CreateFestival(ctx, &dup); err != store.ErrAlreadyExists {
		t.Errorf("duplicate slug: %v, want ErrAlreadyExists", err)
	}
}

func TestListFestivals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	festivals, err := s.ListFestivals(ctx)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(festivals) != 0 {
		t.Errorf("expected empty list, got %d", len(festivals))
	}

	now := time.Now().UTC()
	for _, f := range []*domain.Festival{
		{ID: "fest_old", Name: "Older", Slug: "older", StartDate: "2025-05-01", CreatedAt: now, UpdatedAt: now},
		{ID: "fest_new", Name: "Newer", Slug: "newer", StartDate: "2026-05-01", CreatedAt: now, UpdatedAt: now},
	} {
		if err := s.CreateFestival(ctx, f); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	festivals, err = s.ListFestivals(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(festivals) != 2 || festivals[0].ID != "fest_new" {
		t.Errorf("order wrong: %+v", festivals)
	}
}
