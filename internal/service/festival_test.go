package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/flowgrid/flowgrid-server/internal/errors"
	"github.com/flowgrid/flowgrid-server/internal/store"
)

func validFestivalInput() FestivalInput {
	return FestivalInput{
		Name:      "Swing Out Weekend",
		Slug:      "swing-out-weekend",
		StartDate: "2026-09-18",
		EndDate:   "2026-09-20",
		Timezone:  "Europe/Berlin",
	}
}

func TestFestivalCreate(t *testing.T) {
	s := newTestStore(t)
	svc := NewFestivalService(s, testLogger())

	festival, err := svc.Create(context.Background(), validFestivalInput())
	require.NoError(t, err)

	assert.NotEmpty(t, festival.ID)
	assert.Equal(t, "swing-out-weekend", festival.Slug)
	assert.False(t, festival.Published)
	assert.False(t, festival.CreatedAt.IsZero())
}

func TestFestivalCreate_DuplicateSlug(t *testing.T) {
	s := newTestStore(t)
	svc := NewFestivalService(s, testLogger())

	_, err := svc.Create(context.Background(), validFestivalInput())
	require.NoError(t, err)

	in := validFestivalInput()
	in.Name = "Another Festival"
	_, err = svc.Create(context.Background(), in)
	require.Error(t, err)

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeAlreadyExists, derr.Code)
}

func TestFestivalUpdate_Publish(t *testing.T) {
	s := newTestStore(t)
	svc := NewFestivalService(s, testLogger())

	festival, err := svc.Create(context.Background(), validFestivalInput())
	require.NoError(t, err)

	in := validFestivalInput()
	in.Published = true
	updated, err := svc.Update(context.Background(), festival.ID, in)
	require.NoError(t, err)
	assert.True(t, updated.Published)
}

func TestFestivalDelete_CascadesSessions(t *testing.T) {
	s := newTestStore(t)
	svc := NewFestivalService(s, testLogger())

	festival, err := svc.Create(context.Background(), validFestivalInput())
	require.NoError(t, err)
	createTestSession(t, s, festival.ID, "sess_1", "Balboa Basics")

	require.NoError(t, svc.Delete(context.Background(), festival.ID))

	_, err = s.GetSession(context.Background(), "sess_1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFestivalGet_NotFound(t *testing.T) {
	s := newTestStore(t)
	svc := NewFestivalService(s, testLogger())

	_, err := svc.Get(context.Background(), "fest_missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
