package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/flowgrid/flowgrid-server/internal/errors"
	"github.com/flowgrid/flowgrid-server/internal/media/images"
	"github.com/flowgrid/flowgrid-server/internal/store"
)

func newTestTeacherService(t *testing.T, s store.Store) *TeacherService {
	t.Helper()

	storage, err := images.NewStorage(t.TempDir())
	require.NoError(t, err)

	return NewTeacherService(s, storage, images.NewProcessor(storage, testLogger()), testLogger())
}

func testPhotoBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 120, 80))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestTeacherCreate(t *testing.T) {
	s := newTestStore(t)
	festival := createTestFestival(t, s, false)
	svc := newTestTeacherService(t, s)

	teacher, err := svc.Create(context.Background(), festival.ID, TeacherInput{Name: " Dana Kaplan ", Bio: "Balboa since 2012."})
	require.NoError(t, err)

	assert.Equal(t, "Dana Kaplan", teacher.Name)
	assert.False(t, teacher.HasPhoto())

	listed, err := svc.ListByFestival(context.Background(), festival.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestTeacherCreate_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	festival := createTestFestival(t, s, false)
	svc := newTestTeacherService(t, s)

	_, err := svc.Create(context.Background(), festival.ID, TeacherInput{Name: "Dana Kaplan"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), festival.ID, TeacherInput{Name: "Dana Kaplan"})
	require.Error(t, err)

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeAlreadyExists, derr.Code)
}

func TestTeacherCreate_EmptyName(t *testing.T) {
	s := newTestStore(t)
	festival := createTestFestival(t, s, false)
	svc := newTestTeacherService(t, s)

	_, err := svc.Create(context.Background(), festival.ID, TeacherInput{Name: "   "})
	require.Error(t, err)
}

func TestUploadPhoto_SetsHashes(t *testing.T) {
	s := newTestStore(t)
	festival := createTestFestival(t, s, false)
	svc := newTestTeacherService(t, s)

	teacher, err := svc.Create(context.Background(), festival.ID, TeacherInput{Name: "Dana Kaplan"})
	require.NoError(t, err)

	updated, err := svc.UploadPhoto(context.Background(), teacher.ID, testPhotoBytes(t))
	require.NoError(t, err)

	assert.True(t, updated.HasPhoto())
	assert.Len(t, updated.PhotoHash, 64)
	assert.NotEmpty(t, updated.BlurHash)

	photo, err := svc.Photo(context.Background(), teacher.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, photo)
}

func TestUploadPhoto_InvalidData(t *testing.T) {
	s := newTestStore(t)
	festival := createTestFestival(t, s, false)
	svc := newTestTeacherService(t, s)

	teacher, err := svc.Create(context.Background(), festival.ID, TeacherInput{Name: "Dana Kaplan"})
	require.NoError(t, err)

	_, err = svc.UploadPhoto(context.Background(), teacher.ID, []byte("not an image"))
	require.Error(t, err)

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeValidation, derr.Code)
}

func TestPhoto_NoneUploaded(t *testing.T) {
	s := newTestStore(t)
	festival := createTestFestival(t, s, false)
	svc := newTestTeacherService(t, s)

	teacher, err := svc.Create(context.Background(), festival.ID, TeacherInput{Name: "Dana Kaplan"})
	require.NoError(t, err)

	_, err = svc.Photo(context.Background(), teacher.ID)
	require.Error(t, err)

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeNotFound, derr.Code)
}

func TestDeletePhoto_ClearsHashes(t *testing.T) {
	s := newTestStore(t)
	festival := createTestFestival(t, s, false)
	svc := newTestTeacherService(t, s)

	teacher, err := svc.Create(context.Background(), festival.ID, TeacherInput{Name: "Dana Kaplan"})
	require.NoError(t, err)

	_, err = svc.UploadPhoto(context.Background(), teacher.ID, testPhotoBytes(t))
	require.NoError(t, err)

	cleared, err := svc.DeletePhoto(context.Background(), teacher.ID)
	require.NoError(t, err)
	assert.False(t, cleared.HasPhoto())
	assert.Empty(t, cleared.BlurHash)
}

func TestTeacherDelete(t *testing.T) {
	s := newTestStore(t)
	festival := createTestFestival(t, s, false)
	svc := newTestTeacherService(t, s)

	teacher, err := svc.Create(context.Background(), festival.ID, TeacherInput{Name: "Dana Kaplan"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), teacher.ID))

	_, err = svc.Get(context.Background(), teacher.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
