package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFestival(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/festivals", map[string]any{
		"name":       "Swing Out Weekend",
		"slug":       "swing-out-weekend",
		"start_date": "2026-09-18",
		"end_date":   "2026-09-20",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	data := decodeEnvelope[FestivalResponse](t, resp.Body.Bytes())
	assert.NotEmpty(t, data.ID)
	assert.Equal(t, "swing-out-weekend", data.Slug)
	assert.False(t, data.Published)
}

func TestCreateFestival_InvalidSlug(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/festivals", map[string]any{
		"name":       "Swing Out Weekend",
		"slug":       "Swing Out Weekend!",
		"start_date": "2026-09-18",
		"end_date":   "2026-09-20",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "slug")
}

func TestCreateFestival_DuplicateSlug(t *testing.T) {
	ts := setupTestServer(t)
	ts.createFestival(t, false)

	resp := ts.api.Post("/api/v1/festivals", map[string]any{
		"name":       "Another Weekend",
		"slug":       "swing-out-weekend",
		"start_date": "2026-10-01",
		"end_date":   "2026-10-03",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestGetFestival_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/festivals/fest_missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListFestivals(t *testing.T) {
	ts := setupTestServer(t)
	ts.createFestival(t, false)

	resp := ts.api.Get("/api/v1/festivals")
	require.Equal(t, http.StatusOK, resp.Code)

	data := decodeEnvelope[struct {
		Festivals []FestivalResponse `json:"festivals"`
	}](t, resp.Body.Bytes())
	assert.Len(t, data.Festivals, 1)
}

func TestUpdateFestival_Publish(t *testing.T) {
	ts := setupTestServer(t)
	id := ts.createFestival(t, false)

	resp := ts.api.Put("/api/v1/festivals/"+id, map[string]any{
		"name":       "Swing Out Weekend",
		"slug":       "swing-out-weekend",
		"start_date": "2026-09-18",
		"end_date":   "2026-09-20",
		"published":  true,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	data := decodeEnvelope[FestivalResponse](t, resp.Body.Bytes())
	assert.True(t, data.Published)
}

func TestDeleteFestival(t *testing.T) {
	ts := setupTestServer(t)
	id := ts.createFestival(t, false)

	resp := ts.api.Delete("/api/v1/festivals/" + id)
	require.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/festivals/" + id)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
