package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgrid/flowgrid-server/internal/reconcile"
)

const importCSV = "title,day,start_time,end_time,location\n" +
	"Balboa Basics,Friday,10:00,11:00,Hall A\n" +
	"Shag Intensive,Saturday,14:00,15:30,Hall B\n"

type previewBody struct {
	Plan  *reconcile.MergePlan `json:"plan"`
	State reconcile.State      `json:"state"`
}

func TestPreviewImport_CSV(t *testing.T) {
	ts := setupTestServer(t)
	festivalID := ts.createFestival(t, false)

	resp := ts.api.Post("/api/v1/festivals/"+festivalID+"/import/preview", map[string]any{
		"csv_data": importCSV,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	data := decodeEnvelope[previewBody](t, resp.Body.Bytes())
	require.NotNil(t, data.Plan)
	assert.Equal(t, reconcile.StatePreviewed, data.State)
	assert.Len(t, data.Plan.ToCreate, 2)
	assert.Equal(t, reconcile.ModeMerge, data.Plan.Mode)
}

func TestPreviewImport_RequiresExactlyOneSource(t *testing.T) {
	ts := setupTestServer(t)
	festivalID := ts.createFestival(t, false)

	resp := ts.api.Post("/api/v1/festivals/"+festivalID+"/import/preview", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Post("/api/v1/festivals/"+festivalID+"/import/preview", map[string]any{
		"csv_data":  importCSV,
		"sheet_url": "https://docs.google.com/spreadsheets/d/abc123/edit",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestPreviewImport_MissingColumns(t *testing.T) {
	ts := setupTestServer(t)
	festivalID := ts.createFestival(t, false)

	resp := ts.api.Post("/api/v1/festivals/"+festivalID+"/import/preview", map[string]any{
		"csv_data": "name,room\nBalboa Basics,Hall A\n",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "missing required columns")
}

func TestApplyImport_RoundTrip(t *testing.T) {
	ts := setupTestServer(t)
	festivalID := ts.createFestival(t, false)
	sessionID := ts.createSession(t, festivalID, map[string]any{
		"title":    "Balboa Basics",
		"location": "Hall C",
	})

	resp := ts.api.Post("/api/v1/festivals/"+festivalID+"/import/preview", map[string]any{
		"csv_data": importCSV,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	preview := decodeEnvelope[previewBody](t, resp.Body.Bytes())
	require.Equal(t, reconcile.StateAwaitingDecisions, preview.State)
	require.Len(t, preview.Plan.ExactMatchesWithChanges, 1)

	resp = ts.api.Post("/api/v1/festivals/"+festivalID+"/import/apply", map[string]any{
		"plan": preview.Plan,
		"decisions": map[string]string{
			sessionID: "update",
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	result := decodeEnvelope[reconcile.ApplyResult](t, resp.Body.Bytes())
	assert.Equal(t, reconcile.StateApplied, result.State)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Created)

	getResp := ts.api.Get("/api/v1/sessions/" + sessionID)
	require.Equal(t, http.StatusOK, getResp.Code)
	sess := decodeEnvelope[SessionResponse](t, getResp.Body.Bytes())
	assert.Equal(t, "Hall A", sess.Location)
}

func TestApplyImport_PendingDecisionsRejected(t *testing.T) {
	ts := setupTestServer(t)
	festivalID := ts.createFestival(t, false)
	ts.createSession(t, festivalID, map[string]any{
		"title":    "Balboa Basics",
		"location": "Hall C",
	})

	resp := ts.api.Post("/api/v1/festivals/"+festivalID+"/import/preview", map[string]any{
		"csv_data": importCSV,
	})
	require.Equal(t, http.StatusOK, resp.Code)
	preview := decodeEnvelope[previewBody](t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/festivals/"+festivalID+"/import/apply", map[string]any{
		"plan": preview.Plan,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "awaiting a decision")
}

func TestApplyImport_FestivalMismatch(t *testing.T) {
	ts := setupTestServer(t)
	festivalID := ts.createFestival(t, false)

	resp := ts.api.Post("/api/v1/festivals/"+festivalID+"/import/preview", map[string]any{
		"csv_data": importCSV,
	})
	require.Equal(t, http.StatusOK, resp.Code)
	preview := decodeEnvelope[previewBody](t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/festivals/fest_other/import/apply", map[string]any{
		"plan": preview.Plan,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
