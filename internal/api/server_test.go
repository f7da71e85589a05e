package api

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/flowgrid/flowgrid-server/internal/config"
	"github.com/flowgrid/flowgrid-server/internal/media/images"
	"github.com/flowgrid/flowgrid-server/internal/ratelimit"
	"github.com/flowgrid/flowgrid-server/internal/search"
	"github.com/flowgrid/flowgrid-server/internal/service"
	"github.com/flowgrid/flowgrid-server/internal/store"
	"github.com/flowgrid/flowgrid-server/internal/store/sqlite"
	"github.com/flowgrid/flowgrid-server/internal/validation"
)

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api   humatest.TestAPI
	store store.Store
}

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func decodeEnvelope[T any](t *testing.T, body []byte) T {
	t.Helper()
	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.True(t, envelope.Success, "expected success envelope, got: %s", string(body))
	return envelope.Data
}

// setupTestServer creates a full server over a throwaway store.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	dataDir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	st, err := sqlite.Open(filepath.Join(dataDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewSearchIndex(search.Options{DataPath: dataDir, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	st.SetSearchIndexer(index)

	storage, err := images.NewStorage(dataDir)
	require.NoError(t, err)

	limiter := ratelimit.NewPerMinute(600, 100)
	t.Cleanup(limiter.Stop)

	importCfg := config.ImportConfig{
		MaxRows:           1000,
		SheetFetchTimeout: 5 * time.Second,
		MaxUploadBytes:    1 << 20,
	}

	services := &Services{
		Festival: service.NewFestivalService(st, logger),
		Session:  service.NewSessionService(st, logger),
		Import:   service.NewImportService(st, importCfg, logger),
		Booking:  service.NewBookingService(st, limiter, logger),
		Schedule: service.NewScheduleService(st, index, logger),
		Teacher:  service.NewTeacherService(st, storage, images.NewProcessor(storage, logger), logger),
	}

	router := chi.NewRouter()
	router.Use(clientIP)

	humaConfig := huma.DefaultConfig("Flow Grid Test", apiVersion)
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s := &Server{
		services:  services,
		router:    router,
		api:       humachi.New(router, humaConfig),
		validator: validation.New(),
		logger:    logger,
	}

	RegisterErrorHandler()
	s.setupRoutes()

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		store:  st,
	}
}

// createFestival makes a festival through the API and returns its ID.
func (ts *testServer) createFestival(t *testing.T, published bool) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/festivals", map[string]any{
		"name":       "Swing Out Weekend",
		"slug":       "swing-out-weekend",
		"start_date": "2026-09-18",
		"end_date":   "2026-09-20",
		"published":  published,
	})
	require.Equal(t, 200, resp.Code, "create festival failed: %s", resp.Body.String())

	data := decodeEnvelope[FestivalResponse](t, resp.Body.Bytes())
	return data.ID
}

// createSession makes a session through the API and returns its ID.
func (ts *testServer) createSession(t *testing.T, festivalID string, body map[string]any) string {
	t.Helper()

	if body == nil {
		body = map[string]any{}
	}
	defaults := map[string]any{
		"title":      "Balboa Basics",
		"day":        "Friday",
		"start_time": "10:00",
		"end_time":   "11:00",
	}
	for k, v := range defaults {
		if _, ok := body[k]; !ok {
			body[k] = v
		}
	}

	resp := ts.api.Post("/api/v1/festivals/"+festivalID+"/sessions", body)
	require.Equal(t, 200, resp.Code, "create session failed: %s", resp.Body.String())

	data := decodeEnvelope[SessionResponse](t, resp.Body.Bytes())
	return data.ID
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), "healthy")
}
