package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flowgrid/flowgrid-server/internal/domain"
	"github.com/flowgrid/flowgrid-server/internal/store"
	"github.com/flowgrid/flowgrid-server/internal/store/sqlite"
)

// newTestStore opens a throwaway sqlite store for a service test.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := sqlite.Open(dbPath, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// createTestFestival seeds a festival directly through the store.
func createTestFestival(t *testing.T, s store.Store, published bool) *domain.Festival {
	t.Helper()

	now := time.Now().UTC()
	festival := &domain.Festival{
		ID:        "fest_svc1",
		Name:      "Swing Out Weekend",
		Slug:      "swing-out-weekend",
		StartDate: "2026-09-18",
		EndDate:   "2026-09-20",
		Published: published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateFestival(context.Background(), festival))

	return festival
}

// createTestSession seeds a session directly through the store.
func createTestSession(t *testing.T, s store.Store, festivalID, id, title string, mods ...func(*domain.Session)) *domain.Session {
	t.Helper()

	sess := &domain.Session{
		ID:         id,
		FestivalID: festivalID,
		Title:      title,
		Day:        "Friday",
		StartTime:  "10:00",
		EndTime:    "11:00",
		CardType:   domain.DefaultCardType,
	}
	for _, mod := range mods {
		mod(sess)
	}
	require.NoError(t, s.CreateSession(context.Background(), sess))

	return sess
}
