package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/flowgrid/flowgrid-server/internal/config"
	"github.com/flowgrid/flowgrid-server/internal/logger"
	"github.com/flowgrid/flowgrid-server/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index, wired to the
// store so session writes keep the index current.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	storeHandle.SetSearchIndexer(index)

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// TriggerSearchReindexIfNeeded rebuilds the index from the store when
// it comes up empty but sessions exist, which happens after a mapping
// version bump or index corruption.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := indexHandle.DocumentCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	festivals, err := storeHandle.ListFestivals(ctx)
	if err != nil {
		log.Warn("Reindex check failed to list festivals", "error", err)
		return
	}

	indexed := 0
	for _, f := range festivals {
		sessions, err := storeHandle.ListSessionsByFestival(ctx, f.ID)
		if err != nil {
			log.Warn("Reindex failed to list sessions", "festival_id", f.ID, "error", err)
			continue
		}
		if len(sessions) == 0 {
			continue
		}
		if err := indexHandle.IndexSessions(sessions); err != nil {
			log.Warn("Reindex failed", "festival_id", f.ID, "error", err)
			continue
		}
		indexed += len(sessions)
	}

	if indexed > 0 {
		log.Info("Search index rebuilt", "sessions", indexed)
	}
}
