package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/filmarkiv/filmarkiv-server/internal/config"
	"github.com/filmarkiv/filmarkiv-server/internal/logger"
	"github.com/filmarkiv/filmarkiv-server/internal/search"
	"github.com/filmarkiv/filmarkiv-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
// SearchIndex is nil when search is disabled.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	if h.SearchIndex == nil {
		return nil
	}
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Search.Enabled {
		log.Info("Full-text search disabled by configuration")
		return &SearchIndexHandle{}, nil
	}

	index, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.Search.Path,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "path", cfg.Search.Path, "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// SearchServiceHandle holds the search service, nil when search is disabled.
type SearchServiceHandle struct {
	*service.SearchService
}

// ProvideSearchService provides the search service.
func ProvideSearchService(i do.Injector) (*SearchServiceHandle, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	if indexHandle.SearchIndex == nil {
		return &SearchServiceHandle{}, nil
	}

	svc := service.NewSearchService(indexHandle.SearchIndex, storeHandle.Store, log.Logger)
	return &SearchServiceHandle{SearchService: svc}, nil
}

// SyncSearchIndex rebuilds the index from the store in the background, so
// documents written while the server was down or by another instance show up.
// Index writes from requests served meanwhile wait for the sync to finish.
func SyncSearchIndex(i do.Injector) {
	handle := do.MustInvoke[*SearchServiceHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	if handle.SearchService == nil {
		return
	}

	go func() {
		if _, err := handle.Sync(context.Background()); err != nil {
			log.Error("Initial search sync failed", "error", err)
		}
	}()
}
