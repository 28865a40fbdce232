package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/filmarkiv/filmarkiv-server/internal/domain"
	domainerrors "github.com/filmarkiv/filmarkiv-server/internal/errors"
	"github.com/filmarkiv/filmarkiv-server/internal/genre"
	"github.com/filmarkiv/filmarkiv-server/internal/search"
	"github.com/filmarkiv/filmarkiv-server/internal/store"
)

// SearchService bridges the search index with the store. Hits are resolved
// back to stored documents so responses match the list endpoint.
type SearchService struct {
	index  *search.SearchIndex
	store  store.MovieStore
	logger *slog.Logger

	// syncMu holds index writes back while Sync replaces the index contents,
	// so a write racing a sync is applied after it.
	syncMu sync.RWMutex
}

// SearchQuery is a full-text query with optional filters.
type SearchQuery struct {
	Text    string
	Genres  []string // genre names, any of which may match
	MinYear int
	MaxYear int
	Limit   int
	Offset  int
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store store.MovieStore, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// Search returns the stored movies matching q, best match first.
func (s *SearchService) Search(ctx context.Context, q SearchQuery) ([]*domain.Movie, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil, domainerrors.BadRequest("Please provide a search query")
	}
	if q.MinYear > 0 && q.MaxYear > 0 && q.MinYear > q.MaxYear {
		return nil, domainerrors.BadRequest("minYear must not be after maxYear")
	}

	params := search.SearchParams{
		Query:   text,
		MinYear: q.MinYear,
		MaxYear: q.MaxYear,
		Limit:   q.Limit,
		Offset:  q.Offset,
	}
	for _, g := range q.Genres {
		if slug := genre.Slugify(g); slug != "" {
			params.GenreSlugs = append(params.GenreSlugs, slug)
		}
	}

	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}

	movies := make([]*domain.Movie, 0, len(result.Hits))
	for _, hit := range result.Hits {
		m, err := s.store.GetMovie(ctx, hit.ID)
		if err != nil {
			if domainerrors.Is(err, store.ErrNotFound) {
				// Index lagging behind a delete.
				s.logger.DebugContext(ctx, "search hit no longer stored", "id", hit.ID)
				continue
			}
			return nil, fmt.Errorf("load search hit %s: %w", hit.ID, err)
		}
		movies = append(movies, m)
	}
	return movies, nil
}

// IndexMovie indexes a single movie. Call this when a movie is created or updated.
func (s *SearchService) IndexMovie(_ context.Context, m *domain.Movie) error {
	s.syncMu.RLock()
	defer s.syncMu.RUnlock()

	if err := s.index.IndexDocument(search.MovieToDocument(m)); err != nil {
		return fmt.Errorf("index movie: %w", err)
	}
	return nil
}

// RemoveMovie drops a movie from the index.
func (s *SearchService) RemoveMovie(_ context.Context, movieID string) error {
	s.syncMu.RLock()
	defer s.syncMu.RUnlock()

	return s.index.DeleteDocument(movieID)
}

// Sync rebuilds the index from every stored movie and returns how many were
// indexed. Index writes made while it runs wait and are applied afterwards.
func (s *SearchService) Sync(ctx context.Context) (int, error) {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	movies, err := s.store.ListMovies(ctx, domain.MovieFilter{})
	if err != nil {
		return 0, fmt.Errorf("list movies: %w", err)
	}

	if err := s.index.Rebuild(); err != nil {
		return 0, fmt.Errorf("rebuild index: %w", err)
	}

	docs := make([]*search.MovieDocument, len(movies))
	for i, m := range movies {
		docs[i] = search.MovieToDocument(m)
	}
	if err := s.index.IndexDocuments(docs); err != nil {
		return 0, fmt.Errorf("index movies: %w", err)
	}

	s.logger.InfoContext(ctx, "search index synced", "movies", len(docs))
	return len(docs), nil
}

// Healthy reports whether the index answers.
func (s *SearchService) Healthy() error {
	_, err := s.index.DocumentCount()
	return err
}
