// Package service holds the catalog business logic between the HTTP handlers
// and the store backends.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/filmarkiv/filmarkiv-server/internal/domain"
	domainerrors "github.com/filmarkiv/filmarkiv-server/internal/errors"
	"github.com/filmarkiv/filmarkiv-server/internal/genre"
	"github.com/filmarkiv/filmarkiv-server/internal/id"
	"github.com/filmarkiv/filmarkiv-server/internal/store"
	"github.com/filmarkiv/filmarkiv-server/internal/validation"
)

// MovieIndexer keeps a secondary index in step with movie writes.
type MovieIndexer interface {
	IndexMovie(ctx context.Context, m *domain.Movie) error
	RemoveMovie(ctx context.Context, id string) error
}

// MovieService orchestrates catalog operations.
type MovieService struct {
	store     store.MovieStore
	indexer   MovieIndexer // nil when search is disabled
	validator *validation.Validator
	logger    *slog.Logger
}

// NewMovieService creates a new movie service. indexer may be nil.
func NewMovieService(store store.MovieStore, indexer MovieIndexer, logger *slog.Logger) *MovieService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &MovieService{
		store:     store,
		indexer:   indexer,
		validator: validation.New(),
		logger:    logger,
	}
}

// List returns the movies matching filter, newest year first.
func (s *MovieService) List(ctx context.Context, filter domain.MovieFilter) ([]*domain.Movie, error) {
	movies, err := s.store.ListMovies(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

// Get returns a single movie.
func (s *MovieService) Get(ctx context.Context, movieID string) (*domain.Movie, error) {
	if !id.Valid(id.PrefixMovie, movieID) {
		return nil, domainerrors.InvalidID(movieID)
	}

	m, err := s.store.GetMovie(ctx, movieID)
	if err != nil {
		return nil, s.storeError(err, movieID)
	}
	return m, nil
}

// Create validates in against the schema defaults and stores a new movie.
func (s *MovieService) Create(ctx context.Context, in *domain.MovieInput) (*domain.Movie, error) {
	m := domain.NewMovie()
	in.ApplyTo(m)

	if err := s.validator.ValidateMovie(m, in.Year != nil, in.CastErrors); err != nil {
		return nil, err
	}

	movieID, err := id.Generate(id.PrefixMovie)
	if err != nil {
		return nil, err
	}
	m.ID = movieID
	m.InitTimestamps()

	if err := s.store.CreateMovie(ctx, m); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}

	s.logger.InfoContext(ctx, "movie created", "id", m.ID, "title", m.Title)
	s.index(ctx, m)
	return m, nil
}

// Update merges in over the stored movie: fields present replace stored
// values, omitted fields are kept. The merged document is validated as a
// whole before anything is written.
func (s *MovieService) Update(ctx context.Context, movieID string, in *domain.MovieInput) (*domain.Movie, error) {
	current, err := s.Get(ctx, movieID)
	if err != nil {
		return nil, err
	}

	m := current.Clone()
	in.ApplyTo(m)

	if err := s.validator.ValidateMovie(m, true, in.CastErrors); err != nil {
		return nil, err
	}

	m.Touch()
	if err := s.store.UpdateMovie(ctx, m); err != nil {
		return nil, s.storeError(err, movieID)
	}

	s.logger.InfoContext(ctx, "movie updated", "id", m.ID)
	s.index(ctx, m)
	return m, nil
}

// Delete removes a movie.
func (s *MovieService) Delete(ctx context.Context, movieID string) error {
	if !id.Valid(id.PrefixMovie, movieID) {
		return domainerrors.InvalidID(movieID)
	}

	if err := s.store.DeleteMovie(ctx, movieID); err != nil {
		return s.storeError(err, movieID)
	}

	s.logger.InfoContext(ctx, "movie deleted", "id", movieID)
	if s.indexer != nil {
		if err := s.indexer.RemoveMovie(ctx, movieID); err != nil {
			s.logger.WarnContext(ctx, "failed to remove movie from search index", "id", movieID, "error", err)
		}
	}
	return nil
}

// Genres returns the closed genre enumeration.
func (s *MovieService) Genres() []string {
	return genre.All()
}

// index pushes m to the search index. Failures are logged only; the store is
// the source of truth and the index is rebuilt on startup.
func (s *MovieService) index(ctx context.Context, m *domain.Movie) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexMovie(ctx, m); err != nil {
		s.logger.WarnContext(ctx, "failed to index movie", "id", m.ID, "error", err)
	}
}

func (s *MovieService) storeError(err error, movieID string) error {
	if domainerrors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound(movieID).WithCause(err)
	}
	return err
}
