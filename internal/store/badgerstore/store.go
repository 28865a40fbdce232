// Package badgerstore is the embedded Badger backend and the default store.
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/filmarkiv/filmarkiv-server/internal/domain"
	"github.com/filmarkiv/filmarkiv-server/internal/store"
)

// Key prefixes.
const (
	movieKeyPrefix   = "movie:"
	messageKeyPrefix = "message:"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	movies   *Entity[domain.Movie]
	messages *Entity[domain.Message]
}

var _ store.Store = (*Store)(nil)

// New opens (or creates) a Badger database at path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup
	return open(opts, logger)
}

// NewInMemory opens a Badger database that lives only in memory. Used by tests and the seeder dry run.
func NewInMemory(logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts, logger)
}

func open(opts badger.Options, logger *slog.Logger) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	s := &Store{
		db:       db,
		logger:   logger,
		movies:   NewEntity[domain.Movie](db, movieKeyPrefix),
		messages: NewEntity[domain.Message](db, messageKeyPrefix),
	}

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", opts.Dir, "in_memory", opts.InMemory)
	}
	return s, nil
}

// DB exposes the underlying database for maintenance tooling.
func (s *Store) DB() *badger.DB { return s.db }

// Driver implements store.Store.
func (s *Store) Driver() string { return store.DriverBadger }

// Ping reports an error once the database has been closed.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return errors.New("badger db is closed")
	}
	return nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// CreateMovie implements store.MovieStore.
func (s *Store) CreateMovie(ctx context.Context, m *domain.Movie) error {
	return s.movies.Create(ctx, m.ID, m)
}

// GetMovie implements store.MovieStore.
func (s *Store) GetMovie(ctx context.Context, id string) (*domain.Movie, error) {
	return s.movies.Get(ctx, id)
}

// UpdateMovie implements store.MovieStore.
func (s *Store) UpdateMovie(ctx context.Context, m *domain.Movie) error {
	return s.movies.Update(ctx, m.ID, m)
}

// DeleteMovie implements store.MovieStore.
func (s *Store) DeleteMovie(ctx context.Context, id string) error {
	return s.movies.Delete(ctx, id)
}

// ListMovies implements store.MovieStore.
func (s *Store) ListMovies(ctx context.Context, filter domain.MovieFilter) ([]*domain.Movie, error) {
	return store.SelectMovies(s.movies.List(ctx), filter)
}

// CreateMessage implements store.MessageStore.
func (s *Store) CreateMessage(ctx context.Context, msg *domain.Message) error {
	return s.messages.Create(ctx, msg.ID, msg)
}

// GetMessage implements store.MessageStore.
func (s *Store) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	return s.messages.Get(ctx, id)
}
