// Package store defines the persistence interface for the Filmarkiv server.
//
// Backends live in subpackages (badgerstore, sqlstore, dynamostore) and all
// satisfy Store. They persist whatever document they are given; validation
// happens in the service layer before any write.
package store

import (
	"context"

	"github.com/filmarkiv/filmarkiv-server/internal/domain"
)

// Driver names accepted by the configuration.
const (
	DriverBadger   = "badger"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverDynamoDB = "dynamodb"
)

// Drivers lists every supported backend.
var Drivers = []string{DriverBadger, DriverSQLite, DriverPostgres, DriverDynamoDB}

// MovieStore persists movie documents.
type MovieStore interface {
	// CreateMovie inserts m. Returns ErrAlreadyExists if the id is taken.
	CreateMovie(ctx context.Context, m *domain.Movie) error
	// GetMovie returns ErrNotFound if no movie has the id.
	GetMovie(ctx context.Context, id string) (*domain.Movie, error)
	// UpdateMovie replaces the stored document. Returns ErrNotFound if it does not exist.
	UpdateMovie(ctx context.Context, m *domain.Movie) error
	// DeleteMovie returns ErrNotFound if no movie has the id.
	DeleteMovie(ctx context.Context, id string) error
	// ListMovies returns the movies matching filter, ordered by SortMovies.
	ListMovies(ctx context.Context, filter domain.MovieFilter) ([]*domain.Movie, error)
}

// MessageStore persists contact messages.
type MessageStore interface {
	CreateMessage(ctx context.Context, msg *domain.Message) error
	GetMessage(ctx context.Context, id string) (*domain.Message, error)
}

// Store is a complete backend.
type Store interface {
	MovieStore
	MessageStore

	// Driver names the backend, one of Drivers.
	Driver() string
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}
