// Package storetest holds the behavior every store backend must share.
// Backend packages call Run from their own tests with a constructor.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmarkiv/filmarkiv-server/internal/domain"
	"github.com/filmarkiv/filmarkiv-server/internal/id"
	"github.com/filmarkiv/filmarkiv-server/internal/store"
)

// Factory returns an empty store. The backend registers its own cleanup.
type Factory func(t *testing.T) store.Store

// NewMovie returns a valid movie with a fresh id and timestamps.
func NewMovie(title string, year int, genres ...string) *domain.Movie {
	m := domain.NewMovie()
	m.ID = id.MustGenerate(id.PrefixMovie)
	m.Title = title
	m.Genre = genres
	m.Description = title + " description"
	m.Director = "Director of " + title
	m.Year = year
	m.Rating = 7.5
	m.InitTimestamps()
	return m
}

// Run executes the contract suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("CreateThenGet", func(t *testing.T) { testCreateThenGet(t, newStore(t)) })
	t.Run("CreateDuplicate", func(t *testing.T) { testCreateDuplicate(t, newStore(t)) })
	t.Run("GetMissing", func(t *testing.T) { testGetMissing(t, newStore(t)) })
	t.Run("Update", func(t *testing.T) { testUpdate(t, newStore(t)) })
	t.Run("UpdateMissingWritesNothing", func(t *testing.T) { testUpdateMissing(t, newStore(t)) })
	t.Run("DeleteTwice", func(t *testing.T) { testDeleteTwice(t, newStore(t)) })
	t.Run("ListOrderAndFilter", func(t *testing.T) { testList(t, newStore(t)) })
	t.Run("ListEmpty", func(t *testing.T) { testListEmpty(t, newStore(t)) })
	t.Run("Messages", func(t *testing.T) { testMessages(t, newStore(t)) })
	t.Run("Ping", func(t *testing.T) { testPing(t, newStore(t)) })
}

func testCreateThenGet(t *testing.T, s store.Store) {
	ctx := context.Background()
	m := NewMovie("Heat", 1995, "Crime", "Thriller")
	m.ImageURL = "/images/heat.jpg"

	require.NoError(t, s.CreateMovie(ctx, m))

	got, err := s.GetMovie(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, m.Title, got.Title)
	assert.Equal(t, m.Genre, got.Genre)
	assert.Equal(t, m.Description, got.Description)
	assert.Equal(t, m.Director, got.Director)
	assert.Equal(t, m.Year, got.Year)
	assert.Equal(t, m.ImageURL, got.ImageURL)
	assert.InDelta(t, m.Rating, got.Rating, 1e-9)
	assert.WithinDuration(t, m.CreatedAt, got.CreatedAt, time.Millisecond)
	assert.WithinDuration(t, m.UpdatedAt, got.UpdatedAt, time.Millisecond)
}

func testCreateDuplicate(t *testing.T, s store.Store) {
	ctx := context.Background()
	m := NewMovie("Alien", 1979, "Horror")

	require.NoError(t, s.CreateMovie(ctx, m))
	assert.ErrorIs(t, s.CreateMovie(ctx, m), store.ErrAlreadyExists)
}

func testGetMissing(t *testing.T, s store.Store) {
	_, err := s.GetMovie(context.Background(), id.MustGenerate(id.PrefixMovie))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testUpdate(t *testing.T, s store.Store) {
	ctx := context.Background()
	m := NewMovie("Aliens", 1986, "Action")
	require.NoError(t, s.CreateMovie(ctx, m))

	updated := m.Clone()
	updated.Rating = 8.4
	updated.Genre = []string{"Action", "Sci-Fi"}
	updated.Touch()
	require.NoError(t, s.UpdateMovie(ctx, updated))

	got, err := s.GetMovie(ctx, m.ID)
	require.NoError(t, err)
	assert.InDelta(t, 8.4, got.Rating, 1e-9)
	assert.Equal(t, []string{"Action", "Sci-Fi"}, got.Genre)
	assert.WithinDuration(t, m.CreatedAt, got.CreatedAt, time.Millisecond)
}

func testUpdateMissing(t *testing.T, s store.Store) {
	ctx := context.Background()
	m := NewMovie("Ghost", 1990, "Drama")

	assert.ErrorIs(t, s.UpdateMovie(ctx, m), store.ErrNotFound)

	_, err := s.GetMovie(ctx, m.ID)
	assert.ErrorIs(t, err, store.ErrNotFound, "a failed update must not create the document")
}

func testDeleteTwice(t *testing.T, s store.Store) {
	ctx := context.Background()
	m := NewMovie("Up", 2009, "Animation")
	require.NoError(t, s.CreateMovie(ctx, m))

	require.NoError(t, s.DeleteMovie(ctx, m.ID))
	assert.ErrorIs(t, s.DeleteMovie(ctx, m.ID), store.ErrNotFound)

	_, err := s.GetMovie(ctx, m.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testList(t *testing.T, s store.Store) {
	ctx := context.Background()
	old := NewMovie("Psycho", 1960, "Horror", "Thriller")
	newest := NewMovie("Oppenheimer", 2023, "Drama")
	mid := NewMovie("Toy Story", 1995, "Animation", "Comedy")
	for _, m := range []*domain.Movie{old, newest, mid} {
		require.NoError(t, s.CreateMovie(ctx, m))
	}

	all, err := s.ListMovies(ctx, domain.MovieFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{newest.ID, mid.ID, old.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	horror, err := s.ListMovies(ctx, domain.MovieFilter{Genre: "horror"})
	require.NoError(t, err)
	require.Len(t, horror, 1)
	assert.Equal(t, old.ID, horror[0].ID)

	none, err := s.ListMovies(ctx, domain.MovieFilter{Genre: "documentary"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func testListEmpty(t *testing.T, s store.Store) {
	movies, err := s.ListMovies(context.Background(), domain.MovieFilter{})
	require.NoError(t, err)
	assert.NotNil(t, movies)
	assert.Empty(t, movies)
}

func testMessages(t *testing.T, s store.Store) {
	ctx := context.Background()
	msg := &domain.Message{Name: "Ada", Email: "ada@example.com", Message: "Hej!"}
	msg.ID = id.MustGenerate(id.PrefixMessage)
	msg.InitTimestamps()

	require.NoError(t, s.CreateMessage(ctx, msg))

	got, err := s.GetMessage(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, "Hej!", got.Message)

	_, err = s.GetMessage(ctx, id.MustGenerate(id.PrefixMessage))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testPing(t *testing.T, s store.Store) {
	assert.NoError(t, s.Ping(context.Background()))
	assert.Contains(t, store.Drivers, s.Driver())
}
