package badgerstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmarkiv/filmarkiv-server/internal/store"
	"github.com/filmarkiv/filmarkiv-server/internal/store/badgerstore"
	"github.com/filmarkiv/filmarkiv-server/internal/store/storetest"
)

func newTestStore(t *testing.T) *badgerstore.Store {
	t.Helper()
	s, err := badgerstore.New(filepath.Join(t.TempDir(), "badger"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return newTestStore(t) })
}

func TestStoreContract_InMemory(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := badgerstore.NewInMemory(nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "badger")
	ctx := context.Background()
	m := storetest.NewMovie("Amélie", 2001, "Comedy")

	s, err := badgerstore.New(dir, nil)
	require.NoError(t, err)
	require.NoError(t, s.CreateMovie(ctx, m))
	require.NoError(t, s.Close())

	s, err = badgerstore.New(dir, nil)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetMovie(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amélie", got.Title)
}

func TestStore_MoviesAndMessagesDoNotMix(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	m := storetest.NewMovie("Heat", 1995, "Crime")
	require.NoError(t, s.CreateMovie(ctx, m))

	_, err := s.GetMessage(ctx, m.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_PingAfterClose(t *testing.T) {
	s, err := badgerstore.NewInMemory(nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.Error(t, s.Ping(context.Background()))
}

func TestEntity_ListStopsEarly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for _, title := range []string{"A", "B", "C"} {
		require.NoError(t, s.CreateMovie(ctx, storetest.NewMovie(title, 2000, "Drama")))
	}

	seen := 0
	for m, err := range badgerstore.NewEntity[struct{ Title string }](s.DB(), "movie:").List(ctx) {
		require.NoError(t, err)
		require.NotEmpty(t, m.Title)
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}
