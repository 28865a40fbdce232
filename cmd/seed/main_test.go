package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmarkiv/filmarkiv-server/internal/domain"
	"github.com/filmarkiv/filmarkiv-server/internal/service"
	"github.com/filmarkiv/filmarkiv-server/internal/store/badgerstore"
)

func TestImportAndDestroy(t *testing.T) {
	st, err := badgerstore.NewInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	movies := service.NewMovieService(st, nil, nil)
	ctx := context.Background()

	require.NoError(t, importMovies(ctx, movies, sampleMovies))

	all, err := movies.List(ctx, domain.MovieFilter{})
	require.NoError(t, err)
	require.Len(t, all, 8)
	assert.Equal(t, "Mad Max: Fury Road", all[0].Title)
	assert.Equal(t, domain.DefaultImageURL, findTitle(all, "Man on Wire").ImageURL)

	require.NoError(t, destroyMovies(ctx, movies))

	all, err = movies.List(ctx, domain.MovieFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestImportRejectsInvalidCatalog(t *testing.T) {
	st, err := badgerstore.NewInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	movies := service.NewMovieService(st, nil, nil)

	err = importMovies(context.Background(), movies, []byte(`[{"title":"Untitled"}]`))
	assert.Error(t, err)
}

func findTitle(movies []*domain.Movie, title string) *domain.Movie {
	for _, m := range movies {
		if m.Title == title {
			return m
		}
	}
	return nil
}
