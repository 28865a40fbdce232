package store_test

import (
	"errors"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmarkiv/filmarkiv-server/internal/domain"
	"github.com/filmarkiv/filmarkiv-server/internal/store"
)

func movie(id string, year int, created time.Time, genres ...string) *domain.Movie {
	m := domain.NewMovie()
	m.ID = id
	m.Year = year
	m.CreatedAt = created
	m.Genre = genres
	return m
}

func seqOf(movies ...*domain.Movie) iter.Seq2[*domain.Movie, error] {
	return func(yield func(*domain.Movie, error) bool) {
		for _, m := range movies {
			if !yield(m, nil) {
				return
			}
		}
	}
}

func ids(movies []*domain.Movie) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.ID
	}
	return out
}

func TestSelectMovies_SortsByYearThenCreation(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := store.SelectMovies(seqOf(
		movie("a", 1999, base.Add(2*time.Hour), "Action"),
		movie("b", 2010, base, "Drama"),
		movie("c", 1999, base, "Crime"),
		movie("d", 2023, base.Add(time.Hour), "Comedy"),
	), domain.MovieFilter{})
	require.NoError(t, err)

	assert.Equal(t, []string{"d", "b", "c", "a"}, ids(got))
}

func TestSelectMovies_GenreFilter(t *testing.T) {
	now := time.Now()
	seq := seqOf(
		movie("a", 2000, now, "Action", "Thriller"),
		movie("b", 2001, now, "Drama"),
		movie("c", 2002, now, "Animation"),
	)

	got, err := store.SelectMovies(seq, domain.MovieFilter{Genre: "action"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(got))

	got, err = store.SelectMovies(seq, domain.MovieFilter{Genre: "^a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, ids(got))
}

func TestSelectMovies_NoMatchIsEmptyNotNil(t *testing.T) {
	got, err := store.SelectMovies(seqOf(movie("a", 2000, time.Now(), "Drama")), domain.MovieFilter{Genre: "western"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSelectMovies_PropagatesIteratorError(t *testing.T) {
	boom := errors.New("boom")
	seq := func(yield func(*domain.Movie, error) bool) {
		yield(nil, boom)
	}

	_, err := store.SelectMovies(seq, domain.MovieFilter{})
	assert.ErrorIs(t, err, boom)
}
