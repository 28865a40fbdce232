package store

import (
	"cmp"
	"iter"
	"slices"

	"github.com/filmarkiv/filmarkiv-server/internal/domain"
	"github.com/filmarkiv/filmarkiv-server/internal/genre"
)

// SortMovies orders movies by year, newest first. Movies from the same year
// keep creation order, oldest first.
func SortMovies(movies []*domain.Movie) {
	slices.SortStableFunc(movies, func(a, b *domain.Movie) int {
		if c := cmp.Compare(b.Year, a.Year); c != 0 {
			return c
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// SelectMovies drains seq, keeps the movies that match filter and sorts them.
// Backends that cannot evaluate the genre pattern natively share this.
func SelectMovies(seq iter.Seq2[*domain.Movie, error], filter domain.MovieFilter) ([]*domain.Movie, error) {
	var matcher *genre.Matcher
	if filter.Genre != "" {
		matcher = genre.NewMatcher(filter.Genre)
	}

	movies := make([]*domain.Movie, 0)
	for m, err := range seq {
		if err != nil {
			return nil, err
		}
		if matcher != nil && !matcher.Match(m.Genre) {
			continue
		}
		movies = append(movies, m)
	}

	SortMovies(movies)
	return movies, nil
}
