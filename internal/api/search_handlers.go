package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/filmarkiv/filmarkiv-server/internal/api/dto"
	"github.com/filmarkiv/filmarkiv-server/internal/domain"
	"github.com/filmarkiv/filmarkiv-server/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchMovies",
		Method:      http.MethodGet,
		Path:        "/api/movies/search",
		Summary:     "Search movies",
		Description: "Full-text search over title, description and genres, best match first",
		Tags:        []string{"Movies"},
	}, translated(s.logger, s.handleSearchMovies))
}

// SearchMoviesInput contains the search parameters.
type SearchMoviesInput struct {
	Query   string `query:"q" doc:"Search query"`
	Genre   string `query:"genre" doc:"Comma-separated genre names; a movie matches if it has any of them"`
	MinYear int    `query:"minYear" minimum:"0" doc:"Earliest release year"`
	MaxYear int    `query:"maxYear" minimum:"0" doc:"Latest release year"`
	Limit   int    `query:"limit" minimum:"0" maximum:"100" doc:"Maximum number of results (default 50)"`
	Offset  int    `query:"offset" minimum:"0" doc:"Number of results to skip"`
}

func (s *Server) handleSearchMovies(ctx context.Context, input *SearchMoviesInput) (*MovieListOutput, error) {
	q := service.SearchQuery{
		Text:    input.Query,
		MinYear: input.MinYear,
		MaxYear: input.MaxYear,
		Limit:   input.Limit,
		Offset:  input.Offset,
	}
	if input.Genre != "" {
		q.Genres = strings.Split(input.Genre, ",")
	}

	movies, err := s.services.Search.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	return &MovieListOutput{Body: dto.NewList[*domain.Movie](movies)}, nil
}
