package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/filmarkiv/filmarkiv-server/internal/api/dto"
)

func (s *Server) registerGenreRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGenres",
		Method:      http.MethodGet,
		Path:        "/api/genres",
		Summary:     "List genres",
		Description: "Returns the genres a movie may be tagged with",
		Tags:        []string{"Movies"},
	}, s.handleListGenres)
}

// GenreListOutput wraps the genre list for huma.
type GenreListOutput struct {
	Body dto.ListResponse[string]
}

func (s *Server) handleListGenres(_ context.Context, _ *struct{}) (*GenreListOutput, error) {
	return &GenreListOutput{Body: dto.NewList(s.services.Movie.Genres())}, nil
}
