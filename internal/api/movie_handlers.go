package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/filmarkiv/filmarkiv-server/internal/api/dto"
	"github.com/filmarkiv/filmarkiv-server/internal/domain"
	domainerrors "github.com/filmarkiv/filmarkiv-server/internal/errors"
	"github.com/filmarkiv/filmarkiv-server/internal/id"
)

func (s *Server) registerMovieRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listMovies",
		Method:      http.MethodGet,
		Path:        "/api/movies",
		Summary:     "List movies",
		Description: "Returns every movie, newest release year first, optionally filtered by genre",
		Tags:        []string{"Movies"},
	}, translated(s.logger, s.handleListMovies))

	huma.Register(s.api, huma.Operation{
		OperationID: "getMovie",
		Method:      http.MethodGet,
		Path:        "/api/movies/{id}",
		Summary:     "Get movie",
		Tags:        []string{"Movies"},
	}, translated(s.logger, s.handleGetMovie))

	huma.Register(s.api, huma.Operation{
		OperationID:   "createMovie",
		Method:        http.MethodPost,
		Path:          "/api/movies",
		Summary:       "Create movie",
		Description:   "Validates and stores a new movie. Numeric fields may be sent as strings.",
		Tags:          []string{"Movies"},
		DefaultStatus:    http.StatusCreated,
		SkipValidateBody: true,
	}, translated(s.logger, s.handleCreateMovie))

	huma.Register(s.api, huma.Operation{
		OperationID:      "updateMovie",
		Method:           http.MethodPut,
		Path:             "/api/movies/{id}",
		Summary:          "Update movie",
		Description:      "Fields present in the body replace stored values; omitted fields are kept. The result is validated as a whole.",
		Tags:             []string{"Movies"},
		SkipValidateBody: true,
	}, translated(s.logger, s.handleUpdateMovie))

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteMovie",
		Method:        http.MethodDelete,
		Path:          "/api/movies/{id}",
		Summary:       "Delete movie",
		Tags:          []string{"Movies"},
		DefaultStatus: http.StatusNoContent,
	}, translated(s.logger, s.handleDeleteMovie))
}

// ListMoviesInput contains the list filter.
type ListMoviesInput struct {
	Genre string `query:"genre" doc:"Case-insensitive pattern matched against each genre"`
}

// MovieListOutput wraps a movie list for huma.
type MovieListOutput struct {
	Body dto.ListResponse[*domain.Movie]
}

// MovieIDInput addresses a single movie.
type MovieIDInput struct {
	ID string `path:"id" doc:"Movie ID"`
}

// MovieOutput wraps a single movie for huma.
type MovieOutput struct {
	Body dto.DataResponse[*domain.Movie]
}

// CreateMovieInput carries the raw movie document. It is decoded leniently.
type CreateMovieInput struct {
	RawBody []byte `contentType:"application/json"`
}

// UpdateMovieInput carries the fields to replace.
type UpdateMovieInput struct {
	ID      string `path:"id" doc:"Movie ID"`
	RawBody []byte `contentType:"application/json"`
}

func (s *Server) handleListMovies(ctx context.Context, input *ListMoviesInput) (*MovieListOutput, error) {
	movies, err := s.services.Movie.List(ctx, domain.MovieFilter{Genre: input.Genre})
	if err != nil {
		return nil, err
	}
	return &MovieListOutput{Body: dto.NewList(movies)}, nil
}

func (s *Server) handleGetMovie(ctx context.Context, input *MovieIDInput) (*MovieOutput, error) {
	m, err := s.services.Movie.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &MovieOutput{Body: dto.NewData(m)}, nil
}

func (s *Server) handleCreateMovie(ctx context.Context, input *CreateMovieInput) (*MovieOutput, error) {
	in, err := decodeMovie(input.RawBody)
	if err != nil {
		return nil, err
	}

	m, err := s.services.Movie.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	return &MovieOutput{Body: dto.NewData(m)}, nil
}

func (s *Server) handleUpdateMovie(ctx context.Context, input *UpdateMovieInput) (*MovieOutput, error) {
	if !id.Valid(id.PrefixMovie, input.ID) {
		return nil, domainerrors.InvalidID(input.ID)
	}

	in, err := decodeMovie(input.RawBody)
	if err != nil {
		return nil, err
	}

	m, err := s.services.Movie.Update(ctx, input.ID, in)
	if err != nil {
		return nil, err
	}
	return &MovieOutput{Body: dto.NewData(m)}, nil
}

func (s *Server) handleDeleteMovie(ctx context.Context, input *MovieIDInput) (*struct{}, error) {
	if err := s.services.Movie.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

// decodeMovie decodes a movie body. An empty body is an empty document.
func decodeMovie(body []byte) (*domain.MovieInput, error) {
	in := &domain.MovieInput{}
	if len(bytes.TrimSpace(body)) == 0 {
		return in, nil
	}
	if err := json.Unmarshal(body, in); err != nil {
		return nil, domainerrors.BadRequest(err.Error())
	}
	return in, nil
}
