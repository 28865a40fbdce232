package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmarkiv/filmarkiv-server/internal/domain"
)

func TestSearchMovies(t *testing.T) {
	ts := setupTestServer(t, withSearch())

	ts.createMovie(t, alienJSON)
	ts.createMovie(t, movieJSON("Heat", 1995, "Crime"))

	resp := ts.api.Get("/api/movies/search?q=alien")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope(t, resp)
	var movies []domain.Movie
	require.NoError(t, json.Unmarshal(env.Data, &movies))
	assert.Equal(t, 1, env.Count)
	assert.Equal(t, []string{"Alien"}, movieTitles(movies))
}

func TestSearchMovies_DeletedMovieDisappears(t *testing.T) {
	ts := setupTestServer(t, withSearch())
	created := ts.createMovie(t, alienJSON)

	resp := ts.api.Delete("/api/movies/" + created.ID)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/movies/search?q=alien")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 0, decodeEnvelope(t, resp).Count)
}

func TestSearchMovies_EmptyQuery(t *testing.T) {
	ts := setupTestServer(t, withSearch())

	resp := ts.api.Get("/api/movies/search")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Please provide a search query", decodeEnvelope(t, resp).Error)
}

func TestSearchMovies_DisabledFallsThroughToGet(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/movies/search?q=alien")

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Resource not found with id of search", decodeEnvelope(t, resp).Error)
}

func TestSearchMovies_BadLimitUsesEnvelope(t *testing.T) {
	ts := setupTestServer(t, withSearch())

	resp := ts.api.Get("/api/movies/search?q=alien&limit=abc")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func (ts *testServer) searchTitles(t *testing.T, query string) []string {
	t.Helper()
	resp := ts.api.Get("/api/movies/search" + query)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var movies []domain.Movie
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &movies))
	return movieTitles(movies)
}

func TestSearchMovies_Filters(t *testing.T) {
	ts := setupTestServer(t, withSearch())
	ts.createMovie(t, movieJSON("Heat", 1995, "Crime"))
	ts.createMovie(t, movieJSON("Ronin", 1998, "Action"))
	ts.createMovie(t, movieJSON("Collateral", 2004, "Crime"))

	assert.ElementsMatch(t, []string{"Heat", "Collateral"}, ts.searchTitles(t, "?q=film&genre=crime"))
	assert.ElementsMatch(t, []string{"Heat", "Ronin"}, ts.searchTitles(t, "?q=film&genre=Crime,Action&maxYear=1999"))
	assert.Equal(t, []string{"Collateral"}, ts.searchTitles(t, "?q=film&minYear=2000"))
	assert.Len(t, ts.searchTitles(t, "?q=film&limit=2&offset=2"), 1)
}

func TestSearchMovies_InvertedYearRange(t *testing.T) {
	ts := setupTestServer(t, withSearch())

	resp := ts.api.Get("/api/movies/search?q=film&minYear=2010&maxYear=2000")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "minYear must not be after maxYear", decodeEnvelope(t, resp).Error)
}
