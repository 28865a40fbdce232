package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmarkiv/filmarkiv-server/internal/domain"
	domainerrors "github.com/filmarkiv/filmarkiv-server/internal/errors"
	"github.com/filmarkiv/filmarkiv-server/internal/search"
	"github.com/filmarkiv/filmarkiv-server/internal/store"
)

func setupSearch(t *testing.T) (*MovieService, *SearchService) {
	t.Helper()

	st := setupTestStore(t)
	index, err := search.NewSearchIndex(search.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	searchSvc := NewSearchService(index, st, nil)
	return NewMovieService(st, searchSvc, nil), searchSvc
}

func TestSearchService_FindsCreatedMovies(t *testing.T) {
	movies, searchSvc := setupSearch(t)
	ctx := context.Background()

	alien, err := movies.Create(ctx, input(t, validMovie))
	require.NoError(t, err)
	_, err = movies.Create(ctx, input(t, `{"title":"Heat","genre":["Crime"],"description":"A heist in Los Angeles.","director":"Michael Mann","year":1995}`))
	require.NoError(t, err)

	got, err := searchSvc.Search(ctx, SearchQuery{Text: "alien"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, alien.ID, got[0].ID)
	assert.Equal(t, "Ridley Scott", got[0].Director, "hits resolve to stored documents")

	got, err = searchSvc.Search(ctx, SearchQuery{Text: "mann"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Heat", got[0].Title)
}

func TestSearchService_UpdateAndDeleteFollowIndex(t *testing.T) {
	movies, searchSvc := setupSearch(t)
	ctx := context.Background()

	m, err := movies.Create(ctx, input(t, validMovie))
	require.NoError(t, err)

	_, err = movies.Update(ctx, m.ID, input(t, `{"title":"Aliens"}`))
	require.NoError(t, err)

	got, err := searchSvc.Search(ctx, SearchQuery{Text: "aliens"})
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "Aliens", got[0].Title)

	require.NoError(t, movies.Delete(ctx, m.ID))
	got, err = searchSvc.Search(ctx, SearchQuery{Text: "aliens"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchService_EmptyQuery(t *testing.T) {
	_, searchSvc := setupSearch(t)

	_, err := searchSvc.Search(context.Background(), SearchQuery{Text: "   "})
	domainErr := requireCode(t, err, domainerrors.CodeBadRequest)
	assert.Equal(t, "Please provide a search query", domainErr.Message)
}

func TestSearchService_SkipsHitsMissingFromStore(t *testing.T) {
	st := setupTestStore(t)
	index, err := search.NewSearchIndex(search.Options{})
	require.NoError(t, err)
	defer index.Close()

	searchSvc := NewSearchService(index, st, nil)
	ctx := context.Background()

	ghost := domain.NewMovie()
	ghost.ID = "mov-ghostghostghostghost1"
	ghost.Title = "Ghost"
	require.NoError(t, searchSvc.IndexMovie(ctx, ghost))

	got, err := searchSvc.Search(ctx, SearchQuery{Text: "ghost"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchService_Sync(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	// Written without an indexer, as if the index had been lost.
	plain := NewMovieService(st, nil, nil)
	for _, body := range []string{
		validMovie,
		`{"title":"Up","genre":["Animation"],"description":"Balloons.","director":"Pete Docter","year":2009}`,
	} {
		_, err := plain.Create(ctx, input(t, body))
		require.NoError(t, err)
	}

	index, err := search.NewSearchIndex(search.Options{})
	require.NoError(t, err)
	defer index.Close()
	searchSvc := NewSearchService(index, st, nil)

	// A stale document that is not in the store must not survive the sync.
	stale := domain.NewMovie()
	stale.ID = "mov-stalestalestalestale1"
	stale.Title = "Balloons"
	require.NoError(t, searchSvc.IndexMovie(ctx, stale))

	n, err := searchSvc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	got, err := searchSvc.Search(ctx, SearchQuery{Text: "docter"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Up", got[0].Title)

	assert.NoError(t, searchSvc.Healthy())
}

func TestSearchService_Filters(t *testing.T) {
	movies, searchSvc := setupSearch(t)
	ctx := context.Background()

	for _, body := range []string{
		`{"title":"Heat","genre":["Crime"],"description":"A heist film.","director":"Michael Mann","year":1995}`,
		`{"title":"Collateral","genre":["Crime","Thriller"],"description":"A taxi film.","director":"Michael Mann","year":2004}`,
		`{"title":"Up","genre":["Animation"],"description":"A balloon film.","director":"Pete Docter","year":2009}`,
	} {
		_, err := movies.Create(ctx, input(t, body))
		require.NoError(t, err)
	}

	got, err := searchSvc.Search(ctx, SearchQuery{Text: "film", Genres: []string{"thriller", " Animation "}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Collateral", "Up"}, titles(got))

	got, err = searchSvc.Search(ctx, SearchQuery{Text: "mann", MinYear: 2000, MaxYear: 2005})
	require.NoError(t, err)
	assert.Equal(t, []string{"Collateral"}, titles(got))

	_, err = searchSvc.Search(ctx, SearchQuery{Text: "mann", MinYear: 2005, MaxYear: 2000})
	requireCode(t, err, domainerrors.CodeBadRequest)
}

// pausingMovieStore returns its listing snapshot and then blocks until released.
type pausingMovieStore struct {
	store.MovieStore
	listed  chan struct{}
	release chan struct{}
}

func (s *pausingMovieStore) ListMovies(ctx context.Context, f domain.MovieFilter) ([]*domain.Movie, error) {
	movies, err := s.MovieStore.ListMovies(ctx, f)
	close(s.listed)
	<-s.release
	return movies, err
}

func TestSearchService_SyncKeepsConcurrentWrites(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	index, err := search.NewSearchIndex(search.Options{})
	require.NoError(t, err)
	defer index.Close()

	paused := &pausingMovieStore{MovieStore: st, listed: make(chan struct{}), release: make(chan struct{})}
	searchSvc := NewSearchService(index, paused, nil)
	movies := NewMovieService(st, searchSvc, nil)

	synced := make(chan error, 1)
	go func() {
		_, err := searchSvc.Sync(ctx)
		synced <- err
	}()
	<-paused.listed

	alien := input(t, validMovie)
	created := make(chan error, 1)
	go func() {
		_, err := movies.Create(ctx, alien)
		created <- err
	}()
	require.Eventually(t, func() bool {
		stored, err := st.ListMovies(ctx, domain.MovieFilter{})
		return err == nil && len(stored) == 1
	}, 5*time.Second, 10*time.Millisecond)

	close(paused.release)
	require.NoError(t, <-synced)
	require.NoError(t, <-created)

	got, err := searchSvc.Search(ctx, SearchQuery{Text: "alien"})
	require.NoError(t, err)
	assert.Len(t, got, 1, "movie written during sync stays searchable")
}
