package infra_tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/humanbelnik/kinoreview/internal/model"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type TMDBClientSuite struct {
	suite.Suite
}

func newServer(t provider.T, status int, body string, check func(r *http.Request)) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func (s *TMDBClientSuite) TestNewRequiresAPIKey(t provider.T) {
	t.Parallel()
	_, err := New(" ", "https://example.com", "en-US")
	assert.Error(t, err)
}

func (s *TMDBClientSuite) TestSearchMapsResults(t provider.T) {
	t.Parallel()
	server := newServer(t, http.StatusOK,
		`{"page":2,"total_pages":7,"total_results":130,"results":[
			{"id":603,"title":"The Matrix","overview":"Neo","release_date":"1999-03-31","poster_path":"/m.jpg","vote_average":8.2},
			{"id":10,"name":"Untitled","release_date":""}]}`,
		func(r *http.Request) {
			assert.Equal(t, "/search/movie", r.URL.Path)
			assert.Equal(t, "key", r.URL.Query().Get("api_key"))
			assert.Equal(t, "matrix", r.URL.Query().Get("query"))
			assert.Equal(t, "2", r.URL.Query().Get("page"))
		})

	client, err := New("key", server.URL, "")
	assert.NoError(t, err)
	catalog := NewCatalog(client, "https://image.tmdb.org/t/p/w500/")

	page, err := catalog.Search(context.Background(), "matrix", 2)

	assert.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 7, page.TotalPages)
	assert.Equal(t, 130, page.Total)
	assert.Equal(t, model.SourceExternal, page.Source)
	assert.Len(t, page.Movies, 2)

	matrix := page.Movies[0]
	assert.Equal(t, "603", matrix.ExternalID)
	assert.Empty(t, matrix.ID)
	assert.Equal(t, "The Matrix", matrix.Title)
	assert.Equal(t, 1999, *matrix.ReleaseYear)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/m.jpg", matrix.PosterURL)
	assert.Equal(t, 8.2, matrix.AverageRating)

	untitled := page.Movies[1]
	assert.Equal(t, "Untitled", untitled.Title)
	assert.Nil(t, untitled.ReleaseYear)
	assert.Empty(t, untitled.PosterURL)
	assert.Zero(t, untitled.AverageRating)
}

func (s *TMDBClientSuite) TestTrendingPath(t provider.T) {
	t.Parallel()
	server := newServer(t, http.StatusOK, `{"page":1,"total_pages":0,"results":[]}`, func(r *http.Request) {
		assert.Equal(t, "/trending/movie/week", r.URL.Path)
	})

	client, _ := New("key", server.URL, "en-US")
	page, err := NewCatalog(client, "").Trending(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, 1, page.TotalPages)
	assert.Empty(t, page.Movies)
}

func (s *TMDBClientSuite) TestStatusClassification(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		status   int
		body     string
		expected error
	}{
		{name: "server error is transient", status: http.StatusBadGateway, expected: model.ErrUpstreamTransient},
		{name: "rate limit is transient", status: http.StatusTooManyRequests, expected: model.ErrUpstreamTransient},
		{name: "bad key is unavailable", status: http.StatusUnauthorized, expected: model.ErrUpstreamUnavailable},
		{name: "missing movie is not found", status: http.StatusNotFound, expected: model.ErrNotFound},
		{name: "garbage body is unavailable", status: http.StatusOK, body: "<html>", expected: model.ErrUpstreamUnavailable},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			server := newServer(t, tc.status, tc.body, nil)
			client, _ := New("key", server.URL, "")

			_, err := NewCatalog(client, "").Details(context.Background(), "603")

			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func (s *TMDBClientSuite) TestTransportFailureIsTransient(t provider.T) {
	t.Parallel()
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, _ := New("key", server.URL, "")
	_, err := client.TrendingMovies(context.Background(), 1)

	assert.ErrorIs(t, err, model.ErrUpstreamTransient)
}

func (s *TMDBClientSuite) TestDetailsRejectsNonNumericID(t provider.T) {
	t.Parallel()
	client, _ := New("key", "http://127.0.0.1:1", "")

	_, err := NewCatalog(client, "").Details(context.Background(), "tt0133093")

	assert.ErrorIs(t, err, model.ErrNotFound)
}

func (s *TMDBClientSuite) TestDetailsGenres(t provider.T) {
	t.Parallel()
	server := newServer(t, http.StatusOK,
		`{"id":603,"title":"The Matrix","genres":[{"id":28,"name":"Action"},{"id":878,"name":"Science Fiction"}]}`,
		func(r *http.Request) { assert.Equal(t, "/movie/603", r.URL.Path) })

	client, _ := New("key", server.URL, "")
	m, err := NewCatalog(client, "").Details(context.Background(), "603")

	assert.NoError(t, err)
	assert.Equal(t, []string{"Action", "Science Fiction"}, m.Genres)
}

func TestTMDBClientSuite(t *testing.T) {
	suite.RunSuite(t, new(TMDBClientSuite))
}
