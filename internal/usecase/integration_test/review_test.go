//go:build integration
// +build integration

package integrationtest

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/humanbelnik/kinoreview/internal/app"
	"github.com/humanbelnik/kinoreview/internal/model"
	usecase_movie "github.com/humanbelnik/kinoreview/internal/usecase/movie"
	usecase_rating "github.com/humanbelnik/kinoreview/internal/usecase/rating"
	usecase_review "github.com/humanbelnik/kinoreview/internal/usecase/review"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type ReviewIntegrationSuite struct {
	suite.Suite
	movies  *usecase_movie.Usecase
	reviews *usecase_review.Usecase
}

func (s *ReviewIntegrationSuite) BeforeAll(t provider.T) {
	cfg := getConfig()
	repos := app.MustOpenRepositories(cfg)
	t.Logf("storage driver: %s", cfg.Storage.Driver)

	ratings := usecase_rating.New(repos.Movies)
	s.movies = usecase_movie.New(repos.Movies, app.MustOpenPosters(cfg.S3), ratings)
	s.reviews = usecase_review.New(repos.Reviews, repos.Movies, ratings)
}

// uniqueExternalID keeps runs against a shared database independent.
func uniqueExternalID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}

func (s *ReviewIntegrationSuite) upload(t provider.T, externalID string) model.Movie {
	m, err := s.movies.Upload(context.Background(), model.MovieDraft{
		Title:      "Integration " + externalID,
		Genres:     []string{"Drama"},
		ExternalID: externalID,
	})
	if err != nil {
		t.Fatalf("upload movie: %v", err)
	}
	return m
}

func (s *ReviewIntegrationSuite) TestNativeAndExternalReviewsShareAggregate(t provider.T) {
	ctx := context.Background()
	externalID := uniqueExternalID()
	m := s.upload(t, externalID)

	_, err := s.reviews.Submit(ctx, model.ReviewDraft{MovieID: m.ID, Rating: 5, Comment: "native"})
	assert.NoError(t, err)
	_, err = s.reviews.Submit(ctx, model.ReviewDraft{MovieID: externalID, Rating: 2, Comment: "external"})
	assert.NoError(t, err)

	byNative, err := s.reviews.List(ctx, m.ID)
	assert.NoError(t, err)
	byExternal, err := s.reviews.List(ctx, externalID)
	assert.NoError(t, err)
	assert.Len(t, byNative, 2)
	assert.ElementsMatch(t, byNative, byExternal)
	assert.Equal(t, "external", byNative[0].Comment)

	stored, err := s.movies.GetMovieByID(ctx, m.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, stored.ReviewCount)
	assert.Equal(t, 3.5, stored.AverageRating)
}

func (s *ReviewIntegrationSuite) TestOneReviewPerUser(t provider.T) {
	ctx := context.Background()
	externalID := uniqueExternalID()
	m := s.upload(t, externalID)
	userID := model.NewNativeID()

	_, err := s.reviews.Submit(ctx, model.ReviewDraft{MovieID: m.ID, Rating: 4, Comment: "first", UserID: userID})
	assert.NoError(t, err)

	_, err = s.reviews.Submit(ctx, model.ReviewDraft{MovieID: externalID, Rating: 1, Comment: "again", UserID: userID})
	assert.ErrorIs(t, err, model.ErrDuplicateReview)

	_, err = s.reviews.Submit(ctx, model.ReviewDraft{MovieID: m.ID, Rating: 3, Comment: "guest"})
	assert.NoError(t, err)
	_, err = s.reviews.Submit(ctx, model.ReviewDraft{MovieID: m.ID, Rating: 3, Comment: "guest again"})
	assert.NoError(t, err)
}

func (s *ReviewIntegrationSuite) TestConcurrentSubmissionsAreAllCounted(t provider.T) {
	ctx := context.Background()
	m := s.upload(t, uniqueExternalID())

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.reviews.Submit(ctx, model.ReviewDraft{
				MovieID: m.ID,
				Rating:  i%5 + 1,
				Comment: fmt.Sprintf("writer %d", i),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	stored, err := s.movies.GetMovieByID(ctx, m.ID)
	assert.NoError(t, err)
	assert.Equal(t, writers, stored.ReviewCount)
	assert.Equal(t, 3.0, stored.AverageRating)
}

func (s *ReviewIntegrationSuite) TestUnknownMovies(t provider.T) {
	ctx := context.Background()

	_, err := s.reviews.Submit(ctx, model.ReviewDraft{MovieID: model.NewNativeID(), Rating: 3, Comment: "ghost"})
	assert.ErrorIs(t, err, model.ErrNotFound)

	reviews, err := s.reviews.List(ctx, uniqueExternalID())
	assert.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestReviewIntegrationSuite(t *testing.T) {
	suite.RunSuite(t, new(ReviewIntegrationSuite))
}
