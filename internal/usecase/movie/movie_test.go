package usecase_movie

import (
	"context"
	"errors"
	"testing"

	"github.com/humanbelnik/kinoreview/internal/model"
	"github.com/humanbelnik/kinoreview/internal/usecase/movie/mocks"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type UsecaseMovieUnitSuite struct {
	suite.Suite
}

const movieID = "507f1f77bcf86cd799439011"

type resources struct {
	usecase          *Usecase
	repository       *mocks.Repository
	posterRepository *mocks.PosterRepository
	aggregator       *mocks.Aggregator
	ctx              context.Context
}

func initResources(t provider.T) *resources {
	repository := mocks.NewRepository(t)
	posterRepository := mocks.NewPosterRepository(t)
	aggregator := mocks.NewAggregator(t)

	return &resources{
		usecase:          New(repository, posterRepository, aggregator),
		repository:       repository,
		posterRepository: posterRepository,
		aggregator:       aggregator,
		ctx:              context.Background(),
	}
}

type MovieDraftBuilder struct {
	d model.MovieDraft
}

func NewMovieDraftBuilder() *MovieDraftBuilder {
	year := 1999
	return &MovieDraftBuilder{
		d: model.MovieDraft{
			Title:       "The Matrix",
			Description: "A hacker learns the truth about reality",
			ReleaseYear: &year,
			Genres:      []string{"Sci-Fi", " Action "},
		},
	}
}

func (b *MovieDraftBuilder) WithTitle(title string) *MovieDraftBuilder {
	b.d.Title = title
	return b
}

func (b *MovieDraftBuilder) WithYear(year int) *MovieDraftBuilder {
	b.d.ReleaseYear = &year
	return b
}

func (b *MovieDraftBuilder) WithExternalID(id string) *MovieDraftBuilder {
	b.d.ExternalID = id
	return b
}

func (b *MovieDraftBuilder) Build() model.MovieDraft {
	return b.d
}

func storedMovie() model.Movie {
	year := 1999
	return model.Movie{
		ID:            movieID,
		Title:         "Old title",
		ReleaseYear:   &year,
		AverageRating: 4.5,
		ReviewCount:   2,
		PosterURL:     "https://cdn.example.com/old.jpg",
	}
}

func (s *UsecaseMovieUnitSuite) TestUpload(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		draft       model.MovieDraft
		setupMocks  func(r *resources)
		expectError error
	}{
		{
			name:  "Should upload movie with fresh native id",
			draft: NewMovieDraftBuilder().Build(),
			setupMocks: func(r *resources) {
				r.repository.On("Store", r.ctx, mock.MatchedBy(func(m model.Movie) bool {
					_, err := model.NewNativeRef(m.ID)
					return err == nil && m.AverageRating == 0 && m.ReviewCount == 0 &&
						len(m.Genres) == 2 && m.Genres[1] == "Action"
				})).Return(nil).Once()
			},
		},
		{
			name:        "Should reject empty title",
			draft:       NewMovieDraftBuilder().WithTitle("  ").Build(),
			setupMocks:  func(r *resources) {},
			expectError: model.ErrValidation,
		},
		{
			name:        "Should reject year out of range",
			draft:       NewMovieDraftBuilder().WithYear(1500).Build(),
			setupMocks:  func(r *resources) {},
			expectError: model.ErrValidation,
		},
		{
			name:  "Should report duplicate external id",
			draft: NewMovieDraftBuilder().WithExternalID("603").Build(),
			setupMocks: func(r *resources) {
				r.repository.On("Store", r.ctx, mock.Anything).Return(model.ErrConflict).Once()
			},
			expectError: model.ErrConflict,
		},
		{
			name:  "Should wrap storage failure",
			draft: NewMovieDraftBuilder().Build(),
			setupMocks: func(r *resources) {
				r.repository.On("Store", r.ctx, mock.Anything).Return(errors.New("disk full")).Once()
			},
			expectError: ErrFailedToStoreMeta,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			tc.setupMocks(r)

			got, err := r.usecase.Upload(r.ctx, tc.draft)

			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "The Matrix", got.Title)
			assert.False(t, got.CreatedAt.IsZero())
		})
	}
}

func (s *UsecaseMovieUnitSuite) TestImport(t provider.T) {
	t.Parallel()
	r := initResources(t)

	r.repository.On("Store", r.ctx, mock.Anything).Return(nil).Once()

	drafts := []model.MovieDraft{
		NewMovieDraftBuilder().Build(),
		NewMovieDraftBuilder().WithTitle("").Build(),
		NewMovieDraftBuilder().WithTitle("Never stored").Build(),
	}
	stored, err := r.usecase.Import(r.ctx, drafts)

	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Len(t, stored, 1)
}

func (s *UsecaseMovieUnitSuite) TestUpdateMovieKeepsAggregate(t provider.T) {
	t.Parallel()
	r := initResources(t)

	r.repository.On("LoadByID", r.ctx, movieID).Return(storedMovie(), nil).Once()
	r.repository.On("UpdateContent", r.ctx, mock.MatchedBy(func(m model.Movie) bool {
		return m.Title == "The Matrix" && m.AverageRating == 4.5 && m.ReviewCount == 2 &&
			m.PosterURL == "https://cdn.example.com/old.jpg"
	})).Return(nil).Once()

	got, err := r.usecase.UpdateMovie(r.ctx, movieID, NewMovieDraftBuilder().Build())

	assert.NoError(t, err)
	assert.Equal(t, 4.5, got.AverageRating)
}

func (s *UsecaseMovieUnitSuite) TestUpdateMovieExternalIDChangeRecomputes(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		setupMocks  func(r *resources)
		expectedErr error
		expectedAvg float64
		expectedCnt int
	}{
		{
			name: "aggregate follows the new external key",
			setupMocks: func(r *resources) {
				r.aggregator.On("Recompute", r.ctx, movieID).
					Return(model.RatingAggregate{Average: 3.7, Count: 5}, nil).Once()
			},
			expectedAvg: 3.7,
			expectedCnt: 5,
		},
		{
			name: "recompute failure is reported",
			setupMocks: func(r *resources) {
				r.aggregator.On("Recompute", r.ctx, movieID).
					Return(model.RatingAggregate{}, errors.New("connection reset")).Once()
			},
			expectedErr: ErrFailedToAggregate,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			r.repository.On("LoadByID", r.ctx, movieID).Return(storedMovie(), nil).Once()
			r.repository.On("UpdateContent", r.ctx, mock.MatchedBy(func(m model.Movie) bool {
				return m.ExternalID == "603"
			})).Return(nil).Once()
			tc.setupMocks(r)

			got, err := r.usecase.UpdateMovie(r.ctx, movieID, NewMovieDraftBuilder().WithExternalID("603").Build())

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedAvg, got.AverageRating)
			assert.Equal(t, tc.expectedCnt, got.ReviewCount)
		})
	}
}

func (s *UsecaseMovieUnitSuite) TestUpdateMovieNotFound(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		id         string
		setupMocks func(r *resources)
	}{
		{
			name:       "external id is never a local movie",
			id:         "603",
			setupMocks: func(r *resources) {},
		},
		{
			name: "unknown native id",
			id:   movieID,
			setupMocks: func(r *resources) {
				r.repository.On("LoadByID", r.ctx, movieID).Return(model.Movie{}, model.ErrNotFound).Once()
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			tc.setupMocks(r)

			_, err := r.usecase.UpdateMovie(r.ctx, tc.id, NewMovieDraftBuilder().Build())

			assert.ErrorIs(t, err, model.ErrNotFound)
		})
	}
}

func (s *UsecaseMovieUnitSuite) TestUploadPoster(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		poster      model.Poster
		setupMocks  func(r *resources)
		expectError error
	}{
		{
			name:   "Should store poster and link it",
			poster: model.Poster{Filename: "matrix.jpg", Content: []byte{0xff, 0xd8}},
			setupMocks: func(r *resources) {
				r.repository.On("LoadByID", r.ctx, movieID).Return(storedMovie(), nil).Once()
				r.posterRepository.On("Save", r.ctx, mock.MatchedBy(func(p *model.Poster) bool {
					return p.MovieID == movieID && p.GetFilename() == "matrix.jpg"
				}), (*string)(nil)).Return("poster/"+movieID+"/matrix.jpg", nil).Once()
				r.posterRepository.On("URL", "poster/"+movieID+"/matrix.jpg").
					Return("https://cdn.example.com/poster/" + movieID + "/matrix.jpg").Once()
				r.repository.On("SetPoster", r.ctx, movieID, "https://cdn.example.com/poster/"+movieID+"/matrix.jpg").
					Return(nil).Once()
			},
		},
		{
			name:   "Should reject empty file",
			poster: model.Poster{Filename: "matrix.jpg"},
			setupMocks: func(r *resources) {
				r.repository.On("LoadByID", r.ctx, movieID).Return(storedMovie(), nil).Once()
			},
			expectError: model.ErrValidation,
		},
		{
			name:   "Should wrap storage failure",
			poster: model.Poster{Filename: "matrix.jpg", Content: []byte{1}},
			setupMocks: func(r *resources) {
				r.repository.On("LoadByID", r.ctx, movieID).Return(storedMovie(), nil).Once()
				r.posterRepository.On("Save", r.ctx, mock.Anything, (*string)(nil)).Return("", errors.New("access denied")).Once()
			},
			expectError: ErrFailedToStorePoster,
		},
		{
			name:   "Should remove uploaded object when linking fails",
			poster: model.Poster{Filename: "matrix.jpg", Content: []byte{1}},
			setupMocks: func(r *resources) {
				key := "poster/" + movieID + "/matrix.jpg"
				r.repository.On("LoadByID", r.ctx, movieID).Return(storedMovie(), nil).Once()
				r.posterRepository.On("Save", r.ctx, mock.Anything, (*string)(nil)).Return(key, nil).Once()
				r.posterRepository.On("URL", key).Return("https://cdn.example.com/" + key).Once()
				r.repository.On("SetPoster", r.ctx, movieID, "https://cdn.example.com/"+key).
					Return(errors.New("connection reset")).Once()
				r.posterRepository.On("Delete", r.ctx, key).Return(nil).Once()
			},
			expectError: ErrFailedToStoreMeta,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			tc.setupMocks(r)

			got, err := r.usecase.UploadPoster(r.ctx, movieID, tc.poster)

			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				return
			}
			assert.NoError(t, err)
			assert.Contains(t, got.PosterURL, "matrix.jpg")
		})
	}
}

func TestUsecaseMovieUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(UsecaseMovieUnitSuite))
}
