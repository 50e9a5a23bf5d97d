package infra_postgres_movie

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/humanbelnik/kinoreview/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type MovieInfraUnitSuite struct {
	suite.Suite
}

type resources struct {
	mock sqlmock.Sqlmock
	repo *Repository
	ctx  context.Context
}

const movieID = "507f1f77bcf86cd799439011"

var createdAt = time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)

func initResources(t provider.T) *resources {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &resources{
		mock: mock,
		repo: New(sqlx.NewDb(db, "postgres")),
		ctx:  context.Background(),
	}
}

func movieRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "external_id", "title", "description", "release_year", "genres", "poster_url",
		"average_rating", "review_count", "created_at",
	})
}

func (s *MovieInfraUnitSuite) TestList(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		query       model.CatalogQuery
		setupMocks  func(r *resources)
		expectTotal int
		expectLen   int
		expectError bool
	}{
		{
			name:  "Should page through the catalog newest first",
			query: model.CatalogQuery{Page: 3, PageSize: 10},
			setupMocks: func(r *resources) {
				r.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM movies`).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
				rows := movieRows()
				for i := 0; i < 5; i++ {
					rows.AddRow(movieID, nil, "Movie", "", 1999, "{Drama}", "", 4.3, 3, createdAt)
				}
				r.mock.ExpectQuery(`SELECT (.+) FROM movies ORDER BY created_at DESC, id DESC LIMIT \$1 OFFSET \$2`).
					WithArgs(10, 20).
					WillReturnRows(rows)
			},
			expectTotal: 25,
			expectLen:   5,
		},
		{
			name:  "Should search title and description with escaped pattern",
			query: model.CatalogQuery{Page: 1, PageSize: 20, Search: "100%"},
			setupMocks: func(r *resources) {
				r.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM movies WHERE title ILIKE \$1`).
					WithArgs(`%100\%%`).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				r.mock.ExpectQuery(`SELECT (.+) FROM movies WHERE title ILIKE \$1 (.+) LIMIT \$2 OFFSET \$3`).
					WithArgs(`%100\%%`, 20, 0).
					WillReturnRows(movieRows().AddRow(movieID, "603", "100% Matrix", "", nil, "{}", "", 0, 0, createdAt))
			},
			expectTotal: 1,
			expectLen:   1,
		},
		{
			name:  "Should skip select on empty catalog",
			query: model.CatalogQuery{Page: 1, PageSize: 20},
			setupMocks: func(r *resources) {
				r.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM movies`).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
			},
		},
		{
			name:  "Should return error when count fails",
			query: model.CatalogQuery{Page: 1, PageSize: 20},
			setupMocks: func(r *resources) {
				r.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM movies`).WillReturnError(errors.New("conn reset"))
			},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			tc.setupMocks(r)

			movies, total, err := r.repo.List(r.ctx, tc.query)

			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectTotal, total)
				assert.Len(t, movies, tc.expectLen)
			}
			assert.NoError(t, r.mock.ExpectationsWereMet())
		})
	}
}

func (s *MovieInfraUnitSuite) TestLoadByID(t provider.T) {
	t.Parallel()
	r := initResources(t)

	r.mock.ExpectQuery(`SELECT (.+) FROM movies WHERE id = \$1`).
		WithArgs(movieID).
		WillReturnRows(movieRows().AddRow(movieID, "603", "The Matrix", "Neo", 1999, "{Sci-Fi,Action}", "", 4.3, 3, createdAt))
	r.mock.ExpectQuery(`SELECT (.+) FROM movies WHERE id = \$1`).
		WithArgs(movieID).
		WillReturnRows(movieRows())

	m, err := r.repo.LoadByID(r.ctx, movieID)
	assert.NoError(t, err)
	assert.Equal(t, "603", m.ExternalID)
	assert.Equal(t, 1999, *m.ReleaseYear)
	assert.Equal(t, []string{"Sci-Fi", "Action"}, m.Genres)
	assert.Equal(t, 4.3, m.AverageRating)

	_, err = r.repo.LoadByID(r.ctx, movieID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.NoError(t, r.mock.ExpectationsWereMet())
}

func (s *MovieInfraUnitSuite) TestStoreConflict(t provider.T) {
	t.Parallel()
	r := initResources(t)

	r.mock.ExpectExec(`INSERT INTO movies`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := r.repo.Store(r.ctx, model.Movie{ID: movieID, ExternalID: "603", Title: "The Matrix"})

	assert.ErrorIs(t, err, model.ErrConflict)
	assert.NoError(t, r.mock.ExpectationsWereMet())
}

func (s *MovieInfraUnitSuite) TestUpdateAggregate(t provider.T) {
	t.Parallel()

	sum := func(ratings []int) model.RatingAggregate {
		total := 0
		for _, v := range ratings {
			total += v
		}
		return model.RatingAggregate{Average: float64(total), Count: len(ratings)}
	}

	testCases := []struct {
		name        string
		setupMocks  func(r *resources)
		expected    model.RatingAggregate
		expectError error
	}{
		{
			name: "Should lock movie, read linked ratings and write in one tx",
			setupMocks: func(r *resources) {
				r.mock.ExpectBegin()
				r.mock.ExpectQuery(`SELECT external_id FROM movies WHERE id = \$1 FOR UPDATE`).
					WithArgs(movieID).
					WillReturnRows(sqlmock.NewRows([]string{"external_id"}).AddRow("603"))
				r.mock.ExpectQuery(`SELECT rating FROM reviews WHERE movie_id = \$1 OR external_movie_id = \$2`).
					WithArgs(movieID, "603").
					WillReturnRows(sqlmock.NewRows([]string{"rating"}).AddRow(5).AddRow(4).AddRow(4))
				r.mock.ExpectExec(`UPDATE movies SET average_rating = \$2, review_count = \$3 WHERE id = \$1`).
					WithArgs(movieID, 13.0, 3).
					WillReturnResult(sqlmock.NewResult(0, 1))
				r.mock.ExpectCommit()
			},
			expected: model.RatingAggregate{Average: 13, Count: 3},
		},
		{
			name: "Should roll back on missing movie",
			setupMocks: func(r *resources) {
				r.mock.ExpectBegin()
				r.mock.ExpectQuery(`SELECT external_id FROM movies WHERE id = \$1 FOR UPDATE`).
					WithArgs(movieID).
					WillReturnRows(sqlmock.NewRows([]string{"external_id"}))
				r.mock.ExpectRollback()
			},
			expectError: model.ErrNotFound,
		},
		{
			name: "Should roll back when update fails",
			setupMocks: func(r *resources) {
				r.mock.ExpectBegin()
				r.mock.ExpectQuery(`SELECT external_id FROM movies`).
					WithArgs(movieID).
					WillReturnRows(sqlmock.NewRows([]string{"external_id"}).AddRow(nil))
				r.mock.ExpectQuery(`SELECT rating FROM reviews`).
					WithArgs(movieID, nil).
					WillReturnRows(sqlmock.NewRows([]string{"rating"}))
				r.mock.ExpectExec(`UPDATE movies SET average_rating`).
					WithArgs(movieID, 0.0, 0).
					WillReturnError(errors.New("deadlock detected"))
				r.mock.ExpectRollback()
			},
			expectError: errors.New("deadlock detected"),
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			tc.setupMocks(r)

			got, err := r.repo.UpdateAggregate(r.ctx, movieID, sum)

			if tc.expectError != nil {
				assert.Error(t, err)
				if errors.Is(tc.expectError, model.ErrNotFound) {
					assert.ErrorIs(t, err, model.ErrNotFound)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, got)
			}
			assert.NoError(t, r.mock.ExpectationsWereMet())
		})
	}
}

func TestMovieInfraUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(MovieInfraUnitSuite))
}
