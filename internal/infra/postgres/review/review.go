package infra_postgres_review

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	infra_postgres "github.com/humanbelnik/kinoreview/internal/infra/postgres"
	"github.com/humanbelnik/kinoreview/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type ReviewDB struct {
	ID              uuid.UUID      `db:"id"`
	MovieID         sql.NullString `db:"movie_id"`
	ExternalMovieID sql.NullString `db:"external_movie_id"`
	UserID          sql.NullString `db:"user_id"`
	DisplayName     string         `db:"display_name"`
	Rating          int            `db:"rating"`
	Comment         string         `db:"comment"`
	CreatedAt       time.Time      `db:"created_at"`
}

func (r *ReviewDB) ToDomain() model.Review {
	var ref model.MovieRef
	if r.MovieID.Valid {
		if native, err := model.NewNativeRef(r.MovieID.String); err == nil {
			ref = native
		}
	}
	if ref.IsZero() {
		ref = model.NewExternalRef(r.ExternalMovieID.String)
	}
	return model.Review{
		ID:          r.ID,
		Movie:       ref,
		UserID:      r.UserID.String,
		DisplayName: r.DisplayName,
		Rating:      r.Rating,
		Comment:     r.Comment,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

// FromDomain fills exactly one of the movie columns.
func FromDomain(r model.Review) ReviewDB {
	db := ReviewDB{
		ID:          r.ID,
		UserID:      sql.NullString{String: r.UserID, Valid: r.UserID != ""},
		DisplayName: r.DisplayName,
		Rating:      r.Rating,
		Comment:     r.Comment,
		CreatedAt:   r.CreatedAt,
	}
	if r.Movie.IsNative() {
		db.MovieID = sql.NullString{String: r.Movie.ID(), Valid: true}
	} else {
		db.ExternalMovieID = sql.NullString{String: r.Movie.ID(), Valid: true}
	}
	return db
}

type Repository struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, rv model.Review) (model.Review, error) {
	query := `
		INSERT INTO reviews (id, movie_id, external_movie_id, user_id, display_name, rating, comment, created_at)
		VALUES (:id, :movie_id, :external_movie_id, :user_id, :display_name, :rating, :comment, :created_at)
		RETURNING id, movie_id, external_movie_id, user_id, display_name, rating, comment, created_at
	`

	rows, err := r.db.NamedQueryContext(ctx, query, FromDomain(rv))
	if err != nil {
		if infra_postgres.IsUniqueViolation(err) {
			return model.Review{}, fmt.Errorf("%w: %w", model.ErrDuplicateReview, err)
		}
		return model.Review{}, fmt.Errorf("failed to store review: %w", err)
	}
	defer rows.Close()

	var stored ReviewDB
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			if infra_postgres.IsUniqueViolation(err) {
				return model.Review{}, fmt.Errorf("%w: %w", model.ErrDuplicateReview, err)
			}
			return model.Review{}, fmt.Errorf("failed to store review: %w", err)
		}
		return model.Review{}, fmt.Errorf("failed to store review: no row returned")
	}
	if err := rows.StructScan(&stored); err != nil {
		return model.Review{}, fmt.Errorf("failed to scan review: %w", err)
	}

	return stored.ToDomain(), nil
}

func (r *Repository) ExistsByUser(ctx context.Context, userID string, refs []model.MovieRef) (bool, error) {
	var native, external []string
	for _, ref := range refs {
		switch ref.Kind() {
		case model.RefNative:
			native = append(native, ref.ID())
		case model.RefExternal:
			external = append(external, ref.ID())
		}
	}
	if len(native) == 0 && len(external) == 0 {
		return false, nil
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM reviews
			WHERE user_id = $1 AND (movie_id = ANY($2) OR external_movie_id = ANY($3))
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID, pq.StringArray(native), pq.StringArray(external))
	if err != nil {
		return false, fmt.Errorf("failed to check existing review: %w", err)
	}
	return exists, nil
}

func (r *Repository) ListByRef(ctx context.Context, ref model.MovieRef) ([]model.Review, error) {
	column := "external_movie_id"
	if ref.IsNative() {
		column = "movie_id"
	}

	query := `
		SELECT id, movie_id, external_movie_id, user_id, display_name, rating, comment, created_at
		FROM reviews
		WHERE ` + column + ` = $1
		ORDER BY created_at DESC, id DESC
	`

	var reviewsDB []ReviewDB
	if err := r.db.SelectContext(ctx, &reviewsDB, query, ref.ID()); err != nil {
		if infra_postgres.IsInvalidTextRepresentation(err) {
			return nil, fmt.Errorf("%w: %w", model.ErrInvalidNativeID, err)
		}
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}

	reviews := make([]model.Review, len(reviewsDB))
	for i := range reviewsDB {
		reviews[i] = reviewsDB[i].ToDomain()
	}
	return reviews, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}
