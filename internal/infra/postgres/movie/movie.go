package infra_postgres_movie

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	infra_postgres "github.com/humanbelnik/kinoreview/internal/infra/postgres"
	"github.com/humanbelnik/kinoreview/internal/model"
	"github.com/jmoiron/sqlx"
)

const movieColumns = `id, external_id, title, description, release_year, genres, poster_url,
		average_rating, review_count, created_at`

type Repository struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Store(ctx context.Context, m model.Movie) error {
	movieDB := FromDomain(m)

	query := `
		INSERT INTO movies (id, external_id, title, description, release_year, genres, poster_url,
			average_rating, review_count, created_at)
		VALUES (:id, :external_id, :title, :description, :release_year, :genres, :poster_url,
			:average_rating, :review_count, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, movieDB)
	if err != nil {
		if infra_postgres.IsUniqueViolation(err) {
			return fmt.Errorf("%w: movie with external id %q", model.ErrConflict, m.ExternalID)
		}
		return fmt.Errorf("failed to store movie: %w", err)
	}

	return nil
}

func (r *Repository) LoadByID(ctx context.Context, id string) (model.Movie, error) {
	return r.loadOne(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = $1`, id)
}

func (r *Repository) LoadByExternalID(ctx context.Context, externalID string) (model.Movie, error) {
	return r.loadOne(ctx, `SELECT `+movieColumns+` FROM movies WHERE external_id = $1`, externalID)
}

func (r *Repository) loadOne(ctx context.Context, query string, arg string) (model.Movie, error) {
	var movieDB MovieDB
	err := r.db.GetContext(ctx, &movieDB, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Movie{}, fmt.Errorf("%w: movie %s", model.ErrNotFound, arg)
		}
		return model.Movie{}, fmt.Errorf("failed to load movie: %w", err)
	}

	return movieDB.ToDomain(), nil
}

// List pages through the catalog newest first. A non-empty search matches
// title or description case-insensitively.
func (r *Repository) List(ctx context.Context, q model.CatalogQuery) ([]model.Movie, int, error) {
	where := ""
	args := []any{}
	if q.Search != "" {
		where = `WHERE title ILIKE $1 ESCAPE '\' OR description ILIKE $1 ESCAPE '\'`
		args = append(args, "%"+escapeLike(q.Search)+"%")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM movies `+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}
	if total == 0 {
		return []model.Movie{}, 0, nil
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM movies %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		movieColumns, where, n+1, n+2)
	args = append(args, q.PageSize, (q.Page-1)*q.PageSize)

	var moviesDB []MovieDB
	if err := r.db.SelectContext(ctx, &moviesDB, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to query movies: %w", err)
	}

	movies := make([]model.Movie, len(moviesDB))
	for i := range moviesDB {
		movies[i] = moviesDB[i].ToDomain()
	}

	return movies, total, nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM movies`); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return n, nil
}

// UpdateContent never touches average_rating or review_count.
func (r *Repository) UpdateContent(ctx context.Context, m model.Movie) error {
	movieDB := FromDomain(m)
	query := `
		UPDATE movies
		SET external_id = :external_id, title = :title, description = :description,
			release_year = :release_year, genres = :genres, poster_url = :poster_url
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, movieDB)
	if err != nil {
		if infra_postgres.IsUniqueViolation(err) {
			return fmt.Errorf("%w: movie with external id %q", model.ErrConflict, m.ExternalID)
		}
		return fmt.Errorf("failed to update movie: %w", err)
	}

	return expectOneRow(result, m.ID)
}

func (r *Repository) SetPoster(ctx context.Context, id string, url string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE movies SET poster_url = $2 WHERE id = $1`, id, url)
	if err != nil {
		return fmt.Errorf("failed to set poster: %w", err)
	}
	return expectOneRow(result, id)
}

// UpdateAggregate locks the movie row, reads every rating linked to the
// movie under that lock and writes the computed aggregate in the same
// transaction. Concurrent recomputes of one movie are serialized.
func (r *Repository) UpdateAggregate(
	ctx context.Context,
	movieID string,
	compute func(ratings []int) model.RatingAggregate,
) (model.RatingAggregate, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.RatingAggregate{}, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	var externalID sql.NullString
	err = tx.GetContext(ctx, &externalID, `SELECT external_id FROM movies WHERE id = $1 FOR UPDATE`, movieID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RatingAggregate{}, fmt.Errorf("%w: movie %s", model.ErrNotFound, movieID)
		}
		return model.RatingAggregate{}, fmt.Errorf("failed to lock movie: %w", err)
	}

	var ratings []int
	err = tx.SelectContext(ctx, &ratings,
		`SELECT rating FROM reviews WHERE movie_id = $1 OR external_movie_id = $2`,
		movieID, externalID)
	if err != nil {
		return model.RatingAggregate{}, fmt.Errorf("failed to load ratings: %w", err)
	}

	agg := compute(ratings)

	_, err = tx.ExecContext(ctx,
		`UPDATE movies SET average_rating = $2, review_count = $3 WHERE id = $1`,
		movieID, agg.Average, agg.Count)
	if err != nil {
		return model.RatingAggregate{}, fmt.Errorf("failed to update aggregate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.RatingAggregate{}, fmt.Errorf("failed to commit aggregate: %w", err)
	}

	return agg, nil
}

func expectOneRow(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: movie %s", model.ErrNotFound, id)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
