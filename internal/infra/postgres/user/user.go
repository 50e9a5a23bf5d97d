package infra_postgres_user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	infra_postgres "github.com/humanbelnik/kinoreview/internal/infra/postgres"
	"github.com/humanbelnik/kinoreview/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type UserDB struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	PasswordHash []byte         `db:"password_hash"`
	IsAdmin      bool           `db:"is_admin"`
	Watchlist    pq.StringArray `db:"watchlist"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (u *UserDB) ToDomain() model.User {
	return model.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin,
		Watchlist:    []string(u.Watchlist),
		CreatedAt:    u.CreatedAt,
	}
}

func FromDomain(u model.User) UserDB {
	watchlist := pq.StringArray(u.Watchlist)
	if watchlist == nil {
		watchlist = pq.StringArray{}
	}
	return UserDB{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin,
		Watchlist:    watchlist,
		CreatedAt:    u.CreatedAt,
	}
}

const userColumns = `id, name, email, password_hash, is_admin, watchlist, created_at`

type Repository struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, u model.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (:id, :name, :email, :password_hash, :is_admin, :watchlist, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, FromDomain(u)); err != nil {
		if infra_postgres.IsUniqueViolation(err) {
			return fmt.Errorf("%w: user %s", model.ErrConflict, u.Email)
		}
		return fmt.Errorf("failed to store user: %w", err)
	}
	return nil
}

func (r *Repository) LoadByEmail(ctx context.Context, email string) (model.User, error) {
	return r.loadOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *Repository) LoadByID(ctx context.Context, id string) (model.User, error) {
	return r.loadOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *Repository) loadOne(ctx context.Context, query, arg string) (model.User, error) {
	var userDB UserDB
	if err := r.db.GetContext(ctx, &userDB, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, fmt.Errorf("%w: user %s", model.ErrNotFound, arg)
		}
		return model.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	return userDB.ToDomain(), nil
}
