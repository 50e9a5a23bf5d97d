package infra_pg_init

import (
	"context"
	_ "embed"
	"fmt"
	"log"

	"github.com/humanbelnik/kinoreview/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schema string

func MustEstablishConn(cfg config.Postgres) *sqlx.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.SSLMode,
	)
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		log.Fatal(err)
	}

	if err := Migrate(context.Background(), db); err != nil {
		log.Fatal(err)
	}

	return db
}

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
