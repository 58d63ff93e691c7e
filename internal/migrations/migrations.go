// AngelaMos | 2026
// migrations.go

// Package migrations embeds the SQL schema migrations and applies them
// with goose at startup.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var files embed.FS

// Up applies all pending migrations against the given connection.
func Up(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(files)

	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
