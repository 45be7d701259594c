package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("record not found")

//go:embed schema.sql
var schema string

// Migrate creates the tables this service reads and writes if they are missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
