package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"claim-ledger/internal/config"
	"go.uber.org/multierr"
	_ "modernc.org/sqlite"
)

const DriverName = "sqlite"

// connectionPragmas are connection-local in SQLite. The pool holds exactly one
// connection, so setting them once after open covers the whole handle.
var connectionPragmas = []struct {
	name  string
	value string
}{
	{name: "journal_mode", value: "WAL"},
	{name: "foreign_keys", value: "ON"},
	{name: "busy_timeout", value: "5000"},
}

// Open opens the snapshot store at dbPath, creating its directory if missing.
func Open(ctx context.Context, dbPath string) (*sql.DB, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, errors.New("open snapshot store: db path is required")
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, config.DefaultDataPerm); err != nil {
			return nil, fmt.Errorf("open snapshot store: %w", err)
		}
	}

	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := configure(ctx, db); err != nil {
		return nil, multierr.Append(err, db.Close())
	}
	return db, nil
}

// OpenAndMigrate is Open followed by RunMigrations over fsys, or over the
// embedded migrations when fsys is nil.
func OpenAndMigrate(ctx context.Context, dbPath string, fsys fs.FS) (*sql.DB, error) {
	db, err := Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := RunMigrations(ctx, db, fsys); err != nil {
		return nil, multierr.Append(err, db.Close())
	}
	return db, nil
}

func configure(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping snapshot store: %w", err)
	}

	for _, pragma := range connectionPragmas {
		stmt := fmt.Sprintf("PRAGMA %s = %s;", pragma.name, pragma.value)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("set pragma %s: %w", pragma.name, err)
		}
	}
	return nil
}
