package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"claim-ledger/internal/logger"
	"claim-ledger/migrations"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

// RunMigrations applies whatever fsys holds beyond the store's current
// version and returns how many migrations ran. A nil fsys means migrations.FS.
func RunMigrations(ctx context.Context, db *sql.DB, fsys fs.FS) (int, error) {
	if db == nil {
		return 0, errors.New("migrate snapshot store: db is nil")
	}
	if fsys == nil {
		fsys = migrations.FS
	}

	provider, err := goose.NewProvider(database.DialectSQLite3, db, fsys)
	if err != nil {
		return 0, fmt.Errorf("migrate snapshot store: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrate snapshot store: %w", err)
	}

	log := logger.FromContext(ctx)
	for _, result := range results {
		log.Debug().
			Int64("version", result.Source.Version).
			Str("file", filepath.Base(result.Source.Path)).
			Dur("took", result.Duration).
			Msg("applied migration")
	}
	return len(results), nil
}
