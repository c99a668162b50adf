package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"claim-ledger/internal/domain"
	"claim-ledger/internal/ports"
)

type SettingsRepo struct {
	db *sql.DB
}

var _ ports.SettingsRepository = (*SettingsRepo)(nil)

func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

func (r *SettingsRepo) Upsert(ctx context.Context, input domain.SettingsUpsertInput) (domain.Settings, error) {
	if r.db == nil {
		return domain.Settings{}, fmt.Errorf("upsert settings: db is nil")
	}

	normalized, err := domain.NormalizeSettingsInput(input)
	if err != nil {
		return domain.Settings{}, err
	}

	nowUTC := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := r.db.ExecContext(ctx, `
INSERT INTO settings (id, subject_did, created_at_utc, updated_at_utc)
VALUES (1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	subject_did = excluded.subject_did,
	updated_at_utc = excluded.updated_at_utc;`,
		normalized.SubjectDID, nowUTC, nowUTC,
	); err != nil {
		return domain.Settings{}, fmt.Errorf("upsert settings: %w", err)
	}

	return r.Get(ctx)
}

func (r *SettingsRepo) Get(ctx context.Context) (domain.Settings, error) {
	if r.db == nil {
		return domain.Settings{}, fmt.Errorf("get settings: db is nil")
	}

	var settings domain.Settings
	err := r.db.QueryRowContext(ctx, `
SELECT id, subject_did, created_at_utc, updated_at_utc
FROM settings
WHERE id = 1;`).Scan(
		&settings.ID,
		&settings.SubjectDID,
		&settings.CreatedAtUTC,
		&settings.UpdatedAtUTC,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Settings{}, domain.ErrSettingsNotFound
		}
		return domain.Settings{}, fmt.Errorf("get settings: %w", err)
	}

	return settings, nil
}
