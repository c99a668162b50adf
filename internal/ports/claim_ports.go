package ports

import (
	"context"
	"database/sql"

	"claim-ledger/internal/domain"
)

type ClaimRepository interface {
	SaveImport(ctx context.Context, run domain.ImportRun, records []domain.ClaimRecord) (domain.ImportRun, error)
	List(ctx context.Context, filter domain.ClaimListFilter) ([]domain.StoredClaim, error)
	ListRecords(ctx context.Context) ([]domain.ClaimRecord, error)
	Count(ctx context.Context) (int, error)
}

type ClaimRepositoryTxBinder interface {
	BindTx(tx *sql.Tx) ClaimRepository
}

type SettingsRepository interface {
	Upsert(ctx context.Context, input domain.SettingsUpsertInput) (domain.Settings, error)
	Get(ctx context.Context) (domain.Settings, error)
}
