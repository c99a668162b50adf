package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"claim-ledger/internal/domain"
	"claim-ledger/internal/ports"
	"go.uber.org/multierr"
)

const sortableTimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

type ClaimRepo struct {
	db *sql.DB
	tx *sql.Tx
}

var _ ports.ClaimRepositoryTxBinder = (*ClaimRepo)(nil)

func NewClaimRepo(db *sql.DB) *ClaimRepo {
	return &ClaimRepo{db: db}
}

func (r *ClaimRepo) BindTx(tx *sql.Tx) ports.ClaimRepository {
	if tx == nil {
		return r
	}

	return &ClaimRepo{db: r.db, tx: tx}
}

// SaveImport records the import run and upserts every record by id.
func (r *ClaimRepo) SaveImport(ctx context.Context, run domain.ImportRun, records []domain.ClaimRecord) (domain.ImportRun, error) {
	tx, q, ownsTx, err := r.writeQueries(ctx, "save import")
	if err != nil {
		return domain.ImportRun{}, err
	}
	if ownsTx {
		defer func() {
			_ = tx.Rollback()
		}()
	}

	for _, record := range records {
		if err := domain.ValidateRecordForStore(record); err != nil {
			return domain.ImportRun{}, err
		}
	}

	sources, err := json.Marshal(run.Sources)
	if err != nil {
		return domain.ImportRun{}, fmt.Errorf("save import encode sources: %w", err)
	}

	run.Imported = len(records)
	if _, err := q.ExecContext(ctx, `
INSERT INTO import_runs (id, sources_json, imported, skipped, started_at_utc)
VALUES (?, ?, ?, ?, ?);`,
		run.ID, string(sources), run.Imported, run.Skipped, run.StartedAtUTC,
	); err != nil {
		return domain.ImportRun{}, fmt.Errorf("save import insert run: %w", err)
	}

	importedAtUTC := time.Now().UTC().Format(time.RFC3339Nano)
	for _, record := range records {
		if _, err := q.ExecContext(ctx, `
INSERT INTO claims (
	record_id, record_id_numeric, issued_at, issued_at_sort, issuer,
	claim_type, claim_json, import_run_id, imported_at_utc
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(record_id) DO UPDATE SET
	record_id_numeric = excluded.record_id_numeric,
	issued_at = excluded.issued_at,
	issued_at_sort = excluded.issued_at_sort,
	issuer = excluded.issuer,
	claim_type = excluded.claim_type,
	claim_json = excluded.claim_json,
	import_run_id = excluded.import_run_id,
	imported_at_utc = excluded.imported_at_utc;`,
			record.ID.String(),
			boolToInt(record.ID.IsNumeric()),
			record.IssuedAt,
			sortableIssuedAt(record.IssuedAt),
			record.Issuer,
			domain.ClaimTypeOf(record),
			claimJSON(record),
			run.ID,
			importedAtUTC,
		); err != nil {
			return domain.ImportRun{}, fmt.Errorf("save import upsert claim %s: %w", record.ID, err)
		}
	}

	if ownsTx {
		if err := tx.Commit(); err != nil {
			return domain.ImportRun{}, fmt.Errorf("save import commit: %w", err)
		}
	}

	return run, nil
}

const selectClaimColumns = `
SELECT record_id, record_id_numeric, issued_at, issuer, claim_type, claim_json, import_run_id, imported_at_utc
FROM claims`

// List returns stored claims newest first. Records sharing an issuedAt, or
// lacking one, come back latest import first.
func (r *ClaimRepo) List(ctx context.Context, filter domain.ClaimListFilter) ([]domain.StoredClaim, error) {
	query := strings.Builder{}
	query.WriteString(selectClaimColumns)
	args := []any{}
	if filter.ClaimType != "" {
		query.WriteString(" WHERE claim_type = ?")
		args = append(args, filter.ClaimType)
	}
	query.WriteString(" ORDER BY issued_at_sort DESC, rowid DESC")
	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	return r.queryClaims(ctx, "list claims", query.String(), args...)
}

// ListRecords returns records oldest first, in import order within the same
// issuedAt, which is the order the ledger fold expects its input in.
func (r *ClaimRepo) ListRecords(ctx context.Context) ([]domain.ClaimRecord, error) {
	claims, err := r.queryClaims(ctx, "list records", selectClaimColumns+" ORDER BY issued_at_sort ASC, rowid ASC")
	if err != nil {
		return nil, err
	}

	records := make([]domain.ClaimRecord, 0, len(claims))
	for _, stored := range claims {
		records = append(records, stored.Record)
	}
	return records, nil
}

func (r *ClaimRepo) queryClaims(ctx context.Context, operation, query string, args ...any) (claims []domain.StoredClaim, err error) {
	q, err := r.readQueries(operation)
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s query: %w", operation, err)
	}
	defer func() {
		err = multierr.Append(err, rows.Close())
	}()

	claims = []domain.StoredClaim{}
	for rows.Next() {
		var (
			recordID      string
			numeric       int64
			claimJSONText sql.NullString
			stored        domain.StoredClaim
		)
		if err := rows.Scan(
			&recordID,
			&numeric,
			&stored.Record.IssuedAt,
			&stored.Record.Issuer,
			&stored.ClaimType,
			&claimJSONText,
			&stored.ImportRunID,
			&stored.ImportedAtUTC,
		); err != nil {
			return nil, fmt.Errorf("%s scan: %w", operation, err)
		}

		stored.Record.ID = domain.ParseStoredRecordID(recordID, numeric == 1)
		if claimJSONText.Valid {
			stored.Record.Claim = json.RawMessage(claimJSONText.String)
		}
		claims = append(claims, stored)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s rows: %w", operation, err)
	}

	return claims, nil
}

func (r *ClaimRepo) Count(ctx context.Context) (int, error) {
	q, err := r.readQueries("count claims")
	if err != nil {
		return 0, err
	}

	var count int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM claims;").Scan(&count); err != nil {
		return 0, fmt.Errorf("count claims: %w", err)
	}
	return count, nil
}

func (r *ClaimRepo) writeQueries(ctx context.Context, operation string) (*sql.Tx, dbtx, bool, error) {
	if r.tx != nil {
		return nil, r.tx, false, nil
	}

	if r.db == nil {
		return nil, nil, false, fmt.Errorf("%s: db is nil", operation)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, false, fmt.Errorf("%s begin tx: %w", operation, err)
	}

	return tx, tx, true, nil
}

func (r *ClaimRepo) readQueries(operation string) (dbtx, error) {
	if r.tx != nil {
		return r.tx, nil
	}
	if r.db == nil {
		return nil, fmt.Errorf("%s: db is nil", operation)
	}
	return r.db, nil
}

func sortableIssuedAt(issuedAt string) string {
	parsed, ok := domain.ParseLooseTimestamp(issuedAt)
	if !ok {
		return ""
	}
	return parsed.UTC().Format(sortableTimestampLayout)
}

func claimJSON(record domain.ClaimRecord) sql.NullString {
	if !record.HasClaim() {
		return sql.NullString{}
	}
	return sql.NullString{String: string(record.Claim), Valid: true}
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}
