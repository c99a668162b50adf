package domain

import (
	"errors"
	"strings"
)

var (
	ErrUnsupportedFormat  = errors.New("unsupported format")
	ErrInvalidClaimFilter = errors.New("invalid claim filter")
)

// StoredClaim is a feed record as kept in the local snapshot.
type StoredClaim struct {
	Record        ClaimRecord `json:"record"`
	ClaimType     string      `json:"claim_type,omitempty"`
	ImportRunID   string      `json:"import_run_id"`
	ImportedAtUTC string      `json:"imported_at_utc"`
}

type ClaimListFilter struct {
	ClaimType string
	Limit     int
}

type ImportRun struct {
	ID           string   `json:"id"`
	Sources      []string `json:"sources"`
	Imported     int      `json:"imported"`
	Skipped      int      `json:"skipped"`
	StartedAtUTC string   `json:"started_at_utc"`
}

// ClaimTypeOf returns the raw @type of a record's claim, if any.
func ClaimTypeOf(record ClaimRecord) string {
	if !record.HasClaim() {
		return ""
	}
	claim, ok := decodeObject(record.Claim)
	if !ok {
		return ""
	}
	return stringField(claim, "@type", "type")
}

func NormalizeClaimListFilter(filter ClaimListFilter) (ClaimListFilter, error) {
	if filter.Limit < 0 {
		return ClaimListFilter{}, ErrInvalidClaimFilter
	}
	return ClaimListFilter{
		ClaimType: strings.TrimSpace(filter.ClaimType),
		Limit:     filter.Limit,
	}, nil
}

// ValidateRecordForStore rejects records the snapshot cannot key.
func ValidateRecordForStore(record ClaimRecord) error {
	if record.ID.IsZero() {
		return ErrInvalidClaimID
	}
	return nil
}
