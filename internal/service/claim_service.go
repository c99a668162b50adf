package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"claim-ledger/internal/domain"
	"claim-ledger/internal/logger"
	"claim-ledger/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

type ClaimService struct {
	repo  ports.ClaimRepository
	newID func() string
	now   func() time.Time
}

type ClaimServiceOption func(*ClaimService)

func WithClaimRunIDGenerator(newID func() string) ClaimServiceOption {
	return func(s *ClaimService) {
		s.newID = newID
	}
}

func WithClaimClock(now func() time.Time) ClaimServiceOption {
	return func(s *ClaimService) {
		s.now = now
	}
}

type ClaimImportResult struct {
	Run      domain.ImportRun `json:"run"`
	Warnings []domain.Warning `json:"warnings"`
}

func NewClaimService(repo ports.ClaimRepository, opts ...ClaimServiceOption) (*ClaimService, error) {
	if repo == nil {
		return nil, fmt.Errorf("claim service: repo is required")
	}

	service := &ClaimService{
		repo:  repo,
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(service)
		}
	}

	return service, nil
}

// Import reads every file as a feed page and stores all records as one run.
// Nothing is stored when any file fails to decode.
func (s *ClaimService) Import(ctx context.Context, paths []string) (ClaimImportResult, error) {
	if len(paths) == 0 {
		return ClaimImportResult{}, fmt.Errorf("claim import: %w", os.ErrInvalid)
	}

	log := logger.FromContext(ctx)
	result := ClaimImportResult{Warnings: []domain.Warning{}}
	records := []domain.ClaimRecord{}
	sources := make([]string, 0, len(paths))
	for _, path := range paths {
		path = strings.TrimSpace(path)
		page, err := ReadClaimFile(path)
		if err != nil {
			return ClaimImportResult{}, err
		}

		log.Debug().Str("file", path).Int("records", len(page.Data)).Bool("hit_limit", page.HitLimit).Msg("read claim page")
		if page.HitLimit {
			result.Warnings = append(result.Warnings, domain.Warning{
				Code:    domain.WarningCodeFeedHitLimit,
				Message: "feed page reached its server limit; more claims may exist",
				Details: map[string]any{"file": path},
			})
		}

		sources = append(sources, path)
		records = append(records, page.Data...)
	}

	run, err := s.repo.SaveImport(ctx, domain.ImportRun{
		ID:           s.newID(),
		Sources:      sources,
		StartedAtUTC: s.now().UTC().Format(time.RFC3339Nano),
	}, records)
	if err != nil {
		return ClaimImportResult{}, err
	}

	log.Info().Str("run_id", run.ID).Int("imported", run.Imported).Msg("imported claims")
	result.Run = run
	return result, nil
}

func (s *ClaimService) List(ctx context.Context, filter domain.ClaimListFilter) ([]domain.StoredClaim, error) {
	normalized, err := domain.NormalizeClaimListFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, normalized)
}

func (s *ClaimService) Records(ctx context.Context) ([]domain.ClaimRecord, error) {
	return s.repo.ListRecords(ctx)
}

// Export writes stored records, newest first, as a single feed page.
func (s *ClaimService) Export(ctx context.Context, filePath string) (int, error) {
	filePath = strings.TrimSpace(filePath)
	if filePath == "" {
		return 0, fmt.Errorf("claim export: %w", os.ErrInvalid)
	}

	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return 0, err
	}
	if err := writeClaimPage(filePath, domain.ClaimPage{Data: records}); err != nil {
		return 0, err
	}

	log := logger.FromContext(ctx)
	log.Info().Str("file", filePath).Int("records", len(records)).Msg("exported claims")
	return len(records), nil
}

// ReadClaimFile decodes a feed page or a bare record array from disk.
func ReadClaimFile(path string) (page domain.ClaimPage, err error) {
	if path == "" {
		return domain.ClaimPage{}, fmt.Errorf("read claim file: %w", os.ErrInvalid)
	}

	file, err := os.Open(path)
	if err != nil {
		return domain.ClaimPage{}, err
	}
	defer func() {
		err = multierr.Append(err, file.Close())
	}()

	raw, err := io.ReadAll(file)
	if err != nil {
		return domain.ClaimPage{}, err
	}

	page, err = domain.DecodeClaimPage(raw)
	if err != nil {
		return domain.ClaimPage{}, fmt.Errorf("%s: %w", path, err)
	}
	return page, nil
}

func writeClaimPage(filePath string, page domain.ClaimPage) (err error) {
	if page.Data == nil {
		page.Data = []domain.ClaimRecord{}
	}

	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, file.Close())
	}()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(page); err != nil {
		return fmt.Errorf("write claim page %s: %w", filePath, err)
	}
	return nil
}
