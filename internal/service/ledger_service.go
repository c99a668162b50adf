package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"claim-ledger/internal/domain"
	"claim-ledger/internal/ledger"
	"claim-ledger/internal/logger"
	"golang.org/x/sync/errgroup"
)

type ClaimRecordSource interface {
	ListRecords(ctx context.Context) ([]domain.ClaimRecord, error)
}

type SubjectLookup interface {
	Get(ctx context.Context) (domain.Settings, error)
}

type LedgerService struct {
	source         ClaimRecordSource
	subjects       SubjectLookup
	defaultSubject string
	now            func() time.Time
}

type LedgerServiceOption func(*LedgerService)

// WithLedgerSubjectLookup resolves the subject from stored settings when a
// request names none.
func WithLedgerSubjectLookup(subjects SubjectLookup) LedgerServiceOption {
	return func(s *LedgerService) {
		s.subjects = subjects
	}
}

// WithLedgerDefaultSubject is the last fallback, after stored settings.
func WithLedgerDefaultSubject(subjectDID string) LedgerServiceOption {
	return func(s *LedgerService) {
		s.defaultSubject = strings.TrimSpace(subjectDID)
	}
}

func WithLedgerClock(now func() time.Time) LedgerServiceOption {
	return func(s *LedgerService) {
		s.now = now
	}
}

type LedgerRequest struct {
	Subjects []string
	AsOf     string
	// Records, when non-nil, are aggregated instead of the stored snapshot.
	Records []domain.ClaimRecord
}

type SubjectLedger struct {
	SubjectDID   string                 `json:"subject_did"`
	SubjectLabel string                 `json:"subject_label"`
	Result       domain.AggregateResult `json:"result"`
	Unmeasurable int                    `json:"unmeasurable"`
}

type LedgerResult struct {
	AsOfUTC     string           `json:"as_of_utc"`
	RecordCount int              `json:"record_count"`
	Ledgers     []SubjectLedger  `json:"ledgers"`
	Warnings    []domain.Warning `json:"warnings"`
}

func NewLedgerService(source ClaimRecordSource, opts ...LedgerServiceOption) (*LedgerService, error) {
	if source == nil {
		return nil, fmt.Errorf("ledger service: record source is required")
	}

	service := &LedgerService{
		source: source,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(service)
		}
	}

	return service, nil
}

// Compute aggregates the same records once per subject. Subjects are
// independent, so each runs in its own goroutine over a shared read-only slice.
func (s *LedgerService) Compute(ctx context.Context, req LedgerRequest) (LedgerResult, error) {
	subjects, err := s.resolveSubjects(ctx, req.Subjects)
	if err != nil {
		return LedgerResult{}, err
	}

	asOf, err := domain.NormalizeAsOf(req.AsOf)
	if err != nil {
		return LedgerResult{}, err
	}
	if asOf.IsZero() {
		asOf = s.now().UTC()
	}

	records := req.Records
	if records == nil {
		records, err = s.source.ListRecords(ctx)
		if err != nil {
			return LedgerResult{}, err
		}
	}

	ledgers := make([]SubjectLedger, len(subjects))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, subjectDID := range subjects {
		i, subjectDID := i, subjectDID
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			aggregate := ledger.AggregateAt(records, subjectDID, asOf)
			ledgers[i] = SubjectLedger{
				SubjectDID:   subjectDID,
				SubjectLabel: domain.FirstAndLast3OfDID(subjectDID),
				Result:       aggregate,
				Unmeasurable: aggregate.NumUnmeasurable(),
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return LedgerResult{}, err
	}

	log := logger.FromContext(ctx)
	result := LedgerResult{
		AsOfUTC:     asOf.Format(time.RFC3339),
		RecordCount: len(records),
		Ledgers:     ledgers,
		Warnings:    []domain.Warning{},
	}
	for _, subjectLedger := range ledgers {
		log.Debug().
			Str("subject", subjectLedger.SubjectLabel).
			Int("promised", len(subjectLedger.Result.AllPromised)).
			Int("paid", len(subjectLedger.Result.AllPaid)).
			Int("unmeasurable", subjectLedger.Unmeasurable).
			Msg("aggregated ledger")

		if subjectLedger.Unmeasurable > 0 {
			result.Warnings = append(result.Warnings, unmeasurableWarning(subjectLedger))
		}
	}

	return result, nil
}

func (s *LedgerService) resolveSubjects(ctx context.Context, requested []string) ([]string, error) {
	subjects := make([]string, 0, len(requested))
	seen := map[string]struct{}{}
	for _, raw := range requested {
		subjectDID, err := domain.NormalizeSubjectDID(raw)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[subjectDID]; ok {
			continue
		}
		seen[subjectDID] = struct{}{}
		subjects = append(subjects, subjectDID)
	}
	if len(subjects) > 0 {
		return subjects, nil
	}

	if s.subjects != nil {
		settings, err := s.subjects.Get(ctx)
		switch {
		case err == nil:
			return []string{settings.SubjectDID}, nil
		case !errors.Is(err, domain.ErrSettingsNotFound):
			return nil, err
		}
	}

	if s.defaultSubject != "" {
		subjectDID, err := domain.NormalizeSubjectDID(s.defaultSubject)
		if err != nil {
			return nil, fmt.Errorf("default subject %q: %w", s.defaultSubject, err)
		}
		return []string{subjectDID}, nil
	}

	return nil, fmt.Errorf("no subject configured: %w", domain.ErrInvalidSubjectDID)
}

func unmeasurableWarning(subjectLedger SubjectLedger) domain.Warning {
	verb := "do"
	if subjectLedger.Unmeasurable == 1 {
		verb = "does"
	}

	return domain.Warning{
		Code:    domain.WarningCodeUnmeasurableClaims,
		Message: fmt.Sprintf("%d of these claims %s not have measurable info", subjectLedger.Unmeasurable, verb),
		Details: map[string]any{
			"subject_did": subjectLedger.SubjectDID,
			"stranges":    subjectLedger.Result.IDsOfStranges,
			"unknowns":    subjectLedger.Result.IDsOfUnknowns,
		},
	}
}
