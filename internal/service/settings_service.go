package service

import (
	"context"
	"fmt"

	"claim-ledger/internal/domain"
	"claim-ledger/internal/logger"
	"claim-ledger/internal/ports"
)

type SettingsService struct {
	repo ports.SettingsRepository
}

func NewSettingsService(repo ports.SettingsRepository) (*SettingsService, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings service: repo is required")
	}
	return &SettingsService{repo: repo}, nil
}

func (s *SettingsService) SetSubject(ctx context.Context, subjectDID string) (domain.Settings, error) {
	settings, err := s.repo.Upsert(ctx, domain.SettingsUpsertInput{SubjectDID: subjectDID})
	if err != nil {
		return domain.Settings{}, err
	}

	log := logger.FromContext(ctx)
	log.Info().Str("subject", domain.FirstAndLast3OfDID(settings.SubjectDID)).Msg("saved default subject")
	return settings, nil
}

func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	return s.repo.Get(ctx)
}
