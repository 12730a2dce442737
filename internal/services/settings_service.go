package services

import (
	"context"
	"fmt"

	"github.com/realapp/realapp-api/internal/models"
	"github.com/realapp/realapp-api/internal/pricing"
	"github.com/realapp/realapp-api/internal/repository"
)

// SettingsService manages the singleton rate configuration
type SettingsService struct {
	repo     repository.SettingsRepository
	auditSvc *AuditService
}

func NewSettingsService(repo repository.SettingsRepository, auditSvc *AuditService) *SettingsService {
	return &SettingsService{repo: repo, auditSvc: auditSvc}
}

// Get returns the settings record
func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	return s.repo.Get(ctx)
}

// RateCard loads the settings and converts them into the calculation value
// object. Updates only affect computations that start after this call.
func (s *SettingsService) RateCard(ctx context.Context) (pricing.RateCard, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return pricing.RateCard{}, err
	}
	return settings.RateCard(), nil
}

// Update persists the new rates. Existing snapshots keep the values they
// were computed with.
func (s *SettingsService) Update(ctx context.Context, updated *models.Settings, userID uint) (*models.Settings, error) {
	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, userID, "UPDATE", "Settings", updated.ID,
		fmt.Sprintf("Rate settings updated: GST %.2f%%, TDS %.2f%%", updated.GSTRate, updated.TDSRate), "", "")

	return updated, nil
}
