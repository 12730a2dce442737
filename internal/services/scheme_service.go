package services

import (
	"context"
	"fmt"

	"github.com/realapp/realapp-api/internal/models"
	"github.com/realapp/realapp-api/internal/repository"
)

// SchemeService manages payment scheme templates
type SchemeService struct {
	repo        repository.SchemeRepository
	projectRepo repository.ProjectRepository
	auditSvc    *AuditService
}

func NewSchemeService(
	repo repository.SchemeRepository,
	projectRepo repository.ProjectRepository,
	auditSvc *AuditService,
) *SchemeService {
	return &SchemeService{
		repo:        repo,
		projectRepo: projectRepo,
		auditSvc:    auditSvc,
	}
}

// FindByID gets a template with its ordered detail rows
func (s *SchemeService) FindByID(ctx context.Context, id uint) (*models.PaymentSchemeTemplate, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *SchemeService) List(ctx context.Context, query *repository.ListQuery) ([]models.PaymentSchemeTemplate, int64, error) {
	return s.repo.List(ctx, query)
}

// Create validates and persists a new template
func (s *SchemeService) Create(ctx context.Context, template *models.PaymentSchemeTemplate, userID uint) error {
	if err := template.Validate(); err != nil {
		return err
	}
	for i := range template.Details {
		template.Details[i].Idx = i
	}

	if err := s.repo.Create(ctx, template); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, userID, "CREATE", "PaymentSchemeTemplate", template.ID,
		fmt.Sprintf("Scheme %s created with %d milestones", template.SchemeName, len(template.Details)), "", "")
	return nil
}

// Update validates and replaces the template rows
func (s *SchemeService) Update(ctx context.Context, template *models.PaymentSchemeTemplate, userID uint) error {
	if err := template.Validate(); err != nil {
		return err
	}
	for i := range template.Details {
		template.Details[i].Idx = i
	}

	if err := s.repo.Update(ctx, template); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, userID, "UPDATE", "PaymentSchemeTemplate", template.ID,
		fmt.Sprintf("Scheme %s updated", template.SchemeName), "", "")
	return nil
}

func (s *SchemeService) Delete(ctx context.Context, id uint, userID uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, userID, "DELETE", "PaymentSchemeTemplate", id, "Scheme deleted", "", "")
	return nil
}

// SchemeRows merges the template's milestones with the block's construction
// milestone dates. Codes with no date on the block come back with a nil date.
func (s *SchemeService) SchemeRows(ctx context.Context, templateID, blockID uint) ([]models.SchemeRow, error) {
	template, err := s.repo.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	block, err := s.projectRepo.FindBlockByID(ctx, blockID)
	if err != nil {
		return nil, err
	}
	milestoneDates := block.MilestoneDates()

	rows := make([]models.SchemeRow, 0, len(template.Details))
	for _, d := range template.Details {
		rows = append(rows, models.SchemeRow{
			SchemeCode:    d.SchemeCode,
			Milestone:     d.Milestone,
			Particulars:   d.Particulars,
			MilestoneItem: d.MilestoneItem,
			Percentage:    d.Percentage,
			MilestoneDate: milestoneDates[d.SchemeCode],
		})
	}
	return rows, nil
}
