package services

import (
	"context"

	"github.com/realapp/realapp-api/internal/models"
	"github.com/realapp/realapp-api/internal/repository"
)

// ProjectService manages the project / block / floor hierarchy
type ProjectService struct {
	repo     repository.ProjectRepository
	auditSvc *AuditService
}

func NewProjectService(repo repository.ProjectRepository, auditSvc *AuditService) *ProjectService {
	return &ProjectService{repo: repo, auditSvc: auditSvc}
}

func (s *ProjectService) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProjectService) List(ctx context.Context, query *repository.ListQuery) ([]models.Project, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *ProjectService) Create(ctx context.Context, project *models.Project, userID uint) error {
	if project.GUID == "" {
		project.GUID = NewGUID()
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, userID, "CREATE", "Project", project.ID, "Project "+project.Name, "", "")
	return nil
}

func (s *ProjectService) Update(ctx context.Context, project *models.Project, userID uint) error {
	if err := s.repo.Update(ctx, project); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, userID, "UPDATE", "Project", project.ID, "Project "+project.Name, "", "")
	return nil
}

func (s *ProjectService) Blocks(ctx context.Context, projectID uint) ([]models.Block, error) {
	return s.repo.FindBlocksByProject(ctx, projectID)
}

func (s *ProjectService) FindBlock(ctx context.Context, id uint) (*models.Block, error) {
	return s.repo.FindBlockByID(ctx, id)
}

func (s *ProjectService) CreateBlock(ctx context.Context, block *models.Block, userID uint) error {
	if _, err := s.repo.FindByID(ctx, block.ProjectID); err != nil {
		return err
	}
	if err := s.repo.CreateBlock(ctx, block); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, userID, "CREATE", "Block", block.ID, "Block "+block.Name, "", "")
	return nil
}

func (s *ProjectService) Floors(ctx context.Context, blockID uint) ([]models.Floor, error) {
	return s.repo.FindFloorsByBlock(ctx, blockID)
}

func (s *ProjectService) CreateFloor(ctx context.Context, floor *models.Floor, userID uint) error {
	if _, err := s.repo.FindBlockByID(ctx, floor.BlockID); err != nil {
		return err
	}
	if err := s.repo.CreateFloor(ctx, floor); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, userID, "CREATE", "Floor", floor.ID, "", "", "")
	return nil
}

// SetTowerMilestone records or moves a milestone date on a block. Scheme rows
// resolved for that block pick the date up by scheme code.
func (s *ProjectService) SetTowerMilestone(ctx context.Context, milestone *models.TowerMilestone, userID uint) error {
	if _, err := s.repo.FindBlockByID(ctx, milestone.BlockID); err != nil {
		return err
	}
	if err := s.repo.UpsertTowerMilestone(ctx, milestone); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, userID, "UPSERT", "TowerMilestone", milestone.ID, "Milestone "+milestone.SchemeCode, "", "")
	return nil
}
