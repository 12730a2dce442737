package repository

import (
	"context"

	"github.com/realapp/realapp-api/internal/models"
	"gorm.io/gorm"
)

// ProjectRepository defines the interface for project hierarchy data access
type ProjectRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Project, error)
	FindByGUID(ctx context.Context, guid string) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Project, int64, error)

	FindBlockByID(ctx context.Context, id uint) (*models.Block, error)
	FindBlocksByProject(ctx context.Context, projectID uint) ([]models.Block, error)
	CreateBlock(ctx context.Context, block *models.Block) error
	UpdateBlock(ctx context.Context, block *models.Block) error

	FindFloorByID(ctx context.Context, id uint) (*models.Floor, error)
	FindFloor(ctx context.Context, blockID uint, floorNumber int) (*models.Floor, error)
	FindFloorsByBlock(ctx context.Context, blockID uint) ([]models.Floor, error)
	CreateFloor(ctx context.Context, floor *models.Floor) error

	UpsertTowerMilestone(ctx context.Context, milestone *models.TowerMilestone) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Preload("Blocks").First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) FindByGUID(ctx context.Context, guid string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Preload("Blocks").Where("guid = ?", guid).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Project{}, id).Error
}

func (r *projectRepository) List(ctx context.Context, query *ListQuery) ([]models.Project, int64, error) {
	var projects []models.Project
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Project{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ?", search)
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&projects).Error
	return projects, total, err
}

func (r *projectRepository) FindBlockByID(ctx context.Context, id uint) (*models.Block, error) {
	var block models.Block
	err := r.db.WithContext(ctx).
		Preload("TowerMilestones").
		First(&block, id).Error
	if err != nil {
		return nil, err
	}
	return &block, nil
}

func (r *projectRepository) FindBlocksByProject(ctx context.Context, projectID uint) ([]models.Block, error) {
	var blocks []models.Block
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("name ASC").
		Find(&blocks).Error
	return blocks, err
}

func (r *projectRepository) CreateBlock(ctx context.Context, block *models.Block) error {
	return r.db.WithContext(ctx).Create(block).Error
}

func (r *projectRepository) UpdateBlock(ctx context.Context, block *models.Block) error {
	return r.db.WithContext(ctx).Save(block).Error
}

func (r *projectRepository) FindFloorByID(ctx context.Context, id uint) (*models.Floor, error) {
	var floor models.Floor
	if err := r.db.WithContext(ctx).First(&floor, id).Error; err != nil {
		return nil, err
	}
	return &floor, nil
}

func (r *projectRepository) FindFloor(ctx context.Context, blockID uint, floorNumber int) (*models.Floor, error) {
	var floor models.Floor
	err := r.db.WithContext(ctx).
		Where("block_id = ? AND floor_number = ?", blockID, floorNumber).
		First(&floor).Error
	if err != nil {
		return nil, err
	}
	return &floor, nil
}

func (r *projectRepository) FindFloorsByBlock(ctx context.Context, blockID uint) ([]models.Floor, error) {
	var floors []models.Floor
	err := r.db.WithContext(ctx).
		Where("block_id = ?", blockID).
		Order("floor_number ASC").
		Find(&floors).Error
	return floors, err
}

func (r *projectRepository) CreateFloor(ctx context.Context, floor *models.Floor) error {
	return r.db.WithContext(ctx).Create(floor).Error
}

// UpsertTowerMilestone sets the construction milestone date for a scheme code
// on a block, replacing any previous date for the same code.
func (r *projectRepository) UpsertTowerMilestone(ctx context.Context, milestone *models.TowerMilestone) error {
	var existing models.TowerMilestone
	err := r.db.WithContext(ctx).
		Where("block_id = ? AND scheme_code = ?", milestone.BlockID, milestone.SchemeCode).
		First(&existing).Error
	if err == nil {
		existing.MilestoneDate = milestone.MilestoneDate
		return r.db.WithContext(ctx).Save(&existing).Error
	}
	return r.db.WithContext(ctx).Create(milestone).Error
}
