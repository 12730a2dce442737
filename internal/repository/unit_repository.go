package repository

import (
	"context"

	"github.com/realapp/realapp-api/internal/models"
	"gorm.io/gorm"
)

// UnitRepository defines the interface for unit data access
type UnitRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Unit, error)
	FindByGUID(ctx context.Context, guid string) (*models.Unit, error)
	Create(ctx context.Context, unit *models.Unit) error
	CreateBatch(ctx context.Context, units []models.Unit) error
	Update(ctx context.Context, unit *models.Unit) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Unit, int64, error)
	CountByStatus(ctx context.Context, projectID uint) (map[string]int64, error)
}

type unitRepository struct {
	db *gorm.DB
}

// NewUnitRepository creates a new unit repository
func NewUnitRepository(db *gorm.DB) UnitRepository {
	return &unitRepository{db: db}
}

func (r *unitRepository) FindByID(ctx context.Context, id uint) (*models.Unit, error) {
	var unit models.Unit
	err := r.db.WithContext(ctx).
		Preload("Floor.Block.Project").
		First(&unit, id).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepository) FindByGUID(ctx context.Context, guid string) (*models.Unit, error) {
	var unit models.Unit
	err := r.db.WithContext(ctx).
		Preload("Floor.Block.Project").
		Where("guid = ?", guid).
		First(&unit).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepository) Create(ctx context.Context, unit *models.Unit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

// CreateBatch inserts imported units in one transaction so a bad row aborts
// the whole import.
func (r *unitRepository) CreateBatch(ctx context.Context, units []models.Unit) error {
	if len(units) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(units, 100).Error
	})
}

func (r *unitRepository) Update(ctx context.Context, unit *models.Unit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

func (r *unitRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Unit{}, id).Error
}

func (r *unitRepository) List(ctx context.Context, query *ListQuery) ([]models.Unit, int64, error) {
	var units []models.Unit
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Unit{})

	// Apply search
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ?", search)
	}

	// Apply filters
	if query.Filters["project_id"] != "" {
		db = db.Where("project_id = ?", query.Filters["project_id"])
	}
	if query.Filters["block_id"] != "" {
		db = db.Where("block_id = ?", query.Filters["block_id"])
	}
	if query.Filters["floor_id"] != "" {
		db = db.Where("floor_id = ?", query.Filters["floor_id"])
	}
	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}

	// Count total
	db.Count(&total)

	// Apply sorting
	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("name ASC")
	}

	// Apply pagination
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&units).Error
	return units, total, err
}

func (r *unitRepository) CountByStatus(ctx context.Context, projectID uint) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount

	db := r.db.WithContext(ctx).Model(&models.Unit{}).
		Select("status, COUNT(*) as count").
		Group("status")
	if projectID > 0 {
		db = db.Where("project_id = ?", projectID)
	}
	if err := db.Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
