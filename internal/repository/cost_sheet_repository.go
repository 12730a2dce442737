package repository

import (
	"context"

	"github.com/realapp/realapp-api/internal/models"
	"gorm.io/gorm"
)

// CostSheetRepository defines the interface for cost sheet data access
type CostSheetRepository interface {
	FindByID(ctx context.Context, id uint) (*models.CostSheet, error)
	FindByGUID(ctx context.Context, guid string) (*models.CostSheet, error)
	Create(ctx context.Context, sheet *models.CostSheet) error
	Update(ctx context.Context, sheet *models.CostSheet) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.CostSheet, int64, error)
	ReplaceSchedule(ctx context.Context, sheetID uint, rows []models.PaymentScheduleRow) error
	FindSchedule(ctx context.Context, sheetID uint) ([]models.PaymentScheduleRow, error)
	SetQuotationFile(ctx context.Context, sheetID uint, path string) error
}

type costSheetRepository struct {
	db *gorm.DB
}

// NewCostSheetRepository creates a new cost sheet repository
func NewCostSheetRepository(db *gorm.DB) CostSheetRepository {
	return &costSheetRepository{db: db}
}

func (r *costSheetRepository) FindByID(ctx context.Context, id uint) (*models.CostSheet, error) {
	var sheet models.CostSheet
	err := r.db.WithContext(ctx).
		Preload("Unit").
		Preload("SchemeTemplate.Details", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_scheme_details.idx ASC")
		}).
		Preload("PaymentSchedule", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_schedule_rows.idx ASC")
		}).
		First(&sheet, id).Error
	if err != nil {
		return nil, err
	}
	return &sheet, nil
}

func (r *costSheetRepository) FindByGUID(ctx context.Context, guid string) (*models.CostSheet, error) {
	var sheet models.CostSheet
	err := r.db.WithContext(ctx).
		Preload("Unit").
		Preload("PaymentSchedule", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_schedule_rows.idx ASC")
		}).
		Where("guid = ?", guid).
		First(&sheet).Error
	if err != nil {
		return nil, err
	}
	return &sheet, nil
}

func (r *costSheetRepository) Create(ctx context.Context, sheet *models.CostSheet) error {
	return r.db.WithContext(ctx).Create(sheet).Error
}

func (r *costSheetRepository) Update(ctx context.Context, sheet *models.CostSheet) error {
	return r.db.WithContext(ctx).Save(sheet).Error
}

func (r *costSheetRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cost_sheet_id = ?", id).
			Delete(&models.PaymentScheduleRow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.CostSheet{}, id).Error
	})
}

func (r *costSheetRepository) List(ctx context.Context, query *ListQuery) ([]models.CostSheet, int64, error) {
	var sheets []models.CostSheet
	var total int64

	db := r.db.WithContext(ctx).Model(&models.CostSheet{})

	if query.Filters["unit_id"] != "" {
		db = db.Where("unit_id = ?", query.Filters["unit_id"])
	}
	if query.Filters["project_id"] != "" {
		db = db.Where("project_id = ?", query.Filters["project_id"])
	}
	if query.Filters["cost_sheet_type"] != "" {
		db = db.Where("cost_sheet_type = ?", query.Filters["cost_sheet_type"])
	}

	db.Count(&total)

	db = db.Order("created_at DESC")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Unit").Find(&sheets).Error
	return sheets, total, err
}

// ReplaceSchedule swaps the sheet's schedule rows in one transaction so a
// recompute never leaves a partial schedule behind.
func (r *costSheetRepository) ReplaceSchedule(ctx context.Context, sheetID uint, rows []models.PaymentScheduleRow) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cost_sheet_id = ?", sheetID).
			Delete(&models.PaymentScheduleRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].ID = 0
			rows[i].CostSheetID = &sheetID
			rows[i].BookingOrderID = nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *costSheetRepository) FindSchedule(ctx context.Context, sheetID uint) ([]models.PaymentScheduleRow, error) {
	var rows []models.PaymentScheduleRow
	err := r.db.WithContext(ctx).
		Where("cost_sheet_id = ?", sheetID).
		Order("idx ASC").
		Find(&rows).Error
	return rows, err
}

func (r *costSheetRepository) SetQuotationFile(ctx context.Context, sheetID uint, path string) error {
	return r.db.WithContext(ctx).
		Model(&models.CostSheet{}).
		Where("id = ?", sheetID).
		Update("quotation_file", path).Error
}
