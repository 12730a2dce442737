package repository

import (
	"context"

	"github.com/realapp/realapp-api/internal/models"
	"gorm.io/gorm"
)

// SchemeRepository defines the interface for payment scheme template data access
type SchemeRepository interface {
	FindByID(ctx context.Context, id uint) (*models.PaymentSchemeTemplate, error)
	FindByName(ctx context.Context, name string) (*models.PaymentSchemeTemplate, error)
	Create(ctx context.Context, template *models.PaymentSchemeTemplate) error
	Update(ctx context.Context, template *models.PaymentSchemeTemplate) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.PaymentSchemeTemplate, int64, error)
}

type schemeRepository struct {
	db *gorm.DB
}

// NewSchemeRepository creates a new payment scheme repository
func NewSchemeRepository(db *gorm.DB) SchemeRepository {
	return &schemeRepository{db: db}
}

func (r *schemeRepository) FindByID(ctx context.Context, id uint) (*models.PaymentSchemeTemplate, error) {
	var template models.PaymentSchemeTemplate
	err := r.db.WithContext(ctx).
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_scheme_details.idx ASC")
		}).
		First(&template, id).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *schemeRepository) FindByName(ctx context.Context, name string) (*models.PaymentSchemeTemplate, error) {
	var template models.PaymentSchemeTemplate
	err := r.db.WithContext(ctx).
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_scheme_details.idx ASC")
		}).
		Where("scheme_name = ?", name).
		First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// Create inserts the template with its detail rows in one transaction
func (r *schemeRepository) Create(ctx context.Context, template *models.PaymentSchemeTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

// Update replaces detail rows wholesale so reordering and removals stick
func (r *schemeRepository) Update(ctx context.Context, template *models.PaymentSchemeTemplate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", template.ID).
			Delete(&models.PaymentSchemeDetail{}).Error; err != nil {
			return err
		}
		for i := range template.Details {
			template.Details[i].ID = 0
			template.Details[i].TemplateID = template.ID
		}
		return tx.Save(template).Error
	})
}

func (r *schemeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", id).
			Delete(&models.PaymentSchemeDetail{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.PaymentSchemeTemplate{}, id).Error
	})
}

func (r *schemeRepository) List(ctx context.Context, query *ListQuery) ([]models.PaymentSchemeTemplate, int64, error) {
	var templates []models.PaymentSchemeTemplate
	var total int64

	db := r.db.WithContext(ctx).Model(&models.PaymentSchemeTemplate{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("scheme_name ILIKE ?", search)
	}

	db.Count(&total)

	db = db.Order("scheme_name ASC")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Details", func(db *gorm.DB) *gorm.DB {
		return db.Order("payment_scheme_details.idx ASC")
	}).Find(&templates).Error
	return templates, total, err
}
