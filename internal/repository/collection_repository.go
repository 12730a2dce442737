package repository

import (
	"context"
	"time"

	"github.com/realapp/realapp-api/internal/models"
	"gorm.io/gorm"
)

// CollectionFilter narrows the collection report
type CollectionFilter struct {
	ProjectID     *uint
	BlockID       *uint
	UnitID        *uint
	CustomerID    *uint
	MilestoneCode *string
	FromDate      *time.Time
	ToDate        *time.Time
}

// CollectionRepository defines the data access for the collection report
type CollectionRepository interface {
	FetchRows(ctx context.Context, filter CollectionFilter) ([]models.CollectionRow, error)
}

type collectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository creates a new collection repository
func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

// FetchRows joins invoices against payment allocations in a single query.
// Collected amounts come from payment entry references, not from invoice
// status, since partial allocations are common.
func (r *collectionRepository) FetchRows(ctx context.Context, filter CollectionFilter) ([]models.CollectionRow, error) {
	var rows []models.CollectionRow

	query := r.db.WithContext(ctx).Table("sales_invoices si").
		Select(`si.id AS invoice_id,
			si.invoice_no,
			si.customer_id,
			c.customer_name,
			si.project_id,
			p.name AS project_name,
			si.block_id,
			b.name AS block_name,
			si.unit_id,
			u.name AS unit_name,
			(SELECT STRING_AGG(DISTINCT sii.milestone_code, ', ')
				FROM sales_invoice_items sii
				WHERE sii.invoice_id = si.id AND sii.milestone_code <> '') AS milestone,
			si.posting_date,
			si.due_date,
			si.rounded_total AS invoiced_amount,
			COALESCE(pa.allocated, 0) AS collected_amount,
			pa.last_payment_date`).
		Joins("JOIN customers c ON c.id = si.customer_id").
		Joins("LEFT JOIN projects p ON p.id = si.project_id").
		Joins("LEFT JOIN blocks b ON b.id = si.block_id").
		Joins("LEFT JOIN units u ON u.id = si.unit_id").
		Joins(`LEFT JOIN (
			SELECT per.invoice_id,
				SUM(per.allocated_amount) AS allocated,
				MAX(pe.posting_date) AS last_payment_date
			FROM payment_entry_references per
			JOIN payment_entries pe ON pe.id = per.payment_entry_id
			GROUP BY per.invoice_id
		) pa ON pa.invoice_id = si.id`).
		Where("si.status <> ?", models.InvoiceStatusCancelled)

	if filter.ProjectID != nil {
		query = query.Where("si.project_id = ?", *filter.ProjectID)
	}
	if filter.BlockID != nil {
		query = query.Where("si.block_id = ?", *filter.BlockID)
	}
	if filter.UnitID != nil {
		query = query.Where("si.unit_id = ?", *filter.UnitID)
	}
	if filter.CustomerID != nil {
		query = query.Where("si.customer_id = ?", *filter.CustomerID)
	}
	if filter.MilestoneCode != nil {
		query = query.Where("EXISTS (SELECT 1 FROM sales_invoice_items sii WHERE sii.invoice_id = si.id AND sii.milestone_code = ?)", *filter.MilestoneCode)
	}
	if filter.FromDate != nil {
		query = query.Where("si.posting_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("si.posting_date <= ?", *filter.ToDate)
	}

	err := query.Order("si.posting_date ASC, si.id ASC").Scan(&rows).Error
	return rows, err
}
