package repository

import (
	"context"
	"errors"

	"github.com/realapp/realapp-api/internal/models"
	"gorm.io/gorm"
)

// BillingRepository defines the interface for party and invoice data access
type BillingRepository interface {
	FindCustomerByID(ctx context.Context, id uint) (*models.Customer, error)
	FindCustomerByName(ctx context.Context, name string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error

	FindLeadByID(ctx context.Context, id uint) (*models.Lead, error)
	UpdateLead(ctx context.Context, lead *models.Lead) error

	FindOpportunityByID(ctx context.Context, id uint) (*models.Opportunity, error)
	UpdateOpportunity(ctx context.Context, opportunity *models.Opportunity) error

	// ConvertLead creates the customer and records the back-link on the lead
	// in one transaction.
	ConvertLead(ctx context.Context, lead *models.Lead, customer *models.Customer) error
	ConvertOpportunity(ctx context.Context, opportunity *models.Opportunity, customer *models.Customer) error

	FindDefaultCompany(ctx context.Context) (*models.Company, error)
	FindItemByCode(ctx context.Context, code string) (*models.Item, error)

	CreateInvoiceBatch(ctx context.Context, invoices []*models.SalesInvoice) error
	FindInvoiceByID(ctx context.Context, id uint) (*models.SalesInvoice, error)
	FindInvoicesByBooking(ctx context.Context, bookingID uint) ([]models.SalesInvoice, error)
	ListInvoices(ctx context.Context, query *ListQuery) ([]models.SalesInvoice, int64, error)
	CountInvoicesForBooking(ctx context.Context, bookingID uint) (int64, error)
	NextInvoiceSequence(ctx context.Context) (int64, error)
}

type billingRepository struct {
	db *gorm.DB
}

// NewBillingRepository creates a new billing repository
func NewBillingRepository(db *gorm.DB) BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) FindCustomerByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *billingRepository) FindCustomerByName(ctx context.Context, name string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).Where("customer_name = ?", name).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *billingRepository) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *billingRepository) FindLeadByID(ctx context.Context, id uint) (*models.Lead, error) {
	var lead models.Lead
	if err := r.db.WithContext(ctx).First(&lead, id).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *billingRepository) UpdateLead(ctx context.Context, lead *models.Lead) error {
	return r.db.WithContext(ctx).Save(lead).Error
}

func (r *billingRepository) FindOpportunityByID(ctx context.Context, id uint) (*models.Opportunity, error) {
	var opportunity models.Opportunity
	if err := r.db.WithContext(ctx).First(&opportunity, id).Error; err != nil {
		return nil, err
	}
	return &opportunity, nil
}

func (r *billingRepository) UpdateOpportunity(ctx context.Context, opportunity *models.Opportunity) error {
	return r.db.WithContext(ctx).Save(opportunity).Error
}

func (r *billingRepository) ConvertLead(ctx context.Context, lead *models.Lead, customer *models.Customer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(customer).Error; err != nil {
			return err
		}
		lead.ConvertedCustomerID = &customer.ID
		customer.LeadID = &lead.ID
		if err := tx.Save(customer).Error; err != nil {
			return err
		}
		return tx.Save(lead).Error
	})
}

func (r *billingRepository) ConvertOpportunity(ctx context.Context, opportunity *models.Opportunity, customer *models.Customer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(customer).Error; err != nil {
			return err
		}
		opportunity.CustomerID = &customer.ID
		return tx.Save(opportunity).Error
	})
}

func (r *billingRepository) FindDefaultCompany(ctx context.Context) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).Where("is_default = ?", true).First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = r.db.WithContext(ctx).Order("id ASC").First(&company).Error
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *billingRepository) FindItemByCode(ctx context.Context, code string) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Preload("Defaults").
		Where("item_code = ?", code).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateInvoiceBatch writes all drafts of one generation run in a single
// transaction. A failing line item rolls the whole batch back.
func (r *billingRepository) CreateInvoiceBatch(ctx context.Context, invoices []*models.SalesInvoice) error {
	if len(invoices) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, invoice := range invoices {
			if err := tx.Create(invoice).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *billingRepository) FindInvoiceByID(ctx context.Context, id uint) (*models.SalesInvoice, error) {
	var invoice models.SalesInvoice
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *billingRepository) FindInvoicesByBooking(ctx context.Context, bookingID uint) ([]models.SalesInvoice, error) {
	var invoices []models.SalesInvoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("booking_order_id = ?", bookingID).
		Order("posting_date ASC, id ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *billingRepository) ListInvoices(ctx context.Context, query *ListQuery) ([]models.SalesInvoice, int64, error) {
	var invoices []models.SalesInvoice
	var total int64

	db := r.db.WithContext(ctx).Model(&models.SalesInvoice{})

	if query.Filters["customer_id"] != "" {
		db = db.Where("customer_id = ?", query.Filters["customer_id"])
	}
	if query.Filters["booking_order_id"] != "" {
		db = db.Where("booking_order_id = ?", query.Filters["booking_order_id"])
	}
	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}
	if query.Filters["project_id"] != "" {
		db = db.Where("project_id = ?", query.Filters["project_id"])
	}

	db.Count(&total)

	db = db.Order("posting_date DESC, id DESC")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Customer").Find(&invoices).Error
	return invoices, total, err
}

func (r *billingRepository) CountInvoicesForBooking(ctx context.Context, bookingID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SalesInvoice{}).
		Where("booking_order_id = ?", bookingID).
		Count(&count).Error
	return count, err
}

// NextInvoiceSequence reserves the next value of the invoice numbering
// sequence. A database sequence keeps numbers unique under concurrent runs.
func (r *billingRepository) NextInvoiceSequence(ctx context.Context) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).
		Raw("SELECT nextval('sales_invoice_seq')").
		Scan(&next).Error
	return next, err
}
