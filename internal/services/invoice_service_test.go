package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/realapp/realapp-api/internal/config"
	"github.com/realapp/realapp-api/internal/models"
	"github.com/realapp/realapp-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// Mock BillingRepository (using embedding to avoid implementing all methods)
type mockBillingRepository struct {
	repository.BillingRepository
	mockFindCustomerByID    func(ctx context.Context, id uint) (*models.Customer, error)
	mockFindLeadByID        func(ctx context.Context, id uint) (*models.Lead, error)
	mockFindOpportunityByID func(ctx context.Context, id uint) (*models.Opportunity, error)
	mockConvertLead         func(ctx context.Context, lead *models.Lead, customer *models.Customer) error
	mockConvertOpportunity  func(ctx context.Context, opportunity *models.Opportunity, customer *models.Customer) error
	mockFindDefaultCompany  func(ctx context.Context) (*models.Company, error)
	mockFindItemByCode      func(ctx context.Context, code string) (*models.Item, error)
	mockCreateInvoiceBatch  func(ctx context.Context, invoices []*models.SalesInvoice) error
	mockNextInvoiceSequence func(ctx context.Context) (int64, error)
}

func (m *mockBillingRepository) FindCustomerByID(ctx context.Context, id uint) (*models.Customer, error) {
	if m.mockFindCustomerByID != nil {
		return m.mockFindCustomerByID(ctx, id)
	}
	return &models.Customer{ID: id}, nil
}
func (m *mockBillingRepository) FindLeadByID(ctx context.Context, id uint) (*models.Lead, error) {
	if m.mockFindLeadByID != nil {
		return m.mockFindLeadByID(ctx, id)
	}
	return &models.Lead{ID: id}, nil
}
func (m *mockBillingRepository) FindOpportunityByID(ctx context.Context, id uint) (*models.Opportunity, error) {
	if m.mockFindOpportunityByID != nil {
		return m.mockFindOpportunityByID(ctx, id)
	}
	return &models.Opportunity{ID: id}, nil
}
func (m *mockBillingRepository) ConvertLead(ctx context.Context, lead *models.Lead, customer *models.Customer) error {
	if m.mockConvertLead != nil {
		return m.mockConvertLead(ctx, lead, customer)
	}
	return nil
}
func (m *mockBillingRepository) ConvertOpportunity(ctx context.Context, opportunity *models.Opportunity, customer *models.Customer) error {
	if m.mockConvertOpportunity != nil {
		return m.mockConvertOpportunity(ctx, opportunity, customer)
	}
	return nil
}
func (m *mockBillingRepository) FindDefaultCompany(ctx context.Context) (*models.Company, error) {
	if m.mockFindDefaultCompany != nil {
		return m.mockFindDefaultCompany(ctx)
	}
	return &models.Company{ID: 1, Name: "RealApp Developers"}, nil
}
func (m *mockBillingRepository) FindItemByCode(ctx context.Context, code string) (*models.Item, error) {
	if m.mockFindItemByCode != nil {
		return m.mockFindItemByCode(ctx, code)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockBillingRepository) CreateInvoiceBatch(ctx context.Context, invoices []*models.SalesInvoice) error {
	if m.mockCreateInvoiceBatch != nil {
		return m.mockCreateInvoiceBatch(ctx, invoices)
	}
	return nil
}
func (m *mockBillingRepository) NextInvoiceSequence(ctx context.Context) (int64, error) {
	if m.mockNextInvoiceSequence != nil {
		return m.mockNextInvoiceSequence(ctx)
	}
	return 1, nil
}

func invoiceTestConfig(batching string) *config.Config {
	return &config.Config{InvoiceBatching: batching}
}

func submittedBooking() *models.BookingOrder {
	item := "MILESTONE-PAYMENT"
	early := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	return &models.BookingOrder{
		ID:        42,
		GUID:      "bo-42",
		UnitID:    10,
		ProjectID: 1,
		BlockID:   2,
		Status:    models.BookingStatusSubmitted,
		PartyType: models.PartyTypeCustomer,
		PartyID:   7,
		PaymentSchedule: []models.PaymentScheduleRow{
			{ID: 101, SchemeCode: "BOOKING", Milestone: "On Booking", MilestoneItem: &item, Amount: 600000.25, MilestoneDate: &early},
			{ID: 102, SchemeCode: "SLAB_5", Milestone: "5th Slab", Amount: 900000, MilestoneDate: &late},
			{ID: 103, SchemeCode: "POSSESSION", Milestone: "On Possession", Amount: 1500000},
		},
	}
}

func TestInvoiceCreate_Collapsed(t *testing.T) {
	billingRepo := &mockBillingRepository{}
	bookingRepo := &mockBookingRepository{}

	service := NewInvoiceService(billingRepo, bookingRepo, nil, invoiceTestConfig(config.InvoiceBatchingCollapsed))

	booking := submittedBooking()
	bookingRepo.mockFindByID = func(ctx context.Context, id uint) (*models.BookingOrder, error) {
		return booking, nil
	}

	income := "Sales - RA"
	costCenter := "Main - RA"
	billingRepo.mockFindDefaultCompany = func(ctx context.Context) (*models.Company, error) {
		return &models.Company{ID: 1, DefaultIncomeAccount: &income, CostCenter: &costCenter}, nil
	}

	seq := int64(14)
	billingRepo.mockNextInvoiceSequence = func(ctx context.Context) (int64, error) {
		seq++
		return seq, nil
	}

	var saved []*models.SalesInvoice
	billingRepo.mockCreateInvoiceBatch = func(ctx context.Context, invoices []*models.SalesInvoice) error {
		saved = invoices
		return nil
	}

	invoices, err := service.CreateFromBooking(context.Background(), 42,
		CreateInvoicesInput{RowIDs: []uint{101, 102}}, 1)
	assert.NoError(t, err)
	assert.Len(t, invoices, 1)
	assert.Len(t, saved, 1)

	inv := invoices[0]
	assert.Equal(t, "SINV-00015", inv.InvoiceNo)
	assert.Equal(t, models.InvoiceStatusDraft, inv.Status)
	assert.Equal(t, uint(7), inv.CustomerID)
	assert.Equal(t, uint(42), *inv.BookingOrderID)
	assert.Equal(t, uint(10), *inv.UnitID)

	assert.Len(t, inv.Items, 2)
	assert.Equal(t, "On Booking", inv.Items[0].Description)
	assert.Equal(t, 1.0, inv.Items[0].Qty)
	assert.Equal(t, 600000.25, inv.Items[0].Rate)
	assert.Equal(t, 600000.25, inv.Items[0].Amount)
	assert.Equal(t, &income, inv.Items[0].IncomeAccount)
	assert.Equal(t, &costCenter, inv.Items[0].CostCenter)

	assert.Equal(t, 1500000.25, inv.Total)
	assert.Equal(t, 1500000.0, inv.RoundedTotal)

	// The earliest selected milestone date becomes the due date.
	assert.Equal(t, *booking.PaymentSchedule[0].MilestoneDate, *inv.DueDate)
}

func TestInvoiceCreate_PerMilestone(t *testing.T) {
	billingRepo := &mockBillingRepository{}
	bookingRepo := &mockBookingRepository{}

	service := NewInvoiceService(billingRepo, bookingRepo, nil, invoiceTestConfig(config.InvoiceBatchingPerMilestone))

	bookingRepo.mockFindByID = func(ctx context.Context, id uint) (*models.BookingOrder, error) {
		return submittedBooking(), nil
	}

	seq := int64(0)
	billingRepo.mockNextInvoiceSequence = func(ctx context.Context) (int64, error) {
		seq++
		return seq, nil
	}

	invoices, err := service.CreateFromBooking(context.Background(), 42,
		CreateInvoicesInput{RowIDs: []uint{101, 102, 103}}, 1)
	assert.NoError(t, err)
	assert.Len(t, invoices, 3)

	assert.Equal(t, "SINV-00001", invoices[0].InvoiceNo)
	assert.Equal(t, "SINV-00003", invoices[2].InvoiceNo)
	for _, inv := range invoices {
		assert.Len(t, inv.Items, 1)
	}
	assert.Equal(t, 600000.25, invoices[0].Total)
	assert.Equal(t, 900000.0, invoices[1].Total)
	assert.Nil(t, invoices[2].DueDate)
}

func TestInvoiceCreate_DraftBookingRejected(t *testing.T) {
	billingRepo := &mockBillingRepository{}
	bookingRepo := &mockBookingRepository{}

	service := NewInvoiceService(billingRepo, bookingRepo, nil, invoiceTestConfig(""))

	bookingRepo.mockFindByID = func(ctx context.Context, id uint) (*models.BookingOrder, error) {
		booking := submittedBooking()
		booking.Status = models.BookingStatusDraft
		return booking, nil
	}
	billingRepo.mockCreateInvoiceBatch = func(ctx context.Context, invoices []*models.SalesInvoice) error {
		t.Fatal("no invoice should be persisted for a draft booking")
		return nil
	}

	_, err := service.CreateFromBooking(context.Background(), 42, CreateInvoicesInput{RowIDs: []uint{101}}, 1)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestInvoiceCreate_NoMatchingRows(t *testing.T) {
	bookingRepo := &mockBookingRepository{}
	bookingRepo.mockFindByID = func(ctx context.Context, id uint) (*models.BookingOrder, error) {
		return submittedBooking(), nil
	}

	service := NewInvoiceService(&mockBillingRepository{}, bookingRepo, nil, invoiceTestConfig(""))

	_, err := service.CreateFromBooking(context.Background(), 42, CreateInvoicesInput{RowIDs: []uint{999}}, 1)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestInvoiceItemDefaults_PerCompanyOverride(t *testing.T) {
	billingRepo := &mockBillingRepository{}
	bookingRepo := &mockBookingRepository{}

	service := NewInvoiceService(billingRepo, bookingRepo, nil, invoiceTestConfig(""))

	bookingRepo.mockFindByID = func(ctx context.Context, id uint) (*models.BookingOrder, error) {
		return submittedBooking(), nil
	}

	companyIncome := "Sales - RA"
	itemIncome := "Milestone Income - RA"
	otherIncome := "Other Company Income"
	billingRepo.mockFindDefaultCompany = func(ctx context.Context) (*models.Company, error) {
		return &models.Company{ID: 1, DefaultIncomeAccount: &companyIncome}, nil
	}
	billingRepo.mockFindItemByCode = func(ctx context.Context, code string) (*models.Item, error) {
		return &models.Item{
			ItemCode: code,
			ItemName: "Milestone Payment",
			StockUOM: "Nos",
			Defaults: []models.ItemDefault{
				{CompanyID: 2, IncomeAccount: &otherIncome},
				{CompanyID: 1, IncomeAccount: &itemIncome},
			},
		}, nil
	}

	invoices, err := service.CreateFromBooking(context.Background(), 42,
		CreateInvoicesInput{RowIDs: []uint{101}}, 1)
	assert.NoError(t, err)
	assert.Len(t, invoices, 1)

	line := invoices[0].Items[0]
	assert.Equal(t, "Milestone Payment", *line.ItemName)
	assert.Equal(t, "Nos", *line.UOM)
	// The row's company wins over both the company default and other companies.
	assert.Equal(t, &itemIncome, line.IncomeAccount)
}

func TestResolveParty_LeadConversionIdempotent(t *testing.T) {
	billingRepo := &mockBillingRepository{}
	service := NewInvoiceService(billingRepo, &mockBookingRepository{}, nil, invoiceTestConfig(""))

	existingID := uint(55)
	billingRepo.mockFindLeadByID = func(ctx context.Context, id uint) (*models.Lead, error) {
		return &models.Lead{ID: id, LeadName: "Jane Lead", ConvertedCustomerID: &existingID}, nil
	}
	billingRepo.mockFindCustomerByID = func(ctx context.Context, id uint) (*models.Customer, error) {
		assert.Equal(t, existingID, id)
		return &models.Customer{ID: id, CustomerName: "Jane Lead"}, nil
	}
	billingRepo.mockConvertLead = func(ctx context.Context, lead *models.Lead, customer *models.Customer) error {
		t.Fatal("an already converted lead must not be converted again")
		return nil
	}

	customer, err := service.ResolveParty(context.Background(), models.PartyTypeLead, 9)
	assert.NoError(t, err)
	assert.Equal(t, existingID, customer.ID)
}

func TestResolveParty_LeadFirstConversion(t *testing.T) {
	billingRepo := &mockBillingRepository{}
	service := NewInvoiceService(billingRepo, &mockBookingRepository{}, nil, invoiceTestConfig(""))

	billingRepo.mockFindLeadByID = func(ctx context.Context, id uint) (*models.Lead, error) {
		return &models.Lead{ID: id, LeadName: "Jane Lead"}, nil
	}

	converted := false
	billingRepo.mockConvertLead = func(ctx context.Context, lead *models.Lead, customer *models.Customer) error {
		converted = true
		customer.ID = 77
		assert.Equal(t, "Jane Lead", customer.CustomerName)
		assert.Equal(t, "Individual", customer.CustomerType)
		return nil
	}

	customer, err := service.ResolveParty(context.Background(), models.PartyTypeLead, 9)
	assert.NoError(t, err)
	assert.True(t, converted)
	assert.Equal(t, uint(77), customer.ID)
}

func TestResolveParty_OpportunityFallbackName(t *testing.T) {
	billingRepo := &mockBillingRepository{}
	service := NewInvoiceService(billingRepo, &mockBookingRepository{}, nil, invoiceTestConfig(""))

	billingRepo.mockFindOpportunityByID = func(ctx context.Context, id uint) (*models.Opportunity, error) {
		return &models.Opportunity{ID: id}, nil
	}
	billingRepo.mockConvertOpportunity = func(ctx context.Context, opp *models.Opportunity, customer *models.Customer) error {
		assert.Equal(t, "Opportunity 13", customer.CustomerName)
		return nil
	}

	_, err := service.ResolveParty(context.Background(), models.PartyTypeOpportunity, 13)
	assert.NoError(t, err)
}
