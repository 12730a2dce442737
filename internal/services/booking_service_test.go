package services

import (
	"context"
	"errors"
	"testing"

	"github.com/realapp/realapp-api/internal/models"
	"github.com/realapp/realapp-api/internal/repository"
	"github.com/realapp/realapp-api/internal/statemachine"
	"github.com/stretchr/testify/assert"
)

// Mock BookingRepository
type mockBookingRepository struct {
	repository.BookingRepository
	mockFindByID        func(ctx context.Context, id uint) (*models.BookingOrder, error)
	mockCreate          func(ctx context.Context, booking *models.BookingOrder) error
	mockReplaceSchedule func(ctx context.Context, bookingID uint, rows []models.PaymentScheduleRow) error
	mockSubmitWithUnit  func(ctx context.Context, booking *models.BookingOrder, unit *models.Unit) error
	mockCancelWithUnit  func(ctx context.Context, booking *models.BookingOrder, unit *models.Unit) error
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id uint) (*models.BookingOrder, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}
func (m *mockBookingRepository) Create(ctx context.Context, booking *models.BookingOrder) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, booking)
	}
	return nil
}
func (m *mockBookingRepository) ReplaceSchedule(ctx context.Context, bookingID uint, rows []models.PaymentScheduleRow) error {
	if m.mockReplaceSchedule != nil {
		return m.mockReplaceSchedule(ctx, bookingID, rows)
	}
	return nil
}
func (m *mockBookingRepository) SubmitWithUnit(ctx context.Context, booking *models.BookingOrder, unit *models.Unit) error {
	if m.mockSubmitWithUnit != nil {
		return m.mockSubmitWithUnit(ctx, booking, unit)
	}
	return nil
}
func (m *mockBookingRepository) CancelWithUnit(ctx context.Context, booking *models.BookingOrder, unit *models.Unit) error {
	if m.mockCancelWithUnit != nil {
		return m.mockCancelWithUnit(ctx, booking, unit)
	}
	return nil
}

// Mock CostSheetRepository (using embedding to avoid implementing all methods)
type mockCostSheetRepository struct {
	repository.CostSheetRepository
	mockFindByID        func(ctx context.Context, id uint) (*models.CostSheet, error)
	mockCreate          func(ctx context.Context, sheet *models.CostSheet) error
	mockUpdate          func(ctx context.Context, sheet *models.CostSheet) error
	mockReplaceSchedule func(ctx context.Context, sheetID uint, rows []models.PaymentScheduleRow) error
}

func (m *mockCostSheetRepository) FindByID(ctx context.Context, id uint) (*models.CostSheet, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}
func (m *mockCostSheetRepository) Create(ctx context.Context, sheet *models.CostSheet) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, sheet)
	}
	return nil
}
func (m *mockCostSheetRepository) Update(ctx context.Context, sheet *models.CostSheet) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, sheet)
	}
	return nil
}
func (m *mockCostSheetRepository) ReplaceSchedule(ctx context.Context, sheetID uint, rows []models.PaymentScheduleRow) error {
	if m.mockReplaceSchedule != nil {
		return m.mockReplaceSchedule(ctx, sheetID, rows)
	}
	return nil
}

// Mock UnitRepository
type mockUnitRepository struct {
	repository.UnitRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Unit, error)
	mockCreate   func(ctx context.Context, unit *models.Unit) error
	mockUpdate   func(ctx context.Context, unit *models.Unit) error
}

func (m *mockUnitRepository) FindByID(ctx context.Context, id uint) (*models.Unit, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}
func (m *mockUnitRepository) Create(ctx context.Context, unit *models.Unit) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, unit)
	}
	return nil
}
func (m *mockUnitRepository) Update(ctx context.Context, unit *models.Unit) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, unit)
	}
	return nil
}

func availableUnit() *models.Unit {
	return &models.Unit{ID: 10, Name: "A-101", Status: models.UnitStatusAvailable}
}

func sampleCostSheet() *models.CostSheet {
	schemeID := uint(3)
	return &models.CostSheet{
		ID:                5,
		UnitID:            10,
		ProjectID:         1,
		BlockID:           2,
		FloorNumber:       1,
		SalableArea:       1000,
		BasicPricePerSFT:  3000,
		FormulaVersion:    3,
		AOSValue:          3000000,
		AOSGST:            150000,
		AOSValueGST:       3150000,
		NetPayable:        3120000,
		GrandTotalPayable: 3288540,
		SchemeTemplateID:  &schemeID,
		PaymentSchedule: []models.PaymentScheduleRow{
			{ID: 101, SchemeCode: "BOOKING", Percentage: 20, Amount: 600000},
			{ID: 102, SchemeCode: "POSSESSION", Percentage: 80, Amount: 2400000},
		},
	}
}

func TestBookingCreateFromCostSheet_SnapshotAndSchedule(t *testing.T) {
	bookingRepo := &mockBookingRepository{}
	sheetRepo := &mockCostSheetRepository{}
	unitRepo := &mockUnitRepository{}
	billingRepo := &mockBillingRepository{}

	service := NewBookingService(bookingRepo, sheetRepo, unitRepo, billingRepo, nil)

	sheet := sampleCostSheet()
	sheetRepo.mockFindByID = func(ctx context.Context, id uint) (*models.CostSheet, error) {
		return sheet, nil
	}
	unitRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Unit, error) {
		return availableUnit(), nil
	}
	billingRepo.mockFindCustomerByID = func(ctx context.Context, id uint) (*models.Customer, error) {
		return &models.Customer{ID: id, CustomerName: "John Buyer"}, nil
	}

	var created *models.BookingOrder
	bookingRepo.mockCreate = func(ctx context.Context, booking *models.BookingOrder) error {
		booking.ID = 42
		created = booking
		return nil
	}

	scheduleReplaced := false
	bookingRepo.mockReplaceSchedule = func(ctx context.Context, bookingID uint, rows []models.PaymentScheduleRow) error {
		scheduleReplaced = true
		assert.Equal(t, uint(42), bookingID)
		assert.Len(t, rows, 2)
		assert.Equal(t, "BOOKING", rows[0].SchemeCode)
		return nil
	}
	bookingRepo.mockFindByID = func(ctx context.Context, id uint) (*models.BookingOrder, error) {
		return created, nil
	}

	in := CreateBookingInput{
		CostSheetID: 5,
		PartyType:   models.PartyTypeCustomer,
		PartyID:     7,
		AdvancePaid: 100000,
	}

	booking, err := service.CreateFromCostSheet(context.Background(), in, 1)
	assert.NoError(t, err)
	assert.True(t, scheduleReplaced)

	assert.Equal(t, models.BookingStatusDraft, booking.Status)
	assert.NotEmpty(t, booking.GUID)
	assert.Equal(t, sheet.ID, booking.CostSheetID)
	assert.Equal(t, sheet.UnitID, booking.UnitID)

	// Totals are a snapshot of the sheet, not a live reference.
	assert.Equal(t, sheet.AOSValue, booking.AOSValue)
	assert.Equal(t, sheet.AOSValueGST, booking.AOSValueGST)
	assert.Equal(t, sheet.NetPayable, booking.NetPayable)
	assert.Equal(t, sheet.GrandTotalPayable, booking.GrandTotalPayable)
	assert.Equal(t, sheet.SchemeTemplateID, booking.SchemeTemplateID)

	assert.Equal(t, 100000.0, booking.AdvancePaid)
	assert.Equal(t, 3188540.0, booking.BalancePayable)
}

func TestBookingCreateFromCostSheet_UnitNotAvailable(t *testing.T) {
	bookingRepo := &mockBookingRepository{}
	sheetRepo := &mockCostSheetRepository{}
	unitRepo := &mockUnitRepository{}
	billingRepo := &mockBillingRepository{}

	service := NewBookingService(bookingRepo, sheetRepo, unitRepo, billingRepo, nil)

	sheetRepo.mockFindByID = func(ctx context.Context, id uint) (*models.CostSheet, error) {
		return sampleCostSheet(), nil
	}
	unitRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Unit, error) {
		return &models.Unit{ID: 10, Name: "A-101", Status: models.UnitStatusBooked}, nil
	}
	billingRepo.mockFindCustomerByID = func(ctx context.Context, id uint) (*models.Customer, error) {
		return &models.Customer{ID: id}, nil
	}
	bookingRepo.mockCreate = func(ctx context.Context, booking *models.BookingOrder) error {
		t.Fatal("Create should not be called for an unavailable unit")
		return nil
	}

	in := CreateBookingInput{CostSheetID: 5, PartyType: models.PartyTypeCustomer, PartyID: 7}

	_, err := service.CreateFromCostSheet(context.Background(), in, 1)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnitNotAvailable))
}

func TestBookingCreateFromCostSheet_UnknownPartyType(t *testing.T) {
	sheetRepo := &mockCostSheetRepository{}
	sheetRepo.mockFindByID = func(ctx context.Context, id uint) (*models.CostSheet, error) {
		return sampleCostSheet(), nil
	}

	service := NewBookingService(&mockBookingRepository{}, sheetRepo, &mockUnitRepository{}, &mockBillingRepository{}, nil)

	in := CreateBookingInput{CostSheetID: 5, PartyType: "Vendor", PartyID: 7}

	_, err := service.CreateFromCostSheet(context.Background(), in, 1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown party type")
}

func TestBookingSubmit_BooksUnitAtomically(t *testing.T) {
	bookingRepo := &mockBookingRepository{}
	unitRepo := &mockUnitRepository{}

	service := NewBookingService(bookingRepo, &mockCostSheetRepository{}, unitRepo, &mockBillingRepository{}, nil)

	bookingRepo.mockFindByID = func(ctx context.Context, id uint) (*models.BookingOrder, error) {
		return &models.BookingOrder{
			ID:                42,
			UnitID:            10,
			Status:            models.BookingStatusDraft,
			GrandTotalPayable: 3288540,
			AdvancePaid:       100000,
		}, nil
	}
	unitRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Unit, error) {
		return availableUnit(), nil
	}

	submitted := false
	bookingRepo.mockSubmitWithUnit = func(ctx context.Context, booking *models.BookingOrder, unit *models.Unit) error {
		submitted = true
		// Both transitions land in the same persistence call.
		assert.Equal(t, models.BookingStatusSubmitted, booking.Status)
		assert.Equal(t, models.UnitStatusBooked, unit.Status)
		return nil
	}

	booking, err := service.Submit(context.Background(), 42, 1)
	assert.NoError(t, err)
	assert.True(t, submitted)
	assert.NotNil(t, booking.SubmittedAt)
	assert.Equal(t, 3188540.0, booking.BalancePayable)
}

func TestBookingSubmit_AlreadySubmitted(t *testing.T) {
	bookingRepo := &mockBookingRepository{}
	unitRepo := &mockUnitRepository{}

	service := NewBookingService(bookingRepo, &mockCostSheetRepository{}, unitRepo, &mockBillingRepository{}, nil)

	bookingRepo.mockFindByID = func(ctx context.Context, id uint) (*models.BookingOrder, error) {
		return &models.BookingOrder{ID: 42, UnitID: 10, Status: models.BookingStatusSubmitted}, nil
	}
	unitRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Unit, error) {
		return availableUnit(), nil
	}

	_, err := service.Submit(context.Background(), 42, 1)
	assert.Error(t, err)

	var terr *statemachine.TransitionError
	assert.True(t, errors.As(err, &terr))
	assert.Equal(t, "submit", terr.Event)
}

func TestBookingSubmit_BlockedUnit(t *testing.T) {
	bookingRepo := &mockBookingRepository{}
	unitRepo := &mockUnitRepository{}

	service := NewBookingService(bookingRepo, &mockCostSheetRepository{}, unitRepo, &mockBillingRepository{}, nil)

	bookingRepo.mockFindByID = func(ctx context.Context, id uint) (*models.BookingOrder, error) {
		return &models.BookingOrder{ID: 42, UnitID: 10, Status: models.BookingStatusDraft}, nil
	}
	unitRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Unit, error) {
		return &models.Unit{ID: 10, Name: "A-101", Status: models.UnitStatusBlocked}, nil
	}
	bookingRepo.mockSubmitWithUnit = func(ctx context.Context, booking *models.BookingOrder, unit *models.Unit) error {
		t.Fatal("nothing should be persisted when the unit cannot be booked")
		return nil
	}

	_, err := service.Submit(context.Background(), 42, 1)
	assert.Error(t, err)

	var terr *statemachine.TransitionError
	assert.True(t, errors.As(err, &terr))
	assert.Equal(t, "unit", terr.Entity)
}

func TestBookingCancel_ReleasesBookedUnit(t *testing.T) {
	bookingRepo := &mockBookingRepository{}
	unitRepo := &mockUnitRepository{}

	service := NewBookingService(bookingRepo, &mockCostSheetRepository{}, unitRepo, &mockBillingRepository{}, nil)

	bookingRepo.mockFindByID = func(ctx context.Context, id uint) (*models.BookingOrder, error) {
		return &models.BookingOrder{ID: 42, UnitID: 10, Status: models.BookingStatusSubmitted}, nil
	}
	unitRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Unit, error) {
		return &models.Unit{ID: 10, Name: "A-101", Status: models.UnitStatusBooked}, nil
	}

	cancelled := false
	bookingRepo.mockCancelWithUnit = func(ctx context.Context, booking *models.BookingOrder, unit *models.Unit) error {
		cancelled = true
		assert.Equal(t, models.BookingStatusCancelled, booking.Status)
		assert.NotNil(t, unit)
		assert.Equal(t, models.UnitStatusAvailable, unit.Status)
		return nil
	}

	booking, err := service.Cancel(context.Background(), 42, 1)
	assert.NoError(t, err)
	assert.True(t, cancelled)
	assert.NotNil(t, booking.CancelledAt)
}

func TestBookingCancel_SoldUnitUntouched(t *testing.T) {
	bookingRepo := &mockBookingRepository{}
	unitRepo := &mockUnitRepository{}

	service := NewBookingService(bookingRepo, &mockCostSheetRepository{}, unitRepo, &mockBillingRepository{}, nil)

	bookingRepo.mockFindByID = func(ctx context.Context, id uint) (*models.BookingOrder, error) {
		return &models.BookingOrder{ID: 42, UnitID: 10, Status: models.BookingStatusSubmitted}, nil
	}
	unitRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Unit, error) {
		return &models.Unit{ID: 10, Name: "A-101", Status: models.UnitStatusSold}, nil
	}

	bookingRepo.mockCancelWithUnit = func(ctx context.Context, booking *models.BookingOrder, unit *models.Unit) error {
		assert.Equal(t, models.BookingStatusCancelled, booking.Status)
		// A unit that moved on past booked is left alone.
		assert.Nil(t, unit)
		return nil
	}

	_, err := service.Cancel(context.Background(), 42, 1)
	assert.NoError(t, err)
}

func TestBookingCancel_DraftRejected(t *testing.T) {
	bookingRepo := &mockBookingRepository{}

	service := NewBookingService(bookingRepo, &mockCostSheetRepository{}, &mockUnitRepository{}, &mockBillingRepository{}, nil)

	bookingRepo.mockFindByID = func(ctx context.Context, id uint) (*models.BookingOrder, error) {
		return &models.BookingOrder{ID: 42, UnitID: 10, Status: models.BookingStatusDraft}, nil
	}

	_, err := service.Cancel(context.Background(), 42, 1)
	assert.Error(t, err)

	var terr *statemachine.TransitionError
	assert.True(t, errors.As(err, &terr))
	assert.Equal(t, "cancel", terr.Event)
}
