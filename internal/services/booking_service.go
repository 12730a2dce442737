package services

import (
	"context"
	"fmt"
	"time"

	"github.com/realapp/realapp-api/internal/models"
	"github.com/realapp/realapp-api/internal/pricing"
	"github.com/realapp/realapp-api/internal/repository"
	"github.com/realapp/realapp-api/internal/statemachine"
)

// BookingService manages the booking order lifecycle
type BookingService struct {
	repo          repository.BookingRepository
	costSheetRepo repository.CostSheetRepository
	unitRepo      repository.UnitRepository
	billingRepo   repository.BillingRepository
	auditSvc      *AuditService
}

func NewBookingService(
	repo repository.BookingRepository,
	costSheetRepo repository.CostSheetRepository,
	unitRepo repository.UnitRepository,
	billingRepo repository.BillingRepository,
	auditSvc *AuditService,
) *BookingService {
	return &BookingService{
		repo:          repo,
		costSheetRepo: costSheetRepo,
		unitRepo:      unitRepo,
		billingRepo:   billingRepo,
		auditSvc:      auditSvc,
	}
}

// CreateBookingInput carries the fields of a new draft booking
type CreateBookingInput struct {
	CostSheetID uint    `json:"cost_sheet_id" binding:"required"`
	PartyType   string  `json:"party_type" binding:"required"`
	PartyID     uint    `json:"party_id" binding:"required"`
	AdvancePaid float64 `json:"advance_paid"`
}

// FindByID gets a booking order with its schedule
func (s *BookingService) FindByID(ctx context.Context, id uint) (*models.BookingOrder, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *BookingService) List(ctx context.Context, query *repository.ListQuery) ([]models.BookingOrder, int64, error) {
	return s.repo.List(ctx, query)
}

// CreateFromCostSheet drafts a booking from a cost sheet. The sheet's totals
// and schedule are copied so later sheet edits never move an agreed price.
func (s *BookingService) CreateFromCostSheet(ctx context.Context, in CreateBookingInput, userID uint) (*models.BookingOrder, error) {
	sheet, err := s.costSheetRepo.FindByID(ctx, in.CostSheetID)
	if err != nil {
		return nil, err
	}

	if err := s.validateParty(ctx, in.PartyType, in.PartyID); err != nil {
		return nil, err
	}

	unit, err := s.unitRepo.FindByID(ctx, sheet.UnitID)
	if err != nil {
		return nil, err
	}
	if !unit.IsAvailable() {
		return nil, fmt.Errorf("%w: unit %s is %s", ErrUnitNotAvailable, unit.Name, unit.Status)
	}

	booking := &models.BookingOrder{
		GUID:        NewGUID(),
		CostSheetID: sheet.ID,
		UnitID:      sheet.UnitID,
		Status:      models.BookingStatusDraft,
		PartyType:   in.PartyType,
		PartyID:     in.PartyID,

		ProjectID:         sheet.ProjectID,
		BlockID:           sheet.BlockID,
		FloorNumber:       sheet.FloorNumber,
		SalableArea:       sheet.SalableArea,
		BasicPricePerSFT:  sheet.BasicPricePerSFT,
		FormulaVersion:    sheet.FormulaVersion,
		AOSValue:          sheet.AOSValue,
		AOSGST:            sheet.AOSGST,
		AOSValueGST:       sheet.AOSValueGST,
		NetPayable:        sheet.NetPayable,
		GrandTotalPayable: sheet.GrandTotalPayable,
		SchemeTemplateID:  sheet.SchemeTemplateID,

		AdvancePaid:    in.AdvancePaid,
		BalancePayable: pricing.Round2(sheet.GrandTotalPayable - in.AdvancePaid),
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, err
	}

	// Copy the sheet's schedule onto the booking
	rows := make([]models.PaymentScheduleRow, len(sheet.PaymentSchedule))
	copy(rows, sheet.PaymentSchedule)
	if err := s.repo.ReplaceSchedule(ctx, booking.ID, rows); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, userID, "CREATE", "BookingOrder", booking.ID,
		fmt.Sprintf("Draft booking for unit %s, balance %.2f", unit.Name, booking.BalancePayable), "", "")
	return s.repo.FindByID(ctx, booking.ID)
}

// Submit validates the draft and books the unit. The unit transition and the
// booking transition commit together.
func (s *BookingService) Submit(ctx context.Context, id uint, userID uint) (*models.BookingOrder, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	unit, err := s.unitRepo.FindByID(ctx, booking.UnitID)
	if err != nil {
		return nil, err
	}

	ufsm := statemachine.NewUnitFSM(unit)
	if err := ufsm.Book(ctx); err != nil {
		return nil, err
	}

	bfsm := statemachine.NewBookingFSM(booking)
	if err := bfsm.Submit(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	booking.SubmittedAt = &now
	booking.BalancePayable = pricing.Round2(booking.GrandTotalPayable - booking.AdvancePaid)

	if err := s.repo.SubmitWithUnit(ctx, booking, unit); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, userID, "SUBMIT", "BookingOrder", booking.ID,
		fmt.Sprintf("Booking submitted, unit %s booked", unit.Name), "", "")
	return booking, nil
}

// Cancel voids a submitted booking. The unit returns to available if this
// booking held it; a unit in any other state is left untouched.
func (s *BookingService) Cancel(ctx context.Context, id uint, userID uint) (*models.BookingOrder, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	bfsm := statemachine.NewBookingFSM(booking)
	if err := bfsm.Cancel(ctx); err != nil {
		return nil, err
	}

	unit, err := s.unitRepo.FindByID(ctx, booking.UnitID)
	if err != nil {
		return nil, err
	}

	var unitToSave *models.Unit
	if unit.MayRelease() {
		ufsm := statemachine.NewUnitFSM(unit)
		if err := ufsm.Release(ctx); err != nil {
			return nil, err
		}
		unitToSave = unit
	}

	now := time.Now()
	booking.CancelledAt = &now

	if err := s.repo.CancelWithUnit(ctx, booking, unitToSave); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, userID, "CANCEL", "BookingOrder", booking.ID,
		fmt.Sprintf("Booking cancelled, unit %s %s", unit.Name, unit.Status), "", "")
	return booking, nil
}

// validateParty checks the referenced billing party exists
func (s *BookingService) validateParty(ctx context.Context, partyType string, partyID uint) error {
	switch partyType {
	case models.PartyTypeCustomer:
		_, err := s.billingRepo.FindCustomerByID(ctx, partyID)
		return err
	case models.PartyTypeLead:
		_, err := s.billingRepo.FindLeadByID(ctx, partyID)
		return err
	case models.PartyTypeOpportunity:
		_, err := s.billingRepo.FindOpportunityByID(ctx, partyID)
		return err
	default:
		return fmt.Errorf("unknown party type %q", partyType)
	}
}
