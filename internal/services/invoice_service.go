package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/realapp/realapp-api/internal/config"
	"github.com/realapp/realapp-api/internal/models"
	"github.com/realapp/realapp-api/internal/pricing"
	"github.com/realapp/realapp-api/internal/repository"
	"gorm.io/gorm"
)

// InvoiceService raises draft sales invoices from booking order milestones
type InvoiceService struct {
	repo        repository.BillingRepository
	bookingRepo repository.BookingRepository
	auditSvc    *AuditService
	batching    string
}

func NewInvoiceService(
	repo repository.BillingRepository,
	bookingRepo repository.BookingRepository,
	auditSvc *AuditService,
	cfg *config.Config,
) *InvoiceService {
	batching := cfg.InvoiceBatching
	if batching == "" {
		batching = config.InvoiceBatchingCollapsed
	}
	return &InvoiceService{
		repo:        repo,
		bookingRepo: bookingRepo,
		auditSvc:    auditSvc,
		batching:    batching,
	}
}

// CreateInvoicesInput selects the schedule rows to bill
type CreateInvoicesInput struct {
	RowIDs []uint `json:"row_ids" binding:"required,min=1"`
}

func (s *InvoiceService) FindByID(ctx context.Context, id uint) (*models.SalesInvoice, error) {
	return s.repo.FindInvoiceByID(ctx, id)
}

func (s *InvoiceService) FindByBooking(ctx context.Context, bookingID uint) ([]models.SalesInvoice, error) {
	return s.repo.FindInvoicesByBooking(ctx, bookingID)
}

func (s *InvoiceService) List(ctx context.Context, query *repository.ListQuery) ([]models.SalesInvoice, int64, error) {
	return s.repo.ListInvoices(ctx, query)
}

// CreateFromBooking raises draft invoices for the selected schedule rows of a
// submitted booking. Depending on the batching policy the rows collapse into
// one multi-line invoice or fan out one invoice per milestone. The whole
// batch commits in a single transaction.
func (s *InvoiceService) CreateFromBooking(ctx context.Context, bookingID uint, in CreateInvoicesInput, userID uint) ([]*models.SalesInvoice, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusSubmitted {
		return nil, fmt.Errorf("%w: booking %d is %s, only submitted bookings can be invoiced", ErrInvalidState, booking.ID, booking.Status)
	}

	rows := selectScheduleRows(booking.PaymentSchedule, in.RowIDs)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no matching schedule rows selected", ErrInvalidState)
	}

	customer, err := s.ResolveParty(ctx, booking.PartyType, booking.PartyID)
	if err != nil {
		return nil, err
	}

	company, err := s.repo.FindDefaultCompany(ctx)
	if err != nil {
		return nil, err
	}

	var invoices []*models.SalesInvoice
	switch s.batching {
	case config.InvoiceBatchingPerMilestone:
		for _, row := range rows {
			inv, err := s.buildInvoice(ctx, booking, customer, company, []models.PaymentScheduleRow{row})
			if err != nil {
				return nil, err
			}
			invoices = append(invoices, inv)
		}
	default:
		inv, err := s.buildInvoice(ctx, booking, customer, company, rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}

	if err := s.repo.CreateInvoiceBatch(ctx, invoices); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, userID, "CREATE", "SalesInvoice", booking.ID,
		fmt.Sprintf("%d draft invoice(s) raised for booking %s", len(invoices), booking.GUID), "", "")
	return invoices, nil
}

// buildInvoice assembles one draft invoice from the given milestone rows.
// The earliest milestone date becomes the due date.
func (s *InvoiceService) buildInvoice(ctx context.Context, booking *models.BookingOrder, customer *models.Customer, company *models.Company, rows []models.PaymentScheduleRow) (*models.SalesInvoice, error) {
	seq, err := s.repo.NextInvoiceSequence(ctx)
	if err != nil {
		return nil, err
	}

	inv := &models.SalesInvoice{
		InvoiceNo:      fmt.Sprintf("SINV-%05d", seq),
		CompanyID:      company.ID,
		CustomerID:     customer.ID,
		BookingOrderID: &booking.ID,
		Status:         models.InvoiceStatusDraft,
		PostingDate:    time.Now(),
		UnitID:         &booking.UnitID,
		ProjectID:      &booking.ProjectID,
		BlockID:        &booking.BlockID,
	}

	var total float64
	for _, row := range rows {
		item, err := s.itemDefaults(ctx, row.MilestoneItem, company)
		if err != nil {
			return nil, err
		}

		description := row.Milestone
		if description == "" && row.Particulars != nil {
			description = *row.Particulars
		}

		line := models.SalesInvoiceItem{
			ItemCode:      row.MilestoneItem,
			ItemName:      item.itemName,
			MilestoneCode: row.SchemeCode,
			Description:   description,
			Qty:           1,
			UOM:           item.uom,
			Rate:          row.Amount,
			Amount:        row.Amount,
			IncomeAccount: item.incomeAccount,
			CostCenter:    item.costCenter,
		}
		inv.Items = append(inv.Items, line)
		total += row.Amount

		if inv.DueDate == nil || (row.MilestoneDate != nil && row.MilestoneDate.Before(*inv.DueDate)) {
			inv.DueDate = row.MilestoneDate
		}
	}

	inv.Total = pricing.Round2(total)
	inv.RoundedTotal = pricing.RoundNearest(total)
	return inv, nil
}

// ResolveParty returns the customer record to bill. A customer party is used
// directly; leads and opportunities are converted on demand, and a prior
// conversion link short-circuits so repeat calls never duplicate the customer.
func (s *InvoiceService) ResolveParty(ctx context.Context, partyType string, partyID uint) (*models.Customer, error) {
	switch partyType {
	case models.PartyTypeCustomer:
		return s.repo.FindCustomerByID(ctx, partyID)

	case models.PartyTypeLead:
		lead, err := s.repo.FindLeadByID(ctx, partyID)
		if err != nil {
			return nil, err
		}
		if lead.ConvertedCustomerID != nil {
			return s.repo.FindCustomerByID(ctx, *lead.ConvertedCustomerID)
		}
		customer := &models.Customer{
			CustomerName:  lead.LeadName,
			CustomerType:  "Individual",
			CustomerGroup: "All Customer Groups",
			Territory:     "All Territories",
		}
		if err := s.repo.ConvertLead(ctx, lead, customer); err != nil {
			return nil, err
		}
		return customer, nil

	case models.PartyTypeOpportunity:
		opp, err := s.repo.FindOpportunityByID(ctx, partyID)
		if err != nil {
			return nil, err
		}
		if opp.CustomerID != nil {
			return s.repo.FindCustomerByID(ctx, *opp.CustomerID)
		}
		name := fmt.Sprintf("Opportunity %d", opp.ID)
		if opp.PartyName != nil && *opp.PartyName != "" {
			name = *opp.PartyName
		}
		customer := &models.Customer{
			CustomerName:  name,
			CustomerType:  "Individual",
			CustomerGroup: "All Customer Groups",
			Territory:     "All Territories",
		}
		if err := s.repo.ConvertOpportunity(ctx, opp, customer); err != nil {
			return nil, err
		}
		return customer, nil

	default:
		return nil, fmt.Errorf("unknown party type %q", partyType)
	}
}

// resolvedItem carries the billing defaults for one invoice line
type resolvedItem struct {
	itemName      *string
	uom           *string
	incomeAccount *string
	costCenter    *string
}

// itemDefaults resolves item-level defaults with company fallback
func (s *InvoiceService) itemDefaults(ctx context.Context, itemCode *string, company *models.Company) (resolvedItem, error) {
	out := resolvedItem{
		incomeAccount: company.DefaultIncomeAccount,
		costCenter:    company.CostCenter,
	}
	if itemCode == nil || *itemCode == "" {
		return out, nil
	}

	item, err := s.repo.FindItemByCode(ctx, *itemCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A dangling item code on a schedule row is tolerable, the
			// company fallback still applies.
			return out, nil
		}
		return out, err
	}

	if item.ItemName != "" {
		out.itemName = &item.ItemName
	}
	if item.StockUOM != "" {
		out.uom = &item.StockUOM
	}
	for _, d := range item.Defaults {
		if d.CompanyID != company.ID {
			continue
		}
		if d.IncomeAccount != nil {
			out.incomeAccount = d.IncomeAccount
		}
		if d.SellingCostCenter != nil {
			out.costCenter = d.SellingCostCenter
		}
	}
	return out, nil
}

// selectScheduleRows filters schedule rows by ID, keeping schedule order
func selectScheduleRows(schedule []models.PaymentScheduleRow, ids []uint) []models.PaymentScheduleRow {
	want := make(map[uint]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.PaymentScheduleRow
	for _, row := range schedule {
		if want[row.ID] {
			out = append(out, row)
		}
	}
	return out
}
