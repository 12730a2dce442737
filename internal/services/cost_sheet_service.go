package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/realapp/realapp-api/internal/jobs"
	"github.com/realapp/realapp-api/internal/models"
	"github.com/realapp/realapp-api/internal/pricing"
	"github.com/realapp/realapp-api/internal/repository"
	"github.com/realapp/realapp-api/internal/storage"
	"github.com/realapp/realapp-api/pkg/logger"
)

// CostSheetService builds cost sheets from unit snapshots
type CostSheetService struct {
	repo        repository.CostSheetRepository
	unitRepo    repository.UnitRepository
	schemeRepo  repository.SchemeRepository
	projectRepo repository.ProjectRepository
	settingsSvc *SettingsService
	auditSvc    *AuditService
	storage     *storage.LocalStorage
	worker      *jobs.Worker
}

func NewCostSheetService(
	repo repository.CostSheetRepository,
	unitRepo repository.UnitRepository,
	schemeRepo repository.SchemeRepository,
	projectRepo repository.ProjectRepository,
	settingsSvc *SettingsService,
	auditSvc *AuditService,
	store *storage.LocalStorage,
	worker *jobs.Worker,
) *CostSheetService {
	return &CostSheetService{
		repo:        repo,
		unitRepo:    unitRepo,
		schemeRepo:  schemeRepo,
		projectRepo: projectRepo,
		settingsSvc: settingsSvc,
		auditSvc:    auditSvc,
		storage:     store,
		worker:      worker,
	}
}

// CreateCostSheetInput carries the user-entered fields of a new cost sheet
type CreateCostSheetInput struct {
	UnitID           uint     `json:"unit_id" binding:"required"`
	CostSheetType    string   `json:"cost_sheet_type"`
	PartyName        *string  `json:"party_name"`
	NegotiatedRate   *float64 `json:"negotiated_rate"`
	SchemeTemplateID *uint    `json:"payment_scheme_template_id"`
}

// FindByID gets a cost sheet with its schedule
func (s *CostSheetService) FindByID(ctx context.Context, id uint) (*models.CostSheet, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CostSheetService) List(ctx context.Context, query *repository.ListQuery) ([]models.CostSheet, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *CostSheetService) Delete(ctx context.Context, id uint, userID uint) error {
	sheet, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	// Best effort, the record is already gone
	if s.storage != nil && sheet.QuotationFile != nil {
		if err := s.storage.Delete(*sheet.QuotationFile); err != nil && !os.IsNotExist(err) {
			logger.Warn(fmt.Sprintf("[CostSheet] failed to remove archived quotation %s: %v", *sheet.QuotationFile, err))
		}
	}
	s.auditSvc.Log(ctx, userID, "DELETE", "CostSheet", id, "Cost sheet deleted", "", "")
	return nil
}

// Create quotes an available unit. A negotiated rate replaces the unit's
// basic price in the header; everything above the base price comes from the
// unit's stored snapshot, so a negotiated sheet reuses the unit's premiums
// as-is.
func (s *CostSheetService) Create(ctx context.Context, in CreateCostSheetInput, userID uint) (*models.CostSheet, error) {
	unit, err := s.unitRepo.FindByID(ctx, in.UnitID)
	if err != nil {
		return nil, err
	}
	if !unit.IsAvailable() {
		return nil, fmt.Errorf("%w: unit %s is %s", ErrUnitNotAvailable, unit.Name, unit.Status)
	}

	sheet, err := s.build(ctx, unit, in)
	if err != nil {
		return nil, err
	}
	sheet.GUID = NewGUID()

	if err := s.repo.Create(ctx, sheet); err != nil {
		return nil, err
	}

	if sheet.SchemeTemplateID != nil {
		if err := s.ApplyScheme(ctx, sheet, *sheet.SchemeTemplateID); err != nil {
			return nil, err
		}
	}

	s.auditSvc.Log(ctx, userID, "CREATE", "CostSheet", sheet.ID,
		fmt.Sprintf("Cost sheet for unit %s, grand total %.2f", unit.Name, sheet.GrandTotalPayable), "", "")
	return s.repo.FindByID(ctx, sheet.ID)
}

// Update recomputes the sheet from its unit and the new inputs, and
// repopulates the schedule when a template is attached.
func (s *CostSheetService) Update(ctx context.Context, id uint, in CreateCostSheetInput, userID uint) (*models.CostSheet, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	unit, err := s.unitRepo.FindByID(ctx, existing.UnitID)
	if err != nil {
		return nil, err
	}

	in.UnitID = existing.UnitID
	rebuilt, err := s.build(ctx, unit, in)
	if err != nil {
		return nil, err
	}

	rebuilt.ID = existing.ID
	rebuilt.GUID = existing.GUID
	rebuilt.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, rebuilt); err != nil {
		return nil, err
	}

	if rebuilt.SchemeTemplateID != nil {
		if err := s.ApplyScheme(ctx, rebuilt, *rebuilt.SchemeTemplateID); err != nil {
			return nil, err
		}
	} else if err := s.repo.ReplaceSchedule(ctx, rebuilt.ID, nil); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, userID, "UPDATE", "CostSheet", rebuilt.ID,
		fmt.Sprintf("Cost sheet recomputed, grand total %.2f", rebuilt.GrandTotalPayable), "", "")
	return s.repo.FindByID(ctx, rebuilt.ID)
}

// build computes the full sheet without persisting it
func (s *CostSheetService) build(ctx context.Context, unit *models.Unit, in CreateCostSheetInput) (*models.CostSheet, error) {
	rates, err := s.settingsSvc.RateCard(ctx)
	if err != nil {
		return nil, err
	}

	sheetType := in.CostSheetType
	baseRate := unitBaseRate(unit)
	// A sheet explicitly requested as Standard stays on the unit's rate
	// even when a negotiated rate is sent along.
	if in.NegotiatedRate != nil && sheetType != models.CostSheetTypeStandard {
		baseRate = *in.NegotiatedRate
		sheetType = models.CostSheetTypeNegotiated
	}
	if sheetType == "" {
		sheetType = models.CostSheetTypeStandard
	}

	// Header from the unit's stored value-excluding-base-price; the
	// negotiated rate only moves the base component.
	b := pricing.ComputeHeader(pricing.StageCostSheet, unit.SalableArea, baseRate, unit.ValueExcludingBP, rates)
	br := pricing.ComputeBeforeRegistration(unit.SalableArea, rates)

	sheet := &models.CostSheet{
		UnitID:        unit.ID,
		CostSheetType: sheetType,
		PartyName:     in.PartyName,

		ProjectID:   unit.ProjectID,
		BlockID:     unit.BlockID,
		FloorNumber: unit.FloorNumber,
		SalableArea: unit.SalableArea,

		BasicPricePerSFT: baseRate,
		SchemeTemplateID: in.SchemeTemplateID,

		FormulaVersion:      int(b.FormulaVersion),
		ValueExcludingBP:    b.ValueExcludingBP,
		FullUnitValue:       b.FullUnitValue,
		AOSValue:            b.AOSValue,
		AOSGST:              b.AOSGST,
		AOSValueGST:         b.AOSValueGST,
		TDSAmount:           b.TDSAmount,
		NetPayable:          b.NetPayable,
		EffectiveRatePerSFT: b.EffectiveRatePSFT,

		MaintenanceCharges:       br.MaintenanceCharges,
		MaintenanceGST:           br.MaintenanceGST,
		CorpusFund:               br.CorpusFund,
		MoveInCharges:            br.MoveInCharges,
		RefundableCautionDeposit: br.RefundableCautionDeposit,
		RegistrationCharges:      br.RegistrationCharges,
		BeforeRegistrationTotal:  br.Total,
	}
	// TDS is withheld by the buyer, so the grand total keeps the full
	// GST-inclusive agreement value.
	sheet.GrandTotalPayable = pricing.Round2(b.AOSValueGST + br.Total)
	return sheet, nil
}

// ApplyScheme populates the sheet's payment schedule from a template.
// Existing rows are replaced, so applying the same template twice leaves one
// schedule. Milestone dates come from the sheet's block.
func (s *CostSheetService) ApplyScheme(ctx context.Context, sheet *models.CostSheet, templateID uint) error {
	templ, err := s.schemeRepo.FindByID(ctx, templateID)
	if err != nil {
		return err
	}
	if err := templ.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScheme, err)
	}

	rates, err := s.settingsSvc.RateCard(ctx)
	if err != nil {
		return err
	}

	var milestoneDates map[string]*time.Time
	if block, err := s.projectRepo.FindBlockByID(ctx, sheet.BlockID); err == nil {
		milestoneDates = block.MilestoneDates()
	}

	rows := buildScheduleRows(templ.Details, sheet.AOSValue, rates, milestoneDates)
	if err := s.repo.ReplaceSchedule(ctx, sheet.ID, rows); err != nil {
		return err
	}

	sheet.SchemeTemplateID = &templateID
	return s.repo.Update(ctx, sheet)
}

// buildScheduleRows amortizes the AOS value over the template milestones
func buildScheduleRows(details []models.PaymentSchemeDetail, aosValue float64, rates pricing.RateCard, milestoneDates map[string]*time.Time) []models.PaymentScheduleRow {
	rows := make([]models.PaymentScheduleRow, 0, len(details))
	for i, d := range details {
		amount, gst, tds, net := pricing.AmortizeRow(aosValue, d.Percentage, rates)
		row := models.PaymentScheduleRow{
			SchemeCode:    d.SchemeCode,
			Milestone:     d.Milestone,
			Particulars:   d.Particulars,
			MilestoneItem: d.MilestoneItem,
			Percentage:    d.Percentage,
			Idx:           i,
			Amount:        amount,
			GSTAmount:     gst,
			TDSAmount:     tds,
			NetPayable:    net,
		}
		if milestoneDates != nil {
			row.MilestoneDate = milestoneDates[d.SchemeCode]
		}
		rows = append(rows, row)
	}
	return rows
}

// CostSheetPreview is the stateless calculator result
type CostSheetPreview struct {
	Header             pricing.Breakdown           `json:"header"`
	BeforeRegistration pricing.BeforeRegistration  `json:"before_registration"`
	GrandTotalPayable  float64                     `json:"grand_total_payable"`
	Schedule           []models.PaymentScheduleRow `json:"schedule,omitempty"`
}

// Preview computes a cost sheet without persisting anything. Quoting tools
// call this while the user drags the negotiated rate around.
func (s *CostSheetService) Preview(ctx context.Context, in CreateCostSheetInput) (*CostSheetPreview, error) {
	unit, err := s.unitRepo.FindByID(ctx, in.UnitID)
	if err != nil {
		return nil, err
	}

	rates, err := s.settingsSvc.RateCard(ctx)
	if err != nil {
		return nil, err
	}

	baseRate := unitBaseRate(unit)
	if in.NegotiatedRate != nil && in.CostSheetType != models.CostSheetTypeStandard {
		baseRate = *in.NegotiatedRate
	}

	header := pricing.ComputeHeader(pricing.StageCostSheet, unit.SalableArea, baseRate, unit.ValueExcludingBP, rates)
	br := pricing.ComputeBeforeRegistration(unit.SalableArea, rates)

	preview := &CostSheetPreview{
		Header:             header,
		BeforeRegistration: br,
		GrandTotalPayable:  pricing.Round2(header.AOSValueGST + br.Total),
	}

	if in.SchemeTemplateID != nil {
		templ, err := s.schemeRepo.FindByID(ctx, *in.SchemeTemplateID)
		if err != nil {
			return nil, err
		}
		var milestoneDates map[string]*time.Time
		if block, err := s.projectRepo.FindBlockByID(ctx, unit.BlockID); err == nil {
			milestoneDates = block.MilestoneDates()
		}
		preview.Schedule = buildScheduleRows(templ.Details, header.AOSValue, rates, milestoneDates)
	}

	return preview, nil
}

// QuotationDownload streams the last archived quotation PDF for a cost sheet.
func (s *CostSheetService) QuotationDownload(ctx context.Context, id uint) (io.ReadCloser, int64, string, error) {
	sheet, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, 0, "", err
	}
	if s.storage == nil || sheet.QuotationFile == nil || !s.storage.Exists(*sheet.QuotationFile) {
		return nil, 0, "", ErrNotFound
	}

	size, err := s.storage.GetSize(*sheet.QuotationFile)
	if err != nil {
		return nil, 0, "", err
	}
	f, err := s.storage.Download(*sheet.QuotationFile)
	if err != nil {
		return nil, 0, "", err
	}
	return f, size, fmt.Sprintf("cost_sheet_%s.pdf", sheet.GUID), nil
}

func unitBaseRate(unit *models.Unit) float64 {
	if unit.BasicPricePerSFT != nil {
		return *unit.BasicPricePerSFT
	}
	return 0
}

// QuotationPDF renders the cost sheet as a printable quotation
func (s *CostSheetService) QuotationPDF(ctx context.Context, id uint) (*bytes.Buffer, error) {
	sheet, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	type scheduleLine struct {
		Milestone  string
		Percentage string
		Amount     string
		GST        string
		TDS        string
		Net        string
		Date       string
	}

	lines := make([]scheduleLine, 0, len(sheet.PaymentSchedule))
	for _, row := range sheet.PaymentSchedule {
		line := scheduleLine{
			Milestone:  row.Milestone,
			Percentage: fmt.Sprintf("%.2f%%", row.Percentage),
			Amount:     fmt.Sprintf("%.2f", row.Amount),
			GST:        fmt.Sprintf("%.2f", row.GSTAmount),
			TDS:        fmt.Sprintf("%.2f", row.TDSAmount),
			Net:        fmt.Sprintf("%.2f", row.NetPayable),
		}
		if row.MilestoneDate != nil {
			line.Date = row.MilestoneDate.Format("02/01/2006")
		}
		lines = append(lines, line)
	}

	partyName := ""
	if sheet.PartyName != nil {
		partyName = *sheet.PartyName
	}

	data := map[string]interface{}{
		"UnitName":            sheet.Unit.Name,
		"PartyName":           partyName,
		"CostSheetType":       sheet.CostSheetType,
		"SalableArea":         fmt.Sprintf("%.2f", sheet.SalableArea),
		"BasicPricePerSFT":    fmt.Sprintf("%.2f", sheet.BasicPricePerSFT),
		"AOSValue":            fmt.Sprintf("%.2f", sheet.AOSValue),
		"AOSGST":              fmt.Sprintf("%.2f", sheet.AOSGST),
		"AOSValueGST":         fmt.Sprintf("%.2f", sheet.AOSValueGST),
		"TDSAmount":           fmt.Sprintf("%.2f", sheet.TDSAmount),
		"NetPayable":          fmt.Sprintf("%.2f", sheet.NetPayable),
		"EffectiveRatePerSFT": fmt.Sprintf("%.2f", sheet.EffectiveRatePerSFT),
		"Maintenance":         fmt.Sprintf("%.2f", sheet.MaintenanceCharges),
		"MaintenanceGST":      fmt.Sprintf("%.2f", sheet.MaintenanceGST),
		"CorpusFund":          fmt.Sprintf("%.2f", sheet.CorpusFund),
		"MoveInCharges":       fmt.Sprintf("%.2f", sheet.MoveInCharges),
		"CautionDeposit":      fmt.Sprintf("%.2f", sheet.RefundableCautionDeposit),
		"Registration":        fmt.Sprintf("%.2f", sheet.RegistrationCharges),
		"BeforeRegTotal":      fmt.Sprintf("%.2f", sheet.BeforeRegistrationTotal),
		"GrandTotal":          fmt.Sprintf("%.2f", sheet.GrandTotalPayable),
		"Schedule":            lines,
		"Date":                time.Now().Format("02/01/2006"),
	}

	buf, err := generatePDF("cost_sheet_quotation.html", data)
	if err != nil {
		return nil, err
	}

	// Keep a copy of every quotation handed out. The archive write happens
	// off the request path when a worker is attached.
	if s.storage != nil {
		filename := fmt.Sprintf("cost_sheet_%s_%s.pdf", sheet.GUID, time.Now().Format("20060102_150405"))
		pdfCopy := make([]byte, buf.Len())
		copy(pdfCopy, buf.Bytes())
		archive := func(jobCtx context.Context) error {
			path, err := s.storage.UploadFromBytes(pdfCopy, filename, "quotations")
			if err != nil {
				return fmt.Errorf("failed to archive quotation %s: %w", sheet.GUID, err)
			}
			return s.repo.SetQuotationFile(jobCtx, sheet.ID, path)
		}
		if s.worker != nil {
			s.worker.Enqueue(archive)
		} else if err := archive(ctx); err != nil {
			return nil, err
		}
	}

	return buf, nil
}

// generatePDF renders an HTML template and converts it with wkhtmltopdf
func generatePDF(templateName string, data interface{}) (*bytes.Buffer, error) {
	tmplPath := fmt.Sprintf("internal/services/templates/%s", templateName)
	if _, err := os.Stat(tmplPath); os.IsNotExist(err) {
		tmplPath = fmt.Sprintf("templates/%s", templateName)
	}

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(buf.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}

	return pdfg.Buffer(), nil
}
