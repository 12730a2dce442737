package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/realapp/realapp-api/internal/models"
	"github.com/realapp/realapp-api/internal/pricing"
	"github.com/realapp/realapp-api/internal/repository"
	"github.com/realapp/realapp-api/internal/statemachine"
	"github.com/xuri/excelize/v2"
)

// UnitService manages units and their price snapshots
type UnitService struct {
	repo        repository.UnitRepository
	projectRepo repository.ProjectRepository
	settingsSvc *SettingsService
	auditSvc    *AuditService
}

func NewUnitService(
	repo repository.UnitRepository,
	projectRepo repository.ProjectRepository,
	settingsSvc *SettingsService,
	auditSvc *AuditService,
) *UnitService {
	return &UnitService{
		repo:        repo,
		projectRepo: projectRepo,
		settingsSvc: settingsSvc,
		auditSvc:    auditSvc,
	}
}

// FindByID gets a unit by ID
func (s *UnitService) FindByID(ctx context.Context, id uint) (*models.Unit, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UnitService) List(ctx context.Context, query *repository.ListQuery) ([]models.Unit, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *UnitService) CountByStatus(ctx context.Context, projectID uint) (map[string]int64, error) {
	return s.repo.CountByStatus(ctx, projectID)
}

// Create resolves the hierarchy, defaults unset rates from Settings and
// computes the price snapshot before persisting.
func (s *UnitService) Create(ctx context.Context, unit *models.Unit, userID uint) error {
	if err := s.prepare(ctx, unit); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, unit); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, userID, "CREATE", "Unit", unit.ID,
		fmt.Sprintf("Unit %s created, net payable %.2f", unit.Name, unit.NetPayable), "", "")
	return nil
}

// Update re-resolves defaults and recomputes the snapshot. Editing any
// pricing input always refreshes every derived column.
func (s *UnitService) Update(ctx context.Context, unit *models.Unit, userID uint) error {
	if err := s.prepare(ctx, unit); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, unit); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, userID, "UPDATE", "Unit", unit.ID,
		fmt.Sprintf("Unit %s updated, net payable %.2f", unit.Name, unit.NetPayable), "", "")
	return nil
}

func (s *UnitService) Delete(ctx context.Context, id uint, userID uint) error {
	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !unit.IsAvailable() {
		return fmt.Errorf("unit %s cannot be deleted in status %s", unit.Name, unit.Status)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, userID, "DELETE", "Unit", id, fmt.Sprintf("Unit %s deleted", unit.Name), "", "")
	return nil
}

// Block takes an available unit off the market
func (s *UnitService) Block(ctx context.Context, id uint, userID uint) (*models.Unit, error) {
	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewUnitFSM(unit)
	if err := fsm.Block(ctx); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, unit); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, userID, "UPDATE", "Unit", unit.ID,
		fmt.Sprintf("Unit %s blocked", unit.Name), "", "")
	return unit, nil
}

// Unblock returns a blocked unit to the market
func (s *UnitService) Unblock(ctx context.Context, id uint, userID uint) (*models.Unit, error) {
	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewUnitFSM(unit)
	if err := fsm.Unblock(ctx); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, unit); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, userID, "UPDATE", "Unit", unit.ID,
		fmt.Sprintf("Unit %s unblocked", unit.Name), "", "")
	return unit, nil
}

// prepare resolves the floor hierarchy, applies Settings defaults to unset
// rate fields and recomputes the stored snapshot.
func (s *UnitService) prepare(ctx context.Context, unit *models.Unit) error {
	if unit.SalableArea < 0 {
		return errors.New("salable area cannot be negative")
	}

	floor, err := s.projectRepo.FindFloorByID(ctx, unit.FloorID)
	if err != nil {
		return fmt.Errorf("floor %d not found: %w", unit.FloorID, err)
	}
	block, err := s.projectRepo.FindBlockByID(ctx, floor.BlockID)
	if err != nil {
		return fmt.Errorf("block %d not found: %w", floor.BlockID, err)
	}

	unit.BlockID = block.ID
	unit.ProjectID = block.ProjectID
	unit.FloorNumber = floor.FloorNumber
	if unit.Status == "" {
		unit.Status = models.UnitStatusAvailable
	}

	rates, err := s.settingsSvc.RateCard(ctx)
	if err != nil {
		return err
	}

	applyRateDefaults(unit, rates)
	unit.GSTRate = rates.GSTRate
	unit.TDSRate = rates.TDSRate

	breakdown := pricing.Compute(pricing.StageUnit, unit.PricingInputs(), rates)
	unit.ApplySnapshot(breakdown)
	return nil
}

// applyRateDefaults fills unset (nil) rate fields from the rate card. An
// explicit zero is an entered value and stays zero.
func applyRateDefaults(unit *models.Unit, rates pricing.RateCard) {
	if unit.BasicPricePerSFT == nil {
		v := rates.BasicPricePerSFT
		unit.BasicPricePerSFT = &v
	}
	if unit.FloorRiseRate == nil {
		v := rates.FloorRiseRate
		unit.FloorRiseRate = &v
	}
	if unit.FacingPremiumCharges == nil {
		v := rates.FacingPremiumCharges
		unit.FacingPremiumCharges = &v
	}
	if unit.CornerPremiumCharges == nil {
		v := rates.CornerPremiumCharges
		unit.CornerPremiumCharges = &v
	}
	if unit.CarParkingAmount == nil {
		v := rates.CarParkingAmount
		unit.CarParkingAmount = &v
	}
	if unit.AmenitiesChargesPerSFT == nil {
		v := rates.AmenitiesChargesPerSF
		unit.AmenitiesChargesPerSFT = &v
	}
	if unit.InfraChargesPerSFT == nil {
		v := rates.InfraChargesPerSF
		unit.InfraChargesPerSFT = &v
	}
	if unit.DocumentationCharges == nil {
		v := rates.DocumentationCharges
		unit.DocumentationCharges = &v
	}
}

// ImportXLSX bulk-creates units from a spreadsheet. Expected columns:
// Name, Floor ID, Salable Area, Basic Price, Floor Rise, Facing Premium,
// Corner Premium, Car Parking, Amenities, Infra, Documentation. Empty rate
// cells default from Settings; explicit zeros are kept.
func (s *UnitService) ImportXLSX(ctx context.Context, r io.Reader, userID uint) (int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return 0, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, err
	}
	if len(rows) < 2 {
		return 0, errors.New("spreadsheet has no data rows")
	}

	var units []models.Unit
	for i, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		unit := models.Unit{Name: strings.TrimSpace(row[0])}

		floorID, err := parseCellUint(row, 1)
		if err != nil {
			return 0, fmt.Errorf("row %d: invalid floor id: %w", i+2, err)
		}
		unit.FloorID = floorID

		area, err := parseCellFloat(row, 2)
		if err != nil {
			return 0, fmt.Errorf("row %d: invalid salable area: %w", i+2, err)
		}
		if area != nil {
			unit.SalableArea = *area
		}

		unit.BasicPricePerSFT, _ = parseCellFloat(row, 3)
		unit.FloorRiseRate, _ = parseCellFloat(row, 4)
		unit.FacingPremiumCharges, _ = parseCellFloat(row, 5)
		unit.CornerPremiumCharges, _ = parseCellFloat(row, 6)
		unit.CarParkingAmount, _ = parseCellFloat(row, 7)
		unit.AmenitiesChargesPerSFT, _ = parseCellFloat(row, 8)
		unit.InfraChargesPerSFT, _ = parseCellFloat(row, 9)
		unit.DocumentationCharges, _ = parseCellFloat(row, 10)

		if err := s.prepare(ctx, &unit); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+2, err)
		}
		units = append(units, unit)
	}

	if err := s.repo.CreateBatch(ctx, units); err != nil {
		return 0, err
	}

	s.auditSvc.Log(ctx, userID, "CREATE", "Unit", 0,
		fmt.Sprintf("Imported %d units from spreadsheet", len(units)), "", "")
	return len(units), nil
}

func parseCellFloat(row []string, idx int) (*float64, error) {
	if idx >= len(row) || strings.TrimSpace(row[idx]) == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseCellUint(row []string, idx int) (uint, error) {
	if idx >= len(row) || strings.TrimSpace(row[idx]) == "" {
		return 0, errors.New("empty cell")
	}
	v, err := strconv.ParseUint(strings.TrimSpace(row[idx]), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

// NewGUID returns a fresh identifier for externally referenced records
func NewGUID() string {
	return uuid.NewString()
}
