package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/realapp/realapp-api/internal/models"
	"github.com/stretchr/testify/assert"
)

// Mock SettingsRepository
type mockSettingsRepository struct {
	mockGet func(ctx context.Context) (*models.Settings, error)
}

func (m *mockSettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	if m.mockGet != nil {
		return m.mockGet(ctx)
	}
	return &models.Settings{GSTRate: 5, TDSRate: 1}, nil
}
func (m *mockSettingsRepository) Update(ctx context.Context, settings *models.Settings) error {
	return nil
}

func testSettingsService() *SettingsService {
	repo := &mockSettingsRepository{}
	repo.mockGet = func(ctx context.Context) (*models.Settings, error) {
		return &models.Settings{
			GSTRate:                   5,
			TDSRate:                   1,
			MaintenanceRatePerSFT:     3,
			MaintenanceGSTRate:        18,
			CorpusFundRatePerSFT:      50,
			MoveInCharges:             10000,
			RefundableCautionDeposit:  25000,
			DefaultRegistrationCharge: 50000,
		}, nil
	}
	return NewSettingsService(repo, nil)
}

func quotableUnit() *models.Unit {
	base := 3000.0
	return &models.Unit{
		ID:               10,
		Name:             "A-101",
		Status:           models.UnitStatusAvailable,
		ProjectID:        1,
		BlockID:          2,
		FloorNumber:      1,
		SalableArea:      1000,
		BasicPricePerSFT: &base,
		ValueExcludingBP: 0,
	}
}

func newCostSheetServiceForTest(
	sheetRepo *mockCostSheetRepository,
	unitRepo *mockUnitRepository,
	schemeRepo *mockSchemeRepository,
	projectRepo *mockProjectRepository,
) *CostSheetService {
	return NewCostSheetService(sheetRepo, unitRepo, schemeRepo, projectRepo, testSettingsService(), nil, nil, nil)
}

func TestCostSheetCreate_StandardHeader(t *testing.T) {
	sheetRepo := &mockCostSheetRepository{}
	unitRepo := &mockUnitRepository{}

	service := newCostSheetServiceForTest(sheetRepo, unitRepo, &mockSchemeRepository{}, &mockProjectRepository{})

	unitRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Unit, error) {
		return quotableUnit(), nil
	}

	var created *models.CostSheet
	sheetRepo.mockCreate = func(ctx context.Context, sheet *models.CostSheet) error {
		sheet.ID = 5
		created = sheet
		return nil
	}
	sheetRepo.mockFindByID = func(ctx context.Context, id uint) (*models.CostSheet, error) {
		return created, nil
	}

	sheet, err := service.Create(context.Background(), CreateCostSheetInput{UnitID: 10}, 1)
	assert.NoError(t, err)

	assert.Equal(t, models.CostSheetTypeStandard, sheet.CostSheetType)
	assert.NotEmpty(t, sheet.GUID)
	assert.Equal(t, 3000.0, sheet.BasicPricePerSFT)

	assert.Equal(t, 3000000.0, sheet.AOSValue)
	assert.Equal(t, 150000.0, sheet.AOSGST)
	assert.Equal(t, 3150000.0, sheet.AOSValueGST)
	assert.Equal(t, 30000.0, sheet.TDSAmount)
	assert.Equal(t, 3120000.0, sheet.NetPayable)
	assert.Equal(t, 3120.0, sheet.EffectiveRatePerSFT)

	assert.Equal(t, 138540.0, sheet.BeforeRegistrationTotal)
	// TDS is withheld, not discounted: 3,150,000 + 138,540.
	assert.Equal(t, 3288540.0, sheet.GrandTotalPayable)
}

func TestCostSheetCreate_NegotiatedRate(t *testing.T) {
	sheetRepo := &mockCostSheetRepository{}
	unitRepo := &mockUnitRepository{}

	service := newCostSheetServiceForTest(sheetRepo, unitRepo, &mockSchemeRepository{}, &mockProjectRepository{})

	unit := quotableUnit()
	unit.ValueExcludingBP = 535000
	unitRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Unit, error) {
		return unit, nil
	}

	var created *models.CostSheet
	sheetRepo.mockCreate = func(ctx context.Context, sheet *models.CostSheet) error {
		sheet.ID = 5
		created = sheet
		return nil
	}
	sheetRepo.mockFindByID = func(ctx context.Context, id uint) (*models.CostSheet, error) {
		return created, nil
	}

	negotiated := 2800.0
	sheet, err := service.Create(context.Background(), CreateCostSheetInput{
		UnitID:         10,
		NegotiatedRate: &negotiated,
	}, 1)
	assert.NoError(t, err)

	assert.Equal(t, models.CostSheetTypeNegotiated, sheet.CostSheetType)
	assert.Equal(t, 2800.0, sheet.BasicPricePerSFT)

	// The override only moves the base component, the unit's premiums ride along.
	assert.Equal(t, 535000.0, sheet.ValueExcludingBP)
	assert.Equal(t, 3335000.0, sheet.AOSValue)
}

func TestCostSheetCreate_StandardIgnoresNegotiatedRate(t *testing.T) {
	sheetRepo := &mockCostSheetRepository{}
	unitRepo := &mockUnitRepository{}

	service := newCostSheetServiceForTest(sheetRepo, unitRepo, &mockSchemeRepository{}, &mockProjectRepository{})

	unitRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Unit, error) {
		return quotableUnit(), nil
	}

	var created *models.CostSheet
	sheetRepo.mockCreate = func(ctx context.Context, sheet *models.CostSheet) error {
		sheet.ID = 5
		created = sheet
		return nil
	}
	sheetRepo.mockFindByID = func(ctx context.Context, id uint) (*models.CostSheet, error) {
		return created, nil
	}

	negotiated := 2800.0
	sheet, err := service.Create(context.Background(), CreateCostSheetInput{
		UnitID:         10,
		CostSheetType:  models.CostSheetTypeStandard,
		NegotiatedRate: &negotiated,
	}, 1)
	assert.NoError(t, err)

	// Asking for Standard pins the unit's rate, the negotiated rate is dropped.
	assert.Equal(t, models.CostSheetTypeStandard, sheet.CostSheetType)
	assert.Equal(t, 3000.0, sheet.BasicPricePerSFT)
	assert.Equal(t, 3000000.0, sheet.AOSValue)
}

func TestCostSheetCreate_UnitNotAvailable(t *testing.T) {
	sheetRepo := &mockCostSheetRepository{}
	unitRepo := &mockUnitRepository{}

	service := newCostSheetServiceForTest(sheetRepo, unitRepo, &mockSchemeRepository{}, &mockProjectRepository{})

	unitRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Unit, error) {
		unit := quotableUnit()
		unit.Status = models.UnitStatusBooked
		return unit, nil
	}
	sheetRepo.mockCreate = func(ctx context.Context, sheet *models.CostSheet) error {
		t.Fatal("no sheet should be created for an unavailable unit")
		return nil
	}

	_, err := service.Create(context.Background(), CreateCostSheetInput{UnitID: 10}, 1)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnitNotAvailable))
}

func TestCostSheetCreate_WithScheme(t *testing.T) {
	sheetRepo := &mockCostSheetRepository{}
	unitRepo := &mockUnitRepository{}
	schemeRepo := &mockSchemeRepository{}
	projectRepo := &mockProjectRepository{}

	service := newCostSheetServiceForTest(sheetRepo, unitRepo, schemeRepo, projectRepo)

	unitRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Unit, error) {
		return quotableUnit(), nil
	}

	schemeID := uint(3)
	schemeRepo.mockFindByID = func(ctx context.Context, id uint) (*models.PaymentSchemeTemplate, error) {
		return &models.PaymentSchemeTemplate{
			ID:         schemeID,
			SchemeName: "CLP 20:80",
			Details: []models.PaymentSchemeDetail{
				{SchemeCode: "BOOKING", Milestone: "On Booking", Percentage: 20},
				{SchemeCode: "POSSESSION", Milestone: "On Possession", Percentage: 80},
			},
		}, nil
	}

	possession := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	projectRepo.mockFindBlockByID = func(ctx context.Context, id uint) (*models.Block, error) {
		return &models.Block{
			ID: id,
			TowerMilestones: []models.TowerMilestone{
				{SchemeCode: "POSSESSION", MilestoneDate: &possession},
			},
		}, nil
	}

	var created *models.CostSheet
	sheetRepo.mockCreate = func(ctx context.Context, sheet *models.CostSheet) error {
		sheet.ID = 5
		created = sheet
		return nil
	}
	sheetRepo.mockFindByID = func(ctx context.Context, id uint) (*models.CostSheet, error) {
		return created, nil
	}

	var schedule []models.PaymentScheduleRow
	sheetRepo.mockReplaceSchedule = func(ctx context.Context, sheetID uint, rows []models.PaymentScheduleRow) error {
		assert.Equal(t, uint(5), sheetID)
		schedule = rows
		return nil
	}

	_, err := service.Create(context.Background(), CreateCostSheetInput{
		UnitID:           10,
		SchemeTemplateID: &schemeID,
	}, 1)
	assert.NoError(t, err)
	assert.Len(t, schedule, 2)

	// 20% and 80% of the 3,000,000 AOS value.
	assert.Equal(t, 600000.0, schedule[0].Amount)
	assert.Equal(t, 30000.0, schedule[0].GSTAmount)
	assert.Equal(t, 6000.0, schedule[0].TDSAmount)
	assert.Equal(t, 624000.0, schedule[0].NetPayable)
	assert.Equal(t, 2400000.0, schedule[1].Amount)

	assert.Equal(t, 0, schedule[0].Idx)
	assert.Equal(t, 1, schedule[1].Idx)

	assert.Nil(t, schedule[0].MilestoneDate)
	assert.Equal(t, &possession, schedule[1].MilestoneDate)
}

func TestCostSheetApplyScheme_InvalidTemplate(t *testing.T) {
	sheetRepo := &mockCostSheetRepository{}
	schemeRepo := &mockSchemeRepository{}

	service := newCostSheetServiceForTest(sheetRepo, &mockUnitRepository{}, schemeRepo, &mockProjectRepository{})

	schemeRepo.mockFindByID = func(ctx context.Context, id uint) (*models.PaymentSchemeTemplate, error) {
		return &models.PaymentSchemeTemplate{
			SchemeName: "Broken",
			Details: []models.PaymentSchemeDetail{
				{SchemeCode: "M1", Percentage: 60},
				{SchemeCode: "M2", Percentage: 60},
			},
		}, nil
	}
	sheetRepo.mockReplaceSchedule = func(ctx context.Context, sheetID uint, rows []models.PaymentScheduleRow) error {
		t.Fatal("an invalid template must not touch the schedule")
		return nil
	}

	err := service.ApplyScheme(context.Background(), &models.CostSheet{ID: 5, AOSValue: 3000000}, 3)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidScheme))
}

func TestCostSheetPreview_DoesNotPersist(t *testing.T) {
	sheetRepo := &mockCostSheetRepository{}
	unitRepo := &mockUnitRepository{}

	service := newCostSheetServiceForTest(sheetRepo, unitRepo, &mockSchemeRepository{}, &mockProjectRepository{})

	unitRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Unit, error) {
		return quotableUnit(), nil
	}
	sheetRepo.mockCreate = func(ctx context.Context, sheet *models.CostSheet) error {
		t.Fatal("preview must not persist anything")
		return nil
	}

	negotiated := 3100.0
	preview, err := service.Preview(context.Background(), CreateCostSheetInput{
		UnitID:         10,
		NegotiatedRate: &negotiated,
	})
	assert.NoError(t, err)

	assert.Equal(t, 3100000.0, preview.Header.AOSValue)
	assert.Equal(t, 3255000.0, preview.Header.AOSValueGST)
	assert.Equal(t, 138540.0, preview.BeforeRegistration.Total)
	assert.Equal(t, 3393540.0, preview.GrandTotalPayable)
	assert.Empty(t, preview.Schedule)
}
