package services

import (
	"context"
	"errors"
	"testing"

	"github.com/realapp/realapp-api/internal/models"
	"github.com/realapp/realapp-api/internal/statemachine"
	"github.com/stretchr/testify/assert"
)

func unitSettingsService() *SettingsService {
	repo := &mockSettingsRepository{}
	repo.mockGet = func(ctx context.Context) (*models.Settings, error) {
		return &models.Settings{
			GSTRate:              5,
			TDSRate:              1,
			BasicPricePerSFT:     3000,
			FloorRiseRate:        25,
			FacingPremiumCharges: 100,
		}, nil
	}
	return NewSettingsService(repo, nil)
}

func unitProjectRepo() *mockProjectRepository {
	repo := &mockProjectRepository{}
	repo.mockFindBlockByID = func(ctx context.Context, id uint) (*models.Block, error) {
		return &models.Block{ID: id, ProjectID: 1}, nil
	}
	repo.mockFindFloorByID = func(ctx context.Context, id uint) (*models.Floor, error) {
		return &models.Floor{ID: id, BlockID: 2, FloorNumber: 4}, nil
	}
	return repo
}

func TestUnitCreate_DefaultsUnsetRates(t *testing.T) {
	unitRepo := &mockUnitRepository{}
	service := NewUnitService(unitRepo, unitProjectRepo(), unitSettingsService(), nil)

	var created *models.Unit
	unitRepo.mockCreate = func(ctx context.Context, unit *models.Unit) error {
		created = unit
		return nil
	}

	unit := &models.Unit{Name: "A-401", FloorID: 9, SalableArea: 1000}

	err := service.Create(context.Background(), unit, 1)
	assert.NoError(t, err)
	assert.NotNil(t, created)

	// Hierarchy resolved from the floor.
	assert.Equal(t, uint(2), created.BlockID)
	assert.Equal(t, uint(1), created.ProjectID)
	assert.Equal(t, 4, created.FloorNumber)
	assert.Equal(t, models.UnitStatusAvailable, created.Status)

	// Unset rates defaulted from settings.
	assert.Equal(t, 3000.0, *created.BasicPricePerSFT)
	assert.Equal(t, 25.0, *created.FloorRiseRate)
	assert.Equal(t, 100.0, *created.FacingPremiumCharges)

	// base 3,000,000 + rise 25,000 + facing 100,000
	assert.Equal(t, 3125000.0, created.AOSValue)
	assert.Equal(t, 125000.0, created.ValueExcludingBP)
	assert.Equal(t, 5.0, created.GSTRate)
}

func TestUnitCreate_ExplicitZeroKept(t *testing.T) {
	unitRepo := &mockUnitRepository{}
	service := NewUnitService(unitRepo, unitProjectRepo(), unitSettingsService(), nil)

	zero := 0.0
	unit := &models.Unit{
		Name:                 "A-402",
		FloorID:              9,
		SalableArea:          1000,
		FacingPremiumCharges: &zero,
	}

	err := service.Create(context.Background(), unit, 1)
	assert.NoError(t, err)

	// An entered zero is not re-defaulted from settings.
	assert.Equal(t, 0.0, *unit.FacingPremiumCharges)
	assert.Equal(t, 0.0, unit.FacingPremiumAmount)
	assert.Equal(t, 3025000.0, unit.AOSValue)
}

func TestUnitCreate_NegativeArea(t *testing.T) {
	service := NewUnitService(&mockUnitRepository{}, unitProjectRepo(), unitSettingsService(), nil)

	unit := &models.Unit{Name: "A-403", FloorID: 9, SalableArea: -10}

	err := service.Create(context.Background(), unit, 1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "salable area cannot be negative")
}

func TestUnitDelete_OnlyAvailable(t *testing.T) {
	unitRepo := &mockUnitRepository{}
	service := NewUnitService(unitRepo, unitProjectRepo(), unitSettingsService(), nil)

	unitRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Unit, error) {
		return &models.Unit{ID: id, Name: "A-101", Status: models.UnitStatusBooked}, nil
	}

	err := service.Delete(context.Background(), 10, 1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be deleted")
}

func TestUnitBlockUnblock(t *testing.T) {
	unitRepo := &mockUnitRepository{}
	service := NewUnitService(unitRepo, unitProjectRepo(), unitSettingsService(), nil)

	state := models.UnitStatusAvailable
	unitRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Unit, error) {
		return &models.Unit{ID: id, Name: "A-101", Status: state}, nil
	}
	unitRepo.mockUpdate = func(ctx context.Context, unit *models.Unit) error {
		state = unit.Status
		return nil
	}

	unit, err := service.Block(context.Background(), 10, 1)
	assert.NoError(t, err)
	assert.Equal(t, models.UnitStatusBlocked, unit.Status)

	unit, err = service.Unblock(context.Background(), 10, 1)
	assert.NoError(t, err)
	assert.Equal(t, models.UnitStatusAvailable, unit.Status)

	// Blocking a booked unit is rejected.
	state = models.UnitStatusBooked
	_, err = service.Block(context.Background(), 10, 1)
	assert.Error(t, err)

	var terr *statemachine.TransitionError
	assert.True(t, errors.As(err, &terr))
}
