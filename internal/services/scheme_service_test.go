package services

import (
	"context"
	"testing"
	"time"

	"github.com/realapp/realapp-api/internal/models"
	"github.com/realapp/realapp-api/internal/repository"
	"github.com/stretchr/testify/assert"
)

// Mock SchemeRepository
type mockSchemeRepository struct {
	mockFindByID func(ctx context.Context, id uint) (*models.PaymentSchemeTemplate, error)
	mockCreate   func(ctx context.Context, template *models.PaymentSchemeTemplate) error
	mockUpdate   func(ctx context.Context, template *models.PaymentSchemeTemplate) error
}

func (m *mockSchemeRepository) FindByID(ctx context.Context, id uint) (*models.PaymentSchemeTemplate, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}
func (m *mockSchemeRepository) FindByName(ctx context.Context, name string) (*models.PaymentSchemeTemplate, error) {
	return nil, nil
}
func (m *mockSchemeRepository) Create(ctx context.Context, template *models.PaymentSchemeTemplate) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, template)
	}
	return nil
}
func (m *mockSchemeRepository) Update(ctx context.Context, template *models.PaymentSchemeTemplate) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, template)
	}
	return nil
}
func (m *mockSchemeRepository) Delete(ctx context.Context, id uint) error { return nil }
func (m *mockSchemeRepository) List(ctx context.Context, query *repository.ListQuery) ([]models.PaymentSchemeTemplate, int64, error) {
	return nil, 0, nil
}

// Mock ProjectRepository (using embedding to avoid implementing all methods)
type mockProjectRepository struct {
	repository.ProjectRepository
	mockFindBlockByID func(ctx context.Context, id uint) (*models.Block, error)
	mockFindFloorByID func(ctx context.Context, id uint) (*models.Floor, error)
}

func (m *mockProjectRepository) FindBlockByID(ctx context.Context, id uint) (*models.Block, error) {
	if m.mockFindBlockByID != nil {
		return m.mockFindBlockByID(ctx, id)
	}
	return nil, nil
}
func (m *mockProjectRepository) FindFloorByID(ctx context.Context, id uint) (*models.Floor, error) {
	if m.mockFindFloorByID != nil {
		return m.mockFindFloorByID(ctx, id)
	}
	return nil, nil
}

func schemeTemplate(name string, rows ...models.PaymentSchemeDetail) *models.PaymentSchemeTemplate {
	return &models.PaymentSchemeTemplate{SchemeName: name, Details: rows}
}

func TestSchemeCreate_Valid(t *testing.T) {
	repo := &mockSchemeRepository{}
	service := NewSchemeService(repo, &mockProjectRepository{}, nil)

	created := false
	repo.mockCreate = func(ctx context.Context, template *models.PaymentSchemeTemplate) error {
		created = true
		// Row order must be pinned through idx before persisting.
		for i, d := range template.Details {
			assert.Equal(t, i, d.Idx)
		}
		return nil
	}

	template := schemeTemplate("CLP 20:80",
		models.PaymentSchemeDetail{SchemeCode: "BOOKING", Percentage: 20},
		models.PaymentSchemeDetail{SchemeCode: "POSSESSION", Percentage: 80},
	)

	err := service.Create(context.Background(), template, 1)
	assert.NoError(t, err)
	assert.True(t, created)
}

func TestSchemeCreate_ExactlyHundredPercent(t *testing.T) {
	service := NewSchemeService(&mockSchemeRepository{}, &mockProjectRepository{}, nil)

	template := schemeTemplate("Even Split",
		models.PaymentSchemeDetail{SchemeCode: "M1", Percentage: 50},
		models.PaymentSchemeDetail{SchemeCode: "M2", Percentage: 50},
	)

	err := service.Create(context.Background(), template, 1)
	assert.NoError(t, err)
}

func TestSchemeCreate_DuplicateCodeRejected(t *testing.T) {
	repo := &mockSchemeRepository{}
	service := NewSchemeService(repo, &mockProjectRepository{}, nil)

	repo.mockCreate = func(ctx context.Context, template *models.PaymentSchemeTemplate) error {
		t.Fatal("Create should not reach the repository on validation failure")
		return nil
	}

	template := schemeTemplate("Broken",
		models.PaymentSchemeDetail{SchemeCode: "BOOKING", Percentage: 10},
		models.PaymentSchemeDetail{SchemeCode: "BOOKING", Percentage: 10},
	)

	err := service.Create(context.Background(), template, 1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate code BOOKING")
}

func TestSchemeCreate_OverHundredPercentRejected(t *testing.T) {
	service := NewSchemeService(&mockSchemeRepository{}, &mockProjectRepository{}, nil)

	template := schemeTemplate("Overweight",
		models.PaymentSchemeDetail{SchemeCode: "M1", Percentage: 50},
		models.PaymentSchemeDetail{SchemeCode: "M2", Percentage: 50.01},
	)

	err := service.Create(context.Background(), template, 1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 100%")
}

func TestSchemeRows_MergesBlockMilestoneDates(t *testing.T) {
	repo := &mockSchemeRepository{}
	projectRepo := &mockProjectRepository{}
	service := NewSchemeService(repo, projectRepo, nil)

	repo.mockFindByID = func(ctx context.Context, id uint) (*models.PaymentSchemeTemplate, error) {
		return schemeTemplate("CLP",
			models.PaymentSchemeDetail{SchemeCode: "BOOKING", Milestone: "On Booking", Percentage: 20},
			models.PaymentSchemeDetail{SchemeCode: "SLAB_5", Milestone: "5th Slab", Percentage: 30},
			models.PaymentSchemeDetail{SchemeCode: "POSSESSION", Milestone: "On Possession", Percentage: 50},
		), nil
	}

	slabDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	projectRepo.mockFindBlockByID = func(ctx context.Context, id uint) (*models.Block, error) {
		return &models.Block{
			ID: id,
			TowerMilestones: []models.TowerMilestone{
				{SchemeCode: "SLAB_5", MilestoneDate: &slabDate},
			},
		}, nil
	}

	rows, err := service.SchemeRows(context.Background(), 1, 7)
	assert.NoError(t, err)
	assert.Len(t, rows, 3)

	// Template order is preserved.
	assert.Equal(t, "BOOKING", rows[0].SchemeCode)
	assert.Equal(t, "SLAB_5", rows[1].SchemeCode)
	assert.Equal(t, "POSSESSION", rows[2].SchemeCode)

	// Codes without a block milestone come back dateless.
	assert.Nil(t, rows[0].MilestoneDate)
	assert.Equal(t, &slabDate, rows[1].MilestoneDate)
	assert.Nil(t, rows[2].MilestoneDate)
}
