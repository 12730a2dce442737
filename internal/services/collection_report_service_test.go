package services

import (
	"context"
	"testing"
	"time"

	"github.com/realapp/realapp-api/internal/models"
	"github.com/realapp/realapp-api/internal/repository"
	"github.com/stretchr/testify/assert"
)

// Mock CollectionRepository
type mockCollectionRepository struct {
	mockFetchRows func(ctx context.Context, filter repository.CollectionFilter) ([]models.CollectionRow, error)
}

func (m *mockCollectionRepository) FetchRows(ctx context.Context, filter repository.CollectionFilter) ([]models.CollectionRow, error) {
	if m.mockFetchRows != nil {
		return m.mockFetchRows(ctx, filter)
	}
	return nil, nil
}

func TestCollectionReport_Classification(t *testing.T) {
	past := time.Now().AddDate(0, 0, -10)
	future := time.Now().AddDate(0, 0, 30)

	repo := &mockCollectionRepository{}
	repo.mockFetchRows = func(ctx context.Context, filter repository.CollectionFilter) ([]models.CollectionRow, error) {
		return []models.CollectionRow{
			{InvoiceNo: "SINV-00001", InvoicedAmount: 100000, CollectedAmount: 100000, DueDate: &past},
			{InvoiceNo: "SINV-00002", InvoicedAmount: 100000, CollectedAmount: 0, DueDate: &future},
			{InvoiceNo: "SINV-00003", InvoicedAmount: 100000, CollectedAmount: 40000, DueDate: &past},
			{InvoiceNo: "SINV-00004", InvoicedAmount: 100000, CollectedAmount: 40000, DueDate: &future},
			// No payment at all stays Pending even past the due date.
			{InvoiceNo: "SINV-00005", InvoicedAmount: 100000, CollectedAmount: 0, DueDate: &past},
			// No due date at all can never be Overdue.
			{InvoiceNo: "SINV-00006", InvoicedAmount: 100000, CollectedAmount: 40000},
		}, nil
	}

	service := NewCollectionReportService(repo)

	report, err := service.Generate(context.Background(), repository.CollectionFilter{})
	assert.NoError(t, err)
	assert.Len(t, report.Rows, 6)

	assert.Equal(t, models.CollectionFullyPaid, report.Rows[0].CollectionStatus)
	assert.Equal(t, models.CollectionPending, report.Rows[1].CollectionStatus)
	assert.Equal(t, models.CollectionOverdue, report.Rows[2].CollectionStatus)
	assert.Equal(t, models.CollectionPartiallyPaid, report.Rows[3].CollectionStatus)
	assert.Equal(t, models.CollectionPending, report.Rows[4].CollectionStatus)
	assert.Equal(t, models.CollectionPartiallyPaid, report.Rows[5].CollectionStatus)

	// Days overdue only applies to overdue lines.
	assert.Equal(t, 10, report.Rows[2].DaysOverdue)
	assert.Equal(t, 0, report.Rows[4].DaysOverdue)
}

func TestCollectionReport_Summary(t *testing.T) {
	past := time.Now().AddDate(0, 0, -5)

	repo := &mockCollectionRepository{}
	repo.mockFetchRows = func(ctx context.Context, filter repository.CollectionFilter) ([]models.CollectionRow, error) {
		return []models.CollectionRow{
			{InvoicedAmount: 200000, CollectedAmount: 200000},
			{InvoicedAmount: 300000, CollectedAmount: 100000, DueDate: &past},
			{InvoicedAmount: 500000, CollectedAmount: 0},
		}, nil
	}

	service := NewCollectionReportService(repo)

	report, err := service.Generate(context.Background(), repository.CollectionFilter{})
	assert.NoError(t, err)

	assert.Equal(t, 3, report.Summary.InvoiceCount)
	assert.Equal(t, 1, report.Summary.OverdueCount)
	assert.Equal(t, 1000000.0, report.Summary.TotalInvoiced)
	assert.Equal(t, 300000.0, report.Summary.TotalCollected)
	assert.Equal(t, 700000.0, report.Summary.TotalOutstanding)
	assert.Equal(t, 30.0, report.Summary.CollectionPercentage)
	// Only the overdue line's outstanding feeds the overdue KPI.
	assert.Equal(t, 200000.0, report.Summary.OverdueAmount)
}

func TestCollectionReport_CarriesMilestoneAndLastPayment(t *testing.T) {
	milestone := "POSSESSION"
	paid := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	repo := &mockCollectionRepository{}
	repo.mockFetchRows = func(ctx context.Context, filter repository.CollectionFilter) ([]models.CollectionRow, error) {
		return []models.CollectionRow{
			{InvoiceNo: "SINV-00007", InvoicedAmount: 100000, CollectedAmount: 40000, Milestone: &milestone, LastPaymentDate: &paid},
		}, nil
	}

	service := NewCollectionReportService(repo)

	report, err := service.Generate(context.Background(), repository.CollectionFilter{})
	assert.NoError(t, err)
	assert.Equal(t, &milestone, report.Rows[0].Milestone)
	assert.Equal(t, &paid, report.Rows[0].LastPaymentDate)
}

func TestCollectionReport_OverpaymentIsFullyPaid(t *testing.T) {
	repo := &mockCollectionRepository{}
	repo.mockFetchRows = func(ctx context.Context, filter repository.CollectionFilter) ([]models.CollectionRow, error) {
		return []models.CollectionRow{
			{InvoicedAmount: 100000, CollectedAmount: 100500},
		}, nil
	}

	service := NewCollectionReportService(repo)

	report, err := service.Generate(context.Background(), repository.CollectionFilter{})
	assert.NoError(t, err)
	assert.Equal(t, models.CollectionFullyPaid, report.Rows[0].CollectionStatus)
	assert.Equal(t, -500.0, report.Rows[0].Outstanding)
}

func TestCollectionReport_Empty(t *testing.T) {
	service := NewCollectionReportService(&mockCollectionRepository{})

	report, err := service.Generate(context.Background(), repository.CollectionFilter{})
	assert.NoError(t, err)
	assert.Empty(t, report.Rows)
	assert.Equal(t, 0.0, report.Summary.CollectionPercentage)
}
