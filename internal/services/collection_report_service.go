package services

import (
	"context"
	"time"

	"github.com/realapp/realapp-api/internal/models"
	"github.com/realapp/realapp-api/internal/pricing"
	"github.com/realapp/realapp-api/internal/repository"
)

// CollectionReportService builds the dues and collections report. Read only.
type CollectionReportService struct {
	repo repository.CollectionRepository
}

func NewCollectionReportService(repo repository.CollectionRepository) *CollectionReportService {
	return &CollectionReportService{repo: repo}
}

// Generate fetches the filtered invoice rows, classifies each line and
// aggregates the summary KPIs.
func (s *CollectionReportService) Generate(ctx context.Context, filter repository.CollectionFilter) (*models.CollectionReport, error) {
	rows, err := s.repo.FetchRows(ctx, filter)
	if err != nil {
		return nil, err
	}

	today := time.Now().Truncate(24 * time.Hour)
	report := &models.CollectionReport{Rows: rows}

	for i := range rows {
		row := &rows[i]
		row.Outstanding = pricing.Round2(row.InvoicedAmount - row.CollectedAmount)
		row.CollectionStatus = classify(row, today)
		if row.CollectionStatus == models.CollectionOverdue && row.DueDate != nil {
			row.DaysOverdue = int(today.Sub(row.DueDate.Truncate(24*time.Hour)).Hours() / 24)
		}

		report.Summary.InvoiceCount++
		report.Summary.TotalInvoiced += row.InvoicedAmount
		report.Summary.TotalCollected += row.CollectedAmount
		report.Summary.TotalOutstanding += row.Outstanding
		if row.CollectionStatus == models.CollectionOverdue {
			report.Summary.OverdueCount++
			report.Summary.OverdueAmount += row.Outstanding
		}
	}

	report.Summary.TotalInvoiced = pricing.Round2(report.Summary.TotalInvoiced)
	report.Summary.TotalCollected = pricing.Round2(report.Summary.TotalCollected)
	report.Summary.TotalOutstanding = pricing.Round2(report.Summary.TotalOutstanding)
	report.Summary.OverdueAmount = pricing.Round2(report.Summary.OverdueAmount)
	if report.Summary.TotalInvoiced > 0 {
		report.Summary.CollectionPercentage = pricing.Round2(report.Summary.TotalCollected / report.Summary.TotalInvoiced * 100)
	}
	report.Rows = rows
	return report, nil
}

// classify maps a line to its collection status. A line with no payment at
// all stays Pending even past its due date.
func classify(row *models.CollectionRow, today time.Time) string {
	switch {
	case row.Outstanding <= 0:
		return models.CollectionFullyPaid
	case row.CollectedAmount == 0:
		return models.CollectionPending
	case row.DueDate != nil && row.DueDate.Before(today):
		return models.CollectionOverdue
	default:
		return models.CollectionPartiallyPaid
	}
}
