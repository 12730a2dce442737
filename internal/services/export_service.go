package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/realapp/realapp-api/internal/models"
	"github.com/xuri/excelize/v2"
)

// ExportService renders a generated collection report as CSV, XLSX or PDF
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func (s *ExportService) ExportCSV(ctx context.Context, report *models.CollectionReport) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	// Header
	_ = writer.Write([]string{"Collection Report", time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})

	// Summary Section
	_ = writer.Write([]string{"Summary"})
	_ = writer.Write([]string{"Metric", "Value"})
	_ = writer.Write([]string{"Total Invoiced", fmt.Sprintf("%.2f", report.Summary.TotalInvoiced)})
	_ = writer.Write([]string{"Total Collected", fmt.Sprintf("%.2f", report.Summary.TotalCollected)})
	_ = writer.Write([]string{"Total Outstanding", fmt.Sprintf("%.2f", report.Summary.TotalOutstanding)})
	_ = writer.Write([]string{"Collection %", fmt.Sprintf("%.2f%%", report.Summary.CollectionPercentage)})
	_ = writer.Write([]string{"Invoices", fmt.Sprintf("%d", report.Summary.InvoiceCount)})
	_ = writer.Write([]string{"Overdue", fmt.Sprintf("%d", report.Summary.OverdueCount)})
	_ = writer.Write([]string{"Overdue Amount", fmt.Sprintf("%.2f", report.Summary.OverdueAmount)})
	_ = writer.Write([]string{""})

	// Detail Section
	_ = writer.Write([]string{"Invoice No", "Customer", "Project", "Block", "Unit", "Milestone", "Posting Date", "Due Date", "Invoiced", "Collected", "Last Payment", "Outstanding", "Status"})
	for _, row := range report.Rows {
		_ = writer.Write([]string{
			row.InvoiceNo,
			row.CustomerName,
			deref(row.ProjectName),
			deref(row.BlockName),
			deref(row.UnitName),
			deref(row.Milestone),
			row.PostingDate.Format("2006-01-02"),
			formatDate(row.DueDate),
			fmt.Sprintf("%.2f", row.InvoicedAmount),
			fmt.Sprintf("%.2f", row.CollectedAmount),
			formatDate(row.LastPaymentDate),
			fmt.Sprintf("%.2f", row.Outstanding),
			row.CollectionStatus,
		})
	}

	writer.Flush()

	filename := fmt.Sprintf("collection_report_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *ExportService) ExportXLSX(ctx context.Context, report *models.CollectionReport) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Collections"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Collection Report")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	_ = f.SetCellValue(sheet, "A3", "Summary")
	_ = f.SetCellValue(sheet, "A4", "Total Invoiced")
	_ = f.SetCellValue(sheet, "B4", report.Summary.TotalInvoiced)
	_ = f.SetCellValue(sheet, "A5", "Total Collected")
	_ = f.SetCellValue(sheet, "B5", report.Summary.TotalCollected)
	_ = f.SetCellValue(sheet, "A6", "Total Outstanding")
	_ = f.SetCellValue(sheet, "B6", report.Summary.TotalOutstanding)
	_ = f.SetCellValue(sheet, "A7", "Collection %")
	_ = f.SetCellValue(sheet, "B7", fmt.Sprintf("%.2f%%", report.Summary.CollectionPercentage))
	_ = f.SetCellValue(sheet, "A8", "Invoices")
	_ = f.SetCellValue(sheet, "B8", report.Summary.InvoiceCount)
	_ = f.SetCellValue(sheet, "A9", "Overdue")
	_ = f.SetCellValue(sheet, "B9", report.Summary.OverdueCount)
	_ = f.SetCellValue(sheet, "A10", "Overdue Amount")
	_ = f.SetCellValue(sheet, "B10", report.Summary.OverdueAmount)

	headers := []string{"Invoice No", "Customer", "Project", "Block", "Unit", "Milestone", "Posting Date", "Due Date", "Invoiced", "Collected", "Last Payment", "Outstanding", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 12)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range report.Rows {
		values := []interface{}{
			row.InvoiceNo,
			row.CustomerName,
			deref(row.ProjectName),
			deref(row.BlockName),
			deref(row.UnitName),
			deref(row.Milestone),
			row.PostingDate.Format("2006-01-02"),
			formatDate(row.DueDate),
			row.InvoicedAmount,
			row.CollectedAmount,
			formatDate(row.LastPaymentDate),
			row.Outstanding,
			row.CollectionStatus,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, 13+i)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("collection_report_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *ExportService) ExportPDF(ctx context.Context, report *models.CollectionReport) ([]byte, string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(60, 10, "Collection Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(60, 10, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 8, "Total Invoiced:")
	pdf.Cell(40, 8, fmt.Sprintf("%.2f", report.Summary.TotalInvoiced))
	pdf.Ln(6)
	pdf.Cell(60, 8, "Total Collected:")
	pdf.Cell(40, 8, fmt.Sprintf("%.2f", report.Summary.TotalCollected))
	pdf.Ln(6)
	pdf.Cell(60, 8, "Total Outstanding:")
	pdf.Cell(40, 8, fmt.Sprintf("%.2f", report.Summary.TotalOutstanding))
	pdf.Ln(6)
	pdf.Cell(60, 8, "Collection:")
	pdf.Cell(40, 8, fmt.Sprintf("%.2f%%", report.Summary.CollectionPercentage))
	pdf.Ln(6)
	pdf.Cell(60, 8, "Overdue Amount:")
	pdf.Cell(40, 8, fmt.Sprintf("%.2f", report.Summary.OverdueAmount))
	pdf.Ln(10)

	// Detail table
	pdf.SetFont("Arial", "B", 9)
	widths := []float64{30, 45, 35, 25, 25, 24, 24, 26, 26, 26}
	headers := []string{"Invoice No", "Customer", "Project", "Block", "Unit", "Posting", "Due", "Invoiced", "Collected", "Status"}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range report.Rows {
		cells := []string{
			row.InvoiceNo,
			row.CustomerName,
			deref(row.ProjectName),
			deref(row.BlockName),
			deref(row.UnitName),
			row.PostingDate.Format("2006-01-02"),
			formatDate(row.DueDate),
			fmt.Sprintf("%.2f", row.InvoicedAmount),
			fmt.Sprintf("%.2f", row.CollectedAmount),
			row.CollectionStatus,
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("collection_report_%s.pdf", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
