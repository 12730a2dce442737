package models

import (
	"time"
)

// Collection status constants used by the collection report
const (
	CollectionFullyPaid     = "Fully Paid"
	CollectionPartiallyPaid = "Partially Paid"
	CollectionPending       = "Pending"
	CollectionOverdue       = "Overdue"
)

// CollectionRow represents one invoice line in the collection report
type CollectionRow struct {
	InvoiceID        uint       `json:"invoice_id"`
	InvoiceNo        string     `json:"invoice_no"`
	CustomerID       uint       `json:"customer_id"`
	CustomerName     string     `json:"customer_name"`
	ProjectID        *uint      `json:"project_id"`
	ProjectName      *string    `json:"project_name"`
	BlockID          *uint      `json:"block_id"`
	BlockName        *string    `json:"block_name"`
	UnitID           *uint      `json:"unit_id"`
	UnitName         *string    `json:"unit_name"`
	Milestone        *string    `json:"milestone"`
	PostingDate      time.Time  `json:"posting_date"`
	DueDate          *time.Time `json:"due_date"`
	InvoicedAmount   float64    `json:"invoiced_amount"`
	CollectedAmount  float64    `json:"collected_amount"`
	LastPaymentDate  *time.Time `json:"last_payment_date"`
	Outstanding      float64    `json:"outstanding"`
	CollectionStatus string     `json:"collection_status"`
	DaysOverdue      int        `json:"days_overdue"`
}

// CollectionSummary aggregates the report KPIs
type CollectionSummary struct {
	TotalInvoiced        float64 `json:"total_invoiced"`
	TotalCollected       float64 `json:"total_collected"`
	TotalOutstanding     float64 `json:"total_outstanding"`
	CollectionPercentage float64 `json:"collection_percentage"`
	InvoiceCount         int     `json:"invoice_count"`
	OverdueCount         int     `json:"overdue_count"`
	OverdueAmount        float64 `json:"overdue_amount"`
}

// CollectionReport is the full report payload
type CollectionReport struct {
	Summary CollectionSummary `json:"summary"`
	Rows    []CollectionRow   `json:"rows"`
}
