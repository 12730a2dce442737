package models

import (
	"time"
)

// Customer is the billing party invoices are raised against
type Customer struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CustomerName  string    `gorm:"not null" json:"customer_name"`
	CustomerType  string    `gorm:"default:Individual" json:"customer_type"`
	CustomerGroup string    `gorm:"default:All Customer Groups" json:"customer_group"`
	Territory     string    `gorm:"default:All Territories" json:"territory"`
	LeadID        *uint     `gorm:"index" json:"lead_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for Customer
func (Customer) TableName() string {
	return "customers"
}

// Lead is a prospective buyer. ConvertedCustomerID links to the customer a
// conversion created, making repeat conversions a no-op.
type Lead struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	LeadName            string    `gorm:"not null" json:"lead_name"`
	Email               *string   `json:"email"`
	Phone               *string   `json:"phone"`
	ConvertedCustomerID *uint     `gorm:"index" json:"converted_customer_id"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// TableName specifies the table name for Lead
func (Lead) TableName() string {
	return "leads"
}

// Opportunity is a qualified sales opportunity. CustomerID is set once the
// party has been converted.
type Opportunity struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PartyName  *string   `json:"party_name"`
	CustomerID *uint     `gorm:"index" json:"customer_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for Opportunity
func (Opportunity) TableName() string {
	return "opportunities"
}

// Company holds billing defaults used when invoice items have none of their own
type Company struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	Name                 string    `gorm:"not null;uniqueIndex" json:"name"`
	IsDefault            bool      `gorm:"default:false;index" json:"is_default"`
	DefaultIncomeAccount *string   `json:"default_income_account"`
	CostCenter           *string   `json:"cost_center"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TableName specifies the table name for Company
func (Company) TableName() string {
	return "companies"
}

// Item is a billable item a schedule milestone maps to
type Item struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ItemCode  string    `gorm:"not null;uniqueIndex" json:"item_code"`
	ItemName  string    `json:"item_name"`
	StockUOM  string    `gorm:"default:Nos" json:"stock_uom"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Defaults []ItemDefault `gorm:"foreignKey:ItemID" json:"defaults,omitempty"`
}

// TableName specifies the table name for Item
func (Item) TableName() string {
	return "items"
}

// ItemDefault carries the per-company accounting defaults for an item
type ItemDefault struct {
	ID                uint    `gorm:"primaryKey" json:"id"`
	ItemID            uint    `gorm:"not null;index" json:"item_id"`
	CompanyID         uint    `gorm:"not null;index" json:"company_id"`
	IncomeAccount     *string `json:"income_account"`
	ExpenseAccount    *string `json:"expense_account"`
	SellingCostCenter *string `json:"selling_cost_center"`
}

// TableName specifies the table name for ItemDefault
func (ItemDefault) TableName() string {
	return "item_defaults"
}

// Sales invoice status constants
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSubmitted = "submitted"
	InvoiceStatusCancelled = "cancelled"
)

// SalesInvoice is a draft billing document raised from booking order
// milestones. This logic only creates drafts; the billing subsystem owns the
// rest of the invoice lifecycle.
type SalesInvoice struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	InvoiceNo      string     `gorm:"uniqueIndex" json:"invoice_no"`
	CompanyID      uint       `gorm:"not null;index" json:"company_id"`
	CustomerID     uint       `gorm:"not null;index" json:"customer_id"`
	BookingOrderID *uint      `gorm:"index" json:"booking_order_id"`
	Status         string     `gorm:"default:draft;index" json:"status"`
	PostingDate    time.Time  `gorm:"type:date" json:"posting_date"`
	DueDate        *time.Time `gorm:"type:date" json:"due_date"`
	Total          float64    `gorm:"type:decimal(18,2)" json:"total"`
	RoundedTotal   float64    `gorm:"type:decimal(18,2)" json:"rounded_total"`

	// Booking context, denormalized for reporting
	UnitID    *uint `gorm:"index" json:"unit_id"`
	ProjectID *uint `gorm:"index" json:"project_id"`
	BlockID   *uint `gorm:"index" json:"block_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Customer Customer           `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []SalesInvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// TableName specifies the table name for SalesInvoice
func (SalesInvoice) TableName() string {
	return "sales_invoices"
}

// SalesInvoiceItem is one billed line of a sales invoice
type SalesInvoiceItem struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	InvoiceID     uint    `gorm:"not null;index" json:"invoice_id"`
	ItemCode      *string `json:"item_code"`
	ItemName      *string `json:"item_name"`
	MilestoneCode string  `gorm:"index" json:"milestone_code"`
	Description   string  `json:"description"`
	Qty           float64 `gorm:"default:1" json:"qty"`
	UOM           *string `json:"uom"`
	Rate          float64 `gorm:"type:decimal(18,2)" json:"rate"`
	Amount        float64 `gorm:"type:decimal(18,2)" json:"amount"`
	IncomeAccount *string `json:"income_account"`
	CostCenter    *string `json:"cost_center"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for SalesInvoiceItem
func (SalesInvoiceItem) TableName() string {
	return "sales_invoice_items"
}

// PaymentEntry is a received payment recorded by the billing subsystem.
// Read-only here; the collection report joins allocations against invoices.
type PaymentEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CustomerID  uint      `gorm:"not null;index" json:"customer_id"`
	PostingDate time.Time `gorm:"type:date" json:"posting_date"`
	PaidAmount  float64   `gorm:"type:decimal(18,2)" json:"paid_amount"`
	Remarks     *string   `gorm:"type:text" json:"remarks"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	References []PaymentEntryReference `gorm:"foreignKey:PaymentEntryID" json:"references,omitempty"`
}

// TableName specifies the table name for PaymentEntry
func (PaymentEntry) TableName() string {
	return "payment_entries"
}

// PaymentEntryReference allocates part of a payment entry to an invoice
type PaymentEntryReference struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	PaymentEntryID  uint    `gorm:"not null;index" json:"payment_entry_id"`
	InvoiceID       uint    `gorm:"not null;index" json:"invoice_id"`
	AllocatedAmount float64 `gorm:"type:decimal(18,2)" json:"allocated_amount"`
}

// TableName specifies the table name for PaymentEntryReference
func (PaymentEntryReference) TableName() string {
	return "payment_entry_references"
}
