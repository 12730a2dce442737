package models

import (
	"time"
)

// Booking order status constants
const (
	BookingStatusDraft     = "draft"
	BookingStatusSubmitted = "submitted"
	BookingStatusCancelled = "cancelled"
)

// Billing party types
const (
	PartyTypeCustomer    = "Customer"
	PartyTypeLead        = "Lead"
	PartyTypeOpportunity = "Opportunity"
)

// BookingOrder is a binding commitment created from a cost sheet. The cost
// sheet's computed totals and payment schedule are copied onto it so the
// agreed price survives later cost sheet edits. Submitting books the unit,
// cancelling releases it.
type BookingOrder struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	GUID        string `gorm:"uniqueIndex" json:"guid"`
	CostSheetID uint   `gorm:"not null;index" json:"cost_sheet_id"`
	UnitID      uint   `gorm:"not null;index" json:"unit_id"`

	Status string `gorm:"default:draft;index" json:"status"`

	PartyType string `gorm:"not null" json:"party_type"`
	PartyID   uint   `gorm:"not null" json:"party_id"`

	// Snapshot mirrored from the cost sheet at validation
	ProjectID           uint    `gorm:"index" json:"project_id"`
	BlockID             uint    `gorm:"index" json:"block_id"`
	FloorNumber         int     `json:"floor_number"`
	SalableArea         float64 `gorm:"type:decimal(12,2)" json:"salable_area"`
	BasicPricePerSFT    float64 `gorm:"type:decimal(15,2)" json:"basic_price_per_sft"`
	FormulaVersion      int     `gorm:"default:3" json:"formula_version"`
	AOSValue            float64 `gorm:"type:decimal(18,2)" json:"aos_value"`
	AOSGST              float64 `gorm:"type:decimal(18,2)" json:"aos_gst"`
	AOSValueGST         float64 `gorm:"type:decimal(18,2)" json:"aos_value_gst"`
	NetPayable          float64 `gorm:"type:decimal(18,2)" json:"net_payable"`
	GrandTotalPayable   float64 `gorm:"type:decimal(18,2)" json:"grand_total_payable"`
	SchemeTemplateID    *uint   `gorm:"index" json:"payment_scheme_template_id"`

	AdvancePaid    float64 `gorm:"type:decimal(18,2)" json:"advance_paid"`
	BalancePayable float64 `gorm:"type:decimal(18,2)" json:"balance_payable"`

	SubmittedAt *time.Time `json:"submitted_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Associations
	CostSheet       CostSheet            `gorm:"foreignKey:CostSheetID" json:"cost_sheet,omitempty"`
	Unit            Unit                 `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	PaymentSchedule []PaymentScheduleRow `gorm:"foreignKey:BookingOrderID" json:"payment_schedule,omitempty"`
}

// TableName specifies the table name for BookingOrder
func (BookingOrder) TableName() string {
	return "booking_orders"
}

// MaySubmit returns true if the booking order can be submitted
func (bo *BookingOrder) MaySubmit() bool {
	return bo.Status == BookingStatusDraft
}

// MayCancel returns true if the booking order can be cancelled
func (bo *BookingOrder) MayCancel() bool {
	return bo.Status == BookingStatusSubmitted
}

// BookingOrderResponse is the JSON response format for booking orders
type BookingOrderResponse struct {
	ID                uint                 `json:"id"`
	GUID              string               `json:"guid"`
	CostSheetID       uint                 `json:"cost_sheet_id"`
	UnitID            uint                 `json:"unit_id"`
	UnitName          string               `json:"unit_name"`
	UnitStatus        string               `json:"unit_status"`
	Status            string               `json:"status"`
	PartyType         string               `json:"party_type"`
	PartyID           uint                 `json:"party_id"`
	SalableArea       float64              `json:"salable_area"`
	BasicPricePerSFT  float64              `json:"basic_price_per_sft"`
	AOSValue          float64              `json:"aos_value"`
	AOSValueGST       float64              `json:"aos_value_gst"`
	NetPayable        float64              `json:"net_payable"`
	GrandTotalPayable float64              `json:"grand_total_payable"`
	AdvancePaid       float64              `json:"advance_paid"`
	BalancePayable    float64              `json:"balance_payable"`
	SubmittedAt       *time.Time           `json:"submitted_at"`
	PaymentSchedule   []PaymentScheduleRow `json:"payment_schedule"`
	CreatedAt         time.Time            `json:"created_at"`
}

// ToResponse converts BookingOrder to BookingOrderResponse
func (bo *BookingOrder) ToResponse() BookingOrderResponse {
	return BookingOrderResponse{
		ID:                bo.ID,
		GUID:              bo.GUID,
		CostSheetID:       bo.CostSheetID,
		UnitID:            bo.UnitID,
		UnitName:          bo.Unit.Name,
		UnitStatus:        bo.Unit.Status,
		Status:            bo.Status,
		PartyType:         bo.PartyType,
		PartyID:           bo.PartyID,
		SalableArea:       bo.SalableArea,
		BasicPricePerSFT:  bo.BasicPricePerSFT,
		AOSValue:          bo.AOSValue,
		AOSValueGST:       bo.AOSValueGST,
		NetPayable:        bo.NetPayable,
		GrandTotalPayable: bo.GrandTotalPayable,
		AdvancePaid:       bo.AdvancePaid,
		BalancePayable:    bo.BalancePayable,
		SubmittedAt:       bo.SubmittedAt,
		PaymentSchedule:   bo.PaymentSchedule,
		CreatedAt:         bo.CreatedAt,
	}
}
