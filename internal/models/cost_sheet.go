package models

import (
	"time"
)

// Cost sheet pricing modes
const (
	CostSheetTypeStandard   = "Standard"
	CostSheetTypeNegotiated = "Negotiated"
)

// CostSheet is a proposed, non-binding price quotation for a unit. It
// snapshots the unit's identifiers and computed values at validation time
// and owns the amortized payment schedule.
type CostSheet struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	GUID   string `gorm:"uniqueIndex" json:"guid"`
	UnitID uint   `gorm:"not null;index" json:"unit_id"`

	CostSheetType string  `gorm:"default:Standard" json:"cost_sheet_type"`
	PartyName     *string `json:"party_name"`

	// Identifiers mirrored from the unit
	ProjectID   uint    `gorm:"index" json:"project_id"`
	BlockID     uint    `gorm:"index" json:"block_id"`
	FloorNumber int     `json:"floor_number"`
	SalableArea float64 `gorm:"type:decimal(12,2)" json:"salable_area"`

	// Negotiated mode accepts a user override, Standard locks to the unit
	BasicPricePerSFT float64 `gorm:"type:decimal(15,2)" json:"basic_price_per_sft"`

	SchemeTemplateID *uint `gorm:"index" json:"payment_scheme_template_id"`

	// Computed header snapshot
	FormulaVersion      int     `gorm:"default:3" json:"formula_version"`
	ValueExcludingBP    float64 `gorm:"type:decimal(18,2)" json:"value_excluding_bp"`
	FullUnitValue       float64 `gorm:"type:decimal(18,2)" json:"full_unit_value"`
	AOSValue            float64 `gorm:"type:decimal(18,2)" json:"aos_value"`
	AOSGST              float64 `gorm:"type:decimal(18,2)" json:"aos_gst"`
	AOSValueGST         float64 `gorm:"type:decimal(18,2)" json:"aos_value_gst"`
	TDSAmount           float64 `gorm:"type:decimal(18,2)" json:"tds_amount"`
	NetPayable          float64 `gorm:"type:decimal(18,2)" json:"net_payable"`
	EffectiveRatePerSFT float64 `gorm:"type:decimal(15,2)" json:"effective_rate_per_sft"`

	// Before-registration charges
	MaintenanceCharges       float64 `gorm:"type:decimal(18,2)" json:"maintenance_charges"`
	MaintenanceGST           float64 `gorm:"type:decimal(18,2)" json:"maintenance_gst"`
	CorpusFund               float64 `gorm:"type:decimal(18,2)" json:"corpus_fund"`
	MoveInCharges            float64 `gorm:"type:decimal(18,2)" json:"move_in_charges"`
	RefundableCautionDeposit float64 `gorm:"type:decimal(18,2)" json:"refundable_caution_deposit"`
	RegistrationCharges      float64 `gorm:"type:decimal(18,2)" json:"registration_charges"`
	BeforeRegistrationTotal  float64 `gorm:"type:decimal(18,2)" json:"before_registration_total"`

	GrandTotalPayable float64 `gorm:"type:decimal(18,2)" json:"grand_total_payable"`

	// Relative storage path of the last archived quotation PDF
	QuotationFile *string `json:"quotation_file"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Unit            Unit                   `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	SchemeTemplate  *PaymentSchemeTemplate `gorm:"foreignKey:SchemeTemplateID" json:"scheme_template,omitempty"`
	PaymentSchedule []PaymentScheduleRow   `gorm:"foreignKey:CostSheetID" json:"payment_schedule,omitempty"`
}

// TableName specifies the table name for CostSheet
func (CostSheet) TableName() string {
	return "cost_sheets"
}

// PaymentScheduleRow is one milestone slice of a payment schedule, owned by
// either a cost sheet or a booking order.
type PaymentScheduleRow struct {
	ID             uint  `gorm:"primaryKey" json:"id"`
	CostSheetID    *uint `gorm:"index" json:"cost_sheet_id"`
	BookingOrderID *uint `gorm:"index" json:"booking_order_id"`

	SchemeCode    string     `gorm:"not null" json:"scheme_code"`
	Milestone     string     `json:"milestone"`
	Particulars   *string    `json:"particulars"`
	MilestoneItem *string    `json:"milestone_item"`
	Percentage    float64    `gorm:"type:decimal(6,3)" json:"percentage"`
	MilestoneDate *time.Time `gorm:"type:date" json:"milestone_date"`
	Idx           int        `gorm:"default:0" json:"idx"`

	Amount     float64 `gorm:"type:decimal(18,2)" json:"amount"`
	GSTAmount  float64 `gorm:"type:decimal(18,2)" json:"gst_amount"`
	TDSAmount  float64 `gorm:"type:decimal(18,2)" json:"tds_amount"`
	NetPayable float64 `gorm:"type:decimal(18,2)" json:"net_payable"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for PaymentScheduleRow
func (PaymentScheduleRow) TableName() string {
	return "payment_schedule_rows"
}

// CostSheetResponse is the JSON response format for cost sheets
type CostSheetResponse struct {
	ID                      uint                 `json:"id"`
	GUID                    string               `json:"guid"`
	UnitID                  uint                 `json:"unit_id"`
	UnitName                string               `json:"unit_name"`
	ProjectID               uint                 `json:"project_id"`
	BlockID                 uint                 `json:"block_id"`
	FloorNumber             int                  `json:"floor_number"`
	CostSheetType           string               `json:"cost_sheet_type"`
	PartyName               *string              `json:"party_name"`
	SalableArea             float64              `json:"salable_area"`
	BasicPricePerSFT        float64              `json:"basic_price_per_sft"`
	FormulaVersion          int                  `json:"formula_version"`
	AOSValue                float64              `json:"aos_value"`
	AOSGST                  float64              `json:"aos_gst"`
	AOSValueGST             float64              `json:"aos_value_gst"`
	TDSAmount               float64              `json:"tds_amount"`
	NetPayable              float64              `json:"net_payable"`
	EffectiveRatePerSFT     float64              `json:"effective_rate_per_sft"`
	BeforeRegistrationTotal float64              `json:"before_registration_total"`
	GrandTotalPayable       float64              `json:"grand_total_payable"`
	PaymentSchedule         []PaymentScheduleRow `json:"payment_schedule"`
	CreatedAt               time.Time            `json:"created_at"`
}

// ToResponse converts CostSheet to CostSheetResponse
func (cs *CostSheet) ToResponse() CostSheetResponse {
	return CostSheetResponse{
		ID:                      cs.ID,
		GUID:                    cs.GUID,
		UnitID:                  cs.UnitID,
		UnitName:                cs.Unit.Name,
		ProjectID:               cs.ProjectID,
		BlockID:                 cs.BlockID,
		FloorNumber:             cs.FloorNumber,
		CostSheetType:           cs.CostSheetType,
		PartyName:               cs.PartyName,
		SalableArea:             cs.SalableArea,
		BasicPricePerSFT:        cs.BasicPricePerSFT,
		FormulaVersion:          cs.FormulaVersion,
		AOSValue:                cs.AOSValue,
		AOSGST:                  cs.AOSGST,
		AOSValueGST:             cs.AOSValueGST,
		TDSAmount:               cs.TDSAmount,
		NetPayable:              cs.NetPayable,
		EffectiveRatePerSFT:     cs.EffectiveRatePerSFT,
		BeforeRegistrationTotal: cs.BeforeRegistrationTotal,
		GrandTotalPayable:       cs.GrandTotalPayable,
		PaymentSchedule:         cs.PaymentSchedule,
		CreatedAt:               cs.CreatedAt,
	}
}
