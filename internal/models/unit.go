package models

import (
	"time"

	"github.com/realapp/realapp-api/internal/pricing"
)

// Unit represents a sellable property unit. The rate inputs are pointers so
// that an unset field can be defaulted from Settings while an explicit zero
// is kept as entered. The computed columns are a pure function of the inputs
// and the Settings in force at the last save; they are never recomputed
// retroactively when Settings change.
type Unit struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"not null;uniqueIndex" json:"name"`
	FloorID uint   `gorm:"not null;index" json:"floor_id"`

	// Denormalized hierarchy, resolved from Floor -> Block -> Project on save
	ProjectID   uint `gorm:"index" json:"project_id"`
	BlockID     uint `gorm:"index" json:"block_id"`
	FloorNumber int  `json:"floor_number"`

	Status string `gorm:"default:available;index" json:"status"`

	SalableArea float64 `gorm:"type:decimal(12,2)" json:"salable_area"`

	// Rate inputs (nil = default from Settings on save, 0 = explicitly zero)
	BasicPricePerSFT       *float64 `gorm:"type:decimal(15,2)" json:"basic_price_per_sft"`
	FloorRiseRate          *float64 `gorm:"type:decimal(15,2)" json:"floor_rise_rate"`
	FacingPremiumCharges   *float64 `gorm:"type:decimal(15,2)" json:"facing_premium_charges"`
	CornerPremiumCharges   *float64 `gorm:"type:decimal(15,2)" json:"corner_premium_charges"`
	CarParkingAmount       *float64 `gorm:"type:decimal(15,2)" json:"car_parking_amount"`
	AmenitiesChargesPerSFT *float64 `gorm:"type:decimal(15,2)" json:"amenities_charges_per_sft"`
	InfraChargesPerSFT     *float64 `gorm:"type:decimal(15,2)" json:"infra_charges_per_sft"`
	DocumentationCharges   *float64 `gorm:"type:decimal(15,2)" json:"documentation_charges"`

	// Tax rates, always synced from Settings on save
	GSTRate float64 `gorm:"type:decimal(6,3)" json:"gst_rate"`
	TDSRate float64 `gorm:"type:decimal(6,3)" json:"tds_rate"`

	// Computed snapshot (overwritten on every save)
	FormulaVersion       int     `gorm:"default:3" json:"formula_version"`
	UnitBaseAmount       float64 `gorm:"type:decimal(18,2)" json:"unit_base_amount"`
	FloorRiseChargesAmt  float64 `gorm:"type:decimal(18,2)" json:"floor_rise_charges_amt"`
	FacingPremiumAmount  float64 `gorm:"type:decimal(18,2)" json:"facing_premium_amount"`
	CornerPremiumAmount  float64 `gorm:"type:decimal(18,2)" json:"corner_premium_amount"`
	AmenitiesChargesAmt  float64 `gorm:"type:decimal(18,2)" json:"amenities_charges_amt"`
	InfraChargesAmt      float64 `gorm:"type:decimal(18,2)" json:"infra_charges_amt"`
	FullUnitValue        float64 `gorm:"type:decimal(18,2)" json:"full_unit_value"`
	ValueExcludingBP     float64 `gorm:"type:decimal(18,2)" json:"value_excluding_bp"`
	AOSValue             float64 `gorm:"type:decimal(18,2)" json:"aos_value"`
	AOSGST               float64 `gorm:"type:decimal(18,2)" json:"aos_gst"`
	AOSValueGST          float64 `gorm:"type:decimal(18,2)" json:"aos_value_gst"`
	TDSAmount            float64 `gorm:"type:decimal(18,2)" json:"tds_amount"`
	NetPayable           float64 `gorm:"type:decimal(18,2)" json:"net_payable"`
	EffectiveRatePerSFT  float64 `gorm:"type:decimal(15,2)" json:"effective_rate_per_sft"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Floor   Floor   `gorm:"foreignKey:FloorID" json:"floor,omitempty"`
	Block   Block   `gorm:"foreignKey:BlockID" json:"block,omitempty"`
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// TableName specifies the table name for Unit
func (Unit) TableName() string {
	return "units"
}

// Unit status constants
const (
	UnitStatusAvailable = "available"
	UnitStatusBooked    = "booked"
	UnitStatusBlocked   = "blocked"
	UnitStatusSold      = "sold"
)

// IsAvailable returns true if the unit can be quoted or booked
func (u *Unit) IsAvailable() bool {
	return u.Status == UnitStatusAvailable
}

// MayBook returns true if the unit can transition to booked
func (u *Unit) MayBook() bool {
	return u.Status == UnitStatusAvailable
}

// MayRelease returns true if the unit can go back to available
func (u *Unit) MayRelease() bool {
	return u.Status == UnitStatusBooked
}

// MayBlock returns true if the unit can be taken off the market
func (u *Unit) MayBlock() bool {
	return u.Status == UnitStatusAvailable
}

// MaySell returns true if the unit can be marked sold
func (u *Unit) MaySell() bool {
	return u.Status == UnitStatusBooked
}

// PricingInputs assembles the calculator inputs from the unit's fields.
// Callers must have applied Settings defaults first (see UnitService).
func (u *Unit) PricingInputs() pricing.Inputs {
	return pricing.Inputs{
		Area:          u.SalableArea,
		BaseRate:      deref(u.BasicPricePerSFT),
		RiseRate:      deref(u.FloorRiseRate),
		FacingRate:    deref(u.FacingPremiumCharges),
		CornerRate:    deref(u.CornerPremiumCharges),
		AmenitiesRate: deref(u.AmenitiesChargesPerSFT),
		InfraRate:     deref(u.InfraChargesPerSFT),
		CarParking:    deref(u.CarParkingAmount),
		DocCharges:    deref(u.DocumentationCharges),
	}
}

// ApplySnapshot copies a computed breakdown onto the unit's stored columns.
func (u *Unit) ApplySnapshot(b pricing.Breakdown) {
	u.FormulaVersion = int(b.FormulaVersion)
	u.UnitBaseAmount = b.UnitBaseAmount
	u.FloorRiseChargesAmt = b.FloorRiseAmount
	u.FacingPremiumAmount = b.FacingPremiumAmount
	u.CornerPremiumAmount = b.CornerPremiumAmount
	u.AmenitiesChargesAmt = b.AmenitiesAmount
	u.InfraChargesAmt = b.InfraAmount
	u.FullUnitValue = b.FullUnitValue
	u.ValueExcludingBP = b.ValueExcludingBP
	u.AOSValue = b.AOSValue
	u.AOSGST = b.AOSGST
	u.AOSValueGST = b.AOSValueGST
	u.TDSAmount = b.TDSAmount
	u.NetPayable = b.NetPayable
	u.EffectiveRatePerSFT = b.EffectiveRatePSFT
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// UnitResponse is the JSON response format for units
type UnitResponse struct {
	ID                  uint    `json:"id"`
	Name                string  `json:"name"`
	ProjectID           uint    `json:"project_id"`
	ProjectName         string  `json:"project_name"`
	BlockID             uint    `json:"block_id"`
	BlockName           string  `json:"block_name"`
	FloorNumber         int     `json:"floor_number"`
	Status              string  `json:"status"`
	SalableArea         float64 `json:"salable_area"`
	FormulaVersion      int     `json:"formula_version"`
	UnitBaseAmount      float64 `json:"unit_base_amount"`
	FacingPremiumAmount float64 `json:"facing_premium_amount"`
	CornerPremiumAmount float64 `json:"corner_premium_amount"`
	FullUnitValue       float64 `json:"full_unit_value"`
	ValueExcludingBP    float64 `json:"value_excluding_bp"`
	AOSValue            float64 `json:"aos_value"`
	AOSGST              float64 `json:"aos_gst"`
	AOSValueGST         float64 `json:"aos_value_gst"`
	TDSAmount           float64 `json:"tds_amount"`
	NetPayable          float64 `json:"net_payable"`
	EffectiveRatePerSFT float64 `json:"effective_rate_per_sft"`
}

// ToResponse converts Unit to UnitResponse
func (u *Unit) ToResponse() UnitResponse {
	return UnitResponse{
		ID:                  u.ID,
		Name:                u.Name,
		ProjectID:           u.ProjectID,
		ProjectName:         u.Project.Name,
		BlockID:             u.BlockID,
		BlockName:           u.Block.Name,
		FloorNumber:         u.FloorNumber,
		Status:              u.Status,
		SalableArea:         u.SalableArea,
		FormulaVersion:      u.FormulaVersion,
		UnitBaseAmount:      u.UnitBaseAmount,
		FacingPremiumAmount: u.FacingPremiumAmount,
		CornerPremiumAmount: u.CornerPremiumAmount,
		FullUnitValue:       u.FullUnitValue,
		ValueExcludingBP:    u.ValueExcludingBP,
		AOSValue:            u.AOSValue,
		AOSGST:              u.AOSGST,
		AOSValueGST:         u.AOSValueGST,
		TDSAmount:           u.TDSAmount,
		NetPayable:          u.NetPayable,
		EffectiveRatePerSFT: u.EffectiveRatePerSFT,
	}
}
