package models

import (
	"time"

	"github.com/realapp/realapp-api/internal/pricing"
)

// Settings is the singleton rate configuration all pricing defaults come
// from. There is exactly one row; SettingsRepository creates it on first
// access.
type Settings struct {
	ID uint `gorm:"primaryKey" json:"id"`

	GSTRate float64 `gorm:"type:decimal(6,3)" json:"gst_rate"`
	TDSRate float64 `gorm:"type:decimal(6,3)" json:"tds_rate"`

	BasicPricePerSFT       float64 `gorm:"type:decimal(15,2)" json:"basic_price_per_sft"`
	FloorRiseRate          float64 `gorm:"type:decimal(15,2)" json:"floor_rise_rate"`
	FacingPremiumCharges   float64 `gorm:"type:decimal(15,2)" json:"facing_premium_charges"`
	CornerPremiumCharges   float64 `gorm:"type:decimal(15,2)" json:"corner_premium_charges"`
	CarParkingAmount       float64 `gorm:"type:decimal(15,2)" json:"car_parking_amount"`
	AmenitiesChargesPerSFT float64 `gorm:"type:decimal(15,2)" json:"amenities_charges_per_sft"`
	InfraChargesPerSFT     float64 `gorm:"type:decimal(15,2)" json:"infra_charges_per_sft"`
	DocumentationCharges   float64 `gorm:"type:decimal(15,2)" json:"documentation_charges"`

	MaintenanceRatePerSFT     float64 `gorm:"type:decimal(15,2)" json:"maintenance_rate_per_sft"`
	MaintenanceGSTRate        float64 `gorm:"type:decimal(6,3)" json:"maintenance_gst_rate"`
	CorpusFundRatePerSFT      float64 `gorm:"type:decimal(15,2)" json:"corpus_fund_rate_per_sft"`
	MoveInCharges             float64 `gorm:"type:decimal(15,2)" json:"move_in_charges"`
	RefundableCautionDeposit  float64 `gorm:"type:decimal(15,2)" json:"refundable_caution_deposit"`
	DefaultRegistrationCharge float64 `gorm:"type:decimal(15,2)" json:"default_registration_charge"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Settings
func (Settings) TableName() string {
	return "settings"
}

// Statutory defaults used when the settings row leaves a tax rate unset
const (
	DefaultGSTRate            = 5.0
	DefaultTDSRate            = 1.0
	DefaultMaintenanceGSTRate = 18.0
)

// RateCard converts the stored settings into the value object calculations
// run against. Unset statutory rates fall back to their defaults; everything
// else is taken as stored, zero included.
func (s *Settings) RateCard() pricing.RateCard {
	card := pricing.RateCard{
		GSTRate: s.GSTRate,
		TDSRate: s.TDSRate,

		BasicPricePerSFT:      s.BasicPricePerSFT,
		FloorRiseRate:         s.FloorRiseRate,
		FacingPremiumCharges:  s.FacingPremiumCharges,
		CornerPremiumCharges:  s.CornerPremiumCharges,
		CarParkingAmount:      s.CarParkingAmount,
		AmenitiesChargesPerSF: s.AmenitiesChargesPerSFT,
		InfraChargesPerSF:     s.InfraChargesPerSFT,
		DocumentationCharges:  s.DocumentationCharges,

		MaintenanceRatePerSFT:     s.MaintenanceRatePerSFT,
		MaintenanceGSTRate:        s.MaintenanceGSTRate,
		CorpusFundRatePerSFT:      s.CorpusFundRatePerSFT,
		MoveInCharges:             s.MoveInCharges,
		RefundableCautionDeposit:  s.RefundableCautionDeposit,
		DefaultRegistrationCharge: s.DefaultRegistrationCharge,
	}

	if card.GSTRate == 0 {
		card.GSTRate = DefaultGSTRate
	}
	if card.TDSRate == 0 {
		card.TDSRate = DefaultTDSRate
	}
	if card.MaintenanceGSTRate == 0 {
		card.MaintenanceGSTRate = DefaultMaintenanceGSTRate
	}

	return card
}
