package pricing

import "math"

// FormulaVersion tags which revision of the unit value formulas produced a
// snapshot. Older rows in the database may carry V1/V2 until a backfill
// upgrades them; all new computations use CurrentFormulaVersion.
type FormulaVersion int

const (
	// FormulaV1: value excluding base price = area*(rise+facing+corner) + car parking.
	FormulaV1 FormulaVersion = 1
	// FormulaV2: adds documentation charges, still includes car parking.
	FormulaV2 FormulaVersion = 2
	// FormulaV3: drops car parking, folds amenities and infra rates into both
	// full unit value and value excluding base price.
	FormulaV3 FormulaVersion = 3

	CurrentFormulaVersion = FormulaV3
)

// Snapshot provenance stages
const (
	StageUnit      = "unit"
	StageCostSheet = "cost_sheet"
	StageBooking   = "booking_order"
	StagePreview   = "preview"
)

// RateCard is the settings snapshot a calculation runs against. It is built
// from the Settings record once per operation and passed explicitly so that
// a computation is a pure function of its inputs.
type RateCard struct {
	GSTRate float64
	TDSRate float64

	BasicPricePerSFT      float64
	FloorRiseRate         float64
	FacingPremiumCharges  float64
	CornerPremiumCharges  float64
	CarParkingAmount      float64
	AmenitiesChargesPerSF float64
	InfraChargesPerSF     float64
	DocumentationCharges  float64

	MaintenanceRatePerSFT     float64
	MaintenanceGSTRate        float64
	CorpusFundRatePerSFT      float64
	MoveInCharges             float64
	RefundableCautionDeposit  float64
	DefaultRegistrationCharge float64
}

// Inputs are the per-unit figures the breakdown derives from. Rates that the
// record left empty must already be defaulted from the RateCard by the
// caller; an explicit zero stays zero.
type Inputs struct {
	Area          float64
	BaseRate      float64
	RiseRate      float64
	FacingRate    float64
	CornerRate    float64
	AmenitiesRate float64
	InfraRate     float64
	CarParking    float64
	DocCharges    float64
}

// Breakdown is the computed price snapshot attached to a Unit, Cost Sheet or
// Booking Order. Stage records which entity produced it.
type Breakdown struct {
	FormulaVersion FormulaVersion `json:"formula_version"`
	Stage          string         `json:"stage"`

	UnitBaseAmount      float64 `json:"unit_base_amount"`
	FloorRiseAmount     float64 `json:"floor_rise_charges_amt"`
	FacingPremiumAmount float64 `json:"facing_premium_amount"`
	CornerPremiumAmount float64 `json:"corner_premium_amount"`
	AmenitiesAmount     float64 `json:"amenities_charges_amt"`
	InfraAmount         float64 `json:"infra_charges_amt"`

	FullUnitValue     float64 `json:"full_unit_value"`
	ValueExcludingBP  float64 `json:"value_excluding_bp"`
	AOSValue          float64 `json:"aos_value"`
	AOSGST            float64 `json:"aos_gst"`
	AOSValueGST       float64 `json:"aos_value_gst"`
	TDSAmount         float64 `json:"tds_amount"`
	NetPayable        float64 `json:"net_payable"`
	EffectiveRatePSFT float64 `json:"effective_rate_per_sft"`
}

// Round2 rounds a monetary value to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RoundNearest rounds a monetary value to the nearest whole currency unit.
func RoundNearest(v float64) float64 {
	return math.Round(v)
}

// Compute derives the full price breakdown for the given inputs using the
// current formula version. Every derived field is zero when area <= 0.
func Compute(stage string, in Inputs, rates RateCard) Breakdown {
	b := Breakdown{FormulaVersion: CurrentFormulaVersion, Stage: stage}

	if in.Area <= 0 {
		return b
	}

	gstRate := rates.GSTRate
	tdsRate := rates.TDSRate

	b.UnitBaseAmount = Round2(in.Area * in.BaseRate)
	b.FloorRiseAmount = Round2(in.Area * in.RiseRate)
	b.FacingPremiumAmount = Round2(in.Area * in.FacingRate)
	b.CornerPremiumAmount = Round2(in.Area * in.CornerRate)
	b.AmenitiesAmount = Round2(in.Area * in.AmenitiesRate)
	b.InfraAmount = Round2(in.Area * in.InfraRate)

	b.ValueExcludingBP = Round2(
		in.Area*(in.RiseRate+in.FacingRate+in.CornerRate+in.AmenitiesRate+in.InfraRate) + in.DocCharges)
	b.FullUnitValue = Round2(
		in.Area*(in.BaseRate+in.RiseRate+in.FacingRate+in.CornerRate+in.AmenitiesRate+in.InfraRate) + in.DocCharges)

	b.AOSValue = Round2(in.BaseRate*in.Area + b.ValueExcludingBP)
	b.AOSGST = Round2(b.AOSValue * gstRate / 100)
	b.AOSValueGST = Round2(b.AOSValue + b.AOSGST)
	b.TDSAmount = Round2(b.AOSValue * tdsRate / 100)
	b.NetPayable = Round2(b.AOSValueGST - b.TDSAmount)
	b.EffectiveRatePSFT = Round2(b.NetPayable / in.Area)

	return b
}

// ComputeHeader derives the cost-sheet header values from an already known
// value-excluding-base-price figure (the Unit snapshot), instead of the raw
// rate inputs. This is the server-side truth behind the stateless preview.
func ComputeHeader(stage string, area, baseRate, valueExcludingBP float64, rates RateCard) Breakdown {
	b := Breakdown{FormulaVersion: CurrentFormulaVersion, Stage: stage}

	if area <= 0 {
		return b
	}

	b.UnitBaseAmount = Round2(area * baseRate)
	b.ValueExcludingBP = Round2(valueExcludingBP)
	b.FullUnitValue = Round2(baseRate*area + valueExcludingBP)
	b.AOSValue = Round2(baseRate*area + valueExcludingBP)
	b.AOSGST = Round2(b.AOSValue * rates.GSTRate / 100)
	b.AOSValueGST = Round2(b.AOSValue + b.AOSGST)
	b.TDSAmount = Round2(b.AOSValue * rates.TDSRate / 100)
	b.NetPayable = Round2(b.AOSValueGST - b.TDSAmount)
	b.EffectiveRatePSFT = Round2(b.NetPayable / area)

	return b
}
