package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute_BaseOnly(t *testing.T) {
	rates := RateCard{GSTRate: 5, TDSRate: 1}
	in := Inputs{
		Area:     1000,
		BaseRate: 3000,
	}

	b := Compute(StageUnit, in, rates)

	assert.Equal(t, CurrentFormulaVersion, b.FormulaVersion)
	assert.Equal(t, StageUnit, b.Stage)
	assert.Equal(t, 3000000.0, b.UnitBaseAmount)
	assert.Equal(t, 0.0, b.ValueExcludingBP)
	assert.Equal(t, 3000000.0, b.AOSValue)
	assert.Equal(t, 150000.0, b.AOSGST)
	assert.Equal(t, 3150000.0, b.AOSValueGST)
	assert.Equal(t, 30000.0, b.TDSAmount)
	assert.Equal(t, 3120000.0, b.NetPayable)
	assert.Equal(t, 3120.0, b.EffectiveRatePSFT)
}

func TestCompute_AllComponents(t *testing.T) {
	rates := RateCard{GSTRate: 5, TDSRate: 1}
	in := Inputs{
		Area:          1200,
		BaseRate:      3500,
		RiseRate:      25,
		FacingRate:    100,
		CornerRate:    50,
		AmenitiesRate: 150,
		InfraRate:     100,
		DocCharges:    25000,
	}

	b := Compute(StageCostSheet, in, rates)

	assert.Equal(t, 4200000.0, b.UnitBaseAmount)
	assert.Equal(t, 30000.0, b.FloorRiseAmount)
	assert.Equal(t, 120000.0, b.FacingPremiumAmount)
	assert.Equal(t, 60000.0, b.CornerPremiumAmount)
	assert.Equal(t, 180000.0, b.AmenitiesAmount)
	assert.Equal(t, 120000.0, b.InfraAmount)

	// value excluding base = 1200*(25+100+50+150+100) + 25000 = 510000 + 25000
	assert.Equal(t, 535000.0, b.ValueExcludingBP)
	assert.Equal(t, 4735000.0, b.FullUnitValue)
	assert.Equal(t, 4735000.0, b.AOSValue)
	assert.Equal(t, 236750.0, b.AOSGST)
	assert.Equal(t, 4971750.0, b.AOSValueGST)
	assert.Equal(t, 47350.0, b.TDSAmount)
	assert.Equal(t, 4924400.0, b.NetPayable)
	assert.InDelta(t, 4103.67, b.EffectiveRatePSFT, 0.01)
}

func TestCompute_Deterministic(t *testing.T) {
	rates := RateCard{GSTRate: 5, TDSRate: 1}
	in := Inputs{
		Area:          1200,
		BaseRate:      3500,
		RiseRate:      25,
		FacingRate:    100,
		CornerRate:    50,
		AmenitiesRate: 150,
		InfraRate:     100,
		DocCharges:    25000,
	}

	// Recomputing from unchanged inputs must reproduce the stored snapshot
	// exactly, or migrations would rewrite prices that did not change.
	first := Compute(StageUnit, in, rates)
	second := Compute(StageUnit, in, rates)
	assert.Equal(t, first, second)
}

func TestCompute_CarParkingExcluded(t *testing.T) {
	rates := RateCard{GSTRate: 5, TDSRate: 1}
	in := Inputs{
		Area:       1000,
		BaseRate:   3000,
		CarParking: 250000,
	}

	b := Compute(StageUnit, in, rates)

	// Car parking no longer feeds any derived value.
	assert.Equal(t, 3000000.0, b.FullUnitValue)
	assert.Equal(t, 3000000.0, b.AOSValue)
}

func TestCompute_ZeroArea(t *testing.T) {
	rates := RateCard{GSTRate: 5, TDSRate: 1}

	for _, area := range []float64{0, -100} {
		b := Compute(StageUnit, Inputs{Area: area, BaseRate: 3000}, rates)

		assert.Equal(t, 0.0, b.UnitBaseAmount)
		assert.Equal(t, 0.0, b.AOSValue)
		assert.Equal(t, 0.0, b.NetPayable)
		assert.Equal(t, 0.0, b.EffectiveRatePSFT)
		assert.Equal(t, CurrentFormulaVersion, b.FormulaVersion)
	}
}

func TestCompute_ExplicitZeroRateStaysZero(t *testing.T) {
	rates := RateCard{GSTRate: 5, TDSRate: 1, FacingPremiumCharges: 100}
	in := Inputs{
		Area:       1000,
		BaseRate:   3000,
		FacingRate: 0, // caller resolved the default, zero means zero
	}

	b := Compute(StageUnit, in, rates)
	assert.Equal(t, 0.0, b.FacingPremiumAmount)
}

func TestComputeHeader(t *testing.T) {
	rates := RateCard{GSTRate: 5, TDSRate: 1}

	b := ComputeHeader(StagePreview, 1000, 3000, 535000, rates)

	assert.Equal(t, StagePreview, b.Stage)
	assert.Equal(t, 3535000.0, b.AOSValue)
	assert.Equal(t, 176750.0, b.AOSGST)
	assert.Equal(t, 3711750.0, b.AOSValueGST)
	assert.Equal(t, 35350.0, b.TDSAmount)
	assert.Equal(t, 3676400.0, b.NetPayable)
	assert.Equal(t, 3676.4, b.EffectiveRatePSFT)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.56, Round2(10.555))
	assert.Equal(t, 10.55, Round2(10.554))
	assert.Equal(t, -2.5, Round2(-2.499999))
}

func TestRoundNearest(t *testing.T) {
	assert.Equal(t, 101.0, RoundNearest(100.5))
	assert.Equal(t, 100.0, RoundNearest(100.49))
}

func TestAmortizeRow(t *testing.T) {
	rates := RateCard{GSTRate: 5, TDSRate: 1}

	amount, gst, tds, net := AmortizeRow(3000000, 10, rates)

	assert.Equal(t, 300000.0, amount)
	assert.Equal(t, 15000.0, gst)
	assert.Equal(t, 3000.0, tds)
	assert.Equal(t, 312000.0, net)
}

func TestAmortizeRow_FullScheduleDrift(t *testing.T) {
	rates := RateCard{GSTRate: 5, TDSRate: 1}
	aos := 3333333.33

	percentages := []float64{10, 15, 15, 15, 15, 15, 10, 5}
	var total float64
	for _, p := range percentages {
		amount, _, _, _ := AmortizeRow(aos, p, rates)
		total += amount
	}

	// Per-row rounding may drift from the AOS value by up to a cent per row.
	assert.InDelta(t, aos, total, 0.01*float64(len(percentages)))
}

func TestComputeBeforeRegistration(t *testing.T) {
	rates := RateCard{
		MaintenanceRatePerSFT:     3,
		MaintenanceGSTRate:        18,
		CorpusFundRatePerSFT:      50,
		MoveInCharges:             10000,
		RefundableCautionDeposit:  25000,
		DefaultRegistrationCharge: 50000,
	}

	br := ComputeBeforeRegistration(1000, rates)

	assert.Equal(t, 3000.0, br.MaintenanceCharges)
	assert.Equal(t, 540.0, br.MaintenanceGST)
	assert.Equal(t, 50000.0, br.CorpusFund)
	assert.Equal(t, 10000.0, br.MoveInCharges)
	assert.Equal(t, 25000.0, br.RefundableCautionDeposit)
	assert.Equal(t, 50000.0, br.RegistrationCharges)
	assert.Equal(t, 138540.0, br.Total)
}
