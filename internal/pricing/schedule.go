package pricing

// ScheduleRow is one milestone slice of the payment schedule. Amount and the
// tax portions are filled by AmortizeSchedule.
type ScheduleRow struct {
	SchemeCode string  `json:"scheme_code"`
	Milestone  string  `json:"milestone"`
	Percentage float64 `json:"percentage"`

	Amount     float64 `json:"amount"`
	GSTAmount  float64 `json:"gst_amount"`
	TDSAmount  float64 `json:"tds_amount"`
	NetPayable float64 `json:"net_payable"`
}

// AmortizeRow spreads one milestone's share of the AOS value and derives its
// GST, TDS and net payable using the header rates. Rounding happens per row,
// so a full schedule can drift from the AOS value by up to a cent per row.
func AmortizeRow(aosValue, percentage float64, rates RateCard) (amount, gst, tds, net float64) {
	amount = Round2(aosValue * percentage / 100)
	gst = Round2(amount * rates.GSTRate / 100)
	tds = Round2(amount * rates.TDSRate / 100)
	net = Round2(amount + gst - tds)
	return
}

// BeforeRegistration are the pre-registration charges collected on top of the
// AOS value: maintenance (with its own GST rate), corpus fund, move-in,
// refundable caution deposit and registration fee.
type BeforeRegistration struct {
	MaintenanceCharges       float64 `json:"maintenance_charges"`
	MaintenanceGST           float64 `json:"maintenance_gst"`
	CorpusFund               float64 `json:"corpus_fund"`
	MoveInCharges            float64 `json:"move_in_charges"`
	RefundableCautionDeposit float64 `json:"refundable_caution_deposit"`
	RegistrationCharges      float64 `json:"registration_charges"`
	Total                    float64 `json:"before_registration_total"`
}

// ComputeBeforeRegistration derives the before-registration block from the
// salable area. Maintenance and corpus fund scale with area; the rest are
// flat figures from the rate card.
func ComputeBeforeRegistration(area float64, rates RateCard) BeforeRegistration {
	br := BeforeRegistration{
		MoveInCharges:            Round2(rates.MoveInCharges),
		RefundableCautionDeposit: Round2(rates.RefundableCautionDeposit),
		RegistrationCharges:      Round2(rates.DefaultRegistrationCharge),
	}

	br.MaintenanceCharges = Round2(rates.MaintenanceRatePerSFT * area)
	br.MaintenanceGST = Round2(br.MaintenanceCharges * rates.MaintenanceGSTRate / 100)
	br.CorpusFund = Round2(rates.CorpusFundRatePerSFT * area)

	br.Total = Round2(br.MaintenanceCharges + br.MaintenanceGST + br.CorpusFund +
		br.MoveInCharges + br.RefundableCautionDeposit + br.RegistrationCharges)
	return br
}
