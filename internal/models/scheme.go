package models

import (
	"fmt"
	"time"
)

// PaymentSchemeTemplate is a named, reusable ordered set of payment
// milestones. Codes must be unique within a template and the row
// percentages may not exceed 100 in total.
type PaymentSchemeTemplate struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SchemeName string    `gorm:"not null;uniqueIndex" json:"scheme_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Associations
	Details []PaymentSchemeDetail `gorm:"foreignKey:TemplateID" json:"payment_scheme_details,omitempty"`
}

// TableName specifies the table name for PaymentSchemeTemplate
func (PaymentSchemeTemplate) TableName() string {
	return "payment_scheme_templates"
}

// Validate rejects duplicate scheme codes and percentage totals above 100.
func (t *PaymentSchemeTemplate) Validate() error {
	seen := make(map[string]struct{}, len(t.Details))
	var totalPct float64

	for _, row := range t.Details {
		if _, dup := seen[row.SchemeCode]; dup {
			return fmt.Errorf("duplicate code %s in template %s", row.SchemeCode, t.SchemeName)
		}
		seen[row.SchemeCode] = struct{}{}
		totalPct += row.Percentage
	}

	if totalPct > 100.0 {
		return fmt.Errorf("total percentage in %s exceeds 100%%: found %.2f%%", t.SchemeName, totalPct)
	}
	return nil
}

// PaymentSchemeDetail is one milestone row of a template
type PaymentSchemeDetail struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TemplateID    uint      `gorm:"not null;index" json:"template_id"`
	SchemeCode    string    `gorm:"not null" json:"scheme_code"`
	Milestone     string    `json:"milestone"`
	Particulars   *string   `json:"particulars"`
	MilestoneItem *string   `json:"milestone_item"`
	Percentage    float64   `gorm:"type:decimal(6,3)" json:"percentage"`
	Idx           int       `gorm:"default:0" json:"idx"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for PaymentSchemeDetail
func (PaymentSchemeDetail) TableName() string {
	return "payment_scheme_details"
}

// SchemeRow is the merged view of a template row with the block's milestone
// date, returned by the fetch-scheme-rows operation.
type SchemeRow struct {
	SchemeCode    string     `json:"scheme_code"`
	Milestone     string     `json:"milestone"`
	Particulars   *string    `json:"particulars"`
	MilestoneItem *string    `json:"milestone_item"`
	Percentage    float64    `json:"percentage"`
	MilestoneDate *time.Time `json:"milestone_date"`
}
