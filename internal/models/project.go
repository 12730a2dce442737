package models

import (
	"time"
)

// Project represents a real-estate development project
type Project struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GUID      string    `gorm:"uniqueIndex" json:"guid"`
	Name      string    `gorm:"not null" json:"name"`
	Address   string    `json:"address"`
	City      *string   `json:"city"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Blocks []Block `gorm:"foreignKey:ProjectID" json:"blocks,omitempty"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}

// Block represents a tower/block within a project
type Block struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;index" json:"project_id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Project         Project          `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Floors          []Floor          `gorm:"foreignKey:BlockID" json:"floors,omitempty"`
	TowerMilestones []TowerMilestone `gorm:"foreignKey:BlockID" json:"tower_milestones,omitempty"`
}

// TableName specifies the table name for Block
func (Block) TableName() string {
	return "blocks"
}

// MilestoneDates maps scheme codes to the block's construction milestone
// dates, used when payment schedule rows are copied from a template.
func (b *Block) MilestoneDates() map[string]*time.Time {
	dates := make(map[string]*time.Time, len(b.TowerMilestones))
	for i := range b.TowerMilestones {
		t := &b.TowerMilestones[i]
		if t.SchemeCode != "" {
			dates[t.SchemeCode] = t.MilestoneDate
		}
	}
	return dates
}

// TowerMilestone is a construction milestone date for a block, keyed by the
// payment scheme code it settles
type TowerMilestone struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	BlockID       uint       `gorm:"not null;index" json:"block_id"`
	SchemeCode    string     `gorm:"not null" json:"scheme_code"`
	Milestone     string     `json:"milestone"`
	MilestoneDate *time.Time `gorm:"type:date" json:"milestone_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName specifies the table name for TowerMilestone
func (TowerMilestone) TableName() string {
	return "tower_milestones"
}

// Floor represents a floor within a block
type Floor struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BlockID     uint      `gorm:"not null;index" json:"block_id"`
	Name        string    `gorm:"not null" json:"name"`
	FloorNumber int       `gorm:"default:0" json:"floor_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Block Block `gorm:"foreignKey:BlockID" json:"block,omitempty"`
}

// TableName specifies the table name for Floor
func (Floor) TableName() string {
	return "floors"
}
