package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	RefreshToken RefreshTokenRepository
	Settings     SettingsRepository
	Project      ProjectRepository
	Unit         UnitRepository
	Scheme       SchemeRepository
	CostSheet    CostSheetRepository
	Booking      BookingRepository
	Billing      BillingRepository
	Collection   CollectionRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
		Settings:     NewSettingsRepository(db),
		Project:      NewProjectRepository(db),
		Unit:         NewUnitRepository(db),
		Scheme:       NewSchemeRepository(db),
		CostSheet:    NewCostSheetRepository(db),
		Booking:      NewBookingRepository(db),
		Billing:      NewBillingRepository(db),
		Collection:   NewCollectionRepository(db),
	}
}
