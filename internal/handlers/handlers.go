package handlers

import (
	"github.com/realapp/realapp-api/internal/services"
	"github.com/realapp/realapp-api/internal/storage"
)

// Handlers holds all handler instances
type Handlers struct {
	Health    *HealthHandler
	Auth      *AuthHandler
	User      *UserHandler
	Settings  *SettingsHandler
	Project   *ProjectHandler
	Unit      *UnitHandler
	Scheme    *SchemeHandler
	Pricing   *PricingHandler
	CostSheet *CostSheetHandler
	Booking   *BookingHandler
	Report    *ReportHandler
	Audit     *AuditHandler
	Job       *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, store *storage.LocalStorage) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(),
		Auth:      NewAuthHandler(svcs.Auth),
		User:      NewUserHandler(svcs.User),
		Settings:  NewSettingsHandler(svcs.Settings),
		Project:   NewProjectHandler(svcs.Project),
		Unit:      NewUnitHandler(svcs.Unit, store),
		Scheme:    NewSchemeHandler(svcs.Scheme),
		Pricing:   NewPricingHandler(svcs.Settings),
		CostSheet: NewCostSheetHandler(svcs.CostSheet),
		Booking:   NewBookingHandler(svcs.Booking, svcs.Invoice),
		Report:    NewReportHandler(svcs.Collection, svcs.Export),
		Audit:     NewAuditHandler(svcs.Audit),
		Job:       NewJobHandler(svcs.Job),
	}
}
