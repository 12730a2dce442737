package services

import (
	"github.com/realapp/realapp-api/internal/config"
	"github.com/realapp/realapp-api/internal/jobs"
	"github.com/realapp/realapp-api/internal/repository"
	"github.com/realapp/realapp-api/internal/storage"
	"gorm.io/gorm"
)

// Services holds all service instances
type Services struct {
	Auth       *AuthService
	User       *UserService
	Settings   *SettingsService
	Project    *ProjectService
	Unit       *UnitService
	Scheme     *SchemeService
	CostSheet  *CostSheetService
	Booking    *BookingService
	Invoice    *InvoiceService
	Collection *CollectionReportService
	Export     *ExportService
	Audit      *AuditService
	Job        *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, store *storage.LocalStorage, cfg *config.Config, db *gorm.DB) *Services {
	auditSvc := NewAuditService(db, worker)
	settingsSvc := NewSettingsService(repos.Settings, auditSvc)
	collectionSvc := NewCollectionReportService(repos.Collection)

	return &Services{
		Auth:       NewAuthService(repos.User, repos.RefreshToken, cfg),
		User:       NewUserService(repos.User, auditSvc),
		Settings:   settingsSvc,
		Project:    NewProjectService(repos.Project, auditSvc),
		Unit:       NewUnitService(repos.Unit, repos.Project, settingsSvc, auditSvc),
		Scheme:     NewSchemeService(repos.Scheme, repos.Project, auditSvc),
		CostSheet:  NewCostSheetService(repos.CostSheet, repos.Unit, repos.Scheme, repos.Project, settingsSvc, auditSvc, store, worker),
		Booking:    NewBookingService(repos.Booking, repos.CostSheet, repos.Unit, repos.Billing, auditSvc),
		Invoice:    NewInvoiceService(repos.Billing, repos.Booking, auditSvc, cfg),
		Collection: collectionSvc,
		Export:     NewExportService(),
		Audit:      auditSvc,
		Job:        NewJobService(worker),
	}
}
