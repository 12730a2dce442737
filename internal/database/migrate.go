package database

import (
	"fmt"
	"os"
	"strings"

	"github.com/realapp/realapp-api/internal/models"
	"github.com/realapp/realapp-api/internal/pricing"
	"github.com/realapp/realapp-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migrate brings the schema up to date and repairs computed-value drift.
func Migrate(db *gorm.DB) error {
	if err := autoMigrate(db); err != nil {
		return err
	}
	if err := ensureInvoiceSequence(db); err != nil {
		return err
	}
	if err := seedAdminUser(db); err != nil {
		return err
	}
	return backfillUnitPricing(db)
}

// seedAdminUser creates the bootstrap administrator when no admin exists.
// Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD; without them a fresh
// database would have no way to log in.
func seedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Warn("[Migrate] no admin user and ADMIN_EMAIL/ADMIN_PASSWORD unset, skipping admin seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:             strings.ToLower(email),
		EncryptedPassword: string(hash),
		FullName:          "Administrator",
		Role:              models.RoleAdmin,
		Status:            models.StatusActive,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("[Migrate] seeded admin user %s", admin.Email))
	return nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Settings{},
		&models.Project{},
		&models.Block{},
		&models.TowerMilestone{},
		&models.Floor{},
		&models.Unit{},
		&models.PaymentSchemeTemplate{},
		&models.PaymentSchemeDetail{},
		&models.CostSheet{},
		&models.PaymentScheduleRow{},
		&models.BookingOrder{},
		&models.Customer{},
		&models.Lead{},
		&models.Opportunity{},
		&models.Company{},
		&models.Item{},
		&models.ItemDefault{},
		&models.SalesInvoice{},
		&models.SalesInvoiceItem{},
		&models.PaymentEntry{},
		&models.PaymentEntryReference{},
		&models.AuditLog{},
	)
}

// ensureInvoiceSequence creates the invoice numbering sequence. nextval keeps
// numbering safe under concurrent batch creation.
func ensureInvoiceSequence(db *gorm.DB) error {
	return db.Exec("CREATE SEQUENCE IF NOT EXISTS sales_invoice_seq START 1").Error
}

// backfillUnitPricing recomputes stored unit values with the current formula.
// Older rows carry values from superseded formula revisions; AutoMigrate adds
// the newer columns, this pass fills them. Runs only when rows predating the
// current formula exist, and commits the whole pass in one transaction.
func backfillUnitPricing(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, col := range []string{"facing_premium_amount", "corner_premium_amount", "unit_base_amount", "formula_version"} {
		if !migrator.HasColumn(&models.Unit{}, col) {
			logger.Warn(fmt.Sprintf("[Migrate] units.%s missing after automigrate, skipping backfill", col))
			return nil
		}
	}

	var stale int64
	if err := db.Model(&models.Unit{}).Where("formula_version < ?", pricing.CurrentFormulaVersion).Count(&stale).Error; err != nil {
		logger.Warn(fmt.Sprintf("[Migrate] unable to count stale units, skipping backfill: %v", err))
		return nil
	}
	if stale == 0 {
		return nil
	}

	var settings models.Settings
	if err := db.First(&settings).Error; err != nil {
		logger.Warn(fmt.Sprintf("[Migrate] no settings row, skipping unit backfill: %v", err))
		return nil
	}
	rates := settings.RateCard()

	return db.Transaction(func(tx *gorm.DB) error {
		var units []models.Unit
		if err := tx.Where("formula_version < ?", pricing.CurrentFormulaVersion).Find(&units).Error; err != nil {
			return err
		}

		for i := range units {
			unit := &units[i]
			breakdown := pricing.Compute(pricing.StageUnit, unit.PricingInputs(), rates)
			unit.ApplySnapshot(breakdown)
			if err := tx.Save(unit).Error; err != nil {
				return err
			}
		}

		logger.Info(fmt.Sprintf("[Migrate] recomputed pricing for %d unit(s)", len(units)))
		return nil
	})
}
