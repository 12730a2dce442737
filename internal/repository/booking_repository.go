package repository

import (
	"context"

	"github.com/realapp/realapp-api/internal/models"
	"gorm.io/gorm"
)

// BookingRepository defines the interface for booking order data access
type BookingRepository interface {
	FindByID(ctx context.Context, id uint) (*models.BookingOrder, error)
	FindByGUID(ctx context.Context, guid string) (*models.BookingOrder, error)
	FindActiveByUnit(ctx context.Context, unitID uint) (*models.BookingOrder, error)
	Create(ctx context.Context, booking *models.BookingOrder) error
	Update(ctx context.Context, booking *models.BookingOrder) error
	List(ctx context.Context, query *ListQuery) ([]models.BookingOrder, int64, error)
	ReplaceSchedule(ctx context.Context, bookingID uint, rows []models.PaymentScheduleRow) error

	// SubmitWithUnit persists the booking transition and the unit transition
	// together. Booking a unit must never half-apply.
	SubmitWithUnit(ctx context.Context, booking *models.BookingOrder, unit *models.Unit) error
	CancelWithUnit(ctx context.Context, booking *models.BookingOrder, unit *models.Unit) error
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking order repository
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.BookingOrder, error) {
	var booking models.BookingOrder
	err := r.db.WithContext(ctx).
		Preload("Unit").
		Preload("CostSheet").
		Preload("PaymentSchedule", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_schedule_rows.idx ASC")
		}).
		First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByGUID(ctx context.Context, guid string) (*models.BookingOrder, error) {
	var booking models.BookingOrder
	err := r.db.WithContext(ctx).
		Preload("Unit").
		Preload("PaymentSchedule", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_schedule_rows.idx ASC")
		}).
		Where("guid = ?", guid).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindActiveByUnit(ctx context.Context, unitID uint) (*models.BookingOrder, error) {
	var booking models.BookingOrder
	err := r.db.WithContext(ctx).
		Where("unit_id = ? AND status = ?", unitID, models.BookingStatusSubmitted).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.BookingOrder) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) Update(ctx context.Context, booking *models.BookingOrder) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

func (r *bookingRepository) List(ctx context.Context, query *ListQuery) ([]models.BookingOrder, int64, error) {
	var bookings []models.BookingOrder
	var total int64

	db := r.db.WithContext(ctx).Model(&models.BookingOrder{})

	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}
	if query.Filters["unit_id"] != "" {
		db = db.Where("unit_id = ?", query.Filters["unit_id"])
	}
	if query.Filters["project_id"] != "" {
		db = db.Where("project_id = ?", query.Filters["project_id"])
	}
	if query.Filters["party_type"] != "" {
		db = db.Where("party_type = ?", query.Filters["party_type"])
	}

	db.Count(&total)

	db = db.Order("created_at DESC")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Unit").Find(&bookings).Error
	return bookings, total, err
}

func (r *bookingRepository) ReplaceSchedule(ctx context.Context, bookingID uint, rows []models.PaymentScheduleRow) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_order_id = ?", bookingID).
			Delete(&models.PaymentScheduleRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].ID = 0
			rows[i].BookingOrderID = &bookingID
			rows[i].CostSheetID = nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *bookingRepository) SubmitWithUnit(ctx context.Context, booking *models.BookingOrder, unit *models.Unit) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(booking).Error; err != nil {
			return err
		}
		return tx.Save(unit).Error
	})
}

func (r *bookingRepository) CancelWithUnit(ctx context.Context, booking *models.BookingOrder, unit *models.Unit) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(booking).Error; err != nil {
			return err
		}
		if unit != nil {
			return tx.Save(unit).Error
		}
		return nil
	})
}
