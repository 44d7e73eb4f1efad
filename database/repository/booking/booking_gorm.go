package booking

import (
	"fmt"
	"time"

	"domik/models"

	"gorm.io/gorm"
)

// GormBookingRepo implements Repository on the relational store.
type GormBookingRepo struct {
	db *gorm.DB
}

func NewGormBookingRepo(db *gorm.DB) *GormBookingRepo {
	return &GormBookingRepo{db: db}
}

func (r *GormBookingRepo) Create(b *models.Booking) error {
	if err := r.db.Create(b).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *GormBookingRepo) GetByID(id uint) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.Preload("Resource").First(&b, id).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch booking %d: %w", id, err)
	}
	return &b, nil
}

func (r *GormBookingRepo) UpdateStatus(id uint, from, to models.BookingStatus, amount *float64) (int64, error) {
	if !models.CanTransition(from, to) {
		return 0, fmt.Errorf("booking %d: %s -> %s: %w", id, from, to, ErrIllegalTransition)
	}
	updates := map[string]interface{}{"status": to}
	if amount != nil {
		updates["amount"] = *amount
	}
	tx := r.db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if tx.Error != nil {
		return 0, fmt.Errorf("failed to update booking %d status: %w", id, tx.Error)
	}
	return tx.RowsAffected, nil
}

func (r *GormBookingRepo) ConfirmedOverlapping(resourceID, excludeID uint, checkIn, checkOut time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.Booking{}).
		Where("resource_id = ? AND id <> ? AND status = ?", resourceID, excludeID, models.StatusConfirmed).
		// A booking without a check-out still occupies its check-in day.
		Where("check_in <= ? AND COALESCE(check_out, check_in) >= ?", checkOut, checkIn).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check overlap for resource %d: %w", resourceID, err)
	}
	return count > 0, nil
}

func (r *GormBookingRepo) ConfirmedForResource(resourceID uint, from time.Time) ([]models.Booking, error) {
	var out []models.Booking
	err := r.db.
		Where("resource_id = ? AND status = ?", resourceID, models.StatusConfirmed).
		Where("check_out IS NULL OR check_out >= ?", from).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed bookings for resource %d: %w", resourceID, err)
	}
	return out, nil
}

func (r *GormBookingRepo) FutureConfirmedByUser(telegramID int64, after time.Time) ([]models.Booking, error) {
	var out []models.Booking
	err := r.db.Preload("Resource").
		Where("telegram_id = ? AND status = ? AND check_out > ?", telegramID, models.StatusConfirmed, after).
		Order("check_in DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings of user %d: %w", telegramID, err)
	}
	return out, nil
}

func (r *GormBookingRepo) ListAll(page, perPage int) ([]models.Booking, error) {
	if page < 1 {
		page = 1
	}
	var out []models.Booking
	err := r.db.Preload("Resource").
		Order("id DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return out, nil
}

func (r *GormBookingRepo) Delete(id uint) error {
	if err := r.db.Delete(&models.Booking{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete booking %d: %w", id, err)
	}
	return nil
}
