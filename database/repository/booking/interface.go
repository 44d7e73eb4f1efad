package booking

import (
	"errors"
	"time"

	"domik/models"
)

// ErrIllegalTransition is returned by UpdateStatus when the requested
// status change is not listed in the booking transition table.
var ErrIllegalTransition = errors.New("illegal booking status transition")

// Repository defines persistence operations for bookings. The relational
// store behind it is the single source of truth for conflict detection.
type Repository interface {
	Create(b *models.Booking) error
	GetByID(id uint) (*models.Booking, error)

	// UpdateStatus moves a booking from one status to another, optionally
	// stamping the realized amount. The pair must be legal per the booking
	// transition table (ErrIllegalTransition otherwise), and the update is
	// guarded by the current status so concurrent transitions cannot
	// double-apply; it returns the number of rows changed.
	UpdateStatus(id uint, from, to models.BookingStatus, amount *float64) (int64, error)

	// ConfirmedOverlapping reports whether any confirmed booking other than
	// excludeID holds dates overlapping [checkIn, checkOut] on the resource.
	// A booking with no check-out counts as occupying its check-in day.
	ConfirmedOverlapping(resourceID, excludeID uint, checkIn, checkOut time.Time) (bool, error)

	// ConfirmedForResource returns confirmed bookings on the resource whose
	// check-out is unset or not yet past relative to from.
	ConfirmedForResource(resourceID uint, from time.Time) ([]models.Booking, error)

	// FutureConfirmedByUser returns the user's confirmed bookings with a
	// check-out after the given date, newest check-in first.
	FutureConfirmedByUser(telegramID int64, after time.Time) ([]models.Booking, error)

	ListAll(page, perPage int) ([]models.Booking, error)
	Delete(id uint) error
}
