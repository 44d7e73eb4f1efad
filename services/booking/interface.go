package booking

import (
	"time"

	brepo "domik/database/repository/booking"
	rrepo "domik/database/repository/resource"
	"domik/models"
)

// SessionMaxAge is how long a session without a picked check-out may
// live before the sweeper removes it.
const SessionMaxAge = 24 * time.Hour

// FlowService drives the conversational booking flow: sessions, date
// selection, and the payment handshake around the booking lifecycle.
type FlowService interface {
	// StartSession opens (or replaces) the user's booking session for a
	// resource, with the calendar positioned on the current month.
	StartSession(userID int64, resourceID uint)
	// Session returns a copy of the user's live session.
	Session(userID int64) (*models.BookingSession, error)
	// SetCalendarMonth repositions the session's calendar view.
	SetCalendarMonth(userID int64, year, month int) error
	// CancelSession drops the user's session if any.
	CancelSession(userID int64)

	// BookedRanges resolves the current and future confirmed date ranges
	// for a resource, queried fresh from the store.
	BookedRanges(resourceID uint) ([]models.BookedRange, error)

	// PickCheckIn records the chosen check-in and clears any check-out.
	PickCheckIn(userID int64, day time.Time) error
	// PickCheckOut validates order and overlap against a fresh store
	// query and records the chosen check-out. On overlap the session's
	// check-in is cleared and ErrRangeOverlap is returned.
	PickCheckOut(userID int64, day time.Time) error

	// ConfirmSelection turns the completed session into a
	// waiting_payment booking row and drops the session.
	ConfirmSelection(userID int64) (*models.Booking, error)
	// InvoiceFailed marks a booking failed after invoice dispatch broke.
	InvoiceFailed(bookingID uint) error
	// PreAuthorize re-validates a booking right before the charge is
	// approved: status, dates, conflicts, amount, in that order.
	PreAuthorize(bookingID uint, amountMinor int64) error
	// Finalize confirms a paid booking and stamps the realized amount.
	// It is idempotent: a second call reports newlyConfirmed=false.
	Finalize(bookingID uint, paidMinor int64) (booking *models.Booking, newlyConfirmed bool, err error)
	// Cancel cancels a confirmed booking whose check-in is still ahead.
	Cancel(bookingID uint) (*models.Booking, error)
}

// DefaultBookingFlow is the production FlowService.
type DefaultBookingFlow struct {
	Bookings  brepo.Repository
	Resources rrepo.Repository
	Sessions  *SessionStore

	// Now is swappable for tests; nil means time.Now.
	Now func() time.Time
}

func NewDefaultBookingFlow(bookings brepo.Repository, resources rrepo.Repository, sessions *SessionStore) *DefaultBookingFlow {
	return &DefaultBookingFlow{Bookings: bookings, Resources: resources, Sessions: sessions}
}

func (f *DefaultBookingFlow) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// today is the current day at UTC midnight; all date comparisons in the
// flow happen at that granularity.
func (f *DefaultBookingFlow) today() time.Time {
	return models.DateOnly(f.now())
}
