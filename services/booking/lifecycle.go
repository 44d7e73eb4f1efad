package booking

import (
	"encoding/hex"
	"fmt"
	"time"

	"domik/models"

	"github.com/google/uuid"
)

// newOrderRef builds a human-traceable order token: unix seconds plus a
// short random suffix, e.g. "1718012345-a3f09c".
func newOrderRef(now time.Time) string {
	u := uuid.New()
	return fmt.Sprintf("%d-%s", now.Unix(), hex.EncodeToString(u[:])[:6])
}

// ConfirmSelection turns the user's completed session into a
// waiting_payment booking row. The session is dropped here; whether the
// invoice dispatch that follows succeeds or not, selection is over.
func (f *DefaultBookingFlow) ConfirmSelection(userID int64) (*models.Booking, error) {
	sess, ok := f.Sessions.Get(userID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.CheckIn == nil || sess.CheckOut == nil {
		return nil, ErrSessionIncomplete
	}

	b := &models.Booking{
		TelegramID: userID,
		ResourceID: sess.ResourceID,
		CheckIn:    sess.CheckIn,
		CheckOut:   sess.CheckOut,
		Status:     models.StatusWaitingPayment,
		OrderRef:   newOrderRef(f.now()),
	}
	if err := f.Bookings.Create(b); err != nil {
		return nil, err
	}
	f.Sessions.Remove(userID)
	return b, nil
}

// InvoiceFailed marks a fresh booking failed when the invoice could not
// be delivered. Guarded on waiting_payment so a payment that somehow
// raced through is not clobbered.
func (f *DefaultBookingFlow) InvoiceFailed(bookingID uint) error {
	_, err := f.Bookings.UpdateStatus(bookingID, models.StatusWaitingPayment, models.StatusFailed, nil)
	return err
}

// PreAuthorize is the last gate before money moves. Checks run in a
// fixed order: the booking must still await payment, must carry both
// dates, must not conflict with a booking confirmed in the meantime,
// and the proposed charge must match the server-side price.
func (f *DefaultBookingFlow) PreAuthorize(bookingID uint, amountMinor int64) error {
	b, err := f.Bookings.GetByID(bookingID)
	if err != nil {
		return err
	}
	if b.Status != models.StatusWaitingPayment {
		return ErrNotPayable
	}
	if b.CheckIn == nil || b.CheckOut == nil {
		if _, err := f.Bookings.UpdateStatus(bookingID, models.StatusWaitingPayment, models.StatusFailed, nil); err != nil {
			return err
		}
		return ErrMissingDates
	}

	checkIn := models.DateOnly(*b.CheckIn)
	checkOut := models.DateOnly(*b.CheckOut)
	overlap, err := f.Bookings.ConfirmedOverlapping(b.ResourceID, b.ID, checkIn, checkOut)
	if err != nil {
		return fmt.Errorf("failed to verify range for booking %d: %w", bookingID, err)
	}
	if overlap {
		if _, err := f.Bookings.UpdateStatus(bookingID, models.StatusWaitingPayment, models.StatusConflict, nil); err != nil {
			return err
		}
		return ErrRangeConflict
	}

	res := b.Resource
	if res == nil {
		res, err = f.Resources.GetByID(b.ResourceID)
		if err != nil {
			return err
		}
	}
	if amountMinor != AmountMinor(Nights(checkIn, checkOut), res.Price) {
		return ErrAmountMismatch
	}
	return nil
}

// Finalize confirms a paid booking and stamps the amount actually
// charged. The guarded update makes it idempotent: replays and
// concurrent deliveries observe newlyConfirmed=false and must not
// re-notify anyone.
func (f *DefaultBookingFlow) Finalize(bookingID uint, paidMinor int64) (*models.Booking, bool, error) {
	b, err := f.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, false, err
	}
	if b.Status == models.StatusConfirmed {
		return b, false, nil
	}

	amount := float64(paidMinor) / 100
	n, err := f.Bookings.UpdateStatus(bookingID, models.StatusWaitingPayment, models.StatusConfirmed, &amount)
	if err != nil {
		return nil, false, err
	}
	if n == 0 {
		// Lost the race to another delivery of the same payment.
		current, err := f.Bookings.GetByID(bookingID)
		if err != nil {
			return nil, false, err
		}
		if current.Status == models.StatusConfirmed {
			return current, false, nil
		}
		return nil, false, ErrNotPayable
	}

	b.Status = models.StatusConfirmed
	b.Amount = amount
	return b, true, nil
}

// Cancel voids a confirmed booking whose stay has not started yet.
func (f *DefaultBookingFlow) Cancel(bookingID uint) (*models.Booking, error) {
	b, err := f.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.StatusConfirmed {
		return nil, ErrNotCancellable
	}
	if b.CheckIn == nil || !models.DateOnly(*b.CheckIn).After(f.today()) {
		return nil, ErrNotCancellable
	}

	n, err := f.Bookings.UpdateStatus(bookingID, models.StatusConfirmed, models.StatusCancelled, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotCancellable
	}
	b.Status = models.StatusCancelled
	return b, nil
}
