package booking

import (
	"fmt"
	"time"

	"domik/models"
)

func (f *DefaultBookingFlow) StartSession(userID int64, resourceID uint) {
	f.Sessions.Create(userID, resourceID, f.now())
}

func (f *DefaultBookingFlow) Session(userID int64) (*models.BookingSession, error) {
	sess, ok := f.Sessions.Get(userID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

func (f *DefaultBookingFlow) SetCalendarMonth(userID int64, year, month int) error {
	return f.Sessions.Update(userID, func(s *models.BookingSession) error {
		s.CalendarYear = year
		s.CalendarMonth = month
		return nil
	})
}

func (f *DefaultBookingFlow) CancelSession(userID int64) {
	f.Sessions.Remove(userID)
}

// PickCheckIn records the check-in day. Any previously picked check-out
// is discarded, the range is re-chosen from scratch.
func (f *DefaultBookingFlow) PickCheckIn(userID int64, day time.Time) error {
	picked := models.DateOnly(day)
	return f.Sessions.Update(userID, func(s *models.BookingSession) error {
		s.CheckIn = &picked
		s.CheckOut = nil
		return nil
	})
}

// PickCheckOut completes the range. The overlap check runs against a
// fresh store query rather than the grid the user tapped on, so a
// booking confirmed since the calendar rendered is still caught. On
// overlap the check-in is cleared and the caller restarts selection.
func (f *DefaultBookingFlow) PickCheckOut(userID int64, day time.Time) error {
	sess, ok := f.Sessions.Get(userID)
	if !ok {
		return ErrSessionNotFound
	}
	if sess.CheckIn == nil {
		return ErrSessionIncomplete
	}

	picked := models.DateOnly(day)
	checkIn := models.DateOnly(*sess.CheckIn)
	if !picked.After(checkIn) {
		return ErrDateOrder
	}

	overlap, err := f.Bookings.ConfirmedOverlapping(sess.ResourceID, 0, checkIn, picked)
	if err != nil {
		return fmt.Errorf("failed to verify range for resource %d: %w", sess.ResourceID, err)
	}
	if overlap {
		if err := f.Sessions.Update(userID, func(s *models.BookingSession) error {
			s.CheckIn = nil
			s.CheckOut = nil
			return nil
		}); err != nil {
			return err
		}
		return ErrRangeOverlap
	}

	return f.Sessions.Update(userID, func(s *models.BookingSession) error {
		s.CheckOut = &picked
		return nil
	})
}
