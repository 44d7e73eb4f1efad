package booking

import (
	"fmt"

	"domik/models"
)

// BookedRanges resolves the occupied date ranges of a resource from the
// confirmed bookings in the store. A booking without a check-out blocks
// only its check-in day; ranges fully in the past are dropped. The
// result is never cached, a stale grid would let two guests race for
// the same dates.
func (f *DefaultBookingFlow) BookedRanges(resourceID uint) ([]models.BookedRange, error) {
	today := f.today()
	rows, err := f.Bookings.ConfirmedForResource(resourceID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve availability for resource %d: %w", resourceID, err)
	}

	ranges := make([]models.BookedRange, 0, len(rows))
	for _, b := range rows {
		if b.CheckIn == nil {
			continue
		}
		start := models.DateOnly(*b.CheckIn)
		end := start
		if b.CheckOut != nil {
			end = models.DateOnly(*b.CheckOut)
		}
		if end.Before(today) {
			continue
		}
		ranges = append(ranges, models.BookedRange{
			TelegramID: b.TelegramID,
			Start:      start,
			End:        end,
		})
	}
	return ranges, nil
}
