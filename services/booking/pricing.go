package booking

import (
	"math"
	"time"

	"domik/models"
)

// Nights returns the number of nights between check-in and check-out,
// i.e. the exclusive day difference. A one-night stay checks in one day
// and checks out the next.
func Nights(checkIn, checkOut time.Time) int {
	in := models.DateOnly(checkIn)
	out := models.DateOnly(checkOut)
	return int(math.Round(out.Sub(in).Hours() / 24))
}

// AmountMinor returns the charge for a stay in minor currency units
// (cents, kopecks). Resource prices are per night in major units.
func AmountMinor(nights int, pricePerNight float64) int64 {
	return int64(math.Round(float64(nights) * pricePerNight * 100))
}
