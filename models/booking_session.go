package models

import "time"

// BookingSession holds one user's in-progress date selection between the
// first calendar tap and invoice creation. It lives only in memory and is
// never authoritative for conflict detection.
//
// Invariant: CheckOut != nil implies CheckIn != nil and CheckIn <= CheckOut.
type BookingSession struct {
	ResourceID    uint       `json:"res_id"`
	CheckIn       *time.Time `json:"check_in,omitempty"`
	CheckOut      *time.Time `json:"check_out,omitempty"`
	CalendarYear  int        `json:"calendar_year"`
	CalendarMonth int        `json:"calendar_month"`
	Created       time.Time  `json:"created"`
}

// Expired reports whether the session is stale: still missing a check-out
// date and older than maxAge.
func (s *BookingSession) Expired(now time.Time, maxAge time.Duration) bool {
	return s.CheckOut == nil && now.Sub(s.Created) > maxAge
}
