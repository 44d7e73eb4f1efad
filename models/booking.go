package models

import "time"

// BookingStatus is the closed set of booking lifecycle states.
type BookingStatus string

const (
	StatusPending        BookingStatus = "pending"
	StatusWaitingPayment BookingStatus = "waiting_payment"
	StatusFailed         BookingStatus = "failed"
	StatusConflict       BookingStatus = "conflict"
	StatusCancelled      BookingStatus = "cancelled"
	StatusConfirmed      BookingStatus = "confirmed"
)

// transitions is the legality table for status changes. A booking never
// returns to pending or waiting_payment once it has left that state.
var transitions = map[BookingStatus]map[BookingStatus]bool{
	StatusPending: {
		StatusWaitingPayment: true,
	},
	StatusWaitingPayment: {
		StatusFailed:    true,
		StatusConflict:  true,
		StatusConfirmed: true,
	},
	StatusConfirmed: {
		StatusCancelled: true,
	},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to BookingStatus) bool {
	return transitions[from][to]
}

// Booking is a reservation attempt or a confirmed reservation. A row is
// created the moment a user confirms a proposed date range, never earlier.
type Booking struct {
	ID         uint          `gorm:"primarykey" json:"id"`
	TelegramID int64         `gorm:"index;not null" json:"telegram_id"`
	ResourceID uint          `gorm:"index;not null" json:"resource_id"`
	CheckIn    *time.Time    `gorm:"type:date" json:"check_in,omitempty"`
	CheckOut   *time.Time    `gorm:"type:date" json:"check_out,omitempty"`
	Created    time.Time     `gorm:"autoCreateTime" json:"created"`
	Status     BookingStatus `gorm:"type:varchar(20);default:pending" json:"status"`
	Amount     float64       `gorm:"default:0" json:"amount"`
	// OrderRef is the idempotency reference handed to the payment provider.
	// It is distinct from the row identifier.
	OrderRef string `gorm:"column:order_ref;size:40" json:"order_ref,omitempty"`

	Resource *Resource `json:"resource,omitempty"`
}

// BookedRange is the derived availability view of a confirmed booking,
// computed on demand and never cached across requests.
type BookedRange struct {
	TelegramID int64
	Start      time.Time
	End        time.Time
}

// Contains reports whether day falls inside the range, endpoints included.
func (r BookedRange) Contains(day time.Time) bool {
	return !day.Before(r.Start) && !day.After(r.End)
}

// DateOnly truncates a timestamp to a civil date at UTC midnight. All
// calendar arithmetic in the engine runs on values produced by it.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
