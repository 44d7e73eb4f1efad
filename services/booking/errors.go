package booking

import "errors"

var (
	// ErrSessionNotFound means the user has no live booking session.
	ErrSessionNotFound = errors.New("booking session not found or expired")
	// ErrSessionIncomplete means the session is missing one or both dates.
	ErrSessionIncomplete = errors.New("booking session is missing dates")
	// ErrDateOrder means the picked check-out is not after the check-in.
	ErrDateOrder = errors.New("check-out must be after check-in")
	// ErrRangeOverlap means the picked range overlaps a confirmed booking;
	// the session's check-in has been cleared.
	ErrRangeOverlap = errors.New("selected range overlaps a confirmed booking")

	// ErrNotPayable means the booking is not in waiting_payment.
	ErrNotPayable = errors.New("booking is not awaiting payment")
	// ErrMissingDates means the booking reached payment without dates; it
	// has been marked failed.
	ErrMissingDates = errors.New("booking has no dates")
	// ErrRangeConflict means another booking was confirmed for overlapping
	// dates in the meantime; the booking has been marked conflict.
	ErrRangeConflict = errors.New("dates conflict with a confirmed booking")
	// ErrAmountMismatch means the proposed charge does not equal the
	// server-side price for the range.
	ErrAmountMismatch = errors.New("charge amount does not match the booking")

	// ErrNotCancellable means the booking is not confirmed or its check-in
	// has already arrived.
	ErrNotCancellable = errors.New("booking can no longer be cancelled")
)
