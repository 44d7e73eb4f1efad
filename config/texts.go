package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// TextBundle holds every user-visible string for a single language.
type TextBundle struct {
	StartCommand       string `json:"start_command"`
	MyBookingsCommand  string `json:"my_bookings_command"`
	TalkManagerCommand string `json:"talk_manager_command"`

	NoRecords   string `json:"no_records"`
	PickAddress string `json:"pick_address"`
	WrongID     string `json:"wrong_id"`
	NotFound    string `json:"not_found"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Page        string `json:"page"`
	GoBack      string `json:"go_back"`
	GoNext      string `json:"go_next"`
	GoBook      string `json:"go_book"`

	CheckIn          string `json:"check_in"`
	CheckOut         string `json:"check_out"`
	PickDate         string `json:"pick_date"`
	PickedPeriod     string `json:"picked_period"`
	Apply            string `json:"apply"`
	DateRangeError   string `json:"date_range_error"`
	OverlapsError    string `json:"overlaps_error"`
	SessionError     string `json:"session_error"`
	LongSessionError string `json:"long_session_error"`

	Booking              string `json:"booking"`
	PaymentError         string `json:"payment_error"`
	PaymentNotPending    string `json:"payment_not_pending"`
	PaymentMissingDates  string `json:"payment_missing_dates"`
	PaymentConflict      string `json:"payment_conflict"`
	PaymentBadAmount     string `json:"payment_bad_amount"`
	PaymentConflictNote  string `json:"payment_conflict_note"`
	ErrorAfterPayment    string `json:"error_after_payment"`
	AlreadyConfirmed     string `json:"already_confirmed"`
	SuccessBooking       string `json:"success_booking"`
	BookingCompleted     string `json:"booking_completed"`
	BookingCanceled      string `json:"booking_canceled"`
	User                 string `json:"user"`
	Address              string `json:"address"`
	Period               string `json:"period"`
	Amount               string `json:"amount"`
	RefundAmount         string `json:"refund_amount"`

	MyBookings       string `json:"my_bookings"`
	BookingsNotFound string `json:"bookings_not_found"`
	CancelBook       string `json:"cancel_book"`
	CancelError      string `json:"cancel_error"`
	CancelApply      string `json:"cancel_apply"`

	Cancel       string `json:"cancel"`
	HelpQuestion string `json:"help_question"`
	HelpCanceled string `json:"help_canceled"`
	SuccessHelp  string `json:"success_help"`
	ManagerTitle string `json:"manager_title"`

	GenericError string `json:"generic_error"`
}

// Texts is the bundle for the configured language, loaded once at startup.
var Texts TextBundle

// LoadTexts reads the translation file and selects the configured language.
func LoadTexts(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read translation file %s: %w", path, err)
	}
	var bundles map[string]TextBundle
	if err := json.Unmarshal(raw, &bundles); err != nil {
		return fmt.Errorf("failed to parse translation file %s: %w", path, err)
	}
	bundle, ok := bundles[AppConfig.Language]
	if !ok {
		return fmt.Errorf("language %q not present in %s", AppConfig.Language, path)
	}
	Texts = bundle
	return nil
}
