package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"domik/config"
	"domik/models"
	"domik/services/booking"

	"go.uber.org/zap"

	tele "gopkg.in/telebot.v3"
)

// MyBookings handles the /bookings command.
func (h *BotHandler) MyBookings(c tele.Context) error {
	return h.showBookings(c, "")
}

// showBookings lists the user's future confirmed bookings, one button
// per booking. With editText set the current message is edited in
// place, otherwise a new one is sent.
func (h *BotHandler) showBookings(c tele.Context, editText string) error {
	userID := c.Sender().ID
	list, err := h.Bookings.FutureConfirmedByUser(userID, models.DateOnly(time.Now()))
	if err != nil {
		return h.fail(c, "failed to list bookings", err)
	}
	if len(list) == 0 {
		if editText != "" {
			return c.Edit(editText + config.Texts.BookingsNotFound)
		}
		return c.Send(config.Texts.BookingsNotFound)
	}

	rows := make([][]tele.InlineButton, 0, len(list))
	for _, b := range list {
		label := fmt.Sprintf("%s (%s → %s)", h.resourceLocation(&b), formatDay(b.CheckIn), formatDay(b.CheckOut))
		rows = append(rows, []tele.InlineButton{{
			Text: label,
			Data: fmt.Sprintf("res:%d:!", b.ID),
		}})
	}
	markup := &tele.ReplyMarkup{InlineKeyboard: rows}
	if editText != "" {
		return c.Edit(editText, markup)
	}
	return c.Send(config.Texts.MyBookings, markup)
}

// MyBookingList returns from a booking card to the bookings list.
// Payload: "my_booking:<removeIDs>".
func (h *BotHandler) MyBookingList(c tele.Context, removeIDs string) error {
	h.removeGallery(c, removeIDs)
	return h.showBookings(c, config.Texts.MyBookings)
}

// CancelMyBooking voids an upcoming booking and tells the managers how
// much to refund. Payload: "cancel_my_booking:<id>:<removeIDs>".
func (h *BotHandler) CancelMyBooking(c tele.Context, args string) error {
	idStr, removeIDs, _ := strings.Cut(args, ":")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return c.Send(config.Texts.WrongID)
	}
	h.removeGallery(c, removeIDs)

	bkg, err := h.Flow.Cancel(uint(id))
	if errors.Is(err, booking.ErrNotCancellable) {
		return h.showBookings(c, config.Texts.CancelError)
	}
	if err != nil {
		return h.fail(c, "failed to cancel booking", err)
	}

	loc := h.resourceLocation(bkg)
	note := fmt.Sprintf("❗❗❗%s❗❗❗\n%s: @%s (%d)\n%s: %s\n%s: %s → %s\n%s: %.2f\n%s: %.2f\n",
		config.Texts.BookingCanceled,
		config.Texts.User, c.Sender().Username, c.Sender().ID,
		config.Texts.Address, loc,
		config.Texts.Period, formatDay(bkg.CheckIn), formatDay(bkg.CheckOut),
		config.Texts.Amount, bkg.Amount,
		config.Texts.RefundAmount, bkg.Amount*config.AppConfig.RefundPercent)
	if _, err := h.Bot.Send(tele.ChatID(config.AppConfig.ManagersChat), note); err != nil {
		h.Logger.Error("failed to notify managers about cancellation", zap.Error(err))
	}

	return h.showBookings(c, fmt.Sprintf(config.Texts.CancelApply, loc))
}
