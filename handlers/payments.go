package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"domik/config"
	"domik/services/booking"

	"go.uber.org/zap"

	tele "gopkg.in/telebot.v3"
)

// Checkout re-validates a booking right before Telegram charges the
// user. Every rejection carries the reason the payer sees.
func (h *BotHandler) Checkout(c tele.Context) error {
	q := c.PreCheckoutQuery()
	id, err := strconv.ParseUint(q.Payload, 10, 64)
	if err != nil {
		return c.Accept(config.Texts.GenericError)
	}

	err = h.Flow.PreAuthorize(uint(id), int64(q.Total))
	switch {
	case err == nil:
		return c.Accept()
	case errors.Is(err, booking.ErrNotPayable):
		return c.Accept(config.Texts.PaymentNotPending)
	case errors.Is(err, booking.ErrMissingDates):
		return c.Accept(config.Texts.PaymentMissingDates)
	case errors.Is(err, booking.ErrRangeConflict):
		if aerr := c.Accept(config.Texts.PaymentConflict); aerr != nil {
			h.Logger.Error("failed to reject pre-checkout", zap.Error(aerr))
		}
		return c.Send(config.Texts.PaymentConflictNote)
	case errors.Is(err, booking.ErrAmountMismatch):
		return c.Accept(config.Texts.PaymentBadAmount)
	default:
		h.Logger.Error("pre-checkout validation failed",
			zap.Uint64("booking_id", id), zap.Error(err))
		return c.Accept(config.Texts.GenericError)
	}
}

// Payment finalizes a booking after Telegram reports the money moved.
// Duplicate deliveries confirm nothing and notify nobody twice.
func (h *BotHandler) Payment(c tele.Context) error {
	p := c.Message().Payment
	if p == nil {
		return nil
	}
	id, err := strconv.ParseUint(p.Payload, 10, 64)
	if err != nil {
		return c.Send(config.Texts.ErrorAfterPayment)
	}

	bkg, newly, err := h.Flow.Finalize(uint(id), int64(p.Total))
	if err != nil {
		h.Logger.Error("failed to finalize paid booking",
			zap.Uint64("booking_id", id), zap.Error(err))
		return c.Send(config.Texts.ErrorAfterPayment)
	}
	if !newly {
		return c.Send(config.Texts.AlreadyConfirmed)
	}

	loc := h.resourceLocation(bkg)
	note := fmt.Sprintf("🟢🟢🟢%s🟢🟢🟢\n%s: @%s (%d)\n%s: %s\n%s: %s → %s\n%s: %.2f\n",
		config.Texts.BookingCompleted,
		config.Texts.User, c.Sender().Username, c.Sender().ID,
		config.Texts.Address, loc,
		config.Texts.Period, formatDay(bkg.CheckIn), formatDay(bkg.CheckOut),
		config.Texts.Amount, bkg.Amount)
	if _, err := h.Bot.Send(tele.ChatID(config.AppConfig.ManagersChat), note); err != nil {
		h.Logger.Error("failed to notify managers about payment", zap.Error(err))
	}

	return c.Send(fmt.Sprintf("%s\n#%s: %s\n%s: %s\n%s: %s",
		config.Texts.SuccessBooking, bkg.OrderRef, loc,
		config.Texts.CheckIn, formatDay(bkg.CheckIn),
		config.Texts.CheckOut, formatDay(bkg.CheckOut)))
}
