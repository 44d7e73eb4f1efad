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

// Book opens a booking session and shows the check-in calendar.
// Payload: "book:<resID>:<page>:<removeIDs>".
func (h *BotHandler) Book(c tele.Context, args string) error {
	parts := strings.SplitN(args, ":", 3)
	if len(parts) < 2 {
		return nil
	}
	if len(parts) == 3 {
		h.deleteMessages(c, parts[2])
	}
	resID, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return c.Send(config.Texts.WrongID)
	}
	page, _ := strconv.Atoi(parts[1])

	h.Flow.StartSession(c.Sender().ID, uint(resID))
	return h.sendCalendar(c, page, booking.StageCheckIn, "")
}

// sendCalendar renders the month stored in the session into the current
// message.
func (h *BotHandler) sendCalendar(c tele.Context, page int, stage booking.SelectionStage, prefix string) error {
	userID := c.Sender().ID
	sess, err := h.Flow.Session(userID)
	if err != nil {
		return c.Edit(config.Texts.LongSessionError)
	}
	ranges, err := h.Flow.BookedRanges(sess.ResourceID)
	if err != nil {
		return h.fail(c, "failed to resolve availability", err)
	}

	grid := booking.RenderCalendar(booking.CalendarView{
		Year:       sess.CalendarYear,
		Month:      time.Month(sess.CalendarMonth),
		Stage:      stage,
		CheckIn:    sess.CheckIn,
		Ranges:     ranges,
		ViewerID:   userID,
		ResourceID: sess.ResourceID,
		Page:       page,
		Today:      models.DateOnly(time.Now()),
	})

	stageName := config.Texts.CheckIn
	if stage == booking.StageCheckOut {
		stageName = config.Texts.CheckOut
	}
	text := fmt.Sprintf("%s%s %s:", prefix, config.Texts.PickDate, strings.ToLower(stageName))
	return c.Edit(text, markupFromCells(grid))
}

// DatePick records a tapped calendar day.
// Payload: "datepick:<stage>:<date>:<page>".
func (h *BotHandler) DatePick(c tele.Context, args string) error {
	parts := strings.SplitN(args, ":", 3)
	if len(parts) != 3 {
		return c.Respond()
	}
	day, err := time.ParseInLocation("2006-01-02", parts[1], time.UTC)
	if err != nil {
		return c.Respond()
	}
	page, _ := strconv.Atoi(parts[2])
	userID := c.Sender().ID

	switch booking.SelectionStage(parts[0]) {
	case booking.StageCheckIn:
		if err := c.Respond(); err != nil {
			h.Logger.Debug("failed to ack callback", zap.Error(err))
		}
		if err := h.Flow.PickCheckIn(userID, day); err != nil {
			return c.Edit(config.Texts.LongSessionError)
		}
		return h.sendCalendar(c, page, booking.StageCheckOut, "")

	case booking.StageCheckOut:
		err := h.Flow.PickCheckOut(userID, day)
		switch {
		case errors.Is(err, booking.ErrDateOrder):
			return c.Respond(&tele.CallbackResponse{Text: config.Texts.DateRangeError, ShowAlert: true})
		case errors.Is(err, booking.ErrRangeOverlap):
			if rerr := c.Respond(); rerr != nil {
				h.Logger.Debug("failed to ack callback", zap.Error(rerr))
			}
			return h.sendCalendar(c, page, booking.StageCheckIn, config.Texts.OverlapsError)
		case errors.Is(err, booking.ErrSessionNotFound), errors.Is(err, booking.ErrSessionIncomplete):
			return c.Edit(config.Texts.LongSessionError)
		case err != nil:
			return h.fail(c, "failed to record check-out", err)
		}
		if rerr := c.Respond(); rerr != nil {
			h.Logger.Debug("failed to ack callback", zap.Error(rerr))
		}
		return h.showSummary(c, page)
	}
	return c.Respond()
}

// showSummary replaces the calendar with the picked range and the
// confirm button.
func (h *BotHandler) showSummary(c tele.Context, page int) error {
	sess, err := h.Flow.Session(c.Sender().ID)
	if err != nil {
		return c.Edit(config.Texts.LongSessionError)
	}
	res, err := h.Resources.GetByID(sess.ResourceID)
	if err != nil {
		return h.fail(c, "failed to load resource", err)
	}
	text := fmt.Sprintf("%s\n%s\n%s: %s\n%s: %s",
		res.Location, config.Texts.PickedPeriod,
		config.Texts.CheckIn, formatDay(sess.CheckIn),
		config.Texts.CheckOut, formatDay(sess.CheckOut))
	markup := &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{{
		{Text: config.Texts.GoBack, Data: fmt.Sprintf("book:%d:%d:", sess.ResourceID, page)},
		{Text: config.Texts.Apply, Data: "confirm_booking"},
	}}}
	return c.Edit(text, markup)
}

// Month flips the calendar. Payload: "month:<year>:<month>:<stage>:<page>".
func (h *BotHandler) Month(c tele.Context, args string) error {
	parts := strings.SplitN(args, ":", 4)
	if len(parts) != 4 {
		return nil
	}
	year, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	if err := h.Flow.SetCalendarMonth(c.Sender().ID, year, month); err != nil {
		return c.Edit(config.Texts.LongSessionError)
	}
	page, _ := strconv.Atoi(parts[3])
	return h.sendCalendar(c, page, booking.SelectionStage(parts[2]), "")
}

// ConfirmBooking creates the booking row and sends the invoice.
func (h *BotHandler) ConfirmBooking(c tele.Context) error {
	bkg, err := h.Flow.ConfirmSelection(c.Sender().ID)
	switch {
	case errors.Is(err, booking.ErrSessionNotFound):
		return c.Edit(config.Texts.LongSessionError)
	case errors.Is(err, booking.ErrSessionIncomplete):
		return c.Send(config.Texts.SessionError)
	case err != nil:
		return h.fail(c, "failed to create booking", err)
	}

	res, err := h.Resources.GetByID(bkg.ResourceID)
	if err != nil {
		return h.fail(c, "failed to load resource for invoice", err)
	}
	title := fmt.Sprintf("%s %s", config.Texts.Booking, res.Location)
	description := fmt.Sprintf("%s: %s %s: %s",
		config.Texts.CheckIn, formatDay(bkg.CheckIn),
		config.Texts.CheckOut, formatDay(bkg.CheckOut))
	amount := booking.AmountMinor(booking.Nights(*bkg.CheckIn, *bkg.CheckOut), res.Price)

	invoice := &tele.Invoice{
		Title:       title,
		Description: description,
		Payload:     strconv.FormatUint(uint64(bkg.ID), 10),
		Currency:    config.AppConfig.Currency,
		Token:       config.AppConfig.ProviderToken,
		Prices:      []tele.Price{{Label: title, Amount: int(amount)}},
		Start:       fmt.Sprintf("booking%d", bkg.ID),
	}
	if _, err := h.Bot.Send(c.Sender(), invoice); err != nil {
		if ferr := h.Flow.InvoiceFailed(bkg.ID); ferr != nil {
			h.Logger.Error("failed to mark booking failed",
				zap.Uint("booking_id", bkg.ID), zap.Error(ferr))
		}
		return c.Edit(fmt.Sprintf("%s: %v", config.Texts.PaymentError, err))
	}
	return c.Delete()
}
