package routes

import (
	"strings"

	"domik/config"
	"domik/handlers"
	"domik/middleware"

	"go.uber.org/zap"

	tele "gopkg.in/telebot.v3"
)

// RegisterBotRoutes wires commands, payments, and the callback
// dispatcher. Callback payloads are colon-delimited, the first segment
// picks the handler.
func RegisterBotRoutes(b *tele.Bot, h *handlers.BotHandler, logger *zap.Logger) error {
	err := b.SetCommands([]tele.Command{
		{Text: "start", Description: config.Texts.StartCommand},
		{Text: "bookings", Description: config.Texts.MyBookingsCommand},
		{Text: "help", Description: config.Texts.TalkManagerCommand},
	})
	if err != nil {
		return err
	}

	b.Use(middleware.BotRecover(logger))

	b.Handle("/start", h.Start)
	b.Handle("/bookings", h.MyBookings)
	b.Handle("/help", h.Help)

	b.Handle(tele.OnText, h.Text)
	b.Handle(tele.OnPhoto, h.Media)
	b.Handle(tele.OnDocument, h.Media)

	b.Handle(tele.OnCheckout, h.Checkout)
	b.Handle(tele.OnPayment, h.Payment)

	b.Handle(tele.OnCallback, func(c tele.Context) error {
		data := strings.TrimSpace(c.Callback().Data)
		action, args, _ := strings.Cut(data, ":")

		// datepick answers the query itself, sometimes with an alert.
		if action != "datepick" {
			if err := c.Respond(); err != nil {
				logger.Debug("failed to ack callback", zap.Error(err))
			}
		}

		switch action {
		case "res":
			return h.Resource(c, args)
		case "page":
			return h.Page(c, args)
		case "book":
			return h.Book(c, args)
		case "datepick":
			return h.DatePick(c, args)
		case "month":
			return h.Month(c, args)
		case "confirm_booking":
			return h.ConfirmBooking(c)
		case "my_booking":
			return h.MyBookingList(c, args)
		case "cancel_my_booking":
			return h.CancelMyBooking(c, args)
		case "help_cancel":
			return h.HelpCancel(c)
		case "null":
			return nil
		}
		return nil
	})
	return nil
}
