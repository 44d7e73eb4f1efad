package handlers

import (
	"strconv"
	"sync"
	"time"

	"domik/config"
	brepo "domik/database/repository/booking"
	rrepo "domik/database/repository/resource"
	"domik/models"
	"domik/services/booking"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// BotHandler carries the dependencies of every chat-facing handler.
type BotHandler struct {
	Bot       *tele.Bot
	Flow      booking.FlowService
	Resources rrepo.Repository
	Bookings  brepo.Repository
	Logger    *zap.Logger

	// Users whose next private message goes to the managers chat, and
	// the prompt messages to clean up afterwards.
	helpMu      sync.Mutex
	helpWaiting map[int64]struct{}
	helpPrompts map[int64]int
}

func NewBotHandler(bot *tele.Bot, flow booking.FlowService, resources rrepo.Repository, bookings brepo.Repository, logger *zap.Logger) *BotHandler {
	return &BotHandler{
		Bot:         bot,
		Flow:        flow,
		Resources:   resources,
		Bookings:    bookings,
		Logger:      logger,
		helpWaiting: make(map[int64]struct{}),
		helpPrompts: make(map[int64]int),
	}
}

// fail logs the underlying error and shows the user a generic message.
func (h *BotHandler) fail(c tele.Context, msg string, err error) error {
	h.Logger.Error(msg, zap.Error(err))
	return c.Send(config.Texts.GenericError)
}

func formatDay(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format("2006-01-02")
}

// resourceLocation prefers the preloaded association and falls back to
// a lookup.
func (h *BotHandler) resourceLocation(b *models.Booking) string {
	if b.Resource != nil {
		return b.Resource.Location
	}
	res, err := h.Resources.GetByID(b.ResourceID)
	if err != nil {
		h.Logger.Warn("failed to resolve resource of booking",
			zap.Uint("booking_id", b.ID), zap.Error(err))
		return "#" + strconv.FormatUint(uint64(b.ResourceID), 10)
	}
	return res.Location
}

// deleteMessages removes previously sent messages by their ids, given
// as a comma-separated list.
func (h *BotHandler) deleteMessages(c tele.Context, ids string) {
	if ids == "" {
		return
	}
	for _, raw := range splitIDs(ids) {
		err := h.Bot.Delete(&tele.StoredMessage{
			MessageID: strconv.Itoa(raw),
			ChatID:    c.Chat().ID,
		})
		if err != nil {
			h.Logger.Debug("failed to delete gallery message",
				zap.Int("message_id", raw), zap.Error(err))
		}
	}
}

// removeGallery deletes gallery messages and restores the resource list
// in place of the current message. Reports whether anything was done.
func (h *BotHandler) removeGallery(c tele.Context, ids string) bool {
	if ids == "" {
		return false
	}
	h.deleteMessages(c, ids)
	kb, err := h.resourcesKeyboard(1)
	if err != nil {
		h.Logger.Error("failed to rebuild resource list", zap.Error(err))
		return true
	}
	if err := c.Edit(config.Texts.PickAddress, kb); err != nil {
		h.Logger.Debug("failed to restore resource list", zap.Error(err))
	}
	return true
}
