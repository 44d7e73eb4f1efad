package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"domik/config"
	"domik/models"

	"go.uber.org/zap"

	tele "gopkg.in/telebot.v3"
)

// captionLimit is Telegram's hard cap on message captions.
const captionLimit = 1024

// Resource shows one resource card with its photo gallery.
// Payload: "res:<id>:<page>", or "res:<bookingID>:!" when opened from
// the user's bookings list, in which case the card includes the booked
// dates and a cancel button.
func (h *BotHandler) Resource(c tele.Context, args string) error {
	sid, page, _ := strings.Cut(args, ":")

	var bkg *models.Booking
	resID64, err := strconv.ParseUint(sid, 10, 64)
	if err != nil {
		return c.Send(config.Texts.WrongID)
	}
	resID := uint(resID64)
	if page == "!" {
		bkg, err = h.Bookings.GetByID(resID)
		if err != nil {
			return c.Send(config.Texts.NotFound)
		}
		resID = bkg.ResourceID
	}

	res, err := h.Resources.GetByID(resID)
	if err != nil {
		return c.Send(config.Texts.NotFound)
	}

	text := fmt.Sprintf("📍 %s\n💵 %s %v %s", res.Location, config.Texts.Price, res.Price, config.AppConfig.Currency)
	if res.Description != "" {
		text += fmt.Sprintf("\n📝 %s %s", config.Texts.Description, res.Description)
	}
	if bkg != nil {
		text += fmt.Sprintf("\n📅 %s: %s\n🚀 %s: %s",
			config.Texts.CheckIn, formatDay(bkg.CheckIn),
			config.Texts.CheckOut, formatDay(bkg.CheckOut))
	}
	if runes := []rune(text); len(runes) > captionLimit {
		text = string(runes[:captionLimit-5]) + "…"
	}

	album := h.loadGallery(res.ID)
	if err := c.Delete(); err != nil {
		h.Logger.Debug("failed to delete origin message", zap.Error(err))
	}

	var galleryIDs []string
	if len(album) > 0 {
		msgs, err := h.Bot.SendAlbum(c.Chat(), album)
		if err != nil {
			h.Logger.Error("failed to send gallery", zap.Error(err))
		}
		for _, m := range msgs {
			galleryIDs = append(galleryIDs, strconv.Itoa(m.ID))
		}
	}
	ids := strings.Join(galleryIDs, ",")

	var rows [][]tele.InlineButton
	if bkg != nil {
		row := []tele.InlineButton{{Text: config.Texts.GoBack, Data: "my_booking:" + ids}}
		if bkg.CheckIn != nil && models.DateOnly(*bkg.CheckIn).After(models.DateOnly(time.Now())) {
			row = append(row, tele.InlineButton{
				Text: config.Texts.CancelBook,
				Data: fmt.Sprintf("cancel_my_booking:%d:%s", bkg.ID, ids),
			})
		}
		rows = [][]tele.InlineButton{row}
	} else {
		rows = [][]tele.InlineButton{{
			{Text: config.Texts.GoBack, Data: fmt.Sprintf("page:%s:%s", page, ids)},
			{Text: config.Texts.GoBook, Data: fmt.Sprintf("book:%d:%s:%s", res.ID, page, ids)},
		}}
	}
	return c.Send(text, &tele.ReplyMarkup{InlineKeyboard: rows})
}

// loadGallery collects the photos that are actually present on disk.
func (h *BotHandler) loadGallery(resourceID uint) tele.Album {
	imgs, err := h.Resources.Images(resourceID)
	if err != nil {
		h.Logger.Error("failed to list images", zap.Error(err))
		return nil
	}
	var album tele.Album
	for _, img := range imgs {
		path := filepath.Join(config.AppConfig.UploadBase, strconv.FormatUint(uint64(resourceID), 10), img.Filename)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		album = append(album, &tele.Photo{File: tele.FromDisk(path)})
	}
	return album
}
