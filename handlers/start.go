package handlers

import (
	"strconv"
	"strings"

	"domik/config"

	tele "gopkg.in/telebot.v3"
)

// Start shows the first page of the resource list.
func (h *BotHandler) Start(c tele.Context) error {
	total, err := h.Resources.CountEnabled()
	if err != nil {
		return h.fail(c, "failed to count resources", err)
	}
	if total == 0 {
		return c.Send(config.Texts.NoRecords)
	}
	kb, err := h.resourcesKeyboard(1)
	if err != nil {
		return h.fail(c, "failed to build resource list", err)
	}
	return c.Send(config.Texts.PickAddress, kb)
}

// Page flips the resource list. Payload: "page:<page>:<removeIDs>".
// When gallery ids are attached the gallery is dropped and the list
// starts over at page one; otherwise only the keyboard is swapped.
func (h *BotHandler) Page(c tele.Context, args string) error {
	pageStr, removeIDs, _ := strings.Cut(args, ":")
	if h.removeGallery(c, removeIDs) {
		return nil
	}
	page, err := strconv.Atoi(pageStr)
	if err != nil {
		page = 1
	}
	kb, err := h.resourcesKeyboard(page)
	if err != nil {
		return h.fail(c, "failed to build resource list", err)
	}
	return c.Edit(kb)
}
