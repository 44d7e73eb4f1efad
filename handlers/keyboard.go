package handlers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"domik/config"
	"domik/services/booking"

	tele "gopkg.in/telebot.v3"
)

// chunkButtons splits buttons into keyboard rows of at most size.
func chunkButtons(buttons []tele.InlineButton, size int) [][]tele.InlineButton {
	if size < 1 {
		size = 1
	}
	var rows [][]tele.InlineButton
	for len(buttons) > 0 {
		n := size
		if n > len(buttons) {
			n = len(buttons)
		}
		rows = append(rows, buttons[:n])
		buttons = buttons[n:]
	}
	return rows
}

func splitIDs(ids string) []int {
	var out []int
	for _, raw := range strings.Split(ids, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// resourcesKeyboard builds one page of the resource list. Buttons carry
// "res:<id>:<page>" payloads, the nav row flips pages.
func (h *BotHandler) resourcesKeyboard(page int) (*tele.ReplyMarkup, error) {
	total, err := h.Resources.CountEnabled()
	if err != nil {
		return nil, err
	}
	markup := &tele.ReplyMarkup{}
	if total == 0 {
		return markup, nil
	}

	perPage := config.AppConfig.RecordsPerPage
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	items, err := h.Resources.ListEnabled(page, perPage)
	if err != nil {
		return nil, err
	}
	buttons := make([]tele.InlineButton, 0, len(items))
	for _, res := range items {
		buttons = append(buttons, tele.InlineButton{
			Text: res.Location,
			Data: fmt.Sprintf("res:%d:%d", res.ID, page),
		})
	}
	rows := chunkButtons(buttons, config.AppConfig.RecordsPerRow)

	var nav []tele.InlineButton
	if page > 1 {
		nav = append(nav, tele.InlineButton{Text: config.Texts.GoBack, Data: fmt.Sprintf("page:%d:", page-1)})
	}
	nav = append(nav, tele.InlineButton{
		Text: fmt.Sprintf("%s %d/%d", config.Texts.Page, page, totalPages),
		Data: "null",
	})
	if page < totalPages {
		nav = append(nav, tele.InlineButton{Text: config.Texts.GoNext, Data: fmt.Sprintf("page:%d:", page+1)})
	}
	markup.InlineKeyboard = append(rows, nav)
	return markup, nil
}

// markupFromCells converts a rendered calendar grid into inline buttons.
func markupFromCells(cells [][]booking.CalendarCell) *tele.ReplyMarkup {
	rows := make([][]tele.InlineButton, 0, len(cells))
	for _, row := range cells {
		buttons := make([]tele.InlineButton, 0, len(row))
		for _, cell := range row {
			buttons = append(buttons, tele.InlineButton{Text: cell.Label, Data: cell.Data})
		}
		rows = append(rows, buttons)
	}
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}
