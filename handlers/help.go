package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"domik/config"

	"go.uber.org/zap"

	tele "gopkg.in/telebot.v3"
)

// Help starts the talk-to-manager flow: the user's next private text
// message is forwarded to the managers chat.
func (h *BotHandler) Help(c tele.Context) error {
	markup := &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{{
		{Text: config.Texts.Cancel, Data: "help_cancel"},
	}}}
	msg, err := h.Bot.Send(c.Sender(), config.Texts.HelpQuestion, markup)
	if err != nil {
		return err
	}

	userID := c.Sender().ID
	h.helpMu.Lock()
	h.helpWaiting[userID] = struct{}{}
	h.helpPrompts[userID] = msg.ID
	h.helpMu.Unlock()
	return nil
}

// HelpCancel aborts the pending help request and removes the prompt.
func (h *BotHandler) HelpCancel(c tele.Context) error {
	userID := c.Sender().ID
	h.helpMu.Lock()
	delete(h.helpWaiting, userID)
	delete(h.helpPrompts, userID)
	h.helpMu.Unlock()

	if err := c.Respond(&tele.CallbackResponse{Text: config.Texts.HelpCanceled}); err != nil {
		h.Logger.Debug("failed to ack help cancel", zap.Error(err))
	}
	return c.Delete()
}

// Text routes free-form messages: manager replies in the managers chat
// go back to the original user, private texts of users in the help flow
// go to the managers.
func (h *BotHandler) Text(c tele.Context) error {
	if c.Chat().ID == config.AppConfig.ManagersChat {
		return h.managerReply(c)
	}
	if c.Chat().Type != tele.ChatPrivate {
		return nil
	}

	userID := c.Sender().ID
	h.helpMu.Lock()
	_, waiting := h.helpWaiting[userID]
	promptID := h.helpPrompts[userID]
	delete(h.helpWaiting, userID)
	delete(h.helpPrompts, userID)
	h.helpMu.Unlock()
	if !waiting {
		return nil
	}
	// A command aborts the help flow silently.
	if strings.HasPrefix(c.Message().Text, "/") {
		return nil
	}

	if _, err := h.Bot.Forward(tele.ChatID(config.AppConfig.ManagersChat), c.Message()); err != nil {
		return h.fail(c, "failed to forward help message", err)
	}
	if err := c.Send(config.Texts.SuccessHelp); err != nil {
		return err
	}
	if promptID != 0 {
		err := h.Bot.Delete(&tele.StoredMessage{MessageID: strconv.Itoa(promptID), ChatID: userID})
		if err != nil {
			h.Logger.Debug("failed to delete help prompt", zap.Error(err))
		}
	}
	return nil
}

// Media relays photo and document replies from the managers chat.
func (h *BotHandler) Media(c tele.Context) error {
	if c.Chat().ID == config.AppConfig.ManagersChat {
		return h.managerReply(c)
	}
	return nil
}

// managerReply delivers a reply to a forwarded help message back to its
// author, prefixed so the user knows a manager is talking. Replies to
// messages without a visible original sender are ignored.
func (h *BotHandler) managerReply(c tele.Context) error {
	m := c.Message()
	if m.ReplyTo == nil || m.ReplyTo.OriginalSender == nil {
		return nil
	}
	target := tele.ChatID(m.ReplyTo.OriginalSender.ID)
	title := config.Texts.ManagerTitle

	switch {
	case m.Photo != nil:
		photo := &tele.Photo{
			File:    m.Photo.File,
			Caption: fmt.Sprintf("%s\n%s", title, m.Caption),
		}
		_, err := h.Bot.Send(target, photo)
		return err
	case m.Document != nil:
		doc := &tele.Document{
			File:     m.Document.File,
			FileName: m.Document.FileName,
			Caption:  fmt.Sprintf("%s\n%s", title, m.Caption),
		}
		_, err := h.Bot.Send(target, doc)
		return err
	case m.Text != "":
		_, err := h.Bot.Send(target, fmt.Sprintf("%s\n%s", title, m.Text))
		return err
	}
	return nil
}
