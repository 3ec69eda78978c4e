// Package telegram connects the bot to the Telegram Bot API over long
// polling.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bossnaboss212/center/internal/bot"
)

// Handler consumes converted updates.
type Handler interface {
	Handle(ctx context.Context, u bot.Update) error
}

// Client implements bot.Messenger on top of the Bot API.
type Client struct {
	api *tgbotapi.BotAPI
}

// New authenticates with the Bot API.
func New(token string) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connecting to telegram: %w", err)
	}
	return &Client{api: api}, nil
}

// Username returns the bot's own username.
func (c *Client) Username() string {
	return c.api.Self.UserName
}

// Send posts a new HTML message.
func (c *Client) Send(_ context.Context, chatID int64, msg bot.Message) error {
	cfg := tgbotapi.NewMessage(chatID, msg.Text)
	cfg.ParseMode = tgbotapi.ModeHTML
	cfg.DisableWebPagePreview = true
	if markup := replyMarkup(msg); markup != nil {
		cfg.ReplyMarkup = markup
	}
	if _, err := c.api.Send(cfg); err != nil {
		return fmt.Errorf("sending message to %d: %w", chatID, err)
	}
	return nil
}

// Edit replaces the text and inline keyboard of an earlier message.
func (c *Client) Edit(_ context.Context, chatID int64, messageID int, msg bot.Message) error {
	cfg := tgbotapi.NewEditMessageText(chatID, messageID, msg.Text)
	cfg.ParseMode = tgbotapi.ModeHTML
	cfg.DisableWebPagePreview = true
	if len(msg.Keyboard) > 0 {
		kb := inlineKeyboard(msg.Keyboard)
		cfg.ReplyMarkup = &kb
	}
	if _, err := c.api.Request(cfg); err != nil {
		if isNotModified(err) {
			return nil
		}
		return fmt.Errorf("editing message %d in %d: %w", messageID, chatID, err)
	}
	return nil
}

// Answer acknowledges a button press, optionally as an alert.
func (c *Client) Answer(_ context.Context, callbackID, text string, alert bool) error {
	cfg := tgbotapi.NewCallback(callbackID, text)
	cfg.ShowAlert = alert
	if _, err := c.api.Request(cfg); err != nil {
		return fmt.Errorf("answering callback: %w", err)
	}
	return nil
}

// SendDocument uploads data as a file named name.
func (c *Client) SendDocument(_ context.Context, chatID int64, name string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	if _, err := c.api.Send(doc); err != nil {
		return fmt.Errorf("sending document %s to %d: %w", name, chatID, err)
	}
	return nil
}

// Run long-polls for updates and feeds them to h one at a time until ctx is
// canceled. Handler errors are logged by the handler and do not stop polling.
func (c *Client) Run(ctx context.Context, h Handler, timeout int) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = timeout
	updates := c.api.GetUpdatesChan(cfg)
	defer c.api.StopReceivingUpdates()

	slog.Info("polling telegram", "bot", c.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-updates:
			if !ok {
				return nil
			}
			u, ok := convert(raw)
			if !ok {
				continue
			}
			_ = h.Handle(ctx, u)
		}
	}
}

// convert maps a Bot API update to a bot.Update. Only text messages and
// button presses are kept.
func convert(raw tgbotapi.Update) (bot.Update, bool) {
	switch {
	case raw.CallbackQuery != nil:
		q := raw.CallbackQuery
		u := bot.Update{
			From:         sender(q.From),
			CallbackID:   q.ID,
			CallbackData: q.Data,
		}
		if q.Message != nil {
			u.ChatID = q.Message.Chat.ID
			u.MessageID = q.Message.MessageID
		} else {
			u.ChatID = u.From.ID
		}
		return u, true

	case raw.Message != nil && raw.Message.Text != "":
		m := raw.Message
		return bot.Update{
			ChatID: m.Chat.ID,
			From:   sender(m.From),
			Text:   m.Text,
		}, true
	}
	return bot.Update{}, false
}

func sender(u *tgbotapi.User) bot.Sender {
	if u == nil {
		return bot.Sender{}
	}
	return bot.Sender{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.UserName,
	}
}

func inlineKeyboard(rows [][]bot.Button) tgbotapi.InlineKeyboardMarkup {
	out := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		out = append(out, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(out...)
}

// replyMarkup picks the single markup a message can carry. An inline
// keyboard wins over a menu change.
func replyMarkup(msg bot.Message) any {
	switch {
	case len(msg.Keyboard) > 0:
		return inlineKeyboard(msg.Keyboard)
	case len(msg.Menu) > 0:
		rows := make([][]tgbotapi.KeyboardButton, 0, len(msg.Menu))
		for _, row := range msg.Menu {
			buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
			for _, text := range row {
				buttons = append(buttons, tgbotapi.NewKeyboardButton(text))
			}
			rows = append(rows, buttons)
		}
		kb := tgbotapi.NewReplyKeyboard(rows...)
		kb.ResizeKeyboard = true
		return kb
	case msg.RemoveMenu:
		return tgbotapi.NewRemoveKeyboard(true)
	}
	return nil
}

func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}
