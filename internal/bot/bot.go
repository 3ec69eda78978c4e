// Package bot turns chat updates into storefront and back-office actions.
// It knows nothing about the chat transport: updates come in as Update
// values and replies go out through a Messenger.
package bot

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bossnaboss212/center/internal/config"
	"github.com/bossnaboss212/center/internal/events"
	"github.com/bossnaboss212/center/internal/form"
	"github.com/bossnaboss212/center/internal/metrics"
	"github.com/bossnaboss212/center/internal/model"
	"github.com/bossnaboss212/center/internal/store"
)

// Button is one inline button. Data is returned in the callback.
type Button struct {
	Text string
	Data string
}

// Message is an outgoing text with optional keyboards. Keyboard is attached
// to the message itself; Menu replaces the persistent reply keyboard.
type Message struct {
	Text       string
	Keyboard   [][]Button
	Menu       [][]string
	RemoveMenu bool
}

// Messenger delivers replies. Implementations render Text as HTML.
type Messenger interface {
	Send(ctx context.Context, chatID int64, msg Message) error
	Edit(ctx context.Context, chatID int64, messageID int, msg Message) error
	Answer(ctx context.Context, callbackID, text string, alert bool) error
	SendDocument(ctx context.Context, chatID int64, name string, data []byte) error
}

// Publisher receives order lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// Sender identifies who produced an update.
type Sender struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
}

// Update is either a text message or a button press.
type Update struct {
	ChatID int64
	From   Sender
	Text   string

	// Set for button presses. MessageID is the message holding the button.
	CallbackID   string
	CallbackData string
	MessageID    int
}

// Bot dispatches updates. It is safe for concurrent use.
type Bot struct {
	db        *sql.DB
	cfg       *config.Config
	out       Messenger
	events    Publisher
	forms     *form.Engine
	jwtSecret string
	now       func() time.Time
}

// New wires a bot. events may be nil.
func New(db *sql.DB, cfg *config.Config, out Messenger, pub Publisher, jwtSecret string) *Bot {
	b := &Bot{
		db:        db,
		cfg:       cfg,
		out:       out,
		events:    pub,
		jwtSecret: jwtSecret,
		now:       time.Now,
	}
	b.forms = form.NewEngine(&form.SQLStore{DB: db, TTL: cfg.SessionTTL}, b.flows()...)
	return b
}

// event is an update enriched with the sender's account.
type event struct {
	Update
	account *model.Account
	log     *slog.Logger
}

const (
	deniedText   = "Accès refusé"
	internalText = "Erreur interne, réessayez plus tard."
)

var orderIDPattern = regexp.MustCompile(`^\d{1,9}$`)

// Handle processes one update. Errors are logged here; the returned error
// is only informative for the caller.
func (b *Bot) Handle(ctx context.Context, u Update) error {
	kind := "message"
	if u.CallbackID != "" {
		kind = "callback"
	}
	log := slog.With("event", uuid.NewString(), "kind", kind, "chat", u.ChatID, "from", u.From.ID)

	role := model.RoleCustomer
	if b.isAdminID(u.From.ID) {
		role = model.RoleAdmin
	}
	account, err := store.GetOrCreateAccount(ctx, b.db, u.From.ID, u.From.FirstName, u.From.LastName, u.From.Username, role)
	if err != nil {
		metrics.RecordUpdate(kind, false)
		log.Error("resolving account", "error", err)
		return err
	}

	ev := &event{Update: u, account: account, log: log}
	if kind == "callback" {
		err = b.handleCallback(ctx, ev)
	} else {
		err = b.handleMessage(ctx, ev)
	}
	metrics.RecordUpdate(kind, err == nil)
	if err != nil {
		log.Error("handling update", "error", err)
	}
	return err
}

func (b *Bot) handleMessage(ctx context.Context, ev *event) error {
	text := strings.TrimSpace(ev.Text)

	if name, args, ok := parseCommand(text); ok {
		if cmd, ok := b.commands()[name]; ok {
			if cmd.admin && !b.isAdmin(ev) {
				ev.log.Warn("admin command denied", "command", name)
				return b.reply(ctx, ev, Message{Text: deniedText})
			}
			return cmd.run(ctx, ev, args)
		}
	}

	if h, ok := b.menuButtons()[text]; ok {
		return h(ctx, ev)
	}

	res, err := b.forms.Advance(ctx, ev.ChatID, ev.Text)
	if err != nil {
		b.replyInternal(ctx, ev)
		return err
	}
	if res != nil {
		switch {
		case res.Completed:
			metrics.RecordFlow(res.Flow, metrics.FlowCompleted)
			ev.log.Info("form completed", "flow", res.Flow)
		case res.Invalid:
			metrics.RecordFlow(res.Flow, metrics.FlowInvalid)
		}
		return b.reply(ctx, ev, Message{Text: res.Reply})
	}

	if orderIDPattern.MatchString(text) {
		return b.trackOrder(ctx, ev, text)
	}
	return nil
}

func (b *Bot) handleCallback(ctx context.Context, ev *event) error {
	action, arg, _ := strings.Cut(ev.CallbackData, ":")

	var (
		answer string
		alert  bool
		err    error
	)
	switch action {
	case "noop":
	case "page":
		answer, alert, err = b.cbPage(ctx, ev, arg)
	case "add":
		answer, alert, err = b.cbAdd(ctx, ev, arg)
	case "cart":
		answer, alert, err = b.cbCart(ctx, ev, arg)
	case "cartinc", "cartdec", "cartdel":
		answer, alert, err = b.cbCartLine(ctx, ev, action, arg)
	case "admin":
		answer, alert, err = b.cbAdmin(ctx, ev, arg)
	default:
		ev.log.Warn("unknown callback", "data", ev.CallbackData)
	}
	if err != nil {
		answer, alert = internalText, true
	}

	if aerr := b.out.Answer(ctx, ev.CallbackID, answer, alert); aerr != nil {
		ev.log.Warn("answering callback", "error", aerr)
	}
	return err
}

// parseCommand splits "/name@bot a b" into "name" and its arguments.
func parseCommand(text string) (string, []string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", nil, false
	}
	fields := strings.Fields(text)
	name := strings.TrimPrefix(fields[0], "/")
	name, _, _ = strings.Cut(name, "@")
	return strings.ToLower(name), fields[1:], true
}

func (b *Bot) isAdminID(id int64) bool {
	return id != 0 && id == b.cfg.AdminChatID
}

func (b *Bot) isAdmin(ev *event) bool {
	return b.isAdminID(ev.From.ID)
}

func (b *Bot) reply(ctx context.Context, ev *event, msg Message) error {
	if err := b.out.Send(ctx, ev.ChatID, msg); err != nil {
		return fmt.Errorf("sending reply: %w", err)
	}
	return nil
}

func (b *Bot) replyText(ctx context.Context, ev *event, format string, args ...any) error {
	return b.reply(ctx, ev, Message{Text: fmt.Sprintf(format, args...)})
}

// replyInternal tells the user something went wrong. The cause is logged by
// Handle.
func (b *Bot) replyInternal(ctx context.Context, ev *event) {
	if err := b.out.Send(ctx, ev.ChatID, Message{Text: internalText}); err != nil {
		ev.log.Warn("sending error reply", "error", err)
	}
}

// notifyAdmin sends a side notification. Failures are logged and dropped.
func (b *Bot) notifyAdmin(ctx context.Context, text string) {
	if b.cfg.AdminChatID == 0 {
		return
	}
	if err := b.out.Send(ctx, b.cfg.AdminChatID, Message{Text: text}); err != nil {
		slog.Warn("admin notification failed", "error", err)
	}
}

// publish emits an order event. Failures are logged and dropped.
func (b *Bot) publish(ctx context.Context, e events.Event) {
	if b.events == nil {
		return
	}
	if err := b.events.Publish(ctx, e); err != nil {
		slog.Warn("publishing order event", "type", e.Type, "order", e.OrderID, "error", err)
	}
}

// Announce tells the administrator the bot is online.
func (b *Bot) Announce(ctx context.Context) {
	b.notifyAdmin(ctx, "✅ Jefflebot FR en ligne (polling)")
}
