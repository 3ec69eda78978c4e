package bot

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bossnaboss212/center/internal/auth"
	"github.com/bossnaboss212/center/internal/export"
	"github.com/bossnaboss212/center/internal/model"
	"github.com/bossnaboss212/center/internal/store"
)

var adminSections = map[string]string{
	"products": "📚 Produits – commandes rapides:\n" +
		"• /addproduct – ajouter un produit\n" +
		"• /listproducts – lister\n" +
		"• /toggleproduct &lt;sku&gt; – activer/désactiver\n" +
		"• /price &lt;sku&gt; &lt;prix&gt; – modifier prix",
	"stock": "📦 Stock:\n" +
		"• /stockin – entrée stock\n" +
		"• /stockout – sortie stock\n" +
		"• /inventory – inventaire rapide",
	"ledger": "🧾 Comptabilité:\n" +
		"• /recette – ajouter une recette\n" +
		"• /depense – ajouter une dépense\n" +
		"• /cash – solde de trésorerie",
	"payroll": "💰 Paie journalière:\n" +
		"• /pay – enregistrer une paie\n" +
		"• /paylist – paies récentes",
	"workers": "👷 Travailleurs:\n" +
		"• /addworker &lt;tg_id&gt; – définir rôle worker\n" +
		"• /presence &lt;tg_id&gt; &lt;PRESENT|ABSENT&gt; [rôle] – pointage\n" +
		"• /workers – liste du jour",
	"posts": "📰 Annonces:\n" +
		"• /post &lt;message&gt; – nouvelle annonce\n" +
		"• /broadcast – envoyer à tous",
}

func (b *Bot) cmdAdmin(ctx context.Context, ev *event, _ []string) error {
	return b.reply(ctx, ev, Message{Text: "Panneau d'administration:", Keyboard: adminKeyboard()})
}

func (b *Bot) cbAdmin(ctx context.Context, ev *event, section string) (string, bool, error) {
	if !b.isAdmin(ev) {
		ev.log.Warn("admin callback denied", "section", section)
		return deniedText, true, nil
	}

	switch section {
	case "stats":
		text, err := b.statsText(ctx)
		if err != nil {
			return "", false, err
		}
		return "", false, b.out.Edit(ctx, ev.ChatID, ev.MessageID, Message{Text: text, Keyboard: adminKeyboard()})
	case "export":
		return b.sendExports(ctx, ev)
	}

	help, ok := adminSections[section]
	if !ok {
		return "", false, nil
	}
	return "", false, b.out.Edit(ctx, ev.ChatID, ev.MessageID, Message{Text: help, Keyboard: adminKeyboard()})
}

// sendExports sends both CSV documents. Delivery failures are logged only.
func (b *Bot) sendExports(ctx context.Context, ev *event) (string, bool, error) {
	products, err := store.ListProducts(ctx, b.db)
	if err != nil {
		return "", false, err
	}
	orders, err := store.ListOrders(ctx, b.db)
	if err != nil {
		return "", false, err
	}

	var pbuf, obuf bytes.Buffer
	if err := export.WriteProducts(&pbuf, products); err != nil {
		return "", false, err
	}
	if err := export.WriteOrders(&obuf, orders); err != nil {
		return "", false, err
	}

	for name, data := range map[string][]byte{export.ProductsFile: pbuf.Bytes(), export.OrdersFile: obuf.Bytes()} {
		if err := b.out.SendDocument(ctx, ev.ChatID, name, data); err != nil {
			ev.log.Warn("sending export", "file", name, "error", err)
		}
	}
	ev.log.Info("exports generated", "products", len(products), "orders", len(orders))
	return "Exports générés", false, nil
}

func (b *Bot) cmdToken(ctx context.Context, ev *event, _ []string) error {
	token, err := auth.GenerateToken(b.jwtSecret, ev.account, b.cfg.TokenTTL)
	if err != nil {
		b.replyInternal(ctx, ev)
		return err
	}
	ev.log.Info("api token issued")
	return b.replyText(ctx, ev, "🔑 Jeton API (valide %s):\n<code>%s</code>", b.cfg.TokenTTL, token)
}

func (b *Bot) cmdListProducts(ctx context.Context, ev *event, _ []string) error {
	products, err := store.ListProducts(ctx, b.db)
	if err != nil {
		b.replyInternal(ctx, ev)
		return err
	}
	if len(products) == 0 {
		return b.replyText(ctx, ev, "Aucun produit")
	}
	lines := []string{"📚 <b>Produits</b>:"}
	for _, p := range products {
		flag := "🚫"
		if p.Active {
			flag = "✅"
		}
		lines = append(lines, fmt.Sprintf("• %s (%s) – %s – Stock: %d – %s",
			esc(p.Name), esc(p.Code), b.money(p.Price), p.StockQty, flag))
	}
	return b.replyText(ctx, ev, "%s", strings.Join(lines, "\n"))
}

func (b *Bot) cmdToggleProduct(ctx context.Context, ev *event, args []string) error {
	if len(args) != 1 {
		return b.replyText(ctx, ev, "Usage: /toggleproduct &lt;SKU&gt;")
	}
	code := strings.ToUpper(args[0])
	p, err := store.ToggleProduct(ctx, b.db, code)
	if err != nil {
		b.replyInternal(ctx, ev)
		return err
	}
	if p == nil {
		return b.replyText(ctx, ev, "Produit introuvable")
	}
	state := "désactivé"
	if p.Active {
		state = "activé"
	}
	ev.log.Info("product toggled", "code", code, "active", p.Active)
	return b.replyText(ctx, ev, "Produit %s – %s ✅", esc(code), state)
}

func (b *Bot) cmdPrice(ctx context.Context, ev *event, args []string) error {
	if len(args) != 2 {
		return b.replyText(ctx, ev, "Usage: /price &lt;SKU&gt; &lt;prix&gt;")
	}
	price, err := model.ParseAmount(args[1])
	if err != nil || price.IsNegative() {
		return b.replyText(ctx, ev, "Prix invalide")
	}
	code := strings.ToUpper(args[0])
	p, err := store.SetProductPrice(ctx, b.db, code, price)
	if err != nil {
		b.replyInternal(ctx, ev)
		return err
	}
	if p == nil {
		return b.replyText(ctx, ev, "Produit introuvable")
	}
	ev.log.Info("product price changed", "code", code, "price", p.Price.String())
	return b.replyText(ctx, ev, "Prix mis à jour ✅")
}

func (b *Bot) cmdInventory(ctx context.Context, ev *event, _ []string) error {
	products, err := store.ListProducts(ctx, b.db)
	if err != nil {
		b.replyInternal(ctx, ev)
		return err
	}
	if len(products) == 0 {
		return b.replyText(ctx, ev, "Inventaire vide")
	}
	lines := []string{"📦 <b>Inventaire</b>:"}
	for _, p := range products {
		lines = append(lines, fmt.Sprintf("• %s (%s) – Stock: %d", esc(p.Name), esc(p.Code), p.StockQty))
	}
	return b.replyText(ctx, ev, "%s", strings.Join(lines, "\n"))
}

func (b *Bot) cmdCash(ctx context.Context, ev *event, _ []string) error {
	balance, err := store.CashBalance(ctx, b.db)
	if err != nil {
		b.replyInternal(ctx, ev)
		return err
	}
	return b.replyText(ctx, ev, "💼 Trésorerie actuelle: <b>%s</b>", b.money(balance))
}

func (b *Bot) cmdPayList(ctx context.Context, ev *event, _ []string) error {
	start, end := store.DayBounds(b.now())
	payrolls, err := store.ListPayrollBetween(ctx, b.db, start, end)
	if err != nil {
		b.replyInternal(ctx, ev)
		return err
	}
	if len(payrolls) == 0 {
		return b.replyText(ctx, ev, "Aucune paie aujourd'hui")
	}
	lines := []string{"💰 <b>Paies du jour</b>:"}
	total := decimal.Zero
	for _, p := range payrolls {
		lines = append(lines, fmt.Sprintf("• %d – %s via %s", p.WorkerTelegramID, model.FormatMoney(p.Amount), p.Method))
		total = total.Add(p.Amount)
	}
	lines = append(lines, fmt.Sprintf("Total: <b>%s</b>", b.money(total)))
	return b.replyText(ctx, ev, "%s", strings.Join(lines, "\n"))
}

func (b *Bot) cmdAddWorker(ctx context.Context, ev *event, args []string) error {
	if len(args) != 1 {
		return b.replyText(ctx, ev, "Usage: /addworker &lt;tg_id&gt;")
	}
	tgID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return b.replyText(ctx, ev, "tg_id invalide")
	}
	if _, err := store.PromoteWorker(ctx, b.db, tgID); err != nil {
		b.replyInternal(ctx, ev)
		return err
	}
	ev.log.Info("worker promoted", "worker", tgID)
	return b.replyText(ctx, ev, "Travailleur enregistré ✅")
}

// cmdPresence records attendance: /presence <tg_id> <PRESENT|ABSENT> [rôle…].
func (b *Bot) cmdPresence(ctx context.Context, ev *event, args []string) error {
	if len(args) < 2 {
		return b.replyText(ctx, ev, "Usage: /presence &lt;tg_id&gt; &lt;PRESENT|ABSENT&gt; [rôle]")
	}
	tgID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return b.replyText(ctx, ev, "tg_id invalide")
	}
	status, ok := model.ParseShiftStatus(args[1])
	if !ok {
		return b.replyText(ctx, ev, "Statut: PRESENT ou ABSENT")
	}
	role := strings.Join(args[2:], " ")

	worker, err := store.GetAccountByTelegramID(ctx, b.db, tgID)
	if err != nil {
		b.replyInternal(ctx, ev)
		return err
	}
	if worker == nil {
		return b.replyText(ctx, ev, "Utilisateur inconnu – /addworker d'abord")
	}
	if _, err := store.RecordShift(ctx, b.db, worker.ID, status, role); err != nil {
		b.replyInternal(ctx, ev)
		return err
	}
	ev.log.Info("shift recorded", "worker", tgID, "status", status)
	return b.replyText(ctx, ev, "Présence enregistrée ✅")
}

func (b *Bot) cmdWorkers(ctx context.Context, ev *event, _ []string) error {
	start, end := store.DayBounds(b.now())
	shifts, err := store.ListShiftsBetween(ctx, b.db, start, end)
	if err != nil {
		b.replyInternal(ctx, ev)
		return err
	}
	if len(shifts) == 0 {
		return b.replyText(ctx, ev, "Aucun enregistrement aujourd'hui")
	}
	lines := []string{"👷 <b>Travailleurs du jour</b>:"}
	for _, s := range shifts {
		role := s.Role
		if role == "" {
			role = "-"
		}
		lines = append(lines, fmt.Sprintf("• %d – %s – %s", s.WorkerTelegramID, s.Status, esc(role)))
	}
	return b.replyText(ctx, ev, "%s", strings.Join(lines, "\n"))
}

func (b *Bot) cmdPost(ctx context.Context, ev *event, _ []string) error {
	_, text, _ := strings.Cut(strings.TrimSpace(ev.Text), " ")
	text = strings.TrimSpace(text)
	if text == "" {
		return b.replyText(ctx, ev, "Usage: /post &lt;message&gt;")
	}
	p, err := store.CreatePost(ctx, b.db, text)
	if err != nil {
		b.replyInternal(ctx, ev)
		return err
	}
	ev.log.Info("post created", "post", p.ID)
	return b.replyText(ctx, ev, "Annonce enregistrée ✅ – /broadcast pour envoyer")
}

// cmdBroadcast sends the latest post to every account and reports how many
// deliveries succeeded.
func (b *Bot) cmdBroadcast(ctx context.Context, ev *event, _ []string) error {
	post, err := store.LatestPost(ctx, b.db)
	if err != nil {
		b.replyInternal(ctx, ev)
		return err
	}
	if post == nil {
		return b.replyText(ctx, ev, "Aucune annonce à diffuser.")
	}
	accounts, err := store.ListAccounts(ctx, b.db)
	if err != nil {
		b.replyInternal(ctx, ev)
		return err
	}

	msg := Message{Text: "📰 <b>Annonce</b>\n\n" + esc(post.Text)}
	sent := 0
	for _, a := range accounts {
		if err := b.out.Send(ctx, a.TelegramID, msg); err != nil {
			ev.log.Warn("broadcast delivery failed", "to", a.TelegramID, "error", err)
			continue
		}
		sent++
	}
	ev.log.Info("broadcast sent", "post", post.ID, "sent", sent, "accounts", len(accounts))
	return b.replyText(ctx, ev, "Diffusion terminée. Envoyé à %d utilisateurs.", sent)
}

func (b *Bot) cmdStats(ctx context.Context, ev *event, _ []string) error {
	text, err := b.statsText(ctx)
	if err != nil {
		b.replyInternal(ctx, ev)
		return err
	}
	return b.replyText(ctx, ev, "%s", text)
}

func (b *Bot) statsText(ctx context.Context) (string, error) {
	now := b.now()
	dayStart, dayEnd := store.DayBounds(now)
	weekStart, weekEnd := store.WeekBounds(now)

	day, err := store.GetOrderStats(ctx, b.db, dayStart, dayEnd)
	if err != nil {
		return "", err
	}
	week, err := store.GetOrderStats(ctx, b.db, weekStart, weekEnd)
	if err != nil {
		return "", err
	}

	return "📊 <b>Statistiques</b>\n" +
		fmt.Sprintf("Commandes aujourd'hui: <b>%d</b> – CA: <b>%s</b> – Ticket moyen: %s\n",
			day.Count, b.money(day.Revenue), b.money(day.AverageTicket())) +
		fmt.Sprintf("Commandes semaine: <b>%d</b> – CA: <b>%s</b> – Ticket moyen: %s",
			week.Count, b.money(week.Revenue), b.money(week.AverageTicket())), nil
}
