package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bossnaboss212/center/internal/events"
	"github.com/bossnaboss212/center/internal/metrics"
	"github.com/bossnaboss212/center/internal/model"
	"github.com/bossnaboss212/center/internal/store"
)

func (b *Bot) cmdCatalogue(ctx context.Context, ev *event, _ []string) error {
	msg, err := b.catalogMessage(ctx, 0)
	if err != nil {
		b.replyInternal(ctx, ev)
		return err
	}
	return b.reply(ctx, ev, msg)
}

func (b *Bot) cbPage(ctx context.Context, ev *event, arg string) (string, bool, error) {
	page, err := strconv.Atoi(arg)
	if err != nil {
		return "", false, nil
	}
	msg, err := b.catalogMessage(ctx, page)
	if err != nil {
		return "", false, err
	}
	return "", false, b.out.Edit(ctx, ev.ChatID, ev.MessageID, msg)
}

func (b *Bot) cbAdd(ctx context.Context, ev *event, arg string) (string, bool, error) {
	productID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return "Produit indisponible", true, nil
	}

	cart, err := store.EnsureOpenCart(ctx, b.db, ev.account.ID)
	if err != nil {
		return "", false, err
	}
	item, err := store.AddToCart(ctx, b.db, cart.ID, productID)
	if errors.Is(err, store.ErrProductUnavailable) {
		return "Produit indisponible", true, nil
	}
	if err != nil {
		return "", false, err
	}

	ev.log.Info("added to cart", "cart", cart.ID, "product", productID, "qty", item.Qty)
	return "Ajouté au panier 🧺", false, nil
}

func (b *Bot) cbCart(ctx context.Context, ev *event, arg string) (string, bool, error) {
	switch arg {
	case "open":
		cart, err := store.EnsureOpenCart(ctx, b.db, ev.account.ID)
		if err != nil {
			return "", false, err
		}
		msg, n, err := b.cartMessage(ctx, cart.ID)
		if err != nil {
			return "", false, err
		}
		if n == 0 {
			return "Panier vide", true, nil
		}
		return "", false, b.out.Edit(ctx, ev.ChatID, ev.MessageID, msg)

	case "back":
		msg, err := b.catalogMessage(ctx, 0)
		if err != nil {
			return "", false, err
		}
		return "", false, b.out.Edit(ctx, ev.ChatID, ev.MessageID, msg)

	case "checkout":
		return b.checkout(ctx, ev)
	}
	return "", false, nil
}

func (b *Bot) checkout(ctx context.Context, ev *event) (string, bool, error) {
	order, err := store.Checkout(ctx, b.db, ev.account.ID)
	if errors.Is(err, store.ErrEmptyCart) {
		return "Panier vide", true, nil
	}
	metrics.RecordOrderOperation("checkout", err == nil)
	if err != nil {
		return "", false, err
	}

	ev.log.Info("order created", "order", order.ID, "total", order.Total.String(), "lines", len(order.Items))

	confirmation := Message{Text: fmt.Sprintf(
		"✅ Commande <b>#%d</b> créée !\nTotal: <b>%s</b>\n\n"+
			"Payez puis envoyez /payer &lt;id_commande&gt; &lt;montant&gt; pour valider le paiement.\n"+
			"Ex: <code>/payer %d %s</code>",
		order.ID, b.money(order.Total), order.ID, order.Total.StringFixed(0),
	)}
	// The order is committed from here on.
	if err := b.out.Edit(ctx, ev.ChatID, ev.MessageID, confirmation); err != nil {
		ev.log.Warn("editing order confirmation", "order", order.ID, "error", err)
		if err := b.out.Send(ctx, ev.ChatID, confirmation); err != nil {
			ev.log.Warn("sending order confirmation", "order", order.ID, "error", err)
		}
	}

	b.notifyAdmin(ctx, fmt.Sprintf("🆕 Nouvelle commande #%d – Total %s", order.ID, b.money(order.Total)))
	b.publish(ctx, events.Event{
		Type:     events.OrderCreated,
		OrderID:  order.ID,
		Status:   string(order.Status),
		Total:    order.Total,
		Currency: b.cfg.Currency,
	})
	return "", false, nil
}

// cbCartLine edits one line of the sender's own open cart and re-renders it.
func (b *Bot) cbCartLine(ctx context.Context, ev *event, action, arg string) (string, bool, error) {
	itemID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return "Élément introuvable", true, nil
	}

	item, err := store.GetCartItem(ctx, b.db, itemID)
	if err != nil {
		return "", false, err
	}
	if item == nil {
		return "Élément introuvable", true, nil
	}
	cart, err := store.GetCart(ctx, b.db, item.CartID)
	if err != nil {
		return "", false, err
	}
	if cart == nil || cart.AccountID != ev.account.ID {
		return "Élément introuvable", true, nil
	}

	var answer string
	switch action {
	case "cartinc":
		answer = "+1"
		_, err = store.AdjustCartItem(ctx, b.db, itemID, 1)
	case "cartdec":
		answer = "-1"
		_, err = store.AdjustCartItem(ctx, b.db, itemID, -1)
	case "cartdel":
		answer = "Supprimé"
		_, err = store.RemoveCartItem(ctx, b.db, itemID)
	}
	if errors.Is(err, store.ErrNotFound) {
		return "Élément introuvable", true, nil
	}
	if err != nil {
		return "", false, err
	}

	msg, _, err := b.cartMessage(ctx, cart.ID)
	if err != nil {
		return "", false, err
	}
	return answer, false, b.out.Edit(ctx, ev.ChatID, ev.MessageID, msg)
}

// trackOrder shows an order. Customers only see their own orders.
func (b *Bot) trackOrder(ctx context.Context, ev *event, text string) error {
	id, _ := strconv.ParseInt(text, 10, 64)
	order, err := store.GetOrder(ctx, b.db, id)
	if err != nil {
		b.replyInternal(ctx, ev)
		return err
	}
	if order == nil || (!b.isAdmin(ev) && order.AccountID != ev.account.ID) {
		return b.replyText(ctx, ev, "Commande introuvable.")
	}
	return b.reply(ctx, ev, b.orderMessage(order))
}

// cmdPay records a payment declared by the customer: /payer <id> <montant>.
func (b *Bot) cmdPay(ctx context.Context, ev *event, args []string) error {
	if len(args) != 2 {
		return b.replyText(ctx, ev, "Format: /payer &lt;id_commande&gt; &lt;montant&gt;")
	}
	orderID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return b.replyText(ctx, ev, "Valeurs invalides.")
	}
	amount, err := model.ParseAmount(args[1])
	if err != nil {
		return b.replyText(ctx, ev, "Valeurs invalides.")
	}

	order, err := store.RecordPayment(ctx, b.db, orderID, amount, b.cfg.Currency)
	metrics.RecordOrderOperation("payment", err == nil)
	if err != nil {
		b.replyInternal(ctx, ev)
		return err
	}
	if order == nil {
		return b.replyText(ctx, ev, "Commande introuvable.")
	}

	ev.log.Info("payment recorded", "order", order.ID, "amount", amount.String(), "total", order.Total.String())
	b.publish(ctx, events.Event{
		Type:     events.OrderPaid,
		OrderID:  order.ID,
		Status:   string(order.Status),
		Total:    order.Total,
		Amount:   &amount,
		Currency: b.cfg.Currency,
	})
	return b.replyText(ctx, ev, "Merci ! Paiement enregistré pour la commande #%d.\nTotal commande: %s\nMontant reçu: %s",
		order.ID, b.money(order.Total), b.money(amount))
}

func (b *Bot) showPosts(ctx context.Context, ev *event) error {
	posts, err := store.ListRecentPosts(ctx, b.db, 5)
	if err != nil {
		b.replyInternal(ctx, ev)
		return err
	}
	if len(posts) == 0 {
		return b.replyText(ctx, ev, "Aucune annonce pour le moment.")
	}
	for _, p := range posts {
		err := b.replyText(ctx, ev, "📰 <b>Annonce</b> (%s)\n\n%s", p.CreatedAt.Format("02/01/2006"), esc(p.Text))
		if err != nil {
			return err
		}
	}
	return nil
}
