package bot

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bossnaboss212/center/internal/model"
	"github.com/bossnaboss212/center/internal/store"
)

// pageSize is the number of products per catalog page.
const pageSize = 6

const catalogTitle = "🛍️ Catalogue – choisissez des produits:"

func mainMenu(admin bool) [][]string {
	menu := [][]string{
		{menuOrder, menuTrack},
		{menuPosts, menuJob},
	}
	if admin {
		menu = append(menu, []string{menuAdmin})
	}
	return menu
}

func adminKeyboard() [][]Button {
	return [][]Button{
		{{"📚 Produits", "admin:products"}, {"📦 Stock", "admin:stock"}},
		{{"🧾 Comptabilité", "admin:ledger"}, {"💰 Paie", "admin:payroll"}},
		{{"👷 Travailleurs", "admin:workers"}, {"📰 Annonces", "admin:posts"}},
		{{"📊 Statistiques", "admin:stats"}, {"📤 Export CSV", "admin:export"}},
	}
}

// catalogMessage renders one page of active products with add buttons.
func (b *Bot) catalogMessage(ctx context.Context, page int) (Message, error) {
	if page < 0 {
		page = 0
	}
	products, total, err := store.ListActiveProducts(ctx, b.db, page*pageSize, pageSize)
	if err != nil {
		return Message{}, err
	}

	var kb [][]Button
	for _, p := range products {
		kb = append(kb, []Button{{
			Text: fmt.Sprintf("➕ %s (%s)", p.Name, b.money(p.Price)),
			Data: fmt.Sprintf("add:%d", p.ID),
		}})
	}

	var nav []Button
	if page > 0 {
		nav = append(nav, Button{"⬅️", fmt.Sprintf("page:%d", page-1)})
	}
	if (page+1)*pageSize < total {
		nav = append(nav, Button{"➡️", fmt.Sprintf("page:%d", page+1)})
	}
	if len(nav) > 0 {
		kb = append(kb, nav)
	}
	kb = append(kb, []Button{{"🧺 Voir le panier", "cart:open"}})

	text := catalogTitle
	if total == 0 {
		text += "\n\nAucun produit disponible pour le moment."
	}
	return Message{Text: text, Keyboard: kb}, nil
}

// cartMessage renders the cart editor and reports how many lines it has.
func (b *Bot) cartMessage(ctx context.Context, cartID int64) (Message, int, error) {
	items, err := store.ListCartItems(ctx, b.db, cartID)
	if err != nil {
		return Message{}, 0, err
	}

	lines := []string{fmt.Sprintf("🧺 <b>Panier</b> – Total: <b>%s</b>", b.money(store.CartTotal(items)))}
	var kb [][]Button
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("• %s x%d – %s", esc(it.ProductName), it.Qty, b.money(it.LineTotal())))
		kb = append(kb, []Button{
			{fmt.Sprintf("➖ %s", it.ProductName), fmt.Sprintf("cartdec:%d", it.ID)},
			{strconv.Itoa(it.Qty), "noop"},
			{"➕", fmt.Sprintf("cartinc:%d", it.ID)},
			{"🗑️", fmt.Sprintf("cartdel:%d", it.ID)},
		})
	}
	if len(items) == 0 {
		lines = append(lines, "Panier vide")
	}
	kb = append(kb,
		[]Button{{"✅ Valider la commande", "cart:checkout"}},
		[]Button{{"🔙 Continuer achats", "cart:back"}},
	)
	return Message{Text: strings.Join(lines, "\n"), Keyboard: kb}, len(items), nil
}

func (b *Bot) orderMessage(o *model.Order) Message {
	lines := []string{
		fmt.Sprintf("<b>Commande #%d</b>", o.ID),
		fmt.Sprintf("Statut: <b>%s</b>", o.Status),
		fmt.Sprintf("Total: <b>%s</b>", b.money(o.Total)),
		"",
	}
	for _, it := range o.Items {
		lines = append(lines, fmt.Sprintf("• %s x%d – %s", esc(it.ProductName), it.Qty, b.money(it.UnitPrice)))
	}
	return Message{Text: strings.Join(lines, "\n")}
}

// money formats an amount in the display currency.
func (b *Bot) money(d decimal.Decimal) string {
	return model.FormatMoney(d) + " " + b.cfg.DisplayCurrency
}

// esc escapes user-supplied text for HTML messages.
func esc(s string) string {
	return html.EscapeString(s)
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
