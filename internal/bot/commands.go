package bot

import (
	"context"

	"github.com/bossnaboss212/center/internal/metrics"
)

type command struct {
	admin bool
	run   func(ctx context.Context, ev *event, args []string) error
}

// Menu button labels of the main reply keyboard.
const (
	menuOrder = "🛒 Passer une commande"
	menuTrack = "📦 Suivre ma commande"
	menuPosts = "📰 Dernières annonces"
	menuJob   = "👔 Postuler à un emploi"
	menuAdmin = "🛠️ Admin"
)

func (b *Bot) commands() map[string]command {
	return map[string]command{
		"start":     {run: b.cmdStart},
		"help":      {run: b.cmdHelp},
		"catalogue": {run: b.cmdCatalogue},
		"payer":     {run: b.cmdPay},

		"admin":         {admin: true, run: b.cmdAdmin},
		"token":         {admin: true, run: b.cmdToken},
		"addproduct":    {admin: true, run: b.startFlow(flowProduct)},
		"listproducts":  {admin: true, run: b.cmdListProducts},
		"toggleproduct": {admin: true, run: b.cmdToggleProduct},
		"price":         {admin: true, run: b.cmdPrice},
		"stockin":       {admin: true, run: b.startFlow(flowStockIn)},
		"stockout":      {admin: true, run: b.startFlow(flowStockOut)},
		"inventory":     {admin: true, run: b.cmdInventory},
		"recette":       {admin: true, run: b.startFlow(flowIncome)},
		"depense":       {admin: true, run: b.startFlow(flowExpense)},
		"cash":          {admin: true, run: b.cmdCash},
		"pay":           {admin: true, run: b.startFlow(flowPayroll)},
		"paylist":       {admin: true, run: b.cmdPayList},
		"addworker":     {admin: true, run: b.cmdAddWorker},
		"presence":      {admin: true, run: b.cmdPresence},
		"workers":       {admin: true, run: b.cmdWorkers},
		"post":          {admin: true, run: b.cmdPost},
		"broadcast":     {admin: true, run: b.cmdBroadcast},
		"stats":         {admin: true, run: b.cmdStats},
	}
}

func (b *Bot) menuButtons() map[string]func(ctx context.Context, ev *event) error {
	return map[string]func(ctx context.Context, ev *event) error{
		menuOrder: func(ctx context.Context, ev *event) error { return b.cmdCatalogue(ctx, ev, nil) },
		menuTrack: func(ctx context.Context, ev *event) error {
			return b.replyText(ctx, ev, "Veuillez envoyer l'ID de votre commande (ex: 1024)")
		},
		menuPosts: b.showPosts,
		menuJob: func(ctx context.Context, ev *event) error {
			return b.startFlow(flowJob)(ctx, ev, nil)
		},
		menuAdmin: func(ctx context.Context, ev *event) error {
			if !b.isAdmin(ev) {
				return b.reply(ctx, ev, Message{Text: deniedText})
			}
			return b.cmdAdmin(ctx, ev, nil)
		},
	}
}

func (b *Bot) cmdStart(ctx context.Context, ev *event, _ []string) error {
	if err := b.forms.Reset(ctx, ev.ChatID); err != nil {
		return err
	}
	return b.reply(ctx, ev, Message{
		Text: "<b>Bienvenue!</b>\n\n" +
			"Je suis votre assistant de gestion digitale.\n" +
			"Utilisez le menu pour passer une commande, suivre une commande, postuler, ou voir les annonces.",
		Menu: mainMenu(b.isAdmin(ev)),
	})
}

func (b *Bot) cmdHelp(ctx context.Context, ev *event, _ []string) error {
	return b.replyText(ctx, ev, "Commandes utiles:\n"+
		"- /start – menu principal\n"+
		"- /catalogue – voir le catalogue produits\n"+
		"- /payer &lt;id_commande&gt; &lt;montant&gt; – déclarer un paiement\n"+
		"- /admin – panneau d'administration (admin uniquement)")
}

// startFlow returns a command that begins a form, replacing any form the
// conversation had in progress.
func (b *Bot) startFlow(name string) func(ctx context.Context, ev *event, _ []string) error {
	return func(ctx context.Context, ev *event, _ []string) error {
		prompt, err := b.forms.Start(ctx, ev.ChatID, name, map[string]string{
			fieldSelf: formatInt(ev.From.ID),
		})
		if err != nil {
			return err
		}
		ev.log.Info("form started", "flow", name)
		metrics.RecordFlow(name, metrics.FlowStarted)
		return b.reply(ctx, ev, Message{Text: prompt, RemoveMenu: name == flowJob})
	}
}
