package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bossnaboss212/center/internal/form"
	"github.com/bossnaboss212/center/internal/model"
	"github.com/bossnaboss212/center/internal/store"
)

// Flow names.
const (
	flowJob      = "job"
	flowProduct  = "product"
	flowStockIn  = "stock_in"
	flowStockOut = "stock_out"
	flowIncome   = "ledger_income"
	flowExpense  = "ledger_expense"
	flowPayroll  = "payroll"
)

// fieldSelf carries the Telegram id of whoever started the flow.
const fieldSelf = "_self"

func (b *Bot) flows() []*form.Flow {
	return []*form.Flow{
		b.jobFlow(),
		b.productFlow(),
		b.stockFlow(flowStockIn, model.StockIn, "SKU du produit pour entrée stock ?"),
		b.stockFlow(flowStockOut, model.StockOut, "SKU du produit pour sortie stock ?"),
		b.ledgerFlow(flowIncome, model.LedgerIncome, "Montant de la <b>RECETTE</b> ? (ex: 15000)"),
		b.ledgerFlow(flowExpense, model.LedgerExpense, "Montant de la <b>DEPENSE</b> ? (ex: 8000)"),
		b.payrollFlow(),
	}
}

func (b *Bot) jobFlow() *form.Flow {
	return &form.Flow{
		Name: flowJob,
		Steps: []form.Step{
			{Field: "name", Prompt: "Votre nom complet ?"},
			{Field: "contact", Prompt: "Votre contact (téléphone / email) ?"},
			{Field: "position", Prompt: "Poste visé ?"},
			{Field: "resume", Prompt: "CV ou lien (collez une URL, ou décrivez votre expérience) :"},
		},
		Commit: func(ctx context.Context, _ int64, v map[string]string) (string, error) {
			app, err := store.CreateJobApplication(ctx, b.db, v["name"], v["contact"], v["position"], v["resume"])
			if err != nil {
				return "", err
			}
			b.notifyAdmin(ctx, fmt.Sprintf("Nouvelle postulation: %s – %s – %s",
				esc(app.ApplicantName), esc(app.Position), esc(app.Contact)))
			return "Merci ! Votre candidature a été reçue. ✅", nil
		},
	}
}

func (b *Bot) productFlow() *form.Flow {
	return &form.Flow{
		Name: flowProduct,
		Steps: []form.Step{
			{Field: "name", Prompt: "Nom du produit ?"},
			{Field: "code", Prompt: "SKU (référence unique) ?", Parse: b.newProductCode},
			{Field: "price", Prompt: fmt.Sprintf("Prix unitaire (%s) ?", b.cfg.DisplayCurrency), Parse: nonNegativeAmount("Prix invalide, essayez encore.")},
			{Field: "stock", Prompt: "Stock initial (quantité) ?", Parse: nonNegativeInt("Quantité invalide, essayez encore.")},
		},
		Commit: func(ctx context.Context, _ int64, v map[string]string) (string, error) {
			existing, err := store.GetProductByCode(ctx, b.db, v["code"])
			if err != nil {
				return "", err
			}
			if existing != nil {
				return "", form.Invalid(fmt.Sprintf("Le SKU %s existe déjà. /addproduct pour recommencer.", esc(v["code"])))
			}

			stock, _ := strconv.Atoi(v["stock"])
			if _, err := store.CreateProduct(ctx, b.db, v["name"], v["code"], decimal.RequireFromString(v["price"]), stock); err != nil {
				return "", err
			}
			return "Produit ajouté ✅", nil
		},
	}
}

func (b *Bot) stockFlow(name string, dir model.StockDirection, prompt string) *form.Flow {
	return &form.Flow{
		Name: name,
		Steps: []form.Step{
			{Field: "product", Prompt: prompt, Parse: b.existingProduct},
			{Field: "qty", Prompt: "Quantité ? (entier)", Parse: positiveInt("Quantité invalide")},
			{Field: "reason", Prompt: "Raison ? (achat fournisseur / ajustement / etc.)"},
		},
		Commit: func(ctx context.Context, _ int64, v map[string]string) (string, error) {
			productID, _ := strconv.ParseInt(v["product"], 10, 64)
			qty, _ := strconv.Atoi(v["qty"])
			p, err := store.AdjustStock(ctx, b.db, productID, dir.Signed(qty), v["reason"])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Mouvement enregistré ✅\n%s – Stock: %d", esc(p.Name), p.StockQty), nil
		},
	}
}

func (b *Bot) ledgerFlow(name string, kind model.LedgerType, prompt string) *form.Flow {
	return &form.Flow{
		Name: name,
		Steps: []form.Step{
			{Field: "amount", Prompt: prompt, Parse: nonNegativeAmount("Montant invalide")},
			{Field: "description", Prompt: "Description ?"},
		},
		Commit: func(ctx context.Context, _ int64, v map[string]string) (string, error) {
			_, err := store.CreateLedgerEntry(ctx, b.db, kind, decimal.RequireFromString(v["amount"]), b.cfg.Currency, v["description"])
			if err != nil {
				return "", err
			}
			return "Écriture comptable ajoutée ✅", nil
		},
	}
}

func (b *Bot) payrollFlow() *form.Flow {
	return &form.Flow{
		Name: flowPayroll,
		Steps: []form.Step{
			{Field: "worker", Prompt: "TG_ID du travailleur ? (tapez - pour vous-même)", Parse: optionalTelegramID("TG_ID invalide")},
			{Field: "amount", Prompt: "Montant ?", Parse: nonNegativeAmount("Montant invalide")},
			{Field: "method", Prompt: "Méthode ? (cash / mobile / virement)",
				Parse: form.OneOf("Choix: cash / mobile / virement",
					string(model.MethodCash), string(model.MethodMobile), string(model.MethodTransfer))},
			{Field: "note", Prompt: "Note (facultatif, tapez - pour passer)", Parse: form.Optional()},
		},
		Commit: func(ctx context.Context, _ int64, v map[string]string) (string, error) {
			worker := v["worker"]
			if worker == "" {
				worker = v[fieldSelf]
			}
			workerID, err := strconv.ParseInt(worker, 10, 64)
			if err != nil {
				return "", form.Invalid("TG_ID invalide")
			}
			method, _ := model.ParsePaymentMethod(v["method"])

			_, err = store.CreatePayroll(ctx, b.db, workerID, decimal.RequireFromString(v["amount"]), method, v["note"], b.cfg.Currency)
			if err != nil {
				return "", err
			}
			return "Paie enregistrée ✅", nil
		},
	}
}

// newProductCode accepts a code no product uses yet.
func (b *Bot) newProductCode(ctx context.Context, input string) (string, error) {
	code, err := form.Upper("")(ctx, input)
	if err != nil {
		return "", err
	}
	existing, err := store.GetProductByCode(ctx, b.db, code)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", form.Invalid(fmt.Sprintf("Le SKU %s existe déjà, choisissez-en un autre.", esc(code)))
	}
	return code, nil
}

// existingProduct resolves a product code to its id.
func (b *Bot) existingProduct(ctx context.Context, input string) (string, error) {
	p, err := store.GetProductByCode(ctx, b.db, strings.ToUpper(strings.TrimSpace(input)))
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", form.Invalid("Produit introuvable. Recommencez.")
	}
	return formatInt(p.ID), nil
}

func nonNegativeAmount(message string) form.Parser {
	amount := form.Amount(message)
	return func(ctx context.Context, input string) (string, error) {
		v, err := amount(ctx, input)
		if err != nil {
			return "", err
		}
		if decimal.RequireFromString(v).IsNegative() {
			return "", form.Invalid(message)
		}
		return v, nil
	}
}

func nonNegativeInt(message string) form.Parser {
	return intAtLeast(0, message)
}

func positiveInt(message string) form.Parser {
	return intAtLeast(1, message)
}

func intAtLeast(minimum int, message string) form.Parser {
	parse := form.Int(message)
	return func(ctx context.Context, input string) (string, error) {
		v, err := parse(ctx, input)
		if err != nil {
			return "", err
		}
		if n, _ := strconv.Atoi(v); n < minimum {
			return "", form.Invalid(message)
		}
		return v, nil
	}
}

// optionalTelegramID accepts a numeric id, or "-" or a blank answer for the
// sender.
func optionalTelegramID(message string) form.Parser {
	return func(_ context.Context, input string) (string, error) {
		v := strings.TrimSpace(input)
		if v == "" || v == "-" {
			return "", nil
		}
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			return "", form.Invalid(message)
		}
		return v, nil
	}
}
