package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is an immutable cash-flow record.
type LedgerEntry struct {
	ID          int64           `json:"id"`
	Type        LedgerType      `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	OrderID     *int64          `json:"order_id,omitempty"`
	Date        time.Time       `json:"date"`
}

// LedgerType is the direction of a ledger entry.
type LedgerType string

// Ledger types.
const (
	LedgerIncome  LedgerType = "RECETTE"
	LedgerExpense LedgerType = "DEPENSE"
)

// Payroll is a payment made to a worker.
type Payroll struct {
	ID       int64           `json:"id"`
	WorkerID int64           `json:"worker_id"`
	Amount   decimal.Decimal `json:"amount"`
	Method   PaymentMethod   `json:"method"`
	Note     string          `json:"note,omitempty"`
	Date     time.Time       `json:"date"`

	// Joined fields (not always populated).
	WorkerTelegramID int64 `json:"worker_telegram_id,omitempty"`
}

// PaymentMethod is how a worker was paid.
type PaymentMethod string

// Payment methods.
const (
	MethodCash     PaymentMethod = "cash"
	MethodMobile   PaymentMethod = "mobile"
	MethodTransfer PaymentMethod = "virement"
)

// ParsePaymentMethod accepts a method name in any case.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch m := PaymentMethod(lower(s)); m {
	case MethodCash, MethodMobile, MethodTransfer:
		return m, true
	}
	return "", false
}
