package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is a customer's open selection. Once closed it is never reopened.
type Cart struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	Open      bool      `json:"open"`
	CreatedAt time.Time `json:"created_at"`
}

// CartItem is one line of an open cart.
type CartItem struct {
	ID        int64 `json:"id"`
	CartID    int64 `json:"cart_id"`
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`

	// Joined fields (not always populated).
	ProductName  string          `json:"product_name,omitempty"`
	ProductPrice decimal.Decimal `json:"product_price"`
}

// LineTotal is the current price of the line, rounded to cents.
func (it CartItem) LineTotal() decimal.Decimal {
	return LineTotal(it.Qty, it.ProductPrice)
}

// Order is a placed transaction. Its total is fixed at creation.
type Order struct {
	ID           int64           `json:"id"`
	AccountID    int64           `json:"account_id"`
	CustomerName string          `json:"customer_name"`
	Status       OrderStatus     `json:"status"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    time.Time       `json:"created_at"`

	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem is a frozen line of a placed order.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`

	// Joined fields (not always populated).
	ProductName string `json:"product_name,omitempty"`
}

// LineTotal is qty × unit price at the time of sale, rounded to cents.
func (it OrderItem) LineTotal() decimal.Decimal {
	return LineTotal(it.Qty, it.UnitPrice)
}

// OrderStatus values are user visible and stored verbatim.
type OrderStatus string

// Order statuses. Only New and Paid are reached by the bot.
const (
	OrderNew       OrderStatus = "NOUVELLE"
	OrderConfirmed OrderStatus = "CONFIRMEE"
	OrderPaid      OrderStatus = "PAYEE"
	OrderShipped   OrderStatus = "EXPEDIEE"
	OrderDone      OrderStatus = "TERMINEE"
	OrderCanceled  OrderStatus = "ANNULEE"
)

var orderRank = map[OrderStatus]int{
	OrderNew:       1,
	OrderConfirmed: 2,
	OrderPaid:      3,
	OrderShipped:   4,
	OrderDone:      5,
}

// Valid reports whether s is one of the declared statuses.
func (s OrderStatus) Valid() bool {
	return s == OrderCanceled || orderRank[s] > 0
}

// Terminal reports whether no transition leaves s.
func (s OrderStatus) Terminal() bool {
	return s == OrderDone || s == OrderCanceled
}

// CanTransition reports whether an order may move from one status to another.
// Statuses only advance; Canceled is reachable from any non-terminal status.
// Recording a payment again on a paid order keeps it Paid.
func CanTransition(from, to OrderStatus) bool {
	if !from.Valid() || !to.Valid() || from.Terminal() {
		return false
	}
	if to == OrderCanceled {
		return true
	}
	if from == to {
		return to == OrderPaid
	}
	return orderRank[to] > orderRank[from]
}
