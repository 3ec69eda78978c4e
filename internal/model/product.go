package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item of the catalog.
type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	Price     decimal.Decimal `json:"price"`
	StockQty  int             `json:"stock_qty"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
}

// StockMovement is the audit row written for every change of a product's quantity.
type StockMovement struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	QtyChange int       `json:"qty_change"`
	Reason    string    `json:"reason"`
	OrderID   *int64    `json:"order_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Stock movement reasons written by the system itself.
const (
	ReasonInitialStock = "stock initial"
	ReasonSale         = "vente"
)

// StockDirection selects whether a manual adjustment adds or removes stock.
type StockDirection string

// Stock directions.
const (
	StockIn  StockDirection = "in"
	StockOut StockDirection = "out"
)

// Signed applies the direction to a quantity, ignoring the quantity's own sign.
func (d StockDirection) Signed(qty int) int {
	if qty < 0 {
		qty = -qty
	}
	if d == StockOut {
		return -qty
	}
	return qty
}
