// Package export renders products and orders as CSV documents.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bossnaboss212/center/internal/model"
)

// File names used when the documents are sent or downloaded.
const (
	ProductsFile = "products_export.csv"
	OrdersFile   = "orders_export.csv"
)

const timeLayout = "2006-01-02 15:04:05"

// WriteProducts writes one row per product.
func WriteProducts(w io.Writer, products []model.Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "code", "price", "stock", "active", "created_at"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, p := range products {
		err := cw.Write([]string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.Code,
			model.FormatMoney(p.Price),
			strconv.Itoa(p.StockQty),
			strconv.FormatBool(p.Active),
			p.CreatedAt.UTC().Format(timeLayout),
		})
		if err != nil {
			return fmt.Errorf("writing product %d: %w", p.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteOrders writes one row per order. The line column packs every item
// as product_id:qtyxunit_price, joined by " | ".
func WriteOrders(w io.Writer, orders []model.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"order_id", "date", "status", "total", "line"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, o := range orders {
		lines := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			lines = append(lines, fmt.Sprintf("%d:%dx%s", it.ProductID, it.Qty, model.FormatMoney(it.UnitPrice)))
		}
		err := cw.Write([]string{
			strconv.FormatInt(o.ID, 10),
			o.CreatedAt.UTC().Format(timeLayout),
			string(o.Status),
			model.FormatMoney(o.Total),
			strings.Join(lines, " | "),
		})
		if err != nil {
			return fmt.Errorf("writing order %d: %w", o.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
