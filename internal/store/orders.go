package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bossnaboss212/center/internal/model"
)

const orderColumns = `id, account_id, customer_name, status, total, created_at`

type checkoutLine struct {
	itemID    int64
	productID int64
	qty       int
	price     decimal.Decimal
}

// Checkout turns the account's open cart into an order. In one transaction
// it freezes each line at the current product price, decrements stock
// (floored at zero) with a sale movement per line, fixes the order total,
// deletes the cart lines and closes the cart. It returns ErrEmptyCart, with
// nothing written, when there is no open cart or it has no lines.
func Checkout(ctx context.Context, db *sql.DB, accountID int64) (*model.Order, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var cartID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM carts WHERE account_id = ? AND is_open = 1`, accountID,
	).Scan(&cartID)
	if err == sql.ErrNoRows {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, fmt.Errorf("getting open cart: %w", err)
	}

	lines, err := checkoutLines(ctx, tx, cartID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	var firstName, username string
	var telegramID int64
	err = tx.QueryRowContext(ctx,
		`SELECT first_name, username, telegram_id FROM accounts WHERE id = ?`, accountID,
	).Scan(&firstName, &username, &telegramID)
	if err != nil {
		return nil, fmt.Errorf("getting customer: %w", err)
	}
	customer := (&model.Account{FirstName: firstName, Username: username, TelegramID: telegramID}).Label()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO orders (account_id, customer_name, status) VALUES (?, ?, ?)`,
		accountID, customer, model.OrderNew,
	)
	if err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting order id: %w", err)
	}

	totals := make([]decimal.Decimal, 0, len(lines))
	for _, l := range lines {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, qty, unit_price) VALUES (?, ?, ?, ?)`,
			orderID, l.productID, l.qty, l.price,
		)
		if err != nil {
			return nil, fmt.Errorf("creating order item: %w", err)
		}
		applied, err := applyStockDelta(ctx, tx, l.productID, -l.qty)
		if err != nil {
			return nil, err
		}
		if err := insertMovement(ctx, tx, l.productID, applied, model.ReasonSale, &orderID); err != nil {
			return nil, err
		}
		totals = append(totals, model.LineTotal(l.qty, l.price))
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET total = ? WHERE id = ?`, model.SumLines(totals), orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("setting order total: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, cartID); err != nil {
		return nil, fmt.Errorf("clearing cart: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE carts SET is_open = 0 WHERE id = ?`, cartID); err != nil {
		return nil, fmt.Errorf("closing cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing checkout: %w", err)
	}
	return GetOrder(ctx, db, orderID)
}

// checkoutLines reads the cart fully before any write on the transaction.
func checkoutLines(ctx context.Context, tx *sql.Tx, cartID int64) ([]checkoutLine, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT ci.id, ci.product_id, ci.qty, p.price
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.cart_id = ?
		 ORDER BY ci.id`, cartID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing cart lines: %w", err)
	}
	defer rows.Close()

	var lines []checkoutLine
	for rows.Next() {
		var l checkoutLine
		if err := rows.Scan(&l.itemID, &l.productID, &l.qty, &l.price); err != nil {
			return nil, fmt.Errorf("scanning cart line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// GetOrder returns an order by ID with its items.
func GetOrder(ctx context.Context, db *sql.DB, id int64) (*model.Order, error) {
	o := &model.Order{}
	err := db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id,
	).Scan(&o.ID, &o.AccountID, &o.CustomerName, &o.Status, &o.Total, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting order: %w", err)
	}

	items, err := listOrderItems(ctx, db, `WHERE oi.order_id = ?`, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

// ListOrders returns every order with its items, newest first.
func ListOrders(ctx context.Context, db *sql.DB) ([]model.Order, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}

	items, err := listOrderItems(ctx, db, ``)
	if err != nil {
		return nil, err
	}
	byOrder := make(map[int64][]model.OrderItem)
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
	}
	return orders, nil
}

// RecordPayment appends an income ledger entry for the order and marks it
// paid. The amount is not reconciled against the order total. It returns
// nil when the order does not exist.
func RecordPayment(ctx context.Context, db *sql.DB, orderID int64, amount decimal.Decimal, currency string) (*model.Order, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var status model.OrderStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = ?`, orderID).Scan(&status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting order status: %w", err)
	}
	if !model.CanTransition(status, model.OrderPaid) {
		return nil, fmt.Errorf("order %d is %s and cannot be paid", orderID, status)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ledger_entries (entry_type, amount, currency, description, order_id)
		 VALUES (?, ?, ?, ?, ?)`,
		model.LedgerIncome, amount.Round(2), currency, fmt.Sprintf("Paiement commande #%d", orderID), orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("recording payment: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, model.OrderPaid, orderID); err != nil {
		return nil, fmt.Errorf("updating order status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing payment: %w", err)
	}
	return GetOrder(ctx, db, orderID)
}

func listOrderItems(ctx context.Context, db *sql.DB, where string, args ...any) ([]model.OrderItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT oi.id, oi.order_id, oi.product_id, oi.qty, oi.unit_price, p.name
		 FROM order_items oi
		 JOIN products p ON p.id = oi.product_id
		 `+where+`
		 ORDER BY oi.order_id, oi.id`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Qty, &it.UnitPrice, &it.ProductName); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanOrders(rows *sql.Rows) ([]model.Order, error) {
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.AccountID, &o.CustomerName, &o.Status, &o.Total, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
