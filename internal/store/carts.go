package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bossnaboss212/center/internal/model"
)

// EnsureOpenCart returns the account's open cart, creating one if none exists.
// A partial unique index guarantees at most one open cart per account.
func EnsureOpenCart(ctx context.Context, db *sql.DB, accountID int64) (*model.Cart, error) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO carts (account_id) SELECT ?
		 WHERE NOT EXISTS (SELECT 1 FROM carts WHERE account_id = ? AND is_open = 1)`,
		accountID, accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating cart: %w", err)
	}

	c := &model.Cart{}
	err = db.QueryRowContext(ctx,
		`SELECT id, account_id, is_open, created_at FROM carts
		 WHERE account_id = ? AND is_open = 1`, accountID,
	).Scan(&c.ID, &c.AccountID, &c.Open, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting open cart: %w", err)
	}
	return c, nil
}

// GetCart returns a cart by ID.
func GetCart(ctx context.Context, db *sql.DB, id int64) (*model.Cart, error) {
	c := &model.Cart{}
	err := db.QueryRowContext(ctx,
		`SELECT id, account_id, is_open, created_at FROM carts WHERE id = ?`, id,
	).Scan(&c.ID, &c.AccountID, &c.Open, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting cart: %w", err)
	}
	return c, nil
}

// AddToCart adds one unit of an active product to an open cart, incrementing
// the existing line if there is one.
func AddToCart(ctx context.Context, db *sql.DB, cartID, productID int64) (*model.CartItem, error) {
	var active bool
	err := db.QueryRowContext(ctx,
		`SELECT is_active FROM products WHERE id = ?`, productID,
	).Scan(&active)
	if err == sql.ErrNoRows || (err == nil && !active) {
		return nil, ErrProductUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("checking product: %w", err)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO cart_items (cart_id, product_id, qty)
		 SELECT ?, ?, 1 WHERE EXISTS (SELECT 1 FROM carts WHERE id = ? AND is_open = 1)
		 ON CONFLICT (cart_id, product_id) DO UPDATE SET qty = qty + 1`,
		cartID, productID, cartID,
	)
	if err != nil {
		return nil, fmt.Errorf("adding to cart: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("adding to cart %d: %w", cartID, ErrNotFound)
	}

	var itemID int64
	err = db.QueryRowContext(ctx,
		`SELECT id FROM cart_items WHERE cart_id = ? AND product_id = ?`, cartID, productID,
	).Scan(&itemID)
	if err != nil {
		return nil, fmt.Errorf("getting cart item: %w", err)
	}
	return GetCartItem(ctx, db, itemID)
}

// GetCartItem returns a cart line by ID.
func GetCartItem(ctx context.Context, db *sql.DB, id int64) (*model.CartItem, error) {
	it := &model.CartItem{}
	err := db.QueryRowContext(ctx,
		`SELECT ci.id, ci.cart_id, ci.product_id, ci.qty, p.name, p.price
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.id = ?`, id,
	).Scan(&it.ID, &it.CartID, &it.ProductID, &it.Qty, &it.ProductName, &it.ProductPrice)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting cart item: %w", err)
	}
	return it, nil
}

// AdjustCartItem changes a line's quantity by delta. A line that would drop
// below one is deleted instead. It returns the line's cart ID, or
// ErrNotFound when the line does not exist in an open cart.
func AdjustCartItem(ctx context.Context, db *sql.DB, itemID int64, delta int) (int64, error) {
	var cartID int64
	var qty int
	err := db.QueryRowContext(ctx,
		`SELECT ci.cart_id, ci.qty FROM cart_items ci
		 JOIN carts c ON c.id = ci.cart_id
		 WHERE ci.id = ? AND c.is_open = 1`, itemID,
	).Scan(&cartID, &qty)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("getting cart item: %w", err)
	}

	if qty+delta < 1 {
		_, err = db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = ?`, itemID)
	} else {
		_, err = db.ExecContext(ctx, `UPDATE cart_items SET qty = ? WHERE id = ?`, qty+delta, itemID)
	}
	if err != nil {
		return 0, fmt.Errorf("adjusting cart item: %w", err)
	}
	return cartID, nil
}

// RemoveCartItem deletes a line from an open cart and returns its cart ID.
func RemoveCartItem(ctx context.Context, db *sql.DB, itemID int64) (int64, error) {
	var cartID int64
	err := db.QueryRowContext(ctx,
		`SELECT ci.cart_id FROM cart_items ci
		 JOIN carts c ON c.id = ci.cart_id
		 WHERE ci.id = ? AND c.is_open = 1`, itemID,
	).Scan(&cartID)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("getting cart item: %w", err)
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = ?`, itemID); err != nil {
		return 0, fmt.Errorf("removing cart item: %w", err)
	}
	return cartID, nil
}

// ListCartItems returns the lines of a cart in insertion order.
func ListCartItems(ctx context.Context, db *sql.DB, cartID int64) ([]model.CartItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT ci.id, ci.cart_id, ci.product_id, ci.qty, p.name, p.price
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.cart_id = ?
		 ORDER BY ci.id`, cartID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing cart items: %w", err)
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductID, &it.Qty, &it.ProductName, &it.ProductPrice); err != nil {
			return nil, fmt.Errorf("scanning cart item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CartTotal sums the cart's lines at current product prices.
func CartTotal(items []model.CartItem) decimal.Decimal {
	lines := make([]decimal.Decimal, len(items))
	for i, it := range items {
		lines[i] = it.LineTotal()
	}
	return model.SumLines(lines)
}
