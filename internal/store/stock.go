package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bossnaboss212/center/internal/model"
)

// AdjustStock applies a manual stock change to a product. The quantity on
// hand is floored at zero and the movement records the change actually
// applied, so the movements of a product always sum to its stock.
func AdjustStock(ctx context.Context, db *sql.DB, productID int64, delta int, reason string) (*model.Product, error) {
	if delta == 0 {
		return nil, fmt.Errorf("delta must be non-zero")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	applied, err := applyStockDelta(ctx, tx, productID, delta)
	if err != nil {
		return nil, err
	}
	if err := insertMovement(ctx, tx, productID, applied, reason, nil); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing adjustment: %w", err)
	}
	return GetProduct(ctx, db, productID)
}

// ListStockMovements returns the audit trail of a product, newest first.
func ListStockMovements(ctx context.Context, db *sql.DB, productID int64) ([]model.StockMovement, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, product_id, qty_change, reason, order_id, created_at
		 FROM stock_movements WHERE product_id = ?
		 ORDER BY id DESC`, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing stock movements: %w", err)
	}
	defer rows.Close()

	var movements []model.StockMovement
	for rows.Next() {
		var m model.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.QtyChange, &m.Reason, &m.OrderID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning stock movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

// applyStockDelta changes stock_qty inside tx, floored at zero, and returns
// the change actually applied.
func applyStockDelta(ctx context.Context, tx *sql.Tx, productID int64, delta int) (int, error) {
	var before int
	err := tx.QueryRowContext(ctx,
		`SELECT stock_qty FROM products WHERE id = ?`, productID,
	).Scan(&before)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("updating stock of product %d: %w", productID, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("reading stock: %w", err)
	}

	after := max(0, before+delta)
	if _, err := tx.ExecContext(ctx,
		`UPDATE products SET stock_qty = ? WHERE id = ?`, after, productID,
	); err != nil {
		return 0, fmt.Errorf("updating stock: %w", err)
	}
	return after - before, nil
}

func insertMovement(ctx context.Context, tx *sql.Tx, productID int64, delta int, reason string, orderID *int64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO stock_movements (product_id, qty_change, reason, order_id) VALUES (?, ?, ?, ?)`,
		productID, delta, reason, orderID,
	)
	if err != nil {
		return fmt.Errorf("recording stock movement: %w", err)
	}
	return nil
}
