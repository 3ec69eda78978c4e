package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bossnaboss212/center/internal/model"
)

const productColumns = `id, name, code, price, stock_qty, is_active, created_at`

// CreateProduct creates an active product and records its initial stock as a
// movement in the same transaction.
func CreateProduct(ctx context.Context, db *sql.DB, name, code string, price decimal.Decimal, stock int) (*model.Product, error) {
	if stock < 0 {
		return nil, fmt.Errorf("initial stock must not be negative")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO products (name, code, price, stock_qty) VALUES (?, ?, ?, ?)`,
		name, code, price.Round(2), stock,
	)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting product id: %w", err)
	}

	if err := insertMovement(ctx, tx, id, stock, model.ReasonInitialStock, nil); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing product: %w", err)
	}
	return GetProduct(ctx, db, id)
}

// GetProduct returns a product by ID.
func GetProduct(ctx context.Context, db *sql.DB, id int64) (*model.Product, error) {
	p, err := scanProduct(db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id,
	))
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	return p, nil
}

// GetProductByCode returns a product by its unique code.
func GetProductByCode(ctx context.Context, db *sql.DB, code string) (*model.Product, error) {
	p, err := scanProduct(db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE code = ?`, code,
	))
	if err != nil {
		return nil, fmt.Errorf("getting product by code: %w", err)
	}
	return p, nil
}

// ListProducts returns every product, active ones first, then by name.
func ListProducts(ctx context.Context, db *sql.DB) ([]model.Product, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY is_active DESC, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// ListActiveProducts returns one page of the catalog ordered by name, and the
// number of active products overall.
func ListActiveProducts(ctx context.Context, db *sql.DB, offset, limit int) ([]model.Product, int, error) {
	var total int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE is_active = 1`,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting active products: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE is_active = 1
		 ORDER BY name LIMIT ? OFFSET ?`, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing active products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ToggleProduct flips the active flag of the product with the given code.
// It returns nil when the code is unknown.
func ToggleProduct(ctx context.Context, db *sql.DB, code string) (*model.Product, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE products SET is_active = 1 - is_active WHERE code = ?`, code,
	)
	if err != nil {
		return nil, fmt.Errorf("toggling product: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return GetProductByCode(ctx, db, code)
}

// SetProductPrice changes the unit price of the product with the given code.
// Prices already frozen on orders are not affected.
func SetProductPrice(ctx context.Context, db *sql.DB, code string, price decimal.Decimal) (*model.Product, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE products SET price = ? WHERE code = ?`, price.Round(2), code,
	)
	if err != nil {
		return nil, fmt.Errorf("setting product price: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return GetProductByCode(ctx, db, code)
}

func scanProduct(row *sql.Row) (*model.Product, error) {
	p := &model.Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Code, &p.Price, &p.StockQty, &p.Active, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanProducts(rows *sql.Rows) ([]model.Product, error) {
	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Code, &p.Price, &p.StockQty, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
