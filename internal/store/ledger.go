package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bossnaboss212/center/internal/model"
)

// CreateLedgerEntry records a manual income or expense.
func CreateLedgerEntry(ctx context.Context, db *sql.DB, entryType model.LedgerType, amount decimal.Decimal, currency, description string) (*model.LedgerEntry, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO ledger_entries (entry_type, amount, currency, description) VALUES (?, ?, ?, ?)`,
		entryType, amount.Round(2), currency, description,
	)
	if err != nil {
		return nil, fmt.Errorf("creating ledger entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting ledger entry id: %w", err)
	}
	return GetLedgerEntry(ctx, db, id)
}

// GetLedgerEntry returns a ledger entry by ID.
func GetLedgerEntry(ctx context.Context, db *sql.DB, id int64) (*model.LedgerEntry, error) {
	e := &model.LedgerEntry{}
	err := db.QueryRowContext(ctx,
		`SELECT id, entry_type, amount, currency, description, order_id, date
		 FROM ledger_entries WHERE id = ?`, id,
	).Scan(&e.ID, &e.Type, &e.Amount, &e.Currency, &e.Description, &e.OrderID, &e.Date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting ledger entry: %w", err)
	}
	return e, nil
}

// ListLedgerEntries returns ledger entries, optionally only those linked to an order.
func ListLedgerEntries(ctx context.Context, db *sql.DB, orderID int64) ([]model.LedgerEntry, error) {
	query := `SELECT id, entry_type, amount, currency, description, order_id, date
	          FROM ledger_entries WHERE 1=1`
	var args []any

	if orderID > 0 {
		query += ` AND order_id = ?`
		args = append(args, orderID)
	}
	query += ` ORDER BY id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		if err := rows.Scan(&e.ID, &e.Type, &e.Amount, &e.Currency, &e.Description, &e.OrderID, &e.Date); err != nil {
			return nil, fmt.Errorf("scanning ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CashBalance returns total income minus total expense.
func CashBalance(ctx context.Context, db *sql.DB) (decimal.Decimal, error) {
	entries, err := ListLedgerEntries(ctx, db, 0)
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for _, e := range entries {
		switch e.Type {
		case model.LedgerIncome:
			balance = balance.Add(e.Amount)
		case model.LedgerExpense:
			balance = balance.Sub(e.Amount)
		}
	}
	return balance.Round(2), nil
}
