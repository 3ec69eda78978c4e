package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bossnaboss212/center/internal/model"
)

// CreatePayroll pays a worker identified by Telegram id. An unknown id gets a
// bare worker account. The payment and its expense ledger entry are written
// in one transaction.
func CreatePayroll(ctx context.Context, db *sql.DB, workerTelegramID int64, amount decimal.Decimal, method model.PaymentMethod, note, currency string) (*model.Payroll, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO accounts (telegram_id, role) VALUES (?, ?)
		 ON CONFLICT (telegram_id) DO NOTHING`,
		workerTelegramID, model.RoleWorker,
	)
	if err != nil {
		return nil, fmt.Errorf("creating worker: %w", err)
	}

	var workerID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM accounts WHERE telegram_id = ?`, workerTelegramID,
	).Scan(&workerID)
	if err != nil {
		return nil, fmt.Errorf("getting worker: %w", err)
	}

	var noteArg *string
	if note != "" {
		noteArg = &note
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO payroll (worker_id, amount, method, note) VALUES (?, ?, ?, ?)`,
		workerID, amount.Round(2), method, noteArg,
	)
	if err != nil {
		return nil, fmt.Errorf("creating payroll: %w", err)
	}
	payrollID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting payroll id: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ledger_entries (entry_type, amount, currency, description) VALUES (?, ?, ?, ?)`,
		model.LedgerExpense, amount.Round(2), currency, fmt.Sprintf("Paie %d", workerTelegramID),
	)
	if err != nil {
		return nil, fmt.Errorf("recording payroll expense: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing payroll: %w", err)
	}

	payrolls, err := listPayroll(ctx, db, `WHERE p.id = ?`, payrollID)
	if err != nil || len(payrolls) == 0 {
		return nil, err
	}
	return &payrolls[0], nil
}

// ListPayrollBetween returns payroll rows dated in [start, end).
func ListPayrollBetween(ctx context.Context, db *sql.DB, start, end time.Time) ([]model.Payroll, error) {
	return listPayroll(ctx, db, `WHERE p.date >= ? AND p.date < ?`, sqlTime(start), sqlTime(end))
}

func listPayroll(ctx context.Context, db *sql.DB, where string, args ...any) ([]model.Payroll, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT p.id, p.worker_id, p.amount, p.method, p.note, p.date, a.telegram_id
		 FROM payroll p
		 JOIN accounts a ON a.id = p.worker_id
		 `+where+`
		 ORDER BY p.id`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing payroll: %w", err)
	}
	defer rows.Close()

	var payrolls []model.Payroll
	for rows.Next() {
		var p model.Payroll
		var note sql.NullString
		if err := rows.Scan(&p.ID, &p.WorkerID, &p.Amount, &p.Method, &note, &p.Date, &p.WorkerTelegramID); err != nil {
			return nil, fmt.Errorf("scanning payroll: %w", err)
		}
		p.Note = note.String
		payrolls = append(payrolls, p)
	}
	return payrolls, rows.Err()
}
