package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bossnaboss212/center/internal/model"
)

const accountColumns = `id, telegram_id, first_name, last_name, username, role, created_at`

// GetOrCreateAccount returns the account for a Telegram id, creating it with
// the given names and role on first contact. Existing accounts are returned
// unchanged.
func GetOrCreateAccount(ctx context.Context, db *sql.DB, telegramID int64, firstName, lastName, username string, role model.Role) (*model.Account, error) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO accounts (telegram_id, first_name, last_name, username, role)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (telegram_id) DO NOTHING`,
		telegramID, firstName, lastName, username, role,
	)
	if err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}
	return GetAccountByTelegramID(ctx, db, telegramID)
}

// GetAccountByTelegramID returns an account by its Telegram id.
func GetAccountByTelegramID(ctx context.Context, db *sql.DB, telegramID int64) (*model.Account, error) {
	a, err := scanAccount(db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE telegram_id = ?`, telegramID,
	))
	if err != nil {
		return nil, fmt.Errorf("getting account by telegram id: %w", err)
	}
	return a, nil
}

// ListAccounts returns every account, oldest first.
func ListAccounts(ctx context.Context, db *sql.DB) ([]model.Account, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.TelegramID, &a.FirstName, &a.LastName, &a.Username, &a.Role, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// PromoteWorker gives the worker role to a Telegram id, creating a bare
// account when the id has never talked to the bot. Admin accounts keep their
// role.
func PromoteWorker(ctx context.Context, db *sql.DB, telegramID int64) (*model.Account, error) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO accounts (telegram_id, role) VALUES (?, ?)
		 ON CONFLICT (telegram_id) DO UPDATE SET role = excluded.role
		 WHERE accounts.role <> ?`,
		telegramID, model.RoleWorker, model.RoleAdmin,
	)
	if err != nil {
		return nil, fmt.Errorf("promoting worker: %w", err)
	}
	return GetAccountByTelegramID(ctx, db, telegramID)
}

func scanAccount(row *sql.Row) (*model.Account, error) {
	a := &model.Account{}
	err := row.Scan(&a.ID, &a.TelegramID, &a.FirstName, &a.LastName, &a.Username, &a.Role, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}
