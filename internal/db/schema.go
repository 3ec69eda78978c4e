package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Money columns are TEXT so decimals
// round-trip without float conversion.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id          INTEGER PRIMARY KEY,
    telegram_id INTEGER NOT NULL UNIQUE,
    first_name  TEXT NOT NULL DEFAULT '',
    last_name   TEXT NOT NULL DEFAULT '',
    username    TEXT NOT NULL DEFAULT '',
    role        TEXT NOT NULL DEFAULT 'customer' CHECK (role IN ('customer', 'worker', 'admin')),
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS products (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    code       TEXT NOT NULL UNIQUE,
    price      TEXT NOT NULL DEFAULT '0',
    stock_qty  INTEGER NOT NULL DEFAULT 0 CHECK (stock_qty >= 0),
    is_active  INTEGER NOT NULL DEFAULT 1,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);

CREATE TABLE IF NOT EXISTS orders (
    id            INTEGER PRIMARY KEY,
    account_id    INTEGER NOT NULL REFERENCES accounts(id),
    customer_name TEXT NOT NULL,
    status        TEXT NOT NULL DEFAULT 'NOUVELLE'
                  CHECK (status IN ('NOUVELLE', 'CONFIRMEE', 'PAYEE', 'EXPEDIEE', 'TERMINEE', 'ANNULEE')),
    total         TEXT NOT NULL DEFAULT '0',
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items (
    id         INTEGER PRIMARY KEY,
    order_id   INTEGER NOT NULL REFERENCES orders(id),
    product_id INTEGER NOT NULL REFERENCES products(id),
    qty        INTEGER NOT NULL CHECK (qty > 0),
    unit_price TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS stock_movements (
    id         INTEGER PRIMARY KEY,
    product_id INTEGER NOT NULL REFERENCES products(id),
    qty_change INTEGER NOT NULL,
    reason     TEXT NOT NULL,
    order_id   INTEGER REFERENCES orders(id),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS carts (
    id         INTEGER PRIMARY KEY,
    account_id INTEGER NOT NULL REFERENCES accounts(id),
    is_open    INTEGER NOT NULL DEFAULT 1,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_open_account
    ON carts(account_id) WHERE is_open = 1;

CREATE TABLE IF NOT EXISTS cart_items (
    id         INTEGER PRIMARY KEY,
    cart_id    INTEGER NOT NULL REFERENCES carts(id),
    product_id INTEGER NOT NULL REFERENCES products(id),
    qty        INTEGER NOT NULL DEFAULT 1 CHECK (qty > 0),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (cart_id, product_id)
);

CREATE TABLE IF NOT EXISTS ledger_entries (
    id          INTEGER PRIMARY KEY,
    entry_type  TEXT NOT NULL CHECK (entry_type IN ('RECETTE', 'DEPENSE')),
    amount      TEXT NOT NULL,
    currency    TEXT NOT NULL DEFAULT 'XAF',
    description TEXT NOT NULL DEFAULT '',
    order_id    INTEGER REFERENCES orders(id),
    date        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS payroll (
    id        INTEGER PRIMARY KEY,
    worker_id INTEGER NOT NULL REFERENCES accounts(id),
    amount    TEXT NOT NULL,
    method    TEXT NOT NULL DEFAULT 'cash' CHECK (method IN ('cash', 'mobile', 'virement')),
    note      TEXT,
    date      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS shifts (
    id        INTEGER PRIMARY KEY,
    worker_id INTEGER NOT NULL REFERENCES accounts(id),
    status    TEXT NOT NULL DEFAULT 'PRESENT' CHECK (status IN ('PRESENT', 'ABSENT')),
    role      TEXT,
    date      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS job_applications (
    id             INTEGER PRIMARY KEY,
    applicant_name TEXT NOT NULL,
    contact        TEXT NOT NULL,
    position       TEXT NOT NULL,
    resume         TEXT NOT NULL,
    status         TEXT NOT NULL DEFAULT 'recu',
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS posts (
    id         INTEGER PRIMARY KEY,
    text       TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS form_sessions (
    conversation_id INTEGER PRIMARY KEY,
    flow            TEXT NOT NULL,
    step            INTEGER NOT NULL,
    data            TEXT NOT NULL DEFAULT '{}',
    updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
