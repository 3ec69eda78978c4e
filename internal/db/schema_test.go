package db

import "testing"

func TestEnsureSchemaIdempotent(t *testing.T) {
	database := NewTestDB(t)

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}

	for _, table := range []string{"accounts", "products", "orders", "form_sessions", "revoked_tokens"} {
		if n := CountRows(t, database, table); n != 0 {
			t.Errorf("expected empty %s, got %d rows", table, n)
		}
	}
}

func TestOneOpenCartPerAccount(t *testing.T) {
	database := NewTestDB(t)

	if _, err := database.Exec(`INSERT INTO accounts (telegram_id) VALUES (1)`); err != nil {
		t.Fatalf("inserting account: %v", err)
	}
	if _, err := database.Exec(`INSERT INTO carts (account_id) VALUES (1)`); err != nil {
		t.Fatalf("inserting cart: %v", err)
	}
	if _, err := database.Exec(`INSERT INTO carts (account_id) VALUES (1)`); err == nil {
		t.Error("expected second open cart to violate the unique index")
	}
	if _, err := database.Exec(`INSERT INTO carts (account_id, is_open) VALUES (1, 0)`); err != nil {
		t.Errorf("closed carts should not conflict: %v", err)
	}
}
