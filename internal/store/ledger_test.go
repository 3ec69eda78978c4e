package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bossnaboss212/center/internal/db"
	"github.com/bossnaboss212/center/internal/model"
)

func TestCashBalance(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	balance, err := CashBalance(ctx, database)
	if err != nil {
		t.Fatalf("CashBalance: %v", err)
	}
	if !balance.IsZero() {
		t.Errorf("expected empty ledger to balance at 0, got %s", balance)
	}

	CreateLedgerEntry(ctx, database, model.LedgerIncome, decimal.RequireFromString("1500.50"), "XAF", "vente marché")
	CreateLedgerEntry(ctx, database, model.LedgerExpense, decimal.NewFromInt(400), "XAF", "transport")

	balance, _ = CashBalance(ctx, database)
	if !balance.Equal(decimal.RequireFromString("1100.50")) {
		t.Errorf("expected 1100.50, got %s", balance)
	}
}

func TestCreatePayrollCreatesWorker(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p, err := CreatePayroll(ctx, database, 777, decimal.NewFromInt(2500), model.MethodMobile, "", "XAF")
	if err != nil {
		t.Fatalf("CreatePayroll: %v", err)
	}
	if p.WorkerTelegramID != 777 || p.Method != model.MethodMobile || p.Note != "" {
		t.Errorf("unexpected payroll: %+v", p)
	}

	worker, _ := GetAccountByTelegramID(ctx, database, 777)
	if worker == nil || worker.Role != model.RoleWorker {
		t.Fatalf("expected worker account to be created, got %+v", worker)
	}

	entries, _ := ListLedgerEntries(ctx, database, 0)
	if len(entries) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(entries))
	}
	if entries[0].Type != model.LedgerExpense || entries[0].Description != "Paie 777" {
		t.Errorf("unexpected expense: %+v", entries[0])
	}

	balance, _ := CashBalance(ctx, database)
	if !balance.Equal(decimal.NewFromInt(-2500)) {
		t.Errorf("expected -2500, got %s", balance)
	}
}

func TestCreatePayrollKeepsExistingRole(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	GetOrCreateAccount(ctx, database, 1, "Boss", "", "", model.RoleAdmin)
	if _, err := CreatePayroll(ctx, database, 1, decimal.NewFromInt(100), model.MethodCash, "avance", "XAF"); err != nil {
		t.Fatalf("CreatePayroll: %v", err)
	}

	admin, _ := GetAccountByTelegramID(ctx, database, 1)
	if admin.Role != model.RoleAdmin {
		t.Errorf("expected admin to stay admin, got %s", admin.Role)
	}
}

func TestListPayrollBetween(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreatePayroll(ctx, database, 5, decimal.NewFromInt(100), model.MethodCash, "avance", "XAF")
	database.Exec(`UPDATE payroll SET date = '2020-01-01 10:00:00'`)
	CreatePayroll(ctx, database, 6, decimal.NewFromInt(200), model.MethodCash, "", "XAF")

	start, end := DayBounds(time.Now())
	payrolls, err := ListPayrollBetween(ctx, database, start, end)
	if err != nil {
		t.Fatalf("ListPayrollBetween: %v", err)
	}
	if len(payrolls) != 1 || payrolls[0].WorkerTelegramID != 6 {
		t.Errorf("expected only today's payroll, got %+v", payrolls)
	}
}
