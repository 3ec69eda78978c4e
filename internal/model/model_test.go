package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role     Role
		minimum  Role
		expected bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleWorker, true},
		{RoleAdmin, RoleCustomer, true},
		{RoleWorker, RoleAdmin, false},
		{RoleWorker, RoleWorker, true},
		{RoleCustomer, RoleWorker, false},
		{RoleCustomer, RoleCustomer, true},
		// Unknown roles fail-closed.
		{"unknown", RoleCustomer, false},
		{RoleAdmin, "unknown", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got := RoleAtLeast(tt.role, tt.minimum)
		if got != tt.expected {
			t.Errorf("RoleAtLeast(%q, %q) = %v, want %v", tt.role, tt.minimum, got, tt.expected)
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		expected bool
	}{
		{OrderNew, OrderPaid, true},
		{OrderNew, OrderConfirmed, true},
		{OrderPaid, OrderPaid, true},
		{OrderPaid, OrderShipped, true},
		{OrderShipped, OrderDone, true},
		{OrderPaid, OrderNew, false},
		{OrderDone, OrderCanceled, false},
		{OrderCanceled, OrderNew, false},
		{OrderShipped, OrderCanceled, true},
		{OrderNew, "BOGUS", false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.expected {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.expected)
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"500", "500", false},
		{"12,5", "12.5", false},
		{" 3.456 ", "3.46", false},
		{"", "", true},
		{"abc", "", true},
		{"1,2,3", "", true},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAmount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestLineTotals(t *testing.T) {
	price := decimal.RequireFromString("0.335")
	line := LineTotal(3, price)
	if line.String() != "1.01" {
		t.Errorf("LineTotal = %s, want 1.01", line)
	}

	total := SumLines([]decimal.Decimal{line, LineTotal(2, decimal.NewFromInt(500))})
	if FormatMoney(total) != "1001.01" {
		t.Errorf("SumLines = %s, want 1001.01", FormatMoney(total))
	}
}

func TestStockDirectionSigned(t *testing.T) {
	if got := StockOut.Signed(5); got != -5 {
		t.Errorf("StockOut.Signed(5) = %d", got)
	}
	if got := StockOut.Signed(-5); got != -5 {
		t.Errorf("StockOut.Signed(-5) = %d", got)
	}
	if got := StockIn.Signed(-4); got != 4 {
		t.Errorf("StockIn.Signed(-4) = %d", got)
	}
}

func TestParseEnums(t *testing.T) {
	if m, ok := ParsePaymentMethod(" Mobile "); !ok || m != MethodMobile {
		t.Errorf("ParsePaymentMethod(Mobile) = %q, %v", m, ok)
	}
	if _, ok := ParsePaymentMethod("cheque"); ok {
		t.Error("expected cheque to be rejected")
	}
	if s, ok := ParseShiftStatus("absent"); !ok || s != ShiftAbsent {
		t.Errorf("ParseShiftStatus(absent) = %q, %v", s, ok)
	}
	if _, ok := ParseShiftStatus("late"); ok {
		t.Error("expected late to be rejected")
	}
}
