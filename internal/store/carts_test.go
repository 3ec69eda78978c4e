package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bossnaboss212/center/internal/db"
)

func TestEnsureOpenCartReuses(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	customer := newCustomer(t, ctx, database, 42)
	c1, err := EnsureOpenCart(ctx, database, customer.ID)
	if err != nil {
		t.Fatalf("EnsureOpenCart: %v", err)
	}
	c2, _ := EnsureOpenCart(ctx, database, customer.ID)
	if c1.ID != c2.ID {
		t.Errorf("expected the same open cart, got %d and %d", c1.ID, c2.ID)
	}
	if n := db.CountRows(t, database, "carts"); n != 1 {
		t.Errorf("expected 1 cart, got %d", n)
	}
}

func TestAddToCartInactiveProduct(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	customer := newCustomer(t, ctx, database, 42)
	p, _ := CreateProduct(ctx, database, "Bread", "BRD", decimal.NewFromInt(500), 10)
	ToggleProduct(ctx, database, "BRD")

	cart, _ := EnsureOpenCart(ctx, database, customer.ID)
	if _, err := AddToCart(ctx, database, cart.ID, p.ID); !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("expected ErrProductUnavailable, got %v", err)
	}
	if _, err := AddToCart(ctx, database, cart.ID, 999); !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("expected ErrProductUnavailable for unknown product, got %v", err)
	}
	if n := db.CountRows(t, database, "cart_items"); n != 0 {
		t.Errorf("expected no cart lines, got %d", n)
	}
}

func TestAdjustCartItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	customer := newCustomer(t, ctx, database, 42)
	p, _ := CreateProduct(ctx, database, "Bread", "BRD", decimal.NewFromInt(500), 10)
	cart, _ := EnsureOpenCart(ctx, database, customer.ID)
	item, _ := AddToCart(ctx, database, cart.ID, p.ID)

	cartID, err := AdjustCartItem(ctx, database, item.ID, 1)
	if err != nil {
		t.Fatalf("AdjustCartItem(+1): %v", err)
	}
	if cartID != cart.ID {
		t.Errorf("expected cart %d, got %d", cart.ID, cartID)
	}
	got, _ := GetCartItem(ctx, database, item.ID)
	if got.Qty != 2 {
		t.Errorf("expected qty 2, got %d", got.Qty)
	}

	AdjustCartItem(ctx, database, item.ID, -1)
	// Decrementing a line at one removes it.
	if _, err := AdjustCartItem(ctx, database, item.ID, -1); err != nil {
		t.Fatalf("AdjustCartItem(-1): %v", err)
	}
	if got, _ := GetCartItem(ctx, database, item.ID); got != nil {
		t.Errorf("expected line to be deleted, got %+v", got)
	}

	if _, err := AdjustCartItem(ctx, database, item.ID, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for deleted line, got %v", err)
	}
}

func TestRemoveCartItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	customer := newCustomer(t, ctx, database, 42)
	bread, _ := CreateProduct(ctx, database, "Bread", "BRD", decimal.NewFromInt(500), 10)
	milk, _ := CreateProduct(ctx, database, "Milk", "MLK", decimal.NewFromInt(300), 10)
	cart, _ := EnsureOpenCart(ctx, database, customer.ID)
	line, _ := AddToCart(ctx, database, cart.ID, bread.ID)
	AddToCart(ctx, database, cart.ID, milk.ID)
	AddToCart(ctx, database, cart.ID, milk.ID)

	if _, err := RemoveCartItem(ctx, database, line.ID); err != nil {
		t.Fatalf("RemoveCartItem: %v", err)
	}

	items, _ := ListCartItems(ctx, database, cart.ID)
	if len(items) != 1 || items[0].ProductName != "Milk" {
		t.Fatalf("expected only milk left, got %+v", items)
	}
	if total := CartTotal(items); !total.Equal(decimal.NewFromInt(600)) {
		t.Errorf("expected total 600, got %s", total)
	}

	if _, err := RemoveCartItem(ctx, database, line.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound removing twice, got %v", err)
	}
}
