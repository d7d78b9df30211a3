package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCanCover(t *testing.T) {
	account := &Account{Balance: decimal.RequireFromString("30.31")}

	if !account.CanCover(decimal.RequireFromString("30.31")) {
		t.Error("exact balance should cover the amount")
	}
	if !account.CanCover(decimal.RequireFromString("30.30")) {
		t.Error("smaller amount should be covered")
	}
	if account.CanCover(decimal.RequireFromString("30.32")) {
		t.Error("larger amount should not be covered")
	}
}

func TestAdjusted(t *testing.T) {
	account := &Account{Balance: decimal.RequireFromString("20.00")}

	next, err := account.Adjusted(decimal.RequireFromString("5.50"))
	if err != nil {
		t.Fatalf("credit adjustment returned error: %v", err)
	}
	if !next.Equal(decimal.RequireFromString("25.50")) {
		t.Errorf("adjusted balance = %s, want 25.50", next)
	}

	// a debit down to exactly zero is allowed
	next, err = account.Adjusted(decimal.RequireFromString("-20.00"))
	if err != nil {
		t.Fatalf("debit to zero returned error: %v", err)
	}
	if !next.IsZero() {
		t.Errorf("adjusted balance = %s, want 0", next)
	}

	// one cent past the balance is rejected
	if _, err := account.Adjusted(decimal.RequireFromString("-20.01")); !errors.Is(err, ErrBalanceBelowZero) {
		t.Errorf("overdraw: err = %v, want ErrBalanceBelowZero", err)
	}
}
