package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"ride-booking/internal/domain/booking"
	"ride-booking/internal/domain/driver"
	"ride-booking/internal/domain/ledger"
	"ride-booking/internal/domain/rider"
	"ride-booking/internal/ports"
)

func TestCreateRider(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	ctx := context.Background()

	res, err := svc.CreateRider(ctx, "alice", decimal.RequireFromString("75.00"))
	if err != nil {
		t.Fatalf("CreateRider returned error: %v", err)
	}
	if res.RiderID == 0 || res.AccountID == 0 {
		t.Errorf("expected store-assigned ids, got rider=%d account=%d", res.RiderID, res.AccountID)
	}
	if !res.Balance.Equal(decimal.RequireFromString("75.00")) {
		t.Errorf("balance = %s, want 75.00", res.Balance)
	}

	// idempotent on name: the existing rider and account come back unchanged
	again, err := svc.CreateRider(ctx, "alice", decimal.RequireFromString("10.00"))
	if err != nil {
		t.Fatalf("second CreateRider returned error: %v", err)
	}
	if again.RiderID != res.RiderID || again.AccountID != res.AccountID {
		t.Errorf("existing rider duplicated: %+v vs %+v", again, res)
	}
	if !again.Balance.Equal(decimal.RequireFromString("75.00")) {
		t.Errorf("existing balance overwritten to %s", again.Balance)
	}
}

func TestCreateRiderValidation(t *testing.T) {
	svc := newTestService(newFakeStore(), nil)
	ctx := context.Background()

	if _, err := svc.CreateRider(ctx, "   ", decimal.Zero); !errors.Is(err, rider.ErrNameRequired) {
		t.Errorf("blank name: err = %v, want ErrNameRequired", err)
	}
	if _, err := svc.CreateRider(ctx, "bob", decimal.RequireFromString("-1")); !errors.Is(err, ledger.ErrNegativeAmount) {
		t.Errorf("negative balance: err = %v, want ErrNegativeAmount", err)
	}
}

func TestAdjustBalance(t *testing.T) {
	store := newFakeStore()
	riderID := store.addRider("alice", decimal.RequireFromString("20.00"))
	svc := newTestService(store, nil)
	ctx := context.Background()

	balance, err := svc.AdjustBalance(ctx, riderID, decimal.RequireFromString("5.50"), ports.BalanceAdd)
	if err != nil {
		t.Fatalf("add returned error: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("25.50")) {
		t.Errorf("balance after add = %s, want 25.50", balance)
	}

	balance, err = svc.AdjustBalance(ctx, riderID, decimal.RequireFromString("25.50"), ports.BalanceDeduct)
	if err != nil {
		t.Fatalf("deduct returned error: %v", err)
	}
	if !balance.IsZero() {
		t.Errorf("balance after deduct = %s, want 0", balance)
	}

	// the balance never goes below zero
	_, err = svc.AdjustBalance(ctx, riderID, decimal.RequireFromString("0.01"), ports.BalanceDeduct)
	var ife *booking.InsufficientFundsError
	if !errors.As(err, &ife) {
		t.Fatalf("overdraw: err = %v, want InsufficientFundsError", err)
	}
	if got := store.riderBalance(riderID); !got.IsZero() {
		t.Errorf("balance changed to %s by a rejected deduction", got)
	}
}

func TestAdjustBalanceNoAccount(t *testing.T) {
	svc := newTestService(newFakeStore(), nil)

	_, err := svc.AdjustBalance(context.Background(), 7, decimal.RequireFromString("1.00"), ports.BalanceAdd)
	if !errors.Is(err, booking.ErrNoAccount) {
		t.Errorf("err = %v, want ErrNoAccount", err)
	}
}

func TestAvailabilityWindows(t *testing.T) {
	store := newFakeStore()
	driverID := store.addDriver("bob")
	svc := newTestService(store, nil)
	ctx := context.Background()

	w, err := svc.AddAvailabilityWindow(ctx, driverID, 1, 9, 17)
	if err != nil {
		t.Fatalf("AddAvailabilityWindow returned error: %v", err)
	}
	if w.ID == 0 || !w.Active {
		t.Errorf("window not stored active with an id: %+v", w)
	}

	if _, err := svc.AddAvailabilityWindow(ctx, driverID, 1, 17, 9); !errors.Is(err, driver.ErrInvalidHours) {
		t.Errorf("inverted hours: err = %v, want ErrInvalidHours", err)
	}
	if _, err := svc.AddAvailabilityWindow(ctx, 99, 1, 9, 17); !errors.Is(err, booking.ErrDriverNotFound) {
		t.Errorf("unknown driver: err = %v, want ErrDriverNotFound", err)
	}

	if err := svc.SetWindowActive(ctx, w.ID, false); err != nil {
		t.Fatalf("SetWindowActive returned error: %v", err)
	}
	if err := svc.SetWindowActive(ctx, 99, false); !errors.Is(err, booking.ErrWindowNotFound) {
		t.Errorf("unknown window: err = %v, want ErrWindowNotFound", err)
	}

	windows, err := svc.ListDriverWindows(ctx, driverID)
	if err != nil {
		t.Fatalf("ListDriverWindows returned error: %v", err)
	}
	if len(windows) != 1 || windows[0].Active {
		t.Errorf("windows = %+v, want one deactivated window", windows)
	}
}

func TestSetRouteDistance(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	ctx := context.Background()

	if err := svc.SetRouteDistance(ctx, 1, 2, decimal.RequireFromString("12.5")); err != nil {
		t.Fatalf("SetRouteDistance returned error: %v", err)
	}
	// updating the same pair overwrites
	if err := svc.SetRouteDistance(ctx, 1, 2, decimal.RequireFromString("13.0")); err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	if got := store.routes[[2]int64{1, 2}]; !got.Equal(decimal.RequireFromString("13.0")) {
		t.Errorf("stored distance = %s, want 13.0", got)
	}

	if err := svc.SetRouteDistance(ctx, 1, 2, decimal.RequireFromString("-1")); err == nil {
		t.Error("negative distance accepted")
	}
}

func TestGetRouteDistance(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	ctx := context.Background()

	if err := svc.SetRouteDistance(ctx, 1, 2, decimal.RequireFromString("12.5")); err != nil {
		t.Fatalf("SetRouteDistance returned error: %v", err)
	}

	miles, err := svc.GetRouteDistance(ctx, 1, 2)
	if err != nil {
		t.Fatalf("GetRouteDistance returned error: %v", err)
	}
	if !miles.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("distance = %s, want 12.5", miles)
	}

	// pairs are directional, so the reverse lookup misses
	if _, err := svc.GetRouteDistance(ctx, 2, 1); !errors.Is(err, booking.ErrRouteNotFound) {
		t.Errorf("reverse pair: err = %v, want ErrRouteNotFound", err)
	}
	if _, err := svc.GetRouteDistance(ctx, 8, 9); !errors.Is(err, booking.ErrRouteNotFound) {
		t.Errorf("unknown pair: err = %v, want ErrRouteNotFound", err)
	}
}

func TestInactiveWindowNotBookable(t *testing.T) {
	store := seedBookableStore()
	svc := newTestService(store, nil)
	ctx := context.Background()

	if err := svc.SetWindowActive(ctx, 1, false); err != nil {
		t.Fatalf("SetWindowActive returned error: %v", err)
	}

	_, err := svc.Book(ctx, validRequest(1))
	if !errors.Is(err, booking.ErrNoDriverAvailable) {
		t.Errorf("err = %v, want ErrNoDriverAvailable after deactivating the only window", err)
	}
}
