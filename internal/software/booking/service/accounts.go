package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"ride-booking/internal/domain/booking"
	"ride-booking/internal/domain/driver"
	"ride-booking/internal/domain/fare"
	"ride-booking/internal/domain/ledger"
	"ride-booking/internal/domain/rider"
	"ride-booking/internal/ports"
)

// CreateRider creates a rider and their ledger account in one transaction.
// Re-running with an existing name returns the existing rider and account
// unchanged.
func (service *bookingService) CreateRider(ctx context.Context, name string, startingBalance decimal.Decimal) (ports.CreateRiderResult, error) {
	if _, err := rider.New(name); err != nil {
		return ports.CreateRiderResult{}, err
	}
	if startingBalance.IsNegative() {
		return ports.CreateRiderResult{}, ledger.ErrNegativeAmount
	}

	var result ports.CreateRiderResult
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		r, created, err := service.riderRepo.GetOrCreateByName(txCtx, name)
		if err != nil {
			return err
		}

		var account *ledger.Account
		if created {
			account, err = service.accountRepo.CreateForRider(txCtx, r.ID, startingBalance)
		} else {
			account, err = service.accountRepo.GetForRiderLocked(txCtx, r.ID)
		}
		if err != nil {
			return err
		}
		if account == nil {
			return booking.ErrNoAccount
		}

		result = ports.CreateRiderResult{
			RiderID:   r.ID,
			Name:      r.Name,
			AccountID: account.ID,
			Balance:   account.Balance,
		}

		if created {
			service.logger.Info(txCtx, "rider_created", "Rider and ledger account created", map[string]any{
				"rider_id":   r.ID,
				"account_id": account.ID,
			})
		}
		return nil
	})
	if err != nil {
		return ports.CreateRiderResult{}, booking.WrapStore(err)
	}
	return result, nil
}

// AdjustBalance adds to or deducts from a rider's account, returning the new
// balance. A deduction that would take the balance below zero is rejected.
func (service *bookingService) AdjustBalance(ctx context.Context, riderID int64, amount decimal.Decimal, op ports.BalanceOp) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, ledger.ErrNegativeAmount
	}

	var balance decimal.Decimal
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		account, err := service.accountRepo.GetForRiderLocked(txCtx, riderID)
		if err != nil {
			return err
		}
		if account == nil {
			return booking.ErrNoAccount
		}

		switch op {
		case ports.BalanceAdd:
			next, err := account.Adjusted(amount)
			if err != nil {
				return err
			}
			if err := service.accountRepo.Credit(txCtx, account.ID, amount); err != nil {
				return err
			}
			balance = next
		case ports.BalanceDeduct:
			next, err := account.Adjusted(amount.Neg())
			if errors.Is(err, ledger.ErrBalanceBelowZero) {
				return &booking.InsufficientFundsError{Balance: account.Balance, Required: amount}
			}
			if err != nil {
				return err
			}
			// the conditional store debit is the last word under concurrency
			debited, err := service.accountRepo.Debit(txCtx, account.ID, amount)
			if err != nil {
				return err
			}
			if !debited {
				return &booking.InsufficientFundsError{Balance: account.Balance, Required: amount}
			}
			balance = next
		default:
			return fmt.Errorf("unknown balance operation %q", op)
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, booking.WrapStore(err)
	}
	return balance, nil
}

// SetRouteDistance records or updates the authoritative distance for a
// location pair.
func (service *bookingService) SetRouteDistance(ctx context.Context, pickupID, destinationID int64, miles decimal.Decimal) error {
	if miles.IsNegative() {
		return fare.ErrNegativeDistance
	}

	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return service.routeRepo.Upsert(txCtx, pickupID, destinationID, miles)
	})
	return booking.WrapStore(err)
}

// GetRouteDistance reads the recorded distance for a location pair. An
// unrecorded pair is ErrRouteNotFound, same as during booking.
func (service *bookingService) GetRouteDistance(ctx context.Context, pickupID, destinationID int64) (decimal.Decimal, error) {
	var miles decimal.Decimal
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		m, found, err := service.routeRepo.DistanceBetween(txCtx, pickupID, destinationID)
		if err != nil {
			return err
		}
		if !found {
			return booking.ErrRouteNotFound
		}
		miles = m
		return nil
	})
	if err != nil {
		return decimal.Zero, booking.WrapStore(err)
	}
	return miles, nil
}

// AddAvailabilityWindow registers a weekly availability window for a driver.
func (service *bookingService) AddAvailabilityWindow(ctx context.Context, driverID int64, dayOfWeek, startHour, endHour int) (*driver.AvailabilityWindow, error) {
	w, err := driver.NewWindow(driverID, dayOfWeek, startHour, endHour)
	if err != nil {
		return nil, err
	}

	err = service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		d, err := service.driverRepo.GetByID(txCtx, driverID)
		if err != nil {
			return err
		}
		if d == nil {
			return booking.ErrDriverNotFound
		}
		return service.availRepo.AddWindow(txCtx, w)
	})
	if err != nil {
		return nil, booking.WrapStore(err)
	}
	return w, nil
}

// SetWindowActive toggles an availability window on or off.
func (service *bookingService) SetWindowActive(ctx context.Context, windowID int64, active bool) error {
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		found, err := service.availRepo.SetActive(txCtx, windowID, active)
		if err != nil {
			return err
		}
		if !found {
			return booking.ErrWindowNotFound
		}
		return nil
	})
	return booking.WrapStore(err)
}

// ListDriverWindows returns all availability windows of one driver.
func (service *bookingService) ListDriverWindows(ctx context.Context, driverID int64) ([]driver.AvailabilityWindow, error) {
	var windows []driver.AvailabilityWindow
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		d, err := service.driverRepo.GetByID(txCtx, driverID)
		if err != nil {
			return err
		}
		if d == nil {
			return booking.ErrDriverNotFound
		}
		windows, err = service.availRepo.ListForDriver(txCtx, driverID)
		return err
	})
	if err != nil {
		return nil, booking.WrapStore(err)
	}
	return windows, nil
}
