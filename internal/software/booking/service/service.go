package service

import (
	"github.com/shopspring/decimal"

	"ride-booking/internal/domain/fare"
	"ride-booking/internal/general/logger"
	"ride-booking/internal/ports"
)

// bookingService encapsulates the booking transaction logic and dependencies.
type bookingService struct {
	logger      *logger.Logger
	uow         ports.UnitOfWork
	riderRepo   ports.RiderRepository
	driverRepo  ports.DriverRepository
	availRepo   ports.AvailabilityRepository
	accountRepo ports.AccountRepository
	routeRepo   ports.RouteRepository
	dimRepo     ports.DimensionRepository
	rideRepo    ports.RideRepository
	paymentRepo ports.PaymentRepository
	pub         ports.EventPublisher
	rates       fare.Rates
	openingBal  decimal.Decimal // default starting balance for lazily created riders
}

// NewBookingService creates a new BookingService with the provided dependencies.
// pub may be nil; event publishing is then skipped.
func NewBookingService(
	logger *logger.Logger,
	uow ports.UnitOfWork,
	riderRepo ports.RiderRepository,
	driverRepo ports.DriverRepository,
	availRepo ports.AvailabilityRepository,
	accountRepo ports.AccountRepository,
	routeRepo ports.RouteRepository,
	dimRepo ports.DimensionRepository,
	rideRepo ports.RideRepository,
	paymentRepo ports.PaymentRepository,
	pub ports.EventPublisher,
	rates fare.Rates,
	openingBalance decimal.Decimal,
) ports.BookingService {
	return &bookingService{
		logger:      logger,
		uow:         uow,
		riderRepo:   riderRepo,
		driverRepo:  driverRepo,
		availRepo:   availRepo,
		accountRepo: accountRepo,
		routeRepo:   routeRepo,
		dimRepo:     dimRepo,
		rideRepo:    rideRepo,
		paymentRepo: paymentRepo,
		pub:         pub,
		rates:       rates,
		openingBal:  openingBalance,
	}
}
