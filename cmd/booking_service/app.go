package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"ride-booking/internal/general/config"
	"ride-booking/internal/general/logger"
	"ride-booking/internal/general/postgres"
	"ride-booking/internal/general/rabbitmq"
	bookinghandler "ride-booking/internal/software/booking/handler"
	bookingservice "ride-booking/internal/software/booking/service"
	reporthandler "ride-booking/internal/software/reports/handler"
	reportservice "ride-booking/internal/software/reports/service"
)

// run wires the booking service and blocks until ctx is cancelled.
func run(ctx context.Context, configPath string) error {
	// set up a logger and a static request ID for startup logs
	logger := logger.New("booking-service")
	ctx = logger.WithRequestID(ctx, "startup-001")

	// load the config from file
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		logger.Error(ctx, "config_load_failed", "Failed to load configuration", err, nil)
		return err
	}

	// set up a Postgres connection pool
	pool, err := postgres.NewPool(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "db_connection_failed", "Failed to initialize Postgres pool", err, nil)
		return err
	}
	defer pool.Close()

	// connect to RabbitMQ; the client publishes booking events directly
	rmq, err := rabbitmq.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "rabbitmq_connection_failed", "Failed to connect to RabbitMQ", err, nil)
		return err
	}
	defer rmq.Close()

	// set up the unit of work and the repos
	uow := postgres.NewUnitOfWork(pool)
	riderRepo := postgres.NewRiderRepo()
	driverRepo := postgres.NewDriverRepo()
	availRepo := postgres.NewAvailabilityRepo()
	accountRepo := postgres.NewAccountRepo()
	routeRepo := postgres.NewRouteRepo()
	dimRepo := postgres.NewDimensionRepo()
	rideRepo := postgres.NewRideRepo()
	paymentRepo := postgres.NewPaymentRepo()
	reportRepo := postgres.NewReportRepo(pool)

	// set up the services
	svc := bookingservice.NewBookingService(
		logger, uow,
		riderRepo, driverRepo, availRepo, accountRepo,
		routeRepo, dimRepo, rideRepo, paymentRepo,
		rmq, cfg.Rates(), cfg.Pricing.DefaultStartingBalance,
	)
	reports := reportservice.NewReportService(logger, reportRepo)

	// set up the HTTP handlers and their routes
	mux := http.NewServeMux()
	bookinghandler.NewBookingHTTPHandler(svc, logger).RegisterRoutes(mux)
	reporthandler.NewReportHTTPHandler(reports, logger).RegisterRoutes(mux)

	// concurrency limiter (global) -- blocks when capacity is full
	limitedHandler := withConcurrencyLimit(cfg.Service.MaxConcurrent, mux)

	// set up the server configurations
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Service.Port),
		Handler:           limitedHandler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	logger.Info(ctx, "service_started",
		fmt.Sprintf("Booking Service started on port %d", cfg.Service.Port),
		map[string]any{"port": cfg.Service.Port, "max_concurrent": cfg.Service.MaxConcurrent},
	)

	// start the server in a background goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	// wait for context cancellation or server error
	select {
	case <-ctx.Done():
		// graceful HTTP shutdown on context cancel
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info(ctx, "shutdown_started", "Shutting down HTTP server", nil)
		if err := srv.Shutdown(shCtx); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "http_shutdown_failed", "Failed to gracefully shut down HTTP server", err, nil)
		}
	case err := <-errCh:
		// server returned a terminal error at startup or during run
		if err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "http_server_error", "HTTP server terminated with error", err, map[string]any{"port": cfg.Service.Port})
			return err
		}
		return nil
	}

	return nil
}

// withConcurrencyLimit wraps an http.Handler with a semaphore-based limiter.
// It controls how many HTTP requests can be in-progress at the same time.
func withConcurrencyLimit(n int, next http.Handler) http.Handler {
	if n <= 0 {
		return next
	}
	sem := make(chan struct{}, n)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case sem <- struct{}{}: // acquire
			defer func() { <-sem }() // release
			next.ServeHTTP(w, r)
		case <-r.Context().Done():
			// client canceled or server is shutting down
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		}
	})
}
