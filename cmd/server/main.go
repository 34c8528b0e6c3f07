package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpapi "github.com/YakRoboticsGarage/yakrover-backend/internal/api/http"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/application/access"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/application/payment"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/application/registry"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/application/robotctl"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/config"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/domain/session"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/infrastructure/metrics"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/infrastructure/postgres"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/infrastructure/robothttp"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/infrastructure/sse"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/infrastructure/x402"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, "internal/migrations"); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	// infrastructure
	locks := session.NewLockTable()
	sseHub := sse.NewHub()
	m := metrics.New(func() float64 { return float64(locks.Len()) })
	robotClient := robothttp.NewClient(cfg.RobotTimeout, logger)
	facilitator := x402.NewFacilitator(cfg.FacilitatorURL, 60*time.Second, logger)
	robotRepo := postgres.NewRobotRepository(pool)

	// services
	registrySvc := registry.NewService(robotRepo, robotClient, logger)
	gate := payment.NewGate(payment.Config{
		Enabled:         cfg.PaymentEnabled,
		Price:           cfg.SessionPrice,
		Network:         cfg.PaymentNetwork,
		PayToFallback:   cfg.PaymentAddress,
		SessionDuration: cfg.SessionDuration,
	}, registrySvc, facilitator, logger)
	robotSvc := robotctl.NewService(robotClient, locks, logger)
	accessSvc := access.NewService(locks, gate, robotSvc, sseHub, m, cfg.SessionDuration, logger)

	if cfg.PaymentEnabled {
		logger.Info().Str("price", cfg.SessionPrice).Dur("duration", cfg.SessionDuration).Msg("x402 payments enabled")
	} else {
		logger.Info().Msg("payment gate disabled, free access mode")
	}

	// API server
	apiServer := httpapi.NewServer(accessSvc, robotSvc, registrySvc, gate, sseHub, m, cfg.CORSOrigins)

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// background expiry sweep
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go accessSvc.Run(sweepCtx, cfg.SweepInterval)

	// start server
	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	stopSweep()
	sseHub.Stop()
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
}
