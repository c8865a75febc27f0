package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skipper/internal/app/availability"
	"skipper/internal/app/bookings"
	"skipper/internal/app/occupancies"
	"skipper/internal/app/policies"
	"skipper/internal/domain/booking"
	"skipper/internal/domain/occupancy"
	kafkabroker "skipper/internal/infra/broker/kafka"
	"skipper/internal/infra/config"
	mongodb "skipper/internal/infra/db/mongo"
	ginserver "skipper/internal/infra/http/gin"
	"skipper/internal/infra/obs"
	"skipper/internal/infra/security"
	"skipper/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	occupancyRepo, bookingRepo, ready, closeStorage, err := buildStorage(cfg, logger)
	if err != nil {
		logger.Error("storage init failed", "error", err)
		os.Exit(1)
	}
	defer closeStorage()

	publisher, closeBroker, err := buildPublisher(cfg, logger)
	if err != nil {
		logger.Error("broker init failed", "error", err)
		os.Exit(1)
	}
	defer closeBroker()

	occupancySvc := occupancies.NewService(occupancyRepo, publisher, cfg.Boundary, logger)
	bookingSvc := bookings.NewService(bookingRepo, occupancySvc, publisher, cfg.Booking, logger)
	availabilitySvc := availability.NewService(occupancySvc, cfg.Schedule)

	if len(cfg.KafkaBrokers) > 0 {
		consumer, err := kafkabroker.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, nil, kafkabroker.LifecycleCommandHandler{
			Bookings: bookingSvc,
			Logger:   logger,
		})
		if err != nil {
			logger.Error("consumer init failed", "error", err)
			os.Exit(1)
		}
		defer consumer.Close()
		go func() {
			topic := cfg.KafkaTopic + ".commands"
			if err := consumer.Run(ctx, []string{topic}); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("lifecycle consumer stopped", "error", err)
			}
		}()
	}

	authMW := ginserver.AuthMiddleware{AdminKeys: security.APIKeyVerifier{Hashes: cfg.AdminKeyHashes}}
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: ready}, ginserver.Handlers{
		Booking:        ginserver.BookingHandler{Bookings: bookingSvc},
		Availability:   ginserver.AvailabilityHandler{Availability: availabilitySvc},
		Maintenance:    ginserver.MaintenanceHandler{Occupancies: occupancySvc},
		AuthMiddleware: authMW.Handle,
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

func buildStorage(cfg config.Config, logger *slog.Logger) (occupancy.Repository, booking.Repository, func() error, func(), error) {
	if cfg.StorageMode == "mongo" {
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB, cfg.MongoConnectTimeout)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		occRepo := mongodb.NewOccupancyRepository(client.DB)
		indexCtx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnectTimeout)
		defer cancel()
		if err := occRepo.EnsureIndexes(indexCtx); err != nil {
			return nil, nil, nil, nil, err
		}
		ready := func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		closeFn := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Close(closeCtx); err != nil {
				logger.Warn("mongo disconnect failed", "error", err)
			}
		}
		return occRepo, mongodb.NewBookingRepository(client.DB), ready, closeFn, nil
	}
	logger.Info("using in-memory storage")
	return memory.NewOccupancyRepository(), memory.NewBookingRepository(), func() error { return nil }, func() {}, nil
}

func buildPublisher(cfg config.Config, logger *slog.Logger) (policies.Publisher, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("no kafka brokers configured, events are dropped")
		return policies.NopPublisher{}, func() {}, nil
	}
	producer, err := kafkabroker.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := producer.Close(); err != nil {
			logger.Warn("producer close failed", "error", err)
		}
	}
	return kafkabroker.EventPublisher{Producer: producer, Topic: cfg.KafkaTopic}, closeFn, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
