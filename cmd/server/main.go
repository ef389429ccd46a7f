package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/vetdesk/vetdesk/internal/app"
	"github.com/vetdesk/vetdesk/internal/config"
	"github.com/vetdesk/vetdesk/internal/controller/httpapi"
	"github.com/vetdesk/vetdesk/internal/notify"
	"github.com/vetdesk/vetdesk/internal/observability/metrics"
	"github.com/vetdesk/vetdesk/internal/reminder"
	"github.com/vetdesk/vetdesk/internal/repository"
	"github.com/vetdesk/vetdesk/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting vetdesk",
		zap.String("environment", cfg.Environment),
		zap.String("http_addr", cfg.HTTPAddr),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	// Repositories
	appointmentRepo := repository.NewAppointmentRepository(pool)
	workingHoursRepo := repository.NewWorkingHoursRepository(pool)
	clinicRepo := repository.NewClinicRepository(pool)
	petRepo := repository.NewPetRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	recordRepo := repository.NewMedicalRecordRepository(pool)

	// Notification sink: Telegram when a token is configured, logs otherwise.
	var sink notify.EventSink
	if cfg.TelegramToken != "" {
		tg, err := bot.New(cfg.TelegramToken)
		if err != nil {
			logger.Fatal("Failed to create telegram bot", zap.Error(err))
		}
		sink = notify.NewTelegramSink(tg, userRepo, logger)
		logger.Info("Using telegram notification sink")
	} else {
		sink = notify.NewLogSink(logger)
		logger.Info("TELEGRAM_TOKEN not set, notifications go to the log only")
	}

	// Reminder ledger: Redis when configured, in-memory otherwise.
	var ledger reminder.Ledger
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ledger = reminder.NewRedisLedger(rdb)
		defer rdb.Close()
		logger.Info("Using redis reminder ledger", zap.String("addr", cfg.RedisAddr))
	} else {
		ledger = reminder.NewMemoryLedger()
		logger.Info("REDIS_ADDR not set, reminder ledger is in-memory")
	}

	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)

	// Services
	availability := service.NewAvailabilityChecker(appointmentRepo, logger)
	clinicService := service.NewClinicService(clinicRepo, workingHoursRepo, logger)
	petService := service.NewPetService(petRepo, logger)
	appointmentService := service.NewAppointmentService(
		appointmentRepo, petRepo, clinicRepo, availability, sink, bookingMetrics, logger)
	reviewService := service.NewReviewService(appointmentRepo, reviewRepo, logger)
	recordService := service.NewRecordService(appointmentRepo, recordRepo, logger)

	reminderChecker := reminder.NewChecker(appointmentRepo, clinicRepo, petRepo, ledger, sink, logger)

	sweeper := app.NewSweeper(appointmentService, reminderChecker, logger)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	router := httpapi.New(&httpapi.Config{
		Logger:         logger,
		Clinics:        clinicService,
		Pets:           petService,
		Appointments:   appointmentService,
		Reviews:        reviewService,
		Records:        recordService,
		Availability:   availability,
		MetricsHandler: promhttp.Handler(),
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
}
