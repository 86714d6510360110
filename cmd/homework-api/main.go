package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/noah-isme/homework-tracker-api/api/swagger"
	"github.com/noah-isme/homework-tracker-api/internal/handler"
	"github.com/noah-isme/homework-tracker-api/internal/repository"
	"github.com/noah-isme/homework-tracker-api/internal/scheduler"
	"github.com/noah-isme/homework-tracker-api/internal/service"
	"github.com/noah-isme/homework-tracker-api/pkg/cache"
	"github.com/noah-isme/homework-tracker-api/pkg/config"
	"github.com/noah-isme/homework-tracker-api/pkg/jobs"
	"github.com/noah-isme/homework-tracker-api/pkg/logger"
	"github.com/noah-isme/homework-tracker-api/pkg/mailer"
	"github.com/noah-isme/homework-tracker-api/pkg/validation"
)

// @title Homework Tracker API
// @version 1.0.0
// @description Homework tracking with subscriber reminders
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logr)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			logr.Warn("store close failed", zap.Error(err))
		}
	}()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Redis.CacheTTL, logr, cacheRepo.Enabled())
	validator := validation.New()

	transport, err := mailer.New(cfg.Mail, logr)
	if err != nil {
		return fmt.Errorf("mail transport: %w", err)
	}
	location, err := time.LoadLocation(cfg.Mail.Timezone)
	if err != nil {
		logr.Warn("unknown mail timezone, using UTC", zap.String("timezone", cfg.Mail.Timezone), zap.Error(err))
		location = time.UTC
	}
	locale := service.LocaleFor(cfg.Mail.Locale)
	renderer, err := service.NewRenderer(locale, location)
	if err != nil {
		return fmt.Errorf("notification templates: %w", err)
	}
	dispatcher := service.NewDispatcher(transport, service.DispatcherConfig{
		FromName:    cfg.Mail.FromName,
		FromAddress: cfg.Mail.FromAddress,
		SendTimeout: cfg.Notify.SendTimeout,
	}, metrics, logr)

	reminders := service.NewReminderService(
		st.homeworks,
		st.subscribers,
		renderer,
		dispatcher,
		service.NewTimeRemaining(locale, time.Now),
		metrics,
		logr,
		service.ReminderServiceConfig{Concurrency: cfg.Notify.Concurrency},
	)

	queue := jobs.NewQueue("notifications", jobs.QueueConfig{
		Workers:    cfg.Notify.QueueWorkers,
		MaxRetries: cfg.Notify.QueueRetries,
		Logger:     logr,
	})
	queue.Handle(service.JobTypeHomeworkCreated, reminders.HandleCreatedJob)
	queue.Start(context.WithoutCancel(ctx))
	defer queue.Stop()

	sweeper := service.NewSweeperService(st.homeworks, cacheSvc, metrics, logr, nil)

	if cfg.Scheduler.Enabled {
		sched := scheduler.New(logr)
		if err := sched.RegisterReminders(cfg.Scheduler.ReminderCron, reminders); err != nil {
			return err
		}
		if err := sched.RegisterSweeper(cfg.Scheduler.SweeperCron, sweeper); err != nil {
			return err
		}
		sched.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			sched.Stop(stopCtx)
		}()
		logr.Info("scheduler started",
			zap.String("reminders", cfg.Scheduler.ReminderCron),
			zap.String("sweeper", cfg.Scheduler.SweeperCron),
		)
	}

	router := newRouter(cfg, logr, metrics, handlers{
		homeworks:   handler.NewHomeworkHandler(service.NewHomeworkService(st.homeworks, cacheSvc, queue, validator, logr)),
		subscribers: handler.NewSubscriberHandler(service.NewSubscriberService(st.subscribers, validator, logr)),
		emails:      handler.NewEmailHandler(service.NewEmailService(st.emails, validator)),
		reminders:   handler.NewReminderHandler(reminders, sweeper),
		metrics: handler.NewMetricsHandler(metrics, map[string]handler.ReadinessCheck{
			cfg.StoreDriver: st.ping,
			"cache":         cacheRepo.Ping,
		}),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
