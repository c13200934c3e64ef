package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/miguelantunes/partnerflow-backend/internal/commerce"
	"github.com/miguelantunes/partnerflow-backend/internal/coupons"
	"github.com/miguelantunes/partnerflow-backend/internal/cron"
	"github.com/miguelantunes/partnerflow-backend/internal/workflows"
	"github.com/miguelantunes/partnerflow-backend/pkg/config"
	"github.com/miguelantunes/partnerflow-backend/pkg/db"
	"github.com/miguelantunes/partnerflow-backend/pkg/logger"
	"github.com/miguelantunes/partnerflow-backend/pkg/metrics"
	"github.com/miguelantunes/partnerflow-backend/pkg/outbox"
	"github.com/miguelantunes/partnerflow-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.NewClient(cfg.DB)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	outboxRepo := outbox.NewRepository(dbClient.Gorm())
	outboxService := outbox.NewService(outboxRepo, logg)

	workflowService, err := workflows.NewService(workflows.NewRepository(dbClient.Gorm()), dbClient, outboxService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create workflow service", err)
		os.Exit(1)
	}

	provider, err := commerce.NewHTTPProvider(cfg.Commerce)
	if err != nil {
		logg.Error(context.Background(), "failed to create commerce provider", err)
		os.Exit(1)
	}

	couponService, err := coupons.NewService(
		coupons.NewRepository(dbClient.Gorm()),
		provider,
		workflowService,
		cfg.Commission.Rate,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon service", err)
		os.Exit(1)
	}

	commissionSyncJob, err := cron.NewCommissionSyncJob(cron.CommissionSyncJobParams{
		Logger:  logg,
		Coupons: couponService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create commission sync job", err)
		os.Exit(1)
	}

	outboxRetentionJob, err := cron.NewOutboxRetentionJob(cron.OutboxRetentionJobParams{
		Logger:    logg,
		Outbox:    outboxRepo,
		Retention: cfg.Outbox.RetentionPeriod,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create outbox retention job", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry(
		cron.Every(cfg.Cron.CommissionSyncEvery, commissionSyncJob),
		cron.Every(cfg.Cron.OutboxRetentionEvery, outboxRetentionJob),
	)

	lock, err := cron.NewRedisLock(redisClient, lockKey(redisClient, cfg.App.Env), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.TickInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(client *redis.Client, env string) string {
	if env == "" {
		env = "local"
	}
	return client.LockKey(fmt.Sprintf("cron-worker:%s", env))
}
