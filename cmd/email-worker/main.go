package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/miguelantunes/partnerflow-backend/internal/emails"
	"github.com/miguelantunes/partnerflow-backend/pkg/config"
	"github.com/miguelantunes/partnerflow-backend/pkg/db"
	"github.com/miguelantunes/partnerflow-backend/pkg/logger"
	"github.com/miguelantunes/partnerflow-backend/pkg/pubsub"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "email-worker"})

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "email-worker",
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

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub client", err)
		}
	}()

	sender, err := emails.NewSMTPSender(cfg.SMTP)
	if err != nil {
		logg.Error(context.Background(), "failed to create smtp sender", err)
		os.Exit(1)
	}

	consumer, err := emails.NewConsumer(
		emails.NewRepository(dbClient.Gorm()),
		sender,
		pubsubClient.EmailRequestsSubscription(),
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create email consumer", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "starting email worker")

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "email worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "email worker shutting down gracefully")
}
