package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/miguelantunes/partnerflow-backend/api/controllers"
	"github.com/miguelantunes/partnerflow-backend/api/routes"
	"github.com/miguelantunes/partnerflow-backend/internal/auth"
	"github.com/miguelantunes/partnerflow-backend/internal/commerce"
	"github.com/miguelantunes/partnerflow-backend/internal/coupons"
	"github.com/miguelantunes/partnerflow-backend/internal/influencers"
	"github.com/miguelantunes/partnerflow-backend/internal/workflows"
	"github.com/miguelantunes/partnerflow-backend/pkg/auth/session"
	"github.com/miguelantunes/partnerflow-backend/pkg/config"
	"github.com/miguelantunes/partnerflow-backend/pkg/db"
	"github.com/miguelantunes/partnerflow-backend/pkg/logger"
	"github.com/miguelantunes/partnerflow-backend/pkg/outbox"
	"github.com/miguelantunes/partnerflow-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.NewRepository(dbClient.Gorm()), sessionManager, cfg.JWT, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.Gorm()), logg)

	workflowService, err := workflows.NewService(workflows.NewRepository(dbClient.Gorm()), dbClient, outboxService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create workflow service", err)
		os.Exit(1)
	}

	influencerService, err := influencers.NewService(
		influencers.NewRepository(dbClient.Gorm()),
		dbClient,
		logg,
		cfg.JWT,
		cfg.App.PortalBaseURL,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create influencer service", err)
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

	router := routes.NewRouter(routes.RouterParams{
		Config:   cfg,
		Logger:   logg,
		Redis:    redisClient,
		Sessions: sessionManager,
		Readiness: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
		},
		Auth:        authService,
		Influencers: influencerService,
		Workflows:   workflowService,
		Coupons:     couponService,
	})

	addr := fmt.Sprintf(":%d", cfg.App.HTTPPort)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server shutting down gracefully")
}
