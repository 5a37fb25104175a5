// Package main запускает HTTP-сервер BFF маркетплейса бытовых услуг.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/homeservices/internal/config"
	"github.com/mmeshcher/homeservices/internal/handler"
	"github.com/mmeshcher/homeservices/internal/identity"
	"github.com/mmeshcher/homeservices/internal/marketplace"
	"github.com/mmeshcher/homeservices/internal/middleware"
	"github.com/mmeshcher/homeservices/internal/payment"
	"github.com/mmeshcher/homeservices/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}
	if err := cfg.Validate(); err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}
	if cfg.PaymentPublishableKey == "" {
		sugar.Warn("payment publishable key is not set, checkout is disabled")
	}
	if cfg.SessionSecret == "" {
		sugar.Warn("session secret is not set, sessions will not survive a restart")
	}

	var verifier *identity.Verifier
	if cfg.FirebaseProjectID == "" {
		sugar.Warn("firebase project id is not set, sign-in is disabled")
	} else {
		verifier, err = identity.NewFirebaseVerifier(context.Background(), cfg.FirebaseProjectID, cfg.FirebaseCredentials)
		if err != nil {
			sugar.Fatalw("identity provider error", "error", err.Error())
		}
	}

	api := marketplace.NewClient(cfg.APIBaseURL, cfg.HTTPClientTimeout)
	processor := payment.NewClient(cfg.PaymentAPIURL, cfg.PaymentPublishableKey, cfg.HTTPClientTimeout)
	svc := service.NewService(api, processor, verifier, logger)

	authMiddleware := middleware.NewAuthMiddleware(cfg.SessionSecret).WithRefresher(svc, cfg.SessionRefreshEvery)
	h := handler.NewHandler(svc, logger, authMiddleware,
		handler.WithCORS(cfg.CORSAllowedOrigins),
		handler.WithMetrics(middleware.NewMetrics(prometheus.DefaultRegisterer), promhttp.Handler()),
	)

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           h.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("starting homeservices server", "addr", cfg.RunAddress, "api", cfg.APIBaseURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
