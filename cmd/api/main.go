package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/bank-account/internal/config"
	"github.com/Dan9191/bank-account/internal/handler"
	"github.com/Dan9191/bank-account/internal/integrations/cbr"
	"github.com/Dan9191/bank-account/internal/jobs"
	"github.com/Dan9191/bank-account/internal/middleware"
	"github.com/Dan9191/bank-account/internal/models"
	"github.com/Dan9191/bank-account/internal/service"
	"github.com/Dan9191/bank-account/internal/utils/email"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	account, err := models.NewAccount(cfg.InitialBalance)
	if err != nil {
		logger.Fatalf("Failed to open account: %v", err)
	}

	// Initialize layers
	var notifier service.Notifier
	if cfg.NotificationsEnabled() {
		notifier = email.NewSender(cfg, logger)
	}
	svc := service.NewService(account, logger, notifier)
	h := handler.NewHandler(svc, logger)
	cbrClient := cbr.NewClient(cfg.CBRURL, logger)

	// Key rate: load once, then keep it fresh in the background
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := jobs.RefreshKeyRate(ctx, cbrClient, svc, logger); err != nil {
		logger.Warn("Starting without a key rate; loan quotes unavailable until the next refresh")
	}
	cancel()

	scheduler := jobs.NewScheduler(logger)
	if err := scheduler.RegisterKeyRateRefresh(cfg.KeyRateSchedule, cbrClient, svc); err != nil {
		logger.Fatalf("Failed to schedule jobs: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Setup router
	r := mux.NewRouter()
	h.Register(r, middleware.AuthMiddleware(cfg))

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Server shutdown failed: %v", err)
		}
	}()

	logger.WithField("balance", account.Balance()).Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server failed: %v", err)
	}
	logger.Info("Server stopped")
}
