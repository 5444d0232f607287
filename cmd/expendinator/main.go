package main

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"expendinator/internal/amqp"
	"expendinator/internal/cache"
	"expendinator/internal/config"
	"expendinator/internal/core"
	apphttp "expendinator/internal/http"
	applog "expendinator/internal/log"
	"expendinator/internal/services"
	"expendinator/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	repo, err := storage.New(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to open storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Event publishing is optional: without a broker URL the services run
	// with a nil publisher and skip events.
	var events services.EventPublisher
	var broker *amqp.Client
	if cfg.AMQPURL != "" {
		broker, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			slog.Error("Failed to connect to AMQP broker", "error", err)
			os.Exit(1)
		}
		defer broker.Close()
		events = broker
		slog.Info("AMQP event publishing enabled",
			"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		slog.Info("AMQP event publishing disabled")
	}

	categoryCache := cache.NewLRUCache[[]core.Category](256, cfg.CategoryCacheTTL)
	categoryService := services.NewCategoryService(repo, categoryCache)
	matcher := services.NewCategoryMatcher(repo)
	expenseService := services.NewExpenseService(repo, events)
	budgetService := services.NewBudgetService(repo)
	usageService := services.NewUsageService(repo, repo)
	generator := core.NewReceiptGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
	ocrService := services.NewOcrService(categoryService, repo, matcher, events, generator)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Auth:              apphttp.HeaderAuthenticator{Header: cfg.AuthHeader},
		Categories:        categoryService,
		Expenses:          expenseService,
		Budgets:           budgetService,
		Usage:             usageService,
		Ocr:               ocrService,
		RequestsPerMinute: cfg.RequestsPerMinute,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		slog.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	slog.Info("Starting expendinator server", "port", cfg.Port, "db", cfg.SQLiteDBPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	slog.Info("Server stopped gracefully")
}
