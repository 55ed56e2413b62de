package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/api-sage/brokerage-ledger/src/internal/adapter/http/controller"
	"github.com/api-sage/brokerage-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/brokerage-ledger/src/internal/adapter/http/router"
	"github.com/api-sage/brokerage-ledger/src/internal/adapter/quotes"
	"github.com/api-sage/brokerage-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/brokerage-ledger/src/internal/adapter/repository/postgres"
	"github.com/api-sage/brokerage-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/brokerage-ledger/src/internal/config"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
	"github.com/api-sage/brokerage-ledger/src/internal/logger"
	"github.com/api-sage/brokerage-ledger/src/internal/metrics"
	"github.com/api-sage/brokerage-ledger/src/internal/usecase/services"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ledger HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Bool("migrate", false, "apply migrations before serving (postgres driver only)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.LogLevel)

	migrate, err := cmd.Flags().GetBool("migrate")
	if err != nil {
		return fmt.Errorf("read migrate flag: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, health, closeStore, err := openStore(ctx, cfg, migrate)
	if err != nil {
		return err
	}
	defer closeStore()

	currency, err := domain.NewCurrency(cfg.Currency)
	if err != nil {
		return fmt.Errorf("resolve ledger currency: %w", err)
	}

	statuses, err := services.LoadAccountStatusRegistry(ctx, store.Repositories().Statuses)
	if err != nil {
		return fmt.Errorf("load account statuses: %w", err)
	}

	prices, err := quotes.ParsePrices(cfg.QuotePrices)
	if err != nil {
		return fmt.Errorf("parse QUOTE_PRICES: %w", err)
	}
	quoteProvider := quotes.NewStaticProvider(prices, cfg.QuoteFallbackPrice)

	ledgerMetrics := metrics.NewLedger(prometheus.DefaultRegisterer)
	ledger := services.NewLedgerService(store, statuses, currency, ledgerMetrics)
	trades := services.NewTradeService(store, ledger, services.NewPriceGuard(quoteProvider, cfg.PriceTolerancePercent), ledgerMetrics)
	history := services.NewHistoryService(store, ledger)
	wallet := services.NewWalletService(store, ledger, quoteProvider)
	users := services.NewUserService(store, ledger)
	stocks := services.NewStockService(store, quoteProvider)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		admin, err := users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
		logger.Info("admin user ready", logger.Fields{"userId": admin.ID, "email": admin.Email})
	}

	userController := controller.NewUserController(users, currency)
	handler := router.New(router.Options{
		AuthMiddleware: middleware.BasicAuth(users),
		Gatherer:       prometheus.DefaultGatherer,
		Health:         health,
		Public:         []router.PublicRouteRegistrar{userController},
		Protected: []router.RouteRegistrar{
			userController,
			controller.NewMovementController(ledger, history),
			controller.NewTransactionController(trades),
			controller.NewAccountController(ledger, currency),
			controller.NewWalletController(wallet, currency),
			controller.NewStockController(stocks),
		},
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", logger.Fields{
			"addr":     cfg.HTTPAddr,
			"driver":   cfg.StoreDriver,
			"currency": currency.Code,
		})
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("http server shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg config.Config, migrate bool) (repo_interfaces.Store, router.HealthCheck, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Info("using in-memory store", nil)
		return memory.NewStore(), nil, func() {}, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Error("close postgres", err, nil)
		}
	}

	if migrate {
		if err := postgres.Migrate(ctx, db, cfg.MigrationsDir); err != nil {
			closeDB()
			return nil, nil, nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	return postgres.NewStore(db), pingHealth(db), closeDB, nil
}

func pingHealth(db *sql.DB) router.HealthCheck {
	return func(ctx context.Context) error {
		return db.PingContext(ctx)
	}
}
