package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	txcmd "github.com/eaglebank/ledger-service/internal/command"
	"github.com/eaglebank/ledger-service/internal/config"
	"github.com/eaglebank/ledger-service/internal/events"
	"github.com/eaglebank/ledger-service/internal/handler"
	"github.com/eaglebank/ledger-service/internal/middleware"
	txqry "github.com/eaglebank/ledger-service/internal/query"
	redisClient "github.com/eaglebank/ledger-service/internal/redis"
	"github.com/eaglebank/ledger-service/internal/repository"
)

const consumerGroup = "transaction-service-group"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if err := run(cfg); err != nil {
		slog.Error("ledger service stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database connection
	db, err := repository.OpenDB(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := repository.Migrate(ctx, db); err != nil {
			return err
		}
		slog.Info("database schema applied")
	}

	// Redis connection
	rdb, err := redisClient.NewClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	publisher := events.NewPublisher(rdb)

	// CQRS: write repo, read repo, account read cache
	writeRepo := repository.NewTransactionWriteRepository(db)
	readRepo := repository.NewTransactionReadRepository(db)
	accountRepo := repository.NewAccountReadRepository(db, rdb, cfg.Redis.AccountCacheTTL)

	// Command + Query services
	accountSvc := txqry.NewAccountQueryService(accountRepo)
	transactionQuerySvc := txqry.NewTransactionQueryService(readRepo, accountSvc)
	transactionCommandSvc := txcmd.NewTransactionCommandService(writeRepo, readRepo, accountSvc, publisher)

	accountHandler := handler.NewAccountHandler(accountSvc)
	transactionHandler := handler.NewTransactionHandler(transactionCommandSvc, transactionQuerySvc)

	// Account changes made elsewhere invalidate the cached views
	hostname, _ := os.Hostname()
	subscriber := events.NewSubscriber(rdb, events.SubscriberConfig{
		Group:    consumerGroup,
		Consumer: "ledger-" + hostname,
		Stream:   events.AccountEventsStream,
		Handler:  accountSvc.HandleAccountEvent,
	})
	go func() {
		if err := subscriber.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("account event subscriber stopped", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: newRouter(cfg.GinMode, accountHandler, transactionHandler),
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("ledger service starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newRouter(mode string, accounts *handler.AccountHandler, transactions *handler.TransactionHandler) *gin.Engine {
	gin.SetMode(mode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.LoggingMiddleware())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/accounts", accounts.ListAccounts)
	router.GET("/accounts/:accountId", accounts.GetAccount)

	tx := router.Group("/accounts/:accountId/transactions")
	{
		tx.GET("", transactions.ListTransactions)
		tx.POST("", transactions.CreateTransaction)
		tx.PUT("/:transactionId", transactions.UpdateTransaction)
		tx.DELETE("/:transactionId", transactions.DeleteTransaction)
	}
	return router
}
