package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/ukombozini/lending-engine/internal/config"
	"github.com/ukombozini/lending-engine/internal/dividend"
	"github.com/ukombozini/lending-engine/internal/handler"
	"github.com/ukombozini/lending-engine/internal/repository"
	"github.com/ukombozini/lending-engine/internal/service"
	"github.com/ukombozini/lending-engine/pkg/logging"
	"github.com/ukombozini/lending-engine/pkg/response"
)

func main() {
	// Load .env if present, real environment wins
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	db, err := initDB(cfg)
	if err != nil {
		slog.Error("connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	allocator, err := dividend.New(cfg.Business.Allocator)
	if err != nil {
		slog.Error("building dividend allocator", "error", err)
		os.Exit(1)
	}

	// Repositories
	loanRepo := repository.NewLoanRepository(db)
	txnRepo := repository.NewTransactionRepository(db)
	dividendRepo := repository.NewDividendRepository(db)
	groupRepo := repository.NewGroupRepository(db)

	// Services
	loanService := service.NewLoanService(loanRepo, groupRepo, redisClient, cfg)
	txnService := service.NewTransactionService(txnRepo, groupRepo, cfg)
	dividendService := service.NewDividendService(dividendRepo, groupRepo, allocator, redisClient, cfg)

	// Handlers
	loanHandler := handler.NewLoanHandler(loanService)
	txnHandler := handler.NewTransactionHandler(txnService)
	dividendHandler := handler.NewDividendHandler(dividendService)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	router := setupRoutes(loanHandler, txnHandler, dividendHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	loanHandler *handler.LoanHandler,
	txnHandler *handler.TransactionHandler,
	dividendHandler *handler.DividendHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()

	router.Use(response.LoggingMiddleware)
	router.Use(response.CORSMiddleware)
	router.Use(response.JSONMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/loans", loanHandler.Apply).Methods("POST")
	api.HandleFunc("/loans/{loanNumber}", loanHandler.Get).Methods("GET")
	api.HandleFunc("/loans/{loanNumber}", loanHandler.Update).Methods("PUT")
	api.HandleFunc("/loans/{loanNumber}/approve", loanHandler.Approve).Methods("POST")
	api.HandleFunc("/loans/{loanNumber}/disburse", loanHandler.Disburse).Methods("POST")
	api.HandleFunc("/loans/{loanNumber}/repayments", loanHandler.RecordRepayment).Methods("POST")
	api.HandleFunc("/loans/{loanNumber}/cancel", loanHandler.Cancel).Methods("POST")
	api.HandleFunc("/loans/{loanNumber}/schedule", loanHandler.GetSchedule).Methods("GET")
	api.HandleFunc("/loans/{loanNumber}/outstanding", loanHandler.GetOutstanding).Methods("GET")
	api.HandleFunc("/loans/{loanNumber}/audit", loanHandler.GetAuditTrail).Methods("GET")

	api.HandleFunc("/transactions/cash-in", txnHandler.RecordCashIn).Methods("POST")
	api.HandleFunc("/transactions/cash-out", txnHandler.RecordCashOut).Methods("POST")
	api.HandleFunc("/transactions", txnHandler.List).Methods("GET")

	api.HandleFunc("/dividends/periods", dividendHandler.ListPeriods).Methods("GET")
	api.HandleFunc("/dividends/periods", dividendHandler.OpenPeriod).Methods("POST")
	api.HandleFunc("/dividends/periods/{id}/calculate", dividendHandler.Calculate).Methods("POST")
	api.HandleFunc("/dividends/periods/{id}/members", dividendHandler.ListMembers).Methods("GET")
	api.HandleFunc("/dividends/{id}/visibility", dividendHandler.ToggleVisibility).Methods("POST")

	return router
}
