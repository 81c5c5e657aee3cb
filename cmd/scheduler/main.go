package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/ukombozini/lending-engine/internal/config"
	"github.com/ukombozini/lending-engine/internal/dividend"
	"github.com/ukombozini/lending-engine/internal/repository"
	"github.com/ukombozini/lending-engine/internal/service"
	"github.com/ukombozini/lending-engine/pkg/logging"
)

const jobTimeout = 10 * time.Minute

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting lending scheduler")

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		slog.Error("connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	allocator, err := dividend.New(cfg.Business.Allocator)
	if err != nil {
		slog.Error("building dividend allocator", "error", err)
		os.Exit(1)
	}

	loanRepo := repository.NewLoanRepository(db)
	dividendRepo := repository.NewDividendRepository(db)
	groupRepo := repository.NewGroupRepository(db)

	loanService := service.NewLoanService(loanRepo, groupRepo, redisClient, cfg)
	dividendService := service.NewDividendService(dividendRepo, groupRepo, allocator, redisClient, cfg)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		slog.Error("loading scheduler timezone", "timezone", cfg.Scheduler.Timezone, "error", err)
		os.Exit(1)
	}

	c := cron.New(cron.WithLocation(location))
	setupCronJobs(c, loanService, dividendService)

	c.Start()
	slog.Info("scheduler started", "timezone", cfg.Scheduler.Timezone)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down scheduler")
	<-c.Stop().Done()
	slog.Info("scheduler stopped")
}

func setupCronJobs(c *cron.Cron, loanService *service.LoanService, dividendService *service.DividendService) {
	// Daily default sweep at 1 AM: active loans past due date plus grace
	// move to defaulted.
	_, err := c.AddFunc("0 1 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		defaulted, err := loanService.SweepDefaults(ctx)
		if err != nil {
			slog.Error("default sweep failed", "error", err)
			return
		}
		slog.Info("default sweep finished", "defaulted", defaulted)
	})
	if err != nil {
		slog.Error("scheduling default sweep", "error", err)
	}

	// December 1st: flag the current year's period so dividend visibility
	// screens surface it.
	_, err = c.AddFunc("0 2 1 12 *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if err := dividendService.FlagCurrentDecember(ctx); err != nil {
			slog.Error("december period flag failed", "error", err)
			return
		}
		slog.Info("december period flagged")
	})
	if err != nil {
		slog.Error("scheduling december period flag", "error", err)
	}
}
