/*
Package main is the entry point for the relay bot.

It loads configuration, initializes logging, connects to the directory store, starts the
admin roster refresh loop and the rate limiter sweep, serves the ops HTTP surface, and runs
the Telegram event loop until SIGINT or SIGTERM, then shuts everything down in order.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"relaybot/internal/app/bot"
	"relaybot/internal/app/faq"
	"relaybot/internal/app/flow"
	"relaybot/internal/app/ledger"
	"relaybot/internal/app/metrics"
	"relaybot/internal/app/roster"
	"relaybot/internal/app/store"
	"relaybot/internal/app/telegram"
	"relaybot/internal/configs"
	"relaybot/internal/handler"
	"relaybot/internal/pkg/limiter"
	"relaybot/internal/pkg/logx"
)

const (
	sweepInterval    = time.Minute
	throttleInterval = 3 * time.Minute
	shutdownTimeout  = 5 * time.Second
)

func main() {
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(cfg.IsDevelopment())
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Str("store_driver", cfg.StoreDriver).
		Int("ops_port", cfg.OpsPort).
		Dur("rate_window", cfg.RateWindow).
		Int("rate_max_messages", cfg.RateMaxMessages).
		Str("rate_warning_scope", cfg.RateWarningScope).
		Msg("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slowHours, err := bot.NewSlowHours(cfg.SlowHoursTZ, cfg.SlowHoursStart, cfg.SlowHoursEnd)
	if err != nil {
		logx.Fatal(err, "Invalid slow hours configuration")
	}

	gate, err := limiter.NewGate(cfg.RateWarningScope)
	if err != nil {
		logx.Fatal(err, "Invalid rate limiter configuration")
	}

	directory, err := store.Open(ctx, store.Config{
		Driver:        cfg.StoreDriver,
		DatabaseDSN:   cfg.DatabaseDSN,
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
	})
	if err != nil {
		logx.Fatal(err, "Failed to connect to directory store")
	}

	client, err := telegram.NewClient(cfg.BotToken, cfg.SendRate, cfg.SendBurst)
	if err != nil {
		logx.Fatal(err, "Failed to start Telegram client")
	}

	admins := roster.NewCache(directory, cfg.RosterRefreshInterval)
	admins.Start(ctx)

	rateLimiter := limiter.NewWindowLimiter(limiter.Config{
		Window:      cfg.RateWindow,
		MaxMessages: cfg.RateMaxMessages,
		Timeout:     cfg.RateTimeout,
	}, gate)
	questions := ledger.New()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	metrics.RegisterGauges(reg, admins.Len, questions.Len, rateLimiter.TrackedUsers)

	relay := bot.New(bot.Deps{
		Limiter:   rateLimiter,
		Flows:     flow.NewTracker(),
		Ledger:    questions,
		Roster:    admins,
		Transport: client,
		FAQ:       faq.NewRenderer(directory),
		SlowHours: slowHours,
		Metrics:   m,
	})

	router, refreshThrottle := handler.Router(&handler.AppDeps{
		Roster:   admins,
		Ledger:   questions,
		Limiter:  rateLimiter,
		Gatherer: reg,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.OpsPort),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		rateLimiter.Run(ctx, sweepInterval)
	}()
	go func() {
		defer wg.Done()
		refreshThrottle.Run(ctx, throttleInterval)
	}()

	go func() {
		logx.Info("Ops server starting.", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal(err, "Ops server failed to start")
		}
	}()

	// Blocks until ctx is cancelled; events still buffered at that point are dropped.
	relay.Run(ctx, client.Events(ctx))
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Ops server forced to shutdown")
	}

	admins.Stop()
	wg.Wait()

	if err := directory.Close(shutdownCtx); err != nil {
		logx.Error(err, "Failed to close directory store")
	}

	logx.Info("Relay bot gracefully stopped.")
}
