package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/openvenue/matchbook/internal/config"
	"github.com/openvenue/matchbook/internal/domain"
	"github.com/openvenue/matchbook/internal/engine"
	"github.com/openvenue/matchbook/internal/handler"
	"github.com/openvenue/matchbook/internal/sequencer"
	"github.com/openvenue/matchbook/internal/store"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger = logger.Level(level)

	// Trading rules from config.
	rules := engine.DefaultRules()
	rules.TickSize = cfg.TickSize
	rules.PriceBandLow = domain.Price(cfg.PriceBandLow)
	rules.PriceBandHigh = domain.Price(cfg.PriceBandHigh)
	if cfg.QuotePolicyProtect() {
		rules.QuotePolicy = engine.QuotePolicyProtect
	}

	eventLog := store.NewEventLog()
	tape := store.NewTradeTape(cfg.TapeDepth)

	seq := sequencer.New(engine.New(rules), logger, eventLog, tape, cfg.CommandBuffer)
	for _, id := range cfg.Books {
		if err := seq.Register(domain.BookID(id)); err != nil {
			logger.Fatal().Err(err).Str("book", id).Msg("failed to register book")
		}
	}

	router := handler.NewRouter(seq, tape, logger)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")

	// Graceful shutdown: stop accepting requests, then stop the book loops.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	if err := seq.Stop(); err != nil {
		logger.Error().Err(err).Msg("sequencer shutdown error")
	}

	logger.Info().Msg("server stopped")
}
