package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/draftroomhq/draftroom/internal/config"
	"github.com/draftroomhq/draftroom/internal/dbconfig"
	"github.com/draftroomhq/draftroom/internal/events"
	"github.com/draftroomhq/draftroom/internal/gateway"
	"github.com/draftroomhq/draftroom/internal/repository"
	"github.com/draftroomhq/draftroom/internal/session"
	"github.com/draftroomhq/draftroom/internal/trade"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	dbCfg := dbconfig.NewConfigFromEnv()
	pool, err := repository.Connect(ctx, dbCfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	repo := repository.New(pool)

	log.Info().
		Str("database", dbCfg.Database).
		Int("port", cfg.Port).
		Msg("starting draft server")

	// Event mirror to NATS, if configured
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATS.URL != "" {
		natsPub, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to NATS")
		}
		defer natsPub.Close()
		publisher = natsPub
	}

	// Fanout and trade engine
	manager := gateway.NewConnectionManager()
	engine := trade.NewEngine(repo, repo, repo).
		WithFairnessThreshold(cfg.Trade.FairnessThresholdPercent)

	// Session hub: one coordinator per active session
	hub := session.NewHub(ctx, session.Deps{
		Store:     repo,
		Picks:     repo,
		Players:   repo,
		Teams:     repo,
		Guard:     repo,
		Engine:    engine,
		Fanout:    manager,
		Publisher: publisher,
		Wall:      clockwork.NewRealClock(),
	})
	defer hub.Shutdown()

	server := setupServer(cfg, repo, engine, manager, hub)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	log.Info().Msg("draft server shutdown complete")
}
