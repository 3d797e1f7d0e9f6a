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

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Helpline/internal/adapters/http"
	"github.com/dkeye/Helpline/internal/adapters/rtc"
	"github.com/dkeye/Helpline/internal/app"
	"github.com/dkeye/Helpline/internal/app/auth"
	"github.com/dkeye/Helpline/internal/app/match"
	"github.com/dkeye/Helpline/internal/app/orch"
	"github.com/dkeye/Helpline/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && lvl != zerolog.NoLevel {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.Auth.SecretKey == "" {
		log.Warn().Msg("auth.secret_key is empty, /api/auth/max will reject every payload")
	}

	policy, err := app.ParsePolicy(cfg.Relay.Backpressure)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid relay config")
	}
	ice, err := rtc.ICEServers(cfg.ICE.Servers)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid ice config")
	}

	orch := &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Rooms:    app.NewRoomManager(),
		Policy:   policy,
		Match:    match.NewCoordinator(match.WithTTL(cfg.Match.TTL)),
	}

	r := router.SetupRouter(ctx, cfg, orch, auth.NewService(cfg.Auth.SecretKey), ice)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Helpline server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	// Hijacked websockets are not tracked by http.Server.
	orch.Shutdown()
	log.Info().Msg("Server exited gracefully")
}
