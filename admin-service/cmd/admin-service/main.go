package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pribylovaa/go-music-stream/admin-service/internal/config"
	"github.com/pribylovaa/go-music-stream/admin-service/internal/service"
	"github.com/pribylovaa/go-music-stream/admin-service/internal/storage/postgres"
	transport "github.com/pribylovaa/go-music-stream/admin-service/internal/transport/http"
	"github.com/pribylovaa/go-music-stream/pkg/internalauth"
	"github.com/pribylovaa/go-music-stream/pkg/security"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting application", "env", cfg.Env)

	// Секреты токенов и политика безопасности — до открытия портов.
	secCfg, err := security.LoadConfig()
	if err != nil {
		log.Error("security_config_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	internalCfg, err := internalauth.LoadConfig()
	if err != nil {
		log.Error("internal_auth_config_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	security.MustValidateRuntime(secCfg.Secret, internalCfg.Secret, security.NewHasher())

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	str, err := postgres.New(dbCtx, cfg.DB.AuthURL, cfg.DB.CatalogURL)
	dbCancel()
	if err != nil {
		log.Error("postgres_connect_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}
	log.Info("postgres_connected")

	var ready atomic.Bool

	router := transport.NewRouter(service.New(str, cfg.Listing.Limit), transport.Options{
		Logger:        log,
		ServiceName:   cfg.Service.Name,
		ServiceTokens: internalauth.New(internalCfg),
		UserTokens:    security.NewTokens(secCfg),
		Timeout:       cfg.Timeouts.Service,
		Ready:         &ready,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErrCh := make(chan error, 1)
	go func() {
		log.Info("http_listen_start", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	ready.Store(true)

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	ready.Store(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_force_stop", slog.String("err", err.Error()))
	}

	shutdownCancel()
	rootCancel()
	str.Close()

	log.Info("service_stopped")
	os.Exit(0)
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}
