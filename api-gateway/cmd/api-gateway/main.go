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

	"github.com/pribylovaa/go-music-stream/api-gateway/internal/clients"
	"github.com/pribylovaa/go-music-stream/api-gateway/internal/config"
	gatehttp "github.com/pribylovaa/go-music-stream/api-gateway/internal/http"
	"github.com/pribylovaa/go-music-stream/api-gateway/internal/http/handlers"
	"github.com/pribylovaa/go-music-stream/pkg/internalauth"
	"github.com/pribylovaa/go-music-stream/pkg/metrics"
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
	if security.StrictMode() {
		log.Info("strict_security_enforced")
	}

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	serviceTokens := internalauth.New(internalCfg)
	cls := clients.New(*cfg, serviceTokens, cfg.Timeouts.Service)

	h := handlers.New(cls, cfg.Cookie, cfg.RateLimit, secCfg.RefreshTTL)

	var ready atomic.Bool

	router := gatehttp.NewRouter(gatehttp.RouterOptions{
		Handlers:    h,
		Tokens:      security.NewTokens(secCfg),
		Log:         log,
		ServiceName: cfg.Service.Name,
		Timeout:     cfg.Timeouts.Service,
		Ready:       &ready,
	})

	apiSrv := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Метрики слушают отдельный порт: наружу их не выставляем.
	metricsSrv := &http.Server{
		Addr:              cfg.Metrics.Addr(),
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErrCh := make(chan error, 2)
	go func() {
		log.Info("http_listen_start", "addr", apiSrv.Addr)
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
	}()
	go func() {
		log.Info("metrics_listen_start", "addr", metricsSrv.Addr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
	}()

	ready.Store(true)

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		log.Error("http_serve_failed", slog.String("err", err.Error()))
	}

	ready.Store(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_force_stop", slog.String("err", err.Error()))
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("metrics_force_stop", slog.String("err", err.Error()))
	}

	log.Info("service_stopped")
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
