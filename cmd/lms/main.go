package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-student-client/internal/cli"
	"github.com/noah-isme/lms-student-client/internal/handler"
	"github.com/noah-isme/lms-student-client/internal/service"
	"github.com/noah-isme/lms-student-client/internal/session"
	"github.com/noah-isme/lms-student-client/pkg/cache"
	"github.com/noah-isme/lms-student-client/pkg/config"
	"github.com/noah-isme/lms-student-client/pkg/httpclient"
	"github.com/noah-isme/lms-student-client/pkg/logger"
	"github.com/noah-isme/lms-student-client/pkg/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return 1
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Printf("failed to init logger: %v", err)
		return 1
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens, closeTokens, err := tokenStore(ctx, cfg)
	if err != nil {
		logr.Error("session storage unavailable", zap.Error(err))
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	defer closeTokens()

	store, err := session.NewStore(ctx, tokens, logr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}

	metrics := service.NewMetricsService()
	client := httpclient.New(httpclient.Config{BaseURL: cfg.API.BaseURL, Prefix: cfg.API.Prefix}, store,
		httpclient.WithLogger(logr),
		httpclient.WithObserver(metrics),
	)

	downloads, err := storage.NewLocalStorage(cfg.Downloads.Dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	exports, err := storage.NewLocalStorage(cfg.Exports.Dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}

	if cfg.Metrics.Addr != "" {
		shutdown := serveMetrics(cfg, metrics, logr)
		defer shutdown()
	}

	app := cli.NewApp(cli.AppParams{
		Name:    cli.DefaultName,
		Session: store,
		Services: cli.BuildServices(cli.ServicesParams{
			Client:           client,
			Session:          store,
			Downloads:        downloads,
			Exports:          exports,
			Metrics:          metrics,
			Logger:           logr,
			FeedLimit:        cfg.Feed.Limit,
			ChatLimit:        cfg.Chat.Limit,
			ChatPollInterval: cfg.Chat.PollInterval,
		}),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Logger: logr,
	})

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, cli.ErrHelp) {
			return 2
		}
		fmt.Fprintln(os.Stderr, "error:", cli.Message(err))
		return 1
	}
	return 0
}

// tokenStore opens the configured token backend. The returned func releases
// it.
func tokenStore(ctx context.Context, cfg *config.Config) (storage.TokenStore, func(), error) {
	if cfg.Session.Backend != config.SessionBackendRedis {
		return storage.NewFileTokenStore(cfg.Session.Dir, filepath.Base(cfg.Session.Key)), func() {}, nil
	}

	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return storage.NewRedisTokenStore(client, cfg.Session.Key), func() { _ = client.Close() }, nil
}

func serveMetrics(cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) func() {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              cfg.Metrics.Addr,
		Handler:           handler.NewRouter(handler.NewMetricsHandler(metrics), logr),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logr.Info("metrics server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Warn("metrics server failed", zap.Error(err))
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
