package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Rdwburns/budget-planning-app/internal/api"
	"github.com/Rdwburns/budget-planning-app/internal/api/handlers"
	"github.com/Rdwburns/budget-planning-app/internal/config"
	"github.com/Rdwburns/budget-planning-app/internal/data"
	"github.com/Rdwburns/budget-planning-app/internal/observability"
	"github.com/Rdwburns/budget-planning-app/internal/pl"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	srv, err := config.LoadServer()
	if err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	logger := observability.NewLogger(srv.LogFormat, srv.LogLevel)
	slog.SetDefault(logger)

	cfg, err := config.LoadOrDefault(srv.ConfigPath)
	if err != nil {
		return fmt.Errorf("engine config: %w", err)
	}
	resolver, err := cfg.Resolver()
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	engine := pl.New(
		pl.WithSettings(cfg.EngineSettings()),
		pl.WithResolver(resolver),
		pl.WithLogger(logger),
		pl.WithMetrics(metrics),
	)
	store := data.NewStore(srv.DatasetTTL)
	defer store.Close()

	env, err := handlers.NewEnv(cfg, engine, store, logger)
	if err != nil {
		return err
	}
	if srv.ImportBaseURL != "" {
		base, err := data.ParseBase(srv.ImportBaseURL)
		if err != nil {
			return fmt.Errorf("DATA_IMPORT_BASE_URL: %w", err)
		}
		env.Remote = data.NewRemoteClient(srv.DataToken, logger)
		env.Remote.Base = base
		logger.Info("dataset import enabled", slog.String("base", base.String()))
	}

	if srv.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.RouterOptions{
		Env:         env,
		Metrics:     metrics,
		Logger:      logger,
		CORSOrigins: srv.CORSOrigins,
		StaticDir:   srv.StaticDir,
	})

	server := &http.Server{
		Addr:              ":" + srv.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting API server",
			"addr", server.Addr,
			"env", srv.Env,
			"territories", len(cfg.Territories),
			"scenarios", len(cfg.Scenarios),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
