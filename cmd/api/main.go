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

	"github.com/joho/godotenv"

	"github.com/zhouzirui/session-desk/backend/internal/config"
	"github.com/zhouzirui/session-desk/backend/internal/handler"
	"github.com/zhouzirui/session-desk/backend/internal/logging"
	"github.com/zhouzirui/session-desk/backend/internal/service/chat"
	"github.com/zhouzirui/session-desk/backend/internal/service/session"
	"github.com/zhouzirui/session-desk/backend/internal/validation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	if envErr != nil {
		logger.Warn("failed to load .env file, continuing with system environment variables only", "error", envErr)
	}
	if cfg.CORS.AllowsAll() {
		logger.Warn("CORS allows every origin; narrow CORS_ALLOWED_ORIGINS outside development")
	}

	validator, err := validation.New()
	if err != nil {
		logger.Error("failed to compile request schemas", "error", err)
		os.Exit(1)
	}

	router := handler.NewRouter(handler.Deps{
		Sessions:  session.NewStore(logger),
		Chat:      chat.NewService(logger),
		Validator: validator,
		CORS:      cfg.CORS,
		Logger:    logger,
	})

	if err := startServer(ctx, cfg.Server, router, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *slog.Logger) error {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	logger.Info("session desk backend listening", "addr", addr)
	return runServer(ctx, srv, serverCfg.ShutdownTimeout)
}

func runServer(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
