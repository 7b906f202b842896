package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	// Blank-import the postgres driver so it self-registers with database/sql.
	_ "github.com/lib/pq"

	"github.com/Skryldev/user-service/api"
	"github.com/Skryldev/user-service/config"
	"github.com/Skryldev/user-service/db"
	"github.com/Skryldev/user-service/repo"
	"github.com/Skryldev/user-service/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	dbCfg := db.Config{
		DSN:             cfg.DatabaseURL,
		DriverName:      "postgres",
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		QueryTimeout:    cfg.DBQueryTimeout,
		Hooks: []db.Hook{
			db.NewLogHook(db.LogHookConfig{
				Logger:             logger,
				SlowQueryThreshold: 200 * time.Millisecond,
			}),
		},
	}

	// The retries cover a database that finishes starting after we do.
	ctx := context.Background()
	retryCfg := db.RetryConfig{MaxAttempts: 5, Delay: 2 * time.Second}

	var database *db.DB
	err = db.Retry(ctx, retryCfg, func() error {
		var openErr error
		database, openErr = db.Open(dbCfg)
		return openErr
	})
	if err != nil {
		logger.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	logger.Info("database connected", "stats", database.Stats())

	// Schema bootstrap runs once, before the first request.
	err = db.Retry(ctx, retryCfg, func() error {
		return repo.EnsureSchema(ctx, database)
	})
	if err != nil {
		logger.Error("schema bootstrap failed", "error", err)
		os.Exit(1)
	}
	logger.Info("users table ready")

	users := repo.NewUserRepo(database)
	svc := service.NewUserService(users)
	handler := api.NewUserHandler(svc)
	router := api.NewRouter(handler, api.RouterConfig{StaticDir: cfg.StaticDir})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
