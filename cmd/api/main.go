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

	"github.com/baharkarakas/taskmanager-backend/internal/api"
	"github.com/baharkarakas/taskmanager-backend/internal/auth"
	"github.com/baharkarakas/taskmanager-backend/internal/config"
	"github.com/baharkarakas/taskmanager-backend/internal/db"
	"github.com/baharkarakas/taskmanager-backend/internal/jobs"
	"github.com/baharkarakas/taskmanager-backend/internal/logger"
	"github.com/baharkarakas/taskmanager-backend/internal/metrics"
	"github.com/baharkarakas/taskmanager-backend/internal/notify"
	"github.com/baharkarakas/taskmanager-backend/internal/repository"
	"github.com/baharkarakas/taskmanager-backend/internal/repository/postgres"
	"github.com/baharkarakas/taskmanager-backend/internal/repository/sqlite"
	"github.com/baharkarakas/taskmanager-backend/internal/services"
	"github.com/baharkarakas/taskmanager-backend/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Error("store", "store", cfg.Store, "err", err)
		os.Exit(1)
	}
	defer closeStore()

	metrics.Init()

	wp := worker.NewPool(cfg.NotifyWorkers, cfg.NotifyQueue)
	defer wp.Stop()

	var notifier notify.Notifier = notify.NewLogNotifier(log)
	if cfg.SendGridAPIKey != "" {
		notifier = notify.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.MailFrom)
	}
	mailer := notify.NewDispatcher(notifier, wp, log)

	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	userSvc := services.NewUserService(repos, tm, mailer, log, cfg)
	taskSvc := services.NewTaskService(repos.Tasks, log)

	pruner, err := jobs.NewTokenPruner(repos.Tokens, cfg.TokenPruneSchedule, log)
	if err != nil {
		log.Error("token pruner", "err", err)
		os.Exit(1)
	}
	pruner.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.NewRouter(cfg, userSvc, taskSvc),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
	pruner.Stop(shutdownCtx)
}

// openStore connects the configured backend and applies migrations when
// APP_MIGRATE is set.
func openStore(ctx context.Context, cfg config.Config) (repository.Repositories, func(), error) {
	switch cfg.Store {
	case "sqlite":
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return repository.Repositories{}, nil, err
		}
		if cfg.Migrate {
			if err := db.RunSQLiteMigrations(ctx, conn); err != nil {
				_ = conn.Close()
				return repository.Repositories{}, nil, err
			}
		}
		return sqlite.NewRepositories(conn), func() { _ = conn.Close() }, nil
	default:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return repository.Repositories{}, nil, err
		}
		if cfg.Migrate {
			if err := db.RunMigrations(ctx, pool); err != nil {
				pool.Close()
				return repository.Repositories{}, nil, err
			}
		}
		return postgres.NewRepositories(pool), pool.Close, nil
	}
}
