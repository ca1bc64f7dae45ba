package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/tinoosan/social/internal/config"
	"github.com/tinoosan/social/internal/httpapi"
	"github.com/tinoosan/social/internal/service/account"
	"github.com/tinoosan/social/internal/service/message"
	"github.com/tinoosan/social/internal/social"
	"github.com/tinoosan/social/internal/storage/memory"
	pgstore "github.com/tinoosan/social/internal/storage/postgres"
	sqlitestore "github.com/tinoosan/social/internal/storage/sqlite"
)

// store is what every backend provides to the services and the HTTP layer.
type store interface {
	account.Repo
	account.Writer
	message.Repo
	message.Writer
	message.AccountChecker
}

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	envFile := flag.String("env-file", ".env", "path to a dotenv file (ignored if missing)")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := buildLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	st, closeFn, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "backend", cfg.Backend(), "err", err)
		os.Exit(1)
	}
	logger.Info("storage backend: " + cfg.Backend())

	if cfg.DevSeed {
		acc, msg, err := devSeed(ctx, st)
		if err != nil {
			logger.Error("dev seed failed", "err", err)
		} else {
			logDevSeed(logger, cfg.Backend(), acc, msg)
		}
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.New(st, st, st, st, st, logger).Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("social service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}
	closeFn()
}

// openStore connects the configured backend. The returned func releases it.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (store, func(), error) {
	switch cfg.Backend() {
	case config.BackendPostgres:
		pg, err := pgstore.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Migrate {
			if err := pg.Migrate(ctx); err != nil {
				pg.Close()
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
			logger.Info("postgres migrations applied")
		} else {
			logger.Warn("postgres migrations disabled; the schema must already exist", "env", "DB_MIGRATE")
		}
		return pg, pg.Close, nil
	case config.BackendSQLite:
		db, err := sqlitestore.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		return memory.New(), func() {}, nil
	}
}

const (
	devUsername = "demo"
	devPassword = "demo-pass"
)

// devSeed registers a demo account and posts a welcome message through the
// services, so seeded rows obey the same rules as API traffic. Re-running
// against a persistent store reuses the existing account.
func devSeed(ctx context.Context, st store) (social.Account, social.Message, error) {
	accounts := account.New(st, st)
	messages := message.New(st, st, st)

	acc, err := accounts.Register(ctx, devUsername, devPassword)
	if errors.Is(err, account.ErrUsernameTaken) {
		acc, err = accounts.Login(ctx, devUsername, devPassword)
		if err != nil {
			return social.Account{}, social.Message{}, err
		}
		existing, err := messages.ListByAccount(ctx, acc.AccountID)
		if err != nil {
			return social.Account{}, social.Message{}, err
		}
		if len(existing) > 0 {
			return acc, existing[0], nil
		}
	} else if err != nil {
		return social.Account{}, social.Message{}, err
	}
	msg, err := messages.Create(ctx, social.Message{PostedBy: acc.AccountID, MessageText: "Welcome to social!"})
	if err != nil {
		return social.Account{}, social.Message{}, err
	}
	return acc, msg, nil
}

// logDevSeed emits structured logs with useful IDs
func logDevSeed(l *slog.Logger, backend string, acc social.Account, msg social.Message) {
	l.Info("DEV seed ("+backend+")",
		"account_id", acc.AccountID,
		"username", acc.Username,
		"message_id", msg.MessageID,
	)
}

// parseLogLevel maps config values to slog.Leveler
func parseLogLevel(s string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildLogger(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(level)}
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
