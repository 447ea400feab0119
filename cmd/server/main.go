// Package main implements the entry point for the word-finding API server,
// which runs word-finding practice sessions for a voice assistant and
// serves the catalog administration API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/wordfinding-api/internal/config"
	"github.com/phrazzld/wordfinding-api/internal/platform/logger"
	"github.com/phrazzld/wordfinding-api/internal/platform/sqlstore"
	"github.com/phrazzld/wordfinding-api/internal/redact"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status, version) and exit")
	flag.Parse()

	if err := run(*configPath, *migrateCmd); err != nil {
		log.Fatalf("wordfinding-api: %s", redact.Error(err))
	}
}

func run(configPath, migrateCmd string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("exercise_order", cfg.Practice.ExerciseOrder),
		slog.Bool("suggestions_enabled", cfg.LLM.SuggestionsEnabled()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlstore.Open(ctx, cfg.Database.Driver, cfg.Database.URL, l)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer closeDB(db, l)
		return runMigrations(ctx, db, migrateCmd, l, os.Stdout)
	}

	// The schema is brought up to date on every start.
	if err := runMigrations(ctx, db, "up", l, os.Stdout); err != nil {
		closeDB(db, l)
		return err
	}

	app, err := newApplication(ctx, cfg, l, db)
	if err != nil {
		closeDB(db, l)
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func closeDB(db *sqlstore.DB, l *slog.Logger) {
	if err := db.Close(); err != nil {
		l.Error("error closing database connection", slog.String("error", redact.Error(err)))
	}
}
