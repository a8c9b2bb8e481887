package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"

	"petitions/internal/platform/config"
	"petitions/internal/platform/logger"
	"petitions/internal/platform/postgres"
)

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	log := logger.New(config.LogConfig{Level: cfg.Log.Level, Format: "text"})
	if cfg.Database.URL == "" {
		fatalf(log, "DATABASE_URL environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := postgres.Open(ctx, cfg.Database)
	cancel()
	if err != nil {
		fatalf(log, "connect: %v", err)
	}

	m, err := postgres.NewMigrator(db, log)
	if err != nil {
		fatalf(log, "migration init failed: %v", err)
	}
	defer m.Close()

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			fatalf(log, "up failed: %v", err)
		}
		log.Info("migrations applied")

	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				fatalf(log, "down: invalid steps argument %q", args[1])
			}
			steps = n
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			fatalf(log, "down failed: %v", err)
		}
		log.Info("migrations rolled back", "steps", steps)

	case "version":
		v, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			fatalf(log, "version failed: %v", err)
		}
		fmt.Printf("version: %d  dirty: %v\n", v, dirty)

	case "force":
		if len(args) < 2 {
			fatalf(log, "force: version argument required")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			fatalf(log, "force: invalid version %q", args[1])
		}
		if err := m.Force(v); err != nil {
			fatalf(log, "force failed: %v", err)
		}
		log.Info("migration version forced", "version", v)

	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate <command> [args]

Commands:
  up           Apply all pending migrations
  down [N]     Roll back N migrations (default: 1)
  version      Print the current migration version
  force <V>    Set the migration version without running it (clears dirty state)

Environment:
  DATABASE_URL  Required. PostgreSQL connection string.`)
}

func fatalf(log *slog.Logger, format string, args ...any) {
	log.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}
