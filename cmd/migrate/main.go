package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"vtuportal/internal/config"
	"vtuportal/internal/logging"
)

const usage = "Usage: migrate [up|down|steps N|version]"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	m, err := migrate.New("file://db/migrations", cfg.DB.DSN())
	if err != nil {
		logger.Fatal("failed to create migrate instance", zap.Error(err))
	}
	defer m.Close()

	cmd := os.Args[1]
	switch cmd {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Fatal("migration up failed", zap.Error(err))
		}
		logger.Info("migrations applied successfully")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Fatal("migration down failed", zap.Error(err))
		}
		logger.Info("migrations reverted successfully")

	case "steps":
		if len(os.Args) < 3 {
			logger.Fatal("steps requires a number argument")
		}
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			logger.Fatal("invalid steps argument", zap.Error(err))
		}
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Fatal("migration steps failed", zap.Error(err))
		}
		logger.Info("applied migration steps", zap.Int("steps", n))

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			logger.Fatal("failed to get version", zap.Error(err))
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		fmt.Printf("unknown command: %s\n", cmd)
		fmt.Println(usage)
		os.Exit(1)
	}
}
