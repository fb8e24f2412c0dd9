// Package main is the entry point for Cardline. It replays a scripted
// scenario against the battle engine and logs what happens.
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/cardline/internal/game"
	"github.com/samdwyer/cardline/internal/gamedata"
	"github.com/samdwyer/cardline/internal/logging"
	"github.com/samdwyer/cardline/internal/telemetry"
)

func main() {
	os.Exit(start())
}

// start wires configuration, logging and telemetry, then runs the scenario.
// It returns the process exit code so deferred shutdowns still run.
func start() int {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := game.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	ctx := context.Background()

	if cfg.Telemetry {
		telemetry.ConfigureHoneycomb(cfg.HoneycombAPIKey, cfg.HoneycombDataset)
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			// Continue without telemetry - the run still works
			logger.WithError(err).Warn("telemetry setup failed, running without traces")
		} else {
			defer func() {
				if err := shutdown(ctx); err != nil {
					logger.WithError(err).Error("telemetry shutdown failed")
				}
			}()
		}
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Error("scenario failed")
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg game.Config, logger *logrus.Logger) error {
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	scenario, err := game.ResolveScenario(cfg, catalog)
	if err != nil {
		return err
	}

	session := game.NewSession(catalog, scenario,
		game.WithSeed(cfg.Seed),
		game.WithLogger(logger),
	)
	report, err := session.Run(ctx)
	if err != nil {
		return err
	}

	for _, u := range report.Survivors {
		logger.WithFields(logrus.Fields{
			"unit":    u.ID,
			"faction": u.Faction,
			"index":   u.Index,
			"hp":      u.HP,
			"max_hp":  u.MaxHP,
		}).Info(u.Name)
	}
	logger.WithFields(logrus.Fields{
		"battle":   report.Battle,
		"seed":     report.Seed,
		"plays":    len(report.Plays),
		"rejected": report.Rejected,
	}).Infof("%s: %s", report.Scenario, report.State)

	return nil
}

func loadCatalog(cfg game.Config) (*gamedata.Catalog, error) {
	if cfg.CatalogFile != "" {
		return gamedata.LoadCatalogFile(cfg.CatalogFile)
	}
	return gamedata.LoadCatalog()
}
