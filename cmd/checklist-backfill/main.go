// Command checklist-backfill runs a single checklist repair pass and exits.
// Meant for one-off use after imports or incidents; the scheduler covers the
// steady state.
package main

import (
	"context"

	"montagehub_backend/internal/adapters"
	"montagehub_backend/internal/montages"
	"montagehub_backend/internal/settings"
	"montagehub_backend/platform/config"
	"montagehub_backend/platform/db"
	"montagehub_backend/platform/events"
	"montagehub_backend/platform/logger"
	"montagehub_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting checklist backfill")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	settingsModule := settings.NewModule(pool)
	montageSettings := adapters.NewMontageSettings(settingsModule.Service(), log)
	montagesModule := montages.NewModule(pool, montageSettings, eventBus, val, log, cfg.GetReconcileWorkers(), nil)

	report, err := montagesModule.Service().ReconcileChecklists(ctx)
	if err != nil {
		log.Error("checklist backfill failed", "error", err)
		panic("checklist backfill failed: " + err.Error())
	}

	log.Info("checklist backfill complete",
		"scanned", report.Scanned,
		"repaired", report.Repaired,
		"failed", report.Failed,
	)
}
