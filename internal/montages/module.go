// Package montages provides the montage pipeline bounded context module.
package montages

import (
	"context"

	domainevents "montagehub_backend/internal/events"
	apphttp "montagehub_backend/internal/http"
	"montagehub_backend/internal/montages/handler"
	"montagehub_backend/internal/montages/repository"
	"montagehub_backend/internal/montages/service"
	"montagehub_backend/platform/events"
	"montagehub_backend/platform/logger"
	"montagehub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the montages bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
	log     *logger.Logger
}

// NewModule creates and initializes the montages module. The settings
// dependency is an adapter around the settings module so this context never
// touches foreign storage directly. enqueue may be nil when no worker queue
// is configured; reconcile requests then run inline.
func NewModule(pool *pgxpool.Pool, settings service.SettingsProvider, bus events.Bus, val *validator.Validator, log *logger.Logger, reconcileWorkers int, enqueue handler.ReconcileEnqueuer) *Module {
	repo := repository.NewPostgresRepository(pool)
	svc := service.NewService(repo, settings, bus, log, reconcileWorkers)
	h := handler.New(svc, val, enqueue)

	m := &Module{
		handler: h,
		service: svc,
		repo:    repo,
		log:     log,
	}
	m.subscribe(bus)
	return m
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "montages"
}

// Service returns the service layer for external use (scheduler, backfill).
func (m *Module) Service() *service.Service {
	return m.service
}

// subscribe wires the event-driven checklist seeding: every created montage
// gets its checklist materialized as part of the create request. Errors go
// back to the publisher, which owns the logging.
func (m *Module) subscribe(bus events.Bus) {
	bus.Subscribe(domainevents.EventMontageCreated, events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		created, ok := event.(domainevents.MontageCreated)
		if !ok {
			return nil
		}
		_, err := m.service.EnsureChecklist(ctx, created.MontageID)
		return err
	}))
}

// RegisterRoutes mounts montage routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/montages"))
	m.handler.RegisterOfficeRoutes(ctx.Office.Group("/montages"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/montages"))
}
