// Package settings provides the application settings bounded context module.
package settings

import (
	apphttp "montagehub_backend/internal/http"
	"montagehub_backend/internal/settings/handler"
	"montagehub_backend/internal/settings/repository"
	"montagehub_backend/internal/settings/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the settings bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the settings module. Keys are registered
// afterwards by the modules that own them.
func NewModule(pool *pgxpool.Pool) *Module {
	svc := service.NewService(repository.NewPostgresRepository(pool))
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "settings"
}

// Service returns the service layer for adapters and key registration.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts settings routes on the provided router context.
// All settings endpoints are admin-only.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin.Group("/settings"))
}
