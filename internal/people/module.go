// Package people provides the person directory bounded context module.
package people

import (
	apphttp "montagehub_backend/internal/http"
	"montagehub_backend/internal/people/handler"
	"montagehub_backend/internal/people/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the people bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool) *Module {
	return &Module{
		handler: handler.New(repository.NewPostgresRepository(pool)),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "people"
}

// RegisterRoutes mounts people routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/people"))
}
