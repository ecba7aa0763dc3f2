// Package pipeline provides the stage registry bounded context module.
// It owns each tenant's ordered list of hiring stages.
package pipeline

import (
	"context"

	"talentflow_backend/internal/events"
	apphttp "talentflow_backend/internal/http"
	"talentflow_backend/internal/pipeline/handler"
	"talentflow_backend/internal/pipeline/repository"
	"talentflow_backend/internal/pipeline/service"
	"talentflow_backend/platform/logger"
	"talentflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the pipeline bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the pipeline module with all its dependencies.
func NewModule(pool *pgxpool.Pool, defaults []repository.DefaultStage, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, defaults, bus, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "pipeline"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts stage routes on the tenant-scoped group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	stages := ctx.Scoped.Group("/stages")
	stages.GET("", m.handler.List)
	stages.POST("", m.handler.Create)
	stages.PUT("/order", m.handler.Reorder)
	stages.GET("/:id", m.handler.GetByID)
	stages.PATCH("/:id", m.handler.Update)
	stages.DELETE("/:id", m.handler.Delete)
}

// RegisterHandlers subscribes to domain events for seeding tenant defaults.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.OrganizationSynced{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.OrganizationSynced:
		if !e.Created {
			return nil
		}
		return m.service.EnsureDefaults(ctx, e.TenantID)
	default:
		return nil
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
