// Package applications provides the application record store and the stage
// transition coordinator, plus the job board built on top of them.
package applications

import (
	"talentflow_backend/internal/applications/handler"
	"talentflow_backend/internal/applications/ports"
	"talentflow_backend/internal/applications/repository"
	"talentflow_backend/internal/applications/service"
	"talentflow_backend/internal/applications/transition"
	"talentflow_backend/internal/events"
	apphttp "talentflow_backend/internal/http"
	"talentflow_backend/platform/logger"
	"talentflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StageSource is everything applications needs from the stage registry.
type StageSource interface {
	ports.StageResolver
	ports.StageLister
}

// Module is the applications bounded context module implementing http.Module.
type Module struct {
	handler     *handler.Handler
	service     *service.Service
	coordinator *transition.Coordinator
}

// NewModule creates and initializes the applications module. notes may be nil.
func NewModule(pool *pgxpool.Pool, stages StageSource, notes ports.NoteWriter, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, stages, log)
	coord := transition.New(repo, stages, notes, bus, log)
	return &Module{
		handler:     handler.New(svc, coord, stages, val, log),
		service:     svc,
		coordinator: coord,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "applications"
}

// Coordinator returns the stage transition coordinator.
func (m *Module) Coordinator() *transition.Coordinator {
	return m.coordinator
}

// RegisterRoutes mounts application and board routes on the tenant-scoped group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	apps := ctx.Scoped.Group("/applications")
	apps.GET("", m.handler.List)
	apps.POST("", m.handler.Create)
	apps.GET("/:id", m.handler.GetByID)
	apps.PATCH("/:id", m.handler.Update)
	apps.DELETE("/:id", m.handler.Delete)

	jobs := ctx.Scoped.Group("/jobs/:jobId")
	jobs.GET("/board", m.handler.Board)
	jobs.POST("/board/moves", m.handler.MoveOnBoard)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
