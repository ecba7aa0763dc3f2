// Package tenancy provides the tenant resolution bounded context module.
// It maps externally authenticated organizations to internal tenants.
package tenancy

import (
	"talentflow_backend/internal/events"
	apphttp "talentflow_backend/internal/http"
	"talentflow_backend/internal/tenancy/handler"
	"talentflow_backend/internal/tenancy/repository"
	"talentflow_backend/internal/tenancy/service"
	"talentflow_backend/platform/logger"
	"talentflow_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the tenancy bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the tenancy module. cache may be nil.
func NewModule(pool *pgxpool.Pool, cache service.Cache, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), cache, bus, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "tenancy"
}

// Service returns the resolver for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// ScopeMiddleware resolves the tenant once per request.
func (m *Module) ScopeMiddleware() gin.HandlerFunc {
	return m.handler.RequireScope()
}

// RegisterRoutes mounts tenant routes. Sync only needs an identity.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/organizations/sync", m.handler.Sync)
}

var _ apphttp.Module = (*Module)(nil)
