package notes

import (
	"net/http"

	apphttp "talentflow_backend/internal/http"
	"talentflow_backend/internal/tenancy/scope"
	"talentflow_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module exposes application notes over HTTP.
type Module struct {
	service *Service
}

// NewModule creates the notes module.
func NewModule(pool *pgxpool.Pool) *Module {
	return &Module{service: NewService(NewRepository(pool))}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notes"
}

// Service returns the notes service for cross-module writers.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts note routes on the tenant-scoped group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Scoped.GET("/applications/:id/notes", m.listForApplication)
}

// GET /api/v1/applications/:id/notes
func (m *Module) listForApplication(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid application ID", nil)
		return
	}
	sc, ok := scope.MustGet(c)
	if !ok {
		return
	}

	result, err := m.service.ListForApplication(c.Request.Context(), sc.TenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

var _ apphttp.Module = (*Module)(nil)
