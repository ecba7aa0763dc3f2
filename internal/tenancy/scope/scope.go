// Package scope carries the resolved tenant for a single request.
// It is resolved once by middleware and passed explicitly to services.
package scope

import (
	"context"
	"net/http"

	"talentflow_backend/platform/httpkit"
	"talentflow_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ginKey = "tenancyScope"

type ctxKey struct{}

// Scope identifies the caller and the tenant every storage call is filtered by.
type Scope struct {
	TenantID      uuid.UUID
	UserID        string
	ExternalOrgID string
	ActorName     string
}

// WithContext stores s in ctx.
func WithContext(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// Set stores s on the gin context and the request context, and tags request
// logs with the tenant.
func Set(c *gin.Context, s Scope) {
	c.Set(ginKey, s)
	ctx := context.WithValue(c.Request.Context(), logger.TenantIDKey, s.TenantID.String())
	c.Request = c.Request.WithContext(WithContext(ctx, s))
}

// MustGet returns the scope resolved by middleware. Routes mounted outside
// the scoped group abort with 401.
func MustGet(c *gin.Context) (Scope, bool) {
	if raw, ok := c.Get(ginKey); ok {
		if s, ok := raw.(Scope); ok && s.TenantID != uuid.Nil {
			return s, true
		}
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, httpkit.ErrorResponse{Error: "Unauthorized"})
	return Scope{}, false
}
