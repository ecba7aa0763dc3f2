package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"talentflow_backend/internal/tenancy/repository"
	"talentflow_backend/internal/tenancy/scope"
	"talentflow_backend/internal/tenancy/service"
	"talentflow_backend/internal/tenancy/transport"
	"talentflow_backend/platform/apperr"
	"talentflow_backend/platform/httpkit"
	"talentflow_backend/platform/logger"
	"talentflow_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type stubOrgRepo struct {
	orgs     map[string]repository.Organization
	upserted []string
}

func (r *stubOrgRepo) FindByExternalID(_ context.Context, externalOrgID string) (repository.Organization, error) {
	org, ok := r.orgs[externalOrgID]
	if !ok {
		return repository.Organization{}, apperr.TenantNotFound("Organization not found")
	}
	return org, nil
}

func (r *stubOrgRepo) Upsert(_ context.Context, externalOrgID, name string) (repository.Organization, bool, error) {
	r.upserted = append(r.upserted, externalOrgID)
	return repository.Organization{ID: uuid.New(), ExternalOrgID: externalOrgID, Name: name}, true, nil
}

func newScopedEngine(repo repository.Repository, userID, orgID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(service.New(repo, nil, nil, logger.New("test")), validator.New())

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(httpkit.ContextUserIDKey, userID)
			c.Set(httpkit.ContextExternalOrgKey, orgID)
		}
		c.Next()
	})
	engine.POST("/organizations/sync", h.Sync)

	scoped := engine.Group("", h.RequireScope())
	scoped.GET("/scoped", func(c *gin.Context) {
		s, ok := scope.MustGet(c)
		if !ok {
			return
		}
		c.String(http.StatusOK, s.TenantID.String())
	})
	return engine
}

func TestRequireScopeWithoutIdentityIs401(t *testing.T) {
	engine := newScopedEngine(&stubOrgRepo{}, "", "")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scoped", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireScopeUnknownOrganizationIs404(t *testing.T) {
	engine := newScopedEngine(&stubOrgRepo{}, "user_1", "org_1")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scoped", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRequireScopeResolvesFromTokenClaim(t *testing.T) {
	tenantID := uuid.New()
	repo := &stubOrgRepo{orgs: map[string]repository.Organization{"org_1": {ID: tenantID}}}
	engine := newScopedEngine(repo, "user_1", "org_1")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scoped", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != tenantID.String() {
		t.Fatalf("expected tenant %s, got %s", tenantID, rec.Body.String())
	}
}

func TestRequireScopeIgnoresOrganizationHeader(t *testing.T) {
	repo := &stubOrgRepo{orgs: map[string]repository.Organization{
		"org_other": {ID: uuid.New()},
		"org_own":   {ID: uuid.New()},
	}}

	cases := []struct {
		name  string
		claim string
		want  string
	}{
		{"no org claim", "", ""},
		{"different org claim", "org_own", repo.orgs["org_own"].ID.String()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newScopedEngine(repo, "user_1", tc.claim)

			req := httptest.NewRequest(http.MethodGet, "/scoped", nil)
			req.Header.Set("X-Organization-ID", "org_other")
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			if tc.want == "" {
				if rec.Code != http.StatusNotFound {
					t.Fatalf("expected 404 without an org claim, got %d (%s)", rec.Code, rec.Body.String())
				}
				return
			}
			if rec.Code != http.StatusOK || rec.Body.String() != tc.want {
				t.Fatalf("expected own tenant %s, got %d %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSyncUsesTokenOrganization(t *testing.T) {
	repo := &stubOrgRepo{}
	engine := newScopedEngine(repo, "user_1", "org_own")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/organizations/sync", strings.NewReader(`{"name":"Acme"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var body transport.OrganizationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.ExternalOrgID != "org_own" {
		t.Fatalf("expected org_own, got %q", body.ExternalOrgID)
	}
}

func TestSyncRejectsForeignOrganization(t *testing.T) {
	repo := &stubOrgRepo{}
	engine := newScopedEngine(repo, "user_1", "org_own")

	payload := `{"organizationId":"org_other","name":"Renamed"}`
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/organizations/sync", strings.NewReader(payload)))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if len(repo.upserted) != 0 {
		t.Fatalf("expected no upsert, got %v", repo.upserted)
	}
}

func TestSyncWithoutOrgClaimIsRejected(t *testing.T) {
	repo := &stubOrgRepo{}
	engine := newScopedEngine(repo, "user_1", "")

	payload := `{"organizationId":"org_other","name":"Acme"}`
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/organizations/sync", strings.NewReader(payload)))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if len(repo.upserted) != 0 {
		t.Fatalf("expected no upsert, got %v", repo.upserted)
	}
}
