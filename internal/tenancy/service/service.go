// Package service resolves authenticated identities to tenants.
package service

import (
	"context"
	"strings"

	"talentflow_backend/internal/events"
	"talentflow_backend/internal/tenancy/repository"
	"talentflow_backend/internal/tenancy/scope"
	"talentflow_backend/platform/apperr"
	"talentflow_backend/platform/httpkit"
	"talentflow_backend/platform/logger"
)

const (
	msgUnauthorized = "Unauthorized"
	msgOrgNotFound  = "Organization not found"
)

// Service maps (identity, external organization) pairs to tenant scopes.
type Service struct {
	repo  repository.Repository
	cache Cache
	bus   events.Bus
	log   *logger.Logger
}

// New creates a tenant resolver. A nil cache disables caching.
func New(repo repository.Repository, cache Cache, bus events.Bus, log *logger.Logger) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{repo: repo, cache: cache, bus: bus, log: log}
}

// Resolve returns the scope for the identity's external organization.
// Unauthenticated callers get Unauthorized; unknown organizations get TenantNotFound.
func (s *Service) Resolve(ctx context.Context, identity httpkit.Identity, externalOrgID string) (scope.Scope, error) {
	if identity == nil || !identity.IsAuthenticated() {
		return scope.Scope{}, apperr.Unauthorized(msgUnauthorized)
	}
	externalOrgID = strings.TrimSpace(externalOrgID)
	if externalOrgID == "" {
		return scope.Scope{}, apperr.TenantNotFound(msgOrgNotFound)
	}

	result := scope.Scope{
		UserID:        identity.UserID(),
		ExternalOrgID: externalOrgID,
		ActorName:     identity.DisplayName(),
	}

	if tenantID, ok, err := s.cache.Get(ctx, externalOrgID); err != nil {
		s.log.Warn("tenant cache read failed", "externalOrgId", externalOrgID, "error", err)
	} else if ok {
		result.TenantID = tenantID
		return result, nil
	}

	org, err := s.repo.FindByExternalID(ctx, externalOrgID)
	if err != nil {
		return scope.Scope{}, err
	}

	if err := s.cache.Set(ctx, externalOrgID, org.ID); err != nil {
		s.log.Warn("tenant cache write failed", "externalOrgId", externalOrgID, "error", err)
	}

	result.TenantID = org.ID
	return result, nil
}

// Sync creates the tenant for an external organization or refreshes its name.
func (s *Service) Sync(ctx context.Context, identity httpkit.Identity, externalOrgID, name string) (repository.Organization, error) {
	if identity == nil || !identity.IsAuthenticated() {
		return repository.Organization{}, apperr.Unauthorized(msgUnauthorized)
	}
	externalOrgID = strings.TrimSpace(externalOrgID)
	name = strings.TrimSpace(name)
	if externalOrgID == "" {
		return repository.Organization{}, apperr.Validation("organization id is required")
	}
	if name == "" {
		return repository.Organization{}, apperr.Validation("name is required")
	}

	org, created, err := s.repo.Upsert(ctx, externalOrgID, name)
	if err != nil {
		return repository.Organization{}, apperr.AsPersistence("sync organization", err)
	}

	if err := s.cache.Set(ctx, externalOrgID, org.ID); err != nil {
		s.log.Warn("tenant cache write failed", "externalOrgId", externalOrgID, "error", err)
	}

	s.log.Info("organization synced", "tenantId", org.ID, "externalOrgId", externalOrgID, "created", created)
	if s.bus != nil {
		// Subscribers seed tenant defaults inline.
		err := s.bus.PublishSync(ctx, events.OrganizationSynced{
			BaseEvent:     events.NewBaseEvent(),
			TenantID:      org.ID,
			ExternalOrgID: externalOrgID,
			Name:          org.Name,
			Created:       created,
		})
		if err != nil {
			s.log.Warn("organization sync handlers failed", "tenantId", org.ID, "error", err)
		}
	}

	return org, nil
}
