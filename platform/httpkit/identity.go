// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Identity represents the externally authenticated caller.
// This interface abstracts identity extraction from the web framework,
// allowing handlers to access user information without depending on Gin.
type Identity interface {
	// UserID returns the identity provider's subject for the caller.
	UserID() string
	// ExternalOrgID returns the active organization claimed by the token, if any.
	ExternalOrgID() string
	// DisplayName returns a human readable name for audit entries.
	DisplayName() string
	// IsAuthenticated returns true if the user is authenticated.
	IsAuthenticated() bool
}

// identity is the concrete implementation of Identity.
type identity struct {
	userID        string
	externalOrgID string
	displayName   string
	authenticated bool
}

func (i *identity) UserID() string {
	return i.userID
}

func (i *identity) ExternalOrgID() string {
	return i.externalOrgID
}

func (i *identity) DisplayName() string {
	if i.displayName == "" {
		return "Unknown"
	}
	return i.displayName
}

func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

// NewIdentity builds an authenticated identity. Used by tests and adapters
// that resolve callers outside of the JWT middleware.
func NewIdentity(userID, externalOrgID, displayName string) Identity {
	return &identity{
		userID:        userID,
		externalOrgID: externalOrgID,
		displayName:   displayName,
		authenticated: userID != "",
	}
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if user info is not present.
func GetIdentity(c *gin.Context) Identity {
	userID := c.GetString(ContextUserIDKey)
	if userID == "" {
		return &identity{authenticated: false}
	}

	return &identity{
		userID:        userID,
		externalOrgID: c.GetString(ContextExternalOrgKey),
		displayName:   c.GetString(ContextDisplayNameKey),
		authenticated: true,
	}
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the user is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return nil
	}
	return id
}
