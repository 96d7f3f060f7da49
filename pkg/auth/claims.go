package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents the JWT claims accepted by the cardio risk service.
type Claims struct {
	jwt.RegisteredClaims
	UserID   uuid.UUID `json:"user_id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Roles    []string  `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasAnyRole reports whether the claims include at least one of roles.
// Admin satisfies every check.
func (c Claims) HasAnyRole(roles ...string) bool {
	if c.HasRole(RoleAdmin) {
		return true
	}
	for _, r := range roles {
		if c.HasRole(r) {
			return true
		}
	}
	return false
}

// Roles understood by the service.
const (
	RoleAdmin     = "admin"
	RoleClinician = "clinician"
	RoleAuditor   = "auditor"
	RoleAPIClient = "api_client"
)

// KnownRole reports whether role is one of the Role constants.
func KnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleClinician, RoleAuditor, RoleAPIClient:
		return true
	}
	return false
}
