// Package access decides whether a principal may perform a capability and
// protects the built-in roles and the wildcard permission from mutation.
package access

import (
	"context"
	"fmt"

	"ideahub/internal/apperr"
)

// Reserved role names. Comparisons are exact and case-sensitive.
const (
	RoleGuest = "Guest"
	RoleAdmin = "Admin"
)

// Principal is the identity a request acts as. Guests carry no ID.
type Principal struct {
	ID   *uint  `json:"id,omitempty"`
	Role string `json:"role"`
}

// Guest returns the principal assigned to unauthenticated requests.
func Guest() Principal {
	return Principal{Role: RoleGuest}
}

// User returns a principal for a stored user.
func User(id uint, role string) Principal {
	return Principal{ID: &id, Role: role}
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

var allow = Decision{Allowed: true}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Err returns nil when allowed and an Unauthorized error otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apperr.Unauthorized(d.Reason)
}

// PermissionSource loads the permission names granted to a user's role.
// It returns an apperr NotFound error when the user does not exist.
type PermissionSource interface {
	RolePermissions(ctx context.Context, userID uint) ([]string, error)
}

// Resolver authorizes principals against the role/permission graph.
type Resolver struct {
	source PermissionSource
}

func NewResolver(source PermissionSource) *Resolver {
	return &Resolver{source: source}
}

// Authorize decides whether p holds required. Guests are always denied and admins
// always allowed without a lookup; everyone else needs the wildcard or an exact
// grant on their role. A non-nil error means the decision could not be made.
func (r *Resolver) Authorize(ctx context.Context, p Principal, required Capability) (Decision, error) {
	switch p.Role {
	case RoleGuest:
		return deny("insufficient permission"), nil
	case RoleAdmin:
		return allow, nil
	}
	if p.ID == nil {
		return Decision{}, apperr.NotFound("user not found")
	}
	granted, err := r.source.RolePermissions(ctx, *p.ID)
	if err != nil {
		return Decision{}, fmt.Errorf("load permissions of user %d: %w", *p.ID, err)
	}
	for _, name := range granted {
		if name == string(Wildcard) || name == string(required) {
			return allow, nil
		}
	}
	return deny("insufficient permission"), nil
}
