package access

import "ideahub/internal/apperr"

// CheckRoleMutable rejects updates and deletes of the built-in roles. Callers
// run it against the stored name before writing anything.
func CheckRoleMutable(name string) error {
	if name == RoleAdmin || name == RoleGuest {
		return apperr.InvalidState("cannot modify default roles")
	}
	return nil
}

// CheckPermissionMutable rejects updates and deletes of the wildcard permission.
func CheckPermissionMutable(name string) error {
	if name == string(Wildcard) {
		return apperr.InvalidState("cannot modify the wildcard permission")
	}
	return nil
}

// CheckPermissionName rejects names outside the capability vocabulary.
func CheckPermissionName(name string) error {
	if !Capability(name).Valid() {
		return apperr.InvalidState("unknown permission " + name)
	}
	return nil
}
