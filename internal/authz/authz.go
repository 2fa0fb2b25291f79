// Package authz decides whether a caller's role may use an endpoint.
package authz

import "github.com/BruksfildServices01/smartq/internal/models"

// Allowed reports whether callerRole satisfies requiredRole. Roles are not
// hierarchical: admins do not act as staff, staff do not act as admins.
func Allowed(callerRole, requiredRole string) bool {
	if requiredRole == "" {
		return false
	}
	if !Known(callerRole) {
		return false
	}
	return callerRole == requiredRole
}

func Known(role string) bool {
	return role == models.RoleAdmin || role == models.RoleStaff
}
