package auth

import (
	"slices"

	"github.com/Skotchmaster/legalpadi/internal/apperr"
	"github.com/Skotchmaster/legalpadi/internal/metrics"
	"github.com/Skotchmaster/legalpadi/internal/models"
)

// Route-level role sets.
var (
	AnyRole   = []models.Role{models.RoleUser, models.RoleEditor, models.RoleAdmin}
	Staff     = []models.Role{models.RoleEditor, models.RoleAdmin}
	AdminOnly = []models.Role{models.RoleAdmin}
)

// Authorize is plain membership. Roles are flat: admin does not imply editor
// unless the allowed set says so.
func Authorize(role models.Role, allowed ...models.Role) bool {
	return slices.Contains(allowed, role)
}

func Require(p *Principal, allowed ...models.Role) error {
	if p == nil {
		return apperr.ErrAccessTokenRequired
	}
	if !Authorize(p.Role, allowed...) {
		metrics.PolicyDenied(string(p.Role))
		return apperr.ErrAccessDenied
	}
	return nil
}
