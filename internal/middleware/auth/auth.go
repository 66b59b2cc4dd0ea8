package authmw

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/legalpadi/internal/auth"
	"github.com/Skotchmaster/legalpadi/internal/logging"
	"github.com/Skotchmaster/legalpadi/internal/models"
	"github.com/Skotchmaster/legalpadi/pkg/tokens"
)

const principalKey = "principal"

type Authenticator interface {
	Authenticate(ctx context.Context, raw string, kind tokens.Kind) (*auth.Principal, error)
}

// Middleware guards routes with bearer tokens from the Authorization header.
type Middleware struct {
	auth Authenticator
}

func New(a Authenticator) *Middleware {
	return &Middleware{auth: a}
}

// RequireAccess admits a valid access token whose stored role is in roles.
// With no roles every authenticated caller is admitted.
func (m *Middleware) RequireAccess(roles ...models.Role) echo.MiddlewareFunc {
	if len(roles) == 0 {
		roles = auth.AnyRole
	}
	return m.require(tokens.Access, roles)
}

// RequireRefresh admits a valid refresh token of any role.
func (m *Middleware) RequireRefresh() echo.MiddlewareFunc {
	return m.require(tokens.Refresh, auth.AnyRole)
}

func (m *Middleware) require(kind tokens.Kind, roles []models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			raw, _ := auth.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))

			p, err := m.auth.Authenticate(ctx, raw, kind)
			if err != nil {
				return err
			}
			if err := auth.Require(p, roles...); err != nil {
				logging.FromContext(ctx).Warn("access_denied", "user_id", p.ID, "role", p.Role)
				return err
			}

			ctx, _ = logging.With(ctx, "user_id", p.ID)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set(principalKey, p)
			return next(c)
		}
	}
}

func PrincipalFrom(c echo.Context) (*auth.Principal, bool) {
	p, ok := c.Get(principalKey).(*auth.Principal)
	return p, ok && p != nil
}
