package authmw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/legalpadi/internal/apperr"
	"github.com/Skotchmaster/legalpadi/internal/auth"
	"github.com/Skotchmaster/legalpadi/internal/models"
	"github.com/Skotchmaster/legalpadi/pkg/tokens"
)

type fakeAuth struct {
	principals map[string]*auth.Principal
	gotKind    tokens.Kind
}

func (f *fakeAuth) Authenticate(_ context.Context, raw string, kind tokens.Kind) (*auth.Principal, error) {
	f.gotKind = kind
	if raw == "" {
		if kind == tokens.Refresh {
			return nil, apperr.ErrRefreshTokenRequired
		}
		return nil, apperr.ErrAccessTokenRequired
	}
	p, ok := f.principals[raw]
	if !ok {
		return nil, apperr.ErrInvalidToken
	}
	return p, nil
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{principals: map[string]*auth.Principal{
		"user-token":   {ID: "u1", Role: models.RoleUser},
		"editor-token": {ID: "e1", Role: models.RoleEditor},
		"admin-token":  {ID: "a1", Role: models.RoleAdmin},
	}}
}

func run(t *testing.T, mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, *auth.Principal, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *auth.Principal
	err := mw(func(c echo.Context) error {
		seen, _ = PrincipalFrom(c)
		return c.NoContent(http.StatusNoContent)
	})(c)
	return rec, seen, err
}

func TestRequireAccess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		roles   []models.Role
		header  string
		wantErr error
		wantID  string
	}{
		{name: "missing header", header: "", wantErr: apperr.ErrAccessTokenRequired},
		{name: "wrong scheme", header: "Basic user-token", wantErr: apperr.ErrAccessTokenRequired},
		{name: "unknown token", header: "Bearer junk", wantErr: apperr.ErrInvalidToken},
		{name: "any role", header: "Bearer user-token", wantID: "u1"},
		{name: "staff admits editor", roles: auth.Staff, header: "Bearer editor-token", wantID: "e1"},
		{name: "staff rejects user", roles: auth.Staff, header: "Bearer user-token", wantErr: apperr.ErrAccessDenied},
		{name: "admin only rejects editor", roles: auth.AdminOnly, header: "bearer editor-token", wantErr: apperr.ErrAccessDenied},
		{name: "admin only admits admin", roles: auth.AdminOnly, header: "Bearer admin-token", wantID: "a1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			fa := newFakeAuth()
			rec, p, err := run(t, New(fa).RequireAccess(tc.roles...), tc.header)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, http.StatusNoContent, rec.Code)
			require.NotNil(t, p)
			assert.Equal(t, tc.wantID, p.ID)
			assert.Equal(t, tokens.Access, fa.gotKind)
		})
	}
}

func TestRequireRefresh(t *testing.T) {
	t.Parallel()
	fa := newFakeAuth()

	_, _, err := run(t, New(fa).RequireRefresh(), "")
	assert.ErrorIs(t, err, apperr.ErrRefreshTokenRequired)

	_, p, err := run(t, New(fa).RequireRefresh(), "Bearer admin-token")
	require.NoError(t, err)
	assert.Equal(t, "a1", p.ID)
	assert.Equal(t, tokens.Refresh, fa.gotKind)
}

func TestPrincipalFrom_Empty(t *testing.T) {
	t.Parallel()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, ok := PrincipalFrom(c)
	assert.False(t, ok)
}
