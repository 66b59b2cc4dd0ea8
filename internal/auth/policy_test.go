package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/legalpadi/internal/apperr"
	"github.com/Skotchmaster/legalpadi/internal/models"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		role    models.Role
		allowed []models.Role
		want    bool
	}{
		{"user in any", models.RoleUser, AnyRole, true},
		{"user not staff", models.RoleUser, Staff, false},
		{"editor staff", models.RoleEditor, Staff, true},
		{"editor not admin", models.RoleEditor, AdminOnly, false},
		{"admin is not implicitly editor", models.RoleAdmin, []models.Role{models.RoleEditor}, false},
		{"admin staff", models.RoleAdmin, Staff, true},
		{"empty set denies", models.RoleAdmin, nil, false},
		{"unknown role", models.Role("root"), AnyRole, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Authorize(tt.role, tt.allowed...))
		})
	}
}

func TestRequire(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Require(&Principal{Role: models.RoleEditor}, Staff...))
	assert.ErrorIs(t, Require(&Principal{Role: models.RoleUser}, Staff...), apperr.ErrAccessDenied)
	assert.ErrorIs(t, Require(nil, AnyRole...), apperr.ErrAccessTokenRequired)
}
