package auth

import (
	"strings"
	"time"

	"github.com/Skotchmaster/legalpadi/internal/models"
	"github.com/Skotchmaster/legalpadi/pkg/tokens"
)

// Principal is the authenticated caller. Role comes from the stored user,
// token identity fields come from the presented token.
type Principal struct {
	ID        string
	Email     string
	Role      models.Role
	TokenID   string
	ExpiresAt time.Time
	Kind      tokens.Kind
	User      *models.User
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
