package auth

import (
	"context"
	"errors"

	"github.com/Skotchmaster/legalpadi/internal/apperr"
	"github.com/Skotchmaster/legalpadi/internal/logging"
	"github.com/Skotchmaster/legalpadi/internal/metrics"
	"github.com/Skotchmaster/legalpadi/internal/models"
	"github.com/Skotchmaster/legalpadi/internal/repo"
	"github.com/Skotchmaster/legalpadi/pkg/tokens"
)

type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type UserDirectory interface {
	UserByID(ctx context.Context, id string, roles ...models.Role) (*models.User, error)
}

// Gate turns a raw bearer token into a Principal. Every call decodes the
// token, consults the revocation list and reloads the user; nothing is
// cached between calls.
type Gate struct {
	codec   *tokens.Codec
	revoked RevocationChecker
	users   UserDirectory
}

func NewGate(codec *tokens.Codec, revoked RevocationChecker, users UserDirectory) *Gate {
	return &Gate{codec: codec, revoked: revoked, users: users}
}

func required(kind tokens.Kind) error {
	if kind == tokens.Refresh {
		return apperr.ErrRefreshTokenRequired
	}
	return apperr.ErrAccessTokenRequired
}

func (g *Gate) Authenticate(ctx context.Context, raw string, kind tokens.Kind) (*Principal, error) {
	p, outcome, err := g.authenticate(ctx, raw, kind)
	metrics.GateDecision(kind.String(), outcome)
	if err != nil {
		logging.FromContext(ctx).Warn("auth_rejected", "kind", kind.String(), "outcome", outcome)
	}
	return p, err
}

func (g *Gate) authenticate(ctx context.Context, raw string, kind tokens.Kind) (*Principal, string, error) {
	if raw == "" {
		return nil, "missing", required(kind)
	}

	res := g.codec.Decode(raw)
	switch res.Status {
	case tokens.StatusValid:
	case tokens.StatusExpired:
		return nil, "expired", apperr.ErrExpiredToken
	default:
		return nil, res.Status.String(), apperr.ErrInvalidToken
	}
	claims := res.Claims

	if claims.Kind() != kind {
		return nil, "wrong_kind", required(kind)
	}

	revoked, err := g.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		logging.FromContext(ctx).Error("revocation_check_failed", "error", err)
		return nil, "storage_error", apperr.ErrStorage
	}
	if revoked {
		return nil, "revoked", apperr.ErrRevokedToken
	}

	user, err := g.users.UserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "unknown_user", apperr.ErrUserNotFound
		}
		logging.FromContext(ctx).Error("principal_lookup_failed", "error", err)
		return nil, "storage_error", apperr.ErrStorage
	}

	return &Principal{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
		Kind:      kind,
		User:      user,
	}, "allowed", nil
}
