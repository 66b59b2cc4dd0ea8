package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Skotchmaster/legalpadi/internal/apperr"
	"github.com/Skotchmaster/legalpadi/internal/auth"
	"github.com/Skotchmaster/legalpadi/internal/config"
	"github.com/Skotchmaster/legalpadi/internal/hash"
	"github.com/Skotchmaster/legalpadi/internal/logging"
	"github.com/Skotchmaster/legalpadi/internal/mailer"
	"github.com/Skotchmaster/legalpadi/internal/metrics"
	"github.com/Skotchmaster/legalpadi/internal/models"
	"github.com/Skotchmaster/legalpadi/internal/mykafka"
	"github.com/Skotchmaster/legalpadi/internal/repo"
	"github.com/Skotchmaster/legalpadi/pkg/tokens"
)

const VerifyPath = "/api/v1/user/verify_safe_url/"

type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

type LoginResult struct {
	TokenPair
	User *models.User
}

// AuthService issues, checks and revokes credentials.
type AuthService struct {
	Repo   *repo.GormRepo
	Hasher *hash.Hasher
	Codec  *tokens.Codec
	Links  *tokens.SafeURL
	Gate   *auth.Gate
	Notify *Notifier

	accessTTL   time.Duration
	refreshTTL  time.Duration
	domainURL   string
	dummyDigest string
}

func NewAuthService(r *repo.GormRepo, h *hash.Hasher, n *Notifier, cfg config.Config) (*AuthService, error) {
	secret := []byte(cfg.Auth.JWTSecret)
	codec, err := tokens.NewCodec(secret)
	if err != nil {
		return nil, err
	}
	links, err := tokens.NewSafeURL(secret, cfg.Auth.VerifyLinkTTL)
	if err != nil {
		return nil, err
	}
	dummy, err := h.Hash("legalpadi-timing-equalizer")
	if err != nil {
		return nil, err
	}
	return &AuthService{
		Repo:        r,
		Hasher:      h,
		Codec:       codec,
		Links:       links,
		Gate:        auth.NewGate(codec, r, r),
		Notify:      n,
		accessTTL:   cfg.Auth.AccessTokenTTL,
		refreshTTL:  cfg.Auth.RefreshTokenTTL,
		domainURL:   strings.TrimRight(cfg.DomainURL, "/"),
		dummyDigest: dummy,
	}, nil
}

func (s *AuthService) RefreshTTL() time.Duration { return s.refreshTTL }

func subjectOf(u *models.User) tokens.Subject {
	return tokens.Subject{UserID: u.ID, Email: u.Email, Role: string(u.Role)}
}

func (s *AuthService) MintAccessAndRefresh(u *models.User) (*TokenPair, error) {
	access, accessClaims, err := s.Codec.Mint(subjectOf(u), s.accessTTL, tokens.Access)
	if err != nil {
		return nil, err
	}
	refresh, refreshClaims, err := s.Codec.Mint(subjectOf(u), s.refreshTTL, tokens.Refresh)
	if err != nil {
		return nil, err
	}
	metrics.TokenMinted(tokens.Access.String())
	metrics.TokenMinted(tokens.Refresh.String())
	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessClaims.ExpiresAt.Time,
		RefreshExpiresAt: refreshClaims.ExpiresAt.Time,
	}, nil
}

// Login checks credentials and mints a token pair. When roles are given the
// account must hold one of them. Unknown email and wrong password fail the
// same way.
func (s *AuthService) Login(ctx context.Context, email, password string, roles ...models.Role) (*LoginResult, error) {
	email = normalizeEmail(email)
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if email == "" || password == "" {
		return nil, apperr.ErrInvalidCredentials
	}

	user, err := s.Repo.UserByEmail(ctx, email, roles...)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, storageError(ctx, "login_lookup", err)
		}
		s.Hasher.Check(s.dummyDigest, password)
		l.Warn("login_failed", "reason", "unknown account")
		return nil, apperr.ErrInvalidCredentials
	}
	if !s.Hasher.Check(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "password mismatch", "user_id", user.ID)
		return nil, apperr.ErrInvalidCredentials
	}

	pair, err := s.MintAccessAndRefresh(user)
	if err != nil {
		l.Error("login_failed", "reason", "cannot mint tokens", "error", err)
		return nil, err
	}

	s.Notify.Publish(ctx, mykafka.NewEvent(mykafka.EventUserLoggedIn, user.ID, user.ID))
	l.Info("login_successful", "user_id", user.ID)
	return &LoginResult{TokenPair: *pair, User: user}, nil
}

func (s *AuthService) Authenticate(ctx context.Context, raw string, kind tokens.Kind) (*auth.Principal, error) {
	return s.Gate.Authenticate(ctx, raw, kind)
}

// Refresh mints a new access token for the holder of a valid refresh token.
// The role is taken from the stored user, not from any token.
func (s *AuthService) Refresh(ctx context.Context, p *auth.Principal) (string, time.Time, error) {
	if p == nil || p.Kind != tokens.Refresh || p.User == nil {
		return "", time.Time{}, apperr.ErrRefreshTokenRequired
	}
	raw, claims, err := s.Codec.Mint(subjectOf(p.User), s.accessTTL, tokens.Access)
	if err != nil {
		return "", time.Time{}, err
	}
	metrics.TokenMinted(tokens.Access.String())
	logging.FromContext(ctx).Info("access_token_refreshed", "user_id", p.ID)
	return raw, claims.ExpiresAt.Time, nil
}

// Logout revokes the presented access token. A refresh token belonging to
// the same user is revoked too; anything else in that slot is ignored.
func (s *AuthService) Logout(ctx context.Context, p *auth.Principal, refreshRaw string) error {
	if err := s.revokeSession(ctx, p, refreshRaw); err != nil {
		return err
	}
	s.Notify.Publish(ctx, mykafka.NewEvent(mykafka.EventUserLoggedOut, p.ID, p.ID))
	logging.FromContext(ctx).Info("logout_successful", "user_id", p.ID)
	return nil
}

// revokeSession revokes the presented access token and, when it belongs to
// the same user, the refresh token.
func (s *AuthService) revokeSession(ctx context.Context, p *auth.Principal, refreshRaw string) error {
	if p == nil || p.TokenID == "" {
		return apperr.ErrAccessTokenRequired
	}
	if _, err := s.Repo.Revoke(ctx, p.TokenID, p.ExpiresAt); err != nil {
		return storageError(ctx, "revoke_access", err)
	}
	metrics.Revoked()

	if refreshRaw != "" {
		res := s.Codec.Decode(refreshRaw)
		if res.Valid() && res.Claims.Refresh && res.Claims.UserID == p.ID {
			if _, err := s.Repo.Revoke(ctx, res.Claims.ID, res.Claims.ExpiresAt.Time); err != nil {
				return storageError(ctx, "revoke_refresh", err)
			}
			metrics.Revoked()
		}
	}
	return nil
}

func (s *AuthService) IssueVerificationLink(email, userID string) (string, error) {
	fragment, err := s.Links.Issue(email, userID)
	if err != nil {
		return "", err
	}
	return s.domainURL + VerifyPath + fragment, nil
}

// RedeemVerificationLink validates link and rejects links already used.
func (s *AuthService) RedeemVerificationLink(ctx context.Context, link string) (*tokens.LinkPayload, error) {
	payload, err := s.Links.Redeem(link)
	if err != nil {
		return nil, apperr.ErrInvalidURL
	}
	used, err := s.Repo.IsRevoked(ctx, payload.ID)
	if err != nil {
		return nil, storageError(ctx, "link_check", err)
	}
	if used {
		return nil, apperr.ErrInvalidURL
	}
	return payload, nil
}

// VerifyEmail consumes the link and marks its user verified. The claim and the
// update commit together, so a link verifies at most once.
func (s *AuthService) VerifyEmail(ctx context.Context, link string) (*models.User, error) {
	payload, err := s.RedeemVerificationLink(ctx, link)
	if err != nil {
		return nil, err
	}

	user, err := s.Repo.UserByID(ctx, payload.UserID)
	if err != nil {
		return nil, lookupError(ctx, "verify_lookup", err, apperr.ErrUserNotFound)
	}
	if user.Email != payload.Email {
		return nil, apperr.ErrInvalidURL
	}

	user, err = s.Repo.ConsumeVerification(ctx, user.ID, payload.Email, payload.ID, payload.ExpiresAt)
	switch {
	case errors.Is(err, repo.ErrAlreadyRevoked), errors.Is(err, repo.ErrNotFound):
		return nil, apperr.ErrInvalidURL
	case err != nil:
		return nil, storageError(ctx, "consume_link", err)
	}

	s.Notify.Publish(ctx, mykafka.NewEvent(mykafka.EventUserVerified, user.ID, user.ID))
	return user, nil
}

func (s *AuthService) sendVerification(ctx context.Context, u *models.User) error {
	link, err := s.IssueVerificationLink(u.Email, u.ID)
	if err != nil {
		return err
	}
	s.Notify.SendMail(ctx, mailer.VerificationMail(u.Email, link))
	return nil
}

func (s *AuthService) sendCredentials(ctx context.Context, u *models.User, password string) error {
	link, err := s.IssueVerificationLink(u.Email, u.ID)
	if err != nil {
		return err
	}
	s.Notify.SendMail(ctx, mailer.CredentialsMail(u.Email, password, link))
	return nil
}
