package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/legalpadi/internal/apperr"
	"github.com/Skotchmaster/legalpadi/internal/auth"
	"github.com/Skotchmaster/legalpadi/internal/db"
	"github.com/Skotchmaster/legalpadi/internal/models"
	"github.com/Skotchmaster/legalpadi/internal/mykafka"
	"github.com/Skotchmaster/legalpadi/pkg/tokens"
)

func TestAuth_LoginAuthenticateLogout(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.signup(t, "ada@legalpadi.test")

	res, err := env.Auth.Login(ctx, "  ADA@legalpadi.test ", "pa55word")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)
	assert.NotEqual(t, res.AccessToken, res.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.AccessExpiresAt, 5*time.Second)
	assert.WithinDuration(t, time.Now().Add(48*time.Hour), res.RefreshExpiresAt, 5*time.Second)

	p, err := env.Auth.Authenticate(ctx, res.AccessToken, tokens.Access)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.ID)
	assert.Equal(t, models.RoleUser, p.Role)

	_, err = env.Auth.Authenticate(ctx, res.RefreshToken, tokens.Access)
	assert.ErrorIs(t, err, apperr.ErrAccessTokenRequired)
	_, err = env.Auth.Authenticate(ctx, res.AccessToken, tokens.Refresh)
	assert.ErrorIs(t, err, apperr.ErrRefreshTokenRequired)

	require.NoError(t, env.Auth.Logout(ctx, p, res.RefreshToken))

	_, err = env.Auth.Authenticate(ctx, res.AccessToken, tokens.Access)
	assert.ErrorIs(t, err, apperr.ErrRevokedToken)
	_, err = env.Auth.Authenticate(ctx, res.RefreshToken, tokens.Refresh)
	assert.ErrorIs(t, err, apperr.ErrRevokedToken)

	env.Notify.Wait()
	assert.Contains(t, env.Events.types(), mykafka.EventUserLoggedIn)
	assert.Contains(t, env.Events.types(), mykafka.EventUserLoggedOut)
}

func TestAuth_LogoutTwiceIsHarmless(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	env.signup(t, "ada@legalpadi.test")

	res, err := env.Auth.Login(ctx, "ada@legalpadi.test", "pa55word")
	require.NoError(t, err)
	p, err := env.Auth.Authenticate(ctx, res.AccessToken, tokens.Access)
	require.NoError(t, err)

	require.NoError(t, env.Auth.Logout(ctx, p, ""))
	require.NoError(t, env.Auth.Logout(ctx, p, ""))

	// refresh token was not presented, so it stays usable
	_, err = env.Auth.Authenticate(ctx, res.RefreshToken, tokens.Refresh)
	assert.NoError(t, err)
}

func TestAuth_LogoutIgnoresForeignRefreshToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	env.signup(t, "ada@legalpadi.test")
	env.signup(t, "bola@legalpadi.test")

	ada, err := env.Auth.Login(ctx, "ada@legalpadi.test", "pa55word")
	require.NoError(t, err)
	bola, err := env.Auth.Login(ctx, "bola@legalpadi.test", "pa55word")
	require.NoError(t, err)

	p, err := env.Auth.Authenticate(ctx, ada.AccessToken, tokens.Access)
	require.NoError(t, err)
	require.NoError(t, env.Auth.Logout(ctx, p, bola.RefreshToken))

	_, err = env.Auth.Authenticate(ctx, bola.RefreshToken, tokens.Refresh)
	assert.NoError(t, err)
}

func TestAuth_LoginFailuresLookAlike(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	env.signup(t, "ada@legalpadi.test")

	_, wrongPassword := env.Auth.Login(ctx, "ada@legalpadi.test", "nope")
	_, unknownEmail := env.Auth.Login(ctx, "ghost@legalpadi.test", "pa55word")
	_, empty := env.Auth.Login(ctx, "", "")

	assert.Equal(t, apperr.ErrInvalidCredentials, wrongPassword)
	assert.Equal(t, apperr.ErrInvalidCredentials, unknownEmail)
	assert.Equal(t, apperr.ErrInvalidCredentials, empty)
}

func TestAuth_LoginRestrictedToRoles(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	env.signup(t, "ada@legalpadi.test")

	_, err := env.Auth.Login(ctx, "ada@legalpadi.test", "pa55word", models.RoleAdmin)
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestAuth_RefreshUsesCurrentRole(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.signup(t, "ada@legalpadi.test")

	res, err := env.Auth.Login(ctx, "ada@legalpadi.test", "pa55word")
	require.NoError(t, err)

	_, err = env.Users.SetRole(ctx, u.ID, "editor")
	require.NoError(t, err)

	// the old access token already sees the new role
	p, err := env.Auth.Authenticate(ctx, res.AccessToken, tokens.Access)
	require.NoError(t, err)
	assert.Equal(t, models.RoleEditor, p.Role)
	assert.NoError(t, auth.Require(p, auth.Staff...))

	rp, err := env.Auth.Authenticate(ctx, res.RefreshToken, tokens.Refresh)
	require.NoError(t, err)
	access, exp, err := env.Auth.Refresh(ctx, rp)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	decoded := env.Auth.Codec.Decode(access)
	require.True(t, decoded.Valid())
	assert.Equal(t, "editor", decoded.Claims.Role)
	assert.False(t, decoded.Claims.Refresh)

	_, _, err = env.Auth.Refresh(ctx, p)
	assert.ErrorIs(t, err, apperr.ErrRefreshTokenRequired)
}

func TestAuth_DeletedUserLosesAccess(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.signup(t, "ada@legalpadi.test")

	res, err := env.Auth.Login(ctx, "ada@legalpadi.test", "pa55word")
	require.NoError(t, err)
	other, refresh := env.session(t, u.Email)
	require.NoError(t, env.Users.DeleteAccount(ctx, other, refresh))

	_, err = env.Auth.Authenticate(ctx, res.AccessToken, tokens.Access)
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}

func TestAuth_StorageFailure(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	env.signup(t, "ada@legalpadi.test")
	res, err := env.Auth.Login(ctx, "ada@legalpadi.test", "pa55word")
	require.NoError(t, err)

	require.NoError(t, db.Close(env.DB))

	_, err = env.Auth.Login(ctx, "ada@legalpadi.test", "pa55word")
	assert.ErrorIs(t, err, apperr.ErrStorage)
	_, err = env.Auth.Authenticate(ctx, res.AccessToken, tokens.Access)
	assert.ErrorIs(t, err, apperr.ErrStorage)
}

func TestAuth_VerificationLinkSingleUse(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.signup(t, "ada@legalpadi.test")
	assert.False(t, u.IsVerified)

	env.Notify.Wait()
	mails := env.Mail.all()
	require.Len(t, mails, 1)
	assert.Equal(t, []string{"ada@legalpadi.test"}, mails[0].Recipients)
	assert.Contains(t, mails[0].HTML, "http://legalpadi.test"+VerifyPath)

	link, err := env.Auth.IssueVerificationLink(u.Email, u.ID)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "http://legalpadi.test"+VerifyPath))

	payload, err := env.Auth.RedeemVerificationLink(ctx, link)
	require.NoError(t, err)
	assert.Equal(t, u.ID, payload.UserID)

	verified, err := env.Auth.VerifyEmail(ctx, link)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)

	_, err = env.Auth.VerifyEmail(ctx, link)
	assert.ErrorIs(t, err, apperr.ErrInvalidURL)

	_, err = env.Auth.VerifyEmail(ctx, "http://legalpadi.test"+VerifyPath+"garbage")
	assert.ErrorIs(t, err, apperr.ErrInvalidURL)
}

func TestAuth_VerificationLinkConcurrentRedeem(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.signup(t, "ada@legalpadi.test")

	link, err := env.Auth.IssueVerificationLink(u.Email, u.ID)
	require.NoError(t, err)

	const n = 8
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.Auth.VerifyEmail(ctx, link)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, apperr.ErrInvalidURL)
	}
	assert.Equal(t, 1, ok)
	env.Notify.Wait()
	assert.Equal(t, 1, env.Events.count(mykafka.EventUserVerified))
}

func TestAuth_VerificationLinkStaleAfterEmailChange(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.signup(t, "ada@legalpadi.test")

	link, err := env.Auth.IssueVerificationLink(u.Email, u.ID)
	require.NoError(t, err)

	email := "ada.new@legalpadi.test"
	_, err = env.Users.UpdateProfile(ctx, u.ID, updateReq(nil, &email))
	require.NoError(t, err)

	_, err = env.Auth.VerifyEmail(ctx, link)
	assert.ErrorIs(t, err, apperr.ErrInvalidURL)
}

func TestAuth_VerificationLinkIsNotAnAccessToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.signup(t, "ada@legalpadi.test")

	link, err := env.Auth.IssueVerificationLink(u.Email, u.ID)
	require.NoError(t, err)
	raw := link[strings.LastIndex(link, "/")+1:]

	_, err = env.Auth.Authenticate(ctx, raw, tokens.Access)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}
