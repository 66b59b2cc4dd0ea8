package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/legalpadi/internal/logging"
	"github.com/Skotchmaster/legalpadi/internal/models"
	"github.com/Skotchmaster/legalpadi/internal/service"
	"github.com/Skotchmaster/legalpadi/internal/transport"
)

// RefreshHeader optionally carries a refresh token to revoke on logout.
const RefreshHeader = "X-Refresh-Token"

type UserHandler struct {
	Users *service.UserService
	Auth  *service.AuthService
}

func (h *UserHandler) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.signup")

	var req transport.SignupRequest
	if err := bind(c, l, &req); err != nil {
		return err
	}
	u, err := h.Users.Signup(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, transport.NewUserResponse(u))
}

func (h *UserHandler) Login(c echo.Context) error {
	return login(c, h.Auth, "user.login")
}

// login is shared by the user and admin entry points; roles narrows the
// accounts allowed to sign in.
func login(c echo.Context, svc *service.AuthService, name string, roles ...models.Role) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", name)

	var req transport.LoginRequest
	if err := bind(c, l, &req); err != nil {
		return err
	}
	res, err := svc.Login(ctx, req.Email, req.Password, roles...)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.LoginResponse{
		Message:      "Login successful",
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    res.AccessExpiresAt,
		User:         transport.TokenUser{Email: res.User.Email, UID: res.User.ID},
	})
}

func (h *UserHandler) Profile(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(p.User))
}

func (h *UserHandler) ProfileWithCourses(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	u, err := h.Users.ProfileWithCourses(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewProfileWithCourses(u))
}

func (h *UserHandler) Role(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.RoleResponse{Role: p.Role})
}

func (h *UserHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.UpdateProfileRequest
	if err := bind(c, l, &req); err != nil {
		return err
	}
	u, err := h.Users.UpdateProfile(ctx, p.ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(u))
}

func (h *UserHandler) MakePremium(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	u, err := h.Users.MakePremium(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(u))
}

func (h *UserHandler) RefreshToken(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	access, exp, err := h.Auth.Refresh(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.RefreshResponse{
		Message:     "Token refreshed",
		AccessToken: access,
		ExpiresAt:   exp,
	})
}

func (h *UserHandler) Logout(c echo.Context) error {
	return logout(c, h.Auth)
}

func logout(c echo.Context, svc *service.AuthService) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := svc.Logout(c.Request().Context(), p, c.Request().Header.Get(RefreshHeader)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, message("Logged out successfully"))
}

func (h *UserHandler) VerifyEmail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.verify_email")

	u, err := h.Auth.VerifyEmail(ctx, c.Param("url"))
	if err != nil {
		return err
	}
	l.Info("email_verified", "user_id", u.ID)
	return c.JSON(http.StatusOK, message("Email verified successfully"))
}

func (h *UserHandler) DeleteAccount(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.Users.DeleteAccount(ctx, p, c.Request().Header.Get(RefreshHeader)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, message("Account deleted"))
}
