package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/legalpadi/internal/logging"
	"github.com/Skotchmaster/legalpadi/internal/models"
	"github.com/Skotchmaster/legalpadi/internal/service"
	"github.com/Skotchmaster/legalpadi/internal/transport"
)

type AdminHandler struct {
	Admins *service.AdminService
	Users  *service.UserService
	Auth   *service.AuthService
}

func (h *AdminHandler) CreateSuperAdmin(c echo.Context) error {
	u, err := h.Admins.CreateSuperAdmin(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, transport.NewUserResponse(u))
}

func (h *AdminHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create")

	var req transport.CreateStaffRequest
	if err := bind(c, l, &req); err != nil {
		return err
	}
	u, err := h.Admins.Create(ctx, req)
	if err != nil {
		return err
	}
	l.Info("admin_created", "admin_id", u.ID)
	return c.JSON(http.StatusCreated, transport.NewUserResponse(u))
}

func (h *AdminHandler) Login(c echo.Context) error {
	return login(c, h.Auth, "admin.login", models.RoleAdmin)
}

func (h *AdminHandler) Logout(c echo.Context) error {
	return logout(c, h.Auth)
}

func (h *AdminHandler) Profile(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(p.User))
}

func (h *AdminHandler) List(c echo.Context) error {
	admins, err := h.Admins.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewUserResponses(admins))
}

func (h *AdminHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update")

	var req transport.UpdateProfileRequest
	if err := bind(c, l, &req); err != nil {
		return err
	}
	u, err := h.Admins.Update(ctx, c.Param("uid"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(u))
}

func (h *AdminHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.Admins.Delete(c.Request().Context(), p.User, c.Param("uid")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, message("Admin deleted"))
}

func (h *AdminHandler) Users(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewUserResponses(users))
}

func (h *AdminHandler) SetRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.set_role")

	var req transport.SetRoleRequest
	if err := bind(c, l, &req); err != nil {
		return err
	}
	u, err := h.Users.SetRole(ctx, c.Param("uid"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(u))
}
