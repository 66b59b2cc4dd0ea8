package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/legalpadi/internal/logging"
	"github.com/Skotchmaster/legalpadi/internal/service"
	"github.com/Skotchmaster/legalpadi/internal/transport"
)

type EditorHandler struct {
	Editors *service.EditorService
}

func (h *EditorHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "editor.create")

	var req transport.CreateStaffRequest
	if err := bind(c, l, &req); err != nil {
		return err
	}
	u, err := h.Editors.Create(ctx, req)
	if err != nil {
		return err
	}
	l.Info("editor_created", "editor_id", u.ID)
	return c.JSON(http.StatusCreated, transport.NewUserResponse(u))
}

func (h *EditorHandler) List(c echo.Context) error {
	editors, err := h.Editors.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewUserResponses(editors))
}

func (h *EditorHandler) Get(c echo.Context) error {
	u, err := h.Editors.Get(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewProfileWithCourses(u))
}

func (h *EditorHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "editor.update")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.UpdateProfileRequest
	if err := bind(c, l, &req); err != nil {
		return err
	}
	u, err := h.Editors.Update(ctx, p.User, c.Param("uid"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(u))
}

func (h *EditorHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.Editors.Delete(c.Request().Context(), p.User, c.Param("uid")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, message("Editor deleted"))
}
