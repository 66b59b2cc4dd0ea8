package handlers

import (
	"log/slog"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/legalpadi/internal/apperr"
	"github.com/Skotchmaster/legalpadi/internal/auth"
	authmw "github.com/Skotchmaster/legalpadi/internal/middleware/auth"
	"github.com/Skotchmaster/legalpadi/internal/transport"
)

// principal returns the caller placed on the context by the auth middleware.
func principal(c echo.Context) (*auth.Principal, error) {
	p, ok := authmw.PrincipalFrom(c)
	if !ok {
		return nil, apperr.ErrAccessTokenRequired
	}
	return p, nil
}

func bind(c echo.Context, l *slog.Logger, dst any) error {
	if err := c.Bind(dst); err != nil {
		l.Warn("bind_failed", "status", 400, "error", err)
		return apperr.ErrBadRequest
	}
	return nil
}

func tagID(c echo.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil {
		return 0, apperr.New(apperr.ErrBadRequest.Status, "Tag id must be a positive integer", apperr.ErrBadRequest.Kind)
	}
	return uint(id), nil
}

func message(msg string) transport.MessageResponse {
	return transport.MessageResponse{Message: msg}
}
