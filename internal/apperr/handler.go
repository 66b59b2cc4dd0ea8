package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/legalpadi/internal/logging"
)

type body struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Handler renders every error as {"message", "error"}. Unknown errors become a
// bare 500 so internals never reach the client.
func Handler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, out := render(err)
	if status >= http.StatusInternalServerError {
		l := logging.FromContext(c.Request().Context())
		l.Error("unhandled_error", "status", status, "error", err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, out)
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("error_response_failed", "error", werr)
	}
}

func render(err error) (int, body) {
	if ae, ok := As(err); ok {
		return ae.Status, body{Message: ae.Message, Error: ae.Kind}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		} else if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		return he.Code, body{Message: msg, Error: http.StatusText(he.Code)}
	}

	return http.StatusInternalServerError, body{
		Message: "Oops! Something went wrong",
		Error:   "Server Error",
	}
}
