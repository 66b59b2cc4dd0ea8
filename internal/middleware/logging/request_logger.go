package loggingmw

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/legalpadi/internal/logging"
)

// quietPaths are probed constantly; their successes are logged at debug.
var quietPaths = map[string]struct{}{
	"/health/live":  {},
	"/health/ready": {},
	"/metrics":      {},
}

// RequestLogger attaches a request-scoped logger to the context and writes one
// line per request. Errors are rendered here so the logged status is final.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Response().Header().Get(echo.HeaderXRequestID)
			}

			l := base.With(
				"method", req.Method,
				"route", c.Path(),
				"path", req.URL.Path,
				"remote_ip", c.RealIP(),
			)
			if rid != "" {
				l = l.With("request_id", rid)
			}
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}

			status := c.Response().Status
			attrs := []slog.Attr{
				slog.Int("status", status),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.Int64("bytes", c.Response().Size),
			}
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
			}
			// the auth middleware may have replaced the context logger
			logging.FromContext(c.Request().Context()).LogAttrs(
				req.Context(), levelFor(status, req.URL.Path), "request_completed", attrs...,
			)
			return nil
		}
	}
}

func levelFor(status int, path string) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	}
	if _, ok := quietPaths[strings.TrimSuffix(path, "/")]; ok {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
