package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/legalpadi/internal/apperr"
	"github.com/Skotchmaster/legalpadi/internal/dictionary"
	"github.com/Skotchmaster/legalpadi/internal/handlers"
	authmw "github.com/Skotchmaster/legalpadi/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/legalpadi/internal/middleware/logging"
	"github.com/Skotchmaster/legalpadi/internal/service"
)

// NewEcho returns an echo instance with the common middleware chain and the
// JSON error handler installed.
func NewEcho(l *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperr.Handler

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:  []string{"*"},
			AllowHeaders:  []string{echo.HeaderAuthorization, echo.HeaderContentType, handlers.RefreshHeader},
			ExposeHeaders: []string{echo.HeaderXRequestID},
		}),
		loggingmw.RequestLogger(l),
	)
	return e
}

func NewDeps(gdb *gorm.DB, s *service.Services, dict *dictionary.Dictionary) *Deps {
	return &Deps{
		DB:         gdb,
		Auth:       authmw.New(s.Auth),
		User:       &handlers.UserHandler{Users: s.Users, Auth: s.Auth},
		Admin:      &handlers.AdminHandler{Admins: s.Admins, Users: s.Users, Auth: s.Auth},
		Editor:     &handlers.EditorHandler{Editors: s.Editors},
		Course:     &handlers.CourseHandler{Courses: s.Courses},
		Tag:        &handlers.TagHandler{Tags: s.Tags},
		Like:       &handlers.LikeHandler{Likes: s.Likes},
		Dictionary: &handlers.DictionaryHandler{Dict: dict},
	}
}
