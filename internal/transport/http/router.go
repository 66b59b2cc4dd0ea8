package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/legalpadi/internal/auth"
	"github.com/Skotchmaster/legalpadi/internal/handlers"
	"github.com/Skotchmaster/legalpadi/internal/metrics"
	authmw "github.com/Skotchmaster/legalpadi/internal/middleware/auth"
	"github.com/Skotchmaster/legalpadi/internal/transport"
)

type Deps struct {
	DB         *gorm.DB
	Auth       *authmw.Middleware
	User       *handlers.UserHandler
	Admin      *handlers.AdminHandler
	Editor     *handlers.EditorHandler
	Course     *handlers.CourseHandler
	Tag        *handlers.TagHandler
	Like       *handlers.LikeHandler
	Dictionary *handlers.DictionaryHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Welcome to LegalPadi"})
	})
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", ready(d.DB))
	e.GET("/metrics", metrics.Handler())

	access := d.Auth.RequireAccess()
	staff := d.Auth.RequireAccess(auth.Staff...)
	adminOnly := d.Auth.RequireAccess(auth.AdminOnly...)

	v1 := e.Group("/api/v1")

	user := v1.Group("/user")
	user.POST("/signup", d.User.Signup)
	user.POST("/login", d.User.Login)
	user.GET("/verify_safe_url/:url", d.User.VerifyEmail)
	user.GET("/refresh_token", d.User.RefreshToken, d.Auth.RequireRefresh())
	user.GET("/profile", d.User.Profile, access)
	user.GET("/admin/profile", d.User.ProfileWithCourses, staff)
	user.GET("/editor/profile", d.User.ProfileWithCourses, staff)
	user.GET("/role", d.User.Role, access)
	user.PUT("/update_user", d.User.Update, access)
	user.PUT("/make_premium", d.User.MakePremium, access)
	user.GET("/logout", d.User.Logout, access)
	user.DELETE("/delete_account", d.User.DeleteAccount, access)

	admin := v1.Group("/admin")
	admin.POST("/create_super_admin", d.Admin.CreateSuperAdmin)
	admin.POST("/login", d.Admin.Login)
	admin.GET("/logout", d.Admin.Logout, access)
	admin.POST("/create", d.Admin.Create, adminOnly)
	admin.GET("/profile", d.Admin.Profile, adminOnly)
	admin.GET("/get/all", d.Admin.List, adminOnly)
	admin.PUT("/update/:uid", d.Admin.Update, adminOnly)
	admin.DELETE("/delete/:uid", d.Admin.Delete, adminOnly)
	admin.GET("/users", d.Admin.Users, adminOnly)
	admin.PUT("/users/:uid/role", d.Admin.SetRole, adminOnly)

	editor := v1.Group("/editor")
	editor.POST("/create", d.Editor.Create, adminOnly)
	editor.GET("/get/all", d.Editor.List, staff)
	editor.GET("/get/:uid", d.Editor.Get, staff)
	editor.PUT("/update/:uid", d.Editor.Update, staff)
	editor.DELETE("/delete/:uid", d.Editor.Delete, staff)

	course := v1.Group("/course")
	course.GET("/get/all", d.Course.List, access)
	course.GET("/get/:uid", d.Course.Get, access)
	course.GET("/search", d.Course.Search, access)
	course.GET("/mine", d.Course.Mine, staff)
	course.POST("/create", d.Course.Create, staff)
	course.PUT("/update/:uid", d.Course.Update, staff)
	course.DELETE("/delete/:uid", d.Course.Delete, staff)

	tag := v1.Group("/tag")
	tag.GET("/get/all", d.Tag.List, access)
	tag.GET("/name/:query", d.Tag.Search, access)
	tag.GET("/get/:id", d.Tag.Get, adminOnly)
	tag.POST("/create", d.Tag.Create, adminOnly)
	tag.PUT("/update/:id", d.Tag.Update, adminOnly)
	tag.DELETE("/delete/:id", d.Tag.Delete, adminOnly)

	coursetag := v1.Group("/coursetag", access)
	coursetag.GET("/courses/:tag_id/all", d.Tag.CoursesOfTag)
	coursetag.GET("/tags/:course_uid/all", d.Tag.TagsOfCourse)

	like := v1.Group("/like", access)
	like.GET("/:course_uid", d.Like.Status)
	like.POST("/:course_uid", d.Like.Like)
	like.DELETE("/:course_uid", d.Like.Unlike)

	dict := v1.Group("/dictionary")
	dict.GET("", d.Dictionary.Similar)
	dict.GET("/term", d.Dictionary.Define)
	dict.GET("/random", d.Dictionary.Random)
}

func ready(gdb *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(ctx); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	}
}
