package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/legalpadi/internal/logging"
	"github.com/Skotchmaster/legalpadi/internal/service"
	"github.com/Skotchmaster/legalpadi/internal/transport"
	"github.com/Skotchmaster/legalpadi/internal/util"
)

type CourseHandler struct {
	Courses *service.CourseService
}

func pageOf(p *service.CoursePage) transport.PageResponse[transport.CourseResponse] {
	return transport.PageResponse[transport.CourseResponse]{
		Items: transport.NewCourseResponses(p.Items),
		Total: p.Total,
		Page:  p.Page,
		Size:  p.Size,
	}
}

func pageParams(c echo.Context) (int, int) {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	return page, size
}

func (h *CourseHandler) List(c echo.Context) error {
	page, size := pageParams(c)
	res, err := h.Courses.List(c.Request().Context(), page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pageOf(res))
}

func (h *CourseHandler) Get(c echo.Context) error {
	course, err := h.Courses.Get(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewCourseResponse(course))
}

func (h *CourseHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.search")

	page, size := pageParams(c)
	res, err := h.Courses.Search(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return err
	}
	l.Info("course_search", "total", res.Total)
	return c.JSON(http.StatusOK, pageOf(res))
}

func (h *CourseHandler) Mine(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	courses, err := h.Courses.ByAuthor(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewCourseResponses(courses))
}

func (h *CourseHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.create")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.CourseRequest
	if err := bind(c, l, &req); err != nil {
		return err
	}
	course, err := h.Courses.Create(ctx, p.User, req)
	if err != nil {
		return err
	}
	l.Info("course_created", "course_id", course.ID)
	return c.JSON(http.StatusCreated, transport.NewCourseResponse(course))
}

func (h *CourseHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.update")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.PatchCourseRequest
	if err := bind(c, l, &req); err != nil {
		return err
	}
	course, err := h.Courses.Update(ctx, p.User, c.Param("uid"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewCourseResponse(course))
}

func (h *CourseHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.Courses.Delete(c.Request().Context(), p.User, c.Param("uid")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, message("Course deleted"))
}
