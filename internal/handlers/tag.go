package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/legalpadi/internal/logging"
	"github.com/Skotchmaster/legalpadi/internal/service"
	"github.com/Skotchmaster/legalpadi/internal/transport"
)

type TagHandler struct {
	Tags *service.TagService
}

func (h *TagHandler) List(c echo.Context) error {
	tags, err := h.Tags.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

func (h *TagHandler) Search(c echo.Context) error {
	tags, err := h.Tags.Search(c.Request().Context(), c.Param("query"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

func (h *TagHandler) Get(c echo.Context) error {
	id, err := tagID(c, "id")
	if err != nil {
		return err
	}
	tag, err := h.Tags.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tag)
}

func (h *TagHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tag.create")

	var req transport.TagRequest
	if err := bind(c, l, &req); err != nil {
		return err
	}
	tag, err := h.Tags.Create(ctx, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tag)
}

func (h *TagHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tag.update")

	id, err := tagID(c, "id")
	if err != nil {
		return err
	}
	var req transport.TagRequest
	if err := bind(c, l, &req); err != nil {
		return err
	}
	tag, err := h.Tags.Rename(ctx, id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tag)
}

func (h *TagHandler) Delete(c echo.Context) error {
	id, err := tagID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Tags.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, message("Tag deleted"))
}

// CoursesOfTag and TagsOfCourse serve the course-tag join.

func (h *TagHandler) CoursesOfTag(c echo.Context) error {
	id, err := tagID(c, "tag_id")
	if err != nil {
		return err
	}
	courses, err := h.Tags.CoursesOf(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewCourseResponses(courses))
}

func (h *TagHandler) TagsOfCourse(c echo.Context) error {
	tags, err := h.Tags.OfCourse(c.Request().Context(), c.Param("course_uid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}
