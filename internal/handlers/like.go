package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/legalpadi/internal/service"
	"github.com/Skotchmaster/legalpadi/internal/transport"
)

type LikeHandler struct {
	Likes *service.LikeService
}

func likeResponse(st *service.LikeStatus) transport.LikeResponse {
	return transport.LikeResponse{CourseUID: st.CourseID, Liked: st.Liked, Likes: st.Likes}
}

func (h *LikeHandler) Status(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	st, err := h.Likes.Status(c.Request().Context(), p.ID, c.Param("course_uid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, likeResponse(st))
}

func (h *LikeHandler) Like(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	st, err := h.Likes.Like(c.Request().Context(), p.ID, c.Param("course_uid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, likeResponse(st))
}

func (h *LikeHandler) Unlike(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := principal(c)
	if err != nil {
		return err
	}
	courseID := c.Param("course_uid")
	if err := h.Likes.Unlike(ctx, p.ID, courseID); err != nil {
		return err
	}
	st, err := h.Likes.Status(ctx, p.ID, courseID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, likeResponse(st))
}
