package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/legalpadi/internal/apperr"
	"github.com/Skotchmaster/legalpadi/internal/dictionary"
	"github.com/Skotchmaster/legalpadi/internal/transport"
)

type DictionaryHandler struct {
	Dict *dictionary.Dictionary
}

func query(c echo.Context) (string, error) {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return "", apperr.New(http.StatusBadRequest, "Query parameter q is required", apperr.ErrBadRequest.Kind)
	}
	return q, nil
}

func (h *DictionaryHandler) Similar(c echo.Context) error {
	q, err := query(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.SimilarTermsResponse{Query: q, Terms: h.Dict.Similar(q)})
}

func (h *DictionaryHandler) Define(c echo.Context) error {
	q, err := query(c)
	if err != nil {
		return err
	}
	def, err := h.Dict.Define(q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dictionary.Entry{Term: strings.ToUpper(q), Definition: def})
}

func (h *DictionaryHandler) Random(c echo.Context) error {
	e, err := h.Dict.Random()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}
