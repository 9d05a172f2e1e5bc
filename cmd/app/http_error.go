package main

import (
	"errors"
	"net/http"

	"AnyCademyAPI/internal/apperr"

	"github.com/labstack/echo/v4"
)

// errorJSON maps service errors onto HTTP statuses. Anything unclassified is
// a 500 with a generic body so internals never leak.
func errorJSON(c echo.Context, err error) error {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrPermission):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrGateway):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	default:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
