package presenter

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/totegamma/rdmc-registry/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

func BadRequest(c echo.Context, err error) error {
	zap.L().Debug("bad request", zap.String("path", c.Path()), zap.Error(err))
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func BadRequestMessage(c echo.Context, msg string) error {
	zap.L().Debug("bad request", zap.String("path", c.Path()), zap.String("reason", msg))
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func NotFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

func Conflict(c echo.Context, err error) error {
	zap.L().Info("write conflict", zap.String("path", c.Path()), zap.Error(err))
	return c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
}

func ServiceUnavailable(c echo.Context, msg string) error {
	return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: msg})
}

func InternalError(c echo.Context, err error) error {
	zap.L().Error("internal error", zap.String("path", c.Path()), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// Error picks the response status from the kind of err.
func Error(c echo.Context, err error) error {
	var validation domain.ValidationError
	var notFound domain.NotFoundError
	switch {
	case errors.Is(err, domain.ErrValidation) && errors.As(err, &validation):
		return BadRequestMessage(c, validation.Error())
	case errors.Is(err, domain.ErrNotFound) && errors.As(err, &notFound):
		return NotFound(c, notFound.Error())
	case errors.Is(err, domain.ErrConflict):
		return Conflict(c, err)
	default:
		return InternalError(c, err)
	}
}
