package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// SuccessResponse writes data as the bare JSON body with 200.
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// ValidationErrorResponse writes a 400 with the per-field validation errors.
func ValidationErrorResponse(c echo.Context, message string, errs []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ErrorBody{Message: message, Errors: errs})
}

// MessageResponse writes a body that only carries a message.
func MessageResponse(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorBody{Message: message})
}

// InternalServerErrorResponse writes a generic 500.
func InternalServerErrorResponse(c echo.Context) error {
	return MessageResponse(c, http.StatusInternalServerError, "Internal Server Error")
}

// AppErrorResponse writes an application error as {message, error}.
// Errors that are not *AppError become a generic 500.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return InternalServerErrorResponse(c)
	}

	body := ErrorBody{Message: appErr.Message}
	if appErr.Err != nil {
		body.Error = appErr.Err.Error()
	}
	return c.JSON(appErr.Status, body)
}
