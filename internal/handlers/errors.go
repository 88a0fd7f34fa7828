package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"refstaff/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const internalErrorMessage = "Internal server error"

var (
	errInvalidJSON       = echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON")
	errMethodNotAllowed  = echo.NewHTTPError(http.StatusMethodNotAllowed, "Method not allowed")
	errEndpointNotFound  = echo.NewHTTPError(http.StatusNotFound, "Endpoint not found")
	errInvalidAuthAction = echo.NewHTTPError(http.StatusBadRequest, "Invalid action")
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// serviceError turns a service failure into the HTTP error returned to the
// client. Anything that is not a domain error is logged and hidden.
func serviceError(c echo.Context, err error) error {
	var se *services.Error
	if !errors.As(err, &se) {
		zap.L().Error("Request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, internalErrorMessage)
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(se, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(se, services.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(se, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(se, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(se, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(se, services.ErrUpstream):
		zap.L().Warn("Upstream call failed", zap.String("path", c.Path()), zap.Error(err))
	default:
		zap.L().Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return echo.NewHTTPError(status, se.Message)
}

// HTTPErrorHandler renders errors as {"error": "..."}. Only messages set
// through echo.HTTPError reach the client.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := internalErrorMessage

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		switch m := he.Message.(type) {
		case string:
			message = m
		case error:
			message = m.Error()
		default:
			message = http.StatusText(status)
		}
		if he.Internal != nil {
			zap.L().Debug("HTTP error", zap.Int("status", status), zap.Error(he.Internal))
		}
	} else {
		zap.L().Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
	}

	if status == http.StatusNotFound && message == http.StatusText(http.StatusNotFound) {
		message = errEndpointNotFound.Message.(string)
	}
	if status == http.StatusMethodNotAllowed {
		message = errMethodNotAllowed.Message.(string)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, ErrorResponse{Error: message})
	}
	if writeErr != nil {
		zap.L().Warn("Failed to write error response", zap.Error(writeErr))
	}
}

// bindJSON decodes a JSON request body into dst. An empty body leaves dst
// untouched.
func bindJSON(c echo.Context, dst interface{}) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return errInvalidJSON
	}
	return decodeJSON(body, dst)
}

func decodeJSON(body []byte, dst interface{}) error {
	if strings.TrimSpace(string(body)) == "" {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errInvalidJSON
	}
	return nil
}
