package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/printmanage/console/internal/core/confirm"
	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/listview"
	"github.com/printmanage/console/internal/core/service"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}, plus the
//     per-field messages of validation failures.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		msg := ve.Message
		if msg == "" {
			msg = "The given data was invalid."
		}
		return http.StatusUnprocessableEntity, errorResponse{Error: msg, Fields: ve.Fields}
	}

	// Unclassified answers of the remote store keep their status.
	var re *domain.RemoteError
	if errors.As(err, &re) {
		code := re.Status
		if code < 400 || code > 599 {
			code = http.StatusBadGateway
		}
		return code, errorResponse{Error: service.Describe(err)}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized, errorResponse{Error: service.MsgSessionExpired}
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, confirm.ErrNotOwner):
		return http.StatusForbidden, errorResponse{Error: service.MsgForbidden}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: service.MsgNoResult}
	case errors.Is(err, confirm.ErrUnknownConfirmation):
		return http.StatusNotFound, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrSameDepartment):
		return http.StatusUnprocessableEntity, errorResponse{
			Error:  err.Error(),
			Fields: map[string][]string{"department_id": {err.Error()}},
		}
	case errors.Is(err, listview.ErrUnknownFilter),
		errors.Is(err, listview.ErrInvalidPerPage),
		errors.Is(err, service.ErrUnknownScope):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, service.ErrReadOnly):
		return http.StatusMethodNotAllowed, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrUnsupported):
		return http.StatusNotImplemented, errorResponse{Error: service.MsgUnsupported}
	case errors.Is(err, domain.ErrNetwork):
		return http.StatusBadGateway, errorResponse{Error: service.MsgNetwork}
	case errors.Is(err, domain.ErrMalformedResponse):
		return http.StatusBadGateway, errorResponse{Error: service.MsgMalformed}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
