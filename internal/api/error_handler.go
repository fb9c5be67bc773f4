package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tutorlink/chain-client/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Reason
// is set for typed local rejections so clients can branch on category.
type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders local booking/estimate rejections with their category.
//   - Maps known domain errors to deterministic HTTP status codes.
//   - Logs unexpected errors internally without leaking details.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var rej *domain.Rejection
		if errors.As(err, &rej) {
			_ = c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: rej.Message, Reason: string(rej.Reason)})
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	// Connectivity: nothing works until the operator intervenes.
	case errors.Is(err, domain.ErrNotConnected),
		errors.Is(err, domain.ErrWrongNetwork),
		errors.Is(err, domain.ErrNoContract),
		errors.Is(err, domain.ErrNoAccount):
		return http.StatusServiceUnavailable, err.Error()

	// Ledger rejections mapped from revert reasons.
	case errors.Is(err, domain.ErrUnderpaid),
		errors.Is(err, domain.ErrUncertifiedSubject),
		errors.Is(err, domain.ErrStartInPast),
		errors.Is(err, domain.ErrBadDuration),
		errors.Is(err, domain.ErrNotStudent):
		return http.StatusUnprocessableEntity, err.Error()

	case errors.Is(err, domain.ErrSigningDeclined):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrSubmissionFailed):
		return http.StatusBadGateway, err.Error()

	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrNotRegistered):
		return http.StatusNotFound, err.Error()

	case errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrBadRegistration),
		errors.Is(err, domain.ErrBadAmount):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, domain.ErrForbiddenRole):
		return http.StatusForbidden, err.Error()

	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
