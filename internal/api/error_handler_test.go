package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tutorlink/chain-client/internal/core/domain"
)

func render(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return rec.Code, body
}

func TestErrorHandler_Rejection(t *testing.T) {
	code, body := render(t, domain.Reject(domain.RejectStartTooSoon, "start time must be more than 5m0s in the future"))
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
	if body.Reason != string(domain.RejectStartTooSoon) {
		t.Errorf("reason = %q", body.Reason)
	}
	if body.Error == "" {
		t.Error("message must be set")
	}
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrNotConnected, http.StatusServiceUnavailable},
		{domain.ErrWrongNetwork, http.StatusServiceUnavailable},
		{domain.ErrNoContract, http.StatusServiceUnavailable},
		{domain.ErrNoAccount, http.StatusServiceUnavailable},
		{domain.ErrUnderpaid, http.StatusUnprocessableEntity},
		{domain.ErrStartInPast, http.StatusUnprocessableEntity},
		{domain.ErrSigningDeclined, http.StatusForbidden},
		{domain.ErrSubmissionFailed, http.StatusBadGateway},
		{domain.ErrSessionNotFound, http.StatusNotFound},
		{domain.ErrNotRegistered, http.StatusNotFound},
		{domain.ErrInvalidRating, http.StatusBadRequest},
		{domain.ErrBadRegistration, http.StatusBadRequest},
		{domain.ErrBadAmount, http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		if code, _ := render(t, tc.err); code != tc.want {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.want, code)
		}
	}
}

func TestErrorHandler_WrappedErrorStillMaps(t *testing.T) {
	code, _ := render(t, fmt.Errorf("bookSession: %w", domain.ErrUnderpaid))
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for wrapped sentinel, got %d", code)
	}
}

func TestErrorHandler_UnknownErrorIsOpaque500(t *testing.T) {
	code, body := render(t, errors.New("pq: connection reset"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body.Error != "internal server error" {
		t.Errorf("internal details leaked: %q", body.Error)
	}
}

func TestErrorHandler_EchoHTTPErrorPassesThrough(t *testing.T) {
	code, _ := render(t, echo.NewHTTPError(http.StatusNotFound, "not found"))
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}
