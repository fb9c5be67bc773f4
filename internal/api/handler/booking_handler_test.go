package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tutorlink/chain-client/internal/core/domain"
	"github.com/tutorlink/chain-client/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub booking service
// ---------------------------------------------------------------------------

type stubBooking struct {
	state      domain.DraftState
	estimate   *domain.Estimate
	snapshot   *domain.TutorSnapshot
	err        error
	lastUpdate ports.DraftUpdate
	submitted  bool
}

func (b *stubBooking) Estimate(_ context.Context, _ ports.EstimateInput) (*domain.Estimate, *domain.TutorSnapshot, error) {
	if b.err != nil {
		return nil, nil, b.err
	}
	return b.estimate, b.snapshot, nil
}

func (b *stubBooking) UpdateDraft(_ context.Context, in ports.DraftUpdate) *domain.DraftState {
	b.lastUpdate = in
	if in.Tutor != nil {
		b.state.Draft.Tutor = *in.Tutor
	}
	if in.Subject != nil {
		b.state.Draft.Subject = *in.Subject
	}
	if in.DurationMinutes != nil {
		b.state.Draft.DurationMinutes = *in.DurationMinutes
	}
	if in.StartTime != nil {
		b.state.Draft.StartTime = *in.StartTime
	}
	state := b.state
	return &state
}

func (b *stubBooking) Draft() *domain.DraftState {
	state := b.state
	return &state
}

func (b *stubBooking) Submit(_ context.Context) error {
	if b.err != nil {
		return b.err
	}
	b.submitted = true
	return nil
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestBookingHandler_GetDraft(t *testing.T) {
	booking := &stubBooking{
		state: domain.DraftState{
			Draft: domain.BookingDraft{
				Tutor:           "0x1111111111111111111111111111111111111111",
				Subject:         "math",
				DurationMinutes: 60,
			},
		},
	}
	h := NewBookingHandler(booking)

	c, rec := newTestContext(t, http.MethodGet, "/v1/booking/draft", "")
	if err := h.GetDraft(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp draftResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Subject != "math" || resp.DurationMinutes != 60 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.StartTime != nil {
		t.Error("unset start time must be omitted")
	}
}

func TestBookingHandler_UpdateDraft_PartialEdit(t *testing.T) {
	booking := &stubBooking{}
	h := NewBookingHandler(booking)

	c, rec := newTestContext(t, http.MethodPut, "/v1/booking/draft", `{"subject":"physics","duration_minutes":90}`)
	if err := h.UpdateDraft(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if booking.lastUpdate.Subject == nil || *booking.lastUpdate.Subject != "physics" {
		t.Error("subject edit not forwarded")
	}
	if booking.lastUpdate.DurationMinutes == nil || *booking.lastUpdate.DurationMinutes != 90 {
		t.Error("duration edit not forwarded")
	}
	if booking.lastUpdate.Tutor != nil || booking.lastUpdate.StartTime != nil {
		t.Error("untouched fields must stay nil")
	}
}

func TestBookingHandler_UpdateDraft_RendersRejection(t *testing.T) {
	booking := &stubBooking{
		state: domain.DraftState{
			Rejection: domain.Reject(domain.RejectBadDuration, "duration must be 30-480 minutes"),
		},
	}
	h := NewBookingHandler(booking)

	c, rec := newTestContext(t, http.MethodPut, "/v1/booking/draft", `{"duration_minutes":10}`)
	if err := h.UpdateDraft(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp draftResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Rejection == nil || resp.Rejection.Reason != string(domain.RejectBadDuration) {
		t.Errorf("rejection missing from response: %+v", resp)
	}
}

func TestBookingHandler_Estimate_Success(t *testing.T) {
	cost, _ := domain.ParseUnits("0.015")
	payment, _ := domain.ParseUnits("0.01575")
	rate, _ := domain.ParseUnits("0.02")
	booking := &stubBooking{
		estimate: &domain.Estimate{Cost: cost, Payment: payment, HourlyRate: rate, Minutes: 45, ComputedAt: time.Now()},
	}
	h := NewBookingHandler(booking)

	c, rec := newTestContext(t, http.MethodPost, "/v1/booking/estimate",
		`{"tutor":"0x1111111111111111111111111111111111111111","duration_minutes":45}`)
	if err := h.Estimate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp estimateEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Estimate.Cost != "0.015" || resp.Estimate.Payment != "0.01575" {
		t.Errorf("amounts wrong: %+v", resp.Estimate)
	}
}

func TestBookingHandler_Estimate_MissingFields(t *testing.T) {
	h := NewBookingHandler(&stubBooking{})

	c, rec := newTestContext(t, http.MethodPost, "/v1/booking/estimate", `{}`)
	err := h.Estimate(c)
	if err == nil {
		t.Fatal("expected validation error")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v (rec %d)", err, rec.Code)
	}
}

func TestBookingHandler_Estimate_RejectionPropagates(t *testing.T) {
	booking := &stubBooking{err: domain.Reject(domain.RejectTutorInactive, "tutor is inactive")}
	h := NewBookingHandler(booking)

	c, _ := newTestContext(t, http.MethodPost, "/v1/booking/estimate",
		`{"tutor":"0x1111111111111111111111111111111111111111","duration_minutes":45}`)
	err := h.Estimate(c)

	var rej *domain.Rejection
	if !errors.As(err, &rej) || rej.Reason != domain.RejectTutorInactive {
		t.Fatalf("expected rejection to propagate to the error handler, got %v", err)
	}
}

func TestBookingHandler_Submit(t *testing.T) {
	booking := &stubBooking{}
	h := NewBookingHandler(booking)

	c, rec := newTestContext(t, http.MethodPost, "/v1/booking", "")
	if err := h.Submit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if !booking.submitted {
		t.Error("submission not forwarded")
	}
}
