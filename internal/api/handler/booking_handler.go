package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tutorlink/chain-client/internal/core/domain"
	"github.com/tutorlink/chain-client/internal/core/ports"
)

type BookingHandler struct {
	booking ports.BookingService
}

func NewBookingHandler(booking ports.BookingService) *BookingHandler {
	return &BookingHandler{booking: booking}
}

type estimateResponse struct {
	Cost       string    `json:"cost"`
	Payment    string    `json:"payment"`
	HourlyRate string    `json:"hourly_rate"`
	Minutes    int64     `json:"minutes"`
	ComputedAt time.Time `json:"computed_at"`
}

type rejectionResponse struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type draftResponse struct {
	Tutor           string             `json:"tutor"`
	Subject         string             `json:"subject"`
	DurationMinutes int64              `json:"duration_minutes"`
	StartTime       *time.Time         `json:"start_time,omitempty"`
	Estimate        *estimateResponse  `json:"estimate,omitempty"`
	Rejection       *rejectionResponse `json:"rejection,omitempty"`
	TutorSnapshot   *tutorResponse     `json:"tutor_snapshot,omitempty"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func estimateToResponse(est *domain.Estimate) *estimateResponse {
	return &estimateResponse{
		Cost:       domain.FormatUnits(est.Cost),
		Payment:    domain.FormatUnits(est.Payment),
		HourlyRate: domain.FormatUnits(est.HourlyRate),
		Minutes:    est.Minutes,
		ComputedAt: est.ComputedAt,
	}
}

func snapshotToResponse(snap *domain.TutorSnapshot) *tutorResponse {
	return &tutorResponse{
		Address: string(snap.Address),
		Profile: tutorProfileResponse{
			Name:              snap.Profile.Name,
			HourlyRate:        domain.FormatUnits(snap.Profile.HourlyRate),
			Subjects:          snap.Subjects,
			AvgRating:         snap.Profile.AvgRating,
			RatingCount:       snap.Profile.RatingCount,
			CompletedSessions: snap.Profile.CompletedSessions,
			Active:            snap.Profile.Active,
		},
		FetchedAt: snap.FetchedAt,
	}
}

func draftToResponse(state *domain.DraftState) draftResponse {
	resp := draftResponse{
		Tutor:           string(state.Draft.Tutor),
		Subject:         state.Draft.Subject,
		DurationMinutes: state.Draft.DurationMinutes,
		UpdatedAt:       state.UpdatedAt,
	}
	if !state.Draft.StartTime.IsZero() {
		start := state.Draft.StartTime
		resp.StartTime = &start
	}
	if state.Estimate != nil {
		resp.Estimate = estimateToResponse(state.Estimate)
	}
	if state.Rejection != nil {
		resp.Rejection = &rejectionResponse{Reason: string(state.Rejection.Reason), Message: state.Rejection.Message}
	}
	if state.Snapshot != nil {
		resp.TutorSnapshot = snapshotToResponse(state.Snapshot)
	}
	return resp
}

// GetDraft serves the current draft with whatever derived values the last
// debounced recomputation produced.
func (h *BookingHandler) GetDraft(c echo.Context) error {
	return c.JSON(http.StatusOK, draftToResponse(h.booking.Draft()))
}

type draftUpdateRequest struct {
	Tutor           *string    `json:"tutor"`
	Subject         *string    `json:"subject"`
	DurationMinutes *int64     `json:"duration_minutes"`
	StartTime       *time.Time `json:"start_time"`
}

// UpdateDraft applies a partial edit. Derived values are cleared
// immediately and recomputed after the debounce window; the response shows
// the draft as it stands, without waiting for the recomputation.
func (h *BookingHandler) UpdateDraft(c echo.Context) error {
	var req draftUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	update := ports.DraftUpdate{
		Subject:         req.Subject,
		DurationMinutes: req.DurationMinutes,
		StartTime:       req.StartTime,
	}
	if req.Tutor != nil {
		tutor := domain.Address(*req.Tutor)
		update.Tutor = &tutor
	}

	state := h.booking.UpdateDraft(c.Request().Context(), update)
	return c.JSON(http.StatusOK, draftToResponse(state))
}

type estimateRequest struct {
	Tutor           string `json:"tutor" validate:"required"`
	DurationMinutes int64  `json:"duration_minutes" validate:"required"`
}

type estimateEnvelope struct {
	Estimate *estimateResponse `json:"estimate"`
	Tutor    *tutorResponse    `json:"tutor,omitempty"`
}

// Estimate computes a stateless cost estimate without touching the draft.
func (h *BookingHandler) Estimate(c echo.Context) error {
	var req estimateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	est, snap, err := h.booking.Estimate(c.Request().Context(), ports.EstimateInput{
		Tutor:           domain.Address(req.Tutor),
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return err
	}

	resp := estimateEnvelope{Estimate: estimateToResponse(est)}
	if snap != nil {
		resp.Tutor = snapshotToResponse(snap)
	}
	return c.JSON(http.StatusOK, resp)
}

// Submit validates every booking precondition and, only if all pass,
// submits the paid booking. A 201 means the transaction was mined and the
// draft reset.
func (h *BookingHandler) Submit(c echo.Context) error {
	if err := h.booking.Submit(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]string{"status": "booked"})
}
