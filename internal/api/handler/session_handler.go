package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tutorlink/chain-client/internal/core/domain"
	"github.com/tutorlink/chain-client/internal/core/ports"
)

type SessionHandler struct {
	views     ViewSource
	commands  ports.SessionCommands
	refresher Refresher
}

func NewSessionHandler(views ViewSource, commands ports.SessionCommands, refresher Refresher) *SessionHandler {
	return &SessionHandler{views: views, commands: commands, refresher: refresher}
}

type sessionResponse struct {
	ID              uint64   `json:"id"`
	Student         string   `json:"student"`
	Tutor           string   `json:"tutor"`
	Subject         string   `json:"subject"`
	DurationMinutes int64    `json:"duration_minutes"`
	Status          string   `json:"status"`
	Actions         []string `json:"actions"`
}

type sessionListResponse struct {
	Sessions      []sessionResponse `json:"sessions"`
	FailedFetches int               `json:"failed_fetches,omitempty"`
	BuiltAt       *time.Time        `json:"built_at,omitempty"`
}

func sessionToResponse(s domain.Session, role domain.Role) sessionResponse {
	available := s.AvailableActions(role)
	actions := make([]string, 0, len(available))
	for _, a := range available {
		actions = append(actions, string(a))
	}
	return sessionResponse{
		ID:              s.ID,
		Student:         string(s.Student),
		Tutor:           string(s.Tutor),
		Subject:         s.Subject,
		DurationMinutes: s.DurationMinutes,
		Status:          s.Status.String(),
		Actions:         actions,
	}
}

// List serves the cached session directory, each session decorated with
// the actions the current role is offered.
func (h *SessionHandler) List(c echo.Context) error {
	view := h.views.View()

	role := domain.RoleUnregistered
	if view.Identity != nil {
		role = view.Identity.Role
	}

	resp := sessionListResponse{Sessions: []sessionResponse{}}
	if view.Directory != nil {
		resp.FailedFetches = view.Directory.FailedFetches
		builtAt := view.Directory.BuiltAt
		resp.BuiltAt = &builtAt
		for _, s := range view.Directory.Sessions {
			resp.Sessions = append(resp.Sessions, sessionToResponse(s, role))
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh forces a full view rebuild and returns the fresh session list.
func (h *SessionHandler) Refresh(c echo.Context) error {
	if err := h.refresher.Refresh(c.Request().Context()); err != nil {
		return err
	}
	return h.List(c)
}

func sessionID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}
	return id, nil
}

// Confirm accepts a pending session (tutor side).
func (h *SessionHandler) Confirm(c echo.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	if err := h.commands.Confirm(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "confirmed"})
}

// Start moves a confirmed session into progress.
func (h *SessionHandler) Start(c echo.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	if err := h.commands.Start(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "in_progress"})
}

type completeRequest struct {
	Rating   uint8  `json:"rating" validate:"required,gte=1,lte=5"`
	Feedback string `json:"feedback"`
}

// Complete finishes an in-progress session with a rating and optional
// feedback.
func (h *SessionHandler) Complete(c echo.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}

	var req completeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.commands.Complete(c.Request().Context(), id, req.Rating, req.Feedback); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "completed"})
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// Cancel aborts a pending or confirmed session.
func (h *SessionHandler) Cancel(c echo.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}

	var req cancelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.commands.Cancel(c.Request().Context(), id, req.Reason); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "cancelled"})
}
