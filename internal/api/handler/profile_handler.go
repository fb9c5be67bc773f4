package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tutorlink/chain-client/internal/core/domain"
	"github.com/tutorlink/chain-client/internal/core/ports"
)

type ProfileHandler struct {
	views        ViewSource
	registration ports.RegistrationService
}

func NewProfileHandler(views ViewSource, registration ports.RegistrationService) *ProfileHandler {
	return &ProfileHandler{views: views, registration: registration}
}

type tutorProfileResponse struct {
	Name              string   `json:"name"`
	HourlyRate        string   `json:"hourly_rate"`
	Subjects          []string `json:"subjects,omitempty"`
	AvgRating         uint64   `json:"avg_rating"`
	RatingCount       uint64   `json:"rating_count"`
	CompletedSessions uint64   `json:"completed_sessions"`
	Active            bool     `json:"active"`
}

type studentProfileResponse struct {
	Name              string `json:"name"`
	TotalSpent        string `json:"total_spent"`
	SessionsCompleted uint64 `json:"sessions_completed"`
	SessionCount      uint64 `json:"session_count"`
}

type profileResponse struct {
	Address string                  `json:"address"`
	Role    string                  `json:"role"`
	Tutor   *tutorProfileResponse   `json:"tutor,omitempty"`
	Student *studentProfileResponse `json:"student,omitempty"`
}

func profileFromIdentity(identity *domain.Identity) profileResponse {
	resp := profileResponse{
		Address: string(identity.Address),
		Role:    string(identity.Role),
	}
	if identity.Tutor != nil {
		resp.Tutor = &tutorProfileResponse{
			Name:              identity.Tutor.Name,
			HourlyRate:        domain.FormatUnits(identity.Tutor.HourlyRate),
			AvgRating:         identity.Tutor.AvgRating,
			RatingCount:       identity.Tutor.RatingCount,
			CompletedSessions: identity.Tutor.CompletedSessions,
			Active:            identity.Tutor.Active,
		}
	}
	if identity.Student != nil {
		resp.Student = &studentProfileResponse{
			Name:              identity.Student.Name,
			TotalSpent:        domain.FormatUnits(identity.Student.TotalSpent),
			SessionsCompleted: identity.Student.SessionsCompleted,
			SessionCount:      identity.Student.SessionCount,
		}
	}
	return resp
}

// Get serves the resolved identity of the active account from the
// reconciled view.
func (h *ProfileHandler) Get(c echo.Context) error {
	view := h.views.View()

	identity := view.Identity
	if identity == nil {
		identity = domain.Unregistered(view.Account)
	}
	return c.JSON(http.StatusOK, profileFromIdentity(identity))
}

type registerTutorRequest struct {
	Name       string   `json:"name" validate:"required"`
	Subjects   []string `json:"subjects" validate:"required,min=1"`
	HourlyRate string   `json:"hourly_rate" validate:"required"`
}

// RegisterTutor submits a tutor registration for the active account.
func (h *ProfileHandler) RegisterTutor(c echo.Context) error {
	var req registerTutorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rate, err := domain.ParseUnits(req.HourlyRate)
	if err != nil {
		return err
	}

	if err := h.registration.RegisterTutor(c.Request().Context(), req.Name, req.Subjects, rate); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]string{"status": "registered", "role": string(domain.RoleTutor)})
}

type registerStudentRequest struct {
	Name string `json:"name" validate:"required"`
}

// RegisterStudent submits a student registration for the active account.
func (h *ProfileHandler) RegisterStudent(c echo.Context) error {
	var req registerStudentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.registration.RegisterStudent(c.Request().Context(), req.Name); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]string{"status": "registered", "role": string(domain.RoleStudent)})
}
