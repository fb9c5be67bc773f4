package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tutorlink/chain-client/internal/core/domain"
	"github.com/tutorlink/chain-client/internal/core/ports"
)

type TutorHandler struct {
	reader ports.LedgerReader
}

func NewTutorHandler(reader ports.LedgerReader) *TutorHandler {
	return &TutorHandler{reader: reader}
}

type tutorResponse struct {
	Address   string               `json:"address"`
	Profile   tutorProfileResponse `json:"profile"`
	FetchedAt time.Time            `json:"fetched_at"`
}

// Get serves a tutor's ledger record for booking discovery. Unknown
// addresses return 404; the record is advisory and re-checked at
// submission time.
func (h *TutorHandler) Get(c echo.Context) error {
	addr := domain.Address(c.Param("address"))
	if !addr.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid tutor address")
	}

	ctx := c.Request().Context()
	profile, err := h.reader.TutorInfo(ctx, addr)
	if err != nil {
		if errors.Is(err, domain.ErrNotRegistered) {
			return echo.NewHTTPError(http.StatusNotFound, "no tutor registered at that address")
		}
		return err
	}

	subjects, err := h.reader.TutorSubjects(ctx, addr)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tutorResponse{
		Address: string(addr),
		Profile: tutorProfileResponse{
			Name:              profile.Name,
			HourlyRate:        domain.FormatUnits(profile.HourlyRate),
			Subjects:          subjects,
			AvgRating:         profile.AvgRating,
			RatingCount:       profile.RatingCount,
			CompletedSessions: profile.CompletedSessions,
			Active:            profile.Active,
		},
		FetchedAt: time.Now().UTC(),
	})
}
