package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Prober checks connectivity to the ledger endpoint.
type Prober interface {
	Probe(ctx context.Context) error
}

type HealthHandler struct {
	prober Prober
}

func NewHealthHandler(prober Prober) *HealthHandler {
	return &HealthHandler{prober: prober}
}

// Live reports process liveness. It never touches the network.
func (h *HealthHandler) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports whether the ledger is reachable, the active chain is the
// required network, and contract code exists at the configured address.
func (h *HealthHandler) Ready(c echo.Context) error {
	if err := h.prober.Probe(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
