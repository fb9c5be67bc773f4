package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tutorlink/chain-client/internal/core/domain"
	"github.com/tutorlink/chain-client/internal/core/ports"
)

type WalletHandler struct {
	views  ViewSource
	wallet ports.WalletProvider
}

func NewWalletHandler(views ViewSource, wallet ports.WalletProvider) *WalletHandler {
	return &WalletHandler{views: views, wallet: wallet}
}

type walletResponse struct {
	Connected    bool   `json:"connected"`
	WrongNetwork bool   `json:"wrong_network"`
	ChainID      string `json:"chain_id,omitempty"`
	Account      string `json:"account,omitempty"`
	Balance      string `json:"balance,omitempty"`
	Role         string `json:"role,omitempty"`
}

// Status reports the reconciled wallet state plus a live balance read.
func (h *WalletHandler) Status(c echo.Context) error {
	view := h.views.View()

	resp := walletResponse{
		Connected:    view.Connected,
		WrongNetwork: view.WrongNetwork,
		Account:      string(view.Account),
	}
	if view.ChainID != nil {
		resp.ChainID = view.ChainID.String()
	}
	if view.Identity != nil {
		resp.Role = string(view.Identity.Role)
	}

	if view.Connected && !view.WrongNetwork && !view.Account.IsZero() {
		balance, err := h.wallet.Balance(c.Request().Context(), view.Account)
		if err == nil {
			resp.Balance = domain.FormatUnits(balance)
		}
	}

	return c.JSON(http.StatusOK, resp)
}
