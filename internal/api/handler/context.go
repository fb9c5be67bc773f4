package handler

import (
	"context"

	"github.com/tutorlink/chain-client/internal/core/service"
)

// ViewSource exposes the reconciler's current snapshot to handlers that
// serve cached state instead of hitting the ledger per request.
type ViewSource interface {
	View() service.View
}

// Refresher triggers a full view rebuild on demand.
type Refresher interface {
	Refresh(ctx context.Context) error
}
