package ports

import (
	"context"
	"math/big"
	"time"

	"github.com/tutorlink/chain-client/internal/core/domain"
)

// Directory is the locally cached, rebuildable list of sessions the
// current identity participates in. FailedFetches counts per-session
// fetches that were dropped; a non-zero value means the list may
// under-report and callers should surface a warning rather than treat the
// result as complete.
type Directory struct {
	Sessions      []domain.Session
	FailedFetches int
	BuiltAt       time.Time
}

// DirectoryBuilder derives the authoritative session set for an identity.
// Rebuild is idempotent, read-only against the ledger, and its result
// fully replaces any previously built directory.
type DirectoryBuilder interface {
	Rebuild(ctx context.Context, addr domain.Address, role domain.Role) (*Directory, error)
}

// IdentityResolver classifies an address against the ledger: tutor checked
// first, then student, else unregistered. The answer is never cached as
// authoritative client state.
type IdentityResolver interface {
	Resolve(ctx context.Context, addr domain.Address) (*domain.Identity, error)
}

// RegistrationService submits role registrations for the active account.
type RegistrationService interface {
	RegisterTutor(ctx context.Context, name string, subjects []string, hourlyRate *big.Int) error
	RegisterStudent(ctx context.Context, name string) error
}

// EstimateInput carries the fields needed for a stateless cost estimate.
type EstimateInput struct {
	Tutor           domain.Address
	DurationMinutes int64
}

// DraftUpdate carries a partial draft edit. Nil fields are left unchanged.
type DraftUpdate struct {
	Tutor           *domain.Address
	Subject         *string
	DurationMinutes *int64
	StartTime       *time.Time
}

// BookingService owns the in-memory booking draft, its debounced estimate,
// and the validated, margin-padded submission.
type BookingService interface {
	// Estimate computes the session cost for the given input without
	// touching the draft. A *domain.Rejection error means the input
	// failed a precondition; no other error carries a cost.
	Estimate(ctx context.Context, in EstimateInput) (*domain.Estimate, *domain.TutorSnapshot, error)
	// UpdateDraft applies a partial edit and schedules a debounced
	// estimate recomputation.
	UpdateDraft(ctx context.Context, in DraftUpdate) *domain.DraftState
	// Draft returns the current draft state.
	Draft() *domain.DraftState
	// Submit validates every booking precondition in order and, only if
	// all pass, submits the paid booking and resets the draft.
	Submit(ctx context.Context) error
}

// SessionCommands executes the four session state transitions. Transition
// legality is enforced by the ledger, not locally; on success the session
// directory is rebuilt for the current identity.
type SessionCommands interface {
	Confirm(ctx context.Context, id uint64) error
	Start(ctx context.Context, id uint64) error
	Complete(ctx context.Context, id uint64, rating uint8, feedback string) error
	Cancel(ctx context.Context, id uint64, reason string) error
}

// AuthService authenticates the API operator.
type AuthService interface {
	// Login exchanges the operator password for a bearer token.
	Login(ctx context.Context, password string) (string, error)
}
