package domain

import (
	"fmt"
	"math/big"
	"time"
)

// Session duration bounds enforced by the ledger contract, in minutes.
const (
	MinSessionMinutes = 30
	MaxSessionMinutes = 480
)

// MinStartLead is how far in the future a booking's start time must lie,
// exclusive: start > now + MinStartLead.
const MinStartLead = 5 * time.Minute

// RejectReason categorises why a draft or estimate was refused locally,
// before any paid submission.
type RejectReason string

const (
	RejectInvalidAddress      RejectReason = "invalid_address"
	RejectEmptySubject        RejectReason = "empty_subject"
	RejectMissingStartTime    RejectReason = "missing_start_time"
	RejectBadDuration         RejectReason = "bad_duration"
	RejectStartTooSoon        RejectReason = "start_too_soon"
	RejectNoEstimate          RejectReason = "no_estimate"
	RejectTutorNotRegistered  RejectReason = "tutor_not_registered"
	RejectTutorInactive       RejectReason = "tutor_inactive"
	RejectUncertifiedSubject  RejectReason = "uncertified_subject"
	RejectInsufficientBalance RejectReason = "insufficient_balance"
)

// Rejection is a typed refusal carrying a category and a human-readable
// message. It is deliberately a distinct type from Estimate so a caller
// can never mistake a refusal for a cost.
type Rejection struct {
	Reason  RejectReason `json:"reason"`
	Message string       `json:"message"`
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Reason, r.Message)
}

// Reject builds a Rejection.
func Reject(reason RejectReason, format string, args ...any) *Rejection {
	return &Rejection{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Estimate is a successfully computed session cost. Cost is the exact
// amount the ledger will charge; Payment adds the client-side 5% margin
// attached to the submission.
type Estimate struct {
	Cost       *big.Int  `json:"cost"`
	Payment    *big.Int  `json:"payment"`
	HourlyRate *big.Int  `json:"hourly_rate"`
	Minutes    int64     `json:"minutes"`
	ComputedAt time.Time `json:"computed_at"`
}

// TutorSnapshot is the tutor state fetched while estimating a draft. It is
// advisory: every field is re-checked against the ledger at submission
// time because the snapshot may go stale.
type TutorSnapshot struct {
	Address   Address      `json:"address"`
	Profile   TutorProfile `json:"profile"`
	Subjects  []string     `json:"subjects"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// BookingDraft is an in-progress, not-yet-submitted booking. It has no
// existence on the ledger until submission succeeds.
type BookingDraft struct {
	Tutor           Address   `json:"tutor"`
	Subject         string    `json:"subject"`
	DurationMinutes int64     `json:"duration_minutes"`
	StartTime       time.Time `json:"start_time"`
}

// DraftState is the draft plus its derived, recomputed-on-change values.
// At most one of Estimate and Rejection is set.
type DraftState struct {
	Draft     BookingDraft   `json:"draft"`
	Estimate  *Estimate      `json:"estimate,omitempty"`
	Rejection *Rejection     `json:"rejection,omitempty"`
	Snapshot  *TutorSnapshot `json:"tutor,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}
