package domain

// SessionStatus is the lifecycle state of a tutoring session. The numeric
// values match the ledger contract's status enum and must not be reordered.
type SessionStatus uint8

const (
	StatusPending SessionStatus = iota
	StatusConfirmed
	StatusInProgress
	StatusCompleted
	StatusCancelled
	StatusDisputed
)

func (s SessionStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirmed:
		return "confirmed"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusDisputed:
		return "disputed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are expected.
func (s SessionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusDisputed
}

// Session is the client's read-only mirror of a ledger session record.
// The ledger assigns ids monotonically starting at 1 and owns all status
// transitions; the client never mutates a Session, it only re-fetches.
type Session struct {
	ID              uint64        `json:"id"`
	Student         Address       `json:"student"`
	Tutor           Address       `json:"tutor"`
	Subject         string        `json:"subject"`
	DurationMinutes int64         `json:"duration_minutes"`
	Status          SessionStatus `json:"-"`
}

// SessionAction names a state-changing operation the operator may attempt.
type SessionAction string

const (
	ActionConfirm  SessionAction = "confirm"
	ActionStart    SessionAction = "start"
	ActionComplete SessionAction = "complete"
	ActionCancel   SessionAction = "cancel"
)

// AvailableActions returns the actions the given role is offered for this
// session. This is UI affordance only: the ledger is the authority on which
// transitions are legal, and an action listed here can still be rejected
// on submission.
func (s *Session) AvailableActions(role Role) []SessionAction {
	var actions []SessionAction
	if s.Status == StatusPending && role == RoleTutor {
		actions = append(actions, ActionConfirm)
	}
	if s.Status == StatusConfirmed {
		actions = append(actions, ActionStart)
	}
	if s.Status == StatusInProgress {
		actions = append(actions, ActionComplete)
	}
	if s.Status == StatusPending || s.Status == StatusConfirmed {
		actions = append(actions, ActionCancel)
	}
	return actions
}
