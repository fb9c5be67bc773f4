package ports

import (
	"context"
	"math/big"

	"github.com/tutorlink/chain-client/internal/core/domain"
)

// LedgerReader exposes the contract's view functions. Reads are free,
// idempotent, and never mutate ledger state.
type LedgerReader interface {
	// TutorInfo returns the tutor profile for addr, or
	// domain.ErrNotRegistered when the ledger has no tutor record.
	TutorInfo(ctx context.Context, addr domain.Address) (*domain.TutorProfile, error)
	// StudentInfo returns the student profile for addr, or
	// domain.ErrNotRegistered when the ledger has no student record.
	StudentInfo(ctx context.Context, addr domain.Address) (*domain.StudentProfile, error)
	// SessionInfo returns the session with the given id.
	SessionInfo(ctx context.Context, id uint64) (*domain.Session, error)
	// StudentHistory returns the ids of every session the student has
	// ever booked, in ledger order.
	StudentHistory(ctx context.Context, addr domain.Address) ([]uint64, error)
	// TutorSubjects returns the tutor's certified subject list.
	TutorSubjects(ctx context.Context, addr domain.Address) ([]string, error)
	// SessionCount returns the global session counter. Session ids run
	// from 1 to this value inclusive.
	SessionCount(ctx context.Context) (uint64, error)
}

// LedgerWriter exposes the contract's state-changing functions. Each call
// signs, submits, and awaits inclusion; once included the operation is
// final and has consumed fee budget regardless of logical outcome.
// Implementations map contract revert reasons to domain errors.
type LedgerWriter interface {
	RegisterTutor(ctx context.Context, name string, subjects []string, hourlyRate *big.Int) error
	RegisterStudent(ctx context.Context, name string) error
	// BookSession attaches payment (base units) to the submission.
	BookSession(ctx context.Context, tutor domain.Address, subject string, minutes int64, startUnix int64, payment *big.Int) error
	ConfirmSession(ctx context.Context, id uint64) error
	StartSession(ctx context.Context, id uint64) error
	CompleteSession(ctx context.Context, id uint64, rating uint8, feedback string) error
	CancelSession(ctx context.Context, id uint64, reason string) error
}
