package domain

import "math/big"

// Role classifies an address as seen by the ledger. The client never
// assigns a role on its own; it only reflects the ledger's answer, with
// tutor checked before student.
type Role string

const (
	RoleUnregistered Role = "unregistered"
	RoleTutor        Role = "tutor"
	RoleStudent      Role = "student"
)

// TutorProfile mirrors the ledger's tutor record. HourlyRate is a
// fixed-point amount in base units (18 decimals).
type TutorProfile struct {
	Name              string   `json:"name"`
	HourlyRate        *big.Int `json:"hourly_rate"`
	AvgRating         uint64   `json:"avg_rating"`
	RatingCount       uint64   `json:"rating_count"`
	CompletedSessions uint64   `json:"completed_sessions"`
	Active            bool     `json:"active"`
}

// StudentProfile mirrors the ledger's student record. TotalSpent is a
// fixed-point amount in base units (18 decimals).
type StudentProfile struct {
	Name              string   `json:"name"`
	TotalSpent        *big.Int `json:"total_spent"`
	SessionsCompleted uint64   `json:"sessions_completed"`
	SessionCount      uint64   `json:"session_count"`
}

// Identity is the resolved view of an address: a tagged union over
// unregistered / tutor / student. Exactly one of Tutor and Student is
// non-nil, matching Role.
type Identity struct {
	Address Address         `json:"address"`
	Role    Role            `json:"role"`
	Tutor   *TutorProfile   `json:"tutor,omitempty"`
	Student *StudentProfile `json:"student,omitempty"`
}

// Unregistered builds the identity for an address the ledger knows nothing
// about.
func Unregistered(addr Address) *Identity {
	return &Identity{Address: addr, Role: RoleUnregistered}
}
