package domain

import "errors"

// Connectivity errors. These block every other operation and require
// operator intervention; they are never retried automatically.
var (
	ErrNotConnected = errors.New("ledger endpoint not reachable")
	ErrWrongNetwork = errors.New("active chain is not the required network")
	ErrNoContract   = errors.New("no contract code at configured address")
	ErrNoAccount    = errors.New("no signing account available")
)

// Ledger rejection reasons. Each maps one of the contract's terse revert
// strings to a category the operator can act on.
var (
	ErrUnderpaid          = errors.New("payment below session cost")
	ErrUncertifiedSubject = errors.New("tutor not certified for subject")
	ErrStartInPast        = errors.New("session start time already passed")
	ErrBadDuration        = errors.New("session duration out of range")
	ErrNotStudent         = errors.New("caller not registered as student")
)

// Submission errors not attributable to a contract revert reason.
var (
	ErrSigningDeclined  = errors.New("transaction declined by signer")
	ErrSubmissionFailed = errors.New("transaction failed on chain")
)

// Lookup errors.
var (
	ErrNotRegistered   = errors.New("address not registered on ledger")
	ErrSessionNotFound = errors.New("session not found")
)

// Local validation errors outside the draft pipeline.
var (
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrForbiddenRole   = errors.New("operation not available for current role")
	ErrBadRegistration = errors.New("invalid registration input")
)

// ErrInvalidCredentials is returned on a failed operator login.
var ErrInvalidCredentials = errors.New("invalid credentials")
