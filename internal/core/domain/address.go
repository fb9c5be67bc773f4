package domain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Address is a hex-encoded account address as reported by the ledger or
// typed by the operator. Casing is preserved as received; all comparisons
// are case-insensitive because checksummed and lowercased spellings of the
// same address must match.
type Address string

// Valid reports whether the address is syntactically well-formed
// (0x prefix plus 40 hex digits).
func (a Address) Valid() bool {
	return common.IsHexAddress(string(a))
}

// Equal compares two addresses ignoring case.
func (a Address) Equal(b Address) bool {
	return strings.EqualFold(string(a), string(b))
}

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool {
	return a == ""
}

// Common converts the address for use with the go-ethereum APIs.
// Only meaningful when Valid() is true.
func (a Address) Common() common.Address {
	return common.HexToAddress(string(a))
}

// AddressFromCommon converts a go-ethereum address into a domain Address.
func AddressFromCommon(a common.Address) Address {
	return Address(a.Hex())
}
