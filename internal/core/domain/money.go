package domain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Currency amounts travel as unsigned fixed-point integers with 18 decimal
// digits, the ledger's native precision. These helpers convert between that
// representation and the whole-unit decimal strings operators type and read.

const currencyDecimals = 18

var unitScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(currencyDecimals), nil)

var ErrBadAmount = errors.New("malformed currency amount")

// ParseUnits converts a decimal string such as "0.015" into base units.
// At most 18 fractional digits are accepted; negative amounts are refused.
func ParseUnits(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("%w: %q", ErrBadAmount, s)
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > currencyDecimals {
		return nil, fmt.Errorf("%w: %q has more than %d decimals", ErrBadAmount, s, currencyDecimals)
	}

	w, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadAmount, s)
	}
	w.Mul(w, unitScale)

	if frac != "" {
		// Right-pad the fraction to 18 digits: "015" → "015000000000000000".
		f, ok := new(big.Int).SetString(frac+strings.Repeat("0", currencyDecimals-len(frac)), 10)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrBadAmount, s)
		}
		w.Add(w, f)
	}
	return w, nil
}

// FormatUnits renders base units as a whole-unit decimal string with
// trailing zeros trimmed: 15000000000000000 → "0.015".
func FormatUnits(v *big.Int) string {
	if v == nil {
		return "0"
	}
	q, r := new(big.Int).QuoRem(v, unitScale, new(big.Int))
	if r.Sign() == 0 {
		return q.String()
	}
	frac := strings.TrimRight(fmt.Sprintf("%018s", r.String()), "0")
	return q.String() + "." + frac
}
