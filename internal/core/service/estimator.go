package service

import "math/big"

// Cost arithmetic mirrors the ledger contract bit for bit: multiply before
// divide, truncating division. Any other evaluation order can disagree with
// the contract's own accounting by one base unit.

// EstimateCost returns floor(hourlyRate * minutes / 60) in base units.
func EstimateCost(hourlyRate *big.Int, minutes int64) *big.Int {
	cost := new(big.Int).Mul(hourlyRate, big.NewInt(minutes))
	return cost.Quo(cost, big.NewInt(60))
}

// PaymentWithMargin returns floor(cost * 105 / 100): the exact cost plus
// the 5% client-side margin attached to a booking submission to absorb
// estimation drift between draft time and submission time. The ledger only
// enforces a minimum; the margin is deliberate over-payment, refunded or
// kept per contract policy.
func PaymentWithMargin(cost *big.Int) *big.Int {
	p := new(big.Int).Mul(cost, big.NewInt(105))
	return p.Quo(p, big.NewInt(100))
}
