// Package ledger implements the group split-accounting engine: applying and
// reversing the monetary effect of expenses, recording settlements between
// members, and deriving a minimal payment plan that clears all debts.
//
// A group's ledger is a map from member email to a signed balance. Positive
// means the group owes that member, negative means the member owes the group.
// Every mutation keeps the sum of all balances at zero: amounts are rounded
// half-up to two decimals and the payer absorbs whatever rounding residual
// the even division leaves behind.
package ledger

import (
	"errors"
	"math"
)

// Tolerance below which a balance is treated as settled. One cent.
const Tolerance = 0.01

var (
	// ErrInvalidAmount reports a non-positive or non-finite monetary value.
	ErrInvalidAmount = errors.New("amount must be a positive number")

	// ErrNoParticipants reports an expense with an empty participant set.
	ErrNoParticipants = errors.New("expense needs at least one participant")

	// ErrUnknownMember reports a member id that is not part of the group.
	ErrUnknownMember = errors.New("member is not part of the group")

	// ErrSameParty reports a settlement whose payer and payee are the same.
	ErrSameParty = errors.New("settlement payer and payee must differ")
)

// Balances maps member email to that member's net balance within a group.
type Balances map[string]float64

// Clone returns an independent copy of the balance map.
func (b Balances) Clone() Balances {
	out := make(Balances, len(b))
	for member, amount := range b {
		out[member] = amount
	}
	return out
}

// Sum returns the raw sum of all balances. At rest this is zero up to
// float representation noise.
func (b Balances) Sum() float64 {
	var total float64
	for _, amount := range b {
		total += amount
	}
	return total
}

// Settled reports whether every balance is within Tolerance of zero.
func (b Balances) Settled() bool {
	for _, amount := range b {
		if math.Abs(amount) > Tolerance {
			return false
		}
	}
	return true
}

// Round2 rounds half-up to two decimal places.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

func validAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}
