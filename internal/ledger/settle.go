package ledger

// ApplySettlement returns a new balance map reflecting a payment of amount
// from one member to another. The payer's balance moves up, the payee's
// down; overpaying is allowed and simply flips the sign of the balance
// (the payer has advanced money to the group).
//
// Both sides move by the same amount, so the zero-sum invariant holds by
// construction. The two updated entries are still re-rounded to two
// decimals to keep binary drift from accumulating.
//
// The input map is not modified.
func ApplySettlement(b Balances, from, to string, amount float64) (Balances, error) {
	if !validAmount(amount) {
		return nil, ErrInvalidAmount
	}
	if from == to {
		return nil, ErrSameParty
	}
	if _, ok := b[from]; !ok {
		return nil, ErrUnknownMember
	}
	if _, ok := b[to]; !ok {
		return nil, ErrUnknownMember
	}

	out := b.Clone()
	out[from] = Round2(out[from] + amount)
	out[to] = Round2(out[to] - amount)
	return out, nil
}
