package ledger

// ApplyExpense returns a new balance map reflecting one expense: the payer
// advanced amount, and every member of the participant set owes an equal
// share of it (the payer included, if present in the set).
//
// The equal share is rounded half-up to two decimals, so share × n may not
// equal amount exactly. The payer absorbs that residual: after every call
// the sum of the returned balances is zero, not merely within tolerance.
//
// The input map is not modified.
func ApplyExpense(b Balances, amount float64, payer string, participants []string) (Balances, error) {
	return applyEffect(b, amount, payer, participants, +1)
}

// ReverseExpense is the exact algebraic inverse of ApplyExpense with the
// same arguments: it restores the balance map that existed before the
// expense was applied. Used to back out an expense on edit or delete.
func ReverseExpense(b Balances, amount float64, payer string, participants []string) (Balances, error) {
	return applyEffect(b, amount, payer, participants, -1)
}

func applyEffect(b Balances, amount float64, payer string, participants []string, sign float64) (Balances, error) {
	if !validAmount(amount) {
		return nil, ErrInvalidAmount
	}
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	if _, ok := b[payer]; !ok {
		return nil, ErrUnknownMember
	}
	for _, member := range participants {
		if _, ok := b[member]; !ok {
			return nil, ErrUnknownMember
		}
	}

	out := b.Clone()
	out[payer] += sign * amount

	share := Round2(amount / float64(len(participants)))
	for _, member := range participants {
		// Re-round after the subtraction: both operands are two-decimal
		// values, so snapping keeps binary noise from creeping in.
		out[member] = Round2(out[member] - sign*share)
	}

	// The payer absorbs the rounding residual so the ledger stays zero-sum.
	out[payer] -= out.Sum()
	out[payer] = Round2(out[payer])

	return out, nil
}
