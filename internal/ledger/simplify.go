package ledger

import "sort"

// Transfer is one payment instruction in a settlement plan.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type party struct {
	id  string
	amt float64 // always positive
}

// Simplify collapses a net-balance state into a minimal ordered list of
// payments that clears every balance. Greedy extremal matching: repeatedly
// pay the largest outstanding debt to the largest outstanding credit.
//
// For c creditors and d debtors the plan holds at most c + d - 1 transfers.
// Output is deterministic: parties are ordered by magnitude descending with
// member id ascending as the tie-break. An already-settled ledger yields an
// empty plan.
func Simplify(b Balances) []Transfer {
	var creditors, debtors []party
	for member, amount := range b {
		switch {
		case amount > Tolerance:
			creditors = append(creditors, party{member, amount})
		case amount < -Tolerance:
			debtors = append(debtors, party{member, -amount})
		}
	}

	var plan []Transfer
	for len(creditors) > 0 && len(debtors) > 0 {
		byMagnitude(creditors)
		byMagnitude(debtors)
		creditor, debtor := &creditors[0], &debtors[0]

		t := creditor.amt
		if debtor.amt < t {
			t = debtor.amt
		}
		plan = append(plan, Transfer{
			From:   debtor.id,
			To:     creditor.id,
			Amount: Round2(t),
		})

		creditor.amt -= t
		debtor.amt -= t
		if creditor.amt <= Tolerance {
			creditors = creditors[1:]
		}
		if debtor.amt <= Tolerance {
			debtors = debtors[1:]
		}
	}
	return plan
}

func byMagnitude(parties []party) {
	sort.Slice(parties, func(i, j int) bool {
		if parties[i].amt != parties[j].amt {
			return parties[i].amt > parties[j].amt
		}
		return parties[i].id < parties[j].id
	})
}
