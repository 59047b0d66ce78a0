package models

// Expense represents one shared cost inside a group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Name is a short description of the expense (e.g., "Groceries").
	Name string

	// Amount is the full expense amount advanced by the payer.
	Amount float64

	// Category is an optional label like "Food" or "Transport".
	Category string

	// PayerEmail is the member who paid the full amount.
	PayerEmail string

	// Members lists the member emails sharing the cost. The payer may or
	// may not be included.
	Members []string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// PerPersonShare returns the equal share of the expense per member,
// unrounded. Returns 0 when the expense has no members.
func (e *Expense) PerPersonShare() float64 {
	if len(e.Members) == 0 {
		return 0
	}
	return e.Amount / float64(len(e.Members))
}
