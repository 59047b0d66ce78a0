package models

// Settlement represents a recorded payment between two group members.
// Settlements are append-only: once created they are never mutated. They
// serve as an audit trail; the group's balance map is the source of truth.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	// Callers may supply their own ID to make the append idempotent.
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromEmail is the member who paid (debtor settling up).
	FromEmail string

	// ToEmail is the member who received payment (creditor being paid).
	ToEmail string

	// Amount is the payment amount.
	Amount float64

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64

	// Note is an optional description.
	Note string
}
