package models

// Supported group currencies.
const (
	CurrencyINR = "INR"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
)

// ValidCurrency reports whether code is one of the supported currencies.
func ValidCurrency(code string) bool {
	switch code {
	case CurrencyINR, CurrencyUSD, CurrencyEUR:
		return true
	}
	return false
}

// Group represents a set of members who share expenses.
//
// Balances is the group's ledger: a signed amount per member email.
// Positive means the group owes that member, negative means the member owes
// the group. The sum over all members is zero whenever the group is at rest.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates").
	Name string

	// Description is an optional free-form note.
	Description string

	// Currency is the group's currency code (INR, USD or EUR).
	Currency string

	// Category is an optional label like "Trip" or "Home".
	Category string

	// OwnerEmail is the member who created the group.
	OwnerEmail string

	// Members lists the member emails, owner included.
	Members []string

	// Total is the accumulated sum of all recorded expense amounts.
	// Informational only; settlement correctness rests on Balances.
	Total float64

	// Balances maps member email to that member's net balance.
	Balances map[string]float64

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}
