// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/prasad123-hub/bill-splitter/internal/ledger"
	"github.com/prasad123-hub/bill-splitter/internal/models"
)

// ErrNotFound is returned when a requested entity does not exist.
// Implementations wrap it with the entity kind and id.
var ErrNotFound = errors.New("not found")

// CategoryTotal is one row of a per-category expense summary.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// MonthlyTotal is one row of a per-month expense summary.
// Month is formatted as "2006-01".
type MonthlyTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// DailyTotal is one row of a per-day expense summary.
// Day is formatted as "2006-01-02".
type DailyTotal struct {
	Day   string  `json:"day"`
	Total float64 `json:"total"`
}

// Store defines the interface for all persistence operations.
// This abstraction allows swapping storage backends without changing the
// service layer.
//
// Writes to a group's ledger (PutGroupLedger) replace the full balance map
// in one transaction; reads (GetGroupLedger) return a consistent
// point-in-time copy. The store does not enforce the zero-sum invariant;
// that is the ledger package's job.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	UpdateUserPassword(ctx context.Context, email, passwordHash string) error
	DeleteUser(ctx context.Context, email string) error
	ListUserEmails(ctx context.Context) ([]string, error)

	// Groups
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroupsByMember(ctx context.Context, email string) ([]*models.Group, error)
	UpdateGroup(ctx context.Context, group *models.Group) error
	DeleteGroup(ctx context.Context, groupID string) error

	// Ledger
	GetGroupLedger(ctx context.Context, groupID string) (ledger.Balances, error)
	PutGroupLedger(ctx context.Context, groupID string, balances ledger.Balances, total float64) error

	// Expenses
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error
	ListGroupExpenses(ctx context.Context, groupID string) ([]*models.Expense, error)
	ListUserExpenses(ctx context.Context, email string) ([]*models.Expense, error)
	ListRecentUserExpenses(ctx context.Context, email string, limit int) ([]*models.Expense, error)
	GroupCategorySummary(ctx context.Context, groupID string) ([]CategoryTotal, error)
	GroupMonthlySummary(ctx context.Context, groupID string) ([]MonthlyTotal, error)
	GroupDailySummary(ctx context.Context, groupID string) ([]DailyTotal, error)
	UserCategorySummary(ctx context.Context, email string) ([]CategoryTotal, error)
	UserMonthlySummary(ctx context.Context, email string) ([]MonthlyTotal, error)
	UserDailySummary(ctx context.Context, email string) ([]DailyTotal, error)

	// Settlements
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	ListGroupSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// Close releases any resources held by the store.
	Close() error
}
