package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prasad123-hub/bill-splitter/internal/ledger"
	"github.com/prasad123-hub/bill-splitter/internal/metrics"
	"github.com/prasad123-hub/bill-splitter/internal/models"
	"github.com/prasad123-hub/bill-splitter/internal/storage"
)

const recentExpenseLimit = 5

// ExpenseService manages expenses and their effect on group ledgers.
// Every mutation runs the full read-modify-write cycle inside the group's
// exclusive section so concurrent requests cannot clobber each other's
// balance updates.
type ExpenseService struct {
	store storage.Store
	locks *GroupLocker
}

// NewExpenseService creates an ExpenseService.
func NewExpenseService(store storage.Store, locks *GroupLocker) *ExpenseService {
	return &ExpenseService{store: store, locks: locks}
}

// AddExpense records a new expense and applies its split to the group
// ledger. Returns the updated balance map.
func (s *ExpenseService) AddExpense(ctx context.Context, expense *models.Expense) (ledger.Balances, error) {
	release, err := s.locks.Acquire(ctx, expense.GroupID)
	if err != nil {
		return nil, err
	}
	defer release()

	group, err := s.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		return nil, err
	}

	balances, err := ledger.ApplyExpense(group.Balances, expense.Amount, expense.PayerEmail, expense.Members)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to record expense: %w", err)
	}

	total := ledger.Round2(group.Total + expense.Amount)
	if err := s.store.PutGroupLedger(ctx, expense.GroupID, balances, total); err != nil {
		// Back out the expense record so the log matches the ledger.
		if delErr := s.store.DeleteExpense(ctx, expense.ID); delErr != nil {
			slog.Error("Failed to roll back expense after ledger write failure",
				"expense_id", expense.ID, "group_id", expense.GroupID, "error", delErr)
		}
		return nil, fmt.Errorf("failed to update ledger: %w", err)
	}

	metrics.ExpensesRecorded.WithLabelValues("add").Inc()
	slog.Info("Expense added",
		"group_id", expense.GroupID,
		"expense_id", expense.ID,
		"amount", expense.Amount,
		"payer", expense.PayerEmail,
	)
	return balances, nil
}

// EditExpense replaces an expense: the old effect is reversed and the new
// one applied in a single exclusive section, so the ledger never holds a
// half-edited state. The expense's group cannot change.
func (s *ExpenseService) EditExpense(ctx context.Context, expense *models.Expense) (ledger.Balances, error) {
	// The group ID comes from the stored expense, not the request.
	old, err := s.store.GetExpense(ctx, expense.ID)
	if err != nil {
		return nil, err
	}
	expense.GroupID = old.GroupID
	expense.CreatedAt = old.CreatedAt

	release, err := s.locks.Acquire(ctx, old.GroupID)
	if err != nil {
		return nil, err
	}
	defer release()

	// Re-read inside the section; a concurrent edit may have won the race.
	old, err = s.store.GetExpense(ctx, expense.ID)
	if err != nil {
		return nil, err
	}
	group, err := s.store.GetGroup(ctx, old.GroupID)
	if err != nil {
		return nil, err
	}

	reversed, err := ledger.ReverseExpense(group.Balances, old.Amount, old.PayerEmail, old.Members)
	if err != nil {
		return nil, err
	}
	balances, err := ledger.ApplyExpense(reversed, expense.Amount, expense.PayerEmail, expense.Members)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	total := ledger.Round2(group.Total - old.Amount + expense.Amount)
	if err := s.store.PutGroupLedger(ctx, old.GroupID, balances, total); err != nil {
		// Put back the old record so it matches the unchanged ledger.
		if restoreErr := s.store.UpdateExpense(ctx, old); restoreErr != nil {
			slog.Error("Failed to restore expense after ledger write failure",
				"expense_id", expense.ID, "group_id", old.GroupID, "error", restoreErr)
		}
		return nil, fmt.Errorf("failed to update ledger: %w", err)
	}

	metrics.ExpensesRecorded.WithLabelValues("edit").Inc()
	slog.Info("Expense edited", "group_id", old.GroupID, "expense_id", expense.ID)
	return balances, nil
}

// DeleteExpense removes an expense and reverses its effect on the ledger.
func (s *ExpenseService) DeleteExpense(ctx context.Context, expenseID string) (ledger.Balances, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	release, err := s.locks.Acquire(ctx, expense.GroupID)
	if err != nil {
		return nil, err
	}
	defer release()

	expense, err = s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	group, err := s.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		return nil, err
	}

	balances, err := ledger.ReverseExpense(group.Balances, expense.Amount, expense.PayerEmail, expense.Members)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return nil, err
	}

	total := ledger.Round2(group.Total - expense.Amount)
	if err := s.store.PutGroupLedger(ctx, expense.GroupID, balances, total); err != nil {
		return nil, fmt.Errorf("failed to update ledger: %w", err)
	}

	metrics.ExpensesRecorded.WithLabelValues("delete").Inc()
	slog.Info("Expense deleted", "group_id", expense.GroupID, "expense_id", expenseID)
	return balances, nil
}

// GetExpense retrieves one expense.
func (s *ExpenseService) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	return s.store.GetExpense(ctx, expenseID)
}

// GroupExpenses lists a group's expenses, newest first.
func (s *ExpenseService) GroupExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	// Verify the group exists so an unknown id maps to a not-found error
	// instead of an empty list.
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListGroupExpenses(ctx, groupID)
}

// UserExpenses lists every expense the user participates in, newest first.
func (s *ExpenseService) UserExpenses(ctx context.Context, email string) ([]*models.Expense, error) {
	return s.store.ListUserExpenses(ctx, email)
}

// RecentUserExpenses lists the user's most recent expenses across groups.
func (s *ExpenseService) RecentUserExpenses(ctx context.Context, email string) ([]*models.Expense, error) {
	return s.store.ListRecentUserExpenses(ctx, email, recentExpenseLimit)
}

// GroupCategorySummary returns the group's spend per category.
func (s *ExpenseService) GroupCategorySummary(ctx context.Context, groupID string) ([]storage.CategoryTotal, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.GroupCategorySummary(ctx, groupID)
}

// GroupMonthlySummary returns the group's spend per calendar month.
func (s *ExpenseService) GroupMonthlySummary(ctx context.Context, groupID string) ([]storage.MonthlyTotal, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.GroupMonthlySummary(ctx, groupID)
}

// GroupDailySummary returns the group's spend per calendar day.
func (s *ExpenseService) GroupDailySummary(ctx context.Context, groupID string) ([]storage.DailyTotal, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.GroupDailySummary(ctx, groupID)
}

// UserCategorySummary returns the user's share of spend per category.
func (s *ExpenseService) UserCategorySummary(ctx context.Context, email string) ([]storage.CategoryTotal, error) {
	return s.store.UserCategorySummary(ctx, email)
}

// UserMonthlySummary returns the user's share of spend per calendar month.
func (s *ExpenseService) UserMonthlySummary(ctx context.Context, email string) ([]storage.MonthlyTotal, error) {
	return s.store.UserMonthlySummary(ctx, email)
}

// UserDailySummary returns the user's share of spend per calendar day.
func (s *ExpenseService) UserDailySummary(ctx context.Context, email string) ([]storage.DailyTotal, error) {
	return s.store.UserDailySummary(ctx, email)
}
