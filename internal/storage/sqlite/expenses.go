package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prasad123-hub/bill-splitter/internal/models"
	"github.com/prasad123-hub/bill-splitter/internal/storage"
)

// CreateExpense persists a new expense and its member assignments.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, name, amount, category, payer_email, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Name, expense.Amount,
		expense.Category, expense.PayerEmail, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertExpenseMembers(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertExpenseMembers(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for _, email := range expense.Members {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_members (expense_id, email) VALUES (?, ?)",
			expense.ID, email,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense member: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense with its member list.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, name, amount, category, payer_email, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.GroupID, &expense.Name, &expense.Amount,
		&expense.Category, &expense.PayerEmail, &expense.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT email FROM expense_members WHERE expense_id = ? ORDER BY email",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan expense member: %w", err)
		}
		expense.Members = append(expense.Members, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense members: %w", err)
	}

	return expense, nil
}

// UpdateExpense replaces an expense's fields and member assignments.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses SET name = ?, amount = ?, category = ?, payer_email = ?
		 WHERE id = ?`,
		expense.Name, expense.Amount, expense.Category, expense.PayerEmail, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if err := requireRow(res, "expense"); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM expense_members WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to clear expense members: %w", err)
	}
	if err := insertExpenseMembers(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense; member assignments cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return requireRow(res, "expense")
}

// ListGroupExpenses returns all expenses of a group, newest first.
func (s *SQLiteStore) ListGroupExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		"SELECT id FROM expenses WHERE group_id = ? ORDER BY created_at DESC", groupID)
}

// ListUserExpenses returns every expense the user participates in, across
// all groups, newest first.
func (s *SQLiteStore) ListUserExpenses(ctx context.Context, email string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		`SELECT e.id FROM expenses e
		 JOIN expense_members m ON m.expense_id = e.id
		 WHERE m.email = ?
		 ORDER BY e.created_at DESC`,
		email)
}

// ListRecentUserExpenses returns the most recent expenses the user
// participates in, across all groups.
func (s *SQLiteStore) ListRecentUserExpenses(ctx context.Context, email string, limit int) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		`SELECT e.id FROM expenses e
		 JOIN expense_members m ON m.expense_id = e.id
		 WHERE m.email = ?
		 ORDER BY e.created_at DESC
		 LIMIT ?`,
		email, limit)
}

func (s *SQLiteStore) listExpenses(ctx context.Context, query string, args ...any) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan expense id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	expenses := make([]*models.Expense, 0, len(ids))
	for _, id := range ids {
		expense, err := s.GetExpense(ctx, id)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, nil
}

// userShare is the requester's share of an expense: the amount divided
// equally over its participants. User-scoped summaries aggregate shares,
// not full amounts, so the numbers reflect what the user actually owes.
const userShare = `e.amount / (SELECT COUNT(*) FROM expense_members c WHERE c.expense_id = e.id)`

// summarize runs an aggregation query whose rows are (label, total) pairs.
func (s *SQLiteStore) summarize(ctx context.Context, query string, args ...any) ([]labelTotal, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize expenses: %w", err)
	}
	defer rows.Close()

	var totals []labelTotal
	for rows.Next() {
		var row labelTotal
		if err := rows.Scan(&row.label, &row.total); err != nil {
			return nil, fmt.Errorf("failed to scan expense total: %w", err)
		}
		totals = append(totals, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense totals: %w", err)
	}
	return totals, nil
}

type labelTotal struct {
	label string
	total float64
}

// GroupCategorySummary returns the group's total spent per expense category.
func (s *SQLiteStore) GroupCategorySummary(ctx context.Context, groupID string) ([]storage.CategoryTotal, error) {
	rows, err := s.summarize(ctx,
		`SELECT category, SUM(amount) FROM expenses
		 WHERE group_id = ?
		 GROUP BY category
		 ORDER BY SUM(amount) DESC, category`,
		groupID,
	)
	if err != nil {
		return nil, err
	}
	return asCategoryTotals(rows), nil
}

// GroupMonthlySummary returns the group's total spent per calendar month.
func (s *SQLiteStore) GroupMonthlySummary(ctx context.Context, groupID string) ([]storage.MonthlyTotal, error) {
	rows, err := s.summarize(ctx,
		`SELECT strftime('%Y-%m', created_at, 'unixepoch') AS month, SUM(amount)
		 FROM expenses
		 WHERE group_id = ?
		 GROUP BY month
		 ORDER BY month`,
		groupID,
	)
	if err != nil {
		return nil, err
	}
	return asMonthlyTotals(rows), nil
}

// GroupDailySummary returns the group's total spent per calendar day.
func (s *SQLiteStore) GroupDailySummary(ctx context.Context, groupID string) ([]storage.DailyTotal, error) {
	rows, err := s.summarize(ctx,
		`SELECT strftime('%Y-%m-%d', created_at, 'unixepoch') AS day, SUM(amount)
		 FROM expenses
		 WHERE group_id = ?
		 GROUP BY day
		 ORDER BY day`,
		groupID,
	)
	if err != nil {
		return nil, err
	}
	return asDailyTotals(rows), nil
}

// UserCategorySummary returns the user's share of spend per category,
// across all groups.
func (s *SQLiteStore) UserCategorySummary(ctx context.Context, email string) ([]storage.CategoryTotal, error) {
	rows, err := s.summarize(ctx,
		`SELECT e.category, SUM(`+userShare+`)
		 FROM expenses e
		 JOIN expense_members m ON m.expense_id = e.id
		 WHERE m.email = ?
		 GROUP BY e.category
		 ORDER BY SUM(`+userShare+`) DESC, e.category`,
		email,
	)
	if err != nil {
		return nil, err
	}
	return asCategoryTotals(rows), nil
}

// UserMonthlySummary returns the user's share of spend per calendar month,
// across all groups.
func (s *SQLiteStore) UserMonthlySummary(ctx context.Context, email string) ([]storage.MonthlyTotal, error) {
	rows, err := s.summarize(ctx,
		`SELECT strftime('%Y-%m', e.created_at, 'unixepoch') AS month, SUM(`+userShare+`)
		 FROM expenses e
		 JOIN expense_members m ON m.expense_id = e.id
		 WHERE m.email = ?
		 GROUP BY month
		 ORDER BY month`,
		email,
	)
	if err != nil {
		return nil, err
	}
	return asMonthlyTotals(rows), nil
}

// UserDailySummary returns the user's share of spend per calendar day,
// across all groups.
func (s *SQLiteStore) UserDailySummary(ctx context.Context, email string) ([]storage.DailyTotal, error) {
	rows, err := s.summarize(ctx,
		`SELECT strftime('%Y-%m-%d', e.created_at, 'unixepoch') AS day, SUM(`+userShare+`)
		 FROM expenses e
		 JOIN expense_members m ON m.expense_id = e.id
		 WHERE m.email = ?
		 GROUP BY day
		 ORDER BY day`,
		email,
	)
	if err != nil {
		return nil, err
	}
	return asDailyTotals(rows), nil
}

func asCategoryTotals(rows []labelTotal) []storage.CategoryTotal {
	totals := make([]storage.CategoryTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, storage.CategoryTotal{Category: row.label, Total: row.total})
	}
	if len(totals) == 0 {
		return nil
	}
	return totals
}

func asMonthlyTotals(rows []labelTotal) []storage.MonthlyTotal {
	totals := make([]storage.MonthlyTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, storage.MonthlyTotal{Month: row.label, Total: row.total})
	}
	if len(totals) == 0 {
		return nil
	}
	return totals
}

func asDailyTotals(rows []labelTotal) []storage.DailyTotal {
	totals := make([]storage.DailyTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, storage.DailyTotal{Day: row.label, Total: row.total})
	}
	if len(totals) == 0 {
		return nil
	}
	return totals
}
