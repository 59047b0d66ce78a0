package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prasad123-hub/bill-splitter/internal/ledger"
	"github.com/prasad123-hub/bill-splitter/internal/models"
	"github.com/prasad123-hub/bill-splitter/internal/storage"
)

// CreateGroup persists a new group with every member's balance seeded at 0.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, description, currency, category, owner_email, total, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Name, group.Description, group.Currency, group.Category,
		group.OwnerEmail, group.Total, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for _, email := range group.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, email, balance) VALUES (?, ?, 0)",
			group.ID, email,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if group.Balances == nil {
		group.Balances = make(map[string]float64, len(group.Members))
		for _, email := range group.Members {
			group.Balances[email] = 0
		}
	}
	return nil
}

// GetGroup retrieves a group with its members and balance map.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, currency, category, owner_email, total, created_at
		 FROM groups WHERE id = ?`,
		groupID,
	).Scan(&group.ID, &group.Name, &group.Description, &group.Currency,
		&group.Category, &group.OwnerEmail, &group.Total, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT email, balance FROM group_members WHERE group_id = ? ORDER BY email",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	group.Balances = make(map[string]float64)
	for rows.Next() {
		var email string
		var balance float64
		if err := rows.Scan(&email, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		group.Members = append(group.Members, email)
		group.Balances[email] = balance
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	return group, nil
}

// ListGroupsByMember returns all groups the given email belongs to, newest
// first.
func (s *SQLiteStore) ListGroupsByMember(ctx context.Context, email string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id FROM groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE m.email = ?
		 ORDER BY g.created_at DESC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	groups := make([]*models.Group, 0, len(ids))
	for _, id := range ids {
		group, err := s.GetGroup(ctx, id)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// UpdateGroup replaces a group's metadata and member list. New members get
// a ledger entry seeded at 0; existing members keep their balance. Members
// are never silently removed here: a member row carries a balance, and
// dropping it would break the zero-sum invariant.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE groups SET name = ?, description = ?, currency = ?, category = ?
		 WHERE id = ?`,
		group.Name, group.Description, group.Currency, group.Category, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if err := requireRow(res, "group"); err != nil {
		return err
	}

	for _, email := range group.Members {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO group_members (group_id, email, balance) VALUES (?, ?, 0)
			 ON CONFLICT (group_id, email) DO NOTHING`,
			group.ID, email,
		)
		if err != nil {
			return fmt.Errorf("failed to add group member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteGroup removes a group; members, expenses and settlements cascade.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return requireRow(res, "group")
}

// GetGroupLedger returns a consistent snapshot of the group's balance map.
func (s *SQLiteStore) GetGroupLedger(ctx context.Context, groupID string) (ledger.Balances, error) {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return ledger.Balances(group.Balances), nil
}

// PutGroupLedger atomically replaces the group's balance map and running
// expense total. Every entry must belong to an existing member row.
func (s *SQLiteStore) PutGroupLedger(ctx context.Context, groupID string, balances ledger.Balances, total float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "UPDATE groups SET total = ? WHERE id = ?", total, groupID)
	if err != nil {
		return fmt.Errorf("failed to update group total: %w", err)
	}
	if err := requireRow(res, "group"); err != nil {
		return err
	}

	for email, balance := range balances {
		res, err := tx.ExecContext(ctx,
			"UPDATE group_members SET balance = ? WHERE group_id = ? AND email = ?",
			balance, groupID, email,
		)
		if err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}
		if err := requireRow(res, "group member"); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
