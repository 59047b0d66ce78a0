package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/prasad123-hub/bill-splitter/internal/ledger"
	"github.com/prasad123-hub/bill-splitter/internal/metrics"
	"github.com/prasad123-hub/bill-splitter/internal/models"
	"github.com/prasad123-hub/bill-splitter/internal/storage"
)

var (
	// ErrGroupNameRequired reports a group without a name.
	ErrGroupNameRequired = errors.New("group name is required")

	// ErrInvalidCurrency reports an unsupported currency code.
	ErrInvalidCurrency = errors.New("currency must be INR, USD or EUR")

	// ErrUnregisteredMember reports a member email with no user account.
	ErrUnregisteredMember = errors.New("member is not a registered user")
)

// GroupService manages group lifecycle, settlements and balance sheets.
type GroupService struct {
	store storage.Store
	locks *GroupLocker
}

// NewGroupService creates a GroupService.
func NewGroupService(store storage.Store, locks *GroupLocker) *GroupService {
	return &GroupService{store: store, locks: locks}
}

func (s *GroupService) validateMembers(ctx context.Context, emails []string) error {
	for _, email := range emails {
		if _, err := s.store.GetUserByEmail(ctx, email); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrUnregisteredMember, email)
			}
			return err
		}
	}
	return nil
}

// CreateGroup validates and persists a new group. The owner is always a
// member; every member starts with a zero balance.
func (s *GroupService) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.Name == "" {
		return ErrGroupNameRequired
	}
	if !models.ValidCurrency(group.Currency) {
		return ErrInvalidCurrency
	}

	hasOwner := false
	for _, email := range group.Members {
		if email == group.OwnerEmail {
			hasOwner = true
			break
		}
	}
	if !hasOwner {
		group.Members = append(group.Members, group.OwnerEmail)
	}

	if err := s.validateMembers(ctx, group.Members); err != nil {
		return err
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	slog.Info("Group created", "group_id", group.ID, "name", group.Name, "members", len(group.Members))
	return nil
}

// GetGroup retrieves a group with its balance map.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

// UserGroups lists every group the member belongs to, newest first.
func (s *GroupService) UserGroups(ctx context.Context, email string) ([]*models.Group, error) {
	if _, err := s.store.GetUserByEmail(ctx, email); err != nil {
		return nil, err
	}
	return s.store.ListGroupsByMember(ctx, email)
}

// UpdateGroup changes a group's metadata and member list. New members join
// the ledger at zero before any further mutation can touch them, which is
// why the whole update runs inside the group's exclusive section.
func (s *GroupService) UpdateGroup(ctx context.Context, group *models.Group) error {
	if group.Name == "" {
		return ErrGroupNameRequired
	}
	if !models.ValidCurrency(group.Currency) {
		return ErrInvalidCurrency
	}
	if err := s.validateMembers(ctx, group.Members); err != nil {
		return err
	}

	release, err := s.locks.Acquire(ctx, group.ID)
	if err != nil {
		return err
	}
	defer release()

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return err
	}
	slog.Info("Group updated", "group_id", group.ID)
	return nil
}

// DeleteGroup removes a group and everything hanging off it. Takes the
// exclusive section so a deletion cannot interleave with an in-flight
// mutation.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID string) error {
	release, err := s.locks.Acquire(ctx, groupID)
	if err != nil {
		return err
	}
	defer release()

	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		return err
	}
	s.locks.Forget(groupID)
	slog.Info("Group deleted", "group_id", groupID)
	return nil
}

// MakeSettlement applies a payment between two members to the ledger and
// appends it to the settlement log. The two writes are one logical unit: if
// the append fails after the ledger update succeeded, the caller gets
// ErrPartialFailure and may retry the append idempotently with the same
// settlement ID.
func (s *GroupService) MakeSettlement(ctx context.Context, settlement *models.Settlement) (ledger.Balances, error) {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}

	release, err := s.locks.Acquire(ctx, settlement.GroupID)
	if err != nil {
		return nil, err
	}
	defer release()

	group, err := s.store.GetGroup(ctx, settlement.GroupID)
	if err != nil {
		return nil, err
	}

	balances, err := ledger.ApplySettlement(group.Balances, settlement.FromEmail, settlement.ToEmail, settlement.Amount)
	if err != nil {
		return nil, err
	}

	if err := s.store.PutGroupLedger(ctx, settlement.GroupID, balances, group.Total); err != nil {
		return nil, fmt.Errorf("failed to update ledger: %w", err)
	}

	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		metrics.PartialFailures.Inc()
		slog.Error("Settlement ledger updated but log append failed",
			"group_id", settlement.GroupID, "settlement_id", settlement.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPartialFailure, err)
	}

	metrics.SettlementsRecorded.Inc()
	slog.Info("Settlement recorded",
		"group_id", settlement.GroupID,
		"settlement_id", settlement.ID,
		"from", settlement.FromEmail,
		"to", settlement.ToEmail,
		"amount", settlement.Amount,
	)
	return balances, nil
}

// GroupSettlements lists a group's settlement log, newest first.
func (s *GroupService) GroupSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListGroupSettlements(ctx, groupID)
}

// BalanceSheet derives the minimal payment plan that would settle the
// group. Read-only: no exclusive section, just a consistent ledger read.
func (s *GroupService) BalanceSheet(ctx context.Context, groupID string) ([]ledger.Transfer, error) {
	balances, err := s.store.GetGroupLedger(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return ledger.Simplify(balances), nil
}
