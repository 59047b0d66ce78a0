package service

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prasad123-hub/bill-splitter/internal/ledger"
	"github.com/prasad123-hub/bill-splitter/internal/models"
	"github.com/prasad123-hub/bill-splitter/internal/storage"
	"github.com/prasad123-hub/bill-splitter/internal/storage/sqlite"
)

const (
	alice = "alice@example.com"
	bob   = "bob@example.com"
	carol = "carol@example.com"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	for _, email := range []string{alice, bob, carol} {
		user := models.NewUser(email, "Test", "User", "hash")
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("failed to seed user %s: %v", email, err)
		}
	}
	return store
}

func newTestGroup(t *testing.T, store storage.Store, members ...string) *models.Group {
	t.Helper()

	group := &models.Group{
		Name:       "Test Group",
		Currency:   models.CurrencyUSD,
		OwnerEmail: members[0],
		Members:    members,
	}
	locks := NewGroupLocker(5 * time.Second)
	if err := NewGroupService(store, locks).CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
	return group
}

func assertBalances(t *testing.T, got ledger.Balances, want map[string]float64) {
	t.Helper()
	for member, amount := range want {
		if math.Abs(got[member]-amount) > 0.001 {
			t.Errorf("%s balance = %v, want %v", member, got[member], amount)
		}
	}
}

func TestAddExpenseUpdatesLedger(t *testing.T) {
	store := newTestStore(t)
	group := newTestGroup(t, store, alice, bob, carol)
	svc := NewExpenseService(store, NewGroupLocker(5*time.Second))
	ctx := context.Background()

	balances, err := svc.AddExpense(ctx, &models.Expense{
		GroupID:    group.ID,
		Name:       "Hotel",
		Amount:     100,
		PayerEmail: alice,
		Members:    []string{alice, bob, carol},
	})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	assertBalances(t, balances, map[string]float64{alice: 66.66, bob: -33.33, carol: -33.33})

	// The persisted ledger matches the returned snapshot.
	stored, err := store.GetGroupLedger(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroupLedger failed: %v", err)
	}
	assertBalances(t, stored, map[string]float64{alice: 66.66, bob: -33.33, carol: -33.33})

	updated, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if updated.Total != 100 {
		t.Errorf("group total = %v, want 100", updated.Total)
	}
}

func TestAddExpenseValidation(t *testing.T) {
	store := newTestStore(t)
	group := newTestGroup(t, store, alice, bob)
	svc := NewExpenseService(store, NewGroupLocker(5*time.Second))
	ctx := context.Background()

	tests := []struct {
		name    string
		expense *models.Expense
		wantErr error
	}{
		{
			name: "non-positive amount",
			expense: &models.Expense{
				GroupID: group.ID, Amount: 0, PayerEmail: alice, Members: []string{bob},
			},
			wantErr: ledger.ErrInvalidAmount,
		},
		{
			name: "no participants",
			expense: &models.Expense{
				GroupID: group.ID, Amount: 10, PayerEmail: alice,
			},
			wantErr: ledger.ErrNoParticipants,
		},
		{
			name: "payer outside group",
			expense: &models.Expense{
				GroupID: group.ID, Amount: 10, PayerEmail: carol, Members: []string{alice, bob},
			},
			wantErr: ledger.ErrUnknownMember,
		},
		{
			name: "unknown group",
			expense: &models.Expense{
				GroupID: "missing", Amount: 10, PayerEmail: alice, Members: []string{alice},
			},
			wantErr: storage.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.AddExpense(ctx, tt.expense); !errors.Is(err, tt.wantErr) {
				t.Errorf("AddExpense error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// None of the failed mutations may have touched the ledger.
	stored, err := store.GetGroupLedger(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroupLedger failed: %v", err)
	}
	assertBalances(t, stored, map[string]float64{alice: 0, bob: 0})
}

func TestEditExpenseReversesOldEffect(t *testing.T) {
	store := newTestStore(t)
	group := newTestGroup(t, store, alice, bob, carol)
	svc := NewExpenseService(store, NewGroupLocker(5*time.Second))
	ctx := context.Background()

	expense := &models.Expense{
		GroupID:    group.ID,
		Name:       "Dinner",
		Amount:     100,
		PayerEmail: alice,
		Members:    []string{alice, bob, carol},
	}
	if _, err := svc.AddExpense(ctx, expense); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	// Same expense now paid by bob and split between bob and carol only.
	expense.Amount = 60
	expense.PayerEmail = bob
	expense.Members = []string{bob, carol}
	balances, err := svc.EditExpense(ctx, expense)
	if err != nil {
		t.Fatalf("EditExpense failed: %v", err)
	}

	assertBalances(t, balances, map[string]float64{alice: 0, bob: 30, carol: -30})

	updated, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if updated.Total != 60 {
		t.Errorf("group total = %v, want 60", updated.Total)
	}
}

func TestDeleteExpenseRestoresLedger(t *testing.T) {
	store := newTestStore(t)
	group := newTestGroup(t, store, alice, bob, carol)
	svc := NewExpenseService(store, NewGroupLocker(5*time.Second))
	ctx := context.Background()

	expense := &models.Expense{
		GroupID:    group.ID,
		Name:       "Taxi",
		Amount:     47.77,
		PayerEmail: bob,
		Members:    []string{alice, bob, carol},
	}
	if _, err := svc.AddExpense(ctx, expense); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	balances, err := svc.DeleteExpense(ctx, expense.ID)
	if err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	assertBalances(t, balances, map[string]float64{alice: 0, bob: 0, carol: 0})

	if _, err := store.GetExpense(ctx, expense.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetExpense after delete error = %v, want ErrNotFound", err)
	}

	updated, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if updated.Total != 0 {
		t.Errorf("group total = %v, want 0", updated.Total)
	}
}

// Two concurrent expense additions on the same group must both land: the
// exclusive section prevents the second read-modify-write from clobbering
// the first.
func TestConcurrentAddExpensesBothApply(t *testing.T) {
	store := newTestStore(t)
	group := newTestGroup(t, store, alice, bob)
	svc := NewExpenseService(store, NewGroupLocker(5*time.Second))
	ctx := context.Background()

	expenses := []*models.Expense{
		{GroupID: group.ID, Name: "Rent", Amount: 100, PayerEmail: alice, Members: []string{alice, bob}},
		{GroupID: group.ID, Name: "Internet", Amount: 60, PayerEmail: bob, Members: []string{alice, bob}},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(expenses))
	for i, expense := range expenses {
		wg.Add(1)
		go func(i int, expense *models.Expense) {
			defer wg.Done()
			_, errs[i] = svc.AddExpense(ctx, expense)
		}(i, expense)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent AddExpense %d failed: %v", i, err)
		}
	}

	stored, err := store.GetGroupLedger(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroupLedger failed: %v", err)
	}
	assertBalances(t, stored, map[string]float64{alice: 20, bob: -20})

	updated, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if updated.Total != 160 {
		t.Errorf("group total = %v, want 160 (both expenses must land)", updated.Total)
	}
}

// failingLedgerStore makes the ledger write fail after the expense record
// was already updated, to exercise the compensation path.
type failingLedgerStore struct {
	storage.Store
}

func (f *failingLedgerStore) PutGroupLedger(ctx context.Context, groupID string, balances ledger.Balances, total float64) error {
	return errors.New("disk full")
}

func TestEditExpenseRestoresRecordOnLedgerFailure(t *testing.T) {
	store := newTestStore(t)
	group := newTestGroup(t, store, alice, bob, carol)
	locks := NewGroupLocker(5 * time.Second)
	ctx := context.Background()

	expense := &models.Expense{
		GroupID:    group.ID,
		Name:       "Dinner",
		Amount:     100,
		PayerEmail: alice,
		Members:    []string{alice, bob, carol},
	}
	if _, err := NewExpenseService(store, locks).AddExpense(ctx, expense); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	edited := &models.Expense{
		ID:         expense.ID,
		Name:       "Dinner",
		Amount:     60,
		PayerEmail: bob,
		Members:    []string{bob, carol},
	}
	failing := NewExpenseService(&failingLedgerStore{store}, locks)
	if _, err := failing.EditExpense(ctx, edited); err == nil {
		t.Fatal("EditExpense succeeded despite ledger write failure")
	}

	// The stored record must still describe the effect the ledger holds.
	stored, err := store.GetExpense(ctx, expense.ID)
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if stored.Amount != 100 || stored.PayerEmail != alice || len(stored.Members) != 3 {
		t.Errorf("expense after failed edit = %+v, want the original 100 by alice", stored)
	}

	balances, err := store.GetGroupLedger(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroupLedger failed: %v", err)
	}
	assertBalances(t, balances, map[string]float64{alice: 66.66, bob: -33.33, carol: -33.33})
}
