package ledger

import (
	"errors"
	"math"
	"testing"
)

func newBalances(members ...string) Balances {
	b := make(Balances, len(members))
	for _, m := range members {
		b[m] = 0
	}
	return b
}

func assertBalance(t *testing.T, b Balances, member string, want float64) {
	t.Helper()
	if math.Abs(b[member]-want) > 0.001 {
		t.Errorf("%s balance = %v, want %v", member, b[member], want)
	}
}

func assertZeroSum(t *testing.T, b Balances) {
	t.Helper()
	if sum := b.Sum(); math.Abs(sum) > 0.001 {
		t.Errorf("balances sum = %v, want 0", sum)
	}
}

func TestApplyExpense(t *testing.T) {
	tests := []struct {
		name         string
		balances     Balances
		amount       float64
		payer        string
		participants []string
		wantErr      error
		validateFunc func(t *testing.T, b Balances)
	}{
		{
			name:         "even three-way split, payer absorbs residual",
			balances:     newBalances("alice", "bob", "carol"),
			amount:       100,
			payer:        "alice",
			participants: []string{"alice", "bob", "carol"},
			validateFunc: func(t *testing.T, b Balances) {
				// share = 33.33, alice = 100 - 33.33 - 0.01 residual
				assertBalance(t, b, "alice", 66.66)
				assertBalance(t, b, "bob", -33.33)
				assertBalance(t, b, "carol", -33.33)
				assertZeroSum(t, b)
			},
		},
		{
			name:         "payer not in participant set",
			balances:     newBalances("alice", "bob", "carol"),
			amount:       60,
			payer:        "alice",
			participants: []string{"bob", "carol"},
			validateFunc: func(t *testing.T, b Balances) {
				assertBalance(t, b, "alice", 60)
				assertBalance(t, b, "bob", -30)
				assertBalance(t, b, "carol", -30)
				assertZeroSum(t, b)
			},
		},
		{
			name:         "single participant owes everything",
			balances:     newBalances("alice", "bob"),
			amount:       19.99,
			payer:        "alice",
			participants: []string{"bob"},
			validateFunc: func(t *testing.T, b Balances) {
				assertBalance(t, b, "alice", 19.99)
				assertBalance(t, b, "bob", -19.99)
				assertZeroSum(t, b)
			},
		},
		{
			name:         "zero amount rejected",
			balances:     newBalances("alice", "bob"),
			amount:       0,
			payer:        "alice",
			participants: []string{"bob"},
			wantErr:      ErrInvalidAmount,
		},
		{
			name:         "negative amount rejected",
			balances:     newBalances("alice", "bob"),
			amount:       -5,
			payer:        "alice",
			participants: []string{"bob"},
			wantErr:      ErrInvalidAmount,
		},
		{
			name:         "NaN amount rejected",
			balances:     newBalances("alice", "bob"),
			amount:       math.NaN(),
			payer:        "alice",
			participants: []string{"bob"},
			wantErr:      ErrInvalidAmount,
		},
		{
			name:         "empty participant set rejected",
			balances:     newBalances("alice", "bob"),
			amount:       10,
			payer:        "alice",
			participants: nil,
			wantErr:      ErrNoParticipants,
		},
		{
			name:         "unknown payer rejected",
			balances:     newBalances("alice", "bob"),
			amount:       10,
			payer:        "mallory",
			participants: []string{"alice", "bob"},
			wantErr:      ErrUnknownMember,
		},
		{
			name:         "unknown participant rejected",
			balances:     newBalances("alice", "bob"),
			amount:       10,
			payer:        "alice",
			participants: []string{"alice", "mallory"},
			wantErr:      ErrUnknownMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyExpense(tt.balances, tt.amount, tt.payer, tt.participants)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ApplyExpense() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyExpense() failed: %v", err)
			}
			tt.validateFunc(t, got)
		})
	}
}

func TestApplyExpenseDoesNotMutateInput(t *testing.T) {
	b := newBalances("alice", "bob")
	b["alice"] = 5

	if _, err := ApplyExpense(b, 10, "alice", []string{"bob"}); err != nil {
		t.Fatalf("ApplyExpense() failed: %v", err)
	}

	if b["alice"] != 5 || b["bob"] != 0 {
		t.Errorf("input balances mutated: %v", b)
	}
}

func TestReverseExpenseRoundTrip(t *testing.T) {
	tests := []struct {
		name         string
		amount       float64
		payer        string
		participants []string
	}{
		{"three-way with residual", 100, "alice", []string{"alice", "bob", "carol"}},
		{"seven-way odd amount", 43.21, "bob", []string{"alice", "bob", "carol", "dave", "eve", "frank", "grace"}},
		{"payer outside the set", 75.50, "carol", []string{"alice", "bob"}},
		{"tiny amount", 0.01, "alice", []string{"alice", "bob", "carol"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := newBalances("alice", "bob", "carol", "dave", "eve", "frank", "grace")
			before["alice"] = 12.34
			before["bob"] = -12.34

			applied, err := ApplyExpense(before, tt.amount, tt.payer, tt.participants)
			if err != nil {
				t.Fatalf("ApplyExpense() failed: %v", err)
			}
			assertZeroSum(t, applied)

			restored, err := ReverseExpense(applied, tt.amount, tt.payer, tt.participants)
			if err != nil {
				t.Fatalf("ReverseExpense() failed: %v", err)
			}

			for member, want := range before {
				if restored[member] != want {
					t.Errorf("%s balance = %v after round trip, want %v", member, restored[member], want)
				}
			}
		})
	}
}

// Any mix of expenses, reversals and settlements must keep the ledger
// zero-sum after every single step.
func TestMutationSequenceKeepsZeroSum(t *testing.T) {
	b := newBalances("alice", "bob", "carol", "dave")

	steps := []func(Balances) (Balances, error){
		func(b Balances) (Balances, error) {
			return ApplyExpense(b, 100, "alice", []string{"alice", "bob", "carol"})
		},
		func(b Balances) (Balances, error) {
			return ApplyExpense(b, 47.77, "bob", []string{"alice", "bob", "carol", "dave"})
		},
		func(b Balances) (Balances, error) { return ApplySettlement(b, "carol", "alice", 20) },
		func(b Balances) (Balances, error) {
			return ApplyExpense(b, 10, "dave", []string{"carol"})
		},
		func(b Balances) (Balances, error) {
			return ReverseExpense(b, 47.77, "bob", []string{"alice", "bob", "carol", "dave"})
		},
		func(b Balances) (Balances, error) { return ApplySettlement(b, "bob", "alice", 33.33) },
	}

	for i, step := range steps {
		next, err := step(b)
		if err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
		assertZeroSum(t, next)
		b = next
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{33.333333, 33.33},
		{66.666666, 66.67},
		{-33.333333, -33.33},
		{0.005, 0.01}, // half rounds up
		{100, 100},
		{-0.004, 0},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
