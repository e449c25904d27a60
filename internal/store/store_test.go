package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finora/internal/core"
)

func newTestStore() *Store {
	s := NewSeeded()
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return s
}

func txInput(cents int64, kind core.Kind, catID string, d core.Date) core.TransactionInput {
	return core.TransactionInput{
		Amount:      core.Money{Cents: cents},
		Description: "test",
		CategoryID:  catID,
		Kind:        kind,
		Date:        d,
	}
}

func TestAddTransactionPrepends(t *testing.T) {
	s := newTestStore()

	first := s.AddTransaction(txInput(100, core.Expense, "1", core.NewDate(2024, 1, 1)))
	second := s.AddTransaction(txInput(200, core.Expense, "1", core.NewDate(2024, 1, 2)))

	snap := s.Snapshot()
	require.Len(t, snap.Transactions, 2)
	assert.Equal(t, second.ID, snap.Transactions[0].ID, "newest transaction must come first")
	assert.Equal(t, first.ID, snap.Transactions[1].ID)
}

func TestAddTransactionFallbackUserID(t *testing.T) {
	s := newTestStore()

	tx := s.AddTransaction(txInput(100, core.Expense, "1", core.NewDate(2024, 1, 1)))
	assert.Equal(t, "1", tx.UserID, "no session user set, fixed fallback applies")

	s.Login("any@example.com", "pw")
	tx = s.AddTransaction(txInput(100, core.Expense, "1", core.NewDate(2024, 1, 1)))
	assert.Equal(t, "1", tx.UserID)
}

func TestDeleteTransactionIdempotent(t *testing.T) {
	s := newTestStore()
	tx := s.AddTransaction(txInput(100, core.Expense, "1", core.NewDate(2024, 1, 1)))

	s.DeleteTransaction(tx.ID)
	after := s.Snapshot().Transactions

	// Second delete of the same id is a no-op.
	s.DeleteTransaction(tx.ID)
	assert.Equal(t, after, s.Snapshot().Transactions)
	assert.Empty(t, s.Snapshot().Transactions)

	// Deleting an unknown id never fails.
	s.DeleteTransaction("missing")
}

func TestAddCategoryAppends(t *testing.T) {
	s := newTestStore()
	before := len(s.Snapshot().Categories)

	c := s.AddCategory(core.CategoryInput{Name: "Mascotas", Icon: "🐕", Color: "#111111", Kind: core.Expense})

	cats := s.Snapshot().Categories
	require.Len(t, cats, before+1)
	assert.Equal(t, c.ID, cats[len(cats)-1].ID, "categories append, not prepend")
}

func TestDeleteCategoryLeavesTransactionsDangling(t *testing.T) {
	s := newTestStore()
	tx := s.AddTransaction(txInput(100, core.Expense, "1", core.NewDate(2024, 1, 1)))

	s.DeleteCategory("1")

	_, ok := s.Category("1")
	assert.False(t, ok)

	snap := s.Snapshot()
	require.Len(t, snap.Transactions, 1)
	assert.Equal(t, tx.CategoryID, snap.Transactions[0].CategoryID, "no cascade and no reassignment")
}

func TestGoalContributionClampAndMonotonicity(t *testing.T) {
	s := newTestStore()
	g := s.AddGoal(core.GoalInput{
		Title:        "Viaje",
		TargetAmount: core.Money{Cents: 1000},
		TargetDate:   core.NewDate(2025, 1, 1),
	})

	prev := int64(0)
	for _, amount := range []int64{300, 300, 300, 300, 300} {
		s.ContributeToGoal(g.ID, core.Money{Cents: amount})
		got, ok := s.Goal(g.ID)
		require.True(t, ok)
		assert.LessOrEqual(t, got.CurrentAmount.Cents, got.TargetAmount.Cents, "clamp invariant")
		assert.GreaterOrEqual(t, got.CurrentAmount.Cents, prev, "monotonically nondecreasing")
		prev = got.CurrentAmount.Cents
	}

	got, _ := s.Goal(g.ID)
	assert.Equal(t, int64(1000), got.CurrentAmount.Cents)

	// Contribution to an unknown goal is a no-op.
	s.ContributeToGoal("missing", core.Money{Cents: 100})
}

func TestAddGoalDefaultsCurrentAmount(t *testing.T) {
	s := newTestStore()
	g := s.AddGoal(core.GoalInput{
		Title:        "Fondo",
		TargetAmount: core.Money{Cents: 5000},
		TargetDate:   core.NewDate(2025, 1, 1),
	})
	assert.Zero(t, g.CurrentAmount.Cents)

	g = s.AddGoal(core.GoalInput{
		Title:         "Fondo 2",
		TargetAmount:  core.Money{Cents: 5000},
		CurrentAmount: core.Money{Cents: 700},
		TargetDate:    core.NewDate(2025, 1, 1),
	})
	assert.Equal(t, int64(700), g.CurrentAmount.Cents)
}

func TestDeleteGoalIdempotent(t *testing.T) {
	s := newTestStore()
	g := s.AddGoal(core.GoalInput{Title: "x", TargetAmount: core.Money{Cents: 1}, TargetDate: core.NewDate(2025, 1, 1)})

	s.DeleteGoal(g.ID)
	s.DeleteGoal(g.ID)
	assert.Empty(t, s.Snapshot().Goals)
}

func TestLoginRegisterLogout(t *testing.T) {
	s := newTestStore()
	assert.False(t, s.Authenticated())

	u := s.Login("whatever@example.com", "anything")
	assert.True(t, s.Authenticated())
	assert.NotEmpty(t, u.ID)

	reg := s.Register("Ana", "ana@example.com", "pw")
	assert.Equal(t, "Ana", reg.Name)
	assert.Equal(t, "ana@example.com", reg.Email)
	assert.Equal(t, u.ID, reg.ID, "register derives from the session template")

	s.AddTransaction(txInput(100, core.Expense, "1", core.NewDate(2024, 1, 1)))
	s.Logout()

	assert.False(t, s.Authenticated())
	snap := s.Snapshot()
	assert.Nil(t, snap.User)
	assert.Len(t, snap.Transactions, 1, "collections survive logout")
	assert.NotEmpty(t, snap.Categories)
}

func TestSnapshotIsolation(t *testing.T) {
	s := newTestStore()
	s.AddTransaction(txInput(100, core.Expense, "1", core.NewDate(2024, 1, 1)))

	snap := s.Snapshot()
	snap.Transactions[0].Description = "mutated"
	snap.Categories[0].Name = "mutated"

	fresh := s.Snapshot()
	assert.Equal(t, "test", fresh.Transactions[0].Description)
	assert.NotEqual(t, "mutated", fresh.Categories[0].Name)
}

func TestNewIDsAreUnique(t *testing.T) {
	s := NewSeeded() // real uuid generator
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tx := s.AddTransaction(txInput(1, core.Income, "6", core.NewDate(2024, 1, 1)))
		require.False(t, seen[tx.ID], "duplicate id %s", tx.ID)
		seen[tx.ID] = true
	}
}
