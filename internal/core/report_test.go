package core

import (
	"reflect"
	"testing"
	"time"
)

func tx(id string, cents int64, kind Kind, catID string, d Date) Transaction {
	return Transaction{
		ID:          id,
		Amount:      Money{Cents: cents},
		Description: "tx " + id,
		CategoryID:  catID,
		Kind:        kind,
		Date:        d,
		UserID:      "1",
	}
}

func TestMonthSummaryDashboardTotals(t *testing.T) {
	now := time.Date(2024, 1, 20, 14, 30, 0, 0, time.UTC)
	txs := []Transaction{
		tx("a", 2500000, Expense, "1", NewDate(2024, 1, 15)),
		tx("b", 250000000, Income, "6", NewDate(2024, 1, 1)),
		tx("c", 999999, Expense, "1", NewDate(2023, 12, 31)), // previous month, ignored
	}
	user := &User{ID: "1", MonthlyGoal: Money{Cents: 20000000}}

	s := MonthSummary(txs, user, now)
	if s.TotalIncome.Cents != 250000000 {
		t.Fatalf("income: got %d", s.TotalIncome.Cents)
	}
	if s.TotalExpenses.Cents != 2500000 {
		t.Fatalf("expenses: got %d", s.TotalExpenses.Cents)
	}
	if s.Balance != 247500000 {
		t.Fatalf("balance: got %d", s.Balance)
	}
	if s.Savings.Cents != 247500000 {
		t.Fatalf("savings: got %d", s.Savings.Cents)
	}
}

func TestMonthSummaryIdempotent(t *testing.T) {
	now := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	txs := []Transaction{
		tx("a", 1000, Income, "6", NewDate(2024, 1, 2)),
		tx("b", 300, Expense, "1", NewDate(2024, 1, 3)),
	}
	user := &User{ID: "1", MonthlyGoal: Money{Cents: 500}}

	first := MonthSummary(txs, user, now)
	second := MonthSummary(txs, user, now)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("summary not idempotent: %+v vs %+v", first, second)
	}
}

func TestMonthSummaryNoMonthlyGoal(t *testing.T) {
	now := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	txs := []Transaction{tx("a", 1000, Income, "6", NewDate(2024, 1, 2))}

	s := MonthSummary(txs, &User{ID: "1"}, now)
	if s.Savings.Cents != 0 || s.SavingsProgress != 0 {
		t.Fatalf("expected zero savings without monthly goal, got %+v", s)
	}

	// nil user must not panic either
	s = MonthSummary(txs, nil, now)
	if s.SavingsProgress != 0 {
		t.Fatalf("expected zero progress for nil user, got %v", s.SavingsProgress)
	}
}

func TestMonthSummaryNegativeBalanceSavingsFloor(t *testing.T) {
	now := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	txs := []Transaction{
		tx("a", 1000, Income, "6", NewDate(2024, 1, 2)),
		tx("b", 3000, Expense, "1", NewDate(2024, 1, 3)),
	}
	s := MonthSummary(txs, &User{ID: "1", MonthlyGoal: Money{Cents: 500}}, now)
	if s.Balance != -2000 {
		t.Fatalf("balance: got %d", s.Balance)
	}
	if s.Savings.Cents != 0 || s.SavingsProgress != 0 {
		t.Fatalf("savings must floor at zero, got %+v", s)
	}
}

func TestRecentTransactionsSortAndLimit(t *testing.T) {
	txs := []Transaction{
		tx("a", 1, Expense, "1", NewDate(2024, 1, 10)),
		tx("b", 2, Expense, "1", NewDate(2024, 1, 12)),
		tx("c", 3, Expense, "1", NewDate(2024, 1, 12)), // same date as b
		tx("d", 4, Expense, "1", NewDate(2024, 1, 5)),
		tx("e", 5, Expense, "1", NewDate(2024, 1, 20)),
		tx("f", 6, Expense, "1", NewDate(2024, 1, 1)),
	}
	got := RecentTransactions(txs, 5)
	if len(got) != 5 {
		t.Fatalf("got %d transactions", len(got))
	}
	// Ties keep original relative order: b before c.
	wantIDs := []string{"e", "b", "c", "a", "d"}
	for i, want := range wantIDs {
		if got[i].ID != want {
			t.Fatalf("position %d: got %s, want %s (order %v)", i, got[i].ID, want, got)
		}
	}
	// Input order must be untouched.
	if txs[0].ID != "a" || txs[5].ID != "f" {
		t.Fatalf("input slice mutated")
	}
}

func TestRecentTransactionsShortInput(t *testing.T) {
	got := RecentTransactions([]Transaction{tx("a", 1, Income, "6", NewDate(2024, 1, 1))}, 5)
	if len(got) != 1 {
		t.Fatalf("got %d", len(got))
	}
	if got = RecentTransactions(nil, 5); len(got) != 0 {
		t.Fatalf("expected empty result for nil input")
	}
}

func TestCategoryBreakdownExcludesZeroTotals(t *testing.T) {
	cats := []Category{
		{ID: "1", Name: "Food", Kind: Expense},
		{ID: "2", Name: "Transport", Kind: Expense},
		{ID: "6", Name: "Salary", Kind: Income},
	}
	txs := []Transaction{
		tx("a", 3000, Expense, "1", NewDate(2024, 1, 10)),
		tx("b", 1000, Expense, "1", NewDate(2024, 1, 12)),
		// no transactions for category 2 in range
		tx("c", 500, Expense, "2", NewDate(2023, 6, 1)),
		tx("d", 9999, Income, "6", NewDate(2024, 1, 15)),
	}
	got := CategoryBreakdown(txs, cats, Expense, NewDate(2024, 1, 1), NewDate(2024, 1, 31), "")
	if len(got) != 1 {
		t.Fatalf("expected 1 category, got %d: %+v", len(got), got)
	}
	if got[0].CategoryID != "1" || got[0].Total.Cents != 4000 {
		t.Fatalf("unexpected breakdown: %+v", got[0])
	}
	if got[0].Percent != 100 {
		t.Fatalf("single category must be 100%%, got %v", got[0].Percent)
	}
}

func TestCategoryBreakdownPercentagesSumTo100(t *testing.T) {
	cats := []Category{
		{ID: "1", Name: "Food", Kind: Expense},
		{ID: "2", Name: "Transport", Kind: Expense},
		{ID: "3", Name: "Fun", Kind: Expense},
	}
	txs := []Transaction{
		tx("a", 3333, Expense, "1", NewDate(2024, 2, 1)),
		tx("b", 3333, Expense, "2", NewDate(2024, 2, 2)),
		tx("c", 3334, Expense, "3", NewDate(2024, 2, 3)),
	}
	got := CategoryBreakdown(txs, cats, Expense, NewDate(2024, 2, 1), NewDate(2024, 2, 29), "")
	if len(got) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(got))
	}
	var sum float64
	for _, ct := range got {
		sum += ct.Percent
	}
	if sum < 99.5 || sum > 100.5 {
		t.Fatalf("percentages sum to %v, want 100 within rounding tolerance", sum)
	}
}

func TestCategoryBreakdownCategoryFilter(t *testing.T) {
	cats := []Category{
		{ID: "1", Name: "Food", Kind: Expense},
		{ID: "2", Name: "Transport", Kind: Expense},
	}
	txs := []Transaction{
		tx("a", 1000, Expense, "1", NewDate(2024, 3, 1)),
		tx("b", 2000, Expense, "2", NewDate(2024, 3, 1)),
	}
	got := CategoryBreakdown(txs, cats, Expense, NewDate(2024, 3, 1), NewDate(2024, 3, 31), "2")
	if len(got) != 1 || got[0].CategoryID != "2" {
		t.Fatalf("expected only category 2, got %+v", got)
	}
	if got[0].Percent != 100 {
		t.Fatalf("filtered category must be 100%%, got %v", got[0].Percent)
	}
}

func TestCategoryBreakdownEmptyInput(t *testing.T) {
	got := CategoryBreakdown(nil, nil, Expense, NewDate(2024, 1, 1), NewDate(2024, 1, 31), "")
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestMonthlyBucketsFirstSeenOrder(t *testing.T) {
	// March appears first in the slice, then January.
	txs := []Transaction{
		tx("a", 100, Expense, "1", NewDate(2024, 3, 5)),
		tx("b", 200, Income, "6", NewDate(2024, 1, 5)),
		tx("c", 50, Expense, "1", NewDate(2024, 1, 10)),
		tx("d", 25, Expense, "1", NewDate(2024, 3, 20)),
	}
	got := MonthlyBuckets(txs, NewDate(2024, 1, 1), NewDate(2024, 12, 31), "", BucketOrderFirstSeen)
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(got))
	}
	if got[0].Month != "Mar" || got[1].Month != "Jan" {
		t.Fatalf("first-seen order broken: %+v", got)
	}
	if got[0].Expenses.Cents != 125 {
		t.Fatalf("Mar expenses: got %d", got[0].Expenses.Cents)
	}
	if got[1].Income.Cents != 200 || got[1].Expenses.Cents != 50 {
		t.Fatalf("Jan bucket: %+v", got[1])
	}
}

func TestMonthlyBucketsCalendarOrder(t *testing.T) {
	txs := []Transaction{
		tx("a", 100, Expense, "1", NewDate(2024, 3, 5)),
		tx("b", 200, Income, "6", NewDate(2023, 11, 5)),
		tx("c", 50, Expense, "1", NewDate(2024, 1, 10)),
	}
	got := MonthlyBuckets(txs, NewDate(2023, 1, 1), NewDate(2024, 12, 31), "", BucketOrderCalendar)
	if len(got) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(got))
	}
	want := []string{"Nov", "Jan", "Mar"}
	for i, m := range want {
		if got[i].Month != m {
			t.Fatalf("position %d: got %s, want %s", i, got[i].Month, m)
		}
	}
}

func TestMonthlyBucketsOnlyMonthsWithTransactions(t *testing.T) {
	txs := []Transaction{tx("a", 100, Expense, "1", NewDate(2024, 6, 5))}
	got := MonthlyBuckets(txs, NewDate(2024, 1, 1), NewDate(2024, 12, 31), "", BucketOrderFirstSeen)
	if len(got) != 1 || got[0].Month != "Jun" {
		t.Fatalf("expected single Jun bucket, got %+v", got)
	}
}

func TestEvaluateGoalStates(t *testing.T) {
	today := NewDate(2024, 6, 15)
	cases := []struct {
		name string
		goal Goal
		want GoalState
	}{
		{
			name: "fully funded past due date stays completed",
			goal: Goal{TargetAmount: Money{Cents: 100000000}, CurrentAmount: Money{Cents: 100000000}, TargetDate: NewDate(2024, 1, 1)},
			want: GoalCompleted,
		},
		{
			name: "unfunded past due date is overdue",
			goal: Goal{TargetAmount: Money{Cents: 100000000}, CurrentAmount: Money{}, TargetDate: NewDate(2024, 6, 5)},
			want: GoalOverdue,
		},
		{
			name: "due in 20 days",
			goal: Goal{TargetAmount: Money{Cents: 100000000}, CurrentAmount: Money{Cents: 50000000}, TargetDate: NewDate(2024, 7, 5)},
			want: GoalDueSoon,
		},
		{
			name: "due on the 30 day boundary",
			goal: Goal{TargetAmount: Money{Cents: 100}, CurrentAmount: Money{Cents: 1}, TargetDate: NewDate(2024, 7, 15)},
			want: GoalDueSoon,
		},
		{
			name: "far future in progress",
			goal: Goal{TargetAmount: Money{Cents: 100}, CurrentAmount: Money{Cents: 1}, TargetDate: NewDate(2025, 6, 15)},
			want: GoalInProgress,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EvaluateGoal(tc.goal, today)
			if got.State != tc.want {
				t.Fatalf("got %s, want %s (progress=%v days=%d)", got.State, tc.want, got.Percent, got.DaysRemaining)
			}
		})
	}
}

func TestEvaluateGoalZeroTarget(t *testing.T) {
	got := EvaluateGoal(Goal{TargetDate: NewDate(2024, 7, 1)}, NewDate(2024, 6, 15))
	if got.Percent != 0 {
		t.Fatalf("zero target must yield zero progress, got %v", got.Percent)
	}
}

func TestMonthAbbrevTable(t *testing.T) {
	if MonthAbbrev(1) != "Jan" || MonthAbbrev(12) != "Dec" {
		t.Fatalf("abbreviation table broken")
	}
	if MonthAbbrev(0) != "" || MonthAbbrev(13) != "" {
		t.Fatalf("out-of-range months must map to empty")
	}
}
