package core

import (
	"math"
	"sort"
	"time"
)

// GoalState categorizes a goal's standing relative to its funding and date.
type GoalState string

const (
	GoalCompleted  GoalState = "completed"
	GoalOverdue    GoalState = "overdue"
	GoalDueSoon    GoalState = "due_soon"
	GoalInProgress GoalState = "in_progress"
)

// BucketOrder selects how MonthlyBuckets orders its output.
type BucketOrder string

const (
	// BucketOrderFirstSeen keeps buckets in the order their month was first
	// encountered while scanning transactions.
	BucketOrderFirstSeen BucketOrder = "first_seen"
	// BucketOrderCalendar sorts buckets by year then month ascending.
	BucketOrderCalendar BucketOrder = "calendar"
)

// monthAbbrevs indexes month abbreviations by numeric month minus one.
var monthAbbrevs = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// MonthAbbrev returns the fixed abbreviation for a 1-12 month number.
func MonthAbbrev(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthAbbrevs[month-1]
}

type (
	// Summary aggregates the current calendar month for the dashboard.
	Summary struct {
		TotalIncome   Money
		TotalExpenses Money
		Balance       int64 // cents; may be negative
		Savings       Money
		// SavingsProgress is savings over the monthly goal, in percent.
		// Zero when no monthly goal is set.
		SavingsProgress float64
	}

	// CategoryTotal is one slice of a category distribution.
	CategoryTotal struct {
		CategoryID string
		Name       string
		Icon       string
		Color      string
		Total      Money
		// Percent of the grand total, rounded to one decimal place.
		Percent float64
	}

	// MonthBucket accumulates income and expenses for one calendar month.
	MonthBucket struct {
		Month    string // fixed abbreviation, e.g. "Jan"
		Year     int
		Income   Money
		Expenses Money
	}

	// GoalProgress is the derived view of a single goal.
	GoalProgress struct {
		Goal          Goal
		Percent       float64 // current over target, in percent
		DaysRemaining int     // negative when the target date has passed
		State         GoalState
	}
)

// MonthSummary computes income, expenses, balance and savings progress for
// transactions falling in the same calendar month and year as now. It never
// mutates its inputs; identical inputs yield identical output.
func MonthSummary(transactions []Transaction, user *User, now time.Time) Summary {
	today := DateOf(now)
	var s Summary
	for _, t := range transactions {
		if !t.Date.SameMonth(today) {
			continue
		}
		switch t.Kind {
		case Income:
			s.TotalIncome.Cents += t.Amount.Cents
		case Expense:
			s.TotalExpenses.Cents += t.Amount.Cents
		}
	}
	s.Balance = s.TotalIncome.Cents - s.TotalExpenses.Cents
	if user != nil && !user.MonthlyGoal.IsZero() {
		if s.Balance > 0 {
			s.Savings = Money{Cents: s.Balance}
		}
		s.SavingsProgress = float64(s.Savings.Cents) / float64(user.MonthlyGoal.Cents) * 100
	}
	return s
}

// RecentTransactions returns the n most recent transactions by date
// descending. The sort is stable: transactions on the same date keep their
// original relative order.
func RecentTransactions(transactions []Transaction, n int) []Transaction {
	sorted := make([]Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date.Time)
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// CategoryBreakdown sums transactions of the given kind per category inside
// [from, to] (inclusive calendar dates). categoryID optionally restricts the
// transactions considered; empty means all. Categories whose total is zero
// are excluded so distribution charts never render empty slices, which also
// guarantees a positive grand total whenever the result is non-empty.
func CategoryBreakdown(transactions []Transaction, categories []Category, kind Kind, from, to Date, categoryID string) []CategoryTotal {
	var out []CategoryTotal
	var grand int64
	for _, c := range categories {
		if c.Kind != kind {
			continue
		}
		var total int64
		for _, t := range transactions {
			if t.CategoryID != c.ID || t.Kind != kind {
				continue
			}
			if categoryID != "" && t.CategoryID != categoryID {
				continue
			}
			if !t.Date.InRange(from, to) {
				continue
			}
			total += t.Amount.Cents
		}
		if total == 0 {
			continue
		}
		grand += total
		out = append(out, CategoryTotal{
			CategoryID: c.ID,
			Name:       c.Name,
			Icon:       c.Icon,
			Color:      c.Color,
			Total:      Money{Cents: total},
		})
	}
	// grand is positive here whenever out is non-empty
	for i := range out {
		out[i].Percent = roundOneDecimal(float64(out[i].Total.Cents) / float64(grand) * 100)
	}
	return out
}

// MonthlyBuckets groups transactions inside [from, to] by calendar month,
// accumulating income and expense sums per bucket. Only months with at least
// one matching transaction appear. With BucketOrderFirstSeen the buckets keep
// the order their month was first encountered; BucketOrderCalendar sorts them
// chronologically.
func MonthlyBuckets(transactions []Transaction, from, to Date, categoryID string, order BucketOrder) []MonthBucket {
	type key struct {
		year  int
		month int
	}
	index := make(map[key]int)
	var out []MonthBucket
	for _, t := range transactions {
		if !t.Date.InRange(from, to) {
			continue
		}
		if categoryID != "" && t.CategoryID != categoryID {
			continue
		}
		k := key{year: t.Date.Year(), month: t.Date.Month()}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, MonthBucket{Month: MonthAbbrev(k.month), Year: k.year})
		}
		switch t.Kind {
		case Income:
			out[i].Income.Cents += t.Amount.Cents
		case Expense:
			out[i].Expenses.Cents += t.Amount.Cents
		}
	}
	if order == BucketOrderCalendar {
		sort.SliceStable(out, func(a, b int) bool {
			if out[a].Year != out[b].Year {
				return out[a].Year < out[b].Year
			}
			return monthIndex(out[a].Month) < monthIndex(out[b].Month)
		})
	}
	return out
}

// EvaluateGoal derives progress, days remaining and state for a goal as of
// today. The state decision list is priority ordered: a fully funded goal is
// completed even when its target date has passed.
func EvaluateGoal(g Goal, today Date) GoalProgress {
	p := GoalProgress{Goal: g}
	if g.TargetAmount.Cents > 0 {
		p.Percent = float64(g.CurrentAmount.Cents) / float64(g.TargetAmount.Cents) * 100
	}
	p.DaysRemaining = today.DaysUntil(g.TargetDate)
	switch {
	case p.Percent >= 100:
		p.State = GoalCompleted
	case p.DaysRemaining < 0:
		p.State = GoalOverdue
	case p.DaysRemaining <= 30:
		p.State = GoalDueSoon
	default:
		p.State = GoalInProgress
	}
	return p
}

// EvaluateGoals maps EvaluateGoal over a goal list, preserving order.
func EvaluateGoals(goals []Goal, today Date) []GoalProgress {
	out := make([]GoalProgress, len(goals))
	for i, g := range goals {
		out[i] = EvaluateGoal(g, today)
	}
	return out
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

func monthIndex(abbrev string) int {
	for i, m := range monthAbbrevs {
		if m == abbrev {
			return i
		}
	}
	return -1
}
