package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	// Kind classifies a category or transaction as income or expense.
	Kind string

	// Date is a calendar date with no time component. The embedded time is
	// always midnight UTC, so date arithmetic never depends on wall-clock
	// time-of-day.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	User struct {
		ID          string
		Name        string
		Email       string
		MonthlyGoal Money // zero means no monthly savings goal is set
		CreatedAt   Date
	}

	Category struct {
		ID    string
		Name  string
		Icon  string
		Color string
		Kind  Kind
	}

	Transaction struct {
		ID          string
		Amount      Money
		Description string
		CategoryID  string // may dangle after a category delete; tolerated
		Kind        Kind
		Date        Date
		UserID      string
	}

	Goal struct {
		ID            string
		Title         string
		TargetAmount  Money
		CurrentAmount Money
		TargetDate    Date
		Description   string
		UserID        string
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyTitle       = errors.New("empty title")
	ErrInvalidKind      = errors.New("invalid kind")
	ErrInvalidDate      = errors.New("invalid date")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// SameMonth reports whether d falls in the same calendar month and year as other.
func (d Date) SameMonth(other Date) bool {
	return d.Year() == other.Year() && d.Month() == other.Month()
}

// InRange reports whether d is within [from, to], inclusive on both bounds.
func (d Date) InRange(from, to Date) bool {
	return !d.Time.Before(from.Time) && !d.Time.After(to.Time)
}

// DaysUntil returns the number of whole days from d to target. Both dates
// are normalized to midnight, so the division is exact.
func (d Date) DaysUntil(target Date) int {
	return int(target.Time.Sub(d.Time) / (24 * time.Hour))
}

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	}
	return ErrInvalidKind
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// IsZero reports whether no amount is set.
func (m Money) IsZero() bool {
	return m.Cents == 0
}

// TransactionInput carries the caller-provided fields for a new transaction.
// The store itself performs no validation, so callers must run Validate
// before handing the input over.
type TransactionInput struct {
	Amount      Money
	Description string
	CategoryID  string
	Kind        Kind
	Date        Date
}

func (in TransactionInput) Validate() error {
	if err := in.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(in.Description) == "" {
		return ErrEmptyDescription
	}
	if strings.TrimSpace(in.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if err := in.Kind.Validate(); err != nil {
		return err
	}
	return in.Date.Validate()
}

// CategoryInput carries the caller-provided fields for a new category.
type CategoryInput struct {
	Name  string
	Icon  string
	Color string
	Kind  Kind
}

func (in CategoryInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("empty category name")
	}
	return in.Kind.Validate()
}

// GoalInput carries the caller-provided fields for a new goal.
// CurrentAmount is optional and defaults to zero in the store.
type GoalInput struct {
	Title         string
	TargetAmount  Money
	CurrentAmount Money
	TargetDate    Date
	Description   string
}

func (in GoalInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrEmptyTitle
	}
	if err := in.TargetAmount.Validate(); err != nil {
		return err
	}
	return in.TargetDate.Validate()
}
