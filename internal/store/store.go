// Package store owns the authoritative in-memory finance collections and is
// the only component permitted to mutate them. It performs no validation:
// callers guard inputs at the boundary before mutating.
package store

import (
	"sync"

	"github.com/google/uuid"

	"finora/internal/core"
)

// fallbackUserID is assigned to records created while no user is logged in.
const fallbackUserID = "1"

// demoUser is the session template: login always resolves to it and register
// overrides name and email on a copy. Credentials are never checked.
var demoUser = core.User{
	ID:          "1",
	Name:        "Keyler Arias",
	Email:       "keylerarias005@gmail.com",
	MonthlyGoal: core.Money{Cents: 20000000},
	CreatedAt:   core.NewDate(2024, 1, 1),
}

// Store holds the in-memory collections plus the current session user. All
// mutations are synchronous and immediately visible to subsequent reads.
type Store struct {
	mu            sync.Mutex
	user          *core.User
	authenticated bool
	categories    []core.Category
	transactions  []core.Transaction
	goals         []core.Goal

	// newID is swappable so tests can use deterministic identifiers.
	newID func() string
}

// Snapshot is an isolated copy of the collections for the aggregation
// engine. Mutating a snapshot never affects the store.
type Snapshot struct {
	User         *core.User
	Categories   []core.Category
	Transactions []core.Transaction
	Goals        []core.Goal
}

func New() *Store {
	return &Store{newID: uuid.NewString}
}

// NewSeeded returns a store preloaded with the default category set.
func NewSeeded() *Store {
	s := New()
	s.categories = append(s.categories, SeedCategories()...)
	return s
}

// SeedCategories returns the default category set shown to a fresh user.
func SeedCategories() []core.Category {
	return []core.Category{
		{ID: "1", Name: "Alimentación", Icon: "🍽️", Color: "#ef4444", Kind: core.Expense},
		{ID: "2", Name: "Transporte", Icon: "🚗", Color: "#3b82f6", Kind: core.Expense},
		{ID: "3", Name: "Entretenimiento", Icon: "🎮", Color: "#8b5cf6", Kind: core.Expense},
		{ID: "4", Name: "Servicios", Icon: "💡", Color: "#f59e0b", Kind: core.Expense},
		{ID: "5", Name: "Salud", Icon: "🏥", Color: "#10b981", Kind: core.Expense},
		{ID: "6", Name: "Salario", Icon: "💼", Color: "#059669", Kind: core.Income},
		{ID: "7", Name: "Freelance", Icon: "💻", Color: "#06b6d4", Kind: core.Income},
		{ID: "8", Name: "Inversiones", Icon: "📈", Color: "#8b5cf6", Kind: core.Income},
	}
}

// AddTransaction creates a transaction from input and prepends it to the
// collection, so natural order is most-recent-first for new records. The
// owning user is the current session user or the fixed fallback.
func (s *Store) AddTransaction(in core.TransactionInput) core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := core.Transaction{
		ID:          s.newID(),
		Amount:      in.Amount,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Kind:        in.Kind,
		Date:        in.Date,
		UserID:      s.currentUserIDLocked(),
	}
	s.transactions = append([]core.Transaction{t}, s.transactions...)
	return t
}

// DeleteTransaction removes the transaction with the given id. Unknown ids
// are silently tolerated, making deletion idempotent.
func (s *Store) DeleteTransaction(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions = removeByID(s.transactions, id, func(t core.Transaction) string { return t.ID })
}

// AddCategory appends a new category. Categories append rather than prepend:
// they are displayed grouped by kind, not by recency.
func (s *Store) AddCategory(in core.CategoryInput) core.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := core.Category{
		ID:    s.newID(),
		Name:  in.Name,
		Icon:  in.Icon,
		Color: in.Color,
		Kind:  in.Kind,
	}
	s.categories = append(s.categories, c)
	return c
}

// DeleteCategory removes a category by id. Transactions referencing it are
// left untouched; the dangling reference is papered over at display time.
func (s *Store) DeleteCategory(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories = removeByID(s.categories, id, func(c core.Category) string { return c.ID })
}

// AddGoal appends a new goal. CurrentAmount defaults to zero when unset.
func (s *Store) AddGoal(in core.GoalInput) core.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := core.Goal{
		ID:            s.newID(),
		Title:         in.Title,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: in.CurrentAmount,
		TargetDate:    in.TargetDate,
		Description:   in.Description,
		UserID:        s.currentUserIDLocked(),
	}
	s.goals = append(s.goals, g)
	return g
}

// DeleteGoal removes a goal by id; unknown ids are a no-op.
func (s *Store) DeleteGoal(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.goals = removeByID(s.goals, id, func(g core.Goal) string { return g.ID })
}

// ContributeToGoal adds amount to the goal's current amount, clamped at the
// target so CurrentAmount never exceeds TargetAmount. Unknown ids are a
// no-op. Callers reject non-positive amounts before calling.
func (s *Store) ContributeToGoal(id string, amount core.Money) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.goals {
		if s.goals[i].ID != id {
			continue
		}
		next := s.goals[i].CurrentAmount.Cents + amount.Cents
		if next > s.goals[i].TargetAmount.Cents {
			next = s.goals[i].TargetAmount.Cents
		}
		s.goals[i].CurrentAmount = core.Money{Cents: next}
		return
	}
}

// Login unconditionally succeeds and installs the demo user as the session
// user. Credential verification is a known stub, not a contract.
func (s *Store) Login(email, password string) core.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := demoUser
	s.user = &u
	s.authenticated = true
	return u
}

// Register unconditionally succeeds, deriving the session user from the demo
// template with the provided name and email.
func (s *Store) Register(name, email, password string) core.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := demoUser
	u.Name = name
	u.Email = email
	s.user = &u
	s.authenticated = true
	return u
}

// Logout clears the session user and authentication flag. The category,
// transaction and goal collections survive a logout.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.authenticated = false
}

// Authenticated reports whether a session user is installed.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Snapshot returns deep copies of the collections and the current user.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Categories:   append([]core.Category(nil), s.categories...),
		Transactions: append([]core.Transaction(nil), s.transactions...),
		Goals:        append([]core.Goal(nil), s.goals...),
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// Category looks up a category by id. The second return is false for
// dangling references; callers fall back to a default glyph.
func (s *Store) Category(id string) (core.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return core.Category{}, false
}

// Goal looks up a goal by id.
func (s *Store) Goal(id string) (core.Goal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.goals {
		if g.ID == id {
			return g, true
		}
	}
	return core.Goal{}, false
}

func (s *Store) currentUserIDLocked() string {
	if s.user != nil {
		return s.user.ID
	}
	return fallbackUserID
}

func removeByID[T any](items []T, id string, idOf func(T) string) []T {
	out := items[:0]
	for _, it := range items {
		if idOf(it) != id {
			out = append(out, it)
		}
	}
	return out
}
