package http

import "finora/internal/core"

// Wire shapes for the JSON API. Amounts travel as integer cents plus a
// preformatted display string.

type userResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	MonthlyGoalCents int64  `json:"monthly_goal_cents"`
	CreatedAt        string `json:"created_at"`
}

type transactionResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	Kind        string `json:"kind"`
	CategoryID  string `json:"category_id"`
	Date        string `json:"date"`
	UserID      string `json:"user_id"`
}

type categoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
	Kind  string `json:"kind"`
}

type goalResponse struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	TargetCents   int64   `json:"target_cents"`
	CurrentCents  int64   `json:"current_cents"`
	TargetDate    string  `json:"target_date"`
	Description   string  `json:"description,omitempty"`
	UserID        string  `json:"user_id"`
	Percent       float64 `json:"percent"`
	DaysRemaining int     `json:"days_remaining"`
	State         string  `json:"state"`
}

type summaryResponse struct {
	IncomeCents     int64   `json:"income_cents"`
	ExpenseCents    int64   `json:"expense_cents"`
	BalanceCents    int64   `json:"balance_cents"`
	SavingsCents    int64   `json:"savings_cents"`
	SavingsProgress float64 `json:"savings_progress"`
}

type categoryTotalResponse struct {
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	Icon       string  `json:"icon"`
	Color      string  `json:"color"`
	TotalCents int64   `json:"total_cents"`
	Percent    float64 `json:"percent"`
}

type monthBucketResponse struct {
	Month        string `json:"month"`
	Year         int    `json:"year"`
	IncomeCents  int64  `json:"income_cents"`
	ExpenseCents int64  `json:"expense_cents"`
}

type dashboardResponse struct {
	Summary summaryResponse       `json:"summary"`
	Recent  []transactionResponse `json:"recent"`
	Goals   []goalResponse        `json:"goals"`
}

func toUserResponse(u core.User) userResponse {
	return userResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		MonthlyGoalCents: u.MonthlyGoal.Cents,
		CreatedAt:        u.CreatedAt.Format("2006-01-02"),
	}
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Description: t.Description,
		AmountCents: t.Amount.Cents,
		Amount:      t.Amount.Format(),
		Kind:        string(t.Kind),
		CategoryID:  t.CategoryID,
		Date:        t.Date.Format("2006-01-02"),
		UserID:      t.UserID,
	}
}

func toTransactionResponses(ts []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTransactionResponse(t))
	}
	return out
}

func toCategoryResponse(c core.Category) categoryResponse {
	return categoryResponse{
		ID:    c.ID,
		Name:  c.Name,
		Icon:  c.Icon,
		Color: c.Color,
		Kind:  string(c.Kind),
	}
}

func toGoalResponse(p core.GoalProgress) goalResponse {
	return goalResponse{
		ID:            p.Goal.ID,
		Title:         p.Goal.Title,
		TargetCents:   p.Goal.TargetAmount.Cents,
		CurrentCents:  p.Goal.CurrentAmount.Cents,
		TargetDate:    p.Goal.TargetDate.Format("2006-01-02"),
		Description:   p.Goal.Description,
		UserID:        p.Goal.UserID,
		Percent:       p.Percent,
		DaysRemaining: p.DaysRemaining,
		State:         string(p.State),
	}
}
