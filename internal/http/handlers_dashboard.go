package http

import (
	"net/http"
	"time"

	"finora/internal/core"
)

const dashboardRecentCount = 5

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	now := time.Now()

	summary := core.MonthSummary(snap.Transactions, snap.User, now)
	recent := core.RecentTransactions(snap.Transactions, dashboardRecentCount)
	goals := core.EvaluateGoals(snap.Goals, core.DateOf(now))

	resp := dashboardResponse{
		Summary: summaryResponse{
			IncomeCents:     summary.TotalIncome.Cents,
			ExpenseCents:    summary.TotalExpenses.Cents,
			BalanceCents:    summary.Balance,
			SavingsCents:    summary.Savings.Cents,
			SavingsProgress: summary.SavingsProgress,
		},
		Recent: toTransactionResponses(recent),
		Goals:  make([]goalResponse, 0, len(goals)),
	}
	for _, p := range goals {
		resp.Goals = append(resp.Goals, toGoalResponse(p))
	}

	writeJSON(w, http.StatusOK, resp)
}
