package http

import (
	"net/http"
	"time"

	"finora/internal/core"
	"finora/internal/log"
)

type createGoalRequest struct {
	Title         string `json:"title"`
	TargetAmount  string `json:"target_amount"`
	CurrentAmount string `json:"current_amount,omitempty"`
	TargetDate    string `json:"target_date"`
	Description   string `json:"description,omitempty"`
}

type contributionRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) handleListGoals(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	today := core.DateOf(time.Now())

	out := make([]goalResponse, 0, len(snap.Goals))
	for _, p := range core.EvaluateGoals(snap.Goals, today) {
		out = append(out, toGoalResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	target, err := core.ParseDecimalToCents(req.TargetAmount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid target amount")
		return
	}
	var current int64
	if req.CurrentAmount != "" {
		if current, err = core.ParseDecimalToCents(req.CurrentAmount); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid current amount")
			return
		}
	}
	date, err := parseDate(req.TargetDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid target date, want YYYY-MM-DD")
		return
	}

	in := core.GoalInput{
		Title:         req.Title,
		TargetAmount:  core.Money{Cents: target},
		CurrentAmount: core.Money{Cents: current},
		TargetDate:    date,
		Description:   req.Description,
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	g := s.store.AddGoal(in)
	s.logger.InfoContext(r.Context(), "Goal created",
		log.FieldOperation, log.OpCreate,
		log.FieldGoalID, g.ID)
	writeJSON(w, http.StatusCreated, toGoalResponse(core.EvaluateGoal(g, core.DateOf(time.Now()))))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteGoal(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req contributionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	if _, ok := s.store.Goal(id); !ok {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}

	s.store.ContributeToGoal(id, core.Money{Cents: cents})
	g, _ := s.store.Goal(id)

	s.logger.InfoContext(r.Context(), "Goal contribution recorded",
		log.FieldOperation, log.OpContribute,
		log.FieldGoalID, id,
		log.FieldAmountCents, cents)
	writeJSON(w, http.StatusOK, toGoalResponse(core.EvaluateGoal(g, core.DateOf(time.Now()))))
}
