package http

import (
	"errors"
	"net/http"

	"finora/internal/core"
)

type createTransactionRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Kind        string `json:"kind"`
	CategoryID  string `json:"category_id"`
	Date        string `json:"date"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	writeJSON(w, http.StatusOK, toTransactionResponses(snap.Transactions))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date, want YYYY-MM-DD")
		return
	}

	in := core.TransactionInput{
		Amount:      core.Money{Cents: cents},
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Kind:        core.Kind(req.Kind),
		Date:        date,
	}

	t, err := s.tx.Create(r.Context(), in)
	switch {
	case err == nil:
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrInvalidKind),
		errors.Is(err, core.ErrInvalidDate):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	default:
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.metrics.transactionsCreated.Add(1)
	s.purgeReports()
	writeJSON(w, http.StatusCreated, toTransactionResponse(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var target *core.Transaction
	for _, t := range s.store.Snapshot().Transactions {
		if t.ID == id {
			t := t
			target = &t
			break
		}
	}
	if target == nil {
		// Unknown ids delete cleanly; repeated deletes are a no-op.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := s.tx.Delete(r.Context(), *target); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.purgeReports()
	w.WriteHeader(http.StatusNoContent)
}
