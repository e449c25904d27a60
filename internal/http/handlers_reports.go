package http

import (
	"encoding/json"
	"net/http"

	"finora/internal/core"
)

func (s *Server) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date range, want YYYY-MM-DD")
		return
	}

	kind := core.Expense
	if v := r.URL.Query().Get("kind"); v != "" {
		kind = core.Kind(v)
		if err := kind.Validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid kind")
			return
		}
	}
	categoryID := r.URL.Query().Get("category")

	cacheKey := "categories|" + r.URL.RawQuery
	if body, ok := s.reportCache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	snap := s.store.Snapshot()
	totals := core.CategoryBreakdown(snap.Transactions, snap.Categories, kind, from, to, categoryID)

	out := make([]categoryTotalResponse, 0, len(totals))
	for _, t := range totals {
		out = append(out, categoryTotalResponse{
			CategoryID: t.CategoryID,
			Name:       t.Name,
			Icon:       t.Icon,
			Color:      t.Color,
			TotalCents: t.Total.Cents,
			Percent:    t.Percent,
		})
	}

	s.writeCachedJSON(w, cacheKey, out)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date range, want YYYY-MM-DD")
		return
	}

	order := core.BucketOrderFirstSeen
	if v := r.URL.Query().Get("order"); v != "" {
		order = core.BucketOrder(v)
		if order != core.BucketOrderFirstSeen && order != core.BucketOrderCalendar {
			writeError(w, http.StatusUnprocessableEntity, "invalid order, want first_seen or calendar")
			return
		}
	}
	categoryID := r.URL.Query().Get("category")

	cacheKey := "monthly|" + r.URL.RawQuery
	if body, ok := s.reportCache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	snap := s.store.Snapshot()
	buckets := core.MonthlyBuckets(snap.Transactions, from, to, categoryID, order)

	out := make([]monthBucketResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, monthBucketResponse{
			Month:        b.Month,
			Year:         b.Year,
			IncomeCents:  b.Income.Cents,
			ExpenseCents: b.Expenses.Cents,
		})
	}

	s.writeCachedJSON(w, cacheKey, out)
}

// writeCachedJSON stores the marshaled body under key before writing it, so
// the next identical query is served from the cache.
func (s *Server) writeCachedJSON(w http.ResponseWriter, key string, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode response")
		return
	}
	body = append(body, '\n')
	s.reportCache.Set(key, body)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
