package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"finora/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody decodes a JSON request body into dst, rejecting unknown fields.
// A false return means the 400 response has already been written.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// parseDate parses a YYYY-MM-DD date string.
func parseDate(s string) (core.Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return core.Date{}, err
	}
	return core.DateOf(t), nil
}

// parseDateRange reads start/end query parameters. Missing values default to
// the current calendar year.
func parseDateRange(r *http.Request) (from, to core.Date, err error) {
	now := time.Now()
	from = core.NewDate(now.Year(), 1, 1)
	to = core.NewDate(now.Year(), 12, 31)

	if v := r.URL.Query().Get("start"); v != "" {
		if from, err = parseDate(v); err != nil {
			return from, to, err
		}
	}
	if v := r.URL.Query().Get("end"); v != "" {
		if to, err = parseDate(v); err != nil {
			return from, to, err
		}
	}
	return from, to, nil
}
