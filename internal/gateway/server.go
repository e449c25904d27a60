package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"finora/internal/log"
	"finora/internal/storage"
)

// ErrNotFound marks a lookup miss on the gateway.
var ErrNotFound = errors.New("record not found")

// Server fronts the sqlite repository with the legacy record API.
type Server struct {
	http.Server
	repo *storage.SQLiteRepository
}

func NewServer(addr string, repo *storage.SQLiteRepository) *Server {
	s := &Server{repo: repo}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/transacciones/", s.handleTransactions)
	mux.HandleFunc("/usuarios", s.handleUsers)
	mux.HandleFunc("/usuarios/", s.handleUserBalance)

	logger := log.New(log.DefaultConfig()).WithComponent(log.ComponentGateway)

	s.Server = http.Server{
		Addr:         addr,
		Handler:      log.Middleware(logger)(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/transacciones/")
	rest = strings.TrimSuffix(rest, "/")

	switch {
	case rest == "" && r.Method == http.MethodGet:
		s.listTransactions(w, r)
	case rest == "" && r.Method == http.MethodPost:
		s.createTransaction(w, r)
	case rest != "" && r.Method == http.MethodDelete:
		s.deleteTransaction(w, r, rest)
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Descripcion) == "" || req.Monto <= 0 || strings.TrimSpace(req.Fecha) == "" {
		writeJSONError(w, http.StatusBadRequest, "descripcion, monto and fecha are required")
		return
	}

	rec, err := s.repo.CreateTransaction(r.Context(), storage.TransactionRecord{
		Descripcion: req.Descripcion,
		Monto:       req.Monto,
		Fecha:       req.Fecha,
		Categoria:   req.CategoriaID,
	})
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Create transaction record failed", log.FieldError, err)
		writeJSONError(w, http.StatusInternalServerError, "could not store record")
		return
	}

	writeJSON(w, http.StatusCreated, TransactionRecord{
		ID:          rec.ID,
		Descripcion: rec.Descripcion,
		Monto:       rec.Monto,
		Fecha:       rec.Fecha,
		Categoria:   rec.Categoria,
	})
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid id")
		return
	}

	deleted, err := s.repo.DeleteTransaction(r.Context(), id)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Delete transaction record failed", log.FieldError, err, "id", id)
		writeJSONError(w, http.StatusInternalServerError, "could not delete record")
		return
	}
	if !deleted {
		writeJSONError(w, http.StatusNotFound, "record not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	records, err := s.repo.ListTransactions(r.Context())
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "List transaction records failed", log.FieldError, err)
		writeJSONError(w, http.StatusInternalServerError, "could not list records")
		return
	}

	out := make([]TransactionRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, TransactionRecord{
			ID:          rec.ID,
			Descripcion: rec.Descripcion,
			Monto:       rec.Monto,
			Fecha:       rec.Fecha,
			Categoria:   rec.Categoria,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type userPayload struct {
	ID     int64   `json:"id,omitempty"`
	Nombre string  `json:"nombre"`
	Email  string  `json:"email"`
	Saldo  float64 `json:"saldo"`
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		users, err := s.repo.ListUsers(r.Context())
		if err != nil {
			log.FromContext(r.Context()).ErrorContext(r.Context(), "List users failed", log.FieldError, err)
			writeJSONError(w, http.StatusInternalServerError, "could not list users")
			return
		}
		out := make([]userPayload, 0, len(users))
		for _, u := range users {
			out = append(out, userPayload{ID: u.ID, Nombre: u.Nombre, Email: u.Email, Saldo: u.Saldo})
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var req userPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		u, err := s.repo.CreateUser(r.Context(), storage.UserRecord{
			Nombre: req.Nombre,
			Email:  req.Email,
			Saldo:  req.Saldo, // defaults to 0 when absent
		})
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, userPayload{ID: u.ID, Nombre: u.Nombre, Email: u.Email, Saldo: u.Saldo})
	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleUserBalance serves PATCH /usuarios/{id}/saldo, the worker's hook for
// mirroring the running balance.
func (s *Server) handleUserBalance(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/usuarios/")
	parts := strings.Split(strings.TrimSuffix(rest, "/"), "/")
	if len(parts) != 2 || parts[1] != "saldo" || r.Method != http.MethodPatch {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req struct {
		Delta float64 `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ok, err := s.repo.AdjustUserBalance(r.Context(), id, req.Delta)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Adjust balance failed", log.FieldError, err, "id", id)
		writeJSONError(w, http.StatusInternalServerError, "could not adjust balance")
		return
	}
	if !ok {
		writeJSONError(w, http.StatusNotFound, "user not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
