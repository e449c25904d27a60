package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finora/internal/services"
	"finora/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	st := store.NewSeeded()
	svc := services.NewTransactionService(st, nil, nil, nil)
	s := NewServer(":0", st, svc, nil)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func createTransaction(t *testing.T, s *Server, desc, amount, kind, category, date string) transactionResponse {
	t.Helper()

	rec := doJSON(t, s, http.MethodPost, "/api/transactions", map[string]string{
		"description": desc,
		"amount":      amount,
		"kind":        kind,
		"category_id": category,
		"date":        date,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var tx transactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tx))
	return tx
}

func TestLoginReturnsSessionUser(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/login", map[string]string{
		"email":    "keylerarias005@gmail.com",
		"password": "whatever",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var u userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	assert.Equal(t, "Keyler Arias", u.Name)
	assert.Equal(t, int64(20000000), u.MonthlyGoalCents)
}

func TestLoginRequiresEmail(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/login", map[string]string{"password": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRegisterThenLogoutKeepsCollections(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/register", map[string]string{
		"name":  "Ada",
		"email": "ada@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	createTransaction(t, s, "Coffee", "3.50", "expense", "1", "2025-03-10")

	rec = doJSON(t, s, http.MethodPost, "/api/logout", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/transactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var txs []transactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txs))
	assert.Len(t, txs, 1)
}

func TestCreateTransactionPrepends(t *testing.T) {
	s := newTestServer(t)

	createTransaction(t, s, "first", "10.00", "expense", "1", "2025-03-01")
	createTransaction(t, s, "second", "20.00", "income", "6", "2025-03-02")

	rec := doJSON(t, s, http.MethodGet, "/api/transactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var txs []transactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txs))
	require.Len(t, txs, 2)
	assert.Equal(t, "second", txs[0].Description)
	assert.Equal(t, "first", txs[1].Description)
}

func TestCreateTransactionValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{
			name: "bad amount",
			body: map[string]string{"description": "x", "amount": "-5", "kind": "expense", "category_id": "1", "date": "2025-01-01"},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "bad date",
			body: map[string]string{"description": "x", "amount": "5", "kind": "expense", "category_id": "1", "date": "01/01/2025"},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "empty description",
			body: map[string]string{"description": "  ", "amount": "5", "kind": "expense", "category_id": "1", "date": "2025-01-01"},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "bad kind",
			body: map[string]string{"description": "x", "amount": "5", "kind": "transfer", "category_id": "1", "date": "2025-01-01"},
			want: http.StatusUnprocessableEntity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/transactions", tc.body)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestCreateTransactionMalformedJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteTransactionIsIdempotent(t *testing.T) {
	s := newTestServer(t)

	tx := createTransaction(t, s, "to delete", "12.00", "expense", "1", "2025-03-01")

	rec := doJSON(t, s, http.MethodDelete, "/api/transactions/"+tx.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/api/transactions/"+tx.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/api/transactions/never-existed", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCategoriesSeededAndMutable(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cats []categoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	require.Len(t, cats, 8)
	assert.Equal(t, "Alimentación", cats[0].Name)

	rec = doJSON(t, s, http.MethodPost, "/api/categories", map[string]string{
		"name": "Mascotas", "icon": "🐾", "color": "#f97316", "kind": "expense",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/categories", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	require.Len(t, cats, 9)
	assert.Equal(t, "Mascotas", cats[8].Name, "new categories append")
}

func TestDeleteCategoryLeavesTransactions(t *testing.T) {
	s := newTestServer(t)

	createTransaction(t, s, "lunch", "15.00", "expense", "1", "2025-03-01")

	rec := doJSON(t, s, http.MethodDelete, "/api/categories/1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/transactions", nil)
	var txs []transactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txs))
	require.Len(t, txs, 1)
	assert.Equal(t, "1", txs[0].CategoryID, "dangling reference kept")
}

func TestGoalLifecycle(t *testing.T) {
	s := newTestServer(t)

	future := time.Now().AddDate(1, 0, 0).Format("2006-01-02")
	rec := doJSON(t, s, http.MethodPost, "/api/goals", map[string]string{
		"title":         "Emergency fund",
		"target_amount": "1000.00",
		"target_date":   future,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var g goalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	assert.Equal(t, int64(100000), g.TargetCents)
	assert.Zero(t, g.CurrentCents)
	assert.Equal(t, "in_progress", g.State)

	rec = doJSON(t, s, http.MethodPost, "/api/goals/"+g.ID+"/contributions", map[string]string{"amount": "900.00"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	assert.Equal(t, int64(90000), g.CurrentCents)

	// Overshooting clamps at the target and completes the goal.
	rec = doJSON(t, s, http.MethodPost, "/api/goals/"+g.ID+"/contributions", map[string]string{"amount": "500.00"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	assert.Equal(t, int64(100000), g.CurrentCents)
	assert.Equal(t, "completed", g.State)
}

func TestContributeToUnknownGoal(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/goals/nope/contributions", map[string]string{"amount": "10"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardAggregates(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/login", map[string]string{"email": "a@b.c"})
	require.Equal(t, http.StatusOK, rec.Code)

	today := time.Now().Format("2006-01-02")
	createTransaction(t, s, "Salary", "25000.00", "income", "6", today)
	createTransaction(t, s, "Rent", "250.00", "expense", "4", today)

	rec = doJSON(t, s, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dash dashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	assert.Equal(t, int64(2500000), dash.Summary.IncomeCents)
	assert.Equal(t, int64(25000), dash.Summary.ExpenseCents)
	assert.Equal(t, int64(2475000), dash.Summary.BalanceCents)
	assert.Equal(t, int64(2475000), dash.Summary.SavingsCents)
	require.Len(t, dash.Recent, 2)
	assert.Equal(t, "Salary", dash.Recent[0].Description)
}

func TestCategoryReportReflectsMutations(t *testing.T) {
	s := newTestServer(t)

	createTransaction(t, s, "lunch", "100.00", "expense", "1", "2025-03-01")

	get := func() []categoryTotalResponse {
		rec := doJSON(t, s, http.MethodGet, "/api/reports/categories?start=2025-01-01&end=2025-12-31", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var out []categoryTotalResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	first := get()
	require.Len(t, first, 1)
	assert.Equal(t, int64(10000), first[0].TotalCents)
	assert.InDelta(t, 100.0, first[0].Percent, 0.001)

	// Served from cache the second time around.
	get()
	assert.Positive(t, s.reportCache.Hits())

	// A mutation purges the cache, so the report picks up the new total.
	createTransaction(t, s, "bus", "100.00", "expense", "2", "2025-03-02")
	second := get()
	require.Len(t, second, 2)
}

func TestMonthlyReportOrders(t *testing.T) {
	s := newTestServer(t)

	// March first, then January. First-seen order follows insertion at the
	// head of the list, so January (most recently added) comes first.
	createTransaction(t, s, "march", "10.00", "expense", "1", "2025-03-05")
	createTransaction(t, s, "january", "20.00", "expense", "1", "2025-01-15")

	rec := doJSON(t, s, http.MethodGet, "/api/reports/monthly?start=2025-01-01&end=2025-12-31&order=calendar", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var buckets []monthBucketResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &buckets))
	require.Len(t, buckets, 2)
	assert.Equal(t, "Jan", buckets[0].Month)
	assert.Equal(t, "Mar", buckets[1].Month)

	rec = doJSON(t, s, http.MethodGet, "/api/reports/monthly?start=2025-01-01&end=2025-12-31&order=sideways", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRateLimitOnMutatingMethods(t *testing.T) {
	s := newTestServer(t)

	var last int
	for i := 0; i < 70; i++ {
		rec := doJSON(t, s, http.MethodPost, "/api/login", map[string]string{"email": "a@b.c"})
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)

	// Reads are not rate limited.
	rec := doJSON(t, s, http.MethodGet, "/api/transactions", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	createTransaction(t, s, "x", "1.00", "expense", "1", "2025-01-01")

	rec = doJSON(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, fmt.Sprintf("transactions_created_total %d", 1))
	assert.Contains(t, body, "uptime_seconds")
}
