// Package gateway implements both sides of the legacy record API: the HTTP
// client the transaction service calls, and the server that fronts the
// sqlite store.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// CreateTransactionRequest is the wire body for POST /transacciones/.
// Field names follow the legacy contract.
type CreateTransactionRequest struct {
	Descripcion string  `json:"descripcion"`
	Monto       float64 `json:"monto"`
	Fecha       string  `json:"fecha"`
	CategoriaID string  `json:"categoria_id,omitempty"`
}

// TransactionRecord is the wire shape of one stored record.
type TransactionRecord struct {
	ID          int64   `json:"id"`
	Descripcion string  `json:"descripcion"`
	Monto       float64 `json:"monto"`
	Fecha       string  `json:"fecha"`
	Categoria   string  `json:"categoria"`
}

// Client talks to the record gateway over HTTP. The zero value is not
// usable; construct with NewClient.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// CreateTransaction posts a record and returns the stored copy. A non-2xx
// response surfaces the response body in the returned error so callers can
// show the gateway's own message.
func (c *Client) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (TransactionRecord, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return TransactionRecord{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transacciones/", bytes.NewReader(body))
	if err != nil {
		return TransactionRecord{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return TransactionRecord{}, fmt.Errorf("post transaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return TransactionRecord{}, responseError("create transaction", resp)
	}

	var rec TransactionRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return TransactionRecord{}, fmt.Errorf("decode response: %w", err)
	}
	return rec, nil
}

// DeleteTransaction removes a record by id; 404 is returned as an error so
// the caller decides whether to treat it as idempotent success.
func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	url := fmt.Sprintf("%s/transacciones/%d/", c.baseURL, id)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("delete transaction %d: %w", id, ErrNotFound)
	default:
		return responseError("delete transaction", resp)
	}
}

// ListTransactions fetches all stored records.
func (c *Client) ListTransactions(ctx context.Context) ([]TransactionRecord, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transacciones/", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, responseError("list transactions", resp)
	}

	var out []TransactionRecord
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

// AdjustUserBalance applies a signed delta to a stored user's saldo.
func (c *Client) AdjustUserBalance(ctx context.Context, userID int64, delta float64) error {
	body, err := json.Marshal(map[string]float64{"delta": delta})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/usuarios/%d/saldo", c.baseURL, userID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("adjust balance for user %d: %w", userID, ErrNotFound)
	default:
		return responseError("adjust balance", resp)
	}
}

func responseError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = resp.Status
	}
	return fmt.Errorf("%s: gateway returned %d: %s", op, resp.StatusCode, msg)
}
