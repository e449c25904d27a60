package amqp

import (
	"encoding/json"
	"time"
)

const (
	EventTransactionCreated = "transaction.created"
	EventTransactionDeleted = "transaction.deleted"
)

// FinanceEvent is published after a store mutation succeeds. Consumers use
// it to keep downstream copies (legacy balances, report exports) in sync;
// it carries everything a consumer needs without a callback to the API.
type FinanceEvent struct {
	Type          string    `json:"type"`
	TransactionID string    `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	AmountCents   int64     `json:"amount_cents"`
	Kind          string    `json:"kind"`
	Date          string    `json:"date"` // ISO calendar date
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewTransactionCreated builds a creation event.
func NewTransactionCreated(txID, userID string, amountCents int64, kind, date string) *FinanceEvent {
	return &FinanceEvent{
		Type:          EventTransactionCreated,
		TransactionID: txID,
		UserID:        userID,
		AmountCents:   amountCents,
		Kind:          kind,
		Date:          date,
		OccurredAt:    time.Now(),
	}
}

// NewTransactionDeleted builds a deletion event.
func NewTransactionDeleted(txID, userID string, amountCents int64, kind, date string) *FinanceEvent {
	return &FinanceEvent{
		Type:          EventTransactionDeleted,
		TransactionID: txID,
		UserID:        userID,
		AmountCents:   amountCents,
		Kind:          kind,
		Date:          date,
		OccurredAt:    time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *FinanceEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FinanceEventFromJSON creates an event from JSON bytes
func FinanceEventFromJSON(data []byte) (*FinanceEvent, error) {
	var e FinanceEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
