package amqp

import (
	"testing"
	"time"
)

func TestFinanceEventRoundTrip(t *testing.T) {
	event := NewTransactionCreated("tx-1", "1", 2500000, "expense", "2024-01-15")

	body, err := event.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := FinanceEventFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.Type != EventTransactionCreated {
		t.Errorf("type: got %q", decoded.Type)
	}
	if decoded.TransactionID != "tx-1" || decoded.UserID != "1" {
		t.Errorf("ids: got %q / %q", decoded.TransactionID, decoded.UserID)
	}
	if decoded.AmountCents != 2500000 {
		t.Errorf("amount: got %d", decoded.AmountCents)
	}
	if decoded.Kind != "expense" || decoded.Date != "2024-01-15" {
		t.Errorf("kind/date: got %q / %q", decoded.Kind, decoded.Date)
	}
	if decoded.OccurredAt.IsZero() {
		t.Errorf("occurred_at should be set")
	}
}

func TestNewTransactionDeleted(t *testing.T) {
	before := time.Now()
	event := NewTransactionDeleted("tx-2", "1", 100, "income", "2024-02-01")

	if event.Type != EventTransactionDeleted {
		t.Errorf("type: got %q", event.Type)
	}
	if event.OccurredAt.Before(before.Add(-time.Second)) {
		t.Errorf("occurred_at too old: %v", event.OccurredAt)
	}
}

func TestFinanceEventFromJSONInvalid(t *testing.T) {
	if _, err := FinanceEventFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
