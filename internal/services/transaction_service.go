// Package services coordinates store mutations with the record gateway and
// the event bus. The transaction service is the single write path for
// transactions.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"finora/internal/amqp"
	"finora/internal/core"
	"finora/internal/gateway"
	"finora/internal/log"
)

// RecordGateway is the slice of the gateway client the service needs.
type RecordGateway interface {
	CreateTransaction(ctx context.Context, req gateway.CreateTransactionRequest) (gateway.TransactionRecord, error)
	DeleteTransaction(ctx context.Context, id int64) error
}

// EventPublisher emits finance events after a mutation has committed.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *amqp.FinanceEvent) error
}

// TransactionStore is the store surface the service mutates.
type TransactionStore interface {
	AddTransaction(in core.TransactionInput) core.Transaction
	DeleteTransaction(id string)
}

// TransactionService persists transactions gateway-first: when a gateway is
// configured, the remote write must succeed before the local store changes.
// A failed gateway call leaves the store untouched.
type TransactionService struct {
	store     TransactionStore
	gw        RecordGateway  // nil runs local-only
	publisher EventPublisher // nil disables events
	logger    *log.Logger

	group singleflight.Group

	mu        sync.Mutex
	remoteIDs map[string]int64 // local transaction id -> gateway record id
}

func NewTransactionService(store TransactionStore, gw RecordGateway, publisher EventPublisher, logger *log.Logger) *TransactionService {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentTransaction)
	}
	return &TransactionService{
		store:     store,
		gw:        gw,
		publisher: publisher,
		logger:    logger,
		remoteIDs: make(map[string]int64),
	}
}

// Create validates the input, persists it through the gateway when one is
// configured, and only then records it locally. Identical concurrent submits
// collapse into a single create.
func (s *TransactionService) Create(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}

	key := submitKey(in)
	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.create(ctx, in)
	})
	if err != nil {
		return core.Transaction{}, err
	}
	if shared {
		s.logger.WarnContext(ctx, "Duplicate submit collapsed",
			log.FieldOperation, log.OpCreate)
	}
	return v.(core.Transaction), nil
}

func (s *TransactionService) create(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	var remoteID int64
	if s.gw != nil {
		rec, err := s.gw.CreateTransaction(ctx, gateway.CreateTransactionRequest{
			Descripcion: in.Description,
			Monto:       float64(in.Amount.Cents) / 100,
			Fecha:       in.Date.Format("2006-01-02"),
			CategoriaID: in.CategoryID,
		})
		if err != nil {
			return core.Transaction{}, fmt.Errorf("gateway create: %w", err)
		}
		remoteID = rec.ID
	}

	t := s.store.AddTransaction(in)

	if remoteID != 0 {
		s.mu.Lock()
		s.remoteIDs[t.ID] = remoteID
		s.mu.Unlock()
	}

	s.publish(ctx, amqp.NewTransactionCreated(
		t.ID, t.UserID, t.Amount.Cents, string(t.Kind), t.Date.Format("2006-01-02")))

	s.logger.InfoContext(ctx, "Transaction created",
		log.FieldOperation, log.OpCreate,
		log.FieldTransactionID, t.ID,
		log.FieldAmountCents, t.Amount.Cents,
		log.FieldKind, string(t.Kind),
		log.FieldGatewayRef, remoteID)
	return t, nil
}

// Delete removes a transaction gateway-first. A gateway 404 counts as
// success so deletes stay idempotent; any other gateway failure keeps the
// local record.
func (s *TransactionService) Delete(ctx context.Context, t core.Transaction) error {
	s.mu.Lock()
	remoteID, tracked := s.remoteIDs[t.ID]
	s.mu.Unlock()

	if s.gw != nil && tracked {
		if err := s.gw.DeleteTransaction(ctx, remoteID); err != nil && !errors.Is(err, gateway.ErrNotFound) {
			return fmt.Errorf("gateway delete: %w", err)
		}
	}

	s.store.DeleteTransaction(t.ID)

	s.mu.Lock()
	delete(s.remoteIDs, t.ID)
	s.mu.Unlock()

	s.publish(ctx, amqp.NewTransactionDeleted(
		t.ID, t.UserID, t.Amount.Cents, string(t.Kind), t.Date.Format("2006-01-02")))

	s.logger.InfoContext(ctx, "Transaction deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldTransactionID, t.ID,
		log.FieldGatewayRef, remoteID)
	return nil
}

// publish sends the event best-effort. A bus outage never fails the
// mutation that already committed.
func (s *TransactionService) publish(ctx context.Context, event *amqp.FinanceEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Event publish failed",
			log.FieldError, err,
			log.FieldTransactionID, event.TransactionID)
	}
}

func submitKey(in core.TransactionInput) string {
	return fmt.Sprintf("%s|%d|%s|%s|%s",
		in.Description, in.Amount.Cents, string(in.Kind), in.CategoryID, in.Date.Format("2006-01-02"))
}
