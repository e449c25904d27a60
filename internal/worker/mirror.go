// Package worker consumes finance events and keeps the legacy usuarios
// balances in sync with the transaction stream.
package worker

import (
	"context"
	"errors"
	"strconv"

	"finora/internal/amqp"
	"finora/internal/core"
	"finora/internal/gateway"
	"finora/internal/log"
)

// EventConsumer delivers decoded finance events to a handler.
type EventConsumer interface {
	ConsumeEvents(ctx context.Context, handler func(*amqp.FinanceEvent) error) error
}

// BalanceAdjuster applies signed balance deltas to stored users.
type BalanceAdjuster interface {
	AdjustUserBalance(ctx context.Context, userID int64, delta float64) error
}

// Mirror folds transaction events into per-user running balances. Income
// adds, expense subtracts; a delete reverses the original effect.
type Mirror struct {
	consumer EventConsumer
	balances BalanceAdjuster
	logger   *log.Logger
}

func NewMirror(consumer EventConsumer, balances BalanceAdjuster, logger *log.Logger) *Mirror {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentWorker)
	}
	return &Mirror{consumer: consumer, balances: balances, logger: logger}
}

// Run consumes events until ctx is done.
func (m *Mirror) Run(ctx context.Context) error {
	return m.consumer.ConsumeEvents(ctx, func(e *amqp.FinanceEvent) error {
		return m.Handle(ctx, e)
	})
}

// Handle applies one event to the mirrored balance. Malformed events and
// unknown users are dropped rather than requeued; redelivery cannot fix
// either.
func (m *Mirror) Handle(ctx context.Context, e *amqp.FinanceEvent) error {
	userID, err := strconv.ParseInt(e.UserID, 10, 64)
	if err != nil {
		m.logger.WarnContext(ctx, "Dropping event with non-numeric user id",
			log.FieldUserID, e.UserID,
			log.FieldTransactionID, e.TransactionID)
		return nil
	}

	delta, ok := balanceDelta(e)
	if !ok {
		m.logger.WarnContext(ctx, "Dropping event with unknown type or kind",
			"type", e.Type,
			log.FieldKind, e.Kind,
			log.FieldTransactionID, e.TransactionID)
		return nil
	}

	err = m.balances.AdjustUserBalance(ctx, userID, delta)
	switch {
	case err == nil:
		m.logger.InfoContext(ctx, "Mirrored balance",
			log.FieldOperation, log.OpMirror,
			log.FieldUserID, e.UserID,
			log.FieldTransactionID, e.TransactionID,
			"delta", delta)
		return nil
	case errors.Is(err, gateway.ErrNotFound):
		m.logger.WarnContext(ctx, "Dropping event for unmirrored user",
			log.FieldUserID, e.UserID,
			log.FieldTransactionID, e.TransactionID)
		return nil
	default:
		return err
	}
}

// balanceDelta maps an event to the signed amount it contributes to the
// user's balance, in whole currency units.
func balanceDelta(e *amqp.FinanceEvent) (float64, bool) {
	amount := float64(e.AmountCents) / 100

	var sign float64
	switch core.Kind(e.Kind) {
	case core.Income:
		sign = 1
	case core.Expense:
		sign = -1
	default:
		return 0, false
	}

	switch e.Type {
	case amqp.EventTransactionCreated:
		return sign * amount, true
	case amqp.EventTransactionDeleted:
		return -sign * amount, true
	default:
		return 0, false
	}
}
