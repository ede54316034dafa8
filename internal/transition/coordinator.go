// Package transition drives the confirm and reject lifecycle of a single
// transaction against the record store.
package transition

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/agent-dashboard/internal/domain/shared"
	"github.com/agent-dashboard/internal/domain/transaction"
	"github.com/agent-dashboard/internal/logger"
	"github.com/agent-dashboard/internal/platform/messaging/producers"
	"github.com/agent-dashboard/internal/reconciliation"
	"github.com/shopspring/decimal"
)

// ViewLoader rebuilds a single-table view from the read source
type ViewLoader interface {
	LoadClass(ctx context.Context, class shared.TransactionClass, viewer string) (*reconciliation.View, error)
}

// ViewHolder owns the view a transition acts on. Replace reports false when
// the owning session is gone, in which case the fresh view is dropped.
type ViewHolder interface {
	Current() (*reconciliation.View, bool)
	Replace(view *reconciliation.View) bool
	Clear()
}

// Result describes a transition the record store accepted
type Result struct {
	Transaction *transaction.Transaction
	Status      shared.TransactionStatus
	Commission  decimal.Decimal
	Currency    string
	Message     string
	Reloaded    bool // The view was rebuilt from the read source
}

// Coordinator validates preconditions, issues the record-store writes and
// re-derives the view afterwards. It never patches a view in place.
type Coordinator struct {
	store    transaction.Store
	loader   ViewLoader
	events   producers.MessagePublisher
	dlq      producers.DeadLetterPublisher
	logger   *slog.Logger
	inFlight sync.Map
}

func NewCoordinator(
	store transaction.Store,
	loader ViewLoader,
	events producers.MessagePublisher,
	dlq producers.DeadLetterPublisher,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		store:  store,
		loader: loader,
		events: events,
		dlq:    dlq,
		logger: logger,
	}
}

type request struct {
	class       shared.TransactionClass
	number      string
	target      shared.TransactionStatus
	referenceID string
	reason      string
}

// ConfirmDeposit sets a pending deposit to Confirmed
func (c *Coordinator) ConfirmDeposit(ctx context.Context, views ViewHolder, number string) (*Result, error) {
	return c.run(ctx, views, request{
		class:  shared.TransactionClassDeposit,
		number: number,
		target: shared.TransactionStatusConfirmed,
	})
}

// ConfirmWithdrawal sets a pending withdrawal to Confirmed and attaches the
// external reference in the same write
func (c *Coordinator) ConfirmWithdrawal(ctx context.Context, views ViewHolder, number, referenceID string) (*Result, error) {
	referenceID = strings.TrimSpace(referenceID)
	if referenceID == "" {
		return nil, transaction.ErrValidation{Field: "trx_id", Message: MessageMissingReference}
	}
	return c.run(ctx, views, request{
		class:       shared.TransactionClassWithdrawal,
		number:      number,
		target:      shared.TransactionStatusConfirmed,
		referenceID: referenceID,
	})
}

// RejectDeposit sets a pending deposit to Rejected and records the reason.
// The two writes are independent; a failure of either is reported as
// ErrPartialWriteFailure.
func (c *Coordinator) RejectDeposit(ctx context.Context, views ViewHolder, number, reason string) (*Result, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, transaction.ErrValidation{Field: "reason", Message: MessageMissingReason}
	}
	return c.run(ctx, views, request{
		class:  shared.TransactionClassDeposit,
		number: number,
		target: shared.TransactionStatusRejected,
		reason: reason,
	})
}

// RejectWithdrawal sets a pending withdrawal to Rejected. No reason is captured.
func (c *Coordinator) RejectWithdrawal(ctx context.Context, views ViewHolder, number string) (*Result, error) {
	return c.run(ctx, views, request{
		class:  shared.TransactionClassWithdrawal,
		number: number,
		target: shared.TransactionStatusRejected,
	})
}

func (c *Coordinator) run(ctx context.Context, views ViewHolder, req request) (*Result, error) {
	log := c.logger.With(
		"correlation_id", logger.CorrelationID(ctx),
		"class", req.class,
		"transaction_number", req.number,
		"target_status", req.target,
	)

	view, ok := views.Current()
	if !ok {
		return nil, transaction.ErrViewNotLoaded
	}
	txn, ok := view.Lookup(req.class, req.number)
	if !ok {
		return nil, transaction.ErrTransactionNotFound{Class: req.class, Number: req.number}
	}
	if !txn.IsPending() {
		return nil, transaction.ErrNotPending{Number: txn.Number, Status: txn.Status}
	}

	key := txn.Key()
	if _, busy := c.inFlight.LoadOrStore(key, struct{}{}); busy {
		log.Warn("Transition refused, another one is in flight")
		return nil, transaction.ErrTransitionInProgress
	}
	defer c.inFlight.Delete(key)

	event := transaction.NewTransitionEvent(txn, req.target, view.Viewer())
	event.ReferenceID = req.referenceID
	event.Reason = req.reason
	event.CorrelationID = logger.CorrelationID(ctx)

	log.Info("Issuing transition", "agent", view.Viewer())

	if err := c.write(ctx, req); err != nil {
		var partial transaction.ErrPartialWriteFailure
		if errors.As(err, &partial) && !partial.StatusFailed() {
			// The status change landed, so the view is stale either way
			c.reload(ctx, log, views, req.class, view.Viewer())
			c.deadLetter(ctx, log, event, err)
		}
		log.Error("Transition failed", "error", err)
		return nil, err
	}

	result := &Result{
		Transaction: txn,
		Status:      req.target,
		Commission:  txn.Commission(),
		Currency:    txn.CommissionCurrency(),
		Message:     successMessage(req, txn),
	}
	result.Reloaded = c.reload(ctx, log, views, req.class, view.Viewer())

	if err := c.events.Publish(ctx, event.Key(), event); err != nil {
		log.Error("Failed to publish transition event", "error", err)
	}

	log.Info("Transition applied", "reloaded", result.Reloaded)
	return result, nil
}

func (c *Coordinator) write(ctx context.Context, req request) error {
	if req.class == shared.TransactionClassDeposit && req.target == shared.TransactionStatusRejected {
		statusErr := c.store.UpdateStatus(ctx, req.class, req.number, req.target, "")
		reasonErr := c.store.UpdateReason(ctx, req.number, req.reason)
		if statusErr != nil || reasonErr != nil {
			return transaction.ErrPartialWriteFailure{
				Number:    req.number,
				StatusErr: statusErr,
				ReasonErr: reasonErr,
			}
		}
		return nil
	}
	return c.store.UpdateStatus(ctx, req.class, req.number, req.target, req.referenceID)
}

// reload replaces the session view with a fresh one. A failed reload clears
// the view so the next transition cannot act on stale rows.
func (c *Coordinator) reload(ctx context.Context, log *slog.Logger, views ViewHolder, class shared.TransactionClass, viewer string) bool {
	fresh, err := c.loader.LoadClass(ctx, class, viewer)
	if err != nil {
		log.Warn("Reload after transition failed, clearing view", "error", err)
		views.Clear()
		return false
	}
	if !views.Replace(fresh) {
		log.Debug("Session closed before reload finished, discarding view")
		return false
	}
	return true
}

func (c *Coordinator) deadLetter(ctx context.Context, log *slog.Logger, event *transaction.TransitionEvent, cause error) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error("Failed to marshal transition event for DLQ", "error", err)
		return
	}
	if err := c.dlq.PublishToDLQ(ctx, event.Key(), payload, cause.Error()); err != nil {
		log.Error("Failed to publish transition event to DLQ", "error", err)
	}
}
