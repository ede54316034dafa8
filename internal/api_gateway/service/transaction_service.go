package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/agent-dashboard/internal/domain/shared"
	"github.com/agent-dashboard/internal/domain/transaction"
	"github.com/agent-dashboard/internal/logger"
	"github.com/agent-dashboard/internal/reconciliation"
	"github.com/agent-dashboard/internal/session"
	"github.com/agent-dashboard/internal/transition"
)

// RecentLimit is how many transactions the dashboard shows
const RecentLimit = 5

// DashboardSummary is the merged view reduced to counts and the newest rows
type DashboardSummary struct {
	Counts reconciliation.Counts
	Recent []*transaction.Transaction
}

// TransactionServiceImpl implements the TransactionService interface
type TransactionServiceImpl struct {
	loader      ViewLoader
	coordinator Coordinator
	sessions    *session.Store
	logger      *slog.Logger
	now         func() time.Time
}

// NewTransactionService creates a new transaction service
func NewTransactionService(loader ViewLoader, coordinator Coordinator, sessions *session.Store, logger *slog.Logger) TransactionService {
	return &TransactionServiceImpl{
		loader:      loader,
		coordinator: coordinator,
		sessions:    sessions,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Dashboard loads both tables and keeps the merged view on the session
func (s *TransactionServiceImpl) Dashboard(ctx context.Context, token, viewer string) (*DashboardSummary, error) {
	view, err := s.loader.LoadMerged(ctx, viewer)
	if err != nil {
		s.logger.Error("Failed to load dashboard", "correlation_id", logger.CorrelationID(ctx), "username", viewer, "error", err)
		return nil, err
	}
	if !s.sessions.SetView(token, session.ViewDashboard, view) {
		return nil, session.ErrSessionNotFound
	}
	return &DashboardSummary{
		Counts: view.Counts(),
		Recent: view.Recent(RecentLimit),
	}, nil
}

// List loads one table and replaces the session view of that class
func (s *TransactionServiceImpl) List(ctx context.Context, token, viewer string, class shared.TransactionClass, filter shared.StatusFilter) ([]*transaction.Transaction, reconciliation.Counts, error) {
	view, err := s.loader.LoadClass(ctx, class, viewer)
	if err != nil {
		s.logger.Error("Failed to load transactions",
			"correlation_id", logger.CorrelationID(ctx),
			"username", viewer,
			"class", class,
			"error", err,
		)
		return nil, reconciliation.Counts{}, err
	}
	if !s.sessions.SetView(token, viewKind(class), view) {
		return nil, reconciliation.Counts{}, session.ErrSessionNotFound
	}
	return view.Filter(filter), view.Counts(), nil
}

// Get returns a transaction of the session's loaded listing of class, or of
// the dashboard view when that listing has not been loaded yet
func (s *TransactionServiceImpl) Get(ctx context.Context, token string, class shared.TransactionClass, number string) (*transaction.Transaction, error) {
	view, ok := s.sessions.View(token, viewKind(class))
	if !ok {
		view, ok = s.sessions.View(token, session.ViewDashboard)
	}
	if !ok {
		return nil, transaction.ErrViewNotLoaded
	}
	txn, ok := view.Lookup(class, number)
	if !ok {
		return nil, transaction.ErrTransactionNotFound{Class: class, Number: number}
	}
	return txn, nil
}

// Confirm dispatches to the class-specific confirm transition
func (s *TransactionServiceImpl) Confirm(ctx context.Context, token string, class shared.TransactionClass, number, referenceID string) (*transition.Result, error) {
	holder := s.sessions.Holder(token, viewKind(class))
	switch class {
	case shared.TransactionClassDeposit:
		return s.coordinator.ConfirmDeposit(ctx, holder, number)
	case shared.TransactionClassWithdrawal:
		return s.coordinator.ConfirmWithdrawal(ctx, holder, number, referenceID)
	default:
		return nil, shared.ErrInvalidTransactionClass
	}
}

// Reject dispatches to the class-specific reject transition
func (s *TransactionServiceImpl) Reject(ctx context.Context, token string, class shared.TransactionClass, number, reason string) (*transition.Result, error) {
	holder := s.sessions.Holder(token, viewKind(class))
	switch class {
	case shared.TransactionClassDeposit:
		return s.coordinator.RejectDeposit(ctx, holder, number, reason)
	case shared.TransactionClassWithdrawal:
		return s.coordinator.RejectWithdrawal(ctx, holder, number)
	default:
		return nil, shared.ErrInvalidTransactionClass
	}
}

// Commissions reports commission over the viewer's confirmed transactions
func (s *TransactionServiceImpl) Commissions(ctx context.Context, viewer string) (*reconciliation.CommissionReport, error) {
	view, err := s.loader.LoadMerged(ctx, viewer)
	if err != nil {
		s.logger.Error("Failed to load commissions", "correlation_id", logger.CorrelationID(ctx), "username", viewer, "error", err)
		return nil, err
	}
	return reconciliation.BuildCommissionReport(view, s.now()), nil
}

func viewKind(class shared.TransactionClass) session.ViewKind {
	if class == shared.TransactionClassWithdrawal {
		return session.ViewWithdrawals
	}
	return session.ViewDeposits
}
