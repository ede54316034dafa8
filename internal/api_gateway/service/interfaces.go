package service

import (
	"context"

	"github.com/agent-dashboard/internal/domain/payment"
	"github.com/agent-dashboard/internal/domain/shared"
	"github.com/agent-dashboard/internal/domain/transaction"
	"github.com/agent-dashboard/internal/reconciliation"
	"github.com/agent-dashboard/internal/session"
	"github.com/agent-dashboard/internal/transition"
)

// AccountService defines the interface for agent session operations
type AccountService interface {
	// Login checks the credentials against the accounts table and opens a session.
	// Returns ErrInvalidCredentials, ErrAccountInactive or a wrapped read error.
	Login(ctx context.Context, username, password string) (session.Snapshot, error)

	// Logout closes the session; it reports false when the token was unknown
	Logout(ctx context.Context, token string) bool

	// DismissNotice hides the maintenance notice until the next page load
	DismissNotice(ctx context.Context, token string) bool

	// PendingSecurityPayment returns the viewer's pending security payment, or nil
	PendingSecurityPayment(ctx context.Context, username string) (*payment.SecurityPayment, error)
}

// TransactionService defines the interface for transaction views and transitions.
// Every listing re-reads the source; the result replaces the session's view.
type TransactionService interface {
	// Dashboard loads the merged view and summarises it
	Dashboard(ctx context.Context, token, viewer string) (*DashboardSummary, error)

	// List loads one table for the viewer and returns the rows passing filter
	List(ctx context.Context, token, viewer string, class shared.TransactionClass, filter shared.StatusFilter) ([]*transaction.Transaction, reconciliation.Counts, error)

	// Get looks a transaction up in the session's loaded view. No fetch is made.
	Get(ctx context.Context, token string, class shared.TransactionClass, number string) (*transaction.Transaction, error)

	// Confirm confirms a pending transaction; referenceID is required for withdrawals
	Confirm(ctx context.Context, token string, class shared.TransactionClass, number, referenceID string) (*transition.Result, error)

	// Reject rejects a pending transaction; reason is required for deposits and ignored for withdrawals
	Reject(ctx context.Context, token string, class shared.TransactionClass, number, reason string) (*transition.Result, error)

	// Commissions builds the commission report over the merged view
	Commissions(ctx context.Context, viewer string) (*reconciliation.CommissionReport, error)
}

// Coordinator drives confirm and reject against a session view
type Coordinator interface {
	ConfirmDeposit(ctx context.Context, views transition.ViewHolder, number string) (*transition.Result, error)
	ConfirmWithdrawal(ctx context.Context, views transition.ViewHolder, number, referenceID string) (*transition.Result, error)
	RejectDeposit(ctx context.Context, views transition.ViewHolder, number, reason string) (*transition.Result, error)
	RejectWithdrawal(ctx context.Context, views transition.ViewHolder, number string) (*transition.Result, error)
}

// ViewLoader derives views from the read source
type ViewLoader interface {
	LoadClass(ctx context.Context, class shared.TransactionClass, viewer string) (*reconciliation.View, error)
	LoadMerged(ctx context.Context, viewer string) (*reconciliation.View, error)
}

// SessionRefresher runs the supervisor checks for a single session
type SessionRefresher interface {
	RefreshSession(ctx context.Context, token string) bool
}
