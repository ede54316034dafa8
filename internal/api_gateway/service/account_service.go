package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agent-dashboard/internal/domain/account"
	"github.com/agent-dashboard/internal/domain/payment"
	"github.com/agent-dashboard/internal/logger"
	"github.com/agent-dashboard/internal/session"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	accountRepo account.Repository
	paymentRepo payment.Repository
	sessions    *session.Store
	refresher   SessionRefresher
	logger      *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	accountRepo account.Repository,
	paymentRepo payment.Repository,
	sessions *session.Store,
	refresher SessionRefresher,
	logger *slog.Logger,
) AccountService {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		paymentRepo: paymentRepo,
		sessions:    sessions,
		refresher:   refresher,
		logger:      logger,
	}
}

// Login matches the credentials exactly against the accounts table. Only an
// active account gets a session.
func (s *AccountServiceImpl) Login(ctx context.Context, username, password string) (session.Snapshot, error) {
	log := s.logger.With("correlation_id", logger.CorrelationID(ctx), "username", username)

	if username == "" || password == "" {
		return session.Snapshot{}, account.ErrEmptyCredentials
	}

	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		log.Error("Failed to read accounts table", "error", err)
		return session.Snapshot{}, fmt.Errorf("failed to read accounts: %w", err)
	}

	acc, found := account.Find(accounts, username, password)
	if !found {
		log.Info("Login refused, no matching account")
		return session.Snapshot{}, account.ErrInvalidCredentials
	}
	if !acc.IsActive() {
		log.Info("Login refused, account not active", "status", acc.Status)
		return session.Snapshot{}, account.ErrAccountInactive{
			Username: acc.Username,
			Status:   acc.Status,
			Notice:   acc.LoginRefusal(),
		}
	}

	snap := s.sessions.Open(acc)
	log.Info("Session opened")

	if s.refresher != nil {
		s.refresher.RefreshSession(ctx, snap.Token)
		if fresh, ok := s.sessions.Get(snap.Token); ok {
			snap = fresh
		}
	}
	return snap, nil
}

// Logout closes the session
func (s *AccountServiceImpl) Logout(ctx context.Context, token string) bool {
	closed := s.sessions.Close(token)
	if closed {
		s.logger.Info("Session closed", "correlation_id", logger.CorrelationID(ctx))
	}
	return closed
}

// DismissNotice hides the maintenance notice of the session
func (s *AccountServiceImpl) DismissNotice(ctx context.Context, token string) bool {
	return s.sessions.DismissNotice(token)
}

// PendingSecurityPayment returns the first pending security payment owed by username
func (s *AccountServiceImpl) PendingSecurityPayment(ctx context.Context, username string) (*payment.SecurityPayment, error) {
	payments, err := s.paymentRepo.ListPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read security payments: %w", err)
	}
	p, ok := payment.FindPending(payments, username)
	if !ok {
		return nil, nil
	}
	return p, nil
}
