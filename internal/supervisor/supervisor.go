// Package supervisor keeps open sessions fresh. It periodically re-verifies
// each session's account against the accounts table and resolves the
// maintenance notice for it.
package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/agent-dashboard/internal/config"
	"github.com/agent-dashboard/internal/domain/account"
	"github.com/agent-dashboard/internal/domain/maintenance"
	"github.com/agent-dashboard/internal/session"
	"github.com/panjf2000/ants/v2"
)

// Sessions is the part of the session store the supervisor drives
type Sessions interface {
	Active() []session.Snapshot
	Get(token string) (session.Snapshot, bool)
	Terminate(token, message string) bool
	UpdateAccount(token string, acc *account.Account) bool
	SetNotice(token string, notice *maintenance.Notice) bool
	Prune() int
}

// Supervisor polls the accounts and maintenance tables on independent tickers.
// Read failures are logged and never end a session.
type Supervisor struct {
	accounts            account.Repository
	maintenance         maintenance.Repository
	sessions            Sessions
	pool                *ants.Pool
	logger              *slog.Logger
	statusInterval      time.Duration
	maintenanceInterval time.Duration

	statusBusy      atomic.Bool
	maintenanceBusy atomic.Bool
}

func NewSupervisor(
	cfg *config.SupervisorConfig,
	poolCfg *config.WorkerPoolConfig,
	accounts account.Repository,
	maintenanceRepo maintenance.Repository,
	sessions Sessions,
	logger *slog.Logger,
) (*Supervisor, error) {
	pool, err := ants.NewPool(poolCfg.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to create supervisor worker pool: %w", err)
	}

	return &Supervisor{
		accounts:            accounts,
		maintenance:         maintenanceRepo,
		sessions:            sessions,
		pool:                pool,
		logger:              logger,
		statusInterval:      cfg.StatusInterval,
		maintenanceInterval: cfg.MaintenanceInterval,
	}, nil
}

// Start runs both checks immediately and then on every tick until ctx is canceled
func (s *Supervisor) Start(ctx context.Context) {
	s.logger.Info("Starting session supervisor",
		"status_interval", s.statusInterval.String(),
		"maintenance_interval", s.maintenanceInterval.String(),
		"pool_size", s.pool.Cap(),
	)

	statusTicker := time.NewTicker(s.statusInterval)
	defer statusTicker.Stop()
	maintenanceTicker := time.NewTicker(s.maintenanceInterval)
	defer maintenanceTicker.Stop()

	s.submitStatusCheck(ctx)
	s.submitMaintenanceRefresh(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Session supervisor stopping due to context cancellation.")
			return
		case <-statusTicker.C:
			s.logger.Debug("Supervisor tick: verifying account status")
			s.submitStatusCheck(ctx)
		case <-maintenanceTicker.C:
			s.logger.Debug("Supervisor tick: refreshing maintenance notices")
			s.submitMaintenanceRefresh(ctx)
		}
	}
}

// submitStatusCheck skips the tick while the previous check is still running
func (s *Supervisor) submitStatusCheck(ctx context.Context) {
	if !s.statusBusy.CompareAndSwap(false, true) {
		s.logger.Debug("Previous status check still running, skipping tick")
		return
	}
	err := s.pool.Submit(func() {
		defer s.statusBusy.Store(false)
		if pruned := s.sessions.Prune(); pruned > 0 {
			s.logger.Info("Pruned idle sessions", "count", pruned)
		}
		if _, err := s.CheckAccounts(ctx); err != nil {
			s.logger.Warn("Account status check failed, keeping sessions", "error", err)
		}
	})
	if err != nil {
		s.statusBusy.Store(false)
		s.logger.Error("Failed to submit status check to worker pool", "error", err)
	}
}

func (s *Supervisor) submitMaintenanceRefresh(ctx context.Context) {
	if !s.maintenanceBusy.CompareAndSwap(false, true) {
		s.logger.Debug("Previous maintenance refresh still running, skipping tick")
		return
	}
	err := s.pool.Submit(func() {
		defer s.maintenanceBusy.Store(false)
		if err := s.RefreshNotices(ctx); err != nil {
			s.logger.Warn("Maintenance refresh failed, keeping current notices", "error", err)
		}
	})
	if err != nil {
		s.maintenanceBusy.Store(false)
		s.logger.Error("Failed to submit maintenance refresh to worker pool", "error", err)
	}
}

// CheckAccounts fetches the accounts table once and re-verifies every open
// session against it. It returns how many sessions were terminated.
func (s *Supervisor) CheckAccounts(ctx context.Context) (int, error) {
	active := s.sessions.Active()
	if len(active) == 0 {
		return 0, nil
	}

	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	terminated := 0
	for _, snap := range active {
		if s.verify(snap, accounts) {
			terminated++
		}
	}
	return terminated, nil
}

// verify applies the account row to one session and reports whether it was ended
func (s *Supervisor) verify(snap session.Snapshot, accounts []*account.Account) bool {
	log := s.logger.With("username", snap.Account.Username)

	acc, found := account.Find(accounts, snap.Account.Username, snap.Account.Password)
	if !found {
		log.Info("Account no longer exists, terminating session")
		return s.sessions.Terminate(snap.Token, account.MessageAccountRemoved)
	}
	if !acc.IsActive() {
		log.Info("Account is no longer active, terminating session", "status", acc.Status)
		return s.sessions.Terminate(snap.Token, acc.LogoutNotice())
	}

	s.sessions.UpdateAccount(snap.Token, acc)
	return false
}

// RefreshNotices fetches the maintenance table once and resolves the notice
// of every open session
func (s *Supervisor) RefreshNotices(ctx context.Context) error {
	active := s.sessions.Active()
	if len(active) == 0 {
		return nil
	}

	entries, err := s.maintenance.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch maintenance table: %w", err)
	}

	for _, snap := range active {
		notice, _ := maintenance.Resolve(entries, snap.Account.Username)
		s.sessions.SetNotice(snap.Token, notice)
	}
	return nil
}

// RefreshSession runs both checks for a single session. It is used right after
// login so a new session does not wait for the next tick. It reports false
// when the session was terminated.
func (s *Supervisor) RefreshSession(ctx context.Context, token string) bool {
	snap, ok := s.sessions.Get(token)
	if !ok {
		return false
	}
	log := s.logger.With("username", snap.Account.Username)

	if accounts, err := s.accounts.ListAccounts(ctx); err != nil {
		log.Warn("Account status check failed, keeping session", "error", err)
	} else if s.verify(snap, accounts) {
		return false
	}

	if entries, err := s.maintenance.ListEntries(ctx); err != nil {
		log.Warn("Maintenance refresh failed", "error", err)
	} else {
		notice, _ := maintenance.Resolve(entries, snap.Account.Username)
		s.sessions.SetNotice(token, notice)
	}
	return true
}

// Shutdown releases the worker pool
func (s *Supervisor) Shutdown() {
	s.logger.Info("Shutting down supervisor worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool
func (s *Supervisor) Running() int {
	return s.pool.Running()
}
