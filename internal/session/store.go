// Package session keeps agent sessions in memory. A session owns the
// transaction views it has loaded and the maintenance notice resolved for it.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/agent-dashboard/internal/domain/account"
	"github.com/agent-dashboard/internal/domain/maintenance"
	"github.com/agent-dashboard/internal/reconciliation"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// ErrSessionTerminated is returned once for a session ended by the supervisor.
// Message is the operator-facing reason.
type ErrSessionTerminated struct {
	Username string
	Message  string
}

func (e ErrSessionTerminated) Error() string {
	return "session terminated for " + e.Username + ": " + e.Message
}

// ViewKind names a listing a session can load
type ViewKind string

const (
	ViewDashboard   ViewKind = "dashboard"
	ViewDeposits    ViewKind = "deposits"
	ViewWithdrawals ViewKind = "withdrawals"
)

// Snapshot is a read-only copy of a session's state
type Snapshot struct {
	Token     string
	Account   account.Account
	Notice    *maintenance.Notice // Nil when there is none or it was dismissed
	CreatedAt time.Time
	LastSeen  time.Time
}

type entry struct {
	token     string
	account   account.Account
	views     map[ViewKind]*reconciliation.View
	notice    *maintenance.Notice
	dismissed bool
	createdAt time.Time
	lastSeen  time.Time
}

func (e *entry) snapshot() Snapshot {
	s := Snapshot{
		Token:     e.token,
		Account:   e.account,
		CreatedAt: e.createdAt,
		LastSeen:  e.lastSeen,
	}
	if e.notice != nil && !e.dismissed {
		n := *e.notice
		s.Notice = &n
	}
	return s
}

// tombstone keeps the logout message of a terminated session until it is
// delivered or its TTL runs out
type tombstone struct {
	err ErrSessionTerminated
	at  time.Time
}

// Store holds sessions keyed by bearer token
type Store struct {
	mu         sync.Mutex
	sessions   map[string]*entry
	tombstones map[string]tombstone
	ttl        time.Duration
	now        func() time.Time
}

// NewStore creates a store whose sessions expire after ttl without activity
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions:   make(map[string]*entry),
		tombstones: make(map[string]tombstone),
		ttl:        ttl,
		now:        time.Now,
	}
}

// Open starts a session for acc and returns it
func (s *Store) Open(acc *account.Account) Snapshot {
	now := s.now()
	e := &entry{
		token:     uuid.NewString(),
		account:   *acc,
		views:     make(map[ViewKind]*reconciliation.View),
		createdAt: now,
		lastSeen:  now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[e.token] = e
	return e.snapshot()
}

// Touch records activity on a session and returns its state. A session ended
// by Terminate reports ErrSessionTerminated exactly once.
func (s *Store) Touch(token string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.tombstones[token]; ok {
		delete(s.tombstones, token)
		return Snapshot{}, t.err
	}

	e, ok := s.sessions[token]
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}

	now := s.now()
	if s.ttl > 0 && now.Sub(e.lastSeen) > s.ttl {
		delete(s.sessions, token)
		return Snapshot{}, ErrSessionExpired
	}
	e.lastSeen = now
	return e.snapshot(), nil
}

// Get returns a session's state without recording activity
func (s *Store) Get(token string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[token]
	if !ok {
		return Snapshot{}, false
	}
	return e.snapshot(), true
}

// Active returns every open session
func (s *Store) Active() []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Snapshot, 0, len(s.sessions))
	for _, e := range s.sessions {
		out = append(out, e.snapshot())
	}
	return out
}

// Len returns the number of open sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close ends a session at the operator's request
func (s *Store) Close(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[token]
	delete(s.sessions, token)
	delete(s.tombstones, token)
	return ok
}

// Terminate ends a session and leaves message for its next request
func (s *Store) Terminate(token, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[token]
	if !ok {
		return false
	}
	delete(s.sessions, token)
	s.tombstones[token] = tombstone{
		err: ErrSessionTerminated{Username: e.account.Username, Message: message},
		at:  s.now(),
	}
	return true
}

// UpdateAccount refreshes the account snapshot of an open session
func (s *Store) UpdateAccount(token string, acc *account.Account) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[token]
	if !ok {
		return false
	}
	e.account = *acc
	return true
}

// SetNotice replaces the maintenance notice. A notice with a different message
// clears an earlier dismissal.
func (s *Store) SetNotice(token string, notice *maintenance.Notice) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[token]
	if !ok {
		return false
	}
	if notice == nil || e.notice == nil || e.notice.Message != notice.Message {
		e.dismissed = false
	}
	e.notice = notice
	return true
}

// DismissNotice hides the notice until the session next loads a page
func (s *Store) DismissNotice(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[token]
	if !ok {
		return false
	}
	e.dismissed = true
	return true
}

// RestoreNotice makes a dismissed notice visible again
func (s *Store) RestoreNotice(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[token]; ok {
		e.dismissed = false
	}
}

// Prune removes sessions idle for longer than the TTL and returns how many.
// Undelivered termination messages older than the TTL are dropped as well.
func (s *Store) Prune() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for token, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, token)
			removed++
		}
	}
	for token, t := range s.tombstones {
		if now.Sub(t.at) > s.ttl {
			delete(s.tombstones, token)
		}
	}
	return removed
}
