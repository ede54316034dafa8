package session

import "github.com/agent-dashboard/internal/reconciliation"

// View returns the view of the given kind last loaded by the session
func (s *Store) View(token string, kind ViewKind) (*reconciliation.View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	v, ok := e.views[kind]
	return v, ok
}

// SetView replaces a view wholesale. It reports false, and stores nothing,
// when the session has been closed in the meantime.
func (s *Store) SetView(token string, kind ViewKind, view *reconciliation.View) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[token]
	if !ok {
		return false
	}
	e.views[kind] = view
	return true
}

// ClearView drops a loaded view
func (s *Store) ClearView(token string, kind ViewKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[token]; ok {
		delete(e.views, kind)
	}
}

// Holder binds one view of one session
type Holder struct {
	store *Store
	token string
	kind  ViewKind
}

// Holder returns a handle on a session view
func (s *Store) Holder(token string, kind ViewKind) *Holder {
	return &Holder{store: s, token: token, kind: kind}
}

// Current returns the loaded view
func (h *Holder) Current() (*reconciliation.View, bool) {
	return h.store.View(h.token, h.kind)
}

// Replace swaps in a freshly loaded view
func (h *Holder) Replace(view *reconciliation.View) bool {
	return h.store.SetView(h.token, h.kind, view)
}

// Clear drops the loaded view
func (h *Holder) Clear() {
	h.store.ClearView(h.token, h.kind)
}
