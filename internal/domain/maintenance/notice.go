package maintenance

import (
	"context"
	"strings"

	"github.com/agent-dashboard/internal/domain/shared"
)

const (
	DefaultSystemNotice  = "System is currently under maintenance"
	DefaultAccountNotice = "Your account is currently under maintenance"
)

// Entry is one row of the maintenance table
type Entry struct {
	Scope   string // "all" or an agent username
	Enabled bool
	Notice  string
}

// Notice is the maintenance banner resolved for a viewer
type Notice struct {
	Scope   string `json:"scope"`
	Message string `json:"message"`
}

// Resolve scans entries in table order and returns the first one switched on for
// every agent or for this viewer. Scope comparison ignores case.
func Resolve(entries []Entry, username string) (*Notice, bool) {
	for _, e := range entries {
		if !e.Enabled {
			continue
		}
		if strings.EqualFold(e.Scope, shared.AgentAll) {
			return &Notice{Scope: shared.AgentAll, Message: orDefault(e.Notice, DefaultSystemNotice)}, true
		}
		if strings.EqualFold(e.Scope, username) {
			return &Notice{Scope: username, Message: orDefault(e.Notice, DefaultAccountNotice)}, true
		}
	}
	return nil, false
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// Repository reads the maintenance table
type Repository interface {
	ListEntries(ctx context.Context) ([]Entry, error)
}
