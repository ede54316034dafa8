package payment

import (
	"context"
	"strings"
)

// SecurityPayment is a pending security deposit an agent still owes
type SecurityPayment struct {
	Username  string `json:"username"`
	Status    string `json:"status"`
	Method    string `json:"method"`
	Amount    string `json:"amount"`
	Address   string `json:"usdt_address"`
	QRLogo    string `json:"qr_logo"`
	AgentType string `json:"agent_type"`
}

// IsPendingFor reports whether the row is a pending payment owed by username
func (p *SecurityPayment) IsPendingFor(username string) bool {
	return p.Username == username && strings.EqualFold(p.Status, "pending")
}

// Repository reads the security payment table
type Repository interface {
	ListPayments(ctx context.Context) ([]*SecurityPayment, error)
}

// FindPending returns the first pending payment owed by username
func FindPending(payments []*SecurityPayment, username string) (*SecurityPayment, bool) {
	for _, p := range payments {
		if p.IsPendingFor(username) {
			return p, true
		}
	}
	return nil, false
}
