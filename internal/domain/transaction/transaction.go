package transaction

import (
	"strings"

	"github.com/agent-dashboard/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Transaction is a deposit or withdrawal row normalised into one shape.
// It is re-derived from the read source on every load and never persisted locally.
type Transaction struct {
	Number          string                   `json:"transaction_number"`
	Class           shared.TransactionClass  `json:"class"`
	Amount          decimal.Decimal          `json:"amount"`
	RawAmount       string                   `json:"-"`
	Currency        string                   `json:"currency"`
	Agent           string                   `json:"agent"`
	Status          shared.TransactionStatus `json:"status"`
	RawStatus       string                   `json:"raw_status"`
	ReferenceID     string                   `json:"trx_id,omitempty"`
	RejectionReason string                   `json:"rejection_reason,omitempty"`
	Method          string                   `json:"method"`
	AccountNumber   string                   `json:"account_number,omitempty"` // Withdrawals only
	UserID          string                   `json:"user_id"`
}

// Key identifies a transaction within a loaded view
type Key struct {
	Class  shared.TransactionClass
	Number string
}

// Key returns the view lookup key of the transaction
func (t *Transaction) Key() Key {
	return Key{Class: t.Class, Number: t.Number}
}

// VisibleTo reports whether the viewer may see the row: the agent column matches
// exactly, or holds the ALL sentinel in any case.
func (t *Transaction) VisibleTo(viewer string) bool {
	return t.Agent == viewer || strings.EqualFold(t.Agent, shared.AgentAll)
}

// Commission returns the informational fee for this transaction
func (t *Transaction) Commission() decimal.Decimal {
	return Commission(t.Amount, t.Class)
}

// CommissionCurrency is the currency bucket the commission accrues under
func (t *Transaction) CommissionCurrency() string {
	if t.Class == shared.TransactionClassDeposit || t.Currency == "" {
		return shared.CurrencyNotApplicable
	}
	return t.Currency
}

// IsPending reports whether the transaction can still be confirmed or rejected
func (t *Transaction) IsPending() bool {
	return t.Status == shared.TransactionStatusPending
}
