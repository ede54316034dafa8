package transaction

import (
	"time"

	"github.com/agent-dashboard/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransitionEvent records a state change issued to the record store
type TransitionEvent struct {
	EventID       uuid.UUID                `json:"event_id"`
	Class         shared.TransactionClass  `json:"class"`
	Number        string                   `json:"transaction_number"`
	FromStatus    shared.TransactionStatus `json:"from_status"`
	ToStatus      shared.TransactionStatus `json:"to_status"`
	ReferenceID   string                   `json:"trx_id,omitempty"`
	Reason        string                   `json:"reason,omitempty"`
	Amount        decimal.Decimal          `json:"amount"`
	Commission    decimal.Decimal          `json:"commission"`
	Currency      string                   `json:"currency"`
	Agent         string                   `json:"agent"`
	CorrelationID string                   `json:"correlation_id,omitempty"`
	Timestamp     time.Time                `json:"timestamp"`
}

// NewTransitionEvent builds the event for moving txn into the target status
func NewTransitionEvent(txn *Transaction, to shared.TransactionStatus, agent string) *TransitionEvent {
	return &TransitionEvent{
		EventID:    uuid.New(),
		Class:      txn.Class,
		Number:     txn.Number,
		FromStatus: txn.Status,
		ToStatus:   to,
		Amount:     txn.Amount,
		Commission: txn.Commission(),
		Currency:   txn.CommissionCurrency(),
		Agent:      agent,
		Timestamp:  time.Now().UTC(),
	}
}

// Key is the message key used when publishing the event
func (e *TransitionEvent) Key() string {
	return e.Class.Label() + ":" + e.Number
}
