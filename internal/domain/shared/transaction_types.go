package shared

import (
	"errors"
	"strings"
)

var (
	ErrInvalidTransactionClass = errors.New("invalid transaction class")
	ErrInvalidStatusFilter     = errors.New("invalid status filter")
)

const (
	// AgentAll marks a row as visible to every agent, compared case-insensitively
	AgentAll = "ALL"

	// CurrencyNotApplicable is the currency bucket for rows that carry no currency
	CurrencyNotApplicable = "N/A"
)

// TransactionClass identifies the source table a transaction was read from
type TransactionClass string

const (
	TransactionClassDeposit    TransactionClass = "DEPOSIT"
	TransactionClassWithdrawal TransactionClass = "WITHDRAWAL"
)

// ParseTransactionClass accepts the class name in any case
func ParseTransactionClass(s string) (TransactionClass, error) {
	switch TransactionClass(strings.ToUpper(strings.TrimSpace(s))) {
	case TransactionClassDeposit:
		return TransactionClassDeposit, nil
	case TransactionClassWithdrawal:
		return TransactionClassWithdrawal, nil
	}
	return "", ErrInvalidTransactionClass
}

// Label returns the lower-case name used in messages and routes
func (c TransactionClass) Label() string {
	return strings.ToLower(string(c))
}

// TransactionStatus defines the lifecycle states of a transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusConfirmed TransactionStatus = "CONFIRMED"
	TransactionStatusRejected  TransactionStatus = "REJECTED"

	// TransactionStatusUnknown covers source values outside the lifecycle
	TransactionStatusUnknown TransactionStatus = "UNKNOWN"
)

// ParseTransactionStatus maps a source string to a status, ignoring case and
// surrounding whitespace. Anything unrecognised is TransactionStatusUnknown.
func ParseTransactionStatus(raw string) TransactionStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return TransactionStatusPending
	case "confirmed":
		return TransactionStatusConfirmed
	case "rejected":
		return TransactionStatusRejected
	default:
		return TransactionStatusUnknown
	}
}

// SheetValue is the spelling written back to the record store
func (s TransactionStatus) SheetValue() string {
	switch s {
	case TransactionStatusPending:
		return "Pending"
	case TransactionStatusConfirmed:
		return "Confirmed"
	case TransactionStatusRejected:
		return "Rejected"
	default:
		return ""
	}
}

// IsTerminal reports whether no further transition is allowed
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusConfirmed || s == TransactionStatusRejected
}

// StatusFilter selects rows of a listing view by status.
// The zero value and "all" select everything.
type StatusFilter struct {
	status TransactionStatus
}

// ParseStatusFilter accepts "", "all", "pending", "confirmed" or "rejected" in any case
func ParseStatusFilter(s string) (StatusFilter, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.EqualFold(trimmed, "all") {
		return StatusFilter{}, nil
	}
	status := ParseTransactionStatus(trimmed)
	if status == TransactionStatusUnknown {
		return StatusFilter{}, ErrInvalidStatusFilter
	}
	return StatusFilter{status: status}, nil
}

// StatusFilterFor builds a filter that selects a single status
func StatusFilterFor(status TransactionStatus) StatusFilter {
	return StatusFilter{status: status}
}

// Matches reports whether a row with the given status passes the filter
func (f StatusFilter) Matches(status TransactionStatus) bool {
	return f.status == "" || f.status == status
}

// IsAll reports whether the filter selects every row
func (f StatusFilter) IsAll() bool {
	return f.status == ""
}
