package transaction

import (
	"errors"
	"fmt"

	"github.com/agent-dashboard/internal/domain/shared"
)

var (
	// ErrTransitionInProgress is returned when another confirm or reject for the
	// same transaction has not finished yet
	ErrTransitionInProgress = errors.New("transition already in progress for transaction")

	// ErrViewNotLoaded is returned when a transition is attempted before the
	// session has loaded the relevant listing
	ErrViewNotLoaded = errors.New("transaction view not loaded")
)

// WriteField names the record-store column a write targets
type WriteField string

const (
	WriteFieldStatus WriteField = "Status"
	WriteFieldReason WriteField = "Reason"
)

// ErrTransactionNotFound indicates the number is absent from the loaded view
type ErrTransactionNotFound struct {
	Class  shared.TransactionClass
	Number string
}

func (e ErrTransactionNotFound) Error() string {
	return fmt.Sprintf("%s transaction not found in current view: %s", e.Class.Label(), e.Number)
}

// ErrNotPending indicates a transition on a transaction that already reached a terminal state
type ErrNotPending struct {
	Number string
	Status shared.TransactionStatus
}

func (e ErrNotPending) Error() string {
	return fmt.Sprintf("transaction %s is %s, not pending", e.Number, e.Status)
}

// ErrValidation indicates a missing or blank required input
type ErrValidation struct {
	Field   string
	Message string // Operator-facing message
}

func (e ErrValidation) Error() string {
	return "validation failed for " + e.Field + ": " + e.Message
}

// ErrNoRecordsUpdated indicates the record store matched no row for the number
type ErrNoRecordsUpdated struct {
	Field  WriteField
	Number string
}

func (e ErrNoRecordsUpdated) Error() string {
	return fmt.Sprintf("No records were updated. Transaction ID '%s' might not exist.", e.Number)
}

// ErrWriteFailure wraps a transport, HTTP or API-level failure of a record-store write
type ErrWriteFailure struct {
	Field   WriteField
	Number  string
	Message string // Upstream message where available
	Err     error
}

func (e ErrWriteFailure) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("write of %s for transaction %s failed: %s", e.Field, e.Number, e.Message)
	}
	return fmt.Sprintf("write of %s for transaction %s failed: %v", e.Field, e.Number, e.Err)
}

func (e ErrWriteFailure) Unwrap() error {
	return e.Err
}

// ErrPartialWriteFailure reports the outcome of the two independent writes of a
// deposit rejection when at least one of them failed
type ErrPartialWriteFailure struct {
	Number    string
	StatusErr error
	ReasonErr error
}

func (e ErrPartialWriteFailure) Error() string {
	switch {
	case e.StatusErr != nil && e.ReasonErr != nil:
		return fmt.Sprintf("rejection of transaction %s failed: status: %v; reason: %v", e.Number, e.StatusErr, e.ReasonErr)
	case e.StatusErr != nil:
		return fmt.Sprintf("rejection of transaction %s failed to update status: %v", e.Number, e.StatusErr)
	default:
		return fmt.Sprintf("rejection of transaction %s failed to update reason: %v", e.Number, e.ReasonErr)
	}
}

func (e ErrPartialWriteFailure) Unwrap() []error {
	var errs []error
	if e.StatusErr != nil {
		errs = append(errs, e.StatusErr)
	}
	if e.ReasonErr != nil {
		errs = append(errs, e.ReasonErr)
	}
	return errs
}

// StatusFailed reports whether the status write failed
func (e ErrPartialWriteFailure) StatusFailed() bool {
	return e.StatusErr != nil
}

// ReasonFailed reports whether the reason write failed
func (e ErrPartialWriteFailure) ReasonFailed() bool {
	return e.ReasonErr != nil
}

// FailedFields lists the columns whose writes failed, status first
func (e ErrPartialWriteFailure) FailedFields() []WriteField {
	var fields []WriteField
	if e.StatusErr != nil {
		fields = append(fields, WriteFieldStatus)
	}
	if e.ReasonErr != nil {
		fields = append(fields, WriteFieldReason)
	}
	return fields
}
