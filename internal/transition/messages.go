package transition

import (
	"errors"
	"fmt"

	"github.com/agent-dashboard/internal/domain/shared"
	"github.com/agent-dashboard/internal/domain/transaction"
)

// Operator-facing messages
const (
	MessageMissingReference = "Please enter a TRX ID"
	MessageMissingReason    = "Please enter a rejection reason"
	MessageRejected         = "Transaction rejected successfully."

	messageStatusWriteFailed = "Error updating transaction status. Please try again."
	messageReasonWriteFailed = "Error updating rejection reason. Please try again."
)

// Action names the operation a message is produced for
type Action string

const (
	ActionConfirm Action = "confirming"
	ActionReject  Action = "rejecting"
)

func successMessage(req request, txn *transaction.Transaction) string {
	if req.target == shared.TransactionStatusRejected {
		return MessageRejected
	}
	earned := transaction.FormatCommission(txn.Commission())
	if req.class == shared.TransactionClassWithdrawal {
		earned += " " + txn.Currency
	}
	return fmt.Sprintf("Transaction confirmed successfully! You earned %s commission.", earned)
}

// UserMessage maps a transition error onto the notice shown to the agent.
// Each failure condition has its own text.
func UserMessage(action Action, err error) string {
	var (
		validation transaction.ErrValidation
		notFound   transaction.ErrTransactionNotFound
		notPending transaction.ErrNotPending
		partial    transaction.ErrPartialWriteFailure
		noRecords  transaction.ErrNoRecordsUpdated
		failure    transaction.ErrWriteFailure
	)

	switch {
	case errors.As(err, &validation):
		return validation.Message
	case errors.As(err, &notFound):
		return fmt.Sprintf("Transaction %s not found in the current view", notFound.Number)
	case errors.As(err, &notPending):
		return fmt.Sprintf("Transaction %s is already %s", notPending.Number, notPending.Status.SheetValue())
	case errors.Is(err, transaction.ErrTransitionInProgress):
		return "This transaction is already being processed. Please wait."
	case errors.Is(err, transaction.ErrViewNotLoaded):
		return "Transactions are not loaded yet. Please refresh and try again."
	case errors.As(err, &partial):
		switch {
		case partial.StatusFailed() && partial.ReasonFailed():
			return fmt.Sprintf("Error %s transaction. Please try again.", action)
		case partial.StatusFailed():
			return messageStatusWriteFailed
		default:
			return messageReasonWriteFailed
		}
	case errors.As(err, &noRecords):
		return noRecords.Error()
	case errors.As(err, &failure) && failure.Message != "":
		return fmt.Sprintf("Error %s transaction: %s. Please try again.", action, failure.Message)
	default:
		return fmt.Sprintf("Error %s transaction. Please try again.", action)
	}
}
