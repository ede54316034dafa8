package transition

import (
	"errors"
	"testing"

	"github.com/agent-dashboard/internal/domain/shared"
	"github.com/agent-dashboard/internal/domain/transaction"
	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	testCases := []struct {
		name     string
		action   Action
		err      error
		expected string
	}{
		{
			name:     "Validation",
			action:   ActionConfirm,
			err:      transaction.ErrValidation{Field: "trx_id", Message: MessageMissingReference},
			expected: "Please enter a TRX ID",
		},
		{
			name:     "NotFound",
			action:   ActionConfirm,
			err:      transaction.ErrTransactionNotFound{Class: shared.TransactionClassDeposit, Number: "9"},
			expected: "Transaction 9 not found in the current view",
		},
		{
			name:     "NotPending",
			action:   ActionReject,
			err:      transaction.ErrNotPending{Number: "9", Status: shared.TransactionStatusConfirmed},
			expected: "Transaction 9 is already Confirmed",
		},
		{
			name:     "NoRecordsUpdated",
			action:   ActionConfirm,
			err:      transaction.ErrNoRecordsUpdated{Field: transaction.WriteFieldStatus, Number: "9"},
			expected: "No records were updated. Transaction ID '9' might not exist.",
		},
		{
			name:     "WriteFailureWithUpstreamMessage",
			action:   ActionConfirm,
			err:      transaction.ErrWriteFailure{Field: transaction.WriteFieldStatus, Number: "9", Message: "SheetDB API error: quota"},
			expected: "Error confirming transaction: SheetDB API error: quota. Please try again.",
		},
		{
			name:     "WriteFailureWithoutMessage",
			action:   ActionReject,
			err:      transaction.ErrWriteFailure{Field: transaction.WriteFieldStatus, Number: "9", Err: errors.New("dial tcp")},
			expected: "Error rejecting transaction. Please try again.",
		},
		{
			name:     "InProgress",
			action:   ActionConfirm,
			err:      transaction.ErrTransitionInProgress,
			expected: "This transaction is already being processed. Please wait.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, UserMessage(tc.action, tc.err))
		})
	}
}
