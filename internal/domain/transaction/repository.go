package transaction

import (
	"context"

	"github.com/agent-dashboard/internal/domain/shared"
	"github.com/agent-dashboard/internal/platform/tabular"
)

// RowSource reads the raw data rows of a transaction table, header excluded
type RowSource interface {
	FetchTransactionRows(ctx context.Context, class shared.TransactionClass) ([]tabular.Row, error)
}

// Store applies partial updates to the record store, addressed by transaction number.
// A write that matches no row returns ErrNoRecordsUpdated.
type Store interface {
	// UpdateStatus sets Status, and TRX ID in the same request when referenceID is non-empty
	UpdateStatus(ctx context.Context, class shared.TransactionClass, number string, status shared.TransactionStatus, referenceID string) error

	// UpdateReason sets the Reason column of a deposit row
	UpdateReason(ctx context.Context, number string, reason string) error
}
