package sheets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agent-dashboard/internal/domain/shared"
	"github.com/agent-dashboard/internal/domain/transaction"
	"github.com/agent-dashboard/internal/platform/tabular"
)

// TransactionRepository reads the deposit and withdrawal tables as raw rows.
// Decoding into transactions is left to the classifier.
type TransactionRepository struct {
	logger        *slog.Logger
	reader        TableReader
	depositsID    string
	withdrawalsID string
}

var _ transaction.RowSource = (*TransactionRepository)(nil)

// NewTransactionRepository creates a new transaction row source
func NewTransactionRepository(logger *slog.Logger, reader TableReader, depositsID, withdrawalsID string) *TransactionRepository {
	return &TransactionRepository{
		logger:        logger,
		reader:        reader,
		depositsID:    depositsID,
		withdrawalsID: withdrawalsID,
	}
}

// FetchTransactionRows returns the data rows of the table for class
func (r *TransactionRepository) FetchTransactionRows(ctx context.Context, class shared.TransactionClass) ([]tabular.Row, error) {
	var sheetID string
	switch class {
	case shared.TransactionClassDeposit:
		sheetID = r.depositsID
	case shared.TransactionClassWithdrawal:
		sheetID = r.withdrawalsID
	default:
		return nil, shared.ErrInvalidTransactionClass
	}

	rows, err := r.reader.FetchRows(ctx, sheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s table: %w", class.Label(), err)
	}

	data := dataRows(rows)
	r.logger.Debug("Fetched transaction rows", "class", class, "rows", len(data))
	return data, nil
}
