package sheets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agent-dashboard/internal/domain/account"
)

const accountMinFields = 6

// AccountRepository reads the accounts table
type AccountRepository struct {
	logger  *slog.Logger
	reader  TableReader
	sheetID string
}

var _ account.Repository = (*AccountRepository)(nil)

// NewAccountRepository creates a new account repository
func NewAccountRepository(logger *slog.Logger, reader TableReader, sheetID string) *AccountRepository {
	return &AccountRepository{logger: logger, reader: reader, sheetID: sheetID}
}

// ListAccounts returns every account row with at least six fields
func (r *AccountRepository) ListAccounts(ctx context.Context) ([]*account.Account, error) {
	rows, err := r.reader.FetchRows(ctx, r.sheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts table: %w", err)
	}

	var accounts []*account.Account
	skipped := 0
	for _, row := range dataRows(rows) {
		if row.Len() < accountMinFields {
			skipped++
			continue
		}
		accounts = append(accounts, &account.Account{
			Username: row.Field(0),
			Password: row.Field(1),
			LogoURL:  row.Field(2),
			FullName: row.Field(3),
			Status:   row.Field(4),
			Message:  row.Field(5),
		})
	}

	if skipped > 0 {
		r.logger.Debug("Skipped short account rows", "count", skipped)
	}
	return accounts, nil
}
