package account

import "context"

// Repository reads the accounts table
type Repository interface {
	// ListAccounts returns every data row with the minimum field count
	ListAccounts(ctx context.Context) ([]*Account, error)
}
