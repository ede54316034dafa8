package reconciliation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/agent-dashboard/internal/domain/shared"
	"github.com/agent-dashboard/internal/platform/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRowSource struct {
	mock.Mock
}

func (m *MockRowSource) FetchTransactionRows(ctx context.Context, class shared.TransactionClass) ([]tabular.Row, error) {
	args := m.Called(ctx, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tabular.Row), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoader_LoadClass(t *testing.T) {
	ctx := context.Background()

	t.Run("ScopesToViewer", func(t *testing.T) {
		source := new(MockRowSource)
		source.On("FetchTransactionRows", ctx, shared.TransactionClassWithdrawal).Return([]tabular.Row{
			withdrawalRow("1", "10", "USD", "bob", "Pending"),
			withdrawalRow("2", "10", "USD", "alice", "Pending"),
			withdrawalRow("3", "10", "USD", "all", "Confirmed"),
		}, nil).Once()

		view, err := NewLoader(discardLogger(), source).LoadClass(ctx, shared.TransactionClassWithdrawal, "bob")
		require.NoError(t, err)
		assert.Equal(t, []string{"3", "1"}, numbers(view.Transactions()))
		assert.Equal(t, "bob", view.Viewer())
		source.AssertExpectations(t)
	})

	t.Run("FetchError", func(t *testing.T) {
		source := new(MockRowSource)
		fetchErr := errors.New("timeout")
		source.On("FetchTransactionRows", ctx, shared.TransactionClassDeposit).Return(nil, fetchErr).Once()

		view, err := NewLoader(discardLogger(), source).LoadClass(ctx, shared.TransactionClassDeposit, "bob")
		assert.Nil(t, view)
		assert.ErrorIs(t, err, fetchErr)
	})
}

func TestLoader_LoadMerged(t *testing.T) {
	t.Run("ReconcilesBothTables", func(t *testing.T) {
		source := new(MockRowSource)
		source.On("FetchTransactionRows", mock.Anything, shared.TransactionClassDeposit).Return([]tabular.Row{
			depositRow("4", "100", "Pending", "bob"),
			depositRow("9", "100", "Pending", "carol"),
		}, nil).Once()
		source.On("FetchTransactionRows", mock.Anything, shared.TransactionClassWithdrawal).Return([]tabular.Row{
			withdrawalRow("7", "50", "USD", "ALL", "Confirmed"),
		}, nil).Once()

		view, err := NewLoader(discardLogger(), source).LoadMerged(context.Background(), "bob")
		require.NoError(t, err)
		assert.Equal(t, []string{"7", "4"}, numbers(view.Transactions()))
		assert.Equal(t, Counts{Total: 2, Pending: 1, Confirmed: 1}, view.Counts())
		source.AssertExpectations(t)
	})

	t.Run("AnyFetchErrorFailsTheLoad", func(t *testing.T) {
		source := new(MockRowSource)
		source.On("FetchTransactionRows", mock.Anything, shared.TransactionClassDeposit).Return([]tabular.Row{}, nil).Maybe()
		source.On("FetchTransactionRows", mock.Anything, shared.TransactionClassWithdrawal).Return(nil, errors.New("status 500")).Once()

		view, err := NewLoader(discardLogger(), source).LoadMerged(context.Background(), "bob")
		assert.Nil(t, view)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load transactions")
	})
}
