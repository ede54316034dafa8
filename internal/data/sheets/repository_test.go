package sheets

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/agent-dashboard/internal/domain/shared"
	"github.com/agent-dashboard/internal/platform/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTableReader struct {
	mock.Mock
}

func (m *MockTableReader) FetchRows(ctx context.Context, sheetID string) ([]tabular.Row, error) {
	args := m.Called(ctx, sheetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tabular.Row), args.Error(1)
}

func (m *MockTableReader) FetchTrimmedRows(ctx context.Context, sheetID string) ([]tabular.Row, error) {
	args := m.Called(ctx, sheetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tabular.Row), args.Error(1)
}

var _ TableReader = (*MockTableReader)(nil)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestAccountRepository_ListAccounts(t *testing.T) {
	ctx := context.Background()

	t.Run("SkipsHeaderAndShortRows", func(t *testing.T) {
		reader := new(MockTableReader)
		reader.On("FetchRows", ctx, "accounts").Return([]tabular.Row{
			{"Username", "Password", "Logo", "Full Name", "Status", "Message"},
			{" bob ", "secret", "http://logo", "Bob B", "Active", ""},
			{"short", "row"},
			{"carol", "pw", "", "Carol", "Suspended", "Call us"},
		}, nil).Once()

		repo := NewAccountRepository(newTestLogger(), reader, "accounts")
		accounts, err := repo.ListAccounts(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, "bob", accounts[0].Username)
		assert.Equal(t, "Bob B", accounts[0].FullName)
		assert.Equal(t, "Call us", accounts[1].Message)
		reader.AssertExpectations(t)
	})

	t.Run("FetchErrorIsWrapped", func(t *testing.T) {
		reader := new(MockTableReader)
		fetchErr := errors.New("dial tcp: timeout")
		reader.On("FetchRows", ctx, "accounts").Return(nil, fetchErr).Once()

		repo := NewAccountRepository(newTestLogger(), reader, "accounts")
		_, err := repo.ListAccounts(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, fetchErr)
	})
}

func TestMaintenanceRepository_ListEntries(t *testing.T) {
	ctx := context.Background()
	reader := new(MockTableReader)
	reader.On("FetchRows", ctx, "maint").Return([]tabular.Row{
		{"Username", "Maintenance", "Notice"},
		{"all", "OFF", "x"},
		{"bob", " On ", ""},
		{"alice", "on"},
	}, nil).Once()

	repo := NewMaintenanceRepository(newTestLogger(), reader, "maint")
	entries, err := repo.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.False(t, entries[0].Enabled)
	assert.True(t, entries[1].Enabled)
	assert.Equal(t, "bob", entries[1].Scope)
}

func TestPaymentRepository_ListPayments(t *testing.T) {
	ctx := context.Background()

	t.Run("DiscoversColumnsFromHeader", func(t *testing.T) {
		reader := new(MockTableReader)
		reader.On("FetchTrimmedRows", ctx, "pay").Return([]tabular.Row{
			{"Security Payments"},
			{"Agent Type", "Username", "Payment Method", "Amound (USDT)", "USDT (Address)", "QR Logo", "Status"},
			{"Gold", "bob", "TRC20", "150", "TXYZ", "http://qr", "Pending"},
			{"Silver", "alice"},
		}, nil).Once()

		repo := NewPaymentRepository(newTestLogger(), reader, "pay")
		payments, err := repo.ListPayments(ctx)
		require.NoError(t, err)
		require.Len(t, payments, 1)
		p := payments[0]
		assert.Equal(t, "bob", p.Username)
		assert.Equal(t, "Pending", p.Status)
		assert.Equal(t, "TRC20", p.Method)
		assert.Equal(t, "150", p.Amount)
		assert.Equal(t, "TXYZ", p.Address)
		assert.Equal(t, "http://qr", p.QRLogo)
		assert.Equal(t, "Gold", p.AgentType)
	})

	t.Run("MissingStatusColumnYieldsNothing", func(t *testing.T) {
		reader := new(MockTableReader)
		reader.On("FetchTrimmedRows", ctx, "pay").Return([]tabular.Row{
			{"Username", "Method"},
			{"bob", "TRC20"},
		}, nil).Once()

		repo := NewPaymentRepository(newTestLogger(), reader, "pay")
		payments, err := repo.ListPayments(ctx)
		require.NoError(t, err)
		assert.Empty(t, payments)
	})
}

func TestTransactionRepository_FetchTransactionRows(t *testing.T) {
	ctx := context.Background()
	reader := new(MockTableReader)
	reader.On("FetchRows", ctx, "dep").Return([]tabular.Row{{"header"}, {"1"}}, nil).Once()
	reader.On("FetchRows", ctx, "wd").Return([]tabular.Row{{"header"}}, nil).Once()

	repo := NewTransactionRepository(newTestLogger(), reader, "dep", "wd")

	rows, err := repo.FetchTransactionRows(ctx, shared.TransactionClassDeposit)
	require.NoError(t, err)
	assert.Equal(t, []tabular.Row{{"1"}}, rows)

	rows, err = repo.FetchTransactionRows(ctx, shared.TransactionClassWithdrawal)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = repo.FetchTransactionRows(ctx, shared.TransactionClass("TRANSFER"))
	assert.ErrorIs(t, err, shared.ErrInvalidTransactionClass)
	reader.AssertExpectations(t)
}
