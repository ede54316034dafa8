package reconciliation

import (
	"testing"

	"github.com/agent-dashboard/internal/domain/shared"
	"github.com/agent-dashboard/internal/domain/transaction"
	"github.com/agent-dashboard/internal/platform/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbers(txns []*transaction.Transaction) []string {
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.Number
	}
	return out
}

func TestSortDescending(t *testing.T) {
	t.Run("NonNumericLast", func(t *testing.T) {
		txns := []*transaction.Transaction{{Number: "10"}, {Number: "2"}, {Number: "abc"}, {Number: "1"}}
		SortDescending(txns)
		assert.Equal(t, []string{"10", "2", "1", "abc"}, numbers(txns))
	})

	t.Run("NonNumericKeepInputOrder", func(t *testing.T) {
		txns := []*transaction.Transaction{{Number: "x"}, {Number: "5"}, {Number: ""}, {Number: "w"}}
		SortDescending(txns)
		assert.Equal(t, []string{"5", "x", "", "w"}, numbers(txns))
	})

	t.Run("LeadingIntegerPrefix", func(t *testing.T) {
		txns := []*transaction.Transaction{{Number: "7"}, {Number: "12abc"}, {Number: " 9 "}, {Number: "-3"}}
		SortDescending(txns)
		assert.Equal(t, []string{"12abc", " 9 ", "7", "-3"}, numbers(txns))
	})

	t.Run("TiesAreStable", func(t *testing.T) {
		a := &transaction.Transaction{Number: "5", Class: shared.TransactionClassDeposit}
		b := &transaction.Transaction{Number: "05", Class: shared.TransactionClassWithdrawal}
		txns := []*transaction.Transaction{a, b}
		SortDescending(txns)
		assert.Same(t, a, txns[0])
		assert.Same(t, b, txns[1])
	})

	t.Run("OverflowSaturates", func(t *testing.T) {
		txns := []*transaction.Transaction{{Number: "5"}, {Number: "99999999999999999999999"}}
		SortDescending(txns)
		assert.Equal(t, "99999999999999999999999", txns[0].Number)
	})
}

func TestReconcile(t *testing.T) {
	deposits := []tabular.Row{
		depositRow("3", "100", "Pending", "bob"),
		depositRow("8", "100", "Confirmed", "alice"),
	}
	withdrawals := []tabular.Row{
		withdrawalRow("5", "200", "USD", "bob", "Confirmed"),
		withdrawalRow("1", "50", "USD", "ALL", "Rejected"),
		withdrawalRow("9", "70", "USD", "carol", "Pending"),
	}

	t.Run("FiltersForeignAgents", func(t *testing.T) {
		view := Reconcile(deposits, withdrawals, "bob")
		require.Equal(t, 3, view.Len())
		assert.Equal(t, []string{"5", "3", "1"}, numbers(view.Transactions()))
		assert.Equal(t, "bob", view.Viewer())
	})

	t.Run("Deterministic", func(t *testing.T) {
		first := numbers(Reconcile(deposits, withdrawals, "bob").Transactions())
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, numbers(Reconcile(deposits, withdrawals, "bob").Transactions()))
		}
	})

	t.Run("Counts", func(t *testing.T) {
		extra := append([]tabular.Row{depositRow("4", "1", "On Hold", "bob")}, deposits...)
		counts := Reconcile(extra, withdrawals, "bob").Counts()
		assert.Equal(t, Counts{Total: 4, Pending: 1, Confirmed: 1, Rejected: 1}, counts)
	})

	t.Run("LookupByClassAndNumber", func(t *testing.T) {
		view := Reconcile(deposits, withdrawals, "bob")
		txn, ok := view.Lookup(shared.TransactionClassWithdrawal, "5")
		require.True(t, ok)
		assert.Equal(t, "USD", txn.Currency)

		_, ok = view.Lookup(shared.TransactionClassDeposit, "5")
		assert.False(t, ok)
		_, ok = view.Lookup(shared.TransactionClassDeposit, "8")
		assert.False(t, ok, "foreign agent rows are not indexed")
	})

	t.Run("FirstDuplicateWins", func(t *testing.T) {
		dups := []tabular.Row{
			depositRow("3", "100", "Pending", "bob"),
			depositRow("3", "999", "Confirmed", "bob"),
		}
		view := Reconcile(dups, nil, "bob")
		require.Equal(t, 1, view.Len())
		txn, _ := view.Lookup(shared.TransactionClassDeposit, "3")
		assert.Equal(t, shared.TransactionStatusPending, txn.Status)
	})

	t.Run("SameNumberAcrossClassesKept", func(t *testing.T) {
		view := Reconcile(
			[]tabular.Row{depositRow("5", "1", "Pending", "bob")},
			[]tabular.Row{withdrawalRow("5", "1", "USD", "bob", "Pending")},
			"bob",
		)
		require.Equal(t, 2, view.Len())
		assert.Equal(t, shared.TransactionClassDeposit, view.Transactions()[0].Class)
	})
}

func TestView_FilterAndRecent(t *testing.T) {
	var rows []tabular.Row
	for _, n := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		status := "Pending"
		if n == "2" || n == "6" {
			status = "Confirmed"
		}
		rows = append(rows, depositRow(n, "10", status, "bob"))
	}
	view := Reconcile(rows, nil, "bob")

	t.Run("FilterByStatus", func(t *testing.T) {
		assert.Equal(t, []string{"6", "2"}, numbers(view.Filter(shared.StatusFilterFor(shared.TransactionStatusConfirmed))))
		assert.Len(t, view.Filter(shared.StatusFilter{}), 7)
	})

	t.Run("RecentFive", func(t *testing.T) {
		assert.Equal(t, []string{"7", "6", "5", "4", "3"}, numbers(view.Recent(5)))
		assert.Len(t, view.Recent(50), 7)
		assert.Empty(t, view.Recent(-1))
	})

	t.Run("TransactionsIsACopy", func(t *testing.T) {
		txns := view.Transactions()
		txns[0] = nil
		assert.NotNil(t, view.Transactions()[0])
	})
}
