package reconciliation

import (
	"time"

	"github.com/agent-dashboard/internal/domain/shared"
	"github.com/agent-dashboard/internal/domain/transaction"
	"github.com/agent-dashboard/internal/platform/tabular"
)

// Counts aggregates a view by status. Rows with an unrecognised status count
// toward Total only.
type Counts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Rejected  int `json:"rejected"`
}

// View is an immutable, ordered set of transactions visible to one agent,
// indexed by class and number. A reload replaces the whole view.
type View struct {
	viewer       string
	transactions []*transaction.Transaction
	index        map[transaction.Key]*transaction.Transaction
	loadedAt     time.Time
}

// Reconcile classifies both tables for viewer and merges them into one view:
// deposits then withdrawals, de-duplicated, sorted by number descending.
func Reconcile(depositRows, withdrawalRows []tabular.Row, viewer string) *View {
	deposits := ClassifyAll(depositRows, shared.TransactionClassDeposit, viewer)
	withdrawals := ClassifyAll(withdrawalRows, shared.TransactionClassWithdrawal, viewer)

	merged := make([]*transaction.Transaction, 0, len(deposits)+len(withdrawals))
	merged = append(merged, deposits...)
	merged = append(merged, withdrawals...)
	return NewView(viewer, merged)
}

// NewView builds a view from already-classified transactions. The first
// occurrence of a class and number wins.
func NewView(viewer string, txns []*transaction.Transaction) *View {
	index := make(map[transaction.Key]*transaction.Transaction, len(txns))
	unique := make([]*transaction.Transaction, 0, len(txns))
	for _, t := range txns {
		key := t.Key()
		if _, seen := index[key]; seen {
			continue
		}
		index[key] = t
		unique = append(unique, t)
	}

	SortDescending(unique)

	return &View{
		viewer:       viewer,
		transactions: unique,
		index:        index,
		loadedAt:     time.Now().UTC(),
	}
}

// Viewer returns the agent the view is scoped to
func (v *View) Viewer() string {
	return v.viewer
}

// LoadedAt returns when the view was derived
func (v *View) LoadedAt() time.Time {
	return v.loadedAt
}

// Len returns the number of transactions in the view
func (v *View) Len() int {
	return len(v.transactions)
}

// Transactions returns the ordered transactions. The slice is a copy.
func (v *View) Transactions() []*transaction.Transaction {
	out := make([]*transaction.Transaction, len(v.transactions))
	copy(out, v.transactions)
	return out
}

// Lookup finds a transaction by class and number
func (v *View) Lookup(class shared.TransactionClass, number string) (*transaction.Transaction, bool) {
	t, ok := v.index[transaction.Key{Class: class, Number: number}]
	return t, ok
}

// Filter returns the ordered transactions that pass f
func (v *View) Filter(f shared.StatusFilter) []*transaction.Transaction {
	if f.IsAll() {
		return v.Transactions()
	}
	var out []*transaction.Transaction
	for _, t := range v.transactions {
		if f.Matches(t.Status) {
			out = append(out, t)
		}
	}
	return out
}

// Recent returns up to n transactions from the head of the view
func (v *View) Recent(n int) []*transaction.Transaction {
	if n > len(v.transactions) {
		n = len(v.transactions)
	}
	if n < 0 {
		n = 0
	}
	out := make([]*transaction.Transaction, n)
	copy(out, v.transactions[:n])
	return out
}

// Counts aggregates the view by status
func (v *View) Counts() Counts {
	c := Counts{Total: len(v.transactions)}
	for _, t := range v.transactions {
		switch t.Status {
		case shared.TransactionStatusPending:
			c.Pending++
		case shared.TransactionStatusConfirmed:
			c.Confirmed++
		case shared.TransactionStatusRejected:
			c.Rejected++
		}
	}
	return c
}
