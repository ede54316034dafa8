package reconciliation

import (
	"time"

	"github.com/agent-dashboard/internal/domain/shared"
	"github.com/agent-dashboard/internal/domain/transaction"
	"github.com/shopspring/decimal"
)

// CommissionLine is the commission earned on one confirmed transaction
type CommissionLine struct {
	Transaction *transaction.Transaction
	Commission  decimal.Decimal
	Currency    string
	Date        time.Time // Time the report was built; the source records no confirmation time
}

// CurrencyTotal is the accumulated commission in one currency
type CurrencyTotal struct {
	Currency string
	Total    decimal.Decimal
}

// CommissionReport lists commission on the confirmed transactions of a view
type CommissionReport struct {
	Lines       []CommissionLine
	Totals      []CurrencyTotal // First-seen currency order
	GeneratedAt time.Time
}

// BuildCommissionReport restricts v to confirmed transactions and accumulates
// their commission per currency. Deposits accrue under "N/A".
func BuildCommissionReport(v *View, now time.Time) *CommissionReport {
	report := &CommissionReport{GeneratedAt: now}
	positions := make(map[string]int)

	for _, t := range v.Filter(shared.StatusFilterFor(shared.TransactionStatusConfirmed)) {
		commission := t.Commission()
		currency := t.CommissionCurrency()

		report.Lines = append(report.Lines, CommissionLine{
			Transaction: t,
			Commission:  commission,
			Currency:    currency,
			Date:        now,
		})

		pos, ok := positions[currency]
		if !ok {
			positions[currency] = len(report.Totals)
			report.Totals = append(report.Totals, CurrencyTotal{Currency: currency, Total: commission})
			continue
		}
		report.Totals[pos].Total = report.Totals[pos].Total.Add(commission)
	}
	return report
}

// Total returns the accumulated commission for currency
func (r *CommissionReport) Total(currency string) (decimal.Decimal, bool) {
	for _, t := range r.Totals {
		if t.Currency == currency {
			return t.Total, true
		}
	}
	return decimal.Zero, false
}
