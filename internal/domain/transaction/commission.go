package transaction

import (
	"github.com/agent-dashboard/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var (
	withdrawalRate = decimal.RequireFromString("0.05")
	depositRate    = decimal.RequireFromString("0.03")
)

// Commission computes the agent fee for an amount. Withdrawals earn 5% and
// everything else 3%. The result keeps full precision; callers round for display.
func Commission(amount decimal.Decimal, class shared.TransactionClass) decimal.Decimal {
	return amount.Mul(rateFor(class))
}

// FormatCommission renders a commission with two decimal places
func FormatCommission(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

func rateFor(class shared.TransactionClass) decimal.Decimal {
	if class == shared.TransactionClassWithdrawal {
		return withdrawalRate
	}
	return depositRate
}
