// Package reconciliation turns raw deposit and withdrawal rows into one ordered,
// de-duplicated transaction view scoped to a viewing agent.
package reconciliation

import (
	"strings"

	"github.com/agent-dashboard/internal/domain/shared"
	"github.com/agent-dashboard/internal/domain/transaction"
	"github.com/agent-dashboard/internal/platform/tabular"
	"github.com/shopspring/decimal"
)

// Minimum field counts per source table
const (
	DepositMinFields    = 7
	WithdrawalMinFields = 8
)

// Deposit table layout
const (
	depositNumber = iota
	depositReference
	depositMethod
	depositUserID
	depositAmount
	depositStatus
	depositAgent
	depositReason
)

// Withdrawal table layout
const (
	withdrawalNumber = iota
	withdrawalMethod
	withdrawalAccount
	withdrawalUserID
	withdrawalAmount
	withdrawalCurrency
	withdrawalAgent
	withdrawalStatus
	withdrawalReference
)

// Classify decodes a row of the given table into a transaction visible to viewer.
// It reports false for rows that are too short or owned by another agent.
func Classify(row tabular.Row, class shared.TransactionClass, viewer string) (*transaction.Transaction, bool) {
	var txn *transaction.Transaction
	switch class {
	case shared.TransactionClassDeposit:
		txn = decodeDeposit(row)
	case shared.TransactionClassWithdrawal:
		txn = decodeWithdrawal(row)
	}
	if txn == nil || !txn.VisibleTo(viewer) {
		return nil, false
	}
	return txn, true
}

// ClassifyAll classifies every row, discarding skips, in input order
func ClassifyAll(rows []tabular.Row, class shared.TransactionClass, viewer string) []*transaction.Transaction {
	txns := make([]*transaction.Transaction, 0, len(rows))
	for _, row := range rows {
		if txn, ok := Classify(row, class, viewer); ok {
			txns = append(txns, txn)
		}
	}
	return txns
}

func decodeDeposit(row tabular.Row) *transaction.Transaction {
	if row.Len() < DepositMinFields {
		return nil
	}
	rawStatus := row.Field(depositStatus)
	return &transaction.Transaction{
		Number:          row.Field(depositNumber),
		Class:           shared.TransactionClassDeposit,
		Amount:          parseAmount(row.Field(depositAmount)),
		RawAmount:       row.Field(depositAmount),
		Currency:        shared.CurrencyNotApplicable,
		Agent:           row.Field(depositAgent),
		Status:          shared.ParseTransactionStatus(rawStatus),
		RawStatus:       rawStatus,
		ReferenceID:     row.Field(depositReference),
		RejectionReason: row.Field(depositReason),
		Method:          row.Field(depositMethod),
		UserID:          row.Field(depositUserID),
	}
}

func decodeWithdrawal(row tabular.Row) *transaction.Transaction {
	if row.Len() < WithdrawalMinFields {
		return nil
	}
	rawStatus := row.Field(withdrawalStatus)
	return &transaction.Transaction{
		Number:        row.Field(withdrawalNumber),
		Class:         shared.TransactionClassWithdrawal,
		Amount:        parseAmount(row.Field(withdrawalAmount)),
		RawAmount:     row.Field(withdrawalAmount),
		Currency:      row.Field(withdrawalCurrency),
		Agent:         row.Field(withdrawalAgent),
		Status:        shared.ParseTransactionStatus(rawStatus),
		RawStatus:     rawStatus,
		ReferenceID:   row.Field(withdrawalReference),
		Method:        row.Field(withdrawalMethod),
		AccountNumber: row.Field(withdrawalAccount),
		UserID:        row.Field(withdrawalUserID),
	}
}

// parseAmount reads the longest leading decimal number of s, so "100 PHP"
// is 100 and "1,000.50" is 1. Amounts with no leading number are zero.
func parseAmount(s string) decimal.Decimal {
	prefix := leadingNumber(strings.TrimSpace(s))
	if prefix == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// leadingNumber returns the prefix of s matching [+-]digits[.digits][e[+-]digits]
// with a bare trailing dot dropped. At least one mantissa digit is required; an
// exponent without digits is left out.
func leadingNumber(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intDigits := countDigits(s[i:])
	i += intDigits
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		fracDigits = countDigits(s[i+1:])
		i += 1 + fracDigits
	}
	if intDigits == 0 && fracDigits == 0 {
		return ""
	}
	mantissa := strings.TrimSuffix(s[:i], ".")

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if n := countDigits(s[j:]); n > 0 {
			return mantissa + s[i:j+n]
		}
	}
	return mantissa
}

func countDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}
