package reconciliation

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/agent-dashboard/internal/domain/transaction"
)

// sortKey is the integer reading of a transaction number. Numbers without a
// leading integer are not numeric and order after every numeric one.
type sortKey struct {
	value   int64
	numeric bool
}

// parseSortKey reads the leading optionally signed base-10 integer of s,
// ignoring surrounding whitespace. Out-of-range values saturate.
func parseSortKey(s string) sortKey {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return sortKey{}
	}

	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return sortKey{}
	}
	return sortKey{value: v, numeric: true}
}

// SortDescending orders transactions by number, highest first. Non-numeric
// numbers go last; ties keep their input order.
func SortDescending(txns []*transaction.Transaction) {
	keys := make(map[*transaction.Transaction]sortKey, len(txns))
	for _, t := range txns {
		keys[t] = parseSortKey(t.Number)
	}
	sort.SliceStable(txns, func(i, j int) bool {
		a, b := keys[txns[i]], keys[txns[j]]
		if a.numeric != b.numeric {
			return a.numeric
		}
		return a.value > b.value
	})
}
