package aggregator

import (
	"sort"
	"time"

	"repair-insights-go/internal/normalize"
	"repair-insights-go/internal/types"
)

// GroupByCustomer returns each customer's history keyed by phone digits,
// oldest first. Rows whose phone can't identify a customer are left out.
func GroupByCustomer(records []types.TransactionRecord) map[string][]types.TransactionRecord {
	groups := map[string][]types.TransactionRecord{}
	for _, r := range records {
		if !normalize.ValidPhone(r.Phone) {
			continue
		}
		key := r.PhoneKey()
		groups[key] = append(groups[key], r)
	}
	for _, h := range groups {
		SortByDate(h)
	}
	return groups
}

// SortByDate orders a history oldest first, keeping same-day rows in their
// original order.
func SortByDate(history []types.TransactionRecord) {
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date < history[j].Date
	})
}

// ReferenceDate is the latest transaction date in the data set. It stands in
// for "today" so results don't depend on the wall clock.
func ReferenceDate(records []types.TransactionRecord) (time.Time, bool) {
	var max string
	for _, r := range records {
		if r.Date > max {
			max = r.Date
		}
	}
	if max == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.DateOnly, max)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Keys returns the customer keys in ascending order.
func Keys(groups map[string][]types.TransactionRecord) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
