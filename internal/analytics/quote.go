package analytics

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"repair-insights-go/internal/catalog"
	"repair-insights-go/internal/types"
)

// QuoteFilter selects past jobs comparable to a new request. Empty fields
// and "All" match everything.
type QuoteFilter struct {
	Brand    string
	Category string
	Keyword  string
	// Limit caps the returned sample jobs; 0 means 50.
	Limit int
}

type QuoteStats struct {
	Count  int                       `json:"count"`
	Avg    int64                     `json:"avg"`
	Min    int64                     `json:"min"`
	Max    int64                     `json:"max"`
	Median float64                   `json:"median"`
	Jobs   []types.TransactionRecord `json:"jobs"`
}

func (f QuoteFilter) match(r types.TransactionRecord) bool {
	if r.Sales <= 0 {
		return false
	}
	if f.Brand != "" && f.Brand != "All" && r.Brand != f.Brand {
		return false
	}
	if f.Category != "" && f.Category != "All" && r.Category != f.Category {
		return false
	}
	if kw := strings.ToLower(strings.TrimSpace(f.Keyword)); kw != "" {
		return strings.Contains(strings.ToLower(r.Description), kw) ||
			strings.Contains(strings.ToLower(r.SubCategory), kw)
	}
	return true
}

// Quote summarizes the prices of matching paid jobs. Jobs are returned
// newest first.
func Quote(records []types.TransactionRecord, f QuoteFilter) QuoteStats {
	var jobs []types.TransactionRecord
	for _, r := range records {
		if f.match(r) {
			jobs = append(jobs, r)
		}
	}
	st := QuoteStats{Count: len(jobs), Jobs: []types.TransactionRecord{}}
	if len(jobs) == 0 {
		return st
	}

	prices := make([]int64, len(jobs))
	var sum int64
	for i, j := range jobs {
		prices[i] = j.Sales
		sum += j.Sales
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i] < prices[j] })
	st.Min, st.Max = prices[0], prices[len(prices)-1]
	st.Avg = decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(prices)))).Round(0).IntPart()
	mid := len(prices) / 2
	if len(prices)%2 == 1 {
		st.Median = float64(prices[mid])
	} else {
		st.Median = float64(prices[mid-1]+prices[mid]) / 2
	}

	sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].Date > jobs[j].Date })
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	if len(jobs) > limit {
		jobs = jobs[:limit]
	}
	st.Jobs = jobs
	return st
}

// MonthInsight pairs the static market note for a month with what the
// shop actually did in that month across all years.
type MonthInsight struct {
	catalog.Insight
	Revenue   int64          `json:"revenue"`
	Count     int            `json:"count"`
	TopBrands []BreakdownRow `json:"top_brands"`
}

// Insight returns the note for month (1-12) or the annual note otherwise.
func Insight(records []types.TransactionRecord, cat *catalog.Catalog, month int) MonthInsight {
	in := MonthInsight{Insight: cat.InsightFor(month)}
	scope := records
	if month >= 1 && month <= 12 {
		scope = Filter{Month: month}.Apply(records)
	}
	for _, r := range scope {
		in.Revenue += r.Sales
		in.Count++
	}
	in.TopBrands = Breakdown(scope, ByBrand, BreakdownOptions{Top: 3, ExcludeOthers: true})
	return in
}
