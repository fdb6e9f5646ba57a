// Package analytics folds the canonical record sequence into the
// aggregates the dashboard renders. Every function is a read-only
// projection and accepts an empty input.
package analytics

import (
	"github.com/shopspring/decimal"

	"repair-insights-go/internal/normalize"
	"repair-insights-go/internal/types"
)

// Filter narrows records to a calendar period and optionally one brand.
// Zero values mean "all".
type Filter struct {
	Year  int    `json:"year,omitempty"`
	Month int    `json:"month,omitempty"`
	Brand string `json:"brand,omitempty"`
}

func (f Filter) Match(r types.TransactionRecord) bool {
	if f.Year != 0 && r.Year != f.Year {
		return false
	}
	if f.Month != 0 && r.Month != f.Month {
		return false
	}
	if f.Brand != "" && r.Brand != f.Brand {
		return false
	}
	return true
}

// Apply returns the matching records in their original order.
func (f Filter) Apply(records []types.TransactionRecord) []types.TransactionRecord {
	out := make([]types.TransactionRecord, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

type Totals struct {
	Revenue   int64   `json:"revenue"`
	Cost      int64   `json:"cost"`
	NetProfit int64   `json:"net_profit"`
	MarginPct float64 `json:"margin_pct"`
	Count     int     `json:"count"`
	AvgTicket int64   `json:"avg_ticket"`
	Customers int     `json:"customers"`
}

func Summarize(records []types.TransactionRecord) Totals {
	var t Totals
	customers := map[string]bool{}
	for _, r := range records {
		t.Revenue += r.Sales
		t.Cost += r.Cost
		t.NetProfit += r.NetProfit
		t.Count++
		if normalize.ValidPhone(r.Phone) {
			customers[r.PhoneKey()] = true
		}
	}
	t.Customers = len(customers)
	t.MarginPct = percent(t.NetProfit, t.Revenue)
	if t.Count > 0 {
		t.AvgTicket = t.Revenue / int64(t.Count)
	}
	return t
}

// ratio is num/den, 0 when den is 0.
func ratio(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return decimal.NewFromInt(num).Div(decimal.NewFromInt(den)).Round(4).InexactFloat64()
}

// percent is 100*num/den rounded to one decimal, 0 when den is 0.
func percent(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return decimal.NewFromInt(num).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(den)).Round(1).InexactFloat64()
}
