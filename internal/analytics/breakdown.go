package analytics

import (
	"sort"

	"repair-insights-go/internal/catalog"
	"repair-insights-go/internal/dataset"
	"repair-insights-go/internal/normalize"
	"repair-insights-go/internal/types"
)

type Dimension string

const (
	ByBrand         Dimension = "brand"
	ByChannel       Dimension = "channel"
	ByCategory      Dimension = "category"
	ByBrandCategory Dimension = "brand_category"
)

// ParseDimension falls back to ByBrand for unknown names.
func ParseDimension(s string) Dimension {
	switch Dimension(s) {
	case ByChannel, ByCategory, ByBrandCategory:
		return Dimension(s)
	}
	return ByBrand
}

func (d Dimension) key(r types.TransactionRecord) string {
	switch d {
	case ByChannel:
		return r.SubCategory
	case ByCategory:
		return r.Category
	case ByBrandCategory:
		return r.Brand + " " + r.Category
	default:
		return r.Brand
	}
}

type SortKey string

const (
	SortRevenue SortKey = "revenue"
	SortProfit  SortKey = "profit"
	SortCount   SortKey = "count"
	SortMargin  SortKey = "margin"
	SortASP     SortKey = "asp"
)

type BreakdownOptions struct {
	SortBy SortKey
	// Top keeps the first N rows after sorting; 0 keeps all.
	Top int
	// ExcludeOthers drops the "Others" brand and "Other" placeholder rows.
	ExcludeOthers bool
	// Rework, when set, counts rows whose description or category reads
	// like a redo.
	Rework *catalog.Rework
}

type BreakdownRow struct {
	Key         string  `json:"key"`
	Count       int     `json:"count"`
	Revenue     int64   `json:"revenue"`
	Profit      int64   `json:"profit"`
	Margin      float64 `json:"margin"`
	ASP         int64   `json:"asp"`
	ReworkCount int     `json:"rework_count"`
	ReworkRate  float64 `json:"rework_rate"`
}

// Breakdown groups records by dim. Margin is profit/revenue (0 without
// revenue) and ReworkRate is rework/count, both as ratios. Rows are sorted
// descending by opts.SortBy, ties by key.
func Breakdown(records []types.TransactionRecord, dim Dimension, opts BreakdownOptions) []BreakdownRow {
	idx := map[string]*BreakdownRow{}
	for _, r := range records {
		if opts.ExcludeOthers && isPlaceholder(r, dim) {
			continue
		}
		k := dim.key(r)
		row, ok := idx[k]
		if !ok {
			row = &BreakdownRow{Key: k}
			idx[k] = row
		}
		row.Count++
		row.Revenue += r.Sales
		row.Profit += r.NetProfit
		if opts.Rework != nil && opts.Rework.Matches(r.Description+" "+r.Category) {
			row.ReworkCount++
		}
	}

	out := make([]BreakdownRow, 0, len(idx))
	for _, row := range idx {
		row.Margin = ratio(row.Profit, row.Revenue)
		row.ReworkRate = ratio(int64(row.ReworkCount), int64(row.Count))
		if row.Count > 0 {
			row.ASP = row.Revenue / int64(row.Count)
		}
		out = append(out, *row)
	}

	value := sortValue(opts.SortBy)
	sort.Slice(out, func(i, j int) bool {
		a, b := value(out[i]), value(out[j])
		if a != b {
			return a > b
		}
		return out[i].Key < out[j].Key
	})
	if opts.Top > 0 && len(out) > opts.Top {
		out = out[:opts.Top]
	}
	return out
}

func sortValue(k SortKey) func(BreakdownRow) float64 {
	switch k {
	case SortProfit:
		return func(r BreakdownRow) float64 { return float64(r.Profit) }
	case SortCount:
		return func(r BreakdownRow) float64 { return float64(r.Count) }
	case SortMargin:
		return func(r BreakdownRow) float64 { return r.Margin }
	case SortASP:
		return func(r BreakdownRow) float64 { return float64(r.ASP) }
	default:
		return func(r BreakdownRow) float64 { return float64(r.Revenue) }
	}
}

func isPlaceholder(r types.TransactionRecord, dim Dimension) bool {
	switch dim {
	case ByChannel:
		return r.SubCategory == dataset.DefaultLabel
	case ByCategory:
		return r.Category == dataset.DefaultLabel
	default:
		return r.Brand == normalize.OtherBrand
	}
}
