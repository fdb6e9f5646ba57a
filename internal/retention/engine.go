// Package retention turns a customer's transaction history into a profile:
// RFM inputs, VIP score, segment, churn probability and the expected next
// visit. Everything here is a pure function of the history and an explicit
// reference date.
package retention

import (
	"fmt"
	"math"
	"sort"
	"time"

	"repair-insights-go/internal/aggregator"
	"repair-insights-go/internal/normalize"
	"repair-insights-go/internal/types"
)

const day = 24 * time.Hour

type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Profiles groups records by customer and analyzes each one against the
// latest date in the data set. The result is ordered by VIP score, then
// spend, both descending, then phone key.
func (e *Engine) Profiles(records []types.TransactionRecord) []types.CustomerProfile {
	ref, ok := aggregator.ReferenceDate(records)
	if !ok {
		return []types.CustomerProfile{}
	}
	groups := aggregator.GroupByCustomer(records)
	out := make([]types.CustomerProfile, 0, len(groups))
	for _, key := range aggregator.Keys(groups) {
		p, ok := e.Analyze(groups[key], ref)
		if ok {
			out = append(out, p)
		}
	}
	SortProfiles(out)
	return out
}

func SortProfiles(ps []types.CustomerProfile) {
	sort.SliceStable(ps, func(i, j int) bool {
		a, b := ps[i], ps[j]
		if a.VIPScore != b.VIPScore {
			return a.VIPScore > b.VIPScore
		}
		if a.TotalSpend != b.TotalSpend {
			return a.TotalSpend > b.TotalSpend
		}
		return a.PhoneKey < b.PhoneKey
	})
}

// Analyze builds one profile. history must belong to a single customer;
// its order does not matter. It reports false for an empty history or one
// without parseable dates.
func (e *Engine) Analyze(history []types.TransactionRecord, ref time.Time) (types.CustomerProfile, bool) {
	if len(history) == 0 {
		return types.CustomerProfile{}, false
	}
	h := append([]types.TransactionRecord(nil), history...)
	aggregator.SortByDate(h)

	first, err1 := time.Parse(time.DateOnly, h[0].Date)
	last, err2 := time.Parse(time.DateOnly, h[len(h)-1].Date)
	if err1 != nil || err2 != nil {
		return types.CustomerProfile{}, false
	}

	latest := h[len(h)-1]
	p := types.CustomerProfile{
		PhoneKey:       latest.PhoneKey(),
		Phone:          latest.Phone,
		DisplayName:    displayName(h),
		VisitCount:     len(h),
		FirstVisitDate: h[0].Date,
		LastVisitDate:  latest.Date,
	}

	days := map[string]bool{}
	var top types.TransactionRecord
	for i, r := range h {
		days[r.Date] = true
		p.TotalSpend += r.Sales
		if i == 0 || r.Sales > top.Sales {
			top = r
		}
	}
	p.DistinctVisitDays = len(days)
	p.PreferredCategory = top.Category

	p.RecencyDays = daysBetween(last, ref)
	if p.DistinctVisitDays > 1 {
		span := float64(daysBetween(first, last))
		p.AverageInterPurchaseDays = span / float64(p.DistinctVisitDays-1)
	}

	score, tags := Score(p.RecencyDays, p.VisitCount, p.TotalSpend, len(p.PhoneKey))
	p.VIPScore = score
	p.Segment = Classify(score, p.RecencyDays, p.VisitCount)

	cycle := p.AverageInterPurchaseDays
	if cycle <= 0 {
		cycle = e.durabilityDays(last, p.PreferredCategory)
	}
	p.ChurnProbability = e.cfg.Churn(p.RecencyDays, cycle, p.Segment)
	p.RetentionScore = 100 - p.ChurnProbability*100

	if p.Segment != types.SegmentRisk && p.Segment != types.SegmentLost {
		ahead := int(math.Round(cycle))
		center := last.AddDate(0, 0, ahead)
		p.NextVisitWindow = &types.VisitWindow{
			Start: center.AddDate(0, -e.cfg.WindowMonths, 0).Format(time.DateOnly),
			End:   center.AddDate(0, e.cfg.WindowMonths, 0).Format(time.DateOnly),
		}
		p.DaysUntilNextVisit = ahead - p.RecencyDays
		if p.DaysUntilNextVisit > 0 {
			tags = append(tags, TagPeriodic)
		} else {
			tags = append(tags, TagOverdue)
		}
	}

	p.CLV = float64(p.TotalSpend) * e.cfg.CLVMultiplier
	p.Persona = PersonaFor(p.Segment)
	p.Explanations = dedupe(tags)
	return p, true
}

// durabilityDays converts the category's service interval to days counted
// from the last visit.
func (e *Engine) durabilityDays(last time.Time, category string) float64 {
	months := e.cfg.Durability.MonthsFor(category)
	if months <= 0 {
		months = 12
	}
	return float64(daysBetween(last, last.AddDate(0, months, 0)))
}

func daysBetween(from, to time.Time) int {
	d := int(to.Sub(from) / day)
	if d < 0 {
		return 0
	}
	return d
}

func displayName(h []types.TransactionRecord) string {
	for i := len(h) - 1; i >= 0; i-- {
		if h[i].CustomerName != "" {
			return h[i].CustomerName
		}
	}
	key := normalize.PhoneKey(h[len(h)-1].Phone)
	if len(key) > 4 {
		key = key[len(key)-4:]
	}
	return fmt.Sprintf("Customer (%s)", key)
}

func dedupe(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
