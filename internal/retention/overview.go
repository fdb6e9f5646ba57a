package retention

import (
	"sort"

	"repair-insights-go/internal/types"
)

// Overview is the CRM summary over a profile set.
type Overview struct {
	TotalCustomers     int                     `json:"total_customers"`
	ReturningCustomers int                     `json:"returning_customers"`
	ReturnRate         float64                 `json:"return_rate"`
	VIPCount           int                     `json:"vip_count"`
	Segments           map[types.Segment]int   `json:"segments"`
	ChurnRisk          []types.CustomerProfile `json:"churn_risk"`
	ValueAtRisk        int64                   `json:"value_at_risk"`
	Retention          []types.CustomerProfile `json:"retention"`
}

// Summarize counts segments and builds the two outreach lists: customers
// likely to churn (highest spend first) and regulars whose next visit is
// still ahead (soonest first). ValueAtRisk covers every churn-risk
// customer, not only the listed ones.
func (c Config) Summarize(profiles []types.CustomerProfile) Overview {
	ov := Overview{
		TotalCustomers: len(profiles),
		Segments:       map[types.Segment]int{},
		ChurnRisk:      []types.CustomerProfile{},
		Retention:      []types.CustomerProfile{},
	}
	for _, p := range profiles {
		ov.Segments[p.Segment]++
		if p.VisitCount > 1 {
			ov.ReturningCustomers++
		}
		if p.Segment == types.SegmentVIP {
			ov.VIPCount++
		}
		if c.atRisk(p) {
			ov.ChurnRisk = append(ov.ChurnRisk, p)
			ov.ValueAtRisk += p.TotalSpend
		}
		if p.Segment == types.SegmentRegular && p.NextVisitWindow != nil && p.DaysUntilNextVisit > 0 {
			ov.Retention = append(ov.Retention, p)
		}
	}
	if ov.TotalCustomers > 0 {
		ov.ReturnRate = float64(ov.ReturningCustomers) / float64(ov.TotalCustomers) * 100
	}

	sort.SliceStable(ov.ChurnRisk, func(i, j int) bool {
		a, b := ov.ChurnRisk[i], ov.ChurnRisk[j]
		if a.TotalSpend != b.TotalSpend {
			return a.TotalSpend > b.TotalSpend
		}
		return a.PhoneKey < b.PhoneKey
	})
	sort.SliceStable(ov.Retention, func(i, j int) bool {
		a, b := ov.Retention[i], ov.Retention[j]
		if a.DaysUntilNextVisit != b.DaysUntilNextVisit {
			return a.DaysUntilNextVisit < b.DaysUntilNextVisit
		}
		return a.PhoneKey < b.PhoneKey
	})
	ov.ChurnRisk = limit(ov.ChurnRisk, c.ListLimit)
	ov.Retention = limit(ov.Retention, c.ListLimit)
	return ov
}

func (c Config) atRisk(p types.CustomerProfile) bool {
	if p.Segment == types.SegmentRisk {
		return true
	}
	return p.ChurnProbability > c.ChurnRiskThreshold && p.VisitCount > 1
}

func limit(ps []types.CustomerProfile, n int) []types.CustomerProfile {
	if n > 0 && len(ps) > n {
		return ps[:n]
	}
	return ps
}

// Summarize builds the overview with the engine's configuration.
func (e *Engine) Summarize(profiles []types.CustomerProfile) Overview {
	return e.cfg.Summarize(profiles)
}
