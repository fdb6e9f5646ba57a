package analytics

import (
	"fmt"
	"time"

	"repair-insights-go/internal/types"
)

// Targets are the revenue goals per month and per year.
type Targets struct {
	Monthly int64 `json:"monthly"`
	Yearly  int64 `json:"yearly"`
}

func DefaultTargets() Targets {
	return Targets{Monthly: 37_500_000, Yearly: 450_000_000}
}

// GoalPeriod is a calendar year, or one month of it when Month is set.
type GoalPeriod struct {
	Year  int
	Month int
}

func (p GoalPeriod) String() string {
	if p.Month == 0 {
		return fmt.Sprintf("%04d", p.Year)
	}
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

func (p GoalPeriod) bounds() (start, end time.Time) {
	if p.Month == 0 {
		start = time.Date(p.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0)
	}
	start = time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

type GoalResult struct {
	Period        string  `json:"period"`
	Target        int64   `json:"target"`
	Achieved      int64   `json:"achieved"`
	AttainmentPct float64 `json:"attainment_pct"`
	// ProgressPct is AttainmentPct capped at 100 for gauges.
	ProgressPct float64 `json:"progress_pct"`
	Remaining   int64   `json:"remaining"`
	Projection  int64   `json:"projection"`
	Projected   bool    `json:"projected"`
	OnTrack     bool    `json:"on_track"`
}

// Goal measures revenue in the period against its target. When asOf falls
// inside the period the revenue so far is extrapolated at the same daily
// run rate to the end of the period.
func Goal(records []types.TransactionRecord, period GoalPeriod, targets Targets, asOf time.Time) GoalResult {
	res := GoalResult{Period: period.String(), Target: targets.Yearly}
	if period.Month != 0 {
		res.Target = targets.Monthly
	}
	for _, r := range records {
		if r.Year == period.Year && (period.Month == 0 || r.Month == period.Month) {
			res.Achieved += r.Sales
		}
	}
	res.AttainmentPct = percent(res.Achieved, res.Target)
	res.ProgressPct = res.AttainmentPct
	if res.ProgressPct > 100 {
		res.ProgressPct = 100
	}
	if res.Target > res.Achieved {
		res.Remaining = res.Target - res.Achieved
	}

	start, end := period.bounds()
	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	if !day.Before(start) && day.Before(end) {
		elapsed := int64(day.Sub(start)/(24*time.Hour)) + 1
		total := int64(end.Sub(start) / (24 * time.Hour))
		res.Projection = res.Achieved * total / elapsed
		res.Projected = true
		res.OnTrack = res.Projection >= res.Target
	} else {
		res.OnTrack = res.Achieved >= res.Target
	}
	return res
}
