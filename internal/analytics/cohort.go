package analytics

import (
	"fmt"
	"math"
	"sort"

	"repair-insights-go/internal/normalize"
	"repair-insights-go/internal/types"
)

// CohortRow is one first-visit month. Retention[n] is the share of the
// cohort, in whole percent, that transacted n months after joining, so
// Retention[0] is always 100.
type CohortRow struct {
	Cohort    string `json:"cohort"`
	Size      int    `json:"size"`
	Retention []int  `json:"retention"`
}

// DefaultCohortMonths is how many months after the first visit are tracked.
const DefaultCohortMonths = 6

// Cohorts groups identifiable customers by first-visit month and tracks
// them for the following months. Rows are ordered oldest cohort first.
func Cohorts(records []types.TransactionRecord, months int) []CohortRow {
	if months < 0 {
		months = 0
	}
	first := map[string]int{}
	for _, r := range records {
		if !normalize.ValidPhone(r.Phone) {
			continue
		}
		k, m := r.PhoneKey(), monthIndex(r)
		if cur, ok := first[k]; !ok || m < cur {
			first[k] = m
		}
	}

	type cohort struct {
		members map[string]bool
		active  []map[string]bool
	}
	cohorts := map[int]*cohort{}
	for _, r := range records {
		if !normalize.ValidPhone(r.Phone) {
			continue
		}
		k := r.PhoneKey()
		start := first[k]
		c, ok := cohorts[start]
		if !ok {
			c = &cohort{members: map[string]bool{}, active: make([]map[string]bool, months+1)}
			for i := range c.active {
				c.active[i] = map[string]bool{}
			}
			cohorts[start] = c
		}
		c.members[k] = true
		if n := monthIndex(r) - start; n <= months {
			c.active[n][k] = true
		}
	}

	keys := make([]int, 0, len(cohorts))
	for k := range cohorts {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]CohortRow, 0, len(keys))
	for _, k := range keys {
		c := cohorts[k]
		row := CohortRow{
			Cohort:    fmt.Sprintf("%04d-%02d", k/12, k%12+1),
			Size:      len(c.members),
			Retention: make([]int, months+1),
		}
		for i, set := range c.active {
			row.Retention[i] = int(math.Round(float64(len(set)) / float64(row.Size) * 100))
		}
		out = append(out, row)
	}
	return out
}

func monthIndex(r types.TransactionRecord) int {
	return r.Year*12 + r.Month - 1
}
