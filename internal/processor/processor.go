// Package processor turns one parsed feed into the in-memory snapshot the
// API serves, and owns the reload lifecycle.
package processor

import (
	"time"

	"repair-insights-go/internal/aggregator"
	"repair-insights-go/internal/dataset"
	"repair-insights-go/internal/retention"
	"repair-insights-go/internal/types"
)

// Snapshot is immutable once built; a reload swaps the whole value.
type Snapshot struct {
	Records    []types.TransactionRecord `json:"-"`
	Profiles   []types.CustomerProfile   `json:"-"`
	Overview   retention.Overview        `json:"-"`
	Reference  string                    `json:"reference_date"`
	Stats      dataset.Stats             `json:"stats"`
	Source     string                    `json:"source"`
	LoadedAt   time.Time                 `json:"loaded_at"`
	DurationMs int64                     `json:"duration_ms"`
}

// Empty reports a feed that was read but produced no records.
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Records) == 0
}

// Profile finds a customer by digits-only phone key.
func (s *Snapshot) Profile(key string) (types.CustomerProfile, bool) {
	if s == nil {
		return types.CustomerProfile{}, false
	}
	for _, p := range s.Profiles {
		if p.PhoneKey == key {
			return p, true
		}
	}
	return types.CustomerProfile{}, false
}

// History returns the customer's transactions, oldest first.
func (s *Snapshot) History(key string) []types.TransactionRecord {
	if s == nil {
		return []types.TransactionRecord{}
	}
	groups := aggregator.GroupByCustomer(s.Records)
	if h, ok := groups[key]; ok {
		return h
	}
	return []types.TransactionRecord{}
}

// Build runs the retention engine over a parse result.
func Build(res dataset.Result, engine *retention.Engine, source string, at time.Time) *Snapshot {
	start := time.Now()
	snap := &Snapshot{
		Records:  res.Records,
		Stats:    res.Stats,
		Source:   source,
		LoadedAt: at,
	}
	if snap.Records == nil {
		snap.Records = []types.TransactionRecord{}
	}
	snap.Profiles = engine.Profiles(snap.Records)
	snap.Overview = engine.Summarize(snap.Profiles)
	if ref, ok := aggregator.ReferenceDate(snap.Records); ok {
		snap.Reference = ref.Format(time.DateOnly)
	}
	snap.DurationMs = time.Since(start).Milliseconds()
	return snap
}
