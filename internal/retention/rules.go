package retention

import (
	"math"

	"repair-insights-go/internal/types"
)

// Explanation tags attached to a profile when the matching rule fires.
const (
	TagRecent   = "recent visitor"
	TagAbsent   = "long absence"
	TagLoyal    = "loyal 5+ visits"
	TagHigh     = "high spend"
	TagValued   = "valued spend"
	TagPeriodic = "periodic pattern"
	TagOverdue  = "overdue"
)

const (
	recentDays    = 30
	activeDays    = 90
	loyalVisits   = 5
	repeatVisits  = 2
	highSpend     = 3_000_000
	valuedSpend   = 1_000_000
	contactDigits = 10
)

// Score is the additive 0-100 VIP heuristic over recency, visit count,
// spend and whether a full phone number is on file.
func Score(recency, visits int, spend int64, phoneDigits int) (int, []string) {
	score := 0
	var tags []string

	switch {
	case recency < recentDays:
		score += 40
		tags = append(tags, TagRecent)
	case recency < activeDays:
		score += 20
	default:
		score -= 20
		tags = append(tags, TagAbsent)
	}

	switch {
	case visits >= loyalVisits:
		score += 30
		tags = append(tags, TagLoyal)
	case visits >= repeatVisits:
		score += 10
	}

	switch {
	case spend > highSpend:
		score += 30
		tags = append(tags, TagHigh)
	case spend > valuedSpend:
		score += 10
		tags = append(tags, TagValued)
	}

	if phoneDigits >= contactDigits {
		score += 5
	}
	return clampInt(score, 0, 100), tags
}

// Classify assigns a segment; the first matching rule wins.
func Classify(score, recency, visits int) types.Segment {
	switch {
	case score >= 80:
		return types.SegmentVIP
	case score >= 60:
		return types.SegmentHighPotential
	case recency > 120 && visits > 1:
		return types.SegmentRisk
	case recency > 365:
		return types.SegmentLost
	case visits == 1 && recency < 60:
		return types.SegmentNew
	default:
		return types.SegmentRegular
	}
}

// Churn is a logistic curve over how overdue a customer is relative to
// their own cycle, clamped to [MinChurn, MaxChurn]. Lost customers pin to
// MaxChurn; New customers are capped at NewChurnCap because one visit
// gives no usable cycle.
func (c Config) Churn(recency int, cycleDays float64, segment types.Segment) float64 {
	if segment == types.SegmentLost {
		return c.MaxChurn
	}
	if cycleDays <= 0 {
		cycleDays = 1
	}
	ratio := float64(recency) / (cycleDays * c.ChurnScale)
	p := 1 / (1 + math.Exp(-(ratio - c.ChurnCenter)))
	p = math.Min(c.MaxChurn, math.Max(c.MinChurn, p))
	if segment == types.SegmentNew {
		p = math.Min(p, c.NewChurnCap)
	}
	return p
}

// PersonaFor picks the outreach tone for a segment.
func PersonaFor(s types.Segment) types.Persona {
	switch s {
	case types.SegmentVIP:
		return types.PersonaConcierge
	case types.SegmentRisk, types.SegmentLost:
		return types.PersonaIncentivizer
	default:
		return types.PersonaAdvisor
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
