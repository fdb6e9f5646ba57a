package actionable

import (
	"fmt"
	"math"

	"repair-insights-go/internal/retention"
	"repair-insights-go/internal/types"
)

type ActionCard struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
}

// Outreach is a ready-to-send message for one customer.
type Outreach struct {
	PhoneKey    string        `json:"phone_key"`
	Phone       string        `json:"phone"`
	DisplayName string        `json:"display_name"`
	Segment     types.Segment `json:"segment"`
	Persona     types.Persona `json:"persona"`
	Message     string        `json:"message"`
}

// churnShareAlert is the share of customers at risk above which the
// overview card asks for a win-back campaign.
const churnShareAlert = 0.35

// Generate turns the CRM overview into the headline card.
func Generate(ov retention.Overview) ActionCard {
	if ov.TotalCustomers == 0 {
		return ActionCard{
			Insight: "No identifiable customers yet",
			Action:  "Collect phone numbers at intake so visits can be linked",
			Impact:  "Enables retention tracking",
		}
	}
	atRisk := ov.Segments[types.SegmentRisk] + ov.Segments[types.SegmentLost]
	share := float64(atRisk) / float64(ov.TotalCustomers)
	if share >= churnShareAlert {
		return ActionCard{
			Insight: fmt.Sprintf("%.0f%% of customers are at risk or lost", share*100),
			Action:  "Run a welcome-back offer for the churn-risk list this month",
			Impact:  fmt.Sprintf("Protects up to %d in historical spend", ov.ValueAtRisk),
		}
	}
	if len(ov.ChurnRisk) > 0 {
		return ActionCard{
			Insight: fmt.Sprintf("%d repeat customers are past their usual cycle", len(ov.ChurnRisk)),
			Action:  "Call the top of the churn-risk list before sending offers",
			Impact:  fmt.Sprintf("%d in spend at risk", ov.ValueAtRisk),
		}
	}
	return ActionCard{
		Insight: fmt.Sprintf("Return rate %.1f%% with no churn alerts", ov.ReturnRate),
		Action:  "Send service reminders as next-visit windows open",
		Impact:  "Keeps repeat visits on schedule",
	}
}

// ForCustomer writes the outreach message in the tone of the customer's
// persona.
func ForCustomer(p types.CustomerProfile, shop string) Outreach {
	o := Outreach{
		PhoneKey:    p.PhoneKey,
		Phone:       p.Phone,
		DisplayName: p.DisplayName,
		Segment:     p.Segment,
		Persona:     p.Persona,
	}
	start := ""
	if p.NextVisitWindow != nil {
		start = p.NextVisitWindow.Start
	}

	switch p.Persona {
	case types.PersonaConcierge:
		o.Message = fmt.Sprintf("[%s] %s, this is your private care manager. Is the piece you left with us holding up well?", shop, p.DisplayName)
		if start != "" {
			o.Message += fmt.Sprintf(" We would like to book a leather condition check around %s.", start)
		}
		o.Message += " Reply whenever suits you."
	case types.PersonaIncentivizer:
		o.Message = fmt.Sprintf("[%s] %s, it has been a while. Seasonal leather care is due, and a 10%% welcome-back discount is ready for visits this month.", shop, p.DisplayName)
	default:
		o.Message = fmt.Sprintf("[%s] Hello %s.", shop, p.DisplayName)
		if cycle := int(math.Round(p.AverageInterPurchaseDays)); cycle > 0 {
			o.Message += fmt.Sprintf(" Your items usually need care every %d days.", cycle)
		}
		if start != "" {
			o.Message += fmt.Sprintf(" The recommended check period starts %s; stop by for a free condition check.", start)
		}
	}
	return o
}

// ForCustomers builds messages for a list in order.
func ForCustomers(ps []types.CustomerProfile, shop string) []Outreach {
	out := make([]Outreach, 0, len(ps))
	for _, p := range ps {
		out = append(out, ForCustomer(p, shop))
	}
	return out
}
