package types

import "repair-insights-go/internal/normalize"

// TransactionRecord is one repair/service transaction after every field
// normalizer has run. Records are rebuilt from the feed on each load and
// never edited in place.
type TransactionRecord struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	Day          int    `json:"day"`
	Category     string `json:"category"`
	SubCategory  string `json:"sub_category"`
	Brand        string `json:"brand"`
	Description  string `json:"description"`
	Sales        int64  `json:"sales"`
	Cost         int64  `json:"cost"`
	NetProfit    int64  `json:"net_profit"`
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
}

// PhoneKey returns the digits-only phone used to group customers.
func (r TransactionRecord) PhoneKey() string {
	return normalize.PhoneKey(r.Phone)
}

// NetProfitOf is the single net-profit convention: cost is a non-negative
// outlay and is subtracted from sales.
func NetProfitOf(sales, cost int64) int64 {
	return sales - cost
}

type Segment string

const (
	SegmentVIP           Segment = "VIP"
	SegmentHighPotential Segment = "HighPotential"
	SegmentRegular       Segment = "Regular"
	SegmentNew           Segment = "New"
	SegmentRisk          Segment = "Risk"
	SegmentLost          Segment = "Lost"
)

// Persona selects the tone used when contacting a customer.
type Persona string

const (
	PersonaConcierge    Persona = "Concierge"
	PersonaAdvisor      Persona = "Advisor"
	PersonaIncentivizer Persona = "Incentivizer"
)

// VisitWindow is the date range, YYYY-MM-DD inclusive, in which the next
// visit is expected.
type VisitWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type CustomerProfile struct {
	PhoneKey                 string       `json:"phone_key"`
	Phone                    string       `json:"phone"`
	DisplayName              string       `json:"display_name"`
	VisitCount               int          `json:"visit_count"`
	DistinctVisitDays        int          `json:"distinct_visit_days"`
	TotalSpend               int64        `json:"total_spend"`
	FirstVisitDate           string       `json:"first_visit_date"`
	LastVisitDate            string       `json:"last_visit_date"`
	RecencyDays              int          `json:"recency_days"`
	AverageInterPurchaseDays float64      `json:"average_inter_purchase_days"`
	VIPScore                 int          `json:"vip_score"`
	Segment                  Segment      `json:"segment"`
	ChurnProbability         float64      `json:"churn_probability"`
	RetentionScore           float64      `json:"retention_score"`
	NextVisitWindow          *VisitWindow `json:"next_visit_window,omitempty"`
	DaysUntilNextVisit       int          `json:"days_until_next_visit"`
	PreferredCategory        string       `json:"preferred_category"`
	CLV                      float64      `json:"clv"`
	Persona                  Persona      `json:"persona"`
	Explanations             []string     `json:"explanations"`
}
