package analytics

import "repair-insights-go/internal/types"

// Scenario holds what-if levers, each in percent.
type Scenario struct {
	PriceIncrease     float64 `json:"price_increase"`
	NewCustomerGrowth float64 `json:"new_customer_growth"`
	ChurnReduction    float64 `json:"churn_reduction"`
	CostReduction     float64 `json:"cost_reduction"`
}

type Projection struct {
	Baseline    Totals  `json:"baseline"`
	Revenue     float64 `json:"revenue"`
	Cost        float64 `json:"cost"`
	NetProfit   float64 `json:"net_profit"`
	RevenueDiff float64 `json:"revenue_diff"`
	ProfitDiff  float64 `json:"profit_diff"`
}

// elasticityFree is the price increase absorbed without losing volume;
// every point above it costs half a point of growth.
const elasticityFree = 15

// Simulate projects revenue and profit under a scenario. Price scales
// revenue; growth and churn reduction scale volume, which also scales cost.
func Simulate(records []types.TransactionRecord, s Scenario) Projection {
	base := Summarize(records)
	penalty := 0.0
	if s.PriceIncrease > elasticityFree {
		penalty = (s.PriceIncrease - elasticityFree) * 0.5
	}
	volume := 1 + (s.NewCustomerGrowth-penalty+s.ChurnReduction)/100
	price := 1 + s.PriceIncrease/100

	p := Projection{Baseline: base}
	p.Revenue = float64(base.Revenue) * price * volume
	p.Cost = float64(base.Cost) * volume * (1 - s.CostReduction/100)
	p.NetProfit = p.Revenue - p.Cost
	p.RevenueDiff = p.Revenue - float64(base.Revenue)
	p.ProfitDiff = p.NetProfit - float64(base.NetProfit)
	return p
}
