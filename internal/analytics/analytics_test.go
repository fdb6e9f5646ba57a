package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-insights-go/internal/catalog"
	"repair-insights-go/internal/types"
)

func record(date, brand, category, channel, desc, phone string, sales, cost int64) types.TransactionRecord {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		panic(err)
	}
	return types.TransactionRecord{
		Date: date, Year: t.Year(), Month: int(t.Month()), Day: t.Day(),
		Brand: brand, Category: category, SubCategory: channel, Description: desc,
		Phone: phone, Sales: sales, Cost: cost, NetProfit: types.NetProfitOf(sales, cost),
	}
}

func fixture() []types.TransactionRecord {
	return []types.TransactionRecord{
		record("2024-11-04", "Chanel", "Bag", "Store", "handle 재작업", "010-1111-2222", 100_000, 20_000),
		record("2024-11-10", "Chanel", "Wallet", "Delivery", "corner", "010-3333-4444", 50_000, 0),
		record("2024-12-02", "Others", "Bag", "Other", "AS 요청", "0000000000", 30_000, 40_000),
		record("2025-01-15", "Gucci", "Shoes", "Store", "", "010-1111-2222", 0, 0),
	}
}

func TestFilter(t *testing.T) {
	recs := fixture()
	assert.Len(t, Filter{}.Apply(recs), 4)
	assert.Len(t, Filter{Year: 2024}.Apply(recs), 3)
	assert.Len(t, Filter{Year: 2024, Month: 11}.Apply(recs), 2)
	assert.Len(t, Filter{Brand: "Gucci"}.Apply(recs), 1)
	assert.NotNil(t, Filter{Year: 1999}.Apply(recs))
}

func TestSummarize(t *testing.T) {
	got := Summarize(fixture())
	assert.Equal(t, Totals{
		Revenue:   180_000,
		Cost:      60_000,
		NetProfit: 120_000,
		MarginPct: 66.7,
		Count:     4,
		AvgTicket: 45_000,
		Customers: 2,
	}, got)
}

func TestSeries(t *testing.T) {
	weeks := Series(fixture(), Week)
	require.Len(t, weeks, 3)
	assert.Equal(t, Point{Key: "2024-W45", Label: "2024-11-04", Revenue: 150_000, Profit: 130_000, Count: 2}, weeks[0])
	assert.Equal(t, "2024-W49", weeks[1].Key)
	assert.Equal(t, "2025-W03", weeks[2].Key)
	assert.Equal(t, "2025-01-13", weeks[2].Label)

	months := Series(fixture(), Month)
	require.Len(t, months, 3)
	assert.Equal(t, []string{"2024-11", "2024-12", "2025-01"}, []string{months[0].Key, months[1].Key, months[2].Key})
	assert.Equal(t, "2024.11", months[0].Label)

	days := Series(fixture(), Day)
	require.Len(t, days, 4)
	assert.Equal(t, "11/4", days[0].Label)
}

func TestISOWeekAcrossYearBoundary(t *testing.T) {
	pts := Series([]types.TransactionRecord{
		record("2024-12-30", "Chanel", "Bag", "Store", "", "", 10, 0),
		record("2025-01-02", "Chanel", "Bag", "Store", "", "", 20, 0),
	}, Week)
	require.Len(t, pts, 1)
	assert.Equal(t, "2025-W01", pts[0].Key)
	assert.Equal(t, "2024-12-30", pts[0].Label)
	assert.Equal(t, int64(30), pts[0].Revenue)
}

func TestParseGranularity(t *testing.T) {
	assert.Equal(t, Week, ParseGranularity("week"))
	assert.Equal(t, Month, ParseGranularity("month"))
	assert.Equal(t, Day, ParseGranularity("fortnight"))
}

func TestWeekdays(t *testing.T) {
	got := Weekdays(fixture())
	require.Len(t, got, 7)
	assert.Equal(t, "Mon", got[0].Weekday)
	assert.Equal(t, int64(130_000), got[0].Revenue)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, 1, got[2].Count)
	assert.Equal(t, "Sun", got[6].Weekday)
	assert.Equal(t, int64(50_000), got[6].Revenue)
}

func TestSeasonHeatmap(t *testing.T) {
	h := SeasonHeatmap(fixture())
	require.Len(t, h.Revenue, 12)
	assert.Equal(t, int64(100_000), h.Revenue[10][0])
	assert.Equal(t, int64(50_000), h.Revenue[10][6])
	assert.Equal(t, int64(30_000), h.Revenue[11][0])
	assert.Equal(t, int64(100_000), h.Max)
}

func TestMonthly(t *testing.T) {
	rows := Monthly(fixture())
	require.Len(t, rows, 3)
	assert.Equal(t, MonthRow{Key: "2024-12", Year: 2024, Month: 12, Sales: 30_000, Cost: 40_000, NetProfit: -10_000, Count: 1}, rows[1])
}

func TestBreakdown(t *testing.T) {
	rework := catalog.Default().Rework
	rows := Breakdown(fixture(), ByBrand, BreakdownOptions{Rework: &rework})
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Chanel", "Others", "Gucci"}, []string{rows[0].Key, rows[1].Key, rows[2].Key})

	chanel := rows[0]
	assert.Equal(t, 2, chanel.Count)
	assert.Equal(t, int64(150_000), chanel.Revenue)
	assert.Equal(t, int64(130_000), chanel.Profit)
	assert.InDelta(t, 0.8667, chanel.Margin, 1e-9)
	assert.Equal(t, int64(75_000), chanel.ASP)
	assert.Equal(t, 1, chanel.ReworkCount)
	assert.InDelta(t, 0.5, chanel.ReworkRate, 1e-9)

	assert.Equal(t, 1, rows[1].ReworkCount)
	assert.InDelta(t, -0.3333, rows[1].Margin, 1e-9)
	assert.Zero(t, rows[2].Margin)
}

func TestBreakdownOptions(t *testing.T) {
	rows := Breakdown(fixture(), ByBrand, BreakdownOptions{ExcludeOthers: true})
	require.Len(t, rows, 2)
	assert.Equal(t, "Chanel", rows[0].Key)
	assert.Zero(t, rows[0].ReworkCount)

	rows = Breakdown(fixture(), ByBrand, BreakdownOptions{Top: 1})
	require.Len(t, rows, 1)

	rows = Breakdown(fixture(), ByBrand, BreakdownOptions{SortBy: SortMargin})
	assert.Equal(t, []string{"Chanel", "Gucci", "Others"}, []string{rows[0].Key, rows[1].Key, rows[2].Key})

	rows = Breakdown(fixture(), ByChannel, BreakdownOptions{ExcludeOthers: true, SortBy: SortCount})
	require.Len(t, rows, 2)
	assert.Equal(t, "Store", rows[0].Key)
	assert.Equal(t, 2, rows[0].Count)

	rows = Breakdown(fixture(), ByBrandCategory, BreakdownOptions{})
	assert.Equal(t, "Chanel Bag", rows[0].Key)

	assert.Equal(t, ByCategory, ParseDimension("category"))
	assert.Equal(t, ByBrand, ParseDimension("nope"))
}

func TestGoal(t *testing.T) {
	recs := fixture()
	nov := GoalPeriod{Year: 2024, Month: 11}

	g := Goal(recs, nov, DefaultTargets(), time.Date(2024, 11, 10, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-11", g.Period)
	assert.Equal(t, int64(37_500_000), g.Target)
	assert.Equal(t, int64(150_000), g.Achieved)
	assert.InDelta(t, 0.4, g.AttainmentPct, 1e-9)
	assert.Equal(t, int64(37_350_000), g.Remaining)
	assert.True(t, g.Projected)
	assert.Equal(t, int64(450_000), g.Projection)
	assert.False(t, g.OnTrack)

	g = Goal(recs, nov, DefaultTargets(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, g.Projected)
	assert.Zero(t, g.Projection)

	g = Goal(recs, nov, Targets{Monthly: 100_000}, time.Time{})
	assert.InDelta(t, 150.0, g.AttainmentPct, 1e-9)
	assert.InDelta(t, 100.0, g.ProgressPct, 1e-9)
	assert.Zero(t, g.Remaining)
	assert.True(t, g.OnTrack)

	year := Goal(recs, GoalPeriod{Year: 2024}, DefaultTargets(), time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024", year.Period)
	assert.Equal(t, int64(450_000_000), year.Target)
	assert.Equal(t, int64(180_000), year.Achieved)
	assert.Equal(t, int64(180_000), year.Projection)
}

func TestCohorts(t *testing.T) {
	rows := Cohorts(fixture(), 3)
	require.Len(t, rows, 1)
	assert.Equal(t, CohortRow{Cohort: "2024-11", Size: 2, Retention: []int{100, 0, 50, 0}}, rows[0])
}

func TestCohortsMonthZeroIsFull(t *testing.T) {
	recs := []types.TransactionRecord{
		record("2024-01-31", "", "", "", "", "010-1000-2000", 1, 0),
		record("2024-02-01", "", "", "", "", "010-1000-2000", 1, 0),
		record("2024-02-10", "", "", "", "", "010-3000-4000", 1, 0),
		record("2024-03-05", "", "", "", "", "010-5000-6000", 1, 0),
		record("2024-03-06", "", "", "", "", "010-7000-8000", 1, 0),
		record("2024-12-06", "", "", "", "", "010-7000-8000", 1, 0),
	}
	rows := Cohorts(recs, DefaultCohortMonths)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, 100, r.Retention[0], r.Cohort)
		assert.Len(t, r.Retention, DefaultCohortMonths+1)
	}
	assert.Equal(t, 100, rows[0].Retention[1])
	assert.Equal(t, []int{100, 0, 0, 0, 0, 0, 0}, rows[2].Retention)
}

func TestQuote(t *testing.T) {
	st := Quote(fixture(), QuoteFilter{Brand: "Chanel"})
	assert.Equal(t, 2, st.Count)
	assert.Equal(t, int64(75_000), st.Avg)
	assert.Equal(t, int64(50_000), st.Min)
	assert.Equal(t, int64(100_000), st.Max)
	assert.InDelta(t, 75_000.0, st.Median, 1e-9)
	require.Len(t, st.Jobs, 2)
	assert.Equal(t, "2024-11-10", st.Jobs[0].Date)

	st = Quote(fixture(), QuoteFilter{Brand: "All", Keyword: "as"})
	assert.Equal(t, 1, st.Count)
	assert.InDelta(t, 30_000.0, st.Median, 1e-9)

	st = Quote(fixture(), QuoteFilter{Brand: "Gucci"})
	assert.Zero(t, st.Count)
	assert.NotNil(t, st.Jobs)
}

func TestInsight(t *testing.T) {
	cat := catalog.Default()
	in := Insight(fixture(), cat, 11)
	assert.Equal(t, 11, in.Month)
	assert.Equal(t, int64(150_000), in.Revenue)
	assert.Equal(t, 2, in.Count)
	require.Len(t, in.TopBrands, 1)
	assert.Equal(t, "Chanel", in.TopBrands[0].Key)

	annual := Insight(fixture(), cat, 0)
	assert.Equal(t, "Annual overview", annual.Title)
	assert.Equal(t, int64(180_000), annual.Revenue)
}

func TestSimulate(t *testing.T) {
	p := Simulate(fixture(), Scenario{PriceIncrease: 10})
	assert.InDelta(t, 198_000.0, p.Revenue, 1e-6)
	assert.InDelta(t, 60_000.0, p.Cost, 1e-6)
	assert.InDelta(t, 18_000.0, p.ProfitDiff, 1e-6)

	p = Simulate(fixture(), Scenario{PriceIncrease: 25, NewCustomerGrowth: 10, CostReduction: 50})
	assert.InDelta(t, 236_250.0, p.Revenue, 1e-6)
	assert.InDelta(t, 31_500.0, p.Cost, 1e-6)
	assert.InDelta(t, 204_750.0, p.NetProfit, 1e-6)
}

func TestEmptyInput(t *testing.T) {
	assert.Equal(t, Totals{}, Summarize(nil))
	assert.Empty(t, Series(nil, Week))
	assert.Len(t, Weekdays(nil), 7)
	assert.Zero(t, SeasonHeatmap(nil).Max)
	assert.Empty(t, Monthly(nil))
	assert.Empty(t, Breakdown(nil, ByBrand, BreakdownOptions{}))
	assert.Empty(t, Cohorts(nil, DefaultCohortMonths))
	assert.Zero(t, Quote(nil, QuoteFilter{}).Count)
	g := Goal(nil, GoalPeriod{Year: 2024, Month: 2}, DefaultTargets(), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	assert.Zero(t, g.Achieved)
	assert.True(t, g.Projected)
	assert.Zero(t, g.Projection)
	assert.Zero(t, Simulate(nil, Scenario{PriceIncrease: 50}).Revenue)
}
