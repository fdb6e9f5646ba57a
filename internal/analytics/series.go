package analytics

import (
	"fmt"
	"sort"
	"time"

	"repair-insights-go/internal/types"
)

type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
)

// ParseGranularity accepts day, week or month; anything else is Day.
func ParseGranularity(s string) Granularity {
	switch Granularity(s) {
	case Week, Month:
		return Granularity(s)
	}
	return Day
}

type Point struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Revenue int64  `json:"revenue"`
	Profit  int64  `json:"profit"`
	Count   int    `json:"count"`
}

// Series buckets revenue and profit by day, ISO week or month, oldest
// bucket first. Week keys look like "2024-W45" and are labelled with the
// Monday that starts the week.
func Series(records []types.TransactionRecord, g Granularity) []Point {
	idx := map[string]*Point{}
	for _, r := range records {
		t, err := time.Parse(time.DateOnly, r.Date)
		if err != nil {
			continue
		}
		key, label := bucket(t, g)
		p, ok := idx[key]
		if !ok {
			p = &Point{Key: key, Label: label}
			idx[key] = p
		}
		p.Revenue += r.Sales
		p.Profit += r.NetProfit
		p.Count++
	}
	out := make([]Point, 0, len(idx))
	for _, p := range idx {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func bucket(t time.Time, g Granularity) (key, label string) {
	switch g {
	case Week:
		y, w := t.ISOWeek()
		monday := t.AddDate(0, 0, -mondayIndex(t))
		return fmt.Sprintf("%04d-W%02d", y, w), monday.Format(time.DateOnly)
	case Month:
		return t.Format("2006-01"), t.Format("2006.01")
	default:
		return t.Format(time.DateOnly), fmt.Sprintf("%d/%d", int(t.Month()), t.Day())
	}
}

// WeekdayNames runs Monday to Sunday.
var WeekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type WeekdayStat struct {
	Weekday string `json:"weekday"`
	Revenue int64  `json:"revenue"`
	Profit  int64  `json:"profit"`
	Count   int    `json:"count"`
}

// Weekdays always returns seven entries, Monday first.
func Weekdays(records []types.TransactionRecord) []WeekdayStat {
	out := make([]WeekdayStat, 7)
	for i := range out {
		out[i].Weekday = WeekdayNames[i]
	}
	for _, r := range records {
		t, err := time.Parse(time.DateOnly, r.Date)
		if err != nil {
			continue
		}
		s := &out[mondayIndex(t)]
		s.Revenue += r.Sales
		s.Profit += r.NetProfit
		s.Count++
	}
	return out
}

func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// Heatmap is revenue by calendar month (rows, January first) and weekday
// (columns, Monday first), summed across years.
type Heatmap struct {
	Weekdays []string  `json:"weekdays"`
	Revenue  [][]int64 `json:"revenue"`
	Max      int64     `json:"max"`
}

func SeasonHeatmap(records []types.TransactionRecord) Heatmap {
	h := Heatmap{Weekdays: WeekdayNames[:], Revenue: make([][]int64, 12)}
	for i := range h.Revenue {
		h.Revenue[i] = make([]int64, 7)
	}
	for _, r := range records {
		t, err := time.Parse(time.DateOnly, r.Date)
		if err != nil {
			continue
		}
		cell := &h.Revenue[int(t.Month())-1][mondayIndex(t)]
		*cell += r.Sales
		if *cell > h.Max {
			h.Max = *cell
		}
	}
	return h
}

type MonthRow struct {
	Key       string `json:"key"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Sales     int64  `json:"sales"`
	Cost      int64  `json:"cost"`
	NetProfit int64  `json:"net_profit"`
	Count     int    `json:"count"`
}

// Monthly is the profit and loss table per calendar month, oldest first.
func Monthly(records []types.TransactionRecord) []MonthRow {
	idx := map[string]*MonthRow{}
	for _, r := range records {
		key := fmt.Sprintf("%04d-%02d", r.Year, r.Month)
		m, ok := idx[key]
		if !ok {
			m = &MonthRow{Key: key, Year: r.Year, Month: r.Month}
			idx[key] = m
		}
		m.Sales += r.Sales
		m.Cost += r.Cost
		m.NetProfit += r.NetProfit
		m.Count++
	}
	out := make([]MonthRow, 0, len(idx))
	for _, m := range idx {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
