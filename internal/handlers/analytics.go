package handlers

import (
	"net/http"
	"time"

	"repair-insights-go/internal/analytics"
	"repair-insights-go/internal/types"
)

// scoped resolves the snapshot and the year/month/brand filter, writing
// the error response itself when either fails.
func (h *Handler) scoped(w http.ResponseWriter, r *http.Request) ([]types.TransactionRecord, bool) {
	snap, ok := h.snapshot(w)
	if !ok {
		return nil, false
	}
	f, err := filterParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return f.Apply(snap.Records), true
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	if recs, ok := h.scoped(w, r); ok {
		writeJSON(w, http.StatusOK, analytics.Summarize(recs))
	}
}

func (h *Handler) series(w http.ResponseWriter, r *http.Request) {
	if recs, ok := h.scoped(w, r); ok {
		g := analytics.ParseGranularity(r.URL.Query().Get("granularity"))
		writeJSON(w, http.StatusOK, analytics.Series(recs, g))
	}
}

func (h *Handler) weekdays(w http.ResponseWriter, r *http.Request) {
	if recs, ok := h.scoped(w, r); ok {
		writeJSON(w, http.StatusOK, analytics.Weekdays(recs))
	}
}

func (h *Handler) heatmap(w http.ResponseWriter, r *http.Request) {
	if recs, ok := h.scoped(w, r); ok {
		writeJSON(w, http.StatusOK, analytics.SeasonHeatmap(recs))
	}
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	if recs, ok := h.scoped(w, r); ok {
		writeJSON(w, http.StatusOK, analytics.Monthly(recs))
	}
}

func (h *Handler) breakdown(w http.ResponseWriter, r *http.Request) {
	recs, ok := h.scoped(w, r)
	if !ok {
		return
	}
	top, err := intParam(r, "top", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := r.URL.Query()
	opts := analytics.BreakdownOptions{
		SortBy:        analytics.SortKey(q.Get("sort")),
		Top:           top,
		ExcludeOthers: q.Get("exclude_others") == "true",
		Rework:        &h.opts.Catalog.Rework,
	}
	writeJSON(w, http.StatusOK, analytics.Breakdown(recs, analytics.ParseDimension(q.Get("dimension")), opts))
}

// goal measures progress as of ?as_of (YYYY-MM-DD), else the ledger's
// reference date, so an old ledger is not judged against today's calendar.
// Year and month select the period here, so only brand narrows records.
func (h *Handler) goal(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	asOf := h.now()
	if t, err := time.Parse(time.DateOnly, snap.Reference); err == nil {
		asOf = t
	}
	if v := r.URL.Query().Get("as_of"); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "as_of must be YYYY-MM-DD")
			return
		}
		asOf = t
	}
	f, err := filterParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	period := analytics.GoalPeriod{Year: f.Year, Month: f.Month}
	if period.Year == 0 {
		period.Year = asOf.Year()
	}
	recs := analytics.Filter{Brand: f.Brand}.Apply(snap.Records)
	writeJSON(w, http.StatusOK, analytics.Goal(recs, period, h.opts.Targets, asOf))
}

func (h *Handler) cohorts(w http.ResponseWriter, r *http.Request) {
	recs, ok := h.scoped(w, r)
	if !ok {
		return
	}
	def := h.opts.CohortMonths
	if def <= 0 {
		def = analytics.DefaultCohortMonths
	}
	months, err := intParam(r, "months", def)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analytics.Cohorts(recs, months))
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, analytics.Quote(snap.Records, analytics.QuoteFilter{
		Brand:    q.Get("brand"),
		Category: q.Get("category"),
		Keyword:  q.Get("keyword"),
		Limit:    limit,
	}))
}

func (h *Handler) insight(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	month, err := intParam(r, "month", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analytics.Insight(snap.Records, h.opts.Catalog, month))
}

func (h *Handler) simulate(w http.ResponseWriter, r *http.Request) {
	recs, ok := h.scoped(w, r)
	if !ok {
		return
	}
	var s analytics.Scenario
	for name, dst := range map[string]*float64{
		"price_increase":      &s.PriceIncrease,
		"new_customer_growth": &s.NewCustomerGrowth,
		"churn_reduction":     &s.ChurnReduction,
		"cost_reduction":      &s.CostReduction,
	} {
		v, err := floatParam(r, name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		*dst = v
	}
	writeJSON(w, http.StatusOK, analytics.Simulate(recs, s))
}
