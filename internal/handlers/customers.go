package handlers

import (
	"net/http"
	"strings"

	"repair-insights-go/internal/actionable"
	"repair-insights-go/internal/normalize"
	"repair-insights-go/internal/retention"
	"repair-insights-go/internal/types"
)

type recordsResponse struct {
	Total   int                       `json:"total"`
	Records []types.TransactionRecord `json:"records"`
}

// records lists transactions newest first, filtered by year, month and
// brand.
func (h *Handler) records(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	f, err := filterParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	matched := f.Apply(snap.Records)
	out := make([]types.TransactionRecord, 0, len(matched))
	for i := len(matched) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, matched[i])
	}
	writeJSON(w, http.StatusOK, recordsResponse{Total: len(matched), Records: out})
}

type customersResponse struct {
	Total     int                     `json:"total"`
	Customers []types.CustomerProfile `json:"customers"`
}

// customers lists profiles, optionally narrowed to one segment and a
// search over name and phone digits.
func (h *Handler) customers(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	segment := types.Segment(r.URL.Query().Get("segment"))
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	qDigits := normalize.PhoneKey(q)

	out := []types.CustomerProfile{}
	total := 0
	for _, p := range snap.Profiles {
		if segment != "" && segment != "All" && p.Segment != segment {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.DisplayName), q) &&
			(qDigits == "" || !strings.Contains(p.PhoneKey, qDigits)) {
			continue
		}
		total++
		if limit > 0 && len(out) == limit {
			continue
		}
		out = append(out, p)
	}
	writeJSON(w, http.StatusOK, customersResponse{Total: total, Customers: out})
}

type overviewResponse struct {
	retention.Overview
	Reference string                `json:"reference_date"`
	Action    actionable.ActionCard `json:"action"`
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, overviewResponse{
		Overview:  snap.Overview,
		Reference: snap.Reference,
		Action:    actionable.Generate(snap.Overview),
	})
}

type outreachResponse struct {
	ChurnRisk []actionable.Outreach `json:"churn_risk"`
	Retention []actionable.Outreach `json:"retention"`
}

// outreach drafts messages for both overview call lists.
func (h *Handler) outreach(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, outreachResponse{
		ChurnRisk: actionable.ForCustomers(snap.Overview.ChurnRisk, h.opts.ShopName),
		Retention: actionable.ForCustomers(snap.Overview.Retention, h.opts.ShopName),
	})
}

type customerResponse struct {
	Profile  types.CustomerProfile     `json:"profile"`
	History  []types.TransactionRecord `json:"history"`
	Outreach actionable.Outreach       `json:"outreach"`
}

// customer looks a profile up by phone; any formatting of the number works.
func (h *Handler) customer(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	key := normalize.PhoneKey(r.PathValue("key"))
	p, found := snap.Profile(key)
	if !found {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}
	writeJSON(w, http.StatusOK, customerResponse{
		Profile:  p,
		History:  snap.History(key),
		Outreach: actionable.ForCustomer(p, h.opts.ShopName),
	})
}
