// Package handlers exposes the dashboard over HTTP. Every read endpoint
// serves the store's current snapshot; nothing here mutates records.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"repair-insights-go/internal/analytics"
	"repair-insights-go/internal/catalog"
	"repair-insights-go/internal/logger"
	"repair-insights-go/internal/processor"
)

// Store is satisfied by *processor.Store.
type Store interface {
	Snapshot() (*processor.Snapshot, bool)
	State() processor.State
	Load(ctx context.Context) error
	Replace(name string, data []byte) error
}

type Options struct {
	Catalog      *catalog.Catalog
	Targets      analytics.Targets
	CohortMonths int
	ShopName     string
	// MaxUpload caps POST /api/upload bodies in bytes; 0 means 32 MiB.
	MaxUpload int64
}

type Handler struct {
	store Store
	opts  Options
	log   *logger.Logger
	now   func() time.Time
}

func New(store Store, opts Options, log *logger.Logger) *Handler {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Targets.Monthly <= 0 || opts.Targets.Yearly <= 0 {
		opts.Targets = analytics.DefaultTargets()
	}
	if opts.MaxUpload <= 0 {
		opts.MaxUpload = 32 << 20
	}
	return &Handler{store: store, opts: opts, log: log, now: time.Now}
}

// Routes registers every endpoint on a fresh mux wrapped in request
// logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})
	mux.HandleFunc("GET /api/status", h.status)
	mux.HandleFunc("POST /api/refresh", h.refresh)
	mux.HandleFunc("POST /api/upload", h.upload)

	mux.HandleFunc("GET /api/records", h.records)
	mux.HandleFunc("GET /api/customers", h.customers)
	mux.HandleFunc("GET /api/customers/overview", h.overview)
	mux.HandleFunc("GET /api/customers/outreach", h.outreach)
	mux.HandleFunc("GET /api/customers/{key}", h.customer)

	mux.HandleFunc("GET /api/analytics/summary", h.summary)
	mux.HandleFunc("GET /api/analytics/series", h.series)
	mux.HandleFunc("GET /api/analytics/weekdays", h.weekdays)
	mux.HandleFunc("GET /api/analytics/breakdown", h.breakdown)
	mux.HandleFunc("GET /api/analytics/goal", h.goal)
	mux.HandleFunc("GET /api/analytics/cohorts", h.cohorts)
	mux.HandleFunc("GET /api/analytics/heatmap", h.heatmap)
	mux.HandleFunc("GET /api/analytics/monthly", h.monthly)
	mux.HandleFunc("GET /api/analytics/quote", h.quote)
	mux.HandleFunc("GET /api/analytics/insight", h.insight)
	mux.HandleFunc("GET /api/analytics/simulate", h.simulate)

	mux.HandleFunc("GET /api/export.csv", h.exportCSV)
	mux.HandleFunc("GET /api/export.xlsx", h.exportXLSX)

	return h.logRequests(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		entry := h.log.WithRequest(r).WithFields(logrus.Fields{
			"status":      rec.code,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		if rec.code >= 500 {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request handled")
	})
}

// snapshot writes 503 with the store state when nothing has loaded yet.
func (h *Handler) snapshot(w http.ResponseWriter) (*processor.Snapshot, bool) {
	snap, ok := h.store.Snapshot()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, h.store.State())
		return nil, false
	}
	return snap, true
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// intParam reads an optional integer query parameter.
func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

func floatParam(r *http.Request, name string) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return f, nil
}

func filterParams(r *http.Request) (analytics.Filter, error) {
	year, err := intParam(r, "year", 0)
	if err != nil {
		return analytics.Filter{}, err
	}
	month, err := intParam(r, "month", 0)
	if err != nil {
		return analytics.Filter{}, err
	}
	if month < 0 || month > 12 {
		return analytics.Filter{}, fmt.Errorf("month must be between 1 and 12")
	}
	brand := r.URL.Query().Get("brand")
	if brand == "All" {
		brand = ""
	}
	return analytics.Filter{Year: year, Month: month, Brand: brand}, nil
}
