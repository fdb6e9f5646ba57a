package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"repair-insights-go/internal/dataset"
	"repair-insights-go/internal/export"
	"repair-insights-go/internal/source"
)

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.State())
}

// refresh reloads the configured source. An empty feed is not a failure:
// the caller gets 200 and status "empty".
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	err := h.store.Load(r.Context())
	h.respondLoad(w, err)
}

// upload replaces the data set with the request body. The file name used
// to detect CSV vs XLSX comes from ?name=, defaulting to upload.csv.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(r.URL.Query().Get("name"))
	if name == "." || name == "/" {
		name = "upload.csv"
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.opts.MaxUpload))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", tooBig.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "could not read upload")
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "empty upload")
		return
	}
	h.respondLoad(w, h.store.Replace(name, body))
}

func (h *Handler) respondLoad(w http.ResponseWriter, err error) {
	state := h.store.State()
	switch {
	case err == nil, errors.Is(err, dataset.ErrNoRecords):
		writeJSON(w, http.StatusOK, state)
	case errors.Is(err, source.ErrTransport):
		writeJSON(w, http.StatusBadGateway, state)
	case errors.Is(err, dataset.ErrWorkbook):
		writeJSON(w, http.StatusUnprocessableEntity, state)
	default:
		writeJSON(w, http.StatusInternalServerError, state)
	}
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	f, err := filterParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sales.csv"`)
	if err := export.WriteCSV(w, f.Apply(snap.Records)); err != nil {
		h.log.WithError(err).Error("csv export failed")
	}
}

func (h *Handler) exportXLSX(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	f, err := filterParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="sales.xlsx"`)
	if err := export.WriteXLSX(w, f.Apply(snap.Records)); err != nil {
		h.log.WithError(err).Error("xlsx export failed")
	}
}
