// Package api exposes registered tables over HTTP: the interactive grid
// dispatch endpoint plus creation and retrieval of archived exports.
package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/gridable/datagrid/pkg/datagrid"
	"github.com/gridable/datagrid/pkg/datagrid/exportstore"
)

// Handler routes grid requests to registered tables.
type Handler struct {
	tables []*datagrid.Table
	byName map[string]*datagrid.Table
	store  exportstore.Store
}

// Option configures a Handler.
type Option func(*Handler)

// WithTable registers a table. Dispatch probes tables in registration
// order.
func WithTable(table *datagrid.Table) Option {
	return func(h *Handler) {
		h.tables = append(h.tables, table)
		h.byName[table.Name()] = table
	}
}

// WithExportStore enables the export archival endpoints.
func WithExportStore(store exportstore.Store) Option {
	return func(h *Handler) { h.store = store }
}

// NewHandler creates a grid API handler.
func NewHandler(opts ...Option) *Handler {
	h := &Handler{byName: make(map[string]*datagrid.Table)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the router for grid endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/grid", h.Dispatch)
	r.Post("/grid/{table}/exports", h.CreateExport)
	r.Get("/grid/{table}/exports/{file}", h.GetExport)
	return r
}

// Dispatch hands the request to the first registered table whose namespace
// parameter is present.
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	for _, table := range h.tables {
		if !table.WillHandle(params) {
			continue
		}
		if err := table.HandleRequest(w, r); err != nil {
			h.respondError(w, r, err)
		}
		return
	}
	h.respondError(w, r, datagrid.ErrTableNotFound)
}

// CreateExportResponse is returned after an export has been archived.
type CreateExportResponse struct {
	Key string `json:"key"`
	URL string `json:"url,omitempty"`
}

// CreateExport generates an export in the requested format, archives it in
// the export store and returns its key and download URL.
func (h *Handler) CreateExport(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		http.Error(w, "export archival is not configured", http.StatusNotImplemented)
		return
	}

	table, ok := h.byName[chi.URLParam(r, "table")]
	if !ok {
		h.respondError(w, r, datagrid.ErrTableNotFound)
		return
	}

	params := r.URL.Query()
	sort := table.SortFrom(params)

	var format datagrid.Format
	var data []byte
	var err error
	switch params.Get("format") {
	case "csv":
		format = datagrid.FormatCSV
		data, err = table.Storage().SerializeCSV(r.Context(), params, sort)
	case "xls":
		format = datagrid.FormatSheet
		data, err = table.Storage().SerializeSheet(r.Context(), params, sort)
	default:
		h.respondError(w, r, datagrid.ErrUnknownFormat)
		return
	}
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	key := fmt.Sprintf("%s/%s.%s", table.Name(), uuid.New(), format.Extension())
	if err := h.store.Save(r.Context(), key, format.MIMEType(), bytes.NewReader(data)); err != nil {
		slog.Error("Failed to archive export", "table", table.Name(), "key", key, "error", err)
		http.Error(w, "failed to archive export", http.StatusInternalServerError)
		return
	}

	url, err := h.store.URL(r.Context(), key)
	if err != nil {
		// Not every backend can produce a URL; the key alone is enough to
		// fetch through GetExport.
		url = ""
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, CreateExportResponse{Key: key, URL: url})
}

// GetExport streams a previously archived export.
func (h *Handler) GetExport(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		http.Error(w, "export archival is not configured", http.StatusNotImplemented)
		return
	}

	name := chi.URLParam(r, "table")
	if _, ok := h.byName[name]; !ok {
		h.respondError(w, r, datagrid.ErrTableNotFound)
		return
	}

	file := chi.URLParam(r, "file")
	key := name + "/" + file

	body, err := h.store.Open(r.Context(), key)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentTypeFor(file))
	if _, err := io.Copy(w, body); err != nil {
		slog.Error("Failed to stream export", "key", key, "error", err)
	}
}

func contentTypeFor(file string) string {
	switch {
	case strings.HasSuffix(file, ".csv"):
		return datagrid.FormatCSV.MIMEType()
	case strings.HasSuffix(file, ".xlsx"):
		return datagrid.FormatSheet.MIMEType()
	}
	return "application/octet-stream"
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var decodeErr *datagrid.DecodeError
	switch {
	case errors.As(err, &decodeErr):
		http.Error(w, decodeErr.Error(), http.StatusBadRequest)
	case errors.Is(err, datagrid.ErrTableNotFound),
		errors.Is(err, datagrid.ErrWidgetNotFound),
		errors.Is(err, datagrid.ErrNoNestedStorage),
		errors.Is(err, datagrid.ErrUnknownFormat),
		errors.Is(err, datagrid.ErrExportNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		slog.Error("Grid request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
