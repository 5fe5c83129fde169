// Package api serves the dashboards as JSON under /api/v1.
package api

import (
	"encoding/json"
	"net/http"
	"net/url"

	"pspicdash/internal"
	"pspicdash/internal/catalog"
	"pspicdash/internal/dashboard"
	"pspicdash/internal/errors"
	"pspicdash/internal/navigation"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

var logger = internal.DefaultLogger.Component("API")

// Handler serves the JSON API
type Handler struct {
	dashboards *dashboard.Service
}

// NewRouter returns the /api/v1 routes
func NewRouter(dashboards *dashboard.Service) http.Handler {
	h := &Handler{dashboards: dashboards}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dashboards", h.handleListDashboards)
		r.Get("/dashboards/{section}", h.handlePage)
		r.Get("/dashboards/{section}/rows", h.handleRows)
		r.Get("/dashboards/{section}/facets", h.handleFacets)
		r.Get("/dashboards/{section}/aggregate/{field}", h.handleAggregate)
		r.Get("/menu", h.handleMenu)
	})
	return r
}

type dashboardInfo struct {
	*catalog.Dashboard
	ID string `json:"id"`
}

func (h *Handler) handleListDashboards(w http.ResponseWriter, r *http.Request) {
	c := h.dashboards.Catalog()
	out := make([]dashboardInfo, 0, len(c.Dashboards))
	for _, kind := range c.Kinds() {
		out = append(out, dashboardInfo{Dashboard: c.Dashboards[kind], ID: navigation.SectionID(kind, navigation.DataYear)})
	}
	writeJSON(w, http.StatusOK, out)
}

type menuYear struct {
	Year  string            `json:"year"`
	Items []navigation.Item `json:"items"`
}

func (h *Handler) handleMenu(w http.ResponseWriter, r *http.Request) {
	out := make([]menuYear, 0, len(navigation.Years))
	for _, y := range navigation.Years {
		out = append(out, menuYear{Year: y, Items: navigation.Menu(y)})
	}
	writeJSON(w, http.StatusOK, out)
}

// section accepts a dashboard kind or a 2025 menu identifier
func (h *Handler) section(r *http.Request) (string, *catalog.Dashboard, error) {
	section := chi.URLParam(r, "section")
	if s, year, ok := navigation.ParseSectionID(section); ok {
		if year != navigation.DataYear {
			return "", nil, errors.NotFound("data for " + section)
		}
		section = s
	}
	d, err := h.dashboards.Catalog().Dashboard(section)
	return section, d, err
}

func (h *Handler) state(r *http.Request) (string, dashboard.State, error) {
	section, d, err := h.section(r)
	if err != nil {
		return "", dashboard.State{}, err
	}
	return section, dashboard.ParseState(r.URL.Query(), d), nil
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	section, st, err := h.state(r)
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := h.dashboards.Page(r.Context(), section, st)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

type rowsResponse struct {
	Section string     `json:"section"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
	Count   int        `json:"count"`
}

func (h *Handler) handleRows(w http.ResponseWriter, r *http.Request) {
	section, st, err := h.state(r)
	if err != nil {
		writeError(w, err)
		return
	}
	headers, rows, err := h.dashboards.Rows(r.Context(), section, st)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rowsResponse{Section: section, Headers: headers, Rows: rows, Count: len(rows)})
}

func (h *Handler) handleFacets(w http.ResponseWriter, r *http.Request) {
	section, st, err := h.state(r)
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := h.dashboards.Page(r.Context(), section, st)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"section": section,
		"facets":  page.Facets,
		"active":  page.Active,
	})
}

func (h *Handler) handleAggregate(w http.ResponseWriter, r *http.Request) {
	section, st, err := h.state(r)
	if err != nil {
		writeError(w, err)
		return
	}
	// chi matches on the raw path, so escaped slashes in column names arrive encoded
	field, err := url.PathUnescape(chi.URLParam(r, "field"))
	if err != nil {
		writeError(w, errors.Validation("invalid field "+chi.URLParam(r, "field")))
		return
	}
	agg, err := h.dashboards.Aggregate(r.Context(), section, field, st)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agg)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("%v", err)
	}
	writeJSON(w, status, map[string]string{
		"error": errors.Message(err),
		"code":  errors.GetCode(err),
	})
}
