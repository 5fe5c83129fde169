package dashboard

import (
	"net/url"
	"strconv"
	"strings"

	"pspicdash/internal/analysis"
	"pspicdash/internal/catalog"
)

// Participant tabs
const (
	TabTodo     = "todo"
	TabAcciones = "acciones"
	TabProcesos = "procesos"
)

// Tabs lists the participant tabs in display order
var Tabs = []Tab{
	{Key: TabTodo, Label: "Ver Todo"},
	{Key: TabAcciones, Label: "Acciones Informativas"},
	{Key: TabProcesos, Label: "Procesos Formativos"},
}

type Tab struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

const filterPrefix = "f."

// State is the interactive state of a section page, carried in the query string
type State struct {
	Tab     string             `json:"tab,omitempty"`
	Unique  bool               `json:"unique"`
	Filters analysis.FilterSet `json:"filters"`
	// Selected is the row index of the open detail panel, -1 when closed.
	Selected int `json:"selected"`
}

// NewState returns the state of a freshly opened page
func NewState() State {
	return State{Tab: TabTodo, Filters: analysis.FilterSet{}, Selected: -1}
}

// ParseState reads tab, unique, f.<field> and row. Filters on fields that the
// dashboard does not offer are ignored.
func ParseState(q url.Values, d *catalog.Dashboard) State {
	s := NewState()
	switch tab := q.Get("tab"); tab {
	case TabAcciones, TabProcesos:
		s.Tab = tab
	}
	if v, err := strconv.ParseBool(q.Get("unique")); err == nil {
		s.Unique = v
	}

	allowed := make(map[string]bool)
	if d != nil {
		for _, f := range d.FilterFields() {
			allowed[f] = true
		}
	}
	for key, values := range q {
		if !strings.HasPrefix(key, filterPrefix) || len(values) == 0 {
			continue
		}
		field := strings.TrimPrefix(key, filterPrefix)
		if allowed[field] {
			s.Filters.Set(field, values[0])
		}
	}

	if row, err := strconv.Atoi(q.Get("row")); err == nil && row >= 0 {
		s.Selected = row
	}
	return s
}

// Query encodes the state; the detail selection is left out
func (s State) Query() url.Values {
	q := url.Values{}
	if s.Tab != "" && s.Tab != TabTodo {
		q.Set("tab", s.Tab)
	}
	if s.Unique {
		q.Set("unique", "true")
	}
	for field, value := range s.Filters {
		q.Set(filterPrefix+field, value)
	}
	return q
}

// With returns a copy of the state with field set to value
func (s State) With(field, value string) State {
	s.Filters = s.Filters.Clone()
	s.Filters.Set(field, value)
	s.Selected = -1
	return s
}

// WithTab switches tab; the filter selections carry over to the new subset
func (s State) WithTab(tab string) State {
	s.Tab = tab
	s.Filters = s.Filters.Clone()
	s.Selected = -1
	return s
}

// WithUnique switches between unique people and all registrations
func (s State) WithUnique(unique bool) State {
	s.Unique = unique
	s.Selected = -1
	return s
}

// Link returns path with the encoded state
func (s State) Link(path string) string {
	if q := s.Query().Encode(); q != "" {
		return path + "?" + q
	}
	return path
}

// RowLink opens the detail of row
func (s State) RowLink(path string, row int) string {
	q := s.Query()
	q.Set("row", strconv.Itoa(row))
	return path + "?" + q.Encode()
}
