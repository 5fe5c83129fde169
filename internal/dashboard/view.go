package dashboard

import (
	"fmt"

	"pspicdash/internal/analysis"
	"pspicdash/internal/catalog"
	"pspicdash/internal/render"
)

// Page is the view model of one section page
type Page struct {
	Section  string         `json:"section"`
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle"`
	State    State          `json:"state"`
	Tabs     []Tab          `json:"tabs,omitempty"`
	Headline string         `json:"headline,omitempty"`
	Cards    []Card         `json:"cards"`
	Facets   []Facet        `json:"facets"`
	Active   []ActiveFilter `json:"active_filters"`
	Charts   []ChartView    `json:"charts,omitempty"`
	Groups   []ChartGroup   `json:"groups,omitempty"`
	Table    *Table         `json:"table,omitempty"`
	Detail   *Detail        `json:"detail,omitempty"`
	Records  int            `json:"records"`
}

// Card is one summary figure
type Card struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Hint  string `json:"hint,omitempty"`
}

// Facet is a filter dropdown
type Facet struct {
	Field    string   `json:"field"`
	Label    string   `json:"label"`
	AllLabel string   `json:"all_label"`
	Options  []string `json:"options"`
	Selected string   `json:"selected"`
}

// ActiveFilter is a removable filter chip
type ActiveFilter struct {
	Field string `json:"field"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// ChartView is one aggregation panel
type ChartView struct {
	Field  string               `json:"field"`
	Title  string               `json:"title"`
	Kind   catalog.ChartKind    `json:"kind"`
	Colors []string             `json:"colors"`
	Data   analysis.Aggregation `json:"data"`
}

// InvalidLine describes the records left out for lacking a value, "" when none were
func (c ChartView) InvalidLine() string {
	if c.Data.Invalid == 0 {
		return ""
	}
	return fmt.Sprintf("%d sin dato (%.1f%%)", c.Data.Invalid, c.Data.InvalidPercent())
}

// Chart converts the panel for drawing
func (c ChartView) Chart() render.Chart {
	return render.Chart{Title: c.Title, Kind: c.Kind, Data: c.Data, Colors: c.Colors}
}

// ChartGroup is a titled row of charts
type ChartGroup struct {
	Name   string      `json:"name"`
	Charts []ChartView `json:"charts"`
}

// Table lists the filtered records
type Table struct {
	Headers []string   `json:"headers"`
	Rows    []TableRow `json:"rows"`
	Empty   string     `json:"empty"`
}

// TableRow carries the index used to open its detail
type TableRow struct {
	Index int    `json:"index"`
	Cells []Cell `json:"cells"`
}

// Cell is a plain value, a progress bar or a check mark
type Cell struct {
	Value    string             `json:"value"`
	Progress *analysis.Progress `json:"progress,omitempty"`
	Check    *bool              `json:"check,omitempty"`
}

// Text returns the cell as plain text for spreadsheets and PDFs
func (c Cell) Text() string {
	if c.Check != nil {
		if *c.Check {
			return "Sí"
		}
		return "No"
	}
	return c.Value
}

// Detail is the panel opened for one record
type Detail struct {
	Title    string             `json:"title"`
	Subtitle string             `json:"subtitle,omitempty"`
	Fields   []DetailField      `json:"fields"`
	Progress *analysis.Progress `json:"progress,omitempty"`
	// Notes is markdown.
	Notes      string       `json:"notes,omitempty"`
	NotesTitle string       `json:"notes_title,omitempty"`
	Link       string       `json:"link,omitempty"`
	LinkLabel  string       `json:"link_label,omitempty"`
	Checks     []CheckGroup `json:"checks,omitempty"`
}

type DetailField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// CheckGroup lists yes/no marks of a record
type CheckGroup struct {
	Name  string      `json:"name"`
	Items []CheckItem `json:"items"`
}

type CheckItem struct {
	Label string `json:"label"`
	OK    bool   `json:"ok"`
}

// Export returns the table headers and plain text rows
func (t *Table) Export() ([]string, [][]string) {
	if t == nil {
		return nil, nil
	}
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]string, len(r.Cells))
		for j, c := range r.Cells {
			row[j] = c.Text()
		}
		rows[i] = row
	}
	return t.Headers, rows
}
