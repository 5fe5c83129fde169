// Package catalog describes the published sheets behind each dashboard and how
// their columns are read, filtered and charted.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"pspicdash/domain/sheet"
	"pspicdash/internal/errors"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

// Dashboard kinds
const (
	Participantes   = "participantes"
	Indicadores     = "indicadores"
	Cumplimiento    = "cumplimiento"
	IncorporacionCB = "incorporacioncb"
	Talleres        = "talleres"
)

// ChartKind selects the drawing used for an aggregation
type ChartKind string

const (
	ChartPie ChartKind = "pie"
	ChartBar ChartKind = "bar"
)

// Catalog is the set of configured dashboards
type Catalog struct {
	Palettes   map[string][]string   `yaml:"palettes"`
	Dashboards map[string]*Dashboard `yaml:"dashboards"`
}

// Dashboard configures one section page
type Dashboard struct {
	Kind           string               `yaml:"-" json:"kind"`
	Title          string               `yaml:"title" json:"title"`
	Subtitle       string               `yaml:"subtitle" json:"subtitle"`
	ReportTitle    string               `yaml:"report_title" json:"-"`
	ReportSubtitle string               `yaml:"report_subtitle" json:"-"`
	IDField        string               `yaml:"id_field" json:"id_field,omitempty"`
	CountField     string               `yaml:"count_field" json:"-"`
	Sheets         []sheet.Ref          `yaml:"sheets" json:"sheets"`
	Columns        map[string]ColumnMap `yaml:"columns" json:"-"`
	Filters        []Filter             `yaml:"filters" json:"filters"`
	Charts         []Chart              `yaml:"charts" json:"charts,omitempty"`
	Groups         []ChartGroup         `yaml:"groups" json:"groups,omitempty"`
	Table          []string             `yaml:"table" json:"table,omitempty"`
	Detail         []DetailField        `yaml:"detail" json:"-"`
}

// ColumnMap maps logical field names to sheet column headers for one subset
type ColumnMap map[string]string

// Resolve returns the column for field, or field itself when it is not mapped
func (m ColumnMap) Resolve(field string) string {
	if column, ok := m[field]; ok {
		return column
	}
	return field
}

type Filter struct {
	Field string `yaml:"field" json:"field"`
	Label string `yaml:"label" json:"label"`
}

// Chart describes one aggregation panel
type Chart struct {
	Field   string            `yaml:"field" json:"field"`
	Title   string            `yaml:"title" json:"title"`
	Kind    ChartKind         `yaml:"kind" json:"kind"`
	Palette string            `yaml:"palette" json:"palette,omitempty"`
	Titles  map[string]string `yaml:"titles" json:"-"`
	// Tabs restricts the chart to the listed tabs; empty means every tab.
	Tabs []string `yaml:"tabs" json:"tabs,omitempty"`
}

// TitleFor returns the tab specific title when one is configured
func (c Chart) TitleFor(tab string) string {
	if t, ok := c.Titles[tab]; ok {
		return t
	}
	return c.Title
}

// VisibleOn reports whether the chart is shown on tab
func (c Chart) VisibleOn(tab string) bool {
	if len(c.Tabs) == 0 {
		return true
	}
	for _, t := range c.Tabs {
		if t == tab {
			return true
		}
	}
	return false
}

// ChartGroup is a titled row of charts sharing a palette
type ChartGroup struct {
	Name    string  `yaml:"name" json:"name"`
	Palette string  `yaml:"palette" json:"palette"`
	Checks  bool    `yaml:"checks" json:"checks"`
	Charts  []Chart `yaml:"charts" json:"charts"`
}

type DetailField struct {
	Column string `yaml:"column"`
	Label  string `yaml:"label"`
}

// Default parses the embedded catalog
func Default() (*Catalog, error) {
	return Parse(embedded)
}

// Load reads a catalog file, falling back to the embedded one when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("failed to read catalog %s: %w", path, err))
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("failed to parse catalog: %w", err))
	}
	for kind, d := range c.Dashboards {
		if d == nil {
			return nil, errors.ConfigInvalid(fmt.Sprintf("dashboard %s is empty", kind))
		}
		d.Kind = kind
		for i := range d.Sheets {
			if d.Sheets[i].Style == "" {
				d.Sheets[i].Style = sheet.StyleExport
			}
		}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if _, ok := c.Palettes["default"]; !ok {
		return errors.ConfigInvalid("catalog must define a default palette")
	}
	for kind, d := range c.Dashboards {
		if len(d.Sheets) == 0 {
			return errors.ConfigInvalid(fmt.Sprintf("dashboard %s has no sheets", kind))
		}
		for _, ref := range d.Sheets {
			if ref.Key == "" || ref.SpreadsheetID == "" || ref.GID == "" {
				return errors.ConfigInvalid(fmt.Sprintf("dashboard %s has an incomplete sheet reference", kind))
			}
			if ref.Style != sheet.StyleExport && ref.Style != sheet.StyleGviz {
				return errors.ConfigInvalid(fmt.Sprintf("sheet %s has unknown style %q", ref.Key, ref.Style))
			}
		}
		for _, ch := range d.AllCharts() {
			if ch.Kind != ChartPie && ch.Kind != ChartBar {
				return errors.ConfigInvalid(fmt.Sprintf("chart %s/%s has unknown kind %q", kind, ch.Field, ch.Kind))
			}
			if ch.Palette != "" {
				if _, ok := c.Palettes[ch.Palette]; !ok {
					return errors.ConfigInvalid(fmt.Sprintf("chart %s/%s uses unknown palette %s", kind, ch.Field, ch.Palette))
				}
			}
		}
	}
	return nil
}

// Dashboard returns the dashboard of the given kind
func (c *Catalog) Dashboard(kind string) (*Dashboard, error) {
	d, ok := c.Dashboards[kind]
	if !ok {
		return nil, errors.NotFound("dashboard " + kind)
	}
	return d, nil
}

// Kinds lists the configured dashboards in name order
func (c *Catalog) Kinds() []string {
	kinds := make([]string, 0, len(c.Dashboards))
	for k := range c.Dashboards {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Palette returns the named palette or the default one
func (c *Catalog) Palette(name string) []string {
	if p, ok := c.Palettes[name]; ok && len(p) > 0 {
		return p
	}
	return c.Palettes["default"]
}

// Resolve maps a logical field to the column header used by subset
func (d *Dashboard) Resolve(subset, field string) string {
	if m, ok := d.Columns[subset]; ok {
		return m.Resolve(field)
	}
	return field
}

// Sheet returns the sheet reference with the given key
func (d *Dashboard) Sheet(key string) (sheet.Ref, bool) {
	for _, ref := range d.Sheets {
		if ref.Key == key {
			return ref, true
		}
	}
	return sheet.Ref{}, false
}

// AllCharts returns the flat charts followed by the charts of every group; group
// palettes are applied to charts that do not name their own
func (d *Dashboard) AllCharts() []Chart {
	charts := append([]Chart(nil), d.Charts...)
	for _, g := range d.Groups {
		for _, ch := range g.Charts {
			if ch.Palette == "" {
				ch.Palette = g.Palette
			}
			charts = append(charts, ch)
		}
	}
	return charts
}

// Chart finds the chart configured for field
func (d *Dashboard) Chart(field string) (Chart, bool) {
	for _, ch := range d.AllCharts() {
		if ch.Field == field {
			return ch, true
		}
	}
	return Chart{}, false
}

// FilterFields returns the logical filter fields in display order
func (d *Dashboard) FilterFields() []string {
	fields := make([]string, len(d.Filters))
	for i, f := range d.Filters {
		fields[i] = f.Field
	}
	return fields
}
