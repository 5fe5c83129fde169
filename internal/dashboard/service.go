// Package dashboard builds the view models of the section pages from the
// published sheets, applying the page state carried in the query string.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"pspicdash/domain/sheet"
	"pspicdash/internal"
	"pspicdash/internal/analysis"
	"pspicdash/internal/catalog"
	"pspicdash/internal/errors"
)

var logger = internal.DefaultLogger.Component("Dashboard")

// Loader fetches the tables of a page
type Loader interface {
	Load(ctx context.Context, refs ...sheet.Ref) (map[string]*sheet.Table, error)
}

// Service builds section pages
type Service struct {
	catalog *catalog.Catalog
	loader  Loader
}

// NewService creates a new dashboard service
func NewService(c *catalog.Catalog, loader Loader) *Service {
	return &Service{catalog: c, loader: loader}
}

// Catalog returns the dashboard configuration
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

type builder func(s *Service, d *catalog.Dashboard, data map[string][]analysis.Record, st State) (*Page, []analysis.Record)

var builders = map[string]builder{
	catalog.Participantes:   (*Service).participantes,
	catalog.Indicadores:     (*Service).indicadores,
	catalog.Cumplimiento:    (*Service).cumplimiento,
	catalog.IncorporacionCB: (*Service).incorporacion,
	catalog.Talleres:        (*Service).talleres,
}

// Page builds the view of section under st
func (s *Service) Page(ctx context.Context, section string, st State) (*Page, error) {
	page, _, err := s.build(ctx, section, st)
	return page, err
}

func (s *Service) build(ctx context.Context, section string, st State) (*Page, []analysis.Record, error) {
	d, err := s.catalog.Dashboard(section)
	if err != nil {
		return nil, nil, err
	}
	build, ok := builders[d.Kind]
	if !ok {
		return nil, nil, errors.NotFound("dashboard view " + d.Kind)
	}
	if st.Filters == nil {
		st.Filters = analysis.FilterSet{}
	}
	data, err := s.load(ctx, d)
	if err != nil {
		return nil, nil, err
	}
	page, records := build(s, d, data, st)
	page.Section = d.Kind
	page.State = st
	if page.Title == "" {
		page.Title = d.Title
	}
	if page.Subtitle == "" {
		page.Subtitle = d.Subtitle
	}
	page.Active = activeFilters(d, st)
	logger.Debug("built %s with %d records and %d filters", d.Kind, page.Records, len(st.Filters))
	return page, records, nil
}

// load fetches every sheet of d and tags its rows with the sheet key
func (s *Service) load(ctx context.Context, d *catalog.Dashboard) (map[string][]analysis.Record, error) {
	tables, err := s.loader.Load(ctx, d.Sheets...)
	if err != nil {
		return nil, err
	}
	data := make(map[string][]analysis.Record, len(tables))
	for key, t := range tables {
		data[key] = analysis.Records(t)
	}
	return data, nil
}

// ChartData returns the panel of field as shown on the page under st
func (s *Service) ChartData(ctx context.Context, section, field string, st State) (ChartView, error) {
	page, err := s.Page(ctx, section, st)
	if err != nil {
		return ChartView{}, err
	}
	for _, c := range page.Charts {
		if c.Field == field {
			return c, nil
		}
	}
	for _, g := range page.Groups {
		for _, c := range g.Charts {
			if c.Field == field {
				return c, nil
			}
		}
	}
	return ChartView{}, errors.NotFound(fmt.Sprintf("chart %s on %s", field, section))
}

// Aggregate groups the filtered records of section by field. Configured
// charts return their panel data; any other column is grouped by normalized
// value, honoring unique mode.
func (s *Service) Aggregate(ctx context.Context, section, field string, st State) (analysis.Aggregation, error) {
	if c, err := s.ChartData(ctx, section, field, st); err == nil {
		return c.Data, nil
	} else if !errors.HasCode(err, errors.CodeNotFound) {
		return analysis.Aggregation{}, err
	}
	d, err := s.catalog.Dashboard(section)
	if err != nil {
		return analysis.Aggregation{}, err
	}
	_, records, err := s.build(ctx, section, st)
	if err != nil {
		return analysis.Aggregation{}, err
	}
	uniqueBy := ""
	if st.Unique && d.IDField != "" {
		uniqueBy = d.IDField
	}
	agg := analysis.GroupByField(records, field, d, uniqueBy)
	if agg.Total == 0 && agg.Invalid == len(records) && !hasColumn(records, d, field) {
		return analysis.Aggregation{}, errors.NotFound(fmt.Sprintf("field %s on %s", field, section))
	}
	return agg, nil
}

func hasColumn(records []analysis.Record, d *catalog.Dashboard, field string) bool {
	for _, rec := range records {
		if _, ok := rec.Row[d.Resolve(rec.Subset, field)]; ok {
			return true
		}
	}
	return false
}

// Rows returns the filtered records of section as a plain table. Sections
// without a configured table export the raw sheet columns.
func (s *Service) Rows(ctx context.Context, section string, st State) ([]string, [][]string, error) {
	page, records, err := s.build(ctx, section, st)
	if err != nil {
		return nil, nil, err
	}
	if page.Table != nil {
		headers, rows := page.Table.Export()
		return headers, rows, nil
	}
	headers, rows := rawRows(records)
	return headers, rows, nil
}

func rawRows(records []analysis.Record) ([]string, [][]string) {
	var headers []string
	seen := make(map[string]bool)
	for _, rec := range records {
		for col := range rec.Row {
			if !seen[col] {
				seen[col] = true
				headers = append(headers, col)
			}
		}
	}
	sort.Strings(headers)
	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(headers))
		for j, h := range headers {
			row[j] = rec.Row.Get(h)
		}
		rows[i] = row
	}
	return headers, rows
}

// ParticipantesGlobal sums the participant count column over both
// participant sheets, unfiltered
func (s *Service) ParticipantesGlobal(ctx context.Context) (int, error) {
	d, err := s.catalog.Dashboard(catalog.Participantes)
	if err != nil {
		return 0, err
	}
	data, err := s.load(ctx, d)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, ref := range d.Sheets {
		total += analysis.SumLeadingInts(data[ref.Key], analysis.Columns, d.CountField)
	}
	return total, nil
}

func activeFilters(d *catalog.Dashboard, st State) []ActiveFilter {
	labels := make(map[string]string, len(d.Filters))
	for _, f := range d.Filters {
		labels[f.Field] = f.Label
	}
	var out []ActiveFilter
	for _, a := range st.Filters.Active(d.FilterFields()) {
		label := labels[a.Field]
		if label == "" {
			label = a.Field
		}
		out = append(out, ActiveFilter{Field: a.Field, Label: label, Value: a.Value})
	}
	return out
}

// facets builds the dropdowns over records; countAll adds the option count
// to the "Todos" entry
func facets(d *catalog.Dashboard, records []analysis.Record, st State, countAll bool) []Facet {
	options := analysis.FacetOptions(records, d, d.FilterFields(), st.Filters)
	out := make([]Facet, 0, len(d.Filters))
	for _, f := range d.Filters {
		all := analysis.AllValues
		if countAll {
			all = fmt.Sprintf("%s (%d)", analysis.AllValues, len(options[f.Field]))
		}
		out = append(out, Facet{
			Field:    f.Field,
			Label:    f.Label,
			AllLabel: all,
			Options:  options[f.Field],
			Selected: st.Filters.Get(f.Field),
		})
	}
	return out
}

func (s *Service) chartView(ch catalog.Chart, title string, agg analysis.Aggregation) ChartView {
	return ChartView{
		Field:  ch.Field,
		Title:  title,
		Kind:   ch.Kind,
		Colors: s.catalog.Palette(ch.Palette),
		Data:   agg,
	}
}

// table renders the configured columns of records; progress columns become bars
func table(d *catalog.Dashboard, records []analysis.Record, progress map[string]bool, empty string) *Table {
	t := &Table{Headers: append([]string(nil), d.Table...), Empty: empty, Rows: make([]TableRow, len(records))}
	for i, rec := range records {
		cells := make([]Cell, len(d.Table))
		for j, col := range d.Table {
			v := rec.Value(d, col)
			cells[j] = Cell{Value: v}
			if progress[col] {
				p := analysis.ParseProgress(v)
				cells[j].Progress = &p
			}
		}
		t.Rows[i] = TableRow{Index: i, Cells: cells}
	}
	return t
}

// selected returns the record of the open detail panel
func selected(records []analysis.Record, st State) (analysis.Record, bool) {
	if st.Selected < 0 || st.Selected >= len(records) {
		return analysis.Record{}, false
	}
	return records[st.Selected], true
}

// detailFields reads the configured detail columns. Blank values take the
// fallback, or are skipped when fallback is empty.
func detailFields(d *catalog.Dashboard, rec analysis.Record, fallback string, format map[string]func(string) string) []DetailField {
	var out []DetailField
	for _, f := range d.Detail {
		v := rec.Value(d, f.Column)
		if fn, ok := format[f.Column]; ok && v != "" {
			v = fn(v)
		}
		if v == "" {
			if fallback == "" {
				continue
			}
			v = fallback
		}
		out = append(out, DetailField{Label: f.Label, Value: v})
	}
	return out
}

func itoa(n int) string { return strconv.Itoa(n) }
