package analysis

import (
	"sort"
	"strings"
)

// AllValues is the option label that clears a filter
const AllValues = "Todos"

// FilterSet maps a logical field to its selected value. Absent fields are unfiltered.
type FilterSet map[string]string

// ActiveFilter is one selected field/value pair
type ActiveFilter struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Set selects value for field; "" or "Todos" removes the filter
func (f FilterSet) Set(field, value string) {
	value = strings.TrimSpace(value)
	if value == "" || value == AllValues {
		delete(f, field)
		return
	}
	f[field] = value
}

// Get returns the selected value of field or ""
func (f FilterSet) Get(field string) string {
	return f[field]
}

// Clone copies the set
func (f FilterSet) Clone() FilterSet {
	out := make(FilterSet, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Without returns a copy with field unselected
func (f FilterSet) Without(field string) FilterSet {
	out := f.Clone()
	delete(out, field)
	return out
}

// Matches reports whether rec satisfies every active filter
func (f FilterSet) Matches(rec Record, res Resolver) bool {
	for field, want := range f {
		if rec.Value(res, field) != want {
			return false
		}
	}
	return true
}

// Apply returns the records matching every active filter
func (f FilterSet) Apply(records []Record, res Resolver) []Record {
	if len(f) == 0 {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if f.Matches(rec, res) {
			out = append(out, rec)
		}
	}
	return out
}

// Active lists the selections following order, then any other field by name
func (f FilterSet) Active(order []string) []ActiveFilter {
	out := make([]ActiveFilter, 0, len(f))
	listed := make(map[string]bool, len(order))
	for _, field := range order {
		listed[field] = true
		if v, ok := f[field]; ok {
			out = append(out, ActiveFilter{Field: field, Value: v})
		}
	}
	var rest []string
	for field := range f {
		if !listed[field] {
			rest = append(rest, field)
		}
	}
	sort.Strings(rest)
	for _, field := range rest {
		out = append(out, ActiveFilter{Field: field, Value: f[field]})
	}
	return out
}

// FacetOptions returns, per field, the sorted distinct values found in the
// records that match every other active filter. The field's own selection is
// ignored so the current choice stays selectable alongside its alternatives.
func FacetOptions(records []Record, res Resolver, fields []string, filters FilterSet) map[string][]string {
	options := make(map[string][]string, len(fields))
	for _, field := range fields {
		others := filters.Without(field)
		seen := make(map[string]struct{})
		values := []string{}
		for _, rec := range records {
			if !others.Matches(rec, res) {
				continue
			}
			v := rec.Value(res, field)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
		sort.Strings(values)
		options[field] = values
	}
	return options
}
