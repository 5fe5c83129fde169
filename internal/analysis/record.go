// Package analysis turns filtered sheet rows into the counts, facets and
// summary figures shown on the dashboards.
package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"pspicdash/domain/sheet"
)

// Record is one sheet row tagged with the subset (sheet key) it came from
type Record struct {
	Subset string
	Row    sheet.Row
}

// Resolver maps a logical field to the column header used by a subset
type Resolver interface {
	Resolve(subset, field string) string
}

// ResolverFunc adapts a function to Resolver
type ResolverFunc func(subset, field string) string

func (f ResolverFunc) Resolve(subset, field string) string { return f(subset, field) }

// Columns treats every field as a literal column header
var Columns Resolver = ResolverFunc(func(_, field string) string { return field })

// Records tags the rows of one table with its key
func Records(t *sheet.Table) []Record {
	if t == nil {
		return nil
	}
	out := make([]Record, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = Record{Subset: t.Key, Row: row}
	}
	return out
}

// Value returns the trimmed cell of field, resolved for the record's subset
func (r Record) Value(res Resolver, field string) string {
	return r.Row.Get(res.Resolve(r.Subset, field))
}

// Normalize trims, lower-cases and capitalizes the first letter so that
// "  FEMENINO" and "femenino" land in the same bucket
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// Dedupe keeps the first record of every non-empty identifier. Records
// without an identifier are dropped.
func Dedupe(records []Record, res Resolver, idField string) []Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		id := rec.Value(res, idField)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// IsAffirmative reports whether a yes/no cell is marked: si, sí or 1
func IsAffirmative(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "si", "sí", "1":
		return true
	}
	return false
}
