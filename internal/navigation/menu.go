// Package navigation holds the sidebar menu, section identifiers and the
// per-session navigation preferences.
package navigation

import (
	"regexp"

	"pspicdash/internal/catalog"
)

// Home is the landing page identifier
const Home = "home"

// DataYear is the only year with published sheets
const DataYear = "2025"

// Years lists the menu years in display order
var Years = []string{"2025", "2026"}

// Item is one section entry of a year
type Item struct {
	ID      string `json:"id"`
	Section string `json:"section"`
	Year    string `json:"year"`
	Label   string `json:"label"`
	Color   string `json:"color"`
}

// HasData reports whether the section is backed by a dashboard
func (i Item) HasData() bool {
	return i.Year == DataYear
}

type entry struct {
	section string
	label   string
	color   string
}

var menuOrder = []entry{
	{catalog.Cumplimiento, "Cumplimiento PSPIC", "text-emerald-600"},
	{catalog.Indicadores, "Indicadores", "text-blue-600"},
	{catalog.IncorporacionCB, "Incorporación CB", "text-orange-600"},
	{catalog.Talleres, "Talleres", "text-purple-600"},
	{catalog.Participantes, "Participantes", "text-green-600"},
}

// sectionNames are the breadcrumb names, which differ from the menu labels
var sectionNames = map[string]string{
	catalog.Cumplimiento:    "Cumplimiento PSPIC",
	catalog.Indicadores:     "Indicadores",
	catalog.Participantes:   "Participantes",
	catalog.IncorporacionCB: "Incorporación Estrategia CB",
	catalog.Talleres:        "Talleres",
}

// Menu returns the items of year in display order
func Menu(year string) []Item {
	items := make([]Item, 0, len(menuOrder))
	for _, e := range menuOrder {
		items = append(items, Item{
			ID:      SectionID(e.section, year),
			Section: e.section,
			Year:    year,
			Label:   e.label,
			Color:   e.color,
		})
	}
	return items
}

// SectionID builds "{section}-{year}"
func SectionID(section, year string) string {
	return section + "-" + year
}

var sectionPattern = regexp.MustCompile(`^(.+)-(\d{4})$`)

// ParseSectionID splits an identifier into section and year
func ParseSectionID(id string) (section, year string, ok bool) {
	m := sectionPattern.FindStringSubmatch(id)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Lookup finds the menu item for id
func Lookup(id string) (Item, bool) {
	section, year, ok := ParseSectionID(id)
	if !ok {
		return Item{}, false
	}
	for _, y := range Years {
		if y != year {
			continue
		}
		for _, item := range Menu(y) {
			if item.Section == section {
				return item, true
			}
		}
	}
	return Item{}, false
}

// Known reports whether id is home or a menu section
func Known(id string) bool {
	if id == Home {
		return true
	}
	_, ok := Lookup(id)
	return ok
}

// Breadcrumb returns "Inicio" for home and "{year} / {name}" for sections
func Breadcrumb(id string) string {
	if id == Home {
		return "Inicio"
	}
	section, year, ok := ParseSectionID(id)
	if !ok {
		return "Inicio"
	}
	name, ok := sectionNames[section]
	if !ok {
		name = section
	}
	return year + " / " + name
}
