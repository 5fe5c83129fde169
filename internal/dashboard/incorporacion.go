package dashboard

import (
	"strings"

	"pspicdash/internal/analysis"
	"pspicdash/internal/catalog"
)

func (s *Service) incorporacion(d *catalog.Dashboard, data map[string][]analysis.Record, st State) (*Page, []analysis.Record) {
	all := firstSheet(d, data)
	filtered := st.Filters.Apply(all, d)

	page := &Page{
		Facets:  facets(d, all, st, false),
		Records: len(filtered),
		Cards:   []Card{{Label: "Número de Procesos", Value: itoa(len(filtered))}},
		Table:   table(d, filtered, nil, "No se encontraron actividades con los filtros aplicados"),
	}

	// the first check group also gets a mark column per item in the table
	var marks []catalog.Chart
	for _, g := range d.Groups {
		if g.Checks {
			marks = g.Charts
			break
		}
	}
	for _, ch := range marks {
		page.Table.Headers = append(page.Table.Headers, strings.Fields(ch.Title)[0])
	}
	for i := range page.Table.Rows {
		rec := filtered[page.Table.Rows[i].Index]
		for _, ch := range marks {
			ok := analysis.IsAffirmative(rec.Value(d, ch.Field))
			page.Table.Rows[i].Cells = append(page.Table.Rows[i].Cells, Cell{Check: &ok})
		}
	}

	for _, g := range d.Groups {
		group := ChartGroup{Name: g.Name}
		for _, ch := range g.Charts {
			if ch.Palette == "" {
				ch.Palette = g.Palette
			}
			agg := analysis.CountRaw(filtered, ch.Field, d)
			group.Charts = append(group.Charts, s.chartView(ch, ch.Title, agg))
		}
		page.Groups = append(page.Groups, group)
	}

	if rec, ok := selected(filtered, st); ok {
		detail := &Detail{
			Title:  complianceDetail,
			Fields: detailFields(d, rec, "", nil),
		}
		for _, g := range d.Groups {
			if !g.Checks {
				continue
			}
			cg := CheckGroup{Name: g.Name}
			for _, ch := range g.Charts {
				cg.Items = append(cg.Items, CheckItem{Label: ch.Title, OK: analysis.IsAffirmative(rec.Value(d, ch.Field))})
			}
			detail.Checks = append(detail.Checks, cg)
		}
		page.Detail = detail
	}
	return page, filtered
}
