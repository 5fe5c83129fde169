package dashboard

import (
	"pspicdash/internal/analysis"
	"pspicdash/internal/catalog"
)

const (
	colID          = "Id"
	colFecha       = "Fecha Taller"
	colTema        = "Tema"
	colZona        = "Zona"
	colComuna      = "Comuna/Corregimiento"
	workshopDetail = "Detalle del Taller"
)

func (s *Service) talleres(d *catalog.Dashboard, data map[string][]analysis.Record, st State) (*Page, []analysis.Record) {
	all := firstSheet(d, data)
	filtered := st.Filters.Apply(all, d)
	stats := analysis.SummarizeWorkshops(filtered, d, colZona, colComuna)

	page := &Page{
		Facets:  facets(d, all, st, false),
		Records: len(filtered),
		Cards: []Card{
			{Label: "Total de Talleres", Value: itoa(stats.Total)},
			{Label: "Zonas", Value: itoa(len(stats.Zones.Buckets))},
			{Label: "Comunas/Corregimientos", Value: itoa(len(stats.Comunas.Buckets))},
		},
		Table: table(d, filtered, nil, "No se encontraron talleres con los filtros aplicados"),
	}

	for i, col := range d.Table {
		for _, row := range page.Table.Rows {
			c := &row.Cells[i]
			switch col {
			case colID:
				if c.Value == "" {
					c.Value = "-"
				}
			case colFecha:
				c.Value = FormatShortDate(c.Value)
			}
		}
	}

	for _, ch := range d.Charts {
		agg := stats.Zones
		if ch.Field == colComuna {
			agg = stats.Comunas
		}
		page.Charts = append(page.Charts, s.chartView(ch, ch.Title, agg))
	}

	if rec, ok := selected(filtered, st); ok {
		page.Detail = &Detail{
			Title:    workshopDetail,
			Subtitle: rec.Value(d, colTema),
			Fields:   detailFields(d, rec, "", map[string]func(string) string{colFecha: FormatLongDate}),
		}
	}
	return page, filtered
}
