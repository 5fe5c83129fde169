package dashboard

import (
	"fmt"

	"pspicdash/internal/analysis"
	"pspicdash/internal/catalog"
)

const (
	fieldActividad = "actividad"
)

func tabRecords(data map[string][]analysis.Record, tab string) []analysis.Record {
	if tab == TabAcciones || tab == TabProcesos {
		return data[tab]
	}
	all := make([]analysis.Record, 0, len(data[TabAcciones])+len(data[TabProcesos]))
	all = append(all, data[TabAcciones]...)
	return append(all, data[TabProcesos]...)
}

func (s *Service) participantes(d *catalog.Dashboard, data map[string][]analysis.Record, st State) (*Page, []analysis.Record) {
	acciones := st.Filters.Apply(data[TabAcciones], d)
	procesos := st.Filters.Apply(data[TabProcesos], d)
	global := append(append([]analysis.Record{}, acciones...), procesos...)

	var filtered []analysis.Record
	switch st.Tab {
	case TabAcciones:
		filtered = acciones
	case TabProcesos:
		filtered = procesos
	default:
		filtered = global
	}

	sum := analysis.SummarizeParticipants(global, filtered, d, d.IDField, fieldActividad, st.Unique, st.Tab == TabTodo)

	page := &Page{
		Tabs:    Tabs,
		Facets:  facets(d, tabRecords(data, st.Tab), st, false),
		Records: len(filtered),
	}

	mode := "Todos"
	if st.Unique {
		mode = "Únicos"
	}
	page.Headline = fmt.Sprintf("Total de registros: %d · Modo: %s", len(filtered), mode)

	page.Cards = append(page.Cards, Card{Label: "Total Participantes", Value: itoa(sum.Global)})
	switch st.Tab {
	case TabAcciones:
		page.Cards = append(page.Cards, Card{Label: "Participantes en Acciones Masivas/Informativas", Value: itoa(sum.Tab)})
	case TabProcesos:
		page.Cards = append(page.Cards, Card{Label: "Participantes en Procesos Formativos", Value: itoa(sum.Tab)})
	}
	page.Cards = append(page.Cards,
		Card{Label: "Porcentaje de Participación", Value: fmt.Sprintf("%.1f%%", sum.Percent)},
		Card{Label: "Total de Actividades", Value: itoa(sum.Activities)},
	)

	uniqueBy := ""
	if st.Unique {
		uniqueBy = d.IDField
	}
	for _, ch := range d.Charts {
		if !ch.VisibleOn(st.Tab) {
			continue
		}
		agg := analysis.GroupByField(filtered, ch.Field, d, uniqueBy)
		page.Charts = append(page.Charts, s.chartView(ch, ch.TitleFor(st.Tab), agg))
	}
	return page, filtered
}
