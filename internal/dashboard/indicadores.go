package dashboard

import (
	"pspicdash/internal/analysis"
	"pspicdash/internal/catalog"
)

const (
	colEquipo         = "Equipo"
	colEstadoIndic    = "Estado Indicador"
	colResultado      = "Resultado 2025"
	colIndicador      = "Indicador Aplicado"
	colInterpretacion = "Interpretación General de Resultados"
	colEvidencias     = "Enlace URL evidencias indicadores"
)

func (s *Service) indicadores(d *catalog.Dashboard, data map[string][]analysis.Record, st State) (*Page, []analysis.Record) {
	all := firstSheet(d, data)
	filtered := st.Filters.Apply(all, d)
	stats := analysis.SummarizeIndicators(filtered, d, colEquipo, colEstadoIndic)

	page := &Page{
		Facets:  facets(d, all, st, true),
		Records: len(filtered),
		Cards: []Card{
			{Label: "Total Indicadores", Value: itoa(stats.Total)},
			{Label: "Equipos", Value: itoa(stats.Teams)},
			{Label: "Meta Cumplida", Value: itoa(stats.MetGoal)},
			{Label: "Meta no Cumplida", Value: itoa(stats.MissedGoal)},
		},
		Table: table(d, filtered, map[string]bool{colResultado: true}, "No se encontraron indicadores con los filtros aplicados"),
	}

	if rec, ok := selected(filtered, st); ok {
		p := analysis.ParseProgress(rec.Value(d, colResultado))
		notes := rec.Value(d, colInterpretacion)
		if notes == "" {
			notes = "No hay interpretación disponible para este indicador."
		}
		page.Detail = &Detail{
			Title:      "Interpretación del Indicador",
			Subtitle:   rec.Value(d, colIndicador),
			Fields:     detailFields(d, rec, "N/A", nil),
			Progress:   &p,
			Notes:      notes,
			NotesTitle: "Interpretación de Resultados",
			Link:       rec.Value(d, colEvidencias),
			LinkLabel:  "Ver evidencias",
		}
	}
	return page, filtered
}

// firstSheet returns the records of the dashboard's only sheet
func firstSheet(d *catalog.Dashboard, data map[string][]analysis.Record) []analysis.Record {
	if len(d.Sheets) == 0 {
		return nil
	}
	return data[d.Sheets[0].Key]
}
