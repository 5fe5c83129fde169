package dashboard

import (
	"fmt"

	"pspicdash/internal/analysis"
	"pspicdash/internal/catalog"
)

const (
	colTecnologias   = "Tecnologías"
	colEstado        = "Estado"
	colCumplimiento  = "Cumplimiento Tarea"
	colActividad     = "Actividad"
	colDescripcion   = "Descripción Producto"
	colEvidencia     = "Evidencia"
	notSpecified     = "No especificado"
	noDescription    = "No hay descripción disponible."
	noEvidence       = "No hay evidencia disponible."
	emptyCompliance  = "0%"
	complianceDetail = "Detalle de Actividad"
)

func (s *Service) cumplimiento(d *catalog.Dashboard, data map[string][]analysis.Record, st State) (*Page, []analysis.Record) {
	all := firstSheet(d, data)
	filtered := st.Filters.Apply(all, d)
	stats := analysis.SummarizeCompliance(filtered, d, colEquipo, colTecnologias, colEstado, colCumplimiento)

	page := &Page{
		Facets:  facets(d, all, st, true),
		Records: len(filtered),
		Cards: []Card{
			{Label: "Equipos", Value: itoa(stats.Teams)},
			{Label: "Tecnologías", Value: itoa(stats.Technologies)},
			{Label: "Estados", Value: itoa(stats.States)},
			{Label: "Promedio de Cumplimiento", Value: fmt.Sprintf("%.1f%%", stats.AverageCompletion)},
		},
		Table: table(d, filtered, map[string]bool{colCumplimiento: true}, "No se encontraron actividades con los filtros aplicados"),
	}

	if rec, ok := selected(filtered, st); ok {
		raw := rec.Value(d, colCumplimiento)
		if raw == "" {
			raw = emptyCompliance
		}
		p := analysis.ParseProgress(raw)
		fields := detailFields(d, rec, notSpecified, nil)
		for i := range fields {
			switch fields[i].Label {
			case colDescripcion:
				if rec.Value(d, colDescripcion) == "" {
					fields[i].Value = noDescription
				}
			case colEvidencia:
				if rec.Value(d, colEvidencia) == "" {
					fields[i].Value = noEvidence
				}
			}
		}
		page.Detail = &Detail{
			Title:    complianceDetail,
			Subtitle: rec.Value(d, colActividad) + " - " + rec.Value(d, colEstado),
			Fields:   fields,
			Progress: &p,
		}
	}
	return page, filtered
}
