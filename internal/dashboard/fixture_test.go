package dashboard

import (
	"context"
	"testing"

	"pspicdash/domain/sheet"
	"pspicdash/internal/catalog"
	"pspicdash/internal/dataset"
	"pspicdash/internal/errors"
	"pspicdash/ports"

	"github.com/stretchr/testify/require"
)

var fixtures = map[string][][]string{
	"acciones": {
		{"No de Identificación", "Equipo/Problemática", "Entornos Abordados", "Actividad/Proceso", "Zona", "Curso de Vida", "Sexo", "Comuna/Corregimiento", "Número de Participantes"},
		{"1", "Salud Mental", "Educativo", "Taller A", "Nororiental", "Adultez", "Femenino", "Comuna 1", "10"},
		{"2", "Salud Mental", "Comunitario", "Taller B", "Noroccidental", "Juventud", "masculino", "Comuna 5", "5 personas"},
		{"1", "Nutrición", "Educativo", "Actividad/Proceso", "Nororiental", "adultez", "FEMENINO", "", "x"},
	},
	"procesos": {
		{"No de Identificación", "Equipo/Problemática", "Entornos Abordados", "Actividad/Proceso", "Zona", "Curso de Vida", "Se identifica como", "Comuna/Corregimiento", "Preferencia Sexual", "Escolaridad", "Posee algún tipo de Discapacidad", "Tipo de afiliación a Salud", "Número de Participantes"},
		{"3", "Salud Mental", "Educativo", "Curso C", "Nororiental", "Adultez", "Mujer", "Comuna 1", "Heterosexual", "Bachiller", "No", "Subsidiado", "7"},
		{"4", "Nutrición", "Laboral", "Curso C", "Ladera", "Vejez", "Hombre", "Comuna 20", "Heterosexual", "Primaria", "Si", "Contributivo", ""},
	},
	"indicadores": {
		{"Equipo", "Producto", "Actividad", "Grupo Poblacional", "Indicador Aplicado", "Tipo de Indicador", "Ámbito", "Meta 2025", "Resultado 2025", "Estado Indicador", "Interpretación General de Resultados", "Enlace URL evidencias indicadores"},
		{"Salud Mental", "P1", "A1", "Jóvenes", "Cobertura", "Proceso", "Educativo", "80%", "85%", "Meta cumplida", "**Bien**", "https://example.org/ev/1"},
		{"Salud Mental", "P2", "A2", "Adultos", "Adherencia", "Resultado", "Comunitario", "90%", "40,5%", "Meta no cumplida", "", ""},
		{"Nutrición", "P3", "A3", "Jóvenes", "Cobertura", "Proceso", "Educativo", "50%", "", "No aplica", "", ""},
	},
	"cumplimiento": {
		{"Equipo", "Descripción Producto", "Actividad", "Evidencia", "Cumplimiento Tarea", "Estado", "Tecnologías", "Entornos"},
		{"E1", "Desc", "Act1", "", "100%", "Completado", "Web", "Educativo"},
		{"E2", "", "Act2", "Acta", "50", "En curso", "", "Laboral"},
		{"E2", "", "Act3", "", "", "Pendiente", "App", "Laboral"},
		{"E1", "", "Act4", "", "pendiente", "Pendiente", "Web", "Educativo"},
	},
	"incorporacioncb": {
		{"Actividad", "Equipo/Problemática", "Producto", "Poblaciones", "Grupo", "Objetivo 1", "Objetivo 2", "Objetivo 3", "Participación Significativa", "Cuerpo Territorio", "Ciudadanía Activa", "Perspectiva de Derechos", "Perspectiva de Determinación Social", "Enfoque Territorial", "Enfoque Poblacional", "Enfoque Intercultural", "Enfoque Diferencial"},
		{"Act1", "Salud Mental", "P1", "Jóvenes", "G1", "Sí", "No", "", "Sí", "no", "1", "Si", "No", "Sí", "Sí", "No", "No"},
		{"Act2", "Nutrición", "P2", "", "G2", "No", "No", "Sí", "SI", "Sí", "0", "No", "No", "Sí", "No", "No", "Sí"},
	},
	"talleres": {
		{"Id", "Fecha Taller", "Tema", "ubicación", "Barrio", "Comuna/Corregimiento", "Zona", "Equipo/Problemática", "Poblaciones", "Responsable"},
		{"1", "2025-03-03", "Salud", "Colegio", "Centro", "Comuna 1", "Nororiental", "SM", "Jóvenes", "Ana"},
		{"", "3/4/2025", "Nutrición", "", "", "", "Nororiental", "N", "", "Luis"},
		{"3", "pronto", "Sueño", "", "", "Comuna 1", "", "SM", "", ""},
	},
}

func fixtureSource() ports.SheetSource {
	return ports.SheetSourceFunc(func(_ context.Context, ref sheet.Ref) (*sheet.Table, error) {
		records, ok := fixtures[ref.Key]
		if !ok {
			return nil, errors.SheetFetch("Error 404: No se pudo cargar la hoja "+ref.Key, nil)
		}
		return sheet.FromRecords(ref.Key, records), nil
	})
}

func newTestService(t *testing.T, source ports.SheetSource) *Service {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return NewService(c, dataset.NewLoader(source, 0))
}
