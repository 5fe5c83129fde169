package analysis

import (
	"testing"

	"pspicdash/domain/sheet"

	"github.com/stretchr/testify/assert"
)

func participant(subset, id, activity string) Record {
	return Record{Subset: subset, Row: sheet.Row{"No": id, "Actividad": activity}}
}

func TestSummarizeParticipants(t *testing.T) {
	acciones := []Record{
		participant("acciones", "1", "Feria"),
		participant("acciones", "1", "Feria"),
		participant("acciones", "2", "Actividad/Proceso"),
	}
	procesos := []Record{
		participant("procesos", "3", "Taller"),
		participant("procesos", "", "Taller"),
	}
	global := append(append([]Record{}, acciones...), procesos...)

	tests := []struct {
		name   string
		tab    []Record
		unique bool
		all    bool
		want   ParticipantSummary
	}{
		{"todo", global, false, true, ParticipantSummary{Global: 5, Tab: 5, Percent: 100, Activities: 2}},
		{"acciones", acciones, false, false, ParticipantSummary{Global: 5, Tab: 3, Percent: 60, Activities: 1}},
		{"procesos unique", procesos, true, false, ParticipantSummary{Global: 3, Tab: 1, Percent: 33.3, Activities: 1, Unique: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SummarizeParticipants(global, tt.tab, Columns, "No", "Actividad", tt.unique, tt.all)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarizeParticipantsEmptyGlobal(t *testing.T) {
	got := SummarizeParticipants(nil, nil, Columns, "No", "Actividad", false, false)
	assert.Equal(t, 0.0, got.Percent)
}

func TestCountActivitiesSkipsHeaders(t *testing.T) {
	records := rows("acciones", "Actividad", "Feria", "ACTIVIDAD", "Proceso", "Nombre de la actividad", "feria", "", "Feria")
	assert.Equal(t, 2, CountActivities(records, Columns, "Actividad"))
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"12", 12, true},
		{" 7 personas", 7, true},
		{"-3", -3, true},
		{"", 0, false},
		{"N/A", 0, false},
		{"+", 0, false},
	}
	for _, tt := range tests {
		got, ok := LeadingInt(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, 19, SumLeadingInts(rows("a", "N", "12", "x", "7 asistentes", ""), Columns, "N"))
}

func TestSummarizeIndicators(t *testing.T) {
	mk := func(team, status string) Record {
		return Record{Row: sheet.Row{"Equipo": team, "Estado Indicador": status}}
	}
	records := []Record{
		mk("A", "Meta cumplida"),
		mk("A", "META CUMPLIDA al 100%"),
		mk("B", "Meta no cumplida"),
		mk("B", "No aplica"),
		mk("C", "N/A"),
		mk("", ""),
		mk("C", "En seguimiento"),
	}

	got := SummarizeIndicators(records, Columns, "Equipo", "Estado Indicador")

	assert.Equal(t, IndicatorStats{Total: 7, Teams: 3, MetGoal: 2, MissedGoal: 1}, got)
}

func TestSummarizeCompliance(t *testing.T) {
	mk := func(team, tech, state, completion string) Record {
		return Record{Row: sheet.Row{"Equipo": team, "Tecnologías": tech, "Estado": state, "Cumplimiento Tarea": completion}}
	}
	records := []Record{
		mk("A", "Educación", "Finalizado", "100%"),
		mk("A", "Comunicación", "En curso", "50 %"),
		mk("B", "Educación", "En curso", ""),
		mk("C", "", "Finalizado", "pendiente"),
	}

	got := SummarizeCompliance(records, Columns, "Equipo", "Tecnologías", "Estado", "Cumplimiento Tarea")

	assert.Equal(t, ComplianceStats{Teams: 3, Technologies: 2, States: 2, AverageCompletion: 50}, got)
	assert.Equal(t, ComplianceStats{}, SummarizeCompliance(nil, Columns, "Equipo", "Tecnologías", "Estado", "Cumplimiento Tarea"))
}

func TestSummarizeWorkshops(t *testing.T) {
	records := []Record{
		{Row: sheet.Row{"Zona": "Urbana", "Comuna": "Comuna 1"}},
		{Row: sheet.Row{"Zona": "", "Comuna": "Comuna 1"}},
		{Row: sheet.Row{"Zona": "Urbana", "Comuna": ""}},
	}
	got := SummarizeWorkshops(records, Columns, "Zona", "Comuna")
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, []Bucket{{"Urbana", 2}, {NoData, 1}}, got.Zones.Buckets)
	assert.Equal(t, []Bucket{{"Comuna 1", 2}, {NoData, 1}}, got.Comunas.Buckets)
}

func TestIsAffirmative(t *testing.T) {
	for _, v := range []string{"si", "Sí", " SI ", "1"} {
		assert.True(t, IsAffirmative(v), v)
	}
	for _, v := range []string{"no", "", "0", "sin"} {
		assert.False(t, IsAffirmative(v), v)
	}
}
