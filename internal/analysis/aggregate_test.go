package analysis

import (
	"testing"

	"pspicdash/domain/sheet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(subset string, column string, values ...string) []Record {
	out := make([]Record, len(values))
	for i, v := range values {
		out[i] = Record{Subset: subset, Row: sheet.Row{column: v}}
	}
	return out
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  FEMENINO ", "Femenino"},
		{"femenino", "Femenino"},
		{"ÉTNICO", "Étnico"},
		{"primera infancia", "Primera infancia"},
		{"   ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestGroupByField(t *testing.T) {
	records := rows("acciones", "Sexo", "Mujer", " hombre", "MUJER", "", "Hombre", "otro", "  ", "mujer")

	agg := GroupByField(records, "Sexo", Columns, "")

	assert.Equal(t, []Bucket{{"Mujer", 3}, {"Hombre", 2}, {"Otro", 1}}, agg.Buckets)
	assert.Equal(t, 2, agg.Invalid)
	assert.Equal(t, 6, agg.Total)
	assert.Equal(t, len(records)-agg.Invalid, agg.Total)
	assert.Equal(t, 25.0, agg.InvalidPercent())
	assert.Equal(t, 50.0, agg.Percent(agg.Buckets[0]))
}

func TestGroupByFieldStableTies(t *testing.T) {
	records := rows("acciones", "Zona", "Rural", "Urbana", "Expansión", "urbana", "rural")

	agg := GroupByField(records, "Zona", Columns, "")

	assert.Equal(t, []string{"Rural", "Urbana", "Expansión"}, agg.Labels())
}

func TestGroupByFieldBucketCountsSumToValid(t *testing.T) {
	values := []string{"a", "B", "b", "", "c", "C", "c", " ", "d"}
	agg := GroupByField(rows("x", "f", values...), "f", Columns, "")

	sum := 0
	for _, b := range agg.Buckets {
		sum += b.Count
	}
	assert.Equal(t, len(values)-agg.Invalid, sum)
	assert.Len(t, agg.Buckets, 4)
}

func TestGroupByFieldEmpty(t *testing.T) {
	agg := GroupByField(nil, "Sexo", Columns, "")
	assert.True(t, agg.Empty())
	assert.Empty(t, agg.Buckets)
	assert.Equal(t, 0, agg.Invalid)
	assert.Equal(t, 0.0, agg.InvalidPercent())
}

func TestGroupByFieldUnique(t *testing.T) {
	records := []Record{
		{Subset: "acciones", Row: sheet.Row{"ID": "1", "Sexo": "Mujer"}},
		{Subset: "acciones", Row: sheet.Row{"ID": "1", "Sexo": "Mujer"}},
		{Subset: "acciones", Row: sheet.Row{"ID": "2", "Sexo": "Hombre"}},
		{Subset: "acciones", Row: sheet.Row{"ID": "", "Sexo": "Hombre"}},
		{Subset: "acciones", Row: sheet.Row{"ID": " 3 ", "Sexo": ""}},
	}

	all := GroupByField(records, "Sexo", Columns, "")
	unique := GroupByField(records, "Sexo", Columns, "ID")

	assert.Equal(t, 4, all.Total)
	assert.Equal(t, []Bucket{{"Mujer", 1}, {"Hombre", 1}}, unique.Buckets)
	assert.Equal(t, 1, unique.Invalid)
	assert.LessOrEqual(t, unique.Total+unique.Invalid, all.Total+all.Invalid)
}

func TestGroupByFieldResolvesPerSubset(t *testing.T) {
	res := ResolverFunc(func(subset, field string) string {
		if subset == "procesos" && field == "sexo" {
			return "Se identifica como"
		}
		if field == "sexo" {
			return "Sexo"
		}
		return field
	})
	records := []Record{
		{Subset: "acciones", Row: sheet.Row{"Sexo": "Mujer"}},
		{Subset: "procesos", Row: sheet.Row{"Se identifica como": "mujer", "Sexo": "ignored"}},
		{Subset: "procesos", Row: sheet.Row{"Se identifica como": "No binario"}},
	}

	agg := GroupByField(records, "sexo", res, "")

	assert.Equal(t, []Bucket{{"Mujer", 2}, {"No binario", 1}}, agg.Buckets)
}

func TestCountRawKeepsInsertionOrder(t *testing.T) {
	records := rows("cb", "Objetivo 1", "Si", "No", " No", "si", "", "No")

	agg := CountRaw(records, "Objetivo 1", Columns)

	assert.Equal(t, []Bucket{{"Si", 1}, {"No", 3}, {"si", 1}}, agg.Buckets)
	assert.Equal(t, 1, agg.Invalid)
}

func TestCountWithDefault(t *testing.T) {
	records := rows("talleres", "Zona", "Urbana", "", "Rural", "Urbana", "  ", "", "Rural", "Urbana")

	agg := CountWithDefault(records, "Zona", Columns, NoData)

	require.Len(t, agg.Buckets, 3)
	assert.Equal(t, Bucket{"Urbana", 3}, agg.Buckets[0])
	assert.Equal(t, Bucket{NoData, 3}, agg.Buckets[1])
	assert.Equal(t, Bucket{"Rural", 2}, agg.Buckets[2])
	assert.Equal(t, 0, agg.Invalid)
	assert.Equal(t, 8, agg.Total)
}

func TestRecordsFromTable(t *testing.T) {
	table := sheet.FromRecords("procesos", [][]string{{"Zona"}, {"Rural"}, {"Urbana"}})
	recs := Records(table)
	require.Len(t, recs, 2)
	assert.Equal(t, "procesos", recs[1].Subset)
	assert.Equal(t, "Urbana", recs[1].Value(Columns, "Zona"))
	assert.Nil(t, Records(nil))
}
