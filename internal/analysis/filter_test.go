package analysis

import (
	"testing"

	"pspicdash/domain/sheet"

	"github.com/stretchr/testify/assert"
)

func facetFixture() []Record {
	mk := func(equipo, zona, entorno string) Record {
		return Record{Subset: "acciones", Row: sheet.Row{"Equipo": equipo, "Zona": zona, "Entorno": entorno}}
	}
	return []Record{
		mk("Salud Mental", "Urbana", "Educativo"),
		mk("Salud Mental", "Rural", "Comunitario"),
		mk("Nutrición", "Urbana", "Hogar"),
		mk("Nutrición", "Urbana", "Educativo"),
		mk("Infancia", "Rural", ""),
		mk(" Infancia ", "Rural", "Hogar"),
	}
}

func TestFilterSetSet(t *testing.T) {
	f := FilterSet{}
	f.Set("Zona", " Urbana ")
	assert.Equal(t, "Urbana", f.Get("Zona"))

	f.Set("Zona", AllValues)
	assert.Empty(t, f)

	f.Set("Equipo", "Nutrición")
	f.Set("Equipo", "")
	assert.Empty(t, f)
}

func TestFilterSetApply(t *testing.T) {
	records := facetFixture()

	f := FilterSet{"Zona": "Rural"}
	assert.Len(t, f.Apply(records, Columns), 3)

	f.Set("Equipo", "Infancia")
	assert.Len(t, f.Apply(records, Columns), 2)

	assert.Len(t, FilterSet{}.Apply(records, Columns), len(records))
	assert.Empty(t, FilterSet{"Zona": "Luna"}.Apply(records, Columns))
}

func TestFacetOptionsNarrowOtherFields(t *testing.T) {
	records := facetFixture()
	fields := []string{"Equipo", "Zona", "Entorno"}

	all := FacetOptions(records, Columns, fields, FilterSet{})
	assert.Equal(t, []string{"Infancia", "Nutrición", "Salud Mental"}, all["Equipo"])
	assert.Equal(t, []string{"Comunitario", "Educativo", "Hogar"}, all["Entorno"])

	selected := FacetOptions(records, Columns, fields, FilterSet{"Equipo": "Nutrición"})
	assert.Equal(t, []string{"Urbana"}, selected["Zona"])
	assert.Equal(t, []string{"Educativo", "Hogar"}, selected["Entorno"])
	assert.Equal(t, []string{"Infancia", "Nutrición", "Salud Mental"}, selected["Equipo"],
		"a field's own selection must not narrow its options")

	both := FacetOptions(records, Columns, fields, FilterSet{"Zona": "Rural", "Entorno": "Hogar"})
	assert.Equal(t, []string{"Infancia"}, both["Equipo"])
	assert.Equal(t, []string{"Comunitario", "Hogar"}, both["Entorno"])
}

func TestFacetOptionsEveryOptionIsReachable(t *testing.T) {
	records := facetFixture()
	fields := []string{"Equipo", "Zona", "Entorno"}
	filters := FilterSet{"Zona": "Urbana"}

	options := FacetOptions(records, Columns, fields, filters)
	for _, v := range options["Equipo"] {
		f := filters.Clone()
		f.Set("Equipo", v)
		assert.NotEmpty(t, f.Apply(records, Columns), "option %s yields no rows", v)
	}
}

func TestFilterSetActiveOrder(t *testing.T) {
	f := FilterSet{"zona": "Rural", "equipo": "Infancia", "extra": "x"}
	assert.Equal(t, []ActiveFilter{
		{Field: "equipo", Value: "Infancia"},
		{Field: "zona", Value: "Rural"},
		{Field: "extra", Value: "x"},
	}, f.Active([]string{"equipo", "entorno", "zona"}))
}
