package instrument

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
)

func TestForm(t *testing.T) {
	form, err := NewForm(map[string]string{
		"nombre": "Violín 4/4", "tipo": "Cuerda", "numeroSerie": "sn-001", "condicion": "bueno",
	})
	require.NoError(t, err)
	require.NoError(t, core.NewValidator().Struct(form))

	rec := form.(Form).Instrument(1)
	assert.Equal(t, "SN-001", rec.NumeroSerie)
	assert.Equal(t, Available, rec.Disponibilidad)
	assert.Equal(t, "Violín 4/4 (SN-001)", rec.Label())

	bad, _ := NewForm(map[string]string{"nombre": "Tuba", "condicion": "roto"})
	fields, ok := core.FieldErrors(core.NewValidator().Struct(bad))
	require.True(t, ok)
	assert.Len(t, fields, 3)
	assert.Contains(t, fields, "condicion")
	assert.Contains(t, fields, "tipo")
	assert.Contains(t, fields, "numeroSerie")
}

func TestMatchAndOption(t *testing.T) {
	recs := []Instrument{
		{ID: 1, Nombre: "Violín", Tipo: "cuerda", NumeroSerie: "SN-1", Disponibilidad: Available},
		{ID: 2, Nombre: "Flauta", Tipo: "viento madera", Marca: "Yamaha", Disponibilidad: Lent},
		{ID: 3, Nombre: "Viola", Tipo: "cuerda", Disponibilidad: Maintenance},
	}
	assert.Len(t, crud.Filter(recs, crud.Filters{"tipo": "cuerda"}, Match), 2)
	assert.Len(t, crud.Filter(recs, crud.Filters{"q": "yamaha"}, Match), 1)
	assert.Len(t, crud.Filter(recs, crud.Filters{"q": "sn-1", "disponibilidad": "disponible"}, Match), 1)

	assert.True(t, Option(recs[0]).Eligible)
	assert.False(t, Option(recs[1]).Eligible)
	assert.False(t, Option(recs[2]).Eligible)
}
