package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
)

var students = []Student{
	{ID: 1, Rut: "12345678-5", Nombres: "Ana", Apellidos: "Díaz", Email: "ana@orquesta.cl", Instrumento: "Violín", Nivel: "intermedio", Estado: Active},
	{ID: 2, Rut: "11111111-1", Nombres: "Bruno", Apellidos: "Rojas", Email: "bruno@orquesta.cl", Instrumento: "Viola", Nivel: "principiante", Estado: Suspended},
	{ID: 3, Rut: "22222222-2", Nombres: "Carla", Apellidos: "Ana María", Email: "carla@orquesta.cl", Instrumento: "Violonchelo", Nivel: "avanzado", Estado: Inactive},
}

func ids(recs []Student) []int {
	out := make([]int, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		filters crud.Filters
		want    []int
	}{
		{name: "all", filters: crud.Filters{}, want: []int{1, 2, 3}},
		{name: "by name", filters: crud.Filters{"q": "ana"}, want: []int{1, 3}},
		{name: "by rut", filters: crud.Filters{"q": "1111"}, want: []int{2}},
		{name: "by estado", filters: crud.Filters{"estado": "suspendido"}, want: []int{2}},
		{name: "by instrumento", filters: crud.Filters{"instrumento": "viol"}, want: []int{1, 3}},
		{name: "combined", filters: crud.Filters{"q": "ana", "nivel": "Avanzado"}, want: []int{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := crud.Filter(students, tt.filters, Match)
			assert.Equal(t, tt.want, ids(once))
			assert.Equal(t, once, crud.Filter(once, tt.filters, Match))
		})
	}
}

func TestForm(t *testing.T) {
	validator := core.NewValidator()

	form, err := NewForm(map[string]string{
		"rut":         "12.345.678-5",
		"nombres":     "Ana",
		"apellidos":   "Díaz",
		"email":       "ANA@orquesta.cl",
		"instrumento": "Violín",
		"nivel":       "Intermedio",
		"anioIngreso": "2021",
	})
	require.NoError(t, err)
	require.NoError(t, validator.Struct(form))

	rec := form.(Form).Student(7)
	assert.Equal(t, "12345678-5", rec.Rut)
	assert.Equal(t, "ana@orquesta.cl", rec.Email)
	assert.Equal(t, Active, rec.Estado)

	// edit prefill round trip
	again, err := NewForm(Values(rec))
	require.NoError(t, err)
	assert.Equal(t, rec, again.(Form).Student(7))

	bad, err := NewForm(map[string]string{"rut": "12.345.678-9", "email": "x", "nivel": "experto", "fechaNacimiento": "01/02/2010"})
	require.NoError(t, err)
	fields, ok := core.FieldErrors(validator.Struct(bad))
	require.True(t, ok)
	assert.Equal(t, "RUT inválido", fields["rut"])
	assert.Equal(t, "debe ser un correo electrónico válido", fields["email"])
	assert.Equal(t, "este campo es obligatorio", fields["nombres"])
	assert.Equal(t, "debe tener el formato AAAA-MM-DD", fields["fechaNacimiento"])
	assert.Contains(t, fields["nivel"], "debe ser uno de")
}

func TestOption(t *testing.T) {
	assert.Equal(t, crud.Option{ID: 1, Label: "Ana Díaz", Eligible: true}, Option(students[0]))
	assert.False(t, Option(students[1]).Eligible)
}
