package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
)

func TestForm(t *testing.T) {
	form, err := NewForm(map[string]string{"profesorId": "1", "estudianteId": "2", "instrumento": "Violín", "fechaInicio": "2024-03-04"})
	require.NoError(t, err)
	require.NoError(t, core.NewValidator().Struct(form))
	assert.True(t, form.(Form).Assignment(1).Activa)

	_, err = NewForm(map[string]string{"profesorId": "uno"})
	fields, ok := core.FieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"profesorId": "debe ser un número entero"}, fields)
}

func TestMatch(t *testing.T) {
	recs := []Assignment{
		{ID: 1, ProfesorID: 1, EstudianteID: 1, Instrumento: "Violín", Activa: true},
		{ID: 2, ProfesorID: 1, EstudianteID: 2, Instrumento: "Viola", Activa: false},
		{ID: 3, ProfesorID: 2, EstudianteID: 3, Instrumento: "Flauta", Activa: true},
	}
	assert.Len(t, crud.Filter(recs, crud.Filters{"profesorId": "1"}, Match), 2)
	assert.Len(t, crud.Filter(recs, crud.Filters{"profesorId": "1", "activa": "true"}, Match), 1)
	assert.Len(t, crud.Filter(recs, crud.Filters{"instrumento": "vio"}, Match), 2)

	s := Schema(nil, crud.Lookup{Name: "profesores"}, crud.Lookup{Name: "estudiantes"})
	a, ok := s.Action("desactivar")
	require.True(t, ok)
	assert.False(t, a.Allowed(recs[1]))
	assert.Nil(t, a.Body)
}
