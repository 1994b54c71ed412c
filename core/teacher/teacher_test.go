package teacher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
)

func TestForm(t *testing.T) {
	validator := core.NewValidator()
	tests := []struct {
		name       string
		values     map[string]string
		wantFields map[string]string
	}{
		{
			name: "valid",
			values: map[string]string{
				"rut": "11.111.111-1", "nombres": "Luis", "apellidos": "Soto", "email": "luis@orquesta.cl",
				"especialidad": "Cuerdas", "aniosExperiencia": "0",
			},
		},
		{
			name: "negative years",
			values: map[string]string{
				"rut": "11.111.111-1", "nombres": "Luis", "apellidos": "Soto", "email": "luis@orquesta.cl",
				"especialidad": "Cuerdas", "aniosExperiencia": "-1",
			},
			wantFields: map[string]string{"aniosExperiencia": "debe ser mayor o igual a 0"},
		},
		{
			name: "blank names",
			values: map[string]string{
				"rut": "11.111.111-1", "nombres": "   ", "apellidos": "Soto", "email": "luis@orquesta.cl",
				"especialidad": "Cuerdas",
			},
			wantFields: map[string]string{"nombres": "este campo es obligatorio"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form, err := NewForm(tt.values)
			require.NoError(t, err)
			err = validator.Struct(form)
			if tt.wantFields == nil {
				require.NoError(t, err)
				return
			}
			fields, ok := core.FieldErrors(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestForm_NotANumber(t *testing.T) {
	_, err := NewForm(map[string]string{"aniosExperiencia": "diez"})
	fields, ok := core.FieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "debe ser un número entero", fields["aniosExperiencia"])
}

func TestMatch(t *testing.T) {
	teachers := []Teacher{
		{ID: 1, Nombres: "Luis", Apellidos: "Soto", Especialidad: "Cuerdas", Estado: Active},
		{ID: 2, Nombres: "Marta", Apellidos: "Vega", Especialidad: "Vientos", Estado: Inactive},
	}
	got := crud.Filter(teachers, crud.Filters{"especialidad": "cuer"}, Match)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
	assert.Len(t, crud.Filter(teachers, crud.Filters{"estado": "inactivo"}, Match), 1)
	assert.False(t, Option(teachers[1]).Eligible)
}
