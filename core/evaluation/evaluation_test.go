package evaluation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
)

func TestForm(t *testing.T) {
	validator := core.NewValidator()
	tests := []struct {
		nota      string
		wantError string
	}{
		{nota: "7"},
		{nota: "1.0"},
		{nota: "5,5"},
		{nota: "7.1", wantError: "la nota debe estar entre 1.0 y 7.0"},
		{nota: "0.9", wantError: "la nota debe estar entre 1.0 y 7.0"},
		{nota: "", wantError: "este campo es obligatorio"},
	}
	for _, tt := range tests {
		t.Run(tt.nota, func(t *testing.T) {
			form, err := NewForm(map[string]string{
				"estudianteId": "1", "profesorId": "2", "fecha": "2024-05-02", "tipo": "Técnica", "nota": tt.nota,
			})
			require.NoError(t, err)
			err = validator.Struct(form)
			if tt.wantError == "" {
				assert.NoError(t, err)
				return
			}
			fields, ok := core.FieldErrors(err)
			require.True(t, ok)
			assert.Equal(t, map[string]string{"nota": tt.wantError}, fields)
		})
	}
}

func TestForm_RoundTrip(t *testing.T) {
	form, err := NewForm(map[string]string{
		"estudianteId": "1", "profesorId": "2", "fecha": "2024-05-02", "tipo": "técnica", "nota": "6.25",
	})
	require.NoError(t, err)
	rec := form.(Form).Evaluation(4)
	assert.Equal(t, "6.3", rec.Nota.String())
	assert.Equal(t, "6.3", Values(rec)["nota"])
}

func TestAverageAndMatch(t *testing.T) {
	evals := []Evaluation{
		{ID: 1, EstudianteID: 1, Nota: decimal.RequireFromString("3.5"), Tipo: "técnica"},
		{ID: 2, EstudianteID: 1, Nota: decimal.RequireFromString("6.0"), Tipo: "repertorio"},
		{ID: 3, EstudianteID: 2, Nota: decimal.RequireFromString("7.0"), Tipo: "técnica"},
	}
	avg, ok := Average(evals[:2])
	require.True(t, ok)
	assert.Equal(t, "4.8", avg.String())
	_, ok = Average(nil)
	assert.False(t, ok)

	assert.Len(t, crud.Filter(evals, crud.Filters{"aprobada": "false"}, Match), 1)
	assert.Len(t, crud.Filter(evals, crud.Filters{"estudianteId": "1", "tipo": "TÉCNICA"}, Match), 1)
}
