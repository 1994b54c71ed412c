package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidRUT(t *testing.T) {
	tests := []struct {
		rut  string
		want bool
	}{
		{rut: "12.345.678-5", want: true},
		{rut: "12345678-5", want: true},
		{rut: "11.111.111-1", want: true},
		{rut: "12.345.678-6", want: false},
		{rut: "abc", want: false},
		{rut: "", want: false},
		{rut: "-5", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.rut, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidRUT(tt.rut))
		})
	}
}

func TestFormatRUT(t *testing.T) {
	assert.Equal(t, "12345678-5", FormatRUT("12.345.678-5"))
	assert.Equal(t, "7654321-K", FormatRUT(" 7.654.321-k "))
	assert.Equal(t, "1", FormatRUT("1"))
}

type sampleForm struct {
	Name  string          `json:"name" validate:"notblank"`
	Email string          `json:"email" validate:"required,email"`
	Code  string          `json:"code" validate:"required,min=6"`
	Years int             `json:"years" validate:"gte=0"`
	Rut   string          `json:"rut" validate:"omitempty,rut"`
	Grade decimal.Decimal `json:"grade" validate:"required,grade"`
}

func TestValidator_Struct(t *testing.T) {
	v := NewValidator()

	valid := sampleForm{
		Name:  "Ana",
		Email: "ana@orquesta.cl",
		Code:  "abcdef",
		Years: 0,
		Rut:   "12.345.678-5",
		Grade: decimal.RequireFromString("6.5"),
	}
	require.NoError(t, v.Struct(valid))

	invalid := sampleForm{
		Name:  "  ",
		Email: "not-an-email",
		Code:  "abcde",
		Years: -1,
		Rut:   "12.345.678-6",
		Grade: decimal.RequireFromString("7.5"),
	}
	err := v.Struct(invalid)
	require.Error(t, err)

	flds, ok := FieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, notBlankText, flds["name"])
	assert.Equal(t, emailText, flds["email"])
	assert.Equal(t, "debe tener al menos 6 caracteres", flds["code"])
	assert.Equal(t, "debe ser mayor o igual a 0", flds["years"])
	assert.Equal(t, rutText, flds["rut"])
	assert.Equal(t, gradeText, flds["grade"])
}

func TestValidator_RequiredUsesJSONNames(t *testing.T) {
	err := NewValidator().Struct(sampleForm{Name: "x", Grade: decimal.NewFromInt(5)})
	flds, ok := FieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, requiredText, flds["email"])
	assert.Equal(t, requiredText, flds["code"])
	assert.NotContains(t, flds, "Email")
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Hola", CleanString("  Hola \n"))
	assert.Equal(t, "hola", CleanString("  HoLa ", true))
	assert.True(t, ContainsFold("Violín Stradivarius", "VIOLÍN"))
	assert.True(t, ContainsFold("anything", "  "))
	assert.False(t, ContainsFold("cello", "viola"))
}
