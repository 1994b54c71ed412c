package crud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
)

func TestParser(t *testing.T) {
	p := NewParser(map[string]string{
		"nombre":   "  Ana ",
		"email":    " Ana@Orquesta.CL",
		"anios":    "12",
		"usos":     "",
		"nota":     "5,5",
		"activo":   "sí",
		"malo":     "doce",
		"malaNota": "cinco",
	})

	assert.Equal(t, "Ana", p.String("nombre"))
	assert.Equal(t, "ana@orquesta.cl", p.Lower("email"))
	assert.Equal(t, 12, p.Int("anios"))
	assert.Nil(t, p.OptionalInt("usos"))
	assert.Equal(t, "5.5", p.Decimal("nota").String())
	assert.True(t, p.Bool("activo"))
	assert.False(t, p.Bool("missing"))
	require.NoError(t, p.Err())

	assert.Equal(t, 0, p.Int("malo"))
	p.Decimal("malaNota")
	fields, ok := core.FieldErrors(p.Err())
	require.True(t, ok)
	assert.Equal(t, map[string]string{"malo": notIntText, "malaNota": notDecimalText}, fields)
}

func TestFormat(t *testing.T) {
	n := 3
	assert.Equal(t, "3", FormatInt(&n))
	assert.Equal(t, "", FormatInt(nil))
	assert.Equal(t, "true", FormatBool(true))
}
