package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
)

func TestAccount_Password(t *testing.T) {
	a := New(1, " Ana@Orquesta.CL ", "Ana", role.Admin, 0)
	require.NoError(t, a.SetPassword("admin123"))
	assert.NoError(t, a.CheckPassword("admin123"))
	assert.Error(t, a.CheckPassword("admin124"))
	assert.Equal(t, "ana@orquesta.cl", a.User().Email)
	assert.Equal(t, role.Admin, a.User().Role)
}

func TestFind(t *testing.T) {
	accounts := []Account{
		New(1, "ana@orquesta.cl", "Ana", role.Admin, 0),
		New(2, "ana@orquesta.cl", "Ana", role.Teacher, 4),
	}
	a, ok := Find(accounts, "ANA@orquesta.cl", role.Teacher)
	require.True(t, ok)
	assert.Equal(t, 2, a.ID)
	_, ok = Find(accounts, "ana@orquesta.cl", role.Student)
	assert.False(t, ok)
}
