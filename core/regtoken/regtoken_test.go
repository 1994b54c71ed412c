package regtoken

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/alert"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
)

type fakeTokens struct {
	mu      sync.Mutex
	tokens  []Token
	creates int
}

func (c *fakeTokens) List(context.Context) ([]Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Token(nil), c.tokens...), nil
}

func (c *fakeTokens) Create(_ context.Context, form interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creates++
	c.tokens = append(c.tokens, form.(Form).Record(len(c.tokens)+1))
	return nil
}

func (c *fakeTokens) Update(context.Context, int, interface{}) error        { return nil }
func (c *fakeTokens) Delete(context.Context, int) error                     { return nil }
func (c *fakeTokens) Patch(context.Context, int, string, interface{}) error { return nil }

type noAlerts struct{}

func (noAlerts) Notify(string, string, alert.Severity, ...alert.Option) uint64 { return 0 }
func (noAlerts) Confirm(context.Context, string, string, ...alert.ConfirmOption) (bool, error) {
	return true, nil
}

func TestScreen_ShortTokenRejectedBeforeRequest(t *testing.T) {
	coll := &fakeTokens{}
	s := crud.NewScreen(Schema(coll), crud.Deps{Alerts: noAlerts{}})
	t.Cleanup(s.Close)
	require.NoError(t, s.Open(context.Background()))

	s.OpenCreate()
	err := s.Submit(context.Background(), map[string]string{"token": "ABCDE", "tipoUsuario": "estudiante"})
	require.Error(t, err)

	form, ok := s.Form()
	require.True(t, ok)
	assert.Equal(t, "debe tener al menos 6 caracteres", form.Errors["token"])
	assert.Zero(t, coll.creates)

	require.NoError(t, s.Submit(context.Background(), map[string]string{"token": "ABCDEF", "tipoUsuario": "Estudiante", "usosMaximos": "10"}))
	assert.Equal(t, 1, coll.creates)
	require.Len(t, s.Records(), 1)
	assert.Equal(t, role.Student, s.Records()[0].TipoUsuario)
	assert.True(t, s.Records()[0].Activo)
}

func TestScreen_AdministratorTokensRejected(t *testing.T) {
	coll := &fakeTokens{}
	s := crud.NewScreen(Schema(coll), crud.Deps{Alerts: noAlerts{}})
	t.Cleanup(s.Close)
	require.NoError(t, s.Open(context.Background()))

	s.OpenCreate()
	require.Error(t, s.Submit(context.Background(), map[string]string{"token": "ADMIN-2024", "tipoUsuario": "administrador"}))
	form, _ := s.Form()
	assert.Equal(t, "debe ser uno de: profesor estudiante", form.Errors["tipoUsuario"])
	assert.Zero(t, coll.creates)
}

func TestToken_Usable(t *testing.T) {
	tests := []struct {
		name  string
		token Token
		role  role.Role
		want  bool
	}{
		{"active unlimited", Token{TipoUsuario: role.Student, Activo: true}, role.Student, true},
		{"wrong role", Token{TipoUsuario: role.Student, Activo: true}, role.Teacher, false},
		{"inactive", Token{TipoUsuario: role.Student}, role.Student, false},
		{"used up", Token{TipoUsuario: role.Teacher, Activo: true, UsosMaximos: 2, UsosActuales: 2}, role.Teacher, false},
		{"expired", Token{TipoUsuario: role.Teacher, Activo: true, Expiracion: "2024-01-31"}, role.Teacher, false},
		{"expires today", Token{TipoUsuario: role.Teacher, Activo: true, Expiracion: "2024-02-01"}, role.Teacher, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.token.Usable(tc.role, "2024-02-01"))
		})
	}
}

func TestToken_Remaining(t *testing.T) {
	assert.Equal(t, -1, Token{}.Remaining())
	assert.Equal(t, 3, Token{UsosMaximos: 5, UsosActuales: 2}.Remaining())
	assert.Equal(t, 0, Token{UsosMaximos: 1, UsosActuales: 4}.Remaining())
}
