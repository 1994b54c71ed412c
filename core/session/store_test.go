package session

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/storage/local"
)

type fakeAuth struct {
	mu         sync.Mutex
	users      map[string]User // by email
	password   string
	loginErr   error
	verifyErr  error
	verifyHold chan struct{}
	calls      int
}

func (a *fakeAuth) Login(_ context.Context, email, password string, r role.Role) (string, User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.loginErr != nil {
		return "", User{}, a.loginErr
	}
	usr, ok := a.users[email]
	if !ok || password != a.password || usr.Role != r {
		return "", User{}, errors.New("Credenciales inválidas")
	}
	return "tok-" + email, usr, nil
}

func (a *fakeAuth) Verify(ctx context.Context, _ string) error {
	if a.verifyHold != nil {
		select {
		case <-a.verifyHold:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return a.verifyErr
}

var (
	ana  = User{ID: 3, Nombre: "Ana Díaz", Email: "ana@orquesta.cl", Role: role.Student}
	luis = User{ID: 2, Nombre: "Luis Soto", Email: "luis@orquesta.cl", Role: role.Teacher}
)

func newTestStore() (*Store, *fakeAuth, *local.MemStore) {
	auth := &fakeAuth{
		users:    map[string]User{ana.Email: ana, luis.Email: luis},
		password: "secret1",
	}
	storage := local.NewMemStore()
	return NewStore(auth, storage, core.NopLogger()), auth, storage
}

func persistSession(t *testing.T, storage local.Store, token string, usr User) {
	t.Helper()
	raw, err := json.Marshal(usr)
	require.NoError(t, err)
	require.NoError(t, storage.Set(TokenKey, token))
	require.NoError(t, storage.Set(UserKey, string(raw)))
}

func TestStore_Login(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		role     role.Role
		loginErr error
		wantErr  string
		wantUser User
	}{
		{name: "student", email: " Ana@Orquesta.cl ", password: "secret1", role: role.Student, wantUser: ana},
		{name: "teacher", email: "luis@orquesta.cl", password: "secret1", role: role.Teacher, wantUser: luis},
		{name: "wrong password", email: "ana@orquesta.cl", password: "nope", role: role.Student, wantErr: "Credenciales inválidas"},
		{name: "wrong role", email: "ana@orquesta.cl", password: "secret1", role: role.Teacher, wantErr: "Credenciales inválidas"},
		{name: "bad email", email: "ana", password: "secret1", role: role.Student, wantErr: "email: debe ser un correo electrónico válido"},
		{name: "unknown role", email: "ana@orquesta.cl", password: "secret1", role: "director", wantErr: ErrInvalidRole.Error()},
		{
			name:     "connection error",
			email:    "ana@orquesta.cl",
			password: "secret1",
			role:     role.Student,
			loginErr: errors.Wrap(core.ErrConnection, "dial tcp"),
			wantErr:  "Error de conexión con el servidor",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, auth, storage := newTestStore()
			auth.loginErr = tt.loginErr

			usr, err := s.Login(context.Background(), tt.email, tt.password, tt.role)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				_, ok := s.Current()
				assert.False(t, ok)
				assert.Empty(t, storage.Snapshot())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, usr)

			sess, ok := s.Current()
			require.True(t, ok)
			assert.Equal(t, tt.wantUser, sess.User)
			assert.Equal(t, "tok-"+tt.wantUser.Email, s.Token())

			stored := storage.Snapshot()
			assert.Equal(t, "tok-"+tt.wantUser.Email, stored[TokenKey])
			var persisted User
			require.NoError(t, json.Unmarshal([]byte(stored[UserKey]), &persisted))
			assert.Equal(t, tt.wantUser, persisted)
		})
	}
}

func TestStore_LoginStudentLandsOnDashboard(t *testing.T) {
	s, _, _ := newTestStore()
	assert.Equal(t, "/login", s.DefaultRoute())

	_, err := s.Login(context.Background(), ana.Email, "secret1", role.Student)
	require.NoError(t, err)
	assert.Equal(t, "/estudiante/dashboard", s.DefaultRoute())
	assert.Equal(t, role.Student, s.Role())
}

func TestStore_Logout(t *testing.T) {
	s, auth, storage := newTestStore()
	_, err := s.Login(context.Background(), ana.Email, "secret1", role.Student)
	require.NoError(t, err)

	var events []bool
	s.OnChange(func(_ Session, loggedIn bool) { events = append(events, loggedIn) })

	auth.loginErr = errors.New("network must not be used")
	s.Logout()

	_, ok := s.Current()
	assert.False(t, ok)
	assert.Empty(t, s.Token())
	assert.Empty(t, storage.Snapshot())
	assert.Equal(t, []bool{false}, events)
	assert.Equal(t, 1, auth.calls)
}

func TestStore_Restore(t *testing.T) {
	t.Run("nothing persisted", func(t *testing.T) {
		s, _, _ := newTestStore()
		restored, done := s.Restore(context.Background())
		assert.False(t, restored)
		assert.Nil(t, done)
	})

	t.Run("token without user", func(t *testing.T) {
		s, _, storage := newTestStore()
		require.NoError(t, storage.Set(TokenKey, "tok"))
		restored, _ := s.Restore(context.Background())
		assert.False(t, restored)
	})

	t.Run("malformed user", func(t *testing.T) {
		s, _, storage := newTestStore()
		require.NoError(t, storage.Set(TokenKey, "tok"))
		require.NoError(t, storage.Set(UserKey, "{nope"))
		restored, _ := s.Restore(context.Background())
		assert.False(t, restored)
	})

	t.Run("valid credential", func(t *testing.T) {
		s, auth, storage := newTestStore()
		auth.verifyHold = make(chan struct{})
		persistSession(t, storage, "tok", luis)

		restored, done := s.Restore(context.Background())
		require.True(t, restored)
		// usable before verification completes
		sess, ok := s.Current()
		require.True(t, ok)
		assert.Equal(t, luis, sess.User)

		close(auth.verifyHold)
		<-done
		_, ok = s.Current()
		assert.True(t, ok)
		assert.Equal(t, "tok", storage.Snapshot()[TokenKey])
	})

	t.Run("rejected credential logs out silently", func(t *testing.T) {
		s, auth, storage := newTestStore()
		auth.verifyErr = errors.New("401")
		persistSession(t, storage, "tok", luis)

		restored, done := s.Restore(context.Background())
		require.True(t, restored)
		<-done
		_, ok := s.Current()
		assert.False(t, ok)
		assert.Empty(t, storage.Snapshot())
	})

	t.Run("late rejection keeps a newer session", func(t *testing.T) {
		s, auth, storage := newTestStore()
		auth.verifyErr = errors.New("401")
		auth.verifyHold = make(chan struct{})
		persistSession(t, storage, "old", luis)

		_, done := s.Restore(context.Background())
		_, err := s.Login(context.Background(), ana.Email, "secret1", role.Student)
		require.NoError(t, err)

		close(auth.verifyHold)
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("verification did not finish")
		}
		sess, ok := s.Current()
		require.True(t, ok)
		assert.Equal(t, ana, sess.User)
		assert.Equal(t, "tok-"+ana.Email, storage.Snapshot()[TokenKey])
	})
}

func TestStore_Expire(t *testing.T) {
	s, _, storage := newTestStore()
	s.Expire() // no session: no-op

	_, err := s.Login(context.Background(), ana.Email, "secret1", role.Student)
	require.NoError(t, err)
	s.Expire()
	_, ok := s.Current()
	assert.False(t, ok)
	assert.Empty(t, storage.Snapshot())
}
