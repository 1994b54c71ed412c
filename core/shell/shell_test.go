package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/session"
)

type fakeSessions struct {
	sess *session.Session
}

func (f fakeSessions) Current() (session.Session, bool) {
	if f.sess == nil {
		return session.Session{}, false
	}
	return *f.sess, true
}

func withRole(r role.Role) fakeSessions {
	return fakeSessions{sess: &session.Session{Token: "t", User: session.User{ID: 1, Nombre: "X", Role: r}}}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		sessions fakeSessions
		wantOK   bool
		wantRole role.Role
		wantName string
	}{
		{name: "admin", sessions: withRole(role.Admin), wantOK: true, wantRole: role.Admin, wantName: "admin"},
		{name: "teacher", sessions: withRole(role.Teacher), wantOK: true, wantRole: role.Teacher, wantName: "teacher"},
		{name: "student", sessions: withRole(role.Student), wantOK: true, wantRole: role.Student, wantName: "student"},
		{name: "no session", sessions: fakeSessions{}},
		{name: "unknown role", sessions: withRole("director")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh, ok := Select(tt.sessions)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				assert.Nil(t, sh)
				return
			}
			assert.Equal(t, tt.wantRole, sh.Role())
			assert.Equal(t, role.DashboardPath(tt.wantRole), sh.Home())

			name := Visit(sh,
				func(Admin) string { return "admin" },
				func(Teacher) string { return "teacher" },
				func(Student) string { return "student" },
			)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestAdminQuickActions(t *testing.T) {
	sh, ok := For(session.User{Role: role.Admin})
	require.True(t, ok)
	admin := sh.(Admin)
	require.Len(t, admin.QuickActions, 4)
	assert.Equal(t, "/admin/estudiantes", admin.QuickActions[0].Path)
}
