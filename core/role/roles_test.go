package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFor(t *testing.T) {
	tests := []struct {
		name        string
		role        Role
		wantRole    Role
		wantPrimary string
	}{
		{name: "admin", role: Admin, wantRole: Admin, wantPrimary: "#2c3e50"},
		{name: "teacher", role: Teacher, wantRole: Teacher, wantPrimary: "#1cc88a"},
		{name: "student", role: Student, wantRole: Student, wantPrimary: "#4e73df"},
		{name: "empty falls back to admin", role: "", wantRole: Admin, wantPrimary: "#2c3e50"},
		{name: "unknown falls back to admin", role: "director", wantRole: Admin, wantPrimary: "#2c3e50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ConfigFor(tt.role)
			assert.Equal(t, tt.wantRole, cfg.Role)
			assert.Equal(t, tt.wantPrimary, cfg.Theme.Primary)
			assert.NotEmpty(t, cfg.Menu)
		})
	}
}

func TestConfigIsReadOnly(t *testing.T) {
	cfg := ConfigFor(Student)
	cfg.Menu[0].Items[0].Label = "hacked"
	cfg.Menu[0].Name = "hacked"

	fresh := ConfigFor(Student)
	assert.Equal(t, "Principal", fresh.Menu[0].Name)
	assert.Equal(t, "Dashboard", fresh.Menu[0].Items[0].Label)
}

func TestParse(t *testing.T) {
	for in, want := range map[string]Role{
		"administrador": Admin,
		" Admin ":       Admin,
		"profesor":      Teacher,
		"Teacher":       Teacher,
		"ESTUDIANTE":    Student,
	} {
		got, ok := Parse(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := Parse("director")
	assert.False(t, ok)
}

func TestDashboardPath(t *testing.T) {
	assert.Equal(t, "/estudiante/dashboard", DashboardPath(Student))
	assert.Equal(t, "/profesor/dashboard", DashboardPath(Teacher))
	assert.Equal(t, "/admin/dashboard", DashboardPath("nope"))

	for _, r := range All {
		_, ok := ConfigFor(r).Menu.Find(DashboardPath(r))
		assert.True(t, ok, "dashboard of %s must be in its menu", r)
	}
}
