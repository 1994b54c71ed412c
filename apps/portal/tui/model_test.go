package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/apps/portal/screens"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/alert"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/events"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/navigation"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/records"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/session"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/services/api"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/storage/local"
	testutil "github.com/salonas/OrquestaDeCobquecuraWEB-sub001/tests"
)

func newDeps(t *testing.T) Deps {
	t.Helper()
	conf, _ := testutil.StartSandbox(t)

	client := api.NewClient(conf, core.NopLogger())
	storage := local.NewMemStore()
	sessions := session.NewStore(client, storage, core.NopLogger())
	client.Authorize(sessions, sessions.Expire)

	bus := events.NewBus()
	alerts := alert.New(bus)
	t.Cleanup(alerts.Close)

	return Deps{
		Sessions: sessions,
		Nav:      navigation.New(sessions, storage, bus, core.NopLogger()),
		Alerts:   alerts,
		Bus:      bus,
		Screens: screens.New(client, crud.Deps{
			Alerts:    alerts,
			Validator: testutil.NewValidator(),
			Logger:    core.NopLogger(),
			Bus:       bus,
		}),
		Client: client,
	}
}

func newModel(t *testing.T, deps Deps) Model {
	t.Helper()
	m := New(context.Background(), deps)
	t.Cleanup(m.Close)
	return update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

// run feeds msg to m and then the message produced by the returned command.
func run(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	m, cmd := step(t, m, msg)
	require.NotNil(t, cmd)
	return update(t, m, cmd())
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_studentLogin(t *testing.T) {
	deps := newDeps(t)
	m := newModel(t, deps)
	assert.Equal(t, ViewLogin, m.CurrentView())
	assert.Contains(t, m.View(), "Inicia sesión")

	m = update(t, m, runes(records.StudentEmail))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, runes(records.DemoPassword))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, role.Student, m.login.Role())

	// login, then the dashboard fetch
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, cmd = step(t, m, cmd())
	require.Equal(t, ViewMain, m.CurrentView(), m.login.err)
	require.NotNil(t, cmd)
	m = update(t, m, cmd())

	assert.Equal(t, "/estudiante/dashboard", m.Route())
	assert.Equal(t, "#4e73df", deps.Nav.Theme().Primary)
	require.NotNil(t, m.self)
	assert.False(t, m.self.loading)
	assert.NoError(t, m.self.err)

	view := m.View()
	assert.Contains(t, view, "Dashboard")
	assert.Contains(t, view, "Mis préstamos")
}

func TestModel_loginFailure(t *testing.T) {
	m := newModel(t, newDeps(t))

	m = update(t, m, runes(records.AdminEmail))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, runes("wrong-password"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = run(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ViewLogin, m.CurrentView())
	assert.NotEmpty(t, m.login.err)
	assert.False(t, m.login.busy)
}

func loginAs(t *testing.T, deps Deps, email string, r role.Role) {
	t.Helper()
	_, err := deps.Sessions.Login(context.Background(), email, records.DemoPassword, r)
	require.NoError(t, err)
}

func TestModel_sidebar(t *testing.T) {
	deps := newDeps(t)
	loginAs(t, deps, records.AdminEmail, role.Admin)
	m := newModel(t, deps)

	require.Equal(t, ViewMain, m.CurrentView())
	assert.Equal(t, "/admin/dashboard", m.Route())
	assert.Contains(t, m.View(), "Accesos rápidos")

	// the first entry is the "Principal" header
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, deps.Nav.IsOpen("Principal"))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlB})
	assert.True(t, deps.Nav.Collapsed())
	assert.Equal(t, deps.Nav.Layout().SidebarCollapsedWidth, deps.Nav.SidebarWidth())
	for _, e := range m.sidebar() {
		assert.False(t, e.header)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlB})
	assert.False(t, deps.Nav.Collapsed())
	assert.Contains(t, m.View(), "▸ Principal")
}

func TestModel_logout(t *testing.T) {
	deps := newDeps(t)
	loginAs(t, deps, records.TeacherEmail, role.Teacher)
	m := newModel(t, deps)
	require.Equal(t, "/profesor/dashboard", m.Route())

	m = update(t, m, runes("L"))
	assert.Equal(t, ViewLogin, m.CurrentView())
	_, ok := deps.Sessions.Current()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "Sesión cerrada")
}

func TestModel_deleteReturnedLoan(t *testing.T) {
	deps := newDeps(t)
	loginAs(t, deps, records.AdminEmail, role.Admin)
	m := newModel(t, deps)

	m, cmd := m.navigate("/admin/prestamos")
	require.NotNil(t, cmd)
	m = update(t, m, cmd())
	m.focus = focusContent
	require.Len(t, m.entity.table.Rows(), 2)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	id, ok := m.entity.selectedID()
	require.True(t, ok)
	require.Equal(t, 2, id)

	m, cmd = step(t, m, runes("d"))
	require.NotNil(t, cmd)
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	require.Eventually(t, func() bool {
		_, pending := deps.Alerts.Pending()
		return pending
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, m.View(), "Eliminar Préstamo")

	m = update(t, m, runes("y"))
	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("delete did not finish")
	}
	res, ok := msg.(OpDoneMsg)
	require.True(t, ok)
	assert.Error(t, res.Err)

	m = update(t, m, msg)
	assert.Len(t, m.entity.table.Rows(), 2)
	assert.Contains(t, m.View(), "already returned")
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		v    interface{}
		want string
	}{
		{"nil", nil, "-"},
		{"empty string", "", "-"},
		{"string", "Violín", "Violín"},
		{"true", true, "sí"},
		{"integer", float64(3), "3"},
		{"decimal", 6.5, "6.5"},
		{"list", []interface{}{"a", "b"}, `["a","b"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.v))
		})
	}
}

func TestTabulate(t *testing.T) {
	headers, rows, ok := Tabulate([]interface{}{
		map[string]interface{}{"nombre": "Camila", "id": float64(1)},
		map[string]interface{}{"id": float64(2), "curso": "3° medio"},
	})
	require.True(t, ok)
	assert.Equal(t, []string{"id", "curso", "nombre"}, headers)
	assert.Equal(t, [][]string{{"1", "-", "Camila"}, {"2", "3° medio", "-"}}, rows)

	_, _, ok = Tabulate([]interface{}{"a"})
	assert.False(t, ok)
}
