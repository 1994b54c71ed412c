package navigation

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/storage/local"
)

type fakeRoles struct {
	mu sync.Mutex
	r  role.Role
}

func (f *fakeRoles) Role() role.Role {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.r
}

func (f *fakeRoles) set(r role.Role) {
	f.mu.Lock()
	f.r = r
	f.mu.Unlock()
}

func newContext(r role.Role) (*Context, *fakeRoles, *local.MemStore) {
	roles := &fakeRoles{r: r}
	storage := local.NewMemStore()
	return New(roles, storage, nil, core.NopLogger()), roles, storage
}

func TestContext_Derivation(t *testing.T) {
	tests := []struct {
		name     string
		role     role.Role
		wantRole role.Role
	}{
		{name: "administrador", role: role.Admin, wantRole: role.Admin},
		{name: "profesor", role: role.Teacher, wantRole: role.Teacher},
		{name: "estudiante", role: role.Student, wantRole: role.Student},
		{name: "no session", role: "", wantRole: role.Admin},
		{name: "unknown role", role: "director", wantRole: role.Admin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav, _, _ := newContext(tt.role)
			want := role.ConfigFor(tt.wantRole)

			assert.Equal(t, tt.wantRole, nav.Role())
			assert.Equal(t, want.Menu, nav.Menu())
			assert.Equal(t, want.Theme, nav.Theme())
			assert.Equal(t, want.Layout, nav.Layout())

			// defaults: expanded, every section open
			assert.False(t, nav.Collapsed())
			assert.Equal(t, want.Menu.SectionNames(), nav.OpenSections())
			assert.Equal(t, want.Layout.SidebarWidth, nav.SidebarWidth())
		})
	}
}

func TestContext_NilRoleSource(t *testing.T) {
	nav := New(nil, local.NewMemStore(), nil, core.NopLogger())
	assert.Equal(t, role.Admin, nav.Role())
}

func TestContext_StudentTheme(t *testing.T) {
	nav, _, _ := newContext(role.Student)
	assert.Equal(t, "#4e73df", nav.Theme().Primary)
	_, ok := nav.Menu().Find("/estudiante/dashboard")
	assert.True(t, ok)
}

func TestContext_ToggleSidebar(t *testing.T) {
	nav, _, storage := newContext(role.Teacher)
	initial := nav.Collapsed()

	for i := 0; i < 2; i++ {
		got := nav.ToggleSidebar()
		assert.Equal(t, got, nav.Collapsed())

		raw, ok, err := storage.Get("sidebarCollapsed_profesor")
		require.NoError(t, err)
		require.True(t, ok)
		if got {
			assert.Equal(t, "true", raw)
		} else {
			assert.Equal(t, "false", raw)
		}
	}
	assert.Equal(t, initial, nav.Collapsed())
}

func TestContext_CollapsedWidth(t *testing.T) {
	nav, _, _ := newContext(role.Admin)
	nav.ToggleSidebar()
	assert.Equal(t, role.ConfigFor(role.Admin).Layout.SidebarCollapsedWidth, nav.SidebarWidth())
}

func TestContext_ToggleSection(t *testing.T) {
	nav, _, storage := newContext(role.Admin)

	assert.True(t, nav.IsOpen("Inventario"))
	assert.False(t, nav.ToggleSection("Inventario"))
	assert.False(t, nav.IsOpen("Inventario"))

	raw, _, _ := storage.Get("openSections_administrador")
	assert.Equal(t, `["Principal","Personas","Académico","Sistema"]`, raw)

	assert.True(t, nav.ToggleSection("Inventario"))
	raw, _, _ = storage.Get("openSections_administrador")
	assert.Equal(t, `["Principal","Personas","Inventario","Académico","Sistema"]`, raw)

	// unknown names are ignored and not persisted
	assert.False(t, nav.ToggleSection("Finanzas"))
	assert.False(t, nav.IsOpen("Finanzas"))
	raw, _, _ = storage.Get("openSections_administrador")
	assert.NotContains(t, raw, "Finanzas")
}

func TestContext_OpenSectionsRoundTrip(t *testing.T) {
	storage := local.NewMemStore()
	roles := &fakeRoles{r: role.Student}

	nav := New(roles, storage, nil, core.NopLogger())
	nav.ToggleSection("Música")
	nav.ToggleSidebar()
	want := nav.OpenSections()

	reloaded := New(roles, storage, nil, core.NopLogger())
	assert.Equal(t, want, reloaded.OpenSections())
	assert.True(t, reloaded.Collapsed())
}

func TestContext_PerRoleIsolation(t *testing.T) {
	nav, roles, _ := newContext(role.Teacher)
	nav.ToggleSidebar()
	nav.ToggleSection("Cuenta")
	assert.True(t, nav.Collapsed())

	// another login: the teacher's preferences must not leak
	roles.set(role.Student)
	assert.Equal(t, role.Student, nav.Role())
	assert.False(t, nav.Collapsed())
	assert.Equal(t, role.ConfigFor(role.Student).Menu.SectionNames(), nav.OpenSections())

	// and come back when the teacher logs in again
	roles.set(role.Teacher)
	assert.True(t, nav.Collapsed())
	assert.False(t, nav.IsOpen("Cuenta"))
}

func TestContext_MalformedState(t *testing.T) {
	tests := []struct {
		name      string
		collapsed string
		open      string
		wantOpen  []string
	}{
		{name: "garbage", collapsed: "yes please", open: "{not json", wantOpen: role.ConfigFor(role.Student).Menu.SectionNames()},
		{name: "wrong types", collapsed: `"true"`, open: `{"a":1}`, wantOpen: role.ConfigFor(role.Student).Menu.SectionNames()},
		{name: "stale names dropped", collapsed: "false", open: `["Música","Antiguo"]`, wantOpen: []string{"Música"}},
		{name: "all closed", collapsed: "false", open: `[]`, wantOpen: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := local.NewMemStore()
			require.NoError(t, storage.Set("sidebarCollapsed_estudiante", tt.collapsed))
			require.NoError(t, storage.Set("openSections_estudiante", tt.open))

			nav := New(&fakeRoles{r: role.Student}, storage, nil, core.NopLogger())
			assert.False(t, nav.Collapsed())
			assert.Equal(t, tt.wantOpen, nav.OpenSections())
		})
	}
}

func TestContext_WriteErrorsAreSwallowed(t *testing.T) {
	nav, _, storage := newContext(role.Teacher)
	storage.FailWrites("sidebarCollapsed_profesor", errors.New("quota exceeded"))

	assert.NotPanics(t, func() { nav.ToggleSidebar() })
	assert.True(t, nav.Collapsed(), "in-memory state still changes")
}

func TestContext_Reset(t *testing.T) {
	nav, _, storage := newContext(role.Teacher)
	assert.False(t, nav.Collapsed())

	// written behind the context's back, eg. by another process
	require.NoError(t, storage.Set("sidebarCollapsed_profesor", "true"))
	assert.False(t, nav.Collapsed())

	nav.Reset()
	assert.True(t, nav.Collapsed())
}
