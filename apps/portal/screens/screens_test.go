package screens

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/alert"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/events"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/records"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/session"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/services/api"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/storage/local"
	testutil "github.com/salonas/OrquestaDeCobquecuraWEB-sub001/tests"
)

// setup logs in as the administrator against a seeded sandbox.
func setup(t *testing.T) (*Registry, *alert.Service) {
	t.Helper()
	conf, _ := testutil.StartSandbox(t)

	client := api.NewClient(conf, core.NopLogger())
	store := session.NewStore(client, local.NewMemStore(), core.NopLogger())
	client.Authorize(store, store.Expire)
	_, err := store.Login(context.Background(), records.AdminEmail, records.DemoPassword, role.Admin)
	require.NoError(t, err)

	bus := events.NewBus()
	alerts := alert.New(bus)
	t.Cleanup(alerts.Close)

	reg := New(client, crud.Deps{
		Alerts:    alerts,
		Validator: testutil.NewValidator(),
		Logger:    core.NopLogger(),
		Bus:       bus,
	})
	return reg, alerts
}

func openScreen(t *testing.T, reg *Registry, name string) Screen {
	t.Helper()
	s, ok := reg.Get(name)
	require.True(t, ok, "screen %q", name)
	require.NoError(t, s.Open(context.Background()))
	t.Cleanup(s.Close)
	return s
}

func rowIDs(rows []Row) []int {
	ids := make([]int, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestRegistry_Names(t *testing.T) {
	reg := New(api.NewClient(&core.Config{}, core.NopLogger()), crud.Deps{})
	assert.Equal(t, []string{"asignaciones", "estudiantes", "evaluaciones", "instrumentos", "prestamos", "profesores", "tokens"}, reg.Names())

	_, ok := reg.Get("conciertos")
	assert.False(t, ok)
}

func TestScreen_rowsUseLookupLabels(t *testing.T) {
	reg, _ := setup(t)
	s := openScreen(t, reg, "prestamos")

	require.Nil(t, s.Err())
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, "ID", s.Columns()[0].Title)

	rows := s.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "Violín 4/4 (SN-V001)", "Camila Rojas", "Pedro Soto"}, rows[0].Cells[:4])
	assert.Equal(t, "activo", rows[0].Cells[len(rows[0].Cells)-1])

	s.SetFilters(crud.Filters{"estado": "devuelto"})
	assert.Equal(t, []int{2}, rowIDs(s.Rows()))
	assert.Equal(t, 2, s.Count())
}

func TestScreen_Actions(t *testing.T) {
	reg, _ := setup(t)
	s := openScreen(t, reg, "prestamos")

	assert.Equal(t, []Action{{Name: "devolver", Label: "Registrar devolución"}}, s.Actions(1))
	assert.Empty(t, s.Actions(2), "returned loans have no transitions")
	assert.Nil(t, s.Actions(42))
}

func TestScreen_Fields(t *testing.T) {
	reg, _ := setup(t)
	s, _ := reg.Get("tokens")

	names := func(fields []crud.Field) []string {
		out := make([]string, 0, len(fields))
		for _, f := range fields {
			out = append(out, f.Name)
		}
		return out
	}
	assert.Equal(t, []string{"token", "tipoUsuario", "usosMaximos", "expiracion"}, names(s.Fields(crud.Create)))
	assert.Equal(t, names(s.Fields(crud.Create)), names(s.Fields(crud.Edit)))
}

func TestScreen_deleteReturnedLoan(t *testing.T) {
	reg, alerts := setup(t)
	s := openScreen(t, reg, "prestamos")

	type result struct {
		deleted bool
		err     error
	}
	done := make(chan result, 1)
	go func() {
		deleted, err := s.Delete(context.Background(), 2)
		done <- result{deleted, err}
	}()

	require.Eventually(t, func() bool {
		_, open := alerts.Pending()
		return open
	}, time.Second, 5*time.Millisecond)
	req, _ := alerts.Pending()
	assert.Equal(t, "Eliminar Préstamo", req.Title)
	assert.True(t, req.Danger)
	assert.Equal(t, "Eliminar", req.ConfirmLabel)
	require.True(t, alerts.Resolve(true))

	var res result
	select {
	case res = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Delete() did not return")
	}
	assert.False(t, res.deleted)
	require.Error(t, res.err)
	assert.Equal(t, http.StatusConflict, api.StatusCode(res.err))

	toasts := alerts.Toasts()
	require.NotEmpty(t, toasts)
	last := toasts[len(toasts)-1]
	assert.Equal(t, alert.Error, last.Severity)
	assert.Equal(t, "Error al eliminar", last.Title)
	assert.Equal(t, "already returned", last.Body)

	// nothing was removed locally
	assert.Equal(t, []int{1, 2}, rowIDs(s.Rows()))
	assert.False(t, s.Busy())
}

func TestScreen_deleteCancelled(t *testing.T) {
	reg, alerts := setup(t)
	s := openScreen(t, reg, "estudiantes")

	done := make(chan bool, 1)
	go func() {
		deleted, _ := s.Delete(context.Background(), 2)
		done <- deleted
	}()
	require.Eventually(t, func() bool {
		_, open := alerts.Pending()
		return open
	}, time.Second, 5*time.Millisecond)
	alerts.Cancel()

	assert.False(t, <-done)
	assert.Equal(t, 3, s.Count())
	assert.Empty(t, alerts.Toasts())
}

func TestScreen_submitAndPatch(t *testing.T) {
	reg, alerts := setup(t)
	s := openScreen(t, reg, "instrumentos")

	s.OpenCreate()
	err := s.Submit(context.Background(), map[string]string{"nombre": "Contrabajo"})
	require.Error(t, err)
	form, ok := s.Form()
	require.True(t, ok, "the form stays open on validation errors")
	assert.NotEmpty(t, form.Errors)
	assert.Equal(t, 3, s.Count(), "no request is sent")

	require.NoError(t, s.Patch(context.Background(), 3, "disponibilidad", "disponible"))
	toasts := alerts.Toasts()
	require.NotEmpty(t, toasts)
	assert.Equal(t, alert.Success, toasts[len(toasts)-1].Severity)
}

func TestScreen_JSONSchema(t *testing.T) {
	reg, _ := setup(t)
	s, _ := reg.Get("prestamos")

	sch := s.JSONSchema()
	require.NotNil(t, sch)
	assert.Equal(t, "Préstamo", sch.Title)
	require.NotNil(t, sch.Properties)
	_, ok := sch.Properties.Get("fechaDevolucionEsperada")
	assert.True(t, ok)
	assert.Contains(t, sch.Required, "instrumentoId")
}
