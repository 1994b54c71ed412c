package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
)

type person struct{ id, name, email string }

func (p person) RollbarPerson() (string, string, string) { return p.id, p.name, p.email }

func newTestLogger(debug bool) (*RollbarLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "TEST", Build: "test", Debug: debug})
	l.Enable(false)
	return l, &buf
}

func TestRollbarLogger(t *testing.T) {
	l, buf := newTestLogger(false)

	l.Debug("hidden")
	assert.Empty(t, buf.String())

	l.Error("login failed", errors.New("boom"), person{id: "7", name: "Ana Díaz", email: "ana@orquesta.cl"})
	out := buf.String()
	assert.Contains(t, out, "ERROR login failed")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "user=Ana Díaz(7)")
	assert.NotContains(t, out, "ana@orquesta.cl")
}

func TestRollbarLogger_Debug(t *testing.T) {
	l, buf := newTestLogger(true)
	l.Debug("visible", map[string]interface{}{"key": "sidebarCollapsed_profesor"})
	assert.Contains(t, buf.String(), "DEBUG visible")
	assert.Contains(t, buf.String(), "sidebarCollapsed_profesor")
}
