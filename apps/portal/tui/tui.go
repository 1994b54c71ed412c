// Package tui is the interactive terminal portal: login, role-themed sidebar navigation,
// the administrator's entity screens and the teachers' and students' personal views.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/apps/portal/screens"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/alert"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/events"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/navigation"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/session"
)

// SelfService fetches the personal views of teachers and students.
type SelfService interface {
	Self(ctx context.Context, r role.Role, view string, out interface{}) error
}

// Deps are the client services the portal renders.
type Deps struct {
	Sessions *session.Store
	Nav      *navigation.Context
	Alerts   *alert.Service
	Bus      *events.Bus
	Screens  *screens.Registry
	Client   SelfService
	Logger   core.Logger
}

// Run starts the portal and blocks until the user quits or ctx ends.
func Run(ctx context.Context, deps Deps) error {
	final, err := tea.NewProgram(New(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if m, ok := final.(Model); ok {
		m.Close()
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "running portal")
	}
	return nil
}
