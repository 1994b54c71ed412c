package tui

import (
	"context"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/apps/portal/screens"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/events"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/session"
)

// EventMsg is a change published by one of the portal's services.
type EventMsg events.Event

// LoginDoneMsg is the outcome of a login attempt.
type LoginDoneMsg struct {
	User session.User
	Err  error
}

// ScreenOpenedMsg is sent once an entity screen finished its first load.
type ScreenOpenedMsg struct {
	Entity string
	Err    error
}

// OpDoneMsg is the outcome of a create, update, delete or state change.
type OpDoneMsg struct {
	Entity string
	Err    error
}

// SelfLoadedMsg carries a personal view.
type SelfLoadedMsg struct {
	Route string
	Data  interface{}
	Err   error
}

// waitForEvent blocks until the next bus event. A closed subscription ends the loop.
func waitForEvent(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return EventMsg(ev)
	}
}

func loginCmd(ctx context.Context, sessions *session.Store, email, password string, r role.Role) tea.Cmd {
	return func() tea.Msg {
		usr, err := sessions.Login(ctx, email, password, r)
		return LoginDoneMsg{User: usr, Err: err}
	}
}

func openScreenCmd(ctx context.Context, s screens.Screen) tea.Cmd {
	return func() tea.Msg {
		return ScreenOpenedMsg{Entity: s.Entity(), Err: s.Open(ctx)}
	}
}

// opCmd runs a mutation of s. Deletions block on the confirmation modal, which is answered
// from Update while this runs.
func opCmd(ctx context.Context, s screens.Screen, op func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return OpDoneMsg{Entity: s.Entity(), Err: op(ctx)}
	}
}

func fetchSelfCmd(ctx context.Context, client SelfService, r role.Role, route, view string) tea.Cmd {
	return func() tea.Msg {
		var data interface{}
		err := client.Self(ctx, r, view, &data)
		return SelfLoadedMsg{Route: route, Data: data, Err: err}
	}
}

// userMessage is the text shown for err; field errors are listed by field name.
func userMessage(err error) string {
	if err == nil {
		return ""
	}
	if fields, ok := core.FieldErrors(err); ok && len(fields) > 0 {
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		msgs := make([]string, 0, len(names))
		for _, name := range names {
			msgs = append(msgs, name+": "+fields[name])
		}
		return strings.Join(msgs, "; ")
	}
	return crud.Message(err)
}
