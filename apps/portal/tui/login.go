package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
)

// login form focus positions
const (
	loginEmail = iota
	loginPassword
	loginRole
	loginFocusCount
)

type loginForm struct {
	email    textinput.Model
	password textinput.Model
	roleIdx  int
	focus    int
	busy     bool
	err      string
	notice   string
}

func newLoginForm() loginForm {
	email := textinput.New()
	email.Placeholder = "correo@orquesta.cl"
	email.Prompt = ""
	email.CharLimit = 120
	email.Width = 32
	email.Focus()

	pwd := textinput.New()
	pwd.Prompt = ""
	pwd.EchoMode = textinput.EchoPassword
	pwd.EchoCharacter = '•'
	pwd.CharLimit = 72
	pwd.Width = 32

	return loginForm{email: email, password: pwd}
}

func (f loginForm) Role() role.Role { return role.All[f.roleIdx] }

func (f *loginForm) setFocus(i int) tea.Cmd {
	f.focus = (i + loginFocusCount) % loginFocusCount
	f.email.Blur()
	f.password.Blur()
	switch f.focus {
	case loginEmail:
		return f.email.Focus()
	case loginPassword:
		return f.password.Focus()
	}
	return nil
}

// update handles a key; submit is true when the form must be sent.
func (f loginForm) update(msg tea.Msg) (loginForm, tea.Cmd, bool) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, keys.Tab), k.Type == tea.KeyDown:
			return f, f.setFocus(f.focus + 1), false
		case key.Matches(k, keys.ShiftTab), k.Type == tea.KeyUp:
			return f, f.setFocus(f.focus - 1), false
		case key.Matches(k, keys.Enter):
			if f.focus < loginRole {
				return f, f.setFocus(f.focus + 1), false
			}
			return f, nil, !f.busy
		}
		if f.focus == loginRole {
			switch k.Type {
			case tea.KeyLeft:
				f.roleIdx = (f.roleIdx + len(role.All) - 1) % len(role.All)
			case tea.KeyRight, tea.KeySpace:
				f.roleIdx = (f.roleIdx + 1) % len(role.All)
			}
			return f, nil, false
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case loginEmail:
		f.email, cmd = f.email.Update(msg)
	case loginPassword:
		f.password, cmd = f.password.Update(msg)
	}
	return f, cmd, false
}

func (f loginForm) view(st Styles) string {
	roles := make([]string, 0, len(role.All))
	for i, r := range role.All {
		name := r.Name()
		if i == f.roleIdx {
			roles = append(roles, st.Selected.Render(name))
			continue
		}
		roles = append(roles, st.Muted.Render(name))
	}
	roleLine := strings.Join(roles, " ")
	if f.focus == loginRole {
		roleLine = "‹ " + roleLine + " ›"
	}

	lines := []string{
		st.Title.Render("Orquesta de Cobquecura"),
		st.Subtitle.Render("Inicia sesión para continuar"),
		st.Label.Render("Email"),
		st.Input.Render(f.email.View()),
		st.Label.Render("Contraseña"),
		st.Input.Render(f.password.View()),
		st.Label.Render("Tipo de usuario"),
		roleLine,
		"",
	}
	switch {
	case f.busy:
		lines = append(lines, st.Muted.Render("Ingresando..."))
	case f.err != "":
		lines = append(lines, st.Error.Render(f.err))
	case f.notice != "":
		lines = append(lines, st.Warning.Render(f.notice))
	}
	return st.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
