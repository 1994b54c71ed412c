package tui

import (
	"context"
	"path"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/alert"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/events"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/shell"
)

// ViewType represents the current view
type ViewType int

const (
	ViewLogin ViewType = iota
	ViewMain
)

type focusArea int

const (
	focusSidebar focusArea = iota
	focusContent
)

const (
	subscriberID = "tui"
	maxToasts    = 3
)

// sidebarEntry is a section header or a menu item.
type sidebarEntry struct {
	section string
	item    role.Item
	header  bool
}

// Model is the main TUI model
type Model struct {
	ctx     context.Context
	deps    Deps
	events  <-chan events.Event
	styles  Styles
	help    help.Model
	spinner spinner.Model

	width    int
	height   int
	ready    bool
	quitting bool

	view   ViewType
	focus  focusArea
	cursor int
	route  string

	login   loginForm
	entity  *entityView
	self    *selfView
	initCmd tea.Cmd
}

// New creates the portal model. A logged in user starts on the home of their role.
func New(ctx context.Context, deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = core.NopLogger()
	}
	s := spinner.New()
	s.Spinner = spinner.Dot

	m := Model{
		ctx:     ctx,
		deps:    deps,
		events:  deps.Bus.Subscribe(subscriberID),
		styles:  StylesFor(deps.Nav.Theme()),
		help:    help.New(),
		spinner: s,
		view:    ViewLogin,
		login:   newLoginForm(),
	}
	if _, ok := deps.Sessions.Current(); ok {
		m.view = ViewMain
		m, m.initCmd = m.navigate(deps.Sessions.DefaultRoute())
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), m.spinner.Tick, textinput.Blink, m.initCmd)
}

// Close releases the bus subscription and the open entity screen.
func (m Model) Close() {
	m.deps.Bus.Unsubscribe(subscriberID)
	if m.entity != nil {
		m.entity.screen.Close()
	}
}

// Route is the path currently shown.
func (m Model) Route() string { return m.route }

// CurrentView is the login form or the main layout.
func (m Model) CurrentView() ViewType { return m.view }

// navigate shows route. Administrator routes open entity screens, the other roles fetch
// their personal views.
func (m Model) navigate(route string) (Model, tea.Cmd) {
	if m.entity != nil {
		m.entity.screen.Close()
		m.entity = nil
	}
	m.self = nil
	m.route = route

	r := m.deps.Sessions.Role()
	if r == role.Admin {
		if route == role.DashboardPath(role.Admin) {
			return m, nil
		}
		name := strings.TrimPrefix(route, role.RoutePrefix(role.Admin)+"/")
		s, ok := m.deps.Screens.Get(name)
		if !ok {
			m.deps.Logger.Warn("tui: no screen for route " + route)
			return m, nil
		}
		m.entity = newEntityView(s)
		return m, openScreenCmd(m.ctx, s)
	}

	m.self = &selfView{view: path.Base(route), loading: true}
	return m, fetchSelfCmd(m.ctx, m.deps.Client, r, route, m.self.view)
}

func (m Model) toLogin(notice string) Model {
	if m.entity != nil {
		m.entity.screen.Close()
		m.entity = nil
	}
	m.self = nil
	m.route = ""
	m.view = ViewLogin
	m.focus = focusSidebar
	m.cursor = 0
	m.login = newLoginForm()
	m.login.notice = notice
	m.styles = StylesFor(m.deps.Nav.Theme())
	return m
}

// sidebar lists the visible entries. A collapsed sidebar only shows items.
func (m Model) sidebar() []sidebarEntry {
	nav := m.deps.Nav
	collapsed := nav.Collapsed()
	var entries []sidebarEntry
	for _, sec := range nav.Menu() {
		if !collapsed {
			entries = append(entries, sidebarEntry{section: sec.Name, header: true})
			if !nav.IsOpen(sec.Name) {
				continue
			}
		}
		for _, it := range sec.Items {
			entries = append(entries, sidebarEntry{section: sec.Name, item: it})
		}
	}
	return entries
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case EventMsg:
		cmd := waitForEvent(m.events)
		switch msg.Source {
		case events.Session:
			if _, ok := m.deps.Sessions.Current(); !ok && m.view == ViewMain {
				m = m.toLogin("Sesión cerrada")
			}
		case events.Navigation:
			if n := len(m.sidebar()); m.cursor >= n && n > 0 {
				m.cursor = n - 1
			}
		case events.Screen:
			if m.entity != nil {
				m.entity.refresh()
			}
		}
		return m, cmd

	case LoginDoneMsg:
		m.login.busy = false
		if msg.Err != nil {
			m.login.err = userMessage(msg.Err)
			return m, nil
		}
		m.login = newLoginForm()
		m.view = ViewMain
		m.focus = focusSidebar
		m.cursor = 0
		m.styles = StylesFor(m.deps.Nav.Theme())
		return m.navigate(m.deps.Sessions.DefaultRoute())

	case ScreenOpenedMsg:
		if m.entity != nil && m.entity.screen.Entity() == msg.Entity {
			m.entity.refresh()
		}
		return m, nil

	case OpDoneMsg:
		if m.entity != nil && m.entity.screen.Entity() == msg.Entity {
			m.entity.refresh()
		}
		return m, nil

	case SelfLoadedMsg:
		if m.self != nil && m.route == msg.Route {
			m.self.loading = false
			m.self.data = msg.Data
			m.self.err = msg.Err
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.view == ViewLogin {
		var cmd tea.Cmd
		m.login, cmd, _ = m.login.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	// the confirmation modal captures every key
	if _, pending := m.deps.Alerts.Pending(); pending {
		switch {
		case key.Matches(msg, keys.Yes):
			m.deps.Alerts.Resolve(true)
		case key.Matches(msg, keys.No):
			m.deps.Alerts.Cancel()
		}
		return m, nil
	}

	if m.view == ViewLogin {
		var cmd tea.Cmd
		var submit bool
		m.login, cmd, submit = m.login.update(msg)
		if !submit {
			return m, cmd
		}
		m.login.busy = true
		m.login.err, m.login.notice = "", ""
		email := strings.TrimSpace(m.login.email.Value())
		return m, loginCmd(m.ctx, m.deps.Sessions, email, m.login.password.Value(), m.login.Role())
	}

	if m.focus == focusContent && m.entity != nil && m.entity.typing() {
		return m, m.entity.update(m.ctx, msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.Logout):
		m.deps.Sessions.Logout()
		return m.toLogin("Sesión cerrada"), nil
	case key.Matches(msg, keys.ToggleSidebar):
		m.deps.Nav.ToggleSidebar()
		if n := len(m.sidebar()); m.cursor >= n {
			m.cursor = 0
		}
		return m, nil
	case key.Matches(msg, keys.Tab), key.Matches(msg, keys.ShiftTab):
		if m.focus == focusSidebar {
			m.focus = focusContent
		} else {
			m.focus = focusSidebar
		}
		return m, nil
	case key.Matches(msg, keys.Dismiss):
		if toasts := m.deps.Alerts.Toasts(); len(toasts) > 0 {
			m.deps.Alerts.Dismiss(toasts[len(toasts)-1].ID)
		}
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.updateSidebar(msg)
	}

	switch {
	case m.entity != nil:
		return m, m.entity.update(m.ctx, msg)
	case m.self != nil && key.Matches(msg, keys.Reload):
		return m.navigate(m.route)
	case key.Matches(msg, keys.Back):
		m.focus = focusSidebar
	}
	return m, nil
}

func (m Model) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.sidebar()
	if len(entries) == 0 {
		return m, nil
	}
	switch {
	case key.Matches(msg, keys.Up):
		m.cursor = (m.cursor + len(entries) - 1) % len(entries)
	case key.Matches(msg, keys.Down):
		m.cursor = (m.cursor + 1) % len(entries)
	case key.Matches(msg, keys.Enter):
		if m.cursor >= len(entries) {
			m.cursor = 0
		}
		e := entries[m.cursor]
		if e.header {
			m.deps.Nav.ToggleSection(e.section)
			return m, nil
		}
		var cmd tea.Cmd
		m, cmd = m.navigate(e.item.Path)
		m.focus = focusContent
		return m, cmd
	}
	return m, nil
}

// View renders the model
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Cargando..."
	}

	if req, pending := m.deps.Alerts.Pending(); pending {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.confirmView(req))
	}

	var body string
	if m.view == ViewLogin {
		body = lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, m.login.view(m.styles))
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), m.contentView())
	}

	parts := []string{body}
	if toasts := m.toastsView(); toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, m.styles.Help.Render(m.help.View(m.helpKeys())))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) sidebarView() string {
	nav := m.deps.Nav
	width := nav.SidebarWidth()
	collapsed := nav.Collapsed()

	lines := []string{m.styles.Section.Render(nav.Role().Name())}
	for i, e := range m.sidebar() {
		var text string
		switch {
		case e.header && nav.IsOpen(e.section):
			text = "▾ " + e.section
		case e.header:
			text = "▸ " + e.section
		case collapsed:
			text = e.item.Icon
		default:
			text = e.item.Icon + " " + e.item.Label
		}

		style := m.styles.Item
		switch {
		case i == m.cursor && m.focus == focusSidebar:
			style = m.styles.Selected
		case !e.header && e.item.Path == m.route:
			style = m.styles.Active
		case e.header:
			style = m.styles.Section
		}
		lines = append(lines, style.Render(text))
	}
	return m.styles.Sidebar.
		Width(width).
		Height(max(m.height-3, 0)).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) contentView() string {
	width := max(m.width-m.deps.Nav.SidebarWidth(), 0)
	style := m.styles.Content.Width(width)
	spin := m.spinner.View()

	switch {
	case m.entity != nil:
		return style.Render(m.entity.view(m.styles, spin))
	case m.self != nil:
		title := m.route
		if it, ok := m.deps.Nav.Menu().Find(m.route); ok {
			title = it.Label
		}
		return style.Render(m.self.render(m.styles, title, spin))
	}
	return style.Render(m.dashboardView())
}

func (m Model) dashboardView() string {
	lines := []string{m.styles.Title.Render("Panel de administración")}
	sh, ok := shell.Select(m.deps.Sessions)
	if !ok {
		return lines[0]
	}
	admin, ok := sh.(shell.Admin)
	if !ok {
		return lines[0]
	}
	lines = append(lines, m.styles.Subtitle.Render("Bienvenido, "+admin.User.Nombre))
	if m.deps.Nav.Layout().ShowQuickActions {
		lines = append(lines, m.styles.Label.Render("Accesos rápidos"))
		for _, it := range admin.QuickActions {
			lines = append(lines, m.styles.Item.Render(it.Icon+" "+it.Label+"  "+m.styles.Muted.Render(it.Description)))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) confirmView(req alert.ConfirmRequest) string {
	style := m.styles.Modal
	if req.Danger {
		style = m.styles.DangerModal
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Label.Render(req.Title),
		req.Body,
		"",
		m.styles.Muted.Render("[s] "+req.ConfirmLabel+"   [n] "+req.CancelLabel),
	))
}

func (m Model) toastsView() string {
	toasts := m.deps.Alerts.Toasts()
	if len(toasts) > maxToasts {
		toasts = toasts[len(toasts)-maxToasts:]
	}
	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		text := m.styles.Label.Render(t.Title)
		if t.Body != "" {
			text += "\n" + t.Body
		}
		rendered = append(rendered, m.styles.ToastStyle(t.Severity).Render(text))
	}
	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

// bindings adapts a key list to help.KeyMap.
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding  { return b }
func (b bindings) FullHelp() [][]key.Binding { return [][]key.Binding{b} }

func (m Model) helpKeys() help.KeyMap {
	switch {
	case m.view == ViewLogin:
		return bindings{keys.Tab, keys.Enter, keys.ForceQuit}
	case m.focus == focusSidebar:
		return bindings{keys.Up, keys.Down, keys.Enter, keys.Tab, keys.ToggleSidebar, keys.Logout, keys.Quit}
	case m.entity != nil && m.entity.typing():
		return bindings{keys.Tab, keys.Submit, keys.Back}
	case m.entity != nil:
		return bindings{keys.Create, keys.Edit, keys.Delete, keys.Actions, keys.Filter, keys.ClearFilters, keys.Reload, keys.Tab}
	}
	return bindings{keys.Reload, keys.Tab, keys.Dismiss, keys.Quit}
}
