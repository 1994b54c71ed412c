package tui

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/apps/portal/screens"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
)

type entityMode int

// entity screen modes
const (
	modeTable entityMode = iota
	modeForm
	modeFilter
	modeActions
)

const (
	tableHeight = 12
	maxChoices  = 6
)

type fieldInput struct {
	field crud.Field
	input textinput.Model
}

type actionChoice struct {
	name  string
	label string
	arg   string
}

// entityView is the state of an administrator entity screen.
type entityView struct {
	screen  screens.Screen
	table   table.Model
	mode    entityMode
	inputs  []fieldInput
	focus   int
	actions []actionChoice
	cursor  int
	target  int // record the action menu applies to
}

func newEntityView(s screens.Screen) *entityView {
	cols := s.Columns()
	tcols := make([]table.Column, 0, len(cols))
	for _, c := range cols {
		tcols = append(tcols, table.Column{Title: c.Title, Width: c.Width})
	}
	return &entityView{
		screen: s,
		table: table.New(
			table.WithColumns(tcols),
			table.WithFocused(true),
			table.WithHeight(tableHeight),
		),
	}
}

// refresh copies the visible records into the table and leaves closed forms.
func (v *entityView) refresh() {
	rows := v.screen.Rows()
	trows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		trows = append(trows, table.Row(r.Cells))
	}
	v.table.SetRows(trows)
	if v.table.Cursor() >= len(trows) && len(trows) > 0 {
		v.table.SetCursor(len(trows) - 1)
	}
	if _, open := v.screen.Form(); v.mode == modeForm && !open {
		v.mode = modeTable
		v.inputs = nil
	}
}

func (v *entityView) selectedID() (int, bool) {
	row := v.table.SelectedRow()
	if len(row) == 0 {
		return 0, false
	}
	id, err := strconv.Atoi(row[0])
	return id, err == nil
}

func (v *entityView) typing() bool {
	return v.mode == modeForm || v.mode == modeFilter
}

func (v *entityView) buildInputs(fields []crud.Field, values map[string]string) tea.Cmd {
	v.inputs = make([]fieldInput, 0, len(fields))
	for _, f := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.Width = 40
		in.SetValue(values[f.Name])
		switch f.Kind {
		case crud.Password:
			in.EchoMode = textinput.EchoPassword
		case crud.Date:
			in.Placeholder = "AAAA-MM-DD"
		case crud.Bool:
			in.Placeholder = "true / false"
		case crud.Choice:
			in.Placeholder = strings.Join(f.Choices, " | ")
		case crud.Ref:
			in.Placeholder = "id"
		}
		v.inputs = append(v.inputs, fieldInput{field: f, input: in})
	}
	v.focus = 0
	return v.focusInput(0)
}

func (v *entityView) focusInput(i int) tea.Cmd {
	if len(v.inputs) == 0 {
		return nil
	}
	v.focus = (i + len(v.inputs)) % len(v.inputs)
	for j := range v.inputs {
		v.inputs[j].input.Blur()
	}
	return v.inputs[v.focus].input.Focus()
}

func (v *entityView) values() map[string]string {
	values := make(map[string]string, len(v.inputs))
	for _, in := range v.inputs {
		values[in.field.Name] = strings.TrimSpace(in.input.Value())
	}
	return values
}

func (v *entityView) openForm(mode crud.FormMode) tea.Cmd {
	if mode == crud.Create {
		v.screen.OpenCreate()
	} else {
		id, ok := v.selectedID()
		if !ok || v.screen.OpenEdit(id) != nil {
			return nil
		}
	}
	form, _ := v.screen.Form()
	v.mode = modeForm
	return v.buildInputs(v.screen.Fields(mode), form.Values)
}

func (v *entityView) openFilters() tea.Cmd {
	v.mode = modeFilter
	return v.buildInputs(v.screen.FilterFields(), v.screen.Filters())
}

func (v *entityView) openActions() {
	id, ok := v.selectedID()
	if !ok {
		return
	}
	v.actions = nil
	for _, a := range v.screen.Actions(id) {
		if len(a.Args) == 0 {
			v.actions = append(v.actions, actionChoice{name: a.Name, label: a.Label})
			continue
		}
		for _, arg := range a.Args {
			v.actions = append(v.actions, actionChoice{name: a.Name, label: a.Label + ": " + arg, arg: arg})
		}
	}
	if len(v.actions) == 0 {
		return
	}
	v.mode = modeActions
	v.cursor = 0
	v.target = id
}

func (v *entityView) close() {
	if v.mode == modeForm {
		v.screen.CancelForm()
	}
	v.mode = modeTable
	v.inputs = nil
	v.actions = nil
}

// update handles a key pressed in the content area.
func (v *entityView) update(ctx context.Context, msg tea.KeyMsg) tea.Cmd {
	switch v.mode {
	case modeForm, modeFilter:
		return v.updateInputs(ctx, msg)
	case modeActions:
		return v.updateActions(ctx, msg)
	}

	s := v.screen
	switch {
	case key.Matches(msg, keys.Create):
		return v.openForm(crud.Create)
	case key.Matches(msg, keys.Edit):
		return v.openForm(crud.Edit)
	case key.Matches(msg, keys.Filter):
		return v.openFilters()
	case key.Matches(msg, keys.ClearFilters):
		s.SetFilters(crud.Filters{})
		v.refresh()
		return nil
	case key.Matches(msg, keys.Actions):
		v.openActions()
		return nil
	case key.Matches(msg, keys.Reload):
		return opCmd(ctx, s, func(context.Context) error { return s.Reload() })
	case key.Matches(msg, keys.Delete):
		id, ok := v.selectedID()
		if !ok || s.Busy() {
			return nil
		}
		return opCmd(ctx, s, func(ctx context.Context) error {
			_, err := s.Delete(ctx, id)
			return err
		})
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return cmd
}

func (v *entityView) updateInputs(ctx context.Context, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Back):
		v.close()
		return nil
	case key.Matches(msg, keys.Tab), msg.Type == tea.KeyDown:
		return v.focusInput(v.focus + 1)
	case key.Matches(msg, keys.ShiftTab), msg.Type == tea.KeyUp:
		return v.focusInput(v.focus - 1)
	case key.Matches(msg, keys.Submit),
		key.Matches(msg, keys.Enter) && v.focus == len(v.inputs)-1:
		return v.submit(ctx)
	case key.Matches(msg, keys.Enter):
		return v.focusInput(v.focus + 1)
	}
	if len(v.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	v.inputs[v.focus].input, cmd = v.inputs[v.focus].input.Update(msg)
	return cmd
}

func (v *entityView) submit(ctx context.Context) tea.Cmd {
	values := v.values()
	if v.mode == modeFilter {
		v.screen.SetFilters(crud.Filters(values))
		v.mode = modeTable
		v.inputs = nil
		v.refresh()
		return nil
	}
	s := v.screen
	if s.Busy() {
		return nil
	}
	return opCmd(ctx, s, func(ctx context.Context) error { return s.Submit(ctx, values) })
}

func (v *entityView) updateActions(ctx context.Context, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Back):
		v.close()
	case key.Matches(msg, keys.Up):
		v.cursor = (v.cursor + len(v.actions) - 1) % len(v.actions)
	case key.Matches(msg, keys.Down):
		v.cursor = (v.cursor + 1) % len(v.actions)
	case key.Matches(msg, keys.Enter):
		a, id, s := v.actions[v.cursor], v.target, v.screen
		v.close()
		return opCmd(ctx, s, func(ctx context.Context) error { return s.Patch(ctx, id, a.name, a.arg) })
	}
	return nil
}

func (v *entityView) view(st Styles, spin string) string {
	s := v.screen
	title := s.Title()
	if s.Loading() || s.Busy() {
		title += " " + spin
	}
	lines := []string{st.Title.Render(title)}

	if err := s.Err(); err != nil {
		lines = append(lines, st.Error.Render(userMessage(err)))
	}

	switch v.mode {
	case modeForm:
		lines = append(lines, v.formView(st))
	case modeFilter:
		lines = append(lines, st.Subtitle.Render("Filtros"), v.inputsView(st, nil))
	default:
		lines = append(lines, v.table.View())
		filters := s.Filters()
		summary := strconv.Itoa(len(v.table.Rows())) + " de " + strconv.Itoa(s.Count()) + " registros"
		if len(filters) > 0 {
			parts := make([]string, 0, len(filters))
			for k, val := range filters {
				parts = append(parts, k+"="+val)
			}
			sort.Strings(parts)
			summary += " · filtros: " + strings.Join(parts, ", ")
		}
		lines = append(lines, st.Muted.Render(summary))
		if v.mode == modeActions {
			lines = append(lines, v.actionsView(st))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *entityView) formView(st Styles) string {
	form, _ := v.screen.Form()
	heading := "Nuevo " + strings.ToLower(v.screen.Singular())
	if form.Mode == crud.Edit {
		heading = "Editar " + strings.ToLower(v.screen.Singular()) + " #" + strconv.Itoa(form.ID)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		st.Subtitle.Render(heading),
		v.inputsView(st, form.Errors),
		st.Muted.Render("ctrl+s guardar · esc cancelar"),
	)
}

func (v *entityView) inputsView(st Styles, errs map[string]string) string {
	lines := make([]string, 0, len(v.inputs)*3)
	for i, in := range v.inputs {
		label := in.field.Label
		if in.field.Required {
			label += " *"
		}
		if i == v.focus {
			lines = append(lines, st.Active.Render(label))
		} else {
			lines = append(lines, st.Label.Render(label))
		}
		lines = append(lines, st.Input.Render(in.input.View()))
		if in.field.Kind == crud.Ref && i == v.focus {
			lines = append(lines, st.Muted.Render(v.choicesHint(in)))
		}
		if msg := errs[in.field.Name]; msg != "" {
			lines = append(lines, st.Error.Render(msg))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// choicesHint lists the eligible options of a reference field, keeping the current one.
func (v *entityView) choicesHint(in fieldInput) string {
	var keep []int
	if id, err := strconv.Atoi(in.input.Value()); err == nil {
		keep = append(keep, id)
	}
	opts := v.screen.Choices(in.field.Lookup, keep...)
	parts := make([]string, 0, maxChoices+1)
	for i, o := range opts {
		if i == maxChoices {
			parts = append(parts, "…")
			break
		}
		parts = append(parts, strconv.Itoa(o.ID)+"="+o.Label)
	}
	if len(parts) == 0 {
		return "sin opciones disponibles"
	}
	return strings.Join(parts, " · ")
}

func (v *entityView) actionsView(st Styles) string {
	lines := []string{st.Subtitle.Render("Acciones para #" + strconv.Itoa(v.target))}
	for i, a := range v.actions {
		if i == v.cursor {
			lines = append(lines, st.Selected.Render(a.label))
			continue
		}
		lines = append(lines, st.Item.Render(a.label))
	}
	return st.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
