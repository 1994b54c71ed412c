// Package screens binds the entity schemas to the REST client, and erases their record
// types so that the CLI and the terminal portal can drive every entity the same way.
package screens

import (
	"context"
	"sort"
	"strconv"

	"github.com/invopop/jsonschema"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/assignment"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/evaluation"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/instrument"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/loan"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/regtoken"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/student"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/teacher"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/services/api"
)

// Column is a table header.
type Column struct {
	Title string
	Width int
}

// Row is a rendered record.
type Row struct {
	ID    int
	Cells []string
}

// Action is a state transition available on a record.
type Action struct {
	Name  string
	Label string
	Args  []string
}

// Screen is an entity screen.
type Screen interface {
	Entity() string
	Title() string
	Singular() string

	Open(ctx context.Context) error
	Close()
	Reload() error
	Loading() bool
	Err() error
	Busy() bool

	Columns() []Column
	Rows() []Row
	Count() int
	FilterFields() []crud.Field
	Filters() crud.Filters
	SetFilters(f crud.Filters)

	Fields(mode crud.FormMode) []crud.Field
	Form() (crud.FormState, bool)
	OpenCreate()
	OpenEdit(id int) error
	CancelForm()
	Submit(ctx context.Context, values map[string]string) error
	Choices(lookup string, keep ...int) []crud.Option

	Delete(ctx context.Context, id int) (bool, error)
	Actions(id int) []Action
	Patch(ctx context.Context, id int, action, arg string) error

	// JSONSchema describes the create/update payload.
	JSONSchema() *jsonschema.Schema
}

type screen[T any] struct {
	*crud.Screen[T]
	form interface{} // zero value of the payload type
}

var _ Screen = (*screen[student.Student])(nil)

func newScreen[T any](schema crud.Schema[T], form interface{}, deps crud.Deps) *screen[T] {
	return &screen[T]{Screen: crud.NewScreen(schema, deps), form: form}
}

func (s *screen[T]) Entity() string   { return s.Schema().Entity }
func (s *screen[T]) Title() string    { return s.Schema().Title }
func (s *screen[T]) Singular() string { return s.Schema().Singular }

func (s *screen[T]) Columns() []Column {
	cols := s.Schema().Columns
	out := make([]Column, 0, len(cols)+1)
	out = append(out, Column{Title: "ID", Width: 4})
	for _, c := range cols {
		out = append(out, Column{Title: c.Title, Width: c.Width})
	}
	return out
}

func (s *screen[T]) Rows() []Row {
	schema := s.Schema()
	recs := s.Visible()
	rows := make([]Row, 0, len(recs))
	for _, rec := range recs {
		id := schema.ID(rec)
		cells := make([]string, 0, len(schema.Columns)+1)
		cells = append(cells, strconv.Itoa(id))
		for _, c := range schema.Columns {
			cells = append(cells, c.Value(rec, s.Screen))
		}
		rows = append(rows, Row{ID: id, Cells: cells})
	}
	return rows
}

func (s *screen[T]) Count() int { return len(s.Records()) }

func (s *screen[T]) FilterFields() []crud.Field { return s.Schema().Filters }

// Fields returns the form inputs of mode; edit-only ones are left out of create forms.
func (s *screen[T]) Fields(mode crud.FormMode) []crud.Field {
	all := s.Schema().Fields
	out := make([]crud.Field, 0, len(all))
	for _, f := range all {
		if f.EditOnly && mode == crud.Create {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (s *screen[T]) Actions(id int) []Action {
	rec, ok := s.Find(id)
	if !ok {
		return nil
	}
	var out []Action
	for _, a := range s.Schema().Actions {
		if a.Allowed != nil && !a.Allowed(rec) {
			continue
		}
		out = append(out, Action{Name: a.Name, Label: a.Label, Args: a.Args})
	}
	return out
}

func (s *screen[T]) JSONSchema() *jsonschema.Schema {
	r := jsonschema.Reflector{ExpandedStruct: true, DoNotReference: true}
	sch := r.Reflect(s.form)
	sch.Title = s.Singular()
	return sch
}

// Registry holds one screen per entity.
type Registry struct {
	screens map[string]Screen
}

// New builds the screens of every managed entity on top of client.
func New(client *api.Client, deps crud.Deps) *Registry {
	students := api.NewResource[student.Student](client, student.Collection)
	teachers := api.NewResource[teacher.Teacher](client, teacher.Collection)
	instruments := api.NewResource[instrument.Instrument](client, instrument.Collection)
	loans := api.NewResource[loan.Loan](client, loan.Collection)
	evaluations := api.NewResource[evaluation.Evaluation](client, evaluation.Collection)
	assignments := api.NewResource[assignment.Assignment](client, assignment.Collection)
	tokens := api.NewResource[regtoken.Token](client, regtoken.Collection)

	studentLookup := crud.LookupOf(student.Collection, students.List, student.Option)
	teacherLookup := crud.LookupOf(teacher.Collection, teachers.List, teacher.Option)
	instrumentLookup := crud.LookupOf(instrument.Collection, instruments.List, instrument.Option)

	all := []Screen{
		newScreen(student.Schema(students), student.Form{}, deps),
		newScreen(teacher.Schema(teachers), teacher.Form{}, deps),
		newScreen(instrument.Schema(instruments), instrument.Form{}, deps),
		newScreen(loan.Schema(loans, instrumentLookup, studentLookup, teacherLookup), loan.Form{}, deps),
		newScreen(evaluation.Schema(evaluations, studentLookup, teacherLookup), evaluation.Form{}, deps),
		newScreen(assignment.Schema(assignments, teacherLookup, studentLookup), assignment.Form{}, deps),
		newScreen(regtoken.Schema(tokens), regtoken.Form{}, deps),
	}
	reg := &Registry{screens: make(map[string]Screen, len(all))}
	for _, s := range all {
		reg.screens[s.Entity()] = s
	}
	return reg
}

// Get returns the screen of entity name (eg. "prestamos").
func (r *Registry) Get(name string) (Screen, bool) {
	s, ok := r.screens[name]
	return s, ok
}

// Names lists the entity names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.screens))
	for n := range r.screens {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
