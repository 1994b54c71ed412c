// Package crud implements the generic entity management screen: parallel load of a collection
// and its cross-referenced lookups, client-side filters, create/edit forms and confirmed deletes.
package crud

import (
	"context"
	"strconv"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
)

// Collection is a remote entity collection.
type Collection[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, form interface{}) error
	Update(ctx context.Context, id int, form interface{}) error
	Delete(ctx context.Context, id int) error
	Patch(ctx context.Context, id int, action string, body interface{}) error
}

// Filters holds optional filter values by field name. Empty values match everything.
type Filters map[string]string

func (f Filters) Get(name string) string {
	return core.CleanString(f[name])
}

func (f Filters) clone() Filters {
	cp := make(Filters, len(f))
	for k, v := range f {
		if v = core.CleanString(v); v != "" {
			cp[k] = v
		}
	}
	return cp
}

// Contains reports whether the filter `name` is empty or is a case-insensitive substring of any of values.
func (f Filters) Contains(name string, values ...string) bool {
	q := f.Get(name)
	if q == "" {
		return true
	}
	for _, v := range values {
		if core.ContainsFold(v, q) {
			return true
		}
	}
	return false
}

// Equals reports whether the filter `name` is empty or equal to value (ignoring case).
func (f Filters) Equals(name, value string) bool {
	q := f.Get(name)
	return q == "" || core.CleanString(value, true) == core.CleanString(q, true)
}

// EqualsID reports whether the filter `name` is empty or equal to id.
func (f Filters) EqualsID(name string, id int) bool {
	q := f.Get(name)
	return q == "" || q == strconv.Itoa(id)
}

// Option is a selectable counterpart record of a form dropdown.
type Option struct {
	ID       int
	Label    string
	Eligible bool // eg. active student, available instrument
}

// Lookup is a cross-referenced collection loaded with the screen.
type Lookup struct {
	Name string
	Load func(ctx context.Context) ([]Option, error)
}

// LookupOf builds a Lookup from a typed collection.
func LookupOf[T any](name string, list func(ctx context.Context) ([]T, error), option func(T) Option) Lookup {
	return Lookup{
		Name: name,
		Load: func(ctx context.Context) ([]Option, error) {
			recs, err := list(ctx)
			if err != nil {
				return nil, err
			}
			opts := make([]Option, 0, len(recs))
			for _, rec := range recs {
				opts = append(opts, option(rec))
			}
			return opts, nil
		},
	}
}

type FieldKind string

// Field kinds
const (
	Text     FieldKind = "text"
	TextArea FieldKind = "textarea"
	Email    FieldKind = "email"
	Password FieldKind = "password"
	Number   FieldKind = "number"
	Decimal  FieldKind = "decimal"
	Date     FieldKind = "date"
	Bool     FieldKind = "bool"
	Choice   FieldKind = "choice" // one of Choices
	Ref      FieldKind = "ref"    // id of a Lookup option
)

// Field describes a form input. Name is the JSON name of the form field.
type Field struct {
	Name     string
	Label    string
	Kind     FieldKind
	Required bool
	Choices  []string
	Lookup   string
	Default  string
	EditOnly bool // hidden on create
}

// Column is a table column.
type Column[T any] struct {
	Title string
	Width int
	Value func(rec T, labels Labeler) string
}

// Labeler resolves lookup ids to labels.
type Labeler interface {
	Label(lookup string, id int) string
}

// Action is a state-only transition: PATCH /{id}/{Name}.
type Action[T any] struct {
	Name  string
	Label string
	// Body builds the request body; nil sends none.
	Body func(rec T, arg string) interface{}
	// Args lists the accepted values of arg (eg. target states); empty when none.
	Args []string
	// Allowed reports whether the action applies to rec; nil means always.
	Allowed func(rec T) bool
}

// Schema binds an entity to the generic screen.
type Schema[T any] struct {
	Entity     string // collection name, eg. "prestamos"
	Title      string
	Singular   string
	Collection Collection[T]
	ID         func(T) int
	Describe   func(T) string // short human label, eg. a student's full name
	Match      func(rec T, f Filters) bool
	Filters    []Field
	Columns    []Column[T]
	Fields     []Field
	Lookups    []Lookup
	// NewForm converts raw input values into the typed create/update payload.
	NewForm func(values map[string]string) (interface{}, error)
	// Values returns the input values of rec, to prefill the edit form.
	Values  func(rec T) map[string]string
	Actions []Action[T]
}

// Action returns the action named name.
func (s Schema[T]) Action(name string) (Action[T], bool) {
	for _, a := range s.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return Action[T]{}, false
}

// Filter applies f to recs. Filtering is client-side and idempotent.
func Filter[T any](recs []T, f Filters, match func(T, Filters) bool) []T {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		if match(rec, f) {
			out = append(out, rec)
		}
	}
	return out
}
