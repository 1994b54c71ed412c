// Package teacher holds the teacher records managed by the administration.
package teacher

import (
	"strings"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
)

const Collection = "profesores"

type Status string

// Statuses
const (
	Active   Status = "activo"
	Inactive Status = "inactivo"
)

var Statuses = []string{string(Active), string(Inactive)}

type Teacher struct {
	ID               int    `json:"id" db:"id"`
	Rut              string `json:"rut" db:"rut"`
	Nombres          string `json:"nombres" db:"nombres"`
	Apellidos        string `json:"apellidos" db:"apellidos"`
	Email            string `json:"email" db:"email"`
	Telefono         string `json:"telefono,omitempty" db:"telefono"`
	Especialidad     string `json:"especialidad" db:"especialidad"`
	AniosExperiencia int    `json:"aniosExperiencia" db:"anios_experiencia"`
	Estado           Status `json:"estado" db:"estado"`
}

func (t Teacher) FullName() string {
	return strings.TrimSpace(t.Nombres + " " + t.Apellidos)
}

func (t Teacher) Active() bool { return t.Estado == Active }

type Form struct {
	Rut              string `json:"rut" validate:"required,rut"`
	Nombres          string `json:"nombres" validate:"required,notblank"`
	Apellidos        string `json:"apellidos" validate:"required,notblank"`
	Email            string `json:"email" validate:"required,email" jsonschema:"format=email"`
	Telefono         string `json:"telefono,omitempty" validate:"omitempty,min=8"`
	Especialidad     string `json:"especialidad" validate:"required,notblank"`
	AniosExperiencia int    `json:"aniosExperiencia" validate:"gte=0" jsonschema:"minimum=0"`
	Estado           Status `json:"estado,omitempty" validate:"omitempty,oneof=activo inactivo" jsonschema:"enum=activo,enum=inactivo"`
}

func (f Form) Teacher(id int) Teacher {
	estado := f.Estado
	if estado == "" {
		estado = Active
	}
	return Teacher{
		ID:               id,
		Rut:              core.FormatRUT(f.Rut),
		Nombres:          f.Nombres,
		Apellidos:        f.Apellidos,
		Email:            f.Email,
		Telefono:         f.Telefono,
		Especialidad:     f.Especialidad,
		AniosExperiencia: f.AniosExperiencia,
		Estado:           estado,
	}
}

// StatusForm is the body of PATCH /estado.
type StatusForm struct {
	Estado Status `json:"estado" validate:"required,oneof=activo inactivo"`
}

func NewForm(values map[string]string) (interface{}, error) {
	p := crud.NewParser(values)
	f := Form{
		Rut:              p.String("rut"),
		Nombres:          p.String("nombres"),
		Apellidos:        p.String("apellidos"),
		Email:            p.Lower("email"),
		Telefono:         p.String("telefono"),
		Especialidad:     p.String("especialidad"),
		AniosExperiencia: p.Int("aniosExperiencia"),
		Estado:           Status(p.Lower("estado")),
	}
	return f, p.Err()
}

func Values(t Teacher) map[string]string {
	return map[string]string{
		"rut":              t.Rut,
		"nombres":          t.Nombres,
		"apellidos":        t.Apellidos,
		"email":            t.Email,
		"telefono":         t.Telefono,
		"especialidad":     t.Especialidad,
		"aniosExperiencia": crud.FormatInt(&t.AniosExperiencia),
		"estado":           string(t.Estado),
	}
}

// Match filters: q (name, RUT or email), especialidad, estado.
func Match(t Teacher, f crud.Filters) bool {
	return f.Contains("q", t.FullName(), t.Rut, t.Email) &&
		f.Contains("especialidad", t.Especialidad) &&
		f.Equals("estado", string(t.Estado))
}

// Option is the teacher as a dropdown entry; only active teachers are eligible.
func Option(t Teacher) crud.Option {
	return crud.Option{ID: t.ID, Label: t.FullName(), Eligible: t.Active()}
}

func Schema(coll crud.Collection[Teacher]) crud.Schema[Teacher] {
	return crud.Schema[Teacher]{
		Entity:     Collection,
		Title:      "Profesores",
		Singular:   "Profesor",
		Collection: coll,
		ID:         func(t Teacher) int { return t.ID },
		Describe:   Teacher.FullName,
		Match:      Match,
		Filters: []crud.Field{
			{Name: "q", Label: "Buscar", Kind: crud.Text},
			{Name: "especialidad", Label: "Especialidad", Kind: crud.Text},
			{Name: "estado", Label: "Estado", Kind: crud.Choice, Choices: Statuses},
		},
		Columns: []crud.Column[Teacher]{
			{Title: "RUT", Width: 12, Value: func(t Teacher, _ crud.Labeler) string { return t.Rut }},
			{Title: "Nombre", Width: 24, Value: func(t Teacher, _ crud.Labeler) string { return t.FullName() }},
			{Title: "Especialidad", Width: 16, Value: func(t Teacher, _ crud.Labeler) string { return t.Especialidad }},
			{Title: "Años", Width: 5, Value: func(t Teacher, _ crud.Labeler) string { return crud.FormatInt(&t.AniosExperiencia) }},
			{Title: "Estado", Width: 10, Value: func(t Teacher, _ crud.Labeler) string { return string(t.Estado) }},
		},
		Fields: []crud.Field{
			{Name: "rut", Label: "RUT", Kind: crud.Text, Required: true},
			{Name: "nombres", Label: "Nombres", Kind: crud.Text, Required: true},
			{Name: "apellidos", Label: "Apellidos", Kind: crud.Text, Required: true},
			{Name: "email", Label: "Email", Kind: crud.Email, Required: true},
			{Name: "telefono", Label: "Teléfono", Kind: crud.Text},
			{Name: "especialidad", Label: "Especialidad", Kind: crud.Text, Required: true},
			{Name: "aniosExperiencia", Label: "Años de experiencia", Kind: crud.Number, Default: "0"},
			{Name: "estado", Label: "Estado", Kind: crud.Choice, Choices: Statuses, EditOnly: true},
		},
		NewForm: NewForm,
		Values:  Values,
		Actions: []crud.Action[Teacher]{
			{
				Name:  "estado",
				Label: "Cambiar estado",
				Args:  Statuses,
				Body:  func(_ Teacher, arg string) interface{} { return StatusForm{Estado: Status(arg)} },
			},
		},
	}
}
