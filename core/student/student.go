// Package student holds the student records managed by the administration.
package student

import (
	"strconv"
	"strings"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
)

const Collection = "estudiantes"

type Status string

// Statuses
const (
	Active    Status = "activo"
	Inactive  Status = "inactivo"
	Suspended Status = "suspendido"
)

var (
	Statuses = []string{string(Active), string(Inactive), string(Suspended)}
	Levels   = []string{"principiante", "intermedio", "avanzado"}
)

type Student struct {
	ID              int    `json:"id" db:"id"`
	Rut             string `json:"rut" db:"rut"`
	Nombres         string `json:"nombres" db:"nombres"`
	Apellidos       string `json:"apellidos" db:"apellidos"`
	Email           string `json:"email" db:"email"`
	Telefono        string `json:"telefono,omitempty" db:"telefono"`
	FechaNacimiento string `json:"fechaNacimiento,omitempty" db:"fecha_nacimiento"`
	Instrumento     string `json:"instrumento" db:"instrumento"`
	Nivel           string `json:"nivel" db:"nivel"`
	AnioIngreso     int    `json:"anioIngreso,omitempty" db:"anio_ingreso"`
	Estado          Status `json:"estado" db:"estado"`
}

func (s Student) FullName() string {
	return strings.TrimSpace(s.Nombres + " " + s.Apellidos)
}

func (s Student) Active() bool { return s.Estado == Active }

// Form is the create/update payload.
type Form struct {
	Rut             string `json:"rut" validate:"required,rut" jsonschema:"title=RUT,example=12.345.678-5"`
	Nombres         string `json:"nombres" validate:"required,notblank"`
	Apellidos       string `json:"apellidos" validate:"required,notblank"`
	Email           string `json:"email" validate:"required,email" jsonschema:"format=email"`
	Telefono        string `json:"telefono,omitempty" validate:"omitempty,min=8"`
	FechaNacimiento string `json:"fechaNacimiento,omitempty" validate:"omitempty,datetime=2006-01-02" jsonschema:"format=date"`
	Instrumento     string `json:"instrumento" validate:"required,notblank"`
	Nivel           string `json:"nivel" validate:"required,oneof=principiante intermedio avanzado" jsonschema:"enum=principiante,enum=intermedio,enum=avanzado"`
	AnioIngreso     int    `json:"anioIngreso,omitempty" validate:"omitempty,gte=1990"`
	Estado          Status `json:"estado,omitempty" validate:"omitempty,oneof=activo inactivo suspendido" jsonschema:"enum=activo,enum=inactivo,enum=suspendido"`
}

// Student returns the record described by f.
func (f Form) Student(id int) Student {
	estado := f.Estado
	if estado == "" {
		estado = Active
	}
	return Student{
		ID:              id,
		Rut:             core.FormatRUT(f.Rut),
		Nombres:         f.Nombres,
		Apellidos:       f.Apellidos,
		Email:           f.Email,
		Telefono:        f.Telefono,
		FechaNacimiento: f.FechaNacimiento,
		Instrumento:     f.Instrumento,
		Nivel:           f.Nivel,
		AnioIngreso:     f.AnioIngreso,
		Estado:          estado,
	}
}

// StatusForm is the body of PATCH /estado.
type StatusForm struct {
	Estado Status `json:"estado" validate:"required,oneof=activo inactivo suspendido"`
}

func NewForm(values map[string]string) (interface{}, error) {
	p := crud.NewParser(values)
	f := Form{
		Rut:             p.String("rut"),
		Nombres:         p.String("nombres"),
		Apellidos:       p.String("apellidos"),
		Email:           p.Lower("email"),
		Telefono:        p.String("telefono"),
		FechaNacimiento: p.String("fechaNacimiento"),
		Instrumento:     p.String("instrumento"),
		Nivel:           p.Lower("nivel"),
		AnioIngreso:     p.Int("anioIngreso"),
		Estado:          Status(p.Lower("estado")),
	}
	return f, p.Err()
}

func Values(s Student) map[string]string {
	v := map[string]string{
		"rut":             s.Rut,
		"nombres":         s.Nombres,
		"apellidos":       s.Apellidos,
		"email":           s.Email,
		"telefono":        s.Telefono,
		"fechaNacimiento": s.FechaNacimiento,
		"instrumento":     s.Instrumento,
		"nivel":           s.Nivel,
		"estado":          string(s.Estado),
	}
	if s.AnioIngreso > 0 {
		v["anioIngreso"] = strconv.Itoa(s.AnioIngreso)
	}
	return v
}

// Match filters: q (name, RUT or email), estado, instrumento, nivel.
func Match(s Student, f crud.Filters) bool {
	return f.Contains("q", s.FullName(), s.Rut, s.Email) &&
		f.Equals("estado", string(s.Estado)) &&
		f.Contains("instrumento", s.Instrumento) &&
		f.Equals("nivel", s.Nivel)
}

// Option is the student as a dropdown entry; only active students are eligible.
func Option(s Student) crud.Option {
	return crud.Option{ID: s.ID, Label: s.FullName(), Eligible: s.Active()}
}

func Schema(coll crud.Collection[Student]) crud.Schema[Student] {
	return crud.Schema[Student]{
		Entity:     Collection,
		Title:      "Estudiantes",
		Singular:   "Estudiante",
		Collection: coll,
		ID:         func(s Student) int { return s.ID },
		Describe:   Student.FullName,
		Match:      Match,
		Filters: []crud.Field{
			{Name: "q", Label: "Buscar", Kind: crud.Text},
			{Name: "estado", Label: "Estado", Kind: crud.Choice, Choices: Statuses},
			{Name: "instrumento", Label: "Instrumento", Kind: crud.Text},
			{Name: "nivel", Label: "Nivel", Kind: crud.Choice, Choices: Levels},
		},
		Columns: []crud.Column[Student]{
			{Title: "RUT", Width: 12, Value: func(s Student, _ crud.Labeler) string { return s.Rut }},
			{Title: "Nombre", Width: 24, Value: func(s Student, _ crud.Labeler) string { return s.FullName() }},
			{Title: "Instrumento", Width: 14, Value: func(s Student, _ crud.Labeler) string { return s.Instrumento }},
			{Title: "Nivel", Width: 12, Value: func(s Student, _ crud.Labeler) string { return s.Nivel }},
			{Title: "Estado", Width: 10, Value: func(s Student, _ crud.Labeler) string { return string(s.Estado) }},
		},
		Fields: []crud.Field{
			{Name: "rut", Label: "RUT", Kind: crud.Text, Required: true},
			{Name: "nombres", Label: "Nombres", Kind: crud.Text, Required: true},
			{Name: "apellidos", Label: "Apellidos", Kind: crud.Text, Required: true},
			{Name: "email", Label: "Email", Kind: crud.Email, Required: true},
			{Name: "telefono", Label: "Teléfono", Kind: crud.Text},
			{Name: "fechaNacimiento", Label: "Fecha de nacimiento", Kind: crud.Date},
			{Name: "instrumento", Label: "Instrumento", Kind: crud.Text, Required: true},
			{Name: "nivel", Label: "Nivel", Kind: crud.Choice, Choices: Levels, Required: true, Default: "principiante"},
			{Name: "anioIngreso", Label: "Año de ingreso", Kind: crud.Number},
			{Name: "estado", Label: "Estado", Kind: crud.Choice, Choices: Statuses, EditOnly: true},
		},
		NewForm: NewForm,
		Values:  Values,
		Actions: []crud.Action[Student]{
			{
				Name:  "estado",
				Label: "Cambiar estado",
				Args:  Statuses,
				Body:  func(_ Student, arg string) interface{} { return StatusForm{Estado: Status(arg)} },
			},
		},
	}
}
