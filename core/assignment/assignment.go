// Package assignment links teachers to the students they teach.
package assignment

import (
	"strconv"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/student"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/teacher"
)

const Collection = "asignaciones"

type Assignment struct {
	ID            int    `json:"id" db:"id"`
	ProfesorID    int    `json:"profesorId" db:"profesor_id"`
	EstudianteID  int    `json:"estudianteId" db:"estudiante_id"`
	Instrumento   string `json:"instrumento" db:"instrumento"`
	FechaInicio   string `json:"fechaInicio" db:"fecha_inicio"`
	Activa        bool   `json:"activa" db:"activa"`
	Observaciones string `json:"observaciones,omitempty" db:"observaciones"`
}

type Form struct {
	ProfesorID    int    `json:"profesorId" validate:"required"`
	EstudianteID  int    `json:"estudianteId" validate:"required"`
	Instrumento   string `json:"instrumento" validate:"required,notblank"`
	FechaInicio   string `json:"fechaInicio" validate:"required,datetime=2006-01-02" jsonschema:"format=date"`
	Observaciones string `json:"observaciones,omitempty" validate:"max=500"`
}

func (f Form) Assignment(id int) Assignment {
	return Assignment{
		ID:            id,
		ProfesorID:    f.ProfesorID,
		EstudianteID:  f.EstudianteID,
		Instrumento:   f.Instrumento,
		FechaInicio:   f.FechaInicio,
		Activa:        true,
		Observaciones: f.Observaciones,
	}
}

func NewForm(values map[string]string) (interface{}, error) {
	p := crud.NewParser(values)
	f := Form{
		ProfesorID:    p.Int("profesorId"),
		EstudianteID:  p.Int("estudianteId"),
		Instrumento:   p.String("instrumento"),
		FechaInicio:   p.String("fechaInicio"),
		Observaciones: p.String("observaciones"),
	}
	return f, p.Err()
}

func Values(a Assignment) map[string]string {
	return map[string]string{
		"profesorId":    strconv.Itoa(a.ProfesorID),
		"estudianteId":  strconv.Itoa(a.EstudianteID),
		"instrumento":   a.Instrumento,
		"fechaInicio":   a.FechaInicio,
		"observaciones": a.Observaciones,
	}
}

// Match filters: profesorId, estudianteId, instrumento, activa ("true"/"false").
func Match(a Assignment, f crud.Filters) bool {
	return f.EqualsID("profesorId", a.ProfesorID) &&
		f.EqualsID("estudianteId", a.EstudianteID) &&
		f.Contains("instrumento", a.Instrumento) &&
		f.Equals("activa", crud.FormatBool(a.Activa))
}

func Schema(coll crud.Collection[Assignment], teachers, students crud.Lookup) crud.Schema[Assignment] {
	return crud.Schema[Assignment]{
		Entity:     Collection,
		Title:      "Asignaciones",
		Singular:   "Asignación",
		Collection: coll,
		ID:         func(a Assignment) int { return a.ID },
		Match:      Match,
		Lookups:    []crud.Lookup{teachers, students},
		Filters: []crud.Field{
			{Name: "profesorId", Label: "Profesor", Kind: crud.Ref, Lookup: teacher.Collection},
			{Name: "estudianteId", Label: "Estudiante", Kind: crud.Ref, Lookup: student.Collection},
			{Name: "instrumento", Label: "Instrumento", Kind: crud.Text},
			{Name: "activa", Label: "Activa", Kind: crud.Bool},
		},
		Columns: []crud.Column[Assignment]{
			{Title: "Profesor", Width: 20, Value: func(a Assignment, l crud.Labeler) string { return l.Label(teacher.Collection, a.ProfesorID) }},
			{Title: "Estudiante", Width: 22, Value: func(a Assignment, l crud.Labeler) string { return l.Label(student.Collection, a.EstudianteID) }},
			{Title: "Instrumento", Width: 14, Value: func(a Assignment, _ crud.Labeler) string { return a.Instrumento }},
			{Title: "Inicio", Width: 10, Value: func(a Assignment, _ crud.Labeler) string { return a.FechaInicio }},
			{Title: "Activa", Width: 6, Value: func(a Assignment, _ crud.Labeler) string {
				if a.Activa {
					return "sí"
				}
				return "no"
			}},
		},
		Fields: []crud.Field{
			{Name: "profesorId", Label: "Profesor", Kind: crud.Ref, Lookup: teacher.Collection, Required: true},
			{Name: "estudianteId", Label: "Estudiante", Kind: crud.Ref, Lookup: student.Collection, Required: true},
			{Name: "instrumento", Label: "Instrumento", Kind: crud.Text, Required: true},
			{Name: "fechaInicio", Label: "Fecha de inicio", Kind: crud.Date, Required: true},
			{Name: "observaciones", Label: "Observaciones", Kind: crud.TextArea},
		},
		NewForm: NewForm,
		Values:  Values,
		Actions: []crud.Action[Assignment]{
			{
				Name:    "desactivar",
				Label:   "Desactivar",
				Allowed: func(a Assignment) bool { return a.Activa },
			},
		},
	}
}
