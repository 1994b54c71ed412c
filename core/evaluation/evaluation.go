// Package evaluation holds the grades teachers give students (1.0 to 7.0).
package evaluation

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/student"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/teacher"
)

const Collection = "evaluaciones"

var (
	Types = []string{"técnica", "repertorio", "audición", "concierto", "teoría"}

	// PassingGrade is the lowest passing grade.
	PassingGrade = decimal.RequireFromString("4.0")
)

type Evaluation struct {
	ID           int             `json:"id" db:"id"`
	EstudianteID int             `json:"estudianteId" db:"estudiante_id"`
	ProfesorID   int             `json:"profesorId" db:"profesor_id"`
	Fecha        string          `json:"fecha" db:"fecha"`
	Tipo         string          `json:"tipo" db:"tipo"`
	Nota         decimal.Decimal `json:"nota" db:"nota"`
	Comentarios  string          `json:"comentarios,omitempty" db:"comentarios"`
}

func (e Evaluation) Passed() bool {
	return e.Nota.GreaterThanOrEqual(PassingGrade)
}

type Form struct {
	EstudianteID int             `json:"estudianteId" validate:"required"`
	ProfesorID   int             `json:"profesorId" validate:"required"`
	Fecha        string          `json:"fecha" validate:"required,datetime=2006-01-02" jsonschema:"format=date"`
	Tipo         string          `json:"tipo" validate:"required,notblank"`
	Nota         decimal.Decimal `json:"nota" validate:"required,grade" jsonschema:"type=number,minimum=1,maximum=7"`
	Comentarios  string          `json:"comentarios,omitempty" validate:"max=1000"`
}

func (f Form) Evaluation(id int) Evaluation {
	return Evaluation{
		ID:           id,
		EstudianteID: f.EstudianteID,
		ProfesorID:   f.ProfesorID,
		Fecha:        f.Fecha,
		Tipo:         f.Tipo,
		Nota:         f.Nota.Round(1),
		Comentarios:  f.Comentarios,
	}
}

func NewForm(values map[string]string) (interface{}, error) {
	p := crud.NewParser(values)
	f := Form{
		EstudianteID: p.Int("estudianteId"),
		ProfesorID:   p.Int("profesorId"),
		Fecha:        p.String("fecha"),
		Tipo:         p.Lower("tipo"),
		Nota:         p.Decimal("nota"),
		Comentarios:  p.String("comentarios"),
	}
	return f, p.Err()
}

func Values(e Evaluation) map[string]string {
	return map[string]string{
		"estudianteId": strconv.Itoa(e.EstudianteID),
		"profesorId":   strconv.Itoa(e.ProfesorID),
		"fecha":        e.Fecha,
		"tipo":         e.Tipo,
		"nota":         e.Nota.StringFixed(1),
		"comentarios":  e.Comentarios,
	}
}

// Match filters: estudianteId, profesorId, tipo, aprobada ("true"/"false").
func Match(e Evaluation, f crud.Filters) bool {
	return f.EqualsID("estudianteId", e.EstudianteID) &&
		f.EqualsID("profesorId", e.ProfesorID) &&
		f.Equals("tipo", e.Tipo) &&
		f.Equals("aprobada", crud.FormatBool(e.Passed()))
}

// Average returns the mean grade of evals, rounded to one decimal.
func Average(evals []Evaluation) (decimal.Decimal, bool) {
	if len(evals) == 0 {
		return decimal.Zero, false
	}
	sum := decimal.Zero
	for _, e := range evals {
		sum = sum.Add(e.Nota)
	}
	return sum.Div(decimal.NewFromInt(int64(len(evals)))).Round(1), true
}

func Schema(coll crud.Collection[Evaluation], students, teachers crud.Lookup) crud.Schema[Evaluation] {
	return crud.Schema[Evaluation]{
		Entity:     Collection,
		Title:      "Evaluaciones",
		Singular:   "Evaluación",
		Collection: coll,
		ID:         func(e Evaluation) int { return e.ID },
		Match:      Match,
		Lookups:    []crud.Lookup{students, teachers},
		Filters: []crud.Field{
			{Name: "estudianteId", Label: "Estudiante", Kind: crud.Ref, Lookup: student.Collection},
			{Name: "profesorId", Label: "Profesor", Kind: crud.Ref, Lookup: teacher.Collection},
			{Name: "tipo", Label: "Tipo", Kind: crud.Choice, Choices: Types},
			{Name: "aprobada", Label: "Aprobada", Kind: crud.Bool},
		},
		Columns: []crud.Column[Evaluation]{
			{Title: "Fecha", Width: 10, Value: func(e Evaluation, _ crud.Labeler) string { return e.Fecha }},
			{Title: "Estudiante", Width: 22, Value: func(e Evaluation, l crud.Labeler) string { return l.Label(student.Collection, e.EstudianteID) }},
			{Title: "Profesor", Width: 20, Value: func(e Evaluation, l crud.Labeler) string { return l.Label(teacher.Collection, e.ProfesorID) }},
			{Title: "Tipo", Width: 12, Value: func(e Evaluation, _ crud.Labeler) string { return e.Tipo }},
			{Title: "Nota", Width: 5, Value: func(e Evaluation, _ crud.Labeler) string { return e.Nota.StringFixed(1) }},
		},
		Fields: []crud.Field{
			{Name: "estudianteId", Label: "Estudiante", Kind: crud.Ref, Lookup: student.Collection, Required: true},
			{Name: "profesorId", Label: "Profesor", Kind: crud.Ref, Lookup: teacher.Collection, Required: true},
			{Name: "fecha", Label: "Fecha", Kind: crud.Date, Required: true},
			{Name: "tipo", Label: "Tipo", Kind: crud.Choice, Choices: Types, Required: true},
			{Name: "nota", Label: "Nota (1.0 - 7.0)", Kind: crud.Decimal, Required: true},
			{Name: "comentarios", Label: "Comentarios", Kind: crud.TextArea},
		},
		NewForm: NewForm,
		Values:  Values,
	}
}
