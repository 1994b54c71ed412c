// Package loan holds instrument loans to students.
package loan

import (
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/instrument"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/student"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/teacher"
)

const (
	Collection = "prestamos"
	dateLayout = "2006-01-02"
)

type Status string

// Statuses
const (
	Active   Status = "activo"
	Returned Status = "devuelto"
	Overdue  Status = "vencido"
)

var Statuses = []string{string(Active), string(Returned), string(Overdue)}

type Loan struct {
	ID                      int    `json:"id" db:"id"`
	InstrumentoID           int    `json:"instrumentoId" db:"instrumento_id"`
	EstudianteID            int    `json:"estudianteId" db:"estudiante_id"`
	ProfesorID              int    `json:"profesorId" db:"profesor_id"`
	FechaPrestamo           string `json:"fechaPrestamo" db:"fecha_prestamo"`
	FechaDevolucionEsperada string `json:"fechaDevolucionEsperada" db:"fecha_devolucion_esperada"`
	FechaDevolucion         string `json:"fechaDevolucion,omitempty" db:"fecha_devolucion"`
	Estado                  Status `json:"estado" db:"estado"`
	Observaciones           string `json:"observaciones,omitempty" db:"observaciones"`
}

func (l Loan) Returned() bool { return l.Estado == Returned }

// Form is the create/update payload.
type Form struct {
	InstrumentoID           int    `json:"instrumentoId" validate:"required"`
	EstudianteID            int    `json:"estudianteId" validate:"required"`
	ProfesorID              int    `json:"profesorId" validate:"required"`
	FechaPrestamo           string `json:"fechaPrestamo" validate:"required,datetime=2006-01-02" jsonschema:"format=date"`
	FechaDevolucionEsperada string `json:"fechaDevolucionEsperada" validate:"required,datetime=2006-01-02" jsonschema:"format=date"`
	Observaciones           string `json:"observaciones,omitempty" validate:"max=500"`
}

func (f Form) Loan(id int) Loan {
	return Loan{
		ID:                      id,
		InstrumentoID:           f.InstrumentoID,
		EstudianteID:            f.EstudianteID,
		ProfesorID:              f.ProfesorID,
		FechaPrestamo:           f.FechaPrestamo,
		FechaDevolucionEsperada: f.FechaDevolucionEsperada,
		Estado:                  Active,
		Observaciones:           f.Observaciones,
	}
}

// ReturnForm is the body of PATCH /devolver. An empty date means today.
type ReturnForm struct {
	FechaDevolucion string `json:"fechaDevolucion,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

var (
	dueBeforeLoanTag  = "duebeforeloan"
	dueBeforeLoanText = "no puede ser anterior a la fecha de préstamo"
)

// InitValidators registers the loan struct validations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(formStructValidation, Form{})
	core.RegisterCustomTranslation(validate, translator, dueBeforeLoanTag, dueBeforeLoanText)
}

func formStructValidation(sl validator.StructLevel) {
	f := sl.Current().Interface().(Form)
	// dates have the same layout: lexical order is chronological order
	if validDate(f.FechaPrestamo) && validDate(f.FechaDevolucionEsperada) && f.FechaDevolucionEsperada < f.FechaPrestamo {
		sl.ReportError(f.FechaDevolucionEsperada, "fechaDevolucionEsperada", "FechaDevolucionEsperada", dueBeforeLoanTag, "")
	}
}

func validDate(s string) bool {
	return len(s) == len(dateLayout)
}

func NewForm(values map[string]string) (interface{}, error) {
	p := crud.NewParser(values)
	f := Form{
		InstrumentoID:           p.Int("instrumentoId"),
		EstudianteID:            p.Int("estudianteId"),
		ProfesorID:              p.Int("profesorId"),
		FechaPrestamo:           p.String("fechaPrestamo"),
		FechaDevolucionEsperada: p.String("fechaDevolucionEsperada"),
		Observaciones:           p.String("observaciones"),
	}
	return f, p.Err()
}

func Values(l Loan) map[string]string {
	return map[string]string{
		"instrumentoId":           strconv.Itoa(l.InstrumentoID),
		"estudianteId":            strconv.Itoa(l.EstudianteID),
		"profesorId":              strconv.Itoa(l.ProfesorID),
		"fechaPrestamo":           l.FechaPrestamo,
		"fechaDevolucionEsperada": l.FechaDevolucionEsperada,
		"observaciones":           l.Observaciones,
	}
}

// Match filters: estado, instrumentoId, estudianteId, profesorId, desde/hasta (loan date range).
func Match(l Loan, f crud.Filters) bool {
	return f.Equals("estado", string(l.Estado)) &&
		f.EqualsID("instrumentoId", l.InstrumentoID) &&
		f.EqualsID("estudianteId", l.EstudianteID) &&
		f.EqualsID("profesorId", l.ProfesorID) &&
		(f.Get("desde") == "" || l.FechaPrestamo >= f.Get("desde")) &&
		(f.Get("hasta") == "" || l.FechaPrestamo <= f.Get("hasta"))
}

// Schema of the loans screen. Lookups: instruments, students and teachers.
func Schema(coll crud.Collection[Loan], instruments, students, teachers crud.Lookup) crud.Schema[Loan] {
	label := func(lookup string, id func(Loan) int) func(Loan, crud.Labeler) string {
		return func(l Loan, labels crud.Labeler) string { return labels.Label(lookup, id(l)) }
	}
	return crud.Schema[Loan]{
		Entity:     Collection,
		Title:      "Préstamos",
		Singular:   "Préstamo",
		Collection: coll,
		ID:         func(l Loan) int { return l.ID },
		Match:      Match,
		Lookups:    []crud.Lookup{instruments, students, teachers},
		Filters: []crud.Field{
			{Name: "estado", Label: "Estado", Kind: crud.Choice, Choices: Statuses},
			{Name: "instrumentoId", Label: "Instrumento", Kind: crud.Ref, Lookup: instrument.Collection},
			{Name: "estudianteId", Label: "Estudiante", Kind: crud.Ref, Lookup: student.Collection},
			{Name: "profesorId", Label: "Profesor", Kind: crud.Ref, Lookup: teacher.Collection},
			{Name: "desde", Label: "Desde", Kind: crud.Date},
			{Name: "hasta", Label: "Hasta", Kind: crud.Date},
		},
		Columns: []crud.Column[Loan]{
			{Title: "Instrumento", Width: 20, Value: label(instrument.Collection, func(l Loan) int { return l.InstrumentoID })},
			{Title: "Estudiante", Width: 20, Value: label(student.Collection, func(l Loan) int { return l.EstudianteID })},
			{Title: "Profesor", Width: 18, Value: label(teacher.Collection, func(l Loan) int { return l.ProfesorID })},
			{Title: "Préstamo", Width: 10, Value: func(l Loan, _ crud.Labeler) string { return l.FechaPrestamo }},
			{Title: "Devolución", Width: 10, Value: func(l Loan, _ crud.Labeler) string {
				if l.FechaDevolucion != "" {
					return l.FechaDevolucion
				}
				return l.FechaDevolucionEsperada
			}},
			{Title: "Estado", Width: 9, Value: func(l Loan, _ crud.Labeler) string { return string(l.Estado) }},
		},
		Fields: []crud.Field{
			{Name: "instrumentoId", Label: "Instrumento", Kind: crud.Ref, Lookup: instrument.Collection, Required: true},
			{Name: "estudianteId", Label: "Estudiante", Kind: crud.Ref, Lookup: student.Collection, Required: true},
			{Name: "profesorId", Label: "Profesor responsable", Kind: crud.Ref, Lookup: teacher.Collection, Required: true},
			{Name: "fechaPrestamo", Label: "Fecha de préstamo", Kind: crud.Date, Required: true},
			{Name: "fechaDevolucionEsperada", Label: "Devolución esperada", Kind: crud.Date, Required: true},
			{Name: "observaciones", Label: "Observaciones", Kind: crud.TextArea},
		},
		NewForm: NewForm,
		Values:  Values,
		Actions: []crud.Action[Loan]{
			{
				Name:    "devolver",
				Label:   "Registrar devolución",
				Allowed: func(l Loan) bool { return !l.Returned() },
				Body:    func(_ Loan, date string) interface{} { return ReturnForm{FechaDevolucion: date} },
			},
		},
	}
}
