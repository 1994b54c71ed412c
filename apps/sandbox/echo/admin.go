package echoapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/assignment"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/evaluation"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/instrument"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/loan"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/records"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/regtoken"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/student"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/teacher"
)

// conflict messages
const (
	alreadyReturnedText   = "already returned"
	alreadyInactiveText   = "ya se encuentra desactivado"
	instrumentOnLoanText  = "el instrumento tiene un préstamo activo"
	studentHasLoansText   = "el estudiante tiene préstamos activos"
	instrumentUnavailText = "el instrumento no está disponible"
	studentInactiveText   = "el estudiante no está activo"
	teacherInactiveText   = "el profesor no está activo"
	tokenExistsText       = "ya existe un token con este valor"
)

func registerAdminAPI(g *echo.Group, deps *Deps) {
	db := deps.DB

	students := (&collection[student.Student, student.Form]{
		name:  student.Collection,
		table: db.Students,
		build: student.Form.Student,
		keep: func(f student.Form, cur, next student.Student) student.Student {
			if f.Estado == "" {
				next.Estado = cur.Estado
			}
			return next
		},
		remove: func(c context.Context, id int) error { return deleteStudent(c, db, id) },
	}).register(g)
	registerAction(students, "estado", db.Students, func(s student.Student, body student.StatusForm) (student.Student, error) {
		s.Estado = body.Estado
		return s, nil
	})

	teachers := (&collection[teacher.Teacher, teacher.Form]{
		name:  teacher.Collection,
		table: db.Teachers,
		build: teacher.Form.Teacher,
		keep: func(f teacher.Form, cur, next teacher.Teacher) teacher.Teacher {
			if f.Estado == "" {
				next.Estado = cur.Estado
			}
			return next
		},
	}).register(g)
	registerAction(teachers, "estado", db.Teachers, func(t teacher.Teacher, body teacher.StatusForm) (teacher.Teacher, error) {
		t.Estado = body.Estado
		return t, nil
	})

	instruments := (&collection[instrument.Instrument, instrument.Form]{
		name:  instrument.Collection,
		table: db.Instruments,
		build: instrument.Form.Instrument,
		keep: func(f instrument.Form, cur, next instrument.Instrument) instrument.Instrument {
			if f.Disponibilidad == "" {
				next.Disponibilidad = cur.Disponibilidad
			}
			return next
		},
		remove: func(c context.Context, id int) error { return deleteInstrument(c, db, id) },
	}).register(g)
	registerAction(instruments, "disponibilidad", db.Instruments, func(i instrument.Instrument, body instrument.AvailabilityForm) (instrument.Instrument, error) {
		i.Disponibilidad = body.Disponibilidad
		return i, nil
	})

	loans := (&collection[loan.Loan, loan.Form]{
		name:  loan.Collection,
		table: db.Loans,
		build: loan.Form.Loan,
		keep: func(_ loan.Form, cur, next loan.Loan) loan.Loan {
			next.Estado, next.FechaDevolucion = cur.Estado, cur.FechaDevolucion
			return next
		},
		check:  func(c context.Context, f loan.Form, _ int) error { return checkLoanParties(c, db, f) },
		create: func(c context.Context, f loan.Form) (loan.Loan, error) { return createLoan(c, db, f) },
		remove: func(c context.Context, id int) error { return deleteLoan(c, db, id) },
	}).register(g)
	loans.PATCH("/:id/devolver", func(ctx echo.Context) error { return returnLoan(ctx, db) })

	(&collection[evaluation.Evaluation, evaluation.Form]{
		name:  evaluation.Collection,
		table: db.Evaluations,
		build: evaluation.Form.Evaluation,
	}).register(g)

	assignments := (&collection[assignment.Assignment, assignment.Form]{
		name:  assignment.Collection,
		table: db.Assignments,
		build: assignment.Form.Assignment,
		keep: func(_ assignment.Form, cur, next assignment.Assignment) assignment.Assignment {
			next.Activa = cur.Activa
			return next
		},
	}).register(g)
	registerAction(assignments, "desactivar", db.Assignments, func(a assignment.Assignment, _ struct{}) (assignment.Assignment, error) {
		if !a.Activa {
			return a, conflict(alreadyInactiveText)
		}
		a.Activa = false
		return a, nil
	})

	tokens := (&collection[regtoken.Token, regtoken.Form]{
		name:  regtoken.Collection,
		table: db.Tokens,
		build: regtoken.Form.Record,
		keep: func(_ regtoken.Form, cur, next regtoken.Token) regtoken.Token {
			next.UsosActuales, next.Activo = cur.UsosActuales, cur.Activo
			return next
		},
		check: func(c context.Context, f regtoken.Form, id int) error { return checkTokenUnique(c, db, f, id) },
	}).register(g)
	registerAction(tokens, "desactivar", db.Tokens, func(t regtoken.Token, _ struct{}) (regtoken.Token, error) {
		if !t.Activo {
			return t, conflict(alreadyInactiveText)
		}
		t.Activo = false
		return t, nil
	})
}

func checkLoanParties(c context.Context, db *records.DB, f loan.Form) error {
	s, err := db.Students.Get(c, f.EstudianteID)
	if err != nil {
		return fieldErr(err, "estudianteId")
	}
	if !s.Active() {
		return fieldError("estudianteId", studentInactiveText)
	}
	t, err := db.Teachers.Get(c, f.ProfesorID)
	if err != nil {
		return fieldErr(err, "profesorId")
	}
	if !t.Active() {
		return fieldError("profesorId", teacherInactiveText)
	}
	_, err = db.Instruments.Get(c, f.InstrumentoID)
	return fieldErr(err, "instrumentoId")
}

func createLoan(c context.Context, db *records.DB, f loan.Form) (loan.Loan, error) {
	// reserve the instrument first; it is released if the loan cannot be stored
	if _, err := db.Instruments.Update(c, f.InstrumentoID, func(i instrument.Instrument) (instrument.Instrument, error) {
		if !i.Available() {
			return i, fieldError("instrumentoId", instrumentUnavailText)
		}
		i.Disponibilidad = instrument.Lent
		return i, nil
	}); err != nil {
		return loan.Loan{}, err
	}
	l, err := db.Loans.Create(c, func(id int) (loan.Loan, error) { return f.Loan(id), nil })
	if err != nil {
		_ = setAvailability(c, db, f.InstrumentoID, instrument.Available)
		return l, err
	}
	return l, nil
}

func returnLoan(ctx echo.Context, db *records.DB) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	var body loan.ReturnForm
	if err = bindAndValidate(ctx, &body, "loan.ReturnForm"); err != nil {
		return err
	}
	if body.FechaDevolucion == "" {
		body.FechaDevolucion = time.Now().Format("2006-01-02")
	}

	c := ctx.Request().Context()
	l, err := db.Loans.Update(c, id, func(l loan.Loan) (loan.Loan, error) {
		if l.Returned() {
			return l, conflict(alreadyReturnedText)
		}
		l.Estado = loan.Returned
		l.FechaDevolucion = body.FechaDevolucion
		return l, nil
	})
	if err != nil {
		return errors.Wrap(err, "returning loan")
	}
	if err = setAvailability(c, db, l.InstrumentoID, instrument.Available); err != nil && errors.Cause(err) != records.ErrNotFound {
		return errors.Wrap(err, "releasing instrument")
	}
	return ctx.JSON(http.StatusOK, l)
}

// deleteLoan deletes an open loan, releasing its instrument. Returned loans are history and cannot be deleted.
func deleteLoan(c context.Context, db *records.DB, id int) error {
	l, err := db.Loans.Get(c, id)
	if err != nil {
		return err
	}
	if l.Returned() {
		return conflict(alreadyReturnedText)
	}
	if err = db.Loans.Delete(c, id); err != nil {
		return err
	}
	if err = setAvailability(c, db, l.InstrumentoID, instrument.Available); err != nil && errors.Cause(err) != records.ErrNotFound {
		return err
	}
	return nil
}

func deleteInstrument(c context.Context, db *records.DB, id int) error {
	loans, err := db.Loans.All(c)
	if err != nil {
		return err
	}
	if len(records.Where(loans, func(l loan.Loan) bool { return l.InstrumentoID == id && !l.Returned() })) > 0 {
		return conflict(instrumentOnLoanText)
	}
	return db.Instruments.Delete(c, id)
}

func deleteStudent(c context.Context, db *records.DB, id int) error {
	loans, err := db.Loans.All(c)
	if err != nil {
		return err
	}
	if len(records.Where(loans, func(l loan.Loan) bool { return l.EstudianteID == id && !l.Returned() })) > 0 {
		return conflict(studentHasLoansText)
	}
	return db.Students.Delete(c, id)
}

func setAvailability(c context.Context, db *records.DB, id int, a instrument.Availability) error {
	_, err := db.Instruments.Update(c, id, func(i instrument.Instrument) (instrument.Instrument, error) {
		i.Disponibilidad = a
		return i, nil
	})
	return err
}

func checkTokenUnique(c context.Context, db *records.DB, f regtoken.Form, id int) error {
	tokens, err := db.Tokens.All(c)
	if err != nil {
		return err
	}
	if t, exists := findToken(tokens, f.Token); exists && t.ID != id {
		return fieldError("token", tokenExistsText)
	}
	return nil
}

func fieldError(field, msg string) error {
	return core.NewValidationError(nil, core.FieldError{Field: field, Error: msg})
}

// fieldErr reports a missing referenced record as a validation error on field.
func fieldErr(err error, field string) error {
	if err == nil {
		return nil
	}
	if errors.Cause(err) == records.ErrNotFound {
		return fieldError(field, "no existe")
	}
	return err
}
