package records

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/account"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/assignment"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/evaluation"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/instrument"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/loan"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/regtoken"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/student"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/teacher"
)

// demo accounts
const (
	AdminEmail   = "admin@orquesta.cl"
	TeacherEmail = "pedro.soto@orquesta.cl"
	StudentEmail = "camila.rojas@orquesta.cl"
	DemoPassword = "orquesta2024"
)

var (
	seedTeachers = []teacher.Teacher{
		{Rut: "11111111-1", Nombres: "Pedro", Apellidos: "Soto", Email: TeacherEmail, Especialidad: "Cuerdas", AniosExperiencia: 12, Estado: teacher.Active},
		{Rut: "9876543-3", Nombres: "Marta", Apellidos: "Díaz", Email: "marta.diaz@orquesta.cl", Especialidad: "Vientos", AniosExperiencia: 8, Estado: teacher.Inactive},
	}
	seedStudents = []student.Student{
		{Rut: "20123456-5", Nombres: "Camila", Apellidos: "Rojas", Email: StudentEmail, FechaNacimiento: "2010-05-14", Instrumento: "Violín", Nivel: "intermedio", AnioIngreso: 2021, Estado: student.Active},
		{Rut: "21345678-4", Nombres: "Tomás", Apellidos: "Fuentes", Email: "tomas.fuentes@orquesta.cl", FechaNacimiento: "2011-09-02", Instrumento: "Flauta traversa", Nivel: "principiante", AnioIngreso: 2023, Estado: student.Active},
		{Rut: "15678901-1", Nombres: "Javiera", Apellidos: "Muñoz", Email: "javiera.munoz@orquesta.cl", FechaNacimiento: "2009-01-23", Instrumento: "Violonchelo", Nivel: "avanzado", AnioIngreso: 2019, Estado: student.Inactive},
	}
	seedInstruments = []instrument.Instrument{
		{Nombre: "Violín 4/4", Tipo: "cuerda", Marca: "Yamaha", Modelo: "V5", NumeroSerie: "SN-V001", Condicion: "bueno", Disponibilidad: instrument.Lent},
		{Nombre: "Flauta traversa", Tipo: "viento madera", Marca: "Pearl", NumeroSerie: "SN-F001", Condicion: "excelente", Disponibilidad: instrument.Available},
		{Nombre: "Violonchelo", Tipo: "cuerda", Marca: "Stentor", NumeroSerie: "SN-C001", Condicion: "regular", Disponibilidad: instrument.Maintenance},
	}
	seedLoans = []loan.Loan{
		{InstrumentoID: 1, EstudianteID: 1, ProfesorID: 1, FechaPrestamo: "2024-03-04", FechaDevolucionEsperada: "2024-12-20", Estado: loan.Active},
		{InstrumentoID: 2, EstudianteID: 2, ProfesorID: 1, FechaPrestamo: "2024-03-11", FechaDevolucionEsperada: "2024-07-01", FechaDevolucion: "2024-06-28", Estado: loan.Returned},
	}
	seedEvaluations = []evaluation.Evaluation{
		{EstudianteID: 1, ProfesorID: 1, Fecha: "2024-06-10", Tipo: "técnica", Nota: decimal.RequireFromString("6.2"), Comentarios: "Buena afinación"},
		{EstudianteID: 2, ProfesorID: 1, Fecha: "2024-06-12", Tipo: "teoría", Nota: decimal.RequireFromString("4.5")},
	}
	seedAssignments = []assignment.Assignment{
		{ProfesorID: 1, EstudianteID: 1, Instrumento: "Violín", FechaInicio: "2024-03-01", Activa: true},
		{ProfesorID: 2, EstudianteID: 3, Instrumento: "Violonchelo", FechaInicio: "2023-03-01", Activa: false},
	}
	seedTokens = []regtoken.Token{
		{Token: "EST2024", TipoUsuario: role.Student, UsosMaximos: 50, Activo: true},
		{Token: "PROF2024", TipoUsuario: role.Teacher, UsosMaximos: 5, Activo: true},
	}
)

// Seed fills db with demo data, unless it already has accounts.
func Seed(ctx context.Context, db *DB, logger core.Logger) error {
	accounts, err := db.Accounts.All(ctx)
	if err != nil {
		return errors.Wrap(err, "querying accounts")
	}
	if len(accounts) > 0 {
		return nil
	}

	if err = seedTable(ctx, db.Teachers, seedTeachers, func(t *teacher.Teacher, id int) { t.ID = id }); err != nil {
		return errors.Wrap(err, "seeding teachers")
	}
	if err = seedTable(ctx, db.Students, seedStudents, func(s *student.Student, id int) { s.ID = id }); err != nil {
		return errors.Wrap(err, "seeding students")
	}
	if err = seedTable(ctx, db.Instruments, seedInstruments, func(i *instrument.Instrument, id int) { i.ID = id }); err != nil {
		return errors.Wrap(err, "seeding instruments")
	}
	if err = seedTable(ctx, db.Loans, seedLoans, func(l *loan.Loan, id int) { l.ID = id }); err != nil {
		return errors.Wrap(err, "seeding loans")
	}
	if err = seedTable(ctx, db.Evaluations, seedEvaluations, func(e *evaluation.Evaluation, id int) { e.ID = id }); err != nil {
		return errors.Wrap(err, "seeding evaluations")
	}
	if err = seedTable(ctx, db.Assignments, seedAssignments, func(a *assignment.Assignment, id int) { a.ID = id }); err != nil {
		return errors.Wrap(err, "seeding assignments")
	}
	if err = seedTable(ctx, db.Tokens, seedTokens, func(t *regtoken.Token, id int) { t.ID = id }); err != nil {
		return errors.Wrap(err, "seeding tokens")
	}

	demo := []struct {
		email, nombre string
		role          role.Role
		refID         int
	}{
		{AdminEmail, "Administración", role.Admin, 0},
		{TeacherEmail, "Pedro Soto", role.Teacher, 1},
		{StudentEmail, "Camila Rojas", role.Student, 1},
	}
	for _, d := range demo {
		d := d
		_, err = db.Accounts.Create(ctx, func(id int) (account.Account, error) {
			acc := account.New(id, d.email, d.nombre, d.role, d.refID)
			return acc, acc.SetPassword(DemoPassword)
		})
		if err != nil {
			return errors.Wrap(err, "seeding accounts")
		}
	}
	logger.Info("records: demo data seeded")
	return nil
}

func seedTable[T any](ctx context.Context, table Table[T], recs []T, setID func(rec *T, id int)) error {
	for _, rec := range recs {
		rec := rec
		if _, err := table.Create(ctx, func(id int) (T, error) {
			setID(&rec, id)
			return rec, nil
		}); err != nil {
			return err
		}
	}
	return nil
}
