package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/account"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/evaluation"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/loan"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/records"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/student"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/teacher"
)

type (
	// DataResponse is the envelope of the self-service views.
	DataResponse struct {
		Success bool        `json:"success"`
		Data    interface{} `json:"data"`
	}

	ScheduleEntry struct {
		Dia       string `json:"dia"`
		Hora      string `json:"hora"`
		Actividad string `json:"actividad"`
	}

	Piece struct {
		Obra       string `json:"obra"`
		Compositor string `json:"compositor"`
		Nivel      string `json:"nivel"`
	}

	StudentLoan struct {
		loan.Loan
		Instrumento string `json:"instrumento"`
	}

	StudentProgress struct {
		EstudianteID int    `json:"estudianteId"`
		Estudiante   string `json:"estudiante"`
		Evaluaciones int    `json:"evaluaciones"`
		Promedio     string `json:"promedio"`
	}
)

var (
	schedule = []ScheduleEntry{
		{Dia: "Martes", Hora: "17:00-19:00", Actividad: "Ensayo general"},
		{Dia: "Jueves", Hora: "17:00-18:30", Actividad: "Clase de instrumento"},
		{Dia: "Sábado", Hora: "10:00-13:00", Actividad: "Ensayo por filas"},
	}
	repertoire = []Piece{
		{Obra: "Oda a la alegría", Compositor: "L. v. Beethoven", Nivel: "principiante"},
		{Obra: "Canon en Re", Compositor: "J. Pachelbel", Nivel: "principiante"},
		{Obra: "Danza húngara n.º 5", Compositor: "J. Brahms", Nivel: "intermedio"},
		{Obra: "Libertango", Compositor: "A. Piazzolla", Nivel: "intermedio"},
		{Obra: "Sinfonía n.º 9, 4.º mov.", Compositor: "A. Dvořák", Nivel: "avanzado"},
	}
)

type selfAPI struct {
	db *records.DB
}

func registerStudentAPI(g *echo.Group, deps *Deps) {
	api := selfAPI{db: deps.DB}
	g.GET("/dashboard", api.studentDashboard)
	g.GET("/horario", api.schedule)
	g.GET("/perfil", api.studentProfile)
	g.GET("/prestamos", api.studentLoans)
	g.GET("/repertorio", api.repertoire)
}

func registerTeacherAPI(g *echo.Group, deps *Deps) {
	api := selfAPI{db: deps.DB}
	g.GET("/dashboard", api.teacherDashboard)
	g.GET("/estudiantes", api.teacherStudents)
	g.GET("/asistencias", api.attendance)
	g.GET("/evaluaciones", api.teacherEvaluations)
	g.GET("/progreso", api.teacherProgress)
	g.GET("/horario", api.schedule)
	g.GET("/perfil", api.teacherProfile)
}

func data(ctx echo.Context, v interface{}) error {
	return ctx.JSON(http.StatusOK, DataResponse{Success: true, Data: v})
}

// contextAccount returns the account of the request's token.
func (api *selfAPI) contextAccount(ctx echo.Context) (account.Account, error) {
	claims, err := contextClaims(ctx)
	if err != nil {
		return account.Account{}, err
	}
	acc, err := api.db.Accounts.Get(ctx.Request().Context(), claims.AccountID())
	if err != nil {
		if errors.Cause(err) == records.ErrNotFound {
			return acc, errUnauthorized
		}
		return acc, errors.Wrap(err, "finding account")
	}
	return acc, nil
}

func (api *selfAPI) contextStudent(ctx echo.Context) (student.Student, error) {
	acc, err := api.contextAccount(ctx)
	if err != nil {
		return student.Student{}, err
	}
	return api.db.Students.Get(ctx.Request().Context(), acc.RefID)
}

func (api *selfAPI) contextTeacher(ctx echo.Context) (teacher.Teacher, error) {
	acc, err := api.contextAccount(ctx)
	if err != nil {
		return teacher.Teacher{}, err
	}
	return api.db.Teachers.Get(ctx.Request().Context(), acc.RefID)
}

func (api *selfAPI) schedule(ctx echo.Context) error {
	return data(ctx, schedule)
}

func (api *selfAPI) studentProfile(ctx echo.Context) error {
	s, err := api.contextStudent(ctx)
	if err != nil {
		return err
	}
	return data(ctx, s)
}

func (api *selfAPI) repertoire(ctx echo.Context) error {
	s, err := api.contextStudent(ctx)
	if err != nil {
		return err
	}
	return data(ctx, records.Where(repertoire, func(p Piece) bool { return s.Nivel == "" || p.Nivel == s.Nivel }))
}

func (api *selfAPI) studentLoans(ctx echo.Context) error {
	s, err := api.contextStudent(ctx)
	if err != nil {
		return err
	}
	loans, err := api.loansOf(ctx, func(l loan.Loan) bool { return l.EstudianteID == s.ID })
	if err != nil {
		return err
	}
	return data(ctx, loans)
}

func (api *selfAPI) studentDashboard(ctx echo.Context) error {
	s, err := api.contextStudent(ctx)
	if err != nil {
		return err
	}
	c := ctx.Request().Context()
	loans, err := api.loansOf(ctx, func(l loan.Loan) bool { return l.EstudianteID == s.ID && !l.Returned() })
	if err != nil {
		return err
	}
	evals, err := api.db.Evaluations.All(c)
	if err != nil {
		return errors.Wrap(err, "querying evaluations")
	}
	evals = records.Where(evals, func(e evaluation.Evaluation) bool { return e.EstudianteID == s.ID })

	return data(ctx, echo.Map{
		"estudiante":       s.FullName(),
		"instrumento":      s.Instrumento,
		"nivel":            s.Nivel,
		"prestamosActivos": len(loans),
		"evaluaciones":     len(evals),
		"promedio":         average(evals),
	})
}

func (api *selfAPI) teacherProfile(ctx echo.Context) error {
	t, err := api.contextTeacher(ctx)
	if err != nil {
		return err
	}
	return data(ctx, t)
}

// assignedStudents returns the students with an active assignment to teacher id.
func (api *selfAPI) assignedStudents(ctx echo.Context, id int) ([]student.Student, error) {
	c := ctx.Request().Context()
	assignments, err := api.db.Assignments.All(c)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	students, err := api.db.Students.All(c)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	assigned := make(map[int]bool)
	for _, a := range assignments {
		if a.ProfesorID == id && a.Activa {
			assigned[a.EstudianteID] = true
		}
	}
	return records.Where(students, func(s student.Student) bool { return assigned[s.ID] }), nil
}

func (api *selfAPI) teacherStudents(ctx echo.Context) error {
	t, err := api.contextTeacher(ctx)
	if err != nil {
		return err
	}
	students, err := api.assignedStudents(ctx, t.ID)
	if err != nil {
		return err
	}
	return data(ctx, students)
}

// attendance is not recorded by the sandbox: every teacher gets an empty list.
func (api *selfAPI) attendance(ctx echo.Context) error {
	if _, err := api.contextTeacher(ctx); err != nil {
		return err
	}
	return data(ctx, []interface{}{})
}

func (api *selfAPI) teacherEvaluations(ctx echo.Context) error {
	t, err := api.contextTeacher(ctx)
	if err != nil {
		return err
	}
	evals, err := api.db.Evaluations.All(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying evaluations")
	}
	return data(ctx, records.Where(evals, func(e evaluation.Evaluation) bool { return e.ProfesorID == t.ID }))
}

func (api *selfAPI) teacherProgress(ctx echo.Context) error {
	t, err := api.contextTeacher(ctx)
	if err != nil {
		return err
	}
	students, err := api.assignedStudents(ctx, t.ID)
	if err != nil {
		return err
	}
	evals, err := api.db.Evaluations.All(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying evaluations")
	}

	progress := make([]StudentProgress, 0, len(students))
	for _, s := range students {
		own := records.Where(evals, func(e evaluation.Evaluation) bool { return e.EstudianteID == s.ID })
		progress = append(progress, StudentProgress{
			EstudianteID: s.ID,
			Estudiante:   s.FullName(),
			Evaluaciones: len(own),
			Promedio:     average(own),
		})
	}
	return data(ctx, progress)
}

func (api *selfAPI) teacherDashboard(ctx echo.Context) error {
	t, err := api.contextTeacher(ctx)
	if err != nil {
		return err
	}
	students, err := api.assignedStudents(ctx, t.ID)
	if err != nil {
		return err
	}
	loans, err := api.loansOf(ctx, func(l loan.Loan) bool { return l.ProfesorID == t.ID && !l.Returned() })
	if err != nil {
		return err
	}
	return data(ctx, echo.Map{
		"profesor":         t.FullName(),
		"especialidad":     t.Especialidad,
		"estudiantes":      len(students),
		"prestamosActivos": len(loans),
	})
}

// loansOf returns the loans matching pred, with their instrument labels.
func (api *selfAPI) loansOf(ctx echo.Context, pred func(loan.Loan) bool) ([]StudentLoan, error) {
	c := ctx.Request().Context()
	loans, err := api.db.Loans.All(c)
	if err != nil {
		return nil, errors.Wrap(err, "querying loans")
	}
	instruments, err := api.db.Instruments.All(c)
	if err != nil {
		return nil, errors.Wrap(err, "querying instruments")
	}
	labels := make(map[int]string, len(instruments))
	for _, i := range instruments {
		labels[i.ID] = i.Label()
	}

	out := make([]StudentLoan, 0)
	for _, l := range records.Where(loans, pred) {
		out = append(out, StudentLoan{Loan: l, Instrumento: labels[l.InstrumentoID]})
	}
	return out, nil
}

func average(evals []evaluation.Evaluation) string {
	if avg, ok := evaluation.Average(evals); ok {
		return avg.StringFixed(1)
	}
	return "-"
}
