// Package registration implements self sign-up of students and teachers with a registration token.
package registration

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/student"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/teacher"
)

var (
	requiredForRoleTag  = "requiredforrole"
	requiredForRoleText = "este campo es obligatorio"

	pwdMismatchTag  = "pwdmismatch"
	pwdMismatchText = "las contraseñas no coinciden"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdnotsimilar"
	pwdAttrSimText = "la contraseña es demasiado parecida a tus datos personales"
)

// Form is the POST /auth/register payload.
type Form struct {
	UserType        string `json:"userType" validate:"required,oneof=profesor estudiante"`
	Rut             string `json:"rut" validate:"required,rut"`
	Nombres         string `json:"nombres" validate:"required,notblank"`
	Apellidos       string `json:"apellidos" validate:"required,notblank"`
	Email           string `json:"email" validate:"required,email" jsonschema:"format=email"`
	Telefono        string `json:"telefono,omitempty" validate:"omitempty,min=8"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"-"`
	TokenRegistro   string `json:"tokenRegistro" validate:"required,min=6"`

	// estudiante
	FechaNacimiento string `json:"fechaNacimiento,omitempty" validate:"omitempty,datetime=2006-01-02" jsonschema:"format=date"`
	Instrumento     string `json:"instrumento,omitempty"`
	Nivel           string `json:"nivel,omitempty" validate:"omitempty,oneof=principiante intermedio avanzado"`

	// profesor
	Especialidad     string `json:"especialidad,omitempty"`
	AniosExperiencia int    `json:"aniosExperiencia,omitempty" validate:"gte=0"`
}

func (f Form) Role() role.Role { return role.Role(f.UserType) }

// Student is the student record created by a student registration.
func (f Form) Student(id int, year int) student.Student {
	return student.Student{
		ID:              id,
		Rut:             core.FormatRUT(f.Rut),
		Nombres:         f.Nombres,
		Apellidos:       f.Apellidos,
		Email:           f.Email,
		Telefono:        f.Telefono,
		FechaNacimiento: f.FechaNacimiento,
		Instrumento:     f.Instrumento,
		Nivel:           f.Nivel,
		AnioIngreso:     year,
		Estado:          student.Active,
	}
}

// Teacher is the teacher record created by a teacher registration.
func (f Form) Teacher(id int) teacher.Teacher {
	return teacher.Teacher{
		ID:               id,
		Rut:              core.FormatRUT(f.Rut),
		Nombres:          f.Nombres,
		Apellidos:        f.Apellidos,
		Email:            f.Email,
		Telefono:         f.Telefono,
		Especialidad:     f.Especialidad,
		AniosExperiencia: f.AniosExperiencia,
		Estado:           teacher.Active,
	}
}

// NewForm parses raw input values (eg. from the CLI prompts).
func NewForm(values map[string]string) (Form, error) {
	p := crud.NewParser(values)
	f := Form{
		UserType:         p.Lower("userType"),
		Rut:              p.String("rut"),
		Nombres:          p.String("nombres"),
		Apellidos:        p.String("apellidos"),
		Email:            p.Lower("email"),
		Telefono:         p.String("telefono"),
		Password:         values["password"],
		ConfirmPassword:  values["confirmPassword"],
		TokenRegistro:    p.String("tokenRegistro"),
		FechaNacimiento:  p.String("fechaNacimiento"),
		Instrumento:      p.String("instrumento"),
		Nivel:            p.Lower("nivel"),
		Especialidad:     p.String("especialidad"),
		AniosExperiencia: p.Int("aniosExperiencia"),
	}
	return f, p.Err()
}

// Fields lists the inputs of a registration of type r, in prompt order.
func Fields(r role.Role) []crud.Field {
	flds := []crud.Field{
		{Name: "rut", Label: "RUT", Kind: crud.Text, Required: true},
		{Name: "nombres", Label: "Nombres", Kind: crud.Text, Required: true},
		{Name: "apellidos", Label: "Apellidos", Kind: crud.Text, Required: true},
		{Name: "email", Label: "Email", Kind: crud.Email, Required: true},
		{Name: "telefono", Label: "Teléfono", Kind: crud.Text},
	}
	switch r {
	case role.Student:
		flds = append(flds,
			crud.Field{Name: "fechaNacimiento", Label: "Fecha de nacimiento", Kind: crud.Date},
			crud.Field{Name: "instrumento", Label: "Instrumento", Kind: crud.Text, Required: true},
			crud.Field{Name: "nivel", Label: "Nivel", Kind: crud.Choice, Choices: student.Levels},
		)
	case role.Teacher:
		flds = append(flds,
			crud.Field{Name: "especialidad", Label: "Especialidad", Kind: crud.Text, Required: true},
			crud.Field{Name: "aniosExperiencia", Label: "Años de experiencia", Kind: crud.Number},
		)
	}
	return append(flds,
		crud.Field{Name: "password", Label: "Contraseña", Kind: crud.Password, Required: true},
		crud.Field{Name: "confirmPassword", Label: "Confirmar contraseña", Kind: crud.Password, Required: true},
		crud.Field{Name: "tokenRegistro", Label: "Token de registro", Kind: crud.Text, Required: true},
	)
}

// InitValidators registers the registration struct validations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(formStructValidation, Form{})
	core.RegisterCustomTranslation(validate, translator, requiredForRoleTag, requiredForRoleText)
	core.RegisterCustomTranslation(validate, translator, pwdMismatchTag, pwdMismatchText)
	core.RegisterCustomTranslation(validate, translator, pwdAttrSimTag, pwdAttrSimText)
}

func formStructValidation(sl validator.StructLevel) {
	f := sl.Current().Interface().(Form)

	requireField := func(value, name, structName string) {
		if strings.TrimSpace(value) == "" {
			sl.ReportError(value, name, structName, requiredForRoleTag, "")
		}
	}
	switch f.Role() {
	case role.Student:
		requireField(f.Instrumento, "instrumento", "Instrumento")
	case role.Teacher:
		requireField(f.Especialidad, "especialidad", "Especialidad")
	}

	if f.Password == "" {
		return
	}
	if f.Password != f.ConfirmPassword {
		sl.ReportError(f.ConfirmPassword, "confirmPassword", "ConfirmPassword", pwdMismatchTag, "")
	}
	if tooSimilar(f.Password, f.Email, localPart(f.Email), f.Nombres, f.Apellidos) {
		sl.ReportError(f.Password, "password", "Password", pwdAttrSimTag, "")
	}
}

// tooSimilar reports whether pwd is too similar to any of the user attributes.
func tooSimilar(pwd string, attrs ...string) bool {
	lpwd := strings.ToLower(pwd)
	for _, attr := range attrs {
		if attr == "" {
			continue
		}
		ratio := difflib.NewMatcher(strings.Split(lpwd, ""), strings.Split(strings.ToLower(attr), "")).QuickRatio()
		if ratio >= pwdMaxSim {
			return true
		}
	}
	return false
}

func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return ""
}
