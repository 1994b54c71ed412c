// Package regtoken manages the registration tokens handed out to new students and teachers.
package regtoken

import (
	"strconv"
	"time"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
)

const (
	Collection = "tokens"
	MinLength  = 6
)

// UserTypes are the roles a token can register. Administrators are never self-registered.
var UserTypes = []string{string(role.Teacher), string(role.Student)}

type Token struct {
	ID           int       `json:"id" db:"id"`
	Token        string    `json:"token" db:"token"`
	TipoUsuario  role.Role `json:"tipoUsuario" db:"tipo_usuario"`
	UsosMaximos  int       `json:"usosMaximos" db:"usos_maximos"`
	UsosActuales int       `json:"usosActuales" db:"usos_actuales"`
	Expiracion   string    `json:"expiracion,omitempty" db:"expiracion"`
	Activo       bool      `json:"activo" db:"activo"`
}

// Usable reports whether the token can still register a user of type r on day `today` (YYYY-MM-DD).
func (t Token) Usable(r role.Role, today string) bool {
	if !t.Activo || t.TipoUsuario != r {
		return false
	}
	if t.UsosMaximos > 0 && t.UsosActuales >= t.UsosMaximos {
		return false
	}
	return t.Expiracion == "" || t.Expiracion >= today
}

// Remaining uses, -1 when unlimited.
func (t Token) Remaining() int {
	if t.UsosMaximos == 0 {
		return -1
	}
	if n := t.UsosMaximos - t.UsosActuales; n > 0 {
		return n
	}
	return 0
}

type Form struct {
	Token       string `json:"token" validate:"required,min=6"`
	TipoUsuario string `json:"tipoUsuario" validate:"required,oneof=profesor estudiante"`
	UsosMaximos int    `json:"usosMaximos" validate:"gte=0" jsonschema:"description=0 = sin límite"`
	Expiracion  string `json:"expiracion,omitempty" validate:"omitempty,datetime=2006-01-02" jsonschema:"format=date"`
}

// Record builds the token created from f.
func (f Form) Record(id int) Token {
	return Token{
		ID:          id,
		Token:       f.Token,
		TipoUsuario: role.Role(f.TipoUsuario),
		UsosMaximos: f.UsosMaximos,
		Expiracion:  f.Expiracion,
		Activo:      true,
	}
}

func NewForm(values map[string]string) (interface{}, error) {
	p := crud.NewParser(values)
	f := Form{
		Token:       p.String("token"),
		TipoUsuario: p.Lower("tipoUsuario"),
		UsosMaximos: p.Int("usosMaximos"),
		Expiracion:  p.String("expiracion"),
	}
	return f, p.Err()
}

func Values(t Token) map[string]string {
	return map[string]string{
		"token":       t.Token,
		"tipoUsuario": string(t.TipoUsuario),
		"usosMaximos": strconv.Itoa(t.UsosMaximos),
		"expiracion":  t.Expiracion,
	}
}

// Match filters: q (token), tipoUsuario, activo.
func Match(t Token, f crud.Filters) bool {
	return f.Contains("q", t.Token) &&
		f.Equals("tipoUsuario", string(t.TipoUsuario)) &&
		f.Equals("activo", crud.FormatBool(t.Activo))
}

// Today is the reference day of Usable.
func Today() string { return time.Now().Format("2006-01-02") }

func Schema(coll crud.Collection[Token]) crud.Schema[Token] {
	return crud.Schema[Token]{
		Entity:     Collection,
		Title:      "Tokens de registro",
		Singular:   "Token",
		Collection: coll,
		ID:         func(t Token) int { return t.ID },
		Describe:   func(t Token) string { return t.Token },
		Match:      Match,
		Filters: []crud.Field{
			{Name: "q", Label: "Buscar", Kind: crud.Text},
			{Name: "tipoUsuario", Label: "Tipo de usuario", Kind: crud.Choice, Choices: UserTypes},
			{Name: "activo", Label: "Activo", Kind: crud.Bool},
		},
		Columns: []crud.Column[Token]{
			{Title: "Token", Width: 16, Value: func(t Token, _ crud.Labeler) string { return t.Token }},
			{Title: "Tipo", Width: 10, Value: func(t Token, _ crud.Labeler) string { return t.TipoUsuario.Name() }},
			{Title: "Usos", Width: 8, Value: func(t Token, _ crud.Labeler) string {
				if t.UsosMaximos == 0 {
					return strconv.Itoa(t.UsosActuales) + "/∞"
				}
				return strconv.Itoa(t.UsosActuales) + "/" + strconv.Itoa(t.UsosMaximos)
			}},
			{Title: "Expira", Width: 10, Value: func(t Token, _ crud.Labeler) string { return t.Expiracion }},
			{Title: "Activo", Width: 6, Value: func(t Token, _ crud.Labeler) string {
				if t.Activo {
					return "sí"
				}
				return "no"
			}},
		},
		Fields: []crud.Field{
			{Name: "token", Label: "Token", Kind: crud.Text, Required: true},
			{Name: "tipoUsuario", Label: "Tipo de usuario", Kind: crud.Choice, Choices: UserTypes, Required: true},
			{Name: "usosMaximos", Label: "Usos máximos (0 = sin límite)", Kind: crud.Number, Default: "1"},
			{Name: "expiracion", Label: "Expiración", Kind: crud.Date},
		},
		NewForm: NewForm,
		Values:  Values,
		Actions: []crud.Action[Token]{
			{
				Name:    "desactivar",
				Label:   "Desactivar",
				Allowed: func(t Token) bool { return t.Activo },
			},
		},
	}
}
