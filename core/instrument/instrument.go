// Package instrument holds the orchestra's instrument inventory.
package instrument

import (
	"strings"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
)

const Collection = "instrumentos"

type Availability string

// Availabilities
const (
	Available   Availability = "disponible"
	Lent        Availability = "prestado"
	Maintenance Availability = "mantenimiento"
	Retired     Availability = "baja"
)

var (
	Availabilities = []string{string(Available), string(Lent), string(Maintenance), string(Retired)}
	Conditions     = []string{"excelente", "bueno", "regular", "malo"}
	Types          = []string{"cuerda", "viento madera", "viento metal", "percusión", "teclado"}
)

type Instrument struct {
	ID             int          `json:"id" db:"id"`
	Nombre         string       `json:"nombre" db:"nombre"`
	Tipo           string       `json:"tipo" db:"tipo"`
	Marca          string       `json:"marca,omitempty" db:"marca"`
	Modelo         string       `json:"modelo,omitempty" db:"modelo"`
	NumeroSerie    string       `json:"numeroSerie" db:"numero_serie"`
	Condicion      string       `json:"condicion" db:"condicion"`
	Disponibilidad Availability `json:"disponibilidad" db:"disponibilidad"`
}

// Label is the instrument as shown in dropdowns: "Violín 4/4 (SN-001)".
func (i Instrument) Label() string {
	if i.NumeroSerie == "" {
		return i.Nombre
	}
	return i.Nombre + " (" + i.NumeroSerie + ")"
}

func (i Instrument) Available() bool { return i.Disponibilidad == Available }

type Form struct {
	Nombre         string       `json:"nombre" validate:"required,notblank"`
	Tipo           string       `json:"tipo" validate:"required,notblank"`
	Marca          string       `json:"marca,omitempty"`
	Modelo         string       `json:"modelo,omitempty"`
	NumeroSerie    string       `json:"numeroSerie" validate:"required,notblank"`
	Condicion      string       `json:"condicion" validate:"required,oneof=excelente bueno regular malo" jsonschema:"enum=excelente,enum=bueno,enum=regular,enum=malo"`
	Disponibilidad Availability `json:"disponibilidad,omitempty" validate:"omitempty,oneof=disponible prestado mantenimiento baja"`
}

func (f Form) Instrument(id int) Instrument {
	disp := f.Disponibilidad
	if disp == "" {
		disp = Available
	}
	return Instrument{
		ID:             id,
		Nombre:         f.Nombre,
		Tipo:           f.Tipo,
		Marca:          f.Marca,
		Modelo:         f.Modelo,
		NumeroSerie:    strings.ToUpper(f.NumeroSerie),
		Condicion:      f.Condicion,
		Disponibilidad: disp,
	}
}

// AvailabilityForm is the body of PATCH /disponibilidad.
type AvailabilityForm struct {
	Disponibilidad Availability `json:"disponibilidad" validate:"required,oneof=disponible prestado mantenimiento baja"`
}

func NewForm(values map[string]string) (interface{}, error) {
	p := crud.NewParser(values)
	f := Form{
		Nombre:         p.String("nombre"),
		Tipo:           p.Lower("tipo"),
		Marca:          p.String("marca"),
		Modelo:         p.String("modelo"),
		NumeroSerie:    p.String("numeroSerie"),
		Condicion:      p.Lower("condicion"),
		Disponibilidad: Availability(p.Lower("disponibilidad")),
	}
	return f, p.Err()
}

func Values(i Instrument) map[string]string {
	return map[string]string{
		"nombre":         i.Nombre,
		"tipo":           i.Tipo,
		"marca":          i.Marca,
		"modelo":         i.Modelo,
		"numeroSerie":    i.NumeroSerie,
		"condicion":      i.Condicion,
		"disponibilidad": string(i.Disponibilidad),
	}
}

// Match filters: q (name, brand, model or serial number), tipo, disponibilidad.
func Match(i Instrument, f crud.Filters) bool {
	return f.Contains("q", i.Nombre, i.Marca, i.Modelo, i.NumeroSerie) &&
		f.Equals("tipo", i.Tipo) &&
		f.Equals("disponibilidad", string(i.Disponibilidad))
}

// Option is the instrument as a dropdown entry; only available instruments are eligible.
func Option(i Instrument) crud.Option {
	return crud.Option{ID: i.ID, Label: i.Label(), Eligible: i.Available()}
}

func Schema(coll crud.Collection[Instrument]) crud.Schema[Instrument] {
	return crud.Schema[Instrument]{
		Entity:     Collection,
		Title:      "Instrumentos",
		Singular:   "Instrumento",
		Collection: coll,
		ID:         func(i Instrument) int { return i.ID },
		Describe:   Instrument.Label,
		Match:      Match,
		Filters: []crud.Field{
			{Name: "q", Label: "Buscar", Kind: crud.Text},
			{Name: "tipo", Label: "Tipo", Kind: crud.Choice, Choices: Types},
			{Name: "disponibilidad", Label: "Disponibilidad", Kind: crud.Choice, Choices: Availabilities},
		},
		Columns: []crud.Column[Instrument]{
			{Title: "Nombre", Width: 20, Value: func(i Instrument, _ crud.Labeler) string { return i.Nombre }},
			{Title: "Tipo", Width: 14, Value: func(i Instrument, _ crud.Labeler) string { return i.Tipo }},
			{Title: "Marca", Width: 12, Value: func(i Instrument, _ crud.Labeler) string { return i.Marca }},
			{Title: "N° serie", Width: 12, Value: func(i Instrument, _ crud.Labeler) string { return i.NumeroSerie }},
			{Title: "Condición", Width: 10, Value: func(i Instrument, _ crud.Labeler) string { return i.Condicion }},
			{Title: "Disponibilidad", Width: 14, Value: func(i Instrument, _ crud.Labeler) string { return string(i.Disponibilidad) }},
		},
		Fields: []crud.Field{
			{Name: "nombre", Label: "Nombre", Kind: crud.Text, Required: true},
			{Name: "tipo", Label: "Tipo", Kind: crud.Choice, Choices: Types, Required: true},
			{Name: "marca", Label: "Marca", Kind: crud.Text},
			{Name: "modelo", Label: "Modelo", Kind: crud.Text},
			{Name: "numeroSerie", Label: "N° de serie", Kind: crud.Text, Required: true},
			{Name: "condicion", Label: "Condición", Kind: crud.Choice, Choices: Conditions, Required: true, Default: "bueno"},
			{Name: "disponibilidad", Label: "Disponibilidad", Kind: crud.Choice, Choices: Availabilities, EditOnly: true},
		},
		NewForm: NewForm,
		Values:  Values,
		Actions: []crud.Action[Instrument]{
			{
				Name:  "disponibilidad",
				Label: "Cambiar disponibilidad",
				Args:  Availabilities,
				Body: func(_ Instrument, arg string) interface{} {
					return AvailabilityForm{Disponibilidad: Availability(arg)}
				},
			},
		},
	}
}
