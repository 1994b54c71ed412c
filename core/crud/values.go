package crud

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
)

const (
	notIntText     = "debe ser un número entero"
	notDecimalText = "debe ser un número"
	notBoolText    = "debe ser sí o no"
)

// Parser converts raw form input into typed values, collecting conversion errors per field.
type Parser struct {
	values map[string]string
	errs   []core.FieldError
}

func NewParser(values map[string]string) *Parser {
	return &Parser{values: values}
}

func (p *Parser) String(name string) string {
	return core.CleanString(p.values[name])
}

// Lower is String, lowercased (eg. emails).
func (p *Parser) Lower(name string) string {
	return core.CleanString(p.values[name], true)
}

// Int parses an integer; empty input is 0.
func (p *Parser) Int(name string) int {
	if v := p.OptionalInt(name); v != nil {
		return *v
	}
	return 0
}

// OptionalInt parses an integer; empty input is nil.
func (p *Parser) OptionalInt(name string) *int {
	raw := p.String(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(name, notIntText)
		return nil
	}
	return &v
}

// Decimal parses a decimal number, accepting a comma as decimal separator ("5,5").
func (p *Parser) Decimal(name string) decimal.Decimal {
	raw := strings.Replace(p.String(name), ",", ".", 1)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		p.fail(name, notDecimalText)
		return decimal.Zero
	}
	return d
}

func (p *Parser) Bool(name string) bool {
	switch p.Lower(name) {
	case "", "false", "0", "no", "n":
		return false
	case "true", "1", "si", "sí", "s", "yes", "y":
		return true
	default:
		p.fail(name, notBoolText)
		return false
	}
}

// Err returns the conversion errors as a *core.ValidationError, or nil.
func (p *Parser) Err() error {
	if len(p.errs) == 0 {
		return nil
	}
	core.SortFieldErrors(p.errs)
	return core.NewValidationError(nil, p.errs...)
}

func (p *Parser) fail(name, msg string) {
	p.errs = append(p.errs, core.FieldError{Field: name, Error: msg})
}

// FormatInt renders optional ints for form values.
func FormatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// FormatBool renders bools for form values.
func FormatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
