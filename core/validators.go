package core

import (
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	es_translations "github.com/go-playground/validator/v10/translations/es"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	// custom validation tags & texts
	rutTag  = "rut"
	rutText = "RUT inválido"

	notBlankTag  = "notblank"
	notBlankText = "este campo no puede estar vacío"

	gradeTag  = "grade"
	gradeText = "la nota debe estar entre 1.0 y 7.0"
	gradeMin  = 1.0
	gradeMax  = 7.0

	// overridden default texts
	requiredTag      = "required"
	requiredText     = "este campo es obligatorio"
	emailTag         = "email"
	emailText        = "debe ser un correo electrónico válido"
	minTag           = "min"
	minText          = "debe tener al menos {0} caracteres"
	gteTag           = "gte"
	gteText          = "debe ser mayor o igual a {0}"
	oneOfTag         = "oneof"
	oneOfText        = "debe ser uno de: {0}"
	datetimeTag      = "datetime"
	datetimeText     = "debe tener el formato AAAA-MM-DD"
	requiredWithTag  = "required_with"
	requiredWithText = requiredText
)

// Validator bundles a configured validator.Validate and its Spanish translator.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator returns a Validator with the core validators registered.
// Packages owning struct level validations register them with Register.
func NewValidator() *Validator {
	validate := validator.New()
	translator := NewTranslator()
	InitValidators(validate, translator)
	return &Validator{validate: validate, translator: translator}
}

func NewTranslator() ut.Translator {
	_es := es.New()
	uni := ut.New(_es, _es)
	translator, _ := uni.GetTranslator("es")
	return translator
}

func (v *Validator) Validate() *validator.Validate { return v.validate }
func (v *Validator) Translator() ut.Translator     { return v.translator }

// Register runs package level validator initializers against this Validator.
func (v *Validator) Register(inits ...func(*validator.Validate, ut.Translator)) *Validator {
	for _, init := range inits {
		init(v.validate, v.translator)
	}
	return v
}

// Struct validates s and converts validation failures into a *ValidationError with translated messages.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(err, "validating struct")
	}
	return v.Translate(vErrs)
}

// Translate converts validator.ValidationErrors into a *ValidationError.
func (v *Validator) Translate(vErrs validator.ValidationErrors) error {
	flds := make([]FieldError, 0, len(vErrs))
	for _, vErr := range vErrs {
		flds = append(flds, FieldError{Field: vErr.Field(), Error: vErr.Translate(v.translator)})
	}
	SortFieldErrors(flds)
	return NewValidationError(nil, flds...)
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = es_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// grades are decimals; validate them as floats
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	// register custom validators
	_ = validate.RegisterValidation(rutTag, rutValidation)
	RegisterCustomTranslation(validate, translator, rutTag, rutText)
	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	RegisterCustomTranslation(validate, translator, notBlankTag, notBlankText)
	_ = validate.RegisterValidation(gradeTag, gradeValidation)
	RegisterCustomTranslation(validate, translator, gradeTag, gradeText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredWithText, true)
	RegisterCustomTranslation(validate, translator, emailTag, emailText, true)
	RegisterCustomTranslation(validate, translator, datetimeTag, datetimeText, true)
	RegisterParamTranslation(validate, translator, minTag, minText, true)
	RegisterParamTranslation(validate, translator, gteTag, gteText, true)
	RegisterParamTranslation(validate, translator, oneOfTag, oneOfText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
// `{0}` in text is replaced by the field name.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	registerTranslation(validate, translator, tag, text, func(fe validator.FieldError) string { return fe.Field() }, override...)
}

// RegisterParamTranslation is like RegisterCustomTranslation, `{0}` being replaced by the tag's param.
func RegisterParamTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	registerTranslation(validate, translator, tag, text, func(fe validator.FieldError) string { return fe.Param() }, override...)
}

func registerTranslation(
	validate *validator.Validate,
	translator ut.Translator,
	tag, text string,
	param func(validator.FieldError) string,
	override ...bool,
) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, param(fe))
			return s
		},
	)
}

// Custom Global Validators

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func rutValidation(fl validator.FieldLevel) bool {
	return ValidRUT(fl.Field().String())
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func gradeValidation(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		g := fl.Field().Float()
		return g >= gradeMin && g <= gradeMax
	default:
		return false
	}
}

// NormalizeRUT strips dots, spaces and hyphens and uppercases the check digit: "12.345.678-k" -> "12345678K".
func NormalizeRUT(rut string) string {
	var b strings.Builder
	for _, r := range rut {
		if r == '.' || r == '-' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// FormatRUT renders a RUT as body-checkdigit: "12.345.678-k" -> "12345678-K".
func FormatRUT(rut string) string {
	rut = NormalizeRUT(rut)
	if len(rut) < 2 {
		return rut
	}
	return rut[:len(rut)-1] + "-" + rut[len(rut)-1:]
}

// ValidRUT checks a Chilean RUT (modulus 11 check digit).
func ValidRUT(rut string) bool {
	rut = NormalizeRUT(rut)
	if len(rut) < 2 || len(rut) > 9 {
		return false
	}
	body, dv := rut[:len(rut)-1], rut[len(rut)-1]
	n, err := strconv.Atoi(body)
	if err != nil || n <= 0 {
		return false
	}

	sum, mul := 0, 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * mul
		mul++
		if mul > 7 {
			mul = 2
		}
	}
	var want byte
	switch r := 11 - sum%11; r {
	case 11:
		want = '0'
	case 10:
		want = 'K'
	default:
		want = byte('0' + r)
	}
	return dv == want
}
