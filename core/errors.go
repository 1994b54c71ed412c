package core

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	if len(err.Fields) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(err.Fields))
	for _, fe := range err.Fields {
		msgs = append(msgs, fe.Field+": "+fe.Error)
	}
	return strings.Join(msgs, "; ")
}

// FieldMap returns field errors keyed by field name.
func (err ValidationError) FieldMap() map[string]string {
	m := make(map[string]string, len(err.Fields))
	for _, fe := range err.Fields {
		m[fe.Field] = fe.Error
	}
	return m
}

// FieldErrors extracts per-field errors from a (possibly wrapped) *ValidationError.
func FieldErrors(err error) (map[string]string, bool) {
	if vErr, ok := errors.Cause(err).(*ValidationError); ok {
		return vErr.FieldMap(), true
	}
	return nil, false
}

// SortFieldErrors orders flds by field name.
func SortFieldErrors(flds []FieldError) {
	sort.SliceStable(flds, func(i, j int) bool { return flds[i].Field < flds[j].Field })
}

// ErrConnection is the generic, user facing error for any connectivity failure.
var ErrConnection = errors.New("Error de conexión con el servidor")

// IsConnectionError reports whether err is (or wraps) ErrConnection.
func IsConnectionError(err error) bool {
	return errors.Cause(err) == ErrConnection
}
