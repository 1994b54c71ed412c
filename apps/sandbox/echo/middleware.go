package echoapi

import (
	"regexp"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
)

const requestIDHeader = "X-Request-ID"

var validRequestID = regexp.MustCompile(`^[a-zA-Z0-9\-]{1,64}$`)

// requestIDMiddleware echoes the caller's X-Request-ID, or a fresh one when absent or unsafe.
func requestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id := ctx.Request().Header.Get(requestIDHeader)
		if !validRequestID.MatchString(id) {
			id = uuid.NewString()
		}
		ctx.Response().Header().Set(requestIDHeader, id)
		return next(ctx)
	}
}

// structValidator plugs core.Validator into echo.Context.Validate.
type structValidator struct {
	validator *core.Validator
}

func (v *structValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

// bindAndValidate binds the request body into data and validates it.
func bindAndValidate(ctx echo.Context, data interface{}, what string) error {
	if err := ctx.Bind(data); err != nil {
		return errors.Wrapf(err, "binding to %s", what)
	}
	return ctx.Validate(data)
}
