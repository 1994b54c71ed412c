package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/records"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/session"
)

var (
	errUnauthorized       = echo.NewHTTPError(http.StatusUnauthorized, "usuario no autenticado")
	errInvalidCredentials = echo.NewHTTPError(http.StatusUnauthorized, "Credenciales inválidas")
	errAccountDisabled    = echo.NewHTTPError(http.StatusForbidden, "Cuenta desactivada")
	errForbidden          = echo.NewHTTPError(http.StatusForbidden, "Acceso denegado")
	errNotFound           = echo.NewHTTPError(http.StatusNotFound, "Registro no encontrado")
	errTooManyAttempts    = echo.NewHTTPError(http.StatusTooManyRequests, "Demasiados intentos, espera un momento")
)

// conflict is a request rejected because of the current state of a record.
func conflict(msg string) error {
	return echo.NewHTTPError(http.StatusConflict, msg)
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// Messages are sent as {"message": ...}; validation errors as {field: message}.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		if errors.Cause(err) == records.ErrNotFound {
			err = errNotFound
		}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				message = origErr.FieldMap()
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			var usr session.User
			if claims, cErr := contextClaims(ctx); cErr == nil {
				usr = session.User{ID: claims.AccountID(), Nombre: claims.Nombre, Email: claims.Email, Role: claims.UserType}
			}
			logger.Error(msg, errors.Wrap(err, msg), usr)
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"message": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
