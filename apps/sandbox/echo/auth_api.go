package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/account"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/records"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/registration"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/regtoken"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/session"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/student"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/teacher"
)

var (
	errInvalidToken = core.NewValidationError(nil, core.FieldError{Field: "tokenRegistro", Error: "Token de registro inválido o expirado"})
	errEmailTaken   = core.NewValidationError(nil, core.FieldError{Field: "email", Error: "ya existe una cuenta con este email"})
)

type (
	LoginRequest struct {
		Email    string    `json:"email" validate:"required,email"`
		Password string    `json:"password" validate:"required"`
		UserType role.Role `json:"userType" validate:"required,oneof=administrador profesor estudiante"`
	}

	LoginResponse struct {
		Success bool         `json:"success"`
		Token   string       `json:"token"`
		User    session.User `json:"user"`
	}

	StatusResponse struct {
		Success bool   `json:"success"`
		Message string `json:"message,omitempty"`
	}

	VerifyResponse struct {
		Success bool         `json:"success"`
		User    session.User `json:"user"`
	}
)

type authAPI struct {
	auth *authenticator
	db   *records.DB
}

func registerAuthAPI(g *echo.Group, jwt, limit echo.MiddlewareFunc, auth *authenticator, deps *Deps) {
	api := authAPI{auth: auth, db: deps.DB}

	ag := g.Group("/auth")
	ag.POST("/login", api.login, limit)
	ag.POST("/register", api.register, limit)
	ag.GET("/verify", api.verify, jwt)
}

func (api *authAPI) login(ctx echo.Context) error {
	var data LoginRequest
	if err := bindAndValidate(ctx, &data, "LoginRequest"); err != nil {
		return err
	}

	accounts, err := api.db.Accounts.All(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying accounts")
	}
	acc, ok := account.Find(accounts, data.Email, data.UserType)
	if !ok || acc.CheckPassword(data.Password) != nil {
		return errInvalidCredentials
	}
	if !acc.Active {
		return errAccountDisabled
	}

	token, err := api.auth.GenerateToken(acc)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Success: true, Token: token, User: acc.User()})
}

func (api *authAPI) verify(ctx echo.Context) error {
	claims, err := contextClaims(ctx)
	if err != nil {
		return err
	}
	acc, err := api.db.Accounts.Get(ctx.Request().Context(), claims.AccountID())
	if err != nil {
		if errors.Cause(err) == records.ErrNotFound {
			return errUnauthorized
		}
		return errors.Wrap(err, "finding account")
	}
	if !acc.Active || acc.Role != claims.UserType {
		return errUnauthorized
	}
	return ctx.JSON(http.StatusOK, VerifyResponse{Success: true, User: acc.User()})
}

func (api *authAPI) register(ctx echo.Context) error {
	var data registration.Form
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to registration.Form")
	}
	// the confirmation is checked by the client and never sent
	data.ConfirmPassword = data.Password
	data.Email = core.CleanString(data.Email, true)
	if err := ctx.Validate(&data); err != nil {
		return err
	}

	c := ctx.Request().Context()
	tokens, err := api.db.Tokens.All(c)
	if err != nil {
		return errors.Wrap(err, "querying tokens")
	}
	today := time.Now().Format("2006-01-02")
	tok, ok := findToken(tokens, data.TokenRegistro)
	if !ok || !tok.Usable(data.Role(), today) {
		return errInvalidToken
	}

	accounts, err := api.db.Accounts.All(c)
	if err != nil {
		return errors.Wrap(err, "querying accounts")
	}
	if _, exists := account.Find(accounts, data.Email, data.Role()); exists {
		return errEmailTaken
	}

	// consume the token first: a token used up concurrently must not create a record
	if _, err = api.db.Tokens.Update(c, tok.ID, func(t regtoken.Token) (regtoken.Token, error) {
		if !t.Usable(data.Role(), today) {
			return t, errInvalidToken
		}
		t.UsosActuales++
		return t, nil
	}); err != nil {
		return err
	}

	refID, nombre, err := api.createProfile(ctx, data)
	if err != nil {
		return err
	}
	if _, err = api.db.Accounts.Create(c, func(id int) (account.Account, error) {
		acc := account.New(id, data.Email, nombre, data.Role(), refID)
		return acc, acc.SetPassword(data.Password)
	}); err != nil {
		return errors.Wrap(err, "creating account")
	}

	return ctx.JSON(http.StatusCreated, StatusResponse{Success: true, Message: "Registro exitoso"})
}

// createProfile creates the student or teacher record of a registration.
func (api *authAPI) createProfile(ctx echo.Context, data registration.Form) (int, string, error) {
	c := ctx.Request().Context()
	switch data.Role() {
	case role.Student:
		s, err := api.db.Students.Create(c, func(id int) (student.Student, error) {
			return data.Student(id, time.Now().Year()), nil
		})
		return s.ID, s.FullName(), errors.Wrap(err, "creating student")
	case role.Teacher:
		t, err := api.db.Teachers.Create(c, func(id int) (teacher.Teacher, error) {
			return data.Teacher(id), nil
		})
		return t.ID, t.FullName(), errors.Wrap(err, "creating teacher")
	}
	return 0, "", errForbidden
}

func findToken(tokens []regtoken.Token, value string) (regtoken.Token, bool) {
	value = core.CleanString(value)
	for _, t := range tokens {
		if t.Token == value {
			return t, true
		}
	}
	return regtoken.Token{}, false
}
