package api

import (
	"context"
	"net/http"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/registration"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/session"
)

const invalidCredentialsText = "Credenciales inválidas"

type loginRequest struct {
	Email    string    `json:"email"`
	Password string    `json:"password"`
	UserType role.Role `json:"userType"`
}

type loginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    session.User `json:"user"`
	Message string       `json:"message"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

var _ session.Authenticator = (*Client)(nil)

// Login implements session.Authenticator: POST /auth/login.
func (c *Client) Login(ctx context.Context, email, password string, r role.Role) (string, session.User, error) {
	var resp loginResponse
	req := loginRequest{Email: email, Password: password, UserType: r}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", req, &resp); err != nil {
		return "", session.User{}, err
	}
	if !resp.Success || resp.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = invalidCredentialsText
		}
		return "", session.User{}, &Error{Status: http.StatusOK, Message: msg}
	}
	return resp.Token, resp.User, nil
}

// Verify implements session.Authenticator: GET /auth/verify with token as bearer.
func (c *Client) Verify(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodGet, "/auth/verify", token, nil, nil)
}

// Register creates an account with a registration token: POST /auth/register.
func (c *Client) Register(ctx context.Context, form registration.Form) error {
	var resp statusResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", form, &resp); err != nil {
		return err
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = resp.Error
		}
		if msg == "" {
			msg = "No se pudo completar el registro"
		}
		return &Error{Status: http.StatusOK, Message: msg}
	}
	return nil
}
