package echoapi

import (
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/account"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
)

const tokenContextKey = "userToken"

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Email    string    `json:"email,omitempty"`
	Nombre   string    `json:"nombre,omitempty"`
	UserType role.Role `json:"userType"`
}

// AccountID is the id of the account the token was issued to.
func (c Claims) AccountID() int {
	id, _ := strconv.Atoi(c.Subject)
	return id
}

type authenticator struct {
	signingKey []byte
	expiration time.Duration
	issuer     string
}

func newAuthenticator(conf *core.Config) *authenticator {
	return &authenticator{
		signingKey: []byte(conf.Sandbox.SecretKey),
		expiration: conf.Sandbox.JWTExpirationDelta,
		issuer:     conf.AppName,
	}
}

func (a *authenticator) jwtConfig() middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    a.signingKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
	}
}

func (a *authenticator) claims(acc account.Account) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    a.issuer,
			Subject:   strconv.Itoa(acc.ID),
			ExpiresAt: now.Add(a.expiration).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email:    acc.Email,
		Nombre:   acc.Nombre,
		UserType: acc.Role,
	}
}

// GenerateToken generates a signed JWT token string for acc.
func (a *authenticator) GenerateToken(acc account.Account) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), a.claims(acc))
	ss, err := token.SignedString(a.signingKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func contextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// roleMiddleware restricts a group to tokens issued to accounts of role r.
func roleMiddleware(r role.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := contextClaims(ctx)
			if err != nil {
				return err
			}
			if claims.UserType != r {
				return errForbidden
			}
			return next(ctx)
		}
	}
}
