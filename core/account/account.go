// Package account holds the login accounts of the sandbox backend.
package account

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/session"
)

const Collection = "cuentas"

type Account struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Nombre       string    `json:"nombre" db:"nombre"`
	Role         role.Role `json:"userType" db:"user_type"`
	PasswordHash []byte    `json:"passwordHash" db:"password_hash"`
	RefID        int       `json:"refId,omitempty" db:"ref_id"` // student or teacher record
	Active       bool      `json:"activo" db:"activo"`
}

func New(id int, email, nombre string, r role.Role, refID int) Account {
	return Account{
		ID:     id,
		Email:  core.CleanString(email, true),
		Nombre: nombre,
		Role:   r,
		RefID:  refID,
		Active: true,
	}
}

func (a *Account) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a Account) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

// User is the public identity returned on login.
func (a Account) User() session.User {
	return session.User{ID: a.ID, Nombre: a.Nombre, Email: a.Email, Role: a.Role}
}

// Find returns the account with email (case-insensitive) and role r.
func Find(accounts []Account, email string, r role.Role) (Account, bool) {
	email = core.CleanString(email, true)
	for _, a := range accounts {
		if a.Email == email && a.Role == r {
			return a, true
		}
	}
	return Account{}, false
}
