// Package session holds the authenticated identity and its credential, persisted in local storage.
package session

import (
	"strconv"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
)

// storage keys
const (
	TokenKey = "token"
	UserKey  = "user"
)

type User struct {
	ID     int       `json:"id"`
	Nombre string    `json:"nombre"`
	Email  string    `json:"email"`
	Role   role.Role `json:"userType"`
}

// RollbarPerson identifies the user in error reports.
func (u User) RollbarPerson() (id, username, email string) {
	return strconv.Itoa(u.ID), u.Nombre, u.Email
}

// Session is the authenticated identity plus its opaque credential.
type Session struct {
	User  User
	Token string
}
