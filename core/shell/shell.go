// Package shell picks the layout variant mounted for the logged in user.
//
// Unlike the navigation context, which falls back to the administrator configuration,
// no shell is selected without a session or for an unknown role.
package shell

import (
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/session"
)

// Shell is one of Admin, Teacher or Student.
type Shell interface {
	Role() role.Role
	Home() string
	isShell()
}

type SessionSource interface {
	Current() (session.Session, bool)
}

// Admin shell: entity management screens and quick actions.
type Admin struct {
	User         session.User
	QuickActions []role.Item
}

// Teacher shell: assigned students, attendance, evaluations.
type Teacher struct {
	User session.User
}

// Student shell: own schedule, loans and repertoire.
type Student struct {
	User session.User
}

func (Admin) Role() role.Role   { return role.Admin }
func (Teacher) Role() role.Role { return role.Teacher }
func (Student) Role() role.Role { return role.Student }

func (s Admin) Home() string   { return role.DashboardPath(s.Role()) }
func (s Teacher) Home() string { return role.DashboardPath(s.Role()) }
func (s Student) Home() string { return role.DashboardPath(s.Role()) }

func (Admin) isShell()   {}
func (Teacher) isShell() {}
func (Student) isShell() {}

// Select returns the shell of the current session. ok is false when nothing must be rendered.
func Select(sessions SessionSource) (sh Shell, ok bool) {
	sess, ok := sessions.Current()
	if !ok {
		return nil, false
	}
	return For(sess.User)
}

// For returns the shell of usr's role.
func For(usr session.User) (Shell, bool) {
	switch usr.Role {
	case role.Admin:
		return Admin{User: usr, QuickActions: quickActions()}, true
	case role.Teacher:
		return Teacher{User: usr}, true
	case role.Student:
		return Student{User: usr}, true
	default:
		return nil, false
	}
}

// Visit calls the function matching sh's variant.
func Visit[T any](sh Shell, admin func(Admin) T, teacher func(Teacher) T, student func(Student) T) T {
	switch s := sh.(type) {
	case Admin:
		return admin(s)
	case Teacher:
		return teacher(s)
	case Student:
		return student(s)
	default:
		panic("shell: unknown variant")
	}
}

// the administrator's shortcuts: every "create" target of the management screens
func quickActions() []role.Item {
	paths := []string{
		"/admin/estudiantes",
		"/admin/profesores",
		"/admin/prestamos",
		"/admin/tokens",
	}
	menu := role.ConfigFor(role.Admin).Menu
	items := make([]role.Item, 0, len(paths))
	for _, p := range paths {
		if it, ok := menu.Find(p); ok {
			items = append(items, it)
		}
	}
	return items
}
