package api

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
)

// self-service views, per role
var selfViews = map[role.Role][]string{
	role.Student: {"dashboard", "horario", "perfil", "prestamos", "repertorio"},
	role.Teacher: {"dashboard", "estudiantes", "asistencias", "evaluaciones", "progreso", "horario", "perfil"},
}

var ErrUnknownView = errors.New("vista desconocida")

// SelfViews lists the self-service views of r.
func SelfViews(r role.Role) []string {
	return append([]string(nil), selfViews[r]...)
}

// Self fetches a self-service view of the logged in user: GET /{role}/{view}.
// out is typically a map[string]interface{} or a []map[string]interface{}.
func (c *Client) Self(ctx context.Context, r role.Role, view string, out interface{}) error {
	for _, v := range selfViews[r] {
		if v == view {
			return c.Do(ctx, http.MethodGet, "/"+string(r)+"/"+view, nil, out)
		}
	}
	return errors.Wrapf(ErrUnknownView, "%s/%s", r, view)
}
